// Package covfile reads and writes DDPH coverage files.
//
// A coverage file starts with a text header and module table:
//
//	DDPH-PINTOOL
//	EntryCount: 3, ModuleCount: 1
//	Module table row names (left to right): Module Id,  Module Base, Module End, Module Path
//
//	MODULE_TABLE
//	1, 0x400000, 0x452000, /usr/bin/app
//
//	ENTRY_TABLE
//
// followed by fixed-size little-endian entries until the end of the file:
// a 4-byte offset from the module base, the 2-byte range size, the 2-byte
// module id and the 4-byte instruction count.
package covfile

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/zyedidia/rangecov/modules"
)

const (
	Magic      = "DDPH-PINTOOL"
	EntrySize  = 12
	rowNames   = "Module table row names (left to right): Module Id,  Module Base, Module End, Module Path"
	moduleHdr  = "MODULE_TABLE"
	entryHdr   = "ENTRY_TABLE"
	countsPfx  = "EntryCount:"
	countsForm = "EntryCount: %d, ModuleCount: %d"
)

var (
	ErrFormat    = errors.New("covfile: not a DDPH coverage file")
	ErrTruncated = errors.New("covfile: truncated entry")
)

// A Span is an address range as the collector holds it.
type Span struct {
	Start     uint64
	End       uint64
	ModuleID  uint16
	InstCount uint32
}

// An Entry is a range as stored in the file, relative to its module base.
type Entry struct {
	Offset    uint32
	Size      uint16
	ModuleID  uint16
	InstCount uint32
}

// A File is a parsed coverage file.
type File struct {
	// EntryCount is the number of ranges the collector held, including
	// those that were not written because their module was unknown.
	EntryCount  int
	ModuleCount int
	Modules     []modules.Module
	Entries     []Entry
}

// Module returns the module with the given id.
func (f *File) Module(id uint16) (*modules.Module, bool) {
	for i := range f.Modules {
		if f.Modules[i].ID == id {
			return &f.Modules[i], true
		}
	}
	return nil, false
}

// Write writes mods and spans to w. Spans whose module is not in mods are
// not written; those that were ever populated are returned.
func Write(w io.Writer, mods []modules.Module, spans []Span) ([]Span, error) {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, Magic)
	fmt.Fprintf(bw, countsForm+"\n", len(spans), len(mods))
	fmt.Fprintln(bw, rowNames)
	fmt.Fprintln(bw)
	fmt.Fprintln(bw, moduleHdr)

	byID := make(map[uint16]*modules.Module, len(mods))
	for i := range mods {
		m := &mods[i]
		fmt.Fprintf(bw, "%d, 0x%x, 0x%x, %s\n", m.ID, m.Base, m.End, m.Path)
		if _, ok := byID[m.ID]; !ok {
			byID[m.ID] = m
		}
	}

	fmt.Fprintf(bw, "\n%s\n", entryHdr)

	var skipped []Span
	var buf [EntrySize]byte
	for _, s := range spans {
		m, ok := byID[s.ModuleID]
		if !ok {
			if s.Start != 0 {
				skipped = append(skipped, s)
			}
			continue
		}

		binary.LittleEndian.PutUint32(buf[0:], uint32(s.Start-m.Base))
		binary.LittleEndian.PutUint16(buf[4:], uint16(s.End-s.Start))
		binary.LittleEndian.PutUint16(buf[6:], s.ModuleID)
		binary.LittleEndian.PutUint32(buf[8:], s.InstCount)
		if _, err := bw.Write(buf[:]); err != nil {
			return skipped, err
		}
	}

	return skipped, bw.Flush()
}

// Read parses a coverage file.
func Read(r io.Reader) (*File, error) {
	br := bufio.NewReader(r)

	line, err := readLine(br)
	if err != nil || !strings.HasPrefix(line, Magic) {
		return nil, ErrFormat
	}

	f := &File{}
	for {
		line, err = readLine(br)
		if err != nil {
			return nil, fmt.Errorf("covfile: reading header: %w", err)
		}

		switch {
		case strings.HasPrefix(line, countsPfx):
			if _, err := fmt.Sscanf(line, countsForm, &f.EntryCount, &f.ModuleCount); err != nil {
				return nil, fmt.Errorf("covfile: bad counts line %q: %w", line, err)
			}
		case strings.HasPrefix(line, moduleHdr):
			if err := readModules(br, f); err != nil {
				return nil, err
			}
		case strings.HasPrefix(line, entryHdr):
			return f, readEntries(br, f)
		}
	}
}

func readLine(br *bufio.Reader) (string, error) {
	line, err := br.ReadString('\n')
	if err == io.EOF && line != "" {
		err = nil
	}
	return strings.TrimRight(line, "\r\n"), err
}

func readModules(br *bufio.Reader, f *File) error {
	for len(f.Modules) < f.ModuleCount {
		line, err := readLine(br)
		if err != nil {
			return fmt.Errorf("covfile: reading module table: %w", err)
		}
		m, err := parseModule(line)
		if err != nil {
			return err
		}
		f.Modules = append(f.Modules, m)
	}
	return nil
}

func parseModule(line string) (modules.Module, error) {
	parts := strings.SplitN(line, ", ", 4)
	if len(parts) != 4 {
		return modules.Module{}, fmt.Errorf("covfile: bad module row %q", line)
	}

	id, err := strconv.ParseUint(parts[0], 10, 16)
	if err != nil {
		return modules.Module{}, fmt.Errorf("covfile: bad module id %q: %w", parts[0], err)
	}
	base, err := strconv.ParseUint(parts[1], 0, 64)
	if err != nil {
		return modules.Module{}, fmt.Errorf("covfile: bad module base %q: %w", parts[1], err)
	}
	end, err := strconv.ParseUint(parts[2], 0, 64)
	if err != nil {
		return modules.Module{}, fmt.Errorf("covfile: bad module end %q: %w", parts[2], err)
	}

	return modules.Module{
		ID:   uint16(id),
		Base: base,
		End:  end,
		Path: parts[3],
	}, nil
}

func readEntries(br *bufio.Reader, f *File) error {
	var buf [EntrySize]byte
	for {
		_, err := io.ReadFull(br, buf[:])
		if err == io.EOF {
			return nil
		} else if err == io.ErrUnexpectedEOF {
			return ErrTruncated
		} else if err != nil {
			return err
		}

		f.Entries = append(f.Entries, Entry{
			Offset:    binary.LittleEndian.Uint32(buf[0:]),
			Size:      binary.LittleEndian.Uint16(buf[4:]),
			ModuleID:  binary.LittleEndian.Uint16(buf[6:]),
			InstCount: binary.LittleEndian.Uint32(buf[8:]),
		})
	}
}
