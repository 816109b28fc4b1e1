package covfile

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/dustin/go-humanize"
)

// ModuleStats aggregates the entries of one module.
type ModuleStats struct {
	ID     uint16
	Path   string
	Ranges int
	Bytes  uint64
	Insts  uint64
	// Lowest and highest covered offsets.
	Low, High uint32
}

// Summary is per-module coverage, in module table order.
type Summary []ModuleStats

// Summarize aggregates f's entries per module. Modules without entries are
// included with zero counts.
func Summarize(f *File) Summary {
	idx := make(map[uint16]int, len(f.Modules))
	s := make(Summary, 0, len(f.Modules))
	for _, m := range f.Modules {
		if _, ok := idx[m.ID]; ok {
			continue
		}
		idx[m.ID] = len(s)
		s = append(s, ModuleStats{ID: m.ID, Path: m.Path})
	}

	for _, e := range f.Entries {
		i, ok := idx[e.ModuleID]
		if !ok {
			continue
		}
		ms := &s[i]
		if ms.Ranges == 0 || e.Offset < ms.Low {
			ms.Low = e.Offset
		}
		if hi := e.Offset + uint32(e.Size); hi > ms.High {
			ms.High = hi
		}
		ms.Ranges++
		ms.Bytes += uint64(e.Size)
		ms.Insts += uint64(e.InstCount)
	}
	return s
}

// SortKeys are the columns a summary can be sorted by.
var SortKeys = []string{"ranges", "bytes", "instructions", "id"}

// Sort orders the summary by key, descending unless reverse is set. Unknown
// keys leave the order unchanged.
func (s Summary) Sort(key string, reverse bool) {
	var less func(a, b ModuleStats) bool
	switch key {
	case "ranges":
		less = func(a, b ModuleStats) bool { return a.Ranges < b.Ranges }
	case "bytes":
		less = func(a, b ModuleStats) bool { return a.Bytes < b.Bytes }
	case "instructions":
		less = func(a, b ModuleStats) bool { return a.Insts < b.Insts }
	case "id":
		less = func(a, b ModuleStats) bool { return a.ID < b.ID }
	default:
		return
	}

	sort.SliceStable(s, func(i, j int) bool {
		if reverse {
			return less(s[i], s[j])
		}
		return less(s[j], s[i])
	})
}

var summaryColumns = []Column{
	{Name: "id", Kind: Number},
	{Name: "module", Kind: Path},
	{Name: "ranges", Kind: Number},
	{Name: "covered", Kind: Number},
	{Name: "instructions", Kind: Number},
	{Name: "span"},
}

// Total sums the summary over all modules.
func (s Summary) Total() ModuleStats {
	var t ModuleStats
	for _, ms := range s {
		t.Ranges += ms.Ranges
		t.Bytes += ms.Bytes
		t.Insts += ms.Insts
	}
	return t
}

// Render writes one row per module and a totals row through tw. Counts are
// humanized unless raw is set.
func (s Summary) Render(tw TableWriter, raw bool) error {
	bytes := humanize.Bytes
	count := func(n uint64) string { return humanize.Comma(int64(n)) }
	if raw {
		bytes = func(n uint64) string { return strconv.FormatUint(n, 10) }
		count = bytes
	}

	tw.Columns(summaryColumns)
	for _, ms := range s {
		span := "-"
		if ms.Ranges > 0 {
			span = fmt.Sprintf("+0x%x-+0x%x", ms.Low, ms.High)
		}
		tw.Row([]string{
			strconv.Itoa(int(ms.ID)),
			ms.Path,
			strconv.Itoa(ms.Ranges),
			bytes(ms.Bytes),
			count(ms.Insts),
			span,
		})
	}

	t := s.Total()
	tw.Totals([]string{"", fmt.Sprintf("%d modules", len(s)), strconv.Itoa(t.Ranges), bytes(t.Bytes), count(t.Insts), ""})
	return tw.Flush()
}

var entryColumns = []Column{
	{Name: "module", Kind: Path},
	{Name: "offset", Kind: Number},
	{Name: "address", Kind: Number},
	{Name: "size", Kind: Number},
	{Name: "instructions", Kind: Number},
}

// RenderEntries writes every entry of f through tw, with absolute addresses
// resolved against the module table. Entries of unknown modules show "?".
func RenderEntries(f *File, tw TableWriter) error {
	tw.Columns(entryColumns)
	var size, insts uint64
	for _, e := range f.Entries {
		name, addr := "?", "-"
		if m, ok := f.Module(e.ModuleID); ok {
			name = m.Path
			addr = fmt.Sprintf("0x%x", m.Base+uint64(e.Offset))
		}
		tw.Row([]string{
			name,
			fmt.Sprintf("0x%x", e.Offset),
			addr,
			strconv.Itoa(int(e.Size)),
			strconv.FormatUint(uint64(e.InstCount), 10),
		})
		size += uint64(e.Size)
		insts += uint64(e.InstCount)
	}
	tw.Totals([]string{fmt.Sprintf("%d entries", len(f.Entries)), "", "", strconv.FormatUint(size, 10), strconv.FormatUint(insts, 10)})
	return tw.Flush()
}
