package covfile

import (
	"bytes"
	"encoding/binary"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zyedidia/rangecov/modules"
)

var testMods = []modules.Module{
	{ID: 1, Base: 0x1000, End: 0x2000, Path: "/bin/app"},
	{ID: 2, Base: 0x7f0000, End: 0x7f8000, Path: "/lib/libc.so.6"},
}

func TestWriteLayout(t *testing.T) {
	spans := []Span{
		{Start: 0x1010, End: 0x1015, ModuleID: 1, InstCount: 2},
		{Start: 0x2000, End: 0x2001, ModuleID: modules.UnknownID, InstCount: 1},
		{Start: 0, End: 0, ModuleID: 0},
		{Start: 0x7f0100, End: 0x7f0140, ModuleID: 2},
	}

	var buf bytes.Buffer
	skipped, err := Write(&buf, testMods, spans)
	require.NoError(t, err)
	assert.Equal(t, []Span{spans[1]}, skipped, "unpopulated ranges are not reported")

	header := "DDPH-PINTOOL\n" +
		"EntryCount: 4, ModuleCount: 2\n" +
		"Module table row names (left to right): Module Id,  Module Base, Module End, Module Path\n" +
		"\n" +
		"MODULE_TABLE\n" +
		"1, 0x1000, 0x2000, /bin/app\n" +
		"2, 0x7f0000, 0x7f8000, /lib/libc.so.6\n" +
		"\n" +
		"ENTRY_TABLE\n"
	out := buf.Bytes()
	require.True(t, bytes.HasPrefix(out, []byte(header)), "got header:\n%s", out)

	records := out[len(header):]
	require.Len(t, records, 2*EntrySize)

	assert.Equal(t, uint32(0x10), binary.LittleEndian.Uint32(records[0:]))
	assert.Equal(t, uint16(5), binary.LittleEndian.Uint16(records[4:]))
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(records[6:]))
	assert.Equal(t, uint32(2), binary.LittleEndian.Uint32(records[8:]))

	second := records[EntrySize:]
	assert.Equal(t, uint32(0x100), binary.LittleEndian.Uint32(second[0:]))
	assert.Equal(t, uint16(0x40), binary.LittleEndian.Uint16(second[4:]))
	assert.Equal(t, uint16(2), binary.LittleEndian.Uint16(second[6:]))
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(second[8:]))
}

func TestWriteTruncatesSize(t *testing.T) {
	mods := []modules.Module{{ID: 1, Base: 0x400000, End: 0x500000, Path: "/bin/big"}}
	spans := []Span{{Start: 0x400000, End: 0x400000 + 0x10004, ModuleID: 1}}

	var buf bytes.Buffer
	_, err := Write(&buf, mods, spans)
	require.NoError(t, err)

	f, err := Read(&buf)
	require.NoError(t, err)
	require.Len(t, f.Entries, 1)
	assert.Equal(t, uint16(4), f.Entries[0].Size)
}

func TestRoundTrip(t *testing.T) {
	spans := []Span{
		{Start: 0x1010, End: 0x1015, ModuleID: 1, InstCount: 2},
		{Start: 0x7f0010, End: 0x7f0020, ModuleID: 2, InstCount: 7},
		{Start: 0x1100, End: 0x1180, ModuleID: 1},
	}

	var buf bytes.Buffer
	_, err := Write(&buf, testMods, spans)
	require.NoError(t, err)

	f, err := Read(&buf)
	require.NoError(t, err)

	assert.Equal(t, 3, f.EntryCount)
	assert.Equal(t, 2, f.ModuleCount)
	assert.Equal(t, testMods, f.Modules)
	assert.Equal(t, []Entry{
		{Offset: 0x10, Size: 5, ModuleID: 1, InstCount: 2},
		{Offset: 0x10, Size: 0x10, ModuleID: 2, InstCount: 7},
		{Offset: 0x100, Size: 0x80, ModuleID: 1},
	}, f.Entries)

	m, ok := f.Module(2)
	require.True(t, ok)
	assert.Equal(t, "/lib/libc.so.6", m.Path)
}

func TestReadPathWithComma(t *testing.T) {
	mods := []modules.Module{{ID: 3, Base: 0x10, End: 0x20, Path: "/tmp/a, b/app"}}

	var buf bytes.Buffer
	_, err := Write(&buf, mods, nil)
	require.NoError(t, err)

	f, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, mods, f.Modules)
	assert.Empty(t, f.Entries)
}

func TestReadErrors(t *testing.T) {
	_, err := Read(strings.NewReader("DRCOV VERSION: 2\n"))
	assert.ErrorIs(t, err, ErrFormat)

	_, err = Read(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrFormat)

	_, err = Read(strings.NewReader("DDPH-PINTOOL\nEntryCount: 1, ModuleCount: 1\nMODULE_TABLE\n"))
	assert.Error(t, err)

	_, err = Read(strings.NewReader("DDPH-PINTOOL\nEntryCount: 0, ModuleCount: 1\nMODULE_TABLE\nnot a row\n"))
	assert.Error(t, err)

	var buf bytes.Buffer
	_, err = Write(&buf, testMods, []Span{{Start: 0x1010, End: 0x1011, ModuleID: 1}})
	require.NoError(t, err)
	truncated := buf.Bytes()[:buf.Len()-3]
	_, err = Read(bytes.NewReader(truncated))
	assert.ErrorIs(t, err, ErrTruncated)
}
