package modules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zyedidia/rangecov/alloc"
	"github.com/zyedidia/rangecov/engine"
)

func TestAddFind(t *testing.T) {
	reg := NewRegistry(alloc.NewArena[Module](0), nil)

	m, err := reg.Add(0x1000, 0x2000, 1, "/bin/app")
	require.NoError(t, err)
	assert.Equal(t, Module{ID: 1, Base: 0x1000, End: 0x2000, Path: "/bin/app"}, *m)

	_, err = reg.Add(0x7f0000, 0x7f8000, 2, "/lib/libc.so.6")
	require.NoError(t, err)

	found, ok := reg.FindByID(2)
	require.True(t, ok)
	assert.Equal(t, "/lib/libc.so.6", found.Path)

	_, ok = reg.FindByID(3)
	assert.False(t, ok)

	assert.Equal(t, 2, reg.Len())
	snap := reg.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, uint16(1), snap[0].ID)
	assert.Equal(t, uint16(2), snap[1].ID)
}

func TestAddNoMemory(t *testing.T) {
	reg := NewRegistry(alloc.NewArena[Module](1), nil)

	_, err := reg.Add(0x1000, 0x2000, 1, "/bin/app")
	require.NoError(t, err)

	m, err := reg.Add(0x3000, 0x4000, 2, "/lib/x.so")
	assert.Nil(t, m)
	assert.ErrorIs(t, err, alloc.ErrNoMemory)
	assert.Equal(t, 1, reg.Len())
}

func TestTarget(t *testing.T) {
	reg := NewRegistry(alloc.NewArena[Module](0), nil)

	_, ok := reg.Target()
	assert.False(t, ok)
	assert.False(t, reg.IsTarget(0))

	reg.SetTarget(4)
	id, ok := reg.Target()
	assert.True(t, ok)
	assert.Equal(t, uint16(4), id)
	assert.True(t, reg.IsTarget(4))
	assert.False(t, reg.IsTarget(5))
}

func TestResolveDelegates(t *testing.T) {
	reg := NewRegistry(alloc.NewArena[Module](0), nil)

	_, ok := reg.Resolve(0x1000)
	assert.False(t, ok, "no resolver")

	var asked []uint64
	reg.SetResolver(engine.ResolverFunc(func(addr uint64) (uint16, bool) {
		asked = append(asked, addr)
		if addr >= 0x1000 && addr < 0x2000 {
			return 1, true
		}
		return 0, false
	}))

	id, ok := reg.Resolve(0x1010)
	assert.True(t, ok)
	assert.Equal(t, uint16(1), id)

	_, ok = reg.Resolve(0x2000)
	assert.False(t, ok)
	assert.Equal(t, []uint64{0x1010, 0x2000}, asked)
}

func TestClose(t *testing.T) {
	arena := alloc.NewArena[Module](0)
	reg := NewRegistry(arena, nil)
	reg.Add(0x1000, 0x2000, 1, "/bin/app")
	reg.Add(0x3000, 0x4000, 2, "/lib/x.so")
	assert.Equal(t, 2, arena.Live())

	reg.Close()
	assert.Equal(t, 0, arena.Live())
	assert.Equal(t, 0, reg.Len())
}
