// Package alloc provides a tagged arena that owns every record the collector
// allocates dynamically. Blocks are addressed through generation-checked
// handles, so a stale or foreign handle can never reach another block's
// memory: freeing or resizing it is refused instead.
package alloc

import (
	"errors"
	"sync"
)

// Magic is stamped on every live block. A block without it is either free or
// was never handed out by this arena.
const Magic uint32 = 0x4d41524b // "MARK"

var (
	ErrNoMemory = errors.New("alloc: out of memory")
	ErrBadSize  = errors.New("alloc: invalid block size")
)

// A Ref is a handle to a block in an Arena. The zero Ref refers to nothing.
type Ref struct {
	idx uint32 // slot index + 1
	gen uint32
}

// IsNil returns true if the ref does not refer to any block.
func (r Ref) IsNil() bool {
	return r.idx == 0
}

type slot[T any] struct {
	tag  uint32
	gen  uint32
	data []T
}

// An Arena hands out zero-filled blocks of T. The element limit plays the
// role of the system allocator running dry: once it is reached, Alloc fails.
type Arena[T any] struct {
	mu    sync.Mutex
	slots []*slot[T]
	free  []uint32
	limit int
	live  int
}

// NewArena returns an arena that holds at most limit live elements. A limit
// of 0 means no limit.
func NewArena[T any](limit int) *Arena[T] {
	return &Arena[T]{
		limit: limit,
	}
}

func (a *Arena[T]) fits(n int) bool {
	return a.limit == 0 || a.live+n <= a.limit
}

// Alloc allocates a block of n zeroed elements.
func (a *Arena[T]) Alloc(n int) (Ref, error) {
	if n <= 0 {
		return Ref{}, ErrBadSize
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.fits(n) {
		return Ref{}, ErrNoMemory
	}

	var idx uint32
	if len(a.free) > 0 {
		idx = a.free[len(a.free)-1]
		a.free = a.free[:len(a.free)-1]
	} else {
		a.slots = append(a.slots, &slot[T]{})
		idx = uint32(len(a.slots) - 1)
	}

	s := a.slots[idx]
	s.tag = Magic
	s.data = make([]T, n)
	a.live += n

	return Ref{idx: idx + 1, gen: s.gen}, nil
}

// lookup returns the live slot for r. The caller must hold a.mu.
func (a *Arena[T]) lookup(r Ref) (*slot[T], bool) {
	if r.IsNil() || int(r.idx) > len(a.slots) {
		return nil, false
	}
	s := a.slots[r.idx-1]
	if s.tag != Magic || s.gen != r.gen {
		return nil, false
	}
	return s, true
}

// Get returns the payload of the block r refers to. Element pointers stay
// valid until the block is freed or resized.
func (a *Arena[T]) Get(r Ref) ([]T, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	s, ok := a.lookup(r)
	if !ok {
		return nil, false
	}
	return s.data, true
}

// Size returns the element count of the block r refers to, or 0.
func (a *Arena[T]) Size(r Ref) int {
	a.mu.Lock()
	defer a.mu.Unlock()

	s, ok := a.lookup(r)
	if !ok {
		return 0
	}
	return len(s.data)
}

// Free zero-fills and releases the block *ref refers to, then clears *ref.
// A nil ref is a no-op. A ref whose tag or generation does not match a live
// block is refused and left untouched; Free reports whether it released
// anything.
func (a *Arena[T]) Free(ref *Ref) bool {
	if ref == nil || ref.IsNil() {
		return false
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	s, ok := a.lookup(*ref)
	if !ok {
		logger.Debug().Uint32("slot", ref.idx-1).Uint32("gen", ref.gen).Msg("refusing free of untagged block")
		return false
	}

	clear(s.data)
	a.live -= len(s.data)
	s.data = nil
	s.tag = 0
	s.gen++
	a.free = append(a.free, ref.idx-1)

	*ref = Ref{}
	return true
}

// Resize grows (delta > 0) or shrinks (delta < 0) the block *ref refers to
// by delta elements and rewires *ref to the resized block. It fails if
// |delta| exceeds the current size, if the ref is not live, or if growing
// would exceed the arena limit. On failure the original block is untouched.
func (a *Arena[T]) Resize(ref *Ref, delta int) bool {
	if ref == nil || ref.IsNil() {
		return false
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	s, ok := a.lookup(*ref)
	if !ok {
		logger.Debug().Uint32("slot", ref.idx-1).Uint32("gen", ref.gen).Msg("refusing resize of untagged block")
		return false
	}

	size := len(s.data)
	mag := delta
	if mag < 0 {
		mag = -mag
	}
	if mag > size {
		return false
	}
	if delta > 0 && !a.fits(delta) {
		return false
	}

	data := make([]T, size+delta)
	copy(data, s.data)
	clear(s.data)
	s.data = data
	a.live += delta

	// the block moved, so handles to the old one must go stale
	s.gen++
	ref.gen = s.gen
	return true
}

// Live returns the number of live elements across all blocks.
func (a *Arena[T]) Live() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.live
}
