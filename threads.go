package rangecov

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/zyedidia/rangecov/alloc"
	"github.com/zyedidia/rangecov/engine"
	"github.com/zyedidia/rangecov/list"
)

var ErrInvalidThread = errors.New("invalid thread id")

// A ThreadContext holds the in-progress range of one instrumented thread.
// Only the owning thread touches cur once the context is bound.
type ThreadContext struct {
	TID    engine.ThreadID
	active atomic.Bool
	cur    *Range
	ref    alloc.Ref
}

// Active returns false once the thread has finished.
func (tc *ThreadContext) Active() bool {
	return tc.active.Load()
}

// Current returns the thread's in-progress range.
func (tc *ThreadContext) Current() *Range {
	return tc.cur
}

func (tc *ThreadContext) advance(c *Collector, addr uint64, size uint32, mid uint16, g engine.Granularity) {
	c.coalesce(&tc.cur, addr, size, mid, g)
}

// The fallback cursor for events from threads without a context. Several
// such threads may share it, so it is locked.
type globalCursor struct {
	mu  sync.Mutex
	cur *Range
}

func (gc *globalCursor) advance(c *Collector, addr uint64, size uint32, mid uint16, g engine.Granularity) {
	gc.mu.Lock()
	c.coalesce(&gc.cur, addr, size, mid, g)
	gc.mu.Unlock()
}

type cursor interface {
	advance(c *Collector, addr uint64, size uint32, mid uint16, g engine.Granularity)
}

type threadManager struct {
	arena *alloc.Arena[ThreadContext]
	ctxs  *list.List[*ThreadContext]
	// per-thread slot: the lookup path for the producing thread
	slots sync.Map
}

func newThreadManager(arena *alloc.Arena[ThreadContext]) *threadManager {
	return &threadManager{
		arena: arena,
		ctxs:  list.New[*ThreadContext](),
	}
}

// start allocates and binds a context for tid and gives it its first empty
// range. A context still active under tid is finished first, so at most one
// context per tid is active. On error the thread has no context.
func (m *threadManager) start(tid engine.ThreadID, first func() (*Range, error)) (*ThreadContext, error) {
	if tid < 0 {
		return nil, ErrInvalidThread
	}
	m.finish(tid)

	ref, err := m.arena.Alloc(1)
	if err != nil {
		return nil, err
	}
	recs, _ := m.arena.Get(ref)
	tc := &recs[0]
	tc.TID = tid
	tc.ref = ref

	r, err := first()
	if err != nil {
		m.arena.Free(&ref)
		return nil, err
	}
	tc.cur = r
	tc.active.Store(true)

	m.ctxs.InsertTail(tc)
	m.slots.Store(tid, tc)
	return tc, nil
}

// finish marks the active context for tid as finished. Its ranges stay
// valid for output.
func (m *threadManager) finish(tid engine.ThreadID) (*ThreadContext, bool) {
	tc, ok := m.byID(tid)
	if !ok {
		return nil, false
	}
	tc.active.Store(false)
	return tc, true
}

// byID scans the context list for the active context of tid.
func (m *threadManager) byID(tid engine.ThreadID) (*ThreadContext, bool) {
	var found *ThreadContext
	m.ctxs.Each(func(tc *ThreadContext) bool {
		if tc.TID == tid && tc.Active() {
			found = tc
			return false
		}
		return true
	})
	return found, found != nil
}

// slot returns the bound context for the producing thread.
func (m *threadManager) slot(tid engine.ThreadID) (*ThreadContext, bool) {
	v, ok := m.slots.Load(tid)
	if !ok {
		return nil, false
	}
	tc := v.(*ThreadContext)
	if !tc.Active() {
		return nil, false
	}
	return tc, true
}

func (m *threadManager) len() int {
	return m.ctxs.Len()
}

func (m *threadManager) close() {
	m.ctxs.DestroyAll(func(tc *ThreadContext) {
		m.slots.Delete(tc.TID)
		ref := tc.ref
		tc.cur = nil
		m.arena.Free(&ref)
	})
}
