package rangecov

import (
	"github.com/zyedidia/rangecov/alloc"
	"github.com/zyedidia/rangecov/engine"
	"github.com/zyedidia/rangecov/modules"
)

// A Range is a maximal contiguous span of executed addresses attributed to a
// single module. End == Start + Size always holds. A Start of 0 marks a range
// that has not seen its first event yet.
type Range struct {
	Start     uint64
	End       uint64
	Size      uint64
	ModuleID  uint16
	InstCount uint32

	ref alloc.Ref
}

// Initialized returns true once the range has received its first event.
func (r *Range) Initialized() bool {
	return r.Start != 0
}

func (r *Range) init(addr uint64, size uint32, mid uint16, g engine.Granularity) {
	r.Start = addr
	r.End = addr + uint64(size)
	r.Size = uint64(size)
	r.ModuleID = mid
	// a block may hold many instructions, so block events leave the
	// instruction counter alone
	if g == engine.Instruction {
		r.InstCount = 1
	}
}

func (r *Range) extend(size uint32, g engine.Granularity) {
	r.Size += uint64(size)
	r.End += uint64(size)
	if g == engine.Instruction {
		r.InstCount++
	}
}

// newRange allocates an empty range and links it into the range list.
func (c *Collector) newRange() (*Range, error) {
	ref, err := c.rangeArena.Alloc(1)
	if err != nil {
		return nil, err
	}
	recs, _ := c.rangeArena.Get(ref)
	r := &recs[0]
	r.ref = ref

	c.ranges.InsertTail(r)
	return r, nil
}

// attribute resolves the module an event belongs to. It returns false if the
// event must be discarded.
func (c *Collector) attribute(addr uint64) (uint16, bool) {
	mid, ok := c.mods.Resolve(addr)
	if !ok {
		if c.cfg.TargetOnly {
			return 0, false
		}
		c.log.Debug().Str("addr", hex(addr)).Msg("instruction from unknown image")
		return modules.UnknownID, true
	}
	if c.cfg.TargetOnly && !c.mods.IsTarget(mid) {
		return 0, false
	}
	return mid, true
}

// cursorFor returns the cursor events from tid advance: the thread's own
// context, or the global fallback.
func (c *Collector) cursorFor(tid engine.ThreadID) cursor {
	if tc, ok := c.threads.slot(tid); ok {
		return tc
	}
	if _, seen := c.fallback.LoadOrStore(tid, struct{}{}); !seen {
		c.log.Debug().Int("tid", int(tid)).Msg("no thread context, using global range")
	}
	return &c.global
}

// Executed records one executed instruction or block. It implements
// engine.Handler and is safe to call concurrently from different threads.
func (c *Collector) Executed(tid engine.ThreadID, addr uint64, size uint32, g engine.Granularity) {
	cur := c.cursorFor(tid)

	mid, ok := c.attribute(addr)
	if !ok {
		return
	}

	cur.advance(c, addr, size, mid, g)
}

// coalesce folds one event into *cur. Only forward contiguity is exploited:
// an event that does not start exactly at the current range's end, or that
// belongs to another module, closes it and opens a new one. Closed ranges
// are never touched again.
func (c *Collector) coalesce(cur **Range, addr uint64, size uint32, mid uint16, g engine.Granularity) {
	r := *cur

	switch {
	case r != nil && !r.Initialized():
		r.init(addr, size, mid, g)
	case r != nil && addr == r.End && mid == r.ModuleID:
		r.extend(size, g)
	default:
		nr, err := c.newRange()
		if err != nil {
			c.log.Error().Err(err).Msg("there is no more room for a new trace range")
			c.fatal(ExitNoMemory)
			return
		}
		*cur = nr
		nr.init(addr, size, mid, g)
	}
}
