package engine

// blockPeek is how many bytes are read ahead to size a basic block.
const blockPeek = 512

// A stepper turns the successive stops of one single-stepped thread into
// execution events.
type stepper struct {
	// last is the pc of the previous stop, next the fall-through address of
	// the previous instruction (0 after a branch).
	last, next uint64
	// end of the last reported block
	blockEnd uint64
}

// stop handles a stop at pc. peek returns up to n bytes of code at pc. It
// returns the size of the event to report, or false if the stop is covered
// by an earlier event.
func (s *stepper) stop(pc uint64, g Granularity, peek func(n int) []byte) (uint32, bool) {
	inst := Decode(peek(MaxInstLen))
	if inst.Repeat && pc == s.last {
		return 0, false
	}

	// a block sized from a truncated read ends early, so reaching its end
	// by falling through starts the next block
	blockStart := pc != s.next || pc == s.blockEnd
	s.last = pc
	s.next = pc + uint64(inst.Len)
	if inst.Branch {
		s.next = 0
	}

	if g == Instruction {
		return uint32(inst.Len), true
	}
	if !blockStart {
		return 0, false
	}
	n, _ := BlockLen(peek(blockPeek))
	if n == 0 {
		n = inst.Len
	}
	s.blockEnd = pc + uint64(n)
	return uint32(n), true
}
