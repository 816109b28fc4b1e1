// Package engine defines the contract between an instrumentation engine and
// the coverage collector, and provides a ptrace-based engine for linux/amd64.
//
// An engine reports module loads, thread lifetimes and execution events to a
// Handler. Execution events are delivered synchronously on the executing
// thread (or, for the ptrace engine, on the tracer thread in the order the
// tracee executed them).
package engine

import "errors"

var ErrUnsupported = errors.New("engine: unsupported platform")

// A ThreadID identifies an instrumented thread.
type ThreadID int

// InvalidThread is never assigned to a live thread.
const InvalidThread ThreadID = -1

// Granularity is the capture precision of execution events.
type Granularity int

const (
	// Instruction events are delivered once per executed instruction.
	Instruction Granularity = iota
	// Block events are delivered once per executed basic block.
	Block
)

func (g Granularity) String() string {
	switch g {
	case Instruction:
		return "full"
	case Block:
		return "reduced"
	}
	return "unknown"
}

// A Handler consumes engine notifications.
type Handler interface {
	// ModuleLoaded is called once per loaded image. main is true for the
	// main executable.
	ModuleLoaded(base, end uint64, id uint16, path string, main bool)
	ThreadStarted(tid ThreadID)
	ThreadFinished(tid ThreadID)
	// Executed is called for every executed instruction or block.
	Executed(tid ThreadID, addr uint64, size uint32, g Granularity)
	// Exited is called once, after the last Executed call.
	Exited(code int)
}

// A Resolver maps an address to the id of the image containing it.
type Resolver interface {
	ModuleOf(addr uint64) (uint16, bool)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(addr uint64) (uint16, bool)

// ModuleOf calls f(addr).
func (f ResolverFunc) ModuleOf(addr uint64) (uint16, bool) {
	return f(addr)
}
