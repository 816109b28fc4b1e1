//go:build linux && amd64

// Package ptrace wraps the ptrace calls the engine needs for one traced
// thread.
package ptrace

import (
	"golang.org/x/sys/unix"
)

// A Tracer issues ptrace requests against a single thread.
type Tracer struct {
	tid int
}

func NewTracer(tid int) *Tracer {
	return &Tracer{
		tid: tid,
	}
}

// SetOptions changes the ptrace options.
func (t *Tracer) SetOptions(options int) error {
	return unix.PtraceSetOptions(t.tid, options)
}

// EventMsg returns the message of the last ptrace event stop, e.g. the new
// thread id after PTRACE_EVENT_CLONE or the exit status after
// PTRACE_EVENT_EXIT.
func (t *Tracer) EventMsg() (uint, error) {
	return unix.PtraceGetEventMsg(t.tid)
}

// Step executes a single instruction, delivering sig if non-zero.
func (t *Tracer) Step(sig unix.Signal) error {
	_, _, errno := unix.Syscall6(unix.SYS_PTRACE, unix.PTRACE_SINGLESTEP, uintptr(t.tid), 0, uintptr(sig), 0, 0)
	if errno == 0 {
		return nil
	}
	return errno
}

// PC returns the thread's instruction pointer.
func (t *Tracer) PC() (uint64, error) {
	var regs unix.PtraceRegs
	if err := unix.PtraceGetRegs(t.tid, &regs); err != nil {
		return 0, err
	}
	return regs.PC(), nil
}

// PeekText reads up to len(data) bytes of the tracee's memory at addr. It
// stops at the first unreadable word and returns how much was read.
func (t *Tracer) PeekText(addr uintptr, data []byte) (int, error) {
	var nread int
	for nread < len(data) {
		n, err := unix.PtracePeekText(t.tid, addr+uintptr(nread), data[nread:])
		if n == 0 || err != nil {
			return nread, err
		}
		nread += n
	}
	return nread, nil
}

// Detach stops tracing the thread and lets it run, delivering sig if
// non-zero.
func (t *Tracer) Detach(sig unix.Signal) error {
	_, _, errno := unix.Syscall6(unix.SYS_PTRACE, unix.PTRACE_DETACH, uintptr(t.tid), 0, uintptr(sig), 0, 0)
	if errno == 0 {
		return nil
	}
	return errno
}
