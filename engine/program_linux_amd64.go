package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/prometheus/procfs"
	"golang.org/x/sys/unix"

	"github.com/zyedidia/rangecov/engine/ptrace"
)

type thread struct {
	stepper
	tracer *ptrace.Tracer
	// fresh threads have not reported their initial SIGSTOP yet
	fresh bool
}

// A Program is a traced process whose threads are single-stepped. Every stop
// is reported to the handler as an execution event.
//
// NOTE: ptrace requests must come from the thread that started the tracee.
// Call runtime.LockOSThread before Start and keep it locked until Run
// returns.
type Program struct {
	pid     int
	gran    Granularity
	handler Handler
	mods    *moduleMap
	threads map[int]*thread
	code    int
	buf     []byte
	// set once the run is cancelled: threads are let go as they stop
	detaching bool
}

// Start runs 'target args...' under ptrace and reports the images mapped at
// exec time. The tracee is stopped until Run is called.
func Start(target string, args []string, gran Granularity, h Handler) (*Program, error) {
	cmd := exec.Command(target, args...)
	cmd.Stdout = os.Stdout
	cmd.Stdin = os.Stdin
	cmd.Stderr = os.Stderr
	cmd.SysProcAttr = &unix.SysProcAttr{
		Ptrace: true,
	}
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	pid := cmd.Process.Pid

	var ws unix.WaitStatus
	if _, err := unix.Wait4(pid, &ws, 0, nil); err != nil {
		return nil, err
	}
	if !ws.Stopped() {
		return nil, fmt.Errorf("%s: no exec stop (status %#x)", target, ws)
	}

	tr := ptrace.NewTracer(pid)
	if err := tr.SetOptions(unix.PTRACE_O_TRACECLONE | unix.PTRACE_O_EXITKILL); err != nil {
		unix.Kill(pid, unix.SIGKILL)
		return nil, err
	}

	fs, err := procfs.NewDefaultFS()
	if err != nil {
		unix.Kill(pid, unix.SIGKILL)
		return nil, err
	}
	proc, err := fs.Proc(pid)
	if err != nil {
		unix.Kill(pid, unix.SIGKILL)
		return nil, err
	}

	p := &Program{
		pid:     pid,
		gran:    gran,
		handler: h,
		mods:    newModuleMap(&proc),
		threads: make(map[int]*thread),
		buf:     make([]byte, blockPeek),
	}
	added, err := p.mods.scan()
	if err != nil {
		unix.Kill(pid, unix.SIGKILL)
		return nil, err
	}
	p.announce(added)
	p.threads[pid] = &thread{tracer: tr}
	h.ThreadStarted(ThreadID(pid))

	logger.Debug().Int("pid", pid).Str("target", target).Stringer("granularity", gran).Msg("tracee started")
	return p, nil
}

// Resolver maps addresses to the ids passed to ModuleLoaded.
func (p *Program) Resolver() Resolver {
	return p.mods
}

// Pid returns the process id of the tracee.
func (p *Program) Pid() int {
	return p.pid
}

func (p *Program) announce(imgs []image) {
	for _, img := range imgs {
		logger.Debug().Str("path", img.path).Uint16("id", img.id).Msg("image mapped")
		p.handler.ModuleLoaded(img.base, img.end, img.id, img.path, img.main)
	}
}

// Run steps the tracee until every thread has exited and returns the exit
// code of the main thread. Once ctx is cancelled each thread is detached at
// its next stop and left running; the handler sees ThreadFinished for each
// and then Exited with code 0.
func (p *Program) Run(ctx context.Context) (int, error) {
	t := p.threads[p.pid]
	p.record(p.pid, t)
	if err := p.step(t, 0); err != nil {
		return 0, err
	}

	for len(p.threads) > 0 {
		if !p.detaching && ctx.Err() != nil {
			logger.Debug().Int("pid", p.pid).Msg("cancelled, detaching")
			p.detaching = true
		}

		var ws unix.WaitStatus
		wpid, err := unix.Wait4(-1, &ws, unix.WALL, nil)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if err != nil {
			return 0, err
		}
		if err := p.handle(wpid, ws); err != nil {
			return 0, err
		}
	}

	p.handler.Exited(p.code)
	if p.detaching {
		return p.code, ctx.Err()
	}
	return p.code, nil
}

func (p *Program) handle(tid int, ws unix.WaitStatus) error {
	t, ok := p.threads[tid]
	if !ok {
		// a new thread can report before its parent's clone event
		t = p.attach(tid)
	}

	switch {
	case ws.Exited() || ws.Signaled():
		delete(p.threads, tid)
		p.handler.ThreadFinished(ThreadID(tid))
		if tid == p.pid {
			if ws.Exited() {
				p.code = ws.ExitStatus()
			} else {
				p.code = 128 + int(ws.Signal())
			}
		}
		logger.Debug().Int("tid", tid).Msg("exited")
		return nil
	case !ws.Stopped():
		return nil
	}

	sig := ws.StopSignal()
	// the clone call has not finished; its pc is reported on the next stop
	clone := false
	switch {
	case sig == unix.SIGSTOP && t.fresh:
		t.fresh = false
		sig = 0
	case sig == unix.SIGTRAP && ws.TrapCause() == unix.PTRACE_EVENT_CLONE:
		msg, err := t.tracer.EventMsg()
		if err == nil {
			logger.Debug().Int("tid", tid).Uint("child", msg).Msg("clone")
			if _, ok := p.threads[int(msg)]; !ok {
				p.attach(int(msg))
			}
		}
		clone = true
		sig = 0
	case sig == unix.SIGTRAP:
		sig = 0
	default:
		logger.Debug().Int("tid", tid).Stringer("signal", sig).Msg("signal")
	}

	if p.detaching {
		return p.detach(tid, t, sig)
	}
	if !clone {
		p.record(tid, t)
	}
	return p.step(t, sig)
}

// detach lets a stopped thread go, delivering sig.
func (p *Program) detach(tid int, t *thread, sig unix.Signal) error {
	delete(p.threads, tid)
	p.handler.ThreadFinished(ThreadID(tid))
	err := t.tracer.Detach(sig)
	if errors.Is(err, unix.ESRCH) {
		return nil
	}
	return err
}

func (p *Program) attach(tid int) *thread {
	t := &thread{
		tracer: ptrace.NewTracer(tid),
		fresh:  true,
	}
	p.threads[tid] = t
	p.handler.ThreadStarted(ThreadID(tid))
	return t
}

func (p *Program) step(t *thread, sig unix.Signal) error {
	err := t.tracer.Step(sig)
	if errors.Is(err, unix.ESRCH) {
		// exited while stopped; wait reports it
		return nil
	}
	return err
}

// record reports the instruction t is stopped at.
func (p *Program) record(tid int, t *thread) {
	pc, err := t.tracer.PC()
	if err != nil {
		return
	}
	size, ok := t.stop(pc, p.gran, func(n int) []byte {
		n, _ = t.tracer.PeekText(uintptr(pc), p.buf[:n])
		return p.buf[:n]
	})
	if !ok {
		return
	}

	if _, _, added := p.mods.lookup(pc); len(added) > 0 {
		p.announce(added)
	}
	p.handler.Executed(ThreadID(tid), pc, size, p.gran)
}
