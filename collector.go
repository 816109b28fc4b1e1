// Package rangecov collects binary coverage from an instrumentation engine.
// Execution events are coalesced per thread into contiguous address ranges,
// and on exit the ranges are written out per module in the DDPH coverage
// format.
package rangecov

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"

	"github.com/rs/zerolog"
	"go.uber.org/multierr"

	"github.com/zyedidia/rangecov/alloc"
	"github.com/zyedidia/rangecov/covfile"
	"github.com/zyedidia/rangecov/engine"
	"github.com/zyedidia/rangecov/list"
	"github.com/zyedidia/rangecov/modules"
)

// Exit codes used when collection cannot continue without losing data.
const (
	ExitFailure  = 1
	ExitNoMemory = 12
)

// A Collector is the process-wide trace state: the module registry, the
// range list, the thread contexts and the global fallback cursor. It
// implements engine.Handler.
type Collector struct {
	cfg Config
	log zerolog.Logger

	modArena   *alloc.Arena[modules.Module]
	rangeArena *alloc.Arena[Range]
	ctxArena   *alloc.Arena[ThreadContext]

	mods    *modules.Registry
	ranges  *list.List[*Range]
	threads *threadManager
	global  globalCursor

	// tids already reported as using the global cursor
	fallback sync.Map

	out    io.WriteCloser
	logOut io.WriteCloser

	// Exit terminates the process on unrecoverable errors. It defaults to
	// os.Exit.
	Exit func(code int)

	closeOnce sync.Once
	err       error
}

// New creates a collector and opens its output files. Failing to create
// either file is an initialization error.
func New(cfg Config) (*Collector, error) {
	c := &Collector{
		cfg:        cfg,
		log:        logger,
		modArena:   alloc.NewArena[modules.Module](cfg.MaxModules),
		rangeArena: alloc.NewArena[Range](cfg.MaxRanges),
		ctxArena:   alloc.NewArena[ThreadContext](cfg.MaxThreads),
		ranges:     list.New[*Range](),
		Exit:       os.Exit,
	}
	c.mods = modules.NewRegistry(c.modArena, nil)
	c.threads = newThreadManager(c.ctxArena)

	if cfg.LogEnabled() {
		f, err := os.Create(cfg.Log)
		if err != nil {
			return nil, fmt.Errorf("log file could not be opened: %w", err)
		}
		c.logOut = f

		var w io.Writer = f
		if cfg.Pretty {
			w = zerolog.ConsoleWriter{Out: f, NoColor: true, TimeFormat: "15:04:05"}
		}
		c.log = zerolog.New(w).With().Timestamp().Logger()
	}

	c.log.Debug().Msg("creating coverage data file")
	out, err := os.Create(cfg.Output)
	if err != nil {
		c.log.Error().Err(err).Msg("coverage data file could not be created")
		if c.logOut != nil {
			c.logOut.Close()
		}
		return nil, fmt.Errorf("coverage data file could not be created: %w", err)
	}
	c.out = out

	if cfg.Granularity() == engine.Block {
		c.log.Info().Msg("reduced capture enabled")
	} else {
		c.log.Info().Msg("instruction level capture enabled")
	}
	return c, nil
}

// SetResolver sets the engine's address-to-module resolver.
func (c *Collector) SetResolver(r engine.Resolver) {
	c.mods.SetResolver(r)
}

// Modules returns the module registry.
func (c *Collector) Modules() *modules.Registry {
	return c.mods
}

func (c *Collector) fatal(code int) {
	c.log.Error().Int("code", code).Msg("terminating")
	c.Exit(code)
}

// ModuleLoaded registers an image. Failing to record it is fatal since
// coverage could no longer be attributed.
func (c *Collector) ModuleLoaded(base, end uint64, id uint16, path string, main bool) {
	m, err := c.mods.Add(base, end, id, path)
	if err != nil {
		c.log.Error().Err(err).Msg("no more room for module")
		c.fatal(ExitFailure)
		return
	}

	c.log.Info().
		Uint16("id", m.ID).
		Str("path", m.Path).
		Str("start", hex(m.Base)).
		Str("end", hex(m.End)).
		Msg("module loaded")

	if main {
		c.mods.SetTarget(m.ID)
		c.log.Info().Uint16("id", m.ID).Msg("target image")
	}
}

// ThreadStarted creates the thread's context. If that fails the thread's
// events go to the global range.
func (c *Collector) ThreadStarted(tid engine.ThreadID) {
	if _, err := c.threads.start(tid, c.newRange); err != nil {
		c.log.Warn().Err(err).Int("tid", int(tid)).Msg("thread context not created")
		return
	}
	c.log.Debug().Int("tid", int(tid)).Msg("thread started")
}

// ThreadFinished marks the thread's context inactive. Its ranges are kept.
func (c *Collector) ThreadFinished(tid engine.ThreadID) {
	_, ok := c.threads.finish(tid)
	c.log.Debug().Int("tid", int(tid)).Bool("context", ok).Msg("thread finished")
}

// Ranges returns a copy of every range in creation order.
func (c *Collector) Ranges() []Range {
	rs := make([]Range, 0, c.ranges.Len())
	c.ranges.Each(func(r *Range) bool {
		rs = append(rs, *r)
		return true
	})
	return rs
}

// Threads returns the number of thread contexts ever created.
func (c *Collector) Threads() int {
	return c.threads.len()
}

func (c *Collector) writeCoverage(w io.Writer) error {
	spans := make([]covfile.Span, 0, c.ranges.Len())
	c.ranges.Each(func(r *Range) bool {
		spans = append(spans, covfile.Span{
			Start:     r.Start,
			End:       r.End,
			ModuleID:  r.ModuleID,
			InstCount: r.InstCount,
		})
		return true
	})

	skipped, err := covfile.Write(w, c.mods.Snapshot(), spans)
	for _, s := range skipped {
		c.log.Debug().Uint16("module", s.ModuleID).Str("start", hex(s.Start)).Msg("module not found, range skipped")
	}
	return err
}

// Exited writes the coverage file and tears the collector down. It
// implements engine.Handler.
func (c *Collector) Exited(code int) {
	c.log.Info().Int("code", code).Int("ranges", c.ranges.Len()).Int("modules", c.mods.Len()).Msg("process exited")
	c.Close()
}

// Close writes the coverage file, closes the output files and frees every
// record. It is safe to call more than once; later calls return the first
// result.
func (c *Collector) Close() error {
	c.closeOnce.Do(func() {
		bw := bufio.NewWriter(c.out)
		err := c.writeCoverage(bw)
		err = multierr.Append(err, bw.Flush())
		err = multierr.Append(err, c.out.Close())
		if err != nil {
			c.log.Error().Err(err).Msg("writing coverage data")
		}

		c.ranges.DestroyAll(func(r *Range) {
			ref := r.ref
			c.rangeArena.Free(&ref)
		})
		c.global.cur = nil
		c.threads.close()
		c.mods.Close()

		if c.logOut != nil {
			err = multierr.Append(err, c.logOut.Close())
		}
		c.err = err
	})
	return c.err
}

// Err returns the error from writing the coverage file, if any.
func (c *Collector) Err() error {
	return c.err
}

func hex(v uint64) string {
	return "0x" + strconv.FormatUint(v, 16)
}
