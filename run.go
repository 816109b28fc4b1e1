package rangecov

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/zyedidia/rangecov/engine"
)

// Run executes 'target args...' under the ptrace engine, collects coverage
// into cfg.Output and returns the target's exit code. The calling goroutine
// must be locked to its OS thread.
func Run(ctx context.Context, target string, args []string, cfg Config) (int, error) {
	path, err := exec.LookPath(target)
	if err != nil {
		return 0, err
	}

	c, err := New(cfg)
	if err != nil {
		return 0, err
	}
	c.log.Info().Str("target", path).Strs("args", args).Str("version", Version.String()).Msg("starting")

	prog, err := engine.Start(path, args, cfg.Granularity(), c)
	if err != nil {
		c.Close()
		return 0, fmt.Errorf("start %s: %w", target, err)
	}
	c.SetResolver(prog.Resolver())
	c.log.Info().Int("pid", prog.Pid()).Stringer("granularity", cfg.Granularity()).Msg("tracing")

	code, err := prog.Run(ctx)
	if err != nil {
		c.log.Error().Err(err).Msg("tracing stopped")
	}
	// Exited has already closed the collector unless tracing failed early
	if cerr := c.Close(); err == nil {
		err = cerr
	}
	return code, err
}
