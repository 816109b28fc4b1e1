//go:build !linux || !amd64

package engine

import "context"

// A Program is a traced process. Tracing is only implemented on linux/amd64.
type Program struct{}

func Start(target string, args []string, gran Granularity, h Handler) (*Program, error) {
	return nil, ErrUnsupported
}

func (p *Program) Resolver() Resolver {
	return ResolverFunc(func(uint64) (uint16, bool) { return 0, false })
}

func (p *Program) Pid() int {
	return 0
}

func (p *Program) Run(ctx context.Context) (int, error) {
	return 0, ErrUnsupported
}
