package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog"
	"github.com/zyedidia/rangecov"
	"github.com/zyedidia/rangecov/alloc"
	"github.com/zyedidia/rangecov/covfile"
	"github.com/zyedidia/rangecov/engine"
)

func fatal(a ...interface{}) {
	fmt.Fprintln(os.Stderr, a...)
	os.Exit(1)
}

func must(desc string, err error) {
	if err != nil {
		fatal(desc, ":", err)
	}
}

func tableWriter(w io.Writer, csv bool) covfile.TableWriter {
	if csv {
		return covfile.NewCSVWriter(w)
	}
	return covfile.NewTableWriter(w)
}

// setup applies the global options. go-flags runs a command's Execute
// during Parse, so commands call it first.
func setup() {
	if opts.Version {
		fmt.Println("rangecov version", rangecov.Version)
		os.Exit(0)
	}
	if opts.Verbose {
		logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
		rangecov.SetLogger(logger)
		alloc.SetLogger(logger)
		engine.SetLogger(logger)
	}
}

func (r *runCmd) Execute(args []string) error {
	setup()
	cfg, err := r.config()
	must("config", err)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	code, err := rangecov.Run(ctx, r.Args.Target, r.Args.Rest, cfg)
	if errors.Is(err, context.Canceled) {
		// the target was detached and keeps running
		fmt.Fprintln(os.Stderr, "interrupted, coverage written to", cfg.Output)
		os.Exit(130)
	}
	if err != nil {
		fatal(err)
	}
	stop()
	os.Exit(code)
	return nil
}

func (d *dumpCmd) Execute(args []string) error {
	setup()
	path := d.Args.File
	if path == "" {
		path = rangecov.DefaultConfig().Output
	}
	f, err := os.Open(path)
	must("open", err)
	defer f.Close()

	cf, err := covfile.Read(f)
	must("read", err)

	tw := tableWriter(os.Stdout, d.Csv)
	if d.Entries {
		must("write", covfile.RenderEntries(cf, tw))
		return nil
	}
	s := covfile.Summarize(cf)
	s.Sort(d.SortKey, d.ReverseSort)
	must("write", s.Render(tw, d.Raw || d.Csv))
	return nil
}

func main() {
	runtime.LockOSThread()

	flagparser := flags.NewParser(&opts, flags.HelpFlag|flags.PassDoubleDash|flags.PrintErrors)
	flagparser.SubcommandsOptional = true

	_, err := flagparser.Parse()
	if err != nil {
		if ferr, ok := err.(*flags.Error); ok && ferr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	setup()
	if flagparser.Active == nil {
		flagparser.WriteHelp(os.Stdout)
	}
}
