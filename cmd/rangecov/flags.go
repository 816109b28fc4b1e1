package main

import (
	"github.com/zyedidia/rangecov"
)

var opts struct {
	Config  string `short:"c" long:"config" description:"YAML file with collector settings; flags override it"`
	Verbose bool   `short:"V" long:"verbose" description:"Show verbose debug information on stderr"`
	Version bool   `short:"v" long:"version" description:"Show version information"`

	Run  runCmd  `command:"run" description:"Run a program and record the code it executes"`
	Dump dumpCmd `command:"dump" description:"Summarize a coverage file"`
}

type runCmd struct {
	Output     string `short:"o" long:"output" description:"Coverage data file (default: ddph.out)"`
	Log        string `short:"l" long:"log" description:"Diagnostic log file, or 'no' to disable (default: ddph.log)"`
	Precision  string `short:"p" long:"precision" description:"Capture every instruction (full) or every basic block (reduced)"`
	AllModules bool   `short:"a" long:"all-modules" description:"Record code from every image, not just the main executable"`
	Pretty     bool   `long:"pretty" description:"Write the diagnostic log in human readable form"`

	Args struct {
		Target string   `positional-arg-name:"COMMAND" required:"yes"`
		Rest   []string `positional-arg-name:"ARGS"`
	} `positional-args:"yes"`
}

type dumpCmd struct {
	Entries     bool   `short:"e" long:"entries" description:"List every entry instead of the per-module summary"`
	SortKey     string `long:"sort-key" description:"Key to sort the summary with (ranges, bytes, instructions, id)"`
	ReverseSort bool   `long:"reverse-sort" description:"Reverse summary table sorting"`
	Csv         bool   `long:"csv" description:"Write output in CSV format"`
	Raw         bool   `long:"raw" description:"Do not humanize counts"`

	Args struct {
		File string `positional-arg-name:"FILE"`
	} `positional-args:"yes"`
}

// config merges the config file (if any) with the flags that were given.
func (r *runCmd) config() (rangecov.Config, error) {
	cfg := rangecov.DefaultConfig()
	if opts.Config != "" {
		var err error
		cfg, err = rangecov.LoadConfig(opts.Config)
		if err != nil {
			return cfg, err
		}
	}
	if r.Output != "" {
		cfg.Output = r.Output
	}
	if r.Log != "" {
		cfg.Log = r.Log
	}
	if r.Precision != "" {
		cfg.Precision = r.Precision
	}
	if r.AllModules {
		cfg.TargetOnly = false
	}
	if r.Pretty {
		cfg.Pretty = true
	}
	return cfg, nil
}
