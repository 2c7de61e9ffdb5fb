package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/maxxing/loopprof"
	"github.com/maxxing/loopprof/bininfo"
)

const Version = "1.0.0"

func fatal(a ...interface{}) {
	fmt.Fprintln(os.Stderr, a...)
	os.Exit(1)
}

func must(desc string, err error) {
	if err != nil {
		fatal(desc, ":", err)
	}
}

func metricsWriter(w io.Writer) loopprof.MetricsWriter {
	if opts.Csv {
		return loopprof.NewCSVWriter(w)
	}
	return loopprof.NewTableWriter(w)
}

func main() {
	flagparser := flags.NewParser(&opts, flags.PassDoubleDash|flags.PrintErrors)
	flagparser.Usage = "[OPTIONS] PROF_FILE"
	args, err := flagparser.Parse()
	if err != nil {
		os.Exit(1)
	}

	if opts.Version {
		fmt.Println("loopprof version", Version)
		os.Exit(0)
	}

	if opts.Verbose {
		loopprof.SetLogger(log.New(os.Stdout, "INFO: ", 0))
	}

	if opts.Check {
		must("check", checkSystem())
		os.Exit(0)
	}

	if len(args) != 1 || opts.Help {
		flagparser.WriteHelp(os.Stdout)
		os.Exit(0)
	}

	f, err := os.Open(args[0])
	must("open", err)
	prof, err := loopprof.DecodeProfile(f)
	must("decode", err)
	f.Close()

	var sym loopprof.Symbolizer
	if opts.Binary != "" {
		bf, err := os.Open(opts.Binary)
		must("open-binary", err)
		bin, err := bininfo.Read(bf)
		must("elf-read", err)
		bf.Close()
		sym = bin
	}

	if !opts.NoSort {
		must("sort", prof.Sort(opts.SortKey, opts.ReverseSort))
	}

	var out io.WriteCloser = os.Stdout
	if opts.Output != "" {
		out, err = os.OpenFile(opts.Output, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0666)
		must("open-output", err)
	}

	prof.Render(metricsWriter(out), sym)
	out.Close()
}
