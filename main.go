package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/jcorbin/gofirst/internal/logio"
)

func main() {
	ctx := context.Background()

	var logs logio.Logger
	logs.SetOutput(os.Stderr)
	defer func() { os.Exit(logs.ExitCode()) }()

	var (
		timeout      time.Duration
		trace        bool
		config       string
		withBuiltins bool
		withKernel   bool
		dump         bool
		memLimit     uint
	)
	flag.DurationVar(&timeout, "timeout", 0, "specify a time limit")
	flag.BoolVar(&trace, "trace", false, "enable trace logging")
	flag.StringVar(&config, "config", "", "load memory capacities from a YAML file")
	flag.BoolVar(&withBuiltins, "builtins", false, "read the names of the builtin words before any input")
	flag.BoolVar(&withKernel, "kernel", false, "read the THIRD kernel before any input; implies -builtins")
	flag.BoolVar(&dump, "dump", false, "dump VM memory to stderr after halting")
	flag.UintVar(&memLimit, "mem-limit", 0, "override the main memory size, in cells")
	flag.Parse()

	var opts = []VMOption{
		WithOutput(os.Stdout),
	}
	if config != "" {
		cfg, err := ReadConfigFile(config)
		if err != nil {
			logs.Errorf("%v", err)
			return
		}
		opts = append(opts, WithConfig(cfg))
	}
	if memLimit != 0 {
		opts = append(opts, WithMemLimit(memLimit))
	}
	if trace {
		opts = append(opts, WithLogf(logs.Leveledf("TRACE")))
	}
	switch {
	case withKernel:
		opts = append(opts, WithInputWriter(kernel))
	case withBuiltins:
		opts = append(opts, WithInputWriter(builtinNames))
	}
	for _, name := range flag.Args() {
		f, err := os.Open(name)
		if err != nil {
			logs.Errorf("%v", err)
			return
		}
		opts = append(opts, WithInput(f))
	}
	opts = append(opts, WithInput(NamedReader("<stdin>", os.Stdin)))

	vm := New(opts...)
	defer func() {
		if err := vm.Close(); err != nil {
			logs.Errorf("%v", err)
		}
	}()

	if timeout != 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if err := vm.Run(ctx); err != nil {
		logs.Errorf("%+v", err)
	}
	if dump {
		vmDumper{vm: vm, out: os.Stderr}.dump()
	}
}
