package main

import (
	"context"
	"fmt"
	"io"

	"github.com/jcorbin/gofirst/internal/panicerr"
)

// New creates a VM; its memories are allocated once all options have been
// applied.
func New(opts ...VMOption) *VM {
	var vm VM
	defaultOptions.apply(&vm)
	VMOptions(opts...).apply(&vm)
	vm.init()
	return &vm
}

// Run boots the VM, reading the names of its builtin words from input, and
// then runs its main loop until input runs out, returning nil. Any other
// reason for halting, including ctx being done, is returned as an error.
func (vm *VM) Run(ctx context.Context) error {
	return haltResult(panicerr.Recover("VM", func() error {
		return vm.run(ctx)
	}))
}

// Close flushes any buffered output, and closes any remaining input.
func (vm *VM) Close() error {
	var err error
	if vm.out != nil {
		err = vm.out.Flush()
	}
	if cerr := vm.in.Close(); err == nil {
		err = cerr
	}
	return err
}

// WithInput adds a stream to the VM's input queue; streams are read in the
// order given.
func WithInput(r io.Reader) VMOption { return withInput(r) }

// WithInputWriter adds a source like a prelude to the VM's input queue.
func WithInputWriter(w io.WriterTo) VMOption { return withInputWriter(w) }

// WithOutput sets where echo writes; output is discarded by default.
func WithOutput(w io.Writer) VMOption { return withOutput(w) }

// WithTee copies all output into w as well.
func WithTee(w io.Writer) VMOption { return withTee(w) }

// WithConfig sets memory capacities.
func WithConfig(cfg Config) VMOption { return withConfig(cfg) }

// WithMemLimit sets the main memory capacity, in cells.
func WithMemLimit(limit uint) VMOption { return withMemLimit(limit) }

// WithLogf enables trace logging through the given printf-style function.
func WithLogf(logfn func(mess string, args ...interface{})) VMOption { return withLogfn(logfn) }

// NamedReader attaches a name to r, for use in trace log locations.
func NamedReader(name string, r io.Reader) io.Reader { return namedReader{r, name} }

type namedReader struct {
	io.Reader
	name string
}

func (nr namedReader) Name() string { return nr.name }

func nameOf(obj interface{}) string {
	if nom, ok := obj.(interface{ Name() string }); ok {
		return nom.Name()
	}
	return fmt.Sprintf("<unnamed %T>", obj)
}
