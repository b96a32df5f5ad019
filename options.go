package main

import (
	"bytes"
	"io"
	"io/ioutil"

	"github.com/jcorbin/gofirst/internal/flushio"
)

// VMOption customizes a VM created by New.
type VMOption interface{ apply(vm *VM) }

var defaultOptions = VMOptions(
	withOutput(ioutil.Discard),
)

// VMOptions combines any number of options into one; nil options are
// ignored.
func VMOptions(opts ...VMOption) VMOption {
	var res options
	for _, opt := range opts {
		switch impl := opt.(type) {
		case nil:
		case options:
			res = append(res, impl...)
		default:
			res = append(res, impl)
		}
	}
	if len(res) == 1 {
		return res[0]
	}
	return res
}

type options []VMOption

func (opts options) apply(vm *VM) {
	for _, opt := range opts {
		opt.apply(vm)
	}
}

type withLogfn func(mess string, args ...interface{})

func (logfn withLogfn) apply(vm *VM) {
	vm.logfn = logfn
}

type inputOption struct{ io.Reader }
type inputWriterOption struct{ io.WriterTo }
type outputOption struct{ io.Writer }
type teeOption struct{ io.Writer }
type configOption Config
type memLimitOption uint

func withInput(r io.Reader) inputOption               { return inputOption{r} }
func withInputWriter(w io.WriterTo) inputWriterOption { return inputWriterOption{w} }
func withOutput(w io.Writer) outputOption             { return outputOption{w} }
func withTee(w io.Writer) teeOption                   { return teeOption{w} }
func withConfig(cfg Config) configOption              { return configOption(cfg) }
func withMemLimit(limit uint) memLimitOption          { return memLimitOption(limit) }

func (i inputOption) apply(vm *VM) {
	vm.in.Queue = append(vm.in.Queue, i.Reader)
}

// Writer sources are rendered up front into a named in-memory reader.
func (i inputWriterOption) apply(vm *VM) {
	var buf bytes.Buffer
	if _, err := i.WriteTo(&buf); err != nil {
		panic(err)
	}
	vm.in.Queue = append(vm.in.Queue, NamedReader(nameOf(i.WriterTo), &buf))
}

func (o outputOption) apply(vm *VM) {
	if vm.out != nil {
		vm.out.Flush()
	}
	vm.out = flushio.NewWriteFlusher(o.Writer)
}

func (o teeOption) apply(vm *VM) {
	vm.out = flushio.Tee(vm.out, flushio.NewWriteFlusher(o.Writer))
}

func (cfg configOption) apply(vm *VM) {
	vm.config = Config(cfg)
}

func (lim memLimitOption) apply(vm *VM) {
	vm.config.MemoryCells = uint(lim)
}
