package main

import (
	"context"
	"errors"
	"io"
	"reflect"
	"runtime"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/jcorbin/gofirst/internal/logio"
	"github.com/jcorbin/gofirst/internal/panicerr"
	"github.com/stretchr/testify/assert"
)

type vmTestCases []vmTestCase

func (vmts vmTestCases) run(t *testing.T) {
	{
		var exclusive []vmTestCase
		for _, vmt := range vmts {
			if vmt.exclusive {
				exclusive = append(exclusive, vmt)
			}
		}
		if len(exclusive) > 0 {
			vmts = exclusive
		}
	}
	for _, vmt := range vmts {
		if !t.Run(vmt.name, vmt.run) {
			return
		}
	}
}

func vmTest(name string) (vmt vmTestCase) {
	vmt.name = name
	return vmt
}

type vmTestCase struct {
	name    string
	opts    []interface{}
	setup   []func(vm *VM)
	ops     []func(vm *VM)
	expect  []func(t *testing.T, vm *VM)
	timeout time.Duration
	wantErr error

	exclusive   bool
	nextInputID int
}

func (vmt vmTestCase) apply(wraps ...func(vmTestCase) vmTestCase) vmTestCase {
	for _, wrap := range wraps {
		vmt = wrap(vmt)
	}
	return vmt
}

func (vmt vmTestCase) exclusiveTest() vmTestCase {
	vmt.exclusive = true
	return vmt
}

func (vmt vmTestCase) withOptions(opts ...VMOption) vmTestCase {
	for _, opt := range opts {
		vmt.opts = append(vmt.opts, opt)
	}
	return vmt
}

func (vmt vmTestCase) withSetup(f func(vm *VM)) vmTestCase {
	vmt.setup = append(vmt.setup, f)
	return vmt
}

func (vmt vmTestCase) withProg(prog int) vmTestCase {
	return vmt.withSetup(func(vm *VM) {
		vm.prog = prog
	})
}

func (vmt vmTestCase) withLast(last int) vmTestCase {
	return vmt.withSetup(func(vm *VM) {
		vm.last = last
	})
}

func (vmt vmTestCase) withStack(values ...int) vmTestCase {
	return vmt.withSetup(func(vm *VM) {
		for _, val := range values {
			vm.push(val)
		}
	})
}

func (vmt vmTestCase) withNames(names ...string) vmTestCase {
	return vmt.withSetup(func(vm *VM) {
		for _, name := range names {
			_, err := vm.names.store(name)
			vm.haltif(err)
		}
	})
}

func (vmt vmTestCase) withMemAt(addr int, values ...int) vmTestCase {
	if len(values) == 0 {
		return vmt
	}
	return vmt.withSetup(func(vm *VM) {
		vm.stor(addr, values...)
	})
}

func (vmt vmTestCase) withH(val int) vmTestCase {
	return vmt.withMemAt(addrHere, val)
}

func (vmt vmTestCase) withR(val int) vmTestCase {
	return vmt.withMemAt(addrRet, val)
}

// withRetBase marks the VM booted, with a return stack at addr holding values.
func (vmt vmTestCase) withRetBase(addr int, values ...int) vmTestCase {
	return vmt.withSetup(func(vm *VM) {
		vm.booted = true
		vm.retBase = addr
		if vm.memBase == 0 {
			vm.memBase = addr + int(vm.config.Padding)
		}
	}).withMemAt(addr+1, values...).withR(addr + len(values))
}

func (vmt vmTestCase) withMemLimit(limit uint) vmTestCase {
	vmt.opts = append(vmt.opts, withMemLimit(limit))
	return vmt
}

func (vmt vmTestCase) withInput(input string) vmTestCase {
	vmt.opts = append(vmt.opts, func(vmt *vmTestCase, t *testing.T) VMOption {
		name := t.Name() + "/input"
		if id := vmt.nextInputID; id > 0 {
			name += "_" + strconv.Itoa(id+1)
		}
		vmt.nextInputID++
		return WithInput(NamedReader(name, strings.NewReader(input)))
	})
	return vmt
}

func (vmt vmTestCase) withInputWriter(w io.WriterTo) vmTestCase {
	vmt.opts = append(vmt.opts, WithInputWriter(w))
	return vmt
}

func (vmt vmTestCase) do(ops ...func(vm *VM)) vmTestCase {
	vmt.ops = append(vmt.ops, ops...)
	return vmt
}

func (vmt vmTestCase) withTimeout(timeout time.Duration) vmTestCase {
	vmt.timeout = timeout
	return vmt
}

func (vmt vmTestCase) expectError(err error) vmTestCase {
	vmt.wantErr = err
	return vmt
}

func (vmt vmTestCase) expectProg(prog int) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		assert.Equal(t, prog, vm.prog, "expected program counter")
	})
	return vmt
}

func (vmt vmTestCase) expectLast(last int) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		assert.Equal(t, last, vm.last, "expected last address")
	})
	return vmt
}

func (vmt vmTestCase) expectStack(values ...int) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		if values == nil {
			values = []int{}
		}
		assert.Equal(t, values, vm.stack.values(), "expected stack values")
	})
	return vmt
}

func (vmt vmTestCase) expectRStack(values ...int) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		if values == nil {
			values = []int{}
		}
		rstack := vm.rstack()
		if rstack == nil {
			rstack = []int{}
		}
		assert.Equal(t, values, rstack, "expected return stack values")
	})
	return vmt
}

func (vmt vmTestCase) expectName(off int, s string) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		assert.Equal(t, s, vm.names.name(off), "expected name @%v", off)
	})
	return vmt
}

func (vmt vmTestCase) expectMemAt(addr int, values ...int) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		buf := make([]int, len(values))
		vm.loadInto(addr, buf)
		if !assert.Equal(t, values, buf, "expected memory values @%v", addr) {
			for i, value := range values {
				a := addr + i
				assert.Equal(t, value, vm.load(a), "expected memory value @%v", a)
			}
		}
	})
	return vmt
}

func (vmt vmTestCase) expectWord(addr int, name string, code ...int) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		buf := make([]int, len(code))
		assert.Equal(t, name, vm.names.name(vm.load(addr+1)), "expected word @%v name", addr)
		vm.loadInto(addr+2, buf)
		assert.Equal(t, code, buf, "expected %q @%v+2 code", name, addr)
	})
	return vmt
}

func (vmt vmTestCase) expectH(value int) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		assert.Equal(t, value, vm.load(addrHere), "expected H value")
	})
	return vmt
}

func (vmt vmTestCase) expectR(value int) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		assert.Equal(t, value, vm.load(addrRet), "expected R value")
	})
	return vmt
}

func (vmt vmTestCase) expectOutput(output string) vmTestCase {
	var out *strings.Builder
	vmt.opts = append(vmt.opts, func(vmt *vmTestCase, t *testing.T) VMOption {
		out = &strings.Builder{}
		return WithTee(out)
	})
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		assert.Equal(t, output, out.String(), "expected output")
	})
	return vmt
}

func (vmt vmTestCase) expectDump(dump string) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		var out strings.Builder
		vmDumper{
			vm:  vm,
			out: &out,
		}.dump()
		assert.Equal(t, dump, out.String(), "expected dump")
	})
	return vmt
}

func (vmt vmTestCase) withTestOutput() vmTestCase {
	vmt.opts = append(vmt.opts, func(vmt *vmTestCase, t *testing.T) VMOption {
		return WithTee(&logio.Writer{Logf: func(mess string, args ...interface{}) {
			t.Logf("out: "+mess, args...)
		}})
	})
	return vmt
}

func (vmt vmTestCase) run(t *testing.T) {
	defer func(then time.Time) {
		label := "PASS"
		if t.Failed() {
			label = "FAIL"
		}
		t.Logf("%v\t%v\t%v", label, t.Name(), time.Now().Sub(then))
	}(time.Now())

	if testFails(func(t *testing.T) {
		vmt.runVMTest(context.Background(), t, vmt.buildVM(t))
	}) {
		vm := vmt.buildVM(t)
		WithLogf(t.Logf).apply(vm)
		vmt.runVMTest(context.Background(), t, vm)
	}
}

func (vmt vmTestCase) runVMTest(ctx context.Context, t *testing.T, vm *VM) {
	const defaultTimeout = time.Second
	timeout := vmt.timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	defer func() {
		if t.Failed() {
			vmt.dumpToTest(t, vm)
		}
	}()

	if err := vmt.runVM(ctx, vm); vmt.wantErr != nil {
		assert.True(t, errors.Is(err, vmt.wantErr), "expected error: %v\ngot: %+v", vmt.wantErr, err)
	} else {
		assert.NoError(t, err, "unexpected VM run error")
	}

	if !t.Failed() {
		for _, expect := range vmt.expect {
			expect(t, vm)
		}
	}
}

// runVM runs the VM normally, or if the test has ops, runs them in order; a
// nil op repeats the one before it until the VM halts.
func (vmt vmTestCase) runVM(ctx context.Context, vm *VM) (rerr error) {
	defer func() {
		if err := vm.Close(); err != nil && rerr == nil {
			rerr = err
		}
	}()

	if len(vmt.ops) == 0 {
		return vm.Run(ctx)
	}

	names := make([]string, len(vmt.ops))
	for i, op := range vmt.ops {
		if op != nil {
			names[i] = runtime.FuncForPC(reflect.ValueOf(op).Pointer()).Name()
		}
	}
	return haltResult(panicerr.Recover("vmTestCase.ops", func() error {
		for i := 0; i < len(vmt.ops); i++ {
			if vmt.ops[i] == nil {
				i--
			}
			vm.logf("> do[%v] %v", i, names[i])
			vmt.ops[i](vm)
			vm.haltif(ctx.Err())
		}
		return nil
	}))
}

func (vmt vmTestCase) buildVM(t *testing.T) *VM {
	var opts []VMOption
	for _, o := range vmt.opts {
		switch impl := o.(type) {
		case func(vmt *vmTestCase, t *testing.T) VMOption:
			opts = append(opts, impl(&vmt, t))
		case VMOption:
			opts = append(opts, impl)
		default:
			t.Logf("unsupported vmTestCase opt type %T", o)
			t.FailNow()
		}
	}

	vm := New(opts...)
	var err error
	if len(vmt.setup) > 0 {
		err = haltResult(panicerr.Recover("vmTestCase.setup", func() error {
			for _, setup := range vmt.setup {
				setup(vm)
			}
			return nil
		}))
	}
	if err != nil {
		t.Logf("vmTestCase setup failed: %+v", err)
		t.FailNow()
	}
	return vm
}

func (vmt vmTestCase) dumpToTest(t *testing.T, vm *VM) {
	lw := logio.Writer{Logf: t.Logf}
	defer lw.Close()
	vmDumper{vm: vm, out: &lw}.dump()
}

//// utilities

// prim adapts a primitive for use as a test op.
func prim(f func(vm *VM, x int)) func(vm *VM) {
	return func(vm *VM) { f(vm, 0) }
}

// execAt executes the cell at addr, as if its address had been compiled.
func execAt(addr int) func(vm *VM) {
	return func(vm *VM) { vm.exec(addr) }
}

func testFails(fn func(t *testing.T)) bool {
	var fakeT testing.T
	done := make(chan struct{})
	go func() {
		defer close(done)
		fn(&fakeT)
	}()
	<-done
	return fakeT.Failed()
}

func lines(parts ...string) string {
	return strings.Join(parts, "\n") + "\n"
}
