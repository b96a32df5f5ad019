package main

import (
	"errors"
	"fmt"
	"io"
)

// FIRST does not check what programs do; beyond the defined halts below, any
// access outside of main memory, string storage, or the data stack halts the
// VM with an error rather than corrupting the host.
var (
	errHalt         = errors.New("normal halt")
	errDivideByZero = errors.New("division by zero")
)

type haltError struct{ error }

func (err haltError) Error() string {
	if err.error != nil {
		return fmt.Sprintf("halted: %v", err.error)
	}
	return "halted"
}

func (err haltError) Unwrap() error { return err.error }

// halt flushes output and then unwinds the VM; a nil or io.EOF err halts
// normally.
func (vm *VM) halt(err error) {
	if vm.out != nil {
		if ferr := vm.out.Flush(); ferr != nil && (err == nil || err == io.EOF) {
			err = ferr
		}
	}
	switch err {
	case nil, io.EOF:
		vm.logf("halt")
		err = errHalt
	default:
		vm.logf("halt error: %v", err)
	}
	panic(haltError{err})
}

func (vm *VM) haltif(err error) {
	if err != nil {
		vm.halt(err)
	}
}

// haltResult converts a recovered halt into the error that caused it; a
// normal halt is no error at all.
func haltResult(err error) error {
	var halted haltError
	if errors.As(err, &halted) {
		err = halted.error
	}
	if errors.Is(err, errHalt) {
		return nil
	}
	return err
}
