package main

import "fmt"

// dataStack caches its top value in st0; dsp indexes the highest occupied
// cell.  cells[0] is never written by push, it only catches the first pop
// past the bottom.
type dataStack struct {
	cells []int
	dsp   int
	st0   int
}

type stackError struct {
	op    string
	index int
	size  int
}

func (err stackError) Error() string {
	return fmt.Sprintf("data stack %v out of bounds: [%v] of %v", err.op, err.index, err.size)
}

func (ds *dataStack) init(depth uint) {
	ds.cells = make([]int, depth)
	ds.dsp = 0
	ds.st0 = 0
}

func (ds *dataStack) push(val int) error {
	i := ds.dsp + 1
	if i < 0 || i >= len(ds.cells) {
		return stackError{"push", i, len(ds.cells)}
	}
	ds.cells[i] = ds.st0
	ds.dsp = i
	ds.st0 = val
	return nil
}

// drop returns the value under st0, removing it from the stack.
func (ds *dataStack) drop() (int, error) {
	i := ds.dsp
	if i < 0 || i >= len(ds.cells) {
		return 0, stackError{"pop", i, len(ds.cells)}
	}
	ds.dsp = i - 1
	return ds.cells[i], nil
}

// pick replaces st0 with the value st0 cells below it, leaving dsp alone.
func (ds *dataStack) pick() error {
	i := ds.dsp - ds.st0
	if i < 0 || i >= len(ds.cells) {
		return stackError{"pick", i, len(ds.cells)}
	}
	ds.st0 = ds.cells[i]
	return nil
}

// values returns the stack contents, bottom first; the bottom cell only holds
// whatever st0 was before the first push, so it is not included.
func (ds *dataStack) values() []int {
	if ds.dsp < 1 || ds.dsp >= len(ds.cells) {
		return []int{}
	}
	vals := make([]int, 0, ds.dsp)
	vals = append(vals, ds.cells[2:ds.dsp+1]...)
	return append(vals, ds.st0)
}

func (vm *VM) push(val int) { vm.haltif(vm.stack.push(val)) }

func (vm *VM) drop() int {
	val, err := vm.stack.drop()
	vm.haltif(err)
	return val
}

func (vm *VM) pop() int {
	val := vm.stack.st0
	vm.stack.st0 = vm.drop()
	return val
}
