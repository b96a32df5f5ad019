package main

// Low main memory holds the machine's registers.
const (
	addrHere    = 0 // dictionary pointer, the next free cell
	addrRet     = 1 // return stack pointer, its top occupied cell
	addrPushint = 2 // always 0: a fake dictionary entry meaning "pushint"

	// Cells 3 through 31 are unused by FIRST; THIRD uses a few of them as
	// temporaries.
	dictBase = 32

	// Link of the first dictionary entry; lookup stops here.
	lastSentinel = 1
)

func (vm *VM) load(addr int) int {
	val, err := vm.mem.Load(uint(addr))
	vm.haltif(err)
	return val
}

func (vm *VM) loadInto(addr int, buf []int) {
	vm.haltif(vm.mem.LoadInto(uint(addr), buf))
}

func (vm *VM) stor(addr int, values ...int) {
	vm.haltif(vm.mem.Stor(uint(addr), values...))
}

func (vm *VM) here() int { return vm.load(addrHere) }

// compile appends a value at the end of the dictionary.
func (vm *VM) compile(val int) {
	h := vm.here()
	vm.stor(addrHere, h+1)
	vm.stor(h, val)
}

// The return stack lives in main memory, immediately after the builtin
// dictionary; its pointer grows upward and addresses its top value.
func (vm *VM) pushr(addr int) {
	r := vm.load(addrRet) + 1
	vm.stor(addrRet, r)
	vm.stor(r, addr)
}

func (vm *VM) popr() int {
	r := vm.load(addrRet)
	addr := vm.load(r)
	vm.stor(addrRet, r-1)
	return addr
}

func (vm *VM) rdepth() int {
	if !vm.booted {
		return 0
	}
	return vm.load(addrRet) - vm.retBase
}

// rstack returns the return stack contents, bottom first.
func (vm *VM) rstack() []int {
	n := vm.rdepth()
	if n <= 0 {
		return nil
	}
	buf := make([]int, n)
	vm.loadInto(vm.retBase+1, buf)
	return buf
}
