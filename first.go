package main

import (
	"context"

	"github.com/jcorbin/gofirst/internal/mem"
)

//// Environment

// VM implements the FIRST virtual machine.  The machine has three chunks of
// memory: "main memory", "the stack", and "string storage".  When the virtual
// machine wishes to do random memory accesses, they come out of main
// memory--it cannot access the stack or string storage.
type VM struct {
	ioCore
	config Config

	// Main memory is a large array of ints.  When we speak of addresses, we
	// actually mean indices into main memory.  Main memory is used for the
	// dictionary, compiled code, and the return stack.
	mem mem.Cells

	// String storage holds the NUL-terminated names of all defined words.
	names nameHeap

	// The stack is a LIFO of ints used implicitly by most of the primitives.
	stack dataStack

	prog int // program counter
	last int // most recently defined word

	booted  bool
	retBase int // return stack pointer after boot
	memBase int // dictionary pointer after boot
}

func (vm *VM) init() {
	vm.config = vm.config.withDefaults()
	if vm.mem.Limit == 0 {
		vm.mem.Limit = vm.config.MemoryCells
	}
	if vm.names.buf == nil {
		vm.names.init(vm.config.NameBytes)
	}
	if vm.stack.cells == nil {
		vm.stack.init(vm.config.StackDepth)
	}
}

//// Instructions

// Compiled code is a sequence of addresses, each pointing at a cell holding
// an opcode; executing address x switches on the opcode stored at x, and the
// primitive receives x+1, the address just past its opcode cell.
type opcode int

const (
	opPushint opcode = iota // <INTERNAL>  push from memory at program counter
	opCompile               // <INTERNAL>  compile the address after this cell
	opRun                   // <INTERNAL>  call the address after this cell

	// Here's a handy summary of all the FIRST words:
	opDefine    // :           compile the header of a definition
	opImmediate // immediate   modify the header to create an immediate word
	opRead      // _read       read a word from input and run or compile it
	opGet       // @           read from memory
	opSet       // !           write to memory
	opSub       // -           binary integer operation on the stack
	opMul       // *           binary integer operation on the stack
	opDiv       // /           binary integer operation on the stack
	opLess      // <0          is top of stack less than 0?
	opExit      // exit        stop running the current function
	opEcho      // echo        output one character
	opKey       // key         input one character
	opPick      // pick        copy up the element indexed by the top of stack

	opMax
)

func decode(cell int) (code opcode, ok bool) {
	if cell < 0 || cell >= int(opMax) {
		return 0, false
	}
	return opcode(cell), true
}

func (code opcode) String() string {
	if code >= 0 && code < opMax {
		return vmCodeNames[code]
	}
	return "invalid"
}

var vmCodeTable [opMax]func(vm *VM, x int)
var vmCodeNames [opMax]string

func init() {
	vmCodeTable = [...]func(vm *VM, x int){
		(*VM).pushint,
		(*VM).compileme,
		(*VM).runme,

		(*VM).colon,
		(*VM).immediate,
		(*VM).read,
		(*VM).get,
		(*VM).set,
		(*VM).sub,
		(*VM).mul,
		(*VM).div,
		(*VM).less,
		(*VM).exit,
		(*VM).echo,
		(*VM).key,
		(*VM).pick,
	}

	vmCodeNames = [...]string{
		"pushint",
		"compileme",
		"runme",

		"define",
		"immediate",
		"read",
		"get",
		"set",
		"sub",
		"mul",
		"div",
		"less",
		"exit",
		"echo",
		"key",
		"pick",
	}
}

func (vm *VM) step() {
	x := vm.load(vm.prog)
	vm.prog++
	vm.exec(x)
}

// exec runs the instruction whose opcode is stored at x; cells that hold no
// valid opcode do nothing.
func (vm *VM) exec(x int) {
	cell := vm.load(x)
	code, ok := decode(cell)
	if !ok {
		vm.logf("exec @%v nop %v", x, cell)
		return
	}
	if vm.logfn != nil {
		vm.logf("exec @%v %v -- prog:%v r:%v s:%v", x, code, vm.prog, vm.rdepth(), vm.stack.values())
	}
	vmCodeTable[code](vm, x+1)
}

//// Integer Operations

// Symbol   Name           Function
//    -     binary minus   pop top 2 elements of stack, subtract, push
func (vm *VM) sub(int) { nos := vm.drop(); vm.stack.st0 = nos - vm.stack.st0 }

// Symbol   Name           Function
//    *     multiply       pop top 2 elements of stack, multiply, push
func (vm *VM) mul(int) { nos := vm.drop(); vm.stack.st0 *= nos }

// Symbol   Name           Function
//    /     divide         pop top 2 elements of stack, divide, push
func (vm *VM) div(int) {
	if vm.stack.st0 == 0 {
		vm.halt(errDivideByZero)
	}
	nos := vm.drop()
	vm.stack.st0 = nos / vm.stack.st0
}

// Symbol   Name           Function
//   <0     less than 0    pop top element of stack, push 1 if < 0 else 0
func (vm *VM) less(int) { vm.stack.st0 = boolInt(vm.stack.st0 < 0) }

//// Memory Operations

// Symbol   Name    Function
//   @      fetch   pop top of stack, treat as address to push contents of
func (vm *VM) get(int) { vm.stack.st0 = vm.load(vm.stack.st0) }

// Symbol   Name    Function
//   !      store   top of stack is address, 2nd is value; store to memory and
//                  pop both off the stack
func (vm *VM) set(int) { addr := vm.pop(); vm.stor(addr, vm.pop()) }

//// Input/Output Operations

// Name    Function
// echo    output top of stack through putchar
func (vm *VM) echo(int) {
	vm.logf("echo %v", runeName(vm.stack.st0))
	vm.writeByte(byte(vm.stack.st0))
	vm.stack.st0 = vm.drop()
}

// Name    Function
// key     read a character from input onto top of stack; -1 once input has
//         run out
func (vm *VM) key(int) {
	c := vm.readKey()
	vm.logf("key %v", runeName(c))
	vm.push(c)
}

// Name    Function
// _read   read a space-delimited word, find it in the dictionary, and run
//         it; or if not found compile a pushint of its numeric value
func (vm *VM) read(int) {
	token := vm.scan()
	if word := vm.lookup(token); word != 0 {
		vm.logf("read %q @%v", token, word)
		vm.exec(word + 2)
		return
	}
	val := atoi(token)
	vm.logf("read pushint %v", val)
	vm.compile(addrPushint)
	vm.compile(val)
}

//// Execution Operations

// Name   Function
// exit   leave the current function: pop the return stack
//        into the program counter
func (vm *VM) exit(int) { vm.prog = vm.popr() }

//// Immediate (compilation) Operations

// Symbol      Name        Function
//    :        define      read in the next space-delimited word, add it to the
//                         end of our string storage, and generate a header for
//                         the new word so that when it is typed it compiles a
//                         pointer to itself so that it can be executed.
func (vm *VM) colon(int) {
	vm.header(opCompile)
	vm.compile(int(opRun))
}

// Symbol      Name        Function
// immediate   immediate   when used immediately after a name following a ':',
//                         makes the word being defined run whenever it is
//                         typed.
func (vm *VM) immediate(int) {
	vm.stor(addrHere, vm.here()-2)
	vm.compile(int(opRun))
}

//// Stack Operations

// Name   Function
// pick   use top of stack as index into stack and copy up that element
//        over it
func (vm *VM) pick(int) { vm.haltif(vm.stack.pick()) }

//// Internal primitives have no names, and are reached only through
//// dictionary headers and the pushint pseudo-entry @2.

// pushint takes the next integer out of the instruction stream and pushes it
// on the stack; _read compiles it for any word that it cannot find.
func (vm *VM) pushint(int) {
	val := vm.load(vm.prog)
	vm.prog++
	vm.push(val)
}

// compileme appends the address after its own cell to the dictionary.  For a
// normal word, that address holds runme, so the compiled address calls the
// word; for a builtin, it holds the builtin's opcode.
func (vm *VM) compileme(x int) { vm.compile(x) }

// runme calls the code starting just after its own cell.
func (vm *VM) runme(x int) {
	vm.pushr(vm.prog)
	vm.prog = x
}

//// Bootstrap

// boot builds the builtin dictionary, reading the name of each builtin from
// input.  Interleaved with the third builtin, _read, it compiles a tiny main
// loop that reads and then calls itself; each call uses up a return stack
// cell, so programs are expected to replace it with a better loop.
func (vm *VM) boot() {
	vm.booted = true
	vm.stor(addrHere, dictBase)
	vm.last = lastSentinel

	vm.header(opDefine)
	vm.header(opImmediate)
	vm.header(opCompile)
	read := vm.here()
	vm.compile(int(opRead))
	vm.compile(int(opRun))

	vm.prog = vm.here()
	vm.compile(read)
	vm.compile(vm.prog - 1)

	for code := opGet; code <= opPick; code++ {
		vm.header(opCompile)
		vm.compile(int(code))
	}

	vm.retBase = vm.here()
	vm.stor(addrRet, vm.retBase)
	vm.memBase = vm.retBase + int(vm.config.Padding)
	vm.stor(addrHere, vm.memBase)
	vm.logf("boot prog:%v ret:%v here:%v", vm.prog, vm.retBase, vm.memBase)
}

func (vm *VM) run(ctx context.Context) error {
	if !vm.booted {
		vm.boot()
	}
	if vm.logfn != nil {
		defer vm.withLogPrefix("\t")()
	}
	for {
		vm.haltif(ctx.Err())
		vm.step()
	}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
