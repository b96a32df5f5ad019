package main

import (
	"bytes"
	"io"
)

// Preludes are FIRST source, written into a VM's input ahead of any program.
type prelude struct {
	name  string
	parts []prelude
	lines []string
}

func (p prelude) Name() string { return p.name }

func (p prelude) WriteTo(w io.Writer) (n int64, err error) {
	var buf bytes.Buffer
	p.render(&buf)
	return buf.WriteTo(w)
}

func (p prelude) render(buf *bytes.Buffer) {
	for _, part := range p.parts {
		part.render(buf)
	}
	for _, line := range p.lines {
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
}

func preludes(name string, parts ...prelude) prelude {
	return prelude{name: name, parts: parts}
}

// The names of the builtins, in the order that boot defines them.
var builtinNames = prelude{name: "builtins.f", lines: []string{
	`: immediate _read @ ! - * / <0 exit echo key pick`,
}}

// A sample FIRST program.  FIRST has no syntax for character constants, so
// ASCII values are written in decimal.
var helloProgram = prelude{name: "hello.f", lines: []string{
	// define a word named 'L' that prints an 'l'
	`: L 108 echo exit`,

	// print "Hello", using L twice
	`: hello 72 echo 101 echo 111 L L echo 10 echo exit`,

	// define a word named 'test' that runs whenever typed
	`: test immediate hello exit`,
	`test`,
}}

// thirdKernel builds the first layers of THIRD out of FIRST: a main loop
// that does not exhaust the return stack, stack shuffling through the
// scratch cells 3 and 4, and then enough compiler words to define ';'.
var thirdKernel = prelude{name: "third.f", lines: []string{
	// r pushes the address of the return stack pointer.
	`: r 1 exit`,

	// ] drops its own return address, reads and compiles one word, and then
	// calls itself; since it never returns, it can recurse indefinitely.
	`: ] r @ 1 - r ! _read ]`,

	// Replace the boot loop, which uses up one return stack cell per word.
	`: main immediate ]`,
	`main`,

	`: _x  3 @ exit`,
	`: _x! 3 ! exit`,
	`: _y  4 @ exit`,
	`: _y! 4 ! exit`,

	// Writing the top two out and reading them back in the same order swaps
	// them.
	`: swap _x! _y! _x _y exit`,
	`: + 0 swap - - exit`,
	`: dup _x! _x _x exit`,

	// h is the dictionary pointer; inc increments the cell at an address
	`: h 0 exit`,
	`: inc dup @ 1 + swap ! exit`,

	// , compiles the top of stack
	`: , h @ ! h inc exit`,

	// ' pushes the word compiled after it, skipping its caller over that word
	`: ' r @ @ dup 1 + r @ ! @ exit`,

	// ; compiles exit
	`: ; immediate ' exit , exit`,

	`: drop 0 * + ;`,
	`: dec dup @ 1 - swap ! ;`,
	`: minus 0 swap - ;`,
	`: cr 10 echo ;`,
}}

var (
	hello  = preludes("hello", builtinNames, helloProgram)
	kernel = preludes("kernel", builtinNames, thirdKernel)
)
