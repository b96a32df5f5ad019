/* Package main: FIRST -- the kernel of almost FORTH

FIRST is an incredibly small language which is sufficient for defining the
language THIRD, which is mostly like FORTH. Built-in primitives are
indistinguishable from user-defined words: both are entries in one dictionary,
and programs are threaded code, sequences of addresses of those entries.

The virtual machine has three chunks of memory: "main memory", "the stack",
and "string storage".  Main memory is an array of integer cells holding the
dictionary, compiled code, the return stack, and two control registers:

	@0  the dictionary pointer; all compilation appends here
	@1  the return stack pointer
	@2  always 0; a fake dictionary entry that means "pushint"
	@32 the first dictionary entry

The stack holds the data that primitives operate upon, and string storage
holds the names of defined words; neither is addressable by programs.

FIRST builds its dictionary by reading names for its primitives, so it needs
the names of the 13 base words as its first 13 words of input:

	: immediate _read @ ! - * / <0 exit echo key pick

Everything after that is program text, compiled by default; words marked
immediate run as soon as they are read.  The interpreter exits successfully
once its input is exhausted.

See first.go for the primitives, prelude.go for a sample program and the
start of the THIRD kernel.

*/
package main
