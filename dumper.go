package main

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

type vmDumper struct {
	vm  *VM
	out io.Writer

	addrWidth int
	words     []int // ascending
}

func (dump vmDumper) dump() {
	fmt.Fprintf(dump.out, "# VM Dump\n")
	fmt.Fprintf(dump.out, "  prog: %v\n", dump.vm.prog)
	fmt.Fprintf(dump.out, "  last: %v\n", dump.vm.last)
	fmt.Fprintf(dump.out, "  stack: %v\n", dump.vm.stack.values())
	if !dump.vm.booted {
		return
	}

	dump.scanWords()
	end := int(dump.vm.mem.Size())
	if here := dump.vm.here(); end < here {
		end = here
	}
	if dump.addrWidth == 0 {
		dump.addrWidth = len(strconv.Itoa(end))
	}

	dump.dumpRange(0, dictBase)
	fmt.Fprintf(dump.out, "# Dictionary @%v\n", dictBase)
	dump.dumpRange(dictBase, dump.vm.retBase)
	fmt.Fprintf(dump.out, "# Return Stack @%v\n", dump.vm.retBase)
	dump.dumpRange(dump.vm.retBase, dump.vm.memBase)
	fmt.Fprintf(dump.out, "# Main Memory @%v\n", dump.vm.memBase)
	dump.dumpRange(dump.vm.memBase, end)
}

func (dump *vmDumper) scanWords() {
	words := dump.vm.words()
	dump.words = make([]int, len(words))
	for i, word := range words {
		dump.words[len(words)-1-i] = word
	}
}

func (dump *vmDumper) dumpRange(lo, hi int) {
	if limit := int(dump.vm.mem.Limit); hi > limit {
		hi = limit
	}
	var buf bytes.Buffer
	for addr := lo; addr < hi; {
		fmt.Fprintf(&buf, "  @%*v ", dump.addrWidth, addr)
		n := buf.Len()
		addr = dump.formatMem(&buf, addr)
		if buf.Len() == n {
			buf.Reset()
		} else {
			buf.WriteByte('\n')
			buf.WriteTo(dump.out)
		}
	}
}

func (dump *vmDumper) formatMem(buf *bytes.Buffer, addr int) int {
	vm := dump.vm
	val := vm.load(addr)

	// registers and scratch cells
	if addr < dictBase {
		if addr <= addrPushint || val != 0 {
			buf.WriteString(strconv.Itoa(val))
		}
		switch addr {
		case addrHere:
			buf.WriteString(" here")
		case addrRet:
			buf.WriteString(" ret")
		case addrPushint:
			buf.WriteString(" pushint")
		}
		return addr + 1
	}

	// return stack and padding
	if addr >= vm.retBase && addr < vm.memBase {
		if addr > vm.retBase && addr <= vm.load(addrRet) {
			fmt.Fprintf(buf, "%v ret_%v", val, addr-vm.retBase)
		} else if val != 0 {
			buf.WriteString(strconv.Itoa(val))
		}
		return addr + 1
	}

	// dictionary words
	if i := sort.SearchInts(dump.words, addr); i < len(dump.words) && dump.words[i] == addr {
		return dump.formatWord(buf, i)
	}

	if val != 0 {
		buf.WriteString(strconv.Itoa(val))
	}
	return addr + 1
}

// formatWord renders a dictionary entry like a definition: builtin opcodes by
// name, and after runme each compiled address by the word that it calls.
func (dump *vmDumper) formatWord(buf *bytes.Buffer, i int) int {
	vm := dump.vm
	word, end := dump.words[i], dump.wordEnd(i)

	parts := []string{":", dump.name(vm.load(word + 1))}
	addr := word + 2
	if vm.load(addr) == int(opCompile) {
		addr++
	} else {
		parts = append(parts, "immediate")
	}

	for refs := false; addr < end; {
		if refs {
			var part string
			part, addr = dump.formatRef(addr, end)
			parts = append(parts, part)
			continue
		}
		cell := vm.load(addr)
		addr++
		if code, ok := decode(cell); !ok {
			parts = append(parts, strconv.Itoa(cell))
		} else if code == opRun {
			refs = true
		} else {
			parts = append(parts, code.String())
		}
	}

	buf.WriteString(strings.Join(parts, " "))
	return addr
}

func (dump *vmDumper) formatRef(addr, end int) (string, int) {
	vm := dump.vm
	ref := vm.load(addr)
	addr++

	if ref == addrPushint && addr < end {
		return fmt.Sprintf("pushint(%v)", vm.load(addr)), addr + 1
	}

	// call to word+offset
	if i := sort.Search(len(dump.words), func(i int) bool {
		return dump.words[i] > ref
	}) - 1; i >= 0 && ref < dump.wordEnd(i) {
		word := dump.words[i]
		name := dump.name(vm.load(word + 1))
		if offset := ref - (word + 3); offset != 0 {
			return fmt.Sprintf("%v%+d", name, offset), addr
		}
		return name, addr
	}

	// call to unknown address
	return strconv.Itoa(ref), addr
}

// wordEnd returns the address after the last cell of the i-th word; the last
// builtin ends where the return stack begins.
func (dump *vmDumper) wordEnd(i int) int {
	end := dump.vm.here()
	if i+1 < len(dump.words) {
		end = dump.words[i+1]
	}
	if word := dump.words[i]; word < dump.vm.retBase && end > dump.vm.retBase {
		end = dump.vm.retBase
	}
	if limit := int(dump.vm.mem.Limit); end > limit {
		end = limit
	}
	return end
}

func (dump *vmDumper) name(off int) string {
	if name := dump.vm.names.name(off); name != "" {
		return name
	}
	return fmt.Sprintf("UNDEFINED_NAME_%v", off)
}
