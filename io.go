package main

import (
	"io"
	"strings"

	"github.com/jcorbin/gofirst/internal/fileinput"
	"github.com/jcorbin/gofirst/internal/flushio"
	"github.com/jcorbin/gofirst/internal/runeio"
)

type ioCore struct {
	in    fileinput.Input
	out   flushio.WriteFlusher
	logfn func(mess string, args ...interface{})
}

func (ioc *ioCore) withLogPrefix(prefix string) func() {
	logfn := ioc.logfn
	ioc.logfn = func(mess string, args ...interface{}) {
		logfn(prefix+mess, args...)
	}
	return func() {
		ioc.logfn = logfn
	}
}

func (ioc ioCore) logf(mess string, args ...interface{}) {
	if ioc.logfn != nil {
		ioc.logfn(mess, args...)
	}
}

func (vm *VM) writeByte(b byte) {
	vm.haltif(flushio.WriteByte(vm.out, b))
}

// readKey returns the next input byte, or -1 once input has run out.
// Any pending output is flushed first, so that prompts appear before input
// is waited for.
func (vm *VM) readKey() int {
	vm.haltif(vm.out.Flush())
	b, err := vm.in.ReadByte()
	if err == io.EOF {
		return -1
	}
	vm.haltif(err)
	return int(b)
}

// scan reads a space-delimited token like scanf("%s"): leading space is
// skipped, and the space that ends the token is left to be read by key.
// Halts normally if input runs out before a token starts.
func (vm *VM) scan() (token string) {
	vm.haltif(vm.out.Flush())

	var sb strings.Builder
	for {
		b, err := vm.in.ReadByte()
		if err == io.EOF {
			vm.halt(nil)
		}
		vm.haltif(err)
		if !isSpace(b) {
			sb.WriteByte(b)
			break
		}
	}
	for {
		b, err := vm.in.ReadByte()
		if err == io.EOF {
			break
		}
		vm.haltif(err)
		if isSpace(b) {
			vm.haltif(vm.in.UnreadByte())
			break
		}
		sb.WriteByte(b)
	}

	token = sb.String()
	if vm.logfn != nil {
		loc := vm.in.Scan.Location
		if vm.in.Scan.Len() == 0 {
			loc = vm.in.Last.Location
		}
		vm.logf("scan %q from %v", token, loc)
	}
	return token
}

// isSpace matches C's isspace in the default locale.
func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

// atoi converts any leading decimal integer in s, like C's atoi; it returns 0
// if there is none.
func atoi(s string) (n int) {
	i := 0
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	neg := false
	if i < len(s) && (s[i] == '-' || s[i] == '+') {
		neg = s[i] == '-'
		i++
	}
	for ; i < len(s) && '0' <= s[i] && s[i] <= '9'; i++ {
		n = n*10 + int(s[i]-'0')
	}
	if neg {
		n = -n
	}
	return n
}

func runeName(c int) string { return runeio.Name(c) }
