package main

import (
	"bytes"
	"fmt"
)

// Offsets below nameBase are scratch space for the most recently read token,
// so names are stored starting here.
const nameBase = 64

// nameHeap is the string storage: NUL-terminated names, appended and never
// moved.
type nameHeap struct {
	buf []byte
	top int
}

type nameHeapError struct {
	name string
	top  int
	size int
}

func (err nameHeapError) Error() string {
	return fmt.Sprintf("string storage full: no room for %q at %v of %v bytes", err.name, err.top, err.size)
}

func (nh *nameHeap) init(size uint) {
	nh.buf = make([]byte, size)
	nh.top = nameBase
}

// store appends name at top, returning its offset.
func (nh *nameHeap) store(name string) (int, error) {
	off := nh.top
	end := off + len(name) + 1
	if end > len(nh.buf) {
		return 0, nameHeapError{name, off, len(nh.buf)}
	}
	copy(nh.buf[off:], name)
	nh.buf[end-1] = 0
	nh.top = end
	return off, nil
}

// name returns the string stored at off, or "" if off does not address
// string storage.
func (nh *nameHeap) name(off int) string {
	if off < nameBase || off >= len(nh.buf) {
		return ""
	}
	b := nh.buf[off:]
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}
