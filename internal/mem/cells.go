package mem

import "fmt"

// DefaultChunkSize provides a default for Cells.ChunkSize.
const DefaultChunkSize = 256

// Cells implements a bounded, lazily grown array of integer cells.
//
// Storage is allocated in ChunkSize increments as addresses are first
// written; loads of addresses that have never been written return 0.
// Any access at or past Limit is an error.
type Cells struct {
	// Limit is the capacity of the address space; it must be non-zero for
	// any store to succeed.
	Limit uint

	// ChunkSize is the growth granularity, DefaultChunkSize if zero.
	ChunkSize uint

	cells []int
}

// LimitError indicates that a load or store addressed a cell outside of the
// memory's capacity.
type LimitError struct {
	Addr  uint
	Limit uint
	Op    string
}

func (lim LimitError) Error() string {
	return fmt.Sprintf("%v @%v exceeds memory limit %v", lim.Op, int(lim.Addr), lim.Limit)
}

// Size returns one past the highest address allocated so far.
func (m *Cells) Size() uint { return uint(len(m.cells)) }

// Load returns the value at addr.
func (m *Cells) Load(addr uint) (int, error) {
	if addr >= m.Limit {
		return 0, LimitError{addr, m.Limit, "load"}
	}
	if addr < uint(len(m.cells)) {
		return m.cells[addr], nil
	}
	return 0, nil
}

// LoadInto reads len(buf) values starting at addr; no partial load is done if
// the range exceeds Limit.
func (m *Cells) LoadInto(addr uint, buf []int) error {
	if len(buf) == 0 {
		return nil
	}
	end := addr + uint(len(buf))
	if addr >= m.Limit || end > m.Limit || end < addr {
		return LimitError{end - 1, m.Limit, "load"}
	}
	n := 0
	if addr < uint(len(m.cells)) {
		n = copy(buf, m.cells[addr:])
	}
	for i := n; i < len(buf); i++ {
		buf[i] = 0
	}
	return nil
}

// Stor writes values starting at addr, growing storage as needed; no partial
// store is done if the range exceeds Limit.
func (m *Cells) Stor(addr uint, values ...int) error {
	if len(values) == 0 {
		return nil
	}
	end := addr + uint(len(values))
	if addr >= m.Limit || end > m.Limit || end < addr {
		return LimitError{end - 1, m.Limit, "stor"}
	}
	m.grow(end)
	copy(m.cells[addr:], values)
	return nil
}

func (m *Cells) grow(size uint) {
	if size <= uint(len(m.cells)) {
		return
	}
	chunk := m.ChunkSize
	if chunk == 0 {
		chunk = DefaultChunkSize
	}
	size = (size + chunk - 1) / chunk * chunk
	if size > m.Limit {
		size = m.Limit
	}
	m.cells = append(m.cells, make([]int, size-uint(len(m.cells)))...)
}
