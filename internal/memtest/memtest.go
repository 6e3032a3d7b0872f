// Package memtest provides an in-process linear memory and bump allocator
// for tests that exercise slot marshalling without a foreign runtime.
package memtest

import (
	"encoding/binary"
	"fmt"

	"github.com/wippyai/metaobject"
)

// Memory is a fixed-size little-endian byte arena.
type Memory struct {
	data []byte
}

func NewMemory(size int) *Memory {
	return &Memory{data: make([]byte, size)}
}

func (m *Memory) check(offset, length uint32) error {
	if uint64(offset)+uint64(length) > uint64(len(m.data)) {
		return fmt.Errorf("out of bounds: offset=%d, length=%d, size=%d", offset, length, len(m.data))
	}
	return nil
}

func (m *Memory) Read(offset uint32, length uint32) ([]byte, error) {
	if err := m.check(offset, length); err != nil {
		return nil, err
	}
	return m.data[offset : offset+length], nil
}

func (m *Memory) Write(offset uint32, data []byte) error {
	if err := m.check(offset, uint32(len(data))); err != nil {
		return err
	}
	copy(m.data[offset:], data)
	return nil
}

func (m *Memory) ReadU8(offset uint32) (uint8, error) {
	if err := m.check(offset, 1); err != nil {
		return 0, err
	}
	return m.data[offset], nil
}

func (m *Memory) ReadU16(offset uint32) (uint16, error) {
	if err := m.check(offset, 2); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(m.data[offset:]), nil
}

func (m *Memory) ReadU32(offset uint32) (uint32, error) {
	if err := m.check(offset, 4); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(m.data[offset:]), nil
}

func (m *Memory) ReadU64(offset uint32) (uint64, error) {
	if err := m.check(offset, 8); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(m.data[offset:]), nil
}

func (m *Memory) WriteU8(offset uint32, value uint8) error {
	if err := m.check(offset, 1); err != nil {
		return err
	}
	m.data[offset] = value
	return nil
}

func (m *Memory) WriteU16(offset uint32, value uint16) error {
	if err := m.check(offset, 2); err != nil {
		return err
	}
	binary.LittleEndian.PutUint16(m.data[offset:], value)
	return nil
}

func (m *Memory) WriteU32(offset uint32, value uint32) error {
	if err := m.check(offset, 4); err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(m.data[offset:], value)
	return nil
}

func (m *Memory) WriteU64(offset uint32, value uint64) error {
	if err := m.check(offset, 8); err != nil {
		return err
	}
	binary.LittleEndian.PutUint64(m.data[offset:], value)
	return nil
}

func (m *Memory) Size() uint32 {
	return uint32(len(m.data))
}

// Allocator hands out memory from a moving offset and never reuses it.
type Allocator struct {
	mem    *Memory
	offset uint32
	Allocs int
}

// NewAllocator starts allocating at base, leaving room below it for slots.
func NewAllocator(mem *Memory, base uint32) *Allocator {
	return &Allocator{mem: mem, offset: base}
}

func (a *Allocator) Alloc(size, align uint32) (uint32, error) {
	if align == 0 {
		align = 1
	}
	ptr := (a.offset + align - 1) &^ (align - 1)
	if uint64(ptr)+uint64(size) > uint64(len(a.mem.data)) {
		return 0, fmt.Errorf("arena exhausted: need %d bytes at %d", size, ptr)
	}
	a.offset = ptr + size
	a.Allocs++
	return ptr, nil
}

func (a *Allocator) Free(ptr, size, align uint32) {}

// Args is a slot array laid out in memory the way the foreign runtime
// prepares one before a uniform call.
type Args struct {
	Mem  *Memory
	Argv uint32
	// Slots[0] is the result slot pointer.
	Slots []uint32
}

// NewArgs places an argv array of len(sizes) entries at base, then one
// 8-byte aligned slot per non-negative size. A negative size leaves that
// entry null.
func NewArgs(mem *Memory, base uint32, sizes ...int) *Args {
	f := &Args{Mem: mem, Argv: base, Slots: make([]uint32, len(sizes))}
	next := base + uint32(len(sizes))*4
	for i, size := range sizes {
		next = (next + 7) &^ 7
		if size < 0 {
			f.Slots[i] = 0
		} else {
			f.Slots[i] = next
			next += uint32(size)
			if size == 0 {
				next += 8
			}
		}
		if err := mem.WriteU32(base+uint32(i)*4, f.Slots[i]); err != nil {
			panic(err)
		}
	}
	return f
}

var (
	_ metaobject.Memory      = (*Memory)(nil)
	_ metaobject.MemorySizer = (*Memory)(nil)
	_ metaobject.Allocator   = (*Allocator)(nil)
)
