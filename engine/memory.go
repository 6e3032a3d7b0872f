package engine

import (
	"context"

	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/metaobject"
	"github.com/wippyai/metaobject/errors"
)

// WazeroMemory wraps wazero memory to implement metaobject.Memory
type WazeroMemory struct {
	mem api.Memory
}

// NewWazeroMemory adapts a guest memory.
func NewWazeroMemory(mem api.Memory) *WazeroMemory {
	return &WazeroMemory{mem: mem}
}

func outOfBounds(op string, offset, length uint32) error {
	return errors.New(errors.PhaseDispatch, errors.KindOutOfBounds).
		Value(offset).
		Detail("%s out of bounds: offset=%d, length=%d", op, offset, length).
		Build()
}

func (m *WazeroMemory) Read(offset uint32, length uint32) ([]byte, error) {
	data, ok := m.mem.Read(offset, length)
	if !ok {
		return nil, outOfBounds("read", offset, length)
	}
	return data, nil
}

func (m *WazeroMemory) Write(offset uint32, data []byte) error {
	ok := m.mem.Write(offset, data)
	if !ok {
		return outOfBounds("write", offset, uint32(len(data)))
	}
	return nil
}

func (m *WazeroMemory) ReadU8(offset uint32) (uint8, error) {
	v, ok := m.mem.ReadByte(offset)
	if !ok {
		return 0, outOfBounds("read", offset, 1)
	}
	return v, nil
}

func (m *WazeroMemory) ReadU16(offset uint32) (uint16, error) {
	v, ok := m.mem.ReadUint16Le(offset)
	if !ok {
		return 0, outOfBounds("read", offset, 2)
	}
	return v, nil
}

func (m *WazeroMemory) ReadU32(offset uint32) (uint32, error) {
	val, ok := m.mem.ReadUint32Le(offset)
	if !ok {
		return 0, outOfBounds("read", offset, 4)
	}
	return val, nil
}

func (m *WazeroMemory) ReadU64(offset uint32) (uint64, error) {
	val, ok := m.mem.ReadUint64Le(offset)
	if !ok {
		return 0, outOfBounds("read", offset, 8)
	}
	return val, nil
}

func (m *WazeroMemory) WriteU8(offset uint32, value uint8) error {
	if !m.mem.WriteByte(offset, value) {
		return outOfBounds("write", offset, 1)
	}
	return nil
}

func (m *WazeroMemory) WriteU16(offset uint32, value uint16) error {
	if !m.mem.WriteUint16Le(offset, value) {
		return outOfBounds("write", offset, 2)
	}
	return nil
}

func (m *WazeroMemory) WriteU32(offset uint32, value uint32) error {
	ok := m.mem.WriteUint32Le(offset, value)
	if !ok {
		return outOfBounds("write", offset, 4)
	}
	return nil
}

func (m *WazeroMemory) WriteU64(offset uint32, value uint64) error {
	ok := m.mem.WriteUint64Le(offset, value)
	if !ok {
		return outOfBounds("write", offset, 8)
	}
	return nil
}

func (m *WazeroMemory) Size() uint32 {
	if m.mem == nil {
		return 0
	}
	return m.mem.Size()
}

// guestAllocator allocates through the guest's exported
// alloc(size, align) -> ptr and, when present, free(ptr, size, align).
type guestAllocator struct {
	ctx      context.Context
	allocFn  api.Function
	freeFn   api.Function
	stackBuf [3]uint64
}

func newGuestAllocator(ctx context.Context, mod api.Module) *guestAllocator {
	allocFn := mod.ExportedFunction("alloc")
	if allocFn == nil {
		return nil
	}
	return &guestAllocator{
		ctx:     ctx,
		allocFn: allocFn,
		freeFn:  mod.ExportedFunction("free"),
	}
}

func (a *guestAllocator) Alloc(size, align uint32) (uint32, error) {
	a.stackBuf[0] = uint64(size)
	a.stackBuf[1] = uint64(align)
	if err := a.allocFn.CallWithStack(a.ctx, a.stackBuf[:2]); err != nil {
		return 0, errors.New(errors.PhaseStore, errors.KindAllocation).
			Cause(err).
			Detail("guest alloc of %d bytes failed", size).
			Build()
	}
	ptr := api.DecodeU32(a.stackBuf[0])
	if ptr == 0 {
		return 0, errors.AllocationFailed(errors.PhaseStore, size, align)
	}
	return ptr, nil
}

func (a *guestAllocator) Free(ptr, size, align uint32) {
	if a.freeFn == nil || ptr == 0 {
		return
	}
	a.stackBuf[0] = uint64(ptr)
	a.stackBuf[1] = uint64(size)
	a.stackBuf[2] = uint64(align)
	if err := a.freeFn.CallWithStack(a.ctx, a.stackBuf[:3]); err != nil {
		Logger().Warn("guest free failed",
			zap.Uint32("ptr", ptr),
			zap.Uint32("size", size),
			zap.Error(err))
	}
}

var (
	_ metaobject.Memory      = (*WazeroMemory)(nil)
	_ metaobject.MemorySizer = (*WazeroMemory)(nil)
	_ metaobject.Allocator   = (*guestAllocator)(nil)
)
