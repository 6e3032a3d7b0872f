package types

import (
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/wippyai/metaobject/errors"
)

// MaxStringSize bounds string and byte array records (16MB).
const MaxStringSize = 16 << 20

// Unit is the Go value of the void type.
type Unit struct{}

var (
	// Void marks a method or setter with no result. Its slot is never touched.
	Void = Type[Unit]{
		name:  "void",
		align: 1,
		void:  true,
		load:  func(Memory, uint32) (Unit, error) { return Unit{}, nil },
		store: func(Memory, Allocator, uint32, Unit) error { return nil },
	}

	Bool = Define[bool]("bool", 1, 1,
		func(mem Memory, ptr uint32) (bool, error) {
			v, err := mem.ReadU8(ptr)
			return v != 0, err
		},
		func(mem Memory, _ Allocator, ptr uint32, v bool) error {
			var b uint8
			if v {
				b = 1
			}
			return mem.WriteU8(ptr, b)
		})

	Int = Define[int32]("int", 4, 4,
		func(mem Memory, ptr uint32) (int32, error) {
			v, err := mem.ReadU32(ptr)
			return int32(v), err
		},
		func(mem Memory, _ Allocator, ptr uint32, v int32) error {
			return mem.WriteU32(ptr, uint32(v))
		})

	UInt = Define[uint32]("uint", 4, 4,
		func(mem Memory, ptr uint32) (uint32, error) {
			return mem.ReadU32(ptr)
		},
		func(mem Memory, _ Allocator, ptr uint32, v uint32) error {
			return mem.WriteU32(ptr, v)
		})

	LongLong = Define[int64]("qlonglong", 8, 8,
		func(mem Memory, ptr uint32) (int64, error) {
			v, err := mem.ReadU64(ptr)
			return int64(v), err
		},
		func(mem Memory, _ Allocator, ptr uint32, v int64) error {
			return mem.WriteU64(ptr, uint64(v))
		})

	ULongLong = Define[uint64]("qulonglong", 8, 8,
		func(mem Memory, ptr uint32) (uint64, error) {
			return mem.ReadU64(ptr)
		},
		func(mem Memory, _ Allocator, ptr uint32, v uint64) error {
			return mem.WriteU64(ptr, v)
		})

	Float = Define[float32]("float", 4, 4,
		func(mem Memory, ptr uint32) (float32, error) {
			v, err := mem.ReadU32(ptr)
			return math.Float32frombits(v), err
		},
		func(mem Memory, _ Allocator, ptr uint32, v float32) error {
			return mem.WriteU32(ptr, math.Float32bits(v))
		})

	Double = Define[float64]("double", 8, 8,
		func(mem Memory, ptr uint32) (float64, error) {
			v, err := mem.ReadU64(ptr)
			return math.Float64frombits(v), err
		},
		func(mem Memory, _ Allocator, ptr uint32, v float64) error {
			return mem.WriteU64(ptr, math.Float64bits(v))
		})

	// String is a UTF-8 {ptr, len} record. Storing a non-empty string
	// allocates its bytes through the Allocator.
	String = Define[string]("QString", 8, 4, loadString, storeString)

	// Bytes is a {ptr, len} record without UTF-8 validation.
	Bytes = Define[[]byte]("QByteArray", 8, 4, loadBytes, storeBytes)
)

func recordOverflow(phase errors.Phase, name string, size uint32) error {
	err := errors.Overflow(phase, nil, size, fmt.Sprintf("maximum record size %d", MaxStringSize))
	err.MetaType = name
	return err
}

func readRecord(mem Memory, ptr uint32, name string) ([]byte, error) {
	dataAddr, err := mem.ReadU32(ptr)
	if err != nil {
		return nil, err
	}
	dataLen, err := mem.ReadU32(ptr + 4)
	if err != nil {
		return nil, err
	}
	if dataLen == 0 {
		return nil, nil
	}
	if dataLen > MaxStringSize {
		return nil, recordOverflow(errors.PhaseLoad, name, dataLen)
	}
	return mem.Read(dataAddr, dataLen)
}

func writeRecord(mem Memory, alloc Allocator, ptr uint32, data []byte, name string) error {
	dataLen := uint32(len(data))
	if dataLen > MaxStringSize {
		return recordOverflow(errors.PhaseStore, name, dataLen)
	}

	if dataLen == 0 {
		if err := mem.WriteU32(ptr, 0); err != nil {
			return err
		}
		return mem.WriteU32(ptr+4, 0)
	}

	if alloc == nil {
		return errors.New(errors.PhaseStore, errors.KindAllocation).
			MetaType(name).
			Detail("no allocator for %d bytes", dataLen).
			Build()
	}
	dataAddr, err := alloc.Alloc(dataLen, 1)
	if err != nil {
		return errors.New(errors.PhaseStore, errors.KindAllocation).
			MetaType(name).
			Detail("failed to allocate %d bytes", dataLen).
			Cause(err).
			Build()
	}

	if err := mem.Write(dataAddr, data); err != nil {
		return err
	}
	if err := mem.WriteU32(ptr, dataAddr); err != nil {
		return err
	}
	return mem.WriteU32(ptr+4, dataLen)
}

func loadString(mem Memory, ptr uint32) (string, error) {
	data, err := readRecord(mem, ptr, "QString")
	if err != nil || len(data) == 0 {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", errors.InvalidUTF8(errors.PhaseLoad, nil, data)
	}
	return string(data), nil
}

func storeString(mem Memory, alloc Allocator, ptr uint32, s string) error {
	if !utf8.ValidString(s) {
		return errors.InvalidUTF8(errors.PhaseStore, nil, []byte(s))
	}
	return writeRecord(mem, alloc, ptr, []byte(s), "QString")
}

func loadBytes(mem Memory, ptr uint32) ([]byte, error) {
	data, err := readRecord(mem, ptr, "QByteArray")
	if err != nil || len(data) == 0 {
		return nil, err
	}
	// Memory may hand out a view of its backing store.
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func storeBytes(mem Memory, alloc Allocator, ptr uint32, b []byte) error {
	return writeRecord(mem, alloc, ptr, b, "QByteArray")
}
