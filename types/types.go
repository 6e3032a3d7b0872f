package types

import (
	"github.com/wippyai/metaobject"
)

type (
	Memory    = metaobject.Memory
	Allocator = metaobject.Allocator
)

// Info is the type-erased view of a codec used to build signatures.
type Info interface {
	// Name is the TypeName the foreign runtime knows the type by.
	Name() string
	// Size is the slot size in bytes.
	Size() uint32
	Align() uint32
	IsVoid() bool
}

// LoadFunc reads a value out of the slot at ptr.
type LoadFunc[T any] func(mem Memory, ptr uint32) (T, error)

// StoreFunc writes v into the slot at ptr. alloc may be nil for
// codecs that never allocate.
type StoreFunc[T any] func(mem Memory, alloc Allocator, ptr uint32, v T) error

// Type is the marshalling contract for values of Go type T: the TypeName,
// the slot layout and the load/store pair. Codecs are plain values resolved
// at compile time; a Go type without a codec cannot appear in a declaration.
type Type[T any] struct {
	load  LoadFunc[T]
	store StoreFunc[T]
	name  string
	size  uint32
	align uint32
	void  bool
}

// Define creates a codec for T. It panics on an empty name or a nil
// load/store function, since codecs are package-level declarations.
func Define[T any](name string, size, align uint32, load LoadFunc[T], store StoreFunc[T]) Type[T] {
	if name == "" {
		panic("types: codec name cannot be empty")
	}
	if load == nil || store == nil {
		panic("types: codec " + name + " needs both load and store")
	}
	if align == 0 {
		align = 1
	}
	return Type[T]{
		name:  name,
		size:  size,
		align: align,
		load:  load,
		store: store,
	}
}

// Rename returns a codec with t's layout under another TypeName.
func Rename[T any](t Type[T], name string) Type[T] {
	if name == "" {
		panic("types: codec name cannot be empty")
	}
	t.name = name
	return t
}

func (t Type[T]) Name() string  { return t.name }
func (t Type[T]) Size() uint32  { return t.size }
func (t Type[T]) Align() uint32 { return t.align }
func (t Type[T]) IsVoid() bool  { return t.void }

// Load reads a T from the slot at ptr.
func (t Type[T]) Load(mem Memory, ptr uint32) (T, error) {
	return t.load(mem, ptr)
}

// Store writes v into the slot at ptr.
func (t Type[T]) Store(mem Memory, alloc Allocator, ptr uint32, v T) error {
	return t.store(mem, alloc, ptr, v)
}

// Names returns the TypeNames of infos in order.
func Names(infos ...Info) []string {
	names := make([]string, len(infos))
	for i, info := range infos {
		names[i] = info.Name()
	}
	return names
}

var _ Info = Type[int32]{}
