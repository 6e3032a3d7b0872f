package types

import "fmt"

// Object is a non-owning reference to a natively owned object. The foreign
// runtime owns the referent's lifetime; an Object is only the pointer value
// and is never freed or duplicated through this package.
type Object struct {
	ptr uint32
}

// ObjectOf wraps a raw native pointer.
func ObjectOf(ptr uint32) Object {
	return Object{ptr: ptr}
}

// Ptr returns the raw pointer value.
func (o Object) Ptr() uint32 { return o.ptr }

// IsNull reports whether the handle references nothing.
func (o Object) IsNull() bool { return o.ptr == 0 }

func (o Object) String() string {
	return fmt.Sprintf("QObject*(0x%08x)", o.ptr)
}

// ObjectType marshals an Object as its pointer value. Store writes the
// handle, never the referent.
var ObjectType = Define[Object]("QObject*", 4, 4,
	func(mem Memory, ptr uint32) (Object, error) {
		raw, err := mem.ReadU32(ptr)
		if err != nil {
			return Object{}, err
		}
		return ObjectOf(raw), nil
	},
	func(mem Memory, _ Allocator, ptr uint32, o Object) error {
		return mem.WriteU32(ptr, o.ptr)
	})
