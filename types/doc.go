// Package types maps Go value types to the TypeNames and slot layouts of the
// foreign runtime.
//
// Each supported type is a Type[T] codec value. Adapters in package dispatch
// only accept codecs, so using a Go type that has no registered TypeName is a
// compile error rather than a runtime failure.
//
// Builtin codecs:
//
//	Void       void        (no slot)
//	Bool       bool        1 byte
//	Int        int         int32
//	UInt       uint        uint32
//	LongLong   qlonglong   int64
//	ULongLong  qulonglong  uint64
//	Float      float       float32
//	Double     double      float64
//	String     QString     {ptr, len} UTF-8
//	Bytes      QByteArray  {ptr, len}
//	ObjectType QObject*    native handle
//
// All multi-byte values are little-endian.
package types
