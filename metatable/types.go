package metatable

import "encoding/binary"

// Class is the signature-only description of a class to compile.
type Class struct {
	Name       string
	Methods    []Method
	Properties []Property
}

// Method declares a method. Types[0] is the return TypeName ("void" when
// there is none) and Types[1:] are the parameter TypeNames.
type Method struct {
	Name  string
	Types []string
}

// Property declares a property. Writable marks a property with a writer.
type Property struct {
	Name     string
	Type     string
	Writable bool
}

// Metadata is a compiled class: the integer table and the string pool it
// references by byte offset. It is immutable once compiled.
type Metadata struct {
	Table   []uint32
	Strings []byte
}

// Bytes returns the table as little-endian words followed by the string
// pool, the layout the foreign runtime copies into its own memory.
func (m *Metadata) Bytes() []byte {
	out := make([]byte, len(m.Table)*4+len(m.Strings))
	for i, v := range m.Table {
		binary.LittleEndian.PutUint32(out[i*4:], v)
	}
	copy(out[len(m.Table)*4:], m.Strings)
	return out
}

// Size returns len(m.Bytes()) without building it.
func (m *Metadata) Size() int {
	return len(m.Table)*4 + len(m.Strings)
}

// Clone returns a deep copy.
func (m *Metadata) Clone() *Metadata {
	return &Metadata{
		Table:   append([]uint32(nil), m.Table...),
		Strings: append([]byte(nil), m.Strings...),
	}
}

// Decoded is the parsed view of a table.
type Decoded struct {
	Name       string
	Methods    []DecodedMethod
	Properties []DecodedProperty
}

// DecodedMethod is one method record. Index is its position in the table.
type DecodedMethod struct {
	Signature  string
	Parameters string
	Result     string
	Index      int
	Flags      uint32
}

// Name returns the signature up to the opening parenthesis.
func (m DecodedMethod) Name() string {
	for i := 0; i < len(m.Signature); i++ {
		if m.Signature[i] == '(' {
			return m.Signature[:i]
		}
	}
	return m.Signature
}

// DecodedProperty is one property record. Index is its position in the table.
type DecodedProperty struct {
	Name  string
	Type  string
	Index int
	Flags uint32
}

func (p DecodedProperty) Readable() bool   { return p.Flags&PropertyReadable != 0 }
func (p DecodedProperty) Writable() bool   { return p.Flags&PropertyWritable != 0 }
func (p DecodedProperty) Scriptable() bool { return p.Flags&PropertyScriptable != 0 }
