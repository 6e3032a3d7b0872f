package metatable

import (
	"strings"

	"github.com/wippyai/metaobject/errors"
	"github.com/wippyai/metaobject/metatable/internal/binary"
	"github.com/wippyai/metaobject/metatable/internal/strtab"
)

// Signature renders a method signature from its parameter TypeNames,
// e.g. "move(int,int)". The return type is not part of it.
func Signature(name string, params []string) string {
	var b strings.Builder
	b.WriteString(name)
	b.WriteByte('(')
	for i, p := range params {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(p)
	}
	b.WriteByte(')')
	return b.String()
}

// ParameterNames renders the parameter-names field for argc parameters.
// Names are not tracked, so the field is argc-1 separators.
func ParameterNames(argc int) string {
	if argc <= 1 {
		return ""
	}
	return strings.Repeat(",", argc-1)
}

// builder is the transient compile state. Body records are written first
// while the section starts are recorded; the header is assembled from them
// afterwards.
type builder struct {
	strings       *strtab.Table
	body          *binary.Writer
	methodStart   int
	propertyStart int
}

func newBuilder() *builder {
	return &builder{
		strings:       strtab.New(),
		body:          binary.NewWriter(),
		methodStart:   -1,
		propertyStart: -1,
	}
}

func (b *builder) writeMethod(m Method) {
	if b.methodStart < 0 {
		b.methodStart = b.body.Len()
	}
	params := m.Types[1:]
	b.body.WriteString(b.strings, Signature(m.Name, params))
	b.body.WriteString(b.strings, ParameterNames(len(params)))
	b.body.WriteString(b.strings, m.Types[0])
	b.body.WriteU32(methodFlags)
}

func (b *builder) writeProperty(p Property) {
	if b.propertyStart < 0 {
		b.propertyStart = b.body.Len()
	}
	flags := PropertyReadable | PropertyScriptable
	if p.Writable {
		flags |= PropertyWritable
	}
	b.body.WriteString(b.strings, p.Name)
	b.body.WriteString(b.strings, p.Type)
	b.body.WriteU32(flags)
}

// sectionIndex converts a body position into a table index, 0 for an
// empty section.
func sectionIndex(start int) uint32 {
	if start < 0 {
		return 0
	}
	return uint32(HeaderSize + start)
}

// Compile lays out c as a revision 5 table. The class name is interned
// first, then methods and properties in declaration order, so the same
// input always produces identical output.
func Compile(c Class) (*Metadata, error) {
	if err := validate(c); err != nil {
		return nil, err
	}

	b := newBuilder()
	className := b.strings.Intern(c.Name)

	for _, m := range c.Methods {
		b.writeMethod(m)
	}
	for _, p := range c.Properties {
		b.writeProperty(p)
	}
	b.body.WriteU32(0)

	header := binary.NewWriterSize(HeaderSize + b.body.Len())
	header.WriteU32(Revision)
	header.WriteU32(className)
	header.WriteZeros(2) // class info
	header.WriteU32(uint32(len(c.Methods)))
	header.WriteU32(sectionIndex(b.methodStart))
	header.WriteU32(uint32(len(c.Properties)))
	header.WriteU32(sectionIndex(b.propertyStart))
	header.WriteZeros(4) // enums, constructors
	header.WriteU32(0)   // flags
	header.WriteU32(0)   // signal count
	header.Append(b.body)

	return &Metadata{
		Table:   header.Ints(),
		Strings: b.strings.Bytes(),
	}, nil
}

func validate(c Class) error {
	if c.Name == "" {
		return errors.InvalidInput(errors.PhaseCompile, "class name cannot be empty")
	}
	if err := checkName(c.Name, c.Name, "class name"); err != nil {
		return err
	}

	methods := make(map[string]bool, len(c.Methods))
	for i, m := range c.Methods {
		if m.Name == "" {
			return errors.New(errors.PhaseCompile, errors.KindInvalidInput).
				Path(c.Name).
				Detail("method %d has no name", i).
				Build()
		}
		if methods[m.Name] {
			return errors.Duplicate(errors.PhaseCompile, []string{c.Name}, "method", m.Name)
		}
		methods[m.Name] = true

		if len(m.Types) == 0 {
			return errors.New(errors.PhaseCompile, errors.KindInvalidInput).
				Path(c.Name, m.Name).
				Detail("signature has no return type").
				Build()
		}
		if err := checkName(c.Name, m.Name, "method name"); err != nil {
			return err
		}
		for _, typ := range m.Types {
			if err := checkType(c.Name, m.Name, typ); err != nil {
				return err
			}
		}
	}

	props := make(map[string]bool, len(c.Properties))
	for i, p := range c.Properties {
		if p.Name == "" {
			return errors.New(errors.PhaseCompile, errors.KindInvalidInput).
				Path(c.Name).
				Detail("property %d has no name", i).
				Build()
		}
		if props[p.Name] {
			return errors.Duplicate(errors.PhaseCompile, []string{c.Name}, "property", p.Name)
		}
		props[p.Name] = true

		if err := checkName(c.Name, p.Name, "property name"); err != nil {
			return err
		}
		if err := checkType(c.Name, p.Name, p.Type); err != nil {
			return err
		}
	}
	return nil
}

// checkName rejects characters that would corrupt the pool or a signature.
func checkName(class, name, what string) error {
	if strings.ContainsAny(name, "\x00(),") {
		return errors.New(errors.PhaseCompile, errors.KindInvalidInput).
			Path(class).
			Value(name).
			Detail("%s %q contains a reserved character", what, name).
			Build()
	}
	return nil
}

func checkType(class, member, typ string) error {
	if typ == "" {
		return errors.New(errors.PhaseCompile, errors.KindInvalidInput).
			Path(class, member).
			Detail("empty type name").
			Build()
	}
	if strings.IndexByte(typ, 0) >= 0 {
		return errors.New(errors.PhaseCompile, errors.KindInvalidInput).
			Path(class, member).
			MetaType(typ).
			Detail("type name contains NUL").
			Build()
	}
	return nil
}
