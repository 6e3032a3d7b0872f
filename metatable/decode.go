package metatable

import (
	"bytes"
	"fmt"

	"github.com/wippyai/metaobject/errors"
)

// Decode parses a revision 5 table against its string pool. It rejects
// anything Compile would not produce: other revisions, sections this format
// subset does not support, records out of bounds, string offsets without a
// terminator and a missing trailing zero.
func Decode(table []uint32, pool []byte) (*Decoded, error) {
	if len(table) < HeaderSize+1 {
		return nil, errors.InvalidData(errors.PhaseDecode, nil,
			fmt.Sprintf("table has %d words, need at least %d", len(table), HeaderSize+1))
	}
	if table[hdrRevision] != Revision {
		return nil, errors.Revision(table[hdrRevision], Revision)
	}

	d := decoder{table: table, pool: pool}

	name, err := d.str(table[hdrClassName], "class name")
	if err != nil {
		return nil, err
	}

	for _, f := range []struct {
		idx  int
		what string
	}{
		{hdrClassInfoCount, "class info"},
		{hdrEnumCount, "enums"},
		{hdrConstructorCount, "constructors"},
		{hdrSignalCount, "signals"},
	} {
		if table[f.idx] != 0 {
			return nil, errors.New(errors.PhaseDecode, errors.KindUnsupported).
				Path(name).
				Value(table[f.idx]).
				Detail("%s are not supported", f.what).
				Build()
		}
	}

	methodCount := int(table[hdrMethodCount])
	methodIndex, err := d.section(name, "method", methodCount, table[hdrMethodIndex], MethodRecordSize)
	if err != nil {
		return nil, err
	}
	propertyCount := int(table[hdrPropertyCount])
	propertyIndex, err := d.section(name, "property", propertyCount, table[hdrPropertyIndex], PropertyRecordSize)
	if err != nil {
		return nil, err
	}

	want := HeaderSize + methodCount*MethodRecordSize + propertyCount*PropertyRecordSize + 1
	if len(table) != want {
		return nil, errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Path(name).
			Detail("table has %d words, records account for %d", len(table), want).
			Build()
	}
	if table[len(table)-1] != 0 {
		return nil, errors.InvalidData(errors.PhaseDecode, []string{name}, "missing trailing terminator")
	}
	if methodCount > 0 && propertyCount > 0 && propertyIndex != methodIndex+methodCount*MethodRecordSize {
		return nil, errors.InvalidData(errors.PhaseDecode, []string{name}, "property records overlap method records")
	}

	out := &Decoded{
		Name:       name,
		Methods:    make([]DecodedMethod, 0, methodCount),
		Properties: make([]DecodedProperty, 0, propertyCount),
	}

	for i := 0; i < methodCount; i++ {
		at := methodIndex + i*MethodRecordSize
		m := DecodedMethod{Index: at, Flags: table[at+3]}
		if m.Signature, err = d.str(table[at], "method signature"); err != nil {
			return nil, err
		}
		if m.Parameters, err = d.str(table[at+1], "parameter names"); err != nil {
			return nil, err
		}
		if m.Result, err = d.str(table[at+2], "return type"); err != nil {
			return nil, err
		}
		out.Methods = append(out.Methods, m)
	}

	for i := 0; i < propertyCount; i++ {
		at := propertyIndex + i*PropertyRecordSize
		p := DecodedProperty{Index: at, Flags: table[at+2]}
		if p.Name, err = d.str(table[at], "property name"); err != nil {
			return nil, err
		}
		if p.Type, err = d.str(table[at+1], "property type"); err != nil {
			return nil, err
		}
		out.Properties = append(out.Properties, p)
	}

	return out, nil
}

// DecodeMetadata is Decode for a compiled Metadata.
func DecodeMetadata(md *Metadata) (*Decoded, error) {
	if md == nil {
		return nil, errors.NilPointer(errors.PhaseDecode, nil, "metadata")
	}
	return Decode(md.Table, md.Strings)
}

type decoder struct {
	table []uint32
	pool  []byte
}

func (d *decoder) str(off uint32, what string) (string, error) {
	if int(off) >= len(d.pool) {
		return "", errors.New(errors.PhaseDecode, errors.KindOutOfBounds).
			Value(off).
			Detail("%s offset %d outside string pool of %d bytes", what, off, len(d.pool)).
			Build()
	}
	end := bytes.IndexByte(d.pool[off:], 0)
	if end < 0 {
		return "", errors.InvalidData(errors.PhaseDecode, nil,
			fmt.Sprintf("%s at offset %d is not NUL-terminated", what, off))
	}
	return string(d.pool[off : int(off)+end]), nil
}

func (d *decoder) section(class, what string, count int, index uint32, recordSize int) (int, error) {
	if count == 0 {
		if index != 0 {
			return 0, errors.New(errors.PhaseDecode, errors.KindInvalidData).
				Path(class).
				Value(index).
				Detail("empty %s section has index %d", what, index).
				Build()
		}
		return 0, nil
	}
	start := int(index)
	end := start + count*recordSize
	if start < HeaderSize || end > len(d.table)-1 {
		return 0, errors.New(errors.PhaseDecode, errors.KindOutOfBounds).
			Path(class).
			Value(index).
			Detail("%d %s records at %d exceed table of %d words", count, what, start, len(d.table)).
			Build()
	}
	return start, nil
}
