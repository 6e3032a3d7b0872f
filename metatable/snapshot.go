package metatable

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/wippyai/metaobject/errors"
)

// Snapshot is the serialized form of a compiled class.
type Snapshot struct {
	Class    string   `cbor:"1,keyasint"`
	Revision uint32   `cbor:"2,keyasint"`
	Table    []uint32 `cbor:"3,keyasint"`
	Strings  []byte   `cbor:"4,keyasint"`
}

// Canonical mode so equal metadata always serializes to equal bytes.
var snapshotEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("metatable: failed to create CBOR enc mode: %v", err))
	}
	snapshotEncMode = em
}

// MarshalSnapshot serializes a compiled class to CBOR bytes.
func MarshalSnapshot(md *Metadata) ([]byte, error) {
	decoded, err := DecodeMetadata(md)
	if err != nil {
		return nil, err
	}
	return snapshotEncMode.Marshal(&Snapshot{
		Class:    decoded.Name,
		Revision: Revision,
		Table:    md.Table,
		Strings:  md.Strings,
	})
}

// UnmarshalSnapshot deserializes and validates a compiled class.
func UnmarshalSnapshot(data []byte) (*Metadata, error) {
	var s Snapshot
	if err := cbor.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrap(errors.PhaseDecode, errors.KindInvalidData, err, "unmarshal snapshot")
	}
	if s.Revision != Revision {
		return nil, errors.Revision(s.Revision, Revision)
	}
	md := &Metadata{Table: s.Table, Strings: s.Strings}
	decoded, err := DecodeMetadata(md)
	if err != nil {
		return nil, err
	}
	if decoded.Name != s.Class {
		return nil, errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Path(s.Class).
			Detail("snapshot names class %q but table names %q", s.Class, decoded.Name).
			Build()
	}
	return md, nil
}
