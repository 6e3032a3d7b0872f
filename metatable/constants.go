package metatable

// Revision is the table format revision this package emits and reads.
const Revision = 5

// Table geometry in 32-bit words.
const (
	HeaderSize         = 14
	MethodRecordSize   = 4
	PropertyRecordSize = 3
)

// Header field indices
const (
	hdrRevision         = 0
	hdrClassName        = 1
	hdrClassInfoCount   = 2
	hdrClassInfoIndex   = 3
	hdrMethodCount      = 4
	hdrMethodIndex      = 5
	hdrPropertyCount    = 6
	hdrPropertyIndex    = 7
	hdrEnumCount        = 8
	hdrEnumIndex        = 9
	hdrConstructorCount = 10
	hdrConstructorIndex = 11
	hdrFlags            = 12
	hdrSignalCount      = 13
)

// Method flags
const (
	AccessPrivate    uint32 = 0x00
	AccessProtected  uint32 = 0x01
	AccessPublic     uint32 = 0x02
	AccessMask       uint32 = 0x03
	MethodScriptable uint32 = 0x40
)

// Property flags
const (
	PropertyReadable   uint32 = 0x00000001
	PropertyWritable   uint32 = 0x00000002
	PropertyScriptable uint32 = 0x00004000
)

// methodFlags is the flag word of every compiled method.
const methodFlags = AccessPublic | MethodScriptable
