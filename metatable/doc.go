// Package metatable compiles class declarations into revision 5 binary
// metadata tables and reads them back.
//
// A compiled class is a sequence of 32-bit words plus a string pool. Every
// string-valued field holds a byte offset into the pool, and repeated strings
// are stored once.
//
// # Table Layout
//
//	 0  revision (5)
//	 1  class name
//	 2  class info count, index (always 0, 0)
//	 4  method count, index of first method record (0 when none)
//	 6  property count, index of first property record (0 when none)
//	 8  enum count, index, constructor count, index (always 0)
//	12  flags (0)
//	13  signal count (0)
//	14  method records:   signature, parameter names, return type, flags
//	    property records: name, type, flags
//	    0 terminator
//
// Method signatures list parameter types only ("move(int,int)"). The
// parameter-names field is argc-1 commas: names are not recorded, only
// their count.
//
// Compile is deterministic. Decode validates a table against the same
// layout and is what registrars use to reject malformed input.
package metatable
