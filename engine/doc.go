// Package engine is a reference foreign runtime for compiled classes,
// built on wazero.
//
// A Bridge collects classes through class.Register and exposes them to
// WebAssembly guests as the host module "metaobject":
//
//	invoke_method(class, self, index, argv i32)
//	read_property(class, self, index, argv i32)
//	write_property(class, self, index, argv i32)
//	metadata_size(class i32) -> i32
//	copy_metadata(class, dst i32)
//
// class is the ID assigned at registration, self is the guest's object
// pointer and argv follows the uniform calling convention in package
// dispatch: argv[0] is the result slot and argv[1..n] the argument slots,
// all pointers into guest memory. copy_metadata writes the table as
// little-endian words followed by the string pool.
//
// Values needing out-of-line storage, such as strings, are allocated
// through the guest's exported alloc(size, align) -> ptr. A guest without
// it can still call members whose results fit in their slot.
//
// # Errors
//
// A failing member traps the guest: the error is raised as a panic inside
// the host function and wazero returns it, wrapped, from the guest call.
// Use errors.Is to match it.
//
// # Thread Safety
//
// Bridge is safe for concurrent use. Member functions run on the goroutine
// of the guest call.
//
// # Known Limitations
//
// Memory64 is not supported. Pointers are 32-bit offsets.
package engine
