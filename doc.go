// Package metaobject describes Go values as object classes for a foreign
// reflection runtime.
//
// A class is an ordered list of methods and properties with typed signatures.
// It is compiled into a revision 5 binary metadata table plus a string pool,
// and every member is adapted into one uniform calling convention the
// foreign runtime invokes.
//
// # Architecture Overview
//
//	metaobject/          Root package with the Memory and Allocator interfaces
//	├── types/           Type signature registry and slot codecs (incl. object handles)
//	├── dispatch/        Arity 0-3 adapters into the uniform calling convention
//	├── metatable/       String interning, table builder, compiler and decoder
//	├── class/           Declarations, per-class memoization and registration
//	├── engine/          Reference foreign runtime bridge on wazero
//	├── errors/          Structured error types
//	└── cmd/metac/       Compiler CLI for TOML class declarations
//
// # Quick Start
//
//	counters := class.NewInstances[*Counter]()
//
//	counterClass := class.New("Counter",
//	    class.Property("value", types.Int, counters.Receiver(),
//	        func(ctx context.Context, c *Counter) (int32, error) { return c.Value, nil },
//	        func(ctx context.Context, c *Counter, v int32) error { c.Value = v; return nil }),
//	    class.Method("increment", dispatch.Adapt0(counters.Receiver(), types.Int,
//	        func(ctx context.Context, c *Counter) (int32, error) { c.Value++; return c.Value, nil })),
//	)
//
//	md, err := counterClass.Metadata()
//
// # Uniform Calling Convention
//
// Every member is invoked as (self, argv). argv points at an array of
// 32-bit slot pointers: argv[0] is the result slot (0 for none) and
// argv[1..n] hold the arguments. Slot layout is decided by the value's
// codec in package types.
//
// # Thread Safety
//
// Compiled metadata is immutable and may be shared freely. Compilation and
// registration of a Class happen once, even under concurrent first use.
// Dispatch runs on whatever goroutine the foreign runtime calls from.
package metaobject
