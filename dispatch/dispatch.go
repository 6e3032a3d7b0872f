package dispatch

import (
	"context"

	"github.com/wippyai/metaobject"
	"github.com/wippyai/metaobject/errors"
	"github.com/wippyai/metaobject/types"
)

// MaxArity is the largest number of arguments an adapter accepts.
const MaxArity = 3

// Frame is the foreign address space a call runs against.
type Frame struct {
	Mem   metaobject.Memory
	Alloc metaobject.Allocator
}

// Func is the uniform calling convention. argv points at an array of
// slot pointers: argv[0] is the result slot (0 for none) and argv[1..n]
// are the argument slots.
type Func func(ctx context.Context, f Frame, self, argv uint32) error

// Receiver resolves the self pointer of a call into the Go value the
// member operates on.
type Receiver[S any] func(ctx context.Context, f Frame, self uint32) (S, error)

// Handle is the Receiver for members that work on the raw object handle.
func Handle(_ context.Context, _ Frame, self uint32) (types.Object, error) {
	return types.ObjectOf(self), nil
}

// Callable is an adapted member: the uniform entry point plus the
// signature it was declared with.
type Callable struct {
	fn     Func
	result types.Info
	params []types.Info
}

func newCallable(fn Func, result types.Info, params ...types.Info) *Callable {
	return &Callable{fn: fn, result: result, params: params}
}

// Func returns the uniform entry point.
func (c *Callable) Func() Func { return c.fn }

// Invoke calls the member through the uniform convention.
func (c *Callable) Invoke(ctx context.Context, f Frame, self, argv uint32) error {
	return c.fn(ctx, f, self, argv)
}

// Result returns the return type, types.Void for actions.
func (c *Callable) Result() types.Info { return c.result }

// Params returns the parameter types in order.
func (c *Callable) Params() []types.Info {
	return append([]types.Info(nil), c.params...)
}

// Arity returns the number of parameters.
func (c *Callable) Arity() int { return len(c.params) }

// Signature returns the TypeNames of the member, the return type first.
func (c *Callable) Signature() []string {
	out := make([]string, 0, len(c.params)+1)
	out = append(out, c.result.Name())
	for _, p := range c.params {
		out = append(out, p.Name())
	}
	return out
}

// slots reads the result slot and the first n argument slots from argv.
// A null argv is only valid for a member without arguments, where it
// means there is no result slot either. Null argv or argument slots are
// caller bugs and panic.
func slots(mem metaobject.Memory, argv uint32, n int) (result uint32, args [MaxArity]uint32, err error) {
	if argv == 0 {
		if n > 0 {
			panic(errors.NilPointer(errors.PhaseDispatch, nil, "argument vector"))
		}
		return 0, args, nil
	}
	if result, err = mem.ReadU32(argv); err != nil {
		return 0, args, err
	}
	for i := 0; i < n; i++ {
		if args[i], err = mem.ReadU32(argv + uint32(i+1)*4); err != nil {
			return 0, args, err
		}
		if args[i] == 0 {
			panic(errors.New(errors.PhaseDispatch, errors.KindNilPointer).
				Value(i+1).
				Detail("null argument slot %d", i+1).
				Build())
		}
	}
	return result, args, nil
}

// store writes v to the result slot unless the slot is null or the
// result type is void.
func store[R any](f Frame, ret types.Type[R], slot uint32, v R) error {
	if slot == 0 || ret.IsVoid() {
		return nil
	}
	return ret.Store(f.Mem, f.Alloc, slot, v)
}
