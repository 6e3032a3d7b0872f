package dispatch

import (
	"context"

	"github.com/wippyai/metaobject/types"
)

// Adapt0 adapts a method without arguments that returns a value.
func Adapt0[S, R any](recv Receiver[S], ret types.Type[R], fn func(context.Context, S) (R, error)) *Callable {
	return newCallable(func(ctx context.Context, f Frame, self, argv uint32) error {
		result, _, err := slots(f.Mem, argv, 0)
		if err != nil {
			return err
		}
		s, err := recv(ctx, f, self)
		if err != nil {
			return err
		}
		v, err := fn(ctx, s)
		if err != nil {
			return err
		}
		return store(f, ret, result, v)
	}, ret)
}

// Adapt1 adapts a one-argument method that returns a value.
func Adapt1[S, A, R any](recv Receiver[S], ret types.Type[R], a types.Type[A], fn func(context.Context, S, A) (R, error)) *Callable {
	return newCallable(func(ctx context.Context, f Frame, self, argv uint32) error {
		result, args, err := slots(f.Mem, argv, 1)
		if err != nil {
			return err
		}
		s, err := recv(ctx, f, self)
		if err != nil {
			return err
		}
		av, err := a.Load(f.Mem, args[0])
		if err != nil {
			return err
		}
		v, err := fn(ctx, s, av)
		if err != nil {
			return err
		}
		return store(f, ret, result, v)
	}, ret, a)
}

// Adapt2 adapts a two-argument method that returns a value.
func Adapt2[S, A, B, R any](recv Receiver[S], ret types.Type[R], a types.Type[A], b types.Type[B], fn func(context.Context, S, A, B) (R, error)) *Callable {
	return newCallable(func(ctx context.Context, f Frame, self, argv uint32) error {
		result, args, err := slots(f.Mem, argv, 2)
		if err != nil {
			return err
		}
		s, err := recv(ctx, f, self)
		if err != nil {
			return err
		}
		av, err := a.Load(f.Mem, args[0])
		if err != nil {
			return err
		}
		bv, err := b.Load(f.Mem, args[1])
		if err != nil {
			return err
		}
		v, err := fn(ctx, s, av, bv)
		if err != nil {
			return err
		}
		return store(f, ret, result, v)
	}, ret, a, b)
}

// Adapt3 adapts a three-argument method that returns a value.
func Adapt3[S, A, B, C, R any](recv Receiver[S], ret types.Type[R], a types.Type[A], b types.Type[B], c types.Type[C], fn func(context.Context, S, A, B, C) (R, error)) *Callable {
	return newCallable(func(ctx context.Context, f Frame, self, argv uint32) error {
		result, args, err := slots(f.Mem, argv, 3)
		if err != nil {
			return err
		}
		s, err := recv(ctx, f, self)
		if err != nil {
			return err
		}
		av, err := a.Load(f.Mem, args[0])
		if err != nil {
			return err
		}
		bv, err := b.Load(f.Mem, args[1])
		if err != nil {
			return err
		}
		cv, err := c.Load(f.Mem, args[2])
		if err != nil {
			return err
		}
		v, err := fn(ctx, s, av, bv, cv)
		if err != nil {
			return err
		}
		return store(f, ret, result, v)
	}, ret, a, b, c)
}

// Action0 adapts a method without arguments or result.
func Action0[S any](recv Receiver[S], fn func(context.Context, S) error) *Callable {
	return newCallable(func(ctx context.Context, f Frame, self, argv uint32) error {
		if _, _, err := slots(f.Mem, argv, 0); err != nil {
			return err
		}
		s, err := recv(ctx, f, self)
		if err != nil {
			return err
		}
		return fn(ctx, s)
	}, types.Void)
}

// Action1 adapts a one-argument method without result. Property writers
// are Action1 adapters.
func Action1[S, A any](recv Receiver[S], a types.Type[A], fn func(context.Context, S, A) error) *Callable {
	return newCallable(func(ctx context.Context, f Frame, self, argv uint32) error {
		_, args, err := slots(f.Mem, argv, 1)
		if err != nil {
			return err
		}
		s, err := recv(ctx, f, self)
		if err != nil {
			return err
		}
		av, err := a.Load(f.Mem, args[0])
		if err != nil {
			return err
		}
		return fn(ctx, s, av)
	}, types.Void, a)
}

// Action2 adapts a two-argument method without result.
func Action2[S, A, B any](recv Receiver[S], a types.Type[A], b types.Type[B], fn func(context.Context, S, A, B) error) *Callable {
	return newCallable(func(ctx context.Context, f Frame, self, argv uint32) error {
		_, args, err := slots(f.Mem, argv, 2)
		if err != nil {
			return err
		}
		s, err := recv(ctx, f, self)
		if err != nil {
			return err
		}
		av, err := a.Load(f.Mem, args[0])
		if err != nil {
			return err
		}
		bv, err := b.Load(f.Mem, args[1])
		if err != nil {
			return err
		}
		return fn(ctx, s, av, bv)
	}, types.Void, a, b)
}

// Action3 adapts a three-argument method without result.
func Action3[S, A, B, C any](recv Receiver[S], a types.Type[A], b types.Type[B], c types.Type[C], fn func(context.Context, S, A, B, C) error) *Callable {
	return newCallable(func(ctx context.Context, f Frame, self, argv uint32) error {
		_, args, err := slots(f.Mem, argv, 3)
		if err != nil {
			return err
		}
		s, err := recv(ctx, f, self)
		if err != nil {
			return err
		}
		av, err := a.Load(f.Mem, args[0])
		if err != nil {
			return err
		}
		bv, err := b.Load(f.Mem, args[1])
		if err != nil {
			return err
		}
		cv, err := c.Load(f.Mem, args[2])
		if err != nil {
			return err
		}
		return fn(ctx, s, av, bv, cv)
	}, types.Void, a, b, c)
}
