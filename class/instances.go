package class

import (
	"context"
	"fmt"
	"sync"

	"github.com/wippyai/metaobject/dispatch"
	"github.com/wippyai/metaobject/errors"
)

// Instances binds foreign object pointers to Go values. The foreign
// runtime owns object lifetime: the host binds a value when an object is
// created and unbinds it when the object is destroyed. Unbind never
// closes or releases the value.
type Instances[T any] struct {
	mu     sync.RWMutex
	values map[uint32]T
}

// NewInstances creates an empty table.
func NewInstances[T any]() *Instances[T] {
	return &Instances[T]{values: make(map[uint32]T)}
}

// Bind associates ptr with v.
func (t *Instances[T]) Bind(ptr uint32, v T) error {
	if ptr == 0 {
		return errors.NilPointer(errors.PhaseDispatch, nil, "object pointer")
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.values[ptr]; ok {
		return errors.Duplicate(errors.PhaseDispatch, nil, "instance", handleName(ptr))
	}
	t.values[ptr] = v
	return nil
}

// Unbind drops the binding for ptr and returns the value it held.
func (t *Instances[T]) Unbind(ptr uint32) (T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	v, ok := t.values[ptr]
	if ok {
		delete(t.values, ptr)
	}
	return v, ok
}

// Get returns the value bound to ptr.
func (t *Instances[T]) Get(ptr uint32) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.values[ptr]
	return v, ok
}

// Len returns the number of bindings.
func (t *Instances[T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.values)
}

// Receiver resolves the self pointer of a call through the table.
func (t *Instances[T]) Receiver() dispatch.Receiver[T] {
	return func(_ context.Context, _ dispatch.Frame, self uint32) (T, error) {
		v, ok := t.Get(self)
		if !ok {
			return v, errors.NotFound(errors.PhaseDispatch, "instance", handleName(self))
		}
		return v, nil
	}
}

func handleName(ptr uint32) string {
	return fmt.Sprintf("0x%08x", ptr)
}
