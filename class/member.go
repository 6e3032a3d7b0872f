package class

import (
	"context"

	"github.com/wippyai/metaobject/dispatch"
	"github.com/wippyai/metaobject/types"
)

// Member is a method or property declaration passed to New.
type Member interface {
	memberName() string
}

// MethodMember is a declared method.
type MethodMember struct {
	name string
	call *dispatch.Callable
}

// Method declares a method backed by an adapted callable.
func Method(name string, call *dispatch.Callable) *MethodMember {
	return &MethodMember{name: name, call: call}
}

func (m *MethodMember) memberName() string { return m.name }

// Name returns the method name.
func (m *MethodMember) Name() string { return m.name }

// Callable returns the adapted function.
func (m *MethodMember) Callable() *dispatch.Callable { return m.call }

// PropertyMember is a declared property with a reader and an optional
// writer.
type PropertyMember struct {
	name   string
	typ    types.Info
	reader *dispatch.Callable
	writer *dispatch.Callable
}

func (p *PropertyMember) memberName() string { return p.name }

// Name returns the property name.
func (p *PropertyMember) Name() string { return p.name }

// Type returns the property value type.
func (p *PropertyMember) Type() types.Info { return p.typ }

// Reader returns the getter adapted as a zero-argument method.
func (p *PropertyMember) Reader() *dispatch.Callable { return p.reader }

// Writer returns the setter adapted as a one-argument action, or nil for
// a read-only property.
func (p *PropertyMember) Writer() *dispatch.Callable { return p.writer }

// Property declares a read-write property. A nil set makes it read-only.
func Property[S, T any](
	name string,
	typ types.Type[T],
	recv dispatch.Receiver[S],
	get func(context.Context, S) (T, error),
	set func(context.Context, S, T) error,
) *PropertyMember {
	p := ReadOnly(name, typ, recv, get)
	if set != nil {
		p.writer = dispatch.Action1(recv, typ, set)
	}
	return p
}

// ReadOnly declares a property without a writer.
func ReadOnly[S, T any](
	name string,
	typ types.Type[T],
	recv dispatch.Receiver[S],
	get func(context.Context, S) (T, error),
) *PropertyMember {
	return &PropertyMember{
		name:   name,
		typ:    typ,
		reader: dispatch.Adapt0(recv, typ, get),
	}
}
