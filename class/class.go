package class

import (
	"context"
	stderrors "errors"
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/metaobject/dispatch"
	"github.com/wippyai/metaobject/errors"
	"github.com/wippyai/metaobject/metatable"
)

// ID is the identifier a Registrar assigns to a registered class.
type ID uint32

// Registrar hands compiled classes to the foreign runtime. methods holds
// one function per method record; properties holds a reader and a writer
// per property record, the writer nil when the property is read-only.
type Registrar interface {
	RegisterClass(ctx context.Context, name string, md *metatable.Metadata, methods, properties []dispatch.Func) (ID, error)
}

// Class is a declared class. Its metadata is compiled on first use and
// shared by every instance afterwards.
type Class struct {
	name       string
	methods    []*MethodMember
	properties []*PropertyMember

	compileOnce sync.Once
	md          *metatable.Metadata
	compileErr  error

	registerOnce sync.Once
	id           ID
	registerErr  error
}

// New declares a class. Members keep their declaration order, which is
// the order of the compiled records and of MethodFuncs and PropertyFuncs.
// Nil members are skipped.
func New(name string, members ...Member) *Class {
	c := &Class{name: name}
	for _, m := range members {
		switch m := m.(type) {
		case *MethodMember:
			if m != nil {
				c.methods = append(c.methods, m)
			}
		case *PropertyMember:
			if m != nil {
				c.properties = append(c.properties, m)
			}
		}
	}
	return c
}

// Name returns the class name.
func (c *Class) Name() string { return c.name }

// Methods returns the declared methods in order.
func (c *Class) Methods() []*MethodMember {
	return append([]*MethodMember(nil), c.methods...)
}

// Properties returns the declared properties in order.
func (c *Class) Properties() []*PropertyMember {
	return append([]*PropertyMember(nil), c.properties...)
}

// Declaration returns the signature-only description Compile consumes.
func (c *Class) Declaration() metatable.Class {
	decl := metatable.Class{
		Name:       c.name,
		Methods:    make([]metatable.Method, len(c.methods)),
		Properties: make([]metatable.Property, len(c.properties)),
	}
	for i, m := range c.methods {
		decl.Methods[i] = metatable.Method{Name: m.name}
		if m.call != nil {
			decl.Methods[i].Types = m.call.Signature()
		}
	}
	for i, p := range c.properties {
		decl.Properties[i] = metatable.Property{
			Name:     p.name,
			Type:     p.typ.Name(),
			Writable: p.writer != nil,
		}
	}
	return decl
}

// Metadata compiles the class on first call and returns the cached result,
// error included, on every call after that.
func (c *Class) Metadata() (*metatable.Metadata, error) {
	c.compileOnce.Do(func() {
		for _, m := range c.methods {
			if m.call == nil {
				c.compileErr = errors.NilPointer(errors.PhaseDeclare, []string{c.name, m.name}, "callable")
				return
			}
		}
		c.md, c.compileErr = metatable.Compile(c.Declaration())
		if c.compileErr != nil {
			Logger().Error("class compilation failed",
				zap.String("class", c.name),
				zap.Error(c.compileErr))
			return
		}
		Logger().Debug("class compiled",
			zap.String("class", c.name),
			zap.Int("methods", len(c.methods)),
			zap.Int("properties", len(c.properties)),
			zap.Int("table_words", len(c.md.Table)),
			zap.Int("pool_bytes", len(c.md.Strings)))
	})
	return c.md, c.compileErr
}

// MethodFuncs returns one uniform function per method, in record order.
// A method declared without a callable has a nil entry.
func (c *Class) MethodFuncs() []dispatch.Func {
	out := make([]dispatch.Func, len(c.methods))
	for i, m := range c.methods {
		if m.call != nil {
			out[i] = m.call.Func()
		}
	}
	return out
}

// PropertyFuncs returns the reader and writer of each property
// interleaved, so property i has its reader at 2i and its writer at 2i+1.
// The writer is nil for read-only properties.
func (c *Class) PropertyFuncs() []dispatch.Func {
	out := make([]dispatch.Func, 0, 2*len(c.properties))
	for _, p := range c.properties {
		var w dispatch.Func
		if p.writer != nil {
			w = p.writer.Func()
		}
		out = append(out, p.reader.Func(), w)
	}
	return out
}

// Register compiles the class and hands it to r, once. Later calls return
// the first outcome without contacting any registrar, so the ID is only
// meaningful to the registrar of the first call, even when a different
// registrar is passed later. A rejection is final for the class.
func (c *Class) Register(ctx context.Context, r Registrar) (ID, error) {
	c.registerOnce.Do(func() {
		md, err := c.Metadata()
		if err != nil {
			c.registerErr = err
			return
		}
		id, err := r.RegisterClass(ctx, c.name, md, c.MethodFuncs(), c.PropertyFuncs())
		if err != nil {
			var e *errors.Error
			if !stderrors.As(err, &e) || e.Kind != errors.KindRegistration {
				err = errors.Registration(c.name, err)
			}
			c.registerErr = err
			Logger().Error("class registration rejected",
				zap.String("class", c.name),
				zap.Error(err))
			return
		}
		c.id = id
		Logger().Debug("class registered",
			zap.String("class", c.name),
			zap.Uint32("id", uint32(id)))
	})
	return c.id, c.registerErr
}
