package class

import (
	"context"
	stderrors "errors"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/wippyai/metaobject/dispatch"
	"github.com/wippyai/metaobject/errors"
	"github.com/wippyai/metaobject/internal/memtest"
	"github.com/wippyai/metaobject/metatable"
	"github.com/wippyai/metaobject/types"
)

type counter struct {
	value int32
}

func counterClass(instances *Instances[*counter]) *Class {
	recv := instances.Receiver()
	return New("Counter",
		Property("value", types.Rename(types.Int, "Int"), recv,
			func(_ context.Context, c *counter) (int32, error) { return c.value, nil },
			func(_ context.Context, c *counter, v int32) error { c.value = v; return nil }),
		Method("increment", dispatch.Adapt0(recv, types.Rename(types.Int, "Int"),
			func(_ context.Context, c *counter) (int32, error) { c.value++; return c.value, nil })),
	)
}

func TestCounterMetadata(t *testing.T) {
	c := counterClass(NewInstances[*counter]())
	md, err := c.Metadata()
	if err != nil {
		t.Fatalf("Metadata failed: %v", err)
	}

	want, err := metatable.Compile(metatable.Class{
		Name:       "Counter",
		Methods:    []metatable.Method{{Name: "increment", Types: []string{"Int"}}},
		Properties: []metatable.Property{{Name: "value", Type: "Int", Writable: true}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(md, want) {
		t.Errorf("metadata = %+v, want %+v", md, want)
	}
	if string(md.Strings) != "Counter\x00increment()\x00\x00Int\x00value\x00" {
		t.Errorf("pool = %q", md.Strings)
	}
}

func TestMetadataCompiledOnce(t *testing.T) {
	c := counterClass(NewInstances[*counter]())

	var wg sync.WaitGroup
	results := make([]*metatable.Metadata, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = c.Metadata()
		}(i)
	}
	wg.Wait()

	for i, md := range results {
		if md == nil || md != results[0] {
			t.Fatalf("call %d returned a different table", i)
		}
	}
}

func TestMetadataErrorCached(t *testing.T) {
	c := New("Broken",
		Method("m", dispatch.Action0(dispatch.Handle, func(context.Context, types.Object) error { return nil })),
		Method("m", dispatch.Action0(dispatch.Handle, func(context.Context, types.Object) error { return nil })),
	)
	_, err1 := c.Metadata()
	_, err2 := c.Metadata()
	if !stderrors.Is(err1, &errors.Error{Phase: errors.PhaseCompile, Kind: errors.KindDuplicate}) {
		t.Errorf("err = %v, want duplicate", err1)
	}
	if err1 != err2 {
		t.Error("compile error was not cached")
	}
}

func TestFuncs(t *testing.T) {
	recv := dispatch.Handle
	c := New("Shape",
		ReadOnly("area", types.Double, recv, func(context.Context, types.Object) (float64, error) { return 1, nil }),
		Method("scale", dispatch.Action1(recv, types.Double, func(context.Context, types.Object, float64) error { return nil })),
		Property("label", types.String, recv,
			func(context.Context, types.Object) (string, error) { return "", nil },
			func(context.Context, types.Object, string) error { return nil }),
		Property("id", types.Int, recv,
			func(context.Context, types.Object) (int32, error) { return 0, nil }, nil),
	)

	if got := len(c.MethodFuncs()); got != 1 {
		t.Errorf("MethodFuncs() has %d entries", got)
	}

	props := c.PropertyFuncs()
	if len(props) != 6 {
		t.Fatalf("PropertyFuncs() has %d entries, want 6", len(props))
	}
	for i, wantWriter := range []bool{false, true, false} {
		if props[2*i] == nil {
			t.Errorf("property %d has no reader", i)
		}
		if (props[2*i+1] != nil) != wantWriter {
			t.Errorf("property %d writer present = %v, want %v", i, props[2*i+1] != nil, wantWriter)
		}
	}

	decl := c.Declaration()
	if decl.Methods[0].Types[0] != "void" || decl.Methods[0].Types[1] != "double" {
		t.Errorf("method types = %v", decl.Methods[0].Types)
	}
	if decl.Properties[0].Writable || !decl.Properties[1].Writable || decl.Properties[2].Writable {
		t.Errorf("property writability = %+v", decl.Properties)
	}
}

func TestNilMembers(t *testing.T) {
	var nilMethod *MethodMember
	var nilProperty *PropertyMember
	c := New("Sparse",
		nilMethod,
		Method("ping", dispatch.Action0(dispatch.Handle, func(context.Context, types.Object) error { return nil })),
		nilProperty,
		nil,
	)
	if len(c.Methods()) != 1 || len(c.Properties()) != 0 {
		t.Fatalf("members = %d methods, %d properties", len(c.Methods()), len(c.Properties()))
	}
	if got := c.Declaration().Methods[0].Name; got != "ping" {
		t.Errorf("method name = %q", got)
	}

	missing := New("Missing", Method("ping", nil))
	if decl := missing.Declaration(); len(decl.Methods) != 1 || decl.Methods[0].Types != nil {
		t.Errorf("declaration = %+v", decl)
	}
	if funcs := missing.MethodFuncs(); len(funcs) != 1 || funcs[0] != nil {
		t.Errorf("MethodFuncs() = %v, want one nil entry", funcs)
	}
	_, err := missing.Metadata()
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseDeclare, Kind: errors.KindNilPointer}) {
		t.Errorf("err = %v, want nil callable", err)
	}
}

func TestPropertyDispatch(t *testing.T) {
	ctx := context.Background()
	instances := NewInstances[*counter]()
	obj := &counter{value: 5}
	if err := instances.Bind(0x40, obj); err != nil {
		t.Fatal(err)
	}
	c := counterClass(instances)

	mem := memtest.NewMemory(1024)
	frame := dispatch.Frame{Mem: mem}
	props := c.PropertyFuncs()

	args := memtest.NewArgs(mem, 0x100, -1, 4)
	_ = types.Int.Store(mem, nil, args.Slots[1], 9)
	if err := props[1](ctx, frame, 0x40, args.Argv); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	if err := c.MethodFuncs()[0](ctx, frame, 0x40, 0); err != nil {
		t.Fatalf("increment failed: %v", err)
	}

	args = memtest.NewArgs(mem, 0x200, 4)
	if err := props[0](ctx, frame, 0x40, args.Argv); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if got, _ := types.Int.Load(mem, args.Slots[0]); got != 10 {
		t.Errorf("value = %d, want 10", got)
	}
}

type fakeRegistrar struct {
	calls  atomic.Int32
	err    error
	names  []string
	counts [][2]int
}

func (r *fakeRegistrar) RegisterClass(_ context.Context, name string, md *metatable.Metadata, methods, properties []dispatch.Func) (ID, error) {
	n := r.calls.Add(1)
	if r.err != nil {
		return 0, r.err
	}
	r.names = append(r.names, name)
	r.counts = append(r.counts, [2]int{len(methods), len(properties)})
	return ID(n), nil
}

func TestRegisterOnce(t *testing.T) {
	c := counterClass(NewInstances[*counter]())
	r := &fakeRegistrar{}

	var wg sync.WaitGroup
	ids := make([]ID, 8)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i], _ = c.Register(context.Background(), r)
		}(i)
	}
	wg.Wait()

	if r.calls.Load() != 1 {
		t.Errorf("registrar called %d times", r.calls.Load())
	}
	for _, id := range ids {
		if id != 1 {
			t.Errorf("id = %d, want 1", id)
		}
	}
	if r.counts[0] != [2]int{1, 2} {
		t.Errorf("registered %v funcs, want 1 method and 2 property slots", r.counts[0])
	}
}

func TestRegisterRejectionIsFinal(t *testing.T) {
	c := counterClass(NewInstances[*counter]())
	reject := &fakeRegistrar{err: stderrors.New("table refused")}

	_, err := c.Register(context.Background(), reject)
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseRegister, Kind: errors.KindRegistration}) {
		t.Fatalf("err = %v, want registration error", err)
	}

	accept := &fakeRegistrar{}
	if _, err2 := c.Register(context.Background(), accept); err2 != err {
		t.Errorf("second Register returned %v, want the recorded rejection", err2)
	}
	if accept.calls.Load() != 0 {
		t.Error("rejected class was registered again")
	}
}

func TestRegisterIgnoresLaterRegistrar(t *testing.T) {
	c := counterClass(NewInstances[*counter]())
	first := &fakeRegistrar{}
	second := &fakeRegistrar{}
	second.calls.Store(41)

	id1, err := c.Register(context.Background(), first)
	if err != nil {
		t.Fatal(err)
	}
	id2, err := c.Register(context.Background(), second)
	if err != nil {
		t.Fatal(err)
	}
	if id1 != 1 || id2 != id1 {
		t.Errorf("ids = %d, %d, want 1 from the first registrar", id1, id2)
	}
	if second.calls.Load() != 41 {
		t.Error("second registrar was contacted")
	}
}

func TestRegisterCompileFailure(t *testing.T) {
	c := New("")
	r := &fakeRegistrar{}
	_, err := c.Register(context.Background(), r)
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseCompile, Kind: errors.KindInvalidInput}) {
		t.Errorf("err = %v", err)
	}
	if r.calls.Load() != 0 {
		t.Error("registrar saw an uncompilable class")
	}
}
