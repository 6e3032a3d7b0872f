package engine

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/metaobject/class"
	"github.com/wippyai/metaobject/dispatch"
	"github.com/wippyai/metaobject/errors"
	"github.com/wippyai/metaobject/metatable"
)

// HostModuleName is the import module guests call the bridge through.
const HostModuleName = "metaobject"

// registered is one class as the foreign runtime sees it.
type registered struct {
	name       string
	md         *metatable.Metadata
	decoded    *metatable.Decoded
	blob       []byte
	methods    []dispatch.Func
	properties []dispatch.Func
}

// Bridge is a class.Registrar that exposes registered classes to wasm
// guests. Guests read class metadata and invoke members by class ID and
// record index through the host module built by Instantiate.
type Bridge struct {
	mu      sync.RWMutex
	classes []*registered
	byName  map[string]class.ID
}

// NewBridge creates an empty bridge.
func NewBridge() *Bridge {
	return &Bridge{byName: make(map[string]class.ID)}
}

// RegisterClass validates md and the member functions against each other
// and assigns the next class ID, starting at 1.
func (b *Bridge) RegisterClass(_ context.Context, name string, md *metatable.Metadata, methods, properties []dispatch.Func) (class.ID, error) {
	decoded, err := metatable.DecodeMetadata(md)
	if err != nil {
		return 0, errors.Registration(name, err)
	}
	if err := checkMembers(name, decoded, methods, properties); err != nil {
		return 0, errors.Registration(name, err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.byName[name]; ok {
		return 0, errors.Registration(name, errors.Duplicate(errors.PhaseRegister, nil, "class", name))
	}

	b.classes = append(b.classes, &registered{
		name:       name,
		md:         md,
		decoded:    decoded,
		blob:       md.Bytes(),
		methods:    append([]dispatch.Func(nil), methods...),
		properties: append([]dispatch.Func(nil), properties...),
	})
	id := class.ID(len(b.classes))
	b.byName[name] = id

	Logger().Debug("class registered",
		zap.String("class", name),
		zap.Uint32("id", uint32(id)),
		zap.Int("methods", len(methods)),
		zap.Int("properties", len(decoded.Properties)))
	return id, nil
}

func checkMembers(name string, d *metatable.Decoded, methods, properties []dispatch.Func) error {
	if d.Name != name {
		return errors.InvalidData(errors.PhaseRegister, []string{name},
			fmt.Sprintf("table names class %q", d.Name))
	}
	if len(methods) != len(d.Methods) {
		return errors.InvalidData(errors.PhaseRegister, []string{name},
			fmt.Sprintf("%d method records, %d functions", len(d.Methods), len(methods)))
	}
	if len(properties) != 2*len(d.Properties) {
		return errors.InvalidData(errors.PhaseRegister, []string{name},
			fmt.Sprintf("%d property records, %d functions", len(d.Properties), len(properties)))
	}
	for i, m := range methods {
		if m == nil {
			return errors.NilPointer(errors.PhaseRegister, []string{name, d.Methods[i].Name()}, "method function")
		}
	}
	for i, p := range d.Properties {
		if properties[2*i] == nil {
			return errors.NilPointer(errors.PhaseRegister, []string{name, p.Name}, "property reader")
		}
		if (properties[2*i+1] != nil) != p.Writable() {
			return errors.InvalidData(errors.PhaseRegister, []string{name, p.Name},
				"writer presence disagrees with the writable flag")
		}
	}
	return nil
}

// Lookup returns the ID of a registered class.
func (b *Bridge) Lookup(name string) (class.ID, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	id, ok := b.byName[name]
	return id, ok
}

// Metadata returns the table registered under id.
func (b *Bridge) Metadata(id class.ID) (*metatable.Metadata, bool) {
	r, err := b.get(id)
	if err != nil {
		return nil, false
	}
	return r.md, true
}

// Classes returns the registered class names, sorted.
func (b *Bridge) Classes() []string {
	b.mu.RLock()
	names := make([]string, 0, len(b.byName))
	for name := range b.byName {
		names = append(names, name)
	}
	b.mu.RUnlock()
	sort.Strings(names)
	return names
}

func (b *Bridge) get(id class.ID) (*registered, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if id == 0 || int(id) > len(b.classes) {
		return nil, errors.NotFound(errors.PhaseDispatch, "class", fmt.Sprintf("#%d", id))
	}
	return b.classes[id-1], nil
}

// Instantiate builds the host module guests import. Failures inside a host
// function trap the calling guest with the original error.
func (b *Bridge) Instantiate(ctx context.Context, r wazero.Runtime) (api.Module, error) {
	i32 := api.ValueTypeI32
	call := []api.ValueType{i32, i32, i32, i32}

	mod, err := r.NewHostModuleBuilder(HostModuleName).
		NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(b.invokeMethod), call, nil).
		WithParameterNames("class", "self", "index", "argv").
		Export("invoke_method").
		NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(b.readProperty), call, nil).
		WithParameterNames("class", "self", "index", "argv").
		Export("read_property").
		NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(b.writeProperty), call, nil).
		WithParameterNames("class", "self", "index", "argv").
		Export("write_property").
		NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(b.metadataSize), []api.ValueType{i32}, []api.ValueType{i32}).
		WithParameterNames("class").
		Export("metadata_size").
		NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(b.copyMetadata), []api.ValueType{i32, i32}, nil).
		WithParameterNames("class", "dst").
		Export("copy_metadata").
		Instantiate(ctx)
	if err != nil {
		return nil, errors.Instantiation(HostModuleName, err)
	}
	Logger().Debug("host module instantiated", zap.Int("classes", len(b.Classes())))
	return mod, nil
}

// frame builds the dispatch frame for a call from mod.
func frame(ctx context.Context, mod api.Module) dispatch.Frame {
	mem := mod.Memory()
	if mem == nil {
		panic(errors.Unsupported(errors.PhaseDispatch, "guest exports no memory"))
	}
	f := dispatch.Frame{Mem: NewWazeroMemory(mem)}
	if a := newGuestAllocator(ctx, mod); a != nil {
		f.Alloc = a
	}
	return f
}

// trap aborts the guest call. wazero recovers the panic and returns err,
// wrapped, from the guest's entry point.
func trap(err error) {
	if err != nil {
		panic(err)
	}
}

func (b *Bridge) invokeMethod(ctx context.Context, mod api.Module, stack []uint64) {
	r, err := b.get(class.ID(api.DecodeU32(stack[0])))
	trap(err)
	self, index, argv := api.DecodeU32(stack[1]), int(api.DecodeU32(stack[2])), api.DecodeU32(stack[3])
	if index >= len(r.methods) {
		trap(errors.OutOfBounds(errors.PhaseDispatch, []string{r.name}, index, len(r.methods)))
	}
	debugf("invoke %s.%s self=%#x", r.name, r.decoded.Methods[index].Signature, self)
	trap(r.methods[index](ctx, frame(ctx, mod), self, argv))
}

func (b *Bridge) readProperty(ctx context.Context, mod api.Module, stack []uint64) {
	r, err := b.get(class.ID(api.DecodeU32(stack[0])))
	trap(err)
	self, index, argv := api.DecodeU32(stack[1]), int(api.DecodeU32(stack[2])), api.DecodeU32(stack[3])
	if index >= len(r.decoded.Properties) {
		trap(errors.OutOfBounds(errors.PhaseDispatch, []string{r.name}, index, len(r.decoded.Properties)))
	}
	trap(r.properties[2*index](ctx, frame(ctx, mod), self, argv))
}

func (b *Bridge) writeProperty(ctx context.Context, mod api.Module, stack []uint64) {
	r, err := b.get(class.ID(api.DecodeU32(stack[0])))
	trap(err)
	self, index, argv := api.DecodeU32(stack[1]), int(api.DecodeU32(stack[2])), api.DecodeU32(stack[3])
	if index >= len(r.decoded.Properties) {
		trap(errors.OutOfBounds(errors.PhaseDispatch, []string{r.name}, index, len(r.decoded.Properties)))
	}
	w := r.properties[2*index+1]
	if w == nil {
		trap(errors.ReadOnly([]string{r.name, r.decoded.Properties[index].Name}))
	}
	trap(w(ctx, frame(ctx, mod), self, argv))
}

func (b *Bridge) metadataSize(_ context.Context, _ api.Module, stack []uint64) {
	r, err := b.get(class.ID(api.DecodeU32(stack[0])))
	trap(err)
	stack[0] = api.EncodeU32(uint32(len(r.blob)))
}

func (b *Bridge) copyMetadata(_ context.Context, mod api.Module, stack []uint64) {
	r, err := b.get(class.ID(api.DecodeU32(stack[0])))
	trap(err)
	mem := mod.Memory()
	if mem == nil {
		trap(errors.Unsupported(errors.PhaseDispatch, "guest exports no memory"))
	}
	dst := api.DecodeU32(stack[1])
	if !mem.Write(dst, r.blob) {
		trap(outOfBounds("write", dst, uint32(len(r.blob))))
	}
}

var _ class.Registrar = (*Bridge)(nil)
