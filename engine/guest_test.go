package engine

// Minimal wasm binary encoder for test guests.

const (
	valI32 = 0x7f

	opCall      = 0x10
	opLocalGet  = 0x20
	opLocalTee  = 0x22
	opGlobalGet = 0x23
	opGlobalSet = 0x24
	opI32Const  = 0x41
	opI32Add    = 0x6a
	opI32And    = 0x71
	opEnd       = 0x0b
)

func uleb(v uint32) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			out = append(out, b|0x80)
			continue
		}
		return append(out, b)
	}
}

func sleb(v int32) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if (v == 0 && b&0x40 == 0) || (v == -1 && b&0x40 != 0) {
			return append(out, b)
		}
		out = append(out, b|0x80)
	}
}

func name(s string) []byte {
	return append(uleb(uint32(len(s))), s...)
}

func vec(items ...[]byte) []byte {
	out := uleb(uint32(len(items)))
	for _, it := range items {
		out = append(out, it...)
	}
	return out
}

func section(id byte, body []byte) []byte {
	out := []byte{id}
	out = append(out, uleb(uint32(len(body)))...)
	return append(out, body...)
}

func funcType(params, results int) []byte {
	out := []byte{0x60}
	out = append(out, uleb(uint32(params))...)
	for i := 0; i < params; i++ {
		out = append(out, valI32)
	}
	out = append(out, uleb(uint32(results))...)
	for i := 0; i < results; i++ {
		out = append(out, valI32)
	}
	return out
}

func body(locals int, code ...byte) []byte {
	var b []byte
	if locals > 0 {
		b = vec(append(uleb(uint32(locals)), valI32))
	} else {
		b = vec()
	}
	b = append(b, code...)
	return append(uleb(uint32(len(b))), b...)
}

// forward returns a body passing n parameters straight to function fn.
func forward(n int, fn uint32) []byte {
	var code []byte
	for i := 0; i < n; i++ {
		code = append(code, opLocalGet, byte(i))
	}
	code = append(code, opCall)
	code = append(code, uleb(fn)...)
	return body(0, append(code, opEnd)...)
}

// guestModule imports the bridge host module, re-exports each import
// through a trampoline and provides memory plus a bump alloc starting at
// heapBase.
func guestModule(withAlloc bool) []byte {
	const (
		tCall  = 0 // (i32 x4) -> ()
		tSize  = 1 // (i32) -> i32
		tCopy  = 2 // (i32, i32) -> ()
		tAlloc = 3 // (i32, i32) -> i32
	)
	imp := func(field string, typ uint32) []byte {
		out := name(HostModuleName)
		out = append(out, name(field)...)
		out = append(out, 0x00)
		return append(out, uleb(typ)...)
	}
	exp := func(field string, kind byte, idx uint32) []byte {
		return append(append(name(field), kind), uleb(idx)...)
	}

	funcs := [][]byte{uleb(tCall), uleb(tCall), uleb(tCall), uleb(tSize), uleb(tCopy)}
	codes := [][]byte{forward(4, 0), forward(4, 1), forward(4, 2), forward(1, 3), forward(2, 4)}
	exports := [][]byte{
		exp("memory", 0x02, 0),
		exp("call_method", 0x00, 5),
		exp("get_property", 0x00, 6),
		exp("set_property", 0x00, 7),
		exp("meta_size", 0x00, 8),
		exp("meta_copy", 0x00, 9),
	}
	if withAlloc {
		funcs = append(funcs, uleb(tAlloc))
		// ptr = (heap + 7) & -8; heap = ptr + size; return ptr
		code := []byte{opGlobalGet, 0, opI32Const}
		code = append(code, sleb(7)...)
		code = append(code, opI32Add, opI32Const)
		code = append(code, sleb(-8)...)
		code = append(code, opI32And, opLocalTee, 2, opLocalGet, 2, opLocalGet, 0, opI32Add, opGlobalSet, 0, opEnd)
		codes = append(codes, body(1, code...))
		exports = append(exports, exp("alloc", 0x00, 10))
	}

	global := []byte{valI32, 0x01, opI32Const}
	global = append(global, sleb(heapBase)...)
	global = append(global, opEnd)

	out := []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}
	out = append(out, section(1, vec(funcType(4, 0), funcType(1, 1), funcType(2, 0), funcType(2, 1)))...)
	out = append(out, section(2, vec(
		imp("invoke_method", tCall),
		imp("read_property", tCall),
		imp("write_property", tCall),
		imp("metadata_size", tSize),
		imp("copy_metadata", tCopy),
	))...)
	out = append(out, section(3, vec(funcs...))...)
	out = append(out, section(5, vec([]byte{0x00, 0x01}))...)
	out = append(out, section(6, vec(global))...)
	out = append(out, section(7, vec(exports...))...)
	out = append(out, section(10, vec(codes...))...)
	return out
}

const heapBase = 4096
