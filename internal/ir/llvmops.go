package ir

import "tinygo.org/x/go-llvm"

// llvmops mirrors MLIR's `llvm` dialect: the pointer/memory-level
// operations above the arith/cf layer (load, store, GEP, byte-swap,
// memcpy/memmove intrinsics, and globals).

func (m *Module) Load(ty Type, ptr Value, name string) Value {
	return m.Builder.CreateLoad(ty, ptr, name)
}

func (m *Module) Store(val, ptr Value) Value {
	return m.Builder.CreateStore(val, ptr)
}

// GEP indexes ptr (of element type elemType) by a single constant offset
// measured in elements, matching the stack ABI's pointer arithmetic over
// 256-bit slots.
func (m *Module) GEP(elemType Type, ptr Value, index int32, name string) Value {
	idx := llvm.ConstInt(m.Int32, uint64(int64(index)), true)
	return m.Builder.CreateGEP(elemType, ptr, []Value{idx}, name)
}

// Alloca reserves stack space for a value of the given type, used for the
// per-topic heap-style allocations LOG* passes by pointer into the syscall
// bridge (the allocation itself is host-stack-resident, matching the
// original source's `allocate_and_store_value` helper, which never actually
// needed true heap ownership since the syscall consumes the pointer
// synchronously).
func (m *Module) Alloca(ty Type, name string) Value {
	return m.Builder.CreateAlloca(ty, name)
}

// Bswap emits the LLVM byte-swap intrinsic for the given integer type,
// applied only at memory and calldata boundaries per the endianness
// discipline in the specification.
func (m *Module) Bswap(v Value, name string) Value {
	ty := v.Type()
	intr := m.DeclareFunction("llvm.bswap."+typeMangling(ty), []Type{ty}, ty, false)
	return m.Builder.CreateCall(llvm.FunctionType(ty, []Type{ty}, false), intr, []Value{v}, name)
}

func typeMangling(ty Type) string {
	switch ty.IntTypeWidth() {
	case 256:
		return "i256"
	case 64:
		return "i64"
	case 32:
		return "i32"
	default:
		return "i256"
	}
}

// Memmove emits the LLVM memmove intrinsic, used by MCOPY whose source and
// destination ranges may overlap.
func (m *Module) Memmove(dst, src, size Value) {
	fnType := llvm.FunctionType(m.Ctx.VoidType(), []Type{m.Ptr, m.Ptr, m.Int64, m.Int1}, false)
	intr := m.DeclareFunction("llvm.memmove.p0.p0.i64", []Type{m.Ptr, m.Ptr, m.Int64, m.Int1}, m.Ctx.VoidType(), false)
	isVolatile := m.ConstInt(m.Int1, 0, false)
	m.Builder.CreateCall(fnType, intr, []Value{dst, src, size, isVolatile}, "")
}

// Memcpy emits the LLVM memcpy intrinsic, used by CALLDATALOAD's bounded
// copy from the host's calldata buffer.
func (m *Module) Memcpy(dst, src, size Value) {
	fnType := llvm.FunctionType(m.Ctx.VoidType(), []Type{m.Ptr, m.Ptr, m.Int64, m.Int1}, false)
	intr := m.DeclareFunction("llvm.memcpy.p0.p0.i64", []Type{m.Ptr, m.Ptr, m.Int64, m.Int1}, m.Ctx.VoidType(), false)
	isVolatile := m.ConstInt(m.Int1, 0, false)
	m.Builder.CreateCall(fnType, intr, []Value{dst, src, size, isVolatile}, "")
}

// Memset zero-fills size bytes starting at dst, used by CALLDATALOAD's
// zero-fill-before-copy discipline for short tail reads.
func (m *Module) Memset(dst Value, size Value) {
	fnType := llvm.FunctionType(m.Ctx.VoidType(), []Type{m.Ptr, m.Int8, m.Int64, m.Int1}, false)
	intr := m.DeclareFunction("llvm.memset.p0.i64", []Type{m.Ptr, m.Int8, m.Int64, m.Int1}, m.Ctx.VoidType(), false)
	zero := m.ConstInt(m.Int8, 0, false)
	isVolatile := m.ConstInt(m.Int1, 0, false)
	m.Builder.CreateCall(fnType, intr, []Value{dst, zero, size, isVolatile}, "")
}

// DeclareGlobal declares a module-level global of the given type. This
// mirrors `llvm.mlir.global` from the original MLIR source, which that
// implementation built as a raw operation because its IR library had no
// dedicated wrapper; go-llvm does have a direct global-declaration API, so
// this wrapper is a typed convenience rather than a raw-operation escape
// hatch, but keeps the same name so the provenance stays visible.
func (m *Module) DeclareGlobal(name string, ty Type) Value {
	if g := m.Mod.NamedGlobal(name); !g.IsNil() {
		return g
	}
	g := llvm.AddGlobal(m.Mod, ty, name)
	g.SetLinkage(llvm.InternalLinkage)
	g.SetInitializer(llvm.ConstNull(ty))
	return g
}

// AddressOf returns the address of a previously declared global, mirroring
// `llvm.mlir.addressof`.
func (m *Module) AddressOf(name string) Value {
	return m.Mod.NamedGlobal(name)
}
