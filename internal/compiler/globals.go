package compiler

import "github.com/evmlir/evmlir/internal/ir"

// Process-wide global symbol names for the runtime memory model: the EVM
// stack's top/base pointers and the EVM memory's base pointer/size. These
// are genuinely global (not per-function alloca) because the emitted ABI
// is a plain C function taking only a host-context pointer, and because
// concurrent EVM execution within one process is explicitly unsupported.
const (
	stackPtrGlobal     = "evm_mlir__stack_ptr"
	stackBasePtrGlobal = "evm_mlir__stack_base_ptr"
	memPtrGlobal       = "evm_mlir__mem_ptr"
	memSizeGlobal      = "evm_mlir__mem_size"
)

// maxStackSize is the EVM stack's fixed capacity in 256-bit slots.
const maxStackSize = 1024

func declareGlobals(m *ir.Module) {
	m.DeclareGlobal(stackPtrGlobal, m.Ptr)
	m.DeclareGlobal(stackBasePtrGlobal, m.Ptr)
	m.DeclareGlobal(memPtrGlobal, m.Ptr)
	m.DeclareGlobal(memSizeGlobal, m.Int32)
}

// initGlobals allocates the backing stack region on the current function's
// frame and seeds the stack-pointer globals to point at it. The EVM memory
// buffer itself is host-owned (SyscallContext); its pointer/size globals
// start at null/zero and are only ever written by extendMemory.
func initGlobals(c *OperationCtx) {
	m := c.M
	stackRegion := m.Alloca(arrayOf(m.Int256, maxStackSize), "stack.region")
	base := m.GEP(m.Int256, stackRegion, 0, "stack.base")

	m.Store(base, m.AddressOf(stackBasePtrGlobal))
	m.Store(base, m.AddressOf(stackPtrGlobal))
	m.Store(m.NullPtr(), m.AddressOf(memPtrGlobal))
	m.Store(m.ConstInt(m.Int32, 0, false), m.AddressOf(memSizeGlobal))
}

func arrayOf(elem ir.Type, count int) ir.Type {
	return ir.ArrayType(elem, count)
}

func loadStackPtr(c *OperationCtx) ir.Value {
	return c.M.Load(c.M.Ptr, c.M.AddressOf(stackPtrGlobal), "stack.ptr")
}

func storeStackPtr(c *OperationCtx, v ir.Value) {
	c.M.Store(v, c.M.AddressOf(stackPtrGlobal))
}

func loadStackBasePtr(c *OperationCtx) ir.Value {
	return c.M.Load(c.M.Ptr, c.M.AddressOf(stackBasePtrGlobal), "stack.base.ptr")
}

func loadMemPtr(c *OperationCtx) ir.Value {
	return c.M.Load(c.M.Ptr, c.M.AddressOf(memPtrGlobal), "mem.ptr")
}

func storeMemPtr(c *OperationCtx, v ir.Value) {
	c.M.Store(v, c.M.AddressOf(memPtrGlobal))
}

func loadMemSize(c *OperationCtx) ir.Value {
	return c.M.Load(c.M.Int32, c.M.AddressOf(memSizeGlobal), "mem.size")
}

func storeMemSize(c *OperationCtx, v ir.Value) {
	c.M.Store(v, c.M.AddressOf(memSizeGlobal))
}
