// Package ir is the IR-construction layer the compiler emits into. No Go
// binding for MLIR itself exists anywhere in the retrieval corpus this
// module was built from; tinygo.org/x/go-llvm is the closest grounded
// substitute, so this package wraps go-llvm's builder API behind
// types and functions named after the MLIR dialects the specification
// describes (arith, cf, llvm, math, func), preserving that vocabulary at
// the package-layout level even though the concrete IR is LLVM's.
package ir

import "tinygo.org/x/go-llvm"

// Value is an SSA value produced by any dialect operation.
type Value = llvm.Value

// Type is an IR type.
type Type = llvm.Type

// Block is a basic block within a function region.
type Block = llvm.BasicBlock

// Module owns the LLVM context, the module under construction, and the
// single builder used to append operations. Exactly one Module should be
// used per goroutine: builders are not safe for concurrent append.
type Module struct {
	Ctx     llvm.Context
	Mod     llvm.Module
	Builder llvm.Builder

	Int1   Type
	Int8   Type
	Int32  Type
	Int64  Type
	Int256 Type
	Ptr    Type
}

// NewModule creates a fresh LLVM context, module, and builder, and caches
// the handful of integer and pointer types every emitter needs.
func NewModule(name string) *Module {
	ctx := llvm.NewContext()
	mod := ctx.NewModule(name)
	builder := ctx.NewBuilder()

	return &Module{
		Ctx:     ctx,
		Mod:     mod,
		Builder: builder,
		Int1:    ctx.Int1Type(),
		Int8:    ctx.Int8Type(),
		Int32:   ctx.Int32Type(),
		Int64:   ctx.Int64Type(),
		Int256:  ctx.IntType(256),
		Ptr:     llvm.PointerType(ctx.Int8Type(), 0),
	}
}

// Dispose releases the underlying LLVM context.
func (m *Module) Dispose() {
	m.Builder.Dispose()
	m.Ctx.Dispose()
}

// DeclareFunction declares (or returns the existing declaration for) a
// function symbol with the given signature.
func (m *Module) DeclareFunction(name string, paramTypes []Type, retType Type, variadic bool) Value {
	if fn := m.Mod.NamedFunction(name); !fn.IsNil() {
		return fn
	}
	fnType := llvm.FunctionType(retType, paramTypes, variadic)
	return llvm.AddFunction(m.Mod, name, fnType)
}

// AppendBlock appends a new basic block to fn's region.
func (m *Module) AppendBlock(fn Value, name string) Block {
	return m.Ctx.AddBasicBlock(fn, name)
}

// SetInsertPoint moves the builder's cursor to the end of b.
func (m *Module) SetInsertPoint(b Block) {
	m.Builder.SetInsertPointAtEnd(b)
}

// ConstInt builds an integer constant of the given width.
func (m *Module) ConstInt(ty Type, v uint64, signExtend bool) Value {
	return llvm.ConstInt(ty, v, signExtend)
}

// NullPtr is the null pointer constant, returned by extend_memory on
// allocation failure and used to seed the memory-pointer global before any
// expansion has taken place.
func (m *Module) NullPtr() Value {
	return llvm.ConstPointerNull(m.Ptr)
}

// ArrayType builds an array-of-elem type, used for the stack region's
// backing allocation.
func ArrayType(elem Type, count int) Type {
	return llvm.ArrayType(elem, count)
}
