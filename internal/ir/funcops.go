package ir

// funcops mirrors MLIR's `func` dialect: function declaration, call, and
// return. The compiler emits exactly one function per compiled Program
// (the entrypoint described in the specification's external ABI), plus
// the syscall bridge's external declarations.

// DefineEntrypoint declares the generated function's signature:
// fn main(ctx *u8, initial_gas u64) -> u8, per the entrypoint ABI.
func (m *Module) DefineEntrypoint(name string) Value {
	paramTypes := []Type{m.Ptr, m.Int64}
	return m.DeclareFunction(name, paramTypes, m.Int8, false)
}

func (m *Module) Param(fn Value, i int) Value {
	return fn.Param(i)
}

func (m *Module) Call(fnType Type, fn Value, args []Value, name string) Value {
	return m.Builder.CreateCall(fnType, fn, args, name)
}

func (m *Module) Return(v Value) {
	m.Builder.CreateRet(v)
}
