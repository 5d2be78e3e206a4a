package syscalls

import "github.com/evmlir/evmlir/internal/ir"

// Bridge declares the nine syscall symbols against a module on first use
// and emits call sites for them, mirroring the original source's
// `mlir::declare_syscalls` plus its nine `*_syscall` call-site emitters.
type Bridge struct {
	m *ir.Module
}

func NewBridge(m *ir.Module) *Bridge {
	return &Bridge{m: m}
}

func (b *Bridge) declare(name string, params []ir.Type, ret ir.Type) ir.Value {
	return b.m.DeclareFunction(name, params, ret, false)
}

// WriteResult delivers the final return buffer, remaining gas, and exit
// code to the host. Called exactly once per execution, from STOP/RETURN/
// REVERT, the implicit trailing STOP, or the revert trampoline.
func (b *Bridge) WriteResult(ctx, offset, length, gasRemaining, exitCode ir.Value) {
	params := []ir.Type{b.m.Ptr, b.m.Int32, b.m.Int32, b.m.Int64, b.m.Int8}
	fn := b.declare(SymWriteResult, params, b.m.Ctx.VoidType())
	fnType := fnTypeOf(params, b.m.Ctx.VoidType())
	b.m.Call(fnType, fn, []ir.Value{ctx, offset, length, gasRemaining, exitCode}, "")
}

// ExtendMemory requests the host grow the EVM memory buffer to newSize
// bytes, returning the (possibly reallocated) base pointer, or a null
// pointer on allocation failure. Every caller must re-load the returned
// pointer and never reuse a pointer obtained before this call.
func (b *Bridge) ExtendMemory(ctx, newSize ir.Value) ir.Value {
	params := []ir.Type{b.m.Ptr, b.m.Int32}
	fn := b.declare(SymExtendMemory, params, b.m.Ptr)
	fnType := fnTypeOf(params, b.m.Ptr)
	return b.m.Call(fnType, fn, []ir.Value{ctx, newSize}, "mem.base")
}

func (b *Bridge) AppendLog(ctx, offset, size ir.Value) {
	params := []ir.Type{b.m.Ptr, b.m.Int32, b.m.Int32}
	fn := b.declare(SymAppendLog, params, b.m.Ctx.VoidType())
	fnType := fnTypeOf(params, b.m.Ctx.VoidType())
	b.m.Call(fnType, fn, []ir.Value{ctx, offset, size}, "")
}

// AppendLogWithTopics dispatches to the append_log_with_{one,two,three,four}_topic(s)
// variant matching len(topicPtrs), which must be in 1..4 (LOG0 uses AppendLog).
func (b *Bridge) AppendLogWithTopics(ctx, offset, size ir.Value, topicPtrs []ir.Value) {
	var sym string
	switch len(topicPtrs) {
	case 1:
		sym = SymAppendLogWithOneTopic
	case 2:
		sym = SymAppendLogWithTwoTopics
	case 3:
		sym = SymAppendLogWithThreeTopics
	case 4:
		sym = SymAppendLogWithFourTopics
	default:
		panic("syscalls: AppendLogWithTopics requires 1..4 topics")
	}
	params := make([]ir.Type, 0, 3+len(topicPtrs))
	params = append(params, b.m.Ptr, b.m.Int32, b.m.Int32)
	for range topicPtrs {
		params = append(params, b.m.Ptr)
	}
	fn := b.declare(sym, params, b.m.Ctx.VoidType())
	fnType := fnTypeOf(params, b.m.Ctx.VoidType())
	args := append([]ir.Value{ctx, offset, size}, topicPtrs...)
	b.m.Call(fnType, fn, args, "")
}

func (b *Bridge) GetCalldataPtr(ctx ir.Value) ir.Value {
	params := []ir.Type{b.m.Ptr}
	fn := b.declare(SymGetCalldataPtr, params, b.m.Ptr)
	fnType := fnTypeOf(params, b.m.Ptr)
	return b.m.Call(fnType, fn, []ir.Value{ctx}, "calldata.ptr")
}

func (b *Bridge) GetCalldataSize(ctx ir.Value) ir.Value {
	params := []ir.Type{b.m.Ptr}
	fn := b.declare(SymGetCalldataSize, params, b.m.Int32)
	fnType := fnTypeOf(params, b.m.Int32)
	return b.m.Call(fnType, fn, []ir.Value{ctx}, "calldata.size")
}

func fnTypeOf(params []ir.Type, ret ir.Type) ir.Type {
	return functionType(ret, params)
}
