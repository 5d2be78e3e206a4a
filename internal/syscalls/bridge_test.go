package syscalls

import (
	"testing"

	"github.com/evmlir/evmlir/internal/ir"
)

func TestBridgeDeclaresSymbolsOnce(t *testing.T) {
	m := ir.NewModule("bridge-test")
	defer m.Dispose()
	b := NewBridge(m)

	fn := m.DefineEntrypoint("caller")
	entry := m.AppendBlock(fn, "entry")
	m.SetInsertPoint(entry)
	ctx := m.Param(fn, 0)

	first := b.ExtendMemory(ctx, m.ConstInt(m.Int32, 32, false))
	second := b.ExtendMemory(ctx, m.ConstInt(m.Int32, 64, false))

	decl := m.Mod.NamedFunction(SymExtendMemory)
	if decl.IsNil() {
		t.Fatal("expected extend_memory symbol to be declared")
	}
	if first.IsNil() || second.IsNil() {
		t.Fatal("expected both call sites to produce a value")
	}
	// Both call sites must resolve to the exact same callee declaration,
	// not a second symbol minted on the repeat call.
	if first.CalledValue() != decl || second.CalledValue() != decl {
		t.Fatal("expected both call sites to call the single extend_memory declaration")
	}
}

func TestAppendLogWithTopicsPicksSymbolByCount(t *testing.T) {
	m := ir.NewModule("bridge-topics")
	defer m.Dispose()
	b := NewBridge(m)

	fn := m.DefineEntrypoint("caller")
	entry := m.AppendBlock(fn, "entry")
	m.SetInsertPoint(entry)
	ctx := m.Param(fn, 0)
	offset := m.ConstInt(m.Int32, 0, false)
	size := m.ConstInt(m.Int32, 0, false)

	slot := m.Alloca(m.Int256, "topic")
	b.AppendLogWithTopics(ctx, offset, size, []ir.Value{slot, slot, slot})

	if m.Mod.NamedFunction(SymAppendLogWithThreeTopics).IsNil() {
		t.Fatal("expected the three-topic symbol to be declared for a 3-topic call")
	}
	if !m.Mod.NamedFunction(SymAppendLogWithOneTopic).IsNil() {
		t.Fatal("did not expect the one-topic symbol to be declared")
	}
}

func TestAppendLogWithTopicsPanicsOnInvalidCount(t *testing.T) {
	m := ir.NewModule("bridge-invalid")
	defer m.Dispose()
	b := NewBridge(m)
	fn := m.DefineEntrypoint("caller")
	entry := m.AppendBlock(fn, "entry")
	m.SetInsertPoint(entry)
	ctx := m.Param(fn, 0)

	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic for a topic count outside 1..4")
		}
	}()
	b.AppendLogWithTopics(ctx, ctx, ctx, nil)
}
