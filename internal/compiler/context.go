// Package compiler lowers a decoded EVM Program into IR: one emitter per
// opcode, a dispatcher that chains their entry/exit block pairs into a
// straight-line function, a shared revert trampoline, and a shared
// jump-table block resolving dynamic JUMP/JUMPI targets.
package compiler

import (
	"github.com/RoaringBitmap/roaring"
	"github.com/google/uuid"

	"github.com/evmlir/evmlir/internal/compilerinput"
	"github.com/evmlir/evmlir/internal/compiler/gasschedule"
	"github.com/evmlir/evmlir/internal/ir"
	"github.com/evmlir/evmlir/internal/log"
	"github.com/evmlir/evmlir/internal/safemath"
	"github.com/evmlir/evmlir/internal/syscalls"
)

// OperationCtx is the mutable, compile-time-only state threaded through
// every emitter. It never survives past compilation: there is no runtime
// counterpart.
type OperationCtx struct {
	M      *ir.Module
	Fn     ir.Value
	Bridge *syscalls.Bridge

	Program *compilerinput.Program

	RevertBlock    ir.Block
	JumpTableBlock ir.Block

	// jumpdests maps a registered JUMPDEST's PC to its landing block.
	jumpdests map[uint64]ir.Block
	// registered mirrors the keys of jumpdests that fit in 32 bits, for
	// IsRegisteredPC. The jump-table switch does not consult it;
	// jumpdests is the semantic source of truth.
	registered *roaring.Bitmap

	// jumpIncoming accumulates (predecessor block, pc value) pairs from
	// every JUMP/JUMPI site, consumed once by BuildJumpTableBlock after
	// the whole program has been dispatched.
	jumpIncoming []jumpEdge

	// CtxParam and GasAlloca are the two pieces of function-local state
	// every emitter needs: the opaque host context pointer passed into
	// the entrypoint, and a stack slot holding the live gas register
	// (mutated via load/store rather than threaded as an SSA value,
	// mirroring the register-pressure rationale in the design notes).
	CtxParam  ir.Value
	GasAlloca ir.Value

	// Schedule supplies the per-opcode static gas costs every emitter
	// consults. It defaults to the LRU-cached "default" schedule but can
	// be swapped via NewOperationCtxWithSchedule (the CLI's -schedule flag).
	Schedule *gasschedule.Schedule

	CorrelationID uuid.UUID
	Log           *log.Entry
}

type jumpEdge struct {
	pred ir.Block
	pc   ir.Value
}

// NewOperationCtx allocates the per-function compile-time state: the
// entrypoint declaration, its prologue, the revert trampoline, and an
// empty jump-table placeholder block to be filled in once every opcode has
// been dispatched.
func NewOperationCtx(m *ir.Module, fnName string, program *compilerinput.Program) *OperationCtx {
	return NewOperationCtxWithSchedule(m, fnName, program, gasschedule.Default)
}

// NewOperationCtxWithSchedule is NewOperationCtx with an explicit named gas
// schedule (see internal/compiler/gasschedule), exposed for the CLI's
// -schedule flag and for tests exercising the non-default schedule.
func NewOperationCtxWithSchedule(m *ir.Module, fnName string, program *compilerinput.Program, scheduleName string) *OperationCtx {
	fn := m.DefineEntrypoint(fnName)
	bridge := syscalls.NewBridge(m)

	id := uuid.New()
	entry := m.AppendBlock(fn, "prologue")
	m.SetInsertPoint(entry)

	ctx := &OperationCtx{
		M:             m,
		Fn:            fn,
		Bridge:        bridge,
		Program:       program,
		jumpdests:     make(map[uint64]ir.Block),
		registered:    roaring.New(),
		CtxParam:      m.Param(fn, 0),
		Schedule:      gasschedule.Get(scheduleName, StaticCost),
		CorrelationID: id,
		Log:           log.New().With("compilation", id.String()),
	}

	ctx.GasAlloca = m.Alloca(m.Int64, "gas")
	m.Store(m.Param(fn, 1), ctx.GasAlloca)

	declareGlobals(m)
	initGlobals(ctx)

	ctx.RevertBlock = buildRevertBlock(m, fn)
	ctx.JumpTableBlock = m.AppendBlock(fn, "jumptable")

	return ctx
}

// RegisterJumpdest records pc's landing block, called as each JUMPDEST
// operation is lowered. The fast-probe bitmap only tracks PCs that fit in
// 32 bits; pc itself is always recorded in the map regardless.
func (c *OperationCtx) RegisterJumpdest(pc uint64, block ir.Block) {
	c.jumpdests[pc] = block
	if pc32, ok := safemath.Uint64ToUint32(pc); ok {
		c.registered.Add(pc32)
	}
}

// IsRegisteredPC is a fast membership probe; true is exact, and false is
// exact for PCs that fit in 32 bits. A registered PC above that range is
// recorded only in the jumpdests map, so the probe reports false for it.
func (c *OperationCtx) IsRegisteredPC(pc uint64) bool {
	if pc > 0xffffffff {
		return false
	}
	return c.registered.Contains(uint32(pc))
}

// RecordJumpEdge remembers that block branches into the jump-table block
// carrying pcValue, for the PHI BuildJumpTableBlock constructs once every
// opcode has been emitted.
func (c *OperationCtx) RecordJumpEdge(block ir.Block, pcValue ir.Value) {
	c.jumpIncoming = append(c.jumpIncoming, jumpEdge{pred: block, pc: pcValue})
}

// LoadGas reads the current gas register value.
func (c *OperationCtx) LoadGas() ir.Value {
	return c.M.Load(c.M.Int64, c.GasAlloca, "gas.cur")
}

// StoreGas overwrites the gas register.
func (c *OperationCtx) StoreGas(v ir.Value) {
	c.M.Store(v, c.GasAlloca)
}
