package compiler

import (
	ci "github.com/evmlir/evmlir/internal/compilerinput"
	"github.com/evmlir/evmlir/internal/ir"
)

// emitJumpdest registers the current block (the dispatcher-created entry
// for this operation) as pc's landing block, charges JUMPDEST gas, and
// falls through to its exit — both the explicit fall-through from the
// preceding opcode and any dynamic jump resolving to this pc arrive here.
func emitJumpdest(c *OperationCtx, op ci.Operation) (bool, error) {
	landing := c.M.Builder.GetInsertBlock()
	c.RegisterJumpdest(op.Pc, landing)

	gasOk := ChargeGas(c, c.Schedule.StaticCost(ci.Jumpdest, 0))
	work := c.M.AppendBlock(c.Fn, "jumpdest.work")
	c.M.CondBr(gasOk, work, c.RevertBlock)
	c.M.SetInsertPoint(work)
	exit(c, "jumpdest")
	return false, nil
}

// emitJump pops the target pc and branches into the shared jump-table
// block, recording the edge for its PHI. The opcode's own exit is
// unreachable, since the jump-table block's terminator is the real
// continuation.
func emitJump(c *OperationCtx, op ci.Operation) (bool, error) {
	ok := HasItems(c, 1)
	guard(c, "jump", ok, c.Schedule.StaticCost(ci.Jump, 0))
	m := c.M

	pc256 := Pop(c)
	pc64 := m.Trunc(pc256, m.Int64, "jump.pc64")
	pred := m.Builder.GetInsertBlock()
	m.Br(c.JumpTableBlock)
	c.RecordJumpEdge(pred, pc64)

	terminalExit(c, "jump")
	return true, nil
}

// emitJumpi pops (pc, condition); on a nonzero condition it behaves like
// JUMP, otherwise it falls through to a normal exit block.
func emitJumpi(c *OperationCtx, op ci.Operation) (bool, error) {
	ok := HasItems(c, 2)
	work := guard(c, "jumpi", ok, c.Schedule.StaticCost(ci.Jumpi, 0))
	m := c.M
	_ = work

	pc256 := Pop(c)
	cond256 := Pop(c)
	zero := m.ConstInt(m.Int256, 0, false)
	taken := m.ICmp(ir.PredNE, cond256, zero, "jumpi.taken")

	takenBlock := m.AppendBlock(c.Fn, "jumpi.taken")
	notTakenBlock := m.AppendBlock(c.Fn, "jumpi.nottaken")
	m.CondBr(taken, takenBlock, notTakenBlock)

	m.SetInsertPoint(takenBlock)
	pc64 := m.Trunc(pc256, m.Int64, "jumpi.pc64")
	m.Br(c.JumpTableBlock)
	c.RecordJumpEdge(takenBlock, pc64)

	m.SetInsertPoint(notTakenBlock)
	exit(c, "jumpi")
	return false, nil
}

func emitStop(c *OperationCtx, op ci.Operation) (bool, error) {
	always := c.M.ConstInt(c.M.Int1, 1, false)
	guard(c, "stop", always, c.Schedule.StaticCost(ci.Stop, 0))
	m := c.M

	zero32 := m.ConstInt(m.Int32, 0, false)
	c.Bridge.WriteResult(c.CtxParam, zero32, zero32, c.LoadGas(), m.ConstInt(m.Int8, ExitStop, false))
	m.Return(m.ConstInt(m.Int8, ExitStop, false))

	terminalExit(c, "stop")
	return true, nil
}

func emitReturn(c *OperationCtx, op ci.Operation) (bool, error) {
	ok := HasItems(c, 2)
	guard(c, "return", ok, c.Schedule.StaticCost(ci.Return, 0))
	m := c.M

	offset := truncOffset(c, Pop(c))
	size := truncOffset(c, Pop(c))
	required := m.Add(offset, size, "return.required")
	extendMemory(c, required)

	c.Bridge.WriteResult(c.CtxParam, offset, size, c.LoadGas(), m.ConstInt(m.Int8, ExitReturn, false))
	m.Return(m.ConstInt(m.Int8, ExitReturn, false))

	terminalExit(c, "return")
	return true, nil
}

func emitRevertOp(c *OperationCtx, op ci.Operation) (bool, error) {
	ok := HasItems(c, 2)
	guard(c, "revert", ok, c.Schedule.StaticCost(ci.Revert, 0))
	m := c.M

	offset := truncOffset(c, Pop(c))
	size := truncOffset(c, Pop(c))
	required := m.Add(offset, size, "revert.required")
	extendMemory(c, required)

	c.Bridge.WriteResult(c.CtxParam, offset, size, c.LoadGas(), m.ConstInt(m.Int8, ExitRevert, false))
	m.Return(m.ConstInt(m.Int8, ExitRevert, false))

	terminalExit(c, "revert")
	return true, nil
}
