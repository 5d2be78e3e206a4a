package compiler

import "github.com/evmlir/evmlir/internal/ir"

// guard implements the two-step protocol in §4.2: combine a stack-shape
// flag with a gas-charge flag, branch to work on success or to the shared
// revert trampoline otherwise, and leave the builder positioned inside
// work. Callers that need no stack check (e.g. PC, GAS with net-zero pop
// but a push) still pass a HasSpaceFor(1) flag since every opcode observed
// here either reads or writes the stack.
func guard(c *OperationCtx, label string, stackFlag ir.Value, cost uint64) ir.Block {
	m := c.M
	gasOk := ChargeGas(c, cost)
	ok := m.Builder.CreateAnd(stackFlag, gasOk, "guard.ok")
	work := m.AppendBlock(c.Fn, label+".work")
	m.CondBr(ok, work, c.RevertBlock)
	m.SetInsertPoint(work)
	return work
}

// exit opens a fresh, unterminated block and positions the builder there,
// to be left open for the dispatcher to chain into the next opcode.
func exit(c *OperationCtx, label string) ir.Block {
	b := c.M.AppendBlock(c.Fn, label+".exit")
	c.M.Br(b)
	c.M.SetInsertPoint(b)
	return b
}

// terminalExit opens an unreachable placeholder block satisfying the
// dispatcher contract after a real terminator (STOP/RETURN/REVERT/JUMP)
// has already ended control flow in the work block.
func terminalExit(c *OperationCtx, label string) {
	b := c.M.AppendBlock(c.Fn, label+".unreachable")
	c.M.SetInsertPoint(b)
	c.M.Builder.CreateUnreachable()
}
