package compiler

import "github.com/evmlir/evmlir/internal/ir"

// BuildJumpTableBlock materialises the jump-table block's body: a PHI
// collecting every incoming PC value recorded by JUMP/JUMPI sites during
// dispatch (standing in for the "PC passed as a block argument" the
// specification describes — LLVM has no block-argument construct, so a
// PHI at the top of the block plays the same role), followed by a switch
// dispatching to each registered JUMPDEST's landing block, defaulting to
// revert for any PC that was never registered.
//
// Must run exactly once, after every opcode in the Program has been
// dispatched, since only then are both the jumpdest map and the incoming
// edge list complete.
func BuildJumpTableBlock(c *OperationCtx) {
	m := c.M
	m.SetInsertPoint(c.JumpTableBlock)

	if len(c.jumpIncoming) == 0 {
		// No dynamic jump in this program, so the block has no
		// predecessors; terminate it with a plain branch to revert.
		m.Br(c.RevertBlock)
		return
	}

	phi := m.Builder.CreatePHI(m.Int64, "jump.pc")
	for _, edge := range c.jumpIncoming {
		phi.AddIncoming([]ir.Value{edge.pc}, []ir.Block{edge.pred})
	}

	cases := make(map[uint64]ir.Block, len(c.jumpdests))
	for pc, block := range c.jumpdests {
		cases[pc] = block
	}
	m.Switch(phi, c.RevertBlock, cases)
}
