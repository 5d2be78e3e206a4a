package compiler

import (
	"github.com/evmlir/evmlir/internal/ir"
	"github.com/evmlir/evmlir/internal/syscalls"
)

// ExitStatusCode values, per the entrypoint ABI.
const (
	ExitReturn  = 0
	ExitStop    = 1
	ExitRevert  = 2
	ExitError   = 3
	ExitDefault = 4
)

// buildRevertBlock constructs the single, function-local revert
// trampoline: every guard failure across every opcode branches here, and
// nowhere else returns ExitError. It reports ExitError to the host with an
// empty return window and zero gas remaining. It must be built fresh per function
// (never shared or hoisted to module scope), matching
// original_source/src/utils.rs's revert_block, which likewise takes no
// function-level state beyond the context.
func buildRevertBlock(m *ir.Module, fn ir.Value) ir.Block {
	saved := m.Builder.GetInsertBlock()
	block := m.AppendBlock(fn, "revert")
	m.SetInsertPoint(block)
	code := m.ConstInt(m.Int8, ExitError, false)
	zero32 := m.ConstInt(m.Int32, 0, false)
	syscalls.NewBridge(m).WriteResult(m.Param(fn, 0), zero32, zero32, m.ConstInt(m.Int64, 0, false), code)
	m.Return(code)
	m.SetInsertPoint(saved)
	return block
}
