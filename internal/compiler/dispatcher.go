package compiler

import (
	"fmt"
	"time"

	"github.com/pkg/errors"

	ci "github.com/evmlir/evmlir/internal/compilerinput"
	"github.com/evmlir/evmlir/internal/ir"
)

// ErrInvalidIndex is returned when a DUP/SWAP/LOG immediate falls outside
// its legal range; per §7 this is an impossible precondition, a bug in the
// upstream parser rather than an expected runtime outcome.
var ErrInvalidIndex = errors.New("compiler: opcode immediate out of range")

// emitFn lowers one Operation starting at the builder's current insert
// point (the block the dispatcher has just positioned it at) and leaves
// the builder positioned at the operation's exit block. terminal is true
// when the entry block's own terminator already ends control flow (STOP,
// RETURN, REVERT, JUMP): the returned exit is an unreachable placeholder
// the dispatcher must not branch into.
type emitFn func(c *OperationCtx, op ci.Operation) (terminal bool, err error)

// Compile lowers an entire Program into the entrypoint function, wiring
// every opcode's block pair into a straight-line chain, then materialising
// the jump-table block once every JUMPDEST has been registered.
func Compile(m *ir.Module, fnName string, program *ci.Program) (*OperationCtx, error) {
	return compile(m, program, NewOperationCtx(m, fnName, program))
}

// CompileWithSchedule is Compile with an explicit named gas schedule,
// exposed for the CLI's -schedule flag.
func CompileWithSchedule(m *ir.Module, fnName string, program *ci.Program, scheduleName string) (*OperationCtx, error) {
	return compile(m, program, NewOperationCtxWithSchedule(m, fnName, program, scheduleName))
}

func compile(m *ir.Module, program *ci.Program, c *OperationCtx) (*OperationCtx, error) {
	start := time.Now()

	prevTerminal := false
	for i, op := range program.Operations {
		entry := m.AppendBlock(c.Fn, fmt.Sprintf("op%d", i))
		metricBlocksEmitted.Inc()
		if !prevTerminal {
			m.Br(entry)
		}
		m.SetInsertPoint(entry)

		fn, ok := dispatchTable[op.Kind]
		if !ok {
			metricCompileErrors.Inc()
			return nil, errors.Errorf("compiler: unhandled opcode kind %d at index %d", op.Kind, i)
		}
		terminal, err := fn(c, op)
		if err != nil {
			metricCompileErrors.Inc()
			return nil, errors.Wrapf(err, "lowering operation %d (kind %d)", i, op.Kind)
		}
		prevTerminal = terminal
	}

	// Every remaining opcode falls through to an implicit STOP if the
	// Program doesn't end in a terminator of its own; the dispatcher
	// leaves the builder at the last exit block, so close it here.
	if last := m.Builder.GetInsertBlock(); !blockTerminated(last) {
		zero32 := m.ConstInt(m.Int32, 0, false)
		c.Bridge.WriteResult(c.CtxParam, zero32, zero32, c.LoadGas(), m.ConstInt(m.Int8, ExitStop, false))
		m.Return(m.ConstInt(m.Int8, ExitStop, false))
	}

	BuildJumpTableBlock(c)
	observeCompile(time.Since(start).Seconds(), len(program.Operations))
	c.Log.Debugf("compiled %d operations in %s", len(program.Operations), time.Since(start))

	return c, nil
}

// blockTerminated reports whether b's last instruction is already a
// terminator (br/condbr/switch/ret/unreachable).
func blockTerminated(b ir.Block) bool {
	last := b.LastInstruction()
	if last.IsNil() {
		return false
	}
	return !last.IsATerminatorInst().IsNil()
}

var dispatchTable = map[ci.OpKind]emitFn{
	ci.Stop:         emitStop,
	ci.Return:       emitReturn,
	ci.Revert:       emitRevertOp,
	ci.Push0:        emitPush0,
	ci.Push:         emitPush,
	ci.Pop:          emitPop,
	ci.Dup:          emitDup,
	ci.Swap:         emitSwap,
	ci.Add:          emitBinArith(ci.Add),
	ci.Sub:          emitBinArith(ci.Sub),
	ci.Mul:          emitBinArith(ci.Mul),
	ci.Div:          emitDivMod(ci.Div),
	ci.Sdiv:         emitDivMod(ci.Sdiv),
	ci.Mod:          emitDivMod(ci.Mod),
	ci.SMod:         emitDivMod(ci.SMod),
	ci.Addmod:       emitAddmod,
	ci.Mulmod:       emitMulmod,
	ci.Exp:          emitExp,
	ci.SignExtend:   emitSignExtend,
	ci.Lt:           emitCompare(ci.Lt),
	ci.Gt:           emitCompare(ci.Gt),
	ci.Slt:          emitCompare(ci.Slt),
	ci.Sgt:          emitCompare(ci.Sgt),
	ci.Eq:           emitCompare(ci.Eq),
	ci.IsZero:       emitIsZero,
	ci.And:          emitBitwise(ci.And),
	ci.Or:           emitBitwise(ci.Or),
	ci.Xor:          emitBitwise(ci.Xor),
	ci.Byte:         emitByte,
	ci.Shl:          emitShift(ci.Shl),
	ci.Shr:          emitShift(ci.Shr),
	ci.Sar:          emitShift(ci.Sar),
	ci.Codesize:     emitCodesize,
	ci.Gas:          emitGas,
	ci.PC:           emitPC,
	ci.Mload:        emitMload,
	ci.Mstore:       emitMstore,
	ci.Mstore8:      emitMstore8,
	ci.Mcopy:        emitMcopy,
	ci.Msize:        emitMsize,
	ci.Jumpdest:     emitJumpdest,
	ci.Jump:         emitJump,
	ci.Jumpi:        emitJumpi,
	ci.Log:          emitLog,
	ci.CalldataLoad: emitCalldataLoad,
	ci.CallDataSize: emitCalldataSize,
}
