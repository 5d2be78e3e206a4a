package compiler

import (
	ci "github.com/evmlir/evmlir/internal/compilerinput"
	"github.com/evmlir/evmlir/internal/ir"
)

// Static per-opcode gas costs. Names and values cross-checked against
// common EVM gas-schedule constants (GasQuickStep=2, GasFastestStep=3,
// GasFastStep=5, GasMidStep=8, GasSlowStep=10, GasExtStep=20,
// JumpdestGas=1, Sha3Gas=30, LogGas=375, LogDataGas=8, MemoryGas=3,
// QuadCoeffDiv=512, ExpByteGas=10).
const (
	GasQuickStep   uint64 = 2
	GasFastestStep uint64 = 3
	GasFastStep    uint64 = 5
	GasMidStep     uint64 = 8
	GasSlowStep    uint64 = 10
	GasExtStep     uint64 = 20
	GasJumpdest    uint64 = 1
	GasExpBase     uint64 = 10
	GasLog         uint64 = 375
	GasLogTopic    uint64 = 375
	GasLogData     uint64 = 8
	GasMemory      uint64 = 3
	GasQuadCoeffDiv uint64 = 512
)

// StaticCost returns the base gas charge for each opcode kind. Opcodes
// with dynamic components (memory-touching, LOG*) still pay this static
// amount up front in the entry-block guard; the dynamic portion is
// charged separately inside the work block: memory expansion by
// extendMemory, and LOG*'s data and topic cost inline in emitLog.
func StaticCost(kind ci.OpKind, logTopics int) uint64 {
	switch kind {
	case ci.Add, ci.Sub, ci.Lt, ci.Gt, ci.Slt, ci.Sgt, ci.Eq, ci.IsZero, ci.And, ci.Or, ci.Xor, ci.Byte, ci.Shl, ci.Shr, ci.Sar, ci.Push, ci.Push0, ci.Pop, ci.PC:
		return GasFastestStep
	case ci.Mul, ci.Div, ci.Sdiv, ci.Mod, ci.SMod, ci.SignExtend:
		return GasFastStep
	case ci.Addmod, ci.Mulmod, ci.Jump:
		return GasMidStep
	case ci.Jumpi:
		return GasSlowStep
	case ci.Exp:
		return GasExpBase
	case ci.Jumpdest:
		return GasJumpdest
	case ci.Dup, ci.Swap:
		return GasFastestStep
	case ci.Mload, ci.Mstore, ci.Mstore8, ci.Msize, ci.Mcopy:
		return GasFastestStep
	case ci.Gas, ci.Codesize, ci.CallDataSize, ci.CalldataLoad:
		return GasQuickStep
	case ci.Log:
		return GasLog
	case ci.Stop, ci.Return, ci.Revert:
		return 0
	default:
		return GasFastestStep
	}
}

// ChargeGas decrements the gas register by cost and returns the i1 flag
// that the decrement did not underflow. The difference is stored either
// way; on underflow it is the wrapped value, which is never observed
// again because the guard branches straight to revert.
func ChargeGas(c *OperationCtx, cost uint64) ir.Value {
	m := c.M
	cur := c.LoadGas()
	costVal := m.ConstInt(m.Int64, cost, false)
	ok := m.ICmp(ir.PredUGE, cur, costVal, "gas.ok")
	next := m.Sub(cur, costVal, "gas.next")
	c.StoreGas(next)
	return ok
}

// memoryExpansionWords returns the number of 32-byte words required to
// cover size bytes, rounding up.
func memoryExpansionWords(size uint64) uint64 {
	return (size + 31) / 32
}

// memoryExpansionCost computes the EVM quadratic memory-expansion cost for
// growing memory to cover `words` 32-byte words in total (not incremental):
// cost(words) = 3*words + words^2/512.
func memoryExpansionCost(words uint64) uint64 {
	return GasMemory*words + (words*words)/GasQuadCoeffDiv
}

// logDynamicGas computes LOG*'s dynamic component: 8 bytes/size plus
// 375 per topic, per §4.7.
func logDynamicGas(size uint64, topics int) uint64 {
	return GasLogData*size + GasLogTopic*uint64(topics)
}
