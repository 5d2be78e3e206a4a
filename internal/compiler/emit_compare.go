package compiler

import (
	ci "github.com/evmlir/evmlir/internal/compilerinput"
	"github.com/evmlir/evmlir/internal/ir"
)

// emitCompare builds LT/GT/SLT/SGT/EQ. Every comparison opcode zero-extends
// its i1 result to 256 bits before pushing: §9's open question (a) resolved
// uniformly across all comparisons, not just ISZERO, for stack-word
// consistency.
func emitCompare(kind ci.OpKind) emitFn {
	pred := comparePredicate(kind)
	return func(c *OperationCtx, op ci.Operation) (bool, error) {
		ok := HasItems(c, 2)
		guard(c, "cmp", ok, c.Schedule.StaticCost(kind, 0))
		m := c.M
		// lhs is popped first (top of stack), rhs second: EVM LT/GT/SLT/SGT
		// compare top against second, i.e. lhs against rhs in pop order.
		lhs := Pop(c)
		rhs := Pop(c)
		bit := m.ICmp(pred, lhs, rhs, "cmp.bit")
		res := m.ZExt(bit, m.Int256, "cmp.res")
		Push(c, res)
		exit(c, "cmp")
		return false, nil
	}
}

func comparePredicate(kind ci.OpKind) ir.IntPredicate {
	switch kind {
	case ci.Lt:
		return ir.PredULT
	case ci.Gt:
		return ir.PredUGT
	case ci.Slt:
		return ir.PredSLT
	case ci.Sgt:
		return ir.PredSGT
	case ci.Eq:
		return ir.PredEQ
	default:
		return ir.PredEQ
	}
}

func emitIsZero(c *OperationCtx, op ci.Operation) (bool, error) {
	ok := HasItems(c, 1)
	guard(c, "iszero", ok, c.Schedule.StaticCost(ci.IsZero, 0))
	m := c.M
	v := Pop(c)
	zero := m.ConstInt(m.Int256, 0, false)
	bit := m.ICmp(ir.PredEQ, v, zero, "iszero.bit")
	res := m.ZExt(bit, m.Int256, "iszero.res")
	Push(c, res)
	exit(c, "iszero")
	return false, nil
}
