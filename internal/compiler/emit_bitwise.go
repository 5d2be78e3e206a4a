package compiler

import (
	ci "github.com/evmlir/evmlir/internal/compilerinput"
	"github.com/evmlir/evmlir/internal/ir"
)

func emitBitwise(kind ci.OpKind) emitFn {
	return func(c *OperationCtx, op ci.Operation) (bool, error) {
		ok := HasItems(c, 2)
		guard(c, "bitwise", ok, c.Schedule.StaticCost(kind, 0))
		m := c.M
		b := Pop(c)
		a := Pop(c)
		var res ir.Value
		switch kind {
		case ci.And:
			res = m.And(a, b, "and")
		case ci.Or:
			res = m.Or(a, b, "or")
		case ci.Xor:
			res = m.Xor(a, b, "xor")
		}
		Push(c, res)
		exit(c, "bitwise")
		return false, nil
	}
}

// emitByte branches on i>31 (push zero) vs in-range (shift v right by
// (31-i)*8 bits and mask with 0xFF), per §4.4.
func emitByte(c *OperationCtx, op ci.Operation) (bool, error) {
	ok := HasItems(c, 2)
	guard(c, "byte", ok, c.Schedule.StaticCost(ci.Byte, 0))
	m := c.M

	i := Pop(c)
	v := Pop(c)

	thirtyOne := m.ConstInt(m.Int256, 31, false)
	outOfRange := m.ICmp(ir.PredUGT, i, thirtyOne, "byte.oor")

	zeroBlock := m.AppendBlock(c.Fn, "byte.zero")
	inRangeBlock := m.AppendBlock(c.Fn, "byte.inrange")
	joinBlock := m.AppendBlock(c.Fn, "byte.join")
	m.CondBr(outOfRange, zeroBlock, inRangeBlock)

	m.SetInsertPoint(zeroBlock)
	zero := m.ConstInt(m.Int256, 0, false)
	m.Br(joinBlock)

	m.SetInsertPoint(inRangeBlock)
	eight := m.ConstInt(m.Int256, 8, false)
	thirtyOneMinusI := m.Sub(thirtyOne, i, "byte.31mi")
	shiftAmount := m.Mul(thirtyOneMinusI, eight, "byte.shift")
	shifted := m.LShr(v, shiftAmount, "byte.shifted")
	mask := m.ConstInt(m.Int256, 0xFF, false)
	masked := m.And(shifted, mask, "byte.masked")
	m.Br(joinBlock)

	m.SetInsertPoint(joinBlock)
	phi := m.Builder.CreatePHI(m.Int256, "byte.result")
	phi.AddIncoming([]ir.Value{zero, masked}, []ir.Block{zeroBlock, inRangeBlock})
	Push(c, phi)
	exit(c, "byte")
	return false, nil
}

// emitShift builds SHL/SHR/SAR. SHL/SHR test shift<255 and join on a zero
// constant otherwise, per §4.4; SAR instead clamps the shift to
// min(shift,255) and always executes an arithmetic shift, which naturally
// saturates to all-sign-bits.
func emitShift(kind ci.OpKind) emitFn {
	return func(c *OperationCtx, op ci.Operation) (bool, error) {
		ok := HasItems(c, 2)
		guard(c, "shift", ok, c.Schedule.StaticCost(kind, 0))
		m := c.M

		shift := Pop(c)
		v := Pop(c)

		if kind == ci.Sar {
			twoFiveFive := m.ConstInt(m.Int256, 255, false)
			tooBig := m.ICmp(ir.PredUGT, shift, twoFiveFive, "sar.toobig")
			clamped := m.Builder.CreateSelect(tooBig, twoFiveFive, shift, "sar.clamped")
			res := m.AShr(v, clamped, "sar.res")
			Push(c, res)
			exit(c, "sar")
			return false, nil
		}

		twoFiveFive := m.ConstInt(m.Int256, 255, false)
		inRange := m.ICmp(ir.PredULT, shift, twoFiveFive, "shift.inrange")

		shiftBlock := m.AppendBlock(c.Fn, "shift.compute")
		zeroBlock := m.AppendBlock(c.Fn, "shift.zero")
		joinBlock := m.AppendBlock(c.Fn, "shift.join")
		m.CondBr(inRange, shiftBlock, zeroBlock)

		m.SetInsertPoint(shiftBlock)
		var shifted ir.Value
		if kind == ci.Shl {
			shifted = m.Shl(v, shift, "shl.res")
		} else {
			shifted = m.LShr(v, shift, "shr.res")
		}
		m.Br(joinBlock)

		m.SetInsertPoint(zeroBlock)
		zero := m.ConstInt(m.Int256, 0, false)
		m.Br(joinBlock)

		m.SetInsertPoint(joinBlock)
		phi := m.Builder.CreatePHI(m.Int256, "shift.result")
		phi.AddIncoming([]ir.Value{shifted, zero}, []ir.Block{shiftBlock, zeroBlock})
		Push(c, phi)
		exit(c, "shift")
		return false, nil
	}
}
