package compiler

import (
	ci "github.com/evmlir/evmlir/internal/compilerinput"
	"github.com/evmlir/evmlir/internal/ir"
)

func emitPush0(c *OperationCtx, op ci.Operation) (bool, error) {
	ok := HasSpaceFor(c, 1)
	guard(c, "push0", ok, c.Schedule.StaticCost(ci.Push0, 0))
	Push(c, c.M.ConstInt(c.M.Int256, 0, false))
	exit(c, "push0")
	return false, nil
}

func emitPush(c *OperationCtx, op ci.Operation) (bool, error) {
	ok := HasSpaceFor(c, 1)
	guard(c, "push", ok, c.Schedule.StaticCost(ci.Push, 0))
	words := uint256Words(op.PushValue)
	Push(c, c.M.ConstInt256(words))
	exit(c, "push")
	return false, nil
}

func emitPop(c *OperationCtx, op ci.Operation) (bool, error) {
	ok := HasItems(c, 1)
	guard(c, "pop", ok, c.Schedule.StaticCost(ci.Pop, 0))
	Pop(c)
	exit(c, "pop")
	return false, nil
}

func emitDup(c *OperationCtx, op ci.Operation) (bool, error) {
	if op.Index < 1 || op.Index > 16 {
		return false, ErrInvalidIndex
	}
	n := int32(op.Index)
	itemsOk := HasItems(c, n)
	spaceOk := HasSpaceFor(c, 1)
	ok := c.M.Builder.CreateAnd(itemsOk, spaceOk, "dup.stack.ok")
	guard(c, "dup", ok, c.Schedule.StaticCost(ci.Dup, 0))
	v := PeekNth(c, n)
	Push(c, v)
	exit(c, "dup")
	return false, nil
}

func emitSwap(c *OperationCtx, op ci.Operation) (bool, error) {
	if op.Index < 1 || op.Index > 16 {
		return false, ErrInvalidIndex
	}
	n := int32(op.Index)
	ok := HasItems(c, n+1)
	guard(c, "swap", ok, c.Schedule.StaticCost(ci.Swap, 0))
	SwapNth(c, n)
	exit(c, "swap")
	return false, nil
}

// emitBinArith builds an emitter for the unsigned wrap-around binary
// arithmetic opcodes (ADD/SUB/MUL), which need no special-casing beyond
// the shared pop-two/push-one shape.
func emitBinArith(kind ci.OpKind) emitFn {
	return func(c *OperationCtx, op ci.Operation) (bool, error) {
		ok := HasItems(c, 2)
		guard(c, "binop", ok, c.Schedule.StaticCost(kind, 0))
		// lhs is popped first (top of stack), rhs second: SUB computes
		// lhs-rhs, i.e. top-second, not the pop order.
		lhs := Pop(c)
		rhs := Pop(c)
		var res ir.Value
		switch kind {
		case ci.Add:
			res = c.M.Add(lhs, rhs, "add")
		case ci.Sub:
			res = c.M.Sub(lhs, rhs, "sub")
		case ci.Mul:
			res = c.M.Mul(lhs, rhs, "mul")
		}
		Push(c, res)
		exit(c, "binop")
		return false, nil
	}
}

// emitDivMod builds DIV/SDIV/MOD/SMOD, each of which branches on a zero
// denominator to a "push zero" block instead of trapping, per EVM
// semantics and §4.4.
func emitDivMod(kind ci.OpKind) emitFn {
	return func(c *OperationCtx, op ci.Operation) (bool, error) {
		ok := HasItems(c, 2)
		work := guard(c, "divmod", ok, c.Schedule.StaticCost(kind, 0))
		m := c.M

		// num (the dividend) is popped first (top of stack), den (the
		// divisor) second: DIV computes num/den, i.e. top/second.
		num := Pop(c)
		den := Pop(c)
		zero := m.ConstInt(m.Int256, 0, false)
		isZero := m.ICmp(ir.PredEQ, den, zero, "den.iszero")

		zeroBlock := m.AppendBlock(c.Fn, "divmod.zero")
		computeBlock := m.AppendBlock(c.Fn, "divmod.compute")
		joinBlock := m.AppendBlock(c.Fn, "divmod.join")
		m.CondBr(isZero, zeroBlock, computeBlock)

		m.SetInsertPoint(zeroBlock)
		m.Br(joinBlock)

		m.SetInsertPoint(computeBlock)
		var computed ir.Value
		switch kind {
		case ci.Div:
			computed = m.UDiv(num, den, "div")
		case ci.Sdiv:
			computed = m.SDiv(num, den, "sdiv")
		case ci.Mod:
			computed = m.URem(num, den, "mod")
		case ci.SMod:
			computed = m.SRem(num, den, "smod")
		}
		m.Br(joinBlock)

		m.SetInsertPoint(joinBlock)
		phi := m.Builder.CreatePHI(m.Int256, "divmod.result")
		phi.AddIncoming([]ir.Value{zero, computed}, []ir.Block{zeroBlock, computeBlock})
		Push(c, phi)
		_ = work
		exit(c, "divmod")
		return false, nil
	}
}

// emitAddmod widens to 257 bits before summing so the addition can never
// lose a bit to overflow, then truncates back after the modulo reduction.
func emitAddmod(c *OperationCtx, op ci.Operation) (bool, error) {
	ok := HasItems(c, 3)
	guard(c, "addmod", ok, c.Schedule.StaticCost(ci.Addmod, 0))
	m := c.M

	n := Pop(c)
	b := Pop(c)
	a := Pop(c)

	wide := m.Ctx.IntType(257)
	aw := m.ZExt(a, wide, "addmod.a")
	bw := m.ZExt(b, wide, "addmod.b")
	nw := m.ZExt(n, wide, "addmod.n")
	sum := m.Add(aw, bw, "addmod.sum")
	// A zero modulus is replaced by 1 before the URem so the division never
	// sees a zero divisor; the select below yields 0 for that case.
	nIsZero := m.ICmp(ir.PredEQ, n, m.ConstInt(m.Int256, 0, false), "addmod.n.zero")
	nSafe := m.Builder.CreateSelect(nIsZero, m.ConstInt(wide, 1, false), nw, "addmod.n.safe")
	rem := m.URem(sum, nSafe, "addmod.rem")
	res := m.Trunc(rem, m.Int256, "addmod.res")

	finalRes := m.Builder.CreateSelect(nIsZero, m.ConstInt(m.Int256, 0, false), res, "addmod.final")
	Push(c, finalRes)
	exit(c, "addmod")
	return false, nil
}

// emitMulmod widens to 512 bits before multiplying, for the same reason.
func emitMulmod(c *OperationCtx, op ci.Operation) (bool, error) {
	ok := HasItems(c, 3)
	guard(c, "mulmod", ok, c.Schedule.StaticCost(ci.Mulmod, 0))
	m := c.M

	n := Pop(c)
	b := Pop(c)
	a := Pop(c)

	wide := m.Ctx.IntType(512)
	aw := m.ZExt(a, wide, "mulmod.a")
	bw := m.ZExt(b, wide, "mulmod.b")
	nw := m.ZExt(n, wide, "mulmod.n")
	prod := m.Mul(aw, bw, "mulmod.prod")
	nIsZero := m.ICmp(ir.PredEQ, n, m.ConstInt(m.Int256, 0, false), "mulmod.n.zero")
	nSafe := m.Builder.CreateSelect(nIsZero, m.ConstInt(wide, 1, false), nw, "mulmod.n.safe")
	rem := m.URem(prod, nSafe, "mulmod.rem")
	res := m.Trunc(rem, m.Int256, "mulmod.res")

	finalRes := m.Builder.CreateSelect(nIsZero, m.ConstInt(m.Int256, 0, false), res, "mulmod.final")
	Push(c, finalRes)
	exit(c, "mulmod")
	return false, nil
}

// emitExp uses the math dialect's integer-power primitive with a static
// base cost only; EIP-2929 dynamic pricing by exponent byte-length is an
// explicit Non-goal (§9 open question (b)).
func emitExp(c *OperationCtx, op ci.Operation) (bool, error) {
	ok := HasItems(c, 2)
	guard(c, "exp", ok, c.Schedule.StaticCost(ci.Exp, 0))
	base := Pop(c)
	exponent := Pop(c)
	res := c.M.IPowI(c.Fn, base, exponent, "exp")
	Push(c, res)
	exit(c, "exp")
	return false, nil
}

// emitSignExtend clamps k to 31 then uses shl followed by ashr by
// 255-(k*8+7) to propagate the target byte's sign, per §4.4.
func emitSignExtend(c *OperationCtx, op ci.Operation) (bool, error) {
	ok := HasItems(c, 2)
	guard(c, "signextend", ok, c.Schedule.StaticCost(ci.SignExtend, 0))
	m := c.M

	k := Pop(c)
	v := Pop(c)

	clamp31 := m.ConstInt(m.Int256, 31, false)
	kClampedCond := m.ICmp(ir.PredUGT, k, clamp31, "signextend.k.gt31")
	kClamped := m.Builder.CreateSelect(kClampedCond, clamp31, k, "signextend.k.clamped")

	eight := m.ConstInt(m.Int256, 8, false)
	seven := m.ConstInt(m.Int256, 7, false)
	twoFiveFive := m.ConstInt(m.Int256, 255, false)

	kBits := m.Mul(kClamped, eight, "signextend.kbits")
	kBitsPlus7 := m.Add(kBits, seven, "signextend.kbits7")
	shiftAmount := m.Sub(twoFiveFive, kBitsPlus7, "signextend.shift")

	shifted := m.Shl(v, shiftAmount, "signextend.shl")
	res := m.AShr(shifted, shiftAmount, "signextend.ashr")

	Push(c, res)
	exit(c, "signextend")
	return false, nil
}

func emitCodesize(c *OperationCtx, op ci.Operation) (bool, error) {
	ok := HasSpaceFor(c, 1)
	guard(c, "codesize", ok, c.Schedule.StaticCost(ci.Codesize, 0))
	v := c.M.ConstInt(c.M.Int256, c.Program.CodeSize, false)
	Push(c, v)
	exit(c, "codesize")
	return false, nil
}

// emitGas reports the gas register's value after this opcode's own static
// charge, per SPEC_FULL.md §4.4's supplemented GAS semantics.
func emitGas(c *OperationCtx, op ci.Operation) (bool, error) {
	ok := HasSpaceFor(c, 1)
	guard(c, "gas", ok, c.Schedule.StaticCost(ci.Gas, 0))
	remaining := c.LoadGas()
	v := c.M.ZExt(remaining, c.M.Int256, "gas.value")
	Push(c, v)
	exit(c, "gas")
	return false, nil
}

func emitPC(c *OperationCtx, op ci.Operation) (bool, error) {
	ok := HasSpaceFor(c, 1)
	guard(c, "pc", ok, c.Schedule.StaticCost(ci.PC, 0))
	v := c.M.ConstInt(c.M.Int256, op.Pc, false)
	Push(c, v)
	exit(c, "pc")
	return false, nil
}

func uint256Words(v interface{ Bytes32() [32]byte }) [4]uint64 {
	b := v.Bytes32()
	var words [4]uint64
	for i := 0; i < 4; i++ {
		// b is big-endian; words[0] must be the least-significant limb.
		start := 32 - (i+1)*8
		limb := uint64(0)
		for j := 0; j < 8; j++ {
			limb = limb<<8 | uint64(b[start+j])
		}
		words[i] = limb
	}
	return words
}
