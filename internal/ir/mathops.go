package ir

// mathops mirrors MLIR's `math` dialect. LLVM has no native integer power
// intrinsic at arbitrary bit width, so IPowI is implemented as a small
// software loop emitted inline (square-and-multiply), matching the
// semantics `ods::math::ipowi` provides in the original source: base
// wraps modulo 2^256 like every other EVM arithmetic opcode.
func (m *Module) IPowI(fn Value, base, exponent Value, name string) Value {
	entry := m.Builder.GetInsertBlock()
	loopCond := m.AppendBlock(fn, name+".cond")
	loopBody := m.AppendBlock(fn, name+".body")
	done := m.AppendBlock(fn, name+".done")

	one := m.ConstInt(m.Int256, 1, false)
	zero := m.ConstInt(m.Int256, 0, false)
	m.Br(loopCond)

	m.SetInsertPoint(loopCond)
	accPhi := m.Builder.CreatePHI(m.Int256, "acc")
	basePhi := m.Builder.CreatePHI(m.Int256, "base")
	expPhi := m.Builder.CreatePHI(m.Int256, "exp")
	accPhi.AddIncoming([]Value{one}, []Block{entry})
	basePhi.AddIncoming([]Value{base}, []Block{entry})
	expPhi.AddIncoming([]Value{exponent}, []Block{entry})
	cont := m.ICmp(PredNE, expPhi, zero, "exp.ne.zero")
	m.CondBr(cont, loopBody, done)

	m.SetInsertPoint(loopBody)
	bit := m.And(expPhi, one, "exp.bit")
	bitSet := m.ICmp(PredNE, bit, zero, "exp.bit.set")
	mulAcc := m.Mul(accPhi, basePhi, "acc.mul")
	nextAcc := m.Builder.CreateSelect(bitSet, mulAcc, accPhi, "acc.next")
	nextBase := m.Mul(basePhi, basePhi, "base.sq")
	one64 := m.ConstInt(m.Int256, 1, false)
	nextExp := m.LShr(expPhi, one64, "exp.shr")
	accPhi.AddIncoming([]Value{nextAcc}, []Block{loopBody})
	basePhi.AddIncoming([]Value{nextBase}, []Block{loopBody})
	expPhi.AddIncoming([]Value{nextExp}, []Block{loopBody})
	m.Br(loopCond)

	m.SetInsertPoint(done)
	return accPhi
}
