package compiler

import (
	ci "github.com/evmlir/evmlir/internal/compilerinput"
	"github.com/evmlir/evmlir/internal/ir"
)

func emitCalldataSize(c *OperationCtx, op ci.Operation) (bool, error) {
	ok := HasSpaceFor(c, 1)
	guard(c, "calldatasize", ok, c.Schedule.StaticCost(ci.CallDataSize, 0))
	m := c.M
	size := c.Bridge.GetCalldataSize(c.CtxParam)
	v := m.ZExt(size, m.Int256, "calldatasize.value")
	Push(c, v)
	exit(c, "calldatasize")
	return false, nil
}

// emitCalldataLoad zero-fills the 32-byte result before copying in whatever
// calldata bytes actually exist past offset, so reads that run off the end
// of calldata come back right-padded with zero per §4.8's boundary rule.
func emitCalldataLoad(c *OperationCtx, op ci.Operation) (bool, error) {
	ok := HasItems(c, 1)
	guard(c, "calldataload", ok, c.Schedule.StaticCost(ci.CalldataLoad, 0))
	m := c.M

	offset256 := Pop(c)
	offset32 := truncOffset(c, offset256)
	calldataSize := c.Bridge.GetCalldataSize(c.CtxParam)

	offsetBeyond := m.ICmp(ir.PredUGE, offset32, calldataSize, "calldataload.oob")

	zeroBlock := m.AppendBlock(c.Fn, "calldataload.zero")
	copyBlock := m.AppendBlock(c.Fn, "calldataload.copy")
	joinBlock := m.AppendBlock(c.Fn, "calldataload.join")
	m.CondBr(offsetBeyond, zeroBlock, copyBlock)

	m.SetInsertPoint(zeroBlock)
	zero := m.ConstInt(m.Int256, 0, false)
	m.Br(joinBlock)

	m.SetInsertPoint(copyBlock)
	slot := m.Alloca(m.Int256, "calldataload.slot")
	m.Memset(slot, m.ConstInt(m.Int64, 32, false))

	available := m.Sub(calldataSize, offset32, "calldataload.available")
	thirtyTwo := m.ConstInt(m.Int32, 32, false)
	availLtThirtyTwo := m.ICmp(ir.PredULT, available, thirtyTwo, "calldataload.avail.small")
	copyLen := m.Builder.CreateSelect(availLtThirtyTwo, available, thirtyTwo, "calldataload.copylen")
	copyLen64 := m.ZExt(copyLen, m.Int64, "calldataload.copylen64")

	base := c.Bridge.GetCalldataPtr(c.CtxParam)
	src := indexByOffset(m, base, offset32)
	m.Memcpy(slot, src, copyLen64)

	loaded := m.Load(m.Int256, slot, "calldataload.loaded")
	swapped := swapIfLittleEndian(m, loaded)
	m.Br(joinBlock)

	m.SetInsertPoint(joinBlock)
	phi := m.Builder.CreatePHI(m.Int256, "calldataload.result")
	phi.AddIncoming([]ir.Value{zero, swapped}, []ir.Block{zeroBlock, copyBlock})
	Push(c, phi)
	exit(c, "calldataload")
	return false, nil
}
