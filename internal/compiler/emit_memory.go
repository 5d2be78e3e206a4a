package compiler

import (
	ci "github.com/evmlir/evmlir/internal/compilerinput"
	"github.com/evmlir/evmlir/internal/ir"
)

// extendMemory computes the memory-expansion dynamic gas for growing to
// requiredSize bytes (rounded up to a whole word), charges it, calls the
// extend_memory syscall, branches to revert on insufficient gas or a null
// return pointer, and returns the freshly reloaded memory base pointer.
// Every memory-touching opcode must call this and use only the pointer it
// returns, never one obtained before the call, since extend_memory may
// reallocate the backing buffer.
func extendMemory(c *OperationCtx, requiredSize ir.Value) ir.Value {
	m := c.M

	words := m.Builder.CreateUDiv(
		m.Add(requiredSize, m.ConstInt(m.Int32, 31, false), "mem.req.round"),
		m.ConstInt(m.Int32, 32, false), "mem.req.words")
	newSize := m.Builder.CreateMul(words, m.ConstInt(m.Int32, 32, false), "mem.req.size")

	curSize := loadMemSize(c)
	growthNeeded := m.ICmp(ir.PredUGT, newSize, curSize, "mem.growth.needed")

	growBlock := m.AppendBlock(c.Fn, "mem.grow")
	skipBlock := m.AppendBlock(c.Fn, "mem.skip")
	joinBlock := m.AppendBlock(c.Fn, "mem.join")
	m.CondBr(growthNeeded, growBlock, skipBlock)

	m.SetInsertPoint(growBlock)
	// Dynamic gas is a function of total words after growth, charged as
	// the delta against what was already paid for the current size, so
	// repeated small expansions never double-charge the quadratic term.
	curWords := m.Builder.CreateUDiv(curSize, m.ConstInt(m.Int32, 32, false), "mem.cur.words")
	dynamicGasOk := chargeMemoryExpansion(c, curWords, words)
	basePtr := c.Bridge.ExtendMemory(c.CtxParam, newSize)
	allocOk := m.ICmp(ir.PredNE, basePtr, m.NullPtr(), "mem.alloc.ok")
	ok := m.Builder.CreateAnd(dynamicGasOk, allocOk, "mem.grow.ok")

	okBlock := m.AppendBlock(c.Fn, "mem.grow.ok")
	m.CondBr(ok, okBlock, c.RevertBlock)
	m.SetInsertPoint(okBlock)
	storeMemPtr(c, basePtr)
	storeMemSize(c, newSize)
	grownPtr := basePtr
	m.Br(joinBlock)

	m.SetInsertPoint(skipBlock)
	existingPtr := loadMemPtr(c)
	m.Br(joinBlock)

	m.SetInsertPoint(joinBlock)
	phi := m.Builder.CreatePHI(m.Ptr, "mem.ptr.result")
	phi.AddIncoming([]ir.Value{grownPtr, existingPtr}, []ir.Block{okBlock, skipBlock})
	return phi
}

func chargeMemoryExpansion(c *OperationCtx, curWords, newWords ir.Value) ir.Value {
	// words are i32; the quadratic cost table is computed in Go at each
	// possible small step is impractical in pure IR without a helper call,
	// so the cost itself is computed with IR arithmetic mirroring
	// memoryExpansionCost, widened to avoid i32 overflow on the square term.
	m := c.M
	wide := m.Ctx.IntType(64)
	curW := m.ZExt(curWords, wide, "mem.cur.words64")
	newW := m.ZExt(newWords, wide, "mem.new.words64")

	costOf := func(words ir.Value, label string) ir.Value {
		three := m.ConstInt(wide, GasMemory, false)
		linear := m.Mul(words, three, label+".linear")
		sq := m.Mul(words, words, label+".sq")
		quad := m.Builder.CreateUDiv(sq, m.ConstInt(wide, GasQuadCoeffDiv, false), label+".quad")
		return m.Add(linear, quad, label+".cost")
	}
	curCost := costOf(curW, "mem.cur")
	newCost := costOf(newW, "mem.new")
	delta := m.Sub(newCost, curCost, "mem.delta")

	cur := c.LoadGas()
	ok := m.ICmp(ir.PredUGE, cur, delta, "mem.gas.ok")
	next := m.Sub(cur, delta, "mem.gas.next")
	c.StoreGas(next)
	return ok
}

func emitMload(c *OperationCtx, op ci.Operation) (bool, error) {
	ok := HasItems(c, 1)
	work := guard(c, "mload", ok, c.Schedule.StaticCost(ci.Mload, 0))
	m := c.M
	_ = work

	offset32 := truncOffset(c, Pop(c))
	required := m.Add(offset32, m.ConstInt(m.Int32, 32, false), "mload.required")
	base := extendMemory(c, required)
	addr := indexByOffset(m, base, offset32)
	word := m.Load(m.Int256, addr, "mload.word")
	word = swapIfLittleEndian(m, word)
	Push(c, word)
	exit(c, "mload")
	return false, nil
}

func emitMstore(c *OperationCtx, op ci.Operation) (bool, error) {
	ok := HasItems(c, 2)
	guard(c, "mstore", ok, c.Schedule.StaticCost(ci.Mstore, 0))
	m := c.M

	offset := Pop(c)
	value := Pop(c)
	offset32 := truncOffset(c, offset)
	required := m.Add(offset32, m.ConstInt(m.Int32, 32, false), "mstore.required")
	base := extendMemory(c, required)
	addr := indexByOffset(m, base, offset32)
	swapped := swapIfLittleEndian(m, value)
	m.Store(swapped, addr)
	exit(c, "mstore")
	return false, nil
}

func emitMstore8(c *OperationCtx, op ci.Operation) (bool, error) {
	ok := HasItems(c, 2)
	guard(c, "mstore8", ok, c.Schedule.StaticCost(ci.Mstore8, 0))
	m := c.M

	offset := Pop(c)
	value := Pop(c)
	offset32 := truncOffset(c, offset)
	required := m.Add(offset32, m.ConstInt(m.Int32, 1, false), "mstore8.required")
	base := extendMemory(c, required)
	addr := indexByOffset(m, base, offset32)
	byteVal := m.Trunc(value, m.Int8, "mstore8.byte")
	m.Store(byteVal, addr)
	exit(c, "mstore8")
	return false, nil
}

// emitMcopy uses a memmove intrinsic since source and destination ranges
// may overlap, extending memory to cover both ends independently before
// the move, per the original source's treatment.
func emitMcopy(c *OperationCtx, op ci.Operation) (bool, error) {
	ok := HasItems(c, 3)
	guard(c, "mcopy", ok, c.Schedule.StaticCost(ci.Mcopy, 0))
	m := c.M

	destOffset := truncOffset(c, Pop(c))
	srcOffset := truncOffset(c, Pop(c))
	size := truncOffset(c, Pop(c))

	destEnd := m.Add(destOffset, size, "mcopy.dest.end")
	srcEnd := m.Add(srcOffset, size, "mcopy.src.end")
	destBigger := m.ICmp(ir.PredUGT, destEnd, srcEnd, "mcopy.dest.bigger")
	required := m.Builder.CreateSelect(destBigger, destEnd, srcEnd, "mcopy.required")

	base := extendMemory(c, required)
	dst := indexByOffset(m, base, destOffset)
	src := indexByOffset(m, base, srcOffset)
	size64 := m.ZExt(size, m.Int64, "mcopy.size64")
	m.Memmove(dst, src, size64)
	exit(c, "mcopy")
	return false, nil
}

func emitMsize(c *OperationCtx, op ci.Operation) (bool, error) {
	ok := HasSpaceFor(c, 1)
	guard(c, "msize", ok, c.Schedule.StaticCost(ci.Msize, 0))
	m := c.M
	size := loadMemSize(c)
	v := m.ZExt(size, m.Int256, "msize.value")
	Push(c, v)
	exit(c, "msize")
	return false, nil
}

func truncOffset(c *OperationCtx, v ir.Value) ir.Value {
	return c.M.Trunc(v, c.M.Int32, "offset.u32")
}

func indexByOffset(m *ir.Module, basePtr ir.Value, offset ir.Value) ir.Value {
	offset64 := m.ZExt(offset, m.Int64, "offset.idx")
	return m.Builder.CreateGEP(m.Int8, basePtr, []ir.Value{offset64}, "offset.addr")
}

func swapIfLittleEndian(m *ir.Module, v ir.Value) ir.Value {
	// Little-endian byte-swap discipline applies only at memory and
	// calldata boundaries; host arithmetic on the stack stays native.
	return m.Bswap(v, "bswap")
}
