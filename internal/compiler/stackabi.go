package compiler

import "github.com/evmlir/evmlir/internal/ir"

// Stack ABI: pointer arithmetic over the stack-pointer globals, grounded on
// original_source/src/utils.rs's stack_pop/stack_push/check_stack_has_space_for.
// None of these check bounds themselves; callers must have already
// verified the guard (§4.2) before calling.

// Push stores v at *top and advances top by one 256-bit slot.
func Push(c *OperationCtx, v ir.Value) {
	m := c.M
	top := loadStackPtr(c)
	m.Store(v, top)
	next := m.GEP(m.Int256, top, 1, "stack.top.next")
	storeStackPtr(c, next)
}

// Pop decrements top by one slot and loads the value now at top.
func Pop(c *OperationCtx) ir.Value {
	m := c.M
	top := loadStackPtr(c)
	prev := m.GEP(m.Int256, top, -1, "stack.top.prev")
	v := m.Load(m.Int256, prev, "stack.popped")
	storeStackPtr(c, prev)
	return v
}

// PeekNth returns the value n slots below the current top without
// mutating it; n=1 is the current top-of-stack.
func PeekNth(c *OperationCtx, n int32) ir.Value {
	m := c.M
	top := loadStackPtr(c)
	ptr := m.GEP(m.Int256, top, -n, "stack.peek.ptr")
	return m.Load(m.Int256, ptr, "stack.peek")
}

// storeNth overwrites the slot n positions below top (1-indexed).
func storeNth(c *OperationCtx, n int32, v ir.Value) {
	m := c.M
	top := loadStackPtr(c)
	ptr := m.GEP(m.Int256, top, -n, "stack.store.ptr")
	m.Store(v, ptr)
}

// SwapNth exchanges the current top-of-stack (offset 1) with the item n
// slots below it.
func SwapNth(c *OperationCtx, n int32) {
	top := PeekNth(c, 1)
	other := PeekNth(c, n+1)
	storeNth(c, 1, other)
	storeNth(c, n+1, top)
}

// HasItems computes the i1 flag that at least n items are currently on the
// stack: top - base >= n slots, i.e. NOT(top - n*32 < base).
func HasItems(c *OperationCtx, n int32) ir.Value {
	m := c.M
	top := loadStackPtr(c)
	base := loadStackBasePtr(c)
	probe := m.GEP(m.Int256, top, -n, "stack.has.probe")
	return m.ICmp(ir.PredUGE, ptrToInt(m, probe), ptrToInt(m, base), "stack.has.items")
}

// HasSpaceFor computes the i1 flag that at least n additional items can be
// pushed without exceeding maxStackSize, mirroring
// check_stack_has_space_for's subtracted-pointer ule comparison, restated
// as an unsigned-greater-or-equal comparison against the base pointer of
// `top + n - maxStackSize`.
func HasSpaceFor(c *OperationCtx, n int32) ir.Value {
	m := c.M
	top := loadStackPtr(c)
	base := loadStackBasePtr(c)
	probe := m.GEP(m.Int256, top, n-maxStackSize, "stack.space.probe")
	return m.ICmp(ir.PredULE, ptrToInt(m, probe), ptrToInt(m, base), "stack.has.space")
}

func ptrToInt(m *ir.Module, v ir.Value) ir.Value {
	return m.Builder.CreatePtrToInt(v, m.Int64, "ptr.int")
}
