package compiler

import (
	ci "github.com/evmlir/evmlir/internal/compilerinput"
	"github.com/evmlir/evmlir/internal/ir"
)

// emitLog builds LOG0..LOG4. Each topic is spilled to a fresh stack slot
// shaped like syscalls.U256 before being handed to the host as a pointer,
// since the append_log_with_*_topic(s) ABI takes topics by reference per
// the original source's treatment rather than by four-word value.
func emitLog(c *OperationCtx, op ci.Operation) (bool, error) {
	topics := op.LogTopics
	need := int32(2 + topics)
	ok := HasItems(c, need)
	guard(c, "log", ok, c.Schedule.StaticCost(ci.Log, topics))
	m := c.M

	offset := truncOffset(c, Pop(c))
	size := truncOffset(c, Pop(c))

	topicVals := make([]ir.Value, topics)
	for i := 0; i < topics; i++ {
		topicVals[i] = Pop(c)
	}

	required := m.Add(offset, size, "log.required")
	extendMemory(c, required)

	size64 := m.ZExt(size, m.Int64, "log.size64")
	dynCost := m.Builder.CreateAdd(
		m.Builder.CreateMul(size64, m.ConstInt(m.Int64, GasLogData, false), "log.data.cost"),
		m.ConstInt(m.Int64, GasLogTopic*uint64(topics), false),
		"log.dyn.cost")
	cur := c.LoadGas()
	dynOk := m.ICmp(ir.PredUGE, cur, dynCost, "log.dyn.ok")
	next := m.Sub(cur, dynCost, "log.dyn.next")

	okBlock := m.AppendBlock(c.Fn, "log.dyn.ok")
	m.CondBr(dynOk, okBlock, c.RevertBlock)
	m.SetInsertPoint(okBlock)
	c.StoreGas(next)

	if topics == 0 {
		c.Bridge.AppendLog(c.CtxParam, offset, size)
	} else {
		topicPtrs := make([]ir.Value, topics)
		for i, v := range topicVals {
			slot := m.Alloca(m.Int256, "log.topic.slot")
			m.Store(v, slot)
			topicPtrs[i] = slot
		}
		c.Bridge.AppendLogWithTopics(c.CtxParam, offset, size, topicPtrs)
	}

	exit(c, "log")
	return false, nil
}
