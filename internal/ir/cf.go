package ir

// cf mirrors MLIR's `cf` dialect: unconditional and conditional branches
// between basic blocks, including the jump-table block's multi-way switch
// over a runtime PC value.

func (m *Module) Br(dest Block) {
	m.Builder.CreateBr(dest)
}

func (m *Module) CondBr(cond Value, thenBlock, elseBlock Block) {
	m.Builder.CreateCondBr(cond, thenBlock, elseBlock)
}

// Switch emits a multi-way branch on v, dispatching to the block registered
// for each case value, or to def if none match. Used by the jump-table
// block to resolve a runtime PC against registered JUMPDEST landing blocks.
func (m *Module) Switch(v Value, def Block, cases map[uint64]Block) Value {
	sw := m.Builder.CreateSwitch(v, def, len(cases))
	for pc, block := range cases {
		sw.AddCase(m.ConstInt(v.Type(), pc, false), block)
	}
	return sw
}
