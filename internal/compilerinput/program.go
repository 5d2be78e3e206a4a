// Package compilerinput is the read-only contract the bytecode-to-IR core
// consumes. The bytecode parser that produces a Program from raw bytes is
// an external collaborator and out of scope here; this package only shapes
// what the core is handed, and gives the core's own tests a way to build
// fixtures directly without a parser.
package compilerinput

import "github.com/holiman/uint256"

// OpKind enumerates every decoded operation this core's dispatcher handles.
type OpKind int

const (
	Stop OpKind = iota
	Push0
	Push
	Add
	Mul
	Sub
	Div
	Sdiv
	Mod
	SMod
	Addmod
	Mulmod
	Exp
	SignExtend
	Lt
	Gt
	Slt
	Sgt
	Eq
	IsZero
	And
	Or
	Xor
	Byte
	Shr
	Shl
	Sar
	Codesize
	Pop
	Mload
	Jump
	Jumpi
	PC
	Msize
	Gas
	Jumpdest
	Mcopy
	Dup
	Swap
	Return
	Revert
	Mstore
	Mstore8
	Log
	CalldataLoad
	CallDataSize
)

// Operation is one decoded instruction. Only the fields relevant to its
// Kind are populated; the dispatcher knows which field to read for each kind.
type Operation struct {
	Kind OpKind

	// Push carries a byte width (1..32) and the immediate value.
	PushWidth int
	PushValue *uint256.Int

	// Dup/Swap carry an index in 1..16.
	Index int

	// Log carries a topic count in 0..4.
	LogTopics int

	// PC/Jumpdest carry the compile-time program counter of this
	// instruction.
	Pc uint64
}

// Program is the ordered, fully-decoded instruction sequence the core
// lowers into IR.
type Program struct {
	CodeSize   uint64
	Operations []Operation
}

// PushOp is a constructor convenience used throughout tests and fixtures.
func PushOp(width int, value *uint256.Int) Operation {
	return Operation{Kind: Push, PushWidth: width, PushValue: value}
}

func DupOp(n int) Operation  { return Operation{Kind: Dup, Index: n} }
func SwapOp(n int) Operation { return Operation{Kind: Swap, Index: n} }
func LogOp(n int) Operation  { return Operation{Kind: Log, LogTopics: n} }
func PcOp(pc uint64) Operation       { return Operation{Kind: PC, Pc: pc} }
func JumpdestOp(pc uint64) Operation { return Operation{Kind: Jumpdest, Pc: pc} }
func Simple(kind OpKind) Operation   { return Operation{Kind: kind} }
