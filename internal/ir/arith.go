package ir

import "tinygo.org/x/go-llvm"

// arith mirrors MLIR's `arith` dialect: integer arithmetic, comparisons,
// and the extension/truncation ops used to keep every stack-facing value
// at a uniform 256-bit width.

// Add emits an integer addition. EVM ADD/SUB/MUL are defined to wrap
// modulo 2^256, which is exactly what LLVM's wrapping add/sub/mul already do.
func (m *Module) Add(lhs, rhs Value, name string) Value {
	return m.Builder.CreateAdd(lhs, rhs, name)
}

func (m *Module) Sub(lhs, rhs Value, name string) Value {
	return m.Builder.CreateSub(lhs, rhs, name)
}

func (m *Module) Mul(lhs, rhs Value, name string) Value {
	return m.Builder.CreateMul(lhs, rhs, name)
}

func (m *Module) UDiv(lhs, rhs Value, name string) Value {
	return m.Builder.CreateUDiv(lhs, rhs, name)
}

func (m *Module) SDiv(lhs, rhs Value, name string) Value {
	return m.Builder.CreateSDiv(lhs, rhs, name)
}

func (m *Module) URem(lhs, rhs Value, name string) Value {
	return m.Builder.CreateURem(lhs, rhs, name)
}

func (m *Module) SRem(lhs, rhs Value, name string) Value {
	return m.Builder.CreateSRem(lhs, rhs, name)
}

func (m *Module) And(lhs, rhs Value, name string) Value {
	return m.Builder.CreateAnd(lhs, rhs, name)
}

func (m *Module) Or(lhs, rhs Value, name string) Value {
	return m.Builder.CreateOr(lhs, rhs, name)
}

func (m *Module) Xor(lhs, rhs Value, name string) Value {
	return m.Builder.CreateXor(lhs, rhs, name)
}

func (m *Module) Shl(lhs, rhs Value, name string) Value {
	return m.Builder.CreateShl(lhs, rhs, name)
}

// LShr is a logical (unsigned) right shift, used by SHR.
func (m *Module) LShr(lhs, rhs Value, name string) Value {
	return m.Builder.CreateLShr(lhs, rhs, name)
}

// AShr is an arithmetic (sign-replicating) right shift, used by SAR and
// the shl+ashr formula behind SIGNEXTEND.
func (m *Module) AShr(lhs, rhs Value, name string) Value {
	return m.Builder.CreateAShr(lhs, rhs, name)
}

// IntPredicate names the comparison kinds the compiler needs; it maps onto
// llvm.IntPredicate one-to-one but keeps call sites free of the llvm import.
type IntPredicate int

const (
	PredEQ IntPredicate = iota
	PredNE
	PredULT
	PredULE
	PredUGT
	PredUGE
	PredSLT
	PredSLE
	PredSGT
	PredSGE
)

func (m *Module) ICmp(pred IntPredicate, lhs, rhs Value, name string) Value {
	return m.Builder.CreateICmp(llvmPredicate(pred), lhs, rhs, name)
}

// ZExt zero-extends a narrower integer (typically an i1 comparison result)
// to the given width. Every comparison opcode in this compiler routes its
// result through ZExt to Int256 before pushing, per the spec's resolution
// of the zero-extension open question.
func (m *Module) ZExt(v Value, destType Type, name string) Value {
	return m.Builder.CreateZExt(v, destType, name)
}

func (m *Module) Trunc(v Value, destType Type, name string) Value {
	return m.Builder.CreateTrunc(v, destType, name)
}

// ConstInt256 builds a 256-bit constant from four little-endian 64-bit
// limbs, the shape uint256.Int already stores its words in.
func (m *Module) ConstInt256(words [4]uint64) Value {
	return llvm.ConstIntOfArbitraryPrecision(m.Int256, words[:])
}
