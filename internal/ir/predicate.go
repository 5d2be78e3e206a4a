package ir

import "tinygo.org/x/go-llvm"

func llvmPredicate(p IntPredicate) llvm.IntPredicate {
	switch p {
	case PredEQ:
		return llvm.IntEQ
	case PredNE:
		return llvm.IntNE
	case PredULT:
		return llvm.IntULT
	case PredULE:
		return llvm.IntULE
	case PredUGT:
		return llvm.IntUGT
	case PredUGE:
		return llvm.IntUGE
	case PredSLT:
		return llvm.IntSLT
	case PredSLE:
		return llvm.IntSLE
	case PredSGT:
		return llvm.IntSGT
	case PredSGE:
		return llvm.IntSGE
	default:
		return llvm.IntEQ
	}
}
