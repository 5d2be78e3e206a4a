package syscalls

import (
	"github.com/evmlir/evmlir/internal/ir"
	"tinygo.org/x/go-llvm"
)

func functionType(ret ir.Type, params []ir.Type) ir.Type {
	return llvm.FunctionType(ret, params, false)
}
