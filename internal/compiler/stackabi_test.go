package compiler

import (
	"testing"

	"github.com/holiman/uint256"

	ci "github.com/evmlir/evmlir/internal/compilerinput"
	"github.com/evmlir/evmlir/internal/ir"
)

// TestStackUnderflowReverts exercises HasItems' guard directly via ADD with
// an empty stack: the entry-block guard must fail closed into the revert
// trampoline rather than underflow the stack pointer.
func TestStackUnderflowReverts(t *testing.T) {
	ops := []ci.Operation{ci.Simple(ci.Add)}
	code, _ := compileAndRun(t, ops, 1, nil, 100000)
	if code != ExitError {
		t.Fatalf("exit code = %d, want ExitError", code)
	}
}

// TestStackOverflowReverts pushes 1025 words (one past maxStackSize) and
// expects the HasSpaceFor guard on the final PUSH to fail.
func TestStackOverflowReverts(t *testing.T) {
	ops := make([]ci.Operation, 0, maxStackSize+1)
	for i := 0; i < maxStackSize+1; i++ {
		ops = append(ops, ci.PushOp(1, uint256.NewInt(1)))
	}
	code, _ := compileAndRun(t, ops, uint64(len(ops)), nil, 10_000_000)
	if code != ExitError {
		t.Fatalf("exit code = %d, want ExitError", code)
	}
}

// TestSwapExchangesTopTwoItems: without SWAP1 the stack top after pushing
// AA then BB would be BB; SWAP1 must flip it back to AA.
func TestSwapExchangesTopTwoItems(t *testing.T) {
	ops := []ci.Operation{
		ci.PushOp(1, uint256.NewInt(0xAA)),
		ci.PushOp(1, uint256.NewInt(0xBB)),
		ci.SwapOp(1),
		ci.PushOp(1, uint256.NewInt(0)), // mstore offset
		ci.Simple(ci.Mstore),
		ci.PushOp(1, uint256.NewInt(32)),
		ci.PushOp(1, uint256.NewInt(0)),
		ci.Simple(ci.Return),
	}
	code, res := compileAndRun(t, ops, uint64(len(ops)), nil, 100000)
	if code != ExitReturn {
		t.Fatalf("exit code = %d, want ExitReturn", code)
	}
	want := make([]byte, 32)
	want[31] = 0xAA
	if string(res.ReturnData) != string(want) {
		t.Fatalf("return data = %x, want %x", res.ReturnData, want)
	}
}

// TestDupDuplicatesTopItem: without DUP1 the single pushed item would be
// consumed entirely by the POP, underflowing the subsequent MSTORE.
// Success here is only possible if DUP1 actually added a second copy.
func TestDupDuplicatesTopItem(t *testing.T) {
	ops := []ci.Operation{
		ci.PushOp(1, uint256.NewInt(0xCC)),
		ci.DupOp(1),
		ci.Simple(ci.Pop),
		ci.PushOp(1, uint256.NewInt(0)), // mstore offset
		ci.Simple(ci.Mstore),
		ci.PushOp(1, uint256.NewInt(32)),
		ci.PushOp(1, uint256.NewInt(0)),
		ci.Simple(ci.Return),
	}
	code, res := compileAndRun(t, ops, uint64(len(ops)), nil, 100000)
	if code != ExitReturn {
		t.Fatalf("exit code = %d, want ExitReturn", code)
	}
	want := make([]byte, 32)
	want[31] = 0xCC
	if string(res.ReturnData) != string(want) {
		t.Fatalf("return data = %x, want %x", res.ReturnData, want)
	}
}

// TestDupInvalidIndexIsCompileError exercises the parser-contract violation
// path: DUP17 is out of range and must fail compilation, not panic.
func TestDupInvalidIndexIsCompileError(t *testing.T) {
	m := ir.NewModule("dup-invalid")
	defer m.Dispose()
	program := &ci.Program{CodeSize: 1, Operations: []ci.Operation{ci.DupOp(17)}}
	if _, err := Compile(m, "entry", program); err == nil {
		t.Fatal("expected an error compiling an out-of-range DUP index")
	}
}

// TestUnhandledOpKindIsCompileError exercises the dispatcher's unknown-kind
// branch directly.
func TestUnhandledOpKindIsCompileError(t *testing.T) {
	m := ir.NewModule("unhandled-kind")
	defer m.Dispose()
	program := &ci.Program{CodeSize: 1, Operations: []ci.Operation{{Kind: ci.OpKind(9999)}}}
	if _, err := Compile(m, "entry", program); err == nil {
		t.Fatal("expected an error compiling an unrecognized opcode kind")
	}
}

// TestEmptyProgramFallsThroughToImplicitStop covers the dispatcher's
// no-terminator-left-open fallback: a Program with zero operations still
// produces a function that returns ExitStop.
func TestEmptyProgramFallsThroughToImplicitStop(t *testing.T) {
	code, _ := compileAndRun(t, nil, 0, nil, 100000)
	if code != ExitStop {
		t.Fatalf("exit code = %d, want ExitStop", code)
	}
}
