package compiler

import (
	"testing"

	"github.com/holiman/uint256"

	ci "github.com/evmlir/evmlir/internal/compilerinput"
	"github.com/evmlir/evmlir/internal/runtimehost"
)

// JUMPI pops (pc, cond) with pc on top; a zero condition must fall
// through to the next opcode rather than jumping.
func TestJumpiNotTakenFallsThrough(t *testing.T) {
	ops := []ci.Operation{
		ci.PushOp(1, uint256.NewInt(0)),  // cond = false
		ci.PushOp(1, uint256.NewInt(99)), // pc (unreachable — no JUMPDEST at 99), on top
		ci.Simple(ci.Jumpi),
		ci.Simple(ci.Stop),
	}
	code, res := compileAndRun(t, ops, uint64(len(ops)), nil, 100000)
	if code != ExitStop {
		t.Fatalf("exit code = %d, want ExitStop", code)
	}
	if res.Status != runtimehost.ExitStop {
		t.Fatalf("host status = %v, want ExitStop", res.Status)
	}
}

// A nonzero condition must take the jump, landing on the registered
// JUMPDEST rather than falling through to the STOP right after JUMPI.
func TestJumpiTakenJumpsToTarget(t *testing.T) {
	ops := []ci.Operation{
		ci.PushOp(1, uint256.NewInt(1)), // cond = true
		ci.PushOp(1, uint256.NewInt(5)), // pc of the JUMPDEST below, on top
		ci.Simple(ci.Jumpi),
		ci.Simple(ci.Stop), // must be skipped
		ci.Simple(ci.Stop), // padding so JUMPDEST lands at pc=5
		ci.JumpdestOp(5),
		ci.PushOp(1, uint256.NewInt(0xCC)),
		ci.PushOp(1, uint256.NewInt(0)),
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
		t.Fatalf("return data = %x, want %x (proves the jump landed, not the fallthrough path)", res.ReturnData, want)
	}
}

// REVERT surfaces ExitRevert with the requested memory range as its data,
// distinct from both a normal RETURN and an internal ExitError.
func TestRevertSurfacesRequestedData(t *testing.T) {
	ops := []ci.Operation{
		ci.PushOp(1, uint256.NewInt(0xEE)),
		ci.PushOp(1, uint256.NewInt(0)),
		ci.Simple(ci.Mstore),
		ci.PushOp(1, uint256.NewInt(32)),
		ci.PushOp(1, uint256.NewInt(0)),
		ci.Simple(ci.Revert),
	}
	code, res := compileAndRun(t, ops, uint64(len(ops)), nil, 100000)
	if code != ExitRevert {
		t.Fatalf("exit code = %d, want ExitRevert", code)
	}
	if res.Status != runtimehost.ExitRevert {
		t.Fatalf("host status = %v, want ExitRevert", res.Status)
	}
	want := make([]byte, 32)
	want[31] = 0xEE
	if string(res.ReturnData) != string(want) {
		t.Fatalf("revert data = %x, want %x", res.ReturnData, want)
	}
}
