package compiler

import (
	"testing"

	"github.com/holiman/uint256"

	ci "github.com/evmlir/evmlir/internal/compilerinput"
)

// MSIZE reports memory size rounded up to a whole word; touching byte 0
// alone still grows memory to a full 32-byte word.
func TestMsizeReportsWordRoundedSize(t *testing.T) {
	ops := []ci.Operation{
		ci.PushOp(1, uint256.NewInt(1)), // value
		ci.PushOp(1, uint256.NewInt(0)), // offset
		ci.Simple(ci.Mstore8),
		ci.Simple(ci.Msize),
		ci.PushOp(1, uint256.NewInt(0)), // mstore offset for the result
		ci.Simple(ci.Mstore),
		ci.PushOp(1, uint256.NewInt(32)),
		ci.PushOp(1, uint256.NewInt(0)),
		ci.Simple(ci.Return),
	}
	code, res := compileAndRun(t, ops, uint64(len(ops)), nil, 1_000_000)
	if code != ExitReturn {
		t.Fatalf("exit code = %d, want ExitReturn", code)
	}
	want := uint256.NewInt(32).Bytes32()
	var got [32]byte
	copy(got[:], res.ReturnData)
	if got != want {
		t.Fatalf("msize after touching byte 0 = %x, want %x", got, want)
	}
}

// MCOPY moves a word from one memory region to another via the memmove
// intrinsic, exercising the overlap-safe path even though these two ranges
// happen not to overlap.
func TestMcopyMovesWordToNewOffset(t *testing.T) {
	ops := []ci.Operation{
		ci.PushOp(1, uint256.NewInt(0xAB)), // value
		ci.PushOp(1, uint256.NewInt(0)),    // offset
		ci.Simple(ci.Mstore),

		ci.PushOp(1, uint256.NewInt(32)), // size
		ci.PushOp(1, uint256.NewInt(0)),  // src offset
		ci.PushOp(1, uint256.NewInt(32)), // dest offset
		ci.Simple(ci.Mcopy),

		ci.PushOp(1, uint256.NewInt(32)), // return size
		ci.PushOp(1, uint256.NewInt(32)), // return offset (the copy's destination)
		ci.Simple(ci.Return),
	}
	code, res := compileAndRun(t, ops, uint64(len(ops)), nil, 1_000_000)
	if code != ExitReturn {
		t.Fatalf("exit code = %d, want ExitReturn", code)
	}
	want := uint256.NewInt(0xAB).Bytes32()
	var got [32]byte
	copy(got[:], res.ReturnData)
	if got != want {
		t.Fatalf("mcopy destination = %x, want %x", got, want)
	}
}
