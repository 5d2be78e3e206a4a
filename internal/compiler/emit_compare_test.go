package compiler

import (
	"testing"

	"github.com/holiman/uint256"

	ci "github.com/evmlir/evmlir/internal/compilerinput"
)

// Each comparison pops lhs (top) then rhs (second), and computes
// lhs OP rhs, matching the Yellow Paper's μs[0] OP μs[1]. So to compare
// "x OP y" the push order is y, then x: x must land on top.

func TestLtUnsignedComparesMagnitude(t *testing.T) {
	ops := mstoreAndReturn(
		ci.PushOp(1, uint256.NewInt(5)), // rhs (second)
		ci.PushOp(1, uint256.NewInt(3)), // lhs (top)
		ci.Simple(ci.Lt),
	)
	got := returnWord(t, ops)
	want := uint256.NewInt(1).Bytes32()
	if got != want {
		t.Fatalf("lt(3, 5) = %x, want %x", got, want)
	}
}

// TestLtMatchesYellowPaperTopSecondOrder pins down the non-commutative
// case: LT with top=10, second=5 must compute 10<5 (false), not 5<10
// (true).
func TestLtMatchesYellowPaperTopSecondOrder(t *testing.T) {
	ops := mstoreAndReturn(
		ci.PushOp(1, uint256.NewInt(5)),  // rhs (second)
		ci.PushOp(1, uint256.NewInt(10)), // lhs (top)
		ci.Simple(ci.Lt),
	)
	got := returnWord(t, ops)
	want := uint256.NewInt(0).Bytes32()
	if got != want {
		t.Fatalf("lt(10, 5) = %x, want %x (false)", got, want)
	}
}

func TestGtUnsignedComparesMagnitude(t *testing.T) {
	ops := mstoreAndReturn(
		ci.PushOp(1, uint256.NewInt(3)), // rhs (second)
		ci.PushOp(1, uint256.NewInt(5)), // lhs (top)
		ci.Simple(ci.Gt),
	)
	got := returnWord(t, ops)
	want := uint256.NewInt(1).Bytes32()
	if got != want {
		t.Fatalf("gt(5, 3) = %x, want %x", got, want)
	}
}

// SLT must compare by two's-complement value: -1 is less than 1 even
// though its unsigned magnitude is enormous. -1 is a genuine pushed
// literal (not synthesized via SUB) to exercise the wide-constant read
// path end to end.
func TestSltComparesBySignNotMagnitude(t *testing.T) {
	negOne := new(uint256.Int).Sub(uint256.NewInt(0), uint256.NewInt(1))
	ops := mstoreAndReturn(
		ci.PushOp(1, uint256.NewInt(1)), // rhs (second) = 1
		ci.PushOp(32, negOne),           // lhs (top) = -1
		ci.Simple(ci.Slt),
	)
	got := returnWord(t, ops)
	want := uint256.NewInt(1).Bytes32()
	if got != want {
		t.Fatalf("slt(-1, 1) = %x, want %x (true)", got, want)
	}
}

func TestSgtComparesBySignNotMagnitude(t *testing.T) {
	negOne := new(uint256.Int).Sub(uint256.NewInt(0), uint256.NewInt(1))
	ops := mstoreAndReturn(
		ci.PushOp(32, negOne),           // rhs (second) = -1
		ci.PushOp(1, uint256.NewInt(1)), // lhs (top) = 1
		ci.Simple(ci.Sgt),
	)
	got := returnWord(t, ops)
	want := uint256.NewInt(1).Bytes32()
	if got != want {
		t.Fatalf("sgt(1, -1) = %x, want %x (true)", got, want)
	}
}

func TestEqFalseForDistinctValues(t *testing.T) {
	ops := mstoreAndReturn(
		ci.PushOp(1, uint256.NewInt(1)),
		ci.PushOp(1, uint256.NewInt(2)),
		ci.Simple(ci.Eq),
	)
	got := returnWord(t, ops)
	want := uint256.NewInt(0).Bytes32()
	if got != want {
		t.Fatalf("eq(1, 2) = %x, want %x (false)", got, want)
	}
}

func TestIsZeroTrueForZero(t *testing.T) {
	ops := mstoreAndReturn(
		ci.PushOp(1, uint256.NewInt(0)),
		ci.Simple(ci.IsZero),
	)
	got := returnWord(t, ops)
	want := uint256.NewInt(1).Bytes32()
	if got != want {
		t.Fatalf("iszero(0) = %x, want %x (true)", got, want)
	}
}

func TestIsZeroFalseForNonzero(t *testing.T) {
	ops := mstoreAndReturn(
		ci.PushOp(1, uint256.NewInt(7)),
		ci.Simple(ci.IsZero),
	)
	got := returnWord(t, ops)
	want := uint256.NewInt(0).Bytes32()
	if got != want {
		t.Fatalf("iszero(7) = %x, want %x (false)", got, want)
	}
}
