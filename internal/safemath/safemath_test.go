package safemath

import (
	"math"
	"testing"

	"github.com/holiman/uint256"
)

func TestUint64ToUint32(t *testing.T) {
	if v, ok := Uint64ToUint32(42); !ok || v != 42 {
		t.Fatalf("got %d, %v", v, ok)
	}
	if _, ok := Uint64ToUint32(math.MaxUint32 + 1); ok {
		t.Fatal("expected overflow to be rejected")
	}
	if v, ok := Uint64ToUint32(math.MaxUint32); !ok || v != math.MaxUint32 {
		t.Fatalf("got %d, %v", v, ok)
	}
}

func TestUint256ToUint64(t *testing.T) {
	small := uint256.NewInt(1000)
	if v, ok := Uint256ToUint64(small); !ok || v != 1000 {
		t.Fatalf("got %d, %v", v, ok)
	}

	huge := new(uint256.Int).Lsh(uint256.NewInt(1), 200)
	if _, ok := Uint256ToUint64(huge); ok {
		t.Fatal("expected 2^200 to overflow uint64")
	}
}

func TestUint256ToUint32(t *testing.T) {
	if v, ok := Uint256ToUint32(uint256.NewInt(65536)); !ok || v != 65536 {
		t.Fatalf("got %d, %v", v, ok)
	}

	tooLarge := uint256.NewInt(uint64(math.MaxUint32) + 1)
	if _, ok := Uint256ToUint32(tooLarge); ok {
		t.Fatal("expected MaxUint32+1 to overflow uint32")
	}
}

func TestAddUint32(t *testing.T) {
	sum, ok := AddUint32(10, 20)
	if !ok || sum != 30 {
		t.Fatalf("got %d, %v", sum, ok)
	}

	_, ok = AddUint32(math.MaxUint32, 1)
	if ok {
		t.Fatal("expected MaxUint32+1 to overflow")
	}
}
