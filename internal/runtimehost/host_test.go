package runtimehost

import (
	"bytes"
	"testing"

	"github.com/holiman/uint256"
)

func TestExtendMemoryGrowsAndZeroFills(t *testing.T) {
	h := New(nil)
	mem := h.ExtendMemory(64)
	if len(mem) != 64 {
		t.Fatalf("expected 64 bytes, got %d", len(mem))
	}
	for _, b := range mem {
		if b != 0 {
			t.Fatal("expected freshly grown memory to be zero-filled")
		}
	}
}

func TestExtendMemoryPreservesExistingBytes(t *testing.T) {
	h := New(nil)
	mem := h.ExtendMemory(32)
	copy(mem, []byte("hello world, this is 32 bytes!!"))
	mem = h.ExtendMemory(64)
	if !bytes.HasPrefix(mem, []byte("hello world, this is 32 bytes!!")) {
		t.Fatal("expected prior bytes to survive a grow")
	}
	if len(mem) != 64 {
		t.Fatalf("expected 64 bytes after growth, got %d", len(mem))
	}
}

func TestExtendMemoryNoShrink(t *testing.T) {
	h := New(nil)
	h.ExtendMemory(128)
	mem := h.ExtendMemory(32)
	if len(mem) != 128 {
		t.Fatalf("expected ExtendMemory to never shrink, got %d", len(mem))
	}
}

func TestWriteResultAndResult(t *testing.T) {
	h := New(nil)
	mem := h.ExtendMemory(32)
	copy(mem[4:8], []byte{0xde, 0xad, 0xbe, 0xef})
	h.WriteResult(4, 4, 1000, uint8(ExitReturn))

	res := h.Result()
	if res.Status != ExitReturn {
		t.Fatalf("expected ExitReturn, got %v", res.Status)
	}
	if res.GasRemaining != 1000 {
		t.Fatalf("expected gas remaining 1000, got %d", res.GasRemaining)
	}
	if !bytes.Equal(res.ReturnData, []byte{0xde, 0xad, 0xbe, 0xef}) {
		t.Fatalf("unexpected return data: %x", res.ReturnData)
	}
}

func TestAppendLogNoTopics(t *testing.T) {
	h := New(nil)
	mem := h.ExtendMemory(4)
	copy(mem, []byte{1, 2, 3, 4})
	h.AppendLog(0, 4)

	res := h.Result()
	if len(res.Logs) != 1 {
		t.Fatalf("expected 1 log, got %d", len(res.Logs))
	}
	if len(res.Logs[0].Topics) != 0 {
		t.Fatalf("expected LOG0 to carry no topics, got %d", len(res.Logs[0].Topics))
	}
	if !bytes.Equal(res.Logs[0].Data, []byte{1, 2, 3, 4}) {
		t.Fatalf("unexpected log data: %x", res.Logs[0].Data)
	}
}

func TestAppendLogWithTopics(t *testing.T) {
	h := New(nil)
	h.ExtendMemory(8)
	topics := []uint256.Int{*uint256.NewInt(1), *uint256.NewInt(2)}
	h.AppendLogWithTopics(0, 8, topics)

	res := h.Result()
	if len(res.Logs) != 1 || len(res.Logs[0].Topics) != 2 {
		t.Fatalf("expected one log with 2 topics, got %+v", res.Logs)
	}
	if res.Logs[0].Topics[0].Uint64() != 1 || res.Logs[0].Topics[1].Uint64() != 2 {
		t.Fatalf("unexpected topic values: %+v", res.Logs[0].Topics)
	}
}

func TestCalldataAccessors(t *testing.T) {
	h := New([]byte{0xaa, 0xbb, 0xcc})
	if h.GetCalldataSize() != 3 {
		t.Fatalf("expected size 3, got %d", h.GetCalldataSize())
	}
	if !bytes.Equal(h.GetCalldataPtr(), []byte{0xaa, 0xbb, 0xcc}) {
		t.Fatal("unexpected calldata contents")
	}
}

func TestResultOutOfBoundsReturnWindowYieldsNilData(t *testing.T) {
	h := New(nil)
	h.ExtendMemory(4)
	h.WriteResult(0, 100, 0, uint8(ExitReturn))
	res := h.Result()
	if res.ReturnData != nil {
		t.Fatalf("expected nil return data for an out-of-bounds window, got %x", res.ReturnData)
	}
}
