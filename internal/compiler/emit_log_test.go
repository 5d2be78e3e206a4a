package compiler

import (
	"testing"

	"github.com/holiman/uint256"

	ci "github.com/evmlir/evmlir/internal/compilerinput"
)

// LOG1 pops offset, size, then one topic; the data region comes from memory,
// not the stack.
func TestLog1CarriesOneTopicAndData(t *testing.T) {
	ops := []ci.Operation{
		ci.PushOp(1, uint256.NewInt(0xAA)), // value
		ci.PushOp(1, uint256.NewInt(0)),    // offset
		ci.Simple(ci.Mstore8),

		ci.PushOp(1, uint256.NewInt(0x11)), // topic0
		ci.PushOp(1, uint256.NewInt(1)),    // size
		ci.PushOp(1, uint256.NewInt(0)),    // offset
		ci.LogOp(1),
		ci.Simple(ci.Stop),
	}
	code, res := compileAndRun(t, ops, uint64(len(ops)), nil, 100000)
	if code != ExitStop {
		t.Fatalf("exit code = %d, want ExitStop", code)
	}
	if len(res.Logs) != 1 {
		t.Fatalf("got %d logs, want 1", len(res.Logs))
	}
	log := res.Logs[0]
	if string(log.Data) != "\xAA" {
		t.Fatalf("log data = %x, want aa", log.Data)
	}
	if len(log.Topics) != 1 || log.Topics[0].Cmp(uint256.NewInt(0x11)) != 0 {
		t.Fatalf("log topics = %v, want [0x11]", log.Topics)
	}
}

// LOG4's topics come back in pop order, the reverse of push order:
// topic0 is the topic nearest the top of stack (pushed last among the
// four), topic3 the one pushed first.
func TestLog4PreservesTopicOrder(t *testing.T) {
	ops := []ci.Operation{
		ci.PushOp(1, uint256.NewInt(4)), // topic3 (pushed first)
		ci.PushOp(1, uint256.NewInt(3)), // topic2
		ci.PushOp(1, uint256.NewInt(2)), // topic1
		ci.PushOp(1, uint256.NewInt(1)), // topic0 (pushed last, nearest the top)
		ci.PushOp(1, uint256.NewInt(0)), // size
		ci.PushOp(1, uint256.NewInt(0)), // offset
		ci.LogOp(4),
		ci.Simple(ci.Stop),
	}
	code, res := compileAndRun(t, ops, uint64(len(ops)), nil, 100000)
	if code != ExitStop {
		t.Fatalf("exit code = %d, want ExitStop", code)
	}
	if len(res.Logs) != 1 {
		t.Fatalf("got %d logs, want 1", len(res.Logs))
	}
	topics := res.Logs[0].Topics
	if len(topics) != 4 {
		t.Fatalf("got %d topics, want 4", len(topics))
	}
	for i, want := range []uint64{1, 2, 3, 4} {
		if topics[i].Cmp(uint256.NewInt(want)) != 0 {
			t.Fatalf("topic[%d] = %v, want %d", i, topics[i], want)
		}
	}
}
