package main

import (
	"testing"

	ci "github.com/evmlir/evmlir/internal/compilerinput"
)

func TestDecodeHexStripsPrefixAndHandlesEmpty(t *testing.T) {
	got, err := decodeHex("0xaabbcc")
	if err != nil {
		t.Fatalf("decodeHex: %v", err)
	}
	if string(got) != "\xaa\xbb\xcc" {
		t.Fatalf("decodeHex(0xaabbcc) = %x", got)
	}

	empty, err := decodeHex("")
	if err != nil || empty != nil {
		t.Fatalf("decodeHex(\"\") = %v, %v, want nil, nil", empty, err)
	}
}

func TestDecodeProgramOpcodes(t *testing.T) {
	// PUSH1 0x05 PUSH1 0x0A ADD STOP, no whitespace.
	program, codeSize, err := decodeProgram("6005600a0100")
	if err != nil {
		t.Fatalf("decodeProgram: %v", err)
	}
	if codeSize != 6 {
		t.Fatalf("codeSize = %d, want 6", codeSize)
	}
	want := []ci.OpKind{ci.Push, ci.Push, ci.Add, ci.Stop}
	if len(program.Operations) != len(want) {
		t.Fatalf("got %d operations, want %d: %+v", len(program.Operations), len(want), program.Operations)
	}
	for i, k := range want {
		if program.Operations[i].Kind != k {
			t.Fatalf("operation %d kind = %v, want %v", i, program.Operations[i].Kind, k)
		}
	}
	if program.Operations[0].PushValue.Uint64() != 5 {
		t.Fatalf("first push value = %d, want 5", program.Operations[0].PushValue.Uint64())
	}
	if program.Operations[1].PushValue.Uint64() != 10 {
		t.Fatalf("second push value = %d, want 10", program.Operations[1].PushValue.Uint64())
	}
}

func TestDecodeProgramJumpdestAndDupSwapLog(t *testing.T) {
	// JUMPDEST DUP1 SWAP1 LOG0
	program, _, err := decodeProgram("5b8090a0")
	if err != nil {
		t.Fatalf("decodeProgram: %v", err)
	}
	want := []ci.OpKind{ci.Jumpdest, ci.Dup, ci.Swap, ci.Log}
	for i, k := range want {
		if program.Operations[i].Kind != k {
			t.Fatalf("operation %d kind = %v, want %v", i, program.Operations[i].Kind, k)
		}
	}
	if program.Operations[1].Index != 1 {
		t.Fatalf("DUP index = %d, want 1", program.Operations[1].Index)
	}
	if program.Operations[2].Index != 1 {
		t.Fatalf("SWAP index = %d, want 1", program.Operations[2].Index)
	}
	if program.Operations[3].LogTopics != 0 {
		t.Fatalf("LOG topic count = %d, want 0", program.Operations[3].LogTopics)
	}
}

func TestDecodeProgramUnsupportedOpcodeErrors(t *testing.T) {
	if _, _, err := decodeProgram("fe"); err == nil {
		t.Fatal("expected an error decoding an unsupported opcode")
	}
}

func TestDecodeProgramTruncatedPushPadsWithZero(t *testing.T) {
	// PUSH2 with only one byte of immediate data left in the stream.
	program, _, err := decodeProgram("61ff")
	if err != nil {
		t.Fatalf("decodeProgram: %v", err)
	}
	if len(program.Operations) != 1 {
		t.Fatalf("got %d operations, want 1", len(program.Operations))
	}
	if program.Operations[0].PushValue.Uint64() != 0xff00 {
		t.Fatalf("push value = %#x, want 0xff00", program.Operations[0].PushValue.Uint64())
	}
}
