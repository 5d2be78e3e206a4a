// Package runtimehost is a reference implementation of the nine
// evm_mlir__* syscalls compiled code calls into: byte-slice memory, a
// calldata slice, and a log sink. It is not linked into real JIT-compiled
// machine code — there is no execution engine in this tree — but drives
// internal/compiler/interp's block-graph evaluator the same way the real
// host would drive compiled code, and backs the CLI's run subcommand.
package runtimehost

import "github.com/holiman/uint256"

// ExitStatus mirrors the original source's ExitStatusCode.
type ExitStatus uint8

const (
	ExitReturn ExitStatus = iota
	ExitStop
	ExitRevert
	ExitError
	ExitDefault
)

// Log is one emitted LOG0..LOG4 event.
type Log struct {
	Topics []uint256.Int
	Data   []byte
}

// Host holds the mutable state one compiled-code invocation operates on.
type Host struct {
	memory   []byte
	calldata []byte

	returnOffset uint32
	returnLength uint32
	gasRemaining uint64
	exitStatus  ExitStatus
	logs        []Log
}

// New returns a Host primed with the given calldata.
func New(calldata []byte) *Host {
	return &Host{calldata: calldata}
}

// WriteResult is evm_mlir__write_result: records the return buffer window,
// remaining gas, and exit status. Called exactly once per execution.
func (h *Host) WriteResult(offset, length uint32, gasRemaining uint64, exitCode uint8) {
	h.returnOffset = offset
	h.returnLength = length
	h.gasRemaining = gasRemaining
	h.exitStatus = ExitStatus(exitCode)
}

// ExtendMemory is evm_mlir__extend_memory: grows memory to newSize bytes,
// zero-filling the new region, and returns the (possibly reallocated) base
// pointer as a byte slice header. A nil return signals allocation failure,
// matching the original's null-pointer convention.
func (h *Host) ExtendMemory(newSize uint32) []byte {
	size := int(newSize)
	if size <= len(h.memory) {
		return h.memory
	}
	grown := make([]byte, size)
	copy(grown, h.memory)
	h.memory = grown
	return h.memory
}

// Memory exposes the current backing buffer for tests and the CLI.
func (h *Host) Memory() []byte { return h.memory }

// AppendLog is evm_mlir__append_log (LOG0).
func (h *Host) AppendLog(offset, size uint32) {
	h.createLog(offset, size, nil)
}

// AppendLogWithTopics dispatches the append_log_with_{one,two,three,four}_topic(s)
// family; len(topics) must be 1..4.
func (h *Host) AppendLogWithTopics(offset, size uint32, topics []uint256.Int) {
	h.createLog(offset, size, topics)
}

func (h *Host) createLog(offset, size uint32, topics []uint256.Int) {
	data := make([]byte, size)
	copy(data, h.memory[offset:offset+size])
	h.logs = append(h.logs, Log{Topics: topics, Data: data})
}

// GetCalldataPtr is evm_mlir__get_calldata_ptr.
func (h *Host) GetCalldataPtr() []byte { return h.calldata }

// GetCalldataSize is evm_mlir__get_calldata_size.
func (h *Host) GetCalldataSize() uint32 { return uint32(len(h.calldata)) }

// Result is the decoded outcome of one execution, mirroring
// SyscallContext::get_result's three-way Success/Revert/Halt split.
type Result struct {
	Status       ExitStatus
	ReturnData   []byte
	GasRemaining uint64
	Logs         []Log
}

// Result assembles the final outcome after compiled code has returned.
func (h *Host) Result() Result {
	var data []byte
	if int(h.returnOffset)+int(h.returnLength) <= len(h.memory) {
		data = append([]byte(nil), h.memory[h.returnOffset:h.returnOffset+h.returnLength]...)
	}
	return Result{
		Status:       h.exitStatus,
		ReturnData:   data,
		GasRemaining: h.gasRemaining,
		Logs:         h.logs,
	}
}
