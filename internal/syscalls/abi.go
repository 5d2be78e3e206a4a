// Package syscalls declares the runtime syscall ABI the compiled function
// calls into for anything not expressible in pure IR: result/log delivery,
// memory growth, and calldata access. The host implementing this ABI
// (SyscallContext) is an external collaborator out of scope for this core;
// internal/runtimehost provides a reference implementation for tests.
package syscalls

// Symbol names, all prefixed evm_mlir__ to match the syscall ABI the host
// links against.
const (
	SymWriteResult           = "evm_mlir__write_result"
	SymExtendMemory          = "evm_mlir__extend_memory"
	SymAppendLog             = "evm_mlir__append_log"
	SymAppendLogWithOneTopic = "evm_mlir__append_log_with_one_topic"
	SymAppendLogWithTwoTopics   = "evm_mlir__append_log_with_two_topics"
	SymAppendLogWithThreeTopics = "evm_mlir__append_log_with_three_topics"
	SymAppendLogWithFourTopics  = "evm_mlir__append_log_with_four_topics"
	SymGetCalldataPtr        = "evm_mlir__get_calldata_ptr"
	SymGetCalldataSize       = "evm_mlir__get_calldata_size"
)

// U256 is the 16-byte-aligned {lo, hi} layout the log syscalls expect a
// pointer to. Go has no native u128; each half is represented as two
// uint64 limbs, matching the C struct's bit layout.
type U256 struct {
	LoLo, LoHi uint64
	HiLo, HiHi uint64
}
