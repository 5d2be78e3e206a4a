// Package interp is a test-only evaluator that walks the ir.Block graph
// emitted by internal/compiler and executes it directly, instruction by
// instruction, standing in for a real LLVM JIT execution engine (none is
// available in this environment). It exists purely so
// internal/compiler/scenarios_test.go can assert end-to-end behavior;
// nothing outside the test tree should depend on it.
//
// Grounded structurally on the old geth JIT's runProgram closure loop (a
// PC-driven dispatch loop), re-expressed here as a block-and-branch walk
// since the compiled artifact is a CFG of basic blocks, not a flat
// instruction array.
package interp

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/holiman/uint256"
	"tinygo.org/x/go-llvm"
)

const arenaSize = 4 << 20

// Host is the subset of runtimehost.Host the evaluator calls into when it
// hits a declared syscall function.
type Host interface {
	WriteResult(offset, length uint32, gasRemaining uint64, exitCode uint8)
	ExtendMemory(newSize uint32) []byte
	AppendLog(offset, size uint32)
	AppendLogWithTopics(offset, size uint32, topics []uint256.Int)
	GetCalldataPtr() []byte
	GetCalldataSize() uint32
}

// ptr is a synthetic pointer. Most pointers index the evaluator's own flat
// arena (Alloca, globals, the stack region). Memory and calldata pointers
// instead carry buf, the actual host-owned byte slice returned by the
// extend_memory/get_calldata_ptr syscalls, so writes compiled code makes
// through them are visible to the host's own log/result reads without a
// separate mirroring step.
type ptr struct {
	off int
	buf []byte
}

// Eval holds one function invocation's interpreter state.
type Eval struct {
	fn    llvm.Value
	host  Host
	arena []byte
	bump  int

	regs    map[llvm.Value]interface{}
	globals map[string]ptr

	// ptrMem holds the current value of every pointer-typed storage slot
	// (the four runtime globals), keyed by its arena address. Pointer
	// values are never byte-serialized into the arena itself since a
	// host-backed ptr's buf field has no arena representation.
	ptrMem map[int]ptr

	// lastBlock is the predecessor the walk just branched from, consulted
	// by PHI nodes to pick their matching incoming value.
	lastBlock llvm.BasicBlock
}

// New prepares an evaluator for fn, a function built by internal/compiler's
// dispatcher against the entrypoint signature (ctx ptr, initial gas) -> i8.
func New(fn llvm.Value, host Host) *Eval {
	return &Eval{
		fn:      fn,
		host:    host,
		arena:   make([]byte, arenaSize),
		regs:    make(map[llvm.Value]interface{}),
		globals: make(map[string]ptr),
		ptrMem:  make(map[int]ptr),
	}
}

// alloc bump-allocates n bytes from the arena, used for Alloca and for
// globals on first reference.
func (e *Eval) alloc(n int) ptr {
	if n <= 0 {
		n = 1
	}
	p := ptr{off: e.bump}
	e.bump += n
	if e.bump > len(e.arena) {
		panic("interp: arena exhausted")
	}
	return p
}

// Run executes fn starting at its entry block (the "prologue" block the
// dispatcher always opens first) and returns the i8 exit code the function
// ultimately returns.
func (e *Eval) Run(gasInitial uint64) uint8 {
	// Param(0) is the opaque host-context pointer every syscall bridge call
	// takes as its first argument; the evaluator never dereferences it
	// itself (each syscall case reads only the arguments after it), so any
	// stable placeholder value satisfies every use site.
	e.regs[e.fn.Param(0)] = ptr{}
	e.regs[e.fn.Param(1)] = big.NewInt(0).SetUint64(gasInitial)
	block := e.fn.EntryBasicBlock()
	for {
		next, ret, done := e.runBlock(block)
		if done {
			return ret
		}
		e.lastBlock = block
		block = next
	}
}

// runBlock executes every instruction in b until it reaches a terminator,
// returning the successor block to continue at, or (exitCode, true) if the
// terminator was a Ret.
func (e *Eval) runBlock(b llvm.BasicBlock) (llvm.BasicBlock, uint8, bool) {
	for instr := b.FirstInstruction(); !instr.IsNil(); instr = instr.NextInstruction() {
		switch instr.InstructionOpcode() {
		case llvm.Ret:
			if instr.OperandsCount() == 0 {
				return llvm.BasicBlock{}, 0, true
			}
			v := e.value(instr.Operand(0))
			return llvm.BasicBlock{}, uint8(v.(*big.Int).Uint64()), true

		case llvm.Br:
			if instr.OperandsCount() == 1 {
				return instr.Operand(0).AsBasicBlock(), 0, false
			}
			cond := e.value(instr.Operand(0)).(*big.Int)
			if cond.Sign() != 0 {
				return instr.Operand(2).AsBasicBlock(), 0, false
			}
			return instr.Operand(1).AsBasicBlock(), 0, false

		case llvm.Switch:
			val := e.value(instr.Operand(0)).(*big.Int)
			n := instr.OperandsCount()
			for i := 2; i+1 < n; i += 2 {
				caseVal := e.value(instr.Operand(i)).(*big.Int)
				if caseVal.Cmp(val) == 0 {
					return instr.Operand(i + 1).AsBasicBlock(), 0, false
				}
			}
			return instr.Operand(1).AsBasicBlock(), 0, false

		case llvm.Unreachable:
			panic("interp: reached an unreachable block — this is a dispatcher contract bug")

		default:
			e.step(instr)
		}
	}
	panic("interp: fell off the end of a block with no terminator")
}

// step executes one non-terminator instruction, storing its result (if any)
// keyed by the instruction's own Value identity, mirroring how every later
// use of that SSA value references this same llvm.Value.
func (e *Eval) step(instr llvm.Value) {
	width := func() uint { return uint(instr.Type().IntTypeWidth()) }
	bin := func(f func(z, x, y *big.Int) *big.Int) {
		a := e.value(instr.Operand(0)).(*big.Int)
		b := e.value(instr.Operand(1)).(*big.Int)
		res := f(new(big.Int), a, b)
		e.regs[instr] = mask(res, width())
	}

	switch instr.InstructionOpcode() {
	case llvm.Add:
		bin(func(z, x, y *big.Int) *big.Int { return z.Add(x, y) })
	case llvm.Sub:
		bin(func(z, x, y *big.Int) *big.Int { return z.Sub(x, y) })
	case llvm.Mul:
		bin(func(z, x, y *big.Int) *big.Int { return z.Mul(x, y) })
	case llvm.UDiv:
		bin(func(z, x, y *big.Int) *big.Int { return z.Div(x, y) })
	case llvm.SDiv:
		a := toSigned(e.value(instr.Operand(0)).(*big.Int), width())
		b := toSigned(e.value(instr.Operand(1)).(*big.Int), width())
		e.regs[instr] = mask(new(big.Int).Quo(a, b), width())
	case llvm.URem:
		bin(func(z, x, y *big.Int) *big.Int { return z.Mod(x, y) })
	case llvm.SRem:
		a := toSigned(e.value(instr.Operand(0)).(*big.Int), width())
		b := toSigned(e.value(instr.Operand(1)).(*big.Int), width())
		e.regs[instr] = mask(new(big.Int).Rem(a, b), width())
	case llvm.And:
		bin(func(z, x, y *big.Int) *big.Int { return z.And(x, y) })
	case llvm.Or:
		bin(func(z, x, y *big.Int) *big.Int { return z.Or(x, y) })
	case llvm.Xor:
		bin(func(z, x, y *big.Int) *big.Int { return z.Xor(x, y) })
	case llvm.Shl:
		bin(func(z, x, y *big.Int) *big.Int { return z.Lsh(x, uint(y.Uint64())) })
	case llvm.LShr:
		bin(func(z, x, y *big.Int) *big.Int { return z.Rsh(x, uint(y.Uint64())) })
	case llvm.AShr:
		a := e.value(instr.Operand(0)).(*big.Int)
		n := e.value(instr.Operand(1)).(*big.Int)
		w := width()
		signed := toSigned(a, w)
		signed.Rsh(signed, uint(n.Uint64()))
		e.regs[instr] = mask(signed, w)

	case llvm.ICmp:
		av := e.value(instr.Operand(0))
		bv := e.value(instr.Operand(1))
		if ap, ok := av.(ptr); ok {
			bp := bv.(ptr)
			eq := ap.buf == nil && bp.buf == nil && ap.off == bp.off ||
				ap.buf != nil && bp.buf != nil && len(ap.buf) == len(bp.buf) && ap.off == bp.off
			switch instr.ICmpPredicate() {
			case llvm.IntEQ:
				e.regs[instr] = boolInt(eq)
			default:
				e.regs[instr] = boolInt(!eq)
			}
			return
		}
		a := av.(*big.Int)
		b := bv.(*big.Int)
		opWidth := uint(instr.Operand(0).Type().IntTypeWidth())
		e.regs[instr] = boolInt(evalICmp(instr.ICmpPredicate(), a, b, opWidth))

	case llvm.ZExt:
		v := e.value(instr.Operand(0)).(*big.Int)
		e.regs[instr] = new(big.Int).Set(v)
	case llvm.Trunc:
		v := e.value(instr.Operand(0)).(*big.Int)
		e.regs[instr] = mask(new(big.Int).Set(v), width())
	case llvm.SExt:
		v := e.value(instr.Operand(0)).(*big.Int)
		srcW := uint(instr.Operand(0).Type().IntTypeWidth())
		e.regs[instr] = mask(toSigned(v, srcW), width())

	case llvm.Select:
		cond := e.value(instr.Operand(0)).(*big.Int)
		if cond.Sign() != 0 {
			e.regs[instr] = e.value(instr.Operand(1))
		} else {
			e.regs[instr] = e.value(instr.Operand(2))
		}

	case llvm.PHI:
		n := instr.IncomingCount()
		for i := 0; i < n; i++ {
			if instr.IncomingBlock(i) == e.lastBlock {
				e.regs[instr] = e.value(instr.IncomingValue(i))
				return
			}
		}
		panic("interp: PHI with no matching incoming predecessor")

	case llvm.Alloca:
		e.regs[instr] = e.alloc(allocaSize(instr.Type().ElementType()))

	case llvm.GetElementPtr:
		base := e.value(instr.Operand(0)).(ptr)
		elemBytes := instr.GEPSourceElementType().IntTypeWidth() / 8
		idx := e.value(instr.Operand(instr.OperandsCount() - 1)).(*big.Int)
		signedIdx := toSigned(idx, uint(instr.Operand(instr.OperandsCount()-1).Type().IntTypeWidth()))
		e.regs[instr] = ptr{buf: base.buf, off: base.off + int(signedIdx.Int64())*elemBytes}

	case llvm.Load:
		p := e.value(instr.Operand(0)).(ptr)
		if instr.Type().TypeKind() == llvm.PointerTypeKind {
			e.regs[instr] = e.ptrMem[p.off]
		} else {
			e.regs[instr] = e.load(p, int(width()))
		}

	case llvm.Store:
		v := e.value(instr.Operand(0))
		p := e.value(instr.Operand(1)).(ptr)
		if vp, ok := v.(ptr); ok {
			e.ptrMem[p.off] = vp
		} else {
			e.store(p, v.(*big.Int), int(instr.Operand(0).Type().IntTypeWidth()))
		}

	case llvm.PtrToInt:
		p := e.value(instr.Operand(0)).(ptr)
		// Host-backed pointers (memory/calldata) have no meaningful arena
		// address; only the arena-relative identity needs to be stable
		// across the guard comparisons that use it (null checks), so the
		// slice header's length stands in for "non-null".
		if p.buf != nil {
			e.regs[instr] = big.NewInt(int64(len(p.buf)) + 1)
		} else {
			e.regs[instr] = big.NewInt(int64(p.off))
		}

	case llvm.Call:
		e.call(instr)

	default:
		panic(fmt.Sprintf("interp: unhandled opcode %v", instr.InstructionOpcode()))
	}
}

// allocaSize computes an allocated type's size in bytes, handling both the
// plain integers every scalar slot uses and the one array type (the stack
// region) the compiler allocates.
func allocaSize(ty llvm.Type) int {
	switch ty.TypeKind() {
	case llvm.ArrayTypeKind:
		return ty.ArrayLength() * allocaSize(ty.ElementType())
	case llvm.IntegerTypeKind:
		return int((ty.IntTypeWidth() + 7) / 8)
	default:
		return 8
	}
}

func mask(v *big.Int, width uint) *big.Int {
	if width == 0 || width >= 512 {
		return v
	}
	m := new(big.Int).Lsh(big.NewInt(1), width)
	m.Sub(m, big.NewInt(1))
	return v.And(v, m)
}

func toSigned(v *big.Int, width uint) *big.Int {
	signBit := new(big.Int).Lsh(big.NewInt(1), width-1)
	if v.Cmp(signBit) < 0 {
		return new(big.Int).Set(v)
	}
	full := new(big.Int).Lsh(big.NewInt(1), width)
	return new(big.Int).Sub(v, full)
}

func boolInt(b bool) *big.Int {
	if b {
		return big.NewInt(1)
	}
	return big.NewInt(0)
}

func evalICmp(pred llvm.IntPredicate, a, b *big.Int, width uint) bool {
	switch pred {
	case llvm.IntEQ:
		return a.Cmp(b) == 0
	case llvm.IntNE:
		return a.Cmp(b) != 0
	case llvm.IntUGT:
		return a.Cmp(b) > 0
	case llvm.IntUGE:
		return a.Cmp(b) >= 0
	case llvm.IntULT:
		return a.Cmp(b) < 0
	case llvm.IntULE:
		return a.Cmp(b) <= 0
	case llvm.IntSGT:
		return toSigned(a, width).Cmp(toSigned(b, width)) > 0
	case llvm.IntSGE:
		return toSigned(a, width).Cmp(toSigned(b, width)) >= 0
	case llvm.IntSLT:
		return toSigned(a, width).Cmp(toSigned(b, width)) < 0
	case llvm.IntSLE:
		return toSigned(a, width).Cmp(toSigned(b, width)) <= 0
	default:
		return false
	}
}

func (e *Eval) value(v llvm.Value) interface{} {
	if reg, ok := e.regs[v]; ok {
		return reg
	}
	if !v.IsAConstantPointerNull().IsNil() {
		return ptr{}
	}
	if !v.IsAConstantInt().IsNil() {
		return constInt(v)
	}
	if !v.IsAGlobalVariable().IsNil() {
		return e.globalPtr(v)
	}
	if !v.IsAFunction().IsNil() {
		return v
	}
	panic("interp: reference to value with no recorded binding")
}

// constInt reads a ConstantInt's exact value regardless of width. The
// go-llvm binding's direct accessors (ConstIntZExt and friends) only cover
// values that fit in 64 bits, which every PUSH of a wide literal violates;
// LLVM's own textual form of an integer constant ("i256 -1", "i256 123",
// ...) always carries the full-precision signed decimal value, so parsing
// that string is the only width-independent way to recover it here.
func constInt(v llvm.Value) *big.Int {
	s := strings.TrimSpace(v.String())
	fields := strings.Fields(s)
	n, ok := new(big.Int).SetString(fields[len(fields)-1], 10)
	if !ok {
		panic(fmt.Sprintf("interp: could not parse constant from %q", s))
	}
	return mask(n, uint(v.Type().IntTypeWidth()))
}

func (e *Eval) globalPtr(v llvm.Value) ptr {
	name := v.Name()
	if p, ok := e.globals[name]; ok {
		return p
	}
	p := e.alloc(8)
	e.globals[name] = p
	return p
}

// backing returns the byte slice p addresses into: the host-owned buffer
// for memory/calldata pointers, or the evaluator's own arena otherwise.
func (e *Eval) backing(p ptr) []byte {
	if p.buf != nil {
		return p.buf
	}
	return e.arena
}

// load reconstructs a bits-wide little-endian integer starting at p.
func (e *Eval) load(p ptr, bits int) *big.Int {
	buf := e.backing(p)
	nbytes := (bits + 7) / 8
	v := new(big.Int)
	for i := nbytes - 1; i >= 0; i-- {
		v.Lsh(v, 8)
		if p.off+i < len(buf) {
			v.Or(v, big.NewInt(int64(buf[p.off+i])))
		}
	}
	return v
}

// store writes val as a bits-wide little-endian integer starting at p,
// zero-filling every byte of the slot so a narrower write never leaves a
// wider prior value's stale high bytes behind.
func (e *Eval) store(p ptr, val *big.Int, bits int) {
	buf := e.backing(p)
	nbytes := (bits + 7) / 8
	v := new(big.Int).Set(val)
	mod := new(big.Int).Lsh(big.NewInt(1), 8)
	for i := 0; i < nbytes; i++ {
		if p.off+i >= len(buf) {
			break
		}
		byteVal := new(big.Int).Mod(v, mod)
		buf[p.off+i] = byte(byteVal.Uint64())
		v.Rsh(v, 8)
	}
}

// readBytes copies n raw bytes starting at p, used by the memcpy/memmove
// intrinsics which move raw bytes rather than width-typed integers.
func (e *Eval) readBytes(p ptr, n int) []byte {
	buf := e.backing(p)
	end := p.off + n
	if end > len(buf) {
		end = len(buf)
	}
	if p.off >= end {
		return nil
	}
	out := make([]byte, end-p.off)
	copy(out, buf[p.off:end])
	return out
}

// writeBytes copies data into the backing buffer starting at p.
func (e *Eval) writeBytes(p ptr, data []byte) {
	buf := e.backing(p)
	if p.off >= len(buf) {
		return
	}
	copy(buf[p.off:], data)
}

func (e *Eval) call(instr llvm.Value) {
	callee := instr.CalledValue()
	name := callee.Name()
	args := make([]interface{}, 0, instr.OperandsCount()-1)
	for i := 0; i < instr.OperandsCount()-1; i++ {
		args = append(args, e.value(instr.Operand(i)))
	}

	switch {
	case name == "evm_mlir__write_result":
		e.host.WriteResult(u32(args[1]), u32(args[2]), args[3].(*big.Int).Uint64(), uint8(args[4].(*big.Int).Uint64()))

	case name == "evm_mlir__extend_memory":
		mem := e.host.ExtendMemory(u32(args[1]))
		e.regs[instr] = ptr{buf: mem}

	case name == "evm_mlir__append_log":
		e.host.AppendLog(u32(args[1]), u32(args[2]))

	case name == "evm_mlir__get_calldata_size":
		e.regs[instr] = big.NewInt(int64(e.host.GetCalldataSize()))

	case name == "evm_mlir__get_calldata_ptr":
		e.regs[instr] = ptr{buf: e.host.GetCalldataPtr()}

	case strings.HasPrefix(name, "evm_mlir__append_log_with_"):
		topics := make([]uint256.Int, 0, 4)
		for i := 3; i < len(args); i++ {
			word := e.load(args[i].(ptr), 256)
			var t uint256.Int
			t.SetFromBig(word)
			topics = append(topics, t)
		}
		e.host.AppendLogWithTopics(u32(args[1]), u32(args[2]), topics)

	case strings.HasPrefix(name, "llvm.bswap."):
		v := args[0].(*big.Int)
		width := uint(instr.Type().IntTypeWidth())
		e.regs[instr] = byteReverse(v, width)

	case strings.HasPrefix(name, "llvm.memcpy."):
		dst, src := args[0].(ptr), args[1].(ptr)
		n := int(args[2].(*big.Int).Int64())
		e.writeBytes(dst, e.readBytes(src, n))

	case strings.HasPrefix(name, "llvm.memmove."):
		dst, src := args[0].(ptr), args[1].(ptr)
		n := int(args[2].(*big.Int).Int64())
		// Copy through an intermediate buffer since src and dst may alias.
		e.writeBytes(dst, append([]byte(nil), e.readBytes(src, n)...))

	case strings.HasPrefix(name, "llvm.memset."):
		dst := args[0].(ptr)
		fill := byte(args[1].(*big.Int).Uint64())
		n := int(args[2].(*big.Int).Int64())
		buf := make([]byte, n)
		for i := range buf {
			buf[i] = fill
		}
		e.writeBytes(dst, buf)
	}
}

// byteReverse reverses the byte order of a width-bit integer, matching the
// llvm.bswap.* intrinsic.
func byteReverse(v *big.Int, width uint) *big.Int {
	nbytes := int(width) / 8
	masked := mask(new(big.Int).Set(v), width)
	buf := make([]byte, nbytes)
	masked.FillBytes(buf)
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return new(big.Int).SetBytes(buf)
}

func u32(v interface{}) uint32 {
	return uint32(v.(*big.Int).Uint64())
}
