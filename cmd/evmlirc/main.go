// Command evmlirc is a thin driver over internal/compiler: it decodes a hex
// bytecode string into a compilerinput.Program, lowers it to IR, and either
// dumps the resulting module or runs it against the test-only interpreter
// and reference host for a quick end-to-end demo.
package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/holiman/uint256"
	"github.com/urfave/cli/v2"

	"github.com/evmlir/evmlir/internal/compiler"
	"github.com/evmlir/evmlir/internal/compiler/gasschedule"
	"github.com/evmlir/evmlir/internal/compiler/interp"
	ci "github.com/evmlir/evmlir/internal/compilerinput"
	"github.com/evmlir/evmlir/internal/ir"
	"github.com/evmlir/evmlir/internal/log"
	"github.com/evmlir/evmlir/internal/runtimehost"
)

const usageText = `evmlirc [options] <command>

Commands:
  compile --code <hex>    decode and lower bytecode, print the resulting module
  run --code <hex>        lower and execute bytecode against the reference host`

func main() {
	app := &cli.App{
		Name:      "evmlirc",
		Usage:     "EVM bytecode to SSA IR compiler",
		UsageText: usageText,
		Commands: []*cli.Command{
			compileCommand,
			runCommand,
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "evmlirc:", err)
		os.Exit(1)
	}
}

var codeFlag = &cli.StringFlag{Name: "code", Usage: "hex-encoded EVM bytecode (0x-prefixed optional)", Required: true}
var calldataFlag = &cli.StringFlag{Name: "calldata", Usage: "hex-encoded calldata (0x-prefixed optional)"}
var gasFlag = &cli.Uint64Flag{Name: "gas", Usage: "initial gas", Value: 1_000_000}
var scheduleFlag = &cli.StringFlag{Name: "schedule", Usage: "named gas schedule", Value: gasschedule.Default}
var verboseFlag = &cli.BoolFlag{Name: "verbose", Usage: "debug-level logging"}

var compileCommand = &cli.Command{
	Name:  "compile",
	Usage: "lower bytecode into an IR module and print it",
	Flags: []cli.Flag{codeFlag, scheduleFlag, verboseFlag},
	Action: func(cctx *cli.Context) error {
		setLevel(cctx)
		program, codeSize, err := decodeProgram(cctx.String("code"))
		if err != nil {
			return err
		}
		m := ir.NewModule("evmlirc")
		defer m.Dispose()
		program.CodeSize = codeSize

		c, err := compiler.CompileWithSchedule(m, "main", program, cctx.String("schedule"))
		if err != nil {
			return err
		}
		fmt.Println(m.Mod.String())
		fmt.Fprintf(os.Stderr, "compiled %d operations, correlation=%s\n", len(program.Operations), c.CorrelationID)
		return nil
	},
}

var runCommand = &cli.Command{
	Name:  "run",
	Usage: "lower bytecode and execute it against the reference host",
	Flags: []cli.Flag{codeFlag, calldataFlag, gasFlag, scheduleFlag, verboseFlag},
	Action: func(cctx *cli.Context) error {
		setLevel(cctx)
		program, codeSize, err := decodeProgram(cctx.String("code"))
		if err != nil {
			return err
		}
		program.CodeSize = codeSize

		calldata, err := decodeHex(cctx.String("calldata"))
		if err != nil {
			return fmt.Errorf("decoding calldata: %w", err)
		}

		m := ir.NewModule("evmlirc")
		defer m.Dispose()
		c, err := compiler.CompileWithSchedule(m, "main", program, cctx.String("schedule"))
		if err != nil {
			return err
		}

		host := runtimehost.New(calldata)
		eval := interp.New(c.Fn, host)
		exitCode := eval.Run(cctx.Uint64("gas"))
		result := host.Result()

		fmt.Printf("exit=%d status=%d gas_remaining=%d return_data=%x logs=%d\n",
			exitCode, result.Status, result.GasRemaining, result.ReturnData, len(result.Logs))
		return nil
	},
}

func setLevel(cctx *cli.Context) {
	if cctx.Bool("verbose") {
		log.SetLevel(log.LvlDebug)
	}
}

func decodeHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(s, "0x")
	if s == "" {
		return nil, nil
	}
	return hex.DecodeString(s)
}

// decodeProgram is a minimal standalone bytecode decoder for the CLI demo:
// the real parser producing a compilerinput.Program is an external
// collaborator out of this core's scope, so this walks just enough of the
// EVM opcode table to exercise every operation the dispatcher handles.
func decodeProgram(codeHex string) (*ci.Program, uint64, error) {
	code, err := decodeHex(codeHex)
	if err != nil {
		return nil, 0, fmt.Errorf("decoding code: %w", err)
	}

	var ops []ci.Operation
	pc := 0
	for pc < len(code) {
		b := code[pc]
		switch {
		case b == 0x00:
			ops = append(ops, ci.Simple(ci.Stop))
		case b == 0x5b:
			ops = append(ops, ci.JumpdestOp(uint64(pc)))
		case b == 0x58:
			ops = append(ops, ci.PcOp(uint64(pc)))
		case b >= 0x60 && b <= 0x7f:
			width := int(b-0x60) + 1
			end := pc + 1 + width
			if end > len(code) {
				end = len(code)
			}
			var buf [32]byte
			copy(buf[32-width:], code[pc+1:end])
			ops = append(ops, ci.PushOp(width, uint256FromBytes(buf)))
			pc += width
		case b >= 0x80 && b <= 0x8f:
			ops = append(ops, ci.DupOp(int(b-0x80)+1))
		case b >= 0x90 && b <= 0x9f:
			ops = append(ops, ci.SwapOp(int(b-0x90)+1))
		case b >= 0xa0 && b <= 0xa4:
			ops = append(ops, ci.LogOp(int(b-0xa0)))
		default:
			kind, ok := simpleOpcodes[b]
			if !ok {
				return nil, 0, fmt.Errorf("decodeProgram: unsupported opcode 0x%02x at pc %d", b, pc)
			}
			ops = append(ops, ci.Simple(kind))
		}
		pc++
	}
	return &ci.Program{Operations: ops}, uint64(len(code)), nil
}

func uint256FromBytes(b [32]byte) *uint256.Int {
	var v uint256.Int
	v.SetBytes32(b[:])
	return &v
}

var simpleOpcodes = map[byte]ci.OpKind{
	0x01: ci.Add, 0x02: ci.Mul, 0x03: ci.Sub, 0x04: ci.Div, 0x05: ci.Sdiv,
	0x06: ci.Mod, 0x07: ci.SMod, 0x08: ci.Addmod, 0x09: ci.Mulmod, 0x0a: ci.Exp,
	0x0b: ci.SignExtend, 0x10: ci.Lt, 0x11: ci.Gt, 0x12: ci.Slt, 0x13: ci.Sgt,
	0x14: ci.Eq, 0x15: ci.IsZero, 0x16: ci.And, 0x17: ci.Or, 0x18: ci.Xor,
	0x1a: ci.Byte, 0x1b: ci.Shl, 0x1c: ci.Shr, 0x1d: ci.Sar,
	0x35: ci.CalldataLoad, 0x36: ci.CallDataSize, 0x38: ci.Codesize,
	0x50: ci.Pop, 0x51: ci.Mload, 0x52: ci.Mstore, 0x53: ci.Mstore8,
	0x56: ci.Jump, 0x57: ci.Jumpi, 0x59: ci.Msize, 0x5a: ci.Gas,
	0x5e: ci.Mcopy, 0x5f: ci.Push0, 0xf3: ci.Return, 0xfd: ci.Revert,
}
