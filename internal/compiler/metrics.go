package compiler

import "github.com/VictoriaMetrics/metrics"

// Compile-time counters under the evmlir_ namespace, mirroring the
// teacher's habit of exposing VictoriaMetrics counters/histograms for
// anything that runs per-unit-of-work.
var (
	metricOpsLowered     = metrics.NewCounter("evmlir_compiler_operations_lowered_total")
	metricBlocksEmitted  = metrics.NewCounter("evmlir_compiler_blocks_emitted_total")
	metricCompileSeconds = metrics.NewHistogram("evmlir_compiler_compile_duration_seconds")
	metricCompileErrors  = metrics.NewCounter("evmlir_compiler_compile_errors_total")
)

// observeCompile records one Compile invocation's wall-clock duration
// (seconds, pre-measured by the caller since Compile itself must stay
// deterministic) and opcode count.
func observeCompile(seconds float64, opCount int) {
	metricCompileSeconds.Update(seconds)
	metricOpsLowered.Add(opCount)
}
