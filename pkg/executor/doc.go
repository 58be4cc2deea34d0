// Package executor implements the Strategy Pattern dispatch for the five
// built-in node kinds: Value, DeviceTrigger, Timer, Counter and
// Add. Each kind gets its own file and its own NodeExecutor
// implementation; a Registry dispatches by types.NodeKind without a
// large switch statement.
//
// # Compute type
//
// Every kind computes in its node's compute type: the declared type of
// the node's first output. ExecutionContext.Inputs returns each
// input already coerced to that type. Executors coerce their own
// results and parameter values to the compute type; Counter also reads
// its first input as f64 to compare it against its 0.5 "high"
// threshold.
//
// # Timer is also a Ticker
//
// Timer is the only kind with time-driven behavior distinct from
// data-driven evaluation. It implements both NodeExecutor
// (for cold-start / ready-queue evaluation, which simply re-emits its
// current pulse state) and Ticker (invoked by the scheduler's tick,
// which advances the accumulator and may flip the pulse).
package executor
