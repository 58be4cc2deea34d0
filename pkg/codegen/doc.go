// Package codegen implements the ahead-of-time generator: a
// template-driven pretty-printer that turns a loaded graph into a
// self-contained Go source file exposing the same init/reset/
// set_input/tick/step/get_output contract as pkg/engine, operating on
// fixed-layout Inputs/Outputs/State records instead of the engine's
// handle-indexed arena. There is no separate intermediate
// representation: Generate walks the same topological order and
// reverse-adjacency tables pkg/graph already computed.
package codegen
