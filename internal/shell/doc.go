// Package shell defines the core data model of the command interpretation layer.
//
// Core Types:
//   - Invocation: a fully parsed, ready-to-dispatch command request
//   - Command: a registered canonical command with its arity/flag contract
//   - Result: the normalized outcome of a dispatch
//   - Error: a categorized interpreter/handler failure with a stable exit code
//
// Every input path (direct syntax or natural language) resolves to an
// Invocation, and every dispatch produces a Result. Invocations are created
// fresh per input line and never mutated after creation.
package shell
