// Package parse converts raw tool arguments produced by a language model into
// typed Go values. Models frequently emit almost-JSON (unquoted keys, single
// quotes, trailing commas), echo schema-style {"type", "value"} envelopes, or
// pass a bare value where an object was expected; this package recovers from
// each of these before falling back to a clear error.
//
// The main entry point is the generic [ParseStringAs] function.
package parse
