// Package tool turns typed Go functions into tools a language model can
// call with a JSON argument string.
//
// [NewTool] wraps a function and derives JSON schemas for its input and
// output types. Every tool satisfies [GenericTool], so tools with different
// type parameters can live together in a [Catalog] and be dispatched by name.
//
// Tool calls are observed through the observability.Provider or Span found
// in the call's context.
package tool
