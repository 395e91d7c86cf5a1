// Package jsonschema generates JSON Schema documents from Go types by
// reflection, so that a tool's argument and result types can be advertised
// to a language model without writing the schema by hand.
//
// The main entry point is [GenerateJSONSchema].
package jsonschema
