// Package schema builds and checks the parameter schemas of catalog
// tools. Builders produce JSON Schema documents for the model; Compile
// turns a document back into an imperative checker that validates raw
// arguments field by field. Unknown fields are an error, never
// silently accepted.
package schema
