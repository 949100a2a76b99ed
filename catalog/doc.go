// Package catalog holds the immutable tool catalog and the validating
// dispatcher. Definitions are created from a fixed registration table
// at process start, checked for duplicate names, and never mutated
// afterwards; the catalog is therefore safe for unsynchronized
// concurrent reads.
//
// The Registry binds definitions to service connectors. It validates
// arguments against the declared schema before every call and never
// lets a connector failure escape as anything other than a
// ToolResult{IsError: true}. The Registry is gate-agnostic: the
// destructive-tool confirmation gate is enforced one layer up, in the
// thread state machine.
package catalog
