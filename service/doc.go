// Package service holds the external-collaborator boundary: the typed
// failure taxonomy the core maps every provider error to, and in-memory
// calendar, mail, and tasks connectors suitable for development and
// tests. Real service wrappers live outside this module; they plug into
// the catalog the same way, via BindAll-style handler tables.
package service
