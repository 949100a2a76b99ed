package service

import "fmt"

// FailureKind is the small taxonomy of collaborator failures the core
// understands. Provider-specific error bodies are mapped to one of
// these at the wrapper boundary and never interpreted beyond it.
type FailureKind string

const (
	// FailureQuota indicates the backing service refused the call due to
	// rate or usage limits.
	FailureQuota FailureKind = "quota"

	// FailureNotFound indicates the referenced resource does not exist.
	FailureNotFound FailureKind = "not_found"

	// FailurePermission indicates the caller lacks access to the resource.
	FailurePermission FailureKind = "permission"

	// FailureInvalidArgument indicates the service rejected the parameters.
	FailureInvalidArgument FailureKind = "invalid_argument"
)

// Failure is a typed collaborator error.
type Failure struct {
	Kind   FailureKind
	Op     string
	Detail string
}

// Error returns a formatted message naming the operation and kind.
func (f *Failure) Error() string {
	if f.Detail != "" {
		return fmt.Sprintf("%s: %s: %s", f.Op, f.Kind, f.Detail)
	}
	return fmt.Sprintf("%s: %s", f.Op, f.Kind)
}

// NotFound creates a not_found failure.
func NotFound(op, detail string) *Failure {
	return &Failure{Kind: FailureNotFound, Op: op, Detail: detail}
}

// InvalidArgument creates an invalid_argument failure.
func InvalidArgument(op, detail string) *Failure {
	return &Failure{Kind: FailureInvalidArgument, Op: op, Detail: detail}
}

// stringArg reads an optional string argument.
func stringArg(args map[string]any, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

// intArg reads an optional integer argument with a default.
// Schema validation normalizes integers before handlers run.
func intArg(args map[string]any, key string, def int) int {
	switch v := args[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return def
	}
}

// boolArg reads an optional boolean argument with a default.
func boolArg(args map[string]any, key string, def bool) bool {
	if v, ok := args[key].(bool); ok {
		return v
	}
	return def
}

// stringsArg reads an optional string-array argument.
func stringsArg(args map[string]any, key string) []string {
	items, ok := args[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
