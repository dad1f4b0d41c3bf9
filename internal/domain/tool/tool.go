// Package tool defines the domain model for gateway tools: named,
// schema-validated remote operations and the error taxonomy their
// dispatch can produce.
package tool

import "context"

// Handler executes a tool with validated arguments and returns a result
// payload. Handlers report operational failures either through a typed
// error or through a payload carrying "success": false with an "error"
// key, matching the uniform action-provider contract.
type Handler func(ctx context.Context, args map[string]any) (map[string]any, error)

// Definition binds a tool name to its parameter schema and handler.
// Definitions are created once at startup and never mutated.
type Definition struct {
	Name        string
	Description string
	Schema      Schema
	Handler     Handler
}

// Result is the untyped payload returned by handlers. By convention it
// contains a "success" bool and, on failure, an "error" string.
type Result = map[string]any

// Ok returns a minimal success payload merged with the given fields.
func Ok(fields map[string]any) Result {
	r := Result{"success": true}
	for k, v := range fields {
		r[k] = v
	}
	return r
}

// Fail returns a failure payload with the given error message.
func Fail(msg string) Result {
	return Result{"success": false, "error": msg}
}
