// Package registry maps tool names to parameter schemas and handlers,
// validates arguments, and dispatches calls. It is the error boundary
// of the gateway: no handler fault propagates past Dispatch in any form
// other than a typed error.
package registry

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sort"
	"sync"
	"time"

	"github.com/rigpilot/rigpilot/internal/domain/tool"
)

// Registry holds the static tool catalog built at startup. Lookups
// fail closed: an unknown name is a NotFoundError regardless of state.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]tool.Definition
	log   *slog.Logger
}

// New creates an empty Registry.
func New(log *slog.Logger) *Registry {
	if log == nil {
		log = slog.Default()
	}
	return &Registry{
		tools: make(map[string]tool.Definition),
		log:   log,
	}
}

// Register adds a tool definition. A duplicate name is a configuration
// error surfaced at startup, not a runtime condition.
func (r *Registry) Register(def tool.Definition) error {
	if def.Name == "" {
		return fmt.Errorf("registry: tool name is required")
	}
	if def.Handler == nil {
		return fmt.Errorf("registry: tool %q has no handler", def.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[def.Name]; exists {
		return fmt.Errorf("registry: duplicate registration for %q", def.Name)
	}
	r.tools[def.Name] = def
	return nil
}

// MustRegister registers each definition and panics on conflict. It is
// meant for the startup path where a duplicate is fatal.
func (r *Registry) MustRegister(defs ...tool.Definition) {
	for _, def := range defs {
		if err := r.Register(def); err != nil {
			panic(err)
		}
	}
}

// Dispatch validates args against the tool's schema and invokes its
// handler. Unknown names return *tool.NotFoundError, schema failures
// *tool.ValidationError; handler panics and untyped errors are wrapped
// into *tool.ExecutionError. Successful calls return the handler's
// payload unchanged.
func (r *Registry) Dispatch(ctx context.Context, name string, args map[string]any) (result map[string]any, err error) {
	r.mu.RLock()
	def, ok := r.tools[name]
	r.mu.RUnlock()

	if !ok {
		return nil, &tool.NotFoundError{Tool: name}
	}
	if args == nil {
		args = map[string]any{}
	}
	if err := def.Schema.Validate(args); err != nil {
		return nil, err
	}

	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("tool handler panicked",
				"tool", name,
				"panic", rec,
				"stack", string(debug.Stack()),
			)
			result = nil
			err = &tool.ExecutionError{Reason: fmt.Sprintf("tool %s panicked: %v", name, rec)}
		}
	}()

	start := time.Now()
	result, err = def.Handler(ctx, args)
	r.log.Debug("tool dispatched",
		"tool", name,
		"duration_ms", time.Since(start).Milliseconds(),
		"err", err,
	)
	if err != nil {
		switch err.(type) {
		case *tool.PolicyViolationError, *tool.TimeoutError, *tool.ExecutionError,
			*tool.ValidationError, *tool.NotFoundError:
			return nil, err
		default:
			return nil, &tool.ExecutionError{Reason: "tool " + name + " failed", Err: err}
		}
	}
	return result, nil
}

// Definitions returns the registered tools sorted by name, for
// transport adapters that advertise the catalog.
func (r *Registry) Definitions() []tool.Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]tool.Definition, 0, len(r.tools))
	for _, def := range r.tools {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs
}
