// Package tools assembles the gateway's tool catalog: every remote
// operation, its parameter schema, and the wiring from validated
// arguments to the action providers.
package tools

import (
	"context"

	"github.com/rigpilot/rigpilot/internal/config"
	"github.com/rigpilot/rigpilot/internal/domain/tool"
	"github.com/rigpilot/rigpilot/internal/port/vision"
	"github.com/rigpilot/rigpilot/internal/provider/files"
	"github.com/rigpilot/rigpilot/internal/provider/input"
	"github.com/rigpilot/rigpilot/internal/provider/screen"
	"github.com/rigpilot/rigpilot/internal/provider/system"
	"github.com/rigpilot/rigpilot/internal/service"
)

// Deps carries the providers and services the catalog binds to.
// Vision may be nil when the feature is not enabled.
type Deps struct {
	Features config.Features
	Screen   *screen.Provider
	Input    *input.Provider
	Files    *files.Provider
	System   *system.Provider
	Vision   vision.Analyzer
	Engine   *service.Engine
	Demo     *service.TerminalDemo
}

// All returns the full tool catalog for the given dependencies.
func All(d Deps) []tool.Definition {
	defs := make([]tool.Definition, 0, 24)
	defs = append(defs, screenTools(d)...)
	defs = append(defs, mouseTools(d)...)
	defs = append(defs, keyboardTools(d)...)
	defs = append(defs, fileTools(d)...)
	defs = append(defs, systemTools(d)...)
	defs = append(defs, visionTools(d)...)
	defs = append(defs, workflowTools(d)...)
	return defs
}

// gated replaces the handler with a uniform rejection when a feature
// toggle is off. The tool stays listed so clients get a clear error
// instead of an unknown-tool response.
func gated(enabled bool, feature string, h tool.Handler) tool.Handler {
	if enabled {
		return h
	}
	return func(context.Context, map[string]any) (map[string]any, error) {
		return nil, tool.Execf("%s is disabled", feature)
	}
}
