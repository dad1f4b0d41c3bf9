// Package input provides mouse and keyboard control by driving host
// automation tools (xdotool on Linux, cliclick and osascript on macOS).
// The backend is selected per platform and is injectable for tests.
package input

import (
	"context"
	"runtime"

	"github.com/rigpilot/rigpilot/internal/domain/tool"
)

// Backend synthesizes input events on the host.
type Backend interface {
	Click(ctx context.Context, x, y int, button string) error
	DoubleClick(ctx context.Context, x, y int) error
	MoveTo(ctx context.Context, x, y int) error
	DragTo(ctx context.Context, x, y int) error
	Scroll(ctx context.Context, clicks, x, y int, hasPos bool) error
	Position(ctx context.Context) (x, y int, err error)
	TypeText(ctx context.Context, text string, intervalMS int) error
	PressKey(ctx context.Context, key string, modifiers []string) error
	Hotkey(ctx context.Context, keys []string) error
}

// Provider implements the mouse and keyboard tools on top of a Backend.
type Provider struct {
	backend Backend
}

// New selects the backend for the current platform.
func New() *Provider {
	return &Provider{backend: hostBackend(ExecRunner{})}
}

// NewWithBackend returns a Provider using the given backend.
func NewWithBackend(b Backend) *Provider {
	return &Provider{backend: b}
}

func hostBackend(r Runner) Backend {
	switch runtime.GOOS {
	case "linux":
		return &xdotoolBackend{run: r}
	case "darwin":
		return &darwinBackend{run: r}
	default:
		return unsupportedBackend{goos: runtime.GOOS}
	}
}

// Click presses a mouse button at the given coordinates.
func (p *Provider) Click(ctx context.Context, x, y int, button string) (map[string]any, error) {
	if err := p.backend.Click(ctx, x, y, button); err != nil {
		return nil, err
	}
	return tool.Ok(map[string]any{"x": x, "y": y, "button": button}), nil
}

// DoubleClick performs a double left click at the given coordinates.
func (p *Provider) DoubleClick(ctx context.Context, x, y int) (map[string]any, error) {
	if err := p.backend.DoubleClick(ctx, x, y); err != nil {
		return nil, err
	}
	return tool.Ok(map[string]any{"x": x, "y": y}), nil
}

// MoveTo moves the pointer to the given coordinates.
func (p *Provider) MoveTo(ctx context.Context, x, y int) (map[string]any, error) {
	if err := p.backend.MoveTo(ctx, x, y); err != nil {
		return nil, err
	}
	return tool.Ok(map[string]any{"x": x, "y": y}), nil
}

// DragTo drags from the current pointer position to the given coordinates
// with the left button held.
func (p *Provider) DragTo(ctx context.Context, x, y int) (map[string]any, error) {
	if err := p.backend.DragTo(ctx, x, y); err != nil {
		return nil, err
	}
	return tool.Ok(map[string]any{"x": x, "y": y}), nil
}

// Scroll scrolls the wheel; positive clicks scroll up, negative down.
// When hasPos is true the pointer is moved to (x, y) first.
func (p *Provider) Scroll(ctx context.Context, clicks, x, y int, hasPos bool) (map[string]any, error) {
	if err := p.backend.Scroll(ctx, clicks, x, y, hasPos); err != nil {
		return nil, err
	}
	return tool.Ok(map[string]any{"clicks": clicks}), nil
}

// Position reports the current pointer coordinates.
func (p *Provider) Position(ctx context.Context) (map[string]any, error) {
	x, y, err := p.backend.Position(ctx)
	if err != nil {
		return nil, err
	}
	return tool.Ok(map[string]any{"x": x, "y": y}), nil
}

// TypeText types a string with an optional inter-key delay.
func (p *Provider) TypeText(ctx context.Context, text string, intervalMS int) (map[string]any, error) {
	if err := p.backend.TypeText(ctx, text, intervalMS); err != nil {
		return nil, err
	}
	return tool.Ok(map[string]any{"text": text}), nil
}

// PressKey presses a single key, optionally with held modifiers.
func (p *Provider) PressKey(ctx context.Context, key string, modifiers []string) (map[string]any, error) {
	if err := p.backend.PressKey(ctx, key, modifiers); err != nil {
		return nil, err
	}
	result := tool.Ok(map[string]any{"key": key})
	if len(modifiers) > 0 {
		result["modifiers"] = modifiers
	}
	return result, nil
}

// Hotkey presses a key combination such as ["ctrl", "c"].
func (p *Provider) Hotkey(ctx context.Context, keys []string) (map[string]any, error) {
	if len(keys) == 0 {
		return nil, &tool.ValidationError{Field: "keys", Reason: "must not be empty"}
	}
	if err := p.backend.Hotkey(ctx, keys); err != nil {
		return nil, err
	}
	return tool.Ok(map[string]any{"keys": keys}), nil
}

// unsupportedBackend rejects every operation on platforms without a
// native automation tool.
type unsupportedBackend struct {
	goos string
}

func (u unsupportedBackend) err() error {
	return tool.Execf("input control is not supported on %s", u.goos)
}

func (u unsupportedBackend) Click(context.Context, int, int, string) error { return u.err() }
func (u unsupportedBackend) DoubleClick(context.Context, int, int) error   { return u.err() }
func (u unsupportedBackend) MoveTo(context.Context, int, int) error        { return u.err() }
func (u unsupportedBackend) DragTo(context.Context, int, int) error        { return u.err() }
func (u unsupportedBackend) Scroll(context.Context, int, int, int, bool) error {
	return u.err()
}
func (u unsupportedBackend) Position(context.Context) (int, int, error) { return 0, 0, u.err() }
func (u unsupportedBackend) TypeText(context.Context, string, int) error {
	return u.err()
}
func (u unsupportedBackend) PressKey(context.Context, string, []string) error { return u.err() }
func (u unsupportedBackend) Hotkey(context.Context, []string) error           { return u.err() }
