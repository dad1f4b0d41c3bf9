package input

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rigpilot/rigpilot/internal/domain/tool"
)

// darwinBackend drives macOS input through cliclick for the mouse and
// osascript (System Events) for the keyboard.
type darwinBackend struct {
	run Runner
}

var darwinModifiers = map[string]string{
	"cmd":     "command down",
	"command": "command down",
	"ctrl":    "control down",
	"control": "control down",
	"alt":     "option down",
	"option":  "option down",
	"shift":   "shift down",
}

// darwinKeyCodes maps non-printable keys to System Events key codes.
var darwinKeyCodes = map[string]int{
	"enter":     36,
	"return":    36,
	"esc":       53,
	"escape":    53,
	"tab":       48,
	"space":     49,
	"backspace": 51,
	"delete":    117,
	"up":        126,
	"down":      125,
	"left":      123,
	"right":     124,
	"home":      115,
	"end":       119,
	"pageup":    116,
	"pagedown":  121,
}

func (b *darwinBackend) Click(ctx context.Context, x, y int, button string) error {
	var op string
	switch button {
	case "left":
		op = "c"
	case "right":
		op = "rc"
	case "middle":
		return tool.Execf("middle click is not supported on darwin")
	default:
		return &tool.ValidationError{Field: "button", Reason: "must be left, right or middle"}
	}
	_, err := b.run.Run(ctx, "cliclick", fmt.Sprintf("%s:%d,%d", op, x, y))
	return err
}

func (b *darwinBackend) DoubleClick(ctx context.Context, x, y int) error {
	_, err := b.run.Run(ctx, "cliclick", fmt.Sprintf("dc:%d,%d", x, y))
	return err
}

func (b *darwinBackend) MoveTo(ctx context.Context, x, y int) error {
	_, err := b.run.Run(ctx, "cliclick", fmt.Sprintf("m:%d,%d", x, y))
	return err
}

func (b *darwinBackend) DragTo(ctx context.Context, x, y int) error {
	x0, y0, err := b.Position(ctx)
	if err != nil {
		return err
	}
	_, err = b.run.Run(ctx, "cliclick",
		fmt.Sprintf("dd:%d,%d", x0, y0),
		fmt.Sprintf("du:%d,%d", x, y))
	return err
}

func (b *darwinBackend) Scroll(ctx context.Context, clicks, x, y int, hasPos bool) error {
	return tool.Execf("scroll is not supported on darwin")
}

func (b *darwinBackend) Position(ctx context.Context) (int, int, error) {
	out, err := b.run.Run(ctx, "cliclick", "p")
	if err != nil {
		return 0, 0, err
	}
	// cliclick prints the position as "x,y", possibly with a label.
	coords := out
	if i := strings.LastIndex(out, " "); i >= 0 {
		coords = out[i+1:]
	}
	xs, ys, ok := strings.Cut(coords, ",")
	if !ok {
		return 0, 0, tool.Execf("unexpected cliclick output: %q", out)
	}
	x, errX := strconv.Atoi(strings.TrimSpace(xs))
	y, errY := strconv.Atoi(strings.TrimSpace(ys))
	if errX != nil || errY != nil {
		return 0, 0, tool.Execf("unexpected cliclick output: %q", out)
	}
	return x, y, nil
}

func (b *darwinBackend) TypeText(ctx context.Context, text string, intervalMS int) error {
	script := fmt.Sprintf(`tell application "System Events" to keystroke %s`, appleQuote(text))
	_, err := b.run.Run(ctx, "osascript", "-e", script)
	return err
}

func (b *darwinBackend) PressKey(ctx context.Context, key string, modifiers []string) error {
	return b.press(ctx, key, modifiers)
}

func (b *darwinBackend) Hotkey(ctx context.Context, keys []string) error {
	if len(keys) == 1 {
		return b.press(ctx, keys[0], nil)
	}
	return b.press(ctx, keys[len(keys)-1], keys[:len(keys)-1])
}

func (b *darwinBackend) press(ctx context.Context, key string, modifiers []string) error {
	var using string
	if len(modifiers) > 0 {
		parts := make([]string, 0, len(modifiers))
		for _, m := range modifiers {
			mod, ok := darwinModifiers[strings.ToLower(m)]
			if !ok {
				return &tool.ValidationError{Field: "modifiers", Reason: "unknown modifier " + m}
			}
			parts = append(parts, mod)
		}
		using = " using {" + strings.Join(parts, ", ") + "}"
	}

	var action string
	if code, ok := darwinKeyCodes[strings.ToLower(key)]; ok {
		action = fmt.Sprintf("key code %d", code)
	} else {
		action = "keystroke " + appleQuote(key)
	}

	script := fmt.Sprintf(`tell application "System Events" to %s%s`, action, using)
	_, err := b.run.Run(ctx, "osascript", "-e", script)
	return err
}

// appleQuote renders s as an AppleScript string literal.
func appleQuote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}
