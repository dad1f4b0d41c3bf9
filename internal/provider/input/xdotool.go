package input

import (
	"context"
	"strconv"
	"strings"

	"github.com/rigpilot/rigpilot/internal/domain/tool"
)

// xdotoolBackend drives X11 input through the xdotool binary.
type xdotoolBackend struct {
	run Runner
}

var xdoButtons = map[string]string{
	"left":   "1",
	"middle": "2",
	"right":  "3",
}

// xdoKeysyms maps common key names to X keysyms. Unlisted keys are
// passed through unchanged.
var xdoKeysyms = map[string]string{
	"enter":     "Return",
	"return":    "Return",
	"esc":       "Escape",
	"escape":    "Escape",
	"tab":       "Tab",
	"space":     "space",
	"backspace": "BackSpace",
	"delete":    "Delete",
	"up":        "Up",
	"down":      "Down",
	"left":      "Left",
	"right":     "Right",
	"home":      "Home",
	"end":       "End",
	"pageup":    "Page_Up",
	"pagedown":  "Page_Down",
	"ctrl":      "ctrl",
	"alt":       "alt",
	"shift":     "shift",
	"cmd":       "super",
	"super":     "super",
	"win":       "super",
}

func xdoKeysym(key string) string {
	if sym, ok := xdoKeysyms[strings.ToLower(key)]; ok {
		return sym
	}
	return key
}

func (b *xdotoolBackend) Click(ctx context.Context, x, y int, button string) error {
	btn, ok := xdoButtons[button]
	if !ok {
		return &tool.ValidationError{Field: "button", Reason: "must be left, right or middle"}
	}
	if err := b.MoveTo(ctx, x, y); err != nil {
		return err
	}
	_, err := b.run.Run(ctx, "xdotool", "click", btn)
	return err
}

func (b *xdotoolBackend) DoubleClick(ctx context.Context, x, y int) error {
	if err := b.MoveTo(ctx, x, y); err != nil {
		return err
	}
	_, err := b.run.Run(ctx, "xdotool", "click", "--repeat", "2", "--delay", "100", "1")
	return err
}

func (b *xdotoolBackend) MoveTo(ctx context.Context, x, y int) error {
	_, err := b.run.Run(ctx, "xdotool", "mousemove", "--sync", strconv.Itoa(x), strconv.Itoa(y))
	return err
}

func (b *xdotoolBackend) DragTo(ctx context.Context, x, y int) error {
	if _, err := b.run.Run(ctx, "xdotool", "mousedown", "1"); err != nil {
		return err
	}
	if err := b.MoveTo(ctx, x, y); err != nil {
		// Release the button even when the move fails, otherwise the
		// pointer is left stuck in a drag.
		_, _ = b.run.Run(ctx, "xdotool", "mouseup", "1")
		return err
	}
	_, err := b.run.Run(ctx, "xdotool", "mouseup", "1")
	return err
}

func (b *xdotoolBackend) Scroll(ctx context.Context, clicks, x, y int, hasPos bool) error {
	if hasPos {
		if err := b.MoveTo(ctx, x, y); err != nil {
			return err
		}
	}
	btn := "4" // wheel up
	if clicks < 0 {
		btn = "5"
		clicks = -clicks
	}
	if clicks == 0 {
		return nil
	}
	_, err := b.run.Run(ctx, "xdotool", "click", "--repeat", strconv.Itoa(clicks), btn)
	return err
}

func (b *xdotoolBackend) Position(ctx context.Context) (int, int, error) {
	out, err := b.run.Run(ctx, "xdotool", "getmouselocation", "--shell")
	if err != nil {
		return 0, 0, err
	}
	// Output is KEY=VALUE lines: X=512 Y=384 SCREEN=0 WINDOW=...
	var x, y int
	var haveX, haveY bool
	for _, line := range strings.Fields(out) {
		key, val, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		n, convErr := strconv.Atoi(val)
		if convErr != nil {
			continue
		}
		switch key {
		case "X":
			x, haveX = n, true
		case "Y":
			y, haveY = n, true
		}
	}
	if !haveX || !haveY {
		return 0, 0, tool.Execf("unexpected xdotool getmouselocation output: %q", out)
	}
	return x, y, nil
}

func (b *xdotoolBackend) TypeText(ctx context.Context, text string, intervalMS int) error {
	args := []string{"type", "--delay", strconv.Itoa(intervalMS), "--", text}
	_, err := b.run.Run(ctx, "xdotool", args...)
	return err
}

func (b *xdotoolBackend) PressKey(ctx context.Context, key string, modifiers []string) error {
	parts := make([]string, 0, len(modifiers)+1)
	for _, m := range modifiers {
		parts = append(parts, xdoKeysym(m))
	}
	parts = append(parts, xdoKeysym(key))
	_, err := b.run.Run(ctx, "xdotool", "key", strings.Join(parts, "+"))
	return err
}

func (b *xdotoolBackend) Hotkey(ctx context.Context, keys []string) error {
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, xdoKeysym(k))
	}
	_, err := b.run.Run(ctx, "xdotool", "key", strings.Join(parts, "+"))
	return err
}
