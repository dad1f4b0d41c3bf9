package tools

import (
	"context"

	"github.com/rigpilot/rigpilot/internal/domain/tool"
)

func mouseTools(d Deps) []tool.Definition {
	enabled := d.Features.MouseControl
	return []tool.Definition{
		{
			Name:        "click",
			Description: "Click at screen coordinates.",
			Schema: tool.Schema{Params: []tool.Param{
				{Name: "x", Type: tool.TypeInteger, Required: true, Description: "X coordinate (pixels from left)"},
				{Name: "y", Type: tool.TypeInteger, Required: true, Description: "Y coordinate (pixels from top)"},
				{Name: "button", Type: tool.TypeString, Enum: []string{"left", "right", "middle"}, Description: "Mouse button"},
			}},
			Handler: gated(enabled, "mouse control", func(ctx context.Context, args map[string]any) (map[string]any, error) {
				return d.Input.Click(ctx, tool.IntArg(args, "x", 0), tool.IntArg(args, "y", 0), tool.StringArg(args, "button", "left"))
			}),
		},
		{
			Name:        "double_click",
			Description: "Double-click at coordinates.",
			Schema: tool.Schema{Params: []tool.Param{
				{Name: "x", Type: tool.TypeInteger, Required: true, Description: "X coordinate"},
				{Name: "y", Type: tool.TypeInteger, Required: true, Description: "Y coordinate"},
			}},
			Handler: gated(enabled, "mouse control", func(ctx context.Context, args map[string]any) (map[string]any, error) {
				return d.Input.DoubleClick(ctx, tool.IntArg(args, "x", 0), tool.IntArg(args, "y", 0))
			}),
		},
		{
			Name:        "move_to",
			Description: "Move mouse cursor to position.",
			Schema: tool.Schema{Params: []tool.Param{
				{Name: "x", Type: tool.TypeInteger, Required: true, Description: "Target X coordinate"},
				{Name: "y", Type: tool.TypeInteger, Required: true, Description: "Target Y coordinate"},
				{Name: "duration", Type: tool.TypeNumber, Description: "Movement time in seconds"},
			}},
			Handler: gated(enabled, "mouse control", func(ctx context.Context, args map[string]any) (map[string]any, error) {
				return d.Input.MoveTo(ctx, tool.IntArg(args, "x", 0), tool.IntArg(args, "y", 0))
			}),
		},
		{
			Name:        "drag_to",
			Description: "Drag from current position to target.",
			Schema: tool.Schema{Params: []tool.Param{
				{Name: "x", Type: tool.TypeInteger, Required: true, Description: "Target X coordinate"},
				{Name: "y", Type: tool.TypeInteger, Required: true, Description: "Target Y coordinate"},
				{Name: "duration", Type: tool.TypeNumber, Description: "Drag duration in seconds"},
			}},
			Handler: gated(enabled, "mouse control", func(ctx context.Context, args map[string]any) (map[string]any, error) {
				return d.Input.DragTo(ctx, tool.IntArg(args, "x", 0), tool.IntArg(args, "y", 0))
			}),
		},
		{
			Name:        "scroll",
			Description: "Scroll mouse wheel.",
			Schema: tool.Schema{Params: []tool.Param{
				{Name: "clicks", Type: tool.TypeInteger, Required: true, Description: "Scroll ticks (positive=up, negative=down)"},
				{Name: "x", Type: tool.TypeInteger, Description: "X position to scroll at"},
				{Name: "y", Type: tool.TypeInteger, Description: "Y position to scroll at"},
			}},
			Handler: gated(enabled, "mouse control", func(ctx context.Context, args map[string]any) (map[string]any, error) {
				hasPos := tool.HasArg(args, "x") && tool.HasArg(args, "y")
				return d.Input.Scroll(ctx, tool.IntArg(args, "clicks", 0), tool.IntArg(args, "x", 0), tool.IntArg(args, "y", 0), hasPos)
			}),
		},
		{
			Name:        "get_mouse_position",
			Description: "Get current mouse cursor position.",
			Handler: gated(enabled, "mouse control", func(ctx context.Context, _ map[string]any) (map[string]any, error) {
				return d.Input.Position(ctx)
			}),
		},
	}
}

func keyboardTools(d Deps) []tool.Definition {
	enabled := d.Features.KeyboardControl
	return []tool.Definition{
		{
			Name:        "type_text",
			Description: "Type a string of text.",
			Schema: tool.Schema{Params: []tool.Param{
				{Name: "text", Type: tool.TypeString, Required: true, Description: "Text to type"},
				{Name: "interval", Type: tool.TypeNumber, Description: "Delay between keystrokes in seconds"},
			}},
			Handler: gated(enabled, "keyboard control", func(ctx context.Context, args map[string]any) (map[string]any, error) {
				intervalMS := int(tool.FloatArg(args, "interval", 0) * 1000)
				return d.Input.TypeText(ctx, tool.StringArg(args, "text", ""), intervalMS)
			}),
		},
		{
			Name:        "press_key",
			Description: "Press a single keyboard key.",
			Schema: tool.Schema{Params: []tool.Param{
				{Name: "key", Type: tool.TypeString, Required: true, Description: "Key name (e.g., enter, escape, tab, f1)"},
				{Name: "modifiers", Type: tool.TypeStringArray, Description: "Modifier keys (ctrl, alt, shift)"},
			}},
			Handler: gated(enabled, "keyboard control", func(ctx context.Context, args map[string]any) (map[string]any, error) {
				return d.Input.PressKey(ctx, tool.StringArg(args, "key", ""), tool.StringsArg(args, "modifiers"))
			}),
		},
		{
			Name:        "hotkey",
			Description: "Press a key combination.",
			Schema: tool.Schema{Params: []tool.Param{
				{Name: "keys", Type: tool.TypeStringArray, Required: true, Description: "Keys to press together (e.g., ['ctrl', 'c'])"},
			}},
			Handler: gated(enabled, "keyboard control", func(ctx context.Context, args map[string]any) (map[string]any, error) {
				return d.Input.Hotkey(ctx, tool.StringsArg(args, "keys"))
			}),
		},
	}
}
