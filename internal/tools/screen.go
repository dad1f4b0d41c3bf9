package tools

import (
	"context"

	"github.com/rigpilot/rigpilot/internal/domain/tool"
)

func screenTools(d Deps) []tool.Definition {
	return []tool.Definition{
		{
			Name:        "screenshot",
			Description: "Capture the current screen. Returns a base64-encoded PNG image.",
			Schema: tool.Schema{Params: []tool.Param{
				{Name: "monitor", Type: tool.TypeInteger, Description: "Monitor index for multi-monitor setups"},
			}},
			Handler: gated(d.Features.Screenshot, "screenshot", func(_ context.Context, args map[string]any) (map[string]any, error) {
				return d.Screen.Screenshot(tool.IntArg(args, "monitor", -1))
			}),
		},
		{
			Name:        "get_screen_size",
			Description: "Get screen dimensions in pixels.",
			Schema: tool.Schema{Params: []tool.Param{
				{Name: "monitor", Type: tool.TypeInteger, Description: "Monitor index"},
			}},
			Handler: func(_ context.Context, args map[string]any) (map[string]any, error) {
				return d.Screen.ScreenSize(tool.IntArg(args, "monitor", -1))
			},
		},
	}
}
