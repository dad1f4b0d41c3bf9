package tools

import (
	"context"
	"strconv"
	"time"

	"github.com/rigpilot/rigpilot/internal/domain/tool"
)

func systemTools(d Deps) []tool.Definition {
	return []tool.Definition{
		{
			Name:        "execute_command",
			Description: "Run a shell command.",
			Schema: tool.Schema{Params: []tool.Param{
				{Name: "command", Type: tool.TypeString, Required: true, Description: "Command to execute"},
				{Name: "timeout", Type: tool.TypeInteger, Description: "Max execution time in seconds"},
			}},
			Handler: gated(d.Features.CommandExecution, "command execution", func(ctx context.Context, args map[string]any) (map[string]any, error) {
				timeout := time.Duration(tool.IntArg(args, "timeout", 0)) * time.Second
				return d.System.ExecuteCommand(ctx, tool.StringArg(args, "command", ""), timeout)
			}),
		},
		{
			Name:        "get_system_info",
			Description: "Get system resource usage (CPU, RAM, disk).",
			Handler: func(ctx context.Context, _ map[string]any) (map[string]any, error) {
				return d.System.SystemInfo(ctx)
			},
		},
		{
			Name:        "list_windows",
			Description: "List all open windows.",
			Handler: func(ctx context.Context, _ map[string]any) (map[string]any, error) {
				return d.System.ListWindows(ctx)
			},
		},
		{
			Name:        "focus_window",
			Description: "Bring a window to the foreground.",
			Schema: tool.Schema{Params: []tool.Param{
				{Name: "title", Type: tool.TypeString, Description: "Window title (partial match)"},
				{Name: "handle", Type: tool.TypeInteger, Description: "Window handle ID"},
			}},
			Handler: func(ctx context.Context, args map[string]any) (map[string]any, error) {
				var handle string
				if tool.HasArg(args, "handle") {
					handle = strconv.Itoa(tool.IntArg(args, "handle", 0))
				}
				return d.System.FocusWindow(ctx, tool.StringArg(args, "title", ""), handle)
			},
		},
	}
}
