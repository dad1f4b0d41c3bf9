package tools

import (
	"context"
	"encoding/json"

	"github.com/rigpilot/rigpilot/internal/domain/tool"
	"github.com/rigpilot/rigpilot/internal/domain/workflow"
	"github.com/rigpilot/rigpilot/internal/service"
)

func workflowTools(d Deps) []tool.Definition {
	return []tool.Definition{
		{
			Name: "run_workflow",
			Description: "Execute a sequence of tool actions as a single workflow. " +
				"Each step names a tool, its args, an optional wait_ms delay, and " +
				"an optional continue_on_error flag.",
			Schema: tool.Schema{Params: []tool.Param{
				{Name: "steps", Type: tool.TypeObjectArray, Required: true, Description: "Ordered workflow steps"},
			}},
			Handler: func(ctx context.Context, args map[string]any) (map[string]any, error) {
				steps, err := decodeSteps(args["steps"])
				if err != nil {
					return nil, err
				}
				if len(steps) == 0 {
					return map[string]any{
						"success":         false,
						"error":           "no steps provided",
						"total_steps":     0,
						"completed_steps": 0,
						"failed_step":     nil,
						"results":         []any{},
						"total_time_ms":   0,
					}, nil
				}
				return resultToMap(d.Engine.Run(ctx, steps))
			},
		},
		{
			Name: "demo_terminal_workflow",
			Description: "Open a terminal, type a command, execute it, optionally " +
				"capture a screenshot, and close the terminal.",
			Schema: tool.Schema{Params: []tool.Param{
				{Name: "text", Type: tool.TypeString, Description: "Command to type in the terminal"},
				{Name: "terminal_wait_ms", Type: tool.TypeInteger, Description: "Milliseconds to wait for the terminal to open"},
				{Name: "post_type_wait_ms", Type: tool.TypeInteger, Description: "Milliseconds to wait after typing"},
				{Name: "post_enter_wait_ms", Type: tool.TypeInteger, Description: "Milliseconds to wait after pressing enter"},
				{Name: "capture_screenshot", Type: tool.TypeBoolean, Description: "Take a screenshot after the command runs"},
				{Name: "close_terminal", Type: tool.TypeBoolean, Description: "Close the terminal at the end"},
			}},
			Handler: func(ctx context.Context, args map[string]any) (map[string]any, error) {
				p := service.DefaultDemoParams()
				p.Text = tool.StringArg(args, "text", p.Text)
				p.TerminalWaitMS = tool.IntArg(args, "terminal_wait_ms", p.TerminalWaitMS)
				p.PostTypeWaitMS = tool.IntArg(args, "post_type_wait_ms", p.PostTypeWaitMS)
				p.PostEnterWaitMS = tool.IntArg(args, "post_enter_wait_ms", p.PostEnterWaitMS)
				p.CaptureShot = tool.BoolArg(args, "capture_screenshot", p.CaptureShot)
				p.CloseTerminal = tool.BoolArg(args, "close_terminal", p.CloseTerminal)
				return d.Demo.Run(ctx, p), nil
			},
		},
	}
}

// decodeSteps converts the raw steps argument into typed workflow steps.
func decodeSteps(raw any) ([]workflow.Step, error) {
	if raw == nil {
		return nil, nil
	}
	if steps, ok := raw.([]workflow.Step); ok {
		return steps, nil
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, &tool.ValidationError{Field: "steps", Reason: "not serializable"}
	}
	var steps []workflow.Step
	if err := json.Unmarshal(data, &steps); err != nil {
		return nil, &tool.ValidationError{Field: "steps", Reason: "malformed step list"}
	}
	return steps, nil
}

// resultToMap flattens the typed workflow result into the uniform
// payload shape all tools return.
func resultToMap(res *workflow.Result) (map[string]any, error) {
	data, err := json.Marshal(res)
	if err != nil {
		return nil, &tool.ExecutionError{Reason: "encode workflow result", Err: err}
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, &tool.ExecutionError{Reason: "decode workflow result", Err: err}
	}
	return out, nil
}
