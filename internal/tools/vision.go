package tools

import (
	"context"

	"github.com/rigpilot/rigpilot/internal/domain/tool"
)

func visionTools(d Deps) []tool.Definition {
	return []tool.Definition{
		{
			Name:        "analyze_screen",
			Description: "Capture the screen and analyze it with the configured vision model.",
			Schema: tool.Schema{Params: []tool.Param{
				{Name: "prompt", Type: tool.TypeString, Required: true, Description: "Question about the screen content"},
				{Name: "monitor", Type: tool.TypeInteger, Description: "Monitor index for multi-monitor setups"},
			}},
			Handler: func(ctx context.Context, args map[string]any) (map[string]any, error) {
				prompt := tool.StringArg(args, "prompt", "")
				if d.Vision == nil {
					return nil, tool.Execf("vision analysis is not enabled, set vlm.enabled in the config")
				}
				shot, err := d.Screen.Screenshot(tool.IntArg(args, "monitor", -1))
				if err != nil {
					return nil, &tool.ExecutionError{Reason: "capture screenshot", Err: err}
				}
				image, _ := shot["image"].(string)
				response, err := d.Vision.Analyze(ctx, image, prompt)
				if err != nil {
					return nil, &tool.ExecutionError{Reason: "vision analysis", Err: err}
				}
				return tool.Ok(map[string]any{
					"response": response,
					"prompt":   prompt,
					"model":    d.Vision.Model(),
				}), nil
			},
		},
		{
			Name:        "analyze_image",
			Description: "Analyze a provided base64 image with the configured vision model.",
			Schema: tool.Schema{Params: []tool.Param{
				{Name: "image", Type: tool.TypeString, Required: true, Description: "Base64-encoded image data (PNG or JPEG)"},
				{Name: "prompt", Type: tool.TypeString, Required: true, Description: "Question about the image"},
			}},
			Handler: func(ctx context.Context, args map[string]any) (map[string]any, error) {
				prompt := tool.StringArg(args, "prompt", "")
				if d.Vision == nil {
					return nil, tool.Execf("vision analysis is not enabled, set vlm.enabled in the config")
				}
				response, err := d.Vision.Analyze(ctx, tool.StringArg(args, "image", ""), prompt)
				if err != nil {
					return nil, &tool.ExecutionError{Reason: "vision analysis", Err: err}
				}
				return tool.Ok(map[string]any{
					"response": response,
					"prompt":   prompt,
					"model":    d.Vision.Model(),
				}), nil
			},
		},
	}
}
