package tools

import (
	"context"

	"github.com/rigpilot/rigpilot/internal/domain/tool"
)

func fileTools(d Deps) []tool.Definition {
	enabled := d.Features.FileAccess
	return []tool.Definition{
		{
			Name:        "read_file",
			Description: "Read file contents.",
			Schema: tool.Schema{Params: []tool.Param{
				{Name: "path", Type: tool.TypeString, Required: true, Description: "File path to read"},
			}},
			Handler: gated(enabled, "file access", func(_ context.Context, args map[string]any) (map[string]any, error) {
				return d.Files.ReadFile(tool.StringArg(args, "path", ""))
			}),
		},
		{
			Name:        "write_file",
			Description: "Write content to file.",
			Schema: tool.Schema{Params: []tool.Param{
				{Name: "path", Type: tool.TypeString, Required: true, Description: "File path"},
				{Name: "content", Type: tool.TypeString, Required: true, Description: "Content to write"},
				{Name: "binary", Type: tool.TypeBoolean, Description: "Content is base64 binary"},
			}},
			Handler: gated(enabled, "file access", func(_ context.Context, args map[string]any) (map[string]any, error) {
				return d.Files.WriteFile(tool.StringArg(args, "path", ""), tool.StringArg(args, "content", ""), tool.BoolArg(args, "binary", false))
			}),
		},
		{
			Name:        "list_files",
			Description: "List directory contents.",
			Schema: tool.Schema{Params: []tool.Param{
				{Name: "path", Type: tool.TypeString, Required: true, Description: "Directory path"},
			}},
			Handler: gated(enabled, "file access", func(_ context.Context, args map[string]any) (map[string]any, error) {
				return d.Files.ListFiles(tool.StringArg(args, "path", ""))
			}),
		},
		{
			Name:        "upload_file",
			Description: "Upload file to the host.",
			Schema: tool.Schema{Params: []tool.Param{
				{Name: "path", Type: tool.TypeString, Required: true, Description: "Destination path"},
				{Name: "content", Type: tool.TypeString, Required: true, Description: "File content"},
				{Name: "binary", Type: tool.TypeBoolean, Description: "Content is base64"},
			}},
			Handler: gated(enabled, "file access", func(_ context.Context, args map[string]any) (map[string]any, error) {
				return d.Files.UploadFile(tool.StringArg(args, "path", ""), tool.StringArg(args, "content", ""), tool.BoolArg(args, "binary", false))
			}),
		},
		{
			Name:        "download_file",
			Description: "Download file from the host (returns base64).",
			Schema: tool.Schema{Params: []tool.Param{
				{Name: "path", Type: tool.TypeString, Required: true, Description: "File path to download"},
			}},
			Handler: gated(enabled, "file access", func(_ context.Context, args map[string]any) (map[string]any, error) {
				return d.Files.DownloadFile(tool.StringArg(args, "path", ""))
			}),
		},
	}
}
