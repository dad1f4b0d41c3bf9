// Package files provides the file transfer and directory listing
// provider. Every path crosses the security policy before it is
// touched.
package files

import (
	"encoding/base64"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/rigpilot/rigpilot/internal/domain/policy"
	"github.com/rigpilot/rigpilot/internal/domain/tool"
)

// Provider implements the read_file, write_file, list_files,
// upload_file and download_file tools.
type Provider struct {
	policy *policy.Policy
}

// New returns a Provider enforcing the given policy.
func New(p *policy.Policy) *Provider {
	return &Provider{policy: p}
}

// ReadFile reads a file and returns its content. Text content is
// returned as-is with binary=false; content that is not valid UTF-8 is
// base64 encoded with binary=true.
func (p *Provider) ReadFile(path string) (map[string]any, error) {
	resolved, err := p.resolve(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, tool.Execf("file not found: %s", path)
		}
		return nil, &tool.ExecutionError{Reason: "read " + path, Err: err}
	}

	if utf8.Valid(data) {
		return tool.Ok(map[string]any{"content": string(data), "binary": false}), nil
	}
	return tool.Ok(map[string]any{
		"content": base64.StdEncoding.EncodeToString(data),
		"binary":  true,
	}), nil
}

// WriteFile writes content to a file, creating parent directories as
// needed. When binary is true the content is base64 decoded first.
func (p *Provider) WriteFile(path, content string, binary bool) (map[string]any, error) {
	resolved, err := p.resolve(path)
	if err != nil {
		return nil, err
	}

	data := []byte(content)
	if binary {
		data, err = base64.StdEncoding.DecodeString(content)
		if err != nil {
			return nil, &tool.ValidationError{Field: "content", Reason: "not valid base64"}
		}
	}

	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return nil, &tool.ExecutionError{Reason: "create parent directories", Err: err}
	}
	if err := os.WriteFile(resolved, data, 0o644); err != nil {
		return nil, &tool.ExecutionError{Reason: "write " + path, Err: err}
	}
	return tool.Ok(map[string]any{"path": resolved}), nil
}

// ListFiles lists the entries of a directory.
func (p *Provider) ListFiles(path string) (map[string]any, error) {
	resolved, err := p.resolve(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, tool.Execf("directory not found: %s", path)
		}
		return nil, &tool.ExecutionError{Reason: "stat " + path, Err: err}
	}
	if !info.IsDir() {
		return nil, tool.Execf("not a directory: %s", path)
	}

	entries, err := os.ReadDir(resolved)
	if err != nil {
		return nil, &tool.ExecutionError{Reason: "list " + path, Err: err}
	}

	items := make([]map[string]any, 0, len(entries))
	for _, entry := range entries {
		var size int64
		if !entry.IsDir() {
			if info, infoErr := entry.Info(); infoErr == nil {
				size = info.Size()
			}
		}
		items = append(items, map[string]any{
			"name":   entry.Name(),
			"is_dir": entry.IsDir(),
			"size":   size,
		})
	}
	return tool.Ok(map[string]any{"items": items}), nil
}

// UploadFile stores content on the host. It is an alias for WriteFile
// kept as a separate tool name for clients that distinguish transfer
// direction.
func (p *Provider) UploadFile(path, content string, binary bool) (map[string]any, error) {
	return p.WriteFile(path, content, binary)
}

// DownloadFile returns a file's content base64 encoded, with its name
// and size.
func (p *Provider) DownloadFile(path string) (map[string]any, error) {
	resolved, err := p.resolve(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, tool.Execf("file not found: %s", path)
		}
		return nil, &tool.ExecutionError{Reason: "read " + path, Err: err}
	}
	return tool.Ok(map[string]any{
		"content":  base64.StdEncoding.EncodeToString(data),
		"filename": filepath.Base(resolved),
		"size":     len(data),
	}), nil
}

func (p *Provider) resolve(path string) (string, error) {
	if path == "" {
		return "", &tool.ValidationError{Field: "path", Reason: "must not be empty"}
	}
	if err := p.policy.CheckPath(path); err != nil {
		return "", err
	}
	return policy.Canonical(path)
}
