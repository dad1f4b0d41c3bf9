// Package system provides shell execution, resource reporting, and
// window management. Commands cross the security policy before any
// process spawns.
package system

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/mem"

	"github.com/rigpilot/rigpilot/internal/domain/policy"
	"github.com/rigpilot/rigpilot/internal/domain/tool"
)

// Runner executes a host command and returns its combined output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
}

// ExecRunner runs commands via os/exec.
type ExecRunner struct{}

// Run executes the command and returns trimmed combined output.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(out.String())
		if msg != "" {
			return "", tool.Execf("%s: %s", name, msg)
		}
		return "", &tool.ExecutionError{Reason: name + " failed", Err: err}
	}
	return strings.TrimSpace(out.String()), nil
}

// Provider implements the execute_command, get_system_info,
// list_windows and focus_window tools.
type Provider struct {
	policy *policy.Policy
	run    Runner
	goos   string
}

// New returns a Provider enforcing the given policy.
func New(p *policy.Policy) *Provider {
	return &Provider{policy: p, run: ExecRunner{}, goos: runtime.GOOS}
}

// NewWithRunner returns a Provider with an injected runner and
// platform, for tests.
func NewWithRunner(p *policy.Policy, r Runner, goos string) *Provider {
	return &Provider{policy: p, run: r, goos: goos}
}

// ExecuteCommand runs a shell command and captures its output. The
// requested timeout is clamped to the policy maximum; on expiry the
// process tree is killed and a timeout error carries the partial
// output. A nonzero exit code is not an error, it is reported in
// exit_code.
func (p *Provider) ExecuteCommand(ctx context.Context, command string, requestedTimeout time.Duration) (map[string]any, error) {
	if strings.TrimSpace(command) == "" {
		return nil, &tool.ValidationError{Field: "command", Reason: "must not be empty"}
	}
	if err := p.policy.CheckCommand(command); err != nil {
		return nil, err
	}

	timeout := p.policy.EffectiveTimeout(requestedTimeout)
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var cmd *exec.Cmd
	if p.goos == "windows" {
		cmd = exec.CommandContext(ctx, "cmd", "/C", command)
	} else {
		cmd = exec.CommandContext(ctx, "sh", "-c", command)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = 2 * time.Second

	err := cmd.Run()
	if ctx.Err() != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return nil, &tool.TimeoutError{
			Timeout: timeout,
			Output:  strings.TrimSpace(stdout.String() + stderr.String()),
		}
	}

	exitCode := 0
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		} else {
			return nil, &tool.ExecutionError{Reason: "spawn command", Err: err}
		}
	}

	return tool.Ok(map[string]any{
		"stdout":    stdout.String(),
		"stderr":    stderr.String(),
		"exit_code": exitCode,
	}), nil
}

// SystemInfo reports CPU, memory and disk usage plus the platform name.
func (p *Provider) SystemInfo(ctx context.Context) (map[string]any, error) {
	cpuPercents, err := cpu.PercentWithContext(ctx, 100*time.Millisecond, false)
	if err != nil {
		return nil, &tool.ExecutionError{Reason: "read cpu usage", Err: err}
	}
	var cpuPercent float64
	if len(cpuPercents) > 0 {
		cpuPercent = cpuPercents[0]
	}

	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return nil, &tool.ExecutionError{Reason: "read memory usage", Err: err}
	}

	root := "/"
	if p.goos == "windows" {
		root = `C:\`
	}
	du, err := disk.UsageWithContext(ctx, root)
	if err != nil {
		return nil, &tool.ExecutionError{Reason: "read disk usage", Err: err}
	}

	return tool.Ok(map[string]any{
		"cpu_percent": cpuPercent,
		"memory": map[string]any{
			"total":     vm.Total,
			"available": vm.Available,
			"percent":   vm.UsedPercent,
		},
		"disk": map[string]any{
			"total":   du.Total,
			"free":    du.Free,
			"percent": du.UsedPercent,
		},
		"platform": p.goos,
	}), nil
}

// ListWindows enumerates visible windows with their handles and titles.
func (p *Provider) ListWindows(ctx context.Context) (map[string]any, error) {
	windows := make([]map[string]any, 0)

	switch p.goos {
	case "linux":
		out, err := p.run.Run(ctx, "wmctrl", "-l")
		if err != nil {
			return nil, err
		}
		for _, line := range strings.Split(out, "\n") {
			// wmctrl -l: <handle> <desktop> <host> <title>
			parts := splitColumns(line, 4)
			if len(parts) < 4 {
				continue
			}
			windows = append(windows, map[string]any{
				"handle": parts[0],
				"title":  parts[3],
			})
		}
	case "darwin":
		script := `tell application "System Events" to get name of every window of every process`
		out, err := p.run.Run(ctx, "osascript", "-e", script)
		if err != nil {
			return nil, err
		}
		for i, title := range strings.Split(out, ", ") {
			if title = strings.TrimSpace(title); title != "" {
				windows = append(windows, map[string]any{"handle": i, "title": title})
			}
		}
	default:
		return nil, tool.Execf("list_windows is not supported on %s", p.goos)
	}

	return tool.Ok(map[string]any{"windows": windows}), nil
}

// splitColumns splits a line into at most n whitespace-separated
// columns, keeping the remainder intact in the last column. Column
// alignment may pad with runs of spaces, so a plain SplitN is not
// enough.
func splitColumns(s string, n int) []string {
	var out []string
	s = strings.TrimSpace(s)
	for len(out) < n-1 {
		i := strings.IndexAny(s, " \t")
		if i < 0 {
			break
		}
		out = append(out, s[:i])
		s = strings.TrimLeft(s[i:], " \t")
	}
	if s != "" {
		out = append(out, s)
	}
	return out
}

// FocusWindow brings a window to the foreground, selected by partial
// title match or by handle.
func (p *Provider) FocusWindow(ctx context.Context, title, handle string) (map[string]any, error) {
	if title == "" && handle == "" {
		return nil, &tool.ValidationError{Field: "title", Reason: "must provide title or handle"}
	}

	switch p.goos {
	case "linux":
		var err error
		if title != "" {
			_, err = p.run.Run(ctx, "wmctrl", "-a", title)
		} else {
			_, err = p.run.Run(ctx, "wmctrl", "-i", "-a", handle)
		}
		if err != nil {
			return nil, err
		}
	case "darwin":
		if title == "" {
			return nil, &tool.ValidationError{Field: "title", Reason: "required on darwin"}
		}
		script := `tell application ` + strconv.Quote(title) + ` to activate`
		if _, err := p.run.Run(ctx, "osascript", "-e", script); err != nil {
			return nil, err
		}
	default:
		return nil, tool.Execf("focus_window is not supported on %s", p.goos)
	}

	result := tool.Ok(nil)
	if title != "" {
		result["title"] = title
	}
	if handle != "" {
		result["handle"] = handle
	}
	return result, nil
}
