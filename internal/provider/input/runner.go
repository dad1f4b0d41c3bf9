package input

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/rigpilot/rigpilot/internal/domain/tool"
)

// Runner executes a host command and returns its combined output.
// Tests inject a fake; the default shells out.
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
