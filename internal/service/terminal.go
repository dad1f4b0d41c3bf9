package service

import (
	"context"
	"log/slog"
	"os/exec"
	"runtime"
	"time"

	"github.com/rigpilot/rigpilot/internal/domain/tool"
	"github.com/rigpilot/rigpilot/internal/port/cache"
)

// linuxTerminals are probed in order of preference.
var linuxTerminals = []string{
	"gnome-terminal",
	"konsole",
	"xfce4-terminal",
	"mate-terminal",
	"tilix",
	"terminator",
	"xterm",
}

const (
	launcherCacheKey = "terminal-launcher"
	launcherCacheTTL = 5 * time.Minute
)

// DemoParams configures the terminal demo workflow.
type DemoParams struct {
	Text            string
	TerminalWaitMS  int
	PostTypeWaitMS  int
	PostEnterWaitMS int
	CaptureShot     bool
	CloseTerminal   bool
}

// DefaultDemoParams returns the demo defaults.
func DefaultDemoParams() DemoParams {
	return DemoParams{
		Text:            "echo hello world",
		TerminalWaitMS:  2000,
		PostTypeWaitMS:  500,
		PostEnterWaitMS: 1000,
		CaptureShot:     true,
		CloseTerminal:   true,
	}
}

// TerminalDemo runs the canned open-type-execute-capture-close workflow
// against the host's terminal emulator. Launcher detection shells out
// once per TTL; results are cached because each probe costs a
// subprocess.
type TerminalDemo struct {
	dispatch Dispatcher
	cache    cache.Cache
	log      *slog.Logger
	goos     string
	sleep    func(ctx context.Context, d time.Duration) error

	// probe reports whether a launcher binary exists on PATH.
	probe func(ctx context.Context, name string) bool
	// launch starts the terminal process without waiting for it.
	launch func(ctx context.Context, command string) error
}

// NewTerminalDemo creates the demo service dispatching tool calls
// through d and caching launcher probes in c.
func NewTerminalDemo(d Dispatcher, c cache.Cache, log *slog.Logger) *TerminalDemo {
	if log == nil {
		log = slog.Default()
	}
	return &TerminalDemo{
		dispatch: d,
		cache:    c,
		log:      log,
		goos:     runtime.GOOS,
		sleep:    ctxSleep,
		probe:    probePath,
		launch:   launchDetached,
	}
}

func probePath(_ context.Context, name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

func launchDetached(_ context.Context, command string) error {
	// The terminal outlives the request, so the process is started
	// without a context and never waited on.
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/C", "start", command)
	case "darwin":
		cmd = exec.Command("sh", "-c", command)
	default:
		cmd = exec.Command(command)
	}
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

// DetectLauncher returns the terminal launch command for the host
// platform, or an execution error when none is available.
func (t *TerminalDemo) DetectLauncher(ctx context.Context) (string, error) {
	switch t.goos {
	case "darwin":
		return "open -a Terminal", nil
	case "windows":
		return "cmd", nil
	case "linux":
		if t.cache != nil {
			if cached, ok, _ := t.cache.Get(ctx, launcherCacheKey); ok {
				return string(cached), nil
			}
		}
		for _, term := range linuxTerminals {
			if t.probe(ctx, term) {
				if t.cache != nil {
					_ = t.cache.Set(ctx, launcherCacheKey, []byte(term), launcherCacheTTL)
				}
				return term, nil
			}
		}
	}
	return "", tool.Execf("no supported terminal found for platform: %s", t.goos)
}

// closeKeys returns the hotkey that closes the focused terminal window.
func (t *TerminalDemo) closeKeys() []string {
	if t.goos == "darwin" {
		return []string{"cmd", "q"}
	}
	return []string{"alt", "f4"}
}

// Run executes the demo and reports which phases completed. Screenshot
// and close failures are recorded but do not fail the run; everything
// before them does.
func (t *TerminalDemo) Run(ctx context.Context, p DemoParams) map[string]any {
	start := time.Now()
	completed := make([]string, 0, 7)

	result := map[string]any{
		"success":          false,
		"terminal_command": nil,
		"platform":         t.goos,
		"text_typed":       p.Text,
		"screenshot":       nil,
		"steps_completed":  completed,
		"total_time_ms":    int64(0),
		"error":            nil,
	}
	finish := func() map[string]any {
		result["steps_completed"] = completed
		result["total_time_ms"] = time.Since(start).Milliseconds()
		return result
	}
	fail := func(msg string) map[string]any {
		result["error"] = msg
		return finish()
	}

	launcher, err := t.DetectLauncher(ctx)
	if err != nil {
		return fail(err.Error())
	}
	result["terminal_command"] = launcher
	completed = append(completed, "detect_terminal")

	if err := t.launch(ctx, launcher); err != nil {
		return fail("failed to open terminal: " + err.Error())
	}
	completed = append(completed, "open_terminal")

	if err := t.sleep(ctx, time.Duration(p.TerminalWaitMS)*time.Millisecond); err != nil {
		return fail(err.Error())
	}
	completed = append(completed, "wait_for_terminal")

	if _, err := t.call(ctx, "type_text", map[string]any{"text": p.Text, "interval": 0.02}); err != nil {
		return fail("failed to type text: " + err.Error())
	}
	completed = append(completed, "type_text")

	if err := t.sleep(ctx, time.Duration(p.PostTypeWaitMS)*time.Millisecond); err != nil {
		return fail(err.Error())
	}

	if _, err := t.call(ctx, "press_key", map[string]any{"key": "enter"}); err != nil {
		return fail("failed to press enter: " + err.Error())
	}
	completed = append(completed, "press_enter")

	if err := t.sleep(ctx, time.Duration(p.PostEnterWaitMS)*time.Millisecond); err != nil {
		return fail(err.Error())
	}

	if p.CaptureShot {
		shot, err := t.call(ctx, "screenshot", nil)
		if err != nil {
			t.log.Warn("demo screenshot failed", "err", err)
		} else {
			result["screenshot"] = shot
			completed = append(completed, "capture_screenshot")
		}
	}

	if p.CloseTerminal {
		if _, err := t.call(ctx, "hotkey", map[string]any{"keys": t.closeKeys()}); err != nil {
			t.log.Warn("demo terminal close failed", "err", err)
		} else {
			completed = append(completed, "close_terminal")
		}
	}

	result["success"] = true
	return finish()
}

// call dispatches a tool and folds payload-level failure into an error.
func (t *TerminalDemo) call(ctx context.Context, name string, args map[string]any) (map[string]any, error) {
	payload, err := t.dispatch.Dispatch(ctx, name, args)
	if err != nil {
		return nil, err
	}
	if ok, exists := payload["success"].(bool); exists && !ok {
		return payload, payloadError(payload)
	}
	return payload, nil
}
