package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/rigpilot/rigpilot/internal/domain/workflow"
)

type fakeDispatcher struct {
	calls    []string
	handlers map[string]func(args map[string]any) (map[string]any, error)
}

func (f *fakeDispatcher) Dispatch(_ context.Context, name string, args map[string]any) (map[string]any, error) {
	f.calls = append(f.calls, name)
	if h, ok := f.handlers[name]; ok {
		return h(args)
	}
	return map[string]any{"success": true}, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEngine(d Dispatcher) *Engine {
	e := NewEngine(d, testLogger())
	e.sleep = func(context.Context, time.Duration) error { return nil }
	return e
}

func TestEngineEmptyWorkflow(t *testing.T) {
	e := newTestEngine(&fakeDispatcher{})
	res := e.Run(context.Background(), nil)

	if !res.Success {
		t.Error("empty workflow should succeed")
	}
	if res.TotalSteps != 0 || res.CompletedSteps != 0 {
		t.Errorf("totals = %d/%d, want 0/0", res.CompletedSteps, res.TotalSteps)
	}
	if res.FailedStep != nil {
		t.Errorf("FailedStep = %v, want nil", *res.FailedStep)
	}
	if len(res.Results) != 0 {
		t.Errorf("Results = %v, want empty", res.Results)
	}
}

func TestEngineRunsStepsInOrder(t *testing.T) {
	d := &fakeDispatcher{}
	e := newTestEngine(d)

	res := e.Run(context.Background(), []workflow.Step{
		{Tool: "first"},
		{Tool: "second"},
		{Tool: "third"},
	})

	if !res.Success {
		t.Fatalf("run failed: %s", res.Error)
	}
	if res.CompletedSteps != 3 {
		t.Errorf("CompletedSteps = %d, want 3", res.CompletedSteps)
	}
	want := []string{"first", "second", "third"}
	for i, name := range want {
		if d.calls[i] != name {
			t.Errorf("calls[%d] = %q, want %q", i, d.calls[i], name)
		}
		if res.Results[i].StepIndex != i {
			t.Errorf("Results[%d].StepIndex = %d", i, res.Results[i].StepIndex)
		}
	}
}

func TestEngineHaltsOnFailure(t *testing.T) {
	d := &fakeDispatcher{handlers: map[string]func(map[string]any) (map[string]any, error){
		"bad": func(map[string]any) (map[string]any, error) {
			return nil, errors.New("dispatch exploded")
		},
	}}
	e := newTestEngine(d)

	res := e.Run(context.Background(), []workflow.Step{
		{Tool: "ok"},
		{Tool: "bad"},
		{Tool: "never"},
	})

	if res.Success {
		t.Fatal("expected failed run")
	}
	if res.FailedStep == nil || *res.FailedStep != 1 {
		t.Fatalf("FailedStep = %v, want 1", res.FailedStep)
	}
	if res.Error != "dispatch exploded" {
		t.Errorf("Error = %q", res.Error)
	}
	if res.CompletedSteps != 1 {
		t.Errorf("CompletedSteps = %d, want 1", res.CompletedSteps)
	}
	if len(res.Results) != 2 {
		t.Fatalf("Results len = %d, want 2 (halted run)", len(res.Results))
	}
	for _, call := range d.calls {
		if call == "never" {
			t.Error("step after failure was dispatched")
		}
	}
}

func TestEngineContinueOnError(t *testing.T) {
	d := &fakeDispatcher{handlers: map[string]func(map[string]any) (map[string]any, error){
		"bad": func(map[string]any) (map[string]any, error) {
			return nil, errors.New("tolerated")
		},
	}}
	e := newTestEngine(d)

	res := e.Run(context.Background(), []workflow.Step{
		{Tool: "bad", ContinueOnError: true},
		{Tool: "ok"},
	})

	if !res.Success {
		t.Fatalf("continue_on_error run failed: %s", res.Error)
	}
	if res.FailedStep != nil {
		t.Errorf("FailedStep = %v, want nil", *res.FailedStep)
	}
	if res.CompletedSteps != 1 {
		t.Errorf("CompletedSteps = %d, want 1", res.CompletedSteps)
	}
	if res.Results[0].Success || res.Results[0].Error == "" {
		t.Error("failing step should be recorded as failed with its error")
	}
	if !res.Results[1].Success {
		t.Error("step after tolerated failure did not run")
	}
}

func TestEnginePayloadFailure(t *testing.T) {
	// A handler can report failure in its payload instead of an error.
	d := &fakeDispatcher{handlers: map[string]func(map[string]any) (map[string]any, error){
		"soft": func(map[string]any) (map[string]any, error) {
			return map[string]any{"success": false, "error": "soft failure"}, nil
		},
	}}
	e := newTestEngine(d)

	res := e.Run(context.Background(), []workflow.Step{{Tool: "soft"}})
	if res.Success {
		t.Fatal("payload failure should fail the run")
	}
	if res.Error != "soft failure" {
		t.Errorf("Error = %q, want soft failure", res.Error)
	}
	if res.Results[0].Result == nil {
		t.Error("failing payload should still be recorded")
	}
}

func TestEngineMissingToolField(t *testing.T) {
	e := newTestEngine(&fakeDispatcher{})
	res := e.Run(context.Background(), []workflow.Step{{Args: map[string]any{"x": 1}}})
	if res.Success {
		t.Fatal("step without tool name should fail")
	}
	if res.FailedStep == nil || *res.FailedStep != 0 {
		t.Errorf("FailedStep = %v, want 0", res.FailedStep)
	}
}

func TestEngineWaitAfterSuccessOnly(t *testing.T) {
	var waits []time.Duration
	d := &fakeDispatcher{handlers: map[string]func(map[string]any) (map[string]any, error){
		"bad": func(map[string]any) (map[string]any, error) {
			return nil, errors.New("nope")
		},
	}}
	e := NewEngine(d, testLogger())
	e.sleep = func(_ context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	}

	e.Run(context.Background(), []workflow.Step{
		{Tool: "ok", WaitMS: 250},
		{Tool: "bad", WaitMS: 500, ContinueOnError: true},
		{Tool: "ok"},
	})

	if len(waits) != 1 || waits[0] != 250*time.Millisecond {
		t.Errorf("waits = %v, want [250ms] (no wait after failed step)", waits)
	}
}

func TestEngineCancelledContext(t *testing.T) {
	d := &fakeDispatcher{}
	e := newTestEngine(d)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := e.Run(ctx, []workflow.Step{{Tool: "ok"}})

	if res.Success {
		t.Error("run with cancelled context should fail")
	}
	if len(d.calls) != 0 {
		t.Errorf("dispatched %v after cancellation", d.calls)
	}
}

func TestEngineDefaultDescriptions(t *testing.T) {
	e := newTestEngine(&fakeDispatcher{})
	res := e.Run(context.Background(), []workflow.Step{
		{Tool: "ok"},
		{Tool: "ok", Description: "custom label"},
	})

	if res.Results[0].Description != "Step 1" {
		t.Errorf("Description = %q, want Step 1", res.Results[0].Description)
	}
	if res.Results[1].Description != "custom label" {
		t.Errorf("Description = %q, want custom label", res.Results[1].Description)
	}
}
