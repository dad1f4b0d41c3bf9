// Package service contains the orchestration layer: the workflow engine
// that runs tool sequences through the registry, and the terminal demo
// built on top of it.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/rigpilot/rigpilot/internal/domain/workflow"
)

// Dispatcher dispatches a named tool call. The registry satisfies it.
type Dispatcher interface {
	Dispatch(ctx context.Context, name string, args map[string]any) (map[string]any, error)
}

// Engine runs workflows: ordered tool steps with per-step delays and
// error handling. An Engine is stateless between runs and safe for
// concurrent use.
type Engine struct {
	dispatch Dispatcher
	log      *slog.Logger
	sleep    func(ctx context.Context, d time.Duration) error
	now      func() time.Time
}

// NewEngine creates a workflow engine dispatching through d.
func NewEngine(d Dispatcher, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{
		dispatch: d,
		log:      log,
		sleep:    ctxSleep,
		now:      time.Now,
	}
}

// Run executes the steps strictly in order. A failing step halts the
// run unless its continue_on_error is set, in which case the failure is
// recorded and the run proceeds. The wait_ms delay applies only after a
// step that succeeded. An empty step list is a successful run of zero
// steps.
//
// Run never returns an error: every failure mode is expressed in the
// Result so callers see one uniform report shape.
func (e *Engine) Run(ctx context.Context, steps []workflow.Step) *workflow.Result {
	runID := uuid.NewString()
	start := e.now()
	log := e.log.With("workflow_id", runID)
	log.Info("workflow started", "total_steps", len(steps))

	res := &workflow.Result{
		Success:    true,
		TotalSteps: len(steps),
		Results:    make([]workflow.StepResult, 0, len(steps)),
	}

	for i, step := range steps {
		sr := workflow.StepResult{
			StepIndex:   i,
			Tool:        step.Tool,
			Description: step.Description,
		}
		if sr.Description == "" {
			sr.Description = "Step " + strconv.Itoa(i+1)
		}

		stepStart := e.now()
		payload, err := e.runStep(ctx, step)
		sr.TimeMS = e.now().Sub(stepStart).Milliseconds()
		sr.Result = payload

		if err != nil {
			sr.Error = err.Error()
		} else {
			sr.Success = true
			res.CompletedSteps++
		}
		res.Results = append(res.Results, sr)

		if err != nil {
			log.Warn("workflow step failed",
				"step", i,
				"tool", step.Tool,
				"continue_on_error", step.ContinueOnError,
				"err", err,
			)
			if !step.ContinueOnError {
				idx := i
				res.Success = false
				res.FailedStep = &idx
				res.Error = sr.Error
				break
			}
			continue
		}

		if step.WaitMS > 0 {
			if werr := e.sleep(ctx, time.Duration(step.WaitMS)*time.Millisecond); werr != nil {
				idx := i
				res.Success = false
				res.FailedStep = &idx
				res.Error = werr.Error()
				res.Results[len(res.Results)-1].Success = false
				res.Results[len(res.Results)-1].Error = werr.Error()
				res.CompletedSteps--
				break
			}
		}
	}

	res.TotalTimeMS = e.now().Sub(start).Milliseconds()
	log.Info("workflow finished",
		"success", res.Success,
		"completed_steps", res.CompletedSteps,
		"total_time_ms", res.TotalTimeMS,
	)
	return res
}

// runStep dispatches one step and folds payload-level failures into an
// error, so the engine has a single failure signal.
func (e *Engine) runStep(ctx context.Context, step workflow.Step) (map[string]any, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if step.Tool == "" {
		return nil, errMissingTool
	}

	payload, err := e.dispatch.Dispatch(ctx, step.Tool, step.Args)
	if err != nil {
		return nil, err
	}
	if ok, exists := payload["success"].(bool); exists && !ok {
		return payload, payloadError(payload)
	}
	return payload, nil
}

var errMissingTool = errors.New("step is missing the tool field")

// payloadError extracts the "error" string from a failure payload.
func payloadError(payload map[string]any) error {
	if msg, ok := payload["error"].(string); ok && msg != "" {
		return errors.New(msg)
	}
	return errors.New("tool reported failure")
}

// ctxSleep sleeps for d or until the context is done.
func ctxSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
