// Package workflow defines the value types for multi-step tool
// workflows: the step description submitted by callers and the ordered
// per-step outcomes returned when the run finishes. Values live for one
// request and are never persisted.
package workflow

// Step is one tool invocation inside a workflow.
type Step struct {
	// Tool names the registered tool to dispatch.
	Tool string `json:"tool"`
	// Args is the argument mapping passed to the tool.
	Args map[string]any `json:"args,omitempty"`
	// WaitMS pauses this many milliseconds after a successful step.
	WaitMS int `json:"wait_ms,omitempty"`
	// Description is a human-readable label for reporting.
	Description string `json:"description,omitempty"`
	// ContinueOnError records the failure and proceeds instead of
	// halting the workflow.
	ContinueOnError bool `json:"continue_on_error,omitempty"`
}

// StepResult is the outcome of a single step.
type StepResult struct {
	StepIndex   int            `json:"step_index"`
	Tool        string         `json:"tool"`
	Description string         `json:"description"`
	Success     bool           `json:"success"`
	Result      map[string]any `json:"result"`
	Error       string         `json:"error,omitempty"`
	TimeMS      int64          `json:"time_ms"`
}

// Result is the overall outcome of a workflow run.
type Result struct {
	Success        bool         `json:"success"`
	TotalSteps     int          `json:"total_steps"`
	CompletedSteps int          `json:"completed_steps"`
	// FailedStep is the index of the first failing step whose
	// continue_on_error was false, or nil.
	FailedStep  *int         `json:"failed_step"`
	Results     []StepResult `json:"results"`
	TotalTimeMS int64        `json:"total_time_ms"`
	Error       string       `json:"error,omitempty"`
}
