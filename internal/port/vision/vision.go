// Package vision defines the port interface for vision-language-model
// analysis of captured images.
package vision

import "context"

// Analyzer answers a free-text prompt about a base64-encoded image.
// Implementations fail explicitly when the backing provider is not
// configured or unreachable; they never block on retries.
type Analyzer interface {
	// Analyze sends the image and prompt to the model and returns the
	// model's free-text response.
	Analyze(ctx context.Context, imageB64, prompt string) (string, error)
	// Model returns the configured model identifier, for reporting.
	Model() string
}
