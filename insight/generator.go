// Package insight is the boundary to the external language model that writes
// the daily "insight" summaries. The model is an opaque text-in/text-out
// service; callers own the prompts and the fallback behavior.
package insight

import (
	"context"
	"errors"
)

// ErrDisabled is returned when no generator is configured. Callers recover
// with their deterministic fallback text.
var ErrDisabled = errors.New("insight generation is not configured")

type Generator interface {
	// Generate returns free text for the given system message and prompt.
	Generate(ctx context.Context, system string, prompt string) (string, error)
}

// Disabled is the generator used when no API key is configured.
type Disabled struct{}

func (Disabled) Generate(ctx context.Context, system string, prompt string) (string, error) {
	return "", ErrDisabled
}
