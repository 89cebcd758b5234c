// Package interpret turns natural-language infrastructure intent into
// structured resource descriptions via a text-generation provider.
//
// The planner core never calls a model directly: everything that needs
// language understanding goes through the Interpreter, so planning stays
// independently testable with a fake Completer.
package interpret

import (
	"context"
	"fmt"
	"strings"

	tfdraft "github.com/tfdraft/tfdraft-go"
)

// Completer is a minimal text-generation capability. Providers under
// internal/providers implement it for specific APIs.
type Completer interface {
	// Name returns the provider name (e.g., "openai").
	Name() string
	// Complete sends a system and user prompt and returns the response text.
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// Interpreter produces structured resource descriptions and planning
// documents from free-form intent.
type Interpreter struct {
	completer Completer
}

// New creates an Interpreter backed by the given completer.
func New(c Completer) *Interpreter {
	return &Interpreter{completer: c}
}

// Provider returns the name of the backing provider.
func (i *Interpreter) Provider() string {
	return i.completer.Name()
}

// Interpret extracts resource descriptions from an intent statement.
// The model is asked for a JSON array matching the Resource shape; the
// response is validated before the planner ever sees it.
func (i *Interpreter) Interpret(ctx context.Context, intent string) ([]tfdraft.Resource, error) {
	response, err := i.completer.Complete(ctx, ResourceSystemPrompt, fmt.Sprintf(ResourcePrompt, intent))
	if err != nil {
		return nil, fmt.Errorf("interpreting intent: %w", err)
	}

	payload := ExtractJSON(response)
	if payload == "" {
		return nil, fmt.Errorf("interpreting intent: no JSON in model response")
	}

	resources, err := tfdraft.DecodeResources([]byte(payload))
	if err != nil {
		return nil, fmt.Errorf("interpreting intent: %w", err)
	}
	return resources, nil
}

// Document produces a markdown planning artifact from a formatted prompt.
func (i *Interpreter) Document(ctx context.Context, system, prompt string) (string, error) {
	response, err := i.completer.Complete(ctx, system, prompt)
	if err != nil {
		return "", fmt.Errorf("generating document: %w", err)
	}
	return strings.TrimSpace(response) + "\n", nil
}

// ExtractJSON returns the first JSON payload in a model response. Fenced
// ```json blocks win; otherwise the outermost bracketed span is used.
func ExtractJSON(text string) string {
	for _, fence := range []string{"```json", "```"} {
		start := strings.Index(text, fence)
		if start < 0 {
			continue
		}
		rest := text[start+len(fence):]
		end := strings.Index(rest, "```")
		if end < 0 {
			continue
		}
		candidate := strings.TrimSpace(rest[:end])
		if strings.HasPrefix(candidate, "[") || strings.HasPrefix(candidate, "{") {
			return candidate
		}
	}

	for _, pair := range [][2]string{{"[", "]"}, {"{", "}"}} {
		start := strings.Index(text, pair[0])
		end := strings.LastIndex(text, pair[1])
		if start >= 0 && end > start {
			return strings.TrimSpace(text[start : end+1])
		}
	}

	return ""
}
