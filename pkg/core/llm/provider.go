package llm

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrMissingCredentials marks configuration errors: the request cannot
	// proceed at all and must fail as a whole.
	ErrMissingCredentials = errors.New("llm: missing credentials")
	// ErrProviderUnknown is returned for a provider name that is not registered.
	ErrProviderUnknown = errors.New("llm: unknown provider")
)

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is a single LLM round trip.
type Request struct {
	Model       string
	Temperature float64
	JSONMode    bool
	Messages    []Message
}

// Provider is the interface for all LLM providers.
type Provider interface {
	// Name is the registry name of the provider (e.g. "openai", "gemini").
	Name() string
	// Ready reports ErrMissingCredentials when the provider cannot be called.
	Ready() error
	// Generate returns the raw text of the model's reply.
	Generate(ctx context.Context, req Request) (string, error)
}

// SplitSystem separates system messages from the conversation turns.
func SplitSystem(messages []Message) (string, []Message) {
	var system []string
	var rest []Message
	for _, m := range messages {
		if m.Role == RoleSystem {
			if strings.TrimSpace(m.Content) != "" {
				system = append(system, m.Content)
			}
			continue
		}
		rest = append(rest, m)
	}
	return strings.Join(system, "\n\n"), rest
}
