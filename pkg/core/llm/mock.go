package llm

import (
	"context"
	"sync"
)

// MockProvider returns scripted replies and records every request. Tests
// register it on an agent.Manager under the name "mock".
type MockProvider struct {
	mu       sync.Mutex
	replies  []string
	Fallback string
	// Respond, when set, computes the reply instead of the script.
	Respond  func(req Request) (string, error)
	Requests []Request
}

// NewMockProvider replays replies in order, then Fallback ("{}").
func NewMockProvider(replies ...string) *MockProvider {
	return &MockProvider{replies: replies, Fallback: "{}"}
}

var _ Provider = (*MockProvider)(nil)

func (m *MockProvider) Name() string {
	return "mock"
}

func (m *MockProvider) Ready() error {
	return nil
}

func (m *MockProvider) Generate(ctx context.Context, req Request) (string, error) {
	m.mu.Lock()
	m.Requests = append(m.Requests, req)
	respond := m.Respond
	var reply string
	scripted := len(m.replies) > 0
	if scripted {
		reply = m.replies[0]
		m.replies = m.replies[1:]
	}
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if respond != nil {
		return respond(req)
	}
	if scripted {
		return reply, nil
	}
	return m.Fallback, nil
}

// Calls returns the number of requests received so far.
func (m *MockProvider) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Requests)
}

// LastUserPrompt returns the final user message of the i-th request.
func (m *MockProvider) LastUserPrompt(i int) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i < 0 || i >= len(m.Requests) {
		return ""
	}
	msgs := m.Requests[i].Messages
	for j := len(msgs) - 1; j >= 0; j-- {
		if msgs[j].Role == RoleUser {
			return msgs[j].Content
		}
	}
	return ""
}
