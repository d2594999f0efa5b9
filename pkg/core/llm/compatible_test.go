package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type capturedChatRequest struct {
	Model          string    `json:"model"`
	Messages       []Message `json:"messages"`
	Temperature    float64   `json:"temperature"`
	ResponseFormat *struct {
		Type string `json:"type"`
	} `json:"response_format"`
}

func TestChatCompletionsProvider_Generate(t *testing.T) {
	var got capturedChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("missing bearer token, got %q", r.Header.Get("Authorization"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"c1","object":"chat.completion","model":"model-x","choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"{\"ok\":true}"}}]}`))
	}))
	defer srv.Close()

	t.Setenv("TEST_LLM_KEY", "test-key")
	p := NewChatCompletionsProvider("test", srv.URL, "model-x", "TEST_LLM_KEY")

	out, err := p.Generate(context.Background(), Request{
		Temperature: 0.1,
		JSONMode:    true,
		Messages:    []Message{{Role: RoleSystem, Content: "sys"}, {Role: RoleUser, Content: "hi"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != `{"ok":true}` {
		t.Errorf("unexpected content %q", out)
	}
	if got.Model != "model-x" {
		t.Errorf("expected default model, got %q", got.Model)
	}
	if got.ResponseFormat == nil || got.ResponseFormat.Type != "json_object" {
		t.Error("JSON mode should set response_format json_object")
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != RoleSystem || got.Messages[1].Content != "hi" {
		t.Errorf("unexpected messages %+v", got.Messages)
	}
	if got.Temperature != 0.1 {
		t.Errorf("expected temperature 0.1, got %v", got.Temperature)
	}
}

func TestChatCompletionsProvider_PlainTextMode(t *testing.T) {
	var got capturedChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"c2","object":"chat.completion","model":"override","choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"hello"}}]}`))
	}))
	defer srv.Close()

	t.Setenv("TEST_LLM_KEY", "test-key")
	p := NewChatCompletionsProvider("test", srv.URL+"/", "model-x", "TEST_LLM_KEY")

	out, err := p.Generate(context.Background(), Request{
		Model:    "override",
		Messages: []Message{{Role: RoleUser, Content: "q"}, {Role: RoleAssistant, Content: "a"}, {Role: RoleUser, Content: "q2"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "hello" {
		t.Errorf("unexpected content %q", out)
	}
	if got.Model != "override" {
		t.Errorf("request model should win, got %q", got.Model)
	}
	if got.ResponseFormat != nil {
		t.Error("response_format must be omitted outside JSON mode")
	}
	if len(got.Messages) != 3 || got.Messages[1].Role != RoleAssistant {
		t.Errorf("unexpected messages %+v", got.Messages)
	}
}

func TestChatCompletionsProvider_MissingKey(t *testing.T) {
	t.Setenv("TEST_LLM_KEY_EMPTY", "")
	p := NewChatCompletionsProvider("test", "http://127.0.0.1:1", "m", "TEST_LLM_KEY_EMPTY")

	_, err := p.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "x"}}})
	if !errors.Is(err, ErrMissingCredentials) {
		t.Fatalf("expected ErrMissingCredentials, got %v", err)
	}
}

func TestChatCompletionsProvider_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	t.Setenv("TEST_LLM_KEY", "k")
	p := NewChatCompletionsProvider("test", srv.URL, "m", "TEST_LLM_KEY").WithMaxRetries(0)
	_, err := p.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "x"}}})
	if err == nil || !strings.Contains(err.Error(), "TEST_API_ERROR") || !strings.Contains(err.Error(), "status=429") {
		t.Fatalf("expected TEST_API_ERROR with status, got %v", err)
	}
	if errors.Is(err, ErrMissingCredentials) {
		t.Error("HTTP failures must not be reported as configuration errors")
	}
}

func TestSplitSystem(t *testing.T) {
	sys, rest := SplitSystem([]Message{
		{Role: RoleSystem, Content: "a"},
		{Role: RoleUser, Content: "u"},
		{Role: RoleSystem, Content: "b"},
		{Role: RoleAssistant, Content: "r"},
	})
	if sys != "a\n\nb" {
		t.Errorf("unexpected system prompt %q", sys)
	}
	if len(rest) != 2 || rest[0].Role != RoleUser || rest[1].Role != RoleAssistant {
		t.Errorf("unexpected turns %+v", rest)
	}
}

func TestMockProvider_Script(t *testing.T) {
	m := NewMockProvider("one", "two")
	ctx := context.Background()
	for _, want := range []string{"one", "two", "{}"} {
		got, err := m.Generate(ctx, Request{Messages: []Message{{Role: RoleUser, Content: want}}})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	}
	if m.Calls() != 3 {
		t.Errorf("expected 3 calls, got %d", m.Calls())
	}
	if m.LastUserPrompt(1) != "two" {
		t.Errorf("unexpected recorded prompt %q", m.LastUserPrompt(1))
	}
}
