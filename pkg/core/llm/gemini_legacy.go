package llm

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiLegacyProvider uses the original generative-ai-go SDK. Kept for
// deployments pinned to the v1beta client.
type GeminiLegacyProvider struct {
	Model string
}

var _ Provider = (*GeminiLegacyProvider)(nil)

func (p *GeminiLegacyProvider) Name() string {
	return "gemini-legacy"
}

func (p *GeminiLegacyProvider) Ready() error {
	if strings.TrimSpace(os.Getenv("GEMINI_API_KEY")) == "" {
		return fmt.Errorf("%w: GEMINI_API_KEY environment variable not set", ErrMissingCredentials)
	}
	return nil
}

func (p *GeminiLegacyProvider) Generate(ctx context.Context, req Request) (string, error) {
	if err := p.Ready(); err != nil {
		return "", err
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(os.Getenv("GEMINI_API_KEY")))
	if err != nil {
		return "", fmt.Errorf("failed to create Gemini client: %v", err)
	}
	defer client.Close()

	name := req.Model
	if name == "" {
		name = p.Model
	}
	if name == "" {
		name = "gemini-1.5-flash"
	}

	model := client.GenerativeModel(name)
	model.SetTemperature(float32(req.Temperature))
	if req.JSONMode {
		model.ResponseMIMEType = "application/json"
	}

	system, turns := SplitSystem(req.Messages)
	if system != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	}
	if len(turns) == 0 {
		return "", fmt.Errorf("gemini-legacy: no user content in request")
	}

	cs := model.StartChat()
	for _, m := range turns[:len(turns)-1] {
		role := "user"
		if m.Role == RoleAssistant {
			role = "model"
		}
		cs.History = append(cs.History, &genai.Content{Role: role, Parts: []genai.Part{genai.Text(m.Content)}})
	}

	resp, err := cs.SendMessage(ctx, genai.Text(turns[len(turns)-1].Content))
	if err != nil {
		return "", fmt.Errorf("gemini-legacy generation failed: %w", err)
	}

	var sb strings.Builder
	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			if txt, ok := part.(genai.Text); ok {
				sb.WriteString(string(txt))
			}
		}
	}
	return sb.String(), nil
}
