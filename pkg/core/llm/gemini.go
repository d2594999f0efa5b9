package llm

import (
	"context"
	"fmt"
	"os"
	"strings"

	"google.golang.org/genai"
)

// GeminiProvider implements the Provider interface for Google's Gemini models.
type GeminiProvider struct {
	Model string // e.g. "gemini-2.0-flash"
}

var _ Provider = (*GeminiProvider)(nil)

func (p *GeminiProvider) Name() string {
	return "gemini"
}

func (p *GeminiProvider) Ready() error {
	if strings.TrimSpace(os.Getenv("GEMINI_API_KEY")) == "" {
		return fmt.Errorf("%w: GEMINI_API_KEY environment variable not set", ErrMissingCredentials)
	}
	return nil
}

// Generate sends a generateContent request through the GenAI SDK.
func (p *GeminiProvider) Generate(ctx context.Context, req Request) (string, error) {
	if err := p.Ready(); err != nil {
		return "", err
	}

	model := req.Model
	if model == "" {
		model = p.Model
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  os.Getenv("GEMINI_API_KEY"),
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create GenAI client: %w", err)
	}

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(req.Temperature)),
	}
	if req.JSONMode {
		config.ResponseMIMEType = "application/json"
	}

	system, turns := SplitSystem(req.Messages)
	if system != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		}
	}

	contents := make([]*genai.Content, 0, len(turns))
	for _, m := range turns {
		var role genai.Role = genai.RoleUser
		if m.Role == RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}
	if len(contents) == 0 {
		return "", fmt.Errorf("gemini: no user content in request")
	}

	result, err := client.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}
	return result.Text(), nil
}
