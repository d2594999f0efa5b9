package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
)

// ChatCompletionsProvider talks to any endpoint implementing the OpenAI
// /chat/completions wire format (OpenAI, DeepSeek, Moonshot Kimi, Volcengine Doubao).
type ChatCompletionsProvider struct {
	name         string
	baseURL      string
	keyEnvs      []string
	defaultModel string
	client       *http.Client
	maxRetries   int
}

// NewOpenAIProvider reads OPENAI_API_KEY; OPENAI_BASE_URL overrides the endpoint.
func NewOpenAIProvider() *ChatCompletionsProvider {
	base := os.Getenv("OPENAI_BASE_URL")
	if base == "" {
		base = "https://api.openai.com/v1"
	}
	return NewChatCompletionsProvider("openai", base, "gpt-4o-mini", "OPENAI_API_KEY")
}

// NewDeepSeekProvider reads DEEPSEEK_API_KEY.
func NewDeepSeekProvider() *ChatCompletionsProvider {
	return NewChatCompletionsProvider("deepseek", "https://api.deepseek.com", "deepseek-chat", "DEEPSEEK_API_KEY")
}

// NewKimiProvider reads MOONSHOT_API_KEY.
func NewKimiProvider() *ChatCompletionsProvider {
	return NewChatCompletionsProvider("kimi", "https://api.moonshot.cn/v1", "moonshot-v1-32k", "MOONSHOT_API_KEY")
}

// NewDoubaoProvider reads ARK_API_KEY. Doubao expects an endpoint id as model.
func NewDoubaoProvider() *ChatCompletionsProvider {
	return NewChatCompletionsProvider("doubao", "https://ark.cn-beijing.volces.com/api/v3", os.Getenv("ARK_ENDPOINT_ID"), "ARK_API_KEY")
}

// NewChatCompletionsProvider builds a provider for an OpenAI-compatible endpoint.
// keyEnvs are tried in order.
func NewChatCompletionsProvider(name, baseURL, defaultModel string, keyEnvs ...string) *ChatCompletionsProvider {
	return &ChatCompletionsProvider{
		name:         name,
		baseURL:      strings.TrimRight(baseURL, "/"),
		keyEnvs:      keyEnvs,
		defaultModel: defaultModel,
		client:       &http.Client{Timeout: 5 * time.Minute},
		maxRetries:   2,
	}
}

// WithHTTPClient replaces the HTTP client (tests point it at httptest servers).
func (p *ChatCompletionsProvider) WithHTTPClient(c *http.Client) *ChatCompletionsProvider {
	p.client = c
	return p
}

// WithMaxRetries sets how often the SDK retries 408/429/5xx responses.
func (p *ChatCompletionsProvider) WithMaxRetries(n int) *ChatCompletionsProvider {
	p.maxRetries = n
	return p
}

var _ Provider = (*ChatCompletionsProvider)(nil)

func (p *ChatCompletionsProvider) Name() string {
	return p.name
}

func (p *ChatCompletionsProvider) apiKey() string {
	for _, env := range p.keyEnvs {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			return v
		}
	}
	return ""
}

func (p *ChatCompletionsProvider) Ready() error {
	if p.apiKey() == "" {
		return fmt.Errorf("%w: set %s for provider %s", ErrMissingCredentials, strings.Join(p.keyEnvs, " or "), p.name)
	}
	return nil
}

func (p *ChatCompletionsProvider) newClient() openai.Client {
	return openai.NewClient(
		option.WithAPIKey(p.apiKey()),
		option.WithBaseURL(p.baseURL),
		option.WithHTTPClient(p.client),
		option.WithMaxRetries(p.maxRetries),
	)
}

func toChatMessages(msgs []Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		case RoleAssistant:
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}

func (p *ChatCompletionsProvider) Generate(ctx context.Context, req Request) (string, error) {
	if err := p.Ready(); err != nil {
		return "", err
	}
	tag := strings.ToUpper(p.name)

	model := req.Model
	if model == "" {
		model = p.defaultModel
	}

	params := openai.ChatCompletionNewParams{
		Model:       model,
		Messages:    toChatMessages(req.Messages),
		Temperature: openai.Float(req.Temperature),
	}
	if req.JSONMode {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}

	client := p.newClient()
	resp, err := client.Chat.Completions.New(ctx, params)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("%s_API_ERROR: status=%d: %w", tag, apiErr.StatusCode, err)
		}
		return "", fmt.Errorf("%s_API_CALL_ERROR: %w", tag, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s_NO_CHOICES: empty response from model %s", tag, model)
	}
	return resp.Choices[0].Message.Content, nil
}
