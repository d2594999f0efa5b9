package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

const dashScopeURL = "https://dashscope.aliyuncs.com/api/v1/services/aigc/text-generation/generation"

// QwenProvider calls the native DashScope generation API.
type QwenProvider struct {
	URL    string
	client *http.Client
}

// NewQwenProvider returns a provider for the public DashScope endpoint.
func NewQwenProvider() *QwenProvider {
	return &QwenProvider{URL: dashScopeURL, client: &http.Client{}}
}

var _ Provider = (*QwenProvider)(nil)

func (p *QwenProvider) Name() string {
	return "qwen"
}

func (p *QwenProvider) apiKey() string {
	if key := strings.TrimSpace(os.Getenv("DASHSCOPE_API_KEY")); key != "" {
		return key
	}
	// Fallback to QWEN_API_KEY if DASHSCOPE_API_KEY is not set
	return strings.TrimSpace(os.Getenv("QWEN_API_KEY"))
}

func (p *QwenProvider) Ready() error {
	if p.apiKey() == "" {
		return fmt.Errorf("%w: set DASHSCOPE_API_KEY or QWEN_API_KEY", ErrMissingCredentials)
	}
	return nil
}

func (p *QwenProvider) Generate(ctx context.Context, req Request) (string, error) {
	if err := p.Ready(); err != nil {
		return "", err
	}

	model := req.Model
	if model == "" {
		model = "qwen-max"
	}

	params := map[string]interface{}{
		"result_format": "message",
		"temperature":   req.Temperature,
	}
	if req.JSONMode {
		params["response_format"] = map[string]string{"type": "json_object"}
	}

	// See: https://help.aliyun.com/document_detail/2712532.html
	reqBody := map[string]interface{}{
		"model":      model,
		"input":      map[string]interface{}{"messages": req.Messages},
		"parameters": params,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal qwen request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.URL, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey())

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("qwen api call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("qwen api returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var result struct {
		Output struct {
			Choices []struct {
				Message struct {
					Content string `json:"content"`
				} `json:"message"`
			} `json:"choices"`
			// Some DashScope endpoints return 'text' directly in output
			Text string `json:"text"`
		} `json:"output"`
		Code    string `json:"code"`
		Message string `json:"message"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode qwen response: %w", err)
	}
	if result.Code != "" {
		return "", fmt.Errorf("qwen api error: %s - %s", result.Code, result.Message)
	}
	if len(result.Output.Choices) > 0 {
		return result.Output.Choices[0].Message.Content, nil
	}
	if result.Output.Text != "" {
		return result.Output.Text, nil
	}
	return "", fmt.Errorf("empty response from qwen api")
}
