package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/valpere/promptadapt/internal/postprocess"
)

// DefaultOpenRouterModel is used when no model is configured.
const DefaultOpenRouterModel = "meta-llama/llama-3.1-8b-instruct:free"

// OpenRouterGenerator generates text through the OpenRouter chat API.
type OpenRouterGenerator struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewOpenRouterGenerator creates an OpenRouter-backed generator.
func NewOpenRouterGenerator(apiKey, model, baseURL string) *OpenRouterGenerator {
	if model == "" {
		model = DefaultOpenRouterModel
	}
	if baseURL == "" {
		baseURL = "https://openrouter.ai/api/v1"
	}
	return &OpenRouterGenerator{
		apiKey:  apiKey,
		model:   model,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 120 * time.Second},
	}
}

func (g *OpenRouterGenerator) Name() string {
	return "openrouter"
}

type openRouterMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openRouterRequest struct {
	Model       string              `json:"model"`
	Messages    []openRouterMessage `json:"messages"`
	Temperature float64             `json:"temperature"`
	MaxTokens   int                 `json:"max_tokens,omitempty"`
}

type openRouterResponse struct {
	Choices []struct {
		Message openRouterMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

// Generate submits the instruction as a single user message.
func (g *OpenRouterGenerator) Generate(ctx context.Context, req Request) (*Result, error) {
	if g.apiKey == "" {
		return nil, fmt.Errorf("OpenRouter API key required")
	}

	start := time.Now()

	body := openRouterRequest{
		Model: g.model,
		Messages: []openRouterMessage{
			{Role: "user", Content: req.Instruction},
		},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal generation request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", fmt.Sprintf("%s/chat/completions", g.baseURL), bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create generation request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", fmt.Sprintf("Bearer %s", g.apiKey))
	httpReq.Header.Set("HTTP-Referer", "https://promptadapt.local")
	httpReq.Header.Set("X-Title", "PromptAdapt")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("generation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("generator returned status %d", resp.StatusCode)
	}

	var out openRouterResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode generation response: %w", err)
	}
	if len(out.Choices) == 0 {
		return nil, fmt.Errorf("generator returned no choices")
	}

	text := postprocess.Clean(out.Choices[0].Message.Content)
	if text == "" {
		return nil, fmt.Errorf("generator returned empty text")
	}

	return &Result{
		Text:      text,
		Model:     g.model,
		TokensIn:  out.Usage.PromptTokens,
		TokensOut: out.Usage.CompletionTokens,
		Latency:   time.Since(start),
	}, nil
}
