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

// DefaultOllamaModel is used when no model is configured.
const DefaultOllamaModel = "llama3.2"

// OllamaGenerator generates text with a self-hosted Ollama model.
type OllamaGenerator struct {
	model   string
	baseURL string
	client  *http.Client
}

// NewOllamaGenerator creates an Ollama-backed generator.
func NewOllamaGenerator(model, baseURL string) *OllamaGenerator {
	if model == "" {
		model = DefaultOllamaModel
	}
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	return &OllamaGenerator{
		model:   model,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 120 * time.Second},
	}
}

func (g *OllamaGenerator) Name() string {
	return "ollama"
}

type ollamaRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type ollamaResponse struct {
	Response        string `json:"response"`
	PromptEvalCount int    `json:"prompt_eval_count"`
	EvalCount       int    `json:"eval_count"`
}

// Generate submits the instruction to the Ollama generate endpoint.
func (g *OllamaGenerator) Generate(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()

	body := ollamaRequest{
		Model:  g.model,
		Prompt: req.Instruction,
		Stream: false,
		Options: ollamaOptions{
			Temperature: req.Temperature,
			NumPredict:  req.MaxTokens,
		},
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal generation request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", fmt.Sprintf("%s/api/generate", g.baseURL), bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create generation request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("generation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("generator returned status %d", resp.StatusCode)
	}

	var out ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode generation response: %w", err)
	}

	text := postprocess.Clean(out.Response)
	if text == "" {
		return nil, fmt.Errorf("generator returned empty text")
	}

	return &Result{
		Text:      text,
		Model:     g.model,
		TokensIn:  out.PromptEvalCount,
		TokensOut: out.EvalCount,
		Latency:   time.Since(start),
	}, nil
}
