package generator_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/valpere/promptadapt/internal/generator"
)

func TestOllamaGenerator_Generate(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("failed to decode request body: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"response":          "Bitte senden Sie den Bericht.",
			"prompt_eval_count": 42,
			"eval_count":        17,
		})
	}))
	defer server.Close()

	g := generator.NewOllamaGenerator("test-model", server.URL)
	res, err := g.Generate(context.Background(), generator.Request{
		Instruction: "rewrite this",
		Temperature: 0.3,
		MaxTokens:   100,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Text != "Bitte senden Sie den Bericht." {
		t.Errorf("unexpected text: %q", res.Text)
	}
	if res.Model != "test-model" {
		t.Errorf("unexpected model: %q", res.Model)
	}
	if res.TokensIn != 42 || res.TokensOut != 17 {
		t.Errorf("unexpected token counts: in=%d out=%d", res.TokensIn, res.TokensOut)
	}

	if gotBody["model"] != "test-model" {
		t.Errorf("expected model in request, got %v", gotBody["model"])
	}
	if gotBody["stream"] != false {
		t.Errorf("expected stream=false, got %v", gotBody["stream"])
	}
	opts, ok := gotBody["options"].(map[string]any)
	if !ok {
		t.Fatalf("expected options object, got %v", gotBody["options"])
	}
	if opts["temperature"] != 0.3 {
		t.Errorf("expected temperature 0.3, got %v", opts["temperature"])
	}
}

func TestOllamaGenerator_CleansOutput(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"response": "<thinking>hmm</thinking>Here's the adapted prompt: \"Bitte senden Sie den Bericht.\"",
		})
	}))
	defer server.Close()

	g := generator.NewOllamaGenerator("", server.URL)
	res, err := g.Generate(context.Background(), generator.Request{Instruction: "x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Text != "Bitte senden Sie den Bericht." {
		t.Errorf("expected cleaned output, got %q", res.Text)
	}
}

func TestOllamaGenerator_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer server.Close()

	g := generator.NewOllamaGenerator("", server.URL)
	if _, err := g.Generate(context.Background(), generator.Request{Instruction: "x"}); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestOllamaGenerator_EmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"response": "   "})
	}))
	defer server.Close()

	g := generator.NewOllamaGenerator("", server.URL)
	if _, err := g.Generate(context.Background(), generator.Request{Instruction: "x"}); err == nil {
		t.Fatal("expected error for empty generation")
	}
}

func TestOpenRouterGenerator_Generate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected Authorization header: %q", got)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": "Le escribo para pedirle lo siguiente."}},
			},
			"usage": map[string]any{"prompt_tokens": 10, "completion_tokens": 8},
		})
	}))
	defer server.Close()

	g := generator.NewOpenRouterGenerator("test-key", "", server.URL)
	res, err := g.Generate(context.Background(), generator.Request{Instruction: "rewrite this"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Text != "Le escribo para pedirle lo siguiente." {
		t.Errorf("unexpected text: %q", res.Text)
	}
	if res.Model != generator.DefaultOpenRouterModel {
		t.Errorf("unexpected model: %q", res.Model)
	}
	if res.TokensIn != 10 || res.TokensOut != 8 {
		t.Errorf("unexpected token counts: in=%d out=%d", res.TokensIn, res.TokensOut)
	}
}

func TestOpenRouterGenerator_MissingAPIKey(t *testing.T) {
	g := generator.NewOpenRouterGenerator("", "", "")
	if _, err := g.Generate(context.Background(), generator.Request{Instruction: "x"}); err == nil {
		t.Fatal("expected error without API key")
	}
}

func TestOpenRouterGenerator_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer server.Close()

	g := generator.NewOpenRouterGenerator("test-key", "", server.URL)
	if _, err := g.Generate(context.Background(), generator.Request{Instruction: "x"}); err == nil {
		t.Fatal("expected error for empty choices")
	}
}
