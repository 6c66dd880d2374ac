package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kailas-cloud/iajur/internal/domain"
)

func TestGenerator_Generate(t *testing.T) {
	var got struct {
		Model          string  `json:"model"`
		Temperature    float32 `json:"temperature"`
		MaxTokens      int     `json:"max_tokens"`
		ResponseFormat struct {
			Type string `json:"type"`
		} `json:"response_format"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		writeChatCompletion(w, `{"resposta_imediata":"Sim."}`)
	}))
	defer srv.Close()

	g := NewGenerator(&GeneratorConfig{
		APIKey:      "test-key",
		BaseURL:     srv.URL,
		Model:       "test-chat",
		Temperature: 0.2,
		MaxTokens:   2048,
		Provider:    "test",
	})

	out, err := g.Generate(context.Background(), "PROMPT")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if out != `{"resposta_imediata":"Sim."}` {
		t.Errorf("output = %q", out)
	}
	if got.Model != "test-chat" || got.MaxTokens != 2048 {
		t.Errorf("request model/max_tokens = %s/%d", got.Model, got.MaxTokens)
	}
	if got.ResponseFormat.Type != "json_object" {
		t.Errorf("response_format = %q, want json_object", got.ResponseFormat.Type)
	}
	if len(got.Messages) != 1 || got.Messages[0].Role != "user" || got.Messages[0].Content != "PROMPT" {
		t.Errorf("messages = %+v", got.Messages)
	}
}

func TestGenerator_EmptyCompletion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeChatCompletion(w, "   ")
	}))
	defer srv.Close()

	g := NewGenerator(&GeneratorConfig{APIKey: "k", BaseURL: srv.URL, Model: "m"})
	if _, err := g.Generate(context.Background(), "p"); !errors.Is(err, domain.ErrGenerationFailed) {
		t.Fatalf("expected ErrGenerationFailed, got %v", err)
	}
}

func TestGenerator_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{"message": "overloaded"}})
	}))
	defer srv.Close()

	g := NewGenerator(&GeneratorConfig{APIKey: "k", BaseURL: srv.URL, Model: "m"})
	_, err := g.Generate(context.Background(), "p")
	if !errors.Is(err, domain.ErrGenerationFailed) {
		t.Fatalf("expected ErrGenerationFailed, got %v", err)
	}
	if errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Error("generation errors must not carry the embedding sentinel")
	}
}
