package openai_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goliatone/go-postcast/internal/generator/openai"
	"github.com/goliatone/go-postcast/pkg/interfaces"
)

func TestNewRequiresAPIKey(t *testing.T) {
	if _, err := openai.New(openai.Config{Provider: openai.ProviderGroq}); !errors.Is(err, openai.ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestNewRejectsUnknownProviderWithoutBaseURL(t *testing.T) {
	if _, err := openai.New(openai.Config{Provider: "local", APIKey: "k"}); err == nil {
		t.Fatal("expected base url error")
	}
}

func TestCompleteSendsChatRequest(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected authorization header %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cmpl-1","object":"chat.completion","created":1,"model":"llama3-70b-8192","choices":[{"index":0,"message":{"role":"assistant","content":"📊 Post body"},"finish_reason":"stop"}]}`))
	}))
	defer server.Close()

	client, err := openai.New(openai.Config{Provider: openai.ProviderGroq, APIKey: "test-key", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	resp, err := client.Complete(context.Background(), interfaces.CompletionRequest{
		System:      "system",
		User:        "user",
		Temperature: 0.5,
		MaxTokens:   100,
	})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if resp.Text != "📊 Post body" || resp.FinishReason != "stop" {
		t.Fatalf("unexpected response %+v", resp)
	}

	if captured["model"] != openai.DefaultGroqModel {
		t.Fatalf("expected default groq model, got %v", captured["model"])
	}
	messages, ok := captured["messages"].([]any)
	if !ok || len(messages) != 2 {
		t.Fatalf("expected system and user messages, got %v", captured["messages"])
	}
}

func TestCompletePropagatesHTTPErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid api key","type":"invalid_request_error"}}`))
	}))
	defer server.Close()

	client, err := openai.New(openai.Config{Provider: openai.ProviderOpenAI, APIKey: "bad", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := client.Complete(context.Background(), interfaces.CompletionRequest{User: "hi"}); err == nil {
		t.Fatal("expected error for unauthorized response")
	}
}
