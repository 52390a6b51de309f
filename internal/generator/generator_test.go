package generator_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-postcast/internal/domain"
	"github.com/goliatone/go-postcast/internal/generator"
	"github.com/goliatone/go-postcast/pkg/interfaces"
)

type stubBackend struct {
	text     string
	err      error
	panicked bool
	requests []interfaces.CompletionRequest
}

func (s *stubBackend) Complete(ctx context.Context, req interfaces.CompletionRequest) (interfaces.CompletionResponse, error) {
	s.requests = append(s.requests, req)
	if s.panicked {
		panic("backend exploded")
	}
	if s.err != nil {
		return interfaces.CompletionResponse{}, s.err
	}
	return interfaces.CompletionResponse{Text: s.text}, nil
}

func fixedClock() time.Time {
	return time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)
}

func TestGenerateFallbackOnBackendError(t *testing.T) {
	backend := &stubBackend{err: errors.New("quota exceeded")}
	gen := generator.New(backend, generator.DefaultConfig(), generator.WithClock(fixedClock))

	topic := domain.Topic("Data Cleaning Best Practices")
	result := gen.Generate(context.Background(), topic, domain.Format{Label: "Quick Tip", Marker: "💡"})

	if !result.UsedFallback {
		t.Fatal("expected fallback to be used")
	}
	if result.Cause == nil {
		t.Fatal("expected fallback cause")
	}
	item := result.Item
	if item.Status != domain.StatusDraft {
		t.Fatalf("expected draft status, got %s", item.Status)
	}
	if !strings.Contains(item.Body, "Data Cleaning Best Practices") {
		t.Fatalf("expected topic in fallback body, got %q", item.Body)
	}
	if !strings.Contains(item.Body, "#DataCleaningBestPractices") {
		t.Fatalf("expected topic hashtag in fallback body, got %q", item.Body)
	}
	want := "💡 Daily Data Cleaning Best Practices Tip\n\nStay tuned for more insights!\n\n#DataAnalysis #DataCleaningBestPractices"
	if item.Body != want {
		t.Fatalf("unexpected fallback body\nwant: %q\ngot:  %q", want, item.Body)
	}
	if !item.CreatedAt.Equal(fixedClock()) {
		t.Fatalf("expected created_at from clock, got %s", item.CreatedAt)
	}
}

func TestGenerateFallbackWithoutFormat(t *testing.T) {
	gen := generator.New(nil, generator.Config{})

	result := gen.Generate(context.Background(), "A", domain.Format{})

	if !result.UsedFallback || !errors.Is(result.Cause, generator.ErrNoBackend) {
		t.Fatalf("expected ErrNoBackend fallback, got %+v", result)
	}
	if result.Item.Body != "Daily A Tip\n\nStay tuned for more insights!\n\n#A" {
		t.Fatalf("unexpected body %q", result.Item.Body)
	}
}

func TestGenerateRecoversBackendPanic(t *testing.T) {
	gen := generator.New(&stubBackend{panicked: true}, generator.DefaultConfig())

	result := gen.Generate(context.Background(), "Python Data Analysis Libraries", domain.Format{})

	if !result.UsedFallback {
		t.Fatal("expected fallback after panic")
	}
}

func TestGenerateEmptyCompletionFallsBack(t *testing.T) {
	gen := generator.New(&stubBackend{text: "  \n "}, generator.DefaultConfig())

	result := gen.Generate(context.Background(), "ETL Best Practices", domain.Format{})

	if !errors.Is(result.Cause, interfaces.ErrEmptyCompletion) {
		t.Fatalf("expected ErrEmptyCompletion, got %v", result.Cause)
	}
}

func TestGenerateSuccessSendsSamplingParameters(t *testing.T) {
	backend := &stubBackend{text: "\n  **Index your joins.** Then measure.\n\n#SQL #DataAnalysis  \n"}
	cfg := generator.DefaultConfig()
	cfg.Model = "llama3-70b-8192"
	gen := generator.New(backend, cfg)

	format := domain.Format{Label: "Best Practice", Marker: "✨"}
	result := gen.Generate(context.Background(), "SQL Query Optimization", format)

	if result.UsedFallback {
		t.Fatalf("unexpected fallback: %v", result.Cause)
	}
	if got, want := result.Item.Body, "Index your joins. Then measure.\n\n#SQL #DataAnalysis"; got != want {
		t.Fatalf("unexpected body\nwant: %q\ngot:  %q", want, got)
	}
	if result.Item.Format != format {
		t.Fatalf("expected format carried on item, got %+v", result.Item.Format)
	}

	if len(backend.requests) != 1 {
		t.Fatalf("expected exactly one backend call, got %d", len(backend.requests))
	}
	req := backend.requests[0]
	if req.Model != "llama3-70b-8192" || req.Temperature != 0.7 || req.MaxTokens != 500 || req.TopP != 0.9 {
		t.Fatalf("unexpected sampling parameters %+v", req)
	}
	if req.System != generator.DefaultSystemPrompt {
		t.Fatalf("unexpected system prompt %q", req.System)
	}
	if !strings.Contains(req.User, "SQL Query Optimization") || !strings.Contains(req.User, "Start with ✨") {
		t.Fatalf("prompt missing topic or marker: %q", req.User)
	}
}

func TestGenerateKeepsMarkdownWhenStripDisabled(t *testing.T) {
	cfg := generator.DefaultConfig()
	cfg.StripMarkdown = false
	gen := generator.New(&stubBackend{text: "**bold**"}, cfg)

	result := gen.Generate(context.Background(), "A", domain.Format{})
	if result.Item.Body != "**bold**" {
		t.Fatalf("expected raw body, got %q", result.Item.Body)
	}
}
