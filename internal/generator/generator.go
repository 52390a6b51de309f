package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-postcast/internal/domain"
	"github.com/goliatone/go-postcast/internal/logging"
	"github.com/goliatone/go-postcast/pkg/interfaces"
)

// ErrNoBackend is the fallback cause when no text backend is configured.
var ErrNoBackend = errors.New("generator: no text backend configured")

// Config holds the sampling parameters and style contract.
type Config struct {
	Model        string
	SystemPrompt string
	Temperature  float32
	MaxTokens    int
	TopP         float32
	// Timeout bounds a single backend call. Zero disables the bound.
	Timeout       time.Duration
	BrandHashtag  string
	StripMarkdown bool
	Style         Style
}

// DefaultConfig returns the sampling parameters used in production.
func DefaultConfig() Config {
	return Config{
		SystemPrompt:  DefaultSystemPrompt,
		Temperature:   0.7,
		MaxTokens:     500,
		TopP:          0.9,
		Timeout:       30 * time.Second,
		BrandHashtag:  DefaultBrandHashtag,
		StripMarkdown: true,
	}
}

// Result is the outcome of one generation. Cause is set only when the
// fallback body was used and explains why.
type Result struct {
	Item         domain.Item
	UsedFallback bool
	Cause        error
}

// Generator turns a topic and format into a draft item.
type Generator struct {
	backend   interfaces.TextGenerator
	cfg       Config
	flattener *Flattener
	logger    interfaces.Logger
	now       func() time.Time
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger. Defaults to no-op.
func WithLogger(logger interfaces.Logger) Option {
	return func(g *Generator) {
		g.logger = logging.Ensure(logger)
	}
}

// WithClock overrides the clock used to stamp items.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

// New returns a Generator backed by backend. A nil backend is allowed; every
// call then yields the fallback body.
func New(backend interfaces.TextGenerator, cfg Config, opts ...Option) *Generator {
	if strings.TrimSpace(cfg.SystemPrompt) == "" {
		cfg.SystemPrompt = DefaultSystemPrompt
	}
	g := &Generator{
		backend:   backend,
		cfg:       cfg,
		flattener: NewFlattener(),
		logger:    logging.NoOp(),
		now:       time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// Generate produces a draft item. It never fails: any backend problem is
// reported through Result.UsedFallback and Result.Cause.
func (g *Generator) Generate(ctx context.Context, topic domain.Topic, format domain.Format) Result {
	logger := logging.WithTopic(g.logger, topic.String(), format.Label)

	body, err := g.complete(ctx, topic, format)
	if err != nil {
		logger.Warn("generator.fallback", "error", err)
		item := domain.NewDraft(topic, format, FallbackBody(topic, format, g.cfg.BrandHashtag), g.now())
		item.UsedFallback = true
		return Result{Item: item, UsedFallback: true, Cause: err}
	}

	logger.Debug("generator.generated", "length", len(body))
	return Result{Item: domain.NewDraft(topic, format, body, g.now())}
}

// Prompt returns the user instruction that Generate would send.
func (g *Generator) Prompt(topic domain.Topic, format domain.Format) string {
	return BuildPrompt(topic, format, g.cfg.Style)
}

func (g *Generator) complete(ctx context.Context, topic domain.Topic, format domain.Format) (body string, err error) {
	if g.backend == nil {
		return "", ErrNoBackend
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if g.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			body, err = "", fmt.Errorf("generator: backend panic: %v", r)
		}
	}()

	resp, err := g.backend.Complete(ctx, interfaces.CompletionRequest{
		Model:       g.cfg.Model,
		System:      g.cfg.SystemPrompt,
		User:        g.Prompt(topic, format),
		Temperature: g.cfg.Temperature,
		MaxTokens:   g.cfg.MaxTokens,
		TopP:        g.cfg.TopP,
	})
	if err != nil {
		return "", err
	}

	body = strings.TrimSpace(resp.Text)
	if g.cfg.StripMarkdown && body != "" {
		body = g.flattener.Flatten(body)
	}
	if body == "" {
		return "", interfaces.ErrEmptyCompletion
	}
	return body, nil
}
