package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/goliatone/go-postcast/pkg/interfaces"
)

const (
	// ProviderGroq targets Groq's OpenAI compatible endpoint.
	ProviderGroq = "groq"
	// ProviderOpenAI targets the OpenAI API.
	ProviderOpenAI = "openai"

	GroqBaseURL = "https://api.groq.com/openai/v1"

	DefaultGroqModel   = "llama3-70b-8192"
	DefaultOpenAIModel = "gpt-4o-mini"
)

// ErrMissingAPIKey is returned by New when no key is supplied.
var ErrMissingAPIKey = errors.New("openai: api key is required")

// Config selects the provider and credentials.
type Config struct {
	Provider string
	APIKey   string
	// BaseURL overrides the provider endpoint.
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Client adapts go-openai to interfaces.TextGenerator.
type Client struct {
	api   *goopenai.Client
	model string
}

var _ interfaces.TextGenerator = (*Client)(nil)

// New builds a client for cfg.Provider. Unknown providers are treated as
// OpenAI compatible endpoints and require BaseURL.
func New(cfg Config) (*Client, error) {
	key := strings.TrimSpace(cfg.APIKey)
	if key == "" {
		return nil, ErrMissingAPIKey
	}

	apiCfg := goopenai.DefaultConfig(key)
	model := strings.TrimSpace(cfg.Model)

	switch provider := strings.ToLower(strings.TrimSpace(cfg.Provider)); provider {
	case "", ProviderGroq:
		apiCfg.BaseURL = GroqBaseURL
		if model == "" {
			model = DefaultGroqModel
		}
	case ProviderOpenAI:
		if model == "" {
			model = DefaultOpenAIModel
		}
	default:
		if strings.TrimSpace(cfg.BaseURL) == "" {
			return nil, fmt.Errorf("openai: provider %q requires a base url", provider)
		}
	}
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		apiCfg.BaseURL = strings.TrimRight(base, "/")
	}
	if cfg.Timeout > 0 {
		apiCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		api:   goopenai.NewClientWithConfig(apiCfg),
		model: model,
	}, nil
}

// Complete sends one chat completion request. The request model wins over
// the client default.
func (c *Client) Complete(ctx context.Context, req interfaces.CompletionRequest) (interfaces.CompletionResponse, error) {
	model := strings.TrimSpace(req.Model)
	if model == "" {
		model = c.model
	}

	messages := make([]goopenai.ChatCompletionMessage, 0, 2)
	if system := strings.TrimSpace(req.System); system != "" {
		messages = append(messages, goopenai.ChatCompletionMessage{
			Role:    goopenai.ChatMessageRoleSystem,
			Content: system,
		})
	}
	messages = append(messages, goopenai.ChatCompletionMessage{
		Role:    goopenai.ChatMessageRoleUser,
		Content: req.User,
	})

	resp, err := c.api.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		TopP:        req.TopP,
	})
	if err != nil {
		return interfaces.CompletionResponse{}, fmt.Errorf("openai: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return interfaces.CompletionResponse{}, interfaces.ErrEmptyCompletion
	}

	choice := resp.Choices[0]
	return interfaces.CompletionResponse{
		Text:         choice.Message.Content,
		Model:        resp.Model,
		FinishReason: string(choice.FinishReason),
	}, nil
}
