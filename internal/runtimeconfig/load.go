package runtimeconfig

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-postcast/internal/validation"
)

// Environment variables that override secrets from the file.
const (
	EnvGroqAPIKey       = "POSTCAST_GROQ_API_KEY"
	EnvOpenAIAPIKey     = "POSTCAST_OPENAI_API_KEY"
	EnvLinkedInPassword = "POSTCAST_LINKEDIN_PASSWORD"
)

//go:embed schema.json
var schemaSource []byte

var documentSchema = validation.MustCompile("config.schema.json", schemaSource)

// LookupEnv matches os.LookupEnv.
type LookupEnv func(key string) (string, bool)

type loadOptions struct {
	env LookupEnv
}

// LoadOption configures Load.
type LoadOption func(*loadOptions)

// WithEnv replaces the environment lookup. Pass a nil func to ignore the
// environment entirely.
func WithEnv(lookup LookupEnv) LoadOption {
	return func(o *loadOptions) {
		o.env = lookup
	}
}

// Load reads a JSON or YAML configuration file, validates it against the
// embedded schema and merges it over DefaultConfig.
func Load(path string, opts ...LoadOption) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return Config{}, fmt.Errorf("%w: %s: %v", ErrConfigUnreadable, path, err)
	}
	return Parse(raw, filepath.Ext(path), opts...)
}

// Parse decodes a configuration document. ext selects the decoder: ".json",
// ".yaml" or ".yml".
func Parse(raw []byte, ext string, opts ...LoadOption) (Config, error) {
	options := loadOptions{env: os.LookupEnv}
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}

	var document any
	switch strings.ToLower(ext) {
	case ".json", "":
		if err := json.Unmarshal(raw, &document); err != nil {
			return Config{}, fmt.Errorf("%w: decode json: %v", ErrConfigInvalid, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &document); err != nil {
			return Config{}, fmt.Errorf("%w: decode yaml: %v", ErrConfigInvalid, err)
		}
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrConfigUnsupported, ext)
	}

	normalized, err := validation.Normalize(document)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrConfigInvalid, err)
	}
	if err := documentSchema.Validate(normalized); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrConfigInvalid, err)
	}

	encoded, err := json.Marshal(normalized)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrConfigInvalid, err)
	}
	var file fileConfig
	if err := json.Unmarshal(encoded, &file); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrConfigInvalid, err)
	}

	cfg := DefaultConfig()
	if err := file.apply(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrConfigInvalid, err)
	}
	applyEnv(&cfg, options.env)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

type fileConfig struct {
	LinkedInEmail    string `json:"linkedin_email"`
	LinkedInPassword string `json:"linkedin_password"`
	GroqAPIKey       string `json:"groq_api_key"`
	OpenAIAPIKey     string `json:"openai_api_key"`

	Credentials struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	} `json:"credentials"`

	Backend struct {
		Provider    string   `json:"provider"`
		APIKey      string   `json:"api_key"`
		BaseURL     string   `json:"base_url"`
		Model       string   `json:"model"`
		Timeout     string   `json:"timeout"`
		Temperature *float32 `json:"temperature"`
		MaxTokens   *int     `json:"max_tokens"`
		TopP        *float32 `json:"top_p"`
	} `json:"backend"`

	Content struct {
		CatalogPath   string  `json:"catalog_path"`
		LogPath       string  `json:"log_path"`
		SystemPrompt  string  `json:"system_prompt"`
		Audience      string  `json:"audience"`
		MaxWords      *int    `json:"max_words"`
		BrandHashtag  *string `json:"brand_hashtag"`
		StripMarkdown *bool   `json:"strip_markdown"`
	} `json:"content"`

	Calendar struct {
		Size   *int   `json:"size"`
		Pacing string `json:"pacing"`
	} `json:"calendar"`

	Publish struct {
		Enabled      *bool   `json:"enabled"`
		Time         string  `json:"time"`
		Timezone     string  `json:"timezone"`
		PollInterval string  `json:"poll_interval"`
		CatchUp      string  `json:"catch_up"`
		StatePath    *string `json:"state_path"`
		AuthTimeout  string  `json:"auth_timeout"`
		StepTimeout  string  `json:"step_timeout"`
		LoginURL     string  `json:"login_url"`
		FeedURL      string  `json:"feed_url"`
		Headless     *bool   `json:"headless"`
		ExecPath     string  `json:"exec_path"`
		Selectors    struct {
			Username      string `json:"username"`
			Password      string `json:"password"`
			LoginSubmit   string `json:"login_submit"`
			Authenticated string `json:"authenticated"`
			Composer      string `json:"composer"`
			Editor        string `json:"editor"`
			Submit        string `json:"submit"`
			Confirmation  string `json:"confirmation"`
		} `json:"selectors"`
	} `json:"publish"`

	Logging struct {
		Provider  string   `json:"provider"`
		Level     string   `json:"level"`
		Format    string   `json:"format"`
		AddSource *bool    `json:"add_source"`
		Focus     []string `json:"focus"`
	} `json:"logging"`

	Commands struct {
		Enabled          *bool `json:"enabled"`
		AutoRegisterCron *bool `json:"auto_register_cron"`
	} `json:"commands"`
}

func (f fileConfig) apply(cfg *Config) error {
	setString(&cfg.Credentials.Email, f.LinkedInEmail)
	setString(&cfg.Credentials.Password, f.LinkedInPassword)
	setString(&cfg.Credentials.Email, f.Credentials.Email)
	setString(&cfg.Credentials.Password, f.Credentials.Password)

	b := f.Backend
	setString(&cfg.Backend.Provider, b.Provider)
	if b.APIKey == "" {
		applyLegacyKeys(cfg, f.GroqAPIKey, f.OpenAIAPIKey)
	}
	setString(&cfg.Backend.APIKey, b.APIKey)
	setString(&cfg.Backend.BaseURL, b.BaseURL)
	setString(&cfg.Backend.Model, b.Model)
	setValue(&cfg.Backend.Temperature, b.Temperature)
	setValue(&cfg.Backend.MaxTokens, b.MaxTokens)
	setValue(&cfg.Backend.TopP, b.TopP)

	c := f.Content
	setString(&cfg.Content.CatalogPath, c.CatalogPath)
	setString(&cfg.Content.LogPath, c.LogPath)
	setString(&cfg.Content.SystemPrompt, c.SystemPrompt)
	setString(&cfg.Content.Audience, c.Audience)
	setValue(&cfg.Content.MaxWords, c.MaxWords)
	setValue(&cfg.Content.BrandHashtag, c.BrandHashtag)
	setValue(&cfg.Content.StripMarkdown, c.StripMarkdown)

	setValue(&cfg.Calendar.Size, f.Calendar.Size)

	p := f.Publish
	setValue(&cfg.Publish.Enabled, p.Enabled)
	setString(&cfg.Publish.Time, p.Time)
	setString(&cfg.Publish.Timezone, p.Timezone)
	setValue(&cfg.Publish.StatePath, p.StatePath)
	setString(&cfg.Publish.LoginURL, p.LoginURL)
	setString(&cfg.Publish.FeedURL, p.FeedURL)
	setValue(&cfg.Publish.Headless, p.Headless)
	setString(&cfg.Publish.ExecPath, p.ExecPath)
	sel := &cfg.Publish.Selectors
	setString(&sel.Username, p.Selectors.Username)
	setString(&sel.Password, p.Selectors.Password)
	setString(&sel.LoginSubmit, p.Selectors.LoginSubmit)
	setString(&sel.Authenticated, p.Selectors.Authenticated)
	setString(&sel.Composer, p.Selectors.Composer)
	setString(&sel.Editor, p.Selectors.Editor)
	setString(&sel.Submit, p.Selectors.Submit)
	setString(&sel.Confirmation, p.Selectors.Confirmation)

	l := f.Logging
	setString(&cfg.Logging.Provider, l.Provider)
	setString(&cfg.Logging.Level, l.Level)
	setString(&cfg.Logging.Format, l.Format)
	setValue(&cfg.Logging.AddSource, l.AddSource)
	if len(l.Focus) > 0 {
		cfg.Logging.Focus = append([]string(nil), l.Focus...)
	}

	setValue(&cfg.Commands.Enabled, f.Commands.Enabled)
	setValue(&cfg.Commands.AutoRegisterCron, f.Commands.AutoRegisterCron)

	durations := []struct {
		name  string
		value string
		dst   *time.Duration
	}{
		{"backend.timeout", b.Timeout, &cfg.Backend.Timeout},
		{"calendar.pacing", f.Calendar.Pacing, &cfg.Calendar.Pacing},
		{"publish.poll_interval", p.PollInterval, &cfg.Publish.PollInterval},
		{"publish.catch_up", p.CatchUp, &cfg.Publish.CatchUp},
		{"publish.auth_timeout", p.AuthTimeout, &cfg.Publish.AuthTimeout},
		{"publish.step_timeout", p.StepTimeout, &cfg.Publish.StepTimeout},
	}
	for _, d := range durations {
		if d.value == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.value)
		if err != nil {
			return fmt.Errorf("%s: %v", d.name, err)
		}
		*d.dst = parsed
	}
	return nil
}

// applyLegacyKeys maps the flat groq_api_key and openai_api_key keys. The
// key matching the selected provider wins; without a provider groq is
// preferred.
func applyLegacyKeys(cfg *Config, groqKey, openAIKey string) {
	switch normalize(cfg.Backend.Provider) {
	case ProviderOpenAI:
		setString(&cfg.Backend.APIKey, openAIKey)
	default:
		if groqKey == "" && openAIKey != "" {
			cfg.Backend.Provider = ProviderOpenAI
			cfg.Backend.APIKey = openAIKey
			return
		}
		setString(&cfg.Backend.APIKey, groqKey)
	}
}

func applyEnv(cfg *Config, lookup LookupEnv) {
	if lookup == nil {
		return
	}
	get := func(key string) string {
		value, ok := lookup(key)
		if !ok {
			return ""
		}
		return strings.TrimSpace(value)
	}
	switch normalize(cfg.Backend.Provider) {
	case ProviderGroq:
		setString(&cfg.Backend.APIKey, get(EnvGroqAPIKey))
	case ProviderOpenAI:
		setString(&cfg.Backend.APIKey, get(EnvOpenAIAPIKey))
	}
	setString(&cfg.Credentials.Password, get(EnvLinkedInPassword))
}

func setString(dst *string, value string) {
	if strings.TrimSpace(value) != "" {
		*dst = strings.TrimSpace(value)
	}
}

func setValue[T any](dst *T, value *T) {
	if value != nil {
		*dst = *value
	}
}
