package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	ErrConfigNotFound    = errors.New("postcast config: file not found")
	ErrConfigUnreadable  = errors.New("postcast config: file could not be read")
	ErrConfigInvalid     = errors.New("postcast config: invalid configuration")
	ErrConfigUnsupported = errors.New("postcast config: unsupported file extension")
)

var ErrCredentialsRequired = errors.New("postcast config: linkedin credentials are required for publishing")
var ErrBackendAPIKeyRequired = errors.New("postcast config: backend api key is required")
var ErrBackendProviderUnknown = errors.New("postcast config: backend provider is invalid")
var ErrPublishTimeInvalid = errors.New("postcast config: publish time must be HH:MM")
var ErrPublishTimezoneInvalid = errors.New("postcast config: publish timezone is invalid")
var ErrLoggingProviderUnknown = errors.New("postcast config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("postcast config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("postcast config: logging format is invalid")
var ErrCommandsCronRequiresPublish = errors.New("postcast config: command cron registration requires publishing to be enabled")

const (
	ProviderGroq   = "groq"
	ProviderOpenAI = "openai"
)

// Config is the full runtime configuration.
type Config struct {
	Credentials CredentialsConfig
	Backend     BackendConfig
	Content     ContentConfig
	Calendar    CalendarConfig
	Publish     PublishConfig
	Logging     LoggingConfig
	Commands    CommandsConfig
}

// CredentialsConfig holds the publishing account.
type CredentialsConfig struct {
	Email    string
	Password string
}

// BackendConfig selects the chat-completion backend.
type BackendConfig struct {
	Provider    string
	APIKey      string
	BaseURL     string
	Model       string
	Timeout     time.Duration
	Temperature float32
	MaxTokens   int
	TopP        float32
}

// ContentConfig shapes generated posts and where they are logged.
type ContentConfig struct {
	CatalogPath   string
	LogPath       string
	SystemPrompt  string
	Audience      string
	MaxWords      int
	BrandHashtag  string
	StripMarkdown bool
}

type CalendarConfig struct {
	Size   int
	Pacing time.Duration
}

// PublishConfig drives the daily trigger and the browser session.
type PublishConfig struct {
	Enabled      bool
	Time         string
	Timezone     string
	PollInterval time.Duration
	CatchUp      time.Duration
	StatePath    string
	AuthTimeout  time.Duration
	StepTimeout  time.Duration
	LoginURL     string
	FeedURL      string
	Headless     bool
	ExecPath     string
	Selectors    SelectorsConfig
}

// SelectorsConfig overrides the CSS selectors used by the browser session.
type SelectorsConfig struct {
	Username      string
	Password      string
	LoginSubmit   string
	Authenticated string
	Composer      string
	Editor        string
	Submit        string
	Confirmation  string
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// CommandsConfig toggles the command layer.
type CommandsConfig struct {
	Enabled          bool
	AutoRegisterCron bool
}

// DefaultConfig returns the defaults used when a key is absent from the file.
func DefaultConfig() Config {
	return Config{
		Backend: BackendConfig{
			Provider:    ProviderGroq,
			Timeout:     30 * time.Second,
			Temperature: 0.7,
			MaxTokens:   500,
			TopP:        0.9,
		},
		Content: ContentConfig{
			LogPath:       "content_calendar.csv",
			Audience:      "data analysts",
			MaxWords:      200,
			BrandHashtag:  "DataAnalysis",
			StripMarkdown: true,
		},
		Calendar: CalendarConfig{
			Size:   5,
			Pacing: time.Second,
		},
		Publish: PublishConfig{
			Enabled:      true,
			Time:         "10:00",
			Timezone:     "Local",
			PollInterval: 60 * time.Second,
			CatchUp:      time.Hour,
			StatePath:    "postcast.db",
			AuthTimeout:  10 * time.Second,
			StepTimeout:  10 * time.Second,
			LoginURL:     "https://www.linkedin.com/login",
			FeedURL:      "https://www.linkedin.com/feed/",
			Headless:     true,
			Selectors: SelectorsConfig{
				Username:      "#username",
				Password:      "#password",
				LoginSubmit:   "button[type='submit']",
				Authenticated: "#global-nav",
				Composer:      "button[aria-label='Start a post']",
				Editor:        "div[role='textbox']",
				Submit:        "button[aria-label='Post']",
			},
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
		Commands: CommandsConfig{
			Enabled: true,
		},
	}
}

// Validate performs consistency checks that do not depend on the run mode.
func (cfg Config) Validate() error {
	provider := normalize(cfg.Backend.Provider)
	if provider != ProviderGroq && provider != ProviderOpenAI {
		return fmt.Errorf("%w: %q", ErrBackendProviderUnknown, cfg.Backend.Provider)
	}
	if _, err := cfg.Location(); err != nil {
		return err
	}
	if !isClock(cfg.Publish.Time) {
		return fmt.Errorf("%w: %q", ErrPublishTimeInvalid, cfg.Publish.Time)
	}
	if cfg.Commands.AutoRegisterCron && !cfg.Publish.Enabled {
		return ErrCommandsCronRequiresPublish
	}

	loggingProvider := normalize(cfg.Logging.Provider)
	if loggingProvider != "console" && loggingProvider != "gologger" {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, cfg.Logging.Provider)
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if loggingProvider == "gologger" {
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}

	err := validation.Errors{
		"backend": validation.ValidateStruct(&cfg.Backend,
			validation.Field(&cfg.Backend.Timeout, validation.Min(time.Duration(0))),
			validation.Field(&cfg.Backend.Temperature, validation.Min(float32(0)), validation.Max(float32(2))),
			validation.Field(&cfg.Backend.MaxTokens, validation.Min(1)),
			validation.Field(&cfg.Backend.TopP, validation.Min(float32(0)), validation.Max(float32(1))),
		),
		"content": validation.ValidateStruct(&cfg.Content,
			validation.Field(&cfg.Content.LogPath, validation.Required),
			validation.Field(&cfg.Content.MaxWords, validation.Min(1)),
		),
		"calendar": validation.ValidateStruct(&cfg.Calendar,
			validation.Field(&cfg.Calendar.Size, validation.Min(1)),
			validation.Field(&cfg.Calendar.Pacing, validation.Min(time.Duration(0))),
		),
		"publish": validation.ValidateStruct(&cfg.Publish,
			validation.Field(&cfg.Publish.PollInterval, validation.Min(time.Second)),
			validation.Field(&cfg.Publish.CatchUp, validation.Min(time.Duration(0))),
			validation.Field(&cfg.Publish.AuthTimeout, validation.Min(time.Duration(0))),
			validation.Field(&cfg.Publish.StepTimeout, validation.Min(time.Duration(0))),
		),
	}.Filter()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConfigInvalid, err)
	}
	return nil
}

// ValidateForGeneration requires a usable backend key.
func (cfg Config) ValidateForGeneration() error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(cfg.Backend.APIKey) == "" {
		return fmt.Errorf("%w for provider %s", ErrBackendAPIKeyRequired, normalize(cfg.Backend.Provider))
	}
	return nil
}

// ValidateForPublishing requires everything the daily publish flow needs.
func (cfg Config) ValidateForPublishing() error {
	if err := cfg.ValidateForGeneration(); err != nil {
		return err
	}
	err := validation.ValidateStruct(&cfg.Credentials,
		validation.Field(&cfg.Credentials.Email, validation.Required),
		validation.Field(&cfg.Credentials.Password, validation.Required),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCredentialsRequired, err)
	}
	return nil
}

// Location resolves Publish.Timezone. Empty and "Local" map to time.Local.
func (cfg Config) Location() (*time.Location, error) {
	name := strings.TrimSpace(cfg.Publish.Timezone)
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrPublishTimezoneInvalid, name)
	}
	return loc, nil
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isClock(value string) bool {
	value = strings.TrimSpace(value)
	if len(value) != 5 || value[2] != ':' {
		return false
	}
	_, err := time.Parse("15:04", value)
	return err == nil
}

func isSupportedLevel(level string) bool {
	switch normalize(level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch normalize(format) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
