package bootstrap

import (
	"errors"
	"fmt"
	"io"
	"strings"

	postcast "github.com/goliatone/go-postcast"
	"github.com/goliatone/go-postcast/internal/di"
)

// Mode selects which credentials a command needs before the module starts.
type Mode int

const (
	// ModeGenerate covers the menu and calendar commands. A missing API key
	// is tolerated; posts fall back to the built-in template.
	ModeGenerate Mode = iota
	// ModePublish requires LinkedIn credentials.
	ModePublish
)

// Options captures configuration for CLI bootstraps.
type Options struct {
	ConfigPath string
	LogLevel   string
	Seed       *int64
	Mode       Mode
	In         io.Reader
	Out        io.Writer
	LogWriter  io.Writer
	Extra      []di.Option
}

// LoadConfig reads the config file and applies CLI overrides.
func LoadConfig(opts Options) (postcast.Config, error) {
	path := strings.TrimSpace(opts.ConfigPath)
	if path == "" {
		path = "config.json"
	}

	cfg, err := postcast.LoadConfig(path)
	if err != nil {
		if errors.Is(err, postcast.ErrConfigNotFound) {
			return cfg, fmt.Errorf("please create %s with your LinkedIn credentials and API key", path)
		}
		return cfg, err
	}
	if level := strings.TrimSpace(opts.LogLevel); level != "" {
		cfg.Logging.Level = level
	}

	if opts.Mode == ModePublish {
		if !cfg.Publish.Enabled {
			return cfg, errors.New("publishing is disabled (publish.enabled is false)")
		}
		if err := cfg.ValidateForPublishing(); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

// BuildModule loads the config and constructs the postcast module.
func BuildModule(opts Options) (*postcast.Module, error) {
	cfg, err := LoadConfig(opts)
	if err != nil {
		return nil, err
	}

	diOpts := []di.Option{}
	if opts.In != nil || opts.Out != nil {
		diOpts = append(diOpts, di.WithIO(opts.In, opts.Out))
	}
	if opts.LogWriter != nil {
		diOpts = append(diOpts, di.WithLogWriter(opts.LogWriter))
	}
	if opts.Seed != nil {
		diOpts = append(diOpts, di.WithSeed(*opts.Seed))
	}
	diOpts = append(diOpts, opts.Extra...)

	module, err := postcast.New(cfg, diOpts...)
	if err != nil {
		return nil, fmt.Errorf("initialise postcast module: %w", err)
	}
	return module, nil
}
