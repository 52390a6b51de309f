package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-postcast/pkg/interfaces"
)

const (
	rootModule        = "postcast"
	generatorModule   = "postcast.generator"
	calendarModule    = "postcast.calendar"
	reviewModule      = "postcast.review"
	recordStoreModule = "postcast.recordstore"
	triggerModule     = "postcast.trigger"
	publisherModule   = "postcast.publisher"
)

const (
	fieldTopic  = "topic"
	fieldFormat = "format"
	fieldRunID  = "run_id"
)

// ModuleLogger returns a logger scoped to module. A nil provider, or one that
// returns nil, yields the no-op logger. The module name is attached as the
// "module" field.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// GeneratorLogger returns the logger used by the content generator.
func GeneratorLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, generatorModule)
}

// CalendarLogger returns the logger used by the calendar builder.
func CalendarLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, calendarModule)
}

// ReviewLogger returns the logger used by the review gate.
func ReviewLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, reviewModule)
}

// RecordStoreLogger returns the logger used by the content log.
func RecordStoreLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, recordStoreModule)
}

// TriggerLogger returns the logger used by the daily publish trigger.
func TriggerLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, triggerModule)
}

// PublisherLogger returns the logger used by publisher sessions.
func PublisherLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, publisherModule)
}

// WithTopic attaches topic and format fields. Empty values are skipped.
func WithTopic(logger interfaces.Logger, topic, format string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(topic); trimmed != "" {
		fields[fieldTopic] = trimmed
	}
	if trimmed := strings.TrimSpace(format); trimmed != "" {
		fields[fieldFormat] = trimmed
	}
	return WithFields(logger, fields)
}

// WithRunID attaches the trigger run identifier.
func WithRunID(logger interfaces.Logger, runID string) interfaces.Logger {
	if strings.TrimSpace(runID) == "" {
		return logger
	}
	return WithFields(logger, map[string]any{fieldRunID: runID})
}

// NoOp returns a logger that discards everything.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
