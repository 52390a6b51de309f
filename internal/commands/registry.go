package commands

import command "github.com/goliatone/go-command"

// CommandRegistry is the registration contract for command handlers.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// CronRegistrar matches the function signature used by go-command registries.
type CronRegistrar func(command.HandlerConfig, any) error

// RegisterAll registers every handler, stopping at the first error. A nil
// registry is a no-op.
func RegisterAll(reg CommandRegistry, handlers ...any) error {
	if reg == nil {
		return nil
	}
	for _, handler := range handlers {
		if handler == nil {
			continue
		}
		if err := reg.RegisterCommand(handler); err != nil {
			return err
		}
	}
	return nil
}
