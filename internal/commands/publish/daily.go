package publishcmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-postcast/internal/commands"
	"github.com/goliatone/go-postcast/internal/identity"
	"github.com/goliatone/go-postcast/internal/logging"
	"github.com/goliatone/go-postcast/internal/publisher"
	"github.com/goliatone/go-postcast/pkg/interfaces"
)

const dailyPublishMessageType = "postcast.publish.daily"

// Publisher runs one publisher session.
type Publisher interface {
	Publish(ctx context.Context, runID string) publisher.Outcome
}

// DailyPublishCommand publishes one generated post now. RunID is derived from
// the current minute when empty.
type DailyPublishCommand struct {
	RunID    string                  `json:"run_id,omitempty"`
	OnResult func(publisher.Outcome) `json:"-"`
}

func (DailyPublishCommand) Type() string { return dailyPublishMessageType }

func (m DailyPublishCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.RunID, validation.Length(0, 64)),
	)
}

type dailyHandlerConfig struct {
	cronConfig command.HandlerConfig
	timeout    time.Duration
	now        func() time.Time
}

// DailyHandlerOption customises the daily publish handler.
type DailyHandlerOption func(*dailyHandlerConfig)

// DailyWithCronExpression overrides the cron expression.
func DailyWithCronExpression(expression string) DailyHandlerOption {
	return func(cfg *dailyHandlerConfig) {
		if trimmed := strings.TrimSpace(expression); trimmed != "" {
			cfg.cronConfig.Expression = trimmed
		}
	}
}

// DailyWithTimeout overrides the session timeout.
func DailyWithTimeout(timeout time.Duration) DailyHandlerOption {
	return func(cfg *dailyHandlerConfig) {
		cfg.timeout = timeout
	}
}

func DailyWithClock(now func() time.Time) DailyHandlerOption {
	return func(cfg *dailyHandlerConfig) {
		if now != nil {
			cfg.now = now
		}
	}
}

// DailyPublishHandler runs a publisher session per command.
type DailyPublishHandler struct {
	publisher  Publisher
	logger     interfaces.Logger
	cronConfig command.HandlerConfig
	timeout    time.Duration
	now        func() time.Time
}

// DefaultSessionTimeout bounds a whole session: login, generation and the
// three publish steps.
const DefaultSessionTimeout = 3 * time.Minute

func NewDailyPublishHandler(pub Publisher, logger interfaces.Logger, opts ...DailyHandlerOption) *DailyPublishHandler {
	cfg := dailyHandlerConfig{
		cronConfig: command.HandlerConfig{
			Expression: "0 10 * * *",
		},
		timeout: DefaultSessionTimeout,
		now:     time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return &DailyPublishHandler{
		publisher:  pub,
		logger:     commands.EnsureLogger(logger),
		cronConfig: cfg.cronConfig,
		timeout:    cfg.timeout,
		now:        cfg.now,
	}
}

// Execute satisfies command.Commander[DailyPublishCommand]. A session that
// does not publish is reported as an execution error.
func (h *DailyPublishHandler) Execute(ctx context.Context, msg DailyPublishCommand) error {
	if err := commands.WrapValidationError(command.ValidateMessage(msg)); err != nil {
		return err
	}
	ctx = commands.EnsureContext(ctx)
	ctx, cancel := commands.WithCommandTimeout(ctx, h.timeout)
	defer cancel()

	if err := ctx.Err(); err != nil {
		return commands.WrapContextError(err)
	}

	runID := strings.TrimSpace(msg.RunID)
	if runID == "" {
		runID = identity.RunID(h.now().Truncate(time.Minute))
	}
	logger := logging.WithFields(h.logger, map[string]any{
		"operation": "publish.daily",
		"run_id":    runID,
	})

	outcome := h.publisher.Publish(ctx, runID)
	if msg.OnResult != nil {
		msg.OnResult(outcome)
	}
	if !outcome.Published() {
		err := outcome.Err
		if err == nil {
			err = fmt.Errorf("publish: session ended at %s without publishing", outcome.Step)
		}
		logger.Error("publish.command.failed", "step", string(outcome.Step), "error", err)
		return commands.WrapExecuteError(err, commands.TextCodePublishFailed)
	}
	logger.Info("publish.command.published")
	return nil
}

// CronHandler satisfies command.CronCommand.
func (h *DailyPublishHandler) CronHandler() func() error {
	return func() error {
		return h.Execute(context.Background(), DailyPublishCommand{})
	}
}

// CronOptions satisfies command.CronCommand.
func (h *DailyPublishHandler) CronOptions() command.HandlerConfig {
	return h.cronConfig
}

func (h *DailyPublishHandler) CLIHandler() any {
	return h
}

func (h *DailyPublishHandler) CLIOptions() command.CLIConfig {
	return command.CLIConfig{
		Path:        []string{"publish", "now"},
		Group:       "publish",
		Description: "Generate and publish one post immediately",
	}
}

// RegisterCron wires the handler into a cron registrar with its configured
// expression.
func RegisterCron(reg commands.CronRegistrar, handler *DailyPublishHandler) error {
	if reg == nil || handler == nil {
		return nil
	}
	return reg(handler.CronOptions(), handler.CronHandler())
}
