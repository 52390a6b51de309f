package calendarcmd

import (
	"context"
	"errors"
	"time"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-postcast/internal/calendar"
	"github.com/goliatone/go-postcast/internal/commands"
	"github.com/goliatone/go-postcast/internal/recordstore"
	"github.com/goliatone/go-postcast/internal/review"
	"github.com/goliatone/go-postcast/pkg/interfaces"
)

// Builder is the calendar capability the handlers drive.
type Builder interface {
	Generate(ctx context.Context, count int) (calendar.Batch, error)
	BuildBatch(ctx context.Context, count int) (calendar.Batch, error)
	BuildReviewed(ctx context.Context, count int, reviewer calendar.Reviewer) (review.Outcome, error)
}

// RecordReader lists the content log.
type RecordReader interface {
	ReadAll(ctx context.Context) ([]recordstore.Record, error)
}

// SuggestHandler serves SuggestCommand.
type SuggestHandler struct {
	inner *commands.Handler[SuggestCommand]
}

func NewSuggestHandler(builder Builder, logger interfaces.Logger, opts ...commands.HandlerOption[SuggestCommand]) *SuggestHandler {
	exec := func(ctx context.Context, msg SuggestCommand) error {
		batch, err := builder.Generate(ctx, msg.Count)
		if err != nil {
			return err
		}
		if msg.OnResult != nil {
			msg.OnResult(batch)
		}
		return nil
	}
	handlerOpts := append([]commands.HandlerOption[SuggestCommand]{
		commands.WithLogger[SuggestCommand](logger),
		commands.WithOperation[SuggestCommand]("calendar.suggest"),
		commands.WithTimeout[SuggestCommand](generationTimeout(MaxCount)),
	}, opts...)
	return &SuggestHandler{inner: commands.NewHandler[SuggestCommand](exec, handlerOpts...)}
}

func (h *SuggestHandler) Execute(ctx context.Context, msg SuggestCommand) error {
	return h.inner.Execute(ctx, msg)
}

func (h *SuggestHandler) CLIHandler() any { return h }

func (h *SuggestHandler) CLIOptions() command.CLIConfig {
	return command.CLIConfig{
		Path:        []string{"generate"},
		Group:       "calendar",
		Description: "Generate post suggestions and print them without saving",
	}
}

// ReviewHandler serves ReviewCommand. The review gate is interactive, so the
// handler runs without a timeout.
type ReviewHandler struct {
	inner *commands.Handler[ReviewCommand]
}

func NewReviewHandler(builder Builder, reviewer calendar.Reviewer, logger interfaces.Logger, opts ...commands.HandlerOption[ReviewCommand]) *ReviewHandler {
	exec := func(ctx context.Context, msg ReviewCommand) error {
		if reviewer == nil {
			return errors.New("calendar review: reviewer is nil")
		}
		outcome, err := builder.BuildReviewed(ctx, msg.Count, reviewer)
		if msg.OnResult != nil {
			msg.OnResult(outcome)
		}
		return err
	}
	handlerOpts := append([]commands.HandlerOption[ReviewCommand]{
		commands.WithLogger[ReviewCommand](logger),
		commands.WithOperation[ReviewCommand]("calendar.review"),
		commands.WithTimeout[ReviewCommand](0),
	}, opts...)
	return &ReviewHandler{inner: commands.NewHandler[ReviewCommand](exec, handlerOpts...)}
}

func (h *ReviewHandler) Execute(ctx context.Context, msg ReviewCommand) error {
	return h.inner.Execute(ctx, msg)
}

// BuildHandler serves BuildCommand.
type BuildHandler struct {
	inner *commands.Handler[BuildCommand]
}

func NewBuildHandler(builder Builder, defaultSize int, logger interfaces.Logger, opts ...commands.HandlerOption[BuildCommand]) *BuildHandler {
	if defaultSize <= 0 {
		defaultSize = calendar.DefaultSize
	}
	exec := func(ctx context.Context, msg BuildCommand) error {
		count := msg.Count
		if count == 0 {
			count = defaultSize
		}
		batch, err := builder.BuildBatch(ctx, count)
		if msg.OnResult != nil && len(batch.Items) > 0 {
			msg.OnResult(batch)
		}
		return err
	}
	handlerOpts := append([]commands.HandlerOption[BuildCommand]{
		commands.WithLogger[BuildCommand](logger),
		commands.WithOperation[BuildCommand]("calendar.build"),
		commands.WithTimeout[BuildCommand](generationTimeout(MaxCount)),
	}, opts...)
	return &BuildHandler{inner: commands.NewHandler[BuildCommand](exec, handlerOpts...)}
}

func (h *BuildHandler) Execute(ctx context.Context, msg BuildCommand) error {
	return h.inner.Execute(ctx, msg)
}

func (h *BuildHandler) CLIHandler() any { return h }

func (h *BuildHandler) CLIOptions() command.CLIConfig {
	return command.CLIConfig{
		Path:        []string{"calendar"},
		Group:       "calendar",
		Description: "Generate a content calendar and append it to the log",
	}
}

// HistoryHandler serves HistoryCommand.
type HistoryHandler struct {
	inner *commands.Handler[HistoryCommand]
}

func NewHistoryHandler(reader RecordReader, logger interfaces.Logger, opts ...commands.HandlerOption[HistoryCommand]) *HistoryHandler {
	exec := func(ctx context.Context, msg HistoryCommand) error {
		records, err := reader.ReadAll(ctx)
		if err != nil {
			return err
		}
		if msg.Limit > 0 && len(records) > msg.Limit {
			records = records[len(records)-msg.Limit:]
		}
		if msg.OnResult != nil {
			msg.OnResult(records)
		}
		return nil
	}
	handlerOpts := append([]commands.HandlerOption[HistoryCommand]{
		commands.WithLogger[HistoryCommand](logger),
		commands.WithOperation[HistoryCommand]("calendar.history"),
	}, opts...)
	return &HistoryHandler{inner: commands.NewHandler[HistoryCommand](exec, handlerOpts...)}
}

func (h *HistoryHandler) Execute(ctx context.Context, msg HistoryCommand) error {
	return h.inner.Execute(ctx, msg)
}

func (h *HistoryHandler) CLIHandler() any { return h }

func (h *HistoryHandler) CLIOptions() command.CLIConfig {
	return command.CLIConfig{
		Path:        []string{"history"},
		Group:       "calendar",
		Description: "List the content log",
	}
}

// generationTimeout leaves room for count backend calls at the default
// backend timeout plus pacing.
func generationTimeout(count int) time.Duration {
	return time.Duration(count) * (30*time.Second + calendar.DefaultPacing)
}
