package publishcmd

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-postcast/internal/commands"
	"github.com/goliatone/go-postcast/internal/schedule"
	"github.com/goliatone/go-postcast/pkg/interfaces"
)

const listRunsMessageType = "postcast.publish.runs"

// RunLister reads the trigger ledger.
type RunLister interface {
	List(ctx context.Context, limit int) ([]schedule.Run, error)
}

// ListRunsCommand lists recorded trigger runs, newest first.
type ListRunsCommand struct {
	Limit    int                  `json:"limit,omitempty"`
	OnResult func([]schedule.Run) `json:"-"`
}

func (ListRunsCommand) Type() string { return listRunsMessageType }

func (m ListRunsCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Limit, validation.Min(0)),
	)
}

type ListRunsHandler struct {
	inner *commands.Handler[ListRunsCommand]
}

func NewListRunsHandler(lister RunLister, logger interfaces.Logger) *ListRunsHandler {
	exec := func(ctx context.Context, msg ListRunsCommand) error {
		runs, err := lister.List(ctx, msg.Limit)
		if err != nil {
			return err
		}
		if msg.OnResult != nil {
			msg.OnResult(runs)
		}
		return nil
	}
	return &ListRunsHandler{
		inner: commands.NewHandler[ListRunsCommand](exec,
			commands.WithLogger[ListRunsCommand](logger),
			commands.WithOperation[ListRunsCommand]("publish.runs"),
		),
	}
}

func (h *ListRunsHandler) Execute(ctx context.Context, msg ListRunsCommand) error {
	return h.inner.Execute(ctx, msg)
}
