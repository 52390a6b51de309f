package calendarcmd

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-postcast/internal/calendar"
	"github.com/goliatone/go-postcast/internal/recordstore"
	"github.com/goliatone/go-postcast/internal/review"
)

const (
	suggestMessageType = "postcast.calendar.suggest"
	reviewMessageType  = "postcast.calendar.review"
	buildMessageType   = "postcast.calendar.build"
	historyMessageType = "postcast.calendar.history"
)

// MaxCount caps a single request so a typo cannot start hundreds of backend
// calls.
const MaxCount = 50

// SuggestCommand generates Count posts for preview without persisting them.
type SuggestCommand struct {
	Count    int                  `json:"count"`
	OnResult func(calendar.Batch) `json:"-"`
}

func (SuggestCommand) Type() string { return suggestMessageType }

func (m SuggestCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Count, validation.Required, validation.Min(1), validation.Max(MaxCount)),
	)
}

// ReviewCommand generates Count posts, asks the review gate about each and
// persists the approved ones.
type ReviewCommand struct {
	Count    int                  `json:"count"`
	OnResult func(review.Outcome) `json:"-"`
}

func (ReviewCommand) Type() string { return reviewMessageType }

func (m ReviewCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Count, validation.Required, validation.Min(1), validation.Max(MaxCount)),
	)
}

// BuildCommand generates a calendar batch and persists it. A zero Count uses
// the configured calendar size.
type BuildCommand struct {
	Count    int                  `json:"count,omitempty"`
	OnResult func(calendar.Batch) `json:"-"`
}

func (BuildCommand) Type() string { return buildMessageType }

func (m BuildCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Count, validation.Min(0), validation.Max(MaxCount)),
	)
}

// HistoryCommand lists the newest Limit records of the content log. A zero
// Limit lists everything.
type HistoryCommand struct {
	Limit    int                        `json:"limit,omitempty"`
	OnResult func([]recordstore.Record) `json:"-"`
}

func (HistoryCommand) Type() string { return historyMessageType }

func (m HistoryCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Limit, validation.Min(0)),
	)
}
