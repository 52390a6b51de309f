package calendarcmd

import (
	"errors"

	"github.com/goliatone/go-postcast/internal/calendar"
	"github.com/goliatone/go-postcast/internal/commands"
	"github.com/goliatone/go-postcast/pkg/interfaces"
)

// HandlerSet groups the calendar handlers built by Register.
type HandlerSet struct {
	Suggest *SuggestHandler
	Review  *ReviewHandler
	Build   *BuildHandler
	History *HistoryHandler
}

// Register builds the calendar handlers and registers them with reg when it
// is not nil.
func Register(reg commands.CommandRegistry, builder Builder, reviewer calendar.Reviewer, reader RecordReader, defaultSize int, provider interfaces.LoggerProvider) (*HandlerSet, error) {
	if builder == nil {
		return nil, errors.New("calendar command registration: builder is nil")
	}
	if reader == nil {
		return nil, errors.New("calendar command registration: record reader is nil")
	}
	logger := commands.CommandLogger(provider, "calendar")

	set := &HandlerSet{
		Suggest: NewSuggestHandler(builder, logger),
		Review:  NewReviewHandler(builder, reviewer, logger),
		Build:   NewBuildHandler(builder, defaultSize, logger),
		History: NewHistoryHandler(reader, logger),
	}
	if err := commands.RegisterAll(reg, set.Suggest, set.Review, set.Build, set.History); err != nil {
		return nil, err
	}
	return set, nil
}
