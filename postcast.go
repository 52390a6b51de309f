package postcast

import (
	"context"

	"github.com/goliatone/go-postcast/internal/calendar"
	"github.com/goliatone/go-postcast/internal/di"
	"github.com/goliatone/go-postcast/internal/domain"
	"github.com/goliatone/go-postcast/internal/publisher"
	"github.com/goliatone/go-postcast/internal/recordstore"
	"github.com/goliatone/go-postcast/internal/review"
)

// Item is a generated post.
type Item = domain.Item

// Batch is the result of a calendar build.
type Batch = calendar.Batch

// ReviewOutcome lists the items a reviewer saw and the ones they approved.
type ReviewOutcome = review.Outcome

// PublishOutcome describes a single publisher session.
type PublishOutcome = publisher.Outcome

// Record is one row of the content calendar log.
type Record = recordstore.Record

// Module represents the top level postcast runtime facade.
type Module struct {
	container *di.Container
}

// New constructs a module using the provided configuration and optional DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Preview generates one post without persisting it.
func (m *Module) Preview(ctx context.Context) (Item, error) {
	batch, err := m.container.Builder().Generate(ctx, 1)
	if err != nil {
		return Item{}, err
	}
	return batch.Items[0], nil
}

// Suggest generates count posts without persisting them.
func (m *Module) Suggest(ctx context.Context, count int) (Batch, error) {
	return m.container.Builder().Generate(ctx, count)
}

// Review generates count posts, asks the configured decision provider about
// each one and persists only the approved posts.
func (m *Module) Review(ctx context.Context, count int) (ReviewOutcome, error) {
	return m.container.Builder().BuildReviewed(ctx, count, m.container.Gate())
}

// BuildCalendar generates and persists a batch. A count of zero uses the
// configured calendar size.
func (m *Module) BuildCalendar(ctx context.Context, count int) (Batch, error) {
	if count <= 0 {
		count = m.container.Config.Calendar.Size
	}
	return m.container.Builder().BuildBatch(ctx, count)
}

// PublishNow runs one publisher session immediately.
func (m *Module) PublishNow(ctx context.Context, runID string) PublishOutcome {
	return m.container.Session().Publish(ctx, runID)
}

// RunTrigger blocks, firing the daily publish until ctx is cancelled.
func (m *Module) RunTrigger(ctx context.Context) error {
	return m.container.Trigger().Run(ctx)
}

// History returns every persisted calendar row in file order.
func (m *Module) History(ctx context.Context) ([]Record, error) {
	return m.container.Store().ReadAll(ctx)
}

// LogPath reports where calendar rows are appended.
func (m *Module) LogPath() string {
	return m.container.Store().Path()
}

func (m *Module) Close() error {
	return m.container.Close()
}
