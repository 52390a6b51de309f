package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/goliatone/go-postcast/internal/domain"
	"github.com/goliatone/go-postcast/internal/generator"
	"github.com/goliatone/go-postcast/internal/logging"
	"github.com/goliatone/go-postcast/internal/recordstore"
	"github.com/goliatone/go-postcast/internal/review"
	"github.com/goliatone/go-postcast/pkg/interfaces"
)

// DefaultPacing is the minimum gap between two generator calls.
const DefaultPacing = time.Second

// DefaultSize is the number of posts in a weekly calendar.
const DefaultSize = 5

// ErrInvalidCount is returned for a non-positive batch size.
var ErrInvalidCount = errors.New("calendar: count must be positive")

// ContentGenerator is the generation capability the builder drives.
type ContentGenerator interface {
	Generate(ctx context.Context, topic domain.Topic, format domain.Format) generator.Result
}

// TopicSource yields the next topic and format.
type TopicSource interface {
	Next() domain.Topic
	NextFormat() domain.Format
}

// Reviewer gates generated items before they are persisted.
type Reviewer interface {
	Review(ctx context.Context, items []domain.Item) (review.Outcome, error)
}

// Batch is the ordered result of one builder run.
type Batch struct {
	Items     []domain.Item
	Fallbacks int
}

// Builder produces calendar batches.
type Builder struct {
	topics    TopicSource
	generator ContentGenerator
	store     recordstore.Appender
	limiter   *rate.Limiter
	logger    interfaces.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithPacing sets the minimum gap between generator calls. Zero disables pacing.
func WithPacing(gap time.Duration) Option {
	return func(b *Builder) {
		b.limiter = newLimiter(gap)
	}
}

// WithLogger sets the logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(b *Builder) {
		b.logger = logging.Ensure(logger)
	}
}

// NewBuilder wires a builder with DefaultPacing.
func NewBuilder(topics TopicSource, gen ContentGenerator, store recordstore.Appender, opts ...Option) *Builder {
	b := &Builder{
		topics:    topics,
		generator: gen,
		store:     store,
		limiter:   newLimiter(DefaultPacing),
		logger:    logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

func newLimiter(gap time.Duration) *rate.Limiter {
	if gap <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(gap), 1)
}

// Generate runs count paced generations without persisting anything.
func (b *Builder) Generate(ctx context.Context, count int) (Batch, error) {
	if count <= 0 {
		return Batch{}, fmt.Errorf("%w: %d", ErrInvalidCount, count)
	}

	batch := Batch{Items: make([]domain.Item, 0, count)}
	for i := 0; i < count; i++ {
		if err := b.limiter.Wait(ctx); err != nil {
			return batch, fmt.Errorf("calendar: pacing: %w", err)
		}
		topic := b.topics.Next()
		format := b.topics.NextFormat()

		result := b.generator.Generate(ctx, topic, format)
		if result.UsedFallback {
			batch.Fallbacks++
		}
		batch.Items = append(batch.Items, result.Item)
	}
	return batch, nil
}

// BuildBatch generates count drafts and appends them in a single call. When
// the append fails the batch is still returned alongside the error.
func (b *Builder) BuildBatch(ctx context.Context, count int) (Batch, error) {
	batch, err := b.Generate(ctx, count)
	if err != nil {
		return batch, err
	}

	if err := b.store.Append(ctx, batch.Items...); err != nil {
		b.logger.Error("calendar.persist.failed", "error", err, "items", len(batch.Items))
		return batch, err
	}

	b.logger.Info("calendar.batch.persisted", "items", len(batch.Items), "fallbacks", batch.Fallbacks)
	return batch, nil
}

// BuildReviewed generates count drafts, passes them through reviewer and
// appends the approved ones in a single call.
func (b *Builder) BuildReviewed(ctx context.Context, count int, reviewer Reviewer) (review.Outcome, error) {
	batch, err := b.Generate(ctx, count)
	if err != nil {
		return review.Outcome{}, err
	}

	outcome, err := reviewer.Review(ctx, batch.Items)
	if err != nil {
		return outcome, err
	}
	if len(outcome.Approved) == 0 {
		b.logger.Info("calendar.review.none_approved", "items", count)
		return outcome, nil
	}

	if err := b.store.Append(ctx, outcome.Approved...); err != nil {
		b.logger.Error("calendar.persist.failed", "error", err, "items", len(outcome.Approved))
		return outcome, err
	}
	b.logger.Info("calendar.review.persisted", "approved", len(outcome.Approved), "items", count)
	return outcome, nil
}
