package publisher

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-postcast/internal/logging"
	"github.com/goliatone/go-postcast/pkg/interfaces"
)

// AuditEvent records a published post.
type AuditEvent struct {
	RunID       string
	ItemID      uuid.UUID
	Topic       string
	Format      string
	Content     string
	PublishedAt time.Time
}

// AuditRecorder stores audit events for published posts.
type AuditRecorder interface {
	Record(ctx context.Context, event AuditEvent) error
}

// InMemoryAuditRecorder keeps events in memory.
type InMemoryAuditRecorder struct {
	mu     sync.Mutex
	events []AuditEvent
}

func NewInMemoryAuditRecorder() *InMemoryAuditRecorder {
	return &InMemoryAuditRecorder{}
}

func (r *InMemoryAuditRecorder) Record(_ context.Context, event AuditEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

// Events returns a snapshot of the recorded events.
func (r *InMemoryAuditRecorder) Events() []AuditEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.events)
}

// LogAuditRecorder writes audit events to a logger at info level.
type LogAuditRecorder struct {
	logger interfaces.Logger
}

func NewLogAuditRecorder(logger interfaces.Logger) *LogAuditRecorder {
	return &LogAuditRecorder{logger: logging.Ensure(logger)}
}

func (r *LogAuditRecorder) Record(_ context.Context, event AuditEvent) error {
	r.logger.Info("publisher.audit.published",
		"run_id", event.RunID,
		"item_id", event.ItemID.String(),
		"topic", event.Topic,
		"format", event.Format,
		"published_at", event.PublishedAt,
		"content", event.Content,
	)
	return nil
}
