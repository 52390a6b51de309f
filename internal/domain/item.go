package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Item is a single generated post.
type Item struct {
	ID           uuid.UUID
	CreatedAt    time.Time
	Topic        Topic
	Format       Format
	Body         string
	UsedFallback bool
	Status       Status
}

// NewDraft returns a draft item stamped with now.
func NewDraft(topic Topic, format Format, body string, now time.Time) Item {
	return Item{
		ID:        uuid.New(),
		CreatedAt: now,
		Topic:     topic,
		Format:    format,
		Body:      body,
		Status:    StatusDraft,
	}
}

// Transition moves the item to status to. The item is left untouched when the
// move is not allowed.
func (i *Item) Transition(to Status) error {
	if !CanTransition(i.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, i.Status, to)
	}
	i.Status = to
	return nil
}
