package review

import (
	"context"
	"fmt"

	"github.com/goliatone/go-postcast/internal/domain"
	"github.com/goliatone/go-postcast/internal/logging"
	"github.com/goliatone/go-postcast/pkg/interfaces"
)

// Decision is the reviewer's verdict on one item.
type Decision int

const (
	Reject Decision = iota
	Approve
)

func (d Decision) String() string {
	if d == Approve {
		return "approve"
	}
	return "reject"
}

// DecisionProvider supplies a verdict for each item. The console provider
// blocks on human input; tests use scripted providers.
type DecisionProvider interface {
	Decide(ctx context.Context, item domain.Item) (Decision, error)
}

// DecisionFunc adapts a function to DecisionProvider.
type DecisionFunc func(ctx context.Context, item domain.Item) (Decision, error)

func (f DecisionFunc) Decide(ctx context.Context, item domain.Item) (Decision, error) {
	return f(ctx, item)
}

// Outcome lists the items after review. Reviewed holds every item with its
// new status; Approved holds the approved subset in input order.
type Outcome struct {
	Approved []domain.Item
	Reviewed []domain.Item
}

// Gate presents items to a DecisionProvider one at a time.
type Gate struct {
	provider DecisionProvider
	logger   interfaces.Logger
}

// NewGate returns a gate asking provider for every decision.
func NewGate(provider DecisionProvider, logger interfaces.Logger) *Gate {
	return &Gate{provider: provider, logger: logging.Ensure(logger)}
}

// Review asks for a decision on each item in order and moves it to approved
// or rejected. A provider error stops the review; items reviewed so far are
// returned with the error.
func (g *Gate) Review(ctx context.Context, items []domain.Item) (Outcome, error) {
	var out Outcome
	for idx, item := range items {
		decision, err := g.provider.Decide(ctx, item)
		if err != nil {
			return out, fmt.Errorf("review: item %d: %w", idx+1, err)
		}

		target := domain.StatusRejected
		if decision == Approve {
			target = domain.StatusApproved
		}
		if err := item.Transition(target); err != nil {
			return out, fmt.Errorf("review: item %d: %w", idx+1, err)
		}

		logging.WithTopic(g.logger, item.Topic.String(), item.Format.Label).
			Debug("review.decided", "decision", decision.String())

		out.Reviewed = append(out.Reviewed, item)
		if decision == Approve {
			out.Approved = append(out.Approved, item)
		}
	}
	return out, nil
}
