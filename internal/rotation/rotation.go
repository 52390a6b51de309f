package rotation

import (
	"math/rand"
	"slices"

	"github.com/goliatone/go-postcast/internal/domain"
)

// State is the rotation memory: the ordered catalog and the topics already
// used in the current cycle. Used is always a subset of Catalog.
type State struct {
	Catalog []domain.Topic
	Used    map[domain.Topic]struct{}
}

// NewState returns a fresh state over catalog.
func NewState(catalog []domain.Topic) State {
	return State{
		Catalog: slices.Clone(catalog),
		Used:    map[domain.Topic]struct{}{},
	}
}

// Available returns the catalog topics not yet used, in catalog order.
func (s State) Available() []domain.Topic {
	out := make([]domain.Topic, 0, len(s.Catalog))
	for _, topic := range s.Catalog {
		if _, used := s.Used[topic]; !used {
			out = append(out, topic)
		}
	}
	return out
}

// Pick selects a topic uniformly from the unused ones and returns it with the
// next state. When every topic has been used the cycle restarts. The input
// state is not modified. Pick panics on an empty catalog.
func Pick(s State, rng *rand.Rand) (domain.Topic, State) {
	if len(s.Catalog) == 0 {
		panic("rotation: empty catalog")
	}

	available := s.Available()
	used := make(map[domain.Topic]struct{}, len(s.Catalog))
	if len(available) == 0 {
		available = slices.Clone(s.Catalog)
	} else {
		for topic := range s.Used {
			used[topic] = struct{}{}
		}
	}

	topic := available[rng.Intn(len(available))]
	used[topic] = struct{}{}

	return topic, State{Catalog: s.Catalog, Used: used}
}

// PickFormat selects a format uniformly with no memory. An empty list yields
// the zero Format.
func PickFormat(formats []domain.Format, rng *rand.Rand) domain.Format {
	if len(formats) == 0 {
		return domain.Format{}
	}
	return formats[rng.Intn(len(formats))]
}

// Rotator keeps a State between calls. It is not safe for concurrent use.
type Rotator struct {
	state   State
	formats []domain.Format
	rng     *rand.Rand
}

// New returns a Rotator over topics and formats using rng.
func New(topics []domain.Topic, formats []domain.Format, rng *rand.Rand) *Rotator {
	return &Rotator{
		state:   NewState(topics),
		formats: slices.Clone(formats),
		rng:     rng,
	}
}

// Next returns the next topic.
func (r *Rotator) Next() domain.Topic {
	topic, next := Pick(r.state, r.rng)
	r.state = next
	return topic
}

// NextFormat returns an independently chosen format.
func (r *Rotator) NextFormat() domain.Format {
	return PickFormat(r.formats, r.rng)
}

// State returns the current rotation state.
func (r *Rotator) State() State {
	return r.state
}
