package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/adrg/frontmatter"

	"github.com/goliatone/go-postcast/internal/domain"
)

var (
	// ErrEmptyCatalog is returned when a catalog has no topics.
	ErrEmptyCatalog = errors.New("catalog: at least one topic is required")
	// ErrTopicNotFound is returned by Lookup for unknown names.
	ErrTopicNotFound = errors.New("catalog: topic not found")
)

// Catalog is the ordered set of topics and formats content is drawn from.
// Notes carries free-form style guidance appended to generation prompts.
type Catalog struct {
	Topics  []domain.Topic
	Formats []domain.Format
	Notes   string
}

// New builds a catalog, dropping blank and duplicate topics while keeping
// their first-seen order.
func New(topics []domain.Topic, formats []domain.Format) (Catalog, error) {
	seen := make(map[domain.Topic]struct{}, len(topics))
	ordered := make([]domain.Topic, 0, len(topics))
	for _, topic := range topics {
		trimmed := domain.Topic(strings.TrimSpace(string(topic)))
		if trimmed == "" {
			continue
		}
		if _, dup := seen[trimmed]; dup {
			continue
		}
		seen[trimmed] = struct{}{}
		ordered = append(ordered, trimmed)
	}
	if len(ordered) == 0 {
		return Catalog{}, ErrEmptyCatalog
	}

	kept := make([]domain.Format, 0, len(formats))
	for _, format := range formats {
		if format.IsZero() {
			continue
		}
		kept = append(kept, domain.Format{
			Label:  strings.TrimSpace(format.Label),
			Marker: strings.TrimSpace(format.Marker),
		})
	}

	return Catalog{Topics: ordered, Formats: kept}, nil
}

// Lookup finds a topic by exact name or by slug.
func (c Catalog) Lookup(nameOrSlug string) (domain.Topic, error) {
	needle := strings.TrimSpace(nameOrSlug)
	for _, topic := range c.Topics {
		if strings.EqualFold(string(topic), needle) {
			return topic, nil
		}
	}
	needleSlug := domain.Topic(needle).Slug()
	if needleSlug != "" {
		for _, topic := range c.Topics {
			if topic.Slug() == needleSlug {
				return topic, nil
			}
		}
	}
	return "", fmt.Errorf("%w: %q", ErrTopicNotFound, nameOrSlug)
}

// FormatByLabel finds a format by its label, case-insensitively.
func (c Catalog) FormatByLabel(label string) (domain.Format, bool) {
	for _, format := range c.Formats {
		if strings.EqualFold(format.Label, strings.TrimSpace(label)) {
			return format, true
		}
	}
	return domain.Format{}, false
}

type catalogFrontMatter struct {
	Topics  []string        `yaml:"topics"`
	Formats []domain.Format `yaml:"formats"`
}

// Parse reads a markdown catalog document. Topics and formats come from the
// YAML front matter; the body becomes Notes.
func Parse(source []byte) (Catalog, error) {
	var meta catalogFrontMatter
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return Catalog{}, fmt.Errorf("catalog: parse front matter: %w", err)
	}

	topics := make([]domain.Topic, 0, len(meta.Topics))
	for _, name := range meta.Topics {
		topics = append(topics, domain.Topic(name))
	}
	cat, err := New(topics, meta.Formats)
	if err != nil {
		return Catalog{}, err
	}
	cat.Notes = strings.TrimSpace(string(body))
	return cat, nil
}

// Load reads and parses the catalog file at path.
func Load(path string) (Catalog, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	return Parse(source)
}
