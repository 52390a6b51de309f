package domain

import (
	"strings"
	"unicode"

	"github.com/goliatone/go-slug"
)

// Status is the lifecycle state of a generated content item.
type Status string

const (
	// StatusDraft is the state every generated item starts in
	StatusDraft Status = "draft"
	// StatusApproved marks an item accepted during review
	StatusApproved Status = "approved"
	// StatusRejected marks an item declined during review
	StatusRejected Status = "rejected"
	// StatusPublished marks an item the actuator posted successfully
	StatusPublished Status = "published"
	// StatusPublishFailed marks an item whose publish attempt failed
	StatusPublishFailed Status = "publish_failed"
)

// Topic is a subject label from the catalog.
type Topic string

func (t Topic) String() string { return string(t) }

// Slug returns the normalized slug for the topic, or an empty string when the
// topic cannot be normalized.
func (t Topic) Slug() string {
	normalized, err := slug.Normalize(string(t))
	if err != nil {
		return ""
	}
	return normalized
}

// Hashtag returns the topic with all whitespace removed, prefixed with '#'.
func (t Topic) Hashtag() string {
	compact := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, string(t))
	return "#" + compact
}

// Format is a presentation style paired with a decorative marker.
// The zero value means no format.
type Format struct {
	Label  string `yaml:"label" json:"label"`
	Marker string `yaml:"marker" json:"marker"`
}

// IsZero reports whether f is the "no format" value.
func (f Format) IsZero() bool {
	return strings.TrimSpace(f.Label) == ""
}
