package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidTransition is returned when a status change is not allowed.
var ErrInvalidTransition = errors.New("domain: status transition not allowed")

// transitions lists the allowed moves. Terminal statuses have no entry.
var transitions = map[Status][]Status{
	StatusDraft: {StatusApproved, StatusRejected, StatusPublished, StatusPublishFailed},
}

var statusLabels = map[Status]string{
	StatusDraft:         "Draft",
	StatusApproved:      "Approved",
	StatusRejected:      "Rejected",
	StatusPublished:     "Published",
	StatusPublishFailed: "PublishFailed",
}

// CanTransition reports whether from may move to to.
func CanTransition(from, to Status) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is possible from s.
func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// Label returns the display form used in the content log.
func (s Status) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

// ParseStatus accepts either the stored value or the display label.
func ParseStatus(input string) (Status, error) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	for status, label := range statusLabels {
		if normalized == string(status) || normalized == strings.ToLower(label) {
			return status, nil
		}
	}
	return "", fmt.Errorf("domain: unknown status %q", input)
}
