package interfaces

import (
	"context"
	"time"
)

// Credentials are the account credentials submitted during authentication.
type Credentials struct {
	Email    string
	Password string
}

// Selector identifies a UI element the actuator can wait for or interact with.
// The core treats selectors as opaque strings.
type Selector string

// Actuator drives the external publishing surface through UI automation.
//
// Acquire opens the automation session and Release tears it down. Release must
// be safe to call after a failed or partial Acquire. Every other call reports a
// binary success/failure outcome; waits are bounded by the supplied timeout.
type Actuator interface {
	Acquire(ctx context.Context) error
	Authenticate(ctx context.Context, creds Credentials, timeout time.Duration) error
	WaitFor(ctx context.Context, selector Selector, timeout time.Duration) error
	Click(ctx context.Context, selector Selector) error
	Type(ctx context.Context, selector Selector, text string) error
	Release() error
}
