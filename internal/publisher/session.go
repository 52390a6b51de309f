package publisher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goliatone/go-postcast/internal/domain"
	"github.com/goliatone/go-postcast/internal/generator"
	"github.com/goliatone/go-postcast/internal/logging"
	"github.com/goliatone/go-postcast/internal/recordstore"
	"github.com/goliatone/go-postcast/pkg/interfaces"
)

const (
	DefaultAuthTimeout = 10 * time.Second
	DefaultStepTimeout = 10 * time.Second
)

// Step names the stage a session reached.
type Step string

const (
	StepAcquire      Step = "acquire"
	StepAuthenticate Step = "authenticate"
	StepGenerate     Step = "generate"
	StepOpenComposer Step = "open_composer"
	StepInjectText   Step = "inject_text"
	StepSubmit       Step = "submit"
	StepDone         Step = "done"
)

var (
	ErrAcquire      = errors.New("publisher: session acquire failed")
	ErrAuthenticate = errors.New("publisher: authentication failed")
	ErrPublishStep  = errors.New("publisher: publish step failed")
)

// Selectors name the UI elements of the three publish steps.
type Selectors struct {
	Composer interfaces.Selector
	Editor   interfaces.Selector
	Submit   interfaces.Selector
	// Confirmation is awaited after submit when set.
	Confirmation interfaces.Selector
}

// DefaultSelectors target the LinkedIn feed composer.
func DefaultSelectors() Selectors {
	return Selectors{
		Composer: "button[aria-label='Start a post']",
		Editor:   "div[role='textbox']",
		Submit:   "button[aria-label='Post']",
	}
}

// Config holds session credentials and bounds.
type Config struct {
	Credentials interfaces.Credentials
	AuthTimeout time.Duration
	StepTimeout time.Duration
	Selectors   Selectors
}

// ContentGenerator is the generation capability used once per session.
type ContentGenerator interface {
	Generate(ctx context.Context, topic domain.Topic, format domain.Format) generator.Result
}

// TopicSource yields the next topic and format.
type TopicSource interface {
	Next() domain.Topic
	NextFormat() domain.Format
}

// Outcome describes one session. Status is empty when acquire failed and
// Item is nil when no content was generated.
type Outcome struct {
	RunID      string
	Item       *domain.Item
	Status     domain.Status
	Step       Step
	Err        error
	PersistErr error
}

// Published reports whether the post went out.
func (o Outcome) Published() bool {
	return o.Status == domain.StatusPublished
}

// Session runs acquire, authenticate, generate, publish and release against
// an actuator.
type Session struct {
	actuator  interfaces.Actuator
	topics    TopicSource
	generator ContentGenerator
	store     recordstore.Appender
	audit     AuditRecorder
	cfg       Config
	logger    interfaces.Logger
	now       func() time.Time
}

// Option configures a Session.
type Option func(*Session)

func WithLogger(logger interfaces.Logger) Option {
	return func(s *Session) {
		s.logger = logging.Ensure(logger)
	}
}

func WithAuditRecorder(recorder AuditRecorder) Option {
	return func(s *Session) {
		if recorder != nil {
			s.audit = recorder
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// NewSession wires a session. store may be nil to skip persistence.
func NewSession(actuator interfaces.Actuator, topics TopicSource, gen ContentGenerator, store recordstore.Appender, cfg Config, opts ...Option) *Session {
	if cfg.AuthTimeout <= 0 {
		cfg.AuthTimeout = DefaultAuthTimeout
	}
	if cfg.StepTimeout <= 0 {
		cfg.StepTimeout = DefaultStepTimeout
	}
	defaults := DefaultSelectors()
	if cfg.Selectors.Composer == "" {
		cfg.Selectors.Composer = defaults.Composer
	}
	if cfg.Selectors.Editor == "" {
		cfg.Selectors.Editor = defaults.Editor
	}
	if cfg.Selectors.Submit == "" {
		cfg.Selectors.Submit = defaults.Submit
	}

	s := &Session{
		actuator:  actuator,
		topics:    topics,
		generator: gen,
		store:     store,
		cfg:       cfg,
		logger:    logging.NoOp(),
		now:       time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.audit == nil {
		s.audit = NewLogAuditRecorder(s.logger)
	}
	return s
}

// Publish runs one session. Failures are reported on the Outcome and never
// returned or propagated as panics. The actuator is released exactly once
// before the item is persisted.
func (s *Session) Publish(ctx context.Context, runID string) Outcome {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := logging.WithRunID(s.logger, runID)

	out := s.run(ctx, logger)
	out.RunID = runID

	if out.Item != nil {
		logger = logging.WithTopic(logger, out.Item.Topic.String(), out.Item.Format.Label)
		if s.store != nil {
			if err := s.store.Append(ctx, *out.Item); err != nil {
				out.PersistErr = err
				logger.Error("publisher.persist.failed", "error", err)
			}
		}
	}

	switch {
	case out.Published():
		if err := s.audit.Record(ctx, AuditEvent{
			RunID:       runID,
			ItemID:      out.Item.ID,
			Topic:       out.Item.Topic.String(),
			Format:      out.Item.Format.Label,
			Content:     out.Item.Body,
			PublishedAt: s.now(),
		}); err != nil {
			logger.Warn("publisher.audit.failed", "error", err)
		}
		logger.Info("publisher.published", "used_fallback", out.Item.UsedFallback)
	default:
		logger.Error("publisher.failed", "step", string(out.Step), "error", out.Err)
	}
	return out
}

func (s *Session) run(ctx context.Context, logger interfaces.Logger) (out Outcome) {
	out.Step = StepAcquire
	defer func() {
		if r := recover(); r != nil {
			out.Err = fmt.Errorf("publisher: panic during %s: %v", out.Step, r)
			s.fail(&out)
		}
		if err := s.actuator.Release(); err != nil {
			logger.Warn("publisher.release.failed", "error", err)
		}
	}()

	if err := s.actuator.Acquire(ctx); err != nil {
		out.Err = fmt.Errorf("%w: %w", ErrAcquire, err)
		return out
	}

	out.Step = StepAuthenticate
	if err := s.actuator.Authenticate(ctx, s.cfg.Credentials, s.cfg.AuthTimeout); err != nil {
		out.Err = fmt.Errorf("%w: %w", ErrAuthenticate, err)
		s.fail(&out)
		return out
	}

	out.Step = StepGenerate
	result := s.generator.Generate(ctx, s.topics.Next(), s.topics.NextFormat())
	item := result.Item
	out.Item = &item

	sel := s.cfg.Selectors
	steps := []struct {
		step Step
		run  func() error
	}{
		{StepOpenComposer, func() error { return s.waitAndClick(ctx, sel.Composer) }},
		{StepInjectText, func() error { return s.waitAndType(ctx, sel.Editor, item.Body) }},
		{StepSubmit, func() error { return s.submit(ctx, sel) }},
	}
	for _, st := range steps {
		out.Step = st.step
		if err := st.run(); err != nil {
			out.Err = fmt.Errorf("%w: %s: %w", ErrPublishStep, st.step, err)
			s.fail(&out)
			return out
		}
	}

	out.Step = StepDone
	if err := out.Item.Transition(domain.StatusPublished); err != nil {
		out.Err = err
		return out
	}
	out.Status = domain.StatusPublished
	return out
}

// fail records publish_failed for any run that got past acquire.
func (s *Session) fail(out *Outcome) {
	if out.Step == StepAcquire {
		return
	}
	if out.Item != nil && out.Item.Status == domain.StatusDraft {
		_ = out.Item.Transition(domain.StatusPublishFailed)
	}
	out.Status = domain.StatusPublishFailed
}

func (s *Session) waitAndClick(ctx context.Context, selector interfaces.Selector) error {
	if err := s.actuator.WaitFor(ctx, selector, s.cfg.StepTimeout); err != nil {
		return err
	}
	return s.actuator.Click(ctx, selector)
}

func (s *Session) waitAndType(ctx context.Context, selector interfaces.Selector, text string) error {
	if err := s.actuator.WaitFor(ctx, selector, s.cfg.StepTimeout); err != nil {
		return err
	}
	return s.actuator.Type(ctx, selector, text)
}

func (s *Session) submit(ctx context.Context, sel Selectors) error {
	if err := s.waitAndClick(ctx, sel.Submit); err != nil {
		return err
	}
	if sel.Confirmation == "" {
		return nil
	}
	return s.actuator.WaitFor(ctx, sel.Confirmation, s.cfg.StepTimeout)
}
