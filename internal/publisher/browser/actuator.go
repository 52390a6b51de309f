// Package browser drives a headless Chrome session through chromedp.
package browser

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/goliatone/go-postcast/internal/logging"
	"github.com/goliatone/go-postcast/pkg/interfaces"
)

const (
	DefaultLoginURL = "https://www.linkedin.com/login"
	DefaultFeedURL  = "https://www.linkedin.com/feed/"

	DefaultStartTimeout = 30 * time.Second
)

var (
	ErrNotAcquired  = errors.New("browser: session not acquired")
	ErrStartTimeout = errors.New("browser: chrome did not start in time")
)

// LoginSelectors locate the login form and the element that proves the
// session is authenticated.
type LoginSelectors struct {
	Username      interfaces.Selector
	Password      interfaces.Selector
	Submit        interfaces.Selector
	Authenticated interfaces.Selector
}

func DefaultLoginSelectors() LoginSelectors {
	return LoginSelectors{
		Username:      "#username",
		Password:      "#password",
		Submit:        "button[type='submit']",
		Authenticated: "#global-nav",
	}
}

// Options configures the Chrome process and the login flow.
type Options struct {
	LoginURL  string
	FeedURL   string
	Headless  bool
	ExecPath  string
	UserAgent string
	Login     LoginSelectors

	// StartTimeout bounds the launch of the Chrome process in Acquire.
	StartTimeout time.Duration
}

func DefaultOptions() Options {
	return Options{
		LoginURL: DefaultLoginURL,
		FeedURL:  DefaultFeedURL,
		Headless:     true,
		Login:        DefaultLoginSelectors(),
		StartTimeout: DefaultStartTimeout,
	}
}

// Actuator implements interfaces.Actuator on top of chromedp. One Actuator
// holds at most one browser at a time.
type Actuator struct {
	opts   Options
	logger interfaces.Logger

	// start performs the first run on a fresh browser context, which is
	// what launches Chrome.
	start func(ctx context.Context, actions ...chromedp.Action) error

	mu      sync.Mutex
	ctx     context.Context
	cancels []context.CancelFunc
}

var _ interfaces.Actuator = (*Actuator)(nil)

func New(opts Options, logger interfaces.Logger) *Actuator {
	defaults := DefaultOptions()
	if opts.LoginURL == "" {
		opts.LoginURL = defaults.LoginURL
	}
	if opts.FeedURL == "" {
		opts.FeedURL = defaults.FeedURL
	}
	if opts.Login.Username == "" {
		opts.Login.Username = defaults.Login.Username
	}
	if opts.Login.Password == "" {
		opts.Login.Password = defaults.Login.Password
	}
	if opts.Login.Submit == "" {
		opts.Login.Submit = defaults.Login.Submit
	}
	if opts.Login.Authenticated == "" {
		opts.Login.Authenticated = defaults.Login.Authenticated
	}
	if opts.StartTimeout <= 0 {
		opts.StartTimeout = defaults.StartTimeout
	}
	return &Actuator{opts: opts, logger: logging.Ensure(logger), start: chromedp.Run}
}

// Options returns the resolved options.
func (a *Actuator) Options() Options {
	return a.opts
}

func (a *Actuator) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts, chromedp.Flag("headless", a.opts.Headless))
	if a.opts.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(a.opts.ExecPath))
	}
	if a.opts.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(a.opts.UserAgent))
	}
	return opts
}

// Acquire starts the browser. The browser outlives ctx and is only stopped by
// Release. Startup is bounded by Options.StartTimeout.
//
// chromedp launches Chrome on the first Run and ties the process to the
// context of that call, so the first Run gets the session context itself.
func (a *Actuator) Acquire(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.ctx != nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), a.allocatorOptions()...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	a.ctx = browserCtx
	a.cancels = []context.CancelFunc{cancelBrowser, cancelAlloc}

	errc := make(chan error, 1)
	go func() {
		errc <- a.start(browserCtx, chromedp.Navigate("about:blank"))
	}()

	timer := time.NewTimer(a.opts.StartTimeout)
	defer timer.Stop()

	select {
	case err := <-errc:
		if err != nil {
			a.releaseLocked()
			return fmt.Errorf("browser: start chrome: %w", err)
		}
	case <-timer.C:
		a.releaseLocked()
		return fmt.Errorf("%w after %s", ErrStartTimeout, a.opts.StartTimeout)
	case <-ctx.Done():
		a.releaseLocked()
		return fmt.Errorf("browser: start chrome: %w", ctx.Err())
	}
	a.logger.Debug("browser.acquired", "headless", a.opts.Headless)
	return nil
}

// Authenticate submits the login form and waits up to timeout for the
// authenticated marker, then opens the feed.
func (a *Actuator) Authenticate(ctx context.Context, creds interfaces.Credentials, timeout time.Duration) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.ctx == nil {
		return ErrNotAcquired
	}
	sel := a.opts.Login
	err := a.run(ctx, timeout,
		chromedp.Navigate(a.opts.LoginURL),
		chromedp.WaitVisible(string(sel.Username), chromedp.ByQuery),
		chromedp.SendKeys(string(sel.Username), creds.Email, chromedp.ByQuery),
		chromedp.SendKeys(string(sel.Password), creds.Password, chromedp.ByQuery),
		chromedp.Click(string(sel.Submit), chromedp.ByQuery),
		chromedp.WaitVisible(string(sel.Authenticated), chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("browser: login: %w", err)
	}
	if err := a.run(ctx, timeout, chromedp.Navigate(a.opts.FeedURL)); err != nil {
		return fmt.Errorf("browser: open feed: %w", err)
	}
	return nil
}

func (a *Actuator) WaitFor(ctx context.Context, selector interfaces.Selector, timeout time.Duration) error {
	return a.do(ctx, timeout, chromedp.WaitVisible(string(selector), chromedp.ByQuery))
}

func (a *Actuator) Click(ctx context.Context, selector interfaces.Selector) error {
	return a.do(ctx, 0, chromedp.Click(string(selector), chromedp.ByQuery))
}

func (a *Actuator) Type(ctx context.Context, selector interfaces.Selector, text string) error {
	return a.do(ctx, 0, chromedp.SendKeys(string(selector), text, chromedp.ByQuery))
}

// Release stops the browser. It is safe to call more than once and before
// Acquire.
func (a *Actuator) Release() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.ctx == nil {
		return nil
	}
	a.releaseLocked()
	a.logger.Debug("browser.released")
	return nil
}

func (a *Actuator) releaseLocked() {
	for _, cancel := range a.cancels {
		cancel()
	}
	a.ctx = nil
	a.cancels = nil
}

func (a *Actuator) do(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.ctx == nil {
		return ErrNotAcquired
	}
	return a.run(ctx, timeout, actions...)
}

// run executes actions on an already started browser, bounded by timeout
// when positive and cancelled together with ctx. Cancelling a derived
// context after the first run only closes that run, not Chrome.
func (a *Actuator) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(a.ctx)
	defer cancel()
	if timeout > 0 {
		var cancelTimeout context.CancelFunc
		runCtx, cancelTimeout = context.WithTimeout(runCtx, timeout)
		defer cancelTimeout()
	}
	if ctx != nil {
		stop := context.AfterFunc(ctx, cancel)
		defer stop()
	}
	return chromedp.Run(runCtx, actions...)
}
