package di

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-postcast/internal/calendar"
	"github.com/goliatone/go-postcast/internal/catalog"
	"github.com/goliatone/go-postcast/internal/commands"
	calendarcmd "github.com/goliatone/go-postcast/internal/commands/calendar"
	publishcmd "github.com/goliatone/go-postcast/internal/commands/publish"
	"github.com/goliatone/go-postcast/internal/domain"
	"github.com/goliatone/go-postcast/internal/generator"
	"github.com/goliatone/go-postcast/internal/generator/openai"
	"github.com/goliatone/go-postcast/internal/logging"
	"github.com/goliatone/go-postcast/internal/logging/console"
	"github.com/goliatone/go-postcast/internal/logging/gologger"
	"github.com/goliatone/go-postcast/internal/publisher"
	"github.com/goliatone/go-postcast/internal/publisher/browser"
	"github.com/goliatone/go-postcast/internal/recordstore"
	"github.com/goliatone/go-postcast/internal/review"
	"github.com/goliatone/go-postcast/internal/rotation"
	"github.com/goliatone/go-postcast/internal/runtimeconfig"
	"github.com/goliatone/go-postcast/internal/schedule"
	"github.com/goliatone/go-postcast/internal/trigger"
	"github.com/goliatone/go-postcast/pkg/interfaces"
)

// Container wires every collaborator of the postcast runtime.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	logWriter      io.Writer

	catalog    *catalog.Catalog
	rng        *rand.Rand
	backend    interfaces.TextGenerator
	decider    review.DecisionProvider
	actuator   interfaces.Actuator
	audit      publisher.AuditRecorder
	ledger     schedule.Ledger
	bunDB      *bun.DB
	ownsBunDB  bool
	clock      trigger.Clock
	now        func() time.Time
	in         io.Reader
	out        io.Writer
	registry   commands.CommandRegistry
	cronRecord commands.CronRegistrar

	rotator   *rotation.Rotator
	generator *generator.Generator
	store     *recordstore.CSVStore
	builder   *calendar.Builder
	gate      *review.Gate
	session   *publisher.Session
	trigger   *trigger.Trigger

	calendarHandlers *calendarcmd.HandlerSet
	publishHandler   *publishcmd.DailyPublishHandler
	runsHandler      *publishcmd.ListRunsHandler
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider built from the logging config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithLogWriter sets where the console provider writes. Defaults to stderr.
func WithLogWriter(w io.Writer) Option {
	return func(c *Container) {
		c.logWriter = w
	}
}

// WithCatalog replaces the default or configured topic catalog.
func WithCatalog(cat catalog.Catalog) Option {
	return func(c *Container) {
		c.catalog = &cat
	}
}

// WithSeed makes topic and format selection reproducible.
func WithSeed(seed int64) Option {
	return func(c *Container) {
		c.rng = rand.New(rand.NewSource(seed))
	}
}

// WithTextGenerator overrides the go-openai backend.
func WithTextGenerator(backend interfaces.TextGenerator) Option {
	return func(c *Container) {
		c.backend = backend
	}
}

// WithDecisionProvider overrides the console review prompt.
func WithDecisionProvider(provider review.DecisionProvider) Option {
	return func(c *Container) {
		c.decider = provider
	}
}

// WithActuator overrides the chromedp browser actuator.
func WithActuator(actuator interfaces.Actuator) Option {
	return func(c *Container) {
		c.actuator = actuator
	}
}

func WithAuditRecorder(recorder publisher.AuditRecorder) Option {
	return func(c *Container) {
		c.audit = recorder
	}
}

// WithLedger overrides the trigger run ledger.
func WithLedger(ledger schedule.Ledger) Option {
	return func(c *Container) {
		c.ledger = ledger
	}
}

// WithBunDB stores the ledger in an existing database. The caller keeps
// ownership of db.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithClock drives the trigger and item timestamps from clock.
func WithClock(clock trigger.Clock) Option {
	return func(c *Container) {
		c.clock = clock
	}
}

// WithIO sets the streams used by the console review prompt. Nil streams
// keep stdin and stdout.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(c *Container) {
		if in != nil {
			c.in = in
		}
		if out != nil {
			c.out = out
		}
	}
}

// WithCommandRegistry registers every command handler with reg.
func WithCommandRegistry(reg commands.CommandRegistry) Option {
	return func(c *Container) {
		c.registry = reg
	}
}

// WithCronRegistrar receives the daily publish handler when
// Commands.AutoRegisterCron is set.
func WithCronRegistrar(reg commands.CronRegistrar) Option {
	return func(c *Container) {
		c.cronRecord = reg
	}
}

// NewContainer validates cfg and builds every collaborator.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{
		Config: cfg,
		in:     os.Stdin,
		out:    os.Stdout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}
	if c.clock == nil {
		c.clock = trigger.SystemClock{}
	}
	c.now = c.clock.Now
	if c.rng == nil {
		c.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	steps := []func() error{
		c.configureCatalog,
		c.configureGenerator,
		c.configureCalendar,
		c.configureLedger,
		c.configurePublisher,
		c.configureTrigger,
		c.configureCommands,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			_ = c.Close()
			return nil, err
		}
	}
	return c, nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider != nil {
		return nil
	}
	cfg := c.Config.Logging
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     cfg.Level,
			Format:    cfg.Format,
			AddSource: cfg.AddSource,
			Focus:     cfg.Focus,
		})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	default:
		level, _ := console.ParseLevel(cfg.Level)
		c.loggerProvider = console.NewProvider(console.Options{
			Writer:   c.logWriter,
			MinLevel: level,
		})
	}
	return nil
}

func (c *Container) configureCatalog() error {
	if c.catalog != nil {
		return nil
	}
	cat := catalog.Default()
	if path := strings.TrimSpace(c.Config.Content.CatalogPath); path != "" {
		loaded, err := catalog.Load(path)
		if err != nil {
			return fmt.Errorf("load catalog %s: %w", path, err)
		}
		cat = loaded
	}
	c.catalog = &cat
	return nil
}

func (c *Container) configureGenerator() error {
	cfg := c.Config
	if c.backend == nil && strings.TrimSpace(cfg.Backend.APIKey) != "" {
		client, err := openai.New(openai.Config{
			Provider: cfg.Backend.Provider,
			APIKey:   cfg.Backend.APIKey,
			BaseURL:  cfg.Backend.BaseURL,
			Model:    cfg.Backend.Model,
			Timeout:  cfg.Backend.Timeout,
		})
		if err != nil {
			return err
		}
		c.backend = client
	}

	genCfg := generator.DefaultConfig()
	genCfg.Model = cfg.Backend.Model
	genCfg.Timeout = cfg.Backend.Timeout
	if cfg.Backend.Temperature > 0 {
		genCfg.Temperature = cfg.Backend.Temperature
	}
	if cfg.Backend.MaxTokens > 0 {
		genCfg.MaxTokens = cfg.Backend.MaxTokens
	}
	if cfg.Backend.TopP > 0 {
		genCfg.TopP = cfg.Backend.TopP
	}
	if prompt := strings.TrimSpace(cfg.Content.SystemPrompt); prompt != "" {
		genCfg.SystemPrompt = prompt
	}
	genCfg.BrandHashtag = cfg.Content.BrandHashtag
	genCfg.StripMarkdown = cfg.Content.StripMarkdown
	genCfg.Style = generator.Style{
		Audience: cfg.Content.Audience,
		MaxWords: cfg.Content.MaxWords,
		Notes:    c.catalog.Notes,
	}

	c.rotator = rotation.New(c.catalog.Topics, c.catalog.Formats, c.rng)
	c.generator = generator.New(c.backend, genCfg,
		generator.WithLogger(logging.GeneratorLogger(c.loggerProvider)),
		generator.WithClock(c.now),
	)
	return nil
}

func (c *Container) configureCalendar() error {
	c.store = recordstore.NewCSVStore(c.Config.Content.LogPath, logging.RecordStoreLogger(c.loggerProvider))
	c.builder = calendar.NewBuilder(c.rotator, c.generator, c.store,
		calendar.WithPacing(c.Config.Calendar.Pacing),
		calendar.WithLogger(logging.CalendarLogger(c.loggerProvider)),
	)

	decider := c.decider
	if decider == nil {
		decider = review.NewConsoleDecider(c.in, c.out)
	}
	c.gate = review.NewGate(decider, logging.ReviewLogger(c.loggerProvider))
	return nil
}

func (c *Container) configureLedger() error {
	if c.ledger != nil {
		return nil
	}
	if c.bunDB == nil {
		path := strings.TrimSpace(c.Config.Publish.StatePath)
		if path == "" {
			c.ledger = schedule.NewMemoryLedger()
			return nil
		}
		sqldb, err := sql.Open("sqlite3", "file:"+path+"?_busy_timeout=5000&_journal_mode=WAL")
		if err != nil {
			return fmt.Errorf("open state %s: %w", path, err)
		}
		c.bunDB = bun.NewDB(sqldb, sqlitedialect.New())
		c.ownsBunDB = true
	}

	ledger := schedule.NewBunLedger(c.bunDB)
	if err := ledger.Migrate(context.Background()); err != nil {
		return fmt.Errorf("migrate state: %w", err)
	}
	c.ledger = ledger
	return nil
}

func (c *Container) configurePublisher() error {
	cfg := c.Config.Publish
	logger := logging.PublisherLogger(c.loggerProvider)

	if c.actuator == nil {
		c.actuator = browser.New(browser.Options{
			LoginURL: cfg.LoginURL,
			FeedURL:  cfg.FeedURL,
			Headless: cfg.Headless,
			ExecPath: cfg.ExecPath,
			Login: browser.LoginSelectors{
				Username:      interfaces.Selector(cfg.Selectors.Username),
				Password:      interfaces.Selector(cfg.Selectors.Password),
				Submit:        interfaces.Selector(cfg.Selectors.LoginSubmit),
				Authenticated: interfaces.Selector(cfg.Selectors.Authenticated),
			},
		}, logger)
	}
	if c.audit == nil {
		c.audit = publisher.NewLogAuditRecorder(logger)
	}

	c.session = publisher.NewSession(c.actuator, c.rotator, c.generator, c.store, publisher.Config{
		Credentials: interfaces.Credentials{
			Email:    c.Config.Credentials.Email,
			Password: c.Config.Credentials.Password,
		},
		AuthTimeout: cfg.AuthTimeout,
		StepTimeout: cfg.StepTimeout,
		Selectors: publisher.Selectors{
			Composer:     interfaces.Selector(cfg.Selectors.Composer),
			Editor:       interfaces.Selector(cfg.Selectors.Editor),
			Submit:       interfaces.Selector(cfg.Selectors.Submit),
			Confirmation: interfaces.Selector(cfg.Selectors.Confirmation),
		},
	},
		publisher.WithLogger(logger),
		publisher.WithAuditRecorder(c.audit),
		publisher.WithClock(c.now),
	)
	return nil
}

func (c *Container) configureTrigger() error {
	cfg := c.Config.Publish
	loc, err := c.Config.Location()
	if err != nil {
		return err
	}
	daily, err := schedule.ParseDaily(cfg.Time, loc)
	if err != nil {
		return err
	}
	c.trigger, err = trigger.New(daily, FireSession(c.session),
		trigger.WithLedger(c.ledger),
		trigger.WithClock(c.clock),
		trigger.WithLogger(logging.TriggerLogger(c.loggerProvider)),
		trigger.WithPollInterval(cfg.PollInterval),
		trigger.WithCatchUp(cfg.CatchUp),
	)
	return err
}

func (c *Container) configureCommands() error {
	var reg commands.CommandRegistry
	if c.Config.Commands.Enabled {
		reg = c.registry
	}

	set, err := calendarcmd.Register(reg, c.builder, c.gate, c.store, c.Config.Calendar.Size, c.loggerProvider)
	if err != nil {
		return err
	}
	c.calendarHandlers = set

	logger := commands.CommandLogger(c.loggerProvider, "publish")
	c.publishHandler = publishcmd.NewDailyPublishHandler(c.session, logger,
		publishcmd.DailyWithCronExpression(c.trigger.Schedule().Cron()),
		publishcmd.DailyWithClock(c.now),
	)
	c.runsHandler = publishcmd.NewListRunsHandler(c.ledger, logger)
	if err := commands.RegisterAll(reg, c.publishHandler, c.runsHandler); err != nil {
		return err
	}

	if c.Config.Commands.AutoRegisterCron {
		if c.cronRecord == nil {
			return errors.New("di: auto_register_cron requires a cron registrar")
		}
		if err := publishcmd.RegisterCron(c.cronRecord, c.publishHandler); err != nil {
			return err
		}
	}
	return nil
}

// FireSession adapts a publisher session to the trigger fire func.
func FireSession(session *publisher.Session) trigger.FireFunc {
	return func(ctx context.Context, runID string) (schedule.Outcome, error) {
		out := session.Publish(ctx, runID)
		switch out.Status {
		case domain.StatusPublished:
			return schedule.OutcomePublished, out.PersistErr
		case domain.StatusPublishFailed:
			return schedule.OutcomePublishFailed, out.Err
		default:
			return schedule.OutcomeAborted, out.Err
		}
	}
}

// Close releases the state database when the container opened it. Browser
// sessions are released by the publisher after every run.
func (c *Container) Close() error {
	if !c.ownsBunDB || c.bunDB == nil {
		return nil
	}
	err := c.bunDB.Close()
	c.bunDB = nil
	return err
}

func (c *Container) LoggerProvider() interfaces.LoggerProvider { return c.loggerProvider }

func (c *Container) Catalog() catalog.Catalog { return *c.catalog }

func (c *Container) Rotator() *rotation.Rotator { return c.rotator }

func (c *Container) Generator() *generator.Generator { return c.generator }

func (c *Container) Store() *recordstore.CSVStore { return c.store }

func (c *Container) Builder() *calendar.Builder { return c.builder }

func (c *Container) Gate() *review.Gate { return c.gate }

func (c *Container) Ledger() schedule.Ledger { return c.ledger }

func (c *Container) Session() *publisher.Session { return c.session }

func (c *Container) Trigger() *trigger.Trigger { return c.trigger }

func (c *Container) CalendarCommands() *calendarcmd.HandlerSet { return c.calendarHandlers }

func (c *Container) PublishCommand() *publishcmd.DailyPublishHandler { return c.publishHandler }

func (c *Container) RunsCommand() *publishcmd.ListRunsHandler { return c.runsHandler }
