package di_test

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/goliatone/go-postcast/internal/catalog"
	"github.com/goliatone/go-postcast/internal/di"
	"github.com/goliatone/go-postcast/internal/domain"
	"github.com/goliatone/go-postcast/internal/logging/gologger"
	"github.com/goliatone/go-postcast/internal/runtimeconfig"
	"github.com/goliatone/go-postcast/internal/schedule"
	"github.com/goliatone/go-postcast/pkg/interfaces"
	"github.com/goliatone/go-postcast/pkg/testsupport"
)

type stubActuator struct {
	acquireErr error
	releases   int
	typed      string
}

func (s *stubActuator) Acquire(context.Context) error { return s.acquireErr }

func (s *stubActuator) Authenticate(context.Context, interfaces.Credentials, time.Duration) error {
	return nil
}

func (s *stubActuator) WaitFor(context.Context, interfaces.Selector, time.Duration) error {
	return nil
}

func (s *stubActuator) Click(context.Context, interfaces.Selector) error { return nil }

func (s *stubActuator) Type(_ context.Context, _ interfaces.Selector, text string) error {
	s.typed = text
	return nil
}

func (s *stubActuator) Release() error {
	s.releases++
	return nil
}

type failingBackend struct{}

func (failingBackend) Complete(context.Context, interfaces.CompletionRequest) (interfaces.CompletionResponse, error) {
	return interfaces.CompletionResponse{}, errors.New("backend offline")
}

func testConfig(t *testing.T) runtimeconfig.Config {
	t.Helper()
	cfg := runtimeconfig.DefaultConfig()
	dir := t.TempDir()
	cfg.Content.LogPath = filepath.Join(dir, "calendar.csv")
	cfg.Publish.StatePath = ""
	cfg.Calendar.Pacing = 0
	cfg.Credentials = runtimeconfig.CredentialsConfig{Email: "analyst@example.com", Password: "secret"}
	return cfg
}

func TestNewContainerRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Publish.Time = "25:99"

	if _, err := di.NewContainer(cfg); !errors.Is(err, runtimeconfig.ErrPublishTimeInvalid) {
		t.Fatalf("expected ErrPublishTimeInvalid, got %v", err)
	}
}

func TestNewContainerDefaultsToMemoryLedger(t *testing.T) {
	c, err := di.NewContainer(testConfig(t), di.WithLogWriter(&bytes.Buffer{}))
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	defer c.Close()

	if _, ok := c.Ledger().(*schedule.MemoryLedger); !ok {
		t.Fatalf("expected memory ledger, got %T", c.Ledger())
	}
	if got := len(c.Catalog().Topics); got == 0 {
		t.Fatal("expected default catalog topics")
	}
	if c.CalendarCommands() == nil || c.PublishCommand() == nil || c.RunsCommand() == nil {
		t.Fatal("expected command handlers to be wired")
	}
	if got := c.Trigger().Schedule().Cron(); got != "0 10 * * *" {
		t.Fatalf("unexpected cron expression %q", got)
	}
}

func TestNewContainerOpensSQLiteLedger(t *testing.T) {
	cfg := testConfig(t)
	cfg.Publish.StatePath = filepath.Join(t.TempDir(), "state.db")

	c, err := di.NewContainer(cfg, di.WithLogWriter(&bytes.Buffer{}))
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	if _, ok := c.Ledger().(*schedule.BunLedger); !ok {
		t.Fatalf("expected bun ledger, got %T", c.Ledger())
	}
	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestNewContainerMigratesProvidedBunDB(t *testing.T) {
	db := testsupport.NewBunDB(t)

	c, err := di.NewContainer(testConfig(t), di.WithLogWriter(&bytes.Buffer{}), di.WithBunDB(db))
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// Close leaves a caller-owned database open.
	if err := db.PingContext(context.Background()); err != nil {
		t.Fatalf("expected db to stay open: %v", err)
	}
	runs, err := c.Ledger().List(context.Background(), 5)
	if err != nil || len(runs) != 0 {
		t.Fatalf("expected empty migrated ledger, got %v / %v", runs, err)
	}
}

func TestNewContainerUsesGologgerProvider(t *testing.T) {
	cfg := testConfig(t)
	cfg.Logging.Provider = "gologger"
	cfg.Logging.Format = "json"

	c, err := di.NewContainer(cfg)
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	defer c.Close()

	if _, ok := c.LoggerProvider().(*gologger.Provider); !ok {
		t.Fatalf("expected gologger provider, got %T", c.LoggerProvider())
	}
}

func TestFireSessionPersistsFallbackPost(t *testing.T) {
	cfg := testConfig(t)
	act := &stubActuator{}
	cat, err := catalog.New([]domain.Topic{"SQL"}, nil)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}

	c, err := di.NewContainer(cfg,
		di.WithLogWriter(&bytes.Buffer{}),
		di.WithCatalog(cat),
		di.WithSeed(7),
		di.WithTextGenerator(failingBackend{}),
		di.WithActuator(act),
	)
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	defer c.Close()

	outcome, err := di.FireSession(c.Session())(context.Background(), "run-1")
	if err != nil {
		t.Fatalf("fire: %v", err)
	}
	if outcome != schedule.OutcomePublished {
		t.Fatalf("expected published outcome, got %s", outcome)
	}
	if act.releases != 1 {
		t.Fatalf("expected one release, got %d", act.releases)
	}

	records, err := c.Store().ReadAll(context.Background())
	if err != nil {
		t.Fatalf("read records: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected one record, got %d", len(records))
	}
	if records[0].Topic != "SQL" || records[0].Status != "Published" {
		t.Fatalf("unexpected record %+v", records[0])
	}
	if records[0].Content != act.typed {
		t.Fatalf("persisted content differs from published text")
	}
}

func TestFireSessionReportsAbortedAcquire(t *testing.T) {
	act := &stubActuator{acquireErr: errors.New("no browser")}
	c, err := di.NewContainer(testConfig(t), di.WithLogWriter(&bytes.Buffer{}), di.WithActuator(act))
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	defer c.Close()

	outcome, err := di.FireSession(c.Session())(context.Background(), "run-2")
	if outcome != schedule.OutcomeAborted || err == nil {
		t.Fatalf("expected aborted outcome with error, got %s / %v", outcome, err)
	}
}

func TestAutoRegisterCronRequiresRegistrar(t *testing.T) {
	cfg := testConfig(t)
	cfg.Commands.AutoRegisterCron = true

	if _, err := di.NewContainer(cfg, di.WithLogWriter(&bytes.Buffer{})); err == nil {
		t.Fatal("expected error without cron registrar")
	}
}
