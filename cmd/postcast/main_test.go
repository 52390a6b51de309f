package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-postcast/internal/catalog"
	"github.com/goliatone/go-postcast/internal/di"
	"github.com/goliatone/go-postcast/internal/domain"
	"github.com/goliatone/go-postcast/internal/recordstore"
	"github.com/goliatone/go-postcast/pkg/interfaces"
	"github.com/goliatone/go-postcast/pkg/testsupport"
)

type offlineBackend struct{}

func (offlineBackend) Complete(context.Context, interfaces.CompletionRequest) (interfaces.CompletionResponse, error) {
	return interfaces.CompletionResponse{}, errors.New("connection refused")
}

func writeConfig(t *testing.T, withCredentials bool) (string, string) {
	t.Helper()
	dir := t.TempDir()
	logPath := filepath.Join(dir, "content_calendar.csv")

	doc := map[string]any{
		"content":  map[string]any{"log_path": logPath},
		"calendar": map[string]any{"pacing": "0s"},
		"publish":  map[string]any{"state_path": ""},
	}
	if withCredentials {
		doc["credentials"] = map[string]any{"email": "analyst@example.com", "password": "secret"}
	}
	return testsupport.WriteJSON(t, dir, "config.json", doc), logPath
}

func testOptions(t *testing.T) []di.Option {
	t.Helper()
	cat, err := catalog.New([]domain.Topic{"SQL", "Python", "Tableau", "Statistics", "Excel"}, nil)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	return []di.Option{di.WithCatalog(cat), di.WithTextGenerator(offlineBackend{})}
}

func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code := execute(args, strings.NewReader(stdin), &out, &errOut, testOptions(t)...)
	return code, out.String(), errOut.String()
}

func readRows(t *testing.T, path string) []recordstore.Record {
	t.Helper()
	rows, err := recordstore.NewCSVStore(path, nil).ReadAll(context.Background())
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}
	return rows
}

func TestRootCommandPresence(t *testing.T) {
	cmd := newRootCommand(newStreams(strings.NewReader(""), &bytes.Buffer{}, &bytes.Buffer{}))
	for _, name := range []string{"menu", "generate", "calendar", "history", "publish", "run", "runs"} {
		sub, _, err := cmd.Find([]string{name})
		if err != nil || sub == nil || sub.Name() != name {
			t.Fatalf("expected %s command, got %v (err=%v)", name, sub, err)
		}
	}
	if flag := cmd.PersistentFlags().Lookup("config"); flag == nil || flag.DefValue != "config.json" {
		t.Fatalf("expected --config flag defaulting to config.json")
	}
}

func TestMissingConfigIsFatal(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "config.json")

	code, out, errOut := runCLI(t, "1\n", "--config", missing)
	if code != exitFailure {
		t.Fatalf("expected exit code %d, got %d", exitFailure, code)
	}
	if strings.Contains(out, "LinkedIn Content Assistant") {
		t.Fatal("menu must not start without a config")
	}
	if !strings.HasPrefix(errOut, "postcast: ") || !strings.Contains(errOut, "please create") {
		t.Fatalf("unexpected stderr %q", errOut)
	}
	if strings.Count(strings.TrimSpace(errOut), "\n") != 0 {
		t.Fatalf("expected a one-line message, got %q", errOut)
	}
}

func TestRunRequiresCredentials(t *testing.T) {
	t.Setenv("POSTCAST_LINKEDIN_PASSWORD", "")
	path := testsupport.WriteJSON(t, t.TempDir(), "config.json", map[string]any{
		"backend": map[string]any{"api_key": "gsk-test"},
		"publish": map[string]any{"state_path": ""},
	})

	code, out, errOut := runCLI(t, "", "--config", path, "run")
	if code != exitFailure {
		t.Fatalf("expected exit code %d, got %d", exitFailure, code)
	}
	if strings.Contains(out, "automation started") {
		t.Fatal("trigger must not start without credentials")
	}
	if !strings.Contains(errOut, "credentials") {
		t.Fatalf("expected credentials message, got %q", errOut)
	}
}

func TestRunRequiresAPIKey(t *testing.T) {
	t.Setenv("POSTCAST_GROQ_API_KEY", "")
	path, _ := writeConfig(t, true)

	code, _, errOut := runCLI(t, "", "--config", path, "publish")
	if code != exitFailure || !strings.Contains(errOut, "api key") {
		t.Fatalf("expected api key failure, got %d: %q", code, errOut)
	}
}

func TestMenuPreviewInvalidChoiceAndWeeklyCalendar(t *testing.T) {
	path, logPath := writeConfig(t, false)

	code, out, errOut := runCLI(t, "1\n9\n3\n4\n", "--config", path, "--seed", "3")
	if code != exitSuccess {
		t.Fatalf("expected success, got %d: %s", code, errOut)
	}
	for _, want := range []string{
		"LinkedIn Content Assistant",
		"Post Preview",
		"Invalid choice. Please try again.",
		"Generated 5 posts and saved to " + logPath,
		"Goodbye!",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected output to contain %q\n%s", want, out)
		}
	}

	if rows := readRows(t, logPath); len(rows) != 5 {
		t.Fatalf("expected 5 rows from the weekly calendar only, got %d", len(rows))
	}
}

func TestMenuReviewPersistsApproved(t *testing.T) {
	path, logPath := writeConfig(t, false)

	code, out, errOut := runCLI(t, "2\n2\nyes\nno\n4\n", "--config", path)
	if code != exitSuccess {
		t.Fatalf("expected success, got %d: %s", code, errOut)
	}
	if !strings.Contains(out, "Approved 1 posts out of 2") {
		t.Fatalf("missing approval summary:\n%s", out)
	}
	if rows := readRows(t, logPath); len(rows) != 1 || rows[0].Status != "Approved" {
		t.Fatalf("expected one approved row, got %+v", rows)
	}
}

func TestMenuRejectsBadCount(t *testing.T) {
	path, _ := writeConfig(t, false)

	_, out, _ := runCLI(t, "2\nmany\n4\n", "--config", path)
	if !strings.Contains(out, "Please enter a number between 1 and") {
		t.Fatalf("expected count validation message:\n%s", out)
	}
}

func TestMenuEndsOnClosedInput(t *testing.T) {
	path, _ := writeConfig(t, false)

	code, _, errOut := runCLI(t, "", "--config", path, "menu")
	if code != exitSuccess {
		t.Fatalf("expected clean exit on EOF, got %d: %s", code, errOut)
	}
}

func TestGenerateDoesNotPersist(t *testing.T) {
	path, logPath := writeConfig(t, false)

	code, out, errOut := runCLI(t, "", "--config", path, "generate", "--count", "2")
	if code != exitSuccess {
		t.Fatalf("expected success, got %d: %s", code, errOut)
	}
	if strings.Count(out, "Post Preview") != 2 {
		t.Fatalf("expected two previews:\n%s", out)
	}
	if _, err := os.Stat(logPath); !os.IsNotExist(err) {
		t.Fatalf("generate must not write the calendar, stat err=%v", err)
	}
}

func TestCalendarThenHistory(t *testing.T) {
	path, _ := writeConfig(t, false)

	code, out, errOut := runCLI(t, "", "--config", path, "calendar", "--count", "3")
	if code != exitSuccess {
		t.Fatalf("calendar failed with %d: %s", code, errOut)
	}
	if !strings.Contains(out, "Generated 3 posts") || !strings.Contains(out, "3 posts used the fallback template") {
		t.Fatalf("unexpected calendar output:\n%s", out)
	}

	code, out, errOut = runCLI(t, "", "--config", path, "history")
	if code != exitSuccess {
		t.Fatalf("history failed with %d: %s", code, errOut)
	}
	if !strings.Contains(out, "Draft") || !strings.Contains(out, "Topic") {
		t.Fatalf("expected history table:\n%s", out)
	}
}

func TestCalendarRejectsOversizedCount(t *testing.T) {
	path, _ := writeConfig(t, false)

	code, _, errOut := runCLI(t, "", "--config", path, "calendar", "--count", "500")
	if code != exitCommand {
		t.Fatalf("expected exit code %d, got %d", exitCommand, code)
	}
	if !strings.Contains(errOut, "postcast: calendar") {
		t.Fatalf("unexpected stderr %q", errOut)
	}
}

func TestHistoryEmpty(t *testing.T) {
	path, _ := writeConfig(t, false)

	code, out, _ := runCLI(t, "", "--config", path, "history")
	if code != exitSuccess || !strings.Contains(out, "No posts recorded yet.") {
		t.Fatalf("unexpected history result %d:\n%s", code, out)
	}
}
