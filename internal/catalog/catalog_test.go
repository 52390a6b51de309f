package catalog_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-postcast/internal/catalog"
	"github.com/goliatone/go-postcast/internal/domain"
)

func TestDefaultCatalog(t *testing.T) {
	cat := catalog.Default()
	if len(cat.Topics) != 15 {
		t.Fatalf("expected 15 default topics, got %d", len(cat.Topics))
	}
	if len(cat.Formats) != 7 {
		t.Fatalf("expected 7 default formats, got %d", len(cat.Formats))
	}
	format, ok := cat.FormatByLabel("quick tip")
	if !ok || format.Marker != "💡" {
		t.Fatalf("unexpected format lookup %+v %v", format, ok)
	}
}

func TestNewRejectsEmptyCatalog(t *testing.T) {
	if _, err := catalog.New([]domain.Topic{" ", ""}, nil); !errors.Is(err, catalog.ErrEmptyCatalog) {
		t.Fatalf("expected ErrEmptyCatalog, got %v", err)
	}
}

func TestLoadCatalogFile(t *testing.T) {
	cat, err := catalog.Load(filepath.Join("testdata", "catalog.md"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cat.Topics) != 2 || cat.Topics[0] != "Query Plans" || cat.Topics[1] != "Window Functions" {
		t.Fatalf("unexpected topics %v", cat.Topics)
	}
	if len(cat.Formats) != 1 || cat.Formats[0].Label != "Quick Tip" {
		t.Fatalf("unexpected formats %+v", cat.Formats)
	}
	if cat.Notes != "Mention PostgreSQL when it fits." {
		t.Fatalf("unexpected notes %q", cat.Notes)
	}
}

func TestLookupByNameAndSlug(t *testing.T) {
	cat := catalog.Default()

	topic, err := cat.Lookup("etl best practices")
	if err != nil || topic != "ETL Best Practices" {
		t.Fatalf("Lookup by name = %q, %v", topic, err)
	}

	slugged := domain.Topic("SQL Query Optimization").Slug()
	topic, err = cat.Lookup(slugged)
	if err != nil || topic != "SQL Query Optimization" {
		t.Fatalf("Lookup by slug %q = %q, %v", slugged, topic, err)
	}

	if _, err := cat.Lookup("Astrology"); !errors.Is(err, catalog.ErrTopicNotFound) {
		t.Fatalf("expected ErrTopicNotFound, got %v", err)
	}
}
