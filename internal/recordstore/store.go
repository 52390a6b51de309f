package recordstore

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/goliatone/go-postcast/internal/domain"
	"github.com/goliatone/go-postcast/internal/logging"
	"github.com/goliatone/go-postcast/pkg/interfaces"
)

// DateLayout is the day-granularity date written to the log.
const DateLayout = "2006-01-02"

// Header is the first row of every log file.
var Header = []string{"Date", "Topic", "Type", "Content", "Status"}

// ErrAppendFailed wraps every I/O failure during Append.
var ErrAppendFailed = errors.New("recordstore: append failed")

// Appender persists content items.
type Appender interface {
	Append(ctx context.Context, items ...domain.Item) error
}

// Record is one row read back from the log.
type Record struct {
	Date    string
	Topic   string
	Type    string
	Content string
	Status  string
}

// CSVStore is the append-only content log. Rows are never rewritten or
// deduplicated.
type CSVStore struct {
	path   string
	logger interfaces.Logger
	mu     sync.Mutex
}

var _ Appender = (*CSVStore)(nil)

// NewCSVStore returns a store writing to path.
func NewCSVStore(path string, logger interfaces.Logger) *CSVStore {
	return &CSVStore{path: path, logger: logging.Ensure(logger)}
}

// Path returns the log file location.
func (s *CSVStore) Path() string {
	return s.path
}

// Append writes one row per item, preceded by the header when the file is
// missing or empty.
func (s *CSVStore) Append(ctx context.Context, items ...domain.Item) error {
	if len(items) == 0 {
		return nil
	}
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %w", ErrAppendFailed, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: %w", ErrAppendFailed, err)
		}
	}

	file, err := os.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrAppendFailed, err)
	}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return fmt.Errorf("%w: %w", ErrAppendFailed, err)
	}

	w := csv.NewWriter(file)
	if info.Size() == 0 {
		if err := w.Write(Header); err != nil {
			_ = file.Close()
			return fmt.Errorf("%w: %w", ErrAppendFailed, err)
		}
	}
	for _, item := range items {
		if err := w.Write(row(item)); err != nil {
			_ = file.Close()
			return fmt.Errorf("%w: %w", ErrAppendFailed, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = file.Close()
		return fmt.Errorf("%w: %w", ErrAppendFailed, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrAppendFailed, err)
	}

	s.logger.Debug("recordstore.appended", "path", s.path, "rows", len(items))
	return nil
}

// ReadAll returns every data row in file order. A missing file yields no rows.
func (s *CSVStore) ReadAll(ctx context.Context) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("recordstore: open %s: %w", s.path, err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(Header)

	var records []Record
	first := true
	for {
		if ctx != nil {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		fields, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("recordstore: read %s: %w", s.path, err)
		}
		if first {
			first = false
			if fields[0] == Header[0] {
				continue
			}
		}
		records = append(records, Record{
			Date:    fields[0],
			Topic:   fields[1],
			Type:    fields[2],
			Content: fields[3],
			Status:  fields[4],
		})
	}
	return records, nil
}

func row(item domain.Item) []string {
	return []string{
		item.CreatedAt.Format(DateLayout),
		item.Topic.String(),
		item.Format.Label,
		item.Body,
		item.Status.Label(),
	}
}
