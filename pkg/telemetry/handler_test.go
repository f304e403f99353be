package telemetry

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/parquet-go/parquet-go"
)

func newTestHandler(t *testing.T) (*ParquetHandler, string) {
	t.Helper()
	dir := t.TempDir()
	next := slog.NewTextHandler(io.Discard, nil)
	h, err := NewParquetHandler(next, dir)
	if err != nil {
		t.Fatalf("NewParquetHandler: %v", err)
	}
	return h, dir
}

func parquetFiles(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	var files []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".parquet") {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	return files
}

func TestHandlerCapturesErrorsOnly(t *testing.T) {
	t.Parallel()

	h, dir := newTestHandler(t)
	logger := slog.New(h)

	logger.Info("ingested document", slog.String("document_id", "d1"))
	logger.Error("search signal failed", slog.String("signal", "graph_traversal"))

	if err := h.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	files := parquetFiles(t, dir)
	if len(files) != 1 {
		t.Fatalf("got %d parquet files, want 1", len(files))
	}

	rows, err := parquet.ReadFile[LogRecord](files[0])
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d records, want only the error", len(rows))
	}
	if rows[0].Message != "search signal failed" {
		t.Errorf("Message = %q", rows[0].Message)
	}
	if !strings.Contains(rows[0].Attributes, "graph_traversal") {
		t.Errorf("Attributes = %q, want the signal name", rows[0].Attributes)
	}
}

func TestHandlerCloseWithEmptyBuffer(t *testing.T) {
	t.Parallel()

	h, dir := newTestHandler(t)
	if err := h.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if files := parquetFiles(t, dir); len(files) != 0 {
		t.Errorf("empty buffer must write no files, got %d", len(files))
	}
}

func TestHandlerForwardsToNext(t *testing.T) {
	t.Parallel()

	var sink strings.Builder
	next := slog.NewTextHandler(&sink, nil)
	h, err := NewParquetHandler(next, t.TempDir())
	if err != nil {
		t.Fatalf("NewParquetHandler: %v", err)
	}

	slog.New(h).Info("hello")
	if !strings.Contains(sink.String(), "hello") {
		t.Error("records must still reach the wrapped handler")
	}
}
