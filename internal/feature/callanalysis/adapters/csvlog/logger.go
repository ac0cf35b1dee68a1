// Package csvlog persists analysis records to an append-only CSV file.
//
// The file is UTF-8 with a byte-order mark so spreadsheet tools detect the
// encoding. The header row is written only when the file is missing or empty.
package csvlog

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"call_analysis/internal/feature/callanalysis/domain/entity"
	"call_analysis/internal/feature/callanalysis/usecase"
)

// Header is the fixed column order of the log.
var Header = []string{"Transcript", "Summary", "Sentiment"}

// Logger appends records to the CSV file at Path.
// It is not safe for concurrent use; wrap it with Serialized when several
// goroutines share one destination.
type Logger struct {
	path string
}

var _ usecase.RecordLogger = (*Logger)(nil)

// NewLogger creates a Logger writing to cfg.Path.
func NewLogger(cfg Config) *Logger {
	return &Logger{path: cfg.Path}
}

// Path returns the destination file.
func (l *Logger) Path() string {
	return l.path
}

// Append implements usecase.RecordLogger.
func (l *Logger) Append(_ context.Context, record entity.LogRecord) error {
	return Append(record, l.path)
}

// Append writes one row for record to the CSV file at path, preceded by the
// header row when the file does not exist yet or is empty. The data reaches
// stable storage before Append returns. On failure the file is truncated back
// to its previous size so that no partial row is left behind.
func Append(record entity.LogRecord, path string) (err error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	// ヘッダー要否は追記と同じファイルハンドルで判定する
	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	size := info.Size()
	fresh := size == 0

	row, err := encodeRow(record, fresh)
	if err != nil {
		return err
	}

	if _, err := f.Write(row); err != nil {
		rollback(f, size)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Sync(); err != nil {
		rollback(f, size)
		return fmt.Errorf("sync %s: %w", path, err)
	}
	return nil
}

// encodeRow renders the CSV bytes for one append. A fresh file gets the BOM
// and the header row in front of the record.
func encodeRow(record entity.LogRecord, fresh bool) ([]byte, error) {
	var enc encoding.Encoding = unicode.UTF8
	if fresh {
		enc = unicode.UTF8BOM
	}

	var buf bytes.Buffer
	tw := transform.NewWriter(&buf, enc.NewEncoder())

	if fresh {
		if err := writeRecord(tw, Header); err != nil {
			return nil, fmt.Errorf("encode header: %w", err)
		}
	}
	if err := writeRecord(tw, []string{record.Transcript, record.Summary, record.Sentiment.String()}); err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	if err := tw.Close(); err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return buf.Bytes(), nil
}

// writeRecord writes fields as one RFC 4180 record terminated by CRLF.
// Line breaks inside a field are written byte for byte; only the record
// terminator is CRLF.
func writeRecord(dst io.Writer, fields []string) error {
	var b bytes.Buffer
	w := csv.NewWriter(&b)
	if err := w.Write(fields); err != nil {
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	line := append(bytes.TrimSuffix(b.Bytes(), []byte{'\n'}), '\r', '\n')
	_, err := dst.Write(line)
	return err
}

// rollback drops whatever part of a failed write reached the file.
func rollback(f *os.File, size int64) {
	_ = f.Truncate(size)
}
