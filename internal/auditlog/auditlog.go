// Package auditlog appends one CSV row per generated report, so a book
// carries a trail of what was produced from it and when.
package auditlog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Entry is one row in the report log.
type Entry struct {
	Timestamp    time.Time
	Scope        string
	Statement    string
	WindowStart  time.Time
	WindowEnd    time.Time
	Total        string
	AnomalyCount int
}

// Header is the CSV header for report-log.csv.
const Header = "timestamp,scope,statement,window_start,window_end,total,anomaly_count"

const (
	numFields       = 7
	logFile         = "logs/report-log.csv"
	colTimestamp    = 0
	colScope        = 1
	colStatement    = 2
	colWindowStart  = 3
	colWindowEnd    = 4
	colTotal        = 5
	colAnomalyCount = 6
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colScope] = e.Scope
	row[colStatement] = e.Statement
	row[colWindowStart] = e.WindowStart.Format(time.RFC3339)
	row[colWindowEnd] = e.WindowEnd.Format(time.RFC3339)
	row[colTotal] = e.Total
	row[colAnomalyCount] = strconv.Itoa(e.AnomalyCount)
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("invalid timestamp: %w", err)
	}
	start, err := time.Parse(time.RFC3339, record[colWindowStart])
	if err != nil {
		return Entry{}, fmt.Errorf("invalid window start: %w", err)
	}
	end, err := time.Parse(time.RFC3339, record[colWindowEnd])
	if err != nil {
		return Entry{}, fmt.Errorf("invalid window end: %w", err)
	}
	count, err := strconv.Atoi(record[colAnomalyCount])
	if err != nil {
		return Entry{}, fmt.Errorf("invalid anomaly count: %w", err)
	}

	return Entry{
		Timestamp:    ts,
		Scope:        record[colScope],
		Statement:    record[colStatement],
		WindowStart:  start,
		WindowEnd:    end,
		Total:        record[colTotal],
		AnomalyCount: count,
	}, nil
}

// Append adds an entry to <root>/logs/report-log.csv, creating the
// file with a header if needed.
func Append(root string, e Entry) error {
	path := filepath.Join(root, filepath.FromSlash(logFile))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating log dir: %w", err)
	}

	isNew := false
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		isNew = true
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening report log: %w", err)
	}
	defer f.Close()

	if isNew {
		if _, err := fmt.Fprintln(f, Header); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	cw := csv.NewWriter(f)
	if err := cw.Write(MarshalEntry(e)); err != nil {
		return fmt.Errorf("writing entry: %w", err)
	}
	cw.Flush()
	return cw.Error()
}

// Read parses all entries from a report log reader.
func Read(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading report log: %w", err)
	}

	var entries []Entry
	for i, rec := range records {
		if i == 0 && strings.Join(rec, ",") == Header {
			continue
		}
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
