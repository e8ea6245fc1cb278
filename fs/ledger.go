package fs

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strconv"
	"sync"

	"github.com/docmill/docmill"
)

var _ docmill.Ledger = (*Ledger)(nil)

// ledgerHeader defines the CSV column order.
var ledgerHeader = []string{
	"url", "parent_url", "depth", "seq", "scope", "status", "http_code", "reason", "priority",
}

// Ledger is an append-only CSV record of crawl outcomes. Each Append
// flushes one row so a crash never loses acknowledged records. Safe for
// concurrent use.
type Ledger struct {
	mu     sync.Mutex
	path   string
	file   *os.File
	writer *csv.Writer
	closed bool
}

// OpenLedger opens or creates the ledger at path. A new file gets the
// header row; an existing one is appended to.
func OpenLedger(path string) (*Ledger, error) {
	info, err := os.Stat(path)
	isNew := errors.Is(err, os.ErrNotExist) || (err == nil && info.Size() == 0)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}

	l := &Ledger{path: path, file: f, writer: csv.NewWriter(f)}
	if isNew {
		if err := l.writer.Write(ledgerHeader); err != nil {
			f.Close()
			return nil, err
		}
		l.writer.Flush()
		if err := l.writer.Error(); err != nil {
			f.Close()
			return nil, err
		}
	}
	return l, nil
}

// Append writes one record and flushes it.
func (l *Ledger) Append(ctx context.Context, rec *docmill.URLRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return docmill.Errorf(docmill.EINTERNAL, "ledger is closed")
	}

	row := []string{
		rec.URL,
		rec.ParentURL,
		strconv.Itoa(rec.Depth),
		strconv.FormatInt(rec.Seq, 10),
		string(rec.Scope),
		string(rec.Status),
		strconv.Itoa(rec.HTTPCode),
		rec.Reason,
		strconv.Itoa(int(rec.Priority)),
	}
	if err := l.writer.Write(row); err != nil {
		return err
	}
	l.writer.Flush()
	return l.writer.Error()
}

// Load returns all previously written records, oldest first. Rows
// written by this process are included.
func (l *Ledger) Load(ctx context.Context) ([]*docmill.URLRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.writer.Flush()
	if err := l.writer.Error(); err != nil {
		l.mu.Unlock()
		return nil, err
	}
	l.mu.Unlock()

	f, err := os.Open(l.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(ledgerHeader)

	records := []*docmill.URLRecord{}
	first := true
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, docmill.Errorf(docmill.EINTERNAL, "reading ledger %s: %v", l.path, err)
		}
		if first {
			first = false
			if row[0] == "url" {
				continue
			}
		}
		rec, err := parseRow(row)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// Close flushes and closes the underlying file.
func (l *Ledger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil
	}
	l.closed = true
	l.writer.Flush()
	if err := l.writer.Error(); err != nil {
		l.file.Close()
		return err
	}
	return l.file.Close()
}

func parseRow(row []string) (*docmill.URLRecord, error) {
	depth, err := strconv.Atoi(row[2])
	if err != nil {
		return nil, docmill.Errorf(docmill.EINTERNAL, "invalid depth %q in ledger", row[2])
	}
	seq, err := strconv.ParseInt(row[3], 10, 64)
	if err != nil {
		return nil, docmill.Errorf(docmill.EINTERNAL, "invalid seq %q in ledger", row[3])
	}
	code, err := strconv.Atoi(row[6])
	if err != nil {
		return nil, docmill.Errorf(docmill.EINTERNAL, "invalid http_code %q in ledger", row[6])
	}
	priority, err := strconv.Atoi(row[8])
	if err != nil {
		return nil, docmill.Errorf(docmill.EINTERNAL, "invalid priority %q in ledger", row[8])
	}

	return &docmill.URLRecord{
		URL:       row[0],
		ParentURL: row[1],
		Depth:     depth,
		Seq:       seq,
		Scope:     docmill.ScopeClass(row[4]),
		Status:    docmill.Status(row[5]),
		HTTPCode:  code,
		Reason:    row[7],
		Priority:  docmill.LinkPriority(priority),
	}, nil
}
