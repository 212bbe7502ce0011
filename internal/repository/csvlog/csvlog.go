// Package csvlog stores intake records in a header-versioned CSV file.
// Appends add one line; updates and deletes rewrite the whole file through
// a temporary file and a rename. The highest key ever issued is kept in a
// sidecar file next to the log so deleted keys are never handed out again.
package csvlog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"iter"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"intakehub/internal/models"
	"intakehub/internal/repository"
	"intakehub/internal/schema"
	"intakehub/internal/shared"
	"intakehub/internal/storage"

	"github.com/sirupsen/logrus"
)

// Ensure CSVLog implements repository.Store
var _ repository.Store = (*CSVLog)(nil)

// Options controls how an existing file is interpreted.
type Options struct {
	// LegacyVersion is the layout assumed for a file without a recognised
	// header. Zero means schema.V1.
	LegacyVersion schema.Version
	// AutoRepair runs Repair when the log is opened.
	AutoRepair bool
}

// SeqSuffix is appended to the log path to name the key sidecar file.
const SeqSuffix = ".seq"

type CSVLog struct {
	path   string
	seq    string
	legacy schema.Version
	Logger *logrus.Logger
	Now    repository.Clock

	// mu serializes read-modify-write sequences inside the process.
	mu sync.Mutex
}

// Open prepares the log at path. A missing file is an empty store; it is
// created on the first write.
func Open(ctx context.Context, path string, opts Options, logger *logrus.Logger) (*CSVLog, error) {
	if opts.LegacyVersion == 0 {
		opts.LegacyVersion = schema.V1
	}
	if !opts.LegacyVersion.Valid() {
		return nil, fmt.Errorf("unknown legacy schema version: %d", opts.LegacyVersion)
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	l := &CSVLog{
		path:   path,
		seq:    path + SeqSuffix,
		legacy: opts.LegacyVersion,
		Logger: logger,
		Now:    time.Now,
	}

	if opts.AutoRepair {
		n, err := l.Repair(ctx, false)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			logger.Infof("Repaired %d rows in %s on open", n, path)
		}
	}
	return l, nil
}

func (l *CSVLog) Close() error { return nil }

// Path returns the file backing the log.
func (l *CSVLog) Path() string { return l.path }

type snapshot struct {
	exists    bool
	hasHeader bool
	version   schema.Version
	rows      [][]string
}

func newReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	return cr
}

func (l *CSVLog) readRaw() (snapshot, error) {
	f, err := os.Open(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		return snapshot{version: schema.Current}, nil
	}
	if err != nil {
		return snapshot{}, shared.WrapStorage("read", err)
	}
	defer f.Close()

	rows, err := newReader(f).ReadAll()
	if err != nil {
		return snapshot{}, shared.WrapStorage("read", err)
	}

	snap := snapshot{exists: true, version: l.legacy}
	if len(rows) == 0 {
		snap.version = schema.Current
		return snap, nil
	}
	if v, ok := schema.DetectVersion(rows[0]); ok {
		snap.version = v
		snap.hasHeader = true
		rows = rows[1:]
	}
	snap.rows = rows
	return snap, nil
}

// decode converts every data row of snap into a record.
func (l *CSVLog) decode(snap snapshot) ([]models.IntakeRecord, error) {
	offset := 1
	if snap.hasHeader {
		offset = 2
	}
	records := make([]models.IntakeRecord, 0, len(snap.rows))
	for i, row := range snap.rows {
		rec, err := toRecord(row, snap.version, i+1, i+offset)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// toRecord reads one data row of the given version. Legacy rows carry no
// ID column; their key is their 1-based position among data rows.
func toRecord(row []string, version schema.Version, ordinal, line int) (models.IntakeRecord, error) {
	if want := schema.Width(version); len(row) != want {
		return models.IntakeRecord{}, &shared.SchemaDriftError{Line: line, Width: len(row), Want: want}
	}

	if version != schema.Current {
		migrated, err := schema.Migrate([][]string{row}, version)
		if err != nil {
			return models.IntakeRecord{}, err
		}
		row = migrated[0]
		row[0] = strconv.Itoa(ordinal)
	}

	rec, err := schema.ToRecord(row)
	if err != nil {
		return models.IntakeRecord{}, &shared.StorageError{Op: "read", Err: fmt.Errorf("line %d: %w", line, err)}
	}
	return rec, nil
}

func (l *CSVLog) LoadAll(ctx context.Context) ([]models.IntakeRecord, error) {
	records, err := repository.Collect(l.Scan(ctx, nil))
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []models.IntakeRecord{}
	}
	return records, nil
}

func (l *CSVLog) Get(ctx context.Context, key models.StoreKey) (models.IntakeRecord, error) {
	for rec, err := range l.Scan(ctx, func(r models.IntakeRecord) bool { return r.Key == key }) {
		if err != nil {
			return models.IntakeRecord{}, err
		}
		return rec, nil
	}
	return models.IntakeRecord{}, shared.ErrNotFound
}

// Scan streams the file row by row. A malformed row stops the sequence
// with a *shared.SchemaDriftError; it is never skipped.
func (l *CSVLog) Scan(ctx context.Context, match func(models.IntakeRecord) bool) iter.Seq2[models.IntakeRecord, error] {
	return func(yield func(models.IntakeRecord, error) bool) {
		f, err := os.Open(l.path)
		if errors.Is(err, fs.ErrNotExist) {
			return
		}
		if err != nil {
			yield(models.IntakeRecord{}, shared.WrapStorage("read", err))
			return
		}
		defer f.Close()

		r := newReader(f)
		version := l.legacy
		first := true
		ordinal := 0

		for {
			if err := ctx.Err(); err != nil {
				yield(models.IntakeRecord{}, err)
				return
			}

			row, err := r.Read()
			if err == io.EOF {
				return
			}
			if err != nil {
				yield(models.IntakeRecord{}, shared.WrapStorage("read", err))
				return
			}

			if first {
				first = false
				if v, ok := schema.DetectVersion(row); ok {
					version = v
					continue
				}
			}

			ordinal++
			line, _ := r.FieldPos(0)
			rec, err := toRecord(row, version, ordinal, line)
			if err != nil {
				yield(models.IntakeRecord{}, err)
				return
			}
			if match != nil && !match(rec) {
				continue
			}
			if !yield(rec, nil) {
				return
			}
		}
	}
}

func (l *CSVLog) Append(ctx context.Context, rec models.IntakeRecord) (models.StoreKey, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	snap, err := l.readRaw()
	if err != nil {
		return 0, err
	}
	records, err := l.decode(snap)
	if err != nil {
		return 0, err
	}

	high, err := l.highWater(records)
	if err != nil {
		return 0, err
	}
	last := ""
	for _, r := range records {
		if r.Timestamp > last {
			last = r.Timestamp
		}
	}

	if rec.Timestamp == "" {
		rec.Timestamp = repository.NextTimestamp(l.Now(), last)
	}
	rec.Key = high + 1

	if snap.exists && snap.hasHeader && snap.version == schema.Current {
		err = l.appendRow(schema.FromRecord(rec))
	} else {
		// First write, or a legacy file that is upgraded on its first write.
		err = l.writeRecords(append(records, rec))
	}
	if err != nil {
		return 0, err
	}
	if err := l.saveHighWater(rec.Key); err != nil {
		return 0, err
	}

	l.Logger.Debugf("Appended record %d to %s", rec.Key, l.path)
	return rec.Key, nil
}

func (l *CSVLog) UpdateByKey(ctx context.Context, key models.StoreKey, upd models.IntakeUpdate) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	records, err := l.loadLocked()
	if err != nil {
		return err
	}

	idx := -1
	last := ""
	for i, r := range records {
		if r.Key == key {
			idx = i
		}
		if r.Timestamp > last {
			last = r.Timestamp
		}
	}
	if idx < 0 {
		return shared.ErrNotFound
	}

	records[idx].IntakeFields = upd.Apply(records[idx].IntakeFields)
	records[idx].Timestamp = repository.NextTimestamp(l.Now(), last)

	return l.writeRecords(records)
}

func (l *CSVLog) DeleteByKey(ctx context.Context, key models.StoreKey) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	records, err := l.loadLocked()
	if err != nil {
		return err
	}

	for i, r := range records {
		if r.Key != key {
			continue
		}
		// Record the high-water mark before the key leaves the file.
		high, err := l.highWater(records)
		if err != nil {
			return err
		}
		if err := l.saveHighWater(high); err != nil {
			return err
		}
		remaining := append(records[:i:i], records[i+1:]...)
		return l.writeRecords(remaining)
	}
	return shared.ErrNotFound
}

// highWater returns the larger of the sidecar value and the biggest key in
// records.
func (l *CSVLog) highWater(records []models.IntakeRecord) (models.StoreKey, error) {
	high, err := l.readSeq()
	if err != nil {
		return 0, err
	}
	for _, r := range records {
		if r.Key > high {
			high = r.Key
		}
	}
	return high, nil
}

// readSeq reads the sidecar. A missing sidecar is zero.
func (l *CSVLog) readSeq() (models.StoreKey, error) {
	b, err := os.ReadFile(l.seq)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, shared.WrapStorage("read key sequence", err)
	}
	n, err := strconv.ParseInt(strings.TrimSpace(string(b)), 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("corrupt key sequence file %s: %q", l.seq, strings.TrimSpace(string(b)))
	}
	return models.StoreKey(n), nil
}

func (l *CSVLog) saveHighWater(key models.StoreKey) error {
	current, err := l.readSeq()
	if err != nil {
		return err
	}
	if key <= current {
		return nil
	}
	err = storage.WriteAtomic(l.seq, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "%d\n", key)
		return err
	})
	return shared.WrapStorage("write key sequence", err)
}

// Repair aligns every row to the width of the file's declared version,
// migrates legacy layouts to the current one and writes a current header.
// Rows that already have the right width in a current file are not
// touched, so running it twice reports 0 the second time.
func (l *CSVLog) Repair(ctx context.Context, dryRun bool) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	snap, err := l.readRaw()
	if err != nil {
		return 0, err
	}
	if !snap.exists {
		return 0, nil
	}

	width := schema.Width(snap.version)
	aligned, fixed := schema.RepairAlignment(snap.rows, width)

	var out [][]string
	if snap.version == schema.Current {
		out = aligned
		seq, err := l.readSeq()
		if err != nil {
			return 0, err
		}
		assignIDs(snap.rows, out, width, int64(seq))
	} else {
		out, err = schema.Migrate(aligned, snap.version)
		if err != nil {
			return 0, err
		}
		fixed = len(out)
	}

	if dryRun {
		return fixed, nil
	}
	if fixed == 0 && snap.hasHeader {
		return 0, nil
	}

	if err := l.writeRows(out); err != nil {
		return 0, err
	}
	l.Logger.Infof("Repair rewrote %s: %d rows fixed (from schema version %d)", l.path, fixed, snap.version)
	return fixed, nil
}

// assignIDs gives realigned rows without a usable ID the next free one,
// never going below issued.
func assignIDs(original, aligned [][]string, width int, issued int64) {
	maxID := issued
	for _, row := range aligned {
		if id, ok := schema.ParseID(row); ok && id > maxID {
			maxID = id
		}
	}
	for i, row := range aligned {
		if len(original[i]) == width {
			continue
		}
		if _, ok := schema.ParseID(row); ok {
			continue
		}
		maxID++
		row[0] = strconv.FormatInt(maxID, 10)
	}
}

func (l *CSVLog) loadLocked() ([]models.IntakeRecord, error) {
	snap, err := l.readRaw()
	if err != nil {
		return nil, err
	}
	return l.decode(snap)
}

func (l *CSVLog) appendRow(row []string) error {
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return shared.WrapStorage("append", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(row); err != nil {
		f.Close()
		return shared.WrapStorage("append", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return shared.WrapStorage("append", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return shared.WrapStorage("append", err)
	}
	return shared.WrapStorage("append", f.Close())
}

func (l *CSVLog) writeRecords(records []models.IntakeRecord) error {
	rows := make([][]string, len(records))
	for i, r := range records {
		rows[i] = schema.FromRecord(r)
	}
	return l.writeRows(rows)
}

func (l *CSVLog) writeRows(rows [][]string) error {
	err := storage.WriteAtomic(l.path, func(w io.Writer) error {
		cw := csv.NewWriter(w)
		if err := cw.Write(schema.Header()); err != nil {
			return err
		}
		if err := cw.WriteAll(rows); err != nil {
			return err
		}
		return cw.Error()
	})
	return shared.WrapStorage("write", err)
}
