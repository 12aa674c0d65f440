package store

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/evidence-tools/phonedb/internal/core"
)

// DefaultBatchSize bounds the number of rows written per transaction.
const DefaultBatchSize = 1000

// timeFormat is how timestamps are serialized into DATETIME columns.
// A fixed format keeps re-ingested values byte-identical, which the
// InstalledApps unique key depends on.
const timeFormat = "2006-01-02 15:04:05-07:00"

// Loader writes normalized records into the store in bounded-size
// batches, one transaction per batch, sequentially.
type Loader struct {
	store     *Store
	batchSize int
	log       *slog.Logger
}

// NewLoader creates a loader. A non-positive batchSize falls back to
// DefaultBatchSize.
func NewLoader(store *Store, batchSize int, log *slog.Logger) *Loader {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if log == nil {
		log = slog.Default()
	}
	return &Loader{store: store, batchSize: batchSize, log: log}
}

// Load persists records of the given type and returns how many rows were
// written and how many were not.
//
// Conflict policy is per record type. InstalledApps rows are de-duplicated
// on (package_name, install_date) and written with insert-or-replace
// semantics, one row at a time, so a single bad row is logged and counted
// without aborting its batch. All other types use a plain multi-row
// append where a row failure rolls back and fails its whole batch; later
// batches still run.
func (l *Loader) Load(ctx context.Context, rt core.RecordType, records []core.Record) (processed, failed int, err error) {
	if rt.Table == "InstalledApps" {
		records, failed = dedupeApps(records)
	}
	if len(records) == 0 {
		return 0, failed, nil
	}

	query := insertQuery(rt, records[0].Fields)

	for _, r := range chunkRanges(len(records), l.batchSize) {
		batch := records[r.start:r.end]

		var done int
		var batchErr error
		if rt.Table == "InstalledApps" {
			done, batchErr = l.writeTolerant(ctx, query, batch)
		} else {
			done, batchErr = l.writeBatch(ctx, query, batch)
		}
		if batchErr != nil {
			// Rows from the failing batch onward never made it in.
			return processed, failed + (len(records) - r.start), batchErr
		}

		processed += done
		failed += len(batch) - done
		l.log.Info("batch written",
			"table", rt.Table,
			"rows", done,
			"skipped", len(batch)-done,
		)
	}

	return processed, failed, nil
}

// writeBatch inserts all rows of one batch in a single transaction. Any
// row failure rolls the batch back; the failure is absorbed into the
// failed count, not returned, so subsequent batches proceed.
func (l *Loader) writeBatch(ctx context.Context, query string, batch []core.Record) (int, error) {
	tx, err := l.store.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin batch: %w", err)
	}
	defer tx.Rollback()

	for _, rec := range batch {
		if _, err := tx.ExecContext(ctx, query, args(rec)...); err != nil {
			l.log.Warn("batch aborted by row failure", "error", err)
			return 0, nil
		}
	}

	if err := tx.Commit(); err != nil {
		l.log.Warn("batch commit failed", "error", err)
		return 0, nil
	}
	return len(batch), nil
}

// writeTolerant inserts rows one at a time inside a transaction, keeping
// the batch alive across individual row failures.
func (l *Loader) writeTolerant(ctx context.Context, query string, batch []core.Record) (int, error) {
	tx, err := l.store.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin batch: %w", err)
	}
	defer tx.Rollback()

	done := 0
	for _, rec := range batch {
		if _, err := tx.ExecContext(ctx, query, args(rec)...); err != nil {
			l.log.Warn("row skipped", "error", err)
			continue
		}
		done++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit batch: %w", err)
	}
	return done, nil
}

// insertQuery builds the insert statement for the resolved field set.
// InstalledApps uses INSERT OR REPLACE keyed on its unique constraint so
// re-ingesting a previously-seen install overwrites instead of
// duplicating.
func insertQuery(rt core.RecordType, fields []string) string {
	verb := "INSERT"
	if rt.Table == "InstalledApps" {
		verb = "INSERT OR REPLACE"
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(fields)), ", ")
	return fmt.Sprintf("%s INTO %s (%s) VALUES (%s)",
		verb, rt.Table, strings.Join(fields, ", "), placeholders)
}

// args converts a record's cells into driver values. Timestamps become
// fixed-format strings; absent timestamps become NULL.
func args(rec core.Record) []any {
	out := make([]any, len(rec.Cells))
	for i, c := range rec.Cells {
		switch c.Kind {
		case core.KindTimestamp:
			if c.HasTime {
				out[i] = c.Time.Format(timeFormat)
			} else {
				out[i] = nil
			}
		case core.KindInteger:
			out[i] = c.Int
		default:
			out[i] = c.Text
		}
	}
	return out
}

// dedupeApps keeps the first record for each (package_name, install_date)
// pair; later duplicates count as failed rows for statistics purposes.
func dedupeApps(records []core.Record) (kept []core.Record, dropped int) {
	seen := make(map[string]bool, len(records))
	for _, rec := range records {
		key := appKey(rec)
		if seen[key] {
			dropped++
			continue
		}
		seen[key] = true
		kept = append(kept, rec)
	}
	return kept, dropped
}

func appKey(rec core.Record) string {
	var pkg, date string
	for i, f := range rec.Fields {
		switch f {
		case "package_name":
			pkg = rec.Cells[i].Text
		case "install_date":
			if rec.Cells[i].HasTime {
				date = rec.Cells[i].Time.Format(timeFormat)
			}
		}
	}
	return pkg + "\x00" + date
}

type chunk struct {
	start, end int
}

// chunkRanges splits n records into consecutive ranges of at most size.
func chunkRanges(n, size int) []chunk {
	var out []chunk
	for start := 0; start < n; start += size {
		end := start + size
		if end > n {
			end = n
		}
		out = append(out, chunk{start, end})
	}
	return out
}
