// Package ingest orchestrates one end-to-end ingestion: read file,
// identify the record type, normalize rows, load batches, report
// statistics. It is the whole contract exposed to shells.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/evidence-tools/phonedb/internal/config"
	"github.com/evidence-tools/phonedb/internal/core"
	"github.com/evidence-tools/phonedb/internal/logging"
	"github.com/evidence-tools/phonedb/internal/store"
)

// maxHeaderSearchRows bounds the scan for the header row. Vendor Excel
// exports sometimes carry a metadata row above the real header.
const maxHeaderSearchRows = 20

// Service runs ingestions against one store. At most one ingestion is in
// flight at a time; the mutex preserves the single-writer assumption when
// a shell serves concurrent requests.
type Service struct {
	cfg    *config.Config
	store  *store.Store
	reg    *core.Registry
	ident  *core.Identifier
	norm   *core.Normalizer
	opts   core.Options
	loader *store.Loader

	mu sync.Mutex
}

// NewService wires the pipeline components around an open store. The
// registry, identifier, normalizer, and loader are all built from cfg so
// tests can run isolated instances side by side.
func NewService(cfg *config.Config, st *store.Store) (*Service, error) {
	loc, err := time.LoadLocation(cfg.Ingest.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Ingest.Timezone, err)
	}

	log := slog.Default()
	reg := core.NewRegistry()
	times := core.NewTimeParser(loc, log)
	opts := core.Options{
		Strict:        cfg.Ingest.Strict,
		StripNonASCII: cfg.Ingest.StripNonASCII,
	}

	return &Service{
		cfg:    cfg,
		store:  st,
		reg:    reg,
		ident:  core.NewIdentifier(reg, cfg.Ingest.MatchThreshold),
		norm:   core.NewNormalizer(times, opts, log),
		opts:   opts,
		loader: store.NewLoader(st, cfg.Ingest.BatchSize, log),
	}, nil
}

// InitStore creates the record type tables. Idempotent; called once at
// process start.
func (s *Service) InitStore(ctx context.Context) error {
	return s.store.Init(ctx)
}

// Ingest runs the whole pipeline for one file and returns its statistics.
// Fatal conditions (unsupported extension, unidentified schema, zero
// resolvable fields, storage faults) return an error; per-cell and
// per-row problems are absorbed into the failed-row count.
func (s *Service) Ingest(ctx context.Context, path string) (core.Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	log := logging.WithFields(ctx, "ingestion_id", uuid.NewString(), "file", path)

	table, rt, err := s.readAndIdentify(path)
	if err != nil {
		return core.Stats{}, err
	}
	log = log.With("table", rt.Name)
	log.Info("record type identified", "rows", len(table.Rows))

	records, dropped, err := s.norm.Normalize(table, rt)
	if err != nil {
		return core.Stats{}, err
	}
	if dropped > 0 {
		log.Warn("rows dropped by strict mode", "count", dropped)
	}

	processed, _, err := s.loader.Load(ctx, rt, records)
	if err != nil {
		return core.Stats{}, fmt.Errorf("load %s: %w", rt.Name, err)
	}

	stats := core.Stats{
		TableName:     rt.Name,
		TotalRows:     len(table.Rows),
		ProcessedRows: processed,
		FailedRows:    len(table.Rows) - processed,
	}

	log.Info("ingestion complete",
		"total", stats.TotalRows,
		"processed", stats.ProcessedRows,
		"failed", stats.FailedRows,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return stats, nil
}

// Types returns the registered record types in declaration order.
func (s *Service) Types() []core.RecordType {
	return s.reg.Types()
}

// CountRows reports the number of rows currently stored in a table.
func (s *Service) CountRows(ctx context.Context, table string) (int, error) {
	return s.store.CountRows(ctx, table)
}

// Preview returns up to n cleaned data rows plus the header row, for
// shells that render a sample before ingesting. Files whose schema is
// not identified still preview, with the first row treated as the
// header and an empty type name; seeing the headers is most useful
// exactly when identification failed. Nothing is written.
func (s *Service) Preview(path string, n int) (core.RawTable, string, error) {
	rows, err := readRows(path, s.cfg.Ingest.MaxFileSize)
	if err != nil {
		return core.RawTable{}, "", err
	}
	if len(rows) == 0 {
		return core.RawTable{}, "", errors.New("file contains no data")
	}

	var typeName string
	table, rt, err := s.identifyRows(rows)
	if err != nil {
		var unident *core.UnidentifiedSchemaError
		if !errors.As(err, &unident) {
			return core.RawTable{}, "", err
		}
		table = core.CleanTable(core.RawTable{
			Headers: rows[0],
			Rows:    rows[1:],
		}, s.opts.StripNonASCII)
	} else {
		typeName = rt.Name
	}

	if n > 0 && len(table.Rows) > n {
		table.Rows = table.Rows[:n]
	}
	return table, typeName, nil
}

// readAndIdentify reads the file, locates the header row, and cleans the
// table.
func (s *Service) readAndIdentify(path string) (core.RawTable, core.RecordType, error) {
	rows, err := readRows(path, s.cfg.Ingest.MaxFileSize)
	if err != nil {
		return core.RawTable{}, core.RecordType{}, err
	}
	if len(rows) == 0 {
		return core.RawTable{}, core.RecordType{}, errors.New("file contains no data")
	}
	return s.identifyRows(rows)
}

// identifyRows locates the header row and cleans the table. The header
// is found by scanning the leading rows for one that identifies a record
// type, which absorbs vendor metadata rows above the real header.
func (s *Service) identifyRows(rows [][]string) (core.RawTable, core.RecordType, error) {
	limit := maxHeaderSearchRows
	if len(rows) < limit {
		limit = len(rows)
	}

	var identifyErr error
	for i := 0; i < limit; i++ {
		rt, err := s.ident.Identify(rows[i])
		if err != nil {
			if identifyErr == nil {
				identifyErr = err
			}
			continue
		}
		table := core.CleanTable(core.RawTable{
			Headers: rows[i],
			Rows:    rows[i+1:],
		}, s.opts.StripNonASCII)
		return table, rt, nil
	}

	// Report the first candidate's headers; that row is the presumed
	// header of an unrecognized schema.
	return core.RawTable{}, core.RecordType{}, identifyErr
}
