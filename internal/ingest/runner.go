// Package ingest drives batch runs over the script catalog: fetch each
// source, normalize it, and replace its stored records. Sources fail in
// isolation so one broken sheet never aborts a run.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"scriptdb/internal/grid"
	"scriptdb/internal/logging"
	"scriptdb/internal/normalize"
	"scriptdb/internal/store"
)

// Fetcher retrieves the grid behind a sheet URL. *sheets.Client satisfies it.
type Fetcher interface {
	FetchGrid(ctx context.Context, sheetURL string) (grid.Grid, error)
}

// Failure records one source that could not be ingested.
type Failure struct {
	ScriptKey string
	Err       error
}

// Tally summarizes a batch run.
type Tally struct {
	Succeeded int
	Skipped   int
	Failed    int
	Failures  []Failure
}

// Outcome describes one successfully processed source.
type Outcome struct {
	ScriptKey string
	Report    normalize.Report
}

// Runner executes ingestion over the catalog.
type Runner struct {
	store      *store.Store
	fetcher    Fetcher
	normalizer *normalize.Normalizer
	logger     *slog.Logger
	workers    int
}

// NewRunner assembles a batch runner. A nil logger discards output; workers
// below 1 run sequentially.
func NewRunner(s *store.Store, fetcher Fetcher, normalizer *normalize.Normalizer, logger *slog.Logger, workers int) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	if workers < 1 {
		workers = 1
	}
	return &Runner{
		store:      s,
		fetcher:    fetcher,
		normalizer: normalizer,
		logger:     logger.With("component", "ingest"),
		workers:    workers,
	}
}

// Run processes every catalog source with a sheet URL. limit caps the number
// of sources when positive. Only one run may touch the database at a time;
// a second concurrent run fails fast.
func (r *Runner) Run(ctx context.Context, limit int) (Tally, error) {
	lock := flock.New(filepath.Join(r.store.Dir(), "ingest.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return Tally{}, fmt.Errorf("acquire ingest lock: %w", err)
	}
	if !locked {
		return Tally{}, fmt.Errorf("another ingest run holds %s", lock.Path())
	}
	defer lock.Unlock()

	scripts, err := r.store.ScriptsWithURLs(ctx, limit)
	if err != nil {
		return Tally{}, Wrap(ErrStoreConflict, "", "list sources", err)
	}

	runID := uuid.NewString()
	logger := r.logger.With("run_id", runID)
	logger.Info("run started", "sources", len(scripts), "workers", r.workers)

	var (
		mu    sync.Mutex
		tally Tally
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(r.workers)
	for _, script := range scripts {
		group.Go(func() error {
			outcome, err := r.processSource(groupCtx, script)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				tally.Succeeded++
				logger.Info("source stored",
					"script", script.Key,
					"dialogue", outcome.Report.Dialogue,
					"instructions", outcome.Report.Instruction)
			case Skippable(err):
				tally.Skipped++
				logger.Warn("source skipped", "script", script.Key, "error", err)
			default:
				tally.Failed++
				tally.Failures = append(tally.Failures, Failure{ScriptKey: script.Key, Err: err})
				logger.Error("source failed", "script", script.Key, "error", err)
			}
			// Stop launching new sources only when the run context dies.
			return groupCtx.Err()
		})
	}
	if err := group.Wait(); err != nil {
		return tally, err
	}

	logger.Info("run complete",
		"succeeded", tally.Succeeded,
		"skipped", tally.Skipped,
		"failed", tally.Failed)
	return tally, nil
}

// RunOne re-fetches a single source by script key and replaces its records.
func (r *Runner) RunOne(ctx context.Context, scriptKey string) (Outcome, error) {
	script, err := r.store.ScriptByKey(ctx, scriptKey)
	if err != nil {
		return Outcome{}, Wrap(ErrStoreConflict, scriptKey, "load source", err)
	}
	if script == nil {
		return Outcome{}, Wrap(ErrSourceUnavailable, scriptKey, "unknown script key", nil)
	}
	if script.SheetURL == "" {
		return Outcome{}, Wrap(ErrSourceUnavailable, scriptKey, "no sheet url on record", nil)
	}
	return r.processSource(ctx, script)
}

// IngestGrid normalizes an already-loaded grid and replaces the stored
// records for scriptKey. Used for local file ingestion.
func (r *Runner) IngestGrid(ctx context.Context, scriptKey string, g grid.Grid) (Outcome, error) {
	if _, err := r.store.UpsertScript(ctx, scriptKey, "", ""); err != nil {
		return Outcome{}, Wrap(ErrStoreConflict, scriptKey, "register script", err)
	}
	return r.storeGrid(ctx, scriptKey, g)
}

func (r *Runner) processSource(ctx context.Context, script *store.Script) (Outcome, error) {
	g, err := r.fetcher.FetchGrid(ctx, script.SheetURL)
	if err != nil {
		return Outcome{}, Wrap(ErrSourceUnavailable, script.Key, "fetch export", err)
	}
	return r.storeGrid(ctx, script.Key, g)
}

func (r *Runner) storeGrid(ctx context.Context, scriptKey string, g grid.Grid) (Outcome, error) {
	result := r.normalizer.Normalize(g)
	if !result.LayoutFound {
		// Existing records stay put: a transient export glitch that hides
		// the header must not wipe a previously good import.
		return Outcome{}, Wrap(ErrLayoutNotFound, scriptKey, "no header row", nil)
	}
	if err := r.store.ReplaceRecords(ctx, scriptKey, result.Records); err != nil {
		return Outcome{}, Wrap(ErrStoreConflict, scriptKey, "replace records", err)
	}
	return Outcome{ScriptKey: scriptKey, Report: result.Report}, nil
}
