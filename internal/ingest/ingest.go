// Package ingest runs one ingestion job end to end: fetch the source files,
// wait for the database, load the zone table, then replace one window of
// trips.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/PC-User-Guest/NYC-Taxi-Data-Engineering-Project/internal/config"
	"github.com/PC-User-Guest/NYC-Taxi-Data-Engineering-Project/internal/datasource/httpds"
	"github.com/PC-User-Guest/NYC-Taxi-Data-Engineering-Project/internal/ddl"
	"github.com/PC-User-Guest/NYC-Taxi-Data-Engineering-Project/internal/metrics"
	"github.com/PC-User-Guest/NYC-Taxi-Data-Engineering-Project/internal/parser"
	"github.com/PC-User-Guest/NYC-Taxi-Data-Engineering-Project/internal/schema"
	"github.com/PC-User-Guest/NYC-Taxi-Data-Engineering-Project/internal/storage"
	"github.com/PC-User-Guest/NYC-Taxi-Data-Engineering-Project/internal/trips"
	"github.com/PC-User-Guest/NYC-Taxi-Data-Engineering-Project/internal/zones"
)

// Step names used in logs and metrics.
const (
	StepFetchZones = "fetch_zones"
	StepFetchTrips = "fetch_trips"
	StepDBReady    = "db_ready"
	StepBootstrap  = "bootstrap"
	StepZones      = "zones"
	StepTrips      = "trips"
)

// Steps selects which loaders a run executes.
type Steps struct {
	Zones bool
	Trips bool
}

// AllSteps runs both loaders.
var AllSteps = Steps{Zones: true, Trips: true}

// Summary reports what a run did.
type Summary struct {
	RunID   string
	Fetched []httpds.FetchResult
	Zones   int64
	Trips   trips.LoadResult
	Elapsed time.Duration
}

// Function variables used as test seams.
var (
	newRepositoryFn = storage.New
	waitReadyFn     = storage.WaitReady
	ensureTablesFn  = storage.EnsureTables
	openFn          = parser.Open
	fetchFn         = func(ctx context.Context, c *httpds.Client, url, path string) (httpds.FetchResult, error) {
		return c.Fetch(ctx, url, path, httpds.DefaultMinSize)
	}
	newRunID = uuid.NewString
)

// NewRunID returns a fresh run identifier.
func NewRunID() string { return newRunID() }

// Run executes the selected steps with cfg, which must already be valid. An
// empty runID gets a fresh one.
func Run(ctx context.Context, cfg config.Config, steps Steps, runID string) (Summary, error) {
	start := time.Now()
	if runID == "" {
		runID = newRunID()
	}
	sum := Summary{RunID: runID}
	log.Printf("run %s: job=%s db=%s steps=%+v", sum.RunID, cfg.Job, cfg.DB.Redacted(), steps)

	sum.Fetched = fetchSources(ctx, cfg, steps)

	sc, err := cfg.Storage()
	if err != nil {
		return sum, err
	}
	repo, err := newRepositoryFn(ctx, sc)
	if err != nil {
		return sum, fmt.Errorf("open %s: %w", sc.Kind, err)
	}
	defer repo.Close()

	if err := timed(cfg, StepDBReady, func() error {
		r, err := waitReadyFn(ctx, repo, cfg.RetryPolicy())
		if err != nil {
			return err
		}
		log.Printf("database %s", r)
		return nil
	}); err != nil {
		return sum, err
	}

	if cfg.AutoCreateTables {
		if err := timed(cfg, StepBootstrap, func() error {
			return ensureTablesFn(ctx, sc.Kind, repo, tableDefs(cfg, steps)...)
		}); err != nil {
			return sum, fmt.Errorf("create tables: %w", err)
		}
	}

	if steps.Zones {
		if err := timed(cfg, StepZones, func() error {
			n, err := loadZones(ctx, cfg, repo)
			sum.Zones = n
			return err
		}); err != nil {
			return sum, err
		}
		metrics.RecordRows(cfg.Job, metrics.KindZones, sum.Zones)
	}

	if steps.Trips {
		err := timed(cfg, StepTrips, func() error {
			res, err := loadTrips(ctx, cfg, repo)
			sum.Trips = res
			return err
		})
		recordTrips(cfg.Job, sum.Trips)
		if err != nil {
			return sum, err
		}
	}

	sum.Elapsed = time.Since(start)
	logSummary(sum, steps)
	return sum, nil
}

// fetchSources downloads the needed files in parallel. Failures are logged
// as warnings; a missing file surfaces later when it is opened.
func fetchSources(ctx context.Context, cfg config.Config, steps Steps) []httpds.FetchResult {
	type job struct {
		step, url, path string
	}
	var jobs []job
	if steps.Zones && cfg.ZonesURL != "" {
		jobs = append(jobs, job{StepFetchZones, cfg.ZonesURL, cfg.ZonesPath()})
	}
	if steps.Trips && cfg.TripsURL != "" {
		jobs = append(jobs, job{StepFetchTrips, cfg.TripsURL, cfg.TripsPath()})
	}

	client := httpds.NewClient(httpds.Config{UserAgent: "taxi-ingest"})
	results := make([]httpds.FetchResult, len(jobs))
	var g errgroup.Group
	for i, j := range jobs {
		g.Go(func() error {
			_ = timed(cfg, j.step, func() error {
				res, err := fetchFn(ctx, client, j.url, j.path)
				if err != nil {
					log.Printf("WARN: %s: %v", j.step, err)
					return err
				}
				results[i] = res
				return nil
			})
			return nil
		})
	}
	_ = g.Wait()

	out := results[:0]
	for _, r := range results {
		if r.Path != "" {
			out = append(out, r)
		}
	}
	return out
}

func loadZones(ctx context.Context, cfg config.Config, repo storage.Repository) (int64, error) {
	src, err := openFn(ctx, cfg.ZonesPath(), cfg.ChunkSize)
	if err != nil {
		return 0, fmt.Errorf("zones: %w", err)
	}
	defer src.Close()
	return zones.NewLoader(repo, cfg.ZonesTable).Load(ctx, src)
}

func loadTrips(ctx context.Context, cfg config.Config, repo storage.Repository) (trips.LoadResult, error) {
	path := cfg.TripsPath()
	w, err := trips.ResolveWindow(cfg.WindowStart, cfg.WindowEnd, path)
	if err != nil {
		return trips.LoadResult{}, err
	}
	src, err := openFn(ctx, path, cfg.ChunkSize)
	if err != nil {
		return trips.LoadResult{Window: w}, fmt.Errorf("trips: %w", err)
	}
	defer src.Close()

	l := trips.NewLoader(repo, cfg.TripsTable)
	l.ClampToWindow = cfg.ClampToWindow
	l.OnBatch = func(int64) { metrics.RecordBatches(cfg.Job, 1) }
	log.Printf("Loading %s into %s, window %s", path, cfg.TripsTable, w)
	return l.Load(ctx, src, w)
}

func recordTrips(job string, r trips.LoadResult) {
	metrics.RecordRows(job, metrics.KindDeleted, r.Deleted)
	metrics.RecordRows(job, metrics.KindScanned, r.Scanned)
	metrics.RecordRows(job, metrics.KindDropped, r.Dropped)
	metrics.RecordRows(job, metrics.KindOutOfWindow, r.OutOfWindow)
	metrics.RecordRows(job, metrics.KindInserted, r.Inserted)
}

func tableDefs(cfg config.Config, steps Steps) []ddl.TableDef {
	var defs []ddl.TableDef
	if steps.Zones {
		defs = append(defs, schema.Zones(cfg.ZonesTable))
	}
	if steps.Trips {
		defs = append(defs, schema.Trips(cfg.TripsTable))
	}
	return defs
}

// timed runs fn and records it as step.
func timed(cfg config.Config, step string, fn func() error) error {
	t0 := time.Now()
	err := fn()
	metrics.RecordStep(cfg.Job, step, err, time.Since(t0))
	if cfg.Verbose {
		log.Printf("step %s finished in %s (err=%v)", step, time.Since(t0).Truncate(time.Millisecond), err)
	}
	return err
}

func logSummary(sum Summary, steps Steps) {
	if steps.Trips {
		r := sum.Trips
		log.Printf("run %s: trips scanned=%s dropped=%s out_of_window=%s inserted=%s deleted=%s batches=%d window=%s",
			sum.RunID, humanize.Comma(r.Scanned), humanize.Comma(r.Dropped), humanize.Comma(r.OutOfWindow),
			humanize.Comma(r.Inserted), humanize.Comma(r.Deleted), r.Batches, r.Window)
		if !r.Balanced() {
			log.Printf("WARN: run %s: scanned rows do not add up (%d != %d + %d + %d)",
				sum.RunID, r.Scanned, r.Dropped, r.OutOfWindow, r.Inserted)
		}
	}
	if steps.Zones {
		log.Printf("run %s: zones=%s", sum.RunID, humanize.Comma(sum.Zones))
	}
	log.Printf("run %s: completed in %s", sum.RunID, sum.Elapsed.Truncate(time.Millisecond))
}

// IsConfigError reports whether err is a configuration problem.
func IsConfigError(err error) bool { return errors.Is(err, config.ErrInvalid) }
