package trips

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/PC-User-Guest/NYC-Taxi-Data-Engineering-Project/internal/schema"
	"github.com/PC-User-Guest/NYC-Taxi-Data-Engineering-Project/internal/storage"
	"github.com/PC-User-Guest/NYC-Taxi-Data-Engineering-Project/internal/tabular"
)

// Store is the subset of storage.Repository the trip loader writes through.
type Store interface {
	DeleteRange(ctx context.Context, table, column string, start, end time.Time) (int64, error)
	CopyFrom(ctx context.Context, table string, columns []string, rows [][]any) (int64, error)
}

// Phase is the loader's position in a run.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseWindowDeleted
	PhaseStreaming
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseWindowDeleted:
		return "window_deleted"
	case PhaseStreaming:
		return "streaming"
	case PhaseDone:
		return "done"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// LoadResult summarizes one Load call. Scanned always equals
// Dropped + OutOfWindow + Inserted on success.
type LoadResult struct {
	Window      Window
	Deleted     int64
	Scanned     int64
	Dropped     int64
	OutOfWindow int64
	Inserted    int64
	Batches     int64
	Elapsed     time.Duration
}

// Balanced reports whether every scanned row is accounted for.
func (r LoadResult) Balanced() bool {
	return r.Scanned == r.Dropped+r.OutOfWindow+r.Inserted
}

// Loader replaces the trips in one window: a single committed delete, then
// one committed append per non-empty batch.
type Loader struct {
	Store  Store
	Table  string
	Mapper *Mapper

	// ClampToWindow drops mapped rows whose pickup falls outside the window
	// and counts them as OutOfWindow. Off by default: such rows are appended,
	// and a later run's delete does not clear them.
	ClampToWindow bool

	// OnBatch, if set, is called after each committed append.
	OnBatch func(inserted int64)

	phase Phase
}

// NewLoader returns a loader for table. Every mapped row is appended.
func NewLoader(store Store, table string) *Loader {
	if table == "" {
		table = schema.DefaultTripsTable
	}
	return &Loader{Store: store, Table: table, Mapper: NewMapper()}
}

// Phase returns the phase reached by the last Load.
func (l *Loader) Phase() Phase { return l.phase }

// Load deletes the window and streams src into the table. It does not close
// src. A failure after the delete leaves the window partially replaced; the
// next run's delete clears it.
func (l *Loader) Load(ctx context.Context, src tabular.BatchReader, w Window) (LoadResult, error) {
	if l.Store == nil {
		return LoadResult{}, errors.New("trips: loader has no store")
	}
	if !w.Start.Before(w.End) {
		return LoadResult{}, fmt.Errorf("%w: empty window %s", ErrNoWindow, w)
	}
	if l.Mapper == nil {
		l.Mapper = NewMapper()
	}
	l.phase = PhaseIdle
	res := LoadResult{Window: w}

	deleted, err := l.Store.DeleteRange(ctx, l.Table, schema.PickupColumn, w.Start, w.End)
	if err != nil {
		return res, fmt.Errorf("trips: delete window %s: %w", w, err)
	}
	res.Deleted = deleted
	l.phase = PhaseWindowDeleted
	log.Printf("Deleted %d existing trip rows in %s", deleted, w)

	columns := Columns()
	prog := storage.NewProgress(l.Table)
	l.phase = PhaseStreaming
	for {
		b, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return res, fmt.Errorf("trips: read batch: %w", err)
		}

		mapped, err := l.Mapper.Map(b)
		if err != nil {
			return res, err
		}
		res.Scanned += int64(mapped.Scanned)
		res.Dropped += int64(mapped.Dropped)

		rows := make([][]any, 0, len(mapped.Records))
		for i := range mapped.Records {
			rec := &mapped.Records[i]
			if l.ClampToWindow && !w.Contains(rec.PickupDatetime) {
				res.OutOfWindow++
				continue
			}
			rows = append(rows, rec.Values())
		}
		if len(rows) == 0 {
			continue
		}

		n, err := l.Store.CopyFrom(ctx, l.Table, columns, rows)
		if err != nil {
			return res, fmt.Errorf("trips: append batch #%d: %w", prog.Batches()+1, err)
		}
		res.Inserted += n
		res.Batches++
		prog.Batch(n)
		if l.OnBatch != nil {
			l.OnBatch(n)
		}
	}

	res.Elapsed = prog.Elapsed()
	l.phase = PhaseDone
	log.Printf("Inserted %d trip rows", res.Inserted)
	return res, nil
}
