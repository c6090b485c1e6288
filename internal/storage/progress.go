package storage

import (
	"log"
	"time"
)

// Progress tracks committed batches and logs one line per batch with running
// totals and the instantaneous insert rate since the previous batch.
type Progress struct {
	Label string // prefix for log lines, e.g. the table name

	start   time.Time
	last    time.Time
	batches int64
	total   int64

	now func() time.Time
}

// NewProgress starts a tracker at the current time.
func NewProgress(label string) *Progress {
	p := &Progress{Label: label, now: time.Now}
	p.start = p.now()
	p.last = p.start
	return p
}

// Batch records one committed batch of n rows and logs it.
func (p *Progress) Batch(n int64) {
	p.batches++
	p.total += n

	now := p.now()
	sinceLast := now.Sub(p.last)
	rps := float64(0)
	if sinceLast > 0 {
		rps = float64(n) / sinceLast.Seconds()
	}
	log.Printf(
		"%s batch #%d: rps=%.0f inserted=%d total_inserted=%d elapsed=%s since_last=%s",
		p.Label,
		p.batches,
		rps,
		n,
		p.total,
		now.Sub(p.start).Truncate(time.Millisecond),
		sinceLast.Truncate(time.Millisecond),
	)
	p.last = now
}

// Batches returns the number of recorded batches.
func (p *Progress) Batches() int64 { return p.batches }

// Total returns the running row total.
func (p *Progress) Total() int64 { return p.total }

// Elapsed returns the time since the tracker started.
func (p *Progress) Elapsed() time.Duration { return p.now().Sub(p.start) }
