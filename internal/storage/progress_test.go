package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProgress(t *testing.T) {
	t.Parallel()

	clock := time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)
	p := &Progress{Label: "trips", now: func() time.Time { return clock }}
	p.start, p.last = clock, clock

	clock = clock.Add(time.Second)
	p.Batch(500)
	clock = clock.Add(2 * time.Second)
	p.Batch(300)

	assert.EqualValues(t, 2, p.Batches())
	assert.EqualValues(t, 800, p.Total())
	assert.Equal(t, 3*time.Second, p.Elapsed())
}
