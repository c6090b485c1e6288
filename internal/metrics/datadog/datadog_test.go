package datadog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PC-User-Guest/NYC-Taxi-Data-Engineering-Project/internal/metrics"
)

type sent struct {
	kind  string
	name  string
	value float64
	tags  []string
}

type fakeClient struct {
	sent   []sent
	closed bool
}

func (f *fakeClient) Count(name string, value int64, tags []string, _ float64) error {
	f.sent = append(f.sent, sent{"count", name, float64(value), tags})
	return nil
}

func (f *fakeClient) Histogram(name string, value float64, tags []string, _ float64) error {
	f.sent = append(f.sent, sent{"histogram", name, value, tags})
	return nil
}

func (f *fakeClient) Close() error { f.closed = true; return nil }

func TestNewBackend(t *testing.T) {
	t.Parallel()

	_, err := NewBackend(Config{})
	require.Error(t, err)

	b, err := NewBackend(Config{Addr: "127.0.0.1:8125", Namespace: "nyc.", GlobalTags: []string{"env:test"}})
	require.NoError(t, err)
	require.NoError(t, b.Flush())
}

func TestBackendForwards(t *testing.T) {
	t.Parallel()

	fc := &fakeClient{}
	b := &Backend{client: fc}

	b.IncCounter(metrics.RecordsTotal, 42.9, metrics.Labels{"kind": "inserted", "job": "nyc"})
	b.ObserveHistogram(metrics.StepDurationSeconds, 0.25, nil)
	require.NoError(t, b.Flush())

	assert.Equal(t, []sent{
		{"count", metrics.RecordsTotal, 42, []string{"job:nyc", "kind:inserted"}},
		{"histogram", metrics.StepDurationSeconds, 0.25, nil},
	}, fc.sent)
	assert.True(t, fc.closed)
}
