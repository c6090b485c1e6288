package prompush

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PC-User-Guest/NYC-Taxi-Data-Engineering-Project/internal/metrics"
)

func TestNewBackend(t *testing.T) {
	t.Parallel()

	_, err := NewBackend("job", "")
	require.Error(t, err)

	b, err := NewBackend("", "http://pushgateway:9091")
	require.NoError(t, err)
	assert.Equal(t, "taxi_ingest", b.jobName)
}

func TestRouting(t *testing.T) {
	t.Parallel()

	b, err := NewBackend("nyc", "http://pushgateway:9091")
	require.NoError(t, err)

	b.IncCounter(metrics.StepTotal, 1, metrics.Labels{"step": "trips", "status": "success"})
	b.IncCounter(metrics.RecordsTotal, 800, metrics.Labels{"kind": metrics.KindInserted})
	b.IncCounter(metrics.RecordsTotal, 12, metrics.Labels{"kind": metrics.KindDropped})
	b.IncCounter(metrics.BatchesTotal, 2, nil)
	b.IncCounter(metrics.BatchesTotal, 1, nil)
	b.IncCounter("unknown_metric", 5, nil)
	b.ObserveHistogram(metrics.StepDurationSeconds, 1.5, metrics.Labels{"step": "trips", "status": "success"})
	b.ObserveHistogram("unknown_metric", 1, nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(b.stepCounter.WithLabelValues("trips", "success")))
	assert.Equal(t, 800.0, testutil.ToFloat64(b.recordCounter.WithLabelValues("inserted")))
	assert.Equal(t, 12.0, testutil.ToFloat64(b.recordCounter.WithLabelValues("dropped")))
	assert.Equal(t, 3.0, testutil.ToFloat64(b.batchCounter))
	assert.Equal(t, 1, testutil.CollectAndCount(b.stepDuration))
}

func TestFlush(t *testing.T) {
	t.Parallel()

	var gotPath, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	b, err := NewBackend("nyc", srv.URL)
	require.NoError(t, err)
	b.Grouping("run_id", "abc")
	b.IncCounter(metrics.RecordsTotal, 3, metrics.Labels{"kind": metrics.KindZones})

	require.NoError(t, b.Flush())
	assert.Equal(t, "/metrics/job/nyc/run_id/abc", gotPath)
	assert.NotEmpty(t, gotBody)
}

func TestFlush_GatewayError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	b, err := NewBackend("nyc", srv.URL)
	require.NoError(t, err)
	require.ErrorContains(t, b.Flush(), "prompush: push")
}
