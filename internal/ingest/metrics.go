package ingest

import (
	"fmt"
	"log"

	"github.com/PC-User-Guest/NYC-Taxi-Data-Engineering-Project/internal/config"
	"github.com/PC-User-Guest/NYC-Taxi-Data-Engineering-Project/internal/metrics"
	"github.com/PC-User-Guest/NYC-Taxi-Data-Engineering-Project/internal/metrics/datadog"
	"github.com/PC-User-Guest/NYC-Taxi-Data-Engineering-Project/internal/metrics/prompush"
)

// SetupMetrics installs the configured metrics backend and returns a flush
// function to call once the run is over. The "none" backend installs nothing.
func SetupMetrics(cfg config.Config, runID string) (flush func(), err error) {
	var b metrics.Backend
	switch cfg.Metrics.Backend {
	case "", "none":
		return func() {}, nil
	case "pushgateway":
		pb, err := prompush.NewBackend(cfg.Job, cfg.Metrics.PushgatewayURL)
		if err != nil {
			return nil, err
		}
		if runID != "" {
			pb.Grouping("run_id", runID)
		}
		b = pb
	case "datadog":
		db, err := datadog.NewBackend(datadog.Config{
			Addr:       cfg.Metrics.DatadogAddr,
			GlobalTags: []string{"job:" + cfg.Job, "run_id:" + runID},
		})
		if err != nil {
			return nil, err
		}
		b = db
	default:
		return nil, fmt.Errorf("%w: unsupported metrics backend %q", config.ErrInvalid, cfg.Metrics.Backend)
	}

	metrics.SetBackend(b)
	log.Printf("metrics: backend=%s job=%s", cfg.Metrics.Backend, cfg.Job)
	return func() {
		if err := metrics.Flush(); err != nil {
			log.Printf("WARN: metrics flush: %v", err)
		}
		metrics.SetBackend(nil)
	}, nil
}
