package config

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/PC-User-Guest/NYC-Taxi-Data-Engineering-Project/internal/trips"
)

// ErrInvalid wraps configuration errors. The entrypoint maps it to exit
// status 2.
var ErrInvalid = errors.New("invalid configuration")

// IssueSeverity is the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError blocks the run.
	SeverityError IssueSeverity = "error"
	// SeverityWarning is reported but does not block.
	SeverityWarning IssueSeverity = "warning"
)

// Issue is one validation finding. Path is the flag name.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// Kinds lists the supported database kinds.
var Kinds = []string{"postgres", "mssql", "mysql", "sqlite"}

// MetricsBackends lists the supported metrics backends.
var MetricsBackends = []string{"none", "pushgateway", "datadog"}

// Validate checks c without touching the network or the database.
func Validate(c Config) []Issue {
	var issues []Issue
	add := func(sev IssueSeverity, path, format string, args ...any) {
		issues = append(issues, Issue{Severity: sev, Path: path, Message: fmt.Sprintf(format, args...)})
	}

	// Database.
	if !slices.Contains(Kinds, c.DB.Kind) {
		add(SeverityError, "db-kind", "unsupported kind %q (want one of %s)", c.DB.Kind, strings.Join(Kinds, ", "))
	} else if strings.TrimSpace(c.DB.DSN) == "" {
		if c.DB.Kind != "postgres" {
			add(SeverityError, "db-dsn", "a DSN is required for db-kind=%s", c.DB.Kind)
		} else {
			for path, v := range map[string]string{"db-name": c.DB.Name, "db-user": c.DB.User, "db-password": c.DB.Password} {
				if strings.TrimSpace(v) == "" {
					add(SeverityError, path, "must be set (or provide db-dsn)")
				}
			}
			if strings.TrimSpace(c.DB.Host) == "" {
				add(SeverityError, "db-host", "must not be empty")
			}
			if c.DB.Port < 1 || c.DB.Port > 65535 {
				add(SeverityError, "db-port", "must be in 1..65535, got %d", c.DB.Port)
			}
		}
	}

	// Batching.
	switch {
	case c.ChunkSize <= 0:
		add(SeverityError, "chunk-size", "must be positive, got %d", c.ChunkSize)
	case c.ChunkSize > 1_000_000:
		add(SeverityWarning, "chunk-size", "%d rows per batch holds a lot in memory", c.ChunkSize)
	}

	// Sources.
	issues = append(issues, checkSource("trips-url", c.TripsURL, c.TripsFile)...)
	issues = append(issues, checkSource("zones-url", c.ZonesURL, c.ZonesFile)...)
	if c.TripsFile == "" && c.ZonesFile == "" && strings.TrimSpace(c.DataDir) == "" {
		add(SeverityError, "data-dir", "must not be empty")
	}

	// Tables.
	if strings.TrimSpace(c.TripsTable) == "" {
		add(SeverityError, "trips-table", "must not be empty")
	}
	if strings.TrimSpace(c.ZonesTable) == "" {
		add(SeverityError, "zones-table", "must not be empty")
	}

	// Window.
	if _, err := trips.ResolveWindow(c.WindowStart, c.WindowEnd, c.TripsPath()); err != nil {
		path := "window-start"
		if c.WindowStart == "" && c.WindowEnd == "" {
			path = "trips-file"
		}
		add(SeverityError, path, "cannot determine the replacement window: %v", err)
	}
	if c.ClampToWindow {
		add(SeverityWarning, "clamp-to-window", "trips whose pickup is outside the window will be dropped, not loaded")
	}

	// Readiness.
	if c.ReadyAttempts < 1 {
		add(SeverityError, "ready-attempts", "must be at least 1, got %d", c.ReadyAttempts)
	}
	if c.ReadyDelay < 0 {
		add(SeverityError, "ready-delay", "must not be negative, got %s", c.ReadyDelay)
	}

	// Metrics.
	switch c.Metrics.Backend {
	case "none", "":
	case "pushgateway":
		if u, err := url.Parse(c.Metrics.PushgatewayURL); err != nil || u.Host == "" {
			add(SeverityError, "pushgateway-url", "invalid URL %q", c.Metrics.PushgatewayURL)
		}
	case "datadog":
		if strings.TrimSpace(c.Metrics.DatadogAddr) == "" {
			add(SeverityError, "datadog-addr", "must not be empty")
		}
	default:
		add(SeverityError, "metrics-backend", "unsupported backend %q (want one of %s)",
			c.Metrics.Backend, strings.Join(MetricsBackends, ", "))
	}

	if strings.TrimSpace(c.Job) == "" {
		add(SeverityError, "job", "must not be empty; it labels logs and metrics")
	}
	return issues
}

// Check runs Validate and returns the error-severity issues joined under
// ErrInvalid, or nil.
func Check(c Config) error {
	var errs []error
	for _, iss := range Validate(c) {
		if iss.Severity == SeverityError {
			errs = append(errs, iss)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
}

func checkSource(path, rawURL, localFile string) []Issue {
	if strings.TrimSpace(rawURL) == "" {
		if localFile == "" {
			return []Issue{{Severity: SeverityError, Path: path, Message: "a URL or a local file is required"}}
		}
		return nil
	}
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return []Issue{{Severity: SeverityError, Path: path, Message: fmt.Sprintf("not an http(s) URL: %q", rawURL)}}
	}
	return nil
}
