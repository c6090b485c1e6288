// Package config defines the run configuration for the ingestion job and
// loads it from flags, environment variables and an optional TOML file, in
// that priority order.
//
// Every option is a flag on a pflag.FlagSet. Environment variables keep the
// names the job has always used (PG_HOST, POSTGRES_DB, GREEN_PARQUET_URL and
// so on), listed in EnvNames. A TOML file uses the flag names as keys:
//
//	db-kind = "postgres"
//	db-host = "warehouse"
//	chunk-size = 50000
package config

import (
	"fmt"
	"net"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/PC-User-Guest/NYC-Taxi-Data-Engineering-Project/internal/datasource/httpds"
	"github.com/PC-User-Guest/NYC-Taxi-Data-Engineering-Project/internal/schema"
	"github.com/PC-User-Guest/NYC-Taxi-Data-Engineering-Project/internal/storage"
)

// Defaults.
const (
	DefaultTripsURL = "https://d37ci6vzurychx.cloudfront.net/trip-data/green_tripdata_2025-11.parquet"
	DefaultZonesURL = "https://github.com/DataTalksClub/nyc-tlc-data/releases/download/misc/taxi_zone_lookup.csv"
	DefaultJob      = "nyc_taxi_ingest"
)

// DB holds the database connection settings.
type DB struct {
	Kind     string
	Host     string
	Port     int
	Name     string
	User     string
	Password string
	// DSN, when set, is used as-is and the parts above are ignored.
	DSN string
}

// Metrics selects and configures the metrics backend.
type Metrics struct {
	Backend        string // none, pushgateway, datadog
	PushgatewayURL string
	DatadogAddr    string
}

// Config is the full run configuration. It is built once at startup and
// passed down explicitly.
type Config struct {
	DB      DB
	Metrics Metrics

	ChunkSize int

	TripsURL  string
	ZonesURL  string
	DataDir   string
	TripsFile string
	ZonesFile string

	TripsTable string
	ZonesTable string

	WindowStart   string
	WindowEnd     string
	ClampToWindow bool

	ReadyAttempts int
	ReadyDelay    time.Duration

	AutoCreateTables bool

	Job     string
	Verbose bool
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		DB:               DB{Kind: "postgres", Host: "localhost", Port: 15432},
		Metrics:          Metrics{Backend: "none", PushgatewayURL: "http://localhost:9091", DatadogAddr: "127.0.0.1:8125"},
		ChunkSize:        10000,
		TripsURL:         DefaultTripsURL,
		ZonesURL:         DefaultZonesURL,
		DataDir:          "./data",
		TripsTable:       schema.DefaultTripsTable,
		ZonesTable:       schema.DefaultZonesTable,
		ReadyAttempts:    storage.DefaultRetryPolicy.Attempts,
		ReadyDelay:       storage.DefaultRetryPolicy.Delay,
		AutoCreateTables: false,
		Job:              DefaultJob,
	}
}

// EnvNames maps flag names to the environment variables that set them.
var EnvNames = map[string]string{
	"db-kind":            "DB_KIND",
	"db-host":            "PG_HOST",
	"db-port":            "PG_PORT",
	"db-name":            "POSTGRES_DB",
	"db-user":            "POSTGRES_USER",
	"db-password":        "POSTGRES_PASSWORD",
	"db-dsn":             "DB_DSN",
	"chunk-size":         "INGEST_CHUNK_SIZE",
	"trips-url":          "GREEN_PARQUET_URL",
	"zones-url":          "ZONES_CSV_URL",
	"data-dir":           "DATA_DIR",
	"trips-file":         "TRIPS_FILE",
	"zones-file":         "ZONES_FILE",
	"trips-table":        "TRIPS_TABLE",
	"zones-table":        "ZONES_TABLE",
	"window-start":       "INGEST_WINDOW_START",
	"window-end":         "INGEST_WINDOW_END",
	"clamp-to-window":    "INGEST_CLAMP_TO_WINDOW",
	"ready-attempts":     "DB_READY_ATTEMPTS",
	"ready-delay":        "DB_READY_DELAY",
	"auto-create-tables": "AUTO_CREATE_TABLES",
	"metrics-backend":    "METRICS_BACKEND",
	"pushgateway-url":    "PUSHGATEWAY_URL",
	"datadog-addr":       "DD_AGENT_ADDR",
	"job":                "INGEST_JOB",
	"verbose":            "INGEST_VERBOSE",
}

// BindFlags defines every option on fs, storing into c. c's current values
// are the flag defaults.
func BindFlags(fs *pflag.FlagSet, c *Config) {
	fs.StringVar(&c.DB.Kind, "db-kind", c.DB.Kind, "database kind: postgres, mssql, mysql or sqlite")
	fs.StringVar(&c.DB.Host, "db-host", c.DB.Host, "database host")
	fs.IntVar(&c.DB.Port, "db-port", c.DB.Port, "database port")
	fs.StringVar(&c.DB.Name, "db-name", c.DB.Name, "database name")
	fs.StringVar(&c.DB.User, "db-user", c.DB.User, "database user")
	fs.StringVar(&c.DB.Password, "db-password", c.DB.Password, "database password")
	fs.StringVar(&c.DB.DSN, "db-dsn", c.DB.DSN, "full connection string; overrides the db-* parts")

	fs.IntVar(&c.ChunkSize, "chunk-size", c.ChunkSize, "rows per batch")
	fs.StringVar(&c.TripsURL, "trips-url", c.TripsURL, "trip file URL (.parquet or .csv)")
	fs.StringVar(&c.ZonesURL, "zones-url", c.ZonesURL, "zone lookup CSV URL")
	fs.StringVar(&c.DataDir, "data-dir", c.DataDir, "directory for downloaded files")
	fs.StringVar(&c.TripsFile, "trips-file", c.TripsFile, "local trip file (default: data dir + URL file name)")
	fs.StringVar(&c.ZonesFile, "zones-file", c.ZonesFile, "local zone file (default: data dir + URL file name)")
	fs.StringVar(&c.TripsTable, "trips-table", c.TripsTable, "destination trip table")
	fs.StringVar(&c.ZonesTable, "zones-table", c.ZonesTable, "destination zone table")

	fs.StringVar(&c.WindowStart, "window-start", c.WindowStart, "replacement window start, RFC3339 or YYYY-MM-DD (default: from trip file name)")
	fs.StringVar(&c.WindowEnd, "window-end", c.WindowEnd, "replacement window end, exclusive")
	fs.BoolVar(&c.ClampToWindow, "clamp-to-window", c.ClampToWindow, "drop trips whose pickup is outside the window")

	fs.IntVar(&c.ReadyAttempts, "ready-attempts", c.ReadyAttempts, "database readiness probe attempts")
	fs.DurationVar(&c.ReadyDelay, "ready-delay", c.ReadyDelay, "delay between readiness probes")
	fs.BoolVar(&c.AutoCreateTables, "auto-create-tables", c.AutoCreateTables, "create missing tables before loading")

	fs.StringVar(&c.Metrics.Backend, "metrics-backend", c.Metrics.Backend, "metrics backend: none, pushgateway or datadog")
	fs.StringVar(&c.Metrics.PushgatewayURL, "pushgateway-url", c.Metrics.PushgatewayURL, "Pushgateway base URL")
	fs.StringVar(&c.Metrics.DatadogAddr, "datadog-addr", c.Metrics.DatadogAddr, "DogStatsD address")
	fs.StringVar(&c.Job, "job", c.Job, "job name used in logs and metrics")
	fs.BoolVarP(&c.Verbose, "verbose", "v", c.Verbose, "log per-step detail")
}

// Apply fills every flag in fs that was not set on the command line from
// the environment or, when configFile is not empty, from that TOML file.
// Unknown keys in the file are an error.
func Apply(v *viper.Viper, fs *pflag.FlagSet, configFile string) error {
	if err := v.BindPFlags(fs); err != nil {
		return err
	}
	for name, env := range EnvNames {
		if fs.Lookup(name) == nil {
			continue
		}
		if err := v.BindEnv(name, env); err != nil {
			return err
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("config: read %s: %w", configFile, err)
		}
		for _, key := range v.AllKeys() {
			if fs.Lookup(key) == nil {
				return fmt.Errorf("config: invalid option in %s: %s", configFile, key)
			}
		}
	}

	var flagErr error
	fs.VisitAll(func(f *pflag.Flag) {
		if flagErr != nil || f.Changed {
			return
		}
		if err := f.Value.Set(v.GetString(f.Name)); err != nil {
			flagErr = fmt.Errorf("config: %s: %w", f.Name, err)
		}
	})
	return flagErr
}

// TripsPath is the local trip file: TripsFile, or the URL's file name under
// DataDir.
func (c Config) TripsPath() string {
	if c.TripsFile != "" {
		return c.TripsFile
	}
	return filepath.Join(c.DataDir, httpds.FilenameFromURL(c.TripsURL))
}

// ZonesPath is the local zone file, resolved like TripsPath.
func (c Config) ZonesPath() string {
	if c.ZonesFile != "" {
		return c.ZonesFile
	}
	return filepath.Join(c.DataDir, httpds.FilenameFromURL(c.ZonesURL))
}

// RetryPolicy returns the readiness probe policy.
func (c Config) RetryPolicy() storage.RetryPolicy {
	return storage.RetryPolicy{Attempts: c.ReadyAttempts, Delay: c.ReadyDelay}
}

// Storage returns the storage configuration for the selected backend.
func (c Config) Storage() (storage.Config, error) {
	dsn, err := c.DB.ConnString()
	if err != nil {
		return storage.Config{}, err
	}
	return storage.Config{Kind: c.DB.Kind, DSN: dsn}, nil
}

// ConnString returns DSN when set. Otherwise, for postgres only, it builds a
// URL from the parts.
func (d DB) ConnString() (string, error) {
	if strings.TrimSpace(d.DSN) != "" {
		return d.DSN, nil
	}
	if d.Kind != "postgres" {
		return "", fmt.Errorf("%w: db-dsn is required for db-kind=%s", ErrInvalid, d.Kind)
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:   "/" + d.Name,
	}
	return u.String(), nil
}

// Redacted returns the connection string with any password masked, for
// logging.
func (d DB) Redacted() string {
	s, err := d.ConnString()
	if err != nil {
		return ""
	}
	if d.Kind == "mysql" {
		if mc, err := mysql.ParseDSN(s); err == nil {
			if mc.Passwd != "" {
				mc.Passwd = "xxxxx"
			}
			return mc.FormatDSN()
		}
	}
	if u, err := url.Parse(s); err == nil && u.User != nil {
		if _, has := u.User.Password(); has {
			return u.Redacted()
		}
		return s
	}
	if d.Password != "" {
		return strings.ReplaceAll(s, d.Password, "xxxxx")
	}
	return s
}
