package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PC-User-Guest/NYC-Taxi-Data-Engineering-Project/internal/storage"
)

// load runs the flag/env/file merge the way the entrypoint does.
func load(t *testing.T, args []string, file string) Config {
	t.Helper()
	c := Default()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	BindFlags(fs, &c)
	require.NoError(t, fs.Parse(args))
	require.NoError(t, Apply(viper.New(), fs, file))
	return c
}

func TestDefaults(t *testing.T) {
	c := load(t, nil, "")
	assert.Equal(t, Default(), c)
	assert.False(t, c.ClampToWindow, "every mapped trip is loaded unless clamping is asked for")
	assert.Equal(t, "https://github.com/DataTalksClub/nyc-tlc-data/releases/download/misc/taxi_zone_lookup.csv", c.ZonesURL)
	assert.Equal(t, filepath.Join("data", "green_tripdata_2025-11.parquet"), c.TripsPath())
	assert.Equal(t, filepath.Join("data", "taxi_zone_lookup.csv"), c.ZonesPath())
	assert.Equal(t, storage.DefaultRetryPolicy, c.RetryPolicy())
}

func TestEnvironment(t *testing.T) {
	t.Setenv("PG_HOST", "pg")
	t.Setenv("PG_PORT", "5432")
	t.Setenv("POSTGRES_DB", "ny_taxi")
	t.Setenv("POSTGRES_USER", "root")
	t.Setenv("POSTGRES_PASSWORD", "s3cr3t")
	t.Setenv("INGEST_CHUNK_SIZE", "500")
	t.Setenv("INGEST_CLAMP_TO_WINDOW", "true")
	t.Setenv("DB_READY_DELAY", "250ms")
	t.Setenv("GREEN_PARQUET_URL", "https://example.com/t/yellow_tripdata_2024-03.parquet")

	c := load(t, nil, "")
	assert.Equal(t, DB{Kind: "postgres", Host: "pg", Port: 5432, Name: "ny_taxi", User: "root", Password: "s3cr3t"}, c.DB)
	assert.Equal(t, 500, c.ChunkSize)
	assert.True(t, c.ClampToWindow)
	assert.Equal(t, 250*time.Millisecond, c.ReadyDelay)
	assert.Equal(t, filepath.Join("data", "yellow_tripdata_2024-03.parquet"), c.TripsPath())

	sc, err := c.Storage()
	require.NoError(t, err)
	assert.Equal(t, storage.Config{Kind: "postgres", DSN: "postgres://root:s3cr3t@pg:5432/ny_taxi"}, sc)
	assert.Equal(t, "postgres://root:xxxxx@pg:5432/ny_taxi", c.DB.Redacted())
}

func TestFlagsBeatEnvironment(t *testing.T) {
	t.Setenv("PG_HOST", "from-env")
	c := load(t, []string{"--db-host", "from-flag", "--chunk-size=7"}, "")
	assert.Equal(t, "from-flag", c.DB.Host)
	assert.Equal(t, 7, c.ChunkSize)
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ingest.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
db-kind = "sqlite"
db-dsn = "file:taxi.db"
chunk-size = 2000
window-start = "2025-11-01"
window-end = "2025-12-01"
`), 0o644))

	t.Setenv("INGEST_CHUNK_SIZE", "3000")
	c := load(t, nil, path)
	assert.Equal(t, "sqlite", c.DB.Kind)
	assert.Equal(t, "file:taxi.db", c.DB.DSN)
	assert.Equal(t, 3000, c.ChunkSize, "environment beats the file")
	assert.Equal(t, "2025-11-01", c.WindowStart)
}

func TestConfigFile_UnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ingest.toml")
	require.NoError(t, os.WriteFile(path, []byte("db-colour = \"blue\"\n"), 0o644))

	c := Default()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	BindFlags(fs, &c)
	err := Apply(viper.New(), fs, path)
	require.ErrorContains(t, err, "db-colour")
}

func TestBadEnvValue(t *testing.T) {
	t.Setenv("INGEST_CHUNK_SIZE", "lots")

	c := Default()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	BindFlags(fs, &c)
	err := Apply(viper.New(), fs, "")
	require.ErrorContains(t, err, "chunk-size")
}

func TestConnString(t *testing.T) {
	_, err := DB{Kind: "mssql"}.ConnString()
	require.ErrorIs(t, err, ErrInvalid)

	dsn, err := DB{Kind: "mssql", DSN: "sqlserver://sa:pw@db:1433?database=nyc"}.ConnString()
	require.NoError(t, err)
	assert.Equal(t, "sqlserver://sa:pw@db:1433?database=nyc", dsn)

	red := DB{Kind: "mysql", DSN: "root:pw@tcp(db:3306)/nyc"}.Redacted()
	assert.NotContains(t, red, "pw@")
	assert.Contains(t, red, "xxxxx")

	assert.Equal(t, "file:taxi.db", DB{Kind: "sqlite", DSN: "file:taxi.db"}.Redacted())
}
