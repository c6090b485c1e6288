package mssql

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PC-User-Guest/NYC-Taxi-Data-Engineering-Project/internal/ddl"
	"github.com/PC-User-Guest/NYC-Taxi-Data-Engineering-Project/internal/schema"
	"github.com/PC-User-Guest/NYC-Taxi-Data-Engineering-Project/internal/storage"
)

func TestRegistrationUsesNewRepositoryHook(t *testing.T) {
	orig := newRepository
	defer func() { newRepository = orig }()

	var gotCfg Config
	closed := false
	newRepository = func(ctx context.Context, cfg Config) (*Repository, func(), error) {
		gotCfg = cfg
		return &Repository{}, func() { closed = true }, nil
	}

	repo, err := storage.New(context.Background(), storage.Config{Kind: Kind, DSN: "sqlserver://sa:pw@localhost:1433?database=taxi"})
	require.NoError(t, err)
	assert.Equal(t, "sqlserver://sa:pw@localhost:1433?database=taxi", gotCfg.DSN)

	repo.Close()
	assert.True(t, closed)
}

func TestNewRepository_InvalidDSN(t *testing.T) {
	t.Parallel()

	_, _, err := NewRepository(context.Background(), Config{DSN: "sqlserver://host?encrypt=maybe"})
	assert.ErrorContains(t, err, "mssql dsn")
}

func TestSQLBuilders(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		"DELETE FROM [nyc].[taxi_trips] WHERE [pickup_datetime] >= @p1 AND [pickup_datetime] < @p2",
		deleteRangeSQL("nyc.taxi_trips", "pickup_datetime"))
	assert.Equal(t, "[a]]b]", msIdent("a]b"))
	assert.Equal(t, "[nyc].[taxi_zones]", msFQN("nyc..taxi_zones"))
}

type recorder struct{ stmts []string }

func (r *recorder) Exec(_ context.Context, sql string) error {
	r.stmts = append(r.stmts, sql)
	return nil
}

func TestDialect(t *testing.T) {
	t.Parallel()

	var rec recorder
	require.NoError(t, ddl.EnsureTables(context.Background(), Dialect, &rec, schema.Zones(schema.DefaultZonesTable)))
	require.Len(t, rec.stmts, 2)
	assert.Equal(t, "IF SCHEMA_ID(N'nyc') IS NULL EXEC(N'CREATE SCHEMA [nyc]');", rec.stmts[0])
	assert.Contains(t, rec.stmts[1], "IF OBJECT_ID(N'[nyc].[taxi_zones]', N'U') IS NULL")
	assert.Contains(t, rec.stmts[1], "[location_id] BIGINT NOT NULL")
	assert.Contains(t, rec.stmts[1], "PRIMARY KEY ([location_id])")

	assert.Equal(t, "DATETIME2", MapType(ddl.TypeTimestamp))
	assert.Equal(t, "FLOAT", MapType(ddl.TypeDouble))
}
