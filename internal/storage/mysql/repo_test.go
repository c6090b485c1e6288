package mysql

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PC-User-Guest/NYC-Taxi-Data-Engineering-Project/internal/ddl"
	"github.com/PC-User-Guest/NYC-Taxi-Data-Engineering-Project/internal/schema"
	"github.com/PC-User-Guest/NYC-Taxi-Data-Engineering-Project/internal/storage"
)

func TestRegistrationUsesHook(t *testing.T) {
	orig := newRepository
	defer func() { newRepository = orig }()

	var got Config
	newRepository = func(ctx context.Context, cfg Config) (*Repository, func(), error) {
		got = cfg
		return &Repository{}, nil, nil
	}

	repo, err := storage.New(context.Background(), storage.Config{Kind: Kind, DSN: "u:p@tcp(db:3306)/taxi"})
	require.NoError(t, err)
	assert.Equal(t, "u:p@tcp(db:3306)/taxi", got.DSN)
	repo.Close() // nil closeFn is tolerated
}

func TestNewRepository(t *testing.T) {
	t.Parallel()

	r, closeFn, err := NewRepository(context.Background(), Config{DSN: "u:p@tcp(127.0.0.1:3306)/taxi"})
	require.NoError(t, err)
	require.NotNil(t, r)
	closeFn()

	_, _, err = NewRepository(context.Background(), Config{DSN: "u:p@tcp(127.0.0.1:3306)/taxi?parseTime=maybe"})
	assert.ErrorContains(t, err, "mysql dsn")
}

func TestSQLBuilders(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		"INSERT INTO `nyc`.`taxi_zones` (`location_id`, `zone`) VALUES (?, ?), (?, ?)",
		insertSQL("nyc.taxi_zones", []string{"location_id", "zone"}, 2))
	assert.Equal(t,
		"DELETE FROM `nyc`.`taxi_trips` WHERE `pickup_datetime` >= ? AND `pickup_datetime` < ?",
		deleteRangeSQL("nyc.taxi_trips", "pickup_datetime"))
	assert.Equal(t, "`a``b`", myIdent("a`b"))
}

type recorder struct{ stmts []string }

func (r *recorder) Exec(_ context.Context, sql string) error {
	r.stmts = append(r.stmts, sql)
	return nil
}

func TestDialect(t *testing.T) {
	t.Parallel()

	var rec recorder
	require.NoError(t, ddl.EnsureTables(context.Background(), Dialect, &rec, schema.Trips(schema.DefaultTripsTable)))
	require.Len(t, rec.stmts, 2)
	assert.Equal(t, "CREATE DATABASE IF NOT EXISTS `nyc`", rec.stmts[0])
	assert.True(t, strings.HasPrefix(rec.stmts[1], "CREATE TABLE IF NOT EXISTS `nyc`.`taxi_trips`"))
	assert.Contains(t, rec.stmts[1], "`pickup_datetime` DATETIME(6) NOT NULL")
}
