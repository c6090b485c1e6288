package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PC-User-Guest/NYC-Taxi-Data-Engineering-Project/internal/schema"
	"github.com/PC-User-Guest/NYC-Taxi-Data-Engineering-Project/internal/storage"
)

// newRepo opens an in-memory database with both canonical tables.
func newRepo(tb testing.TB) *WrappedRepo {
	tb.Helper()
	ctx := context.Background()

	repo, err := storage.New(ctx, storage.Config{Kind: Kind, DSN: ":memory:"})
	require.NoError(tb, err)
	tb.Cleanup(repo.Close)

	require.NoError(tb, storage.EnsureTables(ctx, Kind, repo,
		schema.Zones(schema.DefaultZonesTable), schema.Trips(schema.DefaultTripsTable)))
	return repo.(*WrappedRepo)
}

func tripRow(ts time.Time) []any {
	r := make([]any, len(schema.TripColumns()))
	r[0] = int64(2)
	r[1] = ts
	return r
}

func TestPing(t *testing.T) {
	t.Parallel()
	require.NoError(t, newRepo(t).Ping(context.Background()))
}

func TestEnsureTablesIsIdempotent(t *testing.T) {
	t.Parallel()

	r := newRepo(t)
	err := storage.EnsureTables(context.Background(), Kind, r, schema.Trips(schema.DefaultTripsTable))
	require.NoError(t, err)
}

func TestCopyFromAndDeleteRange(t *testing.T) {
	t.Parallel()

	r := newRepo(t)
	ctx := context.Background()
	start := time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	rows := [][]any{
		tripRow(start.Add(-time.Microsecond)), // just before
		tripRow(start),                        // inclusive lower bound
		tripRow(start.Add(15 * 24 * time.Hour)),
		tripRow(end.Add(-time.Microsecond)),
		tripRow(end), // exclusive upper bound
	}
	n, err := r.CopyFrom(ctx, schema.DefaultTripsTable, schema.TripColumns(), rows)
	require.NoError(t, err)
	assert.EqualValues(t, 5, n)

	deleted, err := r.DeleteRange(ctx, schema.DefaultTripsTable, schema.PickupColumn, start, end)
	require.NoError(t, err)
	assert.EqualValues(t, 3, deleted)

	left, err := r.Count(ctx, schema.DefaultTripsTable)
	require.NoError(t, err)
	assert.EqualValues(t, 2, left)
}

func TestCopyFrom_RollsBackOnError(t *testing.T) {
	t.Parallel()

	r := newRepo(t)
	ctx := context.Background()

	bad := tripRow(time.Now())
	bad[1] = nil // pickup is NOT NULL
	_, err := r.CopyFrom(ctx, schema.DefaultTripsTable, schema.TripColumns(),
		[][]any{tripRow(time.Now()), bad})
	require.Error(t, err)

	n, err := r.Count(ctx, schema.DefaultTripsTable)
	require.NoError(t, err)
	assert.Zero(t, n, "failed batch must not leave partial rows")

	_, err = r.CopyFrom(ctx, schema.DefaultTripsTable, []string{"vendor_id"}, [][]any{{1, 2}})
	assert.ErrorContains(t, err, "columns length")
}

func TestReplaceAll(t *testing.T) {
	t.Parallel()

	r := newRepo(t)
	ctx := context.Background()
	zones := [][]any{
		{int64(1), "EWR", "Newark Airport", "EWR"},
		{int64(2), "Queens", "Jamaica Bay", "Boro Zone"},
		{int64(264), "Unknown", nil, nil},
	}

	for i := 0; i < 2; i++ {
		n, err := r.ReplaceAll(ctx, schema.DefaultZonesTable, schema.ZoneColumns(), zones)
		require.NoError(t, err)
		assert.EqualValues(t, 3, n)
	}
	count, err := r.Count(ctx, schema.DefaultZonesTable)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)

	// A failing reload keeps the previous contents.
	dup := append(append([][]any{}, zones...), zones[0])
	_, err = r.ReplaceAll(ctx, schema.DefaultZonesTable, schema.ZoneColumns(), dup)
	require.Error(t, err)
	count, err = r.Count(ctx, schema.DefaultZonesTable)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
}

func TestSQLBuilders(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `INSERT INTO "nyc.taxi_zones" ("location_id", "zone") VALUES (?, ?)`,
		insertSQL("nyc.taxi_zones", []string{"location_id", "zone"}))
	assert.Equal(t, `DELETE FROM "nyc.taxi_trips" WHERE "pickup_datetime" >= ? AND "pickup_datetime" < ?`,
		deleteRangeSQL("nyc.taxi_trips", "pickup_datetime"))
	assert.Equal(t, "2025-11-01 05:00:00.000000",
		FormatTime(time.Date(2025, 11, 1, 0, 0, 0, 0, time.FixedZone("EST", -5*3600))))
}

func TestNewRepository_EmptyDSN(t *testing.T) {
	t.Parallel()

	_, _, err := NewRepository(context.Background(), Config{})
	assert.ErrorContains(t, err, "DSN must not be empty")
}
