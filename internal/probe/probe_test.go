package probe

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PC-User-Guest/NYC-Taxi-Data-Engineering-Project/internal/parser"
	"github.com/PC-User-Guest/NYC-Taxi-Data-Engineering-Project/internal/trips"
)

const greenCSV = `VendorID,lpep_pickup_datetime,lpep_dropoff_datetime,store_and_fwd_flag,PULocationID,fare_amount,ehail_fee,notes
2,2025-11-01 00:10:00,2025-11-01 00:20:00,N,74,12.5,,a
1,2025-11-02 08:00:00,2025-11-02 08:31:00,Y,42,30,,b
2,2025-11-03 12:00:00,,N,,7.25,,
`

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestTrips_CSV(t *testing.T) {
	t.Parallel()

	p := writeFile(t, "green_tripdata_2025-11.csv", greenCSV)
	rep, err := Trips(context.Background(), p, 0)
	require.NoError(t, err)

	assert.Equal(t, parser.FormatCSV, rep.Format)
	assert.Equal(t, 3, rep.Sampled)
	require.NoError(t, rep.WindowErr)
	assert.Equal(t, trips.MonthWindow(2025, time.November), rep.Window)

	want := []Column{
		{Name: "VendorID", Canonical: "vendor_id", Type: "integer", NonNull: 3},
		{Name: "lpep_pickup_datetime", Canonical: "pickup_datetime", Type: "timestamp", NonNull: 3},
		{Name: "lpep_dropoff_datetime", Canonical: "dropoff_datetime", Type: "timestamp", NonNull: 2},
		{Name: "store_and_fwd_flag", Canonical: "store_and_fwd_flag", Type: "boolean", NonNull: 3},
		{Name: "PULocationID", Canonical: "pickup_location_id", Type: "integer", NonNull: 2},
		{Name: "fare_amount", Canonical: "fare_amount", Type: "real", NonNull: 3},
		{Name: "ehail_fee", Canonical: "", Type: "text", NonNull: 0},
		{Name: "notes", Canonical: "", Type: "text", NonNull: 2},
	}
	if diff := cmp.Diff(want, rep.Columns); diff != "" {
		t.Fatalf("columns mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"ehail_fee", "notes"}, rep.Unmapped())
	assert.Contains(t, rep.Missing, "dropoff_location_id")
	assert.NotContains(t, rep.Missing, "pickup_datetime")
}

func TestTrips_SampleLimit(t *testing.T) {
	t.Parallel()

	p := writeFile(t, "green_tripdata_2025-11.csv", greenCSV)
	rep, err := Trips(context.Background(), p, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, rep.Sampled)
}

func TestTrips_NoPeriodInName(t *testing.T) {
	t.Parallel()

	p := writeFile(t, "trips.csv", greenCSV)
	rep, err := Trips(context.Background(), p, 10)
	require.NoError(t, err)
	assert.ErrorIs(t, rep.WindowErr, trips.ErrNoWindow)
	assert.True(t, rep.Window.IsZero())
}

func TestTrips_Errors(t *testing.T) {
	t.Parallel()

	_, err := Trips(context.Background(), writeFile(t, "zones.json", "{}"), 10)
	assert.ErrorContains(t, err, "unsupported file type")

	_, err = Trips(context.Background(), filepath.Join(t.TempDir(), "missing.csv"), 10)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestInferType(t *testing.T) {
	t.Parallel()

	ts := time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		name string
		vals []any
		want string
	}{
		{"empty", nil, "text"},
		{"all null", []any{nil, ""}, "text"},
		{"ints", []any{int64(1), "2", nil}, "integer"},
		{"mixed numbers", []any{int32(1), 2.5, "3e2"}, "real"},
		{"booleans", []any{true, "N", "yes"}, "boolean"},
		{"timestamps", []any{ts, "2025-11-01 10:00:00"}, "timestamp"},
		{"dates", []any{"2025-11-01", "11/02/2025"}, "date"},
		{"date and time", []any{"2025-11-01", "2025-11-01T10:00:00"}, "timestamp"},
		{"mixed", []any{"1", "abc"}, "text"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, inferType(tc.vals))
		})
	}
}
