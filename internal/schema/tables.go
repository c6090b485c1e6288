// Package schema holds the canonical destination tables: the column order
// every backend writes and the logical types used when tables are bootstrapped.
package schema

import "github.com/PC-User-Guest/NYC-Taxi-Data-Engineering-Project/internal/ddl"

// Default destination tables.
const (
	DefaultTripsTable = "nyc.taxi_trips"
	DefaultZonesTable = "nyc.taxi_zones"
)

// PickupColumn is the column the replacement window is keyed on.
const PickupColumn = "pickup_datetime"

var tripColumns = []ddl.ColumnDef{
	{Name: "vendor_id", Type: ddl.TypeText, Nullable: true},
	{Name: PickupColumn, Type: ddl.TypeTimestamp},
	{Name: "dropoff_datetime", Type: ddl.TypeTimestamp, Nullable: true},
	{Name: "store_and_fwd_flag", Type: ddl.TypeText, Nullable: true},
	{Name: "rate_code_id", Type: ddl.TypeDouble, Nullable: true},
	{Name: "pickup_location_id", Type: ddl.TypeBigInt, Nullable: true},
	{Name: "dropoff_location_id", Type: ddl.TypeBigInt, Nullable: true},
	{Name: "passenger_count", Type: ddl.TypeDouble, Nullable: true},
	{Name: "trip_distance", Type: ddl.TypeDouble, Nullable: true},
	{Name: "fare_amount", Type: ddl.TypeDouble, Nullable: true},
	{Name: "extra", Type: ddl.TypeDouble, Nullable: true},
	{Name: "mta_tax", Type: ddl.TypeDouble, Nullable: true},
	{Name: "tip_amount", Type: ddl.TypeDouble, Nullable: true},
	{Name: "tolls_amount", Type: ddl.TypeDouble, Nullable: true},
	{Name: "improvement_surcharge", Type: ddl.TypeDouble, Nullable: true},
	{Name: "total_amount", Type: ddl.TypeDouble, Nullable: true},
	{Name: "payment_type", Type: ddl.TypeText, Nullable: true},
	{Name: "trip_type", Type: ddl.TypeText, Nullable: true},
	{Name: "congestion_surcharge", Type: ddl.TypeDouble, Nullable: true},
}

var zoneColumns = []ddl.ColumnDef{
	{Name: "location_id", Type: ddl.TypeBigInt, PrimaryKey: true},
	{Name: "borough", Type: ddl.TypeText, Nullable: true},
	{Name: "zone", Type: ddl.TypeText, Nullable: true},
	{Name: "service_zone", Type: ddl.TypeText, Nullable: true},
}

// Trips returns the trip table definition under the given name.
func Trips(fqn string) ddl.TableDef {
	return ddl.TableDef{FQN: fqn, Columns: append([]ddl.ColumnDef(nil), tripColumns...)}
}

// Zones returns the zone table definition under the given name.
func Zones(fqn string) ddl.TableDef {
	return ddl.TableDef{FQN: fqn, Columns: append([]ddl.ColumnDef(nil), zoneColumns...)}
}

// TripColumns is the canonical trip column order.
func TripColumns() []string { return Trips("").Names() }

// ZoneColumns is the canonical zone column order.
func ZoneColumns() []string { return Zones("").Names() }
