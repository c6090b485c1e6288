package trips

import "time"

type valueKind int

const (
	kindInt valueKind = iota
	kindFloat
	kindTime
	kindString
	kindCode
)

// field describes one canonical column: the source names it may come from,
// in priority order, and how the coerced value lands in a Record.
type field struct {
	name    string
	aliases []string
	kind    valueKind
	set     func(r *Record, v any)
}

func setInt(dst func(*Record) **int64) func(*Record, any) {
	return func(r *Record, v any) { *dst(r) = v.(*int64) }
}

func setCode(dst func(*Record) **string) func(*Record, any) {
	return func(r *Record, v any) { *dst(r) = v.(*string) }
}

func setFloat(dst func(*Record) **float64) func(*Record, any) {
	return func(r *Record, v any) { *dst(r) = v.(*float64) }
}

// fields is the alias table. Order within aliases matters: the first name
// present in a batch schema wins for the whole batch. Green files use the
// lpep_ prefix, yellow files tpep_.
var fields = []field{
	{"vendor_id", []string{"VendorID", "vendor_id"}, kindCode,
		setCode(func(r *Record) **string { return &r.VendorID })},
	{"pickup_datetime", []string{"lpep_pickup_datetime", "pickup_datetime", "tpep_pickup_datetime"}, kindTime,
		func(r *Record, v any) {
			if t := v.(*time.Time); t != nil {
				r.PickupDatetime = *t
			}
		}},
	{"dropoff_datetime", []string{"lpep_dropoff_datetime", "dropoff_datetime", "tpep_dropoff_datetime"}, kindTime,
		func(r *Record, v any) { r.DropoffDatetime = v.(*time.Time) }},
	{"store_and_fwd_flag", []string{"store_and_fwd_flag", "store_and_fwd"}, kindString,
		func(r *Record, v any) { r.StoreAndFwdFlag = v.(*string) }},
	{"rate_code_id", []string{"RatecodeID", "rate_code_id", "ratecode"}, kindFloat,
		setFloat(func(r *Record) **float64 { return &r.RateCodeID })},
	{"pickup_location_id", []string{"PULocationID", "pu_location_id", "pickup_location_id"}, kindInt,
		setInt(func(r *Record) **int64 { return &r.PickupLocationID })},
	{"dropoff_location_id", []string{"DOLocationID", "do_location_id", "dropoff_location_id"}, kindInt,
		setInt(func(r *Record) **int64 { return &r.DropoffLocationID })},
	{"passenger_count", []string{"passengercount", "passenger_count"}, kindFloat,
		setFloat(func(r *Record) **float64 { return &r.PassengerCount })},
	{"trip_distance", []string{"trip_distance"}, kindFloat,
		setFloat(func(r *Record) **float64 { return &r.TripDistance })},
	{"fare_amount", []string{"fare_amount"}, kindFloat,
		setFloat(func(r *Record) **float64 { return &r.FareAmount })},
	{"extra", []string{"extra"}, kindFloat,
		setFloat(func(r *Record) **float64 { return &r.Extra })},
	{"mta_tax", []string{"mta_tax", "mtatax"}, kindFloat,
		setFloat(func(r *Record) **float64 { return &r.MTATax })},
	{"tip_amount", []string{"tip_amount"}, kindFloat,
		setFloat(func(r *Record) **float64 { return &r.TipAmount })},
	{"tolls_amount", []string{"tolls_amount"}, kindFloat,
		setFloat(func(r *Record) **float64 { return &r.TollsAmount })},
	{"improvement_surcharge", []string{"improvement_surcharge"}, kindFloat,
		setFloat(func(r *Record) **float64 { return &r.ImprovementSurcharge })},
	{"total_amount", []string{"total_amount"}, kindFloat,
		setFloat(func(r *Record) **float64 { return &r.TotalAmount })},
	{"payment_type", []string{"payment_type"}, kindCode,
		setCode(func(r *Record) **string { return &r.PaymentType })},
	{"trip_type", []string{"trip_type"}, kindCode,
		setCode(func(r *Record) **string { return &r.TripType })},
	{"congestion_surcharge", []string{"congestion_surcharge"}, kindFloat,
		setFloat(func(r *Record) **float64 { return &r.CongestionSurcharge })},
}

// Aliases returns the ordered source names accepted for a canonical column,
// or nil for an unknown column.
func Aliases(canonical string) []string {
	for _, f := range fields {
		if f.name == canonical {
			return append([]string(nil), f.aliases...)
		}
	}
	return nil
}
