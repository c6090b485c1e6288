package trips

import (
	"time"

	"github.com/PC-User-Guest/NYC-Taxi-Data-Engineering-Project/internal/schema"
)

// Record is one canonical trip row. Every field except PickupDatetime is
// optional; nil means NULL. VendorID, PaymentType and TripType are codes:
// numeric in current files ("2"), text in older ones ("CMT", "CASH").
type Record struct {
	VendorID             *string
	PickupDatetime       time.Time
	DropoffDatetime      *time.Time
	StoreAndFwdFlag      *string
	RateCodeID           *float64
	PickupLocationID     *int64
	DropoffLocationID    *int64
	PassengerCount       *float64
	TripDistance         *float64
	FareAmount           *float64
	Extra                *float64
	MTATax               *float64
	TipAmount            *float64
	TollsAmount          *float64
	ImprovementSurcharge *float64
	TotalAmount          *float64
	PaymentType          *string
	TripType             *string
	CongestionSurcharge  *float64
}

// Columns returns the destination column order matching Values.
func Columns() []string { return schema.TripColumns() }

// Values returns the record as driver values in Columns order. Nil pointers
// become untyped nil.
func (r *Record) Values() []any {
	return []any{
		deref(r.VendorID),
		r.PickupDatetime,
		deref(r.DropoffDatetime),
		deref(r.StoreAndFwdFlag),
		deref(r.RateCodeID),
		deref(r.PickupLocationID),
		deref(r.DropoffLocationID),
		deref(r.PassengerCount),
		deref(r.TripDistance),
		deref(r.FareAmount),
		deref(r.Extra),
		deref(r.MTATax),
		deref(r.TipAmount),
		deref(r.TollsAmount),
		deref(r.ImprovementSurcharge),
		deref(r.TotalAmount),
		deref(r.PaymentType),
		deref(r.TripType),
		deref(r.CongestionSurcharge),
	}
}

func deref[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
