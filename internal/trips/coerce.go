package trips

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// timeLayouts are tried in order for string timestamps. Values without a
// zone are read as UTC.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"01/02/2006 03:04:05 PM",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"2006-01-02",
}

// coerce converts a raw source value into the typed pointer for kind. The
// result is always a typed pointer (possibly nil) so setters can assert it.
func coerce(kind valueKind, v any) any {
	switch kind {
	case kindInt:
		return toInt(v)
	case kindFloat:
		return toFloat(v)
	case kindTime:
		return toTime(v)
	case kindCode:
		return toCode(v)
	default:
		return toString(v)
	}
}

func toFloat(v any) *float64 {
	var f float64
	switch t := v.(type) {
	case nil:
		return nil
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int8:
		f = float64(t)
	case int16:
		f = float64(t)
	case int32:
		f = float64(t)
	case int64:
		f = float64(t)
	case uint:
		f = float64(t)
	case uint8:
		f = float64(t)
	case uint16:
		f = float64(t)
	case uint32:
		f = float64(t)
	case uint64:
		f = float64(t)
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil
		}
		p, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		f = p
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// toInt accepts integers, integral floats and numeric strings. Fractional or
// out-of-range values are NULL rather than truncated.
func toInt(v any) *int64 {
	var n int64
	switch t := v.(type) {
	case nil:
		return nil
	case int:
		n = int64(t)
	case int8:
		n = int64(t)
	case int16:
		n = int64(t)
	case int32:
		n = int64(t)
	case int64:
		n = t
	case uint8:
		n = int64(t)
	case uint16:
		n = int64(t)
	case uint32:
		n = int64(t)
	case uint:
		if uint64(t) > math.MaxInt64 {
			return nil
		}
		n = int64(t)
	case uint64:
		if t > math.MaxInt64 {
			return nil
		}
		n = int64(t)
	case string:
		s := strings.TrimSpace(t)
		if p, err := strconv.ParseInt(s, 10, 64); err == nil {
			n = p
			break
		}
		return floatToInt(toFloat(s))
	default:
		return floatToInt(toFloat(v))
	}
	return &n
}

func floatToInt(f *float64) *int64 {
	if f == nil || *f != math.Trunc(*f) || *f >= math.MaxInt64 || *f < math.MinInt64 {
		return nil
	}
	n := int64(*f)
	return &n
}

func toTime(v any) *time.Time {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return nil
		}
		u := t.UTC()
		return &u
	case *time.Time:
		if t == nil || t.IsZero() {
			return nil
		}
		u := t.UTC()
		return &u
	case string:
		return parseTime(t)
	default:
		return nil
	}
}

func parseTime(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			u := t.UTC()
			return &u
		}
	}
	return nil
}

// toCode keeps a code column as text. Integral numbers, whether typed or
// written as "1.0", render without a fraction so Parquet and CSV sources
// agree; anything else is kept as trimmed text.
func toCode(v any) *string {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			if math.IsNaN(f) || math.IsInf(f, 0) {
				return nil
			}
			if n := floatToInt(&f); n != nil {
				s = strconv.FormatInt(*n, 10)
			}
		}
		return &s
	case float32, float64:
		f := toFloat(t)
		if f == nil {
			return nil
		}
		if n := floatToInt(f); n != nil {
			s := strconv.FormatInt(*n, 10)
			return &s
		}
		s := strconv.FormatFloat(*f, 'f', -1, 64)
		return &s
	default:
		return toString(v)
	}
}

func toString(v any) *string {
	var s string
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		s = strings.TrimSpace(t)
	case []byte:
		s = strings.TrimSpace(string(t))
	case bool:
		s = "N"
		if t {
			s = "Y"
		}
	default:
		s = fmt.Sprint(t)
	}
	if s == "" {
		return nil
	}
	return &s
}
