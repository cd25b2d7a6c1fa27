package marine

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Record is one decoded JSON object from the provider.
type Record = map[string]any

// timeLayouts are tried in order for string time values. Zone-less layouts parse as UTC.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
}

// ResolveNumeric returns the first alias in record that holds a finite number.
// Keys that are missing, null, empty or non-numeric are skipped and scanning continues.
// A present zero is a value, not an absence.
func ResolveNumeric(record Record, aliases []string) *float64 {
	for _, key := range aliases {
		v, ok := record[key]
		if !ok {
			continue
		}
		if n, ok := parseNumber(v); ok {
			return &n
		}
	}
	return nil
}

// ResolveTimestamp returns the canonical observation time for record, falling back
// to payload.meta.date. It returns nil when nothing parses; it never uses the wall clock.
func ResolveTimestamp(record Record, payload any) *string {
	for _, key := range TimeKeys {
		if ts, ok := parseTime(record[key]); ok {
			s := FormatTimestamp(ts)
			return &s
		}
	}
	if meta, ok := lookupObject(payload, "meta"); ok {
		if ts, ok := parseTime(meta["date"]); ok {
			s := FormatTimestamp(ts)
			return &s
		}
	}
	return nil
}

func parseNumber(v any) (float64, bool) {
	var (
		n   float64
		err error
	)
	switch x := v.(type) {
	case json.Number:
		n, err = strconv.ParseFloat(x.String(), 64)
	case float64:
		n = x
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, false
		}
		n, err = strconv.ParseFloat(s, 64)
	default:
		return 0, false
	}
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

// parseTime accepts date strings in timeLayouts and JSON numbers as Unix milliseconds.
func parseTime(v any) (time.Time, bool) {
	switch x := v.(type) {
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range timeLayouts {
			if ts, err := time.Parse(layout, s); err == nil {
				return renderable(ts.UTC())
			}
		}
	case json.Number, float64:
		ms, ok := parseNumber(x)
		if !ok || ms == 0 || math.Abs(ms) > maxEpochMillis {
			return time.Time{}, false
		}
		return renderable(time.UnixMilli(int64(ms)).UTC())
	}
	return time.Time{}, false
}

// maxEpochMillis is the largest instant, in ms either side of the epoch, accepted from a numeric time key.
const maxEpochMillis = 8.64e15

// renderable reports whether ts fits the four-digit year of TimestampLayout.
func renderable(ts time.Time) (time.Time, bool) {
	if y := ts.Year(); y < 0 || y > 9999 {
		return time.Time{}, false
	}
	return ts, true
}

func lookupObject(v any, key string) (Record, bool) {
	obj, ok := v.(Record)
	if !ok {
		return nil, false
	}
	inner, ok := obj[key].(Record)
	return inner, ok
}

// lookupString reads a non-empty string (or JSON number) identifier from record.
func lookupString(record Record, key string) (string, bool) {
	switch x := record[key].(type) {
	case string:
		if s := strings.TrimSpace(x); s != "" {
			return s, true
		}
	case json.Number:
		return x.String(), true
	}
	return "", false
}
