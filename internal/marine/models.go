package marine

import (
	"encoding/json"
	"time"
)

// Source tags every observation served by this service.
const Source = "ndbc"

// TimestampLayout is the canonical ISO-8601 form used for observation times:
// millisecond precision with a UTC designator.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// Observation is the normalized view of one buoy reading.
// Numeric readings are nil when the provider did not report a usable value.
type Observation struct {
	Source         string          `json:"source"`
	Station        string          `json:"station"`
	Timestamp      *string         `json:"timestamp"`
	SeaTemperature *float64        `json:"seaTemperature"`
	WaveHeight     *float64        `json:"waveHeight"`
	SwellHeight    *float64        `json:"swellHeight"`
	SwellPeriod    *float64        `json:"swellPeriod"`
	SwellDirection *float64        `json:"swellDirection"`
	Raw            json.RawMessage `json:"raw"`

	// Cached is set on copies handed out from the cache, never on stored values.
	Cached bool `json:"cached,omitempty"`
}

// FormatTimestamp renders t in TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
