package marine

// Field names a normalized numeric measurement.
type Field string

const (
	FieldSeaTemperature Field = "seaTemperature"
	FieldWaveHeight     Field = "waveHeight"
	FieldSwellHeight    Field = "swellHeight"
	FieldSwellPeriod    Field = "swellPeriod"
	FieldSwellDirection Field = "swellDirection"
)

// Fields lists every numeric measurement in output order.
var Fields = []Field{
	FieldSeaTemperature,
	FieldWaveHeight,
	FieldSwellHeight,
	FieldSwellPeriod,
	FieldSwellDirection,
}

// AliasTable maps each measurement to the ordered provider keys that may carry it.
// Earlier keys win when a record carries several of them.
type AliasTable map[Field][]string

// DefaultAliases is the alias table used for NDBC realtime2 payloads.
var DefaultAliases = AliasTable{
	FieldSeaTemperature: {"wtmp", "sea_temp", "water_temp", "water_temperature"},
	FieldWaveHeight:     {"wvht", "wave_height", "significant_wave_height"},
	FieldSwellHeight:    {"swh", "swell_height"},
	FieldSwellPeriod:    {"swp", "swell_period", "dpd"},
	FieldSwellDirection: {"swdir", "swell_direction", "mwd"},
}

// TimeKeys are the record keys tried, in order, when resolving the observation time.
var TimeKeys = []string{"time_iso8601", "time", "timestamp", "date_time", "t"}

// Clone returns a deep copy so callers can override entries without touching the original.
func (a AliasTable) Clone() AliasTable {
	out := make(AliasTable, len(a))
	for f, keys := range a {
		out[f] = append([]string(nil), keys...)
	}
	return out
}
