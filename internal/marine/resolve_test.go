package marine

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveNumericZeroIsAValue(t *testing.T) {
	cases := map[string]any{
		"json number": json.Number("0"),
		"float":       float64(0),
		"string":      "0",
		"decimal":     "0.0",
	}
	for name, v := range cases {
		t.Run(name, func(t *testing.T) {
			got := ResolveNumeric(Record{"wvht": v, "wave_height": json.Number("3.2")}, DefaultAliases[FieldWaveHeight])
			require.NotNil(t, got)
			assert.Equal(t, 0.0, *got)
		})
	}
}

func TestResolveNumericFirstAliasWins(t *testing.T) {
	record := Record{
		"significant_wave_height": json.Number("9.9"),
		"wave_height":             json.Number("5.0"),
		"wvht":                    json.Number("1.5"),
	}
	got := ResolveNumeric(record, DefaultAliases[FieldWaveHeight])
	require.NotNil(t, got)
	assert.Equal(t, 1.5, *got)

	delete(record, "wvht")
	got = ResolveNumeric(record, DefaultAliases[FieldWaveHeight])
	require.NotNil(t, got)
	assert.Equal(t, 5.0, *got)
}

func TestResolveNumericSkipsUnusableValues(t *testing.T) {
	unusable := []any{nil, "", "   ", "MM", "NaN", "Inf", "-Infinity", true, Record{}, []any{json.Number("1")}}
	for _, v := range unusable {
		record := Record{"swp": v, "swell_period": "7.25"}
		got := ResolveNumeric(record, DefaultAliases[FieldSwellPeriod])
		require.NotNil(t, got, "value %#v", v)
		assert.Equal(t, 7.25, *got, "value %#v", v)
	}
}

func TestResolveNumericAbsent(t *testing.T) {
	assert.Nil(t, ResolveNumeric(Record{}, DefaultAliases[FieldSwellDirection]))
	assert.Nil(t, ResolveNumeric(Record{"swdir": "MM", "mwd": nil}, DefaultAliases[FieldSwellDirection]))
	assert.Nil(t, ResolveNumeric(Record{"wvht": "1.0"}, nil))
}

func TestResolveNumericNeverNaN(t *testing.T) {
	got := ResolveNumeric(Record{"wtmp": math.NaN(), "sea_temp": math.Inf(1)}, DefaultAliases[FieldSeaTemperature])
	assert.Nil(t, got)
}

func TestResolveNumericTrimsStrings(t *testing.T) {
	got := ResolveNumeric(Record{"swdir": " 120 "}, DefaultAliases[FieldSwellDirection])
	require.NotNil(t, got)
	assert.Equal(t, 120.0, *got)
}

func TestResolveTimestamp(t *testing.T) {
	tests := []struct {
		name    string
		record  Record
		payload any
		want    string
	}{
		{"rfc3339", Record{"time": "2025-12-14T08:00:00Z"}, nil, "2025-12-14T08:00:00.000Z"},
		{"offset converted to utc", Record{"time": "2025-12-14T10:00:00+02:00"}, nil, "2025-12-14T08:00:00.000Z"},
		{"fractional seconds", Record{"timestamp": "2025-12-14T08:00:00.123456Z"}, nil, "2025-12-14T08:00:00.123Z"},
		{"space separated", Record{"date_time": "2025-12-14 08:30:00"}, nil, "2025-12-14T08:30:00.000Z"},
		{"date only", Record{"t": "2025-12-14"}, nil, "2025-12-14T00:00:00.000Z"},
		{"epoch millis", Record{"time": json.Number("1765699200000")}, nil, "2025-12-14T08:00:00.000Z"},
		{"iso key wins over time", Record{"time_iso8601": "2025-12-14T08:00:00Z", "time": "2020-01-01T00:00:00Z"}, nil, "2025-12-14T08:00:00.000Z"},
		{"unparseable candidate skipped", Record{"time_iso8601": "yesterday", "time": "2025-12-14T08:00:00Z"}, nil, "2025-12-14T08:00:00.000Z"},
		{"out of range epoch skipped", Record{"time": json.Number("1e20"), "timestamp": "2025-01-01T00:00:00Z"}, nil, "2025-01-01T00:00:00.000Z"},
		{"five digit year skipped", Record{"time": json.Number("253402300800000"), "t": "2025-12-14"}, nil, "2025-12-14T00:00:00.000Z"},
		{"meta fallback", Record{}, Record{"meta": Record{"date": "2025-12-14T08:00:00Z"}}, "2025-12-14T08:00:00.000Z"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveTimestamp(tt.record, tt.payload)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestResolveTimestampAbsent(t *testing.T) {
	assert.Nil(t, ResolveTimestamp(Record{"wtmp": "15"}, Record{"wtmp": "15"}))
	assert.Nil(t, ResolveTimestamp(Record{"time": "not a date"}, Record{"meta": Record{"date": "also not"}}))
	assert.Nil(t, ResolveTimestamp(Record{"time": json.Number("1e20")}, nil))
	assert.Nil(t, ResolveTimestamp(Record{"time": json.Number("-1e20")}, nil))
}
