package marine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// sequenceKeys name the wrapper fields that may hold a list of observations, newest first.
var sequenceKeys = []string{"observations", "data"}

// Normalizer turns raw provider payloads into Observations using an alias table.
type Normalizer struct {
	aliases AliasTable
}

// NewNormalizer creates a Normalizer. A nil table selects DefaultAliases.
func NewNormalizer(aliases AliasTable) *Normalizer {
	if aliases == nil {
		aliases = DefaultAliases
	}
	return &Normalizer{aliases: aliases.Clone()}
}

// Normalize decodes raw with DefaultAliases. See Normalizer.Normalize.
func Normalize(raw []byte, station string) (Observation, error) {
	return defaultNormalizer.Normalize(raw, station)
}

var defaultNormalizer = NewNormalizer(nil)

// Normalize maps a provider payload onto the Observation schema. The result is
// a pure function of its inputs: Timestamp stays nil when the payload carries
// no parseable time.
func (n *Normalizer) Normalize(raw []byte, station string) (Observation, error) {
	var payload any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil {
		return Observation{}, NewFormatError("payload is not valid JSON", err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return Observation{}, NewFormatError("payload has trailing data", err)
	}

	record, err := locateRecord(payload)
	if err != nil {
		return Observation{}, err
	}

	obs := Observation{
		Source:         Source,
		Station:        resolveStation(record, payload, station),
		Timestamp:      ResolveTimestamp(record, payload),
		SeaTemperature: ResolveNumeric(record, n.aliases[FieldSeaTemperature]),
		WaveHeight:     ResolveNumeric(record, n.aliases[FieldWaveHeight]),
		SwellHeight:    ResolveNumeric(record, n.aliases[FieldSwellHeight]),
		SwellPeriod:    ResolveNumeric(record, n.aliases[FieldSwellPeriod]),
		SwellDirection: ResolveNumeric(record, n.aliases[FieldSwellDirection]),
		Raw:            append(json.RawMessage(nil), bytes.TrimSpace(raw)...),
	}
	return obs, nil
}

// locateRecord picks the observation record out of the payload: the first element
// of a top-level list, the first element of a wrapped list, or the object itself.
func locateRecord(payload any) (Record, error) {
	switch p := payload.(type) {
	case []any:
		if len(p) == 0 {
			return nil, NewFormatError("payload is an empty list", nil)
		}
		return firstRecord(p)
	case Record:
		for _, key := range sequenceKeys {
			if list, ok := p[key].([]any); ok && len(list) > 0 {
				return firstRecord(list)
			}
		}
		return p, nil
	case nil:
		return nil, NewFormatError("payload is null", nil)
	default:
		return nil, NewFormatError(fmt.Sprintf("payload is a %T, not a record", p), nil)
	}
}

func firstRecord(list []any) (Record, error) {
	record, ok := list[0].(Record)
	if !ok {
		return nil, NewFormatError(fmt.Sprintf("first observation is a %T, not a record", list[0]), nil)
	}
	return record, nil
}

// resolveStation prefers the record's own station, then the payload's, then
// payload.meta.station, then the caller's identifier.
func resolveStation(record Record, payload any, fallback string) string {
	if s, ok := lookupString(record, "station"); ok {
		return s
	}
	if obj, ok := payload.(Record); ok {
		if s, ok := lookupString(obj, "station"); ok {
			return s
		}
	}
	if meta, ok := lookupObject(payload, "meta"); ok {
		if s, ok := lookupString(meta, "station"); ok {
			return s
		}
	}
	return fallback
}
