package marine

import "context"

// Provider abstracts the upstream source of raw buoy payloads (NDBC realtime2, or a canned mock).
type Provider interface {
	Name() string
	// Fetch returns the raw JSON body for station. Failures should be *Error values
	// with a not-found or unavailable code.
	Fetch(ctx context.Context, station string) ([]byte, error)
}

// Cache is the contract the TTL store must satisfy. Keys arrive already case-folded.
type Cache interface {
	Get(key string) (Observation, bool)
	Put(key string, obs Observation)
}
