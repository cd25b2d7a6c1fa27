package marine

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// State names a step of a fetch; it appears in failure logs.
type State string

const (
	StateValidating  State = "validating"
	StateCacheCheck  State = "cache_check"
	StateFetching    State = "fetching"
	StateNormalizing State = "normalizing"
	StateStoring     State = "storing"
)

// Service orchestrates validation, cache lookup, the upstream fetch and normalization.
type Service struct {
	cache      Cache
	provider   Provider
	normalizer *Normalizer
	logger     zerolog.Logger
	now        func() time.Time

	// flight is nil unless fetch coalescing is enabled.
	flight *singleflight.Group
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithClock overrides the clock used for the timestamp fallback.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithNormalizer replaces the default normalizer, e.g. to use a custom alias table.
func WithNormalizer(n *Normalizer) Option {
	return func(s *Service) { s.normalizer = n }
}

// WithCoalescing makes concurrent cache misses for one station share a single upstream fetch.
func WithCoalescing(enabled bool) Option {
	return func(s *Service) {
		if enabled {
			s.flight = &singleflight.Group{}
		} else {
			s.flight = nil
		}
	}
}

// NewService creates a new Service.
func NewService(cache Cache, provider Provider, opts ...Option) *Service {
	s := &Service{
		cache:      cache,
		provider:   provider,
		normalizer: defaultNormalizer,
		logger:     zerolog.Nop(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FetchObservation returns the normalized observation for station, from cache when fresh.
// Failures are returned as *Error; nothing is retried.
func (s *Service) FetchObservation(ctx context.Context, station string) (Observation, error) {
	if err := ValidateStation(station); err != nil {
		s.logFailure(StateValidating, station, err)
		return Observation{}, err
	}

	key := StationKey(station)
	if obs, ok := s.cache.Get(key); ok {
		s.logger.Debug().Str("state", string(StateCacheCheck)).Str("station", station).Msg("cache hit")
		obs.Cached = true
		return obs, nil
	}
	s.logger.Debug().Str("state", string(StateCacheCheck)).Str("station", station).Msg("cache miss")

	if s.flight == nil {
		return s.fetchAndStore(ctx, station)
	}

	v, err, shared := s.flight.Do(key, func() (any, error) {
		return s.fetchAndStore(ctx, station)
	})
	if shared {
		s.logger.Debug().Str("station", station).Msg("joined in-flight fetch")
	}
	if err != nil {
		return Observation{}, err
	}
	return v.(Observation), nil
}

// Refresh fetches station from the provider and replaces any cached entry.
func (s *Service) Refresh(ctx context.Context, station string) error {
	if err := ValidateStation(station); err != nil {
		s.logFailure(StateValidating, station, err)
		return err
	}
	_, err := s.fetchAndStore(ctx, station)
	return err
}

func (s *Service) fetchAndStore(ctx context.Context, station string) (Observation, error) {
	raw, err := s.provider.Fetch(ctx, station)
	if err != nil {
		var classified *Error
		if !errors.As(err, &classified) {
			classified = NewUnavailableError("could not connect to NDBC service", err)
		}
		s.logFailure(StateFetching, station, classified)
		return Observation{}, classified
	}

	obs, err := s.normalizer.Normalize(raw, station)
	if err != nil {
		s.logFailure(StateNormalizing, station, err)
		return Observation{}, err
	}
	if obs.Timestamp == nil {
		ts := FormatTimestamp(s.now())
		obs.Timestamp = &ts
	}

	s.store(StationKey(station), obs)
	return obs, nil
}

// store never fails the request: a panicking cache degrades to served-not-cached.
func (s *Service) store(key string, obs Observation) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().
				Str("state", string(StateStoring)).
				Str("station", key).
				Interface("panic", r).
				Msg("cache write failed; serving uncached")
		}
	}()
	s.cache.Put(key, obs)
}

func (s *Service) logFailure(state State, station string, err error) {
	e := Classify(err)
	ev := s.logger.Warn()
	if e.Code == CodeInternal || e.Code == CodeUpstreamUnavailable {
		ev = s.logger.Error()
	}
	ev.Str("state", string(state)).
		Str("station", station).
		Str("code", string(e.Code)).
		Err(err).
		Msg("fetch observation failed")
}
