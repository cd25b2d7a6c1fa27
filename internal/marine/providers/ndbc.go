package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/i474232898/marine-observations/internal/marine"
)

// DefaultNDBCBaseURL is the public NDBC host.
const DefaultNDBCBaseURL = "https://www.ndbc.noaa.gov"

// NDBCProvider implements the marine.Provider interface for NDBC realtime2 JSON feeds.
type NDBCProvider struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
	logger  zerolog.Logger
}

func NewNDBCProvider(client *http.Client, baseURL, userAgent string, logger zerolog.Logger) *NDBCProvider {
	if baseURL == "" {
		baseURL = DefaultNDBCBaseURL
	}
	return &NDBCProvider{
		name:    "ndbc",
		baseURL: strings.TrimRight(baseURL, "/"),
		httpCfg: HTTPClientConfig{
			Client:    client,
			UserAgent: userAgent,
		},
		circuit: newBreaker("ndbc", DefaultBreakerConfig),
		logger:  logger,
	}
}

func (p *NDBCProvider) Name() string {
	return p.name
}

// URL returns the realtime2 endpoint for station.
func (p *NDBCProvider) URL(station string) string {
	return fmt.Sprintf("%s/data/realtime2/%s.json", p.baseURL, url.PathEscape(station))
}

func (p *NDBCProvider) Fetch(ctx context.Context, station string) ([]byte, error) {
	requestID := marine.RequestIDFromContext(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	u := p.URL(station)

	buildRequest := func() (*http.Request, error) {
		req, err := http.NewRequest(http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("X-Request-ID", requestID)
		return req, nil
	}

	p.logger.Debug().Str("url", u).Str("request_id", requestID).Msg("fetching NDBC data")

	body, err := doRequest(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return nil, p.classify(station, err)
	}
	return body, nil
}

func (p *NDBCProvider) classify(station string, err error) error {
	var status *statusError
	switch {
	case errors.As(err, &status) && status.code == http.StatusNotFound:
		return marine.NewNotFoundError(station, err)
	case errors.As(err, &status):
		return marine.NewUnavailableError(fmt.Sprintf("Failed to fetch data from NDBC: %s", status.status), err)
	case errors.Is(err, errServerError), errors.Is(err, errRateLimited):
		return marine.NewUnavailableError("Failed to fetch data from NDBC: "+err.Error(), err)
	case errors.Is(err, errCircuitOpen):
		return marine.NewUnavailableError("NDBC requests suspended after repeated failures", err)
	default:
		return marine.NewUnavailableError("Could not connect to NDBC service", err)
	}
}
