package providers

import (
	"context"
	"encoding/json"
	"time"

	"github.com/i474232898/marine-observations/internal/marine"
)

// MockProvider serves a canned NDBC-shaped payload for demos and offline development.
type MockProvider struct {
	now func() time.Time
}

// NewMockProvider creates a MockProvider. A nil clock uses time.Now.
func NewMockProvider(now func() time.Time) *MockProvider {
	if now == nil {
		now = time.Now
	}
	return &MockProvider{now: now}
}

func (p *MockProvider) Name() string {
	return "mock"
}

func (p *MockProvider) Fetch(_ context.Context, station string) ([]byte, error) {
	return json.Marshal(map[string]any{
		"station": station,
		"time":    marine.FormatTimestamp(p.now()),
		"wtmp":    15.8,
		"wvht":    2.1,
		"dpd":     11,
		"mwd":     285,
	})
}
