// internal/datasource/provider.go
package datasource

import (
	"context"

	"github.com/FairForge/signalcraft/internal/alerting"
	"github.com/FairForge/signalcraft/internal/anomaly"
	"github.com/FairForge/signalcraft/internal/tier"
	"github.com/FairForge/signalcraft/internal/usage"
)

// ForecastPoint is one entry of a forecast series. Historical points carry an
// Actual observation; future points only carry the prediction and its band.
type ForecastPoint struct {
	Date            string   `json:"date"`
	Actual          *float64 `json:"actual,omitempty"`
	Predicted       float64  `json:"predicted"`
	ConfidenceLower float64  `json:"confidence_lower"`
	ConfidenceUpper float64  `json:"confidence_upper"`
}

// Provider is the external data boundary the analytics core consumes. The
// shipped implementation is synthetic; a real backend would satisfy the same
// interface with the same failure behavior.
type Provider interface {
	FetchForecast(ctx context.Context, sourceID string, horizonDays int) ([]ForecastPoint, error)
	FetchAnomalies(ctx context.Context, scopeID string) ([]*anomaly.Record, error)
	FetchAlertRules(ctx context.Context, scopeID string) ([]*alerting.Rule, error)
	FetchUsage(ctx context.Context, t tier.Tier) (*usage.Data, error)
	GenerateForecast(ctx context.Context, sourceID, modelType string) error
}
