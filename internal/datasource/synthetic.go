// internal/datasource/synthetic.go
package datasource

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/FairForge/signalcraft/internal/alerting"
	"github.com/FairForge/signalcraft/internal/anomaly"
	"github.com/FairForge/signalcraft/internal/tier"
	"github.com/FairForge/signalcraft/internal/usage"
)

// Demo metric sources the synthetic provider reports on.
var demoSources = []struct {
	ID   string
	Name string
}{
	{"revenue-daily", "Daily Revenue"},
	{"customers-daily", "Customer Count"},
	{"aov-daily", "Average Order Value"},
}

const (
	forecastBaseValue = 1200
	historyDays       = 30
)

// Synthetic generates plausible business data in memory. It satisfies
// Provider without any backend: forecast series are trend plus seasonality
// plus noise, anomalies are random deviations, usage sits at believable
// consumption ratios for the tier.
type Synthetic struct {
	mu     sync.Mutex
	rng    *rand.Rand
	logger *zap.Logger
	now    func() time.Time
}

// NewSynthetic creates a provider seeded from the clock.
func NewSynthetic(logger *zap.Logger) *Synthetic {
	return NewSyntheticWithSeed(logger, time.Now().UnixNano())
}

// NewSyntheticWithSeed creates a provider with a fixed seed, for
// reproducible output.
func NewSyntheticWithSeed(logger *zap.Logger, seed int64) *Synthetic {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Synthetic{
		rng:    rand.New(rand.NewSource(seed)),
		logger: logger,
		now:    time.Now,
	}
}

// FetchForecast returns 30 days of history with actual observations followed
// by horizonDays of predictions, ordered by date.
func (s *Synthetic) FetchForecast(ctx context.Context, sourceID string, horizonDays int) ([]ForecastPoint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if horizonDays <= 0 {
		horizonDays = historyDays
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	today := s.now()
	data := make([]ForecastPoint, 0, historyDays+horizonDays)

	for i := -historyDays; i < 0; i++ {
		date := today.AddDate(0, 0, i)
		trend := math.Sin(float64(i)*0.1) * 100
		noise := (s.rng.Float64() - 0.5) * 200
		actual := math.Max(0, forecastBaseValue+trend+noise)

		a := actual
		data = append(data, ForecastPoint{
			Date:            date.Format("2006-01-02"),
			Actual:          &a,
			Predicted:       actual + (s.rng.Float64()-0.5)*50,
			ConfidenceLower: actual * 0.85,
			ConfidenceUpper: actual * 1.15,
		})
	}

	for i := 0; i < horizonDays; i++ {
		date := today.AddDate(0, 0, i)
		trend := math.Sin(float64(i)*0.1) * 100
		seasonality := math.Sin(float64(i)*0.2) * 50
		predicted := math.Max(0, forecastBaseValue+trend+seasonality)

		data = append(data, ForecastPoint{
			Date:            date.Format("2006-01-02"),
			Predicted:       predicted,
			ConfidenceLower: predicted * 0.8,
			ConfidenceUpper: predicted * 1.2,
		})
	}

	return data, nil
}

// FetchAnomalies returns a handful of deviation events over the demo sources
// spread across the last 72 hours, in no particular order.
func (s *Synthetic) FetchAnomalies(ctx context.Context, scopeID string) ([]*anomaly.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]*anomaly.Record, 0, 5)
	for i := 0; i < 5; i++ {
		timestamp := s.now().Add(-time.Duration(s.rng.Float64()*72*float64(time.Hour)))
		expected := 1000 + s.rng.Float64()*500
		score := (s.rng.Float64() - 0.5) * 4
		actual := expected + score*expected*0.2

		records = append(records, &anomaly.Record{
			ID:             uuid.New().String(),
			SourceName:     demoSources[s.rng.Intn(len(demoSources))].Name,
			Timestamp:      timestamp,
			ActualValue:    actual,
			ExpectedValue:  expected,
			DeviationScore: score,
			Severity:       anomaly.ClassifySeverity(score),
			Acknowledged:   s.rng.Float64() > 0.6,
		})
	}

	return records, nil
}

// FetchAlertRules returns the seeded demo rules.
func (s *Synthetic) FetchAlertRules(ctx context.Context, scopeID string) ([]*alerting.Rule, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	now := s.now()
	s.mu.Unlock()

	twoHoursAgo := now.Add(-2 * time.Hour)
	dayAgo := now.Add(-24 * time.Hour)

	return []*alerting.Rule{
		{
			ID:            uuid.New().String(),
			Name:          "High Revenue Alert",
			SourceID:      "revenue-daily",
			SourceName:    "Daily Revenue",
			Condition:     alerting.ConditionAbove,
			Threshold:     2000,
			Timeframe:     alerting.Timeframe1h,
			IsActive:      true,
			LastTriggered: &twoHoursAgo,
		},
		{
			ID:         uuid.New().String(),
			Name:       "Low Customer Count",
			SourceID:   "customers-daily",
			SourceName: "Customer Count",
			Condition:  alerting.ConditionBelow,
			Threshold:  50,
			Timeframe:  alerting.Timeframe6h,
			IsActive:   true,
		},
		{
			ID:            uuid.New().String(),
			Name:          "Revenue Drop Alert",
			SourceID:      "revenue-daily",
			SourceName:    "Daily Revenue",
			Condition:     alerting.ConditionChangePercent,
			Threshold:     20,
			Timeframe:     alerting.Timeframe24h,
			IsActive:      false,
			LastTriggered: &dayAgo,
		},
	}, nil
}

// FetchUsage returns counters for the tier at plausible consumption ratios.
func (s *Synthetic) FetchUsage(ctx context.Context, t tier.Tier) (*usage.Data, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	limits := usage.LimitsForTier(t)

	s.mu.Lock()
	defer s.mu.Unlock()

	consume := func(limit int64, base, spread float64) usage.Counter {
		return usage.Counter{
			Current: int64(float64(limit) * (base + s.rng.Float64()*spread)),
			Limit:   limit,
		}
	}

	return &usage.Data{
		APICalls:    consume(limits.APICalls, 0.3, 0.6),
		DataSources: consume(limits.DataSources, 0.4, 0.4),
		Forecasts:   consume(limits.Forecasts, 0.2, 0.6),
		Users:       consume(limits.Users, 0.3, 0.5),
	}, nil
}

// GenerateForecast pretends to kick off a model run for the source. The real
// system would enqueue a training job; here it only logs the request.
func (s *Synthetic) GenerateForecast(ctx context.Context, sourceID, modelType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if modelType == "" {
		modelType = "prophet"
	}
	s.logger.Info("generated forecast",
		zap.String("source_id", sourceID),
		zap.String("model_type", modelType),
	)
	return nil
}

// Sources lists the demo metric sources with their display names.
func Sources() map[string]string {
	result := make(map[string]string, len(demoSources))
	for _, src := range demoSources {
		result[src.ID] = src.Name
	}
	return result
}
