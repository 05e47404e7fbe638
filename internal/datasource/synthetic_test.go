// internal/datasource/synthetic_test.go
package datasource

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FairForge/signalcraft/internal/anomaly"
	"github.com/FairForge/signalcraft/internal/tier"
)

func newTestProvider() *Synthetic {
	return NewSyntheticWithSeed(nil, 42)
}

func TestSynthetic_FetchForecast(t *testing.T) {
	ctx := context.Background()
	provider := newTestProvider()

	t.Run("history plus horizon, ordered by date", func(t *testing.T) {
		points, err := provider.FetchForecast(ctx, "revenue-daily", 14)
		require.NoError(t, err)
		require.Len(t, points, 30+14)

		for i := 1; i < len(points); i++ {
			assert.LessOrEqual(t, points[i-1].Date, points[i].Date)
		}
	})

	t.Run("historical points carry actuals, future points do not", func(t *testing.T) {
		points, err := provider.FetchForecast(ctx, "revenue-daily", 7)
		require.NoError(t, err)

		assert.NotNil(t, points[0].Actual)
		assert.Nil(t, points[len(points)-1].Actual)
	})

	t.Run("confidence band brackets the prediction", func(t *testing.T) {
		points, err := provider.FetchForecast(ctx, "revenue-daily", 7)
		require.NoError(t, err)

		for _, p := range points[30:] {
			assert.LessOrEqual(t, p.ConfidenceLower, p.Predicted)
			assert.GreaterOrEqual(t, p.ConfidenceUpper, p.Predicted)
		}
	})

	t.Run("non-positive horizon defaults to 30 days", func(t *testing.T) {
		points, err := provider.FetchForecast(ctx, "revenue-daily", 0)
		require.NoError(t, err)
		assert.Len(t, points, 60)
	})
}

func TestSynthetic_FetchAnomalies(t *testing.T) {
	records, err := newTestProvider().FetchAnomalies(context.Background(), "demo")
	require.NoError(t, err)
	require.Len(t, records, 5)

	names := Sources()
	known := map[string]bool{}
	for _, name := range names {
		known[name] = true
	}

	for _, r := range records {
		assert.NotEmpty(t, r.ID)
		assert.True(t, known[r.SourceName], r.SourceName)
		assert.Equal(t, anomaly.ClassifySeverity(r.DeviationScore), r.Severity)
	}
}

func TestSynthetic_FetchAlertRules(t *testing.T) {
	rules, err := newTestProvider().FetchAlertRules(context.Background(), "demo")
	require.NoError(t, err)
	require.Len(t, rules, 3)

	byName := map[string]bool{}
	for _, r := range rules {
		byName[r.Name] = true
		assert.NotEmpty(t, r.ID)
	}
	assert.True(t, byName["High Revenue Alert"])
	assert.True(t, byName["Low Customer Count"])
	assert.True(t, byName["Revenue Drop Alert"])
}

func TestSynthetic_FetchUsage(t *testing.T) {
	provider := newTestProvider()

	for _, tr := range []tier.Tier{tier.Free, tier.Pro, tier.Enterprise} {
		data, err := provider.FetchUsage(context.Background(), tr)
		require.NoError(t, err)

		for _, c := range []struct {
			name    string
			current int64
			limit   int64
		}{
			{"api_calls", data.APICalls.Current, data.APICalls.Limit},
			{"data_sources", data.DataSources.Current, data.DataSources.Limit},
			{"forecasts", data.Forecasts.Current, data.Forecasts.Limit},
			{"users", data.Users.Current, data.Users.Limit},
		} {
			assert.Positive(t, c.limit, "%s/%s", tr, c.name)
			assert.GreaterOrEqual(t, c.current, int64(0), "%s/%s", tr, c.name)
			assert.LessOrEqual(t, c.current, c.limit, "%s/%s", tr, c.name)
		}
	}
}

func TestSynthetic_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	provider := newTestProvider()
	_, err := provider.FetchForecast(ctx, "revenue-daily", 7)
	assert.Error(t, err)
	_, err = provider.FetchUsage(ctx, tier.Free)
	assert.Error(t, err)
}
