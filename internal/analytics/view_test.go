// internal/analytics/view_test.go
package analytics

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FairForge/signalcraft/internal/alerting"
	"github.com/FairForge/signalcraft/internal/anomaly"
	"github.com/FairForge/signalcraft/internal/datasource"
	"github.com/FairForge/signalcraft/internal/tier"
	"github.com/FairForge/signalcraft/internal/usage"
)

var errTransport = errors.New("connection reset")

// flakyProvider wraps the synthetic provider and fails on demand, one flag
// per dataset.
type flakyProvider struct {
	inner        datasource.Provider
	failForecast bool
	failAnomaly  bool
	failAlerts   bool
	failUsage    bool
}

func (f *flakyProvider) FetchForecast(ctx context.Context, sourceID string, horizonDays int) ([]datasource.ForecastPoint, error) {
	if f.failForecast {
		return nil, errTransport
	}
	return f.inner.FetchForecast(ctx, sourceID, horizonDays)
}

func (f *flakyProvider) FetchAnomalies(ctx context.Context, scopeID string) ([]*anomaly.Record, error) {
	if f.failAnomaly {
		return nil, errTransport
	}
	return f.inner.FetchAnomalies(ctx, scopeID)
}

func (f *flakyProvider) FetchAlertRules(ctx context.Context, scopeID string) ([]*alerting.Rule, error) {
	if f.failAlerts {
		return nil, errTransport
	}
	return f.inner.FetchAlertRules(ctx, scopeID)
}

func (f *flakyProvider) FetchUsage(ctx context.Context, t tier.Tier) (*usage.Data, error) {
	if f.failUsage {
		return nil, errTransport
	}
	return f.inner.FetchUsage(ctx, t)
}

func (f *flakyProvider) GenerateForecast(ctx context.Context, sourceID, modelType string) error {
	return f.inner.GenerateForecast(ctx, sourceID, modelType)
}

func newTestView() (*View, *flakyProvider, *alerting.Store, *anomaly.Store) {
	provider := &flakyProvider{inner: datasource.NewSyntheticWithSeed(nil, 7)}
	alerts := alerting.NewStore()
	anomalies := anomaly.NewStore()
	view := NewView(provider, alerts, anomalies, nil)
	return view, provider, alerts, anomalies
}

func TestView_SetTab(t *testing.T) {
	view, _, _, _ := newTestView()

	assert.Equal(t, TabForecasts, view.ActiveTab())

	require.NoError(t, view.SetTab(TabUsage))
	assert.Equal(t, TabUsage, view.ActiveTab())

	err := view.SetTab("settings")
	assert.ErrorIs(t, err, ErrUnknownTab)
	assert.Equal(t, TabUsage, view.ActiveTab())
}

func TestView_RefreshForecast(t *testing.T) {
	ctx := context.Background()
	view, provider, _, _ := newTestView()

	t.Run("success replaces state and clears note", func(t *testing.T) {
		require.NoError(t, view.RefreshForecast(ctx, "revenue-daily", 7))
		assert.Len(t, view.Forecast(), 37)
		_, failed := view.ErrorNote(TabForecasts)
		assert.False(t, failed)
	})

	t.Run("failure keeps previous series and records a note", func(t *testing.T) {
		before := view.Forecast()
		provider.failForecast = true

		err := view.RefreshForecast(ctx, "revenue-daily", 7)
		assert.Error(t, err)
		assert.Equal(t, before, view.Forecast())

		note, failed := view.ErrorNote(TabForecasts)
		assert.True(t, failed)
		assert.Contains(t, note, "connection reset")
	})

	t.Run("recovery overwrites and clears the note", func(t *testing.T) {
		provider.failForecast = false
		require.NoError(t, view.RefreshForecast(ctx, "revenue-daily", 7))
		_, failed := view.ErrorNote(TabForecasts)
		assert.False(t, failed)
	})
}

func TestView_Refresh(t *testing.T) {
	ctx := context.Background()

	t.Run("one failing dataset does not block the others", func(t *testing.T) {
		view, provider, alerts, anomalies := newTestView()
		provider.failAnomaly = true

		err := view.Refresh(ctx, "revenue-daily", "demo", 7, tier.Pro)
		assert.Error(t, err)

		assert.NotEmpty(t, view.Forecast())
		assert.Len(t, alerts.List(), 3)
		assert.Empty(t, anomalies.List())
		assert.NotNil(t, view.Usage())

		_, anomalyFailed := view.ErrorNote(TabAnomalies)
		assert.True(t, anomalyFailed)
		_, alertsFailed := view.ErrorNote(TabAlerts)
		assert.False(t, alertsFailed)
	})

	t.Run("all succeed", func(t *testing.T) {
		view, _, alerts, anomalies := newTestView()
		require.NoError(t, view.Refresh(ctx, "revenue-daily", "demo", 14, tier.Free))
		assert.Len(t, view.Forecast(), 44)
		assert.Len(t, alerts.List(), 3)
		assert.Len(t, anomalies.List(), 5)
	})
}

func TestView_UsageNilBeforeFirstFetch(t *testing.T) {
	view, _, _, _ := newTestView()
	assert.Nil(t, view.Usage())
}
