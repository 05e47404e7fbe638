// internal/analytics/view.go
package analytics

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/FairForge/signalcraft/internal/alerting"
	"github.com/FairForge/signalcraft/internal/anomaly"
	"github.com/FairForge/signalcraft/internal/datasource"
	"github.com/FairForge/signalcraft/internal/tier"
	"github.com/FairForge/signalcraft/internal/usage"
)

// Tabs of the analytics view. There are no transition guards; entitlement is
// checked per tab's content, not per transition.
const (
	TabForecasts = "forecasts"
	TabAnomalies = "anomalies"
	TabAlerts    = "alerts"
	TabUsage     = "usage"
)

var validTabs = map[string]bool{
	TabForecasts: true,
	TabAnomalies: true,
	TabAlerts:    true,
	TabUsage:     true,
}

// ErrUnknownTab is returned for tab names outside the enum.
var ErrUnknownTab = errors.New("analytics: unknown tab")

// View assembles the analytics datasets for one session. Each dataset is
// refreshed independently; refreshes may complete in any order and a later
// response always overwrites state for its dataset. A failed fetch degrades
// to the previous state for that dataset and records an inline error note —
// it is never fatal.
type View struct {
	mu        sync.RWMutex
	logger    *zap.Logger
	provider  datasource.Provider
	alerts    *alerting.Store
	anomalies *anomaly.Store

	forecast  []datasource.ForecastPoint
	usageData *usage.Data
	activeTab string
	errNotes  map[string]string
}

// NewView creates a view over the given provider and stores.
func NewView(provider datasource.Provider, alerts *alerting.Store, anomalies *anomaly.Store, logger *zap.Logger) *View {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &View{
		logger:    logger,
		provider:  provider,
		alerts:    alerts,
		anomalies: anomalies,
		activeTab: TabForecasts,
		errNotes:  make(map[string]string),
	}
}

// SetTab switches the active tab.
func (v *View) SetTab(tab string) error {
	if !validTabs[tab] {
		return fmt.Errorf("%w: %s", ErrUnknownTab, tab)
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.activeTab = tab
	return nil
}

// ActiveTab returns the current tab.
func (v *View) ActiveTab() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.activeTab
}

// RefreshForecast fetches the forecast series. On failure the previous series
// is kept and a diagnostic is recorded.
func (v *View) RefreshForecast(ctx context.Context, sourceID string, horizonDays int) error {
	points, err := v.provider.FetchForecast(ctx, sourceID, horizonDays)
	if err != nil {
		v.noteFailure(TabForecasts, err)
		return err
	}

	v.mu.Lock()
	v.forecast = points
	delete(v.errNotes, TabForecasts)
	v.mu.Unlock()
	return nil
}

// RefreshAnomalies fetches anomaly records and replaces the store contents.
func (v *View) RefreshAnomalies(ctx context.Context, scopeID string) error {
	records, err := v.provider.FetchAnomalies(ctx, scopeID)
	if err != nil {
		v.noteFailure(TabAnomalies, err)
		return err
	}

	v.anomalies.Replace(records)
	v.clearNote(TabAnomalies)
	return nil
}

// RefreshAlerts fetches alert rules and replaces the store contents.
func (v *View) RefreshAlerts(ctx context.Context, scopeID string) error {
	rules, err := v.provider.FetchAlertRules(ctx, scopeID)
	if err != nil {
		v.noteFailure(TabAlerts, err)
		return err
	}

	v.alerts.Replace(rules)
	v.clearNote(TabAlerts)
	return nil
}

// RefreshUsage fetches the usage snapshot for the tier.
func (v *View) RefreshUsage(ctx context.Context, t tier.Tier) error {
	data, err := v.provider.FetchUsage(ctx, t)
	if err != nil {
		v.noteFailure(TabUsage, err)
		return err
	}

	v.mu.Lock()
	v.usageData = data
	delete(v.errNotes, TabUsage)
	v.mu.Unlock()
	return nil
}

// Refresh issues all four fetches. Each dataset fails or succeeds on its own;
// the first error is returned for logging but never aborts the rest.
func (v *View) Refresh(ctx context.Context, sourceID, scopeID string, horizonDays int, t tier.Tier) error {
	var first error
	if err := v.RefreshForecast(ctx, sourceID, horizonDays); err != nil && first == nil {
		first = err
	}
	if err := v.RefreshAnomalies(ctx, scopeID); err != nil && first == nil {
		first = err
	}
	if err := v.RefreshAlerts(ctx, scopeID); err != nil && first == nil {
		first = err
	}
	if err := v.RefreshUsage(ctx, t); err != nil && first == nil {
		first = err
	}
	return first
}

func (v *View) noteFailure(tab string, err error) {
	v.logger.Warn("data fetch failed, keeping previous state",
		zap.String("dataset", tab),
		zap.Error(err),
	)
	v.mu.Lock()
	v.errNotes[tab] = err.Error()
	v.mu.Unlock()
}

func (v *View) clearNote(tab string) {
	v.mu.Lock()
	delete(v.errNotes, tab)
	v.mu.Unlock()
}

// Forecast returns the last successfully fetched series.
func (v *View) Forecast() []datasource.ForecastPoint {
	v.mu.RLock()
	defer v.mu.RUnlock()
	result := make([]datasource.ForecastPoint, len(v.forecast))
	copy(result, v.forecast)
	return result
}

// Usage returns the last successfully fetched usage snapshot, or nil if none
// has arrived yet.
func (v *View) Usage() *usage.Data {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.usageData == nil {
		return nil
	}
	c := *v.usageData
	return &c
}

// ErrorNote returns the inline error indicator for a tab, if its last refresh
// failed.
func (v *View) ErrorNote(tab string) (string, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	note, ok := v.errNotes[tab]
	return note, ok
}
