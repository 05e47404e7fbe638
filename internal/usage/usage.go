// internal/usage/usage.go
package usage

import (
	"errors"

	"github.com/FairForge/signalcraft/internal/tier"
)

// Warning levels derived from consumption ratio.
const (
	LevelOK       = "ok"
	LevelWarning  = "warning"
	LevelCritical = "critical"
)

// Thresholds for warning levels, in percent.
const (
	warningThreshold  = 75
	criticalThreshold = 90
)

// ErrInvalidLimit is returned when a counter carries a non-positive limit.
// Limits are always configured positive by the tier mapping, so this marks a
// misconfigured counter rather than an expected runtime condition.
var ErrInvalidLimit = errors.New("usage: limit must be positive")

// Counter tracks consumption of a single resource category.
type Counter struct {
	Current int64 `json:"current"`
	Limit   int64 `json:"limit"`
}

// Percentage returns consumption as a percentage in [0,100]. A counter that
// exceeds its limit reports exactly 100, never more; a negative reading
// reports 0.
func (c Counter) Percentage() (float64, error) {
	if c.Limit <= 0 {
		return 0, ErrInvalidLimit
	}
	p := float64(c.Current) / float64(c.Limit) * 100
	switch {
	case p < 0:
		p = 0
	case p > 100:
		p = 100
	}
	return p, nil
}

// WarningLevel classifies consumption: critical at >= 90%, warning at >= 75%.
func (c Counter) WarningLevel() (string, error) {
	p, err := c.Percentage()
	if err != nil {
		return "", err
	}
	switch {
	case p >= criticalThreshold:
		return LevelCritical, nil
	case p >= warningThreshold:
		return LevelWarning, nil
	default:
		return LevelOK, nil
	}
}

// Data holds the per-user usage counters for one billing tier.
type Data struct {
	APICalls    Counter `json:"api_calls"`
	DataSources Counter `json:"data_sources"`
	Forecasts   Counter `json:"forecasts"`
	Users       Counter `json:"users"`
}

// Limits is the static tier-to-limits mapping for every resource category.
type Limits struct {
	APICalls    int64 `json:"api_calls"`
	DataSources int64 `json:"data_sources"`
	Forecasts   int64 `json:"forecasts"`
	Users       int64 `json:"users"`
}

var tierLimits = map[tier.Tier]Limits{
	tier.Free:       {APICalls: 5000, DataSources: 3, Forecasts: 1, Users: 1},
	tier.Pro:        {APICalls: 30000, DataSources: 10, Forecasts: 5, Users: 5},
	tier.Enterprise: {APICalls: 100000, DataSources: 50, Forecasts: 20, Users: 50},
}

// LimitsForTier returns the configured limits for a tier. Unknown tiers fall
// back to the free limits.
func LimitsForTier(t tier.Tier) Limits {
	if l, ok := tierLimits[t]; ok {
		return l
	}
	return tierLimits[tier.Free]
}
