// internal/anomaly/store.go
package anomaly

import (
	"errors"
	"math"
	"sort"
	"sync"
	"time"
)

// Severity classifies how far an anomaly deviates from its expected value.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

var severityRanks = map[Severity]int{
	SeverityLow:      0,
	SeverityMedium:   1,
	SeverityHigh:     2,
	SeverityCritical: 3,
}

// Valid reports whether s is one of the four severity buckets.
func (s Severity) Valid() bool {
	_, ok := severityRanks[s]
	return ok
}

// AtLeast reports whether s is at least as severe as min.
func (s Severity) AtLeast(min Severity) bool {
	return severityRanks[s] >= severityRanks[min]
}

// ClassifySeverity maps a deviation score to a severity bucket. Boundary
// values (exactly 1, 2, 3) fall into the lower bucket: the comparison is a
// strict greater-than.
func ClassifySeverity(deviationScore float64) Severity {
	abs := math.Abs(deviationScore)
	switch {
	case abs > 3:
		return SeverityCritical
	case abs > 2:
		return SeverityHigh
	case abs > 1:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// Errors returned by the store.
var (
	ErrNotFound     = errors.New("anomaly: record not found")
	ErrZeroExpected = errors.New("anomaly: expected value is zero")
)

// ChangePercent returns the percent change of actual against expected. An
// expected value of zero is a defined error rather than an infinity.
func ChangePercent(actual, expected float64) (float64, error) {
	if expected == 0 {
		return 0, ErrZeroExpected
	}
	return (actual - expected) / expected * 100, nil
}

// Record is a detected deviation event.
type Record struct {
	ID             string    `json:"id"`
	SourceName     string    `json:"source_name"`
	Timestamp      time.Time `json:"timestamp"`
	ActualValue    float64   `json:"actual_value"`
	ExpectedValue  float64   `json:"expected_value"`
	DeviationScore float64   `json:"deviation_score"`
	Severity       Severity  `json:"severity"`
	Acknowledged   bool      `json:"acknowledged"`
}

// Store holds anomaly records for the session. Records are created by the
// external detection boundary and only mutated here via Acknowledge.
type Store struct {
	mu      sync.RWMutex
	records map[string]*Record
}

// NewStore creates an empty anomaly store.
func NewStore() *Store {
	return &Store{records: make(map[string]*Record)}
}

// Replace swaps the full record set for a freshly fetched one. Severity is
// recomputed from the deviation score so the classification invariant holds
// regardless of what the boundary sent.
func (s *Store) Replace(records []*Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make(map[string]*Record, len(records))
	for _, r := range records {
		c := *r
		c.Severity = ClassifySeverity(c.DeviationScore)
		s.records[c.ID] = &c
	}
}

// List returns all records sorted by timestamp descending (most recent
// first). The ordering is part of the listing contract.
func (s *Store) List() []*Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*Record, 0, len(s.records))
	for _, r := range s.records {
		c := *r
		result = append(result, &c)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Timestamp.After(result[j].Timestamp)
	})
	return result
}

// Get returns a record by id.
func (s *Store) Get(id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	c := *r
	return &c, nil
}

// Acknowledge marks a record as acknowledged. Acknowledging an already
// acknowledged record is a no-op, not an error; the transition is one-way.
func (s *Store) Acknowledge(id string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	r.Acknowledged = true
	c := *r
	return &c, nil
}

// RecentWithMinSeverity returns records for the named source observed at or
// after since, with severity at least min. This backs the `anomaly` alert
// condition: the external evaluator fires when the result is non-empty.
func (s *Store) RecentWithMinSeverity(sourceName string, since time.Time, min Severity) []*Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*Record
	for _, r := range s.records {
		if r.SourceName != sourceName {
			continue
		}
		if r.Timestamp.Before(since) {
			continue
		}
		if !r.Severity.AtLeast(min) {
			continue
		}
		c := *r
		result = append(result, &c)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Timestamp.After(result[j].Timestamp)
	})
	return result
}
