// internal/alerting/store.go
package alerting

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Conditions an alert rule can be bound to.
const (
	ConditionAbove         = "above"
	ConditionBelow         = "below"
	ConditionChangePercent = "change_percent"
	ConditionAnomaly       = "anomaly"
)

// Timeframes a rule can evaluate over.
const (
	Timeframe5m  = "5m"
	Timeframe15m = "15m"
	Timeframe1h  = "1h"
	Timeframe6h  = "6h"
	Timeframe24h = "24h"
)

var validConditions = map[string]bool{
	ConditionAbove:         true,
	ConditionBelow:         true,
	ConditionChangePercent: true,
	ConditionAnomaly:       true,
}

var validTimeframes = map[string]bool{
	Timeframe5m:  true,
	Timeframe15m: true,
	Timeframe1h:  true,
	Timeframe6h:  true,
	Timeframe24h: true,
}

// ErrNotFound is returned for id lookups on absent rules.
var ErrNotFound = errors.New("alerting: rule not found")

// Rule is a user-defined threshold rule bound to a metric source. SourceName
// is a denormalized snapshot of the source's display name at creation or
// update time; later renames of the source do not touch existing rules.
type Rule struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	SourceID      string     `json:"source_id"`
	SourceName    string     `json:"source_name"`
	Condition     string     `json:"condition"`
	Threshold     float64    `json:"threshold"`
	Timeframe     string     `json:"timeframe"`
	IsActive      bool       `json:"is_active"`
	LastTriggered *time.Time `json:"last_triggered,omitempty"`
}

// RuleConfig carries the fields a caller supplies on creation. The id and
// LastTriggered are assigned by the store.
type RuleConfig struct {
	Name       string  `json:"name"`
	SourceID   string  `json:"source_id"`
	SourceName string  `json:"source_name"`
	Condition  string  `json:"condition"`
	Threshold  float64 `json:"threshold"`
	Timeframe  string  `json:"timeframe"`
	IsActive   bool    `json:"is_active"`
}

// Validate checks configuration.
func (c *RuleConfig) Validate() error {
	if c.Name == "" {
		return errors.New("alerting: name is required")
	}
	if c.SourceID == "" {
		return errors.New("alerting: source id is required")
	}
	if !validConditions[c.Condition] {
		return fmt.Errorf("alerting: invalid condition %q", c.Condition)
	}
	if !validTimeframes[c.Timeframe] {
		return fmt.Errorf("alerting: invalid timeframe %q", c.Timeframe)
	}
	return nil
}

// RuleUpdate is a partial update. Nil fields are left unchanged; the id is
// never updatable. LastTriggered is written by the external evaluator when a
// rule fires and is kept monotonically non-decreasing.
type RuleUpdate struct {
	Name          *string    `json:"name,omitempty"`
	SourceID      *string    `json:"source_id,omitempty"`
	SourceName    *string    `json:"source_name,omitempty"`
	Condition     *string    `json:"condition,omitempty"`
	Threshold     *float64   `json:"threshold,omitempty"`
	Timeframe     *string    `json:"timeframe,omitempty"`
	IsActive      *bool      `json:"is_active,omitempty"`
	LastTriggered *time.Time `json:"last_triggered,omitempty"`
}

// Validate checks the populated fields.
func (u *RuleUpdate) Validate() error {
	if u.Name != nil && *u.Name == "" {
		return errors.New("alerting: name cannot be cleared")
	}
	if u.Condition != nil && !validConditions[*u.Condition] {
		return fmt.Errorf("alerting: invalid condition %q", *u.Condition)
	}
	if u.Timeframe != nil && !validTimeframes[*u.Timeframe] {
		return fmt.Errorf("alerting: invalid timeframe %q", *u.Timeframe)
	}
	return nil
}

// Store owns alert rules for the lifetime of the session.
type Store struct {
	mu    sync.RWMutex
	rules map[string]*Rule
}

// NewStore creates an empty rule store.
func NewStore() *Store {
	return &Store{rules: make(map[string]*Rule)}
}

// Replace swaps the full rule set for a freshly fetched one.
func (s *Store) Replace(rules []*Rule) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rules = make(map[string]*Rule, len(rules))
	for _, r := range rules {
		c := *r
		s.rules[c.ID] = &c
	}
}

// Create adds a rule with a freshly generated id and LastTriggered unset.
func (s *Store) Create(config *RuleConfig) (*Rule, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rule := &Rule{
		ID:         uuid.New().String(),
		Name:       config.Name,
		SourceID:   config.SourceID,
		SourceName: config.SourceName,
		Condition:  config.Condition,
		Threshold:  config.Threshold,
		Timeframe:  config.Timeframe,
		IsActive:   config.IsActive,
	}
	s.rules[rule.ID] = rule

	c := *rule
	return &c, nil
}

// Get returns a rule by id.
func (s *Store) Get(id string) (*Rule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rule, ok := s.rules[id]
	if !ok {
		return nil, ErrNotFound
	}
	c := *rule
	return &c, nil
}

// Update applies a partial update to the stored rule. A failed update leaves
// the store untouched. Deactivating a rule does not clear LastTriggered, and
// a LastTriggered value earlier than the stored one is ignored.
func (s *Store) Update(id string, update *RuleUpdate) (*Rule, error) {
	if err := update.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rule, ok := s.rules[id]
	if !ok {
		return nil, ErrNotFound
	}

	if update.Name != nil {
		rule.Name = *update.Name
	}
	if update.SourceID != nil {
		rule.SourceID = *update.SourceID
	}
	if update.SourceName != nil {
		rule.SourceName = *update.SourceName
	}
	if update.Condition != nil {
		rule.Condition = *update.Condition
	}
	if update.Threshold != nil {
		rule.Threshold = *update.Threshold
	}
	if update.Timeframe != nil {
		rule.Timeframe = *update.Timeframe
	}
	if update.IsActive != nil {
		rule.IsActive = *update.IsActive
	}
	if update.LastTriggered != nil {
		if rule.LastTriggered == nil || update.LastTriggered.After(*rule.LastTriggered) {
			t := *update.LastTriggered
			rule.LastTriggered = &t
		}
	}

	c := *rule
	return &c, nil
}

// Toggle flips a rule's active flag.
func (s *Store) Toggle(id string) (*Rule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rule, ok := s.rules[id]
	if !ok {
		return nil, ErrNotFound
	}
	rule.IsActive = !rule.IsActive

	c := *rule
	return &c, nil
}

// Delete removes a rule. Deleting an absent id returns ErrNotFound, so a
// second delete of the same id fails the same way.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rules[id]; !ok {
		return ErrNotFound
	}
	delete(s.rules, id)
	return nil
}

// List returns all rules. No cross-rule ordering is guaranteed by the store
// contract; rules are returned sorted by name for stable presentation.
func (s *Store) List() []*Rule {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*Rule, 0, len(s.rules))
	for _, r := range s.rules {
		c := *r
		result = append(result, &c)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}
