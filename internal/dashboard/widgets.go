// internal/dashboard/widgets.go
package dashboard

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/FairForge/signalcraft/internal/tier"
)

// Widget types.
const (
	TypeKPI      = "kpi"
	TypeChart    = "chart"
	TypeNews     = "news"
	TypeForecast = "forecast"
	TypeAlerts   = "alerts"
)

// Widget sizes.
const (
	SizeSmall  = "small"
	SizeMedium = "medium"
	SizeLarge  = "large"
)

// Errors returned by the layout.
var (
	ErrNotFound       = errors.New("dashboard: widget not found")
	ErrAlreadyPresent = errors.New("dashboard: widget type already present")
	ErrNotAvailable   = errors.New("dashboard: widget type not available on this plan")
	ErrUnknownType    = errors.New("dashboard: unknown widget type")
	ErrInvalidSize    = errors.New("dashboard: invalid widget size")
)

type catalogEntry struct {
	Title    string
	Required tier.Tier
}

// catalog maps widget types to their titles and the minimum tier that may add
// them. KPI, chart and news widgets are open to every plan.
var catalog = map[string]catalogEntry{
	TypeKPI:      {Title: "KPI Cards", Required: tier.Free},
	TypeChart:    {Title: "Performance Charts", Required: tier.Free},
	TypeNews:     {Title: "News Feed", Required: tier.Free},
	TypeForecast: {Title: "Forecasting", Required: tier.Pro},
	TypeAlerts:   {Title: "Alert Center", Required: tier.Pro},
}

var validSizes = map[string]bool{
	SizeSmall:  true,
	SizeMedium: true,
	SizeLarge:  true,
}

// Widget is one configurable dashboard tile.
type Widget struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Title   string `json:"title"`
	Visible bool   `json:"visible"`
	Order   int    `json:"order"`
	Size    string `json:"size"`
}

// Availability describes one catalog entry for a given tier.
type Availability struct {
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Required  tier.Tier `json:"required_tier"`
	Available bool      `json:"available"`
}

// Catalog lists every widget type with its availability under the given tier.
func Catalog(current tier.Tier) []Availability {
	result := make([]Availability, 0, len(catalog))
	for typ, entry := range catalog {
		result = append(result, Availability{
			Type:      typ,
			Title:     entry.Title,
			Required:  entry.Required,
			Available: tier.HasAccess(current, entry.Required),
		})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Type < result[j].Type })
	return result
}

// Layout is one user's dashboard configuration. At most one widget per type
// is permitted.
type Layout struct {
	mu      sync.Mutex
	widgets []*Widget
}

// NewLayout creates an empty layout.
func NewLayout() *Layout {
	return &Layout{}
}

// DefaultLayout is the initial dashboard every user starts with: the three
// ungated widget types, visible, medium-sized.
func DefaultLayout() *Layout {
	l := NewLayout()
	for _, typ := range []string{TypeKPI, TypeChart, TypeNews} {
		entry := catalog[typ]
		l.widgets = append(l.widgets, &Widget{
			ID:      fmt.Sprintf("%s-%s", typ, uuid.New().String()),
			Type:    typ,
			Title:   entry.Title,
			Visible: true,
			Order:   len(l.widgets),
			Size:    SizeMedium,
		})
	}
	return l
}

// Add appends a widget of the given type. It fails with ErrAlreadyPresent if
// the type is already on the dashboard, and with ErrNotAvailable if the type
// requires a tier the user's entitlement does not satisfy.
func (l *Layout) Add(typ string, current tier.Tier) (*Widget, error) {
	entry, ok := catalog[typ]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, typ)
	}
	if !tier.HasAccess(current, entry.Required) {
		return nil, fmt.Errorf("%w: %s requires %s", ErrNotAvailable, typ, entry.Required)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for _, w := range l.widgets {
		if w.Type == typ {
			return nil, fmt.Errorf("%w: %s", ErrAlreadyPresent, typ)
		}
	}

	widget := &Widget{
		ID:      fmt.Sprintf("%s-%s", typ, uuid.New().String()),
		Type:    typ,
		Title:   entry.Title,
		Visible: true,
		Order:   len(l.widgets),
		Size:    SizeMedium,
	}
	l.widgets = append(l.widgets, widget)

	c := *widget
	return &c, nil
}

// Remove deletes a widget by id.
func (l *Layout) Remove(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, w := range l.widgets {
		if w.ID == id {
			l.widgets = append(l.widgets[:i], l.widgets[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// Reorder removes the widget with movedID and reinserts it immediately before
// the widget that held targetID's position, then reassigns order to match the
// list index: 0-based, contiguous, ascending. Moving a widget onto itself is
// a no-op.
func (l *Layout) Reorder(movedID, targetID string) error {
	if movedID == targetID {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	movedIdx, targetIdx := -1, -1
	for i, w := range l.widgets {
		switch w.ID {
		case movedID:
			movedIdx = i
		case targetID:
			targetIdx = i
		}
	}
	if movedIdx < 0 || targetIdx < 0 {
		return ErrNotFound
	}

	moved := l.widgets[movedIdx]
	rest := append(l.widgets[:movedIdx:movedIdx], l.widgets[movedIdx+1:]...)

	if movedIdx < targetIdx {
		targetIdx--
	}
	l.widgets = append(rest[:targetIdx:targetIdx], append([]*Widget{moved}, rest[targetIdx:]...)...)

	for i, w := range l.widgets {
		w.Order = i
	}
	return nil
}

// Resize sets a widget's size.
func (l *Layout) Resize(id, size string) error {
	if !validSizes[size] {
		return fmt.Errorf("%w: %s", ErrInvalidSize, size)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for _, w := range l.widgets {
		if w.ID == id {
			w.Size = size
			return nil
		}
	}
	return ErrNotFound
}

// SetVisible shows or hides a widget without removing it.
func (l *Layout) SetVisible(id string, visible bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, w := range l.widgets {
		if w.ID == id {
			w.Visible = visible
			return nil
		}
	}
	return ErrNotFound
}

// Widgets returns a copy of the layout sorted ascending by order. Stored
// order values need not be contiguous or unique; render order always is.
func (l *Layout) Widgets() []Widget {
	l.mu.Lock()
	defer l.mu.Unlock()

	result := make([]Widget, 0, len(l.widgets))
	for _, w := range l.widgets {
		result = append(result, *w)
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].Order < result[j].Order })
	return result
}

// Visible returns only the widgets a renderer should draw, ascending by
// order.
func (l *Layout) Visible() []Widget {
	all := l.Widgets()
	result := make([]Widget, 0, len(all))
	for _, w := range all {
		if w.Visible {
			result = append(result, w)
		}
	}
	return result
}

// Registry hands out one layout per user, creating the default on first use.
type Registry struct {
	mu      sync.Mutex
	layouts map[string]*Layout
}

// NewRegistry creates an empty layout registry.
func NewRegistry() *Registry {
	return &Registry{layouts: make(map[string]*Layout)}
}

// ForUser returns the user's layout, creating the default lazily.
func (r *Registry) ForUser(userID string) *Layout {
	r.mu.Lock()
	defer r.mu.Unlock()

	layout, ok := r.layouts[userID]
	if !ok {
		layout = DefaultLayout()
		r.layouts[userID] = layout
	}
	return layout
}
