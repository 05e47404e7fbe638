// internal/anomaly/store_test.go
package anomaly

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifySeverity(t *testing.T) {
	cases := []struct {
		score float64
		want  Severity
	}{
		{0, SeverityLow},
		{0.5, SeverityLow},
		{1.0, SeverityLow}, // boundary stays in lower bucket
		{1.0001, SeverityMedium},
		{-1.5, SeverityMedium},
		{2.0, SeverityMedium},
		{2.5, SeverityHigh},
		{3.0, SeverityHigh}, // boundary excluded from critical
		{3.0001, SeverityCritical},
		{-4.2, SeverityCritical},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, ClassifySeverity(tc.score), "score=%v", tc.score)
	}
}

func TestSeverity_Valid(t *testing.T) {
	for _, s := range []Severity{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical} {
		assert.True(t, s.Valid(), string(s))
	}
	assert.False(t, Severity("").Valid())
	assert.False(t, Severity("catastrophic").Valid())
}

func TestChangePercent(t *testing.T) {
	t.Run("computes signed percent change", func(t *testing.T) {
		p, err := ChangePercent(120, 100)
		require.NoError(t, err)
		assert.InDelta(t, 20.0, p, 1e-9)

		p, err = ChangePercent(80, 100)
		require.NoError(t, err)
		assert.InDelta(t, -20.0, p, 1e-9)
	})

	t.Run("zero expected is a defined error", func(t *testing.T) {
		_, err := ChangePercent(50, 0)
		assert.ErrorIs(t, err, ErrZeroExpected)
	})
}

func testRecords(now time.Time) []*Record {
	return []*Record{
		{ID: "a", SourceName: "Daily Revenue", Timestamp: now.Add(-3 * time.Hour), DeviationScore: 2.4},
		{ID: "b", SourceName: "Customer Count", Timestamp: now.Add(-1 * time.Hour), DeviationScore: -0.4},
		{ID: "c", SourceName: "Daily Revenue", Timestamp: now.Add(-2 * time.Hour), DeviationScore: 3.6},
	}
}

func TestStore_List(t *testing.T) {
	store := NewStore()
	now := time.Now()
	store.Replace(testRecords(now))

	t.Run("sorted most recent first", func(t *testing.T) {
		records := store.List()
		require.Len(t, records, 3)
		assert.Equal(t, "b", records[0].ID)
		assert.Equal(t, "c", records[1].ID)
		assert.Equal(t, "a", records[2].ID)
	})

	t.Run("severity recomputed on replace", func(t *testing.T) {
		r, err := store.Get("c")
		require.NoError(t, err)
		assert.Equal(t, SeverityCritical, r.Severity)
	})
}

func TestStore_Acknowledge(t *testing.T) {
	store := NewStore()
	store.Replace(testRecords(time.Now()))

	t.Run("sets acknowledged", func(t *testing.T) {
		r, err := store.Acknowledge("a")
		require.NoError(t, err)
		assert.True(t, r.Acknowledged)
	})

	t.Run("second acknowledge is a no-op, not an error", func(t *testing.T) {
		r, err := store.Acknowledge("a")
		require.NoError(t, err)
		assert.True(t, r.Acknowledged)
	})

	t.Run("unknown id is NotFound", func(t *testing.T) {
		_, err := store.Acknowledge("missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("failed acknowledge does not corrupt state", func(t *testing.T) {
		_, _ = store.Acknowledge("missing")
		assert.Len(t, store.List(), 3)
	})
}

func TestStore_RecentWithMinSeverity(t *testing.T) {
	store := NewStore()
	now := time.Now()
	store.Replace(testRecords(now))

	t.Run("filters by source, window and severity", func(t *testing.T) {
		got := store.RecentWithMinSeverity("Daily Revenue", now.Add(-4*time.Hour), SeverityMedium)
		require.Len(t, got, 2)
		assert.Equal(t, "c", got[0].ID)

		got = store.RecentWithMinSeverity("Daily Revenue", now.Add(-150*time.Minute), SeverityMedium)
		require.Len(t, got, 1)
		assert.Equal(t, "c", got[0].ID)
	})

	t.Run("low severity records excluded at medium threshold", func(t *testing.T) {
		got := store.RecentWithMinSeverity("Customer Count", now.Add(-4*time.Hour), SeverityMedium)
		assert.Empty(t, got)
	})
}
