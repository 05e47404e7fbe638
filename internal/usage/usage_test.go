// internal/usage/usage_test.go
package usage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FairForge/signalcraft/internal/tier"
)

func TestCounter_Percentage(t *testing.T) {
	t.Run("computes ratio", func(t *testing.T) {
		p, err := Counter{Current: 25, Limit: 100}.Percentage()
		require.NoError(t, err)
		assert.Equal(t, 25.0, p)
	})

	t.Run("clamps overage to exactly 100", func(t *testing.T) {
		p, err := Counter{Current: 250, Limit: 100}.Percentage()
		require.NoError(t, err)
		assert.Equal(t, 100.0, p)
	})

	t.Run("clamps negative reading to 0", func(t *testing.T) {
		p, err := Counter{Current: -10, Limit: 100}.Percentage()
		require.NoError(t, err)
		assert.Equal(t, 0.0, p)
	})

	t.Run("zero limit is an error", func(t *testing.T) {
		_, err := Counter{Current: 10, Limit: 0}.Percentage()
		assert.ErrorIs(t, err, ErrInvalidLimit)
	})

	t.Run("negative limit is an error", func(t *testing.T) {
		_, err := Counter{Current: 10, Limit: -5}.Percentage()
		assert.ErrorIs(t, err, ErrInvalidLimit)
	})
}

func TestCounter_WarningLevel(t *testing.T) {
	cases := []struct {
		name    string
		current int64
		want    string
	}{
		{"well under limit", 10, LevelOK},
		{"just under warning", 74, LevelOK},
		{"warning boundary", 75, LevelWarning},
		{"just under critical", 89, LevelWarning},
		{"critical boundary", 90, LevelCritical},
		{"over limit", 150, LevelCritical},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			level, err := Counter{Current: tc.current, Limit: 100}.WarningLevel()
			require.NoError(t, err)
			assert.Equal(t, tc.want, level)
		})
	}

	t.Run("propagates invalid limit", func(t *testing.T) {
		_, err := Counter{Current: 1, Limit: 0}.WarningLevel()
		assert.ErrorIs(t, err, ErrInvalidLimit)
	})
}

func TestLimitsForTier(t *testing.T) {
	t.Run("limits grow with tier", func(t *testing.T) {
		free := LimitsForTier(tier.Free)
		pro := LimitsForTier(tier.Pro)
		ent := LimitsForTier(tier.Enterprise)

		assert.Less(t, free.APICalls, pro.APICalls)
		assert.Less(t, pro.APICalls, ent.APICalls)
		assert.Equal(t, int64(5000), free.APICalls)
		assert.Equal(t, int64(1), free.Users)
		assert.Equal(t, int64(50), ent.Users)
	})

	t.Run("unknown tier falls back to free", func(t *testing.T) {
		assert.Equal(t, LimitsForTier(tier.Free), LimitsForTier(tier.Tier("platinum")))
	})
}
