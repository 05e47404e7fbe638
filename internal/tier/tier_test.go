// internal/tier/tier_test.go
package tier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("parses known tiers", func(t *testing.T) {
		for _, s := range []string{"free", "pro", "enterprise"} {
			parsed, err := Parse(s)
			require.NoError(t, err)
			assert.Equal(t, Tier(s), parsed)
		}
	})

	t.Run("rejects unknown tier", func(t *testing.T) {
		_, err := Parse("platinum")
		assert.Error(t, err)
	})
}

func TestHasAccess(t *testing.T) {
	t.Run("access is monotonic in tier order", func(t *testing.T) {
		ordered := []Tier{Free, Pro, Enterprise}
		for i, required := range ordered {
			for j, current := range ordered {
				assert.Equal(t, j >= i, HasAccess(current, required),
					"current=%s required=%s", current, required)
			}
		}
	})

	t.Run("one tier below required is denied", func(t *testing.T) {
		assert.False(t, HasAccess(Free, Pro))
		assert.False(t, HasAccess(Pro, Enterprise))
	})

	t.Run("unknown tier is denied everything above free rank", func(t *testing.T) {
		assert.False(t, HasAccess(Tier("platinum"), Free))
	})
}

func TestRequirement_Allows(t *testing.T) {
	req := Requirement{Feature: "forecasting", Required: Pro}

	assert.False(t, req.Allows(Free))
	assert.True(t, req.Allows(Pro))
	assert.True(t, req.Allows(Enterprise))
}
