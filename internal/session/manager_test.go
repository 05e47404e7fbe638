// internal/session/manager_test.go
package session

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FairForge/signalcraft/internal/tier"
)

func newTestManager() *Manager {
	return NewManager([]byte("test-secret"))
}

func TestManager_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("creates free-tier account and live session", func(t *testing.T) {
		m := newTestManager()
		s, token, err := m.Register(ctx, "demo@signalcraft.io", "hunter22", "Demo User")
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, tier.Free, s.User.Tier)
		assert.Equal(t, "demo@signalcraft.io", s.User.Email)

		validated, err := m.Validate(token)
		require.NoError(t, err)
		assert.Equal(t, s.ID, validated.ID)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		m := newTestManager()
		_, _, err := m.Register(ctx, "demo@signalcraft.io", "hunter22", "")
		require.NoError(t, err)
		_, _, err = m.Register(ctx, "demo@signalcraft.io", "other", "")
		assert.ErrorIs(t, err, ErrUserExists)
	})

	t.Run("rejects malformed email", func(t *testing.T) {
		m := newTestManager()
		_, _, err := m.Register(ctx, "not-an-email", "hunter22", "")
		assert.Error(t, err)
	})
}

func TestManager_Login(t *testing.T) {
	ctx := context.Background()
	m := newTestManager()
	_, _, err := m.Register(ctx, "demo@signalcraft.io", "hunter22", "")
	require.NoError(t, err)

	t.Run("valid credentials open a session", func(t *testing.T) {
		s, token, err := m.Login(ctx, "Demo@SignalCraft.io ", "hunter22")
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, "demo@signalcraft.io", s.User.Email)
	})

	t.Run("wrong password rejected", func(t *testing.T) {
		_, _, err := m.Login(ctx, "demo@signalcraft.io", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown user rejected", func(t *testing.T) {
		_, _, err := m.Login(ctx, "ghost@signalcraft.io", "hunter22")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestManager_Logout(t *testing.T) {
	ctx := context.Background()
	m := newTestManager()
	s, token, err := m.Register(ctx, "demo@signalcraft.io", "hunter22", "")
	require.NoError(t, err)

	m.Logout(ctx, s.ID)

	_, err = m.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestManager_Validate(t *testing.T) {
	m := newTestManager()

	t.Run("garbage token rejected", func(t *testing.T) {
		_, err := m.Validate("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("token from another secret rejected", func(t *testing.T) {
		other := NewManager([]byte("other-secret"))
		_, token, err := other.Register(context.Background(), "demo@signalcraft.io", "hunter22", "")
		require.NoError(t, err)

		_, err = m.Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestManager_SetTier(t *testing.T) {
	ctx := context.Background()
	m := newTestManager()
	s, token, err := m.Register(ctx, "demo@signalcraft.io", "hunter22", "")
	require.NoError(t, err)

	require.NoError(t, m.SetTier(s.User.ID, tier.Pro))

	validated, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, tier.Pro, validated.User.Tier)

	assert.Error(t, m.SetTier(s.User.ID, tier.Tier("platinum")))
	assert.Error(t, m.SetTier("missing", tier.Pro))
}

// Validate must not mutate the stored session: every authed request runs it,
// often concurrently for the same token, while SetTier rewrites the account.
func TestManager_ValidateConcurrent(t *testing.T) {
	ctx := context.Background()
	m := newTestManager()
	s, token, err := m.Register(ctx, "demo@signalcraft.io", "hunter22", "")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				validated, err := m.Validate(token)
				assert.NoError(t, err)
				assert.True(t, validated.User.Tier.Valid())
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for j := 0; j < 100; j++ {
			assert.NoError(t, m.SetTier(s.User.ID, tier.Pro))
			assert.NoError(t, m.SetTier(s.User.ID, tier.Free))
		}
	}()
	wg.Wait()
}

func TestContextHelpers(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		s := &Session{ID: "s-1"}
		ctx := WithSession(context.Background(), s)
		got, err := FromContext(ctx)
		require.NoError(t, err)
		assert.Equal(t, "s-1", got.ID)
	})

	t.Run("missing session", func(t *testing.T) {
		_, err := FromContext(context.Background())
		assert.ErrorIs(t, err, ErrNoSession)
	})
}
