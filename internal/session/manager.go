// internal/session/manager.go
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/FairForge/signalcraft/internal/tier"
)

// Errors returned by the manager.
var (
	ErrInvalidCredentials = errors.New("session: invalid email or password")
	ErrUserExists         = errors.New("session: user already exists")
	ErrInvalidToken       = errors.New("session: invalid token")
)

const tokenTTL = 24 * time.Hour

type account struct {
	user         User
	passwordHash string
}

// Claims are the JWT claims carried by an access token.
type Claims struct {
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	jwt.RegisteredClaims
}

// Manager handles registration, login and session lifecycle. There is no real
// authentication provider behind it; accounts live in memory for the session
// and exist so that identity flows through explicit context, not shared state.
type Manager struct {
	mu        sync.RWMutex
	jwtSecret []byte
	accounts  map[string]*account // email -> account
	sessions  map[string]*Session // session id -> session
	byUserID  map[string]*account // user id -> account
}

// NewManager creates a session manager signing tokens with the given secret.
func NewManager(jwtSecret []byte) *Manager {
	return &Manager{
		jwtSecret: jwtSecret,
		accounts:  make(map[string]*account),
		sessions:  make(map[string]*Session),
		byUserID:  make(map[string]*account),
	}
}

// Register creates an account on the free plan and opens a session for it.
func (m *Manager) Register(ctx context.Context, email, password, fullName string) (*Session, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !strings.Contains(email, "@") {
		return nil, "", fmt.Errorf("session: invalid email address")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	m.mu.Lock()
	if _, exists := m.accounts[email]; exists {
		m.mu.Unlock()
		return nil, "", ErrUserExists
	}

	acct := &account{
		user: User{
			ID:       uuid.New().String(),
			Email:    email,
			FullName: fullName,
			Tier:     tier.Free,
		},
		passwordHash: string(hash),
	}
	m.accounts[email] = acct
	m.byUserID[acct.user.ID] = acct
	m.mu.Unlock()

	return m.openSession(acct)
}

// Login validates credentials and opens a session.
func (m *Manager) Login(ctx context.Context, email, password string) (*Session, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	m.mu.RLock()
	acct, exists := m.accounts[email]
	m.mu.RUnlock()
	if !exists {
		return nil, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(acct.passwordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	return m.openSession(acct)
}

func (m *Manager) openSession(acct *account) (*Session, string, error) {
	s := &Session{
		ID:        uuid.New().String(),
		User:      acct.user,
		CreatedAt: time.Now().UTC(),
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	claims := Claims{
		SessionID: s.ID,
		UserID:    acct.user.ID,
		Email:     acct.user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "signalcraft",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.jwtSecret)
	if err != nil {
		return nil, "", fmt.Errorf("sign token: %w", err)
	}

	c := *s
	return &c, signed, nil
}

// Logout tears the session down. Further requests carrying its token are
// rejected even if the token has not expired.
func (m *Manager) Logout(ctx context.Context, sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
}

// Validate parses an access token and returns the live session it names.
func (m *Manager) Validate(tokenString string) (*Session, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return m.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	s, live := m.sessions[claims.SessionID]
	if !live {
		return nil, ErrInvalidToken
	}

	// Tier changes land on the account; reflect the current value on the
	// returned copy. The stored session is never written here, so concurrent
	// validations only ever read it.
	c := *s
	if acct, ok := m.byUserID[c.User.ID]; ok {
		c.User.Tier = acct.user.Tier
	}
	return &c, nil
}

// SetTier records a plan change made by the external billing process.
func (m *Manager) SetTier(userID string, t tier.Tier) error {
	if !t.Valid() {
		return fmt.Errorf("session: unknown tier %q", t)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	acct, ok := m.byUserID[userID]
	if !ok {
		return fmt.Errorf("session: user %s not found", userID)
	}
	acct.user.Tier = t
	return nil
}
