// internal/session/session.go
package session

import (
	"context"
	"errors"
	"time"

	"github.com/FairForge/signalcraft/internal/tier"
)

// contextKey is a custom type to prevent context key collisions
type contextKey string

const contextKeySession contextKey = "session"

// ErrNoSession is returned when no session is present in the context.
var ErrNoSession = errors.New("session: no session in context")

// User is the signed-in account a session belongs to.
type User struct {
	ID       string    `json:"id"`
	Email    string    `json:"email"`
	FullName string    `json:"full_name,omitempty"`
	Tier     tier.Tier `json:"subscription_tier"`
}

// Session is the explicit identity passed to every operation that needs one.
// It replaces any notion of an ambient signed-in user: components receive it
// through the request context, and logout tears it down.
type Session struct {
	ID        string    `json:"id"`
	User      User      `json:"user"`
	CreatedAt time.Time `json:"created_at"`
}

// WithSession attaches a session to the context.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKeySession, s)
}

// FromContext extracts the session from the context.
func FromContext(ctx context.Context) (*Session, error) {
	s, ok := ctx.Value(contextKeySession).(*Session)
	if !ok || s == nil {
		return nil, ErrNoSession
	}
	return s, nil
}

// MustFromContext extracts the session or panics (use in handlers behind the
// auth middleware).
func MustFromContext(ctx context.Context) *Session {
	s, err := FromContext(ctx)
	if err != nil {
		panic("session middleware not applied: " + err.Error())
	}
	return s
}
