package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"

	"github.com/lorenagil/storefront-backend/pkg/config"
	redisclient "github.com/lorenagil/storefront-backend/pkg/redis"
)

// ErrNoSession signals that the access identifier has no live session.
var ErrNoSession = errors.New("no active session")

type sessionStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type sessionKeyer interface {
	SessionKey(accessID string) string
	CartKey(accessID string) string
}

// Manager tracks live sessions in Redis, keyed by the JWT jti. A session is
// born at login and dies at logout or token expiry; the cart stored under the
// same access ID dies with it.
type Manager struct {
	store sessionStore
	keyer sessionKeyer
	ttl   time.Duration
}

// Checker exposes the read-only surface needed by middleware.
type Checker interface {
	HasSession(ctx context.Context, accessID string) (bool, error)
}

// NewManager constructs a session manager backed by Redis.
func NewManager(client *redisclient.Client, cfg config.JWTConfig) (*Manager, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	ttl := cfg.SessionTTL()
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}

	return &Manager{
		store: client,
		keyer: client,
		ttl:   ttl,
	}, nil
}

// Start records a live session for the access ID, stamped with the login time.
func (m *Manager) Start(ctx context.Context, accessID string, loginAt time.Time) error {
	if strings.TrimSpace(accessID) == "" {
		return fmt.Errorf("access id is required")
	}
	return m.store.Set(ctx, m.keyer.SessionKey(accessID), loginAt.UTC().Format(time.RFC3339), m.ttl)
}

// LoginTime returns the login timestamp recorded for the session.
func (m *Manager) LoginTime(ctx context.Context, accessID string) (time.Time, error) {
	if strings.TrimSpace(accessID) == "" {
		return time.Time{}, fmt.Errorf("access id is required")
	}
	raw, err := m.store.Get(ctx, m.keyer.SessionKey(accessID))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return time.Time{}, ErrNoSession
		}
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339, raw)
}

// HasSession reports whether the provided access ID still has a live session.
func (m *Manager) HasSession(ctx context.Context, accessID string) (bool, error) {
	if strings.TrimSpace(accessID) == "" {
		return false, fmt.Errorf("access id is required")
	}
	if _, err := m.store.Get(ctx, m.keyer.SessionKey(accessID)); err != nil {
		if errors.Is(err, redislib.Nil) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// End tears down the session and the cart attached to it.
func (m *Manager) End(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return fmt.Errorf("access id is required")
	}
	return m.store.Del(ctx, m.keyer.SessionKey(accessID), m.keyer.CartKey(accessID))
}

// NewAccessID produces a stable identifier used as the JWT jti/Redis key.
func NewAccessID() string {
	return uuid.NewString()
}
