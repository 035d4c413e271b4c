package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lorenagil/storefront-backend/pkg/config"
	redisclient "github.com/lorenagil/storefront-backend/pkg/redis"
)

type cartKV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CartKey(accessID string) string
}

// Store persists the session cart in Redis under the access-token ID. The
// cart shares the session TTL so it can never outlive the session itself.
type Store struct {
	kv  cartKV
	ttl time.Duration
}

// NewStore builds a cart store using the session TTL from the JWT config.
func NewStore(client *redisclient.Client, cfg config.JWTConfig) (*Store, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	ttl := cfg.SessionTTL()
	if ttl <= 0 {
		return nil, fmt.Errorf("session TTL must be positive")
	}
	return &Store{kv: client, ttl: ttl}, nil
}

// Load returns the cart lines for the session, empty when no cart exists.
func (s *Store) Load(ctx context.Context, accessID string) ([]LineItem, error) {
	raw, err := s.kv.Get(ctx, s.kv.CartKey(accessID))
	if err != nil {
		if errors.Is(err, redisclient.ErrNotFound) {
			return []LineItem{}, nil
		}
		return nil, fmt.Errorf("loading cart: %w", err)
	}

	var items []LineItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("decoding cart: %w", err)
	}
	return items, nil
}

// Save overwrites the cart lines for the session.
func (s *Store) Save(ctx context.Context, accessID string, items []LineItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encoding cart: %w", err)
	}
	if err := s.kv.Set(ctx, s.kv.CartKey(accessID), data, s.ttl); err != nil {
		return fmt.Errorf("saving cart: %w", err)
	}
	return nil
}

// Clear removes the cart for the session.
func (s *Store) Clear(ctx context.Context, accessID string) error {
	if err := s.kv.Del(ctx, s.kv.CartKey(accessID)); err != nil {
		return fmt.Errorf("clearing cart: %w", err)
	}
	return nil
}
