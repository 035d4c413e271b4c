package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"
)

type mockStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newMockStore() *mockStore {
	return &mockStore{data: make(map[string]string)}
}

func (m *mockStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = fmt.Sprint(value)
	return nil
}

func (m *mockStore) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.data[key]
	if !ok {
		return "", redislib.Nil
	}
	return val, nil
}

func (m *mockStore) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

func (m *mockStore) SessionKey(accessID string) string {
	return fmt.Sprintf("sess:%s", accessID)
}

func (m *mockStore) CartKey(accessID string) string {
	return fmt.Sprintf("cart:%s", accessID)
}

func TestManagerStartAndEnd(t *testing.T) {
	store := newMockStore()
	manager := &Manager{
		store: store,
		keyer: store,
		ttl:   time.Hour,
	}

	ctx := context.Background()
	accessID := "access-123"
	loginAt := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)

	if err := manager.Start(ctx, accessID, loginAt); err != nil {
		t.Fatalf("start: %v", err)
	}

	got, err := manager.LoginTime(ctx, accessID)
	if err != nil {
		t.Fatalf("login time: %v", err)
	}
	if !got.Equal(loginAt) {
		t.Fatalf("expected login time %v, got %v", loginAt, got)
	}

	ok, err := manager.HasSession(ctx, accessID)
	if err != nil {
		t.Fatalf("has session: %v", err)
	}
	if !ok {
		t.Fatal("expected a live session")
	}

	store.data[store.CartKey(accessID)] = `[{"product_id":"p1"}]`

	if err := manager.End(ctx, accessID); err != nil {
		t.Fatalf("end: %v", err)
	}
	if _, exists := store.data[store.SessionKey(accessID)]; exists {
		t.Fatal("session key left behind")
	}
	if _, exists := store.data[store.CartKey(accessID)]; exists {
		t.Fatal("cart key should die with the session")
	}

	ok, err = manager.HasSession(ctx, accessID)
	if err != nil {
		t.Fatalf("has session after end: %v", err)
	}
	if ok {
		t.Fatal("expected no session after end")
	}
}

func TestManagerLoginTimeNoSession(t *testing.T) {
	store := newMockStore()
	manager := &Manager{store: store, keyer: store, ttl: time.Hour}

	if _, err := manager.LoginTime(context.Background(), "missing"); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}
