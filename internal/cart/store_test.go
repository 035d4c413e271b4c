package cart

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

type mockKV struct {
	mu     sync.Mutex
	values map[string]string
}

func newMockKV() *mockKV {
	return &mockKV{values: map[string]string{}}
}

func (m *mockKV) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.values[key]
	if !ok {
		return "", redislib.Nil
	}
	return value, nil
}

func (m *mockKV) Set(_ context.Context, key string, value any, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch v := value.(type) {
	case string:
		m.values[key] = v
	case []byte:
		m.values[key] = string(v)
	default:
		m.values[key] = fmt.Sprintf("%v", v)
	}
	return nil
}

func (m *mockKV) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.values, key)
	}
	return nil
}

func (m *mockKV) CartKey(accessID string) string {
	return "sf:cart:" + accessID
}

func TestStoreRoundTrip(t *testing.T) {
	kv := newMockKV()
	store := &Store{kv: kv, ttl: time.Minute}
	ctx := context.Background()

	items, err := store.Load(ctx, "session-1")
	if err != nil {
		t.Fatalf("load empty: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty cart, got %+v", items)
	}

	saved := []LineItem{{
		ProductID:   uuid.New(),
		ProductName: "P1",
		UnitPrice:   decimal.RequireFromString("10.00"),
		Quantity:    2,
	}}
	if err := store.Save(ctx, "session-1", saved); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := store.Load(ctx, "session-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded) != 1 || loaded[0].Quantity != 2 {
		t.Fatalf("unexpected cart: %+v", loaded)
	}
	if !loaded[0].UnitPrice.Equal(saved[0].UnitPrice) {
		t.Fatalf("expected price %s, got %s", saved[0].UnitPrice, loaded[0].UnitPrice)
	}

	if err := store.Clear(ctx, "session-1"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	cleared, err := store.Load(ctx, "session-1")
	if err != nil {
		t.Fatalf("load after clear: %v", err)
	}
	if len(cleared) != 0 {
		t.Fatalf("expected cleared cart, got %+v", cleared)
	}
}
