package orders

import (
	"context"
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const testSchema = `
CREATE TABLE orders (
	id TEXT PRIMARY KEY,
	customer_email TEXT NOT NULL,
	customer_name TEXT NOT NULL,
	customer_phone TEXT,
	total_amount NUMERIC NOT NULL,
	status TEXT NOT NULL DEFAULT 'Processing',
	placed_at DATETIME NOT NULL,
	created_at DATETIME,
	updated_at DATETIME
);

CREATE TABLE order_line_items (
	id TEXT PRIMARY KEY,
	order_id TEXT NOT NULL,
	product_id TEXT NOT NULL,
	product_name TEXT NOT NULL,
	unit_price NUMERIC NOT NULL,
	quantity INTEGER NOT NULL,
	image_url TEXT,
	created_at DATETIME
);

CREATE TABLE outbox_events (
	id TEXT PRIMARY KEY DEFAULT (
		lower(hex(randomblob(4))||'-'||hex(randomblob(2))||'-'||hex(randomblob(2))||'-'||hex(randomblob(2))||'-'||hex(randomblob(6)))
	),
	event_type TEXT NOT NULL,
	aggregate_type TEXT NOT NULL,
	aggregate_id TEXT NOT NULL,
	payload TEXT NOT NULL,
	created_at DATETIME,
	published_at DATETIME,
	attempt_count INTEGER NOT NULL DEFAULT 0,
	last_error TEXT
);

CREATE UNIQUE INDEX ux_outbox_events_event_aggregate
	ON outbox_events (event_type, aggregate_type, aggregate_id);
`

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := conn.Exec(testSchema).Error; err != nil {
		t.Fatalf("create schema: %v", err)
	}
	return conn
}

type gormTxRunner struct {
	db *gorm.DB
}

func (r *gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}
