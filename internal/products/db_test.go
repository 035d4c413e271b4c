package products

import (
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const testSchema = `
CREATE TABLE products (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	price NUMERIC NOT NULL,
	image_url TEXT,
	created_at DATETIME,
	updated_at DATETIME
);
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
