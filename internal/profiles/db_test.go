package profiles

import (
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const testSchema = `
CREATE TABLE customer_profiles (
	email TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	surname TEXT NOT NULL,
	phone TEXT,
	password_hash TEXT NOT NULL,
	role TEXT NOT NULL DEFAULT 'Customer',
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
