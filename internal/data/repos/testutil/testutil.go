package testutil

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"

	"gorm.io/gorm"

	"github.com/yungbote/code-explainer-backend/internal/data/db"
	types "github.com/yungbote/code-explainer-backend/internal/domain"
	"github.com/yungbote/code-explainer-backend/internal/platform/logger"
)

var (
	pgOnce sync.Once
	pg     *gorm.DB
	pgErr  error
)

func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	log, err := logger.New("test")
	if err != nil {
		tb.Fatalf("failed to init logger: %v", err)
	}
	return log
}

// SQLite opens a migrated in-memory database private to the calling test.
func SQLite(tb testing.TB) *gorm.DB {
	tb.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(tb.Name())
	gdb, err := db.Open(db.Config{
		Driver: db.DriverSQLite,
		DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared", name),
		Silent: true,
	}, nil)
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		tb.Fatalf("sqlite handle: %v", err)
	}
	tb.Cleanup(func() { _ = sqlDB.Close() })
	return gdb
}

// Postgres returns a shared migrated connection, skipping the test unless
// TEST_POSTGRES_DSN is set.
func Postgres(tb testing.TB) *gorm.DB {
	tb.Helper()
	dsn := strings.TrimSpace(os.Getenv("TEST_POSTGRES_DSN"))
	if dsn == "" {
		tb.Skip("set TEST_POSTGRES_DSN to run repo integration tests")
	}
	pgOnce.Do(func() {
		pg, pgErr = db.Open(db.Config{Driver: db.DriverPostgres, DSN: dsn, Silent: true}, nil)
	})
	if pgErr != nil {
		tb.Fatalf("failed to init test db: %v", pgErr)
	}
	return pg
}

// Tx begins a transaction rolled back when the test ends.
func Tx(tb testing.TB, gdb *gorm.DB) *gorm.DB {
	tb.Helper()
	tx := gdb.Begin()
	if tx.Error != nil {
		tb.Fatalf("begin tx: %v", tx.Error)
	}
	tb.Cleanup(func() {
		_ = tx.Rollback().Error
	})
	return tx
}

func SeedConceptURL(tb testing.TB, ctx context.Context, tx *gorm.DB, concept, url string) *types.ConceptURL {
	tb.Helper()
	row := &types.ConceptURL{Concept: concept, URL: url, UpdatedBy: "seed"}
	if err := tx.WithContext(ctx).Create(row).Error; err != nil {
		tb.Fatalf("seed concept url: %v", err)
	}
	return row
}
