package db

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/code-explainer-backend/internal/platform/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	// Driver is "postgres", "sqlite" or empty for no database.
	Driver string
	DSN    string
	// Silent disables gorm's own query logging.
	Silent bool
}

func (c Config) Enabled() bool {
	return strings.TrimSpace(c.Driver) != ""
}

// Open connects and migrates. Callers check cfg.Enabled first.
func Open(cfg Config, logg *logger.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case DriverPostgres:
		if strings.TrimSpace(cfg.DSN) == "" {
			return nil, fmt.Errorf("missing DATABASE_URL for postgres")
		}
		dialector = postgres.Open(cfg.DSN)
	case DriverSQLite:
		dsn := strings.TrimSpace(cfg.DSN)
		if dsn == "" {
			dsn = "file:code_explainer.db?_busy_timeout=5000"
		}
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
	}

	gormLog := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             1 * time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	if cfg.Silent {
		gormLog = gormLogger.Default.LogMode(gormLogger.Silent)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormLog,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Driver, err)
	}
	if err := AutoMigrateAll(db); err != nil {
		return nil, err
	}
	if logg != nil {
		logg.Info("database ready", "driver", cfg.Driver)
	}
	return db, nil
}
