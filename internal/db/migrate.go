package db

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/diewo77/shirt-orders/internal/models"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the database described by url (see ParseURL).
func Open(url string, debug bool) (*gorm.DB, error) {
	driver, dsn := ParseURL(url)
	if dsn == "" {
		return nil, fmt.Errorf("empty database url")
	}
	logLevel := logger.Silent
	if debug {
		logLevel = logger.Info
	}
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logLevel)}

	var dialector gorm.Dialector
	switch driver {
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	default:
		if dir := filepath.Dir(dsn); dir != "." && !isMemory(dsn) {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create database directory: %w", err)
			}
		}
		dialector = sqlite.Open(dsn)
	}

	zap.L().Info("connecting to database", zap.String("driver", driver), zap.String("dsn", MaskDSN(dsn)))
	conn, err := gorm.Open(dialector, cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}
	if err := conn.Exec("SELECT 1").Error; err != nil {
		return nil, fmt.Errorf("db ping failed: %w", err)
	}
	return conn, nil
}

func isMemory(dsn string) bool {
	return dsn == ":memory:" || strings.HasPrefix(dsn, "file:")
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Admin{}, &models.Order{}); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return backfillCongregationKeys(db)
}

// backfillCongregationKeys fills the search key of rows stored before the column existed.
func backfillCongregationKeys(db *gorm.DB) error {
	var rows []models.Order
	err := db.Select("id", "congregation").
		Where("congregation_key = '' AND congregation <> ''").
		Find(&rows).Error
	if err != nil {
		return fmt.Errorf("load congregation keys: %w", err)
	}
	for _, o := range rows {
		err := db.Model(&models.Order{}).Where("id = ?", o.ID).
			UpdateColumn("congregation_key", models.CongregationKey(o.Congregation)).Error
		if err != nil {
			return fmt.Errorf("backfill congregation key %d: %w", o.ID, err)
		}
	}
	if len(rows) > 0 {
		zap.L().Info("congregation keys backfilled", zap.Int("orders", len(rows)))
	}
	return nil
}
