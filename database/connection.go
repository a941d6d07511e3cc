package database

import (
	"fmt"
	"time"

	"blogicum/config"
	"blogicum/models"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func dialector(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.DBDriver {
	case "", "postgres":
		return postgres.Open(cfg.DatabaseURL()), nil
	case "mysql":
		return mysql.Open(cfg.DatabaseURL()), nil
	case "sqlite":
		return sqlite.Open(cfg.DatabaseURL()), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}
}

// Connect opens the configured database. All timestamps are kept in UTC.
func Connect(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	d, err := dialector(cfg)
	if err != nil {
		return nil, err
	}

	logLevel := logger.Warn
	if !cfg.IsProd() {
		logLevel = logger.Info
	}

	db, err := Open(d, logLevel)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	log.Info("database connected", zap.String("driver", d.Name()))
	return db, nil
}

// Open wraps gorm.Open with the settings shared by the server and tests.
func Open(d gorm.Dialector, logLevel logger.LogLevel) (*gorm.DB, error) {
	return gorm.Open(d, &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		NowFunc:        func() time.Time { return time.Now().UTC() },
		TranslateError: true,
	})
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Location{},
		&models.Post{},
		&models.Comment{},
	)
}
