package db

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"robot-registry/config"
	"robot-registry/internal/logs"
	"robot-registry/internal/model"
)

// Dialector picks the gorm driver for the configured database.
func Dialector(cfg *config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "", "sqlite":
		return sqlite.Open(cfg.DSN), nil
	case "postgres":
		return postgres.Open(cfg.DSN), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}
}

// Init opens the database connection and migrates the robots table.
func Init(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logs.GormLogger(cfg.LogLevel, time.Duration(cfg.SlowQueryMillis)*time.Millisecond),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	if cfg.ConnMaxLifetimeMinutes > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)
	}

	if err := Migrate(db); err != nil {
		sqlDB.Close()
		return nil, err
	}

	logrus.WithField("driver", cfg.Driver).Info("database initialization complete")
	return db, nil
}

// Migrate creates or updates the robots table.
func Migrate(db *gorm.DB) error {
	logrus.Debug("running database migrations")
	if err := db.AutoMigrate(&model.Robot{}); err != nil {
		return fmt.Errorf("automigrate failed: %w", err)
	}
	return nil
}
