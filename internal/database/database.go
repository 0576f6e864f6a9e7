package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/saas-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/saas-backend/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Gateway holds the two handles to the hosted database. Privileged connects
// as the service role; Restricted as the anonymous role. Both are built once
// at startup and passed to the repositories.
type Gateway struct {
	Privileged *gorm.DB
	Restricted *gorm.DB
}

func Connect(cfg *config.Config) (*Gateway, error) {
	privileged, err := open(cfg.PrivilegedDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect privileged client: %w", err)
	}

	restricted, err := open(cfg.RestrictedDSN())
	if err != nil {
		closeDB(privileged)
		return nil, fmt.Errorf("failed to connect restricted client: %w", err)
	}

	slog.Info("database connected")
	return &Gateway{Privileged: privileged, Restricted: restricted}, nil
}

func open(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
}

// Migrate creates or updates the tables through the privileged handle.
func (g *Gateway) Migrate() error {
	return g.Privileged.AutoMigrate(
		&models.Account{},
		&models.Profile{},
		&models.Product{},
		&models.Subscription{},
		&models.SystemLog{},
	)
}

func (g *Gateway) Ping(ctx context.Context) error {
	sqlDB, err := g.Privileged.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (g *Gateway) Close() error {
	return errors.Join(closeDB(g.Privileged), closeDB(g.Restricted))
}

func closeDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
