package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/you/parkcast/internal/config"
	"github.com/you/parkcast/models"
	"github.com/you/parkcast/repository"
)

// zoneStore is the persistent zone reference data, SQLite or Postgres
type zoneStore interface {
	EnsureSchema(ctx context.Context) error
	ListZones(ctx context.Context) ([]models.Zone, error)
	UpsertZones(ctx context.Context, zones []models.Zone) error
	Ping(ctx context.Context) error
	Close() error
}

// openZoneStore connects to Postgres when a URL is configured, SQLite otherwise
func openZoneStore(ctx context.Context, cfg *config.Config) (zoneStore, error) {
	if cfg.DatabaseURL != "" {
		return repository.NewPostgresZoneRepository(ctx, cfg.DatabaseURL)
	}

	if dir := filepath.Dir(cfg.DatabasePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := repository.NewSQLiteDB(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}
	return repository.NewSQLiteZoneRepository(db), nil
}

// loadZones reads zones from the store, seeding it from the catalog file when empty
func loadZones(ctx context.Context, store zoneStore, catalog *config.Catalog, log *logrus.Entry) ([]models.Zone, error) {
	if err := store.EnsureSchema(ctx); err != nil {
		return nil, err
	}

	zones, err := store.ListZones(ctx)
	if err != nil {
		return nil, err
	}
	if len(zones) > 0 {
		log.WithField("zones", len(zones)).Info("Loaded zones from database")
		return zones, nil
	}

	seed := catalog.ModelZones()
	if err := store.UpsertZones(ctx, seed); err != nil {
		return nil, fmt.Errorf("failed to seed zones: %w", err)
	}
	log.WithField("zones", len(seed)).Info("Zone table was empty, seeded from catalog")
	return seed, nil
}
