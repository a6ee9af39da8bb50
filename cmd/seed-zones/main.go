package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/you/parkcast/internal/config"
	"github.com/you/parkcast/internal/logging"
	"github.com/you/parkcast/internal/zones"
	"github.com/you/parkcast/models"
	"github.com/you/parkcast/repository"
)

type zoneWriter interface {
	EnsureSchema(ctx context.Context) error
	GetZone(ctx context.Context, id int) (models.Zone, error)
	UpsertZones(ctx context.Context, zones []models.Zone) error
	ListZones(ctx context.Context) ([]models.Zone, error)
	Close() error
}

func main() {
	// Command line flags
	dbPath := flag.String("db", "data/parking.db", "Path to SQLite database")
	zonesFile := flag.String("zones", "", "YAML zone catalog (embedded Seattle catalog if empty)")
	databaseURL := flag.String("database-url", os.Getenv("DATABASE_URL"), "Postgres URL; overrides -db when set")
	dryRun := flag.Bool("dry-run", false, "Validate the catalog without writing")
	flag.Parse()

	log := logging.Component(logging.New(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT")), "seed-zones")

	file, err := config.LoadCatalog(*zonesFile)
	if err != nil {
		log.WithError(err).Fatal("Failed to load zone catalog")
	}

	seed := file.ModelZones()
	catalog, err := zones.NewCatalog(seed)
	if err != nil {
		log.WithError(err).Fatal("Zone catalog is invalid")
	}
	log.WithFields(logrus.Fields{
		"zones":   catalog.Len(),
		"aliases": len(file.EventZoneAliases),
	}).Info("Catalog validated")

	if *dryRun {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var store zoneWriter
	if *databaseURL != "" {
		store, err = repository.NewPostgresZoneRepository(ctx, *databaseURL)
	} else {
		var db *repository.SQLiteDB
		if db, err = repository.NewSQLiteDB(*dbPath); err == nil {
			store = repository.NewSQLiteZoneRepository(db)
		}
	}
	if err != nil {
		log.WithError(err).Fatal("Failed to open database")
	}
	defer store.Close()

	stored, err := seedZones(ctx, store, seed, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to seed zones")
	}
	for _, z := range stored {
		log.WithFields(logrus.Fields{
			"id":       z.ID,
			"category": z.Category,
			"capacity": z.Capacity,
		}).Debug(z.Name)
	}
	log.WithField("zones", len(stored)).Info("SUCCESS: zones seeded")
}

// seedZones upserts the catalog zones and returns the stored table
func seedZones(ctx context.Context, store zoneWriter, seed []models.Zone, log logrus.FieldLogger) ([]models.Zone, error) {
	// Ensure schema exists (creates tables if needed)
	if err := store.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	var inserted, updated int
	for _, z := range seed {
		_, err := store.GetZone(ctx, z.ID)
		switch {
		case errors.Is(err, models.ErrZoneNotFound):
			inserted++
		case err != nil:
			return nil, err
		default:
			updated++
		}
	}

	if err := store.UpsertZones(ctx, seed); err != nil {
		return nil, fmt.Errorf("failed to write zones: %w", err)
	}
	log.WithFields(logrus.Fields{
		"inserted": inserted,
		"updated":  updated,
	}).Info("Zones written")

	stored, err := store.ListZones(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read back zones: %w", err)
	}
	return stored, nil
}
