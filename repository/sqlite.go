package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/you/parkcast/models"

	_ "modernc.org/sqlite"
)

// schemaSQL holds the zone store schema, shared by EnsureSchema and the seed tool.
//
//go:embed schema.sql
var schemaSQL string

// SQLiteDB wraps a SQL database connection for SQLite
type SQLiteDB struct {
	db      *sqlx.DB
	writeMu sync.Mutex // serializes writers; SQLite allows one at a time
}

// NewSQLiteDB creates a new SQLite database connection with WAL enabled
func NewSQLiteDB(dbPath string) (*SQLiteDB, error) {
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteDB{db: db}, nil
}

// EnsureSchema creates the tables if they do not exist
func (s *SQLiteDB) EnsureSchema(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// Ping checks that the database is reachable
func (s *SQLiteDB) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection
func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

// SQLiteZoneRepository reads and writes zone reference data in SQLite
type SQLiteZoneRepository struct {
	store *SQLiteDB
}

// NewSQLiteZoneRepository creates a new SQLiteZoneRepository
func NewSQLiteZoneRepository(store *SQLiteDB) *SQLiteZoneRepository {
	return &SQLiteZoneRepository{store: store}
}

const selectZonesSQL = `
	SELECT
		id,
		name,
		latitude,
		longitude,
		category,
		capacity,
		description,
		model_zone_id
	FROM zones`

// ListZones returns every zone ordered by id
func (r *SQLiteZoneRepository) ListZones(ctx context.Context) ([]models.Zone, error) {
	var zones []models.Zone
	if err := r.store.db.SelectContext(ctx, &zones, selectZonesSQL+" ORDER BY id"); err != nil {
		return nil, fmt.Errorf("failed to query zones: %w", err)
	}
	return zones, nil
}

// GetZone returns one zone or models.ErrZoneNotFound
func (r *SQLiteZoneRepository) GetZone(ctx context.Context, id int) (models.Zone, error) {
	var z models.Zone
	err := r.store.db.GetContext(ctx, &z, selectZonesSQL+" WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Zone{}, fmt.Errorf("%w: %d", models.ErrZoneNotFound, id)
	}
	if err != nil {
		return models.Zone{}, fmt.Errorf("failed to query zone %d: %w", id, err)
	}
	return z, nil
}

const upsertZoneSQL = `
	INSERT INTO zones (id, name, latitude, longitude, category, capacity, description, model_zone_id, updated_at)
	VALUES (:id, :name, :latitude, :longitude, :category, :capacity, :description, :model_zone_id, CURRENT_TIMESTAMP)
	ON CONFLICT(id) DO UPDATE SET
		name = excluded.name,
		latitude = excluded.latitude,
		longitude = excluded.longitude,
		category = excluded.category,
		capacity = excluded.capacity,
		description = excluded.description,
		model_zone_id = excluded.model_zone_id,
		updated_at = CURRENT_TIMESTAMP`

// UpsertZones inserts or updates zones in one transaction
func (r *SQLiteZoneRepository) UpsertZones(ctx context.Context, zones []models.Zone) error {
	r.store.writeMu.Lock()
	defer r.store.writeMu.Unlock()

	tx, err := r.store.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareNamedContext(ctx, upsertZoneSQL)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, z := range zones {
		if _, err := stmt.ExecContext(ctx, z); err != nil {
			return fmt.Errorf("failed to upsert zone %d: %w", z.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit zones: %w", err)
	}
	return nil
}

// EnsureSchema creates the zone tables if they do not exist
func (r *SQLiteZoneRepository) EnsureSchema(ctx context.Context) error {
	return r.store.EnsureSchema(ctx)
}

// Ping checks that the zone store is reachable
func (r *SQLiteZoneRepository) Ping(ctx context.Context) error {
	return r.store.Ping(ctx)
}

// Close closes the underlying database
func (r *SQLiteZoneRepository) Close() error {
	return r.store.Close()
}
