package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/you/parkcast/models"
)

const postgresSchemaSQL = `
	CREATE TABLE IF NOT EXISTS zones (
		id            INTEGER PRIMARY KEY,
		name          TEXT             NOT NULL,
		latitude      DOUBLE PRECISION NOT NULL,
		longitude     DOUBLE PRECISION NOT NULL,
		category      TEXT             NOT NULL,
		capacity      INTEGER          NOT NULL DEFAULT 20,
		description   TEXT,
		model_zone_id TEXT,
		updated_at    TIMESTAMPTZ      NOT NULL DEFAULT now()
	)`

// PostgresZoneRepository reads zone reference data from Postgres
type PostgresZoneRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresZoneRepository(ctx context.Context, databaseURL string) (*PostgresZoneRepository, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresZoneRepository{pool: pool}, nil
}

func (r *PostgresZoneRepository) Close() error {
	r.pool.Close()
	return nil
}

func (r *PostgresZoneRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *PostgresZoneRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, postgresSchemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

func (r *PostgresZoneRepository) ListZones(ctx context.Context) ([]models.Zone, error) {
	query := `
		SELECT id, name, latitude, longitude, category, capacity, description, model_zone_id
		FROM zones
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query zones: %w", err)
	}
	defer rows.Close()

	var zones []models.Zone
	for rows.Next() {
		z, err := scanZone(rows)
		if err != nil {
			return nil, err
		}
		zones = append(zones, z)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating zones: %w", err)
	}

	return zones, nil
}

func (r *PostgresZoneRepository) GetZone(ctx context.Context, id int) (models.Zone, error) {
	query := `
		SELECT id, name, latitude, longitude, category, capacity, description, model_zone_id
		FROM zones
		WHERE id = $1
	`

	z, err := scanZone(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Zone{}, fmt.Errorf("%w: %d", models.ErrZoneNotFound, id)
	}
	if err != nil {
		return models.Zone{}, err
	}
	return z, nil
}

func (r *PostgresZoneRepository) UpsertZones(ctx context.Context, zones []models.Zone) error {
	query := `
		INSERT INTO zones (id, name, latitude, longitude, category, capacity, description, model_zone_id, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			category = EXCLUDED.category,
			capacity = EXCLUDED.capacity,
			description = EXCLUDED.description,
			model_zone_id = EXCLUDED.model_zone_id,
			updated_at = now()
	`

	batch := &pgx.Batch{}
	for _, z := range zones {
		batch.Queue(query, z.ID, z.Name, z.Latitude, z.Longitude, string(z.Category), z.Capacity, z.Description, z.ModelZoneID)
	}

	if err := r.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to upsert zones: %w", err)
	}
	return nil
}

func scanZone(row pgx.Row) (models.Zone, error) {
	var (
		z        models.Zone
		category string
	)
	err := row.Scan(
		&z.ID,
		&z.Name,
		&z.Latitude,
		&z.Longitude,
		&category,
		&z.Capacity,
		&z.Description,
		&z.ModelZoneID,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Zone{}, err
	}
	if err != nil {
		return models.Zone{}, fmt.Errorf("failed to scan zone: %w", err)
	}
	z.Category = models.Category(category)
	return z, nil
}
