package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/watchlist-screening/sanctions-engine/internal/entity"
)

// Connect opens a Postgres connection for the staging store, tuned for a
// managed Postgres (Neon-style) pooler: short-lived connections,
// simple-protocol query mode so a connection pooler in front of Postgres
// doesn't choke on server-side prepared statements.
func Connect(databaseURL string) (*sqlx.DB, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("ingest: DATABASE_URL is required")
	}

	dbURL := databaseURL
	if parsed, err := url.Parse(dbURL); err == nil {
		q := parsed.Query()
		q.Set("prefer_simple_protocol", "1")
		q.Set("binary_parameters", "yes")
		parsed.RawQuery = q.Encode()
		dbURL = parsed.String()
	} else if !strings.Contains(dbURL, "prefer_simple_protocol") {
		sep := "?"
		if strings.Contains(dbURL, "?") {
			sep = "&"
		}
		dbURL = dbURL + sep + "prefer_simple_protocol=1&binary_parameters=yes"
	}

	db, err := sqlx.Connect("postgres", dbURL)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Second)
	db.SetConnMaxIdleTime(10 * time.Second)

	return db, nil
}

// ConnectFromEnv is a convenience wrapper reading DATABASE_URL.
func ConnectFromEnv() (*sqlx.DB, error) {
	return Connect(os.Getenv("DATABASE_URL"))
}

// Schema is the staging table DDL. Callers run this once at startup (or
// via an external migration); it is not applied automatically.
const Schema = `
CREATE TABLE IF NOT EXISTS entity_staging (
	source      TEXT PRIMARY KEY,
	payload     JSONB NOT NULL,
	entity_count INT NOT NULL,
	staged_at   TIMESTAMPTZ NOT NULL
)`

// PostgresStagingStore durably persists the most recent parsed batch per
// source, keyed by source, so a cold-started process can seed EntityIndex
// before the first live refresh completes. It is a crash-recovery cache,
// not the live corpus.
type PostgresStagingStore struct {
	db *sqlx.DB
}

// NewPostgresStagingStore wraps an existing connection.
func NewPostgresStagingStore(db *sqlx.DB) *PostgresStagingStore {
	return &PostgresStagingStore{db: db}
}

// Stage durably replaces the staged batch for source.
func (s *PostgresStagingStore) Stage(ctx context.Context, source entity.Source, entities []*entity.Entity) error {
	payload, err := json.Marshal(entities)
	if err != nil {
		return fmt.Errorf("ingest: marshal staged batch for %s: %w", source, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO entity_staging (source, payload, entity_count, staged_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (source) DO UPDATE
		SET payload = EXCLUDED.payload,
		    entity_count = EXCLUDED.entity_count,
		    staged_at = EXCLUDED.staged_at
	`, string(source), payload, len(entities), time.Now())
	if err != nil {
		return fmt.Errorf("ingest: stage batch for %s: %w", source, err)
	}
	return nil
}

// stagingRow mirrors the entity_staging table for sqlx scanning.
type stagingRow struct {
	Source      string    `db:"source"`
	Payload     []byte    `db:"payload"`
	EntityCount int       `db:"entity_count"`
	StagedAt    time.Time `db:"staged_at"`
}

// LoadAll returns every staged batch, keyed by source, for cold-start
// seeding of EntityIndex.
func (s *PostgresStagingStore) LoadAll(ctx context.Context) (map[entity.Source][]*entity.Entity, error) {
	var rows []stagingRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT source, payload, entity_count, staged_at FROM entity_staging`); err != nil {
		return nil, fmt.Errorf("ingest: load staged batches: %w", err)
	}

	out := make(map[entity.Source][]*entity.Entity, len(rows))
	for _, row := range rows {
		var entities []*entity.Entity
		if err := json.Unmarshal(row.Payload, &entities); err != nil {
			return nil, fmt.Errorf("ingest: unmarshal staged batch for %s: %w", row.Source, err)
		}
		out[entity.Source(row.Source)] = entities
	}
	return out, nil
}

// Load returns the staged batch for a single source, if any.
func (s *PostgresStagingStore) Load(ctx context.Context, source entity.Source) ([]*entity.Entity, time.Time, error) {
	var row stagingRow
	err := s.db.GetContext(ctx, &row, `SELECT source, payload, entity_count, staged_at FROM entity_staging WHERE source = $1`, string(source))
	if err != nil {
		return nil, time.Time{}, err
	}
	var entities []*entity.Entity
	if err := json.Unmarshal(row.Payload, &entities); err != nil {
		return nil, time.Time{}, fmt.Errorf("ingest: unmarshal staged batch for %s: %w", source, err)
	}
	return entities, row.StagedAt, nil
}
