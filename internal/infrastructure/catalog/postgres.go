package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	pgxvector "github.com/pgvector/pgvector-go/pgx"

	"github.com/zaqa/backend/internal/domain"
)

// PostgresStore is the pgvector-backed catalog store. Catalog rows are
// read-only at request time; sessions only read.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// Connect opens a connection pool against the catalog database and registers
// the pgvector types on every connection.
func Connect(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse catalog database url: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour
	config.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvector.RegisterTypes(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("connect catalog database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping catalog database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Session acquires one pool connection for the duration of a resolution
// batch. The caller must Release it.
func (s *PostgresStore) Session(ctx context.Context) (domain.CatalogSession, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire catalog connection: %w", err)
	}
	return &session{conn: conn}, nil
}

// Close releases the underlying pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// EnsureSchema creates the pgvector extension and the catalog table if they
// do not exist yet. Used by the seeding CLI, not the server.
func (s *PostgresStore) EnsureSchema(ctx context.Context, dimensions int) error {
	if _, err := s.pool.Exec(ctx, `CREATE EXTENSION IF NOT EXISTS vector`); err != nil {
		return fmt.Errorf("create vector extension: %w", err)
	}
	createTable := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS catalog (
			sku text PRIMARY KEY,
			name text,
			description text,
			embedding vector(%d)
		)`, dimensions)
	if _, err := s.pool.Exec(ctx, createTable); err != nil {
		return fmt.Errorf("create catalog table: %w", err)
	}
	return nil
}

// UpsertEntry inserts a catalog row, keeping the existing row on SKU conflict.
func (s *PostgresStore) UpsertEntry(ctx context.Context, entry *domain.CatalogEntry) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO catalog (sku, name, description, embedding)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (sku) DO NOTHING`,
		entry.SKU, entry.Name, entry.Description, pgvector.NewVector(entry.Embedding),
	)
	if err != nil {
		return fmt.Errorf("upsert catalog entry %s: %w", entry.SKU, err)
	}
	return nil
}

// session wraps a single acquired connection.
type session struct {
	conn *pgxpool.Conn
}

// ExactLookup returns the catalog entry whose SKU matches the token verbatim.
func (s *session) ExactLookup(ctx context.Context, sku string) (*domain.CatalogEntry, error) {
	var entry domain.CatalogEntry
	err := s.conn.QueryRow(ctx, `
		SELECT sku, name, description
		FROM catalog
		WHERE sku = $1`, sku,
	).Scan(&entry.SKU, &entry.Name, &entry.Description)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("exact lookup %s: %w", sku, err)
	}

	return &entry, nil
}

// NearestNeighbors returns the k catalog entries closest to the query vector
// by vector distance, nearest first.
func (s *session) NearestNeighbors(ctx context.Context, vector []float32, k int) ([]domain.Neighbor, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT sku, name, embedding <-> $1 AS dist
		FROM catalog
		ORDER BY embedding <-> $1
		LIMIT $2`, pgvector.NewVector(vector), k,
	)
	if err != nil {
		return nil, fmt.Errorf("nearest neighbor query: %w", err)
	}
	defer rows.Close()

	var neighbors []domain.Neighbor
	for rows.Next() {
		var n domain.Neighbor
		if err := rows.Scan(&n.SKU, &n.Name, &n.Distance); err != nil {
			return nil, fmt.Errorf("scan neighbor row: %w", err)
		}
		neighbors = append(neighbors, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read neighbor rows: %w", err)
	}

	return neighbors, nil
}

// Release returns the connection to the pool.
func (s *session) Release() {
	s.conn.Release()
}
