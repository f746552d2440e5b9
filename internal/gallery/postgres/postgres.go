// Package postgres provides a PostgreSQL/pgvector-backed gallery store for
// deployments that outgrow the JSON file. It keeps the same wholesale
// load/save contract: Save replaces the whole table inside one transaction,
// so readers never observe a half-written gallery.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/lib/pq"
	"github.com/pgvector/pgvector-go"

	"github.com/faceattend/faceattend/internal/config"
	"github.com/faceattend/faceattend/internal/gallery"
)

// Store is a gallery.Store backed by PostgreSQL.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open connects to PostgreSQL, runs migrations and returns a gallery store.
func Open(cfg *config.DatabaseConfig) (*Store, error) {
	if cfg == nil || cfg.URL == "" {
		return nil, errors.New("database URL is required")
	}

	db, err := sql.Open("postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Hour)
	db.SetConnMaxIdleTime(10 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: pinging database: %v", gallery.ErrUnavailable, err)
	}

	s := &Store{db: db}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the connection pool.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("closing database connection: %w", err)
	}
	return nil
}

func (s *Store) migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		return fmt.Errorf("%w: creating vector extension: %v", gallery.ErrUnavailable, err)
	}

	// seq is the global enrollment order, position the order within an
	// identity. Both matter: recognition tie-breaks follow them.
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS gallery_vectors (
			seq        BIGSERIAL PRIMARY KEY,
			name       VARCHAR(255) NOT NULL,
			position   INTEGER NOT NULL,
			embedding  vector NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			UNIQUE(name, position)
		)
	`)
	if err != nil {
		return fmt.Errorf("%w: creating gallery_vectors table: %v", gallery.ErrUnavailable, err)
	}

	_, err = s.db.ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS gallery_vectors_name_idx ON gallery_vectors(name)
	`)
	if err != nil {
		return fmt.Errorf("%w: creating name index: %v", gallery.ErrUnavailable, err)
	}
	return nil
}

// Load reads all vectors in enrollment order and rebuilds the gallery.
func (s *Store) Load(ctx context.Context) (*gallery.Gallery, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, embedding
		FROM gallery_vectors
		ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: querying gallery: %v", gallery.ErrUnavailable, err)
	}
	defer rows.Close()

	g := gallery.New()
	for rows.Next() {
		var name string
		var vec pgvector.Vector
		if err := rows.Scan(&name, &vec); err != nil {
			return nil, fmt.Errorf("%w: scanning gallery row: %v", gallery.ErrCorrupt, err)
		}
		g.Append(name, gallery.Vector(vec.Slice()))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading gallery rows: %v", gallery.ErrUnavailable, err)
	}
	// The vector column has no fixed dimension, so the database cannot
	// enforce the gallery-wide one.
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// Save replaces the whole table with the given gallery in one transaction.
func (s *Store) Save(ctx context.Context, g *gallery.Gallery) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: beginning transaction: %v", gallery.ErrUnavailable, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM gallery_vectors"); err != nil {
		return fmt.Errorf("%w: clearing gallery: %v", gallery.ErrUnavailable, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO gallery_vectors (name, position, embedding)
		VALUES ($1, $2, $3)
	`)
	if err != nil {
		return fmt.Errorf("%w: preparing insert: %v", gallery.ErrUnavailable, err)
	}
	defer stmt.Close()

	for _, name := range g.Names() {
		for pos, v := range g.Samples(name) {
			vec := pgvector.NewVector(v)
			if _, err := stmt.ExecContext(ctx, name, pos, vec); err != nil {
				return fmt.Errorf("%w: inserting vector for %q: %v", gallery.ErrUnavailable, name, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: committing gallery: %v", gallery.ErrUnavailable, err)
	}
	return nil
}
