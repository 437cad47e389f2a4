package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const documentsSchema = `
	CREATE TABLE IF NOT EXISTS documents (
		collection TEXT        NOT NULL,
		id         TEXT        NOT NULL,
		data       JSONB       NOT NULL DEFAULT '{}'::jsonb,
		inserted   TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (collection, id)
	)
`

// PostgresStore keeps documents as JSONB rows in a single table
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates the documents table if needed. The store owns
// the pool from here on; it is closed on failure and by Close.
func NewPostgresStore(ctx context.Context, pool *pgxpool.Pool) (*PostgresStore, error) {
	if _, err := pool.Exec(ctx, documentsSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating documents table: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) List(ctx context.Context, collection string, filters ...Filter) ([]Document, error) {
	match := make(map[string]any, len(filters))
	for _, f := range filters {
		match[f.Field] = f.Value
	}
	matchJSON, err := json.Marshal(match)
	if err != nil {
		return nil, fmt.Errorf("encoding filters: %w", err)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, data FROM documents
		WHERE collection = $1 AND data @> $2::jsonb
		ORDER BY inserted ASC
	`, collection, string(matchJSON))
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w: %w", collection, ErrStorage, err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var id string
		var raw []byte
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("scanning %s row: %w: %w", collection, ErrStorage, err)
		}
		fields, err := decodeFields(raw)
		if err != nil {
			return nil, err
		}
		docs = append(docs, Document{ID: id, Fields: fields})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing %s: %w: %w", collection, ErrStorage, err)
	}
	return docs, nil
}

func (s *PostgresStore) Get(ctx context.Context, collection, id string) (*Document, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `
		SELECT data FROM documents WHERE collection = $1 AND id = $2
	`, collection, id).Scan(&raw)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting %s/%s: %w: %w", collection, id, ErrStorage, err)
	}
	fields, err := decodeFields(raw)
	if err != nil {
		return nil, err
	}
	return &Document{ID: id, Fields: fields}, nil
}

func (s *PostgresStore) Add(ctx context.Context, collection string, fields map[string]any) (string, error) {
	data := copyFields(fields)
	data[CreatedAtField] = time.Now().UTC()

	id := uuid.NewString()
	if err := s.Set(ctx, collection, id, data); err != nil {
		return "", err
	}
	return id, nil
}

func (s *PostgresStore) Set(ctx context.Context, collection, id string, fields map[string]any) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encoding %s/%s: %w", collection, id, err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO documents (collection, id, data)
		VALUES ($1, $2, $3::jsonb)
		ON CONFLICT (collection, id) DO UPDATE SET data = EXCLUDED.data
	`, collection, id, string(raw))
	if err != nil {
		return fmt.Errorf("setting %s/%s: %w: %w", collection, id, ErrStorage, err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, collection, id string, patch map[string]any) error {
	raw, err := json.Marshal(patch)
	if err != nil {
		return fmt.Errorf("encoding patch for %s/%s: %w", collection, id, err)
	}
	tag, err := s.pool.Exec(ctx, `
		UPDATE documents SET data = data || $3::jsonb
		WHERE collection = $1 AND id = $2
	`, collection, id, string(raw))
	if err != nil {
		return fmt.Errorf("updating %s/%s: %w: %w", collection, id, ErrStorage, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("updating %s/%s: %w", collection, id, ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, collection, id string) error {
	_, err := s.pool.Exec(ctx, `
		DELETE FROM documents WHERE collection = $1 AND id = $2
	`, collection, id)
	if err != nil {
		return fmt.Errorf("deleting %s/%s: %w: %w", collection, id, ErrStorage, err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func decodeFields(raw []byte) (map[string]any, error) {
	fields := make(map[string]any)
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("decoding document: %w: %w", ErrStorage, err)
	}
	return fields, nil
}
