// Package sqlite implements the document store on SQLite. Records are kept
// as JSON bodies in a single table; store order is insertion order.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/adfharrison1/go-baas/pkg/domain"
	"github.com/adfharrison1/go-baas/pkg/query"
)

//go:embed schema.sql
var schemaSQL string

var _ domain.DocumentStore = (*Store)(nil)

// Store implements domain.DocumentStore on a SQLite database.
type Store struct {
	db *sql.DB
}

// newUUID generates a UUID v7 string.
func newUUID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Open opens or creates the database at path and applies the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path cannot be empty")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating sqlite directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	// One connection serializes writers and keeps :memory: databases shared.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Query(ctx context.Context, collection string, q domain.Query) ([]domain.Snapshot, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, seq, body FROM documents WHERE collection = ? ORDER BY seq",
		collection,
	)
	if err != nil {
		return nil, fmt.Errorf("querying collection %s: %w", collection, err)
	}
	defer rows.Close()

	var docs []domain.Snapshot
	for rows.Next() {
		var (
			id   string
			seq  int64
			body string
		)
		if err := rows.Scan(&id, &seq, &body); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		snap, err := hydrate(id, seq, body)
		if err != nil {
			return nil, err
		}
		docs = append(docs, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating collection %s: %w", collection, err)
	}

	return query.Apply(docs, q)
}

func (s *Store) Get(ctx context.Context, collection, id string) (domain.Snapshot, error) {
	if id == "" {
		return domain.Snapshot{}, fmt.Errorf("%w: empty document id", domain.ErrInvalidArgument)
	}

	var (
		seq  int64
		body string
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT seq, body FROM documents WHERE collection = ? AND id = ?",
		collection, id,
	).Scan(&seq, &body)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Snapshot{ID: id}, nil
	}
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("getting document %s: %w", id, err)
	}
	return hydrate(id, seq, body)
}

func (s *Store) Add(ctx context.Context, collection string, data domain.Document) (domain.DocumentRef, error) {
	body, err := dehydrate(data)
	if err != nil {
		return domain.DocumentRef{}, err
	}

	id := newUUID()
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO documents (collection, id, body, updated_at) VALUES (?, ?, ?, ?)",
		collection, id, body, now(),
	)
	if err != nil {
		return domain.DocumentRef{}, fmt.Errorf("inserting document: %w", err)
	}
	return domain.DocumentRef{Collection: collection, ID: id}, nil
}

// Set inserts or replaces a record. A replaced record keeps its sequence.
func (s *Store) Set(ctx context.Context, collection, id string, data domain.Document) error {
	if id == "" {
		return fmt.Errorf("%w: empty document id", domain.ErrInvalidArgument)
	}
	body, err := dehydrate(data)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents (collection, id, body, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (collection, id) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		collection, id, body, now(),
	)
	if err != nil {
		return fmt.Errorf("setting document %s: %w", id, err)
	}
	return nil
}

func (s *Store) Update(ctx context.Context, collection, id string, data domain.Document) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var body string
	err = tx.QueryRowContext(ctx,
		"SELECT body FROM documents WHERE collection = ? AND id = ?",
		collection, id,
	).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("document with id %s in collection %s: %w", id, collection, domain.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("reading document %s: %w", id, err)
	}

	var existing domain.Document
	if err := json.Unmarshal([]byte(body), &existing); err != nil {
		return fmt.Errorf("decoding document %s: %w", id, err)
	}
	if existing == nil {
		existing = domain.Document{}
	}
	for key, value := range data {
		existing[key] = value
	}

	merged, err := dehydrate(existing)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE documents SET body = ?, updated_at = ? WHERE collection = ? AND id = ?",
		merged, now(), collection, id,
	); err != nil {
		return fmt.Errorf("updating document %s: %w", id, err)
	}
	return tx.Commit()
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM documents WHERE collection = ? AND id = ?",
		collection, id,
	)
	if err != nil {
		return fmt.Errorf("deleting document %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting document %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("document with id %s in collection %s: %w", id, collection, domain.ErrNotFound)
	}
	return nil
}

func (s *Store) NewID(collection string) string {
	return newUUID()
}

func hydrate(id string, seq int64, body string) (domain.Snapshot, error) {
	var data domain.Document
	if err := json.Unmarshal([]byte(body), &data); err != nil {
		return domain.Snapshot{}, fmt.Errorf("decoding document %s: %w", id, err)
	}
	if data == nil {
		data = domain.Document{}
	}
	return domain.Snapshot{
		ID:       id,
		Data:     data,
		Exists:   true,
		Position: fmt.Sprintf("%020d", seq),
	}, nil
}

func dehydrate(data domain.Document) (string, error) {
	if data == nil {
		data = domain.Document{}
	}
	body, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("%w: document is not JSON encodable: %v", domain.ErrInvalidArgument, err)
	}
	return string(body), nil
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}
