package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps every collection in a single JSONB table
// (see migrations/001_documents.sql).
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore builds the store on an existing pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Get(ctx context.Context, collection, id string) (*Document, error) {
	const query = `
        SELECT data FROM documents WHERE collection=$1 AND id=$2`

	var fields map[string]any
	if err := s.pool.QueryRow(ctx, query, collection, id).Scan(&fields); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return &Document{ID: id, Fields: fields}, nil
}

func (s *PostgresStore) Query(ctx context.Context, collection string, q Query) ([]Document, error) {
	var sb strings.Builder
	args := []any{collection}
	sb.WriteString(`SELECT id, data FROM documents WHERE collection=$1`)

	if len(q.Filters) > 0 {
		filter, err := json.Marshal(filtersToFields(q.Filters))
		if err != nil {
			return nil, fmt.Errorf("encode filter: %w", err)
		}
		args = append(args, string(filter))
		sb.WriteString(` AND data @> $` + strconv.Itoa(len(args)) + `::jsonb`)
	}

	dir := "ASC"
	if q.Descending {
		dir = "DESC"
	}
	if q.OrderBy != "" {
		args = append(args, q.OrderBy)
		sb.WriteString(` ORDER BY data->>($` + strconv.Itoa(len(args)) + `::text) ` + dir + `, created_at ` + dir)
	} else {
		sb.WriteString(` ORDER BY created_at ASC, id ASC`)
	}
	if q.Limit > 0 {
		args = append(args, q.Limit)
		sb.WriteString(` LIMIT $` + strconv.Itoa(len(args)))
	}

	rows, err := s.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", collection, err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var doc Document
		if err := rows.Scan(&doc.ID, &doc.Fields); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (s *PostgresStore) Count(ctx context.Context, collection string, filters ...Filter) (int64, error) {
	filter, err := json.Marshal(filtersToFields(filters))
	if err != nil {
		return 0, fmt.Errorf("encode filter: %w", err)
	}
	const query = `
        SELECT COUNT(*) FROM documents WHERE collection=$1 AND data @> $2::jsonb`

	var n int64
	if err := s.pool.QueryRow(ctx, query, collection, string(filter)).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", collection, err)
	}
	return n, nil
}

func (s *PostgresStore) Add(ctx context.Context, collection string, fields Fields) (string, error) {
	data, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("encode document: %w", err)
	}
	const query = `
        INSERT INTO documents (collection, id, data)
        VALUES ($1, $2, $3::jsonb)`

	id := uuid.NewString()
	if _, err := s.pool.Exec(ctx, query, collection, id, string(data)); err != nil {
		return "", fmt.Errorf("insert %s: %w", collection, err)
	}
	return id, nil
}

func (s *PostgresStore) Update(ctx context.Context, collection, id string, patch Fields) error {
	data, err := json.Marshal(patch)
	if err != nil {
		return fmt.Errorf("encode patch: %w", err)
	}
	const query = `
        UPDATE documents SET data = data || $3::jsonb, updated_at = NOW()
        WHERE collection=$1 AND id=$2`

	cmd, err := s.pool.Exec(ctx, query, collection, id, string(data))
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, collection, id string) error {
	const query = `
        DELETE FROM documents WHERE collection=$1 AND id=$2`

	cmd, err := s.pool.Exec(ctx, query, collection, id)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	if s.pool == nil {
		return errors.New("postgres pool not configured")
	}
	return s.pool.Ping(ctx)
}

// Close releases the pool. The context is unused; pgx closes synchronously.
func (s *PostgresStore) Close(context.Context) error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}
