package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// sqliteSessionRepo implements SessionRepo on the sessions table.
type sqliteSessionRepo struct {
	db *sql.DB
}

func (r *sqliteSessionRepo) Load(ctx context.Context, key string) ([]byte, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select("data").
		From(entsql.Table(sessionsTable)).
		Where(entsql.EQ("key", key)).
		Query()

	var data []byte
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session %q: %w", key, err)
	}
	return data, nil
}

func (r *sqliteSessionRepo) Save(ctx context.Context, key string, data []byte) error {
	query, args := entsql.Dialect(dialect.SQLite).
		Insert(sessionsTable).
		Columns("key", "data", "updated_at").
		Values(key, data, time.Now().UTC()).
		OnConflict(
			entsql.ConflictColumns("key"),
			entsql.ResolveWithNewValues(),
		).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save session %q: %w", key, err)
	}
	return nil
}

func (r *sqliteSessionRepo) Delete(ctx context.Context, key string) error {
	query, args := entsql.Dialect(dialect.SQLite).
		Delete(sessionsTable).
		Where(entsql.EQ("key", key)).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete session %q: %w", key, err)
	}
	return nil
}

// MemorySessionRepo keeps sessions in process memory.
type MemorySessionRepo struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewMemorySessionRepo returns an empty in-memory repo.
func NewMemorySessionRepo() *MemorySessionRepo {
	return &MemorySessionRepo{data: map[string][]byte{}}
}

func (r *MemorySessionRepo) Load(_ context.Context, key string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	data, ok := r.data[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), data...), nil
}

func (r *MemorySessionRepo) Save(_ context.Context, key string, data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[key] = append([]byte(nil), data...)
	return nil
}

func (r *MemorySessionRepo) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.data, key)
	return nil
}
