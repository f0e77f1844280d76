package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

const (
	cacheEntriesTable = "cache_entries"
	cacheLatestTable  = "cache_latest"
)

// cacheRepo implements Cache over two tables: cache_entries holds the
// bounded list and cache_latest the single latest slot per namespace.
type cacheRepo struct {
	db        *sql.DB
	namespace string
	capacity  int
}

func (r *cacheRepo) Capacity() int { return r.capacity }

func (r *cacheRepo) Put(ctx context.Context, key string, value json.RawMessage) error {
	ts := time.Now().UnixMilli()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin cache put: %w", err)
	}
	defer tx.Rollback()

	del, args := entsql.Dialect(dialect.SQLite).
		Delete(cacheEntriesTable).
		Where(entsql.And(
			entsql.EQ("namespace", r.namespace),
			entsql.EQ("entry_key", key),
		)).
		Query()
	if _, err := tx.ExecContext(ctx, del, args...); err != nil {
		return fmt.Errorf("replace cache entry: %w", err)
	}

	ins, args := entsql.Dialect(dialect.SQLite).
		Insert(cacheEntriesTable).
		Columns("namespace", "entry_key", "payload", "created_at").
		Values(r.namespace, key, string(value), ts).
		Query()
	if _, err := tx.ExecContext(ctx, ins, args...); err != nil {
		return fmt.Errorf("insert cache entry: %w", err)
	}

	latest, args := entsql.Dialect(dialect.SQLite).
		Insert(cacheLatestTable).
		Columns("namespace", "entry_key", "payload", "created_at").
		Values(r.namespace, key, string(value), ts).
		OnConflict(
			entsql.ConflictColumns("namespace"),
			entsql.ResolveWithNewValues(),
		).
		Query()
	if _, err := tx.ExecContext(ctx, latest, args...); err != nil {
		return fmt.Errorf("update latest slot: %w", err)
	}

	if err := r.evict(ctx, tx); err != nil {
		return err
	}
	return tx.Commit()
}

// evict deletes every entry older than the newest capacity entries.
func (r *cacheRepo) evict(ctx context.Context, tx *sql.Tx) error {
	if r.capacity <= 0 {
		return nil
	}

	// Find the ID threshold: the first entry past capacity.
	q, args := entsql.Dialect(dialect.SQLite).
		Select("id").
		From(entsql.Table(cacheEntriesTable)).
		Where(entsql.EQ("namespace", r.namespace)).
		OrderBy(entsql.Desc("id")).
		Offset(r.capacity).
		Limit(1).
		Query()
	var threshold int64
	err := tx.QueryRowContext(ctx, q, args...).Scan(&threshold)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("query cache for eviction: %w", err)
	}

	del, args := entsql.Dialect(dialect.SQLite).
		Delete(cacheEntriesTable).
		Where(entsql.And(
			entsql.EQ("namespace", r.namespace),
			entsql.LTE("id", threshold),
		)).
		Query()
	if _, err := tx.ExecContext(ctx, del, args...); err != nil {
		return fmt.Errorf("evict cache entries: %w", err)
	}
	return nil
}

func (r *cacheRepo) Get(ctx context.Context, key string) (*CacheEntry, error) {
	q, args := entsql.Dialect(dialect.SQLite).
		Select("entry_key", "payload", "created_at").
		From(entsql.Table(cacheEntriesTable)).
		Where(entsql.And(
			entsql.EQ("namespace", r.namespace),
			entsql.EQ("entry_key", key),
		)).
		Limit(1).
		Query()
	return r.scanOne(r.db.QueryRowContext(ctx, q, args...))
}

func (r *cacheRepo) List(ctx context.Context) ([]CacheEntry, error) {
	q, args := entsql.Dialect(dialect.SQLite).
		Select("entry_key", "payload", "created_at").
		From(entsql.Table(cacheEntriesTable)).
		Where(entsql.EQ("namespace", r.namespace)).
		OrderBy(entsql.Desc("id")).
		Query()
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list cache entries: %w", err)
	}
	defer rows.Close()

	var out []CacheEntry
	for rows.Next() {
		var (
			e       CacheEntry
			payload string
			ms      int64
		)
		if err := rows.Scan(&e.Key, &payload, &ms); err != nil {
			return nil, fmt.Errorf("scan cache entry: %w", err)
		}
		e.Value = json.RawMessage(payload)
		e.CreatedAt = time.UnixMilli(ms).UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *cacheRepo) Latest(ctx context.Context) (*CacheEntry, error) {
	q, args := entsql.Dialect(dialect.SQLite).
		Select("entry_key", "payload", "created_at").
		From(entsql.Table(cacheLatestTable)).
		Where(entsql.EQ("namespace", r.namespace)).
		Query()
	return r.scanOne(r.db.QueryRowContext(ctx, q, args...))
}

func (r *cacheRepo) Clear(ctx context.Context) error {
	for _, table := range []string{cacheEntriesTable, cacheLatestTable} {
		q, args := entsql.Dialect(dialect.SQLite).
			Delete(table).
			Where(entsql.EQ("namespace", r.namespace)).
			Query()
		if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}

func (r *cacheRepo) scanOne(row *sql.Row) (*CacheEntry, error) {
	var (
		e       CacheEntry
		payload string
		ms      int64
	)
	err := row.Scan(&e.Key, &payload, &ms)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan cache entry: %w", err)
	}
	e.Value = json.RawMessage(payload)
	e.CreatedAt = time.UnixMilli(ms).UTC()
	return &e, nil
}
