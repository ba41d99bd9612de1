// Package postgres provides a cache.Pool stored in a PostgreSQL table.
//
// The table is created on first use:
//
//	CREATE TABLE IF NOT EXISTS mockrr_cache (
//	    key        TEXT PRIMARY KEY,
//	    value      BYTEA NOT NULL,
//	    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
//	)
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/getmockd/mockrr/pkg/cache"
)

// DefaultTable is the table used when none is given.
const DefaultTable = "mockrr_cache"

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Pool is a cache.Pool backed by one PostgreSQL table.
type Pool struct {
	db     *sql.DB
	table  string
	ownsDB bool

	schemaMu    sync.Mutex
	schemaReady bool
}

// Option configures a Pool.
type Option func(*Pool)

// WithTable sets the table name.
func WithTable(name string) Option {
	return func(p *Pool) {
		p.table = name
	}
}

// Open connects to dsn with the pgx driver.
func Open(ctx context.Context, dsn string, opts ...Option) (*Pool, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, &cache.ValidationError{Field: "dsn", Message: "is required"}
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, &cache.StorageError{Op: "open", Err: err}
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, &cache.StorageError{Op: "open", Err: err}
	}
	p, err := New(db, opts...)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	p.ownsDB = true
	return p, nil
}

// New wraps an existing database handle. Close leaves db open.
func New(db *sql.DB, opts ...Option) (*Pool, error) {
	if db == nil {
		return nil, &cache.ValidationError{Field: "db", Message: "is required"}
	}
	p := &Pool{db: db, table: DefaultTable}
	for _, opt := range opts {
		opt(p)
	}
	if !identRe.MatchString(p.table) {
		return nil, &cache.ValidationError{Field: "table", Message: fmt.Sprintf("%q is not a valid identifier", p.table)}
	}
	return p, nil
}

func (p *Pool) ensureSchema(ctx context.Context) error {
	p.schemaMu.Lock()
	defer p.schemaMu.Unlock()
	if p.schemaReady {
		return nil
	}
	_, err := p.db.ExecContext(ctx, fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		key        TEXT PRIMARY KEY,
		value      BYTEA NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`, p.table))
	if err != nil {
		return &cache.StorageError{Op: "create table", Err: err}
	}
	p.schemaReady = true
	return nil
}

func (p *Pool) Has(ctx context.Context, key string) (bool, error) {
	if err := p.ensureSchema(ctx); err != nil {
		return false, err
	}
	var ok bool
	err := p.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM %s WHERE key = $1)`, p.table), key).Scan(&ok)
	if err != nil {
		return false, &cache.StorageError{Op: "has", Key: key, Err: err}
	}
	return ok, nil
}

func (p *Pool) Get(ctx context.Context, key string) (cache.Item, error) {
	if err := p.ensureSchema(ctx); err != nil {
		return cache.Item{}, err
	}
	var value []byte
	err := p.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT value FROM %s WHERE key = $1`, p.table), key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return cache.Item{Key: key}, nil
	}
	if err != nil {
		return cache.Item{}, &cache.StorageError{Op: "get", Key: key, Err: err}
	}
	return cache.Item{Key: key, Value: value, Hit: true}, nil
}

// GetMany reads all keys in a single query.
func (p *Pool) GetMany(ctx context.Context, keys ...string) ([]cache.Item, error) {
	if len(keys) == 0 {
		return []cache.Item{}, nil
	}
	if err := p.ensureSchema(ctx); err != nil {
		return nil, err
	}
	rows, err := p.db.QueryContext(ctx, fmt.Sprintf(`SELECT key, value FROM %s WHERE key = ANY($1)`, p.table), keys)
	if err != nil {
		return nil, &cache.StorageError{Op: "get many", Err: err}
	}
	defer rows.Close()

	found := make(map[string][]byte, len(keys))
	for rows.Next() {
		var key string
		var value []byte
		if err := rows.Scan(&key, &value); err != nil {
			return nil, &cache.StorageError{Op: "get many", Err: err}
		}
		found[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, &cache.StorageError{Op: "get many", Err: err}
	}

	items := make([]cache.Item, len(keys))
	for i, key := range keys {
		value, ok := found[key]
		items[i] = cache.Item{Key: key, Value: value, Hit: ok}
	}
	return items, nil
}

func (p *Pool) Save(ctx context.Context, item cache.Item) error {
	if err := cache.ValidateKey(item.Key); err != nil {
		return err
	}
	if err := p.ensureSchema(ctx); err != nil {
		return err
	}
	_, err := p.db.ExecContext(ctx, fmt.Sprintf(`INSERT INTO %s (key, value, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`, p.table),
		item.Key, nonNil(item.Value))
	if err != nil {
		return &cache.StorageError{Op: "save", Key: item.Key, Err: err}
	}
	return nil
}

func (p *Pool) Delete(ctx context.Context, key string) error {
	if err := p.ensureSchema(ctx); err != nil {
		return err
	}
	if _, err := p.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE key = $1`, p.table), key); err != nil {
		return &cache.StorageError{Op: "delete", Key: key, Err: err}
	}
	return nil
}

func (p *Pool) DeleteMany(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := p.ensureSchema(ctx); err != nil {
		return err
	}
	if _, err := p.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE key = ANY($1)`, p.table), keys); err != nil {
		return &cache.StorageError{Op: "delete many", Err: err}
	}
	return nil
}

func (p *Pool) Clear(ctx context.Context) error {
	if err := p.ensureSchema(ctx); err != nil {
		return err
	}
	if _, err := p.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s`, p.table)); err != nil {
		return &cache.StorageError{Op: "clear", Err: err}
	}
	return nil
}

func (p *Pool) SaveDeferred(ctx context.Context, item cache.Item) error {
	return &cache.UnsupportedError{Op: "save deferred"}
}

func (p *Pool) Commit(ctx context.Context) error {
	return &cache.UnsupportedError{Op: "commit"}
}

// Close closes the database handle if the pool opened it.
func (p *Pool) Close() error {
	if !p.ownsDB {
		return nil
	}
	return p.db.Close()
}

// CompareAndSwap implements cache.Swapper with conditional statements.
func (p *Pool) CompareAndSwap(ctx context.Context, key string, old, next []byte, existed bool) (bool, error) {
	if err := cache.ValidateKey(key); err != nil {
		return false, err
	}
	if err := p.ensureSchema(ctx); err != nil {
		return false, err
	}
	var res sql.Result
	var err error
	if existed {
		res, err = p.db.ExecContext(ctx, fmt.Sprintf(`UPDATE %s SET value = $2, updated_at = now() WHERE key = $1 AND value = $3`, p.table),
			key, nonNil(next), nonNil(old))
	} else {
		res, err = p.db.ExecContext(ctx, fmt.Sprintf(`INSERT INTO %s (key, value, updated_at) VALUES ($1, $2, now()) ON CONFLICT (key) DO NOTHING`, p.table),
			key, nonNil(next))
	}
	if err != nil {
		return false, &cache.StorageError{Op: "compare and swap", Key: key, Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, &cache.StorageError{Op: "compare and swap", Key: key, Err: err}
	}
	return n == 1, nil
}

// nonNil keeps empty values from being sent as NULL.
func nonNil(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return b
}

var (
	_ cache.Pool    = (*Pool)(nil)
	_ cache.Swapper = (*Pool)(nil)
)
