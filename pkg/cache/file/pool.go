// Package file provides a cache.Pool that stores one file per key.
//
// Files are named after the MD5 digest of the key and hold a length-prefixed
// blob: a 4-byte big-endian key length, the key, then the value. Writes go to
// a temporary file that is renamed into place, so readers never observe a
// partial blob.
package file

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/getmockd/mockrr/pkg/cache"
	"github.com/getmockd/mockrr/pkg/logging"
)

// ext marks files owned by the pool so Clear leaves foreign files alone.
const ext = ".mockrr"

// Pool is a directory-backed cache.Pool.
type Pool struct {
	dir    string
	closed atomic.Bool
	log    *slog.Logger
}

// Option configures a Pool.
type Option func(*Pool)

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(p *Pool) {
		if log != nil {
			p.log = log
		}
	}
}

// New creates a pool in dir, which must be an existing writable directory.
// An empty dir uses the system temporary directory.
func New(dir string, opts ...Option) (*Pool, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	fi, err := os.Stat(dir)
	if err != nil {
		return nil, &cache.ValidationError{Field: "dir", Message: fmt.Sprintf("%s: %v", dir, err)}
	}
	if !fi.IsDir() {
		return nil, &cache.ValidationError{Field: "dir", Message: dir + " is not a directory"}
	}
	probe, err := os.CreateTemp(dir, ".probe-*")
	if err != nil {
		return nil, &cache.ValidationError{Field: "dir", Message: dir + " is not writable"}
	}
	_ = probe.Close()
	_ = os.Remove(probe.Name())

	p := &Pool{dir: dir, log: logging.Nop()}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Dir returns the pool directory.
func (p *Pool) Dir() string {
	return p.dir
}

func (p *Pool) path(key string) string {
	return filepath.Join(p.dir, cache.HashKey(key)+ext)
}

func (p *Pool) check(op, key string) error {
	if p.closed.Load() {
		return &cache.StorageError{Op: op, Key: key, Err: cache.ErrClosed}
	}
	return nil
}

func (p *Pool) Has(ctx context.Context, key string) (bool, error) {
	if err := p.check("has", key); err != nil {
		return false, err
	}
	_, err := os.Stat(p.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, &cache.StorageError{Op: "has", Key: key, Err: err}
	}
	return true, nil
}

func (p *Pool) Get(ctx context.Context, key string) (cache.Item, error) {
	if err := p.check("get", key); err != nil {
		return cache.Item{}, err
	}
	raw, err := os.ReadFile(p.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return cache.Item{Key: key}, nil
	}
	if err != nil {
		return cache.Item{}, &cache.StorageError{Op: "get", Key: key, Err: err}
	}
	stored, value, err := decode(raw)
	if err != nil {
		return cache.Item{}, &cache.StorageError{Op: "get", Key: key, Err: err}
	}
	if stored != key {
		return cache.Item{}, &cache.StorageError{Op: "get", Key: key, Err: fmt.Errorf("file holds key %q", stored)}
	}
	return cache.Item{Key: key, Value: value, Hit: true}, nil
}

func (p *Pool) GetMany(ctx context.Context, keys ...string) ([]cache.Item, error) {
	return cache.GetEach(ctx, p, keys)
}

func (p *Pool) Save(ctx context.Context, item cache.Item) error {
	if err := cache.ValidateKey(item.Key); err != nil {
		return err
	}
	if err := p.check("save", item.Key); err != nil {
		return err
	}
	if err := p.write(item.Key, encode(item.Key, item.Value)); err != nil {
		return &cache.StorageError{Op: "save", Key: item.Key, Err: err}
	}
	return nil
}

// write stores data atomically: temp file first, then rename.
func (p *Pool) write(key string, data []byte) error {
	tmp, err := os.CreateTemp(p.dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, p.path(key)); err != nil {
		_ = os.Remove(tmpName) // Clean up temp file on failure
		return err
	}
	return nil
}

func (p *Pool) Delete(ctx context.Context, key string) error {
	if err := p.check("delete", key); err != nil {
		return err
	}
	err := os.Remove(p.path(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &cache.StorageError{Op: "delete", Key: key, Err: err}
	}
	return nil
}

func (p *Pool) DeleteMany(ctx context.Context, keys ...string) error {
	return cache.DeleteEach(ctx, p, keys)
}

// Clear removes every entry file. Other files in the directory are kept.
func (p *Pool) Clear(ctx context.Context) error {
	if err := p.check("clear", ""); err != nil {
		return err
	}
	entries, err := os.ReadDir(p.dir)
	if err != nil {
		return &cache.StorageError{Op: "clear", Err: err}
	}
	removed := 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ext) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := os.Remove(filepath.Join(p.dir, e.Name())); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return &cache.StorageError{Op: "clear", Err: err}
		}
		removed++
	}
	p.log.Debug("cache cleared", "dir", p.dir, "removed", removed)
	return nil
}

func (p *Pool) SaveDeferred(ctx context.Context, item cache.Item) error {
	return &cache.UnsupportedError{Op: "save deferred"}
}

func (p *Pool) Commit(ctx context.Context) error {
	return &cache.UnsupportedError{Op: "commit"}
}

func (p *Pool) Close() error {
	p.closed.Store(true)
	return nil
}

func encode(key string, value []byte) []byte {
	buf := make([]byte, 4+len(key)+len(value))
	binary.BigEndian.PutUint32(buf, uint32(len(key)))
	copy(buf[4:], key)
	copy(buf[4+len(key):], value)
	return buf
}

func decode(raw []byte) (string, []byte, error) {
	if len(raw) < 4 {
		return "", nil, errors.New("truncated header")
	}
	n := int(binary.BigEndian.Uint32(raw))
	if len(raw)-4 < n {
		return "", nil, errors.New("truncated key")
	}
	return string(raw[4 : 4+n]), raw[4+n:], nil
}

var _ cache.Pool = (*Pool)(nil)
