// Package memory provides an in-process cache.Pool backed by a bounded LRU.
package memory

import (
	"bytes"
	"context"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/getmockd/mockrr/pkg/cache"
)

// DefaultSize is the capacity used when none is given.
const DefaultSize = 4096

// Pool is an LRU-bounded in-memory cache.Pool. Entries beyond the capacity
// are evicted least recently used first.
type Pool struct {
	// mu serializes writes so CompareAndSwap is atomic.
	mu      sync.Mutex
	entries *lru.Cache[string, []byte]
}

// New creates a pool holding at most size entries. A size of zero or less
// uses DefaultSize.
func New(size int) (*Pool, error) {
	if size <= 0 {
		size = DefaultSize
	}
	entries, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, &cache.ValidationError{Field: "size", Message: err.Error()}
	}
	return &Pool{entries: entries}, nil
}

// Len returns the number of entries.
func (p *Pool) Len() int {
	return p.entries.Len()
}

func (p *Pool) Has(ctx context.Context, key string) (bool, error) {
	return p.entries.Contains(key), nil
}

func (p *Pool) Get(ctx context.Context, key string) (cache.Item, error) {
	v, ok := p.entries.Get(key)
	if !ok {
		return cache.Item{Key: key}, nil
	}
	return cache.Item{Key: key, Value: bytes.Clone(v), Hit: true}, nil
}

func (p *Pool) GetMany(ctx context.Context, keys ...string) ([]cache.Item, error) {
	return cache.GetEach(ctx, p, keys)
}

func (p *Pool) Save(ctx context.Context, item cache.Item) error {
	if err := cache.ValidateKey(item.Key); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries.Add(item.Key, bytes.Clone(item.Value))
	return nil
}

func (p *Pool) Delete(ctx context.Context, key string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries.Remove(key)
	return nil
}

func (p *Pool) DeleteMany(ctx context.Context, keys ...string) error {
	return cache.DeleteEach(ctx, p, keys)
}

func (p *Pool) Clear(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries.Purge()
	return nil
}

func (p *Pool) SaveDeferred(ctx context.Context, item cache.Item) error {
	return &cache.UnsupportedError{Op: "save deferred"}
}

func (p *Pool) Commit(ctx context.Context) error {
	return &cache.UnsupportedError{Op: "commit"}
}

func (p *Pool) Close() error {
	return nil
}

// CompareAndSwap implements cache.Swapper.
func (p *Pool) CompareAndSwap(ctx context.Context, key string, old, next []byte, existed bool) (bool, error) {
	if err := cache.ValidateKey(key); err != nil {
		return false, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	current, ok := p.entries.Peek(key)
	if ok != existed || (ok && !bytes.Equal(current, old)) {
		return false, nil
	}
	p.entries.Add(key, bytes.Clone(next))
	return true, nil
}

var (
	_ cache.Pool    = (*Pool)(nil)
	_ cache.Swapper = (*Pool)(nil)
)
