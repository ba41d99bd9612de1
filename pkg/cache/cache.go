package cache

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"time"
)

// Item is a cache entry.
type Item struct {
	Key   string
	Value []byte
	// Hit reports whether the item was found in the pool.
	Hit bool
}

// ExpiresAt is not supported.
func (Item) ExpiresAt(time.Time) error {
	return &UnsupportedError{Op: "expires at"}
}

// ExpiresAfter is not supported.
func (Item) ExpiresAfter(time.Duration) error {
	return &UnsupportedError{Op: "expires after"}
}

// Pool is a key-value store of opaque blobs.
type Pool interface {
	// Has reports whether key is present.
	Has(ctx context.Context, key string) (bool, error)
	// Get returns the item for key. A missing key is not an error: the
	// returned item has Hit set to false.
	Get(ctx context.Context, key string) (Item, error)
	// GetMany returns items in the order of keys.
	GetMany(ctx context.Context, keys ...string) ([]Item, error)
	// Save stores item.Value under item.Key.
	Save(ctx context.Context, item Item) error
	// Delete removes key. A missing key is not an error.
	Delete(ctx context.Context, key string) error
	DeleteMany(ctx context.Context, keys ...string) error
	// Clear removes every entry.
	Clear(ctx context.Context) error
	// SaveDeferred is not supported by any backend.
	SaveDeferred(ctx context.Context, item Item) error
	// Commit is not supported by any backend.
	Commit(ctx context.Context) error
	Close() error
}

// Swapper is implemented by pools that can update a key conditionally.
type Swapper interface {
	// CompareAndSwap stores next under key if the current value equals old.
	// When existed is false the swap only succeeds if key is absent.
	CompareAndSwap(ctx context.Context, key string, old, next []byte, existed bool) (bool, error)
}

// HashKey returns the hex MD5 digest of key, safe for file and object names.
func HashKey(key string) string {
	sum := md5.Sum([]byte(key))
	return hex.EncodeToString(sum[:])
}

// GetEach implements GetMany on top of Get for backends without a batch read.
func GetEach(ctx context.Context, p Pool, keys []string) ([]Item, error) {
	items := make([]Item, 0, len(keys))
	for _, key := range keys {
		item, err := p.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// DeleteEach implements DeleteMany on top of Delete.
func DeleteEach(ctx context.Context, p Pool, keys []string) error {
	for _, key := range keys {
		if err := p.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

// ValidateKey rejects keys no backend can store.
func ValidateKey(key string) error {
	if key == "" {
		return &ValidationError{Field: "key", Message: "must not be empty"}
	}
	return nil
}
