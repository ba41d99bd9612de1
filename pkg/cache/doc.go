// Package cache defines the key-value pool mockrr persists resources in.
//
// A Pool stores opaque byte blobs under string keys. Callers encode their own
// values; the pool never interprets them. Every write is all-or-nothing per
// key: a concurrent reader sees either the previous blob or the new one.
//
// Backends live in subpackages:
//
//   - file: one file per key below a directory (reference implementation)
//   - memory: bounded in-process LRU
//   - postgres: a single table accessed through database/sql and pgx
//   - s3: one object per key in an S3-compatible bucket
//   - etcd: one etcd key per cache key
//
// Expiry and deferred saves are not supported. ExpiresAt, ExpiresAfter,
// SaveDeferred and Commit always fail with an error matching ErrUnsupported.
//
// Backends that can update a key conditionally also implement Swapper, which
// lets callers run read-modify-write cycles without losing concurrent updates.
package cache
