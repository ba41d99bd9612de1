// Package mockrr maps identifiers to cached mock resources.
//
// A Mockrr turns loosely typed input (maps, structs, callbacks, file paths or
// text) into resources through a resource.Registry and persists them in a
// cache.Pool so that repeated requests for the same identifier return the
// same content:
//
//	pool, _ := file.New("/var/cache/mockrr")
//	m, _ := mockrr.New(pool)
//
//	res, err := m.Once(ctx, mockrr.ResourceID("user", 7), map[string]any{"id": 7})
//
// # Operations
//
//   - Generate builds a resource without caching it.
//   - Once returns the cached resource for an id, generating and caching it
//     on the first call only.
//   - Sequence rotates through a list of inputs: every id that misses the
//     cache takes the next input of the named sequence.
//   - Update merges new data into the cached resource, or generates it.
//   - Cached, CachedList, CachedVersion and CachedVersions read back state.
//
// # Reserved keys
//
// Bookkeeping shares the pool keyspace with resource ids:
//
//	resources.cached       index of cached ids and their last write time
//	seq_idx_<name>         cursor of a sequence
//	resource.versions      index of version snapshots
//	resource.version.<ts>  a version snapshot
//
// Ids that collide with these keys are rejected.
//
// # Concurrency
//
// Writers in one process are serialized per key. Once deduplicates
// concurrent generations for the same id. When the pool implements
// cache.Swapper, index and cursor updates use compare-and-swap so processes
// sharing a backend do not lose updates.
package mockrr
