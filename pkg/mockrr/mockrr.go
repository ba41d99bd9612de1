package mockrr

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/getmockd/mockrr/pkg/cache"
	"github.com/getmockd/mockrr/pkg/logging"
	"github.com/getmockd/mockrr/pkg/metrics"
	"github.com/getmockd/mockrr/pkg/resource"
)

// Mockrr generates resources and caches them by id.
type Mockrr struct {
	pool        cache.Pool
	registry    *resource.Registry
	contentType string
	charset     string
	versioning  bool
	log         *slog.Logger
	metrics     *metrics.Metrics
	now         func() time.Time

	locks   *keyedMutex
	flights singleflight.Group
}

// New creates a Mockrr on top of pool.
func New(pool cache.Pool, opts ...Option) (*Mockrr, error) {
	if pool == nil {
		return nil, &cache.ValidationError{Field: "pool", Message: "is required"}
	}
	m := &Mockrr{
		pool:        pool,
		registry:    resource.NewRegistry(),
		contentType: resource.TypeJSON,
		charset:     resource.DefaultCharset,
		now:         time.Now,
		locks:       newKeyedMutex(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.log = logging.Component(m.log, "mockrr")

	if _, err := m.registry.Handler(m.contentType); err != nil {
		return nil, err
	}
	return m, nil
}

// Registry returns the resource registry.
func (m *Mockrr) Registry() *resource.Registry {
	return m.registry
}

// Versioning reports whether snapshots are kept.
func (m *Mockrr) Versioning() bool {
	return m.versioning
}

// Generate builds a resource from input with the default content type and
// charset. Nothing is cached.
func (m *Mockrr) Generate(input any) (resource.Resource, error) {
	return m.GenerateAs(input, m.contentType, m.charset)
}

// GenerateAs builds a resource from input with the given content type and charset.
func (m *Mockrr) GenerateAs(input any, contentType, charset string) (resource.Resource, error) {
	res, src, err := m.registry.Generate(input, contentType, charset)
	if err != nil {
		return nil, err
	}
	m.metrics.Generated(string(src))
	m.log.Debug("resource generated", "source", src, "type", res.ContentType())
	return res, nil
}

// Cached returns the resource stored under key, or nil if there is none.
func (m *Mockrr) Cached(ctx context.Context, key string) (resource.Resource, error) {
	if err := checkID(key); err != nil {
		return nil, err
	}
	return m.lookup(ctx, "cached", key)
}

// lookup reads and decodes a cached resource. An empty op records no metrics.
func (m *Mockrr) lookup(ctx context.Context, op, key string) (resource.Resource, error) {
	item, err := m.pool.Get(ctx, key)
	if err != nil {
		return nil, m.storageFailed("get", key, err)
	}
	if op != "" {
		m.metrics.Lookup(op, item.Hit)
	}
	if !item.Hit {
		return nil, nil
	}
	res, err := m.registry.Unmarshal(item.Value)
	if err != nil {
		return nil, fmt.Errorf("decode cached resource %q: %w", key, err)
	}
	return res, nil
}

// Cache stores res under key and records the key in the index. With
// versioning enabled a snapshot is kept as well. A failure after the
// resource is saved leaves the index stale.
func (m *Mockrr) Cache(ctx context.Context, res resource.Resource, key string) error {
	if err := checkID(key); err != nil {
		return err
	}
	if res == nil {
		return &cache.ValidationError{Field: "resource", Message: "is required"}
	}
	defer m.metrics.Since("cache", time.Now())

	unlock := m.locks.Lock(key)
	defer unlock()
	return m.cache(ctx, res, key)
}

func (m *Mockrr) cache(ctx context.Context, res resource.Resource, key string) error {
	blob, err := resource.Marshal(res)
	if err != nil {
		return fmt.Errorf("encode resource %q: %w", key, err)
	}
	if err := m.save(ctx, key, blob, metrics.WriteResource); err != nil {
		return err
	}

	now := m.now().UTC()
	if err := m.touchIndex(ctx, key, now); err != nil {
		return err
	}
	if m.versioning {
		if err := m.snapshot(ctx, key, blob, now); err != nil {
			return err
		}
	}
	m.log.Debug("resource cached", "key", key)
	return nil
}

// Once returns the resource cached under id. On a miss it generates one from
// input, caches it and returns it; later calls ignore input. Concurrent
// callers share one generation and receive their own copies.
func (m *Mockrr) Once(ctx context.Context, id string, input any) (resource.Resource, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	defer m.metrics.Since("once", time.Now())

	if res, err := m.lookup(ctx, "once", id); err != nil || res != nil {
		return res, err
	}

	v, err, shared := m.flights.Do(id, func() (any, error) {
		unlock := m.locks.Lock(id)
		defer unlock()
		return m.onceLocked(ctx, id, input)
	})
	if err != nil {
		return nil, err
	}
	res := v.(resource.Resource)
	if shared {
		return res.Clone(), nil
	}
	return res, nil
}

// onceLocked expects the id lock to be held.
func (m *Mockrr) onceLocked(ctx context.Context, id string, input any) (resource.Resource, error) {
	res, err := m.lookup(ctx, "", id)
	if err != nil || res != nil {
		return res, err
	}
	res, err = m.Generate(input)
	if err != nil {
		return nil, err
	}
	if err := m.cache(ctx, res, id); err != nil {
		return nil, err
	}
	return res, nil
}

// Sequence returns the resource cached under id. On a miss it takes the
// input at the cursor of sequence seq, advances the cursor modulo
// len(inputs) and caches the generated resource under id. Hits leave the
// cursor alone.
func (m *Mockrr) Sequence(ctx context.Context, id, seq string, inputs []any) (resource.Resource, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	if seq == "" {
		return nil, &cache.ValidationError{Field: "sequence", Message: "must not be empty"}
	}
	defer m.metrics.Since("sequence", time.Now())

	unlock := m.locks.Lock(id)
	defer unlock()

	res, err := m.lookup(ctx, "sequence", id)
	if err != nil || res != nil {
		return res, err
	}

	cursor := 0
	err = m.update(ctx, cursorKey(seq), metrics.WriteCursor, func(raw []byte, exists bool) ([]byte, error) {
		cursor = 0
		if exists {
			n, err := strconv.Atoi(string(raw))
			if err != nil {
				return nil, fmt.Errorf("decode cursor of sequence %q: %w", seq, err)
			}
			cursor = n
		}
		if cursor < 0 || cursor >= len(inputs) {
			return nil, &OutOfRangeError{Sequence: seq, Cursor: cursor, Len: len(inputs)}
		}
		return []byte(strconv.Itoa((cursor + 1) % len(inputs))), nil
	})
	if err != nil {
		return nil, err
	}
	m.metrics.Advanced()
	m.log.Debug("sequence advanced", "sequence", seq, "cursor", cursor, "id", id)

	return m.onceLocked(ctx, id, inputs[cursor])
}

// Update applies data to the resource cached under id and caches the
// result. Resources replace the cached one, callbacks are merged shallowly
// and anything else is merged recursively. On a miss the resource is
// generated from data, or from the value an explicit override carries, and
// Substitution and Merge overrides are then applied to it.
func (m *Mockrr) Update(ctx context.Context, id string, data any) (resource.Resource, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	defer m.metrics.Since("update", time.Now())

	unlock := m.locks.Lock(id)
	defer unlock()

	res, err := m.lookup(ctx, "update", id)
	if err != nil {
		return nil, err
	}
	if res == nil {
		res, err = m.Generate(generatorInput(data))
		if o, ok := valueOverride(data); ok && err == nil {
			res, err = res.Replace(o)
		}
	} else {
		res, err = res.Replace(resource.OverrideOf(data))
	}
	if err != nil {
		return nil, err
	}
	if err := m.cache(ctx, res, id); err != nil {
		return nil, err
	}
	return res, nil
}

// generatorInput unwraps an explicit override so a miss can generate from
// the value it carries.
func generatorInput(data any) any {
	switch o := data.(type) {
	case resource.Replacement:
		return o.Resource
	case resource.Merge:
		return o.Patch
	case resource.Substitution:
		return o.Value
	case resource.CallbackPatch:
		return o.Fn
	}
	return data
}

// valueOverride reports the overrides that are applied again on top of the
// resource generated on a miss, so the payload matches what a hit produces.
// Callbacks are not, they have already run once.
func valueOverride(data any) (resource.Override, bool) {
	switch o := data.(type) {
	case resource.Substitution:
		return o, true
	case resource.Merge:
		return o, true
	}
	return nil, false
}

// Forget removes the resource cached under key and its index entry.
// Version snapshots are kept.
func (m *Mockrr) Forget(ctx context.Context, key string) error {
	if err := checkID(key); err != nil {
		return err
	}
	unlock := m.locks.Lock(key)
	defer unlock()

	if err := m.pool.Delete(ctx, key); err != nil {
		return m.storageFailed("delete", key, err)
	}
	return m.dropFromIndex(ctx, key)
}

// Clear removes every entry from the pool, bookkeeping included.
func (m *Mockrr) Clear(ctx context.Context) error {
	if err := m.pool.Clear(ctx); err != nil {
		return m.storageFailed("clear", "", err)
	}
	m.log.Debug("cache cleared")
	return nil
}

func (m *Mockrr) save(ctx context.Context, key string, value []byte, kind string) error {
	if err := m.pool.Save(ctx, cache.Item{Key: key, Value: value}); err != nil {
		return m.storageFailed("save", key, err)
	}
	m.metrics.Wrote(kind)
	return nil
}

func (m *Mockrr) storageFailed(op, key string, err error) error {
	m.metrics.StorageFailed(op)
	m.log.Error("cache operation failed", "op", op, "key", key, "error", err)
	return cache.Wrap(op, key, err)
}
