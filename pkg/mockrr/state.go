package mockrr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/getmockd/mockrr/pkg/cache"
	"github.com/getmockd/mockrr/pkg/metrics"
	"github.com/getmockd/mockrr/pkg/resource"
)

// maxSwapAttempts bounds compare-and-swap retries.
const maxSwapAttempts = 16

// errUnchanged tells update to skip the write.
var errUnchanged = errors.New("unchanged")

// update runs a read-modify-write cycle on key. The keyed lock serializes
// writers in this process. Pools implementing cache.Swapper also guard
// against writers in other processes; fn may then run more than once.
func (m *Mockrr) update(ctx context.Context, key, kind string, fn func(current []byte, exists bool) ([]byte, error)) error {
	unlock := m.locks.Lock(key)
	defer unlock()

	sw, canSwap := m.pool.(cache.Swapper)
	for attempt := 1; ; attempt++ {
		item, err := m.pool.Get(ctx, key)
		if err != nil {
			return m.storageFailed("get", key, err)
		}
		next, err := fn(item.Value, item.Hit)
		if errors.Is(err, errUnchanged) {
			return nil
		}
		if err != nil {
			return err
		}
		if !canSwap {
			return m.save(ctx, key, next, kind)
		}

		swapped, err := sw.CompareAndSwap(ctx, key, item.Value, next, item.Hit)
		if err != nil {
			return m.storageFailed("compare and swap", key, err)
		}
		if swapped {
			m.metrics.Wrote(kind)
			return nil
		}
		if attempt >= maxSwapAttempts {
			return m.storageFailed("update", key, ErrContention)
		}
		m.log.Debug("lost compare and swap, retrying", "key", key, "attempt", attempt)
	}
}

// updateJSON runs update on a JSON-encoded value.
func updateJSON[T any](ctx context.Context, m *Mockrr, key, kind string, fn func(v *T) error) error {
	return m.update(ctx, key, kind, func(raw []byte, exists bool) ([]byte, error) {
		var v T
		if exists {
			if err := json.Unmarshal(raw, &v); err != nil {
				return nil, fmt.Errorf("decode %s: %w", key, err)
			}
		}
		if err := fn(&v); err != nil {
			return nil, err
		}
		return json.Marshal(v)
	})
}

func readJSON[T any](ctx context.Context, m *Mockrr, key string, v *T) error {
	item, err := m.pool.Get(ctx, key)
	if err != nil {
		return m.storageFailed("get", key, err)
	}
	if !item.Hit {
		return nil
	}
	if err := json.Unmarshal(item.Value, v); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

func (m *Mockrr) touchIndex(ctx context.Context, key string, at time.Time) error {
	return updateJSON(ctx, m, IndexKey, metrics.WriteIndex, func(idx *map[string]time.Time) error {
		if *idx == nil {
			*idx = make(map[string]time.Time)
		}
		(*idx)[key] = at
		return nil
	})
}

func (m *Mockrr) dropFromIndex(ctx context.Context, key string) error {
	return updateJSON(ctx, m, IndexKey, metrics.WriteIndex, func(idx *map[string]time.Time) error {
		if _, ok := (*idx)[key]; !ok {
			return errUnchanged
		}
		delete(*idx, key)
		return nil
	})
}

// snapshot reserves a unique timestamp in the versions index, then stores
// the resource under it. Timestamps that are already taken move forward by
// a nanosecond.
func (m *Mockrr) snapshot(ctx context.Context, key string, blob []byte, at time.Time) error {
	var ts string
	err := updateJSON(ctx, m, VersionsKey, metrics.WriteIndex, func(versions *map[string]string) error {
		if *versions == nil {
			*versions = make(map[string]string)
		}
		t := at
		ts = t.Format(versionLayout)
		for {
			if _, taken := (*versions)[ts]; !taken {
				break
			}
			t = t.Add(time.Nanosecond)
			ts = t.Format(versionLayout)
		}
		(*versions)[ts] = key
		return nil
	})
	if err != nil {
		return err
	}
	return m.save(ctx, versionKey(ts), blob, metrics.WriteVersion)
}

// CachedList returns every cached id with the time it was last written.
func (m *Mockrr) CachedList(ctx context.Context) (map[string]time.Time, error) {
	idx := make(map[string]time.Time)
	if err := readJSON(ctx, m, IndexKey, &idx); err != nil {
		return nil, err
	}
	return idx, nil
}

// CachedVersions maps snapshot timestamps to the ids they were taken of.
func (m *Mockrr) CachedVersions(ctx context.Context) (map[string]string, error) {
	if !m.versioning {
		return nil, ErrVersioningDisabled
	}
	versions := make(map[string]string)
	if err := readJSON(ctx, m, VersionsKey, &versions); err != nil {
		return nil, err
	}
	return versions, nil
}

// CachedVersion returns the snapshot taken at ts, or nil if there is none.
func (m *Mockrr) CachedVersion(ctx context.Context, ts string) (resource.Resource, error) {
	if !m.versioning {
		return nil, ErrVersioningDisabled
	}
	if ts == "" {
		return nil, &cache.ValidationError{Field: "version", Message: "must not be empty"}
	}
	return m.lookup(ctx, "version", versionKey(ts))
}
