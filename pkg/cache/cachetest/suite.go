// Package cachetest provides a conformance suite for cache.Pool implementations.
package cachetest

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/mockrr/pkg/cache"
)

// Factory returns an empty pool. The suite closes it.
type Factory func(t *testing.T) cache.Pool

// Run exercises the behavior every backend must share.
func Run(t *testing.T, newPool Factory) {
	t.Helper()

	tests := []struct {
		name string
		fn   func(t *testing.T, p cache.Pool)
	}{
		{"MissIsNotAnError", testMiss},
		{"SaveAndGet", testSaveGet},
		{"Overwrite", testOverwrite},
		{"KeyShapes", testKeyShapes},
		{"GetMany", testGetMany},
		{"Delete", testDelete},
		{"DeleteMany", testDeleteMany},
		{"Clear", testClear},
		{"Unsupported", testUnsupported},
		{"EmptyKey", testEmptyKey},
		{"ConcurrentSaves", testConcurrentSaves},
		{"CompareAndSwap", testCompareAndSwap},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPool(t)
			t.Cleanup(func() { _ = p.Close() })
			tt.fn(t, p)
		})
	}
}

func save(t *testing.T, p cache.Pool, key, value string) {
	t.Helper()
	require.NoError(t, p.Save(context.Background(), cache.Item{Key: key, Value: []byte(value)}))
}

func testMiss(t *testing.T, p cache.Pool) {
	ctx := context.Background()

	item, err := p.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, item.Hit)
	assert.Nil(t, item.Value)
	assert.Equal(t, "missing", item.Key)

	ok, err := p.Has(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func testSaveGet(t *testing.T, p cache.Pool) {
	ctx := context.Background()
	value := []byte{0, 1, 2, 0xff, '\n', 0}
	require.NoError(t, p.Save(ctx, cache.Item{Key: "bin", Value: value}))

	item, err := p.Get(ctx, "bin")
	require.NoError(t, err)
	assert.True(t, item.Hit)
	assert.Equal(t, value, item.Value)

	ok, err := p.Has(ctx, "bin")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, p.Save(ctx, cache.Item{Key: "empty"}))
	item, err = p.Get(ctx, "empty")
	require.NoError(t, err)
	assert.True(t, item.Hit)
	assert.Empty(t, item.Value)
}

func testOverwrite(t *testing.T, p cache.Pool) {
	save(t, p, "k", "first")
	save(t, p, "k", "second")

	item, err := p.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, "second", string(item.Value))
}

func testKeyShapes(t *testing.T, p cache.Pool) {
	keys := []string{"resources.cached", "seq_idx_demo", "a/b c", "../escape", "ключ", "x:y?z*"}
	for i, key := range keys {
		save(t, p, key, fmt.Sprint(i))
	}
	for i, key := range keys {
		item, err := p.Get(context.Background(), key)
		require.NoError(t, err, key)
		assert.True(t, item.Hit, key)
		assert.Equal(t, fmt.Sprint(i), string(item.Value), key)
	}
}

func testGetMany(t *testing.T, p cache.Pool) {
	save(t, p, "a", "1")
	save(t, p, "c", "3")

	items, err := p.GetMany(context.Background(), "a", "b", "c")
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, cache.Item{Key: "a", Value: []byte("1"), Hit: true}, items[0])
	assert.Equal(t, "b", items[1].Key)
	assert.False(t, items[1].Hit)
	assert.Equal(t, "3", string(items[2].Value))

	items, err = p.GetMany(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func testDelete(t *testing.T, p cache.Pool) {
	ctx := context.Background()
	save(t, p, "k", "v")

	require.NoError(t, p.Delete(ctx, "k"))
	ok, err := p.Has(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, p.Delete(ctx, "k"))
	assert.NoError(t, p.Delete(ctx, "never"))
}

func testDeleteMany(t *testing.T, p cache.Pool) {
	ctx := context.Background()
	save(t, p, "a", "1")
	save(t, p, "b", "2")
	save(t, p, "c", "3")

	require.NoError(t, p.DeleteMany(ctx, "a", "b", "missing"))

	items, err := p.GetMany(ctx, "a", "b", "c")
	require.NoError(t, err)
	assert.False(t, items[0].Hit)
	assert.False(t, items[1].Hit)
	assert.True(t, items[2].Hit)
}

func testClear(t *testing.T, p cache.Pool) {
	ctx := context.Background()
	save(t, p, "a", "1")
	save(t, p, "b", "2")

	require.NoError(t, p.Clear(ctx))

	for _, key := range []string{"a", "b"} {
		ok, err := p.Has(ctx, key)
		require.NoError(t, err)
		assert.False(t, ok, key)
	}

	save(t, p, "a", "again")
	ok, err := p.Has(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)
}

func testUnsupported(t *testing.T, p cache.Pool) {
	ctx := context.Background()
	assert.ErrorIs(t, p.SaveDeferred(ctx, cache.Item{Key: "k"}), cache.ErrUnsupported)
	assert.ErrorIs(t, p.Commit(ctx), cache.ErrUnsupported)

	ok, err := p.Has(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok, "deferred save must not store anything")
}

func testEmptyKey(t *testing.T, p cache.Pool) {
	var ve *cache.ValidationError
	assert.ErrorAs(t, p.Save(context.Background(), cache.Item{Key: ""}), &ve)
}

func testConcurrentSaves(t *testing.T, p cache.Pool) {
	ctx := context.Background()
	const n = 16

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- p.Save(ctx, cache.Item{Key: fmt.Sprintf("k%d", i), Value: []byte(fmt.Sprint(i))})
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	for i := range n {
		item, err := p.Get(ctx, fmt.Sprintf("k%d", i))
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprint(i), string(item.Value))
	}
}

func testCompareAndSwap(t *testing.T, p cache.Pool) {
	sw, ok := p.(cache.Swapper)
	if !ok {
		t.Skip("pool does not implement cache.Swapper")
	}
	ctx := context.Background()

	swapped, err := sw.CompareAndSwap(ctx, "cas", nil, []byte("1"), false)
	require.NoError(t, err)
	assert.True(t, swapped, "create when absent")

	swapped, err = sw.CompareAndSwap(ctx, "cas", nil, []byte("x"), false)
	require.NoError(t, err)
	assert.False(t, swapped, "create fails when present")

	swapped, err = sw.CompareAndSwap(ctx, "cas", []byte("0"), []byte("x"), true)
	require.NoError(t, err)
	assert.False(t, swapped, "stale old value")

	swapped, err = sw.CompareAndSwap(ctx, "cas", []byte("1"), []byte("2"), true)
	require.NoError(t, err)
	assert.True(t, swapped)

	item, err := p.Get(ctx, "cas")
	require.NoError(t, err)
	assert.Equal(t, "2", string(item.Value))

	swapped, err = sw.CompareAndSwap(ctx, "gone", []byte("1"), []byte("2"), true)
	require.NoError(t, err)
	assert.False(t, swapped, "update fails when absent")
}
