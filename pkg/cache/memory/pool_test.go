package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/mockrr/pkg/cache"
	"github.com/getmockd/mockrr/pkg/cache/cachetest"
)

func TestPool_Conformance(t *testing.T) {
	cachetest.Run(t, func(t *testing.T) cache.Pool {
		p, err := New(0)
		require.NoError(t, err)
		return p
	})
}

func TestPool_Evicts(t *testing.T) {
	ctx := context.Background()
	p, err := New(2)
	require.NoError(t, err)

	require.NoError(t, p.Save(ctx, cache.Item{Key: "a", Value: []byte("1")}))
	require.NoError(t, p.Save(ctx, cache.Item{Key: "b", Value: []byte("2")}))
	_, err = p.Get(ctx, "a")
	require.NoError(t, err)
	require.NoError(t, p.Save(ctx, cache.Item{Key: "c", Value: []byte("3")}))

	assert.Equal(t, 2, p.Len())
	ok, _ := p.Has(ctx, "b")
	assert.False(t, ok, "least recently used entry is evicted")
	ok, _ = p.Has(ctx, "a")
	assert.True(t, ok)
}

func TestPool_ValuesAreCopied(t *testing.T) {
	ctx := context.Background()
	p, err := New(0)
	require.NoError(t, err)

	value := []byte("abc")
	require.NoError(t, p.Save(ctx, cache.Item{Key: "k", Value: value}))
	value[0] = 'x'

	item, err := p.Get(ctx, "k")
	require.NoError(t, err)
	item.Value[1] = 'y'

	again, err := p.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(again.Value))
}
