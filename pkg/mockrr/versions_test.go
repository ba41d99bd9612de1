package mockrr

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/mockrr/pkg/cache"
)

func TestVersions(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock(0)
	m, _ := newTestMockrr(t, WithVersioning(true), WithClock(clock.Now))
	require.True(t, m.Versioning())

	versions, err := m.CachedVersions(ctx)
	require.NoError(t, err)
	assert.Empty(t, versions)

	_, err = m.Once(ctx, "user", map[string]any{"v": 1})
	require.NoError(t, err)
	_, err = m.Update(ctx, "user", map[string]any{"v": 2})
	require.NoError(t, err)

	versions, err = m.CachedVersions(ctx)
	require.NoError(t, err)
	require.Len(t, versions, 2)

	stamps := make([]string, 0, len(versions))
	for ts, key := range versions {
		assert.Equal(t, "user", key)
		stamps = append(stamps, ts)
	}
	sort.Strings(stamps)
	assert.Equal(t, []string{
		clock.t.Format(versionLayout),
		clock.t.Add(time.Nanosecond).Format(versionLayout),
	}, stamps)

	for i, ts := range stamps {
		res, err := m.CachedVersion(ctx, ts)
		require.NoError(t, err)
		require.NotNil(t, res)
		assert.Equal(t, map[string]any{"v": float64(i + 1)}, res.Data())
	}

	missing, err := m.CachedVersion(ctx, "19700101T000000.000000000Z")
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = m.CachedVersion(ctx, "")
	var ve *cache.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestVersions_SurviveForget(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestMockrr(t, WithVersioning(true), WithClock(newFakeClock(time.Second).Now))

	_, err := m.Once(ctx, "k", "v")
	require.NoError(t, err)
	require.NoError(t, m.Forget(ctx, "k"))

	versions, err := m.CachedVersions(ctx)
	require.NoError(t, err)
	assert.Len(t, versions, 1)
}

func TestVersions_Disabled(t *testing.T) {
	ctx := context.Background()
	m, pool := newTestMockrr(t)

	_, err := m.Once(ctx, "k", "v")
	require.NoError(t, err)

	_, err = m.CachedVersions(ctx)
	assert.ErrorIs(t, err, ErrVersioningDisabled)
	assert.ErrorIs(t, err, cache.ErrUnsupported)

	_, err = m.CachedVersion(ctx, "20240501T120000.000000000Z")
	assert.ErrorIs(t, err, ErrVersioningDisabled)

	has, err := pool.Has(ctx, VersionsKey)
	require.NoError(t, err)
	assert.False(t, has)
}
