package mockrr

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/getmockd/mockrr/pkg/cache"
	"github.com/getmockd/mockrr/pkg/cache/memory"
)

func newTestMockrr(t *testing.T, opts ...Option) (*Mockrr, *memory.Pool) {
	t.Helper()
	pool, err := memory.New(0)
	require.NoError(t, err)
	m, err := New(pool, opts...)
	require.NoError(t, err)
	return m, pool
}

// fakeClock returns start and moves forward by step on every call.
type fakeClock struct {
	mu   sync.Mutex
	t    time.Time
	step time.Duration
}

func newFakeClock(step time.Duration) *fakeClock {
	return &fakeClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), step: step}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.t
	c.t = c.t.Add(c.step)
	return t
}

var errDiskFull = errors.New("disk full")

// failingPool fails saves of one key.
type failingPool struct {
	*memory.Pool
	failKey string
}

func (p *failingPool) Save(ctx context.Context, item cache.Item) error {
	if item.Key == p.failKey {
		return errDiskFull
	}
	return p.Pool.Save(ctx, item)
}

// plainPool hides the Swapper implementation of the wrapped pool.
type plainPool struct {
	cache.Pool
}
