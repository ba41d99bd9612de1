package mockrr

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/mockrr/pkg/cache"
	"github.com/getmockd/mockrr/pkg/metrics"
)

func TestSequence_Rotates(t *testing.T) {
	ctx := context.Background()
	mt := metrics.New()
	m, _ := newTestMockrr(t, WithMetrics(mt))
	inputs := []any{"First", "Second", "Third"}

	var got []any
	for i := range 6 {
		res, err := m.Sequence(ctx, fmt.Sprintf("req-%d", i), "demo", inputs)
		require.NoError(t, err)
		got = append(got, res.Data())
	}
	assert.Equal(t, []any{"First", "Second", "Third", "First", "Second", "Third"}, got)
	assert.Equal(t, 6.0, testutil.ToFloat64(mt.SequenceAdvances))
}

func TestSequence_HitKeepsCursor(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestMockrr(t)
	inputs := []any{"a", "b"}

	first, err := m.Sequence(ctx, "same", "s", inputs)
	require.NoError(t, err)
	again, err := m.Sequence(ctx, "same", "s", inputs)
	require.NoError(t, err)
	assert.Equal(t, first.Data(), again.Data())

	next, err := m.Sequence(ctx, "other", "s", inputs)
	require.NoError(t, err)
	assert.Equal(t, "b", next.Data())
}

func TestSequence_IndependentSequences(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestMockrr(t)

	a, err := m.Sequence(ctx, "x1", "left", []any{"l1", "l2"})
	require.NoError(t, err)
	b, err := m.Sequence(ctx, "x2", "right", []any{"r1", "r2"})
	require.NoError(t, err)
	assert.Equal(t, "l1", a.Data())
	assert.Equal(t, "r1", b.Data())
}

func TestSequence_SharesIDsWithOnce(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestMockrr(t)

	_, err := m.Once(ctx, "taken", "from once")
	require.NoError(t, err)

	res, err := m.Sequence(ctx, "taken", "s", []any{"from sequence"})
	require.NoError(t, err)
	assert.Equal(t, "from once", res.Data())
}

func TestSequence_OutOfRange(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestMockrr(t)

	for i := range 2 {
		_, err := m.Sequence(ctx, fmt.Sprintf("id-%d", i), "s", []any{"a", "b", "c"})
		require.NoError(t, err)
	}

	_, err := m.Sequence(ctx, "short", "s", []any{"a", "b"})
	var oe *OutOfRangeError
	require.ErrorAs(t, err, &oe)
	assert.Equal(t, OutOfRangeError{Sequence: "s", Cursor: 2, Len: 2}, *oe)
	assert.Equal(t, http.StatusUnprocessableEntity, oe.StatusCode())

	res, err := m.Cached(ctx, "short")
	require.NoError(t, err)
	assert.Nil(t, res, "nothing is cached on error")
}

func TestSequence_Validation(t *testing.T) {
	ctx := context.Background()
	m, pool := newTestMockrr(t)

	tests := []struct {
		name   string
		id     string
		seq    string
		inputs []any
	}{
		{"empty id", "", "s", []any{"a"}},
		{"reserved id", IndexKey, "s", []any{"a"}},
		{"empty sequence", "id", "", []any{"a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Sequence(ctx, tt.id, tt.seq, tt.inputs)
			var ve *cache.ValidationError
			assert.ErrorAs(t, err, &ve)
		})
	}

	_, err := m.Sequence(ctx, "id", "s", nil)
	var oe *OutOfRangeError
	require.ErrorAs(t, err, &oe)
	assert.Equal(t, 0, oe.Len)
	assert.Equal(t, 0, pool.Len())
}

func TestSequence_CorruptCursor(t *testing.T) {
	ctx := context.Background()
	m, pool := newTestMockrr(t)
	require.NoError(t, pool.Save(ctx, cache.Item{Key: cursorKey("s"), Value: []byte("two")}))

	_, err := m.Sequence(ctx, "id", "s", []any{"a"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode cursor")
}
