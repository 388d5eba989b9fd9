package sampler_test

import (
	"testing"

	"github.com/qcserestipy/montepi/pkg/sampler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedSource replays vals in order.
type fixedSource struct {
	vals []float64
	pos  int
}

func (f *fixedSource) Float64() float64 {
	v := f.vals[f.pos]
	f.pos++
	return v
}

func TestCount_Bounds(t *testing.T) {
	t.Parallel()

	for _, n := range []int64{0, 1, 2, 17, 1000, 100_000} {
		r := sampler.NewSeededStream(42, int(n))
		got := sampler.Count(n, r)
		assert.GreaterOrEqual(t, got, int64(0), "n=%d", n)
		assert.LessOrEqual(t, got, n, "n=%d", n)
	}
}

func TestCount_ZeroAndNegative(t *testing.T) {
	t.Parallel()

	src := &fixedSource{}
	assert.Equal(t, int64(0), sampler.Count(0, src))
	assert.Equal(t, int64(0), sampler.Count(-5, src))
	assert.Equal(t, 0, src.pos, "no draws expected")
}

func TestCount_Boundary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		vals     []float64
		expected int64
	}{
		{name: "origin", vals: []float64{0, 0}, expected: 1},
		{name: "on the circle", vals: []float64{1, 0}, expected: 1},
		{name: "corner", vals: []float64{0.99, 0.99}, expected: 0},
		{name: "three of four", vals: []float64{0.1, 0.1, 0.5, 0.5, 0.9, 0.9, 0.3, 0.2}, expected: 3},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			src := &fixedSource{vals: tc.vals}
			got := sampler.Count(int64(len(tc.vals)/2), src)
			assert.Equal(t, tc.expected, got)
			assert.Equal(t, len(tc.vals), src.pos)
		})
	}
}

func TestNewSeededStream(t *testing.T) {
	t.Parallel()

	a := sampler.NewSeededStream(7, 0)
	b := sampler.NewSeededStream(7, 0)
	c := sampler.NewSeededStream(7, 1)

	av, bv, cv := a.Uint64(), b.Uint64(), c.Uint64()
	assert.Equal(t, av, bv, "same seed and worker must replay")
	assert.NotEqual(t, av, cv, "workers must not share a stream")
}

func TestNewStream(t *testing.T) {
	t.Parallel()

	a, err := sampler.NewStream(0)
	require.NoError(t, err)
	b, err := sampler.NewStream(0)
	require.NoError(t, err)

	assert.NotEqual(t, a.Uint64(), b.Uint64())

	for range 1000 {
		v := a.Float64()
		require.GreaterOrEqual(t, v, 0.0)
		require.Less(t, v, 1.0)
	}
}
