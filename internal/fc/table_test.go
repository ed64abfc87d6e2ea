package fc

import (
	"math"
	"testing"

	"fclimits/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoissonPMF(t *testing.T) {
	assert.Equal(t, 1.0, poissonPMF(0, 0))
	assert.Equal(t, 0.0, poissonPMF(3, 0))
	assert.Equal(t, 0.0, poissonPMF(-1, 2))
	assert.InDelta(t, math.Exp(-2)*8/6, poissonPMF(3, 2), 1e-12)
	assert.InDelta(t, math.Exp(-4.5), poissonPMF(0, 4.5), 1e-12)

	assert.Equal(t, 0.0, logPoissonPMF(0, 0))
	assert.True(t, math.IsInf(logPoissonPMF(3, 0), -1))
	assert.InDelta(t, -800.0, logPoissonPMF(0, 800), 1e-9)
}

func TestSupport(t *testing.T) {
	s, err := NewSupport(14)
	require.NoError(t, err)
	assert.Equal(t, 14, s.Max())
	assert.Equal(t, 15, s.Len())
	assert.Equal(t, []int{0, 1, 2}, mustSupport(t, 2).Counts())

	grown := s.Extend()
	assert.Equal(t, 15, grown.Max())
	assert.Equal(t, 14, s.Max(), "Extend must not mutate the receiver")

	_, err = NewSupport(-1)
	assert.True(t, core.IsInvalidParameter(err))
}

func TestBuildTableUsesBestFitMean(t *testing.T) {
	const b = 3.0
	table, err := BuildTable(mustSupport(t, 14), b)
	require.NoError(t, err)

	for n := 0; n <= 14; n++ {
		want := poissonPMF(n, b)
		if n > 3 {
			want = poissonPMF(n, float64(n))
		}
		assert.InDelta(t, want, table.Value(n), 1e-15, "n=%d", n)
		assert.Greater(t, table.Value(n), 0.0)
	}
	assert.Equal(t, 0.0, table.Value(15))
	assert.Equal(t, 0.0, table.Value(-1))
	assert.Equal(t, b, table.Background())
	assert.Equal(t, 14, table.Support().Max())
}

func TestBuildTableZeroBackground(t *testing.T) {
	table, err := BuildTable(mustSupport(t, 5), 0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, table.Value(0))
	assert.InDelta(t, math.Exp(-1), table.Value(1), 1e-15)
}

func TestBuildTableLargeBackgroundStaysPositive(t *testing.T) {
	const b = 800.0
	table, err := BuildTable(mustSupport(t, 1500), b)
	require.NoError(t, err)

	// P(0 | 800) = exp(-800) underflows, its logarithm does not.
	assert.InDelta(t, -b, table.LogValue(0), 1e-9)
	assert.Equal(t, 0.0, table.Value(0))
	for n := 0; n <= 1500; n++ {
		lv := table.LogValue(n)
		assert.False(t, math.IsInf(lv, 0) || math.IsNaN(lv), "n=%d log value %v", n, lv)
	}
	assert.True(t, math.IsInf(table.LogValue(1501), -1))
	assert.True(t, math.IsInf(table.LogValue(-1), -1))
}

func TestBuildTableMatchesGridMaximum(t *testing.T) {
	// With an integer background the analytic best fit coincides with
	// scanning the counts themselves as candidate means.
	const b = 2.0
	support := mustSupport(t, 20)
	table, err := BuildTable(support, b)
	require.NoError(t, err)

	for _, n := range support.Counts() {
		best := 0.0
		for _, x := range support.Counts() {
			best = math.Max(best, poissonPMF(n, float64(x)+b))
		}
		assert.InDelta(t, best, table.Value(n), 1e-15, "n=%d", n)
	}
}

func TestBuildTableIsIdempotent(t *testing.T) {
	support := mustSupport(t, 30)
	first, err := BuildTable(support, 1.7)
	require.NoError(t, err)
	second, err := BuildTable(support, 1.7)
	require.NoError(t, err)
	assert.Equal(t, first.Values(), second.Values())

	values := first.Values()
	values[0] = -1
	assert.NotEqual(t, values[0], first.Value(0), "Values must return a copy")
}

func TestBuildTableRejectsBadBackground(t *testing.T) {
	for _, b := range []float64{-0.5, math.NaN(), math.Inf(1)} {
		_, err := BuildTable(mustSupport(t, 5), b)
		assert.ErrorIs(t, err, core.ErrInvalidBackground, "b=%v", b)
	}
}

func mustSupport(t *testing.T, max int) Support {
	t.Helper()
	s, err := NewSupport(max)
	require.NoError(t, err)
	return s
}

func mustTable(t *testing.T, max int, b float64) *Table {
	t.Helper()
	table, err := BuildTable(mustSupport(t, max), b)
	require.NoError(t, err)
	return table
}
