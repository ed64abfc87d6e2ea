package belt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleBelt() *Belt {
	return &Belt{
		Background: 0,
		Alpha:      0.9,
		SupportMax: 20,
		Points: []Interval{
			{Mu: 0.0, Lower: 0, Upper: 1},
			{Mu: 0.5, Lower: 0, Upper: 2},
			{Mu: 1.0, Lower: 0, Upper: 3},
			{Mu: 1.5, Lower: 1, Upper: 3},
			{Mu: 2.0, Lower: 1, Upper: 4},
			{Mu: 2.5, Lower: 2, Upper: 5},
		},
	}
}

func TestIntervalContainsAndWidth(t *testing.T) {
	iv := Interval{Mu: 1, Lower: 2, Upper: 5}
	assert.True(t, iv.Contains(2))
	assert.True(t, iv.Contains(5))
	assert.False(t, iv.Contains(1))
	assert.False(t, iv.Contains(6))
	assert.Equal(t, 4, iv.Width())
}

func TestBeltIntervalFor(t *testing.T) {
	b := sampleBelt()

	lower, upper, ok := b.IntervalFor(0)
	assert.True(t, ok)
	assert.Equal(t, 0.0, lower)
	assert.Equal(t, 1.0, upper)

	lower, upper, ok = b.IntervalFor(3)
	assert.True(t, ok)
	assert.Equal(t, 1.0, lower)
	assert.Equal(t, 2.5, upper)

	lower, upper, ok = b.IntervalFor(5)
	assert.True(t, ok)
	assert.Equal(t, 2.5, lower)
	assert.Equal(t, 2.5, upper)

	_, _, ok = b.IntervalFor(9)
	assert.False(t, ok)
}

func TestBeltParallelSequences(t *testing.T) {
	b := sampleBelt()
	assert.Equal(t, []int{0, 0, 0, 1, 1, 2}, b.Lowers())
	assert.Equal(t, []int{1, 2, 3, 3, 4, 5}, b.Uppers())
	assert.Equal(t, []float64{0, 0.5, 1, 1.5, 2, 2.5}, b.Mus())
}

func TestLimitsUpperOnly(t *testing.T) {
	assert.True(t, (&Limits{Lower: 0, Upper: 2.44}).IsUpperLimitOnly())
	assert.False(t, (&Limits{Lower: 0.11, Upper: 4.36}).IsUpperLimitOnly())
}
