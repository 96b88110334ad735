package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateExactFit(t *testing.T) {
	start := time.Date(2026, 9, 14, 9, 0, 0, 0, time.UTC)
	end := time.Date(2026, 9, 14, 10, 0, 0, 0, time.UTC)

	slots, err := Generate(start, end, 30)
	require.NoError(t, err)
	require.Len(t, slots, 2)

	assert.Equal(t, start, slots[0].Start)
	assert.Equal(t, start.Add(30*time.Minute), slots[0].End)
	assert.Equal(t, start.Add(30*time.Minute), slots[1].Start)
	assert.Equal(t, end, slots[1].End)
	for _, s := range slots {
		assert.False(t, s.IsBooked)
	}
}

func TestGenerateDropsTrailingPartial(t *testing.T) {
	start := time.Date(2026, 9, 14, 9, 0, 0, 0, time.UTC)
	end := time.Date(2026, 9, 14, 9, 50, 0, 0, time.UTC)

	slots, err := Generate(start, end, 30)
	require.NoError(t, err)
	// The remaining 20 minutes produce no slot.
	require.Len(t, slots, 1)
	assert.Equal(t, start, slots[0].Start)
	assert.Equal(t, start.Add(30*time.Minute), slots[0].End)
}

func TestGenerateWindowShorterThanDuration(t *testing.T) {
	start := time.Date(2026, 9, 14, 9, 0, 0, 0, time.UTC)

	slots, err := Generate(start, start.Add(10*time.Minute), 30)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestGenerateDegenerateWindow(t *testing.T) {
	start := time.Date(2026, 9, 14, 9, 0, 0, 0, time.UTC)

	for _, end := range []time.Time{start, start.Add(-time.Hour)} {
		slots, err := Generate(start, end, 30)
		var winErr *InvalidWindowError
		require.ErrorAs(t, err, &winErr)
		assert.Nil(t, slots)
	}
}

func TestGenerateNonPositiveDuration(t *testing.T) {
	start := time.Date(2026, 9, 14, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	for _, d := range []int{0, -15} {
		_, err := Generate(start, end, d)
		var winErr *InvalidWindowError
		require.ErrorAs(t, err, &winErr)
	}
}

func TestGenerateContiguousSortedNoOverlap(t *testing.T) {
	start := time.Date(2026, 9, 14, 8, 0, 0, 0, time.UTC)
	end := time.Date(2026, 9, 14, 17, 25, 0, 0, time.UTC)

	slots, err := Generate(start, end, 45)
	require.NoError(t, err)
	require.NotEmpty(t, slots)

	for i, s := range slots {
		assert.Equal(t, 45*time.Minute, s.End.Sub(s.Start))
		assert.False(t, s.End.After(end))
		if i > 0 {
			assert.Equal(t, slots[i-1].End, s.Start)
		}
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	start := time.Date(2026, 9, 14, 9, 0, 0, 0, time.UTC)
	end := start.Add(3 * time.Hour)

	first, err := Generate(start, end, 20)
	require.NoError(t, err)
	second, err := Generate(start, end, 20)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
