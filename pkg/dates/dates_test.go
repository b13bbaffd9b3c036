package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_AcceptedFormats(t *testing.T) {
	expected := time.Date(2023, time.May, 1, 0, 0, 0, 0, time.UTC)

	for _, input := range []string{"2023-05-01", "05/01/2023", "20230501", "05-01-2023", "5/1/2023", " 2023-5-1 "} {
		t.Run(input, func(t *testing.T) {
			got, ok := Parse(input)
			require.True(t, ok)
			assert.True(t, expected.Equal(got), "got %s", got)
		})
	}
}

func TestParse_Rejects(t *testing.T) {
	for _, input := range []string{"", "   ", "May 1 2023", "2023/05/01", "13/01/2023", "2023-02-30", "01.05.2023"} {
		t.Run(input, func(t *testing.T) {
			_, ok := Parse(input)
			assert.False(t, ok)
		})
	}
}

func TestRange(t *testing.T) {
	t.Run("one month is thirty days", func(t *testing.T) {
		start, end, ok := Range("2023-06-15", 1)
		require.True(t, ok)
		assert.Equal(t, "2023-05-16", start)
		assert.Equal(t, "2023-07-15", end)
	})

	t.Run("three months crosses a year", func(t *testing.T) {
		start, end, ok := Range("01/10/2023", 3)
		require.True(t, ok)
		assert.Equal(t, "2022-10-12", start)
		assert.Equal(t, "2023-04-10", end)
	})

	t.Run("zero months is the day itself", func(t *testing.T) {
		start, end, ok := Range("20230501", 0)
		require.True(t, ok)
		assert.Equal(t, "2023-05-01", start)
		assert.Equal(t, "2023-05-01", end)
	})

	t.Run("unparseable", func(t *testing.T) {
		start, end, ok := Range("not a date", 3)
		assert.False(t, ok)
		assert.Empty(t, start)
		assert.Empty(t, end)
	})
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2023, time.January, 10, 0, 0, 0, 0, time.UTC)
	b := time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 9, DaysBetween(a, b))
	assert.Equal(t, 9, DaysBetween(b, a))
	assert.Equal(t, 0, DaysBetween(a, a.Add(5*time.Hour)))
	assert.Equal(t, 365, DaysBetween(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)))

	t.Run("centuries apart", func(t *testing.T) {
		early, ok := Parse("0001-01-01")
		require.True(t, ok)
		late, ok := Parse("2023-06-15")
		require.True(t, ok)

		assert.Equal(t, 738685, DaysBetween(early, late))
		assert.Equal(t, 738685, DaysBetween(late, early))
	})
}
