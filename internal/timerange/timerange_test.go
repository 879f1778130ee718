package timerange

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Wednesday 2024-06-12 14:30 local.
var wednesday = time.Date(2024, 6, 12, 14, 30, 0, 0, time.Local)

func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func TestResolveToday(t *testing.T) {
	r, err := Resolve("today", wednesday)
	require.NoError(t, err)
	assert.Equal(t, day(wednesday), r.From)
	assert.Equal(t, wednesday, r.Till)
}

func TestResolveYesterday(t *testing.T) {
	r, err := Resolve("Yesterday", wednesday)
	require.NoError(t, err)
	assert.Equal(t, day(wednesday).AddDate(0, 0, -1), r.From)
	assert.Equal(t, wednesday, r.Till)
}

func TestResolveRelativeDays(t *testing.T) {
	for _, n := range []int{0, 1, 3, 10, 365} {
		r, err := Resolve(fmt.Sprintf("%dd", n), wednesday)
		require.NoError(t, err)
		assert.Equal(t, day(wednesday).AddDate(0, 0, -n), r.From, "n=%d", n)
		assert.Equal(t, wednesday, r.Till)
	}
}

func TestResolveRelativeWeeks(t *testing.T) {
	r, err := Resolve("2w", wednesday)
	require.NoError(t, err)
	assert.Equal(t, day(wednesday).AddDate(0, 0, -14), r.From)

	r, err = Resolve("1W", wednesday)
	require.NoError(t, err)
	assert.Equal(t, day(wednesday).AddDate(0, 0, -7), r.From)
}

func TestResolveWeekdayBeforeNow(t *testing.T) {
	// monday seen from a wednesday is two days back
	r, err := Resolve("monday", wednesday)
	require.NoError(t, err)
	assert.Equal(t, day(wednesday).AddDate(0, 0, -2), r.From)
}

func TestResolveWeekdayIsToday(t *testing.T) {
	monday := time.Date(2024, 6, 10, 9, 0, 0, 0, time.Local)
	r, err := Resolve("MONDAY", monday)
	require.NoError(t, err)
	assert.Equal(t, day(monday), r.From)
}

func TestResolveWeekdayWrapsWeek(t *testing.T) {
	// friday seen from a wednesday is five days back, not in the future
	r, err := Resolve("friday", wednesday)
	require.NoError(t, err)
	assert.Equal(t, day(wednesday).AddDate(0, 0, -5), r.From)
}

func TestResolveThisWeek(t *testing.T) {
	r, err := Resolve("thisweek", wednesday)
	require.NoError(t, err)
	// week starts sunday
	assert.Equal(t, day(wednesday).AddDate(0, 0, -3), r.From)
	assert.Equal(t, wednesday, r.Till)
}

func TestResolveLastWeekExcludesCurrentWeek(t *testing.T) {
	r, err := Resolve("lastweek", wednesday)
	require.NoError(t, err)
	weekStart := day(wednesday).AddDate(0, 0, -3)
	assert.Equal(t, weekStart.AddDate(0, 0, -7), r.From)
	assert.Equal(t, weekStart, r.Till)
}

func TestResolveLastWorkday(t *testing.T) {
	cases := []struct {
		now      time.Time
		daysBack int
	}{
		{time.Date(2024, 6, 10, 9, 0, 0, 0, time.Local), 3}, // monday -> friday
		{time.Date(2024, 6, 9, 9, 0, 0, 0, time.Local), 2},  // sunday -> friday
		{time.Date(2024, 6, 12, 9, 0, 0, 0, time.Local), 1}, // wednesday -> tuesday
		{time.Date(2024, 6, 8, 9, 0, 0, 0, time.Local), 1},  // saturday -> friday
	}
	for _, tc := range cases {
		r, err := Resolve("lastworkday", tc.now)
		require.NoError(t, err)
		assert.Equal(t, day(tc.now).AddDate(0, 0, -tc.daysBack), r.From, "now=%s", tc.now.Weekday())
		assert.Equal(t, tc.now, r.Till)
	}
}

func TestResolveThisMonth(t *testing.T) {
	r, err := Resolve("thismonth", wednesday)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.Local), r.From)
}

func TestResolveAbsoluteDates(t *testing.T) {
	r, err := Resolve("05-03-2024", wednesday)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.Local), r.From)
	assert.Equal(t, wednesday, r.Till)

	r, err = Resolve("2024-03-05", wednesday)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.Local), r.From)
}

func TestResolveInvalidExpression(t *testing.T) {
	for _, expr := range []string{"not-a-thing", "", "d", "xd", "-1d", "3x"} {
		_, err := Resolve(expr, wednesday)
		var invalid *InvalidExpressionError
		require.ErrorAs(t, err, &invalid, "expr=%q", expr)
		assert.Equal(t, expr, invalid.Input)
		assert.Contains(t, invalid.Error(), expr)
		assert.Contains(t, invalid.Error(), "lastworkday")
	}
}

func TestContainsDayIncludesWholeLastDay(t *testing.T) {
	r := Range{From: day(wednesday).AddDate(0, 0, -1), Till: wednesday}

	assert.True(t, r.ContainsDay(wednesday.Add(2*time.Hour)), "later today is in-window")
	assert.True(t, r.ContainsDay(day(wednesday).AddDate(0, 0, -1)))
	assert.False(t, r.ContainsDay(day(wednesday).AddDate(0, 0, 1)))
	assert.False(t, r.ContainsDay(day(wednesday).AddDate(0, 0, -1).Add(-time.Second)))
}

func TestAcceptedFormsCoverAnchors(t *testing.T) {
	forms := AcceptedForms()
	assert.Contains(t, forms, "lastworkday")
	assert.Contains(t, forms, "nd")
	assert.Contains(t, forms, "dd-MM-yyyy")
}
