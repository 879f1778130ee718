// Package timerange turns the --since expressions accepted on the command
// line into absolute [From, Till) windows.
package timerange

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Range is a resolved reporting window. From is always midnight of some day,
// Till is usually "now".
type Range struct {
	From time.Time
	Till time.Time
}

// ContainsDay reports whether t falls inside the window when compared at day
// granularity: midnight of From up to, but excluding, the day after Till.
// Comparing against Till+1d keeps "today" fully inside a window that ends now.
func (r Range) ContainsDay(t time.Time) bool {
	from := midnight(r.From)
	upper := midnight(r.Till).AddDate(0, 0, 1)
	return !t.Before(from) && t.Before(upper)
}

// InvalidExpressionError is returned when a since expression matches none of
// the recognized forms.
type InvalidExpressionError struct {
	Input string
}

func (e *InvalidExpressionError) Error() string {
	return fmt.Sprintf("invalid value for since %q\n"+
		"Valid options include:\n"+
		"  fixed periods: %s\n"+
		"  relative periods: 1d, 3d, 2w, ...\n"+
		"  dates: dd-MM-yyyy or yyyy-MM-dd", e.Input, strings.Join(fixedAnchors, ", "))
}

var fixedAnchors = []string{
	"today",
	"yesterday",
	"monday",
	"tuesday",
	"wednesday",
	"thursday",
	"friday",
	"saturday",
	"sunday",
	"thisweek",
	"lastweek",
	"lastworkday",
	"thismonth",
}

// AcceptedForms lists every recognized expression shape, for help output and
// shell completion.
func AcceptedForms() []string {
	forms := make([]string, 0, len(fixedAnchors)+3)
	forms = append(forms, fixedAnchors...)
	forms = append(forms, "nd", "dd-MM-yyyy", "yyyy-MM-dd")
	return forms
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// Resolve evaluates a since expression against now. Recognized forms, in
// priority order: fixed anchors (today, yesterday, weekday names, thisweek,
// lastweek, lastworkday, thismonth), relative periods (3d, 2w) and absolute
// dates (dd-MM-yyyy, then yyyy-MM-dd).
func Resolve(expr string, now time.Time) (Range, error) {
	switch strings.ToLower(expr) {
	case "today":
		return Range{From: midnight(now), Till: now}, nil
	case "yesterday":
		return Range{From: midnight(now).AddDate(0, 0, -1), Till: now}, nil
	case "thisweek":
		return Range{From: startOfWeek(now), Till: now}, nil
	case "lastweek":
		return Range{From: startOfWeek(now).AddDate(0, 0, -7), Till: startOfWeek(now)}, nil
	case "lastworkday":
		return Range{From: lastWorkday(now), Till: now}, nil
	case "thismonth":
		return Range{From: time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), Till: now}, nil
	}

	if day, ok := weekdays[strings.ToLower(expr)]; ok {
		return Range{From: previousWeekday(now, day), Till: now}, nil
	}

	if r, ok := resolveRelative(expr, now); ok {
		return r, nil
	}

	if from, err := time.ParseInLocation("02-01-2006", expr, now.Location()); err == nil {
		return Range{From: from, Till: now}, nil
	}
	if from, err := time.ParseInLocation("2006-01-02", expr, now.Location()); err == nil {
		return Range{From: from, Till: now}, nil
	}

	return Range{}, &InvalidExpressionError{Input: expr}
}

// resolveRelative handles the Nd / Nw forms.
func resolveRelative(expr string, now time.Time) (Range, bool) {
	if len(expr) < 2 {
		return Range{}, false
	}

	n, err := strconv.Atoi(expr[:len(expr)-1])
	if err != nil || n < 0 {
		return Range{}, false
	}

	var days int
	switch expr[len(expr)-1] {
	case 'd', 'D':
		days = n
	case 'w', 'W':
		days = n * 7
	default:
		return Range{}, false
	}

	return Range{From: midnight(now).AddDate(0, 0, -days), Till: now}, true
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// previousWeekday finds midnight of the most recent occurrence of day at or
// before now. When now already falls on day the offset is zero.
func previousWeekday(now time.Time, day time.Weekday) time.Time {
	diff := (7 + int(now.Weekday()-day)) % 7
	return midnight(now).AddDate(0, 0, -diff)
}

// startOfWeek is midnight of the current week's first day. The week starts on
// Sunday, matching time.Weekday numbering.
func startOfWeek(now time.Time) time.Time {
	return midnight(now).AddDate(0, 0, -int(now.Weekday()))
}

// lastWorkday skips back over the weekend: Monday looks at Friday, Sunday at
// Friday as well, any other day at the day before.
func lastWorkday(now time.Time) time.Time {
	switch now.Weekday() {
	case time.Monday:
		return midnight(now).AddDate(0, 0, -3)
	case time.Sunday:
		return midnight(now).AddDate(0, 0, -2)
	default:
		return midnight(now).AddDate(0, 0, -1)
	}
}
