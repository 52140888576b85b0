package recurrence

import (
	"fmt"
	"strings"
	"time"
)

// DateFormatter renders a date for the preview suffix. It is injected so the
// caller controls the locale; the core only decides what gets rendered.
type DateFormatter func(time.Time) string

// ShortDate is the default month/day/year rendering, e.g. "12/31/2025".
func ShortDate(t time.Time) string {
	return fmt.Sprintf("%d/%d/%d", int(t.Month()), t.Day(), t.Year())
}

// Preview weekday names, iterated Monday-first regardless of the order days
// were picked in.
var previewWeekdays = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

var weekdayAbbrev = map[time.Weekday]string{
	time.Monday:    "Mon",
	time.Tuesday:   "Tue",
	time.Wednesday: "Wed",
	time.Thursday:  "Thu",
	time.Friday:    "Fri",
	time.Saturday:  "Sat",
	time.Sunday:    "Sun",
}

// Describe renders a deterministic one-line description of a valid rule
// using the default date format. Calling it on a rule Validate rejects is a
// contract violation; the output for such rules is unspecified.
func Describe(r Rule) string {
	return DescribeWith(r, ShortDate)
}

// DescribeWith is Describe with a caller-supplied date format for the
// end-date suffix.
func DescribeWith(r Rule, formatDate DateFormatter) string {
	var b strings.Builder
	b.WriteString(baseClause(r))

	// When both bounds are set only the end date is mentioned; the
	// occurrence cap is still stored and still honored during expansion.
	if end, ok := r.EndDate.Get(); ok {
		b.WriteString(" until ")
		b.WriteString(formatDate(end))
	} else if n, ok := r.MaxOccurrences.Get(); ok {
		fmt.Fprintf(&b, " for %d occurrences", n)
	}

	return b.String()
}

func baseClause(r Rule) string {
	// Custom has no singular phrasing and no defined unit noun; it always
	// takes the generic clause.
	if r.Interval != 1 || r.Freq == Custom {
		return fmt.Sprintf("Repeats every %d %ss", r.Interval, freqNoun(r.Freq))
	}

	switch r.Freq {
	case Weekly:
		if days, ok := r.DaysOfWeek.Get(); ok && len(days) > 0 {
			return "Repeats weekly on " + joinWeekdays(days)
		}
		return "Repeats weekly"
	case Monthly:
		if day, ok := r.DayOfMonth.Get(); ok {
			return fmt.Sprintf("Repeats monthly on day %d", day)
		}
		return "Repeats monthly"
	case Yearly:
		return "Repeats yearly"
	default:
		return "Repeats daily"
	}
}

func freqNoun(f Frequency) string {
	switch f {
	case Daily:
		return "day"
	case Weekly:
		return "week"
	case Monthly:
		return "month"
	case Yearly:
		return "year"
	default:
		return "interval"
	}
}

// joinWeekdays lists the chosen days Monday-first, comma separated.
func joinWeekdays(days []time.Weekday) string {
	chosen := make(map[time.Weekday]bool, len(days))
	for _, d := range days {
		chosen[d] = true
	}

	names := make([]string, 0, len(days))
	for _, d := range previewWeekdays {
		if chosen[d] {
			names = append(names, weekdayAbbrev[d])
		}
	}
	return strings.Join(names, ", ")
}
