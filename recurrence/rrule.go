package recurrence

import (
	"errors"
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
)

// ErrNoRRuleMapping is returned for rules whose frequency has no RFC 5545
// equivalent. Custom rules are stored and previewed but never expanded here;
// their schedule lives with whatever defines them.
var ErrNoRRuleMapping = errors.New("recurrence: frequency has no RRULE mapping")

// rruleWeekdays is indexed by time.Weekday (Sunday = 0).
var rruleWeekdays = [7]rrule.Weekday{
	rrule.SU, rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA,
}

// RRule converts a valid rule into an RFC 5545 recurrence rule anchored at
// the given date. The anchor supplies DTSTART, so an absent day picker or
// day-of-month naturally inherits the anchor's weekday or month day. When
// both EndDate and MaxOccurrences are set, both travel into the rule and
// whichever bound is reached first stops the series.
func RRule(r Rule, anchor time.Time) (*rrule.RRule, error) {
	var freq rrule.Frequency
	switch r.Freq {
	case Daily:
		freq = rrule.DAILY
	case Weekly:
		freq = rrule.WEEKLY
	case Monthly:
		freq = rrule.MONTHLY
	case Yearly:
		freq = rrule.YEARLY
	case Custom:
		return nil, ErrNoRRuleMapping
	default:
		return nil, fmt.Errorf("recurrence: unknown frequency %q", r.Freq)
	}

	opt := rrule.ROption{
		Freq:     freq,
		Interval: r.Interval,
		Dtstart:  anchor.UTC(),
	}

	if r.Freq == Weekly {
		if days, ok := r.DaysOfWeek.Get(); ok {
			for _, d := range days {
				opt.Byweekday = append(opt.Byweekday, rruleWeekdays[d])
			}
		}
	}

	if r.Freq == Monthly {
		if day, ok := r.DayOfMonth.Get(); ok {
			opt.Bymonthday = []int{day}
		}
	}

	if end, ok := r.EndDate.Get(); ok {
		// EndDate is inclusive: occurrences on the end date itself still
		// count, so UNTIL is the last instant of that day.
		opt.Until = time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 0, time.UTC)
	}
	if n, ok := r.MaxOccurrences.Get(); ok {
		opt.Count = n
	}

	rule, err := rrule.NewRRule(opt)
	if err != nil {
		return nil, fmt.Errorf("recurrence: building RRULE: %w", err)
	}
	return rule, nil
}

// NextOccurrence returns the first occurrence strictly after the given time,
// or false when the series is exhausted (end date passed or occurrence cap
// reached, whichever came first) or the rule cannot be expanded.
func NextOccurrence(r Rule, anchor, after time.Time) (time.Time, bool) {
	rule, err := RRule(r, anchor)
	if err != nil {
		return time.Time{}, false
	}
	next := rule.After(after, false)
	if next.IsZero() {
		return time.Time{}, false
	}
	return next, true
}

// Occurrences expands a rule within [from, to], inclusive on both ends.
// A positive limit caps the result to keep pathological expansions cheap,
// the same way preview calendars only ever need a handful of dates.
func Occurrences(r Rule, anchor, from, to time.Time, limit int) ([]time.Time, error) {
	rule, err := RRule(r, anchor)
	if err != nil {
		return nil, err
	}

	all := rule.Between(from, to, true)
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}
