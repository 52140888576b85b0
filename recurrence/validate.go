package recurrence

import (
	"fmt"
	"time"
)

// Bounds enforced by Validate. Interval is capped at a year's worth of days
// and lead time at the 0-30 day window the editing form exposes.
const (
	MaxInterval      = 365
	MaxLeadTimeDays  = 30
	MaxOccurrenceCap = 999
	maxDayOfMonth    = 31
)

// FieldError is a single field-scoped validation problem. The field name
// matches the wire name of the offending field so clients can render the
// message next to the right input.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// Validate checks a draft rule and returns field errors in a fixed order;
// an empty result means the rule is safe to submit. Validate never panics
// and never mutates the rule. Fields irrelevant to the current Freq are
// ignored, not rejected.
func Validate(r Rule) []FieldError {
	var errs []FieldError

	if r.Interval < 1 || r.Interval > MaxInterval {
		errs = append(errs, FieldError{
			Field:   "interval",
			Message: fmt.Sprintf("must be between 1 and %d", MaxInterval),
		})
	}

	if r.Freq == Weekly {
		if days, ok := r.DaysOfWeek.Get(); ok {
			errs = append(errs, validateDays(days)...)
		}
	}

	if r.Freq == Monthly {
		if day, ok := r.DayOfMonth.Get(); ok && (day < 1 || day > maxDayOfMonth) {
			errs = append(errs, FieldError{
				Field:   "dayOfMonth",
				Message: fmt.Sprintf("must be between 1 and %d", maxDayOfMonth),
			})
		}
	}

	if r.LeadTimeDays < 0 || r.LeadTimeDays > MaxLeadTimeDays {
		errs = append(errs, FieldError{
			Field:   "leadTimeDays",
			Message: fmt.Sprintf("must be between 0 and %d", MaxLeadTimeDays),
		})
	}

	if n, ok := r.MaxOccurrences.Get(); ok && (n < 1 || n > MaxOccurrenceCap) {
		errs = append(errs, FieldError{
			Field:   "maxOccurrences",
			Message: fmt.Sprintf("must be between 1 and %d", MaxOccurrenceCap),
		})
	}

	// EndDate carries no range check: a time.Time is a valid calendar date
	// by construction, and a past end date is legal (the series is simply
	// exhausted). Malformed date strings are caught by DecodePayload.

	return errs
}

// validateDays checks an explicitly-set day picker. An empty set here means
// the user cleared every day, which is rejected; an untouched picker is
// represented as an absent option and never reaches this function.
func validateDays(days []time.Weekday) []FieldError {
	if len(days) == 0 {
		return []FieldError{{Field: "daysOfWeek", Message: "select at least one day"}}
	}
	seen := make(map[time.Weekday]bool, len(days))
	for _, d := range days {
		if d < time.Sunday || d > time.Saturday {
			return []FieldError{{
				Field:   "daysOfWeek",
				Message: fmt.Sprintf("invalid weekday ordinal %d", int(d)),
			}}
		}
		if seen[d] {
			return []FieldError{{
				Field:   "daysOfWeek",
				Message: fmt.Sprintf("duplicate weekday ordinal %d", int(d)),
			}}
		}
		seen[d] = true
	}
	return nil
}
