// Package recurrence implements the repeat-rule model for recurring tasks:
// the rule value type, draft validation, the human-readable preview, the
// wire codec used by the task API, and the RFC 5545 bridge used for
// occurrence expansion.
package recurrence

import (
	"slices"
	"time"

	"github.com/samber/mo"
)

// Frequency identifies how often a rule repeats.
type Frequency string

const (
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
	Yearly  Frequency = "yearly"
	Custom  Frequency = "custom"
)

// KnownFrequency reports whether f is one of the defined frequencies.
func KnownFrequency(f Frequency) bool {
	switch f {
	case Daily, Weekly, Monthly, Yearly, Custom:
		return true
	}
	return false
}

// Rule describes one task's repeat pattern. It is a plain value: the
// constructor performs no validation so that a form can hold
// transiently-invalid drafts, and fields irrelevant to the current Freq are
// retained untouched when Freq changes. Validate catches malformed values
// before a rule is submitted.
type Rule struct {
	Freq Frequency

	// Interval is the "every N units" multiplier.
	Interval int

	// DaysOfWeek distinguishes three states. None means the day picker was
	// never touched and the anchor weekday is inherited. Some with an empty
	// slice means the picker was explicitly cleared, which Validate rejects.
	// Some with entries lists the chosen weekdays. Only meaningful for
	// weekly rules.
	DaysOfWeek mo.Option[[]time.Weekday]

	// DayOfMonth is only meaningful for monthly rules; absent means the
	// anchor day-of-month is inherited.
	DayOfMonth mo.Option[int]

	// EndDate is date-only and stored at midnight UTC. No occurrence falls
	// after this date.
	EndDate mo.Option[time.Time]

	// MaxOccurrences bounds the series length. EndDate and MaxOccurrences
	// may both be set; whichever bound is reached first wins during
	// expansion.
	MaxOccurrences mo.Option[int]

	// LeadTimeDays is how many days before the computed due date the next
	// occurrence's task is materialized. 0 means materialize when the
	// current occurrence completes.
	LeadTimeDays int
}

// NewRule returns a rule with the editing defaults: daily, every 1,
// unbounded, materialize on completion.
func NewRule() Rule {
	return Rule{Freq: Daily, Interval: 1}
}

// Equal reports structural equality. DaysOfWeek is order-sensitive, matching
// the order the user picked the days in.
func (r Rule) Equal(other Rule) bool {
	if r.Freq != other.Freq || r.Interval != other.Interval || r.LeadTimeDays != other.LeadTimeDays {
		return false
	}
	if r.DayOfMonth != other.DayOfMonth || r.MaxOccurrences != other.MaxOccurrences {
		return false
	}
	rEnd, rOK := r.EndDate.Get()
	oEnd, oOK := other.EndDate.Get()
	if rOK != oOK || (rOK && !rEnd.Equal(oEnd)) {
		return false
	}
	rDays, rOK := r.DaysOfWeek.Get()
	oDays, oOK := other.DaysOfWeek.Get()
	if rOK != oOK || (rOK && !slices.Equal(rDays, oDays)) {
		return false
	}
	return true
}

// Date builds a midnight-UTC time, the canonical representation for
// date-only fields like EndDate.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
