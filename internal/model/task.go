package model

import (
	"time"

	"github.com/samber/mo"

	"planassist/recurrence"
)

// Task represents a single item in the planner. Recurring tasks are stored
// as a chain of rows sharing a SeriesID, one row per materialized
// occurrence; the flattened recur_* columns carry the rule on every row so
// each occurrence can compute its successor.
type Task struct {
	ID       uint   `gorm:"primaryKey"`
	UUID     string `gorm:"uniqueIndex;size:36"`
	SeriesID string `gorm:"index;size:36"`

	Title string
	Notes string

	DueDate     *time.Time
	IsCompleted bool `gorm:"default:false"`
	CompletedAt *time.Time

	IsRecurring bool `gorm:"default:false"`
	// AnchorDate is the series' original due date; weekday and day-of-month
	// defaults are computed against it.
	AnchorDate *time.Time
	// Occurrence is the 1-based position of this row in its series.
	Occurrence int `gorm:"default:1"`

	RecurType       string
	RecurInterval   int
	RecurDaysOfWeek *string // comma-joined weekday ordinals; nil = untouched picker
	RecurDayOfMonth *int
	RecurEndDate    *time.Time
	RecurMaxOccur   *int
	RecurLeadDays   int

	// NextDue is the computed due date of the successor occurrence, filled
	// in when this row completes. NextCreated flips once the successor row
	// exists, so the materialization sweep can find pending chains.
	NextDue     *time.Time
	NextCreated bool `gorm:"default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Rule reassembles the recurrence rule from the flattened columns. The
// second return is false for non-recurring tasks.
func (t *Task) Rule() (recurrence.Rule, bool) {
	if !t.IsRecurring {
		return recurrence.Rule{}, false
	}

	r := recurrence.Rule{
		Freq:         recurrence.Frequency(t.RecurType),
		Interval:     t.RecurInterval,
		LeadTimeDays: t.RecurLeadDays,
	}
	if t.RecurDaysOfWeek != nil {
		// Columns are only written through SetRule, so the ordinals are
		// known-good here.
		days, err := recurrence.DecodePayload(recurrence.Payload{
			Type:       t.RecurType,
			Interval:   t.RecurInterval,
			DaysOfWeek: t.RecurDaysOfWeek,
		})
		if err == nil {
			r.DaysOfWeek = days.DaysOfWeek
		}
	}
	if t.RecurDayOfMonth != nil {
		r.DayOfMonth = mo.Some(*t.RecurDayOfMonth)
	}
	if t.RecurEndDate != nil {
		r.EndDate = mo.Some(*t.RecurEndDate)
	}
	if t.RecurMaxOccur != nil {
		r.MaxOccurrences = mo.Some(*t.RecurMaxOccur)
	}
	return r, true
}

// SetRule flattens a rule into the recur_* columns and marks the task
// recurring.
func (t *Task) SetRule(r recurrence.Rule) {
	p := recurrence.EncodePayload(r)

	t.IsRecurring = true
	t.RecurType = p.Type
	t.RecurInterval = p.Interval
	t.RecurDaysOfWeek = p.DaysOfWeek
	t.RecurDayOfMonth = p.DayOfMonth
	t.RecurMaxOccur = p.MaxOccurrences
	t.RecurLeadDays = p.LeadTimeDays

	t.RecurEndDate = nil
	if end, ok := r.EndDate.Get(); ok {
		e := end
		t.RecurEndDate = &e
	}
}

// ClearRule disables recurrence and wipes the recur_* columns. Used when
// the client submits a task with recurrence toggled off.
func (t *Task) ClearRule() {
	t.IsRecurring = false
	t.RecurType = ""
	t.RecurInterval = 0
	t.RecurDaysOfWeek = nil
	t.RecurDayOfMonth = nil
	t.RecurEndDate = nil
	t.RecurMaxOccur = nil
	t.RecurLeadDays = 0
	t.NextDue = nil
	t.NextCreated = false
}
