package recurrence

import (
	"testing"
	"time"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Interval(t *testing.T) {
	tests := []struct {
		name     string
		interval int
		wantErr  bool
	}{
		{name: "minimum", interval: 1, wantErr: false},
		{name: "typical", interval: 14, wantErr: false},
		{name: "maximum", interval: 365, wantErr: false},
		{name: "zero", interval: 0, wantErr: true},
		{name: "negative", interval: -3, wantErr: true},
		{name: "over maximum", interval: 366, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRule()
			r.Interval = tt.interval

			errs := Validate(r)
			if tt.wantErr {
				require.Len(t, errs, 1)
				assert.Equal(t, "interval", errs[0].Field)
			} else {
				assert.Empty(t, errs)
			}
		})
	}
}

func TestValidate_DaysOfWeek(t *testing.T) {
	tests := []struct {
		name      string
		freq      Frequency
		days      mo.Option[[]time.Weekday]
		wantField string
	}{
		{
			name: "untouched picker is valid",
			freq: Weekly,
			days: mo.None[[]time.Weekday](),
		},
		{
			name: "chosen days are valid",
			freq: Weekly,
			days: mo.Some([]time.Weekday{time.Monday, time.Friday}),
		},
		{
			name:      "explicitly cleared picker is invalid",
			freq:      Weekly,
			days:      mo.Some([]time.Weekday{}),
			wantField: "daysOfWeek",
		},
		{
			name:      "ordinal above Saturday",
			freq:      Weekly,
			days:      mo.Some([]time.Weekday{time.Weekday(7)}),
			wantField: "daysOfWeek",
		},
		{
			name:      "negative ordinal",
			freq:      Weekly,
			days:      mo.Some([]time.Weekday{time.Weekday(-1)}),
			wantField: "daysOfWeek",
		},
		{
			name:      "duplicate ordinal",
			freq:      Weekly,
			days:      mo.Some([]time.Weekday{time.Monday, time.Monday}),
			wantField: "daysOfWeek",
		},
		{
			name: "days ignored for daily rules",
			freq: Daily,
			days: mo.Some([]time.Weekday{time.Weekday(42)}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRule()
			r.Freq = tt.freq
			r.DaysOfWeek = tt.days

			errs := Validate(r)
			if tt.wantField == "" {
				assert.Empty(t, errs)
			} else {
				require.Len(t, errs, 1)
				assert.Equal(t, tt.wantField, errs[0].Field)
			}
		})
	}
}

func TestValidate_DayOfMonth(t *testing.T) {
	tests := []struct {
		name    string
		freq    Frequency
		day     mo.Option[int]
		wantErr bool
	}{
		{name: "absent is valid", freq: Monthly, day: mo.None[int]()},
		{name: "first", freq: Monthly, day: mo.Some(1)},
		{name: "last", freq: Monthly, day: mo.Some(31)},
		{name: "zero", freq: Monthly, day: mo.Some(0), wantErr: true},
		{name: "over 31", freq: Monthly, day: mo.Some(45), wantErr: true},
		{name: "ignored for weekly rules", freq: Weekly, day: mo.Some(45)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRule()
			r.Freq = tt.freq
			r.DayOfMonth = tt.day

			errs := Validate(r)
			if tt.wantErr {
				require.Len(t, errs, 1)
				assert.Equal(t, "dayOfMonth", errs[0].Field)
			} else {
				assert.Empty(t, errs)
			}
		})
	}
}

func TestValidate_LeadTimeDays(t *testing.T) {
	for _, lead := range []int{0, 7, 30} {
		r := NewRule()
		r.LeadTimeDays = lead
		assert.Empty(t, Validate(r), "lead time %d should be valid", lead)
	}
	for _, lead := range []int{-1, 31, 100} {
		r := NewRule()
		r.LeadTimeDays = lead
		errs := Validate(r)
		require.Len(t, errs, 1, "lead time %d should be invalid", lead)
		assert.Equal(t, "leadTimeDays", errs[0].Field)
	}
}

func TestValidate_MaxOccurrences(t *testing.T) {
	tests := []struct {
		name    string
		max     mo.Option[int]
		wantErr bool
	}{
		{name: "absent", max: mo.None[int]()},
		{name: "one", max: mo.Some(1)},
		{name: "cap", max: mo.Some(999)},
		{name: "zero", max: mo.Some(0), wantErr: true},
		{name: "over cap", max: mo.Some(1000), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRule()
			r.MaxOccurrences = tt.max

			errs := Validate(r)
			if tt.wantErr {
				require.Len(t, errs, 1)
				assert.Equal(t, "maxOccurrences", errs[0].Field)
			} else {
				assert.Empty(t, errs)
			}
		})
	}
}

func TestValidate_PastEndDateIsLegal(t *testing.T) {
	r := NewRule()
	r.EndDate = mo.Some(Date(2001, time.January, 1))
	assert.Empty(t, Validate(r))
}

func TestValidate_BothBoundsMayCoexist(t *testing.T) {
	r := NewRule()
	r.EndDate = mo.Some(Date(2026, time.December, 31))
	r.MaxOccurrences = mo.Some(10)
	assert.Empty(t, Validate(r))
}

func TestValidate_ErrorOrderIsDeterministic(t *testing.T) {
	r := Rule{
		Freq:         Weekly,
		Interval:     0,
		DaysOfWeek:   mo.Some([]time.Weekday{}),
		LeadTimeDays: 99,
	}

	errs := Validate(r)
	require.Len(t, errs, 3)
	assert.Equal(t, "interval", errs[0].Field)
	assert.Equal(t, "daysOfWeek", errs[1].Field)
	assert.Equal(t, "leadTimeDays", errs[2].Field)
}

func TestValidate_DoesNotMutateRule(t *testing.T) {
	r := Rule{
		Freq:       Weekly,
		Interval:   0,
		DaysOfWeek: mo.Some([]time.Weekday{time.Friday, time.Monday}),
		DayOfMonth: mo.Some(45),
	}
	before := r

	Validate(r)
	assert.True(t, r.Equal(before))
}
