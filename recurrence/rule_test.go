package recurrence

import (
	"testing"
	"time"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
)

func TestNewRuleDefaults(t *testing.T) {
	r := NewRule()
	assert.Equal(t, Daily, r.Freq)
	assert.Equal(t, 1, r.Interval)
	assert.Zero(t, r.LeadTimeDays)
	assert.True(t, r.DaysOfWeek.IsAbsent())
	assert.True(t, r.EndDate.IsAbsent())
	assert.Empty(t, Validate(r))
}

func TestRuleEqual(t *testing.T) {
	base := Rule{
		Freq:       Weekly,
		Interval:   2,
		DaysOfWeek: mo.Some([]time.Weekday{time.Monday, time.Friday}),
		EndDate:    mo.Some(Date(2026, time.May, 1)),
	}

	same := base
	same.DaysOfWeek = mo.Some([]time.Weekday{time.Monday, time.Friday})
	assert.True(t, base.Equal(same))

	reordered := base
	reordered.DaysOfWeek = mo.Some([]time.Weekday{time.Friday, time.Monday})
	assert.False(t, base.Equal(reordered), "day order is part of the value")

	cleared := base
	cleared.DaysOfWeek = mo.Some([]time.Weekday{})
	assert.False(t, base.Equal(cleared))

	untouched := base
	untouched.DaysOfWeek = mo.None[[]time.Weekday]()
	assert.False(t, base.Equal(untouched), "untouched and explicitly empty are distinct states")
	assert.False(t, cleared.Equal(untouched))
}

func TestKnownFrequency(t *testing.T) {
	for _, f := range []Frequency{Daily, Weekly, Monthly, Yearly, Custom} {
		assert.True(t, KnownFrequency(f))
	}
	assert.False(t, KnownFrequency(Frequency("fortnightly")))
	assert.False(t, KnownFrequency(Frequency("")))
}
