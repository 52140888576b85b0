package recurrence

import (
	"testing"
	"time"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAnchor = time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC) // a Monday

func TestRRule_DailyExpansion(t *testing.T) {
	r := Rule{Freq: Daily, Interval: 1, MaxOccurrences: mo.Some(3)}

	rule, err := RRule(r, testAnchor)
	require.NoError(t, err)

	all := rule.All()
	require.Len(t, all, 3)
	assert.Equal(t, testAnchor, all[0])
	assert.Equal(t, testAnchor.AddDate(0, 0, 1), all[1])
	assert.Equal(t, testAnchor.AddDate(0, 0, 2), all[2])
}

func TestRRule_WeeklyHonorsChosenDays(t *testing.T) {
	r := Rule{
		Freq:           Weekly,
		Interval:       1,
		DaysOfWeek:     mo.Some([]time.Weekday{time.Monday, time.Thursday}),
		MaxOccurrences: mo.Some(4),
	}

	rule, err := RRule(r, testAnchor)
	require.NoError(t, err)

	for _, occ := range rule.All() {
		assert.Contains(t, []time.Weekday{time.Monday, time.Thursday}, occ.Weekday())
	}
}

func TestRRule_WeeklyInheritsAnchorWeekday(t *testing.T) {
	// Untouched day picker: every occurrence lands on the anchor's weekday.
	r := Rule{Freq: Weekly, Interval: 2, MaxOccurrences: mo.Some(5)}

	rule, err := RRule(r, testAnchor)
	require.NoError(t, err)

	occs := rule.All()
	require.Len(t, occs, 5)
	for _, occ := range occs {
		assert.Equal(t, time.Monday, occ.Weekday())
	}
	assert.Equal(t, testAnchor.AddDate(0, 0, 14), occs[1])
}

func TestRRule_MonthlyOnFixedDay(t *testing.T) {
	r := Rule{
		Freq:           Monthly,
		Interval:       1,
		DayOfMonth:     mo.Some(15),
		MaxOccurrences: mo.Some(3),
	}

	rule, err := RRule(r, testAnchor)
	require.NoError(t, err)

	for _, occ := range rule.All() {
		assert.Equal(t, 15, occ.Day())
	}
}

func TestRRule_EndDateIsInclusive(t *testing.T) {
	r := Rule{
		Freq:     Daily,
		Interval: 1,
		EndDate:  mo.Some(Date(2024, time.January, 3)),
	}

	rule, err := RRule(r, testAnchor)
	require.NoError(t, err)

	all := rule.All()
	require.Len(t, all, 3)
	assert.Equal(t, 3, all[len(all)-1].Day())
}

// Whichever bound is reached first wins when both are set.
func TestRRule_TighterBoundWins(t *testing.T) {
	t.Run("occurrence cap first", func(t *testing.T) {
		r := Rule{
			Freq:           Daily,
			Interval:       1,
			EndDate:        mo.Some(Date(2024, time.December, 31)),
			MaxOccurrences: mo.Some(2),
		}
		rule, err := RRule(r, testAnchor)
		require.NoError(t, err)
		assert.Len(t, rule.All(), 2)
	})

	t.Run("end date first", func(t *testing.T) {
		r := Rule{
			Freq:           Daily,
			Interval:       1,
			EndDate:        mo.Some(Date(2024, time.January, 2)),
			MaxOccurrences: mo.Some(500),
		}
		rule, err := RRule(r, testAnchor)
		require.NoError(t, err)
		assert.Len(t, rule.All(), 2)
	})
}

func TestRRule_CustomHasNoMapping(t *testing.T) {
	_, err := RRule(Rule{Freq: Custom, Interval: 3}, testAnchor)
	assert.ErrorIs(t, err, ErrNoRRuleMapping)
}

func TestNextOccurrence(t *testing.T) {
	r := Rule{Freq: Daily, Interval: 1, MaxOccurrences: mo.Some(3)}

	next, ok := NextOccurrence(r, testAnchor, testAnchor)
	require.True(t, ok)
	assert.Equal(t, testAnchor.AddDate(0, 0, 1), next)

	// Third occurrence is the last; asking past it reports exhaustion.
	_, ok = NextOccurrence(r, testAnchor, testAnchor.AddDate(0, 0, 2))
	assert.False(t, ok)
}

func TestNextOccurrence_ExhaustedByEndDate(t *testing.T) {
	r := Rule{
		Freq:     Daily,
		Interval: 1,
		EndDate:  mo.Some(Date(2024, time.January, 5)),
	}

	_, ok := NextOccurrence(r, testAnchor, time.Date(2024, time.January, 5, 12, 0, 0, 0, time.UTC))
	assert.False(t, ok)
}

func TestOccurrences_Limit(t *testing.T) {
	r := Rule{Freq: Daily, Interval: 1}

	occs, err := Occurrences(r, testAnchor, testAnchor, testAnchor.AddDate(0, 1, 0), 5)
	require.NoError(t, err)
	assert.Len(t, occs, 5)
}
