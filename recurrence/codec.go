package recurrence

import (
	"strconv"
	"strings"
	"time"

	"github.com/samber/mo"
)

// PayloadDateLayout is the ISO date layout used for end dates at the
// persistence boundary.
const PayloadDateLayout = "2006-01-02"

// Payload is the recurrence shape exchanged with the task API. Days of week
// travel as a comma-joined weekday-ordinal string (e.g. "1,3,5") rather than
// a structured list, and the end date as an ISO date string. A nil
// DaysOfWeek means the day picker was never touched; an empty string means
// it was explicitly cleared.
type Payload struct {
	Type           string  `json:"type"`
	Interval       int     `json:"interval"`
	DaysOfWeek     *string `json:"days_of_week,omitempty"`
	DayOfMonth     *int    `json:"day_of_month,omitempty"`
	EndDate        string  `json:"end_date,omitempty"`
	MaxOccurrences *int    `json:"max_occurrences,omitempty"`
	LeadTimeDays   int     `json:"lead_time_days"`
}

// EncodePayload flattens a rule into its wire shape.
func EncodePayload(r Rule) Payload {
	p := Payload{
		Type:         string(r.Freq),
		Interval:     r.Interval,
		LeadTimeDays: r.LeadTimeDays,
	}

	if days, ok := r.DaysOfWeek.Get(); ok {
		joined := joinOrdinals(days)
		p.DaysOfWeek = &joined
	}
	if day, ok := r.DayOfMonth.Get(); ok {
		d := day
		p.DayOfMonth = &d
	}
	if end, ok := r.EndDate.Get(); ok {
		p.EndDate = end.Format(PayloadDateLayout)
	}
	if n, ok := r.MaxOccurrences.Get(); ok {
		c := n
		p.MaxOccurrences = &c
	}

	return p
}

// DecodePayload parses a wire payload back into a rule. Errors are
// FieldError values naming the offending field, so callers can surface them
// alongside Validate results. Range checks are left to Validate; decode only
// rejects values that cannot be represented at all, such as an unknown type,
// a non-numeric ordinal or a date that does not exist on the calendar.
func DecodePayload(p Payload) (Rule, error) {
	r := Rule{
		Freq:         Frequency(p.Type),
		Interval:     p.Interval,
		LeadTimeDays: p.LeadTimeDays,
	}

	if !KnownFrequency(r.Freq) {
		return Rule{}, FieldError{Field: "type", Message: "unknown recurrence type " + strconv.Quote(p.Type)}
	}

	if p.DaysOfWeek != nil {
		days, err := splitOrdinals(*p.DaysOfWeek)
		if err != nil {
			return Rule{}, FieldError{Field: "daysOfWeek", Message: err.Error()}
		}
		r.DaysOfWeek = mo.Some(days)
	}

	if p.DayOfMonth != nil {
		r.DayOfMonth = mo.Some(*p.DayOfMonth)
	}

	if p.EndDate != "" {
		end, err := time.ParseInLocation(PayloadDateLayout, p.EndDate, time.UTC)
		if err != nil {
			return Rule{}, FieldError{Field: "endDate", Message: "not a valid calendar date"}
		}
		r.EndDate = mo.Some(end)
	}

	if p.MaxOccurrences != nil {
		r.MaxOccurrences = mo.Some(*p.MaxOccurrences)
	}

	return r, nil
}

func joinOrdinals(days []time.Weekday) string {
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = strconv.Itoa(int(d))
	}
	return strings.Join(parts, ",")
}

func splitOrdinals(s string) ([]time.Weekday, error) {
	if s == "" {
		return []time.Weekday{}, nil
	}

	var days []time.Weekday
	for _, part := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		days = append(days, time.Weekday(n))
	}
	return days, nil
}
