package recurrence

import (
	"time"

	"github.com/emersion/go-ical"
)

// SetComponentRecurrence writes a rule onto an iCalendar component as an
// RRULE property, anchored at the given date. Rules with no RRULE mapping
// (custom frequency) leave the component untouched and return the error.
func SetComponentRecurrence(comp *ical.Component, r Rule, anchor time.Time) error {
	rule, err := RRule(r, anchor)
	if err != nil {
		return err
	}
	// RRuleString renders the rule part only; DTSTART is carried by the
	// component's own date properties.
	comp.Props.SetText(ical.PropRecurrenceRule, rule.OrigOptions.RRuleString())
	return nil
}

// ComponentRule extracts the RRULE string from an iCalendar component, or
// "" when the component does not recur.
func ComponentRule(comp *ical.Component) string {
	if prop := comp.Props.Get(ical.PropRecurrenceRule); prop != nil {
		return prop.Value
	}
	return ""
}
