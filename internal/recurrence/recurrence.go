// Package recurrence defines the schedule shapes shared by task lists,
// food-safety checklists, and evaluation cycles, and the date matching
// rules for them.
package recurrence

import (
	"fmt"
	"time"
)

// Kind identifies a recurrence shape.
type Kind string

const (
	KindDaily   Kind = "daily"
	KindWeekly  Kind = "weekly"
	KindMonthly Kind = "monthly"
)

// Spec describes when a recurring item is due. Weekly specs require a
// weekday; monthly specs require both an ordinal week and a weekday.
// A Spec is immutable once attached to a scheduled item.
type Spec struct {
	Kind        Kind          `json:"kind"`
	WeeklyDay   *time.Weekday `json:"weekly_day,omitempty"`
	MonthlyWeek *int          `json:"monthly_week,omitempty"`
	MonthlyDay  *time.Weekday `json:"monthly_day,omitempty"`
}

// InvalidSpecError indicates a malformed recurrence spec.
type InvalidSpecError struct {
	Reason string
}

func (e *InvalidSpecError) Error() string {
	return fmt.Sprintf("invalid recurrence spec: %s", e.Reason)
}

// Validate checks the spec's structural invariants.
func (s Spec) Validate() error {
	switch s.Kind {
	case KindDaily:
		return nil
	case KindWeekly:
		if s.WeeklyDay == nil {
			return &InvalidSpecError{Reason: "weekly recurrence requires a weekday"}
		}
		return nil
	case KindMonthly:
		if s.MonthlyWeek == nil || s.MonthlyDay == nil {
			return &InvalidSpecError{Reason: "monthly recurrence requires a week of month and a weekday"}
		}
		if *s.MonthlyWeek < 1 || *s.MonthlyWeek > 4 {
			return &InvalidSpecError{Reason: fmt.Sprintf("week of month must be 1-4, got %d", *s.MonthlyWeek)}
		}
		return nil
	default:
		return &InvalidSpecError{Reason: fmt.Sprintf("unknown kind %q", s.Kind)}
	}
}

// Matches reports whether the spec is due on the given calendar date.
//
// Week-of-month is derived from the day of month alone: days 1-7 are week 1,
// 8-14 week 2, and so on. A fifth occurrence of a weekday (day 29-31) is
// week 5 and therefore never matches a week 1-4 spec; months like that have
// no occurrence of the item. That mirrors the long-standing behavior the
// checklist history was built on, so it is kept as-is.
func (s Spec) Matches(date time.Time) bool {
	switch s.Kind {
	case KindDaily:
		return true
	case KindWeekly:
		return s.WeeklyDay != nil && date.Weekday() == *s.WeeklyDay
	case KindMonthly:
		if s.MonthlyWeek == nil || s.MonthlyDay == nil {
			return false
		}
		if date.Weekday() != *s.MonthlyDay {
			return false
		}
		return weekOfMonth(date) == *s.MonthlyWeek
	default:
		return false
	}
}

// Enumerate returns every date in (from, from+horizonDays] the spec matches,
// in ascending order. The from date itself is excluded.
func (s Spec) Enumerate(from time.Time, horizonDays int) []time.Time {
	var due []time.Time
	day := startOfDay(from)
	for i := 1; i <= horizonDays; i++ {
		d := day.AddDate(0, 0, i)
		if s.Matches(d) {
			due = append(due, d)
		}
	}
	return due
}

// weekOfMonth returns the 1-based ordinal week for a date, counted in
// blocks of seven days from the 1st.
func weekOfMonth(date time.Time) int {
	return (date.Day()-1)/7 + 1
}

// startOfDay truncates a timestamp to local midnight.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StartOfDay is the day bucket used when matching instances to calendar
// days. Exposed so materialization and projection agree on it.
func StartOfDay(t time.Time) time.Time {
	return startOfDay(t)
}

// Weekday returns a pointer to d, for building weekly and monthly specs.
func Weekday(d time.Weekday) *time.Weekday {
	return &d
}

// Week returns a pointer to n, for building monthly specs.
func Week(n int) *int {
	return &n
}
