package timetable

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

var weekdayToOffsetMap = map[string]int{
	"monday":    0,
	"tuesday":   1,
	"wednesday": 2,
	"thursday":  3,
	"friday":    4,
	"saturday":  5,
	"sunday":    6,
}

// Resolve maps a week number and English weekday name to the calendar date
// it falls on, counting from the term's week-0 Monday.
func (c TermConfig) Resolve(week int, weekday string) (time.Time, error) {
	offset, known := weekdayToOffsetMap[strings.ToLower(strings.TrimSpace(weekday))]
	if !known {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidWeekday, weekday)
	}
	return c.StartDate.AddDate(0, 0, offset+week*7), nil
}

// ResolveText is Resolve for a week number still in its table-cell form.
func (c TermConfig) ResolveText(week string, weekday string) (time.Time, error) {
	weekNumber, parseError := strconv.Atoi(strings.TrimSpace(week))
	if parseError != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidWeekNumber, week)
	}
	return c.Resolve(weekNumber, weekday)
}
