package timetable

import "errors"

var (
	ErrSourceUnreachable   = errors.New("timetable source unreachable")
	ErrGridPageMalformed   = errors.New("grid page malformed")
	ErrGridRowMalformed    = errors.New("grid row malformed")
	ErrDetailPageMalformed = errors.New("detail page malformed")
	ErrInvalidWeekday      = errors.New("invalid weekday")
	ErrInvalidWeekNumber   = errors.New("invalid week number")
	ErrTimeFormatInvalid   = errors.New("invalid time format")
)
