// Package export serialises compressed timetable days for calendar import.
package export

import (
	"io"
	"os"
	"strings"

	"OxTimetable/pkg/timetable"
)

const (
	csvHeaderLiteral = "Subject,Start Date,Start Time,End Date,End Time,Description,Location"
	csvDateLayout    = "02/01/2006"
	csvTimeLayout    = "15:04:05"
)

// CSV renders every activity, day by day, in the column order calendar
// importers expect. Description and location are always quoted; quotes
// inside them are doubled.
func CSV(days []timetable.Day) string {
	var builder strings.Builder
	builder.WriteString(csvHeaderLiteral)
	builder.WriteString("\n")
	for _, day := range days {
		for _, activity := range day.Activities {
			builder.WriteString(csvLine(activity))
			builder.WriteString("\n")
		}
	}
	return strings.TrimRight(builder.String(), "\n")
}

func csvLine(activity timetable.Activity) string {
	return strings.Join([]string{
		activity.Name,
		activity.Start.Format(csvDateLayout),
		activity.Start.Format(csvTimeLayout),
		activity.End.Format(csvDateLayout),
		activity.End.Format(csvTimeLayout),
		quote(activity.Description),
		quote(activity.Location),
	}, ",")
}

// quote doubles embedded quotes rather than passing them through raw, since
// a bare quote inside a description ends the field early and splits the row.
func quote(field string) string {
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}

func WriteCSV(writer io.Writer, days []timetable.Day) error {
	_, err := io.WriteString(writer, CSV(days))
	return err
}

// WriteFile overwrites path with the CSV rendering of days.
func WriteFile(path string, days []timetable.Day) error {
	return os.WriteFile(path, []byte(CSV(days)), 0o644)
}
