package export

import (
	"os"
	"time"

	"OxTimetable/pkg/timetable"
	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
)

const (
	productIdentifierLiteral = "-//OxTimetable//Lecture Timetable//EN"
	floatingTimeLayout       = "20060102T150405"
)

// ICS renders the same activities as an iCalendar feed. Start and end are
// written as floating local times since the source carries no zone.
// generated is used as every event's DTSTAMP.
func ICS(days []timetable.Day, generated time.Time) string {
	calendar := ics.NewCalendar()
	calendar.SetMethod(ics.MethodPublish)
	calendar.SetProductId(productIdentifierLiteral)
	for _, day := range days {
		for _, activity := range day.Activities {
			event := calendar.AddEvent(eventUID(activity))
			event.SetDtStampTime(generated)
			event.SetProperty(ics.ComponentPropertyDtStart, activity.Start.Format(floatingTimeLayout))
			event.SetProperty(ics.ComponentPropertyDtEnd, activity.End.Format(floatingTimeLayout))
			event.SetSummary(activity.Name)
			if activity.Description != "" {
				event.SetDescription(activity.Description)
			}
			if activity.Location != "" {
				event.SetLocation(activity.Location)
			}
		}
	}
	return calendar.Serialize()
}

// eventUID is stable across runs so re-imports update rather than duplicate.
func eventUID(activity timetable.Activity) string {
	key := activity.Href + "|" + activity.Start.Format(floatingTimeLayout)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(key)).String()
}

func WriteICSFile(path string, days []timetable.Day, generated time.Time) error {
	return os.WriteFile(path, []byte(ICS(days, generated)), 0o644)
}
