// Package timetable turns the lecture grid page and its per-course detail
// pages into a deduplicated, time-ordered list of calendar days.
package timetable

import (
	"net/url"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// TermConfig anchors week numbers to dates and resolves detail-page links.
type TermConfig struct {
	StartDate time.Time // Monday of week 0
	BaseURL   *url.URL
}

// Activity is one scheduled lecture occurrence.
type Activity struct {
	Start       time.Time
	End         time.Time
	Name        string
	Href        string
	Description string
	Location    string
	Term        string
}

// NewActivity normalises the display title and link the way both source
// pages are compared: NFKC then whitespace-trimmed.
func NewActivity(start, end time.Time, name, href string) Activity {
	return Activity{
		Start: start,
		End:   end,
		Name:  normalizeText(name),
		Href:  normalizeText(href),
	}
}

func normalizeText(raw string) string {
	return norm.NFKC.String(strings.TrimSpace(raw))
}

func (a Activity) mergeableAfter(previous Activity) bool {
	return a.Name == previous.Name &&
		a.Href == previous.Href &&
		a.Location == previous.Location &&
		previous.End.Equal(a.Start)
}

// Day is one calendar date and the activities scheduled on it.
type Day struct {
	Midnight   time.Time
	Activities []Activity
}

// At returns the absolute time hours:minutes after the day's midnight,
// built on the calendar date so DST transitions do not shift it.
func (d Day) At(hours, minutes int) time.Time {
	return time.Date(d.Midnight.Year(), d.Midnight.Month(), d.Midnight.Day(),
		hours, minutes, 0, 0, d.Midnight.Location())
}

// Compress merges the day's activities in place. See Compress.
func (d *Day) Compress() {
	d.Activities = Compress(d.Activities)
}

// DetailRecord is one row of a detail page's own schedule table.
type DetailRecord struct {
	Start time.Time
	End   time.Time
	Room  string
	Term  string
}

// DetailInfo is a parsed detail page. It is read-only once cached.
type DetailInfo struct {
	Href        string
	Description string
	Records     []DetailRecord
}

// Match returns the first record whose time window equals [start, end).
func (i *DetailInfo) Match(start, end time.Time) (DetailRecord, bool) {
	for _, record := range i.Records {
		if record.Start.Equal(start) && record.End.Equal(end) {
			return record, true
		}
	}
	return DetailRecord{}, false
}
