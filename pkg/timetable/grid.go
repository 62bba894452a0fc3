package timetable

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	mainContentSelector    = "#mainContent"
	tableSelector          = "table"
	rowSelector            = "tr"
	cellSelector           = "td"
	linkSelector           = "a"
	hrefAttribute          = "href"
	lineBreakNodeName      = "br"
	linkNodeName           = "a"
	timeRangeSeparator     = "-"
	gridWeekColumn         = 0
	gridWeekdayColumn      = 1
	gridFirstMorningColumn = 2
	gridAfternoonColumn    = 6
	gridColumnCount        = 7
	firstMorningHour       = 9
)

// ParseGridPage extracts one Day per timetable row, skipping the header row.
func ParseGridPage(term TermConfig, document *goquery.Document) ([]Day, error) {
	table := document.Find(mainContentSelector).Find(tableSelector).First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("%w: no table under %s", ErrGridPageMalformed, mainContentSelector)
	}

	var days []Day
	var rowError error
	table.Find(rowSelector).EachWithBreak(func(index int, row *goquery.Selection) bool {
		if index == 0 {
			return true
		}
		day, parseError := ParseGridRow(term, row)
		if parseError != nil {
			rowError = fmt.Errorf("grid row %d: %w", index, parseError)
			return false
		}
		days = append(days, day)
		return true
	})
	if rowError != nil {
		return nil, rowError
	}
	return days, nil
}

// ParseGridRow reads a single day: week, weekday, four one-hour morning
// slots starting at 09:00, and the free-form afternoon cell. Activities are
// returned uncompressed, one per slot, so each can be matched against its
// detail page before merging.
func ParseGridRow(term TermConfig, row *goquery.Selection) (Day, error) {
	cells := row.Find(cellSelector)
	if cells.Length() < gridColumnCount {
		return Day{}, fmt.Errorf("%w: %d cells, want %d", ErrGridRowMalformed, cells.Length(), gridColumnCount)
	}

	midnight, resolveError := term.ResolveText(cells.Eq(gridWeekColumn).Text(), cells.Eq(gridWeekdayColumn).Text())
	if resolveError != nil {
		return Day{}, resolveError
	}
	day := Day{Midnight: midnight}

	for column := gridFirstMorningColumn; column < gridAfternoonColumn; column++ {
		cell := cells.Eq(column)
		if strings.TrimSpace(cell.Text()) == "" {
			continue
		}
		href, hasLink := cell.Find(linkSelector).First().Attr(hrefAttribute)
		if !hasLink {
			return Day{}, fmt.Errorf("%w: morning cell %d has no link", ErrGridRowMalformed, column)
		}
		startHour := firstMorningHour + column - gridFirstMorningColumn
		day.Activities = append(day.Activities,
			NewActivity(day.At(startHour, 0), day.At(startHour+1, 0), cell.Text(), href))
	}

	afternoonActivities, afternoonError := parseAfternoonCell(day, cells.Eq(gridAfternoonColumn))
	if afternoonError != nil {
		return Day{}, afternoonError
	}
	day.Activities = append(day.Activities, afternoonActivities...)
	return day, nil
}

// afternoonRecord is one line-break-terminated group of the afternoon cell.
type afternoonRecord struct {
	timeRange string
	href      string
	title     string
	hasLink   bool
}

func (r afternoonRecord) empty() bool {
	return r.timeRange == "" && !r.hasLink && r.title == ""
}

func parseAfternoonCell(day Day, cell *goquery.Selection) ([]Activity, error) {
	if strings.TrimSpace(cell.Text()) == "" {
		return nil, nil
	}

	var records []afternoonRecord
	var current afternoonRecord
	cell.Contents().Each(func(_ int, node *goquery.Selection) {
		switch goquery.NodeName(node) {
		case lineBreakNodeName:
			records = append(records, current)
			current = afternoonRecord{}
		case linkNodeName:
			current.href, current.hasLink = node.Attr(hrefAttribute)
			current.title = node.Text()
		default:
			text := strings.TrimSpace(node.Text())
			if text != "" && current.timeRange == "" {
				current.timeRange = text
			}
		}
	})
	records = append(records, current)

	var activities []Activity
	for _, record := range records {
		if record.empty() {
			continue
		}
		if record.timeRange == "" || !record.hasLink || strings.TrimSpace(record.title) == "" {
			return nil, fmt.Errorf("%w: incomplete afternoon record %+v", ErrGridRowMalformed, record)
		}
		startHour, endHour, rangeError := parseHourRange(record.timeRange)
		if rangeError != nil {
			return nil, rangeError
		}
		activities = append(activities,
			NewActivity(day.At(startHour, 0), day.At(endHour, 0), record.title, record.href))
	}
	return activities, nil
}

// parseHourRange reads "14 - 16". The grid only ever carries whole hours;
// anything else is rejected instead of truncated.
func parseHourRange(raw string) (int, int, error) {
	parts := strings.Split(raw, timeRangeSeparator)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: hour range %q", ErrTimeFormatInvalid, raw)
	}
	startHour, startError := parseWholeHour(parts[0])
	if startError != nil {
		return 0, 0, startError
	}
	endHour, endError := parseWholeHour(parts[1])
	if endError != nil {
		return 0, 0, endError
	}
	if endHour <= startHour {
		return 0, 0, fmt.Errorf("%w: hour range %q ends before it starts", ErrTimeFormatInvalid, raw)
	}
	return startHour, endHour, nil
}

func parseWholeHour(raw string) (int, error) {
	value, parseError := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if parseError != nil || value != math.Trunc(value) || value < 0 || value > 24 {
		return 0, fmt.Errorf("%w: hour %q", ErrTimeFormatInvalid, raw)
	}
	return int(value), nil
}
