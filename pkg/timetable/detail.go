package timetable

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/PuerkitoBio/goquery"
)

const (
	overviewSelector       = "#overviewContent"
	secondMaterialSelector = "#materialsContent2"
	thirdMaterialSelector  = "#materialsContent3"
	clockLayout            = "15.04"
	noRoomLiteral          = "No room specified"
	detailDayColumn        = 0
	detailWeekColumn       = 1
	detailTermColumn       = 2
	detailTimeColumn       = 3
	detailRoomColumn       = 4
	detailColumnCount      = 5
)

var clockRangeRegularExpression = regexp.MustCompile(`^(\d{1,2}\.\d{2})-(\d{1,2}\.\d{2})$`)

// ParseDetailPage reads a course detail page: the overview and the two
// materials regions become the description, and the page's own schedule
// table becomes the record list used to confirm room and term.
func ParseDetailPage(term TermConfig, href string, document *goquery.Document) (*DetailInfo, error) {
	description, descriptionError := detailDescription(document)
	if descriptionError != nil {
		return nil, descriptionError
	}

	table := document.Find(mainContentSelector).Find(tableSelector).First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("%w: %s has no schedule table", ErrDetailPageMalformed, href)
	}

	info := &DetailInfo{Href: href, Description: description}
	var rowError error
	table.Find(rowSelector).EachWithBreak(func(index int, row *goquery.Selection) bool {
		if index == 0 {
			return true
		}
		record, parseError := parseDetailRow(term, row)
		if parseError != nil {
			rowError = fmt.Errorf("%s schedule row %d: %w", href, index, parseError)
			return false
		}
		info.Records = append(info.Records, record)
		return true
	})
	if rowError != nil {
		return nil, rowError
	}
	return info, nil
}

func detailDescription(document *goquery.Document) (string, error) {
	for _, selector := range []string{overviewSelector, secondMaterialSelector, thirdMaterialSelector} {
		if document.Find(selector).Length() == 0 {
			return "", fmt.Errorf("%w: missing %s", ErrDetailPageMalformed, selector)
		}
	}

	var builder strings.Builder
	document.Find(overviewSelector).First().Contents().Each(func(_ int, child *goquery.Selection) {
		builder.WriteString(child.Text())
		builder.WriteString("\n")
	})
	builder.WriteString("\n")
	builder.WriteString(document.Find(secondMaterialSelector).First().Text())
	builder.WriteString("\n\n")
	builder.WriteString(document.Find(thirdMaterialSelector).First().Text())
	builder.WriteString("\n")
	return builder.String(), nil
}

func parseDetailRow(term TermConfig, row *goquery.Selection) (DetailRecord, error) {
	cells := row.Find(cellSelector)
	if cells.Length() < detailColumnCount {
		return DetailRecord{}, fmt.Errorf("%w: %d cells, want %d", ErrDetailPageMalformed, cells.Length(), detailColumnCount)
	}

	date, resolveError := term.ResolveText(cells.Eq(detailWeekColumn).Text(), cells.Eq(detailDayColumn).Text())
	if resolveError != nil {
		return DetailRecord{}, resolveError
	}
	day := Day{Midnight: date}

	startClock, endClock, clockError := parseClockRange(cells.Eq(detailTimeColumn).Text())
	if clockError != nil {
		return DetailRecord{}, clockError
	}

	room := strings.TrimSpace(cells.Eq(detailRoomColumn).Text())
	if room == "" {
		room = noRoomLiteral
	}

	return DetailRecord{
		Start: day.At(startClock.Hour(), startClock.Minute()),
		End:   day.At(endClock.Hour(), endClock.Minute()),
		Room:  room,
		Term:  strings.TrimSpace(cells.Eq(detailTermColumn).Text()),
	}, nil
}

// parseClockRange reads "9.00-10.30" once all whitespace has been removed.
func parseClockRange(raw string) (time.Time, time.Time, error) {
	compact := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw)
	matches := clockRangeRegularExpression.FindStringSubmatch(compact)
	if matches == nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: clock range %q", ErrTimeFormatInvalid, raw)
	}
	startClock, startError := time.Parse(clockLayout, matches[1])
	if startError != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %v", ErrTimeFormatInvalid, startError)
	}
	endClock, endError := time.Parse(clockLayout, matches[2])
	if endError != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %v", ErrTimeFormatInvalid, endError)
	}
	return startClock, endClock, nil
}
