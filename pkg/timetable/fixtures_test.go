package timetable

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	testBaseURL   = "https://lectures.example.test/lectures/"
	testSourceURL = "https://lectures.example.test/lectures/timetable.aspx?term=Michaelmas"
)

func testTerm(t *testing.T) TermConfig {
	t.Helper()
	baseURL, err := url.Parse(testBaseURL)
	if err != nil {
		t.Fatalf("parse base url: %v", err)
	}
	return TermConfig{
		StartDate: time.Date(2022, time.October, 3, 0, 0, 0, 0, time.UTC),
		BaseURL:   baseURL,
	}
}

func mustDocument(t *testing.T, html string) *goquery.Document {
	t.Helper()
	document, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return document
}

func at(year int, month time.Month, day, hour, minute int) time.Time {
	return time.Date(year, month, day, hour, minute, 0, 0, time.UTC)
}

// gridPage wraps rows in the grid page's table, after a header row.
func gridPage(rows ...string) string {
	return `<html><body><div id="mainContent"><table>` +
		`<tr><th>Week</th><th>Day</th><th>9</th><th>10</th><th>11</th><th>12</th><th>Afternoon</th></tr>` +
		strings.Join(rows, "") +
		`</table></div></body></html>`
}

func gridRow(week, weekday string, morning [4]string, afternoon string) string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "<tr><td>%s</td><td>%s</td>", week, weekday)
	for _, cell := range morning {
		fmt.Fprintf(&builder, "<td>%s</td>", cell)
	}
	fmt.Fprintf(&builder, "<td>%s</td></tr>", afternoon)
	return builder.String()
}

func link(href, title string) string {
	return fmt.Sprintf(`<a href="%s">%s</a>`, href, title)
}

// detailPage builds a detail page whose schedule table holds rows of
// day, week, term, time range and room.
func detailPage(overview string, rows ...[5]string) string {
	var builder strings.Builder
	builder.WriteString(`<html><body>`)
	fmt.Fprintf(&builder, `<div id="overviewContent">%s</div>`, overview)
	builder.WriteString(`<div id="materialsContent2">Problem sets</div>`)
	builder.WriteString(`<div id="materialsContent3">Lecture notes</div>`)
	builder.WriteString(`<div id="mainContent"><table><tr><th>Day</th><th>Week</th><th>Term</th><th>Time</th><th>Room</th></tr>`)
	for _, row := range rows {
		builder.WriteString("<tr>")
		for _, cell := range row {
			fmt.Fprintf(&builder, "<td>%s</td>", cell)
		}
		builder.WriteString("</tr>")
	}
	builder.WriteString(`</table></div></body></html>`)
	return builder.String()
}

// fakeFetcher serves canned pages and counts requests per URL.
type fakeFetcher struct {
	mutex sync.Mutex
	pages map[string]string
	calls map[string]int
	delay time.Duration
}

func newFakeFetcher(pages map[string]string) *fakeFetcher {
	return &fakeFetcher{pages: pages, calls: map[string]int{}}
}

func (f *fakeFetcher) Fetch(ctx context.Context, pageURL string) ([]byte, error) {
	f.mutex.Lock()
	f.calls[pageURL]++
	page, found := f.pages[pageURL]
	f.mutex.Unlock()
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if !found {
		return nil, fmt.Errorf("no page at %s", pageURL)
	}
	return []byte(page), nil
}

func (f *fakeFetcher) callCount(pageURL string) int {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return f.calls[pageURL]
}
