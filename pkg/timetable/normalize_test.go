package timetable

import (
	"context"
	"testing"
	"time"
)

func TestNormalize(t *testing.T) {
	fetcher := newFakeFetcher(map[string]string{
		testBaseURL + "optics.aspx": detailPage("<p>Optics overview</p>",
			[5]string{"Tuesday", "1", "Michaelmas", "14.00-16.00", "Lindemann"},
		),
	})
	cache := NewDetailCache(testTerm(t), fetcher)

	matched := NewActivity(at(2022, time.October, 11, 14, 0), at(2022, time.October, 11, 16, 0), "Optics", "optics.aspx")
	unmatched := NewActivity(at(2022, time.October, 12, 15, 0), at(2022, time.October, 12, 16, 0), "Optics", "optics.aspx")
	days := []Day{
		{Midnight: at(2022, time.October, 11, 0, 0), Activities: []Activity{matched}},
		{Midnight: at(2022, time.October, 12, 0, 0), Activities: []Activity{unmatched}},
	}

	if err := Normalize(context.Background(), cache, days); err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	got := days[0].Activities[0]
	if got.Location != "Lindemann" || got.Term != "Michaelmas" {
		t.Errorf("matched activity = %+v, want Lindemann/Michaelmas", got)
	}
	if got.Description == "" {
		t.Error("matched activity has no description")
	}

	got = days[1].Activities[0]
	if got.Location != "" || got.Term != "" {
		t.Errorf("unmatched activity location/term = %q/%q, want empty", got.Location, got.Term)
	}
	if got.Description != days[0].Activities[0].Description {
		t.Errorf("unmatched activity description = %q, want the detail page description", got.Description)
	}
	if calls := fetcher.callCount(testBaseURL + "optics.aspx"); calls != 1 {
		t.Errorf("fetch count = %d, want 1", calls)
	}
}

func TestNormalize_LookupErrorAborts(t *testing.T) {
	cache := NewDetailCache(testTerm(t), newFakeFetcher(map[string]string{}))
	days := []Day{{
		Midnight:   at(2022, time.October, 11, 0, 0),
		Activities: []Activity{NewActivity(at(2022, time.October, 11, 9, 0), at(2022, time.October, 11, 10, 0), "Physics", "gone.aspx")},
	}}

	if err := Normalize(context.Background(), cache, days); err == nil {
		t.Error("expected Normalize to fail when a detail page cannot be fetched")
	}
}

func TestHrefs(t *testing.T) {
	days := []Day{
		{Activities: []Activity{{Href: "b"}, {Href: "a"}}},
		{Activities: []Activity{{Href: "b"}, {Href: "c"}}},
	}
	got := Hrefs(days)
	want := []string{"b", "a", "c"}
	if len(got) != len(want) {
		t.Fatalf("Hrefs = %v, want %v", got, want)
	}
	for index := range want {
		if got[index] != want[index] {
			t.Errorf("Hrefs = %v, want %v", got, want)
			break
		}
	}
}
