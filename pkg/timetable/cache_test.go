package timetable

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestDetailCache_FetchesEachHrefOnce(t *testing.T) {
	fetcher := newFakeFetcher(map[string]string{
		testBaseURL + "lecture.aspx?id=1": detailPage("<p>Optics</p>"),
	})
	cache := NewDetailCache(testTerm(t), fetcher)

	first, err := cache.Lookup(context.Background(), "lecture.aspx?id=1")
	if err != nil {
		t.Fatalf("first Lookup failed: %v", err)
	}
	second, err := cache.Lookup(context.Background(), "lecture.aspx?id=1")
	if err != nil {
		t.Fatalf("second Lookup failed: %v", err)
	}

	if first != second {
		t.Error("expected the cached DetailInfo to be shared")
	}
	if calls := fetcher.callCount(testBaseURL + "lecture.aspx?id=1"); calls != 1 {
		t.Errorf("fetch count = %d, want 1", calls)
	}
	if cache.Len() != 1 {
		t.Errorf("Len = %d, want 1", cache.Len())
	}
}

func TestDetailCache_ResolvesAgainstBaseURL(t *testing.T) {
	fetcher := newFakeFetcher(map[string]string{
		"https://lectures.example.test/lec/42": detailPage("<p>Optics</p>"),
	})
	cache := NewDetailCache(testTerm(t), fetcher)

	if _, err := cache.Lookup(context.Background(), "/lec/42"); err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
}

func TestDetailCache_DoesNotCacheFailures(t *testing.T) {
	fetcher := newFakeFetcher(map[string]string{})
	cache := NewDetailCache(testTerm(t), fetcher)

	for attempt := 0; attempt < 2; attempt++ {
		if _, err := cache.Lookup(context.Background(), "missing.aspx"); err == nil {
			t.Fatal("expected lookup of a missing page to fail")
		}
	}
	if calls := fetcher.callCount(testBaseURL + "missing.aspx"); calls != 2 {
		t.Errorf("fetch count = %d, want 2", calls)
	}
	if cache.Len() != 0 {
		t.Errorf("Len = %d, want 0", cache.Len())
	}
}

func TestDetailCache_ConcurrentLookupsShareOneFetch(t *testing.T) {
	fetcher := newFakeFetcher(map[string]string{
		testBaseURL + "lecture.aspx?id=1": detailPage("<p>Optics</p>"),
	})
	fetcher.delay = 20 * time.Millisecond
	cache := NewDetailCache(testTerm(t), fetcher)

	var waitGroup sync.WaitGroup
	results := make([]*DetailInfo, 8)
	for index := range results {
		index := index
		waitGroup.Add(1)
		go func() {
			defer waitGroup.Done()
			info, err := cache.Lookup(context.Background(), "lecture.aspx?id=1")
			if err != nil {
				t.Errorf("Lookup failed: %v", err)
				return
			}
			results[index] = info
		}()
	}
	waitGroup.Wait()

	if calls := fetcher.callCount(testBaseURL + "lecture.aspx?id=1"); calls != 1 {
		t.Errorf("fetch count = %d, want 1", calls)
	}
	for index, info := range results {
		if info == nil || info.Description == "" {
			t.Errorf("result %d incomplete: %+v", index, info)
		}
	}
}

func TestDetailCache_Prefetch(t *testing.T) {
	pages := map[string]string{}
	hrefs := []string{"a.aspx", "b.aspx", "c.aspx", "a.aspx"}
	for _, href := range hrefs {
		pages[testBaseURL+href] = detailPage("<p>" + href + "</p>")
	}

	for _, limit := range []int{1, 3} {
		fetcher := newFakeFetcher(pages)
		cache := NewDetailCache(testTerm(t), fetcher)
		if err := cache.Prefetch(context.Background(), hrefs, limit); err != nil {
			t.Fatalf("Prefetch(limit %d) failed: %v", limit, err)
		}
		if cache.Len() != 3 {
			t.Errorf("limit %d: Len = %d, want 3", limit, cache.Len())
		}
		if calls := fetcher.callCount(testBaseURL + "a.aspx"); calls != 1 {
			t.Errorf("limit %d: a.aspx fetched %d times, want 1", limit, calls)
		}
	}
}

func TestDetailCache_PrefetchFailure(t *testing.T) {
	fetcher := newFakeFetcher(map[string]string{
		testBaseURL + "a.aspx": detailPage("<p>a</p>"),
	})
	cache := NewDetailCache(testTerm(t), fetcher)

	if err := cache.Prefetch(context.Background(), []string{"a.aspx", "missing.aspx"}, 2); err == nil {
		t.Error("expected Prefetch to report the missing page")
	}
}
