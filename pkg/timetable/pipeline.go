// pkg/timetable/pipeline.go
package timetable

import (
	"bytes"
	"context"
	"fmt"

	"OxTimetable/pkg/log"
	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// RunConfig is everything one export run needs.
type RunConfig struct {
	Term        TermConfig
	SourceURL   string
	Fetcher     Fetcher
	Concurrency int
}

// Export fetches the grid page, parses every day, resolves each activity
// against its detail page and returns the compressed days. Any failure
// aborts the whole run.
func Export(ctx context.Context, config RunConfig) ([]Day, error) {
	log.L().Info("export_start", zap.String("url", config.SourceURL))

	body, fetchError := config.Fetcher.Fetch(ctx, config.SourceURL)
	if fetchError != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnreachable, fetchError)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, fmt.Errorf("%w: empty response from %s", ErrSourceUnreachable, config.SourceURL)
	}

	document, documentError := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if documentError != nil {
		return nil, fmt.Errorf("%w: %v", ErrGridPageMalformed, documentError)
	}
	days, parseError := ParseGridPage(config.Term, document)
	if parseError != nil {
		return nil, parseError
	}
	log.L().Info("grid_parsed", zap.Int("days", len(days)))

	cache := NewDetailCache(config.Term, config.Fetcher)
	if prefetchError := cache.Prefetch(ctx, Hrefs(days), config.Concurrency); prefetchError != nil {
		return nil, prefetchError
	}
	if normalizeError := Normalize(ctx, cache, days); normalizeError != nil {
		return nil, normalizeError
	}

	log.L().Info("export_done",
		zap.Int("days", len(days)),
		zap.Int("activities", countActivities(days)),
		zap.Int("detail_pages", cache.Len()),
	)
	return days, nil
}

func countActivities(days []Day) int {
	total := 0
	for _, day := range days {
		total += len(day.Activities)
	}
	return total
}
