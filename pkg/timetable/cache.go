package timetable

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"OxTimetable/pkg/log"
	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Fetcher retrieves the raw document at pageURL.
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string) ([]byte, error)
}

// DetailCache memoises parsed detail pages by href for one export run.
// Each distinct href is fetched and parsed at most once, even when lookups
// race; failed lookups are not remembered.
type DetailCache struct {
	term    TermConfig
	fetcher Fetcher

	mutex   sync.RWMutex
	entries map[string]*DetailInfo
	flight  singleflight.Group
}

func NewDetailCache(term TermConfig, fetcher Fetcher) *DetailCache {
	return &DetailCache{
		term:    term,
		fetcher: fetcher,
		entries: map[string]*DetailInfo{},
	}
}

// Lookup returns the DetailInfo for href, fetching and parsing it on first use.
func (c *DetailCache) Lookup(ctx context.Context, href string) (*DetailInfo, error) {
	if info, cached := c.cached(href); cached {
		return info, nil
	}
	result, lookupError, _ := c.flight.Do(href, func() (interface{}, error) {
		if info, cached := c.cached(href); cached {
			return info, nil
		}
		info, loadError := c.load(ctx, href)
		if loadError != nil {
			return nil, loadError
		}
		c.mutex.Lock()
		c.entries[href] = info
		c.mutex.Unlock()
		return info, nil
	})
	if lookupError != nil {
		return nil, lookupError
	}
	return result.(*DetailInfo), nil
}

// Prefetch warms the cache for hrefs using at most limit concurrent fetches.
// A limit of one or less fetches sequentially in the given order.
func (c *DetailCache) Prefetch(ctx context.Context, hrefs []string, limit int) error {
	if limit <= 1 {
		for _, href := range hrefs {
			if _, lookupError := c.Lookup(ctx, href); lookupError != nil {
				return lookupError
			}
		}
		return nil
	}
	group, groupContext := errgroup.WithContext(ctx)
	group.SetLimit(limit)
	for _, href := range hrefs {
		href := href
		group.Go(func() error {
			_, lookupError := c.Lookup(groupContext, href)
			return lookupError
		})
	}
	return group.Wait()
}

// Len reports how many detail pages are cached.
func (c *DetailCache) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.entries)
}

func (c *DetailCache) cached(href string) (*DetailInfo, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	info, found := c.entries[href]
	return info, found
}

func (c *DetailCache) load(ctx context.Context, href string) (*DetailInfo, error) {
	pageURL, resolveError := c.resolve(href)
	if resolveError != nil {
		return nil, resolveError
	}
	log.L().Info("detail_fetch", zap.String("href", href), zap.String("url", pageURL))
	body, fetchError := c.fetcher.Fetch(ctx, pageURL)
	if fetchError != nil {
		return nil, fmt.Errorf("fetch detail page %s: %w", href, fetchError)
	}
	document, documentError := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if documentError != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDetailPageMalformed, href, documentError)
	}
	return ParseDetailPage(c.term, href, document)
}

func (c *DetailCache) resolve(href string) (string, error) {
	reference, parseError := url.Parse(strings.TrimSpace(href))
	if parseError != nil {
		return "", fmt.Errorf("%w: detail link %q: %v", ErrGridRowMalformed, href, parseError)
	}
	if c.term.BaseURL == nil {
		return reference.String(), nil
	}
	return c.term.BaseURL.ResolveReference(reference).String(), nil
}
