package main

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"OxTimetable/pkg/fetch"
	"OxTimetable/pkg/timetable"
)

const (
	termStartLayout  = "2006-01-02"
	defaultTermStart = "2022-10-03"
	defaultBaseURL   = "https://www3.physics.ox.ac.uk/lectures/"
	defaultSourceURL = "https://www3.physics.ox.ac.uk/lectures/timetable.aspx?term=Michaelmas&year=2022&course=1physics"
)

// Globals are the settings shared by every command. Each flag falls back to
// an environment variable, which may come from a .env file.
type Globals struct {
	TermStart   string        `name:"term-start" env:"TIMETABLE_TERM_START" default:"${termStart}" help:"Date of the Monday of week 0 (YYYY-MM-DD)."`
	SourceURL   string        `name:"source-url" env:"TIMETABLE_SOURCE_URL" default:"${sourceURL}" help:"URL of the timetable grid page."`
	BaseURL     string        `name:"base-url" env:"TIMETABLE_BASE_URL" default:"${baseURL}" help:"Prefix for resolving relative detail-page links."`
	Browser     bool          `env:"TIMETABLE_BROWSER" help:"Render pages with headless Chrome instead of plain HTTP."`
	Concurrency int           `env:"TIMETABLE_CONCURRENCY" default:"1" help:"Detail pages fetched at once; 1 keeps requests sequential."`
	Timeout     time.Duration `env:"TIMETABLE_TIMEOUT" default:"30s" help:"Timeout for each page fetch."`
	Prod        bool          `env:"TIMETABLE_PROD" help:"Log JSON in production format."`
}

func (g *Globals) termConfig() (timetable.TermConfig, error) {
	startDate, parseError := time.ParseInLocation(termStartLayout, g.TermStart, time.Local)
	if parseError != nil {
		return timetable.TermConfig{}, fmt.Errorf("term start %q: %w", g.TermStart, parseError)
	}
	baseURL, urlError := url.Parse(g.BaseURL)
	if urlError != nil {
		return timetable.TermConfig{}, fmt.Errorf("base url %q: %w", g.BaseURL, urlError)
	}
	return timetable.TermConfig{StartDate: startDate, BaseURL: baseURL}, nil
}

// fetcher returns the configured page fetcher and its cleanup.
func (g *Globals) fetcher(ctx context.Context) (timetable.Fetcher, func(), error) {
	if !g.Browser {
		return fetch.NewHTTP(g.Timeout), func() {}, nil
	}
	browser, browserError := fetch.NewBrowser(ctx, g.Timeout)
	if browserError != nil {
		return nil, nil, fmt.Errorf("starting Chrome: %w", browserError)
	}
	return browser, browser.Close, nil
}

func (g *Globals) runConfig(fetcher timetable.Fetcher) (timetable.RunConfig, error) {
	term, termError := g.termConfig()
	if termError != nil {
		return timetable.RunConfig{}, termError
	}
	return timetable.RunConfig{
		Term:        term,
		SourceURL:   g.SourceURL,
		Fetcher:     fetcher,
		Concurrency: g.Concurrency,
	}, nil
}
