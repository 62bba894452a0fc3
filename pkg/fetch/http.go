// Package fetch retrieves timetable pages over plain HTTP or through a
// headless Chrome instance.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"OxTimetable/pkg/log"
	"go.uber.org/zap"
)

const (
	defaultRequestTimeout = 30 * time.Second
	userAgentLiteral      = "OxTimetable/1.0 (+calendar export)"
)

var ErrUnexpectedStatus = errors.New("unexpected HTTP status")

// HTTP fetches pages with a single unauthenticated GET.
type HTTP struct {
	Client *http.Client
}

func NewHTTP(timeout time.Duration) *HTTP {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &HTTP{Client: &http.Client{Timeout: timeout}}
}

func (f *HTTP) Fetch(ctx context.Context, pageURL string) ([]byte, error) {
	request, requestError := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if requestError != nil {
		return nil, requestError
	}
	request.Header.Set("User-Agent", userAgentLiteral)

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	response, responseError := client.Do(request)
	if responseError != nil {
		return nil, responseError
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s from %s", ErrUnexpectedStatus, response.Status, pageURL)
	}
	body, readError := io.ReadAll(response.Body)
	if readError != nil {
		return nil, readError
	}
	log.L().Debug("http_fetch", zap.String("url", pageURL), zap.Int("bytes", len(body)))
	return body, nil
}
