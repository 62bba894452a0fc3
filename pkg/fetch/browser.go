// pkg/fetch/browser.go
package fetch

import (
	"context"
	"os/exec"
	"sync"
	"time"

	"OxTimetable/pkg/log"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

const (
	bodySelector         = "body"
	documentSelector     = "html"
	defaultRenderTimeout = 60 * time.Second
)

var chromeExecutablePath = func() string {
	if path, _ := exec.LookPath("google-chrome"); path != "" {
		return path
	}
	if path, _ := exec.LookPath("chromium"); path != "" {
		return path
	}
	return "/Applications/Google Chrome.app/Contents/MacOS/Google Chrome"
}()

// Browser renders pages in one shared headless Chrome and returns the
// resulting markup, for timetable pages that only fill in their tables with
// script. Close releases Chrome.
type Browser struct {
	timeout        time.Duration
	browserContext context.Context
	cancelBrowser  context.CancelFunc
	cancelAlloc    context.CancelFunc
	mutex          sync.Mutex
}

func NewBrowser(parentContext context.Context, timeout time.Duration) (*Browser, error) {
	if timeout <= 0 {
		timeout = defaultRenderTimeout
	}
	allocatorContext, allocatorCancel := chromedp.NewExecAllocator(
		parentContext,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.ExecPath(chromeExecutablePath),
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
		)...,
	)
	browserContext, browserCancel := chromedp.NewContext(allocatorContext)
	if err := chromedp.Run(browserContext); err != nil {
		browserCancel()
		allocatorCancel()
		return nil, err
	}
	log.L().Info("browser_start", zap.String("chrome", chromeExecutablePath))
	return &Browser{
		timeout:        timeout,
		browserContext: browserContext,
		cancelBrowser:  browserCancel,
		cancelAlloc:    allocatorCancel,
	}, nil
}

// Fetch navigates a fresh tab to pageURL. Calls are serialised on the
// shared browser.
func (b *Browser) Fetch(ctx context.Context, pageURL string) ([]byte, error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	tabContext, tabCancel := chromedp.NewContext(b.browserContext)
	defer tabCancel()
	contextWithTimeout, contextCancel := context.WithTimeout(tabContext, b.timeout)
	defer contextCancel()
	stop := context.AfterFunc(ctx, contextCancel)
	defer stop()

	var pageHTML string
	runError := chromedp.Run(
		contextWithTimeout,
		chromedp.Navigate(pageURL),
		chromedp.WaitReady(bodySelector, chromedp.ByQuery),
		chromedp.OuterHTML(documentSelector, &pageHTML, chromedp.ByQuery),
	)
	if runError != nil {
		return nil, runError
	}
	log.L().Debug("browser_fetch", zap.String("url", pageURL), zap.Int("bytes", len(pageHTML)))
	return []byte(pageHTML), nil
}

func (b *Browser) Close() {
	b.cancelBrowser()
	b.cancelAlloc()
}
