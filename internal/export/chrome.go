package export

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"golang.org/x/sync/semaphore"
)

// Exporter renders a standalone HTML document to PDF bytes.
type Exporter interface {
	Export(ctx context.Context, html string) ([]byte, error)
}

// settledJS is truthy once the document has loaded and every image has either
// loaded or failed.
const settledJS = `document.readyState === 'complete' &&
	Array.from(document.images).every(function (img) { return img.complete; })`

// ChromeExporter starts a fresh headless Chrome for every export and tears it
// down before returning. A semaphore caps how many run at once.
type ChromeExporter struct {
	opts Options
	sem  *semaphore.Weighted
}

// NewChromeExporter creates an exporter. Zero option values take defaults.
func NewChromeExporter(opts Options) (*ChromeExporter, error) {
	opts = opts.withDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &ChromeExporter{
		opts: opts,
		sem:  semaphore.NewWeighted(opts.MaxConcurrent),
	}, nil
}

// Options returns the effective options.
func (e *ChromeExporter) Options() Options {
	return e.opts
}

// Export loads html into a new Chrome instance and prints it to PDF.
func (e *ChromeExporter) Export(ctx context.Context, html string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, e.opts.Timeout)
	defer cancel()

	if err := e.sem.Acquire(ctx, 1); err != nil {
		return nil, &ExportError{Stage: "acquire", Cause: err}
	}
	defer e.sem.Release(1)

	start := time.Now()

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, e.allocatorOptions()...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	// The first Run starts the browser.
	if err := chromedp.Run(browserCtx); err != nil {
		return nil, &ExportError{Stage: "launch", Cause: err}
	}

	if err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return fmt.Errorf("failed to get frame tree: %w", err)
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.ActionFunc(e.waitSettled),
	); err != nil {
		return nil, &ExportError{Stage: "load", Cause: err}
	}

	width, height, err := PaperDimensions(e.opts.PaperSize)
	if err != nil {
		return nil, &ExportError{Stage: "print", Cause: err}
	}

	var pdf []byte
	if err := chromedp.Run(browserCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		pdf, _, err = page.PrintToPDF().
			WithPrintBackground(true).
			WithPaperWidth(width).
			WithPaperHeight(height).
			WithMarginTop(DefaultMarginInches).
			WithMarginBottom(DefaultMarginInches).
			WithMarginLeft(DefaultMarginInches).
			WithMarginRight(DefaultMarginInches).
			WithPreferCSSPageSize(true).
			Do(ctx)
		return err
	})); err != nil {
		return nil, &ExportError{Stage: "print", Cause: err}
	}

	log.Printf("[export] printed %d bytes in %s", len(pdf), time.Since(start).Round(time.Millisecond))
	return pdf, nil
}

// waitSettled polls until the page is settled or the load timeout passes. A
// load timeout is not an error: whatever is laid out gets printed.
func (e *ChromeExporter) waitSettled(ctx context.Context) error {
	var settled bool
	err := chromedp.Poll(settledJS, &settled,
		chromedp.WithPollingTimeout(e.opts.LoadTimeout),
		chromedp.WithPollingInterval(100*time.Millisecond),
	).Do(ctx)
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return errors.Join(err, ctxErr)
	}
	log.Printf("[export] document not settled after %s, printing anyway: %v", e.opts.LoadTimeout, err)
	return nil
}

func (e *ChromeExporter) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if e.opts.ChromePath != "" {
		opts = append(opts, chromedp.ExecPath(e.opts.ChromePath))
	}
	return opts
}
