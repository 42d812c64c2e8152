package main

import (
	"context"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/chromedp"
	"github.com/pkg/errors"

	"github.com/trezcool/edutracker/core"
)

// Browser captures full-page screenshots.
type Browser interface {
	Capture(url string, vp Viewport) ([]byte, error)
	Close() error
}

// chromeBrowser drives a single headless Chrome tab; captures run one at a time.
type chromeBrowser struct {
	ctx     context.Context
	cancel  context.CancelFunc
	settle  time.Duration
	timeout time.Duration
}

var _ Browser = (*chromeBrowser)(nil)

func newChromeBrowser(conf core.ScreenshotConfig) (Browser, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:], chromedp.NoSandbox)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	ctx, cancelCtx := chromedp.NewContext(allocCtx)
	cancel := func() {
		cancelCtx()
		cancelAlloc()
	}

	// an empty Run starts the browser
	if err := chromedp.Run(ctx); err != nil {
		cancel()
		return nil, errors.Wrap(err, "launching browser")
	}
	return &chromeBrowser{ctx: ctx, cancel: cancel, settle: conf.Settle, timeout: conf.Timeout}, nil
}

func (b *chromeBrowser) Capture(url string, vp Viewport) ([]byte, error) {
	ctx, cancel := context.WithTimeout(b.ctx, b.timeout)
	defer cancel()

	var buf []byte
	err := chromedp.Run(ctx,
		emulation.SetDeviceMetricsOverride(int64(vp.Width), int64(vp.Height), 1, false),
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(b.settle),
		chromedp.FullScreenshot(&buf, 100),
	)
	return buf, err
}

func (b *chromeBrowser) Close() error {
	err := chromedp.Cancel(b.ctx)
	b.cancel()
	return err
}
