package source

import (
	"context"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Browser launches headless Chrome tabs for the scraping adapters. One
// Browser is shared per adapter instance; each Tab call gets a fresh
// chromedp context off the shared allocator.
type Browser struct {
	allocOpts []chromedp.ExecAllocatorOption
	timeout   time.Duration
}

// NewBrowser creates a browser launcher with the standard headless options.
// timeout bounds each tab's whole navigation; zero means no per-tab timeout.
func NewBrowser(timeout time.Duration) *Browser {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(userAgent),
	)
	return &Browser{allocOpts: opts, timeout: timeout}
}

// Run executes the given chromedp actions in a fresh tab.
func (b *Browser) Run(ctx context.Context, actions ...chromedp.Action) error {
	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, b.allocOpts...)
	defer allocCancel()

	tabCtx, tabCancel := chromedp.NewContext(allocCtx)
	defer tabCancel()

	// Assessor sites serve different markup to requests without a language
	// header.
	prelude := []chromedp.Action{
		network.Enable(),
		network.SetExtraHTTPHeaders(network.Headers{"Accept-Language": "en-US,en;q=0.9"}),
	}
	return chromedp.Run(tabCtx, append(prelude, actions...)...)
}
