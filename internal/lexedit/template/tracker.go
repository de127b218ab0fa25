package template

import (
	"context"
	"log"
	"sync"
	"time"
)

// DefaultWaitInterval is how often Wait checks for outstanding loads.
const DefaultWaitInterval = 500 * time.Millisecond

// ImageInfo is what the editor needs to know about a loaded image.
type ImageInfo struct {
	Width  int
	Height int
}

// ImageFetcher loads an image and reports its natural size.
type ImageFetcher interface {
	FetchImage(ctx context.Context, url string) (ImageInfo, error)
}

type loadResult struct {
	url   string
	info  ImageInfo
	err   error
	apply func(ImageInfo, error)
}

// Tracker counts outstanding image loads. Fetches run on their own
// goroutines; their results are only applied inside Wait, on the caller's
// goroutine, so scene objects are never written concurrently.
type Tracker struct {
	fetcher  ImageFetcher
	interval time.Duration

	mu      sync.Mutex
	pending int
	done    []loadResult
}

func NewTracker(fetcher ImageFetcher, interval time.Duration) *Tracker {
	if interval <= 0 {
		interval = DefaultWaitInterval
	}
	return &Tracker{fetcher: fetcher, interval: interval}
}

// Go starts loading url. apply runs during a later Wait.
func (t *Tracker) Go(ctx context.Context, url string, apply func(ImageInfo, error)) {
	t.mu.Lock()
	t.pending++
	t.mu.Unlock()

	go func() {
		var info ImageInfo
		var err error
		if t.fetcher != nil {
			info, err = t.fetcher.FetchImage(ctx, url)
		}

		t.mu.Lock()
		t.done = append(t.done, loadResult{url: url, info: info, err: err, apply: apply})
		t.pending--
		t.mu.Unlock()
	}()
}

// Pending is the number of loads not yet finished.
func (t *Tracker) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending
}

// Wait blocks until every started load has finished and been applied.
func (t *Tracker) Wait(ctx context.Context) error {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		if t.drain() == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// drain applies finished results and returns how many loads remain.
func (t *Tracker) drain() int {
	t.mu.Lock()
	done := t.done
	t.done = nil
	pending := t.pending
	t.mu.Unlock()

	for _, r := range done {
		if r.err != nil {
			log.Printf("image load failed: %s: %v", r.url, r.err)
		}
		if r.apply != nil {
			r.apply(r.info, r.err)
		}
	}
	return pending
}
