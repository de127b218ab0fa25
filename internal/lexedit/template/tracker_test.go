package template

import (
	"context"
	"errors"
	"testing"
	"time"
)

type slowFetcher struct {
	release chan struct{}
}

func (f *slowFetcher) FetchImage(ctx context.Context, _ string) (ImageInfo, error) {
	select {
	case <-f.release:
		return ImageInfo{Width: 1, Height: 1}, nil
	case <-ctx.Done():
		return ImageInfo{}, ctx.Err()
	}
}

func TestWaitBlocksUntilLoadsFinish(t *testing.T) {
	f := &slowFetcher{release: make(chan struct{})}
	tr := NewTracker(f, time.Millisecond)
	ctx := context.Background()

	applied := 0
	for i := 0; i < 3; i++ {
		tr.Go(ctx, "u", func(ImageInfo, error) { applied++ })
	}
	if tr.Pending() != 3 {
		t.Fatalf("expected 3 pending, got %d", tr.Pending())
	}

	close(f.release)
	if err := tr.Wait(ctx); err != nil {
		t.Fatalf("wait: %v", err)
	}
	if applied != 3 {
		t.Errorf("expected 3 results applied, got %d", applied)
	}
	if tr.Pending() != 0 {
		t.Errorf("expected nothing pending")
	}
}

func TestWaitHonoursContext(t *testing.T) {
	f := &slowFetcher{release: make(chan struct{})}
	defer close(f.release)
	tr := NewTracker(f, time.Millisecond)

	tr.Go(context.Background(), "u", nil)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := tr.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestWaitWithNothingPending(t *testing.T) {
	tr := NewTracker(nil, 0)
	if err := tr.Wait(context.Background()); err != nil {
		t.Fatalf("wait: %v", err)
	}
}
