package services

import (
	"context"
	"time"
)

// Pacer enforces a minimum delay between successive provider calls. Two
// tiers: the short delay paces exhaustive and sampled calls, the long delay
// paces priority calls. Fixed-interval, no jitter, no backoff.
type Pacer struct {
	shortDelay time.Duration
	longDelay  time.Duration
}

func NewPacer(shortDelay, longDelay time.Duration) *Pacer {
	return &Pacer{shortDelay: shortDelay, longDelay: longDelay}
}

func (p *Pacer) WaitShort(ctx context.Context) error {
	return p.wait(ctx, p.shortDelay)
}

func (p *Pacer) WaitLong(ctx context.Context) error {
	return p.wait(ctx, p.longDelay)
}

func (p *Pacer) wait(ctx context.Context, delay time.Duration) error {

	if delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
