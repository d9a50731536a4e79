package crawl

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/fwojciec/harvest"
)

// Default delay windows between requests.
const (
	DefaultCrawlMinDelay  = 2 * time.Second
	DefaultCrawlMaxDelay  = 5 * time.Second
	DefaultEnrichMinDelay = 3 * time.Second
	DefaultEnrichMaxDelay = 6 * time.Second
)

var _ harvest.Delayer = (*RandomDelay)(nil)

// RandomDelay waits a uniformly random duration in [Min, Max] before each
// request.
type RandomDelay struct {
	Min time.Duration
	Max time.Duration

	// Int64N returns a random value in [0, n). Defaults to math/rand/v2.
	Int64N func(n int64) int64

	// Sleep blocks for d or until ctx is done. Defaults to a timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

// NewRandomDelay creates a RandomDelay for the window [min, max].
func NewRandomDelay(min, max time.Duration) *RandomDelay {
	return &RandomDelay{Min: min, Max: max}
}

// Validate returns an error if the window is negative or inverted.
func (d *RandomDelay) Validate() error {
	if d.Min < 0 || d.Max < 0 {
		return harvest.Errorf(harvest.EINVALID, "delay must not be negative, got %s..%s", d.Min, d.Max)
	}
	if d.Min > d.Max {
		return harvest.Errorf(harvest.EINVALID, "min delay %s exceeds max delay %s", d.Min, d.Max)
	}
	return nil
}

// Next returns the duration of the next wait.
func (d *RandomDelay) Next() time.Duration {
	span := int64(d.Max - d.Min)
	if span <= 0 {
		return d.Min
	}
	n := d.Int64N
	if n == nil {
		n = rand.Int64N
	}
	return d.Min + time.Duration(n(span+1))
}

// Wait blocks for the next random duration.
// Returns an error if the context is canceled before the wait completes.
func (d *RandomDelay) Wait(ctx context.Context) error {
	sleep := d.Sleep
	if sleep == nil {
		sleep = Sleep
	}
	return sleep(ctx, d.Next())
}

// Sleep blocks for dur or until ctx is done, whichever comes first.
func Sleep(ctx context.Context, dur time.Duration) error {
	if dur <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(dur)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
