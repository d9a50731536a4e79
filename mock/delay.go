package mock

import (
	"context"

	"github.com/fwojciec/harvest"
)

var _ harvest.Delayer = (*Delayer)(nil)

// Delayer is a mock implementation of harvest.Delayer.
type Delayer struct {
	WaitFn func(ctx context.Context) error
}

func (d *Delayer) Wait(ctx context.Context) error {
	return d.WaitFn(ctx)
}
