package harvest

import "context"

// Delayer paces outbound requests. Wait is called immediately before every
// fetch, including the first.
type Delayer interface {
	// Wait blocks until the next request may be sent.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context) error
}
