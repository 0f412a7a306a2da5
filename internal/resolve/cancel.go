package resolve

import "sync/atomic"

// CancelToken is the cooperative cancellation flag for one deploy. The
// deploy coordinator owns the single token and sets it; polling components
// only ever read it, at the top of each loop iteration and immediately after
// each sleep. Cancellation is not an error: it short-circuits remaining
// waits and skips validation.
type CancelToken struct {
	cancelled atomic.Bool
}

// NewCancelToken returns a fresh, unset token.
func NewCancelToken() *CancelToken {
	return &CancelToken{}
}

// Cancel sets the token. Safe to call from any goroutine, any number of times.
func (t *CancelToken) Cancel() {
	t.cancelled.Store(true)
}

// Cancelled reports whether the token has been set. A nil token is never
// cancelled, so callers that do not need cancellation may pass nil.
func (t *CancelToken) Cancelled() bool {
	return t != nil && t.cancelled.Load()
}
