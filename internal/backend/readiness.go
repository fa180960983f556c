package backend

import (
	"context"
	"sync"
)

// #region poller
// ReadinessPoller tracks service availability for the UI. Checks can
// overlap when the service is slow; a newer check supersedes older
// in-flight ones, so a stale slow answer never overwrites a fresh one.
type ReadinessPoller struct {
	client *Client

	mu         sync.Mutex
	generation uint64
	last       *ServiceStatus
	lastErr    error
}

// NewReadinessPoller creates a poller over the given client.
func NewReadinessPoller(client *Client) *ReadinessPoller {
	return &ReadinessPoller{client: client}
}

// Check queries service status once and records the outcome, unless a
// newer check started while this one was in flight.
func (p *ReadinessPoller) Check(ctx context.Context) (*ServiceStatus, error) {
	p.mu.Lock()
	p.generation++
	gen := p.generation
	p.mu.Unlock()

	st, err := p.client.Status(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.generation {
		// Superseded: report but do not record.
		return st, err
	}
	p.last = st
	p.lastErr = err
	return st, err
}

// Last returns the most recently recorded status and error.
func (p *ReadinessPoller) Last() (*ServiceStatus, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last, p.lastErr
}

// Available reports the last known availability; unknown counts as
// unavailable.
func (p *ReadinessPoller) Available() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr == nil && p.last != nil && p.last.Available
}
// #endregion poller
