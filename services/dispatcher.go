package services

import (
	"context"
	"sync"
	"time"

	"lead-intake/logger"
	"lead-intake/models"
)

// LeadListener reacts to a lead that has been durably stored.
type LeadListener interface {
	Name() string
	LeadStored(ctx context.Context, lead models.Lead) error
}

// Dispatcher fans a stored lead out to listeners in the background.
// Listener failures are logged and never reach the submitter.
type Dispatcher struct {
	listeners []LeadListener
	timeout   time.Duration
	wg        sync.WaitGroup
}

func NewDispatcher(timeout time.Duration, listeners ...LeadListener) *Dispatcher {
	return &Dispatcher{listeners: listeners, timeout: timeout}
}

// Dispatch starts one goroutine per listener and returns immediately.
func (d *Dispatcher) Dispatch(lead models.Lead) {
	for _, l := range d.listeners {
		d.wg.Add(1)
		go func(l LeadListener) {
			defer d.wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
			defer cancel()
			if err := l.LeadStored(ctx, lead); err != nil {
				logger.WithFields(logger.Fields{"listener": l.Name(), "email": lead.Email}).Warn("lead listener failed: %v", err)
			}
		}(l)
	}
}

// Wait blocks until every dispatched listener call has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
