// Package mail delivers templated emails off the request path.
package mail

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/yatraone/transit-api/internal/metrics"
)

type sender interface {
	SendTemplated(ctx context.Context, to, subject, templateID string, data map[string]string) error
}

// Dispatcher sends each email in its own goroutine. Failures are logged and
// counted, never returned to the caller.
type Dispatcher struct {
	sender  sender
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewDispatcher(s sender, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Dispatcher{sender: s, timeout: timeout}
}

// Send queues one email and returns immediately.
func (d *Dispatcher) Send(to, subject, templateID string, data map[string]string) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()
		if err := d.sender.SendTemplated(ctx, to, subject, templateID, data); err != nil {
			metrics.EmailFailuresTotal.Inc()
			slog.Error("email dispatch failed", "template", templateID, "to", to, "err", err)
		}
	}()
}

// Wait blocks until every queued email has finished or failed.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
