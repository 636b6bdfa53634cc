package otp

import (
	"context"
	"log/slog"
	"time"
)

type sweepable interface {
	Sweep(ctx context.Context) (int, error)
}

// Sweeper periodically removes expired OTP records until its context is cancelled.
type Sweeper struct {
	svc      sweepable
	interval time.Duration
}

func NewSweeper(svc sweepable, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Sweeper{svc: svc, interval: interval}
}

// Run blocks until ctx is done. Sweep errors are logged and the loop continues.
func (s *Sweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	slog.Info("otp sweeper started", "interval", s.interval)
	for {
		select {
		case <-ctx.Done():
			slog.Info("otp sweeper stopped")
			return nil
		case <-ticker.C:
			n, err := s.svc.Sweep(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				slog.Error("otp sweep failed", "err", err)
				continue
			}
			if n > 0 {
				slog.Info("expired otps removed", "count", n)
			}
		}
	}
}
