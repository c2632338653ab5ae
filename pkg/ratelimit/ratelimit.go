package ratelimit

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// Pacer spaces out consecutive operations by a minimum interval, optionally
// stretched by a random jitter. The first Wait never blocks.
type Pacer struct {
	mu       sync.Mutex
	interval time.Duration
	jitter   float64 // 0.0 to 1.0
	last     time.Time
}

// NewPacer creates a pacer allowing rps operations per second. If rps <= 0
// the pacer never blocks. Jitter is clamped to [0, 1] and adds up to
// jitter*interval of extra delay.
func NewPacer(rps float64, jitter float64) *Pacer {
	if jitter < 0 {
		jitter = 0
	} else if jitter > 1 {
		jitter = 1
	}

	p := &Pacer{jitter: jitter}
	if rps > 0 {
		p.interval = time.Duration(float64(time.Second) / rps)
	}
	return p
}

// Interval returns the minimum spacing between operations.
func (p *Pacer) Interval() time.Duration {
	if p == nil {
		return 0
	}
	return p.interval
}

// Wait blocks until the next operation may start or ctx is done.
// A nil Pacer never blocks.
func (p *Pacer) Wait(ctx context.Context) error {
	if p == nil || p.interval <= 0 {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.last.IsZero() {
		delay := p.interval - time.Since(p.last)
		if p.jitter > 0 {
			delay += time.Duration(float64(p.interval) * p.jitter * rand.Float64())
		}
		if delay > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}
	}

	p.last = time.Now()
	return nil
}
