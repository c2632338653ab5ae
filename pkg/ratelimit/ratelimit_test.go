package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestPacer_NoBlockWhenZeroRPS(t *testing.T) {
	p := NewPacer(0, 0.5)

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := p.Wait(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if time.Since(start) > 10*time.Millisecond {
		t.Errorf("pacer with 0 RPS should not block")
	}
}

func TestPacer_NilDoesNotBlock(t *testing.T) {
	var p *Pacer
	if err := p.Wait(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Interval() != 0 {
		t.Errorf("Expected zero interval for nil pacer")
	}
}

func TestPacer_Wait(t *testing.T) {
	p := NewPacer(10, 0) // 100ms interval
	ctx := context.Background()

	start := time.Now()
	if err := p.Wait(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if time.Since(start) > 10*time.Millisecond {
		t.Errorf("first wait should not block")
	}

	start = time.Now()
	if err := p.Wait(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	duration := time.Since(start)
	if duration < 80*time.Millisecond || duration > 250*time.Millisecond {
		t.Errorf("expected wait around 100ms, took %v", duration)
	}
}

func TestPacer_ContextCancellation(t *testing.T) {
	p := NewPacer(1, 0) // 1 second interval
	_ = p.Wait(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := p.Wait(ctx); err == nil {
		t.Fatalf("expected context canceled error")
	}
}

func TestPacer_Jitter(t *testing.T) {
	p := NewPacer(10, 0.5) // 100ms interval, up to 50ms extra
	ctx := context.Background()

	_ = p.Wait(ctx)

	start := time.Now()
	_ = p.Wait(ctx)
	duration := time.Since(start)

	if duration < 80*time.Millisecond || duration > 350*time.Millisecond {
		t.Errorf("expected jittered wait between 100ms and 150ms, took %v", duration)
	}
}
