package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestPacerConcurrencyCap(t *testing.T) {
	p := NewPacer(&Config{MaxConcurrent: 2, MinInterval: 0})

	r1, err := p.Acquire(context.Background())
	if err != nil {
		t.Fatalf("first acquire failed: %v", err)
	}
	r2, err := p.Acquire(context.Background())
	if err != nil {
		t.Fatalf("second acquire failed: %v", err)
	}

	// Third slot must block until a release.
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := p.Acquire(ctx); err == nil {
		t.Error("expected third acquire to block and fail on timeout")
	}

	r1()
	r3, err := p.Acquire(context.Background())
	if err != nil {
		t.Fatalf("acquire after release failed: %v", err)
	}
	r3()
	r2()
}

func TestPacerMinInterval(t *testing.T) {
	interval := 30 * time.Millisecond
	p := NewPacer(&Config{MaxConcurrent: 4, MinInterval: interval})

	start := time.Now()
	for i := 0; i < 3; i++ {
		release, err := p.Acquire(context.Background())
		if err != nil {
			t.Fatalf("acquire %d failed: %v", i, err)
		}
		release()
	}
	elapsed := time.Since(start)

	// Three starts need at least two full intervals between them.
	if elapsed < 2*interval {
		t.Errorf("expected at least %v of pacing, got %v", 2*interval, elapsed)
	}
}

func TestPacerCancelledContext(t *testing.T) {
	p := NewPacer(&Config{MaxConcurrent: 1, MinInterval: time.Minute})

	release, err := p.Acquire(context.Background())
	if err != nil {
		t.Fatalf("first acquire failed: %v", err)
	}
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := p.Acquire(ctx); err == nil {
		t.Error("expected cancelled acquire to fail")
	}
}
