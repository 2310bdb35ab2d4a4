// Package ratelimit paces and caps outbound oracle calls.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Config holds pacer configuration.
type Config struct {
	// Semaphore: concurrent in-flight call cap
	MaxConcurrent int // default: 4

	// Minimum spacing between consecutive call starts
	MinInterval time.Duration // default: 1s
}

// DefaultConfig returns default configuration.
func DefaultConfig() *Config {
	return &Config{
		MaxConcurrent: 4,
		MinInterval:   time.Second,
	}
}

// Pacer enforces a concurrency cap and a minimum interval between call
// starts. Batch processing stays sequential by default; the semaphore is
// the safety net when multiple pipelines share one oracle client.
type Pacer struct {
	semaphore chan struct{}
	interval  time.Duration

	mu        sync.Mutex
	lastStart time.Time
}

// NewPacer creates a pacer from config, applying defaults for zero values.
func NewPacer(cfg *Config) *Pacer {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	maxConcurrent := cfg.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = 4
	}
	return &Pacer{
		semaphore: make(chan struct{}, maxConcurrent),
		interval:  cfg.MinInterval,
	}
}

// Acquire blocks until a slot is free and the pacing interval has elapsed.
// Returns a release function that must be called when the call completes.
func (p *Pacer) Acquire(ctx context.Context) (func(), error) {
	select {
	case p.semaphore <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	release := func() {
		<-p.semaphore
	}

	if wait := p.reserve(); wait > 0 {
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			release()
			return nil, ctx.Err()
		}
	}

	return release, nil
}

// reserve claims the next start slot and returns how long to wait for it.
func (p *Pacer) reserve() time.Duration {
	if p.interval <= 0 {
		return 0
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	now := time.Now()
	next := p.lastStart.Add(p.interval)
	if next.Before(now) {
		next = now
	}
	p.lastStart = next
	return next.Sub(now)
}
