package batch

import (
	"context"
	"math/rand/v2"
	"time"

	"ytharvest/internal/config"
)

// Pacer pauses between videos.
type Pacer interface {
	Pause(ctx context.Context) (time.Duration, error)
}

// NoCooldown never waits.
type NoCooldown struct{}

func (NoCooldown) Pause(context.Context) (time.Duration, error) { return 0, nil }

// RandomCooldown waits a uniformly random whole number of seconds in [Min, Max].
type RandomCooldown struct {
	Min int
	Max int

	intN  func(n int) int
	sleep func(ctx context.Context, d time.Duration) error
}

// NewRandomCooldown returns a cooldown drawing from [minSeconds, maxSeconds].
// Bounds are clamped so that 0 <= min <= max.
func NewRandomCooldown(minSeconds, maxSeconds int) *RandomCooldown {
	minSeconds = max(minSeconds, 0)
	maxSeconds = max(maxSeconds, minSeconds)
	return &RandomCooldown{
		Min:   minSeconds,
		Max:   maxSeconds,
		intN:  rand.IntN,
		sleep: sleepWithContext,
	}
}

// Pause sleeps for the drawn duration, returning early with ctx.Err() when
// the context is cancelled.
func (r *RandomCooldown) Pause(ctx context.Context) (time.Duration, error) {
	seconds := r.Min
	if span := r.Max - r.Min; span > 0 {
		seconds += r.intN(span + 1)
	}
	d := time.Duration(seconds) * time.Second
	if err := r.sleep(ctx, d); err != nil {
		return 0, err
	}
	return d, nil
}

// NewPacer picks the pacer for the configured cooldown.
func NewPacer(cfg config.Cooldown) Pacer {
	if !cfg.Enabled || cfg.MaxSeconds <= 0 {
		return NoCooldown{}
	}
	return NewRandomCooldown(cfg.MinSeconds, cfg.MaxSeconds)
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
