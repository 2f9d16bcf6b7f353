// Package epoch implements the scheduler's monotonic simulation clock: a
// wrapping tick counter plus a fixed per-tick time delta.
/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */
package epoch

import "math"

// Time is a value type: 0 <= Tick < Rollover at every observation point.
// Ownership of synchronization belongs to whoever embeds it (see
// framework.Impl, which guards a *Time with a mutex shared across workers).
type Time struct {
	Epoch    int64
	Tick     int64
	Delta    float64 // seconds per tick
	Rollover int64
}

// New returns a Time with delta=1.0 and the widest possible rollover,
// matching the original RSIS EpochTime::new().
func New() Time {
	return Time{Delta: 1.0, Rollover: math.MaxInt64}
}

// Increment advances the clock by steps ticks, subtracting Rollover and
// bumping Epoch when Tick reaches Rollover. A single call wraps at most
// once, so Tick stays in [0, Rollover) only when steps <= Rollover.
func (t *Time) Increment(steps int64) {
	t.Tick += steps
	if t.Tick >= t.Rollover {
		t.Tick -= t.Rollover
		t.Epoch++
	}
}

// Value returns simulation time in seconds: Tick scaled by Delta.
func (t *Time) Value() float64 { return float64(t.Tick) * t.Delta }
