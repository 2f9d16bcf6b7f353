// Package stats exposes the scheduler's runtime metrics: per-ThreadGroup
// frame duration and soft-real-time overrun counts. Overrun is a
// diagnostic only — spec.md §4.H is explicit that exceeding the frame
// budget is never an error.
/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */
package stats

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metric naming follows the teacher's target_stats.go convention:
// a dotted/underscored base name plus a unit suffix (here surfaced as
// Prometheus's _total/_seconds suffixes rather than the teacher's StatsD
// `.n`/`.ns`, since the transport is Prometheus, not StatsD).
var (
	FrameOverruns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rsisgo_sched_frame_overruns_total",
		Help: "Frames whose step+pacing work exceeded the ThreadGroup's frame width.",
	}, []string{"thread_group"})

	StepDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rsisgo_sched_step_duration_seconds",
		Help:    "Wall-clock time spent executing every ScheduledObject in one frame.",
		Buckets: prometheus.DefBuckets,
	}, []string{"thread_group"})
)

func init() {
	prometheus.MustRegister(FrameOverruns, StepDuration)
}

// ObserveFrame records one frame's step duration for threadGroup, and
// increments the overrun counter if the frame exceeded its frame width
// (sleepFor was negative or zero because the work itself took too long).
func ObserveFrame(threadGroup int, dur time.Duration, overrun bool) {
	label := strconv.Itoa(threadGroup)
	StepDuration.WithLabelValues(label).Observe(dur.Seconds())
	if overrun {
		FrameOverruns.WithLabelValues(label).Inc()
	}
}
