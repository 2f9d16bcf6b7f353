/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */
package sched

// ThreadGroup owns an ordered sequence of ScheduledObjects executed at one
// base frequency by a single worker goroutine. Objects execute in
// insertion order within a frame — part of the contract, since drivers
// rely on it to place Connection models after producers and before
// consumers (spec.md §2/§3).
type ThreadGroup struct {
	Frequency float64
	Objects   []*ScheduledObject
}
