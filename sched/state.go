/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */
package sched

// State is the scheduler's lifecycle state. Ordinal values are part of the
// external ABI (package abi's get_scheduler_state) and must never be
// reordered.
//
// Grounded on original_source/src/core/src/scheduler.rs's SchedulerState.
type State int32

const (
	StateConfig State = iota
	StateInitializing
	StateInitialized
	StateRunning
	StatePaused
	StateEnding
	StateEnded
	StateErrored
)

func (s State) String() string {
	switch s {
	case StateConfig:
		return "CONFIG"
	case StateInitializing:
		return "INITIALIZING"
	case StateInitialized:
		return "INITIALIZED"
	case StateRunning:
		return "RUNNING"
	case StatePaused:
		return "PAUSED"
	case StateEnding:
		return "ENDING"
	case StateEnded:
		return "ENDED"
	case StateErrored:
		return "ERRORED"
	default:
		return "UNKNOWN"
	}
}
