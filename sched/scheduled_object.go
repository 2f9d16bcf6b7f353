/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */
package sched

import (
	"github.com/sinfaen/rsisgo/framework"
	"github.com/sinfaen/rsisgo/model"
)

// ScheduledObject wraps a Model with a rate divisor and phase offset: the
// model's Step runs once every Divisor ticks. The counter starts at
// (Offset mod Divisor) and Step fires when it is 0, so the first firing
// is on tick (Divisor - Offset mod Divisor) mod Divisor.
//
// As spec.md §4.F/§3 exactly. Grounded on
// original_source/src/core/src/scheduler.rs's ScheduledObject and its
// tick/step method.
type ScheduledObject struct {
	Model   model.Model
	Divisor int64
	Offset  int64

	counter int64
}

// NewScheduledObject constructs a ScheduledObject with counter initialized
// to Offset mod Divisor, per the invariant counter ∈ [0, Divisor).
// Divisor must be ≥ 1; Offset must be ≥ 0.
func NewScheduledObject(m model.Model, divisor, offset int64) *ScheduledObject {
	return &ScheduledObject{
		Model:   m,
		Divisor: divisor,
		Offset:  offset,
		counter: offset % divisor,
	}
}

// tick implements the pre-check/increment/wrap execution rule: Step fires
// when counter == 0, then counter is incremented and wrapped.
func (o *ScheduledObject) tick(fw framework.Framework) model.RuntimeStatus {
	status := model.RuntimeOK
	if o.counter == 0 {
		status = o.Model.Step(fw)
	}
	o.counter++
	if o.counter == o.Divisor {
		o.counter = 0
	}
	return status
}
