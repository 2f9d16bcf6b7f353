/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */
package sched

import (
	"time"

	"github.com/pkg/errors"

	"github.com/sinfaen/rsisgo/cmn/cos"
	"github.com/sinfaen/rsisgo/cmn/mono"
	"github.com/sinfaen/rsisgo/cmn/nlog"
	"github.com/sinfaen/rsisgo/framework"
	"github.com/sinfaen/rsisgo/model"
	"github.com/sinfaen/rsisgo/stats"
)

// worker drives one ThreadGroup: command-driven, blocking on its command
// channel when idle, running frame loops on EXECUTE, and rendezvousing
// with every other worker at the shared barrier twice per frame.
//
// As spec.md §4.H. Grounded on mirror/mput.go's XactCopy.Run() select-
// loop-over-channels shape for the command-driven loop.
type worker struct {
	id      int
	objects []*ScheduledObject
	fw      framework.Framework

	frameWidth     time.Duration
	softRealTime   bool
	clockAuthority bool

	brr  *barrier
	cmds <-chan command
	resp chan<- response
}

func (w *worker) run() {
	for cmd := range w.cmds {
		switch cmd.kind {
		case cmdInit:
			w.handleInit()
		case cmdExecute:
			if done := w.handleExecute(cmd.steps); done {
				return
			}
		case cmdPause:
			// no frame in progress: ignore, per spec.md §4.H.
		case cmdShutdown:
			w.resp <- response{kind: respEnd, cmd: cmdShutdown, workerID: w.id}
			return
		}
	}
}

// handleInit calls Init on every object, continuing past a failing one so
// a single bad object doesn't mask failures in the rest of the group, and
// accumulates the distinct failures into a cos.Errs. It still sends
// exactly one terminal response (see DESIGN.md OQ-2: no trailing OK).
func (w *worker) handleInit() {
	var errs cos.Errs
	firstErrIdx := -1
	for i, o := range w.objects {
		if rc := o.Model.Init(w.fw); rc == model.RuntimeError {
			if firstErrIdx < 0 {
				firstErrIdx = i
			}
			errs.Add(errors.Errorf("worker %d: object %d failed to initialize", w.id, i))
		}
	}
	if errs.Cnt() > 0 {
		nlog.Errorf("worker %d: %s", w.id, errs.Error())
		w.resp <- response{kind: respErr, cmd: cmdInit, workerID: w.id, index: firstErrIdx}
		return
	}
	w.resp <- response{kind: respOK, cmd: cmdInit, workerID: w.id}
}

// handleExecute runs up to n frames. It returns true if the worker should
// terminate (a SHUTDOWN was observed mid-execute).
//
// Every frame crosses the shared barrier twice: once right after the
// clock-authority group's IncrementClock (so every group's Step sees the
// new tick rather than racing the increment — required for S6 lockstep,
// and for S1's "[1,2,3,4,5]" since the authority's own Step must also
// observe the post-increment value), and once at the end of the frame
// (so a group that observes PAUSE mid-frame still rendezvous with the
// rest of the group before breaking its loop, instead of leaving slower
// groups blocked on the barrier forever).
func (w *worker) handleExecute(n int64) bool {
	for i := int64(0); i < n; i++ {
		if w.clockAuthority {
			w.fw.IncrementClock()
		}
		if !w.brr.Wait() {
			return false
		}

		frameStart := mono.NanoTime()

		if errIdx, ok := w.stepAll(); !ok {
			nlog.Errorf("worker %d: object %d step error", w.id, errIdx)
			w.pauseAll()
			w.resp <- response{kind: respErr, cmd: cmdExecute, workerID: w.id, index: errIdx}
			return false
		}

		paused := false
		select {
		case cmd := <-w.cmds:
			switch cmd.kind {
			case cmdPause:
				paused = true
			case cmdShutdown:
				w.resp <- response{kind: respEnd, cmd: cmdShutdown, workerID: w.id}
				return true
			}
		default:
		}

		if w.softRealTime {
			elapsed := time.Duration(mono.NanoTime() - frameStart)
			sleepFor := w.frameWidth - elapsed
			stats.ObserveFrame(w.id, elapsed, sleepFor <= 0)
			if sleepFor > 0 {
				time.Sleep(sleepFor)
			}
		}

		if !w.brr.Wait() {
			return false
		}

		if paused {
			w.pauseAll()
			w.resp <- response{kind: respOK, cmd: cmdPause, workerID: w.id}
			return false
		}
	}
	w.pauseAll()
	w.resp <- response{kind: respOK, cmd: cmdExecute, workerID: w.id}
	return false
}

// stepAll applies the ScheduledObject execution rule to every object in
// insertion order, stopping at the first error.
func (w *worker) stepAll() (errIdx int, ok bool) {
	for idx, o := range w.objects {
		if rc := o.tick(w.fw); rc == model.RuntimeError {
			return idx, false
		}
	}
	return 0, true
}

func (w *worker) pauseAll() {
	for _, o := range w.objects {
		o.Model.Pause()
	}
}
