/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */
package sched

import (
	"sync"
	"time"

	"github.com/sinfaen/rsisgo/cmn/nlog"
)

// pollInterval is the supervisor's non-blocking poll cadence, matching
// spec.md §4.I's "sleeps 20ms between poll rounds to avoid busy-spin"
// (the teacher's hk package uses the same plain-ticker style for its
// own housekeeping loop).
const pollInterval = 20 * time.Millisecond

type workerHandle struct {
	cmds chan command
	resp chan response
}

// supervisor is the single coordinator goroutine driving the scheduler
// state machine, per spec.md §4.I's transition table.
type supervisor struct {
	stateMu *sync.Mutex
	state   *State

	workers []*workerHandle
	brr     *barrier

	facadeCmds chan facadeCommand

	// per-round counters, reset whenever a new broadcast round begins.
	okCount int
}

func newSupervisor(stateMu *sync.Mutex, state *State, workers []*workerHandle, brr *barrier) *supervisor {
	return &supervisor{
		stateMu:    stateMu,
		state:      state,
		workers:    workers,
		brr:        brr,
		facadeCmds: make(chan facadeCommand, 4),
	}
}

func (s *supervisor) setState(st State) {
	s.stateMu.Lock()
	*s.state = st
	s.stateMu.Unlock()
}

func (s *supervisor) getState() State {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return *s.state
}

func (s *supervisor) broadcast(c command) {
	for _, w := range s.workers {
		w.cmds <- c
	}
}

// run is the supervisor's single-threaded event loop: drain pending
// facade commands, poll every worker's response channel non-blockingly,
// sleep, repeat — until the scheduler reaches ENDED or ERRORED.
func (s *supervisor) run() {
	for {
		select {
		case c := <-s.facadeCmds:
			s.handleFacadeCmd(c)
		default:
		}

		for _, w := range s.workers {
			select {
			case r := <-w.resp:
				s.handleResponse(r)
			default:
			}
		}

		switch s.getState() {
		case StateEnded, StateErrored:
			return
		}
		time.Sleep(pollInterval)
	}
}

func (s *supervisor) handleFacadeCmd(c facadeCommand) {
	switch c.kind {
	case facadeInit:
		s.okCount = 0
		s.setState(StateInitializing)
		s.broadcast(command{kind: cmdInit})
	case facadeExecute:
		s.okCount = 0
		s.setState(StateRunning)
		s.broadcast(command{kind: cmdExecute, steps: c.steps})
	case facadePause:
		s.broadcast(command{kind: cmdPause})
	case facadeShutdown:
		s.okCount = 0
		s.setState(StateEnding)
		s.brr.Abort()
		s.broadcast(command{kind: cmdShutdown})
	}
}

func (s *supervisor) handleResponse(r response) {
	switch r.kind {
	case respErr:
		nlog.Errorf("sched: worker %d object %d reported error on command %d", r.workerID, r.index, r.cmd)
		s.setState(StateErrored)
		// Unstick every other worker regardless of which command failed:
		// an INIT failure leaves the non-erroring workers blocked on their
		// command channel just as an EXECUTE failure leaves them blocked
		// on the barrier, and both would otherwise leak goroutines.
		s.brr.Abort()
		s.broadcast(command{kind: cmdShutdown})
	case respEnd:
		s.okCount++
		if s.okCount == len(s.workers) {
			// A worker set ERRORED may still reach here once shutdown
			// drains the others off the barrier; ERRORED is terminal and
			// is not overwritten (spec.md §7: "not re-usable without
			// clear_threads + re-construction").
			if s.getState() != StateErrored {
				nlog.Infof("sched: all workers ended")
				s.setState(StateEnded)
			}
		}
	case respOK:
		switch r.cmd {
		case cmdInit:
			s.okCount++
			if s.okCount == len(s.workers) {
				s.setState(StateInitialized)
			}
		case cmdExecute, cmdPause:
			s.okCount++
			if s.okCount == len(s.workers) {
				s.setState(StatePaused)
			}
		}
	}
}
