// Package sched implements the scheduler core: ScheduledObject, ThreadGroup,
// the per-ThreadGroup worker, the supervisor state machine, and the
// Scheduler facade the driver talks to.
/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */
package sched

import (
	"sync"
	"time"
	"unsafe"

	"github.com/pkg/errors"

	"github.com/sinfaen/rsisgo/cmn/cos"
	"github.com/sinfaen/rsisgo/cmn/nlog"
	"github.com/sinfaen/rsisgo/config"
	"github.com/sinfaen/rsisgo/databuf"
	"github.com/sinfaen/rsisgo/framework"
	"github.com/sinfaen/rsisgo/model"
)

// storedModel is what a Handle refers to: the model plus enough placement
// info for RemoveModel to find it again.
type storedModel struct {
	obj         *ScheduledObject
	threadIndex int
}

// Handle is the opaque, stable, comparable value AddModel/AddConnection
// return to the driver — the Go analogue of the raw (doubly-boxed)
// pointer spec.md §4.J's add_model returns, used later to call
// MsgGet/MsgSet/GetPtr.
type Handle struct {
	m *storedModel
}

// Valid reports whether h refers to a live stored model.
func (h Handle) Valid() bool { return h.m != nil }

func (h Handle) MsgGet(id databuf.View, cb func(databuf.View)) uint32 {
	return h.m.obj.Model.MsgGet(id, cb)
}

func (h Handle) MsgSet(id, data databuf.View) uint32 {
	return h.m.obj.Model.MsgSet(id, data)
}

func (h Handle) GetPtr(id databuf.View) unsafe.Pointer {
	return h.m.obj.Model.GetPtr(id)
}

// Scheduler is the object the driver talks to: add threads/models in
// CONFIG, Init to spawn workers and the supervisor, then Step/Pause/End to
// drive the run. As spec.md §4.J / §3's "Scheduler" data model entry.
type Scheduler struct {
	mu     sync.Mutex
	state  State
	groups []*ThreadGroup
	name   string

	fw           *framework.Impl
	softRealTime bool

	sup     *supervisor
	workers []*workerHandle
}

// New constructs a Scheduler in CONFIG state, stamped with a short,
// locally-unique instance name (the Go analogue of the original's
// get_scheduler_name, see DESIGN.md).
func New() *Scheduler {
	return &Scheduler{
		state: StateConfig,
		fw:    framework.New(),
		name:  cos.GenID(),
	}
}

// GetName returns the Scheduler's instance id, generated once at New().
func (s *Scheduler) GetName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.name
}

func (s *Scheduler) requireState(want State, op string) error {
	if s.state != want {
		return errors.Errorf("sched: %s requires %s state, have %s", op, want, s.state)
	}
	return nil
}

// AddThread appends a new ThreadGroup. CONFIG only.
func (s *Scheduler) AddThread(freq float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireState(StateConfig, "add_thread"); err != nil {
		return err
	}
	s.groups = append(s.groups, &ThreadGroup{Frequency: freq})
	return nil
}

// ClearThreads drops all ThreadGroups. CONFIG only.
func (s *Scheduler) ClearThreads() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireState(StateConfig, "clear_threads"); err != nil {
		return err
	}
	s.groups = nil
	return nil
}

// AddModel schedules m onto the threadIndex'th ThreadGroup with the given
// divisor/offset, returning a stable Handle. CONFIG only.
func (s *Scheduler) AddModel(m model.Model, threadIndex int, divisor, offset int64) (Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireState(StateConfig, "add_model"); err != nil {
		return Handle{}, err
	}
	if threadIndex < 0 || threadIndex >= len(s.groups) {
		return Handle{}, cos.NewErrBadArg("thread_index out of range")
	}
	if divisor < 1 {
		return Handle{}, cos.NewErrBadArg("divisor must be >= 1")
	}
	obj := NewScheduledObject(m, divisor, offset)
	g := s.groups[threadIndex]
	g.Objects = append(g.Objects, obj)
	return Handle{m: &storedModel{obj: obj, threadIndex: threadIndex}}, nil
}

// AddConnection wraps a Connection model and calls AddModel.
func (s *Scheduler) AddConnection(src, dst unsafe.Pointer, size int, threadIndex int, divisor, offset int64) (Handle, error) {
	if src == nil || dst == nil || size == 0 {
		return Handle{}, cos.NewErrBadArg("connection requires non-nil src/dst and size > 0")
	}
	conn := model.NewConnection(src, dst, size)
	return s.AddModel(conn, threadIndex, divisor, offset)
}

// RemoveModel removes the id-th model from a ThreadGroup. CONFIG only.
func (s *Scheduler) RemoveModel(threadIndex, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireState(StateConfig, "remove_model"); err != nil {
		return err
	}
	if threadIndex < 0 || threadIndex >= len(s.groups) {
		return cos.NewErrBadArg("thread_index out of range")
	}
	g := s.groups[threadIndex]
	if id < 0 || id >= len(g.Objects) {
		return cos.NewErrNotFound("model id %d in thread %d", id, threadIndex)
	}
	g.Objects = append(g.Objects[:id], g.Objects[id+1:]...)
	return nil
}

// Config applies a config_scheduler key/value pair. The only recognized
// key is "srt", which enables soft-real-time pacing; any other key
// returns an error (ABI status code 1).
func (s *Scheduler) Config(key, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k, err := config.DecodeKey(key)
	if err != nil {
		return errors.Wrapf(err, "sched: config key decode")
	}
	v := config.DecodeValue(value)
	switch k {
	case config.KeySoftRealTime:
		nlog.Infof("sched: config %q (%d value bytes): enabling soft real time", k, len(v))
		s.softRealTime = true
		return nil
	default:
		return errors.Errorf("sched: unrecognized config key %q", k)
	}
}

// Init spawns one worker goroutine per ThreadGroup plus the supervisor,
// and sends INIT. Transitions out of CONFIG.
func (s *Scheduler) Init() error {
	s.mu.Lock()
	if err := s.requireState(StateConfig, "init"); err != nil {
		s.mu.Unlock()
		return err
	}
	if len(s.groups) == 0 {
		s.mu.Unlock()
		return cos.NewErrBadArg("init requires at least one thread group")
	}
	groups := s.groups
	s.mu.Unlock()

	brr := newBarrier(len(groups))
	workers := make([]*workerHandle, len(groups))
	for i, g := range groups {
		wh := &workerHandle{
			cmds: make(chan command, 4),
			resp: make(chan response, 4),
		}
		workers[i] = wh
		w := &worker{
			id:             i,
			objects:        g.Objects,
			fw:             s.fw.Clone(),
			frameWidth:     frameWidth(g.Frequency),
			softRealTime:   s.softRealTime,
			clockAuthority: i == 0,
			brr:            brr,
			cmds:           wh.cmds,
			resp:           wh.resp,
		}
		go w.run()
	}
	s.workers = workers

	s.mu.Lock()
	s.sup = newSupervisor(&s.mu, &s.state, workers, brr)
	s.mu.Unlock()
	go s.sup.run()

	s.sup.facadeCmds <- facadeCommand{kind: facadeInit}
	return nil
}

func frameWidth(freqHz float64) time.Duration {
	if freqHz <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / freqHz)
}

// Step sends EXECUTE(n). Valid in INITIALIZED or PAUSED.
func (s *Scheduler) Step(n int64) error {
	s.mu.Lock()
	ok := s.state == StateInitialized || s.state == StatePaused
	sup := s.sup
	s.mu.Unlock()
	if !ok {
		return errors.Errorf("sched: step requires INITIALIZED or PAUSED state, have %s", s.GetState())
	}
	sup.facadeCmds <- facadeCommand{kind: facadeExecute, steps: n}
	return nil
}

// Pause sends PAUSE. Valid in RUNNING.
func (s *Scheduler) Pause() error {
	s.mu.Lock()
	ok := s.state == StateRunning
	sup := s.sup
	s.mu.Unlock()
	if !ok {
		return errors.Errorf("sched: pause requires RUNNING state, have %s", s.GetState())
	}
	sup.facadeCmds <- facadeCommand{kind: facadePause}
	return nil
}

// End sends SHUTDOWN. Valid in any post-CONFIG state.
func (s *Scheduler) End() error {
	s.mu.Lock()
	ok := s.state != StateConfig
	sup := s.sup
	s.mu.Unlock()
	if !ok {
		return errors.Errorf("sched: end requires a post-CONFIG state, have %s", s.GetState())
	}
	sup.facadeCmds <- facadeCommand{kind: facadeShutdown}
	return nil
}

// GetState reads the shared scheduler state.
func (s *Scheduler) GetState() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// GetNumThreads returns the number of ThreadGroups.
func (s *Scheduler) GetNumThreads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.groups)
}
