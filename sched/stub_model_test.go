package sched_test

import (
	"sync"
	"unsafe"

	"github.com/sinfaen/rsisgo/databuf"
	"github.com/sinfaen/rsisgo/framework"
	"github.com/sinfaen/rsisgo/model"
)

// stubModel is a minimal, thread-safe Model used across the facade/
// supervisor tests in this package.
type stubModel struct {
	mu sync.Mutex

	initStatus model.RuntimeStatus
	stepStatus model.RuntimeStatus
	onStep     func(fw framework.Framework)

	initCalls, stepCalls, pauseCalls, stopCalls int
	ticks                                       []int64
}

func (m *stubModel) Config() model.ConfigStatus { return model.ConfigOK }

func (m *stubModel) Init(fw framework.Framework) model.RuntimeStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.initCalls++
	if m.initStatus == model.RuntimeError {
		return model.RuntimeError
	}
	return model.RuntimeOK
}

func (m *stubModel) Step(fw framework.Framework) model.RuntimeStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stepCalls++
	m.ticks = append(m.ticks, fw.GetSimTick())
	if m.onStep != nil {
		m.onStep(fw)
	}
	if m.stepStatus == model.RuntimeError {
		return model.RuntimeError
	}
	return model.RuntimeOK
}

func (m *stubModel) Pause() model.RuntimeStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pauseCalls++
	return model.RuntimeOK
}

func (m *stubModel) Stop() model.RuntimeStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopCalls++
	return model.RuntimeOK
}

func (m *stubModel) MsgGet(databuf.View, func(databuf.View)) uint32 {
	return model.ErrFieldUnknown
}
func (m *stubModel) MsgSet(databuf.View, databuf.View) uint32 { return model.ErrFieldUnknown }
func (m *stubModel) GetPtr(databuf.View) unsafe.Pointer       { return nil }

func (m *stubModel) snapshotTicks() []int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]int64, len(m.ticks))
	copy(out, m.ticks)
	return out
}

func (m *stubModel) stepCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stepCalls
}
