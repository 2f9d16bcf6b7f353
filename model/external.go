/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */
package model

import (
	"sync"
	"unsafe"

	"github.com/sinfaen/rsisgo/databuf"
	"github.com/sinfaen/rsisgo/framework"
)

// ExternalCallbackModel adapts a foreign-language model reached through a
// fixed table of five lifecycle callbacks plus a destructor. The only
// place that constructs one is cmd/rsislib's cgo-exported
// add_model_by_callbacks, which closes over the raw C function pointers
// and hands the result to abi.AddModelByCallbacks, so this package itself
// stays cgo-free.
//
// Grounded on original_source/src/core/src/lib.rs:96-106, where
// add_model_by_callbacks constructs a BaseModelExternal from the same six
// callback slots (config/init/step/pause/stop/destructor) plus the owned
// obj pointer. BaseModelExternal's own Drop impl lives in the rsisappinterface
// crate, not part of this pack, so the exactly-once destructor guarantee is
// reproduced here directly with sync.Once rather than cited from its Drop
// impl. DtorFn runs only from Stop; the scheduler's shutdown sequence does
// not call Stop on its models, so the destructor runs only when a caller
// invokes Stop.
type ExternalCallbackModel struct {
	Obj unsafe.Pointer

	ConfigFn func(obj unsafe.Pointer) ConfigStatus
	InitFn   func(obj unsafe.Pointer, fw framework.Framework) RuntimeStatus
	StepFn   func(obj unsafe.Pointer, fw framework.Framework) RuntimeStatus
	PauseFn  func(obj unsafe.Pointer) RuntimeStatus
	StopFn   func(obj unsafe.Pointer) RuntimeStatus
	DtorFn   func(obj unsafe.Pointer)

	once sync.Once
}

func (m *ExternalCallbackModel) Config() ConfigStatus {
	if m.ConfigFn == nil {
		return ConfigOK
	}
	return m.ConfigFn(m.Obj)
}

func (m *ExternalCallbackModel) Init(fw framework.Framework) RuntimeStatus {
	if m.InitFn == nil {
		return RuntimeOK
	}
	return m.InitFn(m.Obj, fw)
}

func (m *ExternalCallbackModel) Step(fw framework.Framework) RuntimeStatus {
	if m.StepFn == nil {
		return RuntimeOK
	}
	return m.StepFn(m.Obj, fw)
}

func (m *ExternalCallbackModel) Pause() RuntimeStatus {
	if m.PauseFn == nil {
		return RuntimeOK
	}
	return m.PauseFn(m.Obj)
}

// Stop runs the lifecycle stop callback, then releases the foreign object
// via DtorFn exactly once regardless of how many times Stop is called.
func (m *ExternalCallbackModel) Stop() RuntimeStatus {
	status := RuntimeOK
	if m.StopFn != nil {
		status = m.StopFn(m.Obj)
	}
	m.once.Do(func() {
		if m.DtorFn != nil {
			m.DtorFn(m.Obj)
		}
	})
	return status
}

// The callback table carries no introspection entries, so MsgGet/MsgSet/
// GetPtr are permanently unsupported for callback-backed externals —
// unlike a foreign object that implements Model natively through cgo.Handle
// and package abi's add_model path.
func (m *ExternalCallbackModel) MsgGet(id databuf.View, cb func(databuf.View)) uint32 {
	return ErrFieldUnknown
}

func (m *ExternalCallbackModel) MsgSet(id, data databuf.View) uint32 { return ErrFieldUnknown }

func (m *ExternalCallbackModel) GetPtr(id databuf.View) unsafe.Pointer { return nil }

var _ Model = (*ExternalCallbackModel)(nil)
