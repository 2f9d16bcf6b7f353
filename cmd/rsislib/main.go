// Command rsislib builds the shared library consumed by non-Go drivers
// (buildmode=c-shared). It is the only package in this module compiled
// with cgo: every //export below is a thin type-conversion wrapper over
// package abi, which carries the actual logic and is unit tested without
// a C compiler. Grounded on original_source/src/core/src/lib.rs's symbol
// table (spec.md §6 reproduces it) — library_initialize, new_thread,
// add_model, add_model_by_callbacks, add_connection, step_scheduler, and
// friends all correspond 1:1 to exported functions there.
package main

/*
#include <stdint.h>
#include <stddef.h>

typedef struct BufferView {
    const void *ptr;
    uint64_t size;
} BufferView;

// C can't call a function pointer from Go directly; these trampolines
// give cgo something it can invoke for add_model_by_callbacks.
typedef uint32_t (*config_fn)(void*);
typedef uint32_t (*runtime_fn)(void*);
typedef void (*dtor_fn)(void*);

static uint32_t call_config_fn(config_fn fn, void *obj) { return fn(obj); }
static uint32_t call_runtime_fn(runtime_fn fn, void *obj) { return fn(obj); }
static void call_dtor_fn(dtor_fn fn, void *obj) { fn(obj); }
*/
import "C"

import (
	"runtime/cgo"
	"unsafe"

	"github.com/sinfaen/rsisgo/abi"
	"github.com/sinfaen/rsisgo/databuf"
	"github.com/sinfaen/rsisgo/framework"
	"github.com/sinfaen/rsisgo/model"
)

func main() {}

//export library_initialize
func library_initialize() C.uint32_t { return C.uint32_t(abi.Initialize()) }

//export library_shutdown
func library_shutdown() C.uint32_t { return C.uint32_t(abi.Shutdown()) }

//export set_scheduler
func set_scheduler(id C.uint32_t) C.uint32_t { return C.uint32_t(abi.SetScheduler(uint32(id))) }

//export clear_threads
func clear_threads() C.uint32_t { return C.uint32_t(abi.ClearThreads()) }

//export new_thread
func new_thread(freq C.double) C.uint32_t { return C.uint32_t(abi.NewThread(float64(freq))) }

// add_model takes ownership of a model the driver already boxed as a
// cgo.Handle (obtained from a Go-implemented model via an in-process
// call, not over the raw C ABI — a foreign-language driver has no way to
// produce a Go interface value and should use add_model_by_callbacks
// instead). This sidesteps the original's double-Box trick: a cgo.Handle
// is already a single stable, GC-safe identifier.
//
//export add_model
func add_model(thread C.int64_t, handle unsafe.Pointer, divisor, offset C.int64_t) unsafe.Pointer {
	if handle == nil {
		return nil
	}
	v := cgo.Handle(uintptr(handle)).Value()
	m, ok := v.(model.Model)
	if !ok {
		return nil
	}
	h := abi.AddModel(m, int64(thread), int64(divisor), int64(offset))
	if h == 0 {
		return nil
	}
	return unsafe.Pointer(h)
}

//export add_model_by_callbacks
func add_model_by_callbacks(
	thread C.int64_t,
	obj unsafe.Pointer,
	configp, initp, stepp, pausep, stopp, destp unsafe.Pointer,
	divisor, offset C.int64_t,
) unsafe.Pointer {
	if obj == nil || configp == nil || initp == nil || stepp == nil || pausep == nil || stopp == nil || destp == nil {
		return nil
	}
	ext := &model.ExternalCallbackModel{
		Obj: obj,
		ConfigFn: func(obj unsafe.Pointer) model.ConfigStatus {
			return model.ConfigStatus(C.call_config_fn(C.config_fn(configp), obj))
		},
		InitFn: func(obj unsafe.Pointer, _ framework.Framework) model.RuntimeStatus {
			return model.RuntimeStatus(C.call_runtime_fn(C.runtime_fn(initp), obj))
		},
		StepFn: func(obj unsafe.Pointer, _ framework.Framework) model.RuntimeStatus {
			return model.RuntimeStatus(C.call_runtime_fn(C.runtime_fn(stepp), obj))
		},
		PauseFn: func(obj unsafe.Pointer) model.RuntimeStatus {
			return model.RuntimeStatus(C.call_runtime_fn(C.runtime_fn(pausep), obj))
		},
		StopFn: func(obj unsafe.Pointer) model.RuntimeStatus {
			return model.RuntimeStatus(C.call_runtime_fn(C.runtime_fn(stopp), obj))
		},
		DtorFn: func(obj unsafe.Pointer) {
			C.call_dtor_fn(C.dtor_fn(destp), obj)
		},
	}
	h := abi.AddModelByCallbacks(ext, int64(thread), int64(divisor), int64(offset))
	if h == 0 {
		return nil
	}
	return unsafe.Pointer(h)
}

//export add_connection
func add_connection(src, dst unsafe.Pointer, size C.size_t, thread, divisor, offset C.int64_t) C.uint32_t {
	return C.uint32_t(abi.AddConnection(uintptr(src), uintptr(dst), int(size), int64(thread), int64(divisor), int64(offset)))
}

//export remove_model
func remove_model(thread, id C.int64_t) C.uint32_t {
	return C.uint32_t(abi.RemoveModel(int(thread), int(id)))
}

//export init_scheduler
func init_scheduler() C.uint32_t { return C.uint32_t(abi.InitScheduler()) }

//export step_scheduler
func step_scheduler(steps C.uint64_t) C.uint32_t { return C.uint32_t(abi.StepScheduler(uint64(steps))) }

//export pause_scheduler
func pause_scheduler() C.uint32_t { return C.uint32_t(abi.PauseScheduler()) }

//export end_scheduler
func end_scheduler() C.uint32_t { return C.uint32_t(abi.EndScheduler()) }

//export get_thread_number
func get_thread_number() C.int32_t { return C.int32_t(abi.GetThreadNumber()) }

//export get_scheduler_state
func get_scheduler_state() C.int32_t { return C.int32_t(abi.GetSchedulerState()) }

//export config_scheduler
func config_scheduler(key, value C.BufferView) C.uint32_t {
	return C.uint32_t(abi.ConfigScheduler(toView(key), toView(value)))
}

//export meta_get
func meta_get(handle unsafe.Pointer, id, data C.BufferView) C.uint32_t {
	dst := unsafe.Slice((*byte)(data.ptr), int(data.size))
	code := abi.MetaGet(uintptr(handle), toView(id), func(v databuf.View) {
		copy(dst, v.Bytes())
	})
	return C.uint32_t(code)
}

//export meta_set
func meta_set(handle unsafe.Pointer, id, data C.BufferView) C.uint32_t {
	return C.uint32_t(abi.MetaSet(uintptr(handle), toView(id), toView(data)))
}

func toView(v C.BufferView) abi.CBufferView {
	return abi.CBufferView{Ptr: uintptr(v.ptr), Size: uint64(v.size)}
}
