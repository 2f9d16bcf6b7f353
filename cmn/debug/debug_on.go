//go:build debug

// Package debug provides assertions that compile away in production builds.
/*
 * Copyright (c) 2018-2021, NVIDIA CORPORATION. All rights reserved.
 */
package debug

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"unsafe"
)

func ON() bool { return true }

func Infof(format string, a ...any) { fmt.Fprintf(os.Stderr, format+"\n", a...) }

func Assert(cond bool, a ...any) {
	if !cond {
		panic(fmt.Sprintln(append([]any{"assertion failed:"}, a...)...))
	}
}

func AssertNoErr(err error) {
	if err != nil {
		panic("assertion failed: " + err.Error())
	}
}

func Assertf(cond bool, format string, a ...any) {
	if !cond {
		panic(fmt.Sprintf("assertion failed: "+format, a...))
	}
}

// mutexLocked reads the first word of sync.Mutex, which holds the lock's
// state bit (bit 0). Relies on the runtime's current layout; debug-only.
func mutexLocked(m *sync.Mutex) bool {
	state := (*int32)(unsafe.Pointer(m))
	return atomic.LoadInt32(state)&1 == 1
}

func AssertMutexLocked(m *sync.Mutex) {
	Assert(mutexLocked(m), "mutex not locked")
}

func AssertRWMutexLocked(m *sync.RWMutex) {
	Assert(mutexLocked((*sync.Mutex)(unsafe.Pointer(m))), "rwmutex not locked")
}
