//go:build !mono

// Package mono provides low-level monotonic time
/*
 * Copyright (c) 2018-2021, NVIDIA CORPORATION. All rights reserved.
 */
package mono

import "time"

var start = time.Now()

// NanoTime returns nanoseconds elapsed since package init, monotonic per
// time.Now()'s documented guarantee. The `mono` build tag switches to the
// linkname'd runtime.nanotime fast path instead (fast_nanotime.go).
func NanoTime() int64 { return int64(time.Since(start)) }
