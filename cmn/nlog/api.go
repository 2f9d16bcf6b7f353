// Package nlog is a trimmed severity logger: the handful of status prints
// the scheduler's lifecycle (state transitions, worker errors) is allowed
// to emit, nothing more. Dropped relative to the teacher's nlog: log
// rotation, size-budget flushing and the file writer, since spec.md
// explicitly scopes logging/telemetry beyond the mandated status prints
// out of this module.
/*
 * Copyright (c) 2023, NVIDIA CORPORATION. All rights reserved.
 */
package nlog

func InfoDepth(depth int, args ...any)    { log(sevInfo, depth, "", args...) }
func Infoln(args ...any)                  { log(sevInfo, 0, "", args...) }
func Infof(format string, args ...any)    { log(sevInfo, 0, format, args...) }
func Warningln(args ...any)               { log(sevWarn, 0, "", args...) }
func Warningf(format string, args ...any) { log(sevWarn, 0, format, args...) }
func ErrorDepth(depth int, args ...any)   { log(sevErr, depth, "", args...) }
func Errorln(args ...any)                 { log(sevErr, 0, "", args...) }
func Errorf(format string, args ...any)   { log(sevErr, 0, format, args...) }

// SetTitle tags every subsequent line, e.g. with a scheduler instance id.
func SetTitle(s string) { mw.Lock(); title = s; mw.Unlock() }

// Flush is kept for API parity with the teacher's rotating logger: this
// trimmed nlog writes synchronously under a mutex, so there's nothing
// buffered to flush on exit.
func Flush(...bool) {}
