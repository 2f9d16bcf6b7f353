// Package cos provides common low-level types and utilities shared by the
// scheduler, framework, and model packages.
/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */
package cos

import (
	"errors"
	"fmt"
	"os"
	"sync"
	ratomic "sync/atomic"

	"github.com/sinfaen/rsisgo/cmn/debug"
)

type (
	ErrNotFound struct {
		what string
	}
	ErrBadArg struct {
		what string
	}
	// Errs accumulates up to maxErrs distinct errors, deduplicated by
	// message, the way the worker's INIT handling accumulates per-object
	// init failures without growing unbounded under a pathological group.
	Errs struct {
		errs []error
		cnt  int64
		mu   sync.Mutex
	}
)

const maxErrs = 4

func NewErrNotFound(format string, a ...any) *ErrNotFound {
	return &ErrNotFound{fmt.Sprintf(format, a...)}
}

func (e *ErrNotFound) Error() string { return e.what + " does not exist" }

func IsErrNotFound(err error) bool {
	_, ok := err.(*ErrNotFound)
	return ok
}

func NewErrBadArg(format string, a ...any) *ErrBadArg {
	return &ErrBadArg{fmt.Sprintf(format, a...)}
}

func (e *ErrBadArg) Error() string { return e.what }

func IsErrBadArg(err error) bool {
	_, ok := err.(*ErrBadArg)
	return ok
}

func (e *Errs) Add(err error) {
	debug.Assert(err != nil)
	e.mu.Lock()
	for _, added := range e.errs {
		if added.Error() == err.Error() {
			e.mu.Unlock()
			return
		}
	}
	if len(e.errs) < maxErrs {
		e.errs = append(e.errs, err)
		ratomic.StoreInt64(&e.cnt, int64(len(e.errs)))
	}
	e.mu.Unlock()
}

func (e *Errs) Cnt() int { return int(ratomic.LoadInt64(&e.cnt)) }

func (e *Errs) JoinErr() (cnt int, err error) {
	if cnt = e.Cnt(); cnt > 0 {
		e.mu.Lock()
		err = errors.Join(e.errs...)
		e.mu.Unlock()
	}
	return
}

func (e *Errs) Error() (s string) {
	cnt := e.Cnt()
	if cnt == 0 {
		return
	}
	e.mu.Lock()
	var err error
	if cnt = len(e.errs); cnt > 0 {
		err = e.errs[0]
	}
	e.mu.Unlock()
	if err == nil {
		return
	}
	if cnt > 1 {
		err = fmt.Errorf("%v (and %d more error%s)", err, cnt-1, plural(cnt-1))
	}
	s = err.Error()
	return
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

const fatalPrefix = "FATAL ERROR: "

// Exitf reports an unrecoverable setup error and terminates the process.
// Reserved for library-initialization failures the driver cannot proceed
// past (e.g. a corrupt id alphabet); never called mid-run.
func Exitf(f string, a ...any) {
	fmt.Fprintln(os.Stderr, fmt.Sprintf(fatalPrefix+f, a...))
	os.Exit(1)
}
