// Package cos provides common low-level types and utilities shared by the
// scheduler, framework, and model packages.
/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */
package cos

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/teris-io/shortid"
)

const (
	// alphabet for generating ids, similar to shortid.DEFAULT_ABC
	// NOTE: len(idABC) > 0x3f - see GenTie()
	idABC = "-5nZJDft6LuzsjGNpPwY7rQa39vehq4i1cV2FROo8yHSlC0BUEdWbIxMmTgKXAk_"
)

const (
	// LenShortID is the length of a freshly generated id, as per
	// https://github.com/teris-io/shortid#id-length
	LenShortID = 9
	tooLongID  = 32
)

var (
	sid     *shortid.Shortid
	sidOnce sync.Once
	rtie    atomic.Uint32
)

// InitShortID seeds the id generator; call once during library init. A
// corrupt idABC alphabet is an unrecoverable setup error, not something a
// caller can work around, so it goes through Exitf rather than a panic.
func InitShortID(seed uint64) {
	s, err := shortid.New(4 /*worker*/, idABC, seed)
	if err != nil {
		Exitf("cos: invalid short-id alphabet: %v", err)
	}
	sid = s
}

// ensureShortID lazily seeds the generator from wall-clock time for
// callers (tests, in-process Scheduler construction) that never went
// through an explicit InitShortID — GenID must never panic on a nil
// generator.
func ensureShortID() {
	sidOnce.Do(func() {
		if sid == nil {
			InitShortID(uint64(time.Now().UnixNano()))
		}
	})
}

// GenID returns a short, locally unique id used for scheduler instance
// names. The raw shortid may start with a non-letter or end with a dash
// or underscore; the tie-break below prepends a letter in the first case
// and appends one in the second, matching the teacher's GenUUID.
func GenID() (id string) {
	ensureShortID()
	var h, t string
	id = sid.MustGenerate()
	if !isAlpha(id[0]) {
		tie := int(rtie.Add(1))
		h = string(rune('A' + tie%26))
	}
	if c := id[len(id)-1]; c == '-' || c == '_' {
		tie := int(rtie.Add(1))
		t = string(rune('a' + tie%26))
	}
	return h + id + t
}

func IsValidID(id string) bool {
	return len(id) >= LenShortID && IsAlphaNice(id)
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// IsAlphaNice reports whether s contains only letters, digits, dashes and
// underscores, with dash/underscore disallowed as first or last character.
func IsAlphaNice(s string) bool {
	l := len(s)
	if l > tooLongID {
		return false
	}
	for i := range l {
		c := s[i]
		if isAlpha(c) || (c >= '0' && c <= '9') {
			continue
		}
		if c != '-' && c != '_' {
			return false
		}
		if i == 0 || i == l-1 {
			return false
		}
	}
	return true
}

// GenTie returns a 3-character tie breaker, fast path for disambiguating
// ids generated within the same generator tick.
func GenTie() string {
	tie := rtie.Add(1)
	b0 := idABC[tie&0x3f]
	b1 := idABC[-tie&0x3f]
	b2 := idABC[(tie>>2)&0x3f]
	return string([]byte{b0, b1, b2})
}
