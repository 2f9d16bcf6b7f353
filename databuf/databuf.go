// Package databuf implements the scheduler's opaque byte payload
// (DataBuffer) and the non-owning {ptr,size} view (BufferView) used for
// every FFI-style message exchange between models, channels, and the ABI.
/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */
package databuf

import (
	"sync"
	"unsafe"
)

// pools, bucketed by capacity class, mirror the teacher's memsys.Slab2 idea
// (mirror/mput.go allocates a fixed-size buffer per mountpath copier and
// returns it to the slab on exit) without the disk/network-tuned size
// classes memsys itself uses, since messages here are small control/sensor
// payloads, not object chunks.
var pools = [...]*sync.Pool{
	newPool(64),
	newPool(512),
	newPool(4096),
	newPool(65536),
}

func newPool(sz int) *sync.Pool {
	return &sync.Pool{New: func() any { return make([]byte, 0, sz) }}
}

// Buffer is an opaque, owned, heap-held variable-length byte sequence.
// Movable across goroutines by value-copying the header (not the backing
// array); the zero Buffer is a valid, empty, unpooled buffer.
type Buffer struct {
	b    []byte
	pool *sync.Pool
}

// Get draws (or allocates) a Buffer with capacity >= n from the slab pools.
// Its length is always zero until the caller writes into it.
func Get(n int) *Buffer {
	for _, p := range pools {
		if b := p.Get().([]byte); cap(b) >= n {
			return &Buffer{b: b[:0], pool: p}
		} else {
			p.Put(b)
		}
	}
	return &Buffer{b: make([]byte, 0, n)}
}

// Wrap adopts an existing slice as a Buffer without pooling it; Release is
// then a no-op. Used when a model already owns the bytes it wants to send.
func Wrap(b []byte) Buffer { return Buffer{b: b} }

// Bytes exposes the buffer's current contents.
func (buf *Buffer) Bytes() []byte { return buf.b }

// Write appends p to the buffer's contents, growing it if necessary.
func (buf *Buffer) Write(p []byte) { buf.b = append(buf.b, p...) }

// Len reports the number of live bytes currently in the buffer.
func (buf *Buffer) Len() int { return len(buf.b) }

// View produces a non-owning {ptr, size} pair over the buffer's current
// contents; the caller must not retain it past the buffer's lifetime.
func (buf *Buffer) View() View {
	if len(buf.b) == 0 {
		return View{}
	}
	return View{Ptr: unsafe.Pointer(&buf.b[0]), Size: len(buf.b)}
}

// Release returns the backing slice to its pool, if it came from one.
// The Buffer must not be used afterward.
func (buf *Buffer) Release() {
	if buf.pool != nil {
		buf.pool.Put(buf.b[:0])
		buf.b, buf.pool = nil, nil
	}
}

// View is a non-owning view into caller-owned bytes: {ptr, size}. Lifetime
// responsibility lies with the caller, exactly as spec.md §3 requires —
// View never frees or retains anything.
type View struct {
	Ptr  unsafe.Pointer
	Size int
}

// Bytes reinterprets the view as a Go byte slice for in-process callers.
// Unsafe past the view's documented lifetime; the ABI layer (package abi)
// uses the raw Ptr/Size fields directly instead.
func (v View) Bytes() []byte {
	if v.Ptr == nil || v.Size == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(v.Ptr), v.Size)
}

// ViewOf builds a View over an in-process byte slice.
func ViewOf(b []byte) View {
	if len(b) == 0 {
		return View{}
	}
	return View{Ptr: unsafe.Pointer(&b[0]), Size: len(b)}
}
