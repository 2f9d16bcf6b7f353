/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */
package model

import (
	"unsafe"

	"github.com/sinfaen/rsisgo/databuf"
	"github.com/sinfaen/rsisgo/framework"
)

// Connection copies size bytes from src to dst on every Step. It carries
// no state of its own beyond the two addresses and has no meaningful
// config, pause, or stop behavior.
//
// Grounded on original_source/src/core/src/connection.rs's Connection
// struct and its Model::step impl (a raw memcpy between two *mut u8).
//
// Safety: both src and dst must outlive the Connection, and the driver
// must place the Connection in the same ThreadGroup as whatever models
// own src and dst — Step does not synchronize with them.
type Connection struct {
	src, dst unsafe.Pointer
	size     int
}

// NewConnection builds a Connection copying size bytes from src to dst
// on every Step.
func NewConnection(src, dst unsafe.Pointer, size int) *Connection {
	return &Connection{src: src, dst: dst, size: size}
}

func (c *Connection) Config() ConfigStatus { return ConfigOK }

func (c *Connection) Init(fw framework.Framework) RuntimeStatus { return RuntimeOK }

// Step performs the copy. unsafe.Slice views are rebuilt each call since
// the backing storage may be reallocated between steps by its owner.
func (c *Connection) Step(fw framework.Framework) RuntimeStatus {
	if c.size == 0 {
		return RuntimeOK
	}
	dst := unsafe.Slice((*byte)(c.dst), c.size)
	src := unsafe.Slice((*byte)(c.src), c.size)
	copy(dst, src)
	return RuntimeOK
}

func (c *Connection) Pause() RuntimeStatus { return RuntimeOK }
func (c *Connection) Stop() RuntimeStatus  { return RuntimeOK }

func (c *Connection) MsgGet(id databuf.View, cb func(databuf.View)) uint32 {
	return ErrFieldUnknown
}

func (c *Connection) MsgSet(id, data databuf.View) uint32 { return ErrFieldUnknown }

func (c *Connection) GetPtr(id databuf.View) unsafe.Pointer { return nil }

var _ Model = (*Connection)(nil)
