// Package model defines the capability set every scheduled model
// implements (spec.md §3/§4.D): lifecycle operations plus the
// introspection surface used to read and write model state by name.
/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */
package model

import (
	"unsafe"

	"github.com/sinfaen/rsisgo/databuf"
	"github.com/sinfaen/rsisgo/framework"
)

type (
	ConfigStatus  int
	RuntimeStatus int
)

const (
	ConfigOK ConfigStatus = iota
	ConfigInterfaceUpdate
	ConfigError
)

const (
	RuntimeOK RuntimeStatus = iota
	RuntimeFinished
	RuntimeError
)

// ErrFieldUnknown is the sentinel MsgGet/MsgSet/GetPtr return when a model
// doesn't recognize the requested field id — e.g. every Connection, and
// every ExternalCallbackModel (its ABI callback table carries no
// introspection entries, see package abi).
const ErrFieldUnknown uint32 = 1

// Model is the polymorphic entity every scheduled object wraps.
type Model interface {
	Config() ConfigStatus
	Init(fw framework.Framework) RuntimeStatus
	Step(fw framework.Framework) RuntimeStatus
	Pause() RuntimeStatus
	Stop() RuntimeStatus

	// MsgGet reads a named field, invoking cb with a view onto its live
	// storage; returns ErrFieldUnknown (or another model-defined nonzero
	// code) if id isn't recognized.
	MsgGet(id databuf.View, cb func(databuf.View)) uint32
	// MsgSet writes a named field from caller-supplied bytes.
	MsgSet(id, data databuf.View) uint32
	// GetPtr exposes the address of a named field, for Connection wiring.
	// Returns nil if id isn't recognized.
	GetPtr(id databuf.View) unsafe.Pointer
}
