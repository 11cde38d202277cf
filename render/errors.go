// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"errors"
	"fmt"
)

var (
	// ErrNilDeviceHandle is returned when a GPU backend gets no device.
	ErrNilDeviceHandle = errors.New("render: nil device handle")

	// ErrNoHALDevice is returned when a device handle does not expose a
	// wgpu HAL device and queue.
	ErrNoHALDevice = errors.New("render: device handle has no HAL device")

	// ErrNilTarget is returned when drawing without a target.
	ErrNilTarget = errors.New("render: nil target")

	// ErrNoRenderPass is returned when the HAL backend draws outside
	// BeginFrame/EndFrame.
	ErrNoRenderPass = errors.New("render: no render pass")

	// ErrNilProgram is returned for draw items without a shader program.
	ErrNilProgram = errors.New("render: draw item has no program")

	// ErrNoBackend is returned when rendering with a context that has no
	// backend.
	ErrNoBackend = errors.New("render: context has no backend")
)

// DrawItemError reports inconsistent draw item arrays.
type DrawItemError struct {
	Field string
	Want  int
	Got   int
}

func (e *DrawItemError) Error() string {
	return fmt.Sprintf("render: draw item %s has %d entries, want %d", e.Field, e.Got, e.Want)
}

// ConfigError represents a backend configuration validation error.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return "render: invalid config." + e.Field + ": " + e.Reason
}
