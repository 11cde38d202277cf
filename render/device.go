// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// DeviceHandle provides GPU device access from the host application.
//
// textfx RECEIVES the device from the host, it does NOT create one. The
// host (gogpu.App or any gpucontext implementation) passes its provider to
// NewHALBackendFromHandle, which reaches the HAL objects through the
// HalDevice/HalQueue convention:
//
//	type provider struct{ dev hal.Device; q hal.Queue }
//
//	func (p *provider) HalDevice() any { return p.dev }
//	func (p *provider) HalQueue() any  { return p.q }
//
// DeviceHandle is an alias for gpucontext.DeviceProvider.
type DeviceHandle = gpucontext.DeviceProvider

// HALProvider is implemented by device handles that expose the wgpu HAL
// device and queue behind them.
type HALProvider interface {
	HalDevice() any
	HalQueue() any
}

// halFromHandle extracts the HAL device and queue from a host handle.
func halFromHandle(h DeviceHandle) (hal.Device, hal.Queue, error) {
	if h == nil {
		return nil, nil, ErrNilDeviceHandle
	}
	hp, ok := h.(HALProvider)
	if !ok {
		return nil, nil, ErrNoHALDevice
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, nil, ErrNoHALDevice
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, nil, ErrNoHALDevice
	}
	return device, queue, nil
}

// NullDeviceHandle is a DeviceHandle that provides nil implementations.
// Used for CPU-only rendering where no GPU is available.
type NullDeviceHandle struct{}

// Device returns nil for the null device.
func (NullDeviceHandle) Device() gpucontext.Device { return nil }

// Queue returns nil for the null device.
func (NullDeviceHandle) Queue() gpucontext.Queue { return nil }

// Adapter returns nil for the null device.
func (NullDeviceHandle) Adapter() gpucontext.Adapter { return nil }

// AdapterInfo reports a software adapter.
func (NullDeviceHandle) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{Name: "null", Type: gpucontext.AdapterTypeSoftware}
}

// SurfaceFormat returns undefined format for the null device.
func (NullDeviceHandle) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatUndefined
}

// Ensure NullDeviceHandle implements DeviceHandle.
var _ DeviceHandle = NullDeviceHandle{}
