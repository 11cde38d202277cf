// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/gogpu/textfx/shader"
	"github.com/gogpu/textfx/text"
)

// Backend executes draw items.
//
// Different implementations provide CPU or GPU rendering:
//
//   - SoftwareBackend: CPU rasterization into a PixmapTarget
//   - HALBackend: wgpu HAL pipelines recorded into a host render pass
//
// Thread Safety: Backends are NOT thread-safe. Each backend should be used
// from a single goroutine, or external synchronization must be used.
type Backend interface {
	// Draw renders item with the given column-major projection.
	Draw(projection [16]float32, item *DrawItem) error

	// Capabilities returns the backend's capabilities.
	Capabilities() BackendCapabilities
}

// BackendCapabilities describes the features supported by a backend.
type BackendCapabilities struct {
	// IsGPU indicates if this is a GPU-accelerated backend.
	IsGPU bool

	// SupportsAntialiasing indicates if edges are anti-aliased.
	SupportsAntialiasing bool

	// RunsPrograms indicates the backend executes synthesized programs.
	// CPU backends evaluate the deformer chain instead.
	RunsPrograms bool

	// MaxTextureSize is the maximum texture dimension (0 = unlimited).
	MaxTextureSize int
}

// Renderable is anything that can prepare GPU-ready data and draw it.
// Owners (text, rectangles) and scene nodes implement it.
type Renderable interface {
	// Build recomputes derived data (layout, geometry, programs) when
	// inputs changed since the last call.
	Build() error

	// Render draws into ctx.
	Render(ctx *Context) error
}

// Context carries the backend and the transforms of one render pass.
type Context struct {
	Backend    Backend
	Projection [16]float32

	// Translation accumulates scene node offsets.
	Translation text.Point
}

// NewContext returns a context whose projection maps layout units to a
// width x height viewport with the origin at the bottom-left corner and y
// growing upward.
func NewContext(b Backend, width, height int) *Context {
	return &Context{
		Backend:    b,
		Projection: shader.Ortho(0, float32(width), 0, float32(height)),
	}
}

// Draw submits item translated by the context offset. The item itself is
// not modified.
func (c *Context) Draw(item *DrawItem) error {
	if c.Backend == nil {
		return ErrNoBackend
	}
	d := *item
	d.Translation.X += c.Translation.X
	d.Translation.Y += c.Translation.Y
	return c.Backend.Draw(c.Projection, &d)
}
