// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render composes renderables and draws them on a CPU or GPU
// backend.
//
// # Key Principle
//
// textfx RECEIVES a GPU device from the host application, it does NOT
// create its own. The HAL backend records into a render pass the host
// begins and ends; the host owns surfaces, encoders and submission.
//
// # Core Types
//
//   - Renderable: Build then Render; implemented by owners and nodes
//   - Node: retained scene graph with visibility and translation
//   - Context: backend, projection and accumulated translation
//   - DrawItem: vertices, weights, indices, program and uniforms
//   - Backend: executes draw items
//
// # Backends
//
//   - HALBackend: wgpu HAL pipelines cached by program text
//   - SoftwareBackend: CPU rasterization into a PixmapTarget using each
//     deformer's CPU semantics
//
// # Usage
//
// Software rendering:
//
//	target := render.NewPixmapTarget(800, 600)
//	ctx := render.NewContext(render.NewSoftwareBackend(target), 800, 600)
//	_ = root.Build()
//	_ = root.Render(ctx)
//	png.Encode(w, target.Image())
//
// GPU rendering inside a host frame:
//
//	backend, _ := render.NewHALBackendFromHandle(provider)
//	backend.BeginFrame(pass)
//	_ = root.Render(render.NewContext(backend, width, height))
//	backend.EndFrame()
package render
