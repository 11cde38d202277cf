// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"fmt"
	"image"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/textfx/shader"
)

// createNoopDevice creates a noop device and queue for testing.
// Returns the device, queue, and a cleanup function.
func createNoopDevice(t *testing.T) (hal.Device, hal.Queue, func()) {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	cleanup := func() {
		openDev.Device.Destroy()
		instance.Destroy()
	}
	return openDev.Device, openDev.Queue, cleanup
}

// halHandle is a host device handle exposing HAL objects.
type halHandle struct {
	NullDeviceHandle
	device hal.Device
	queue  hal.Queue
}

func (h halHandle) HalDevice() any { return h.device }
func (h halHandle) HalQueue() any  { return h.queue }

// countingPass records what the backend sets on the render pass.
type countingPass struct {
	hal.RenderPassEncoder
	pipelines  int
	bindGroups []uint32
	draws      []uint32
}

func (p *countingPass) SetPipeline(pl hal.RenderPipeline) {
	p.pipelines++
	p.RenderPassEncoder.SetPipeline(pl)
}

func (p *countingPass) SetBindGroup(index uint32, g hal.BindGroup, offsets []uint32) {
	p.bindGroups = append(p.bindGroups, index)
	p.RenderPassEncoder.SetBindGroup(index, g, offsets)
}

func (p *countingPass) DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32) {
	p.draws = append(p.draws, indexCount)
	p.RenderPassEncoder.DrawIndexed(indexCount, instanceCount, firstIndex, baseVertex, firstInstance)
}

func beginPass(t *testing.T, device hal.Device) (*countingPass, func()) {
	t.Helper()
	encoder, err := device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "test"})
	if err != nil {
		t.Fatal(err)
	}
	if err := encoder.BeginEncoding("test"); err != nil {
		t.Fatal(err)
	}
	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{Label: "test"})
	return &countingPass{RenderPassEncoder: rp}, func() {
		rp.End()
		if _, err := encoder.EndEncoding(); err != nil {
			t.Error(err)
		}
	}
}

// offsetUnit is a VERTEX unit with a per-glyph offsets block.
func offsetUnit(slot int) shader.Unit {
	return shader.Unit{
		Slot:     slot,
		Caps:     shader.CapVertex,
		Weighted: true,
		Uniform: &shader.UniformBlock{Fields: []shader.UniformField{
			{Name: "offsets", Components: 2, Count: 1},
		}},
		Fragments: []shader.Fragment{{
			Slot:  slot,
			Stage: shader.StageVertex,
			Kind:  shader.KindBody,
			Source: fmt.Sprintf(`fn %s(position: vec3<f32>, weights: vec4<f32>) -> vec3<f32> {
    let idx = i32(weights.w);
    return vec3<f32>(position.xy + deformer%d.offsets[idx].xy, position.z);
}`, shader.VertexPositionFunc(slot), slot),
		}},
	}
}

func TestNewHALBackendErrors(t *testing.T) {
	if _, err := NewHALBackend(nil, nil); !errors.Is(err, ErrNilDeviceHandle) {
		t.Errorf("nil device: err = %v", err)
	}
	if _, err := NewHALBackendFromHandle(nil); !errors.Is(err, ErrNilDeviceHandle) {
		t.Errorf("nil handle: err = %v", err)
	}
	if _, err := NewHALBackendFromHandle(NullDeviceHandle{}); !errors.Is(err, ErrNoHALDevice) {
		t.Errorf("handle without HAL: err = %v", err)
	}

	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()
	var ce *ConfigError
	if _, err := NewHALBackend(device, queue, WithSampleCount(3)); !errors.As(err, &ce) || ce.Field != "SampleCount" {
		t.Errorf("sample count 3: err = %v", err)
	}
	if _, err := NewHALBackend(device, queue, WithTargetFormat(gputypes.TextureFormatUndefined)); !errors.As(err, &ce) {
		t.Errorf("undefined format: err = %v", err)
	}
}

func TestHALBackendFromHandle(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	b, err := NewHALBackendFromHandle(halHandle{device: device, queue: queue}, WithSampleCount(4))
	if err != nil {
		t.Fatal(err)
	}
	defer b.Destroy()
	caps := b.Capabilities()
	if !caps.IsGPU || !caps.RunsPrograms || !caps.SupportsAntialiasing {
		t.Errorf("capabilities = %+v", caps)
	}
	if b.Config().SampleCount != 4 {
		t.Errorf("SampleCount = %d", b.Config().SampleCount)
	}
}

func TestHALBackendDrawOutsideFrame(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()
	b, err := NewHALBackend(device, queue)
	if err != nil {
		t.Fatal(err)
	}
	defer b.Destroy()
	if err := b.Draw(shader.Identity4, rectItem(0, 0, 1, 1)); !errors.Is(err, ErrNoRenderPass) {
		t.Errorf("err = %v, want ErrNoRenderPass", err)
	}
}

func TestHALBackendRecordsDraws(t *testing.T) {
	for _, spirv := range []bool{false, true} {
		t.Run(fmt.Sprintf("spirv=%v", spirv), func(t *testing.T) {
			device, queue, cleanup := createNoopDevice(t)
			defer cleanup()
			b, err := NewHALBackend(device, queue, WithSPIRV(spirv))
			if err != nil {
				t.Fatal(err)
			}
			defer b.Destroy()

			pass, end := beginPass(t, device)
			b.BeginFrame(pass)
			ctx := NewContext(b, 64, 64)

			plain := rectItem(0, 0, 10, 10)
			plain.Texture = image.NewAlpha(image.Rect(0, 0, 8, 8))
			if err := ctx.Draw(plain); err != nil {
				t.Fatalf("plain draw: %v", err)
			}

			prog := shader.Synthesize([]shader.Unit{offsetUnit(1)})
			deformed := rectItem(0, 0, 10, 10)
			deformed.Program = prog
			deformed.Weights = make([]float32, 16)
			block := prog.Blocks[0]
			ub, err := block.Pack(map[string][]float32{"offsets": {5, 5}})
			if err != nil {
				t.Fatal(err)
			}
			deformed.Uniforms = [][]byte{ub}
			if err := ctx.Draw(deformed); err != nil {
				t.Fatalf("deformed draw: %v", err)
			}

			// Same program again reuses the cached pipeline.
			if err := ctx.Draw(deformed); err != nil {
				t.Fatal(err)
			}
			b.EndFrame()
			end()

			if b.PipelineCount() != 2 {
				t.Errorf("PipelineCount = %d, want 2", b.PipelineCount())
			}
			if b.DrawCount() != 3 || len(pass.draws) != 3 || pass.draws[0] != 6 {
				t.Errorf("draws = %d %v", b.DrawCount(), pass.draws)
			}
			// plain: group 0 only; deformed: groups 0 and 1, twice.
			want := []uint32{0, 0, 1, 0, 1}
			if fmt.Sprint(pass.bindGroups) != fmt.Sprint(want) {
				t.Errorf("bind groups = %v, want %v", pass.bindGroups, want)
			}
			if err := ctx.Draw(plain); !errors.Is(err, ErrNoRenderPass) {
				t.Errorf("draw after EndFrame: err = %v", err)
			}
		})
	}
}

func TestHALBackendSkipsEmptyDraw(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()
	b, err := NewHALBackend(device, queue)
	if err != nil {
		t.Fatal(err)
	}
	defer b.Destroy()

	pass, end := beginPass(t, device)
	defer end()
	b.BeginFrame(pass)
	empty := &DrawItem{Program: shader.PassThrough()}
	if err := b.Draw(shader.Identity4, empty); err != nil {
		t.Fatal(err)
	}
	if b.DrawCount() != 0 || b.PipelineCount() != 0 {
		t.Errorf("empty item recorded: draws %d pipelines %d", b.DrawCount(), b.PipelineCount())
	}
}

func TestTextureBytes(t *testing.T) {
	a := image.NewAlpha(image.Rect(0, 0, 2, 1))
	a.Pix[1] = 0x80
	got := textureBytes(a)
	want := []byte{0xff, 0xff, 0xff, 0, 0xff, 0xff, 0xff, 0x80}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("alpha = %v", got)
	}

	rgba := image.NewRGBA(image.Rect(0, 0, 1, 1))
	rgba.Pix = []byte{0x40, 0, 0, 0x80}
	if got := textureBytes(rgba); got[0] < 0x7f || got[3] != 0x80 {
		t.Errorf("premultiplied input not converted: %v", got)
	}
}
