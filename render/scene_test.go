// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"errors"
	"testing"

	"github.com/gogpu/textfx/text"
)

// recordingBackend remembers the translation of every draw.
type recordingBackend struct {
	draws []text.Point
}

func (b *recordingBackend) Draw(_ [16]float32, item *DrawItem) error {
	b.draws = append(b.draws, item.Translation)
	return nil
}

func (b *recordingBackend) Capabilities() BackendCapabilities { return BackendCapabilities{} }

// quad is a Renderable drawing one rectangle.
type quad struct {
	builds int
	err    error
}

func (q *quad) Build() error {
	q.builds++
	return q.err
}

func (q *quad) Render(ctx *Context) error {
	return ctx.Draw(rectItem(0, 0, 1, 1))
}

func TestNodeRenderAccumulatesTranslation(t *testing.T) {
	root := NewNode(nil)
	root.SetTranslation(10, 0)
	a := NewNode(&quad{})
	a.SetTranslation(0, 5)
	b := NewNode(&quad{})
	b.SetTranslation(1, 1)
	if err := root.AddChild(a); err != nil {
		t.Fatal(err)
	}
	if err := a.AddChild(b); err != nil {
		t.Fatal(err)
	}

	rb := &recordingBackend{}
	ctx := NewContext(rb, 100, 100)
	if err := root.Render(ctx); err != nil {
		t.Fatal(err)
	}
	want := []text.Point{{X: 10, Y: 5}, {X: 11, Y: 6}}
	if len(rb.draws) != 2 || rb.draws[0] != want[0] || rb.draws[1] != want[1] {
		t.Errorf("draws = %v, want %v", rb.draws, want)
	}
	if ctx.Translation != (text.Point{}) {
		t.Errorf("context translation not restored: %v", ctx.Translation)
	}
	if got := b.WorldTranslation(); got != (text.Point{X: 11, Y: 6}) {
		t.Errorf("WorldTranslation = %v", got)
	}
}

func TestNodeVisibility(t *testing.T) {
	root := NewNode(&quad{})
	child := NewNode(&quad{})
	if err := root.AddChild(child); err != nil {
		t.Fatal(err)
	}
	rb := &recordingBackend{}

	child.SetVisible(false)
	if err := root.Render(NewContext(rb, 1, 1)); err != nil {
		t.Fatal(err)
	}
	if len(rb.draws) != 1 {
		t.Errorf("hidden child drew: %d draws", len(rb.draws))
	}

	root.SetVisible(false)
	rb.draws = nil
	child.SetVisible(true)
	if err := root.Render(NewContext(rb, 1, 1)); err != nil {
		t.Fatal(err)
	}
	if len(rb.draws) != 0 {
		t.Errorf("hidden subtree drew: %d draws", len(rb.draws))
	}
}

func TestNodeBuild(t *testing.T) {
	q1, q2 := &quad{}, &quad{err: errors.New("boom")}
	root := NewNode(q1)
	bad := NewNode(q2)
	bad.Name = "bad"
	bad.SetVisible(false)
	if err := root.AddChild(bad); err != nil {
		t.Fatal(err)
	}
	err := root.Build()
	if err == nil || q1.builds != 1 || q2.builds != 1 {
		t.Fatalf("Build: err %v, builds %d %d", err, q1.builds, q2.builds)
	}
}

func TestNodeTree(t *testing.T) {
	root, a, b := NewNode(nil), NewNode(nil), NewNode(nil)
	if err := root.AddChild(a); err != nil {
		t.Fatal(err)
	}
	if err := a.AddChild(b); err != nil {
		t.Fatal(err)
	}
	if err := b.AddChild(root); !errors.Is(err, ErrCycle) {
		t.Errorf("cycle: err = %v", err)
	}
	if err := a.AddChild(a); !errors.Is(err, ErrCycle) {
		t.Errorf("self: err = %v", err)
	}
	if err := root.AddChild(nil); !errors.Is(err, ErrNilNode) {
		t.Errorf("nil: err = %v", err)
	}

	// Reparenting detaches from the old parent.
	if err := root.AddChild(b); err != nil {
		t.Fatal(err)
	}
	if len(a.Children()) != 0 || b.Parent() != root || len(root.Children()) != 2 {
		t.Error("reparent failed")
	}
	if !root.RemoveChild(b) || root.RemoveChild(b) || b.Parent() != nil {
		t.Error("RemoveChild")
	}

	var visited int
	_ = root.Walk(func(*Node) error { visited++; return nil })
	if visited != 2 {
		t.Errorf("Walk visited %d nodes", visited)
	}
}

func TestContextWithoutBackend(t *testing.T) {
	ctx := &Context{}
	if err := ctx.Draw(rectItem(0, 0, 1, 1)); !errors.Is(err, ErrNoBackend) {
		t.Errorf("err = %v", err)
	}
}

func TestNullDeviceHandle(t *testing.T) {
	var handle DeviceHandle = NullDeviceHandle{}
	if handle.Device() != nil || handle.Queue() != nil || handle.Adapter() != nil {
		t.Error("NullDeviceHandle should return nil objects")
	}
	if _, _, err := halFromHandle(handle); !errors.Is(err, ErrNoHALDevice) {
		t.Errorf("halFromHandle: err = %v", err)
	}
}
