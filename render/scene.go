// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"errors"
	"fmt"

	"github.com/gogpu/textfx/text"
)

var (
	// ErrCycle is returned when adding a node would make it its own
	// ancestor.
	ErrCycle = errors.New("render: node cycle")

	// ErrNilNode is returned by AddChild for a nil child.
	ErrNilNode = errors.New("render: nil node")
)

// Node is a retained scene graph element. It wraps an optional Renderable
// and positions it, together with its children, by a translation relative
// to the parent.
//
// Node implements Renderable, so scenes nest:
//
//	root := render.NewNode(nil)
//	title := render.NewNode(titleText)
//	title.SetTranslation(20, 400)
//	_ = root.AddChild(title)
//
//	_ = root.Build()
//	_ = root.Render(render.NewContext(backend, 800, 600))
type Node struct {
	Name string

	content     Renderable
	parent      *Node
	children    []*Node
	hidden      bool
	translation text.Point
}

// NewNode returns a visible node drawing content. content may be nil for
// pure grouping nodes.
func NewNode(content Renderable) *Node {
	return &Node{content: content}
}

// Content returns the wrapped renderable.
func (n *Node) Content() Renderable { return n.content }

// SetContent replaces the wrapped renderable.
func (n *Node) SetContent(r Renderable) { n.content = r }

// Parent returns the parent node, or nil for a root.
func (n *Node) Parent() *Node { return n.parent }

// Children returns a copy of the child list in draw order.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// AddChild appends c, detaching it from its previous parent.
func (n *Node) AddChild(c *Node) error {
	if c == nil {
		return ErrNilNode
	}
	for p := n; p != nil; p = p.parent {
		if p == c {
			return ErrCycle
		}
	}
	if c.parent != nil {
		c.parent.RemoveChild(c)
	}
	c.parent = n
	n.children = append(n.children, c)
	return nil
}

// RemoveChild detaches c. It reports whether c was a child of n.
func (n *Node) RemoveChild(c *Node) bool {
	for i, ch := range n.children {
		if ch == c {
			n.children = append(n.children[:i], n.children[i+1:]...)
			c.parent = nil
			return true
		}
	}
	return false
}

// SetVisible shows or hides the node and its subtree.
func (n *Node) SetVisible(v bool) { n.hidden = !v }

// Visible reports whether the node draws.
func (n *Node) Visible() bool { return !n.hidden }

// SetTranslation sets the offset relative to the parent.
func (n *Node) SetTranslation(x, y float64) {
	n.translation = text.Point{X: x, Y: y}
}

// Translation returns the offset relative to the parent.
func (n *Node) Translation() text.Point { return n.translation }

// WorldTranslation returns the offset accumulated from the root.
func (n *Node) WorldTranslation() text.Point {
	var p text.Point
	for c := n; c != nil; c = c.parent {
		p.X += c.translation.X
		p.Y += c.translation.Y
	}
	return p
}

// Walk calls fn for n and every descendant in draw order, stopping at the
// first error.
func (n *Node) Walk(fn func(*Node) error) error {
	if err := fn(n); err != nil {
		return err
	}
	for _, c := range n.children {
		if err := c.Walk(fn); err != nil {
			return err
		}
	}
	return nil
}

// Build builds the content of every node in the subtree, hidden or not.
func (n *Node) Build() error {
	return n.Walk(func(c *Node) error {
		if c.content == nil {
			return nil
		}
		if err := c.content.Build(); err != nil {
			return fmt.Errorf("render: build %q: %w", c.Name, err)
		}
		return nil
	})
}

// Render draws the content and then the children of visible nodes, each
// offset by the accumulated translation.
func (n *Node) Render(ctx *Context) error {
	if n.hidden {
		return nil
	}
	saved := ctx.Translation
	ctx.Translation.X += n.translation.X
	ctx.Translation.Y += n.translation.Y
	defer func() { ctx.Translation = saved }()

	if n.content != nil {
		if err := n.content.Render(ctx); err != nil {
			return fmt.Errorf("render: draw %q: %w", n.Name, err)
		}
	}
	for _, c := range n.children {
		if err := c.Render(ctx); err != nil {
			return err
		}
	}
	return nil
}

var _ Renderable = (*Node)(nil)
