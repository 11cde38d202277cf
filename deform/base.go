package deform

import (
	"fmt"
	"strconv"

	"github.com/gogpu/textfx/shader"
	"github.com/gogpu/textfx/text"
)

// GroupValues is a per-group array of a deformer: Components floats for
// every group, reset to Default whenever the group count or granularity
// changes.
type GroupValues struct {
	Name       string
	Components int
	Default    []float32

	values []float32
	groups int
}

// NewGroupValues returns an empty array whose entries default to def.
func NewGroupValues(name string, def ...float32) GroupValues {
	return GroupValues{Name: name, Components: len(def), Default: def}
}

// Values returns a copy of the array, groupCount × Components floats.
func (v *GroupValues) Values() []float32 {
	out := make([]float32, v.groups*v.Components)
	copy(out, v.values)
	return out
}

// At returns the values of group i, or the defaults when i is out of
// range.
func (v *GroupValues) At(i int) []float32 {
	if i < 0 || i >= v.groups {
		return v.Default
	}
	return v.values[i*v.Components : (i+1)*v.Components]
}

// padded returns the array with at least one group, the shape of its
// uniform field.
func (v *GroupValues) padded() []float32 {
	if v.groups > 0 {
		return v.values
	}
	return append([]float32(nil), v.Default...)
}

func (v *GroupValues) field(count int) shader.UniformField {
	return shader.UniformField{Name: v.Name, Components: v.Components, Count: count}
}

func (v *GroupValues) reset(groups int) {
	v.groups = groups
	v.values = make([]float32, groups*v.Components)
	for i := 0; i < groups; i++ {
		copy(v.values[i*v.Components:], v.Default)
	}
}

// Base carries the state every deformer shares: capabilities,
// granularity, enabled flag, dirty flag and the stack back-reference.
//
// A deformer is unattached until Stack.Add, then clean or dirty. Setters
// mark it dirty; update cleans it only while the owner's geometry is
// built.
type Base struct {
	caps        Capability
	granularity Granularity
	enabled     bool
	dirty       bool

	// generation counts changes that alter the synthesized program.
	generation uint64

	stack  *Stack
	groups int
	arrays []*GroupValues
}

func newBase(caps Capability, g Granularity) Base {
	return Base{caps: caps, granularity: g, enabled: true, dirty: true, groups: -1}
}

func (b *Base) base() *Base { return b }

// register adds per-group arrays owned by the embedding variant.
func (b *Base) register(arrays ...*GroupValues) {
	b.arrays = append(b.arrays, arrays...)
}

// Capabilities returns the stages the deformer touches.
func (b *Base) Capabilities() Capability { return b.caps }

// Granularity returns the grouping of the per-group arrays.
func (b *Base) Granularity() Granularity { return b.granularity }

// SetGranularity changes the grouping and resets every per-group array to
// its default.
func (b *Base) SetGranularity(g Granularity) error {
	if !g.valid() {
		return &text.UnknownIdentifierError{Kind: "granularity", Value: strconv.Itoa(int(g))}
	}
	if g == b.granularity {
		return nil
	}
	b.granularity = g
	b.groups = -1
	b.structural()
	b.sync()
	return nil
}

// Enabled reports whether the deformer contributes to the program.
func (b *Base) Enabled() bool { return b.enabled }

// SetEnabled includes or excludes the deformer without removing it from
// its stack. Its slot number is kept.
func (b *Base) SetEnabled(on bool) {
	if on == b.enabled {
		return
	}
	b.enabled = on
	b.structural()
}

// Dirty reports whether a setter ran since the last successful update.
func (b *Base) Dirty() bool { return b.dirty }

// Stack returns the stack the deformer is attached to, or nil.
func (b *Base) Stack() *Stack { return b.stack }

// Attached reports whether the deformer belongs to a stack.
func (b *Base) Attached() bool { return b.stack != nil }

// Index returns the 0-based stack position, or -1 when unattached.
func (b *Base) Index() int {
	if b.stack == nil {
		return -1
	}
	for i, d := range b.stack.deformers {
		if d.base() == b {
			return i
		}
	}
	return -1
}

// Slot returns the 1-based stack position used in helper names.
func (b *Base) Slot() int { return b.Index() + 1 }

// GroupCount returns the number of groups the per-group arrays hold, or 0
// before the owner's first build.
func (b *Base) GroupCount() int {
	if b.groups < 0 {
		return 0
	}
	return b.groups
}

func (b *Base) markDirty() { b.dirty = true }

func (b *Base) structural() {
	b.dirty = true
	b.generation++
}

func (b *Base) owner() Owner {
	if b.stack == nil {
		return nil
	}
	return b.stack.owner
}

func (b *Base) built() bool {
	o := b.owner()
	return o != nil && o.GeometryBuilt()
}

// sync resizes the per-group arrays when the owner's group count differs
// from the one they were sized for. An unchanged count keeps values.
func (b *Base) sync() {
	if !b.built() {
		return
	}
	n := b.owner().GroupCount(b.granularity)
	if n == b.groups {
		return
	}
	for _, a := range b.arrays {
		a.reset(n)
	}
	b.groups = n
}

// update cleans the deformer. It stays dirty while unattached or while
// the owner has no geometry.
func (b *Base) update() {
	if !b.built() {
		return
	}
	b.sync()
	b.dirty = false
}

// setGroupValues validates and stores data into a. Validation precedes
// mutation.
func (b *Base) setGroupValues(a *GroupValues, data []float32) error {
	if b.stack == nil {
		return ErrNotAttached
	}
	if !b.built() {
		return ErrGeometryNotBuilt
	}
	want := b.owner().GroupCount(b.granularity) * a.Components
	if len(data) != want {
		return &GroupLengthError{Name: a.Name, Want: want, Got: len(data)}
	}
	b.sync()
	copy(a.values, data)
	b.markDirty()
	return nil
}

// arrayLen is the length of every uniform array of the deformer.
func (b *Base) arrayLen() int {
	if b.groups < 1 {
		return 1
	}
	return b.groups
}

// groupOf extracts the deformer's group index from a weights vector.
func (b *Base) groupOf(weights [4]float32) int {
	g := int(weights[b.granularity])
	if g < 0 || g >= b.groups {
		return 0
	}
	return g
}

// indexLine is the first statement of every weighted helper.
func (b *Base) indexLine() string {
	return fmt.Sprintf("let idx = i32(weights.%s);", b.granularity.Component())
}

func body(slot int, stage shader.Stage, src string) shader.Fragment {
	return shader.Fragment{Slot: slot, Stage: stage, Kind: shader.KindBody, Source: src}
}
