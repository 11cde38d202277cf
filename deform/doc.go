// Package deform composes per-group vertex, UV and color effects on text
// geometry.
//
// A Deformer declares capabilities (VERTEX, MATRIX, UV, COLOR) and a
// Granularity (BOUNDS, LINE, WORD, GLYPH). Its per-group arrays hold one
// entry per group at that granularity: one for BOUNDS, one per line, word
// or glyph otherwise. Setting an array of the wrong length fails with
// *GroupLengthError and leaves the deformer untouched.
//
// A Stack owns an ordered list of deformers for one Owner. Setters only
// mark deformers dirty; the owner calls Stack.Update before drawing, which
// re-synthesizes the shader program when anything structural changed and
// gathers uniform values:
//
//	stack := deform.NewStack(owner)
//	move := deform.NewTransform(deform.Line)
//	_ = stack.Add(move)
//	_ = owner.Build()
//	_ = move.SetTranslations([]float32{0, 10, 0, 20})
//	_ = stack.Update()
//	prog := stack.Program()
//
// Every variant also implements its effect on the CPU (MatrixDeformer,
// VertexDeformer, UVDeformer, ColorDeformer) so a software backend can
// render the same result as the synthesized program.
package deform

var (
	_ Deformer = (*Transform)(nil)
	_ Deformer = (*Offset)(nil)
	_ Deformer = (*Wave)(nil)
	_ Deformer = (*Opacity)(nil)
	_ Deformer = (*Tint)(nil)
	_ Deformer = (*TextProgress)(nil)
	_ Deformer = (*Pixelate)(nil)

	_ MatrixDeformer = (*Transform)(nil)
	_ VertexDeformer = (*Offset)(nil)
	_ VertexDeformer = (*Wave)(nil)
	_ ColorDeformer  = (*Opacity)(nil)
	_ ColorDeformer  = (*Tint)(nil)
	_ ColorDeformer  = (*TextProgress)(nil)
	_ UVDeformer     = (*Pixelate)(nil)
)
