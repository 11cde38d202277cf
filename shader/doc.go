// Package shader stitches WGSL fragments into vertex and fragment programs.
//
// Each deformer in a stack describes itself as a Unit: its 1-based slot,
// its capabilities, an optional uniform block, the varyings it passes from
// the vertex to the fragment stage, and a list of typed Fragments (header
// declarations, helper bodies and main-body snippets).
//
// SynthesizeVertex and SynthesizeFragment are the only places that know
// how those pieces fit together. The vertex program threads a homogeneous
// 2D position through every MATRIX and VERTEX unit in slot order:
//
//	position_0 = vec3(in.position, 1)
//	position_1 = computeMatrix1(in.weights) * position_0
//	position_2 = computeVertexPosition3(position_1, in.weights)
//
// and the fragment program threads the texture coordinate through UV units
// and the color through COLOR units before returning sampled * color.
//
// The weights attribute is a vec4 holding the group index of each vertex
// at four granularities: x for bounds, y for line, z for word and w for
// glyph. Helpers select the component they were built for.
//
// Programs are plain WGSL text. Compile turns them into SPIR-V with naga,
// and Translate produces GLSL, MSL or HLSL for backends that need it.
package shader
