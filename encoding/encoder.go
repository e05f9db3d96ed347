// Copyright 2021 the piet-gpu authors
// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Package encoding turns drawing commands into the flat streams consumed by
// the GPU compute pipeline, and plans the memory layout of both the uploaded
// scene buffer and the pipeline's scratch memory.
//
// An Encoder is not safe for concurrent use. GlyphEncoders may be built
// concurrently and merged into an Encoder afterwards.
package encoding

import (
	"honnef.co/go/piet/gfx"
	"honnef.co/go/piet/jmath"
)

// FillLineWidth is the line width that marks subsequent paths as filled
// rather than stroked.
const FillLineWidth float32 = -1.0

// Encoder encodes a scene into six parallel streams: transforms, path tags,
// path segments, line widths, draw tags and draw data.
type Encoder struct {
	fragment

	transforms Stream[jmath.Transform]
	lineWidths Stream[float32]
	numClips   uint32
}

// NewEncoder returns an encoder whose transform stream holds the identity
// transform and whose line width stream holds FillLineWidth.
func NewEncoder() *Encoder {
	enc := &Encoder{}
	enc.Reset()
	return enc
}

// Reset returns the encoder to the state NewEncoder returns, retaining
// allocated memory.
func (enc *Encoder) Reset() {
	enc.fragment.reset()
	enc.transforms.Reset()
	enc.transforms.Push(jmath.Identity)
	enc.lineWidths.Reset()
	enc.lineWidths.Push(FillLineWidth)
	enc.numClips = 0
}

// SetTransform sets the transform of subsequently encoded paths.
func (enc *Encoder) SetTransform(t jmath.Transform) {
	enc.checkNoOpenPath("SetTransform")
	enc.pathTags.Push(PathTagTransform)
	enc.transforms.Push(t)
}

// SwapLastPathTags swaps the final two entries of the path tag stream. It is
// used after a path followed by a transform, so that the transform applies
// to the path's gradient fill but not to its geometry.
func (enc *Encoder) SwapLastPathTags() {
	enc.checkNoOpenPath("SwapLastPathTags")
	enc.pathTags.swapLast2()
}

// SetLineWidth sets the stroke width of subsequently encoded paths.
// FillLineWidth selects filling instead of stroking.
func (enc *Encoder) SetLineWidth(width float32) {
	enc.checkNoOpenPath("SetLineWidth")
	enc.pathTags.Push(PathTagLineWidth)
	enc.lineWidths.Push(width)
}

// FillLinearGradient encodes a linear gradient fill of the preceding path,
// using row index of the ramp image.
func (enc *Encoder) FillLinearGradient(index uint32, p0, p1 [2]float32) {
	var buf [20]byte
	enc.fill(DrawTagFillLinearGradient, drawLinearGradient{
		Index: index,
		P0:    p0,
		P1:    p1,
	}.appendTo(buf[:0]))
}

// FillRadialGradient encodes a two-point conical gradient fill of the
// preceding path.
func (enc *Encoder) FillRadialGradient(index uint32, p0, p1 [2]float32, r0, r1 float32) {
	var buf [28]byte
	enc.fill(DrawTagFillRadialGradient, drawRadialGradient{
		Index: index,
		P0:    p0,
		P1:    p1,
		R0:    r0,
		R1:    r1,
	}.appendTo(buf[:0]))
}

func packBlend(blend *gfx.BlendMode) uint32 {
	if blend == nil {
		return gfx.DefaultBlend.Pack()
	}
	return blend.Pack()
}

// BeginClip starts a clip whose shape is the preceding path. A nil blend
// uses gfx.DefaultBlend.
func (enc *Encoder) BeginClip(blend *gfx.BlendMode) {
	enc.checkNoOpenPath("BeginClip")
	var buf [4]byte
	enc.pushDraw(DrawTagBeginClip, drawClip{Blend: packBlend(blend)}.appendTo(buf[:0]))
	enc.pathPending = false
	enc.numClips++
}

// EndClip ends the innermost clip. The pipeline models the end of a clip as
// a path without segments, so this also appends a path marker and counts a
// path.
func (enc *Encoder) EndClip(blend *gfx.BlendMode) {
	enc.checkNoOpenPath("EndClip")
	var buf [4]byte
	enc.pushDraw(DrawTagEndClip, drawClip{Blend: packBlend(blend)}.appendTo(buf[:0]))
	enc.pathTags.Push(PathTagPath)
	enc.numPaths++
	enc.numClips++
}

// MergeGlyph appends a glyph's paths and fills. The glyph uses the
// encoder's current transform and line width. The glyph is not modified
// and may be merged again.
func (enc *Encoder) MergeGlyph(glyph *GlyphEncoder) {
	enc.checkNoOpenPath("MergeGlyph")
	glyph.checkNoOpenPath("MergeGlyph")
	enc.pathTags.Extend(glyph.pathTags.Elems()...)
	enc.pathData.Extend(glyph.pathData.Elems()...)
	enc.drawTags.Extend(glyph.drawTags.Elems()...)
	enc.drawData.Extend(glyph.drawData.Elems()...)
	enc.numPaths += glyph.numPaths
	enc.numPathSegments += glyph.numPathSegments
	enc.pathPending = false
}

func (enc *Encoder) Transforms() []jmath.Transform { return enc.transforms.Elems() }
func (enc *Encoder) LineWidths() []float32         { return enc.lineWidths.Elems() }

// NumClips returns the number of begin and end clips.
func (enc *Encoder) NumClips() uint32 { return enc.numClips }

func (enc *Encoder) NumTransforms() int { return enc.transforms.Len() }

func (enc *Encoder) NumLineWidths() int { return enc.lineWidths.Len() }
