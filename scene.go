// Copyright 2022 the Vello Authors
// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package piet

import (
	"fmt"
	"iter"

	"honnef.co/go/curve"
	"honnef.co/go/piet/encoding"
	"honnef.co/go/piet/gfx"
	"honnef.co/go/piet/jmath"
	"honnef.co/go/piet/profiler"
	"honnef.co/go/piet/renderer"
)

// Tolerance used for flattening shapes that can't be expressed as Bézier
// curves.
const shapeTolerance = 0.1

// Scene records drawing operations into an encoding.Encoder.
//
// Transforms and line widths are only encoded when they change.
type Scene struct {
	enc    *encoding.Encoder
	ramps  renderer.RampCache
	layers []gfx.BlendMode
}

func NewScene() *Scene {
	return &Scene{enc: encoding.NewEncoder()}
}

// Reset clears the scene for the next frame. Gradient ramps remain cached.
func (s *Scene) Reset() {
	s.enc.Reset()
	s.layers = s.layers[:0]
	s.ramps.Maintain()
}

// Encoder returns the scene's encoder.
func (s *Scene) Encoder() *encoding.Encoder {
	return s.enc
}

// Gradient returns the ramp for a gradient with the given stops, for use in
// gradient brushes.
func (s *Scene) Gradient(stops ...gfx.ColorStop) uint32 {
	return s.ramps.Add(stops)
}

// Ramps returns the ramp image of the scene's gradients.
func (s *Scene) Ramps() renderer.Ramps {
	return s.ramps.Ramps()
}

func (s *Scene) encodeTransform(t jmath.Transform) bool {
	ts := s.enc.Transforms()
	if ts[len(ts)-1] == t {
		return false
	}
	s.enc.SetTransform(t)
	return true
}

func (s *Scene) encodeLineWidth(w float32) {
	ws := s.enc.LineWidths()
	if ws[len(ws)-1] != w {
		s.enc.SetLineWidth(w)
	}
}

func (s *Scene) encodePath(path iter.Seq[curve.PathElement]) {
	pe := s.enc.EncodePath()
	pe.PathElements(path)
	s.enc.FinishPath(pe.Path())
}

func (s *Scene) encodeBrush(b gfx.Brush) {
	pt := func(p curve.Point) [2]float32 {
		return [2]float32{float32(p.X), float32(p.Y)}
	}
	switch b := b.(type) {
	case gfx.SolidBrush:
		s.enc.FillColor(uint32(b.Color))
	case gfx.LinearGradientBrush:
		s.enc.FillLinearGradient(b.Ramp, pt(b.Start), pt(b.End))
	case gfx.RadialGradientBrush:
		s.enc.FillRadialGradient(b.Ramp, pt(b.StartCenter), pt(b.EndCenter), b.StartRadius, b.EndRadius)
	default:
		panic(fmt.Sprintf("unhandled brush %T", b))
	}
}

func (s *Scene) draw(
	t jmath.Transform,
	lineWidth float32,
	b gfx.Brush,
	brushTransform *jmath.Transform,
	path iter.Seq[curve.PathElement],
) {
	s.encodeTransform(t)
	s.encodeLineWidth(lineWidth)
	s.encodePath(path)
	if brushTransform != nil {
		// The brush transform must apply to the fill but not to the path.
		if s.encodeTransform(t.Mul(*brushTransform)) {
			s.enc.SwapLastPathTags()
		}
	}
	s.encodeBrush(b)
}

// Fill fills shape with b. brushTransform, if not nil, is applied to the
// brush in addition to transform. Use jmath.TransformFromAffine to convert
// a curve.Affine.
func (s *Scene) Fill(
	transform jmath.Transform,
	b gfx.Brush,
	brushTransform *jmath.Transform,
	shape curve.Shape,
) {
	s.FillPath(transform, b, brushTransform, shape.PathElements(shapeTolerance))
}

func (s *Scene) FillPath(
	transform jmath.Transform,
	b gfx.Brush,
	brushTransform *jmath.Transform,
	path iter.Seq[curve.PathElement],
) {
	s.draw(transform, encoding.FillLineWidth, b, brushTransform, path)
}

// Stroke strokes shape with a line of the given width.
func (s *Scene) Stroke(
	width float32,
	transform jmath.Transform,
	b gfx.Brush,
	brushTransform *jmath.Transform,
	shape curve.Shape,
) {
	s.StrokePath(width, transform, b, brushTransform, shape.PathElements(shapeTolerance))
}

func (s *Scene) StrokePath(
	width float32,
	transform jmath.Transform,
	b gfx.Brush,
	brushTransform *jmath.Transform,
	path iter.Seq[curve.PathElement],
) {
	if !(width >= 0) {
		panic(fmt.Sprintf("invalid stroke width %g", width))
	}
	s.draw(transform, width, b, brushTransform, path)
}

// PushLayer starts a layer clipped to clip. Drawing until the matching
// PopLayer is composited with blend.
func (s *Scene) PushLayer(blend gfx.BlendMode, transform jmath.Transform, clip curve.Shape) {
	s.PushLayerPath(blend, transform, clip.PathElements(shapeTolerance))
}

func (s *Scene) PushLayerPath(blend gfx.BlendMode, transform jmath.Transform, clip iter.Seq[curve.PathElement]) {
	s.encodeTransform(transform)
	s.encodeLineWidth(encoding.FillLineWidth)
	s.encodePath(clip)
	s.enc.BeginClip(&blend)
	s.layers = append(s.layers, blend)
}

// PopLayer ends the innermost layer.
func (s *Scene) PopLayer() {
	if len(s.layers) == 0 {
		panic("PopLayer without PushLayer")
	}
	blend := s.layers[len(s.layers)-1]
	s.layers = s.layers[:len(s.layers)-1]
	s.enc.EndClip(&blend)
}

// DrawGlyph merges a glyph encoded with encoding.GlyphEncoder or the glyph
// package, placed with transform. Glyphs without a fill are skipped.
func (s *Scene) DrawGlyph(transform jmath.Transform, g *encoding.GlyphEncoder) {
	if !g.IsColor() {
		return
	}
	s.encodeTransform(transform)
	s.encodeLineWidth(encoding.FillLineWidth)
	s.enc.MergeGlyph(g)
}

// Render records the upload of the scene for a target of the given size.
// Open layers are closed first.
func (s *Scene) Render(
	rd *renderer.Renderer,
	width, height uint32,
	pgroup profiler.ProfilerGroup,
) (*renderer.Recording, *renderer.RenderResources, error) {
	for len(s.layers) > 0 {
		s.PopLayer()
	}
	ramps := s.ramps.Ramps()
	return rd.Render(s.enc, &renderer.RenderParams{
		Width:  width,
		Height: height,
		Ramps:  &ramps,
	}, pgroup)
}
