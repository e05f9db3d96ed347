// Copyright 2022 the Vello Authors
// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package encoding

import (
	"iter"

	"honnef.co/go/curve"
)

// PathEncoder appends the geometry of a single path to the path tag and path
// segment streams of an Encoder or GlyphEncoder.
//
// Every subpath stores its start point followed by the remaining points of
// each of its segments, as little-endian float32 pairs. Each segment adds one
// tag; the last segment of a subpath has PathTagSubpathEndBit set. Path
// terminates the path with a PathTagPath marker.
type PathEncoder struct {
	tags *Stream[PathTag]
	data *Stream[byte]
	// The owner's count of segments appended since its last FinishPath.
	appended *uint32

	firstPoint  [2]float32
	lastPoint   [2]float32
	state       pathState
	numSegments uint32
	finished    bool
}

type pathState int

const (
	pathStateStart pathState = iota
	pathStateMoveTo
	pathStateNonemptySubpath
)

func newPathEncoder(tags *Stream[PathTag], data *Stream[byte], appended *uint32) *PathEncoder {
	return &PathEncoder{
		tags:     tags,
		data:     data,
		appended: appended,
	}
}

func (enc *PathEncoder) checkOpen() {
	if enc.finished {
		panic("encoding: use of PathEncoder after Path")
	}
}

func (enc *PathEncoder) MoveTo(x, y float32) {
	enc.checkOpen()
	if enc.state == pathStateNonemptySubpath {
		*enc.tags.last() |= PathTagSubpathEndBit
	}
	// The start point is only written once the subpath has a segment, so a
	// trailing move-to never reaches the stream.
	enc.firstPoint = [2]float32{x, y}
	enc.lastPoint = enc.firstPoint
	enc.state = pathStateMoveTo
}

// implicitMoveTo handles a segment that isn't preceded by a move-to. It
// reports whether the segment should be dropped.
func (enc *PathEncoder) implicitMoveTo(x, y float32) bool {
	if enc.state != pathStateStart {
		return false
	}
	if enc.numSegments == 0 {
		// An initial segment without a move-to acts as a move-to.
		enc.MoveTo(x, y)
		return true
	}
	// Subsequent subpaths start where the previous closed one did.
	enc.MoveTo(enc.firstPoint[0], enc.firstPoint[1])
	return false
}

func (enc *PathEncoder) segment(tag PathTag, pts ...float32) {
	var buf [32]byte
	b := buf[:0]
	if enc.state == pathStateMoveTo {
		b = appendFloat32(b, enc.firstPoint[0], enc.firstPoint[1])
	}
	b = appendFloat32(b, pts...)
	enc.data.Extend(b...)
	enc.tags.Push(tag)
	enc.lastPoint = [2]float32{pts[len(pts)-2], pts[len(pts)-1]}
	enc.state = pathStateNonemptySubpath
	enc.numSegments++
	*enc.appended++
}

func (enc *PathEncoder) LineTo(x, y float32) {
	enc.checkOpen()
	if enc.implicitMoveTo(x, y) {
		return
	}
	enc.segment(PathTagLineToF32, x, y)
}

func (enc *PathEncoder) QuadTo(x1, y1, x2, y2 float32) {
	enc.checkOpen()
	if enc.implicitMoveTo(x2, y2) {
		return
	}
	enc.segment(PathTagQuadToF32, x1, y1, x2, y2)
}

func (enc *PathEncoder) CubicTo(x1, y1, x2, y2, x3, y3 float32) {
	enc.checkOpen()
	if enc.implicitMoveTo(x3, y3) {
		return
	}
	enc.segment(PathTagCubicToF32, x1, y1, x2, y2, x3, y3)
}

// Close ends the current subpath, adding a line back to its start point if
// the subpath doesn't already end there.
func (enc *PathEncoder) Close() {
	enc.checkOpen()
	switch enc.state {
	case pathStateStart:
		return
	case pathStateMoveTo:
		enc.state = pathStateStart
		return
	}
	if enc.lastPoint != enc.firstPoint {
		enc.segment(PathTagLineToF32, enc.firstPoint[0], enc.firstPoint[1])
	}
	*enc.tags.last() |= PathTagSubpathEndBit
	enc.state = pathStateStart
}

func (enc *PathEncoder) PathElements(path iter.Seq[curve.PathElement]) {
	for el := range path {
		switch el.Kind {
		case curve.MoveToKind:
			enc.MoveTo(float32(el.P0.X), float32(el.P0.Y))
		case curve.LineToKind:
			enc.LineTo(float32(el.P0.X), float32(el.P0.Y))
		case curve.QuadToKind:
			p0 := el.P0
			p1 := el.P1
			enc.QuadTo(float32(p0.X), float32(p0.Y), float32(p1.X), float32(p1.Y))
		case curve.CubicToKind:
			p0 := el.P0
			p1 := el.P1
			p2 := el.P2
			enc.CubicTo(
				float32(p0.X),
				float32(p0.Y),
				float32(p1.X),
				float32(p1.Y),
				float32(p2.X),
				float32(p2.Y),
			)
		case curve.ClosePathKind:
			enc.Close()
		}
	}
}

// Shape encodes the outline of shape, flattening curves that the shape
// can't express as Béziers to within tolerance.
func (enc *PathEncoder) Shape(shape curve.Shape, tolerance float64) {
	enc.PathElements(shape.PathElements(tolerance))
}

// NumSegments returns the number of segments encoded so far.
func (enc *PathEncoder) NumSegments() uint32 {
	return enc.numSegments
}

// Path ends the path and returns the number of segments it contains. The
// result is what must be passed to FinishPath.
func (enc *PathEncoder) Path() uint32 {
	enc.checkOpen()
	if enc.state == pathStateNonemptySubpath {
		*enc.tags.last() |= PathTagSubpathEndBit
	}
	enc.tags.Push(PathTagPath)
	enc.state = pathStateStart
	enc.finished = true
	return enc.numSegments
}
