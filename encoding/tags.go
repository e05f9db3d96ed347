// Copyright 2021 the piet-gpu authors
// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package encoding

// PathTag is an entry in the path tag stream. It is either a path segment or
// a control tag.
type PathTag uint8

const (
	// 32-bit floating point line segment.
	PathTagLineToF32 PathTag = 0x9

	// 32-bit floating point quadratic segment.
	PathTagQuadToF32 PathTag = 0xa

	// 32-bit floating point cubic segment.
	PathTagCubicToF32 PathTag = 0xb

	// Path marker. Ends a path.
	PathTagPath PathTag = 0x10

	// Transform marker. Advances to the next entry of the transform stream.
	PathTagTransform PathTag = 0x20

	// Line width marker. Advances to the next entry of the line width stream.
	PathTagLineWidth PathTag = 0x40

	// Bit that marks a segment that is the end of a subpath.
	PathTagSubpathEndBit PathTag = 0x4

	// Bit for path segments that are represented as f32 values.
	PathTagF32Bit PathTag = 0x8

	// Mask for the bottom 2 bits that contain the number of points of a
	// segment, beyond its start point.
	PathTagSegmentMask PathTag = 0x3
)

func (tag PathTag) IsPathSegment() bool { return tag&PathTagSegmentMask != 0 }
func (tag PathTag) IsSubpathEnd() bool  { return tag&PathTagSubpathEndBit != 0 }

// DrawTag identifies the kind of a draw object. Besides identifying the
// kind, the tag's bits encode the sizes of the object's draw data and of its
// draw info, so that the GPU can compute offsets with a prefix sum over
// tags alone:
//
//	bit  0:    draw object is a clip
//	bits 2-4:  size of draw data, in 32-bit words
//	bits 6-9:  size of draw info, in 32-bit words
type DrawTag uint32

const (
	// No operation.
	DrawTagNop DrawTag = 0

	// Color fill.
	DrawTagFillColor DrawTag = 0x44

	// Linear gradient fill.
	DrawTagFillLinearGradient DrawTag = 0x114

	// Radial gradient fill.
	DrawTagFillRadialGradient DrawTag = 0x2dc

	// Begin clip.
	DrawTagBeginClip DrawTag = 0x05

	// End clip.
	DrawTagEndClip DrawTag = 0x25
)

// DataSize returns the size of the tag's payload in the draw data stream, in
// bytes.
func (tag DrawTag) DataSize() uint32 {
	return uint32((tag>>2)&0x7) * 4
}

// InfoSize returns the size of the draw info the GPU produces for the tag,
// in bytes.
func (tag DrawTag) InfoSize() uint32 {
	return uint32((tag>>6)&0xf) * 4
}

func (tag DrawTag) IsClip() bool {
	return tag&1 != 0
}
