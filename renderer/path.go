// Copyright 2022 the Vello Authors
// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package renderer

import (
	"encoding/binary"
	"math/bits"
	"structs"

	"honnef.co/go/piet/encoding"
)

// PathMonoid is the result of the path tag prefix sum. All offsets are
// counted in entries of their respective streams, except PathSegOffset,
// which counts 32-bit words of path segment data.
type PathMonoid struct {
	_ structs.HostLayout

	// Index into transform stream.
	TransIdx uint32
	// Path segment index.
	PathSegIdx uint32
	// Offset into path segment stream.
	PathSegOffset uint32
	// Index into line width stream.
	LineWidthIdx uint32
	// Index of containing path.
	PathIdx uint32
}

// NewPathMonoid reduces four path tags packed into a little-endian word.
func NewPathMonoid(tagWord uint32) PathMonoid {
	var c PathMonoid
	point_count := tagWord & 0x3030303
	c.PathSegIdx = uint32(bits.OnesCount32(((point_count * 7) & 0x4040404)))
	c.TransIdx = uint32(bits.OnesCount32((tagWord & (uint32(encoding.PathTagTransform) * 0x1010101))))
	// The end of a subpath skips over the start point of the next one.
	n_points := point_count + ((tagWord >> 2) & 0x1010101)
	a := n_points + (n_points & (((tagWord >> 3) & 0x1010101) * 15))
	a += a >> 8
	a += a >> 16
	c.PathSegOffset = a & 0xff
	c.PathIdx = uint32(bits.OnesCount32((tagWord & (uint32(encoding.PathTagPath) * 0x1010101))))
	c.LineWidthIdx = uint32(bits.OnesCount32((tagWord & (uint32(encoding.PathTagLineWidth) * 0x1010101))))
	return c
}

func (m PathMonoid) Combine(other PathMonoid) PathMonoid {
	return PathMonoid{
		TransIdx:      m.TransIdx + other.TransIdx,
		PathSegIdx:    m.PathSegIdx + other.PathSegIdx,
		PathSegOffset: m.PathSegOffset + other.PathSegOffset,
		LineWidthIdx:  m.LineWidthIdx + other.LineWidthIdx,
		PathIdx:       m.PathIdx + other.PathIdx,
	}
}

// ReducePathTags is the CPU reference of the path tag reduction. tags is
// zero-padded to a multiple of four, as it is in the scene buffer.
func ReducePathTags(tags []encoding.PathTag) PathMonoid {
	var word [4]byte
	var m PathMonoid
	for i := 0; i < len(tags); i += 4 {
		word = [4]byte{}
		for j := 0; j < 4 && i+j < len(tags); j++ {
			word[j] = byte(tags[i+j])
		}
		m = m.Combine(NewPathMonoid(binary.LittleEndian.Uint32(word[:])))
	}
	return m
}

// PathSegment is a flattened path segment with up to four control points,
// as produced by the path stage.
type PathSegment struct {
	_ structs.HostLayout

	Tag     uint32
	Points  [4][2]float32
	PathIdx uint32
	// Index into the transform stream.
	TransIdx uint32
	// Stroke offset, zero for fills.
	Stroke [2]float32
}

type PathBbox struct {
	_ structs.HostLayout

	// Minimum x value.
	X0 int32
	// Minimum y value.
	Y0 int32
	// Maximum x value.
	X1 int32
	// Maximum y value.
	Y1 int32
	// Stroke width, or encoding.FillLineWidth.
	LineWidth float32
	// Index into the transform stream.
	TransIdx uint32
}

// Path is the tile allocation record of a path.
type Path struct {
	_ structs.HostLayout

	Bbox [4]uint16
	// Offset of the path's tiles in scratch memory.
	Tiles uint32
}

type Tile struct {
	_ structs.HostLayout

	Backdrop int32
	Segments uint32
}
