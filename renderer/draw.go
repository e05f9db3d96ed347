// Copyright 2022 the Vello Authors
// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package renderer

import (
	"structs"

	"honnef.co/go/piet/encoding"
)

type DrawMonoid struct {
	_ structs.HostLayout

	// The number of paths preceding this draw object.
	PathIdx uint32
	// The number of clip operations preceding this draw object.
	ClipIdx uint32
	// The offset of the encoded draw object in the scene (u32s).
	SceneOffset uint32
	// The offset of the associated info (u32s).
	InfoOffset uint32
}

func NewDrawMonoid(tag encoding.DrawTag) DrawMonoid {
	var pathIdx uint32
	if tag != encoding.DrawTagNop {
		pathIdx = 1
	}
	return DrawMonoid{
		PathIdx:     pathIdx,
		ClipIdx:     uint32(tag) & 1,
		SceneOffset: (uint32(tag) >> 2) & 0x7,
		InfoOffset:  (uint32(tag) >> 6) & 0xf,
	}
}

func (m DrawMonoid) Combine(other DrawMonoid) DrawMonoid {
	return DrawMonoid{
		PathIdx:     m.PathIdx + other.PathIdx,
		ClipIdx:     m.ClipIdx + other.ClipIdx,
		SceneOffset: m.SceneOffset + other.SceneOffset,
		InfoOffset:  m.InfoOffset + other.InfoOffset,
	}
}

// ScanDrawTags is the CPU reference of the draw tag scan. It returns the
// exclusive prefix of every tag followed by the total.
func ScanDrawTags(tags []encoding.DrawTag) ([]DrawMonoid, DrawMonoid) {
	out := make([]DrawMonoid, len(tags))
	var agg DrawMonoid
	for i, tag := range tags {
		out[i] = agg
		agg = agg.Combine(NewDrawMonoid(tag))
	}
	return out, agg
}

type DrawBbox struct {
	_ structs.HostLayout

	Bbox [4]float32
}

// Annotated is a draw object after the draw stage has resolved its path's
// bounding box and line width. Payload holds the tag-specific draw data,
// such as the color of a solid fill.
type Annotated struct {
	_ structs.HostLayout

	Tag       uint32
	Bbox      [4]float32
	LineWidth float32
	Payload   [4]uint32
}

// BinHeader is written by the binning stage for every bin and partition.
type BinHeader struct {
	_ structs.HostLayout

	ElementCount uint32
	ChunkOffset  uint32
}
