// Copyright 2022 the Vello Authors
// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package renderer

import "structs"

// Clip is the clip stage's input. If non-negative, the entry is a begin clip
// and holds the path index. If negative, it is an end clip and holds the
// bitwise complement of the end clip's draw object index.
type Clip struct {
	_ structs.HostLayout

	PathIdx int32
}

type ClipBbox struct {
	_ structs.HostLayout

	Bbox [4]float32
}

type ClipBic struct {
	_ structs.HostLayout

	// When interpreted as a stack operation, the number of pop operations.
	A uint32
	// When interpreted as a stack operation, the number of push operations.
	B uint32
}

// NewClipBic returns the stack operation of a single clip.
func NewClipBic(pathIdx int32) ClipBic {
	if pathIdx >= 0 {
		return ClipBic{B: 1}
	}
	return ClipBic{A: 1}
}

func (cb ClipBic) Combine(other ClipBic) ClipBic {
	m := min(cb.B, other.A)
	return ClipBic{A: cb.A + other.A - m, B: cb.B + other.B - m}
}

type ClipElement struct {
	_ structs.HostLayout

	ParentIdx uint32
	Bbox      [4]float32
}
