// Copyright 2021 the piet-gpu authors
// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package encoding

import (
	"fmt"

	"honnef.co/go/piet/jmath"
)

// LayoutConstants is the table of element sizes and part sizes shared with
// the compute shaders. Changing an entry requires changing the shaders in
// lockstep, and bumping Version.
type LayoutConstants struct {
	Version uint32

	// Element sizes in bytes.
	TransformSize   uint32
	LineWidthSize   uint32
	DrawTagSize     uint32
	PathSegSize     uint32
	PathBboxSize    uint32
	DrawMonoidSize  uint32
	DrawBboxSize    uint32
	AnnotatedSize   uint32
	ClipSize        uint32
	ClipBicSize     uint32
	ClipElementSize uint32
	ClipBboxSize    uint32
	// Upper bound on the size of a draw object's draw info.
	MaxDrawInfoSize uint32

	// Number of elements processed per workgroup by the block-parallel
	// stages. All must be powers of two.
	DrawPartSize      uint32
	TransformPartSize uint32
	PathSegPartSize   uint32
	ClipPartSize      uint32
}

var DefaultConstants = LayoutConstants{
	Version: 1,

	TransformSize:   24,
	LineWidthSize:   4,
	DrawTagSize:     4,
	PathSegSize:     52,
	PathBboxSize:    24,
	DrawMonoidSize:  16,
	DrawBboxSize:    16,
	AnnotatedSize:   40,
	ClipSize:        4,
	ClipBicSize:     8,
	ClipElementSize: 20,
	ClipBboxSize:    16,
	MaxDrawInfoSize: 44,

	DrawPartSize:      256 * 8,
	TransformPartSize: 256 * 8,
	PathSegPartSize:   256 * 4,
	ClipPartSize:      256,
}

func (lc *LayoutConstants) validate() error {
	parts := []struct {
		name string
		v    uint32
	}{
		{"DrawPartSize", lc.DrawPartSize},
		{"TransformPartSize", lc.TransformPartSize},
		{"PathSegPartSize", lc.PathSegPartSize},
		{"ClipPartSize", lc.ClipPartSize},
	}
	for _, p := range parts {
		if !jmath.IsPowerOfTwo(p.v) {
			return fmt.Errorf("layout constants v%d: %s = %d is not a power of two", lc.Version, p.name, p.v)
		}
	}
	return nil
}
