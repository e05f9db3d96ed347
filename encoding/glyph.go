// Copyright 2021 the piet-gpu authors
// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package encoding

// GlyphEncoder encodes one glyph's outline and fill in isolation, so that the
// result can be cached and merged into many scenes with
// Encoder.MergeGlyph. It supports paths and solid fills only; the glyph
// inherits the scene's transform and line width at the time of merging.
//
// The zero value is ready to use.
type GlyphEncoder struct {
	fragment
}

// IsColor reports whether a fill has been recorded. Glyphs without one, such
// as spaces, need not be merged.
func (g *GlyphEncoder) IsColor() bool {
	return g.drawTags.Len() != 0
}

func (g *GlyphEncoder) Reset() {
	g.fragment.reset()
}
