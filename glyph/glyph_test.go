// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package glyph

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"honnef.co/go/piet/encoding"
	"honnef.co/go/piet/renderer"
)

func parseGoRegular(t *testing.T) *sfnt.Font {
	t.Helper()
	f, err := sfnt.Parse(goregular.TTF)
	if err != nil {
		t.Fatalf("parsing Go Regular: %s", err)
	}
	return f
}

func glyphIndex(t *testing.T, f *sfnt.Font, r rune) sfnt.GlyphIndex {
	t.Helper()
	var buf sfnt.Buffer
	idx, err := f.GlyphIndex(&buf, r)
	if err != nil || idx == 0 {
		t.Fatalf("no glyph for %q: %v", r, err)
	}
	return idx
}

func TestEncodeSquare(t *testing.T) {
	segs := sfnt.Segments{
		{Op: sfnt.SegmentOpMoveTo, Args: [3]fixed.Point26_6{fixed.P(0, 0)}},
		{Op: sfnt.SegmentOpLineTo, Args: [3]fixed.Point26_6{fixed.P(4, 0)}},
		{Op: sfnt.SegmentOpLineTo, Args: [3]fixed.Point26_6{fixed.P(4, 4)}},
		{Op: sfnt.SegmentOpQuadTo, Args: [3]fixed.Point26_6{fixed.P(2, 6), fixed.P(0, 4)}},
	}
	g := Encode(segs, 0x000000FF)

	wantTags := []encoding.PathTag{
		encoding.PathTagLineToF32,
		encoding.PathTagLineToF32,
		encoding.PathTagQuadToF32,
		// Closing line back to the start.
		encoding.PathTagLineToF32 | encoding.PathTagSubpathEndBit,
		encoding.PathTagPath,
	}
	if diff := cmp.Diff(wantTags, g.PathTags()); diff != "" {
		t.Errorf("PathTags() mismatch (-want +got):\n%s", diff)
	}
	if !g.IsColor() || g.NumPaths() != 1 || g.NumPathSegments() != 4 {
		t.Errorf("IsColor, NumPaths, NumPathSegments = %t, %d, %d, want true, 1, 4", g.IsColor(), g.NumPaths(), g.NumPathSegments())
	}
}

func TestEncodeEmpty(t *testing.T) {
	g := Encode(nil, 0xFFFFFFFF)
	if g.IsColor() || g.NumPaths() != 0 {
		t.Error("empty outline produced a path or fill")
	}
}

func TestEncodeFont(t *testing.T) {
	f := parseGoRegular(t)
	var buf sfnt.Buffer
	for _, r := range "AgO8%" {
		segs, err := f.LoadGlyph(&buf, glyphIndex(t, f, r), fixed.I(64), nil)
		if err != nil {
			t.Fatal(err)
		}
		g := Encode(segs, 0x000000FF)

		var contours int
		for _, s := range segs {
			if s.Op == sfnt.SegmentOpMoveTo {
				contours++
			}
		}
		var ends int
		for _, tag := range g.PathTags() {
			if tag.IsSubpathEnd() {
				ends++
			}
		}
		if ends != contours {
			t.Errorf("%q: %d subpath ends, want one per contour (%d)", r, ends, contours)
		}
		// The path tags must account for exactly the path data.
		m := renderer.ReducePathTags(g.PathTags())
		if int(m.PathSegOffset)*4 != len(g.PathData()) {
			t.Errorf("%q: path tags cover %d bytes of path data, have %d", r, m.PathSegOffset*4, len(g.PathData()))
		}
		if m.PathSegIdx != g.NumPathSegments() {
			t.Errorf("%q: %d segment tags, NumPathSegments() = %d", r, m.PathSegIdx, g.NumPathSegments())
		}
	}
}

func TestCache(t *testing.T) {
	f := parseGoRegular(t)
	idx := glyphIndex(t, f, 'a')
	var c Cache

	var wg sync.WaitGroup
	results := make([]*encoding.GlyphEncoder, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			g, err := c.Get(f, idx, fixed.I(32), 0x112233FF)
			if err != nil {
				t.Error(err)
				return
			}
			results[i] = g
		}()
	}
	wg.Wait()

	for _, g := range results[1:] {
		if g != results[0] {
			t.Fatal("concurrent lookups of the same glyph returned different fragments")
		}
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}

	other, err := c.Get(f, idx, fixed.I(48), 0x112233FF)
	if err != nil {
		t.Fatal(err)
	}
	if other == results[0] || c.Len() != 2 {
		t.Error("a different size didn't produce a new cache entry")
	}

	c.Reset()
	if c.Len() != 0 {
		t.Errorf("Len() after Reset = %d, want 0", c.Len())
	}
}

func TestCacheMissingGlyph(t *testing.T) {
	f := parseGoRegular(t)
	var c Cache
	if _, err := c.Get(f, sfnt.GlyphIndex(f.NumGlyphs()+10), fixed.I(16), 0); err == nil {
		t.Error("Get of an out-of-range glyph succeeded")
	}
}
