// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Package glyph encodes font outlines into glyph fragments that can be
// merged into scenes.
package glyph

import (
	"fmt"
	"sync"

	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"honnef.co/go/piet/encoding"
	"honnef.co/go/piet/internal/logger"
)

func fixedToFloat(x fixed.Int26_6) float32 {
	return float32(x) / 64
}

// Encode encodes an outline as a single path filled with rgba, packed as
// 0xRRGGBBAA. Coordinates are in pixels with y pointing down, as sfnt
// produces them. Each contour is closed. An empty outline, such as that of a
// space, yields a glyph without a fill.
func Encode(segs sfnt.Segments, rgba uint32) *encoding.GlyphEncoder {
	var g encoding.GlyphEncoder
	if len(segs) == 0 {
		return &g
	}
	pe := g.EncodePath()
	pt := func(p fixed.Point26_6) (float32, float32) {
		return fixedToFloat(p.X), fixedToFloat(p.Y)
	}
	for _, seg := range segs {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			pe.Close()
			pe.MoveTo(pt(seg.Args[0]))
		case sfnt.SegmentOpLineTo:
			pe.LineTo(pt(seg.Args[0]))
		case sfnt.SegmentOpQuadTo:
			x1, y1 := pt(seg.Args[0])
			x2, y2 := pt(seg.Args[1])
			pe.QuadTo(x1, y1, x2, y2)
		case sfnt.SegmentOpCubeTo:
			x1, y1 := pt(seg.Args[0])
			x2, y2 := pt(seg.Args[1])
			x3, y3 := pt(seg.Args[2])
			pe.CubicTo(x1, y1, x2, y2, x3, y3)
		default:
			panic(fmt.Sprintf("glyph: unhandled segment op %d", seg.Op))
		}
	}
	pe.Close()
	g.FinishPath(pe.Path())
	g.FillColor(rgba)
	return &g
}

type cacheKey struct {
	font  *sfnt.Font
	index sfnt.GlyphIndex
	ppem  fixed.Int26_6
	rgba  uint32
}

// Cache memoizes encoded glyphs. It is safe for concurrent use. Cached
// glyphs are shared and must not be modified; merging them into an encoder
// is fine.
type Cache struct {
	mu     sync.Mutex
	glyphs map[cacheKey]*encoding.GlyphEncoder
	bufs   sync.Pool
}

// Get returns the glyph with the given index of f at ppem pixels per em,
// filled with rgba, loading and encoding it if it isn't cached.
func (c *Cache) Get(f *sfnt.Font, index sfnt.GlyphIndex, ppem fixed.Int26_6, rgba uint32) (*encoding.GlyphEncoder, error) {
	key := cacheKey{f, index, ppem, rgba}
	c.mu.Lock()
	g, ok := c.glyphs[key]
	c.mu.Unlock()
	if ok {
		return g, nil
	}

	buf, _ := c.bufs.Get().(*sfnt.Buffer)
	if buf == nil {
		buf = new(sfnt.Buffer)
	}
	segs, err := f.LoadGlyph(buf, index, ppem, nil)
	if err != nil {
		c.bufs.Put(buf)
		return nil, fmt.Errorf("loading glyph %d: %w", index, err)
	}
	g = Encode(segs, rgba)
	c.bufs.Put(buf)

	c.mu.Lock()
	defer c.mu.Unlock()
	// Another goroutine may have encoded the same glyph in the meantime.
	if prev, ok := c.glyphs[key]; ok {
		return prev, nil
	}
	if c.glyphs == nil {
		c.glyphs = make(map[cacheKey]*encoding.GlyphEncoder)
	}
	c.glyphs[key] = g
	logger.Logger().Debug("encoded glyph", "index", index, "ppem", ppem, "segments", g.NumPathSegments())
	return g, nil
}

// Len returns the number of cached glyphs.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.glyphs)
}

// Reset drops all cached glyphs.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.glyphs)
}
