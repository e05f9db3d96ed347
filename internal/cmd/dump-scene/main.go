// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Command dump-scene encodes a demo scene and writes the buffers a GPU
// pipeline would be given: the scene buffer, the configuration block and
// the gradient ramps, plus a description of the memory layout.
package main

import (
	"flag"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"slices"

	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"honnef.co/go/curve"
	"honnef.co/go/piet"
	"honnef.co/go/piet/encoding"
	"honnef.co/go/piet/gfx"
	"honnef.co/go/piet/glyph"
	"honnef.co/go/piet/jmath"
	"honnef.co/go/piet/profiler"
	"honnef.co/go/piet/renderer"
)

func main() {
	var (
		out     string
		width   uint
		height  uint
		text    string
		size    float64
		verbose bool
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [-v] [-w <px>] [-h <px>] [-text <string>] -out <dir>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.StringVar(&out, "out", "./out", "Path to output `directory`")
	flag.UintVar(&width, "w", 800, "Target width in pixels")
	flag.UintVar(&height, "h", 600, "Target height in pixels")
	flag.StringVar(&text, "text", "Hello, piet", "Text to draw")
	flag.Float64Var(&size, "size", 48, "Font size in pixels per em")
	flag.BoolVar(&verbose, "v", false, "Be verbose")
	flag.Parse()

	if len(flag.Args()) != 0 || width > math.MaxUint32 || height > math.MaxUint32 {
		flag.Usage()
		os.Exit(2)
	}

	dief := func(f string, v ...any) {
		fmt.Fprintf(os.Stderr, f, v...)
		fmt.Fprintln(os.Stderr)
		os.Exit(1)
	}

	if verbose {
		piet.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	font, err := sfnt.Parse(goregular.TTF)
	if err != nil {
		dief("Couldn't parse font: %s", err)
	}

	s := piet.NewScene()
	var glyphs glyph.Cache
	if err := buildScene(s, &glyphs, font, text, size); err != nil {
		dief("Couldn't build scene: %s", err)
	}

	var pgroup profiler.ProfilerGroup = profiler.Nop
	if verbose {
		pgroup = &profiler.Logging{Logger: piet.Logger()}
	}
	rec, res, err := s.Render(renderer.New(), uint32(width), uint32(height), pgroup)
	if err != nil {
		dief("Couldn't render scene: %s", err)
	}

	if err := os.MkdirAll(out, 0777); err != nil {
		dief("Couldn't create output directory: %s", err)
	}
	for _, cmd := range rec.Commands {
		var buf renderer.BufferProxy
		var data []byte
		switch cmd := cmd.(type) {
		case *renderer.Upload:
			buf, data = cmd.Buffer, cmd.Data
		case *renderer.UploadUniform:
			buf, data = cmd.Buffer, cmd.Data
		default:
			continue
		}
		if err := os.WriteFile(filepath.Join(out, buf.Name+".bin"), data, 0666); err != nil {
			dief("Couldn't write %s: %s", buf.Name, err)
		}
	}

	f, err := os.Create(filepath.Join(out, "layout.txt"))
	if err != nil {
		dief("Couldn't create layout description: %s", err)
	}
	writeLayout(f, res)
	if err := f.Close(); err != nil {
		dief("Couldn't write layout description: %s", err)
	}
}

func polygon(cx, cy, r float64, n int) iter.Seq[curve.PathElement] {
	els := make([]curve.PathElement, 0, n+1)
	for i := range n {
		a := 2 * math.Pi * float64(i) / float64(n)
		p := curve.Point{X: cx + r*math.Cos(a), Y: cy + r*math.Sin(a)}
		kind := curve.LineToKind
		if i == 0 {
			kind = curve.MoveToKind
		}
		els = append(els, curve.PathElement{Kind: kind, P0: p})
	}
	els = append(els, curve.PathElement{Kind: curve.ClosePathKind})
	return slices.Values(els)
}

func buildScene(s *piet.Scene, glyphs *glyph.Cache, font *sfnt.Font, text string, size float64) error {
	black := gfx.RGBA8(0, 0, 0, 255)
	s.FillPath(jmath.Identity, gfx.SolidBrush{Color: gfx.RGBA8(240, 240, 240, 255)}, nil, polygon(400, 300, 500, 4))

	ramp := s.Gradient(
		gfx.ColorStop{Offset: 0, Color: gfx.RGBA8(255, 0, 0, 255)},
		gfx.ColorStop{Offset: 0.5, Color: gfx.RGBA8(0, 255, 0, 255)},
		gfx.ColorStop{Offset: 1, Color: gfx.RGBA8(0, 0, 255, 255)},
	)
	s.FillPath(jmath.Identity, gfx.LinearGradientBrush{
		Ramp:  ramp,
		Start: curve.Point{X: 100, Y: 100},
		End:   curve.Point{X: 300, Y: 300},
	}, nil, polygon(200, 200, 100, 6))

	s.PushLayerPath(gfx.BlendMode{Mix: gfx.MixMultiply}, jmath.Identity, polygon(500, 250, 120, 32))
	s.FillPath(jmath.Identity, gfx.RadialGradientBrush{
		Ramp:        ramp,
		StartCenter: curve.Point{X: 500, Y: 250},
		EndCenter:   curve.Point{X: 500, Y: 250},
		EndRadius:   120,
	}, nil, polygon(500, 250, 150, 5))
	s.StrokePath(4, jmath.Identity, gfx.SolidBrush{Color: black}, nil, polygon(500, 250, 90, 3))
	s.PopLayer()

	var buf sfnt.Buffer
	ppem := fixed.Int26_6(size * 64)
	x := 50.0
	for _, r := range text {
		idx, err := font.GlyphIndex(&buf, r)
		if err != nil {
			return err
		}
		g, err := glyphs.Get(font, idx, ppem, uint32(black))
		if err != nil {
			return err
		}
		s.DrawGlyph(jmath.Transform{
			Matrix:      [4]float32{1, 0, 0, 1},
			Translation: [2]float32{float32(x), 500},
		}, g)
		adv, err := font.GlyphAdvance(&buf, idx, ppem, 0)
		if err != nil {
			return err
		}
		x += float64(adv) / 64
	}
	return nil
}

func writeLayout(w io.Writer, res *renderer.RenderResources) {
	l := &res.Layout
	fmt.Fprintf(w, "layout constants v%d\n\n", l.Constants.Version)
	section := func(name string, total uint32, regions ...[]encoding.Region) {
		fmt.Fprintf(w, "%s (%d bytes)\n", name, total)
		for _, rs := range regions {
			for _, r := range rs {
				fmt.Fprintf(w, "\t%-14s %10d %10d\n", r.Name, r.Offset, r.Size)
			}
		}
		fmt.Fprintln(w)
	}
	section("scene", l.SceneSize, l.Scene)
	section("memory", res.Config.Config.MemSize, l.Scratch, res.Config.Regions)

	c := &res.Config.Config
	fmt.Fprintf(w, "paths %d, segments %d, draw objects %d, clips %d, transforms %d\n",
		c.NumPaths, c.NumPathSegments, c.NumElements, c.NumClips, c.NumTransforms)
	fmt.Fprintf(w, "%d×%d tiles\n", c.WidthInTiles, c.HeightInTiles)
	fmt.Fprintf(w, "workgroups %+v\n", res.Config.WorkgroupCounts)
}
