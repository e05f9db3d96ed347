// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package encoding

import (
	"encoding/binary"
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"honnef.co/go/piet/gfx"
	"honnef.co/go/piet/jmath"
)

func expectPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s did not panic", name)
		}
	}()
	fn()
}

// encodeTriangle encodes a closed triangle with three segments.
func encodeTriangle(f interface {
	EncodePath() *PathEncoder
	FinishPath(uint32)
}) {
	pe := f.EncodePath()
	pe.MoveTo(0, 0)
	pe.LineTo(10, 0)
	pe.LineTo(10, 10)
	pe.Close()
	f.FinishPath(pe.Path())
}

func TestNewEncoder(t *testing.T) {
	enc := NewEncoder()
	if diff := cmp.Diff([]jmath.Transform{jmath.Identity}, enc.Transforms()); diff != "" {
		t.Errorf("Transforms() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float32{-1}, enc.LineWidths()); diff != "" {
		t.Errorf("LineWidths() mismatch (-want +got):\n%s", diff)
	}
	if enc.NumPathTags() != 0 || len(enc.PathData()) != 0 || enc.NumDrawObjects() != 0 || len(enc.DrawData()) != 0 {
		t.Error("new encoder has non-empty path or draw streams")
	}
	if enc.NumPaths() != 0 || enc.NumPathSegments() != 0 || enc.NumClips() != 0 {
		t.Errorf("counts = %d, %d, %d, want zeros", enc.NumPaths(), enc.NumPathSegments(), enc.NumClips())
	}
}

func TestFillColorAfterPath(t *testing.T) {
	enc := NewEncoder()
	encodeTriangle(enc)
	enc.FillColor(0xFF0000FF)

	if enc.NumPaths() != 1 {
		t.Errorf("NumPaths() = %d, want 1", enc.NumPaths())
	}
	if enc.NumPathSegments() != 3 {
		t.Errorf("NumPathSegments() = %d, want 3", enc.NumPathSegments())
	}
	if diff := cmp.Diff([]DrawTag{DrawTagFillColor}, enc.DrawTags()); diff != "" {
		t.Errorf("DrawTags() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]byte{0xFF, 0x00, 0x00, 0xFF}, enc.DrawData()); diff != "" {
		t.Errorf("DrawData() mismatch (-want +got):\n%s", diff)
	}
}

func TestClipOnEmptyEncoder(t *testing.T) {
	enc := NewEncoder()
	enc.BeginClip(nil)
	enc.EndClip(nil)

	if enc.NumClips() != 2 {
		t.Errorf("NumClips() = %d, want 2", enc.NumClips())
	}
	if enc.NumPaths() != 1 {
		t.Errorf("NumPaths() = %d, want 1", enc.NumPaths())
	}
	if diff := cmp.Diff([]DrawTag{DrawTagBeginClip, DrawTagEndClip}, enc.DrawTags()); diff != "" {
		t.Errorf("DrawTags() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]PathTag{PathTagPath}, enc.PathTags()); diff != "" {
		t.Errorf("PathTags() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]byte{3, 0, 0, 0, 3, 0, 0, 0}, enc.DrawData()); diff != "" {
		t.Errorf("DrawData() mismatch (-want +got):\n%s", diff)
	}
}

func TestClipBlend(t *testing.T) {
	enc := NewEncoder()
	bm := gfx.BlendMode{Mix: gfx.MixScreen, Compose: gfx.ComposeSrcIn}
	enc.BeginClip(&bm)
	if got := binary.LittleEndian.Uint32(enc.DrawData()); got != 0x205 {
		t.Errorf("clip blend = %#x, want 0x205", got)
	}
}

func TestGradientPayloads(t *testing.T) {
	enc := NewEncoder()
	encodeTriangle(enc)
	enc.FillLinearGradient(7, [2]float32{1, 2}, [2]float32{3, 4})
	encodeTriangle(enc)
	enc.FillRadialGradient(9, [2]float32{1, 2}, [2]float32{3, 4}, 5, 6)

	var want []byte
	want = binary.LittleEndian.AppendUint32(want, 7)
	for _, f := range []float32{1, 2, 3, 4} {
		want = binary.LittleEndian.AppendUint32(want, math.Float32bits(f))
	}
	want = binary.LittleEndian.AppendUint32(want, 9)
	for _, f := range []float32{1, 2, 3, 4, 5, 6} {
		want = binary.LittleEndian.AppendUint32(want, math.Float32bits(f))
	}
	if diff := cmp.Diff(want, enc.DrawData()); diff != "" {
		t.Errorf("DrawData() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]DrawTag{DrawTagFillLinearGradient, DrawTagFillRadialGradient}, enc.DrawTags()); diff != "" {
		t.Errorf("DrawTags() mismatch (-want +got):\n%s", diff)
	}
}

func TestDrawTagSizes(t *testing.T) {
	tests := []struct {
		tag        DrawTag
		data, info uint32
		clip       bool
	}{
		{DrawTagFillColor, 4, 4, false},
		{DrawTagFillLinearGradient, 20, 16, false},
		{DrawTagFillRadialGradient, 28, 44, false},
		{DrawTagBeginClip, 4, 0, true},
		{DrawTagEndClip, 4, 0, true},
		{DrawTagNop, 0, 0, false},
	}
	for _, tt := range tests {
		if got := tt.tag.DataSize(); got != tt.data {
			t.Errorf("%#x.DataSize() = %d, want %d", uint32(tt.tag), got, tt.data)
		}
		if got := tt.tag.InfoSize(); got != tt.info {
			t.Errorf("%#x.InfoSize() = %d, want %d", uint32(tt.tag), got, tt.info)
		}
		if got := tt.tag.IsClip(); got != tt.clip {
			t.Errorf("%#x.IsClip() = %t, want %t", uint32(tt.tag), got, tt.clip)
		}
		if tt.info > DefaultConstants.MaxDrawInfoSize {
			t.Errorf("%#x.InfoSize() exceeds MaxDrawInfoSize", uint32(tt.tag))
		}
	}
}

func TestTransformAndLineWidth(t *testing.T) {
	enc := NewEncoder()
	tr := jmath.Transform{Matrix: [4]float32{2, 0, 0, 2}, Translation: [2]float32{5, 5}}
	enc.SetTransform(tr)
	enc.SetLineWidth(3)
	encodeTriangle(enc)
	enc.FillColor(0)
	enc.SetLineWidth(FillLineWidth)

	wantTags := []PathTag{
		PathTagTransform,
		PathTagLineWidth,
		PathTagLineToF32, PathTagLineToF32, PathTagLineToF32 | PathTagSubpathEndBit,
		PathTagPath,
		PathTagLineWidth,
	}
	if diff := cmp.Diff(wantTags, enc.PathTags()); diff != "" {
		t.Errorf("PathTags() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]jmath.Transform{jmath.Identity, tr}, enc.Transforms()); diff != "" {
		t.Errorf("Transforms() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float32{-1, 3, -1}, enc.LineWidths()); diff != "" {
		t.Errorf("LineWidths() mismatch (-want +got):\n%s", diff)
	}
}

func TestSwapLastPathTags(t *testing.T) {
	enc := NewEncoder()
	encodeTriangle(enc)
	enc.SetTransform(jmath.Identity)
	enc.SwapLastPathTags()
	enc.FillLinearGradient(0, [2]float32{}, [2]float32{1, 1})

	tags := enc.PathTags()
	if got := tags[len(tags)-2:]; got[0] != PathTagTransform || got[1] != PathTagPath {
		t.Errorf("last two tags = %#x, want [transform, path]", got)
	}
	if enc.NumPaths() != 1 || enc.NumDrawObjects() != 1 {
		t.Errorf("NumPaths, NumDrawObjects = %d, %d, want 1, 1", enc.NumPaths(), enc.NumDrawObjects())
	}
}

func TestContractViolationsPanic(t *testing.T) {
	expectPanic(t, "SwapLastPathTags on an empty stream", func() {
		NewEncoder().SwapLastPathTags()
	})
	expectPanic(t, "SwapLastPathTags with one tag", func() {
		enc := NewEncoder()
		enc.SetLineWidth(1)
		enc.SwapLastPathTags()
	})
	expectPanic(t, "FinishPath with the wrong count", func() {
		enc := NewEncoder()
		pe := enc.EncodePath()
		pe.MoveTo(0, 0)
		pe.LineTo(1, 1)
		pe.Path()
		enc.FinishPath(2)
	})
	expectPanic(t, "FinishPath before Path", func() {
		enc := NewEncoder()
		enc.EncodePath().MoveTo(0, 0)
		enc.FinishPath(0)
	})
	expectPanic(t, "FinishPath without EncodePath", func() {
		NewEncoder().FinishPath(0)
	})
	expectPanic(t, "FillColor without a path", func() {
		NewEncoder().FillColor(0)
	})
	expectPanic(t, "second fill of the same path", func() {
		enc := NewEncoder()
		encodeTriangle(enc)
		enc.FillColor(0)
		enc.FillColor(0)
	})
	expectPanic(t, "SetTransform while a path is open", func() {
		enc := NewEncoder()
		enc.EncodePath()
		enc.SetTransform(jmath.Identity)
	})
	expectPanic(t, "use of a finished PathEncoder", func() {
		enc := NewEncoder()
		pe := enc.EncodePath()
		enc.FinishPath(pe.Path())
		pe.LineTo(1, 1)
	})
}

func TestReset(t *testing.T) {
	enc := NewEncoder()
	encodeTriangle(enc)
	enc.FillColor(1)
	enc.SetTransform(jmath.Identity)
	enc.BeginClip(nil)
	enc.Reset()

	fresh := NewEncoder()
	a, err := enc.Plan()
	if err != nil {
		t.Fatal(err)
	}
	b, err := fresh.Plan()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(b, a); diff != "" {
		t.Errorf("layout after Reset differs from a new encoder (-want +got):\n%s", diff)
	}
}

// TestCountsInvariant runs random operation sequences and checks the
// counters and the draw data accounting after every operation.
func TestCountsInvariant(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for iter := range 50 {
		enc := NewEncoder()
		var wantPaths, wantSegs, wantClips uint32
		for op := range 200 {
			switch r.Intn(7) {
			case 0, 1:
				pe := enc.EncodePath()
				pe.MoveTo(r.Float32(), r.Float32())
				n := r.Intn(5)
				for range n {
					switch r.Intn(3) {
					case 0:
						pe.LineTo(r.Float32()+1, r.Float32())
					case 1:
						pe.QuadTo(r.Float32(), r.Float32(), r.Float32()+1, r.Float32())
					case 2:
						pe.CubicTo(r.Float32(), r.Float32(), r.Float32(), r.Float32(), r.Float32()+1, r.Float32())
					}
				}
				enc.FinishPath(pe.Path())
				wantPaths++
				wantSegs += uint32(n)
				switch r.Intn(3) {
				case 0:
					enc.FillColor(r.Uint32())
				case 1:
					enc.FillLinearGradient(r.Uint32(), [2]float32{}, [2]float32{1, 1})
				case 2:
					enc.FillRadialGradient(r.Uint32(), [2]float32{}, [2]float32{1, 1}, 0, 1)
				}
			case 2:
				enc.SetTransform(jmath.Identity)
			case 3:
				enc.SetLineWidth(r.Float32())
			case 4:
				enc.BeginClip(nil)
				wantClips++
			case 5:
				enc.EndClip(nil)
				wantClips++
				wantPaths++
			case 6:
				var g GlyphEncoder
				encodeTriangle(&g)
				g.FillColor(0)
				enc.MergeGlyph(&g)
				wantPaths++
				wantSegs += 3
			}

			if enc.NumPaths() != wantPaths || enc.NumPathSegments() != wantSegs || enc.NumClips() != wantClips {
				t.Fatalf("iteration %d, op %d: counts = %d, %d, %d, want %d, %d, %d",
					iter, op, enc.NumPaths(), enc.NumPathSegments(), enc.NumClips(), wantPaths, wantSegs, wantClips)
			}
			var dataSize uint32
			for _, tag := range enc.DrawTags() {
				dataSize += tag.DataSize()
			}
			if int(dataSize) != len(enc.DrawData()) {
				t.Fatalf("iteration %d, op %d: draw data holds %d bytes, tags account for %d", iter, op, len(enc.DrawData()), dataSize)
			}
		}
	}
}
