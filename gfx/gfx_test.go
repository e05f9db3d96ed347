// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package gfx

import "testing"

func TestBlendModePack(t *testing.T) {
	tests := []struct {
		name string
		bm   BlendMode
		want uint32
	}{
		{"default", DefaultBlend, 3},
		{"zero value", BlendMode{}, 3},
		{"clear", BlendMode{Mix: MixNormal, Compose: ComposeClear}, 0},
		{"multiply copy", BlendMode{Mix: MixMultiply, Compose: ComposeCopy}, 0x101},
		{"luminosity xor", BlendMode{Mix: MixLuminosity, Compose: ComposeXor}, 0xf0b},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.bm.Pack(); got != tt.want {
				t.Errorf("Pack() = %#x, want %#x", got, tt.want)
			}
		})
	}
}

func TestColor(t *testing.T) {
	c := RGBA8(0xff, 0x00, 0x80, 0xff)
	if c != 0xff0080ff {
		t.Errorf("RGBA8 = %#08x, want 0xff0080ff", uint32(c))
	}
	r, g, b, a := c.RGBA()
	if r != 0xff || g != 0 || b != 0x80 || a != 0xff {
		t.Errorf("RGBA() = %d, %d, %d, %d", r, g, b, a)
	}
	if got := c.WithAlphaFactor(0.5); got != 0xff008080 {
		t.Errorf("WithAlphaFactor(0.5) = %#08x, want 0xff008080", uint32(got))
	}
}

func TestColorLerp(t *testing.T) {
	a := RGBA8(0, 0, 0, 255)
	b := RGBA8(255, 255, 255, 255)
	tests := []struct {
		t    float64
		want Color
	}{
		{0, a},
		{1, b},
		{0.5, RGBA8(128, 128, 128, 255)},
	}
	for _, tt := range tests {
		if got := a.Lerp(b, tt.t); got != tt.want {
			t.Errorf("Lerp(%v) = %#08x, want %#08x", tt.t, uint32(got), uint32(tt.want))
		}
	}
}

func TestPremulRGBA8(t *testing.T) {
	tests := []struct {
		c    Color
		want uint32
	}{
		{RGBA8(255, 0, 0, 255), 0xff0000ff},
		{RGBA8(255, 255, 255, 0), 0},
		{RGBA8(255, 0, 255, 128), 0x80800080},
	}
	for _, tt := range tests {
		if got := tt.c.PremulRGBA8(); got != tt.want {
			t.Errorf("%#08x.PremulRGBA8() = %#08x, want %#08x", uint32(tt.c), got, tt.want)
		}
	}
}
