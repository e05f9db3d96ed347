// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package gfx

import (
	"math"

	"honnef.co/go/color"
)

// Color is a color packed as 0xRRGGBBAA, the layout of a solid fill's draw
// data.
type Color uint32

func RGBA8(r, g, b, a uint8) Color {
	return Color(uint32(r)<<24 | uint32(g)<<16 | uint32(b)<<8 | uint32(a))
}

// ColorFrom packs c, converted to linear sRGB, with 8 bits per channel.
// Channels are not premultiplied.
func ColorFrom(c *color.Color) Color {
	cc := c.Convert(color.LinearSRGB)
	return RGBA8(
		unorm8(cc.Values[0]),
		unorm8(cc.Values[1]),
		unorm8(cc.Values[2]),
		unorm8(cc.Alpha),
	)
}

func (c Color) RGBA() (r, g, b, a uint8) {
	return uint8(c >> 24), uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// WithAlphaFactor multiplies the color's alpha channel by alpha.
func (c Color) WithAlphaFactor(alpha float32) Color {
	r, g, b, a := c.RGBA()
	return RGBA8(r, g, b, unorm8(float64(a)/255*float64(alpha)))
}

func unorm8(f float64) uint8 {
	return uint8(math.Round(min(max(f, 0), 1) * 255))
}

// Lerp interpolates each channel between c and other.
func (c Color) Lerp(other Color, t float64) Color {
	r0, g0, b0, a0 := c.RGBA()
	r1, g1, b1, a1 := other.RGBA()
	lerp := func(x, y uint8) uint8 {
		return unorm8((float64(x) + (float64(y)-float64(x))*t) / 255)
	}
	return RGBA8(lerp(r0, r1), lerp(g0, g1), lerp(b0, b1), lerp(a0, a1))
}

// PremulRGBA8 returns the color with premultiplied alpha, packed with red
// in the lowest byte, as stored in ramp images.
func (c Color) PremulRGBA8() uint32 {
	r, g, b, a := c.RGBA()
	premul := func(x uint8) uint32 {
		return uint32(unorm8(float64(x) * float64(a) / (255 * 255)))
	}
	return premul(r) | premul(g)<<8 | premul(b)<<16 | uint32(a)<<24
}
