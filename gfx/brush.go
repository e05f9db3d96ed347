// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package gfx

import "honnef.co/go/curve"

// Brush is one of SolidBrush, LinearGradientBrush and RadialGradientBrush.
type Brush interface {
	isBrush()
}

type SolidBrush struct {
	Color Color
}

// LinearGradientBrush refers to a color ramp that has already been
// rasterized into the ramp image by the caller. Ramp is its row in that
// image.
type LinearGradientBrush struct {
	Ramp  uint32
	Start curve.Point
	End   curve.Point
}

type RadialGradientBrush struct {
	Ramp        uint32
	StartCenter curve.Point
	StartRadius float32
	EndCenter   curve.Point
	EndRadius   float32
}

func (SolidBrush) isBrush()          {}
func (LinearGradientBrush) isBrush() {}
func (RadialGradientBrush) isBrush() {}

// ColorStop is a color at a position of a gradient, in the range [0, 1].
type ColorStop struct {
	Offset float32
	Color  Color
}
