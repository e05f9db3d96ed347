// Copyright 2022 the piet-gpu authors
// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Package jmath contains the small amount of math shared by the encoder and
// the GPU-facing layout code.
package jmath

import (
	"structs"

	"golang.org/x/exp/constraints"
	"honnef.co/go/curve"
)

// Transform is an affine transform as stored in the transform stream. It is
// 24 bytes: a column-major 2x2 matrix followed by the translation.
type Transform struct {
	_ structs.HostLayout

	Matrix      [4]float32
	Translation [2]float32
}

var Identity = Transform{
	Matrix: [4]float32{1, 0, 0, 1},
}

func (t Transform) Mul(other Transform) Transform {
	return Transform{
		Matrix: [4]float32{
			t.Matrix[0]*other.Matrix[0] + t.Matrix[2]*other.Matrix[1],
			t.Matrix[1]*other.Matrix[0] + t.Matrix[3]*other.Matrix[1],
			t.Matrix[0]*other.Matrix[2] + t.Matrix[2]*other.Matrix[3],
			t.Matrix[1]*other.Matrix[2] + t.Matrix[3]*other.Matrix[3],
		},
		Translation: [2]float32{
			t.Matrix[0]*other.Translation[0] +
				t.Matrix[2]*other.Translation[1] +
				t.Translation[0],
			t.Matrix[1]*other.Translation[0] +
				t.Matrix[3]*other.Translation[1] +
				t.Translation[1],
		},
	}
}

func TransformFromAffine(transform curve.Affine) Transform {
	c := transform.Coefficients()
	return Transform{
		Matrix:      [4]float32{float32(c[0]), float32(c[1]), float32(c[2]), float32(c[3])},
		Translation: [2]float32{float32(c[4]), float32(c[5])},
	}
}

// IsPowerOfTwo reports whether x is a power of two. Zero is not.
func IsPowerOfTwo[T constraints.Unsigned](x T) bool {
	return x != 0 && x&(x-1) == 0
}

// AlignUp rounds x up to the next multiple of align, which must be a power
// of two.
func AlignUp[T constraints.Unsigned](x, align T) T {
	if !IsPowerOfTwo(align) {
		panic("alignment must be a power of two")
	}
	return (x + align - 1) &^ (align - 1)
}

// Padding returns the number of elements needed to extend x to a multiple of
// align, which must be a power of two.
func Padding[T constraints.Unsigned](x, align T) T {
	return -x & (align - 1)
}

func NextMultipleOf[T constraints.Integer](x, y T) T {
	r := x % y
	if r == 0 {
		return x
	} else {
		return x + y - r
	}
}
