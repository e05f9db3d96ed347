// Copyright 2022 the Vello Authors
// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package encoding

import (
	"encoding/binary"
	"math"
	"structs"
)

// The draw data payloads. Their sizes must agree with DrawTag.DataSize of
// the corresponding tags.

type drawColor struct {
	_ structs.HostLayout

	RGBA uint32
}

type drawLinearGradient struct {
	_ structs.HostLayout

	Index uint32
	P0    [2]float32
	P1    [2]float32
}

type drawRadialGradient struct {
	_ structs.HostLayout

	Index uint32
	P0    [2]float32
	P1    [2]float32
	R0    float32
	R1    float32
}

type drawClip struct {
	_ structs.HostLayout

	Blend uint32
}

func appendFloat32(b []byte, fs ...float32) []byte {
	for _, f := range fs {
		b = binary.LittleEndian.AppendUint32(b, math.Float32bits(f))
	}
	return b
}

func (d drawColor) appendTo(b []byte) []byte {
	return binary.LittleEndian.AppendUint32(b, d.RGBA)
}

func (d drawLinearGradient) appendTo(b []byte) []byte {
	b = binary.LittleEndian.AppendUint32(b, d.Index)
	return appendFloat32(b, d.P0[0], d.P0[1], d.P1[0], d.P1[1])
}

func (d drawRadialGradient) appendTo(b []byte) []byte {
	b = binary.LittleEndian.AppendUint32(b, d.Index)
	return appendFloat32(b, d.P0[0], d.P0[1], d.P1[0], d.P1[1], d.R0, d.R1)
}

func (d drawClip) appendTo(b []byte) []byte {
	return binary.LittleEndian.AppendUint32(b, d.Blend)
}
