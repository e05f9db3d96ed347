// Copyright 2022 the Vello Authors
// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package renderer

import (
	"strings"

	"honnef.co/go/piet/gfx"
	"honnef.co/go/safeish"
)

// Ramps is the ramp image: one row of premultiplied RGBA8 samples per
// gradient.
type Ramps struct {
	Data   []uint32
	Width  uint32
	Height uint32
}

// Bytes returns the image in the layout it is uploaded in.
func (r *Ramps) Bytes() []byte {
	return safeish.SliceCast[[]byte](r.Data)
}

type rampCacheEntry struct {
	id    uint32
	epoch uint64
}

// RampCache rasterizes gradients into rows of the ramp image and reuses
// rows for gradients with identical stops. The row index is what gradient
// brushes refer to.
type RampCache struct {
	epoch uint64
	// mapping from []ColorStop
	mapping map[string]*rampCacheEntry
	data    []uint32
}

const numSamples = 512
const retainedCount = 64

// Maintain starts a new frame. Rows not used for two frames may be reused,
// and rows beyond retainedCount are dropped.
func (rc *RampCache) Maintain() {
	rc.epoch++
	if len(rc.mapping) > retainedCount {
		for k, v := range rc.mapping {
			if v.id >= retainedCount {
				delete(rc.mapping, k)
			}
		}
		rc.data = rc.data[:retainedCount*numSamples]
	}
}

// Add returns the row of the gradient with the given stops, rasterizing it
// if necessary. stops must be sorted by offset and not be empty.
func (rc *RampCache) Add(stops []gfx.ColorStop) uint32 {
	if len(stops) == 0 {
		panic("renderer: gradient without color stops")
	}
	if rc.mapping == nil {
		rc.mapping = make(map[string]*rampCacheEntry)
	}
	keyStr := safeish.Cast[string](safeish.SliceCast[[]byte](stops))
	if entry, ok := rc.mapping[keyStr]; ok {
		entry.epoch = rc.epoch
		return entry.id
	} else if len(rc.mapping) < retainedCount {
		id := uint32(len(rc.data) / numSamples)
		rc.data = append(rc.data, makeRamp(stops)...)
		// Copy the key so it no longer aliases the caller's slice
		rc.mapping[strings.Clone(keyStr)] = &rampCacheEntry{id, rc.epoch}
		return id
	} else {
		var reuseID uint32
		var reuseStops string
		var found bool
		for stops, entry := range rc.mapping {
			if entry.epoch+2 < rc.epoch {
				reuseID = entry.id
				reuseStops = stops
				found = true
				break
			}
		}
		if found {
			delete(rc.mapping, reuseStops)
			start := int(reuseID) * numSamples
			copy(rc.data[start:start+numSamples], makeRamp(stops))
			rc.mapping[strings.Clone(keyStr)] = &rampCacheEntry{reuseID, rc.epoch}
			return reuseID
		} else {
			// Overflow rows live until the next Maintain.
			id := uint32(len(rc.data) / numSamples)
			rc.data = append(rc.data, makeRamp(stops)...)
			rc.mapping[strings.Clone(keyStr)] = &rampCacheEntry{id, rc.epoch}
			return id
		}
	}
}

func (rc *RampCache) Ramps() Ramps {
	return Ramps{
		Data:   rc.data,
		Width:  numSamples,
		Height: uint32(len(rc.data) / numSamples),
	}
}

func makeRamp(stops []gfx.ColorStop) []uint32 {
	out := make([]uint32, numSamples)

	lastU := float64(0.0)
	lastC := stops[0].Color
	thisU := lastU
	thisC := lastC
	j := 0
	for i := range numSamples {
		u := float64(i) / (numSamples - 1)
		for u > thisU {
			lastU = thisU
			lastC = thisC
			if j+1 < len(stops) {
				s := stops[j+1]
				thisU = float64(s.Offset)
				thisC = s.Color
				j++
			} else {
				break
			}
		}
		du := thisU - lastU
		var c gfx.Color
		if du < 1e-9 {
			c = thisC
		} else {
			c = lastC.Lerp(thisC, (u-lastU)/du)
		}
		out[i] = c.PremulRGBA8()
	}

	return out
}
