// Copyright 2021 the piet-gpu authors
// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package encoding

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
	"structs"

	"honnef.co/go/piet/jmath"
	"honnef.co/go/safeish"
)

// ErrSceneTooLarge is returned when an offset or size doesn't fit the 32 bits
// the GPU uses to address the scene and scratch buffers.
var ErrSceneTooLarge = errors.New("scene too large")

// Config is the parameter block read by every stage of the compute
// pipeline. It must be kept in sync with the shaders' definition. Offsets
// ending in Offset are byte offsets into the scene buffer; those ending in
// Alloc are byte offsets into scratch memory.
//
// The encoder fills in everything except MemSize, WidthInTiles,
// HeightInTiles, TileAlloc, BinAlloc and PtclAlloc, which belong to the
// later stages and are set by renderer.NewRenderConfig.
type Config struct {
	_ structs.HostLayout

	MemSize         uint32
	NumElements     uint32
	NumPathSegments uint32
	WidthInTiles    uint32
	HeightInTiles   uint32

	TileAlloc       uint32
	BinAlloc        uint32
	PtclAlloc       uint32
	PathSegAlloc    uint32
	AnnoAlloc       uint32
	TransformAlloc  uint32
	PathBboxAlloc   uint32
	DrawMonoidAlloc uint32
	ClipAlloc       uint32
	ClipBicAlloc    uint32
	ClipStackAlloc  uint32
	ClipBboxAlloc   uint32
	DrawBboxAlloc   uint32
	DrawInfoAlloc   uint32

	NumTransforms uint32
	NumPaths      uint32
	NumClips      uint32

	TransformOffset uint32
	LineWidthOffset uint32
	PathTagOffset   uint32
	PathSegOffset   uint32
	DrawTagOffset   uint32
	DrawDataOffset  uint32
}

// Bytes returns the configuration in the layout the GPU reads it in.
func (c *Config) Bytes() []byte {
	return safeish.AsBytes(c)
}

// Region is a named byte range of the scene buffer or of scratch memory.
type Region struct {
	Name   string
	Offset uint32
	Size   uint32
}

// End returns the offset of the first byte after the region.
func (r Region) End() uint32 { return r.Offset + r.Size }

// Layout describes where the encoder's streams go in the scene buffer and
// where the element stages keep their intermediate results.
type Layout struct {
	Config Config
	// Size of the scene buffer in bytes, as written by WriteScene.
	SceneSize uint32
	// Bytes of scratch memory used by the element stages. Later stages
	// allocate from here on.
	ScratchSize uint32
	// The scene buffer's regions, in order.
	Scene []Region
	// The scratch memory's regions, in order.
	Scratch []Region
	// The table the layout was planned with. Later stages size their
	// dispatches from the same part sizes.
	Constants LayoutConstants
}

// region is one entry of a layout description: count elements of elemSize
// bytes, with the count padded to a multiple of block.
type region struct {
	name     string
	count    uint64
	elemSize uint64
	block    uint64
}

func (r region) paddedCount() uint64 {
	return jmath.AlignUp(r.count, r.block)
}

func (r region) size() (uint64, bool) {
	hi, lo := bits.Mul64(r.paddedCount(), r.elemSize)
	return lo, hi == 0
}

// sceneRegion is a scene buffer region together with the data that fills
// it, in host layout.
type sceneRegion struct {
	region
	data []byte
}

const (
	sceneDrawTag = iota
	sceneDrawData
	sceneTransform
	sceneLineWidth
	scenePathTag
	scenePathSeg
	numSceneRegions
)

// sceneRegions is the single description of the scene buffer, used by both
// Plan and WriteScene.
func (enc *Encoder) sceneRegions(lc *LayoutConstants) [numSceneRegions]sceneRegion {
	return [numSceneRegions]sceneRegion{
		sceneDrawTag: {
			region{"draw tags", uint64(enc.drawTags.Len()), uint64(lc.DrawTagSize), uint64(lc.DrawPartSize)},
			enc.drawTags.Bytes(),
		},
		sceneDrawData: {
			region{"draw data", uint64(enc.drawData.Len()), 1, 1},
			enc.drawData.Elems(),
		},
		sceneTransform: {
			region{"transforms", uint64(enc.transforms.Len()), uint64(lc.TransformSize), uint64(lc.TransformPartSize)},
			enc.transforms.Bytes(),
		},
		sceneLineWidth: {
			region{"line widths", uint64(enc.lineWidths.Len()), uint64(lc.LineWidthSize), 1},
			enc.lineWidths.Bytes(),
		},
		scenePathTag: {
			region{"path tags", uint64(enc.pathTags.Len()), 1, uint64(lc.PathSegPartSize)},
			enc.pathTags.Bytes(),
		},
		scenePathSeg: {
			region{"path segments", uint64(enc.pathData.Len()), 1, 1},
			enc.pathData.Elems(),
		},
	}
}

const (
	scratchTransform = iota
	scratchPathSeg
	scratchPathBbox
	scratchDrawMonoid
	scratchAnno
	scratchClip
	scratchClipBic
	scratchClipStack
	scratchClipBbox
	scratchDrawBbox
	scratchDrawInfo
	numScratchRegions
)

type counts struct {
	drawObjects  uint64
	transforms   uint64
	paths        uint64
	pathSegments uint64
	clips        uint64
}

func scratchRegions(c counts, lc *LayoutConstants) [numScratchRegions]region {
	return [numScratchRegions]region{
		scratchTransform:  {"transforms", c.transforms, uint64(lc.TransformSize), uint64(lc.TransformPartSize)},
		scratchPathSeg:    {"path segments", c.pathSegments, uint64(lc.PathSegSize), 1},
		scratchPathBbox:   {"path bboxes", c.paths, uint64(lc.PathBboxSize), 1},
		scratchDrawMonoid: {"draw monoids", c.drawObjects, uint64(lc.DrawMonoidSize), uint64(lc.DrawPartSize)},
		scratchAnno:       {"annotated", c.drawObjects, uint64(lc.AnnotatedSize), 1},
		scratchClip:       {"clips", c.clips, uint64(lc.ClipSize), 1},
		// Only the reduced prefix of full parts needs a bicyclic
		// semigroup element, so this rounds down.
		scratchClipBic:   {"clip bics", c.clips / uint64(lc.ClipPartSize), uint64(lc.ClipBicSize), 1},
		scratchClipStack: {"clip stack", c.clips, uint64(lc.ClipElementSize), 1},
		scratchClipBbox:  {"clip bboxes", c.clips, uint64(lc.ClipBboxSize), uint64(lc.ClipPartSize)},
		scratchDrawBbox:  {"draw bboxes", c.drawObjects, uint64(lc.DrawBboxSize), 1},
		// Worst case per draw object; the exact size depends on the draw
		// tag.
		scratchDrawInfo: {"draw info", c.drawObjects, uint64(lc.MaxDrawInfoSize), 1},
	}
}

// place assigns consecutive offsets to regions, starting at 0. It fails if
// any offset or size exceeds 32 bits.
func place(what string, rs []region) ([]Region, uint32, error) {
	out := make([]Region, len(rs))
	var offset uint64
	for i, r := range rs {
		size, ok := r.size()
		if !ok || size > math.MaxUint32 {
			return nil, 0, fmt.Errorf("%w: %s region %q needs %d×%d bytes", ErrSceneTooLarge, what, r.name, r.paddedCount(), r.elemSize)
		}
		end := offset + size
		if end > math.MaxUint32 {
			return nil, 0, fmt.Errorf("%w: %s region %q ends past 4 GiB", ErrSceneTooLarge, what, r.name)
		}
		out[i] = Region{Name: r.name, Offset: uint32(offset), Size: uint32(size)}
		offset = end
	}
	return out, uint32(offset), nil
}

func (enc *Encoder) planScene(lc *LayoutConstants) ([numSceneRegions]sceneRegion, []Region, uint32, error) {
	srs := enc.sceneRegions(lc)
	var rs [numSceneRegions]region
	for i, sr := range srs {
		rs[i] = sr.region
	}
	placed, total, err := place("scene", rs[:])
	return srs, placed, total, err
}

func (enc *Encoder) counts() counts {
	return counts{
		drawObjects:  uint64(enc.drawTags.Len()),
		transforms:   uint64(enc.transforms.Len()),
		paths:        uint64(enc.numPaths),
		pathSegments: uint64(enc.numPathSegments),
		clips:        uint64(enc.numClips),
	}
}

// Plan computes the layout of the scene buffer and of the element stages'
// scratch memory for the encoder's current contents, using
// DefaultConstants. It doesn't modify the encoder; planning the same
// contents twice yields identical layouts.
func (enc *Encoder) Plan() (Layout, error) {
	return enc.PlanWith(DefaultConstants)
}

func (enc *Encoder) PlanWith(lc LayoutConstants) (Layout, error) {
	if err := lc.validate(); err != nil {
		return Layout{}, err
	}
	if enc.openPath != nil {
		panic("encoding: Plan while a path is open")
	}
	c := enc.counts()
	if c.drawObjects > math.MaxUint32 || c.transforms > math.MaxUint32 {
		return Layout{}, fmt.Errorf("%w: %d draw objects, %d transforms", ErrSceneTooLarge, c.drawObjects, c.transforms)
	}

	_, scene, sceneSize, err := enc.planScene(&lc)
	if err != nil {
		return Layout{}, err
	}
	srs := scratchRegions(c, &lc)
	scratch, scratchSize, err := place("scratch", srs[:])
	if err != nil {
		return Layout{}, err
	}

	return Layout{
		Config: Config{
			NumElements:     uint32(c.drawObjects),
			NumPathSegments: enc.numPathSegments,

			PathSegAlloc:    scratch[scratchPathSeg].Offset,
			AnnoAlloc:       scratch[scratchAnno].Offset,
			TransformAlloc:  scratch[scratchTransform].Offset,
			PathBboxAlloc:   scratch[scratchPathBbox].Offset,
			DrawMonoidAlloc: scratch[scratchDrawMonoid].Offset,
			ClipAlloc:       scratch[scratchClip].Offset,
			ClipBicAlloc:    scratch[scratchClipBic].Offset,
			ClipStackAlloc:  scratch[scratchClipStack].Offset,
			ClipBboxAlloc:   scratch[scratchClipBbox].Offset,
			DrawBboxAlloc:   scratch[scratchDrawBbox].Offset,
			DrawInfoAlloc:   scratch[scratchDrawInfo].Offset,

			NumTransforms: uint32(c.transforms),
			NumPaths:      enc.numPaths,
			NumClips:      enc.numClips,

			TransformOffset: scene[sceneTransform].Offset,
			LineWidthOffset: scene[sceneLineWidth].Offset,
			PathTagOffset:   scene[scenePathTag].Offset,
			PathSegOffset:   scene[scenePathSeg].Offset,
			DrawTagOffset:   scene[sceneDrawTag].Offset,
			DrawDataOffset:  scene[sceneDrawData].Offset,
		},
		SceneSize:   sceneSize,
		ScratchSize: scratchSize,
		Scene:       scene,
		Scratch:     scratch,
		Constants:   lc,
	}, nil
}
