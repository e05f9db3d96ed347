// Copyright 2023 the Vello Authors
// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package renderer

import (
	"fmt"
	"math"
	"unsafe"

	"honnef.co/go/piet/encoding"
	"honnef.co/go/piet/jmath"
)

type WorkgroupSize [3]uint32

const (
	tileWidth  = 16
	tileHeight = 16
	// Bins are 16×16 tiles.
	binWidth  = 16
	binHeight = 16
	// Initial allocation of each tile's command list, in bytes.
	ptclInitialAlloc = 1024
	// Number of draw objects per binning partition.
	binningPartSize = 256
)

var (
	pathSize      = uint64(unsafe.Sizeof(Path{}))
	binHeaderSize = uint64(unsafe.Sizeof(BinHeader{}))
)

// RenderConfig extends the encoder's layout with the allocations of the
// fine rasterization stages, and the number of workgroups each stage is
// dispatched with.
type RenderConfig struct {
	// The parameter block uploaded for the pipeline.
	Config encoding.Config
	// The scratch regions following those of the encoder's layout.
	Regions         []encoding.Region
	WorkgroupCounts WorkgroupCounts
}

type WorkgroupCounts struct {
	TransformReduce WorkgroupSize
	PathTagReduce   WorkgroupSize
	DrawReduce      WorkgroupSize
	ClipReduce      WorkgroupSize
	ClipLeaf        WorkgroupSize
	Binning         WorkgroupSize
	TileAlloc       WorkgroupSize
	Coarse          WorkgroupSize
	Fine            WorkgroupSize
}

// NewRenderConfig computes the configuration for rendering layout to a
// target of the given size in pixels. It continues the scratch allocation
// where the element stages' regions end.
func NewRenderConfig(layout *encoding.Layout, width, height uint32) (*RenderConfig, error) {
	widthInTiles := jmath.NextMultipleOf(uint64(width), tileWidth) / tileWidth
	heightInTiles := jmath.NextMultipleOf(uint64(height), tileHeight) / tileHeight
	numTiles := widthInTiles * heightInTiles
	if numTiles > math.MaxUint32 {
		return nil, fmt.Errorf("%w: %d×%d pixels", encoding.ErrSceneTooLarge, width, height)
	}
	cfg := layout.Config
	numDrawObjects := uint64(cfg.NumElements)

	sizes := []struct {
		name string
		size uint64
	}{
		{"tiles", jmath.AlignUp(uint64(cfg.NumPaths), 4) * pathSize},
		{"bins", jmath.AlignUp(numDrawObjects, binningPartSize) * binHeaderSize},
		{"ptcl", numTiles * ptclInitialAlloc},
	}
	regions := make([]encoding.Region, len(sizes))
	offset := uint64(layout.ScratchSize)
	for i, s := range sizes {
		end := offset + s.size
		if end > math.MaxUint32 {
			return nil, fmt.Errorf("%w: %s region for %d×%d pixels ends past 4 GiB", encoding.ErrSceneTooLarge, s.name, width, height)
		}
		regions[i] = encoding.Region{Name: s.name, Offset: uint32(offset), Size: uint32(s.size)}
		offset = end
	}

	cfg.WidthInTiles = uint32(widthInTiles)
	cfg.HeightInTiles = uint32(heightInTiles)
	cfg.TileAlloc = regions[0].Offset
	cfg.BinAlloc = regions[1].Offset
	cfg.PtclAlloc = regions[2].Offset
	cfg.MemSize = uint32(offset)

	return &RenderConfig{
		Config:          cfg,
		Regions:         regions,
		WorkgroupCounts: NewWorkgroupCounts(layout, cfg.WidthInTiles, cfg.HeightInTiles),
	}, nil
}

func wgCount(n, partSize uint32) uint32 {
	return uint32((uint64(n) + uint64(partSize) - 1) / uint64(partSize))
}

// NewWorkgroupCounts computes the dispatch sizes of the pipeline stages.
// The element stages process one partition per workgroup, using the part
// sizes the layout was planned with.
func NewWorkgroupCounts(layout *encoding.Layout, widthInTiles, heightInTiles uint32) WorkgroupCounts {
	lc := &layout.Constants
	cfg := &layout.Config
	// Path tags are bytes and directly precede the path segments.
	pathTagBytes := cfg.PathSegOffset - cfg.PathTagOffset
	numClipsMinusOne := cfg.NumClips
	if numClipsMinusOne > 0 {
		numClipsMinusOne--
	}
	return WorkgroupCounts{
		TransformReduce: WorkgroupSize{wgCount(cfg.NumTransforms, lc.TransformPartSize), 1, 1},
		PathTagReduce:   WorkgroupSize{wgCount(pathTagBytes, lc.PathSegPartSize), 1, 1},
		DrawReduce:      WorkgroupSize{wgCount(cfg.NumElements, lc.DrawPartSize), 1, 1},
		ClipReduce:      WorkgroupSize{numClipsMinusOne / lc.ClipPartSize, 1, 1},
		ClipLeaf:        WorkgroupSize{wgCount(cfg.NumClips, lc.ClipPartSize), 1, 1},
		Binning:         WorkgroupSize{wgCount(cfg.NumElements, binningPartSize), 1, 1},
		TileAlloc:       WorkgroupSize{wgCount(cfg.NumPaths, binningPartSize), 1, 1},
		Coarse:          WorkgroupSize{wgCount(widthInTiles, binWidth), wgCount(heightInTiles, binHeight), 1},
		Fine:            WorkgroupSize{widthInTiles, heightInTiles, 1},
	}
}
