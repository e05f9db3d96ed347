// Copyright 2022 the Vello Authors
// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Package renderer turns an encoded scene into a Recording of the buffers
// the compute pipeline needs: the scene buffer, the configuration block,
// the ramp image and zeroed scratch memory.
package renderer

import (
	"fmt"

	"honnef.co/go/piet/encoding"
	"honnef.co/go/piet/internal/logger"
	"honnef.co/go/piet/mem"
	"honnef.co/go/piet/profiler"
)

type RenderParams struct {
	// Size of the target in pixels.
	Width  uint32
	Height uint32
	// Gradient ramps referred to by the scene's gradient fills. May be nil
	// if the scene has none.
	Ramps *Ramps
}

// RenderResources are the buffers of a recorded render, for binding them
// to the pipeline's stages.
type RenderResources struct {
	Config *RenderConfig
	Layout encoding.Layout

	SceneBuf  BufferProxy
	ConfigBuf BufferProxy
	RampsBuf  BufferProxy
	MemoryBuf BufferProxy
}

// Free records the release of all of the render's buffers.
func (res *RenderResources) Free(rec *Recording) {
	rec.FreeBuffer(res.SceneBuf)
	rec.FreeBuffer(res.ConfigBuf)
	rec.FreeBuffer(res.RampsBuf)
	rec.FreeBuffer(res.MemoryBuf)
}

type Renderer struct {
	scene *mem.Buffer
}

func New() *Renderer {
	return &Renderer{
		scene: mem.NewBuffer(0),
	}
}

// Render plans the scene's layout and records the upload of its buffers.
// The scene buffer's memory is owned by the renderer and is reused by the
// next call to Render, which must therefore not happen before the
// recording has been executed.
func (rd *Renderer) Render(
	enc *encoding.Encoder,
	params *RenderParams,
	pgroup profiler.ProfilerGroup,
) (*Recording, *RenderResources, error) {
	pgroup = pgroup.Start("Render")
	defer pgroup.End()
	log := logger.Logger()

	g := pgroup.Start("Plan")
	layout, err := enc.Plan()
	g.End()
	if err != nil {
		return nil, nil, fmt.Errorf("planning scene: %w", err)
	}
	cfg, err := NewRenderConfig(&layout, params.Width, params.Height)
	if err != nil {
		return nil, nil, err
	}

	g = pgroup.Start("WriteScene")
	rd.scene.Reset()
	n, err := enc.WriteScene(rd.scene)
	g.End()
	if err != nil {
		return nil, nil, fmt.Errorf("writing scene: %w", err)
	}
	if n != int(layout.SceneSize) {
		panic(fmt.Sprintf("renderer: wrote %d bytes of scene data, planned %d", n, layout.SceneSize))
	}

	log.Debug("planned scene",
		"paths", layout.Config.NumPaths,
		"path_segments", layout.Config.NumPathSegments,
		"draw_objects", layout.Config.NumElements,
		"clips", layout.Config.NumClips,
		"scene_size", layout.SceneSize,
		"scratch_size", layout.ScratchSize,
		"mem_size", cfg.Config.MemSize,
		"layout_version", layout.Constants.Version,
	)

	var rec Recording
	res := &RenderResources{
		Config: cfg,
		Layout: layout,
	}
	res.SceneBuf = rec.Upload("scene", rd.scene.Bytes())
	res.ConfigBuf = rec.UploadUniform("config", cfg.Config.Bytes())
	if params.Ramps != nil && params.Ramps.Height != 0 {
		res.RampsBuf = rec.Upload("ramps", params.Ramps.Bytes())
	} else {
		// Stages bind the ramps unconditionally.
		res.RampsBuf = rec.Alloc("ramps", 4)
	}
	res.MemoryBuf = rec.Alloc("memory", uint64(cfg.Config.MemSize))

	log.Debug("recorded render", "commands", len(rec.Commands), "workgroups", cfg.WorkgroupCounts)
	return &rec, res, nil
}
