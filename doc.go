// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Package piet records 2D scenes for rendering with a GPU compute pipeline.
//
// A Scene collects fills, strokes, clip layers and glyphs into the flat
// streams of an encoding.Encoder. The encoder plans the layout of the
// buffer uploaded to the GPU and of the pipeline's scratch memory, and
// serializes the scene into that buffer. The renderer package turns an
// encoded scene into a recording of buffer uploads, which the wgpu_engine
// package executes.
package piet
