// Copyright 2022 the Vello Authors
// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Package wgpu_engine executes a renderer.Recording with WebGPU. It
// materializes the recording's buffers and leaves binding them to the
// compute pipeline to the caller.
package wgpu_engine

import (
	"fmt"
	"math"
	"math/bits"

	"honnef.co/go/piet/internal/logger"
	"honnef.co/go/piet/profiler"
	"honnef.co/go/piet/renderer"
	"honnef.co/go/wgpu"
)

type Options struct {
	// Precision of the buffer pool's size classes. Sizes are rounded up so
	// that only their top SizeClassBits+1 bits may be set. Zero selects 1.
	SizeClassBits uint32
	// Label of the command encoders.
	Label string
}

type Engine struct {
	Device *wgpu.Device
	pool   resourcePool
	label  string
	// Buffers of all recordings that haven't been freed yet.
	bufs map[renderer.ResourceID]*wgpu.Buffer
}

type bufferProperties struct {
	size   uint64
	usages wgpu.BufferUsage
}

type resourcePool struct {
	sizeClassBits uint32
	bufs          map[bufferProperties][]*wgpu.Buffer
}

func New(dev *wgpu.Device, options *Options) *Engine {
	sizeClassBits := options.SizeClassBits
	if sizeClassBits == 0 {
		sizeClassBits = 1
	}
	label := options.Label
	if label == "" {
		label = "piet"
	}
	return &Engine{
		Device: dev,
		pool: resourcePool{
			sizeClassBits: sizeClassBits,
			bufs:          make(map[bufferProperties][]*wgpu.Buffer),
		},
		label: label,
		bufs:  make(map[renderer.ResourceID]*wgpu.Buffer),
	}
}

const (
	storageUsage = wgpu.BufferUsageCopySrc | wgpu.BufferUsageCopyDst | wgpu.BufferUsageStorage
	uniformUsage = wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst
)

// RunRecording uploads and clears the recording's buffers and submits the
// work to queue. Buffers freed by the recording return to the pool once the
// work has been submitted; all others remain available through Buffer.
func (eng *Engine) RunRecording(
	queue *wgpu.Queue,
	recording *renderer.Recording,
	pgroup profiler.ProfilerGroup,
) {
	pgroup = pgroup.Start("RunRecording")
	defer pgroup.End()
	log := logger.Logger()

	var freeBufs []renderer.BufferProxy
	encoder := eng.Device.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{Label: eng.label})

	for _, cmd := range recording.Commands {
		switch cmd := cmd.(type) {
		case *renderer.Upload:
			buf := eng.materialize(cmd.Buffer, storageUsage)
			queue.WriteBuffer(buf, 0, cmd.Data)

		case *renderer.UploadUniform:
			buf := eng.materialize(cmd.Buffer, uniformUsage)
			queue.WriteBuffer(buf, 0, cmd.Data)

		case *renderer.Clear:
			buf := eng.materialize(cmd.Buffer, storageUsage)
			size := uint64(cmd.Size)
			if cmd.Size < 0 {
				size = buf.Size() - cmd.Offset
			}
			encoder.ClearBuffer(buf, cmd.Offset, size)

		case *renderer.FreeBuffer:
			freeBufs = append(freeBufs, cmd.Buffer)

		default:
			panic(fmt.Sprintf("unhandled command %T", cmd))
		}
	}

	cmd := encoder.Finish(nil)
	encoder.Release()
	queue.Submit(cmd)
	cmd.Release()

	for _, proxy := range freeBufs {
		buf, ok := eng.bufs[proxy.ID]
		if !ok {
			log.Warn("freeing unknown buffer", "name", proxy.Name, "id", proxy.ID)
			continue
		}
		delete(eng.bufs, proxy.ID)
		eng.pool.put(bufferProperties{size: buf.Size(), usages: buf.Usage()}, buf)
	}
	log.Debug("ran recording", "commands", len(recording.Commands), "live_buffers", len(eng.bufs))
}

// Buffer returns the GPU buffer materialized for proxy.
func (eng *Engine) Buffer(proxy renderer.BufferProxy) (*wgpu.Buffer, bool) {
	buf, ok := eng.bufs[proxy.ID]
	return buf, ok
}

// Release destroys all pooled and live buffers.
func (eng *Engine) Release() {
	for id, buf := range eng.bufs {
		buf.Release()
		delete(eng.bufs, id)
	}
	eng.pool.release()
}

func (eng *Engine) materialize(proxy renderer.BufferProxy, usage wgpu.BufferUsage) *wgpu.Buffer {
	if buf, ok := eng.bufs[proxy.ID]; ok {
		if buf.Usage()&usage != usage {
			panic(fmt.Sprintf("buffer %q reused with incompatible usage", proxy.Name))
		}
		return buf
	}
	buf := eng.pool.getBuf(proxy.Size, proxy.Name, usage, eng.Device)
	eng.bufs[proxy.ID] = buf
	return buf
}

func (pool *resourcePool) getBuf(
	size uint64,
	name string,
	usage wgpu.BufferUsage,
	dev *wgpu.Device,
) *wgpu.Buffer {
	roundedSize := poolSizeClass(size, pool.sizeClassBits)
	props := bufferProperties{
		size:   roundedSize,
		usages: usage,
	}
	if buf, ok := pool.take(props); ok {
		return buf
	}
	logger.Logger().Info("creating buffer", "name", name, "size", roundedSize, "requested", size)
	return dev.CreateBuffer(&wgpu.BufferDescriptor{
		Label: name,
		Size:  roundedSize,
		Usage: usage,
	})
}

func (pool *resourcePool) take(props bufferProperties) (*wgpu.Buffer, bool) {
	bufVec := pool.bufs[props]
	if len(bufVec) == 0 {
		return nil, false
	}
	buf := bufVec[len(bufVec)-1]
	pool.bufs[props] = bufVec[:len(bufVec)-1]
	return buf, true
}

func (pool *resourcePool) put(props bufferProperties, buf *wgpu.Buffer) {
	pool.bufs[props] = append(pool.bufs[props], buf)
}

func (pool *resourcePool) release() {
	for props, bufs := range pool.bufs {
		for _, buf := range bufs {
			buf.Release()
		}
		delete(pool.bufs, props)
	}
}

// poolSizeClass rounds x up so that at most its top numBits+1 bits are
// set, with a minimum of 1<<numBits.
func poolSizeClass(x uint64, numBits uint32) uint64 {
	if x > 1<<numBits {
		a := bits.LeadingZeros64(x - 1)
		b := (x - 1) | (((math.MaxUint64 / 2) >> numBits) >> a)
		return b + 1
	} else {
		return 1 << numBits
	}
}
