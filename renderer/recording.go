// Copyright 2023 the Vello Authors
// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package renderer

import (
	"fmt"
	"sync/atomic"
)

var resourceID atomic.Uint64

func nextResourceID() ResourceID {
	return ResourceID(resourceID.Add(1))
}

type ResourceID uint64

// Recording is a list of commands for a GPU engine to execute. Buffers are
// referred to by proxy; the engine materializes them on first use.
type Recording struct {
	Commands []Command
}

func (rec *Recording) push(cmd Command) {
	rec.Commands = append(rec.Commands, cmd)
}

// Upload creates a storage buffer holding data. data must not be modified
// until the recording has been executed.
func (rec *Recording) Upload(name string, data []byte) BufferProxy {
	buf := NewBufferProxy(uint64(len(data)), name)
	rec.push(&Upload{buf, data})
	return buf
}

// UploadUniform creates a uniform buffer holding data.
func (rec *Recording) UploadUniform(name string, data []byte) BufferProxy {
	buf := NewBufferProxy(uint64(len(data)), name)
	rec.push(&UploadUniform{buf, data})
	return buf
}

// Alloc creates a zeroed buffer of the given size.
func (rec *Recording) Alloc(name string, size uint64) BufferProxy {
	buf := NewBufferProxy(size, name)
	rec.ClearAll(buf)
	return buf
}

func (rec *Recording) ClearAll(buf BufferProxy) {
	rec.push(&Clear{buf, 0, -1})
}

func (rec *Recording) FreeBuffer(buf BufferProxy) {
	rec.push(&FreeBuffer{buf})
}

func (rec *Recording) String() string {
	return fmt.Sprintf("recording with %d commands", len(rec.Commands))
}

func NewBufferProxy(size uint64, name string) BufferProxy {
	id := nextResourceID()
	return BufferProxy{size, id, name}
}

type BufferProxy struct {
	Size uint64
	ID   ResourceID
	Name string
}

type Command interface {
	isCommand()
}

func (*Upload) isCommand()        {}
func (*UploadUniform) isCommand() {}
func (*Clear) isCommand()         {}
func (*FreeBuffer) isCommand()    {}

type Upload struct {
	Buffer BufferProxy
	Data   []byte
}

type UploadUniform struct {
	Buffer BufferProxy
	Data   []byte
}

// Clear zeroes Size bytes of Buffer starting at Offset. A negative Size
// clears to the end of the buffer.
type Clear struct {
	Buffer BufferProxy
	Offset uint64
	Size   int64
}

type FreeBuffer struct {
	Buffer BufferProxy
}
