// Copyright 2021 the piet-gpu authors
// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package encoding

import "fmt"

// fragment holds the streams shared by Encoder and GlyphEncoder: paths and
// the draw objects that consume them.
type fragment struct {
	pathTags Stream[PathTag]
	pathData Stream[byte]
	drawTags Stream[DrawTag]
	drawData Stream[byte]

	numPaths        uint32
	numPathSegments uint32

	// Segments appended through the open path encoder.
	appended    uint32
	openPath    *PathEncoder
	pathPending bool
}

func (f *fragment) checkNoOpenPath(op string) {
	if f.openPath != nil {
		panic(fmt.Sprintf("encoding: %s while a path is open", op))
	}
}

// EncodePath starts a new path. The returned encoder appends the path's
// geometry; once Path has been called on it, the caller must call
// FinishPath with the segment count.
func (f *fragment) EncodePath() *PathEncoder {
	f.checkNoOpenPath("EncodePath")
	f.appended = 0
	f.openPath = newPathEncoder(&f.pathTags, &f.pathData, &f.appended)
	return f.openPath
}

// FinishPath records the path started by the last call to EncodePath.
// numSegments must equal the number of segments appended to it, which is
// what PathEncoder.Path returns.
func (f *fragment) FinishPath(numSegments uint32) {
	if f.openPath == nil {
		panic("encoding: FinishPath without EncodePath")
	}
	if !f.openPath.finished {
		panic("encoding: FinishPath before PathEncoder.Path")
	}
	if numSegments != f.appended {
		panic(fmt.Sprintf("encoding: FinishPath(%d) but %d segments were appended", numSegments, f.appended))
	}
	f.numPaths++
	f.numPathSegments += numSegments
	f.openPath = nil
	f.appended = 0
	f.pathPending = true
}

func (f *fragment) pushDraw(tag DrawTag, payload []byte) {
	if uint32(len(payload)) != tag.DataSize() {
		panic(fmt.Sprintf("encoding: draw tag %#x expects %d bytes of draw data, got %d", uint32(tag), tag.DataSize(), len(payload)))
	}
	f.drawTags.Push(tag)
	f.drawData.Extend(payload...)
}

func (f *fragment) fill(tag DrawTag, payload []byte) {
	f.checkNoOpenPath("fill")
	if !f.pathPending {
		panic("encoding: fill without a preceding path")
	}
	f.pushDraw(tag, payload)
	f.pathPending = false
}

// FillColor encodes a solid color fill of the preceding path. rgba is packed
// as 0xRRGGBBAA.
func (f *fragment) FillColor(rgba uint32) {
	var buf [4]byte
	f.fill(DrawTagFillColor, drawColor{RGBA: rgba}.appendTo(buf[:0]))
}

func (f *fragment) reset() {
	f.pathTags.Reset()
	f.pathData.Reset()
	f.drawTags.Reset()
	f.drawData.Reset()
	f.numPaths = 0
	f.numPathSegments = 0
	f.appended = 0
	f.openPath = nil
	f.pathPending = false
}

func (f *fragment) PathTags() []PathTag { return f.pathTags.Elems() }
func (f *fragment) PathData() []byte    { return f.pathData.Elems() }
func (f *fragment) DrawTags() []DrawTag { return f.drawTags.Elems() }
func (f *fragment) DrawData() []byte    { return f.drawData.Elems() }

// NumPaths returns the number of finished paths, including the implicit
// paths of end clips.
func (f *fragment) NumPaths() uint32 { return f.numPaths }

func (f *fragment) NumPathSegments() uint32 { return f.numPathSegments }

// NumDrawObjects returns the number of entries in the draw tag stream.
func (f *fragment) NumDrawObjects() int { return f.drawTags.Len() }

// NumPathTags returns the number of entries in the path tag stream.
func (f *fragment) NumPathTags() int { return f.pathTags.Len() }
