// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Package mem provides write targets for serialized scene data.
package mem

import "fmt"

// Buffer is an append-only byte buffer that implements encoding.BufWriter.
//
// A fixed buffer writes into memory provided by the caller, such as a mapped
// GPU buffer, and never reallocates; writing past its capacity panics. A
// growable buffer reallocates as needed.
type Buffer struct {
	data  []byte
	fixed bool
}

// NewFixedBuffer returns a buffer that writes into dst, starting at dst[0],
// and can hold at most len(dst) bytes.
func NewFixedBuffer(dst []byte) *Buffer {
	return &Buffer{data: dst[:0:len(dst)], fixed: true}
}

// NewBuffer returns a growable buffer with the given initial capacity.
func NewBuffer(capacity int) *Buffer {
	return &Buffer{data: make([]byte, 0, capacity)}
}

func (b *Buffer) reserve(n int) {
	if len(b.data)+n <= cap(b.data) {
		return
	}
	if b.fixed {
		panic(fmt.Sprintf("mem: write of %d bytes overflows fixed buffer (%d of %d bytes used)", n, len(b.data), cap(b.data)))
	}
	b.data = growSlice(b.data, n)
}

func (b *Buffer) Extend(p []byte) {
	b.reserve(len(p))
	b.data = append(b.data, p...)
}

func (b *Buffer) FillZero(n int) {
	b.reserve(n)
	start := len(b.data)
	b.data = b.data[:start+n]
	// A fixed buffer may be reused memory.
	clear(b.data[start:])
}

// Len returns the number of bytes written.
func (b *Buffer) Len() int { return len(b.data) }

// Cap returns the buffer's current capacity.
func (b *Buffer) Cap() int { return cap(b.data) }

// Bytes returns the bytes written so far. For fixed buffers, this aliases
// the destination.
func (b *Buffer) Bytes() []byte { return b.data }

// Reset discards all written bytes, retaining the memory.
func (b *Buffer) Reset() { b.data = b.data[:0] }

func growSlice(s []byte, n int) []byte {
	const growThreshold = 256
	newLen := len(s) + n
	newCap := cap(s)

	if newCap > 0 {
		for newLen > newCap {
			if newCap < growThreshold {
				newCap *= 2
			} else {
				newCap += newCap / 4
			}
		}
	} else {
		newCap = n
	}
	if newCap == cap(s) {
		return s
	}
	s2 := make([]byte, len(s), newCap)
	copy(s2, s)
	return s2
}
