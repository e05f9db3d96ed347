// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package encoding

import "honnef.co/go/safeish"

// Stream is an append-only sequence of fixed-size elements with a single
// writer. Entries are never reordered or removed once a path has been
// finished; the only exception is swapping the final two entries.
type Stream[E any] struct {
	elems []E
}

func (s *Stream[E]) Push(e E) {
	s.elems = append(s.elems, e)
}

func (s *Stream[E]) Extend(es ...E) {
	s.elems = append(s.elems, es...)
}

func (s *Stream[E]) Len() int {
	return len(s.elems)
}

// Elems returns the stream's contents. The slice aliases the stream and must
// not be modified.
func (s *Stream[E]) Elems() []E {
	return s.elems
}

// Bytes returns the contents in host layout. It aliases the stream.
func (s *Stream[E]) Bytes() []byte {
	return safeish.SliceCast[[]byte](s.elems)
}

func (s *Stream[E]) Reset() {
	s.elems = s.elems[:0]
}

func (s *Stream[E]) swapLast2() {
	n := len(s.elems)
	if n < 2 {
		panic("encoding: swapping last two entries of a stream with fewer than two entries")
	}
	s.elems[n-2], s.elems[n-1] = s.elems[n-1], s.elems[n-2]
}

func (s *Stream[E]) last() *E {
	return &s.elems[len(s.elems)-1]
}
