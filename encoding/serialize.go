// Copyright 2021 the piet-gpu authors
// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package encoding

import "fmt"

// BufWriter is the destination of WriteScene, typically a mapped GPU
// buffer.
type BufWriter interface {
	// Extend appends b.
	Extend(b []byte)
	// FillZero appends n zero bytes.
	FillZero(n int)
}

// WriteScene writes the scene buffer described by Plan to w and returns the
// number of bytes written, which equals Layout.SceneSize. Nothing is
// written if an error is returned.
func (enc *Encoder) WriteScene(w BufWriter) (int, error) {
	return enc.WriteSceneWith(w, DefaultConstants)
}

func (enc *Encoder) WriteSceneWith(w BufWriter, lc LayoutConstants) (int, error) {
	if err := lc.validate(); err != nil {
		return 0, err
	}
	if enc.openPath != nil {
		panic("encoding: WriteScene while a path is open")
	}
	srs, placed, total, err := enc.planScene(&lc)
	if err != nil {
		return 0, err
	}
	for _, sr := range srs {
		if want := sr.count * sr.elemSize; uint64(len(sr.data)) != want {
			return 0, fmt.Errorf("encoding: %s region holds %d bytes but layout constants v%d expect %d", sr.name, len(sr.data), lc.Version, want)
		}
	}
	for i, sr := range srs {
		w.Extend(sr.data)
		if pad := placed[i].Size - uint32(len(sr.data)); pad != 0 {
			w.FillZero(int(pad))
		}
	}
	return int(total), nil
}

type sliceWriter []byte

func (w *sliceWriter) Extend(b []byte) { *w = append(*w, b...) }

func (w *sliceWriter) FillZero(n int) {
	*w = append(*w, make([]byte, n)...)
}

// AppendScene appends the scene buffer to dst.
func (enc *Encoder) AppendScene(dst []byte) ([]byte, error) {
	w := sliceWriter(dst)
	_, err := enc.WriteScene(&w)
	return w, err
}
