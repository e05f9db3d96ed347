// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package wgpu_engine

import (
	"testing"

	"honnef.co/go/wgpu"
)

func TestPoolSizeClass(t *testing.T) {
	tests := []struct {
		x       uint64
		numBits uint32
		want    uint64
	}{
		{0, 1, 2},
		{1, 1, 2},
		{2, 1, 2},
		{3, 1, 3},
		{4, 1, 4},
		{5, 1, 6},
		{7, 1, 8},
		{9, 1, 12},
		{49156, 1, 65536},
		{58408, 1, 65536},
		{82200, 1, 98304},
		{5, 2, 5},
		{9, 2, 10},
		{1000, 0, 1024},
	}
	for _, tt := range tests {
		if got := poolSizeClass(tt.x, tt.numBits); got != tt.want {
			t.Errorf("poolSizeClass(%d, %d) = %d, want %d", tt.x, tt.numBits, got, tt.want)
		}
	}
}

func TestPoolSizeClassCoversRequest(t *testing.T) {
	for x := uint64(1); x < 1<<14; x++ {
		if got := poolSizeClass(x, 1); got < x {
			t.Fatalf("poolSizeClass(%d, 1) = %d, smaller than the request", x, got)
		}
	}
}

func TestResourcePoolReuse(t *testing.T) {
	pool := resourcePool{
		sizeClassBits: 1,
		bufs:          make(map[bufferProperties][]*wgpu.Buffer),
	}
	props := bufferProperties{size: 65536, usages: storageUsage}
	buf := new(wgpu.Buffer)
	pool.put(props, buf)

	// A pooled buffer of the same size class and usage is reused without
	// touching the device.
	if got := pool.getBuf(58408, "scene", storageUsage, nil); got != buf {
		t.Errorf("getBuf returned %p, want the pooled buffer %p", got, buf)
	}
	if _, ok := pool.take(props); ok {
		t.Error("pooled buffer was handed out twice")
	}
}
