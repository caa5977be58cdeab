package codec

import (
	"sync"
)

// Size-tiered buffer pools for encode buffers.
// Buffers are pooled in size classes: 64, 256, 1024, 4096, 16384, 65536 bytes.
var bufferPools = [6]sync.Pool{
	{New: func() any { return make([]byte, 0, 64) }},
	{New: func() any { return make([]byte, 0, 256) }},
	{New: func() any { return make([]byte, 0, 1024) }},
	{New: func() any { return make([]byte, 0, 4096) }},
	{New: func() any { return make([]byte, 0, 16384) }},
	{New: func() any { return make([]byte, 0, 65536) }},
}

// poolIndex returns the pool index for a given size, or -1 if the size is
// too large for pooling.
func poolIndex(size int) int {
	switch {
	case size <= 64:
		return 0
	case size <= 256:
		return 1
	case size <= 1024:
		return 2
	case size <= 4096:
		return 3
	case size <= 16384:
		return 4
	case size <= 65536:
		return 5
	}
	return -1
}

// GetBuffer returns an empty buffer with at least sizeHint capacity. Buffers
// above 64KB are allocated directly.
func GetBuffer(sizeHint int) []byte {
	idx := poolIndex(sizeHint)
	if idx < 0 {
		return make([]byte, 0, sizeHint)
	}
	return bufferPools[idx].Get().([]byte)[:0]
}

// PutBuffer returns a buffer to the pool of the largest class it can serve.
// Buffers above 64KB are left to the garbage collector.
func PutBuffer(buf []byte) {
	c := cap(buf)
	if c < 64 || c > 65536 {
		return
	}
	idx := poolIndex(c)
	if bufferSizes[idx] > c {
		idx--
	}
	bufferPools[idx].Put(buf[:0])
}

// bufferSizes maps pool index to capacity.
var bufferSizes = [6]int{64, 256, 1024, 4096, 16384, 65536}
