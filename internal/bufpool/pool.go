// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package bufpool recycles the RGBA pixel buffers that back composite layers
// and node content.
package bufpool

import (
	"image"
	"sync"
)

// Pool is a thread-safe pool for reusing *image.RGBA buffers.
//
// Pool groups buffers by their pixel dimensions. A buffer taken from the pool
// is re-originated to the requested bounds, so a layer that moves without
// changing size gets its old allocation back.
//
// Thread safety: All methods are safe for concurrent use.
type Pool struct {
	mu      sync.Mutex
	buckets map[poolKey][]*image.RGBA
	maxSize int // max buffers per bucket

	hits, misses int
}

// poolKey identifies a bucket of identically sized buffers.
type poolKey struct {
	width  int
	height int
}

// New creates a pool keeping at most maxPerBucket buffers of each size.
// A maxPerBucket of 0 means unlimited (use with caution).
func New(maxPerBucket int) *Pool {
	return &Pool{
		buckets: make(map[poolKey][]*image.RGBA),
		maxSize: maxPerBucket,
	}
}

// Get returns a transparent buffer whose Bounds equal r. It returns nil for
// an empty rectangle.
func (p *Pool) Get(r image.Rectangle) *image.RGBA {
	if r.Empty() {
		return nil
	}
	key := poolKey{width: r.Dx(), height: r.Dy()}

	p.mu.Lock()
	bucket := p.buckets[key]
	if len(bucket) > 0 {
		img := bucket[len(bucket)-1]
		bucket[len(bucket)-1] = nil
		p.buckets[key] = bucket[:len(bucket)-1]
		p.hits++
		p.mu.Unlock()

		clear(img.Pix)
		img.Rect = r
		return img
	}
	p.misses++
	p.mu.Unlock()

	return image.NewRGBA(r)
}

// Put returns a buffer to the pool. Nil buffers are ignored and buffers
// beyond the bucket capacity are left to the garbage collector.
func (p *Pool) Put(img *image.RGBA) {
	if img == nil || img.Rect.Empty() {
		return
	}
	key := poolKey{width: img.Rect.Dx(), height: img.Rect.Dy()}

	p.mu.Lock()
	defer p.mu.Unlock()

	bucket := p.buckets[key]
	if p.maxSize > 0 && len(bucket) >= p.maxSize {
		return
	}
	p.buckets[key] = append(bucket, img)
}

// Stats reports how many Get calls were served from the pool and how many
// allocated.
func (p *Pool) Stats() (hits, misses int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hits, p.misses
}

// Len returns the number of idle buffers held by the pool.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, b := range p.buckets {
		n += len(b)
	}
	return n
}
