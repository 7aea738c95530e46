// Licensed to the Apache Software Foundation (ASF) under one
// or more contributor license agreements.  See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership.  The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License.  You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package varlen

import (
	"fmt"
	"math/bits"
	"sync"
	"sync/atomic"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/sqlcore/nvalue/config"
)

// Pool is the allocator backing out-of-line object storage. A buffer
// returned by Acquire stays valid and exclusively owned by the caller
// until it is handed back to Release. Implementations must be safe for
// concurrent use.
type Pool interface {
	Acquire(size int) ([]byte, error)
	Release(buf []byte)
}

// Stats is a snapshot of pool activity.
type Stats struct {
	Acquired int64
	Released int64
	Hits     int64
	Misses   int64
}

// InUse is the number of buffers acquired and not yet released.
func (s Stats) InUse() int64 { return s.Acquired - s.Released }

type counters struct {
	acquired, released, misses atomic.Int64
}

func (c *counters) snapshot() Stats {
	s := Stats{
		Acquired: c.acquired.Load(),
		Released: c.released.Load(),
		Misses:   c.misses.Load(),
	}
	s.Hits = max(s.Acquired-s.Misses, 0)

	return s
}

const minBucketShift = 4

// ScratchPool recycles buffers in power-of-two size classes. Requests
// larger than the biggest class are served from the heap and dropped
// on release.
type ScratchPool struct {
	buckets []bucket
	maxSize int
	stats   counters
}

type bucket struct {
	size int
	pool sync.Pool
}

// NewScratchPool creates a pool whose largest size class is the
// smallest power of two not below maxBucket.
func NewScratchPool(maxBucket int) *ScratchPool {
	if maxBucket < 1<<minBucketShift {
		maxBucket = 1 << minBucketShift
	}

	top := bits.Len(uint(maxBucket - 1))
	p := &ScratchPool{maxSize: 1 << top}
	p.buckets = make([]bucket, top-minBucketShift+1)
	for i := range p.buckets {
		b := &p.buckets[i]
		b.size = 1 << (i + minBucketShift)
		b.pool.New = func() any {
			p.stats.misses.Add(1)
			buf := make([]byte, b.size)

			return &buf
		}
	}

	return p
}

func (p *ScratchPool) bucketFor(size int) *bucket {
	if size > p.maxSize {
		return nil
	}

	shift := minBucketShift
	if size > 1<<minBucketShift {
		shift = bits.Len(uint(size - 1))
	}

	return &p.buckets[shift-minBucketShift]
}

func (p *ScratchPool) Acquire(size int) ([]byte, error) {
	if size < 0 {
		return nil, fmt.Errorf("%w: negative size %d", ErrTooLong, size)
	}

	p.stats.acquired.Add(1)
	b := p.bucketFor(size)
	if b == nil {
		p.stats.misses.Add(1)

		return make([]byte, size), nil
	}

	buf := *(b.pool.Get().(*[]byte))
	buf = buf[:size]
	clear(buf)

	return buf, nil
}

func (p *ScratchPool) Release(buf []byte) {
	p.stats.released.Add(1)
	b := p.bucketFor(cap(buf))
	if b == nil || b.size != cap(buf) {
		return
	}

	buf = buf[:cap(buf)]
	b.pool.Put(&buf)
}

func (p *ScratchPool) Stats() Stats { return p.stats.snapshot() }

// AllocatorPool hands out buffers from an arrow memory allocator, which
// lets callers plug in a checked or accounting allocator.
type AllocatorPool struct {
	mem   memory.Allocator
	stats counters
}

// NewAllocatorPool wraps mem, falling back to memory.DefaultAllocator
// when mem is nil.
func NewAllocatorPool(mem memory.Allocator) *AllocatorPool {
	if mem == nil {
		mem = memory.DefaultAllocator
	}

	return &AllocatorPool{mem: mem}
}

func (p *AllocatorPool) Acquire(size int) ([]byte, error) {
	if size < 0 {
		return nil, fmt.Errorf("%w: negative size %d", ErrTooLong, size)
	}

	p.stats.acquired.Add(1)
	p.stats.misses.Add(1)

	return p.mem.Allocate(size), nil
}

func (p *AllocatorPool) Release(buf []byte) {
	p.stats.released.Add(1)
	p.mem.Free(buf)
}

func (p *AllocatorPool) Stats() Stats { return p.stats.snapshot() }

var (
	scratchOnce sync.Once
	scratch     *ScratchPool
)

// Scratch returns the process wide pool used for transient values when
// no pool is supplied.
func Scratch() *ScratchPool {
	scratchOnce.Do(func() {
		scratch = NewScratchPool(config.EnvConfig.Scratch.MaxBucket)
	})

	return scratch
}
