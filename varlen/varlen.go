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

// Package varlen manages variable length payloads stored outside of
// row storage: the length prefix encoding shared with inline slots,
// pool backed buffers, and the handle table that lets a fixed eight
// byte row slot refer to a buffer.
package varlen

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
)

var (
	ErrTooLong       = errors.New("object length out of range")
	ErrShortBuffer   = errors.New("buffer too small")
	ErrReleased      = errors.New("varlen already released")
	ErrUnknownHandle = errors.New("unknown varlen handle")
)

// Handle identifies a registered Varlen. The zero Handle never refers to
// a buffer and is used for null out-of-line slots.
type Handle uint64

// Varlen is a pool owned buffer holding a length prefix followed by the
// payload bytes. A Varlen only enters the handle table once Register is
// called; until then it is an ordinary buffer the garbage collector
// reclaims when it is dropped.
type Varlen struct {
	handle atomic.Uint64
	raw    []byte
	buf    []byte
	width  int
	pool   Pool
}

// Create acquires room for a payload of length bytes plus its prefix
// from pool, or from the scratch pool when pool is nil, and writes the
// prefix. The payload starts zeroed.
func Create(length int, pool Pool) (*Varlen, error) {
	if length < 0 || length > MaxLength {
		return nil, fmt.Errorf("%w: %d", ErrTooLong, length)
	}

	if pool == nil {
		pool = Scratch()
	}

	width := PrefixWidth(length)
	raw, err := pool.Acquire(width + length)
	if err != nil {
		return nil, err
	}

	if len(raw) < width+length {
		pool.Release(raw)

		return nil, fmt.Errorf("%w: pool returned %d bytes, need %d",
			ErrShortBuffer, len(raw), width+length)
	}

	v := &Varlen{raw: raw, buf: raw[:width+length], width: width, pool: pool}
	if _, err := PutPrefix(v.buf, length); err != nil {
		pool.Release(raw)

		return nil, err
	}

	return v, nil
}

// CreateFrom allocates a Varlen and copies data into it.
func CreateFrom(data []byte, pool Pool) (*Varlen, error) {
	v, err := Create(len(data), pool)
	if err != nil {
		return nil, err
	}

	copy(v.Data(), data)

	return v, nil
}

// Handle returns the handle assigned by Register, or zero.
func (v *Varlen) Handle() Handle { return Handle(v.handle.Load()) }

// Register enters v in the handle table so a row slot can refer to it
// and returns its handle. Registering twice returns the same handle.
func (v *Varlen) Register() (Handle, error) {
	if v.raw == nil {
		return 0, fmt.Errorf("%w: cannot register", ErrReleased)
	}

	return handles.register(v), nil
}

// Bytes returns the prefix and payload.
func (v *Varlen) Bytes() []byte { return v.buf }

// Data returns the payload past the prefix. A destroyed Varlen has no
// payload.
func (v *Varlen) Data() []byte {
	if v.buf == nil {
		return nil
	}

	return v.buf[v.width:]
}

func (v *Varlen) Len() int { return len(v.Data()) }

func (v *Varlen) PrefixWidth() int { return v.width }

func (v *Varlen) Released() bool { return v.raw == nil }

// Destroy returns the buffer to its pool and retires the handle.
// Destroying twice reports ErrReleased.
func (v *Varlen) Destroy() error {
	if v.raw == nil {
		return fmt.Errorf("%w: handle %d", ErrReleased, v.Handle())
	}

	if h := v.Handle(); h != 0 {
		handles.remove(h)
	}
	v.pool.Release(v.raw)
	v.raw, v.buf = nil, nil

	return nil
}

// Resolve looks up the live Varlen behind h.
func Resolve(h Handle) (*Varlen, error) {
	if v, ok := handles.lookup(h); ok {
		return v, nil
	}

	return nil, fmt.Errorf("%w: %d", ErrUnknownHandle, h)
}

// DestroyHandles releases every listed handle, skipping zero handles.
func DestroyHandles(hs ...Handle) error {
	var errs []error
	for _, h := range hs {
		if h == 0 {
			continue
		}

		v, err := Resolve(h)
		if err != nil {
			errs = append(errs, err)

			continue
		}

		if err := v.Destroy(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Live reports the number of registered Varlens not yet destroyed.
func Live() int { return handles.size() }

type handleTable struct {
	mu   sync.RWMutex
	next Handle
	live map[Handle]*Varlen
}

var handles = handleTable{live: make(map[Handle]*Varlen)}

func (t *handleTable) register(v *Varlen) Handle {
	t.mu.Lock()
	defer t.mu.Unlock()

	if h := v.Handle(); h != 0 {
		return h
	}

	t.next++
	t.live[t.next] = v
	v.handle.Store(uint64(t.next))

	return t.next
}

func (t *handleTable) remove(h Handle) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.live, h)
}

func (t *handleTable) lookup(h Handle) (*Varlen, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	v, ok := t.live[h]

	return v, ok
}

func (t *handleTable) size() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.live)
}
