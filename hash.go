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

package nvalue

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"
	"github.com/twmb/murmur3"
)

// Hash classes keep values of unrelated kinds apart.
const (
	hashNull byte = iota
	hashFloat
	hashBytes
	hashBool
	hashArray
	hashOther
)

var canonicalNaN = math.Float64bits(math.NaN())

// canonicalFloatBits folds -0 into 0 and every NaN into one pattern.
func canonicalFloatBits(f float64) uint64 {
	switch {
	case math.IsNaN(f):
		return canonicalNaN
	case f == 0:
		return 0
	}

	return math.Float64bits(f)
}

// Hash returns a seeded 64-bit hash of v. Every numeric hashes by its
// nearest double, the image the comparison engine uses across kinds, so
// values that compare equal hash equally. All nulls share one hash.
func Hash(v Value, seed uint64) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], seed)

	d := xxhash.New()
	_, _ = d.Write(buf[:])
	appendCanonical(d, v)

	return d.Sum64()
}

func appendCanonical(d *xxhash.Digest, v Value) {
	putClass := func(c byte) { _, _ = d.Write([]byte{c}) }
	putWord := func(c byte, w uint64) {
		var b [9]byte
		b[0] = c
		binary.LittleEndian.PutUint64(b[1:], w)
		_, _ = d.Write(b[:])
	}

	if v.IsNull() {
		putClass(hashNull)

		return
	}

	switch v := v.(type) {
	case TinyInt, SmallInt, Integer, BigInt, Timestamp, Double, Decimal:
		f, _ := asFloat64(v)
		putWord(hashFloat, canonicalFloatBits(f))
	case Text:
		putWord(hashBytes, uint64(v.Len()))
		_, _ = d.Write(v.Bytes())
	case Binary:
		putWord(hashBytes, uint64(v.Len()))
		_, _ = d.Write(v.Bytes())
	case Boolean:
		putWord(hashBool, uint64(v))
	case Array:
		putWord(hashArray, uint64(v.Len()))
		for _, it := range v.items {
			appendCanonical(d, it)
		}
	default:
		putWord(hashOther, uint64(v.Kind()))
	}
}

// MurmurHash3 is the partitioning hash: the low 32 bits of the first
// word of MurmurHash3 x64 128 with seed zero. Integers and timestamps
// hash their eight byte little-endian widening, doubles their bits and
// objects their payload.
func MurmurHash3(v Value) (int32, error) {
	var word [8]byte
	switch x := v.(type) {
	case TinyInt, SmallInt, Integer, BigInt, Timestamp:
		i, _ := asInt64(x)
		binary.LittleEndian.PutUint64(word[:], uint64(i))
	case Double:
		binary.LittleEndian.PutUint64(word[:], math.Float64bits(float64(x)))
	case Text, Binary:
		o, _, _ := asObject(x)
		if o.IsNull() {
			return 0, fmt.Errorf("%w: cannot hash a null %s", ErrInvalidOperation, x.Kind())
		}
		h1, _ := murmur3.Sum128(o.Bytes())

		return int32(uint32(h1)), nil
	default:
		return 0, fmt.Errorf("%w: unknown type for murmur hashing %s", ErrTypeMismatch, KindOf(v))
	}

	h1, _ := murmur3.Sum128(word[:])

	return int32(uint32(h1)), nil
}
