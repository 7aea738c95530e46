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
	"encoding/binary"
	"fmt"
)

const (
	// NullBit marks a null payload in the first prefix byte.
	NullBit byte = 0x40
	// ContinuationBit marks the four byte long form.
	ContinuationBit byte = 0x80
	lengthMask      byte = 0x3f

	// ShortMaxLength is the longest payload encoded with a one byte prefix.
	ShortMaxLength = 63
	// MaxLength is the longest payload the long form can describe.
	MaxLength = 1<<30 - 1

	ShortPrefixWidth = 1
	LongPrefixWidth  = 4
)

// PrefixWidth returns the number of prefix bytes used for a payload
// of the given length.
func PrefixWidth(length int) int {
	if length <= ShortMaxLength {
		return ShortPrefixWidth
	}

	return LongPrefixWidth
}

// PutPrefix encodes length at the start of dst and returns the number
// of bytes written.
func PutPrefix(dst []byte, length int) (int, error) {
	if length < 0 || length > MaxLength {
		return 0, fmt.Errorf("%w: %d", ErrTooLong, length)
	}

	width := PrefixWidth(length)
	if len(dst) < width {
		return 0, fmt.Errorf("%w: need %d prefix bytes, have %d", ErrShortBuffer, width, len(dst))
	}

	if width == ShortPrefixWidth {
		dst[0] = byte(length)

		return width, nil
	}

	binary.BigEndian.PutUint32(dst, uint32(length))
	dst[0] |= ContinuationBit

	return width, nil
}

// PutNullPrefix writes the one byte null prefix.
func PutNullPrefix(dst []byte) int {
	dst[0] = NullBit

	return ShortPrefixWidth
}

// ReadPrefix decodes the prefix at the start of src. A null prefix
// reports a zero length.
func ReadPrefix(src []byte) (length, width int, null bool, err error) {
	if len(src) == 0 {
		return 0, 0, false, fmt.Errorf("%w: empty buffer", ErrShortBuffer)
	}

	b0 := src[0]
	if b0&NullBit != 0 {
		return 0, ShortPrefixWidth, true, nil
	}

	if b0&ContinuationBit == 0 {
		return int(b0 & lengthMask), ShortPrefixWidth, false, nil
	}

	if len(src) < LongPrefixWidth {
		return 0, 0, false, fmt.Errorf("%w: long prefix needs %d bytes, have %d",
			ErrShortBuffer, LongPrefixWidth, len(src))
	}

	length = int(b0&lengthMask)<<24 | int(src[1])<<16 | int(src[2])<<8 | int(src[3])

	return length, LongPrefixWidth, false, nil
}
