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

func isContinuation(b byte) bool { return b&0xc0 == 0x80 }

// CharLength counts code points by counting bytes that are not UTF-8
// continuation bytes. Invalid sequences are not rejected.
func CharLength(data []byte) int {
	n := 0
	for _, b := range data {
		if !isContinuation(b) {
			n++
		}
	}

	return n
}

// FitsChars reports whether data holds at most maxChars code points.
// It only scans as far as needed to find enough continuation bytes.
func FitsChars(data []byte, maxChars int) bool {
	excess := len(data) - maxChars
	if excess <= 0 {
		return true
	}

	for i := len(data) - 1; i >= 0; i-- {
		if isContinuation(data[i]) {
			excess--
			if excess == 0 {
				return true
			}
		}
	}

	return false
}

// CharPrefix returns the leading bytes of data covering at most n code
// points.
func CharPrefix(data []byte, n int) []byte {
	seen := 0
	for i, b := range data {
		if isContinuation(b) {
			continue
		}
		if seen == n {
			return data[:i]
		}
		seen++
	}

	return data
}
