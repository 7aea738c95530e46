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
	"fmt"
	"unicode/utf8"
)

// Like matches a text value against a SQL pattern where '_' stands for
// one code point and '%' for any run of code points. There is no escape
// character. A null operand gives a null boolean.
func Like(value, pattern Value) (Boolean, error) {
	v, ok := value.(Text)
	if !ok {
		return NullBoolean, fmt.Errorf("%w: lhs of LIKE is %s, not %s", ErrTypeMismatch, KindOf(value), KindText)
	}

	p, ok := pattern.(Text)
	if !ok {
		return NullBoolean, fmt.Errorf("%w: rhs of LIKE is %s, not %s", ErrTypeMismatch, KindOf(pattern), KindText)
	}

	if v.IsNull() || p.IsNull() {
		return NullBoolean, nil
	}

	if p.Len() == 0 {
		return BoolOf(v.Len() == 0), nil
	}

	return BoolOf(likeMatch(v.Bytes(), p.Bytes())), nil
}

// cursor walks a byte slice one code point at a time. Invalid
// sequences decode as utf8.RuneError of width one.
type cursor struct {
	b   []byte
	pos int
}

func (c *cursor) atEnd() bool { return c.pos >= len(c.b) }

func (c *cursor) next() rune {
	r, n := utf8.DecodeRune(c.b[c.pos:])
	c.pos += n

	return r
}

func likeMatch(value, pattern []byte) bool {
	val, pat := cursor{b: value}, cursor{b: pattern}

	return likeFrom(val, pat)
}

func likeFrom(val, pat cursor) bool {
	for !pat.atEnd() {
		switch pc := pat.next(); pc {
		case '%':
			if pat.atEnd() {
				return true
			}

			rest := pat
			after := pat.next()
			special := after == '_' || after == '%'

			// Only recurse where the code point after the '%' could match,
			// or always when it is itself a wildcard.
			for !val.atEnd() {
				start := val
				if vc := val.next(); special || vc == after {
					if likeFrom(start, rest) {
						return true
					}
				}
			}

			// An empty suffix can still match a trailing run of '%'.
			return likeFrom(val, rest)
		case '_':
			if val.atEnd() {
				return false
			}
			val.next()
		default:
			if val.atEnd() || val.next() != pc {
				return false
			}
		}
	}

	return val.atEnd()
}
