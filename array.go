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
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Array is a typed list of values, used for the right hand side of IN.
// A nil item slice is the null array.
type Array struct {
	elem  Kind
	items []Value
}

// NewArray builds an array of elem. Every item must be of kind elem,
// possibly null.
func NewArray(elem Kind, items ...Value) (Array, error) {
	switch elem {
	case KindArray, KindAddress, KindNull, KindInvalid:
		return Array{}, fmt.Errorf("%w: arrays of %s are not supported", ErrTypeMismatch, elem)
	}

	arr := Array{elem: elem, items: make([]Value, 0, len(items))}
	for i, it := range items {
		if KindOf(it) != elem {
			return Array{}, fmt.Errorf("%w: item %d of ARRAY(%s) is %s",
				ErrTypeMismatch, i, elem, KindOf(it))
		}
		arr.items = append(arr.items, it)
	}

	return arr, nil
}

func (Array) Kind() Kind       { return KindArray }
func (a Array) IsNull() bool   { return a.items == nil }
func (a Array) ElemKind() Kind { return a.elem }
func (a Array) Len() int       { return len(a.items) }
func (Array) isValue()         {}

// At returns item i. It panics when i is out of range.
func (a Array) At(i int) Value { return a.items[i] }

func (a Array) String() string {
	if a.IsNull() {
		return nullString
	}

	var sb strings.Builder
	sb.WriteByte('[')
	for i, it := range a.items {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(it.String())
	}
	sb.WriteByte(']')

	return sb.String()
}

// mapItems returns a new array with fn applied to every item.
func (a Array) mapItems(fn func(Value) (Value, error)) (Value, error) {
	if a.IsNull() {
		return a, nil
	}

	out := Array{elem: a.elem, items: make([]Value, len(a.items))}
	for i, it := range a.items {
		v, err := fn(it)
		if err != nil {
			return nil, err
		}
		out.items[i] = v
	}

	return out, nil
}

// Release frees every owned item payload.
func (a Array) Release() error {
	var errs []error
	for _, it := range a.items {
		if err := Release(it); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// InList reports whether v equals a non-null item of list. A null v is
// never in a list.
func InList(v Value, list Array) (bool, error) {
	if v.IsNull() {
		return false, nil
	}

	for _, it := range list.items {
		if it.IsNull() {
			continue
		}

		c, err := CompareNoNull(v, it)
		if err != nil {
			return false, err
		}

		if c == 0 {
			return true, nil
		}
	}

	return false, nil
}

// castItem is a cast list item. fresh is set when the cast produced a
// payload the list does not own.
type castItem struct {
	v     Value
	fresh bool
}

func (c castItem) release() {
	if c.fresh {
		_ = Release(c.v)
	}
}

// CastSortDedup casts every item to kind and returns them sorted with
// duplicates removed. Items that are out of range for kind cannot match
// a value of kind and are dropped. Dropped duplicates whose cast made a
// new payload are released.
func CastSortDedup(list Array, kind Kind) ([]Value, error) {
	casts := make([]castItem, 0, len(list.items))
	for _, it := range list.items {
		v, err := it.CastAs(kind)
		if errors.Is(err, ErrOutOfRange) {
			continue
		}

		if err != nil {
			for _, c := range casts {
				c.release()
			}

			return nil, err
		}
		casts = append(casts, castItem{v: v, fresh: !samePayload(it, v)})
	}

	var cmpErr error
	slices.SortStableFunc(casts, func(a, b castItem) int {
		c, err := CompareWithNull(a.v, b.v)
		if err != nil && cmpErr == nil {
			cmpErr = err
		}

		return c
	})
	if cmpErr != nil {
		for _, c := range casts {
			c.release()
		}

		return nil, cmpErr
	}

	out := make([]Value, 0, len(casts))
	for i, c := range casts {
		if i > 0 {
			if eq, _ := Equal(casts[i-1].v, c.v); eq {
				c.release()

				continue
			}
		}
		out = append(out, c.v)
	}

	return out, nil
}
