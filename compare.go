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
	"bytes"
	"cmp"
	"fmt"
	"math"
)

func notComparable(a, b Value) error {
	return fmt.Errorf("%w: %s is not comparable with %s", ErrTypeMismatch, KindOf(a), KindOf(b))
}

// CompareWithNull orders a before b with nulls lowest. Two nulls of any
// kinds are equal.
func CompareWithNull(a, b Value) (int, error) {
	switch an, bn := a.IsNull(), b.IsNull(); {
	case an && bn:
		return 0, nil
	case an:
		return -1, nil
	case bn:
		return 1, nil
	}

	return CompareNoNull(a, b)
}

// CompareNoNull orders two non-null values. Mixed numerics compare in
// the wider kind: integers scale into decimals and anything compared
// with a double becomes a double. NaN equals NaN and sorts below every
// other double.
func CompareNoNull(a, b Value) (int, error) {
	switch av := a.(type) {
	case TinyInt, SmallInt, Integer, BigInt, Timestamp:
		x, _ := asInt64(a)
		switch bv := b.(type) {
		case TinyInt, SmallInt, Integer, BigInt, Timestamp:
			y, _ := asInt64(b)

			return cmp.Compare(x, y), nil
		case Decimal:
			return compareDecimal(DecimalFromInt64(x), bv), nil
		case Double:
			return compareDouble(float64(x), float64(bv)), nil
		}
	case Double:
		if b.Kind().IsNumeric() {
			y, err := asFloat64(b)
			if err != nil {
				return 0, err
			}

			return compareDouble(float64(av), y), nil
		}
	case Decimal:
		switch bv := b.(type) {
		case TinyInt, SmallInt, Integer, BigInt, Timestamp:
			y, _ := asInt64(b)

			return compareDecimal(av, DecimalFromInt64(y)), nil
		case Decimal:
			return compareDecimal(av, bv), nil
		case Double:
			return compareDouble(av.Float64(), float64(bv)), nil
		}
	case Text:
		switch bv := b.(type) {
		case Text:
			return bytes.Compare(av.Bytes(), bv.Bytes()), nil
		case Binary:
			return bytes.Compare(av.Bytes(), bv.Bytes()), nil
		}
	case Binary:
		if bv, ok := b.(Binary); ok {
			return bytes.Compare(av.Bytes(), bv.Bytes()), nil
		}
	case Boolean:
		if bv, ok := b.(Boolean); ok {
			return cmp.Compare(av, bv), nil
		}
	}

	return 0, notComparable(a, b)
}

func compareDouble(x, y float64) int {
	xn, yn := math.IsNaN(x), math.IsNaN(y)
	switch {
	case xn && yn:
		return 0
	case xn:
		return -1
	case yn:
		return 1
	}

	return cmp.Compare(x, y)
}

func compareDecimal(x, y Decimal) int { return x.big().Cmp(y.big()) }

// CmpOp is a relational operator.
type CmpOp uint8

const (
	Eq CmpOp = iota
	Ne
	Lt
	Le
	Gt
	Ge
)

func (op CmpOp) String() string {
	switch op {
	case Eq:
		return "="
	case Ne:
		return "<>"
	case Lt:
		return "<"
	case Le:
		return "<="
	case Gt:
		return ">"
	case Ge:
		return ">="
	}

	return fmt.Sprintf("CmpOp(%d)", uint8(op))
}

func (op CmpOp) holds(c int) bool {
	switch op {
	case Eq:
		return c == 0
	case Ne:
		return c != 0
	case Lt:
		return c < 0
	case Le:
		return c <= 0
	case Gt:
		return c > 0
	case Ge:
		return c >= 0
	}

	return false
}

// Apply evaluates a op b with SQL semantics: a null operand gives a null
// boolean.
func (op CmpOp) Apply(a, b Value) (Boolean, error) {
	if a.IsNull() || b.IsNull() {
		return NullBoolean, nil
	}

	c, err := CompareNoNull(a, b)
	if err != nil {
		return NullBoolean, err
	}

	return BoolOf(op.holds(c)), nil
}

// ApplyNullsLow evaluates a op b over the total order of CompareWithNull,
// so the result is never null.
func (op CmpOp) ApplyNullsLow(a, b Value) (Boolean, error) {
	c, err := CompareWithNull(a, b)
	if err != nil {
		return NullBoolean, err
	}

	return BoolOf(op.holds(c)), nil
}

// Equal reports whether a and b are equal with nulls equal to each other.
func Equal(a, b Value) (bool, error) {
	c, err := CompareWithNull(a, b)

	return c == 0 && err == nil, err
}

// Max returns the larger operand under CompareWithNull, b on ties.
func Max(a, b Value) (Value, error) {
	c, err := CompareWithNull(a, b)
	if err != nil {
		return nil, err
	}

	if c > 0 {
		return a, nil
	}

	return b, nil
}

// Min returns the smaller operand under CompareWithNull, b on ties.
func Min(a, b Value) (Value, error) {
	c, err := CompareWithNull(a, b)
	if err != nil {
		return nil, err
	}

	if c < 0 {
		return a, nil
	}

	return b, nil
}
