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

// Package nvalue is the scalar value core of a relational execution
// engine: a closed set of SQL scalar types together with promotion,
// arithmetic, comparison, casting, pattern matching, hashing and the
// row, wire and export byte layouts.
package nvalue

import (
	"fmt"
	"math"
	"strconv"
)

// Value is a SQL scalar. The set of implementations is closed; switch on
// the concrete type to reach a payload.
type Value interface {
	fmt.Stringer
	Kind() Kind
	// IsNull reports whether the value holds its kind's null sentinel.
	IsNull() bool
	// CastAs converts the value to another kind. Casting to the same
	// kind returns the value unchanged and a null source yields the null
	// of the target kind.
	CastAs(Kind) (Value, error)

	isValue()
}

const nullString = "NULL"

// Null sentinels. Valid integers therefore start one above the type
// minimum.
const (
	NullTinyInt   TinyInt   = math.MinInt8
	NullSmallInt  SmallInt  = math.MinInt16
	NullInteger   Integer   = math.MinInt32
	NullBigInt    BigInt    = math.MinInt64
	NullTimestamp Timestamp = math.MinInt64
	NullBoolean   Boolean   = math.MinInt8
	NullDouble    Double    = -math.MaxFloat64

	// doubleNullBound is the largest double treated as null.
	doubleNullBound = -1.7e308

	MinTinyInt  = math.MinInt8 + 1
	MinSmallInt = math.MinInt16 + 1
	MinInteger  = math.MinInt32 + 1
	MinBigInt   = math.MinInt64 + 1
)

type TinyInt int8

func (v TinyInt) Kind() Kind   { return KindTinyInt }
func (v TinyInt) IsNull() bool { return v == NullTinyInt }
func (v TinyInt) Int8() int8   { return int8(v) }
func (TinyInt) isValue()       {}
func (v TinyInt) String() string {
	if v.IsNull() {
		return nullString
	}

	return strconv.FormatInt(int64(v), 10)
}

type SmallInt int16

func (v SmallInt) Kind() Kind   { return KindSmallInt }
func (v SmallInt) IsNull() bool { return v == NullSmallInt }
func (v SmallInt) Int16() int16 { return int16(v) }
func (SmallInt) isValue()       {}
func (v SmallInt) String() string {
	if v.IsNull() {
		return nullString
	}

	return strconv.FormatInt(int64(v), 10)
}

type Integer int32

func (v Integer) Kind() Kind   { return KindInteger }
func (v Integer) IsNull() bool { return v == NullInteger }
func (v Integer) Int32() int32 { return int32(v) }
func (Integer) isValue()       {}
func (v Integer) String() string {
	if v.IsNull() {
		return nullString
	}

	return strconv.FormatInt(int64(v), 10)
}

type BigInt int64

func (v BigInt) Kind() Kind   { return KindBigInt }
func (v BigInt) IsNull() bool { return v == NullBigInt }
func (v BigInt) Int64() int64 { return int64(v) }
func (BigInt) isValue()       {}
func (v BigInt) String() string {
	if v.IsNull() {
		return nullString
	}

	return strconv.FormatInt(int64(v), 10)
}

// Timestamp counts microseconds since the Unix epoch, UTC.
type Timestamp int64

func (v Timestamp) Kind() Kind    { return KindTimestamp }
func (v Timestamp) IsNull() bool  { return v == NullTimestamp }
func (v Timestamp) Micros() int64 { return int64(v) }
func (Timestamp) isValue()        {}
func (v Timestamp) String() string {
	if v.IsNull() {
		return nullString
	}

	return formatTimestamp(int64(v))
}

type Double float64

func (v Double) Kind() Kind       { return KindDouble }
func (v Double) IsNull() bool     { return v <= doubleNullBound }
func (v Double) Float64() float64 { return float64(v) }
func (v Double) IsNaN() bool      { return math.IsNaN(float64(v)) }
func (Double) isValue()           {}
func (v Double) String() string {
	if v.IsNull() {
		return nullString
	}

	return formatSQLFloat(float64(v))
}

// Boolean stores false as 0 and true as 1 so it can share the one byte
// null sentinel of TinyInt.
type Boolean int8

const (
	False Boolean = 0
	True  Boolean = 1
)

// BoolOf converts a Go bool.
func BoolOf(b bool) Boolean {
	if b {
		return True
	}

	return False
}

func (v Boolean) Kind() Kind    { return KindBoolean }
func (v Boolean) IsNull() bool  { return v == NullBoolean }
func (v Boolean) IsTrue() bool  { return v == True }
func (v Boolean) IsFalse() bool { return v == False }
func (Boolean) isValue()        {}
func (v Boolean) String() string {
	switch v {
	case True:
		return "true"
	case False:
		return "false"
	}

	return nullString
}

// Address carries an opaque engine reference, such as a tuple pointer
// passed between executors. It is never serialized or cast.
type Address struct {
	ref any
}

func NewAddress(ref any) Address { return Address{ref: ref} }

func (v Address) Kind() Kind   { return KindAddress }
func (v Address) IsNull() bool { return v.ref == nil }
func (v Address) Ref() any     { return v.ref }
func (Address) isValue()       {}
func (v Address) String() string {
	if v.IsNull() {
		return nullString
	}

	return fmt.Sprintf("ADDRESS(%p)", v.ref)
}

// Null is the untyped SQL null.
type Null struct{}

func (Null) Kind() Kind     { return KindNull }
func (Null) IsNull() bool   { return true }
func (Null) String() string { return nullString }
func (Null) isValue()       {}

// Invalid is the value of an undefined kind. Nothing can be done with
// it besides inspecting its kind.
type Invalid struct{}

func (Invalid) Kind() Kind     { return KindInvalid }
func (Invalid) IsNull() bool   { return false }
func (Invalid) String() string { return "INVALID" }
func (Invalid) isValue()       {}

// KindOf returns v's kind, treating a nil interface as invalid.
func KindOf(v Value) Kind {
	if v == nil {
		return KindInvalid
	}

	return v.Kind()
}

// As returns v as the concrete type T or fails with ErrTypeMismatch.
func As[T Value](v Value) (T, error) {
	t, ok := v.(T)
	if !ok {
		var zero T

		return zero, fmt.Errorf("%w: have %s, want %s", ErrTypeMismatch, KindOf(v), zero.Kind())
	}

	return t, nil
}

// NullOf returns the null of kind k.
func NullOf(k Kind) (Value, error) {
	switch k {
	case KindTinyInt:
		return NullTinyInt, nil
	case KindSmallInt:
		return NullSmallInt, nil
	case KindInteger:
		return NullInteger, nil
	case KindBigInt:
		return NullBigInt, nil
	case KindTimestamp:
		return NullTimestamp, nil
	case KindDouble:
		return NullDouble, nil
	case KindDecimal:
		return NullDecimal, nil
	case KindBoolean:
		return NullBoolean, nil
	case KindText:
		return Text{}, nil
	case KindBinary:
		return Binary{}, nil
	case KindArray:
		return Array{}, nil
	case KindAddress:
		return Address{}, nil
	case KindNull:
		return Null{}, nil
	}

	return nil, fmt.Errorf("%w: no null value for kind %s", ErrTypeMismatch, k)
}

func mustNull(k Kind) Value {
	v, err := NullOf(k)
	if err != nil {
		return Null{}
	}

	return v
}
