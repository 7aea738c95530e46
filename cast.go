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
	"math"
	"strconv"
	"strings"

	"github.com/sqlcore/nvalue/logger"
	"go.uber.org/zap"
)

// Doubles at or past these bounds do not truncate into a valid BIGINT.
const (
	bigIntDoubleUpper = 9223372036854775808.0
	bigIntDoubleLower = -9223372036854775808.0
)

func (v TinyInt) CastAs(to Kind) (Value, error)   { return castValue(v, to, castNumber) }
func (v SmallInt) CastAs(to Kind) (Value, error)  { return castValue(v, to, castNumber) }
func (v Integer) CastAs(to Kind) (Value, error)   { return castValue(v, to, castNumber) }
func (v BigInt) CastAs(to Kind) (Value, error)    { return castValue(v, to, castNumber) }
func (v Timestamp) CastAs(to Kind) (Value, error) { return castValue(v, to, castNumber) }
func (v Double) CastAs(to Kind) (Value, error)    { return castValue(v, to, castNumber) }
func (v Decimal) CastAs(to Kind) (Value, error)   { return castValue(v, to, castNumber) }
func (v Boolean) CastAs(to Kind) (Value, error)   { return castValue(v, to, castBoolean) }
func (v Text) CastAs(to Kind) (Value, error)      { return castValue(v, to, castText) }
func (v Binary) CastAs(to Kind) (Value, error)    { return castValue(v, to, castBinary) }
func (v Array) CastAs(to Kind) (Value, error)     { return castValue(v, to, castNothing) }
func (v Address) CastAs(to Kind) (Value, error)   { return castValue(v, to, castNothing) }
func (v Null) CastAs(to Kind) (Value, error)      { return castValue(v, to, castNothing) }
func (v Invalid) CastAs(to Kind) (Value, error)   { return castValue(v, to, castNothing) }

type castFunc func(v Value, to Kind) (Value, error)

func castValue(v Value, to Kind, fn castFunc) (Value, error) {
	if ce := logger.Named("cast").Check(zap.DebugLevel, "cast value"); ce != nil {
		ce.Write(zap.Stringer("from", v.Kind()), zap.Stringer("to", to), zap.Bool("null", v.IsNull()))
	}

	if v.Kind() == to {
		return v, nil
	}

	switch to {
	case KindArray, KindAddress, KindNull, KindInvalid:
		return nil, castError(v, to)
	}

	if v.IsNull() {
		return NullOf(to)
	}

	return fn(v, to)
}

func castNothing(v Value, to Kind) (Value, error) { return nil, castError(v, to) }

// castNumber handles every integer, timestamp, double and decimal
// source.
func castNumber(v Value, to Kind) (Value, error) {
	switch to {
	case KindTinyInt, KindSmallInt, KindInteger, KindBigInt, KindTimestamp:
		i, err := asInt64(v)
		if err != nil {
			return nil, err
		}

		return narrowInt(i, to)
	case KindDouble:
		f, err := asFloat64(v)
		if err != nil {
			return nil, err
		}

		return Double(f), nil
	case KindDecimal:
		return asDecimal(v)
	case KindText:
		return NewText(v.String(), nil)
	}

	return nil, castError(v, to)
}

func narrowInt(i int64, to Kind) (Value, error) {
	var lo, hi int64
	switch to {
	case KindTinyInt:
		lo, hi = MinTinyInt, math.MaxInt8
	case KindSmallInt:
		lo, hi = MinSmallInt, math.MaxInt16
	case KindInteger:
		lo, hi = MinInteger, math.MaxInt32
	case KindBigInt, KindTimestamp:
		lo, hi = MinBigInt, math.MaxInt64
	default:
		return nil, fmt.Errorf("%w: %s is not an integer kind", ErrTypeMismatch, to)
	}

	if i > hi {
		return nil, outOfRange(to, Overflow, "value %d exceeds %s maximum %d", i, to, hi)
	}

	if i < lo {
		return nil, outOfRange(to, Underflow, "value %d is below %s minimum %d", i, to, lo)
	}

	switch to {
	case KindTinyInt:
		return TinyInt(i), nil
	case KindSmallInt:
		return SmallInt(i), nil
	case KindInteger:
		return Integer(i), nil
	case KindTimestamp:
		return Timestamp(i), nil
	}

	return BigInt(i), nil
}

func castBoolean(v Value, to Kind) (Value, error) {
	if to == KindText {
		return NewText(v.String(), nil)
	}

	return nil, castError(v, to)
}

func castText(v Value, to Kind) (Value, error) {
	t := v.(Text)
	switch to {
	case KindBinary:
		return Binary(t), nil
	case KindBoolean:
		switch strings.ToLower(strings.TrimSpace(t.String())) {
		case "true":
			return True, nil
		case "false":
			return False, nil
		}

		return nil, fmt.Errorf("%w: %q is not a boolean", ErrMalformed, t.String())
	case KindTinyInt, KindSmallInt, KindInteger, KindBigInt:
		i, err := parseInt64(t.String())
		if err != nil {
			return nil, err
		}

		return narrowInt(i, to)
	case KindDouble:
		f, err := parseFloat64(t.String())
		if err != nil {
			return nil, err
		}

		return Double(f), nil
	case KindDecimal:
		return ParseDecimal(t.String())
	case KindTimestamp:
		micros, err := parseTimestamp(t.String())
		if err != nil {
			return nil, err
		}

		return Timestamp(micros), nil
	}

	return nil, castError(v, to)
}

func castBinary(v Value, to Kind) (Value, error) {
	if to == KindText {
		return Text(v.(Binary)), nil
	}

	return nil, castError(v, to)
}

func parseInt64(s string) (int64, error) {
	trimmed := strings.TrimSpace(s)
	i, err := strconv.ParseInt(trimmed, 10, 64)
	if err == nil {
		return i, nil
	}

	if errors.Is(err, strconv.ErrRange) {
		return 0, outOfRange(KindBigInt, directionOf(signOfLiteral(trimmed)),
			"%q does not fit BIGINT", trimmed)
	}

	return 0, fmt.Errorf("%w: %q is not an integer", ErrMalformed, trimmed)
}

func parseFloat64(s string) (float64, error) {
	trimmed := strings.TrimSpace(s)
	f, err := strconv.ParseFloat(trimmed, 64)
	if err == nil {
		if f <= doubleNullBound {
			return 0, outOfRange(KindDouble, Underflow, "%q falls in the DOUBLE null range", trimmed)
		}

		return f, nil
	}

	if errors.Is(err, strconv.ErrRange) {
		return 0, outOfRange(KindDouble, directionOf(signOfLiteral(trimmed)),
			"%q does not fit DOUBLE", trimmed)
	}

	return 0, fmt.Errorf("%w: %q is not a number", ErrMalformed, trimmed)
}

// asInt64 views a non-null numeric or text value as an int64. Doubles
// and decimals truncate toward zero.
func asInt64(v Value) (int64, error) {
	switch v := v.(type) {
	case TinyInt:
		return int64(v), nil
	case SmallInt:
		return int64(v), nil
	case Integer:
		return int64(v), nil
	case BigInt:
		return int64(v), nil
	case Timestamp:
		return int64(v), nil
	case Double:
		f := float64(v)
		switch {
		case math.IsNaN(f):
			return 0, fmt.Errorf("%w: cannot convert NaN to BIGINT", ErrInvalidOperation)
		case f >= bigIntDoubleUpper:
			return 0, outOfRange(KindBigInt, Overflow, "double %g does not fit BIGINT", f)
		case f <= bigIntDoubleLower:
			return 0, outOfRange(KindBigInt, Underflow, "double %g does not fit BIGINT", f)
		}

		return int64(f), nil
	case Decimal:
		return v.Int64()
	case Text:
		return parseInt64(v.String())
	}

	return 0, castError(v, KindBigInt)
}

func asFloat64(v Value) (float64, error) {
	switch v := v.(type) {
	case TinyInt:
		return float64(v), nil
	case SmallInt:
		return float64(v), nil
	case Integer:
		return float64(v), nil
	case BigInt:
		return float64(v), nil
	case Timestamp:
		return float64(v), nil
	case Double:
		return float64(v), nil
	case Decimal:
		return v.Float64(), nil
	case Text:
		return parseFloat64(v.String())
	}

	return 0, castError(v, KindDouble)
}

func asDecimal(v Value) (Decimal, error) {
	switch v := v.(type) {
	case TinyInt, SmallInt, Integer, BigInt, Timestamp:
		i, err := asInt64(v)
		if err != nil {
			return NullDecimal, err
		}

		return DecimalFromInt64(i), nil
	case Double:
		return DecimalFromFloat64(float64(v))
	case Decimal:
		return v, nil
	case Text:
		return ParseDecimal(v.String())
	}

	return NullDecimal, castError(v, KindDecimal)
}
