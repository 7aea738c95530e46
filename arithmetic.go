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
	"math"
	"math/big"
	"sync"

	"github.com/sqlcore/nvalue/config"
	"github.com/sqlcore/nvalue/logger"
	"go.uber.org/zap"
)

// Operator is a binary arithmetic operator.
type Operator uint8

const (
	OpAdd Operator = iota
	OpSubtract
	OpMultiply
	OpDivide
)

func (op Operator) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSubtract:
		return "-"
	case OpMultiply:
		return "*"
	case OpDivide:
		return "/"
	}

	return fmt.Sprintf("Operator(%d)", uint8(op))
}

func Add(lhs, rhs Value) (Value, error)      { return Arithmetic(OpAdd, lhs, rhs) }
func Subtract(lhs, rhs Value) (Value, error) { return Arithmetic(OpSubtract, lhs, rhs) }
func Multiply(lhs, rhs Value) (Value, error) { return Arithmetic(OpMultiply, lhs, rhs) }
func Divide(lhs, rhs Value) (Value, error)   { return Arithmetic(OpDivide, lhs, rhs) }

// Arithmetic applies op after promoting both operands. A null operand
// yields the null of the promoted kind.
func Arithmetic(op Operator, lhs, rhs Value) (Value, error) {
	k := Promote(KindOf(lhs), KindOf(rhs))
	if k == KindInvalid {
		return nil, fmt.Errorf("%w: no promotion for %s %s %s",
			ErrTypeMismatch, KindOf(lhs), op, KindOf(rhs))
	}

	if lhs.IsNull() || rhs.IsNull() {
		return NullOf(k)
	}

	switch k {
	case KindBigInt:
		a, err := asInt64(lhs)
		if err != nil {
			return nil, err
		}
		b, err := asInt64(rhs)
		if err != nil {
			return nil, err
		}

		return bigIntOp(op, a, b)
	case KindDouble:
		a, err := asFloat64(lhs)
		if err != nil {
			return nil, err
		}
		b, err := asFloat64(rhs)
		if err != nil {
			return nil, err
		}

		return doubleOp(op, a, b)
	case KindDecimal:
		a, err := asDecimal(lhs)
		if err != nil {
			return nil, err
		}
		b, err := asDecimal(rhs)
		if err != nil {
			return nil, err
		}

		return decimalOp(op, a, b)
	}

	return nil, fmt.Errorf("%w: promotion of %s and %s failed for %s",
		ErrTypeMismatch, KindOf(lhs), KindOf(rhs), op)
}

func sign64(v int64) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}

	return 0
}

func bigIntOp(op Operator, a, b int64) (Value, error) {
	var (
		r    int64
		over bool
		dir  Direction
	)

	switch op {
	case OpAdd:
		r = a + b
		over = (a > 0 && b > 0 && r < 0) || (a < 0 && b < 0 && r >= 0)
		dir = directionOf(sign64(a))
	case OpSubtract:
		r = a - b
		over = (a >= 0 && b < 0 && r < 0) || (a < 0 && b > 0 && r >= 0)
		dir = directionOf(sign64(a))
	case OpMultiply:
		r = a * b
		over = a != 0 && (r/a != b || (a == -1 && b == math.MinInt64))
		dir = directionOf(sign64(a) * sign64(b))
	case OpDivide:
		if b == 0 {
			return nil, fmt.Errorf("%w: attempted to divide %d by 0", ErrDivideByZero, a)
		}
		// The null sentinel is the only quotient that can overflow and it
		// never reaches here.
		return BigInt(a / b), nil
	}

	if !over && r == math.MinInt64 {
		over, dir = true, Underflow
	}

	if over {
		return nil, outOfRange(KindBigInt, dir, "%d %s %d overflows BIGINT storage", a, op, b)
	}

	return BigInt(r), nil
}

var nonFiniteWarning sync.Once

func isFinite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

func doubleOp(op Operator, a, b float64) (Value, error) {
	var r float64
	switch op {
	case OpAdd:
		r = a + b
	case OpSubtract:
		r = a - b
	case OpMultiply:
		r = a * b
	case OpDivide:
		if b == 0 {
			return nil, fmt.Errorf("%w: attempted to divide %g by 0", ErrDivideByZero, a)
		}
		r = a / b
	}

	if !isFinite(r) {
		if (isFinite(a) && isFinite(b)) || config.EnvConfig.StrictFloat {
			return nil, fmt.Errorf("%w: %g %s %g", ErrNonFinite, a, op, b)
		}

		nonFiniteWarning.Do(func() {
			logger.Named("nvalue").Warn("non-finite double operand, skipping result checks",
				zap.Float64("lhs", a), zap.Float64("rhs", b), zap.Stringer("op", op))
		})

		return Double(r), nil
	}

	if r <= doubleNullBound {
		return nil, outOfRange(KindDouble, Underflow, "%g %s %g collides with the DOUBLE null", a, op, b)
	}

	return Double(r), nil
}

func decimalOp(op Operator, a, b Decimal) (Value, error) {
	x, y := a.big(), b.big()
	r := new(big.Int)

	switch op {
	case OpAdd:
		r.Add(x, y)
	case OpSubtract:
		r.Sub(x, y)
	case OpMultiply:
		r.Mul(x, y)
		r.Quo(r, decimalScaleFactor)
	case OpDivide:
		if y.Sign() == 0 {
			return nil, fmt.Errorf("%w: attempted to divide %s by 0", ErrDivideByZero, a)
		}
		r.Mul(x, decimalScaleFactor)
		r.Quo(r, y)
	}

	d, err := decimalFromBig(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s %s", err, a, op, b)
	}

	return d, nil
}

// Increment adds one without changing the kind.
func Increment(v Value) (Value, error) { return step(v, 1) }

// Decrement subtracts one without changing the kind.
func Decrement(v Value) (Value, error) { return step(v, -1) }

func step(v Value, delta int64) (Value, error) {
	if v.IsNull() {
		return v, nil
	}

	stepErr := func(bound int64) error {
		if delta > 0 {
			return outOfRange(v.Kind(), Overflow, "incrementing %s %d is out of range", v.Kind(), bound)
		}

		return outOfRange(v.Kind(), Underflow, "decrementing %s %d is out of range", v.Kind(), bound)
	}

	edge := func(i, hi, lo int64) bool {
		return (delta > 0 && i == hi) || (delta < 0 && i == lo)
	}

	switch v := v.(type) {
	case TinyInt:
		if edge(int64(v), math.MaxInt8, MinTinyInt) {
			return nil, stepErr(int64(v))
		}

		return v + TinyInt(delta), nil
	case SmallInt:
		if edge(int64(v), math.MaxInt16, MinSmallInt) {
			return nil, stepErr(int64(v))
		}

		return v + SmallInt(delta), nil
	case Integer:
		if edge(int64(v), math.MaxInt32, MinInteger) {
			return nil, stepErr(int64(v))
		}

		return v + Integer(delta), nil
	case BigInt:
		if edge(int64(v), math.MaxInt64, MinBigInt) {
			return nil, stepErr(int64(v))
		}

		return v + BigInt(delta), nil
	case Timestamp:
		if edge(int64(v), math.MaxInt64, MinBigInt) {
			return nil, stepErr(int64(v))
		}

		return v + Timestamp(delta), nil
	case Double:
		return v + Double(delta), nil
	case Decimal:
		return decimalOp(OpAdd, v, DecimalFromInt64(delta))
	}

	return nil, fmt.Errorf("%w: %s cannot be incremented or decremented", ErrTypeMismatch, v.Kind())
}

// IsZero reports whether a numeric value equals zero.
func IsZero(v Value) (bool, error) {
	switch v := v.(type) {
	case TinyInt:
		return v == 0, nil
	case SmallInt:
		return v == 0, nil
	case Integer:
		return v == 0, nil
	case BigInt:
		return v == 0, nil
	case Timestamp:
		return v == 0, nil
	case Double:
		return v == 0, nil
	case Decimal:
		return v.num.Sign() == 0, nil
	}

	return false, fmt.Errorf("%w: %s is not numeric", ErrTypeMismatch, KindOf(v))
}

// Negate returns the arithmetic negation. Every valid integer negates
// in place because the type minimum is reserved for null.
func Negate(v Value) (Value, error) {
	if v.IsNull() {
		return v, nil
	}

	switch v := v.(type) {
	case TinyInt:
		return -v, nil
	case SmallInt:
		return -v, nil
	case Integer:
		return -v, nil
	case BigInt:
		return -v, nil
	case Double:
		return -v, nil
	case Decimal:
		return Decimal{num: v.num.Negate()}, nil
	}

	return nil, fmt.Errorf("%w: cannot negate %s", ErrTypeMismatch, KindOf(v))
}

// Abs returns the absolute value of a numeric value.
func Abs(v Value) (Value, error) {
	if v.IsNull() {
		return v, nil
	}

	neg := false
	switch v := v.(type) {
	case TinyInt:
		neg = v < 0
	case SmallInt:
		neg = v < 0
	case Integer:
		neg = v < 0
	case BigInt:
		neg = v < 0
	case Double:
		neg = math.Signbit(float64(v))
	case Decimal:
		neg = v.num.Sign() < 0
	default:
		return nil, fmt.Errorf("%w: ABS of %s", ErrTypeMismatch, KindOf(v))
	}

	if neg {
		return Negate(v)
	}

	return v, nil
}
