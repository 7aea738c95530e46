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
	"math/big"
	"strconv"
	"strings"

	"github.com/apache/arrow-go/v18/arrow/decimal128"
)

const (
	DecimalScale     = 12
	DecimalPrecision = 38
	// DecimalWholeDigits is the number of digits left of the point.
	DecimalWholeDigits = DecimalPrecision - DecimalScale

	decimalWidth = 16
)

var (
	decimalScaleFactor = big.NewInt(1_000_000_000_000)

	maxDecimalBig = new(big.Int).Sub(new(big.Int).Exp(big.NewInt(10), big.NewInt(DecimalPrecision), nil), big.NewInt(1))
	minDecimalBig = new(big.Int).Neg(maxDecimalBig)

	maxBigIntBig = big.NewInt(math.MaxInt64)
	minBigIntBig = big.NewInt(MinBigInt)

	// Doubles at or beyond these bounds need more than 26 whole digits.
	decimalDoubleUpper = 1e26
	decimalDoubleLower = -1e26

	MaxDecimal  = Decimal{num: decimal128.FromBigInt(maxDecimalBig)}
	MinDecimal  = Decimal{num: decimal128.FromBigInt(minDecimalBig)}
	NullDecimal = Decimal{num: decimal128.New(math.MinInt64, 0)}
)

// Decimal is an exact numeric with 12 fractional digits, stored as the
// unscaled 128-bit integer value*10^12.
type Decimal struct {
	num decimal128.Num
}

// NewDecimal wraps an unscaled value, rejecting anything outside
// [MinDecimal, MaxDecimal].
func NewDecimal(unscaled decimal128.Num) (Decimal, error) {
	return decimalFromBig(unscaled.BigInt())
}

// DecimalFromInt64 scales an integer; every int64 fits.
func DecimalFromInt64(v int64) Decimal {
	b := new(big.Int).Mul(big.NewInt(v), decimalScaleFactor)

	return Decimal{num: decimal128.FromBigInt(b)}
}

// ParseDecimal reads a plain or exponent decimal literal. Digits past the
// twelfth fractional one are rounded half away from zero.
func ParseDecimal(s string) (Decimal, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return NullDecimal, fmt.Errorf("%w: empty decimal string", ErrMalformed)
	}

	n, err := decimal128.FromString(trimmed, DecimalPrecision, DecimalScale)
	if err != nil {
		if _, ok := new(big.Float).SetString(trimmed); ok {
			return NullDecimal, outOfRange(KindDecimal, directionOf(signOfLiteral(trimmed)),
				"decimal literal %q exceeds %d whole digits", trimmed, DecimalWholeDigits)
		}

		return NullDecimal, errors.Join(
			fmt.Errorf("%w: invalid decimal %q", ErrMalformed, trimmed), err)
	}

	return NewDecimal(n)
}

func signOfLiteral(s string) int {
	if strings.HasPrefix(s, "-") {
		return -1
	}

	return 1
}

// DecimalFromFloat64 converts through the fixed twelve digit text form
// of f, so the result is the decimal a user would read back.
func DecimalFromFloat64(f float64) (Decimal, error) {
	if math.IsNaN(f) {
		return NullDecimal, fmt.Errorf("%w: cannot represent NaN as DECIMAL", ErrInvalidOperation)
	}

	if f >= decimalDoubleUpper || f <= decimalDoubleLower {
		return NullDecimal, outOfRange(KindDecimal, directionOf(int(math.Copysign(1, f))),
			"double %g does not fit DECIMAL", f)
	}

	text := strconv.FormatFloat(f, 'f', DecimalScale, 64)
	digits := strings.Replace(text, ".", "", 1)
	b, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return NullDecimal, fmt.Errorf("%w: cannot convert %s to DECIMAL", ErrMalformed, text)
	}

	return decimalFromBig(b)
}

func decimalFromBig(b *big.Int) (Decimal, error) {
	if b.Cmp(maxDecimalBig) > 0 {
		return NullDecimal, outOfRange(KindDecimal, Overflow,
			"decimal value exceeds %d whole digits", DecimalWholeDigits)
	}

	if b.Cmp(minDecimalBig) < 0 {
		return NullDecimal, outOfRange(KindDecimal, Underflow,
			"decimal value exceeds %d whole digits", DecimalWholeDigits)
	}

	return Decimal{num: decimal128.FromBigInt(b)}, nil
}

func (d Decimal) Kind() Kind               { return KindDecimal }
func (d Decimal) IsNull() bool             { return d.num == NullDecimal.num }
func (d Decimal) Unscaled() decimal128.Num { return d.num }
func (d Decimal) big() *big.Int            { return d.num.BigInt() }
func (Decimal) isValue()                   {}

// Float64 converts to the nearest double, rounding the exact quotient
// once.
func (d Decimal) Float64() float64 {
	f, _ := new(big.Rat).SetFrac(d.big(), decimalScaleFactor).Float64()

	return f
}

// Int64 truncates toward zero and fails when the truncated value does
// not fit a BIGINT.
func (d Decimal) Int64() (int64, error) {
	whole := new(big.Int).Quo(d.big(), decimalScaleFactor)
	if whole.Cmp(maxBigIntBig) > 0 {
		return 0, outOfRange(KindBigInt, Overflow, "DECIMAL %s does not fit BIGINT", d)
	}

	if whole.Cmp(minBigIntBig) < 0 {
		return 0, outOfRange(KindBigInt, Underflow, "DECIMAL %s does not fit BIGINT", d)
	}

	return whole.Int64(), nil
}

// Parts splits the absolute value into whole and fractional digits and
// reports the sign.
func (d Decimal) Parts() (whole, frac *big.Int, negative bool) {
	b := d.big()
	negative = b.Sign() < 0
	b.Abs(b)
	whole, frac = new(big.Int).QuoRem(b, decimalScaleFactor, new(big.Int))

	return whole, frac, negative
}

// IsIntegral reports whether the fractional digits are all zero.
func (d Decimal) IsIntegral() bool {
	_, frac, _ := d.Parts()

	return frac.Sign() == 0
}

func (d Decimal) String() string {
	if d.IsNull() {
		return nullString
	}

	whole, frac, negative := d.Parts()
	var sb strings.Builder
	if negative {
		sb.WriteByte('-')
	}
	sb.WriteString(whole.String())
	sb.WriteByte('.')
	fmt.Fprintf(&sb, "%0*d", DecimalScale, frac.Int64())

	return sb.String()
}
