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

package nvalue_test

import (
	"math"
	"testing"
	"time"

	"github.com/sqlcore/nvalue"
	"github.com/sqlcore/nvalue/varlen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCastNumeric(t *testing.T) {
	tests := []struct {
		name string
		v    nvalue.Value
		to   nvalue.Kind
		want nvalue.Value
	}{
		{"same kind", nvalue.Integer(5), nvalue.KindInteger, nvalue.Integer(5)},
		{"widen", nvalue.TinyInt(-3), nvalue.KindBigInt, nvalue.BigInt(-3)},
		{"narrow", nvalue.BigInt(-127), nvalue.KindTinyInt, nvalue.TinyInt(-127)},
		{"int to double", nvalue.Integer(3), nvalue.KindDouble, nvalue.Double(3)},
		{"int to decimal", nvalue.Integer(3), nvalue.KindDecimal, nvalue.DecimalFromInt64(3)},
		{"int to timestamp", nvalue.BigInt(10), nvalue.KindTimestamp, nvalue.Timestamp(10)},
		{"timestamp to bigint", nvalue.Timestamp(10), nvalue.KindBigInt, nvalue.BigInt(10)},
		{"double to timestamp", nvalue.Double(10.7), nvalue.KindTimestamp, nvalue.Timestamp(10)},
		{"decimal to timestamp", mustDecimal(t, "-3.5"), nvalue.KindTimestamp, nvalue.Timestamp(-3)},
		{"double truncates", nvalue.Double(3.9), nvalue.KindInteger, nvalue.Integer(3)},
		{"negative double truncates", nvalue.Double(-3.9), nvalue.KindInteger, nvalue.Integer(-3)},
		{"decimal truncates", mustDecimal(t, "2.75"), nvalue.KindSmallInt, nvalue.SmallInt(2)},
		{"decimal to double", mustDecimal(t, "2.5"), nvalue.KindDouble, nvalue.Double(2.5)},
		{"double to decimal", nvalue.Double(0.125), nvalue.KindDecimal, mustDecimal(t, "0.125")},
		{"null source", nvalue.NullInteger, nvalue.KindDouble, nvalue.NullDouble},
		{"untyped null", nvalue.Null{}, nvalue.KindDecimal, nvalue.NullDecimal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.v.CastAs(tt.to)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCastRange(t *testing.T) {
	tests := []struct {
		name string
		v    nvalue.Value
		to   nvalue.Kind
		dir  nvalue.Direction
	}{
		{"smallint overflow", nvalue.Integer(40000), nvalue.KindSmallInt, nvalue.Overflow},
		{"smallint underflow", nvalue.Integer(-40000), nvalue.KindSmallInt, nvalue.Underflow},
		{"tinyint null sentinel", nvalue.BigInt(-128), nvalue.KindTinyInt, nvalue.Underflow},
		{"integer overflow", nvalue.BigInt(math.MaxInt32 + 1), nvalue.KindInteger, nvalue.Overflow},
		{"double to bigint", nvalue.Double(1e19), nvalue.KindBigInt, nvalue.Overflow},
		{"double to bigint low", nvalue.Double(-1e19), nvalue.KindBigInt, nvalue.Underflow},
		{"decimal to bigint", mustDecimal(t, "1e20"), nvalue.KindBigInt, nvalue.Overflow},
		{"double to decimal", nvalue.Double(1e27), nvalue.KindDecimal, nvalue.Overflow},
		{"text to tinyint", nvalue.TempText("300"), nvalue.KindTinyInt, nvalue.Overflow},
		{"text to bigint", nvalue.TempText("-99999999999999999999"), nvalue.KindBigInt, nvalue.Underflow},
		{"text to double", nvalue.TempText("1e400"), nvalue.KindDouble, nvalue.Overflow},
		{"text to double null range", nvalue.TempText("-1.75e308"), nvalue.KindDouble, nvalue.Underflow},
		{"text to double minimum", nvalue.TempText("-1.7e308"), nvalue.KindDouble, nvalue.Underflow},
		{"double to timestamp", nvalue.Double(1e19), nvalue.KindTimestamp, nvalue.Overflow},
		{"text to decimal", nvalue.TempText("123456789012345678901234567"), nvalue.KindDecimal, nvalue.Overflow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.v.CastAs(tt.to)
			require.ErrorIs(t, err, nvalue.ErrOutOfRange)
			assert.Equal(t, tt.dir, nvalue.RangeDirection(err))
		})
	}
}

func TestCastFromText(t *testing.T) {
	got, err := nvalue.TempText(" 42 ").CastAs(nvalue.KindInteger)
	require.NoError(t, err)
	assert.Equal(t, nvalue.Integer(42), got)

	got, err = nvalue.TempText("-2.5e1").CastAs(nvalue.KindDouble)
	require.NoError(t, err)
	assert.Equal(t, nvalue.Double(-25), got)

	got, err = nvalue.TempText("1.5").CastAs(nvalue.KindDecimal)
	require.NoError(t, err)
	assert.Equal(t, "1.500000000000", got.String())

	got, err = nvalue.TempText("FALSE").CastAs(nvalue.KindBoolean)
	require.NoError(t, err)
	assert.Equal(t, nvalue.False, got)

	got, err = nvalue.TempText("2020-01-02").CastAs(nvalue.KindTimestamp)
	require.NoError(t, err)
	assert.Equal(t, nvalue.Timestamp(time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC).UnixMicro()), got)

	got, err = nvalue.TempText("2020-01-02 03:04:05").CastAs(nvalue.KindTimestamp)
	require.NoError(t, err)
	assert.Equal(t, "2020-01-02 03:04:05.000000", got.String())

	got, err = nvalue.TempText("2020-01-02 03:04:05.123456").CastAs(nvalue.KindTimestamp)
	require.NoError(t, err)
	assert.Equal(t, "2020-01-02 03:04:05.123456", got.String())

	for _, bad := range []struct {
		text string
		to   nvalue.Kind
	}{
		{"42x", nvalue.KindInteger},
		{"", nvalue.KindBigInt},
		{"1.5", nvalue.KindInteger},
		{"abc", nvalue.KindDouble},
		{"1.2.3", nvalue.KindDecimal},
		{"yes", nvalue.KindBoolean},
		{"2020-13-45", nvalue.KindTimestamp},
	} {
		_, err := nvalue.TempText(bad.text).CastAs(bad.to)
		assert.ErrorIs(t, err, nvalue.ErrMalformed, "%q to %s", bad.text, bad.to)
	}
}

func TestCastToText(t *testing.T) {
	tests := []struct {
		v    nvalue.Value
		want string
	}{
		{nvalue.Integer(-7), "-7"},
		{nvalue.Double(1.5), "1.5E0"},
		{nvalue.Double(0), "0E0"},
		{nvalue.Double(-1.2345678e-5), "-1.234568E-5"},
		{mustDecimal(t, "3.25"), "3.250000000000"},
		{nvalue.Timestamp(86_400_000_001), "1970-01-02 00:00:00.000001"},
		{nvalue.True, "true"},
	}

	for _, tt := range tests {
		got, err := tt.v.CastAs(nvalue.KindText)
		require.NoError(t, err)
		text, ok := got.(nvalue.Text)
		require.True(t, ok)
		assert.Equal(t, tt.want, text.String())
		require.NoError(t, text.Release())
	}
}

func TestCastTextBinaryShareBytes(t *testing.T) {
	text := nvalue.TempText("hi")
	got, err := text.CastAs(nvalue.KindBinary)
	require.NoError(t, err)

	bin, ok := got.(nvalue.Binary)
	require.True(t, ok)
	assert.Equal(t, []byte("hi"), bin.Bytes())
	assert.Same(t, &text.Bytes()[0], &bin.Bytes()[0])

	back, err := bin.CastAs(nvalue.KindText)
	require.NoError(t, err)
	assert.Equal(t, "hi", back.String())
	require.NoError(t, text.Release())
}

func TestCastUnsupported(t *testing.T) {
	arr, err := nvalue.NewArray(nvalue.KindInteger, nvalue.Integer(1))
	require.NoError(t, err)

	tests := []struct {
		name string
		v    nvalue.Value
		to   nvalue.Kind
	}{
		{"to array", nvalue.Integer(1), nvalue.KindArray},
		{"to address", nvalue.Integer(1), nvalue.KindAddress},
		{"to null", nvalue.Integer(1), nvalue.KindNull},
		{"to invalid", nvalue.TempText("x"), nvalue.KindInvalid},
		{"null to array", nvalue.NullInteger, nvalue.KindArray},
		{"from array", arr, nvalue.KindText},
		{"from address", nvalue.NewAddress(&struct{}{}), nvalue.KindBigInt},
		{"boolean to integer", nvalue.True, nvalue.KindInteger},
		{"integer to boolean", nvalue.Integer(1), nvalue.KindBoolean},
		{"binary to integer", nvalue.TempBinary([]byte{1}), nvalue.KindInteger},
		{"integer to binary", nvalue.Integer(1), nvalue.KindBinary},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.v.CastAs(tt.to)
			assert.ErrorIs(t, err, nvalue.ErrTypeMismatch)
		})
	}

	_, err = nvalue.Double(math.NaN()).CastAs(nvalue.KindBigInt)
	assert.ErrorIs(t, err, nvalue.ErrInvalidOperation)
}

func TestCastToTextLeavesHandlesAlone(t *testing.T) {
	live := varlen.Live()
	for i := range 1000 {
		text, err := nvalue.Double(float64(i)).CastAs(nvalue.KindText)
		require.NoError(t, err)
		require.NoError(t, nvalue.Release(text))
	}

	assert.Equal(t, live, varlen.Live())

	unreleased, err := nvalue.BigInt(12).CastAs(nvalue.KindText)
	require.NoError(t, err)
	assert.Zero(t, unreleased.(nvalue.Text).Handle())
	assert.Equal(t, live, varlen.Live())
}
