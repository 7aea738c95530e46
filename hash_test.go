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

	"github.com/sqlcore/nvalue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashEqualAcrossKinds(t *testing.T) {
	groups := [][]nvalue.Value{
		{nvalue.TinyInt(2), nvalue.SmallInt(2), nvalue.Integer(2), nvalue.BigInt(2),
			nvalue.Timestamp(2), nvalue.Double(2), nvalue.DecimalFromInt64(2)},
		{mustDecimal(t, "1.5"), nvalue.Double(1.5)},
		{nvalue.Double(math.NaN()), nvalue.Double(-math.NaN())},
		{nvalue.NullInteger, nvalue.NullDouble, nvalue.Text{}, nvalue.Null{}, nvalue.NullBoolean},
		{nvalue.TempText("ab"), nvalue.TempBinary([]byte("ab"))},
	}

	for _, g := range groups {
		want := nvalue.Hash(g[0], 7)
		for _, v := range g[1:] {
			assert.Equal(t, want, nvalue.Hash(v, 7), "%s %s vs %s %s", g[0].Kind(), g[0], v.Kind(), v)
		}
	}
}

func TestHashFollowsComparison(t *testing.T) {
	pairs := []struct {
		name string
		a, b nvalue.Value
	}{
		{"bigint past 2^53", nvalue.BigInt(9007199254740993), nvalue.Double(9007199254740992)},
		{"decimal past 2^53", mustDecimal(t, "9007199254740993"), nvalue.Double(9007199254740992)},
		{"decimal fraction", mustDecimal(t, "0.1"), nvalue.Double(0.1)},
		{"timestamp", nvalue.Timestamp(-4), nvalue.Double(-4)},
		{"negative zero", nvalue.Double(0), nvalue.Double(math.Copysign(0, -1))},
		{"zero decimal", nvalue.DecimalFromInt64(0), nvalue.Double(math.Copysign(0, -1))},
	}

	for _, tt := range pairs {
		t.Run(tt.name, func(t *testing.T) {
			eq, err := nvalue.Equal(tt.a, tt.b)
			require.NoError(t, err)
			require.True(t, eq)
			assert.Equal(t, nvalue.Hash(tt.a, 11), nvalue.Hash(tt.b, 11))
		})
	}
}

func TestHashDistinguishes(t *testing.T) {
	values := []nvalue.Value{
		nvalue.Integer(1),
		nvalue.Integer(2),
		nvalue.Double(1.5),
		nvalue.True,
		nvalue.False,
		nvalue.TempText("1"),
		nvalue.TempText(""),
		nvalue.NullInteger,
	}

	seen := make(map[uint64]string)
	for _, v := range values {
		h := nvalue.Hash(v, 0)
		prev, dup := seen[h]
		assert.False(t, dup, "%s collides with %s", v, prev)
		seen[h] = v.String()
	}

	assert.NotEqual(t, nvalue.Hash(nvalue.Integer(1), 0), nvalue.Hash(nvalue.Integer(1), 1))
}

func TestHashArray(t *testing.T) {
	a, err := nvalue.NewArray(nvalue.KindInteger, nvalue.Integer(1), nvalue.Integer(2))
	require.NoError(t, err)
	b, err := nvalue.NewArray(nvalue.KindInteger, nvalue.Integer(1), nvalue.Integer(2))
	require.NoError(t, err)
	c, err := nvalue.NewArray(nvalue.KindInteger, nvalue.Integer(2), nvalue.Integer(1))
	require.NoError(t, err)

	assert.Equal(t, nvalue.Hash(a, 3), nvalue.Hash(b, 3))
	assert.NotEqual(t, nvalue.Hash(a, 3), nvalue.Hash(c, 3))
}

func TestMurmurHash3(t *testing.T) {
	small, err := nvalue.MurmurHash3(nvalue.TinyInt(42))
	require.NoError(t, err)
	wide, err := nvalue.MurmurHash3(nvalue.BigInt(42))
	require.NoError(t, err)
	assert.Equal(t, small, wide)

	other, err := nvalue.MurmurHash3(nvalue.BigInt(43))
	require.NoError(t, err)
	assert.NotEqual(t, small, other)

	text, err := nvalue.MurmurHash3(nvalue.TempText("partition"))
	require.NoError(t, err)
	bin, err := nvalue.MurmurHash3(nvalue.TempBinary([]byte("partition")))
	require.NoError(t, err)
	assert.Equal(t, text, bin)

	_, err = nvalue.MurmurHash3(nvalue.Double(1))
	assert.NoError(t, err)

	_, err = nvalue.MurmurHash3(nvalue.Text{})
	assert.ErrorIs(t, err, nvalue.ErrInvalidOperation)

	_, err = nvalue.MurmurHash3(nvalue.True)
	assert.ErrorIs(t, err, nvalue.ErrTypeMismatch)

	_, err = nvalue.MurmurHash3(mustDecimal(t, "1"))
	assert.ErrorIs(t, err, nvalue.ErrTypeMismatch)
}
