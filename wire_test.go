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
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/sqlcore/nvalue"
	"github.com/sqlcore/nvalue/serialize"
	"github.com/sqlcore/nvalue/varlen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWireScalarRoundTrip(t *testing.T) {
	values := []nvalue.Value{
		nvalue.TinyInt(7),
		nvalue.SmallInt(-300),
		nvalue.Integer(1 << 20),
		nvalue.NullInteger,
		nvalue.BigInt(-1),
		nvalue.Timestamp(123456789),
		nvalue.Double(3.25),
		nvalue.NullDouble,
		mustDecimal(t, "-98765.4321"),
		nvalue.NullDecimal,
		nvalue.True,
		nvalue.NullBoolean,
		nvalue.Null{},
	}

	for _, v := range values {
		out := serialize.NewOutput(32)
		require.NoError(t, nvalue.SerializeTagged(v, out))

		got, err := nvalue.DeserializeTagged(serialize.NewInput(out.Bytes()), nil)
		require.NoError(t, err)
		assert.Equal(t, v, got, "%s %s", v.Kind(), v)
	}
}

func TestWireLayout(t *testing.T) {
	out := serialize.NewOutput(64)
	require.NoError(t, nvalue.Serialize(nvalue.SmallInt(0x0102), out))
	require.NoError(t, nvalue.Serialize(nvalue.TempText("ab"), out))
	require.NoError(t, nvalue.Serialize(nvalue.Binary{}, out))
	require.NoError(t, nvalue.Serialize(nvalue.Null{}, out))
	require.NoError(t, nvalue.Serialize(nvalue.NullDecimal, out))

	assert.Equal(t, []byte{
		0x01, 0x02,
		0, 0, 0, 2, 'a', 'b',
		0xff, 0xff, 0xff, 0xff,
		0x80, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0,
	}, out.Bytes())

	out.Reset()
	require.NoError(t, nvalue.SerializeTagged(nvalue.Null{}, out))
	assert.Equal(t, []byte{byte(nvalue.KindNull)}, out.Bytes())

	assert.ErrorIs(t, nvalue.Serialize(nvalue.NewAddress(out), out), nvalue.ErrTypeMismatch)
	assert.ErrorIs(t, nvalue.SerializeTagged(nvalue.Invalid{}, out), nvalue.ErrTypeMismatch)
}

func TestWireObjects(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)
	pool := varlen.NewAllocatorPool(mem)

	out := serialize.NewOutput(64)
	require.NoError(t, nvalue.SerializeTagged(nvalue.TempText("héllo"), out))
	require.NoError(t, nvalue.SerializeTagged(nvalue.Text{}, out))
	require.NoError(t, nvalue.SerializeTagged(nvalue.TempBinary([]byte{0, 1, 2}), out))

	in := serialize.NewInput(out.Bytes())
	text, err := nvalue.DeserializeTagged(in, pool)
	require.NoError(t, err)
	assert.Equal(t, "héllo", text.String())

	null, err := nvalue.DeserializeTagged(in, pool)
	require.NoError(t, err)
	assert.True(t, null.IsNull())
	assert.Equal(t, nvalue.KindText, null.Kind())

	bin, err := nvalue.DeserializeTagged(in, pool)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 1, 2}, bin.(nvalue.Binary).Bytes())
	assert.Zero(t, in.Remaining())

	assert.EqualValues(t, 2, pool.Stats().InUse())
	require.NoError(t, nvalue.Release(text))
	require.NoError(t, nvalue.Release(bin))
}

func TestWireArray(t *testing.T) {
	arr, err := nvalue.NewArray(nvalue.KindText, nvalue.TempText("a"), nvalue.Text{}, nvalue.TempText("bc"))
	require.NoError(t, err)

	out := serialize.NewOutput(64)
	require.NoError(t, nvalue.SerializeTagged(arr, out))
	assert.Equal(t, []byte{
		byte(nvalue.KindArray), byte(nvalue.KindText),
		0, 0, 0, 3,
		0, 0, 0, 1, 'a',
		0xff, 0xff, 0xff, 0xff,
		0, 0, 0, 2, 'b', 'c',
	}, out.Bytes())

	got, err := nvalue.DeserializeTagged(serialize.NewInput(out.Bytes()), nil)
	require.NoError(t, err)
	assert.Equal(t, arr.String(), got.String())
	assert.Equal(t, 3, got.(nvalue.Array).Len())
	require.NoError(t, nvalue.Release(got))

	out.Reset()
	require.NoError(t, nvalue.Serialize(nvalue.Array{}, out))
	got, err = nvalue.Deserialize(serialize.NewInput(out.Bytes()), nvalue.KindArray, nil)
	require.NoError(t, err)
	assert.True(t, got.IsNull())
}

func TestWireMalformed(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"unknown tag", []byte{2}},
		{"truncated integer", []byte{byte(nvalue.KindInteger), 0, 0}},
		{"negative length", []byte{byte(nvalue.KindText), 0xff, 0xff, 0xff, 0xfe}},
		{"length past end", []byte{byte(nvalue.KindBinary), 0, 0, 0, 9, 1, 2}},
		{"oversize length", []byte{byte(nvalue.KindText), 0x7f, 0xff, 0xff, 0xff}},
		{"bad boolean", []byte{byte(nvalue.KindBoolean), 5}},
		{"array count", []byte{byte(nvalue.KindArray), byte(nvalue.KindInteger), 0x10, 0, 0, 0}},
		{"array element", []byte{byte(nvalue.KindArray), byte(nvalue.KindInteger), 0, 0, 0, 1, 0}},
		{"array of unknown", []byte{byte(nvalue.KindArray), 99, 0, 0, 0, 0}},
		{"decimal too wide", []byte{
			byte(nvalue.KindDecimal),
			0x7f, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
			0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
		}},
		{"address", []byte{byte(nvalue.KindAddress)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := nvalue.DeserializeTagged(serialize.NewInput(tt.data), nil)
			assert.ErrorIs(t, err, nvalue.ErrMalformed)
		})
	}

	_, err := nvalue.DeserializeTagged(serialize.NewInput([]byte{byte(nvalue.KindBigInt), 1}), nil)
	assert.ErrorIs(t, err, serialize.ErrTruncated)
}

func TestDeserializeToRow(t *testing.T) {
	out := serialize.NewOutput(64)
	require.NoError(t, nvalue.Serialize(nvalue.TempText("row"), out))
	require.NoError(t, nvalue.Serialize(nvalue.TempText("row"), out))
	require.NoError(t, nvalue.Serialize(nvalue.Integer(9), out))
	require.NoError(t, nvalue.Serialize(nvalue.TempText("too long"), out))
	in := serialize.NewInput(out.Bytes())

	inline := nvalue.Column{Inlined: true, MaxLength: 4, InBytes: true}
	slot := make([]byte, 5)
	require.NoError(t, nvalue.DeserializeToRow(in, nvalue.KindText, slot, inline, nil, nvalue.FormatNative))
	assert.Equal(t, []byte{3, 'r', 'o', 'w', 0}, slot)

	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)
	pool := varlen.NewAllocatorPool(mem)

	handle := make([]byte, 8)
	outOfLine := nvalue.Column{MaxLength: 4, InBytes: true}
	require.NoError(t, nvalue.DeserializeToRow(in, nvalue.KindText, handle, outOfLine, pool, nvalue.FormatNative))
	got, err := nvalue.FromRow(handle, nvalue.KindText, false)
	require.NoError(t, err)
	assert.Equal(t, "row", got.String())
	require.NoError(t, nvalue.ReleaseRow(handle, nvalue.KindText, false))

	scalar := make([]byte, 4)
	require.NoError(t, nvalue.DeserializeToRow(in, nvalue.KindInteger, scalar, nvalue.Column{}, nil, nvalue.FormatNative))
	got, err = nvalue.FromRow(scalar, nvalue.KindInteger, false)
	require.NoError(t, err)
	assert.Equal(t, nvalue.Integer(9), got)

	err = nvalue.DeserializeToRow(in, nvalue.KindText, slot, inline, nil, nvalue.FormatNative)
	assert.ErrorIs(t, err, nvalue.ErrObjectSize)
}

func TestDeserializeReplicationDecimal(t *testing.T) {
	dec := mustDecimal(t, "42.5")

	export := serialize.NewExportOutput(make([]byte, 18))
	require.NoError(t, nvalue.SerializeExport(dec, export))

	slot := make([]byte, 16)
	in := serialize.NewInput(export.Bytes())
	require.NoError(t, nvalue.DeserializeToRow(in, nvalue.KindDecimal, slot, nvalue.Column{}, nil, nvalue.FormatReplication))

	got, err := nvalue.FromRow(slot, nvalue.KindDecimal, false)
	require.NoError(t, err)
	assert.Equal(t, dec, got)

	bad := append([]byte(nil), export.Bytes()...)
	bad[0] = 4
	err = nvalue.DeserializeToRow(serialize.NewInput(bad), nvalue.KindDecimal, slot, nvalue.Column{}, nil, nvalue.FormatReplication)
	assert.ErrorIs(t, err, nvalue.ErrMalformed)
	assert.ErrorContains(t, err, "unexpected decimal scale 4")

	bad[0], bad[1] = nvalue.DecimalScale, 8
	err = nvalue.DeserializeToRow(serialize.NewInput(bad), nvalue.KindDecimal, slot, nvalue.Column{}, nil, nvalue.FormatReplication)
	assert.ErrorContains(t, err, "unexpected number of decimal precision bytes 8")

	native := serialize.NewOutput(16)
	require.NoError(t, nvalue.Serialize(dec, native))
	require.NoError(t, nvalue.DeserializeToRow(serialize.NewInput(native.Bytes()), nvalue.KindDecimal,
		slot, nvalue.Column{}, nil, nvalue.FormatNative))
	got, err = nvalue.FromRow(slot, nvalue.KindDecimal, false)
	require.NoError(t, err)
	assert.Equal(t, dec, got)
}
