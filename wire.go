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

	"github.com/apache/arrow-go/v18/arrow/decimal128"
	"github.com/sqlcore/nvalue/serialize"
	"github.com/sqlcore/nvalue/varlen"
)

// Format selects the wire layout read by DeserializeToRow.
type Format uint8

const (
	// FormatNative is the parameter and tuple layout.
	FormatNative Format = iota
	// FormatReplication prefixes decimals with their scale and width.
	FormatReplication
)

// nullLength is the four byte object length of a null text or binary.
const nullLength = -1

func wireError(err error) error {
	if errors.Is(err, ErrMalformed) {
		return err
	}

	return errors.Join(ErrMalformed, err)
}

// Serialize writes v without a kind tag. The untyped null writes
// nothing; address and invalid values cannot be serialized.
func Serialize(v Value, out *serialize.Output) error {
	switch v := v.(type) {
	case TinyInt:
		out.WriteInt8(int8(v))
	case Boolean:
		out.WriteInt8(int8(v))
	case SmallInt:
		out.WriteInt16(int16(v))
	case Integer:
		out.WriteInt32(int32(v))
	case BigInt:
		out.WriteInt64(int64(v))
	case Timestamp:
		out.WriteInt64(int64(v))
	case Double:
		out.WriteFloat64(float64(v))
	case Decimal:
		out.WriteInt64(v.num.HighBits())
		out.WriteUint64(v.num.LowBits())
	case Text:
		return writeObject(v.object, out)
	case Binary:
		return writeObject(v.object, out)
	case Array:
		return writeArray(v, out)
	case Null:
	default:
		return fmt.Errorf("%w: cannot serialize %s", ErrTypeMismatch, KindOf(v))
	}

	return nil
}

// SerializeTagged writes the one byte kind tag followed by v.
func SerializeTagged(v Value, out *serialize.Output) error {
	switch KindOf(v) {
	case KindAddress, KindInvalid:
		return fmt.Errorf("%w: cannot serialize %s", ErrTypeMismatch, KindOf(v))
	}

	if err := out.WriteByte(byte(v.Kind())); err != nil {
		return err
	}

	return Serialize(v, out)
}

func writeObject(o object, out *serialize.Output) error {
	if o.IsNull() {
		out.WriteInt32(nullLength)

		return nil
	}

	out.WriteInt32(int32(o.Len()))
	_, err := out.Write(o.Bytes())

	return err
}

func writeArray(a Array, out *serialize.Output) error {
	if err := out.WriteByte(byte(a.elem)); err != nil {
		return err
	}

	if a.IsNull() {
		out.WriteInt32(nullLength)

		return nil
	}

	out.WriteInt32(int32(a.Len()))
	for _, it := range a.items {
		if err := Serialize(it, out); err != nil {
			return err
		}
	}

	return nil
}

// DeserializeTagged reads a kind tag and then a value of that kind.
func DeserializeTagged(in *serialize.Input, pool varlen.Pool) (Value, error) {
	tag, err := in.ReadByte()
	if err != nil {
		return nil, wireError(err)
	}

	k, err := KindFromCode(tag)
	if err != nil {
		return nil, err
	}

	return Deserialize(in, k, pool)
}

// Deserialize reads an untagged value of kind k. Text and binary
// payloads are copied into pool, or the scratch pool when pool is nil.
func Deserialize(in *serialize.Input, k Kind, pool varlen.Pool) (Value, error) {
	v, err := deserialize(in, k, pool)
	if err != nil {
		return nil, wireError(err)
	}

	return v, nil
}

func deserialize(in *serialize.Input, k Kind, pool varlen.Pool) (Value, error) {
	switch k {
	case KindTinyInt:
		i, err := in.ReadInt8()

		return TinyInt(i), err
	case KindBoolean:
		b, err := in.ReadInt8()
		if err != nil {
			return nil, err
		}

		switch v := Boolean(b); v {
		case True, False, NullBoolean:
			return v, nil
		}

		return nil, fmt.Errorf("%w: boolean byte %d", ErrMalformed, b)
	case KindSmallInt:
		i, err := in.ReadInt16()

		return SmallInt(i), err
	case KindInteger:
		i, err := in.ReadInt32()

		return Integer(i), err
	case KindBigInt:
		i, err := in.ReadInt64()

		return BigInt(i), err
	case KindTimestamp:
		i, err := in.ReadInt64()

		return Timestamp(i), err
	case KindDouble:
		f, err := in.ReadFloat64()

		return Double(f), err
	case KindDecimal:
		return readDecimalWords(in)
	case KindText, KindBinary:
		data, null, err := readObject(in)
		if err != nil || null {
			return withObject(k, object{}), err
		}

		o, err := ownedObject(data, pool)
		if err != nil {
			return nil, err
		}

		return withObject(k, o), nil
	case KindArray:
		return readArray(in, pool)
	case KindNull:
		return Null{}, nil
	}

	return nil, fmt.Errorf("%w: cannot deserialize %s", ErrTypeMismatch, k)
}

func readDecimalWords(in *serialize.Input) (Decimal, error) {
	hi, err := in.ReadInt64()
	if err != nil {
		return NullDecimal, err
	}

	lo, err := in.ReadUint64()
	if err != nil {
		return NullDecimal, err
	}

	d := Decimal{num: decimal128.New(hi, lo)}
	if d.IsNull() {
		return d, nil
	}

	if _, err := decimalFromBig(d.big()); err != nil {
		return NullDecimal, fmt.Errorf("%w: decimal outside 38 digits: %w", ErrMalformed, err)
	}

	return d, nil
}

// readObject returns a view of the next length prefixed payload.
func readObject(in *serialize.Input) ([]byte, bool, error) {
	n, err := in.ReadInt32()
	if err != nil {
		return nil, false, err
	}

	switch {
	case n == nullLength:
		return nil, true, nil
	case n < 0 || n > varlen.MaxLength:
		return nil, false, fmt.Errorf("%w: object length %d", ErrMalformed, n)
	}

	data, err := in.ReadBytes(int(n))

	return data, false, err
}

func readArray(in *serialize.Input, pool varlen.Pool) (Value, error) {
	tag, err := in.ReadByte()
	if err != nil {
		return nil, err
	}

	elem, err := KindFromCode(tag)
	if err != nil {
		return nil, err
	}

	n, err := in.ReadInt32()
	if err != nil {
		return nil, err
	}

	switch {
	case n == nullLength:
		return Array{elem: elem}, nil
	case n < 0 || int(n) > in.Remaining():
		return nil, fmt.Errorf("%w: array of %d items with %d bytes left",
			ErrMalformed, n, in.Remaining())
	}

	items := make([]Value, 0, n)
	for range n {
		it, err := deserialize(in, elem, pool)
		if err != nil {
			_ = Array{items: items}.Release()

			return nil, err
		}
		items = append(items, it)
	}

	arr, err := NewArray(elem, items...)
	if err != nil {
		_ = Array{items: items}.Release()
	}

	return arr, err
}

// DeserializeToRow decodes one value of kind k straight into a column
// slot. Inline objects are written without an intermediate copy;
// out-of-line objects are copied into pool.
func DeserializeToRow(in *serialize.Input, k Kind, storage []byte, col Column, pool varlen.Pool, format Format) error {
	if err := deserializeToRow(in, k, storage, col, pool, format); err != nil {
		if errors.Is(err, ErrObjectSize) {
			return err
		}

		return wireError(err)
	}

	return nil
}

func deserializeToRow(in *serialize.Input, k Kind, storage []byte, col Column, pool varlen.Pool, format Format) error {
	switch k {
	case KindText, KindBinary:
		data, null, err := readObject(in)
		if err != nil {
			return err
		}

		if col.Inlined {
			return inlineBytes(k, data, null, storage, col)
		}

		return storeOutOfLine(k, data, null, storage, col, pool)
	case KindDecimal:
		if format == FormatReplication {
			if err := readDecimalHeader(in); err != nil {
				return err
			}
		}
	}

	v, err := deserialize(in, k, pool)
	if err != nil {
		return err
	}

	_, err = writeScalar(v, storage)

	return err
}

func readDecimalHeader(in *serialize.Input) error {
	scale, err := in.ReadByte()
	if err != nil {
		return err
	}

	if scale != DecimalScale {
		return fmt.Errorf("%w: unexpected decimal scale %d", ErrMalformed, scale)
	}

	width, err := in.ReadByte()
	if err != nil {
		return err
	}

	if width != decimalWidth {
		return fmt.Errorf("%w: unexpected number of decimal precision bytes %d", ErrMalformed, width)
	}

	return nil
}
