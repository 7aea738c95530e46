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
	"encoding/binary"
	"fmt"
	"math"

	"github.com/apache/arrow-go/v18/arrow/decimal128"
	"github.com/sqlcore/nvalue/varlen"
)

// Row storage layout: fixed width scalars are little-endian, decimals
// are the low word followed by the high word, inline objects are a
// length prefix plus payload and out-of-line objects are an eight byte
// varlen handle, zero for null.

// handleSize is the width of an out-of-line object slot.
const handleSize = 8

// Column describes how a text or binary column is laid out. Scalar
// kinds ignore it.
type Column struct {
	Inlined   bool
	MaxLength int
	// InBytes measures text limits in bytes rather than characters.
	// Binary limits are always in bytes.
	InBytes bool
}

// StorageSize is the fixed slot width of a kind when stored out of line
// or as a scalar.
func StorageSize(k Kind) (int, error) {
	switch k {
	case KindTinyInt, KindBoolean:
		return 1, nil
	case KindSmallInt:
		return 2, nil
	case KindInteger:
		return 4, nil
	case KindBigInt, KindTimestamp, KindDouble:
		return 8, nil
	case KindDecimal:
		return decimalWidth, nil
	case KindText, KindBinary:
		return handleSize, nil
	}

	return 0, fmt.Errorf("%w: no row storage for kind %s", ErrTypeMismatch, k)
}

// SlotSize is the width of the column slot for kind k.
func (c Column) SlotSize(k Kind) (int, error) {
	if k.IsObject() && c.Inlined {
		return c.inlineSize(k), nil
	}

	return StorageSize(k)
}

func (c Column) inlineSize(k Kind) int {
	n := c.capacity(k)

	return varlen.PrefixWidth(n) + n
}

func shortSlot(k Kind, have, want int) error {
	return fmt.Errorf("%w: %s slot of %d bytes, need %d", ErrMalformed, k, have, want)
}

// FromRow materializes a value from a column slot. Inline objects borrow
// the slot and out-of-line objects borrow the row's varlen buffer. Use
// DetachFromAlias to keep such a value past ReleaseRow.
func FromRow(storage []byte, k Kind, inlined bool) (Value, error) {
	if k.IsObject() && inlined {
		o, err := borrowObject(storage)
		if err != nil {
			return nil, err
		}

		return withObject(k, o), nil
	}

	size, err := StorageSize(k)
	if err != nil {
		return nil, err
	}

	if len(storage) < size {
		return nil, shortSlot(k, len(storage), size)
	}

	le := binary.LittleEndian
	switch k {
	case KindTinyInt:
		return TinyInt(int8(storage[0])), nil
	case KindBoolean:
		return Boolean(int8(storage[0])), nil
	case KindSmallInt:
		return SmallInt(int16(le.Uint16(storage))), nil
	case KindInteger:
		return Integer(int32(le.Uint32(storage))), nil
	case KindBigInt:
		return BigInt(int64(le.Uint64(storage))), nil
	case KindTimestamp:
		return Timestamp(int64(le.Uint64(storage))), nil
	case KindDouble:
		return Double(math.Float64frombits(le.Uint64(storage))), nil
	case KindDecimal:
		lo, hi := le.Uint64(storage), int64(le.Uint64(storage[8:]))

		return Decimal{num: decimal128.New(hi, lo)}, nil
	}

	o, err := objectFromHandle(varlen.Handle(le.Uint64(storage)))
	if err != nil {
		return nil, err
	}

	return withObject(k, o), nil
}

// writeScalar stores a fixed width value. It reports false for object
// kinds.
func writeScalar(v Value, storage []byte) (bool, error) {
	size, err := StorageSize(KindOf(v))
	if err != nil {
		return false, err
	}

	if v.Kind().IsObject() {
		return false, nil
	}

	if len(storage) < size {
		return true, shortSlot(v.Kind(), len(storage), size)
	}

	le := binary.LittleEndian
	switch v := v.(type) {
	case TinyInt:
		storage[0] = byte(v)
	case Boolean:
		storage[0] = byte(v)
	case SmallInt:
		le.PutUint16(storage, uint16(v))
	case Integer:
		le.PutUint32(storage, uint32(v))
	case BigInt:
		le.PutUint64(storage, uint64(v))
	case Timestamp:
		le.PutUint64(storage, uint64(v))
	case Double:
		le.PutUint64(storage, math.Float64bits(float64(v)))
	case Decimal:
		le.PutUint64(storage, v.num.LowBits())
		le.PutUint64(storage[8:], uint64(v.num.HighBits()))
	}

	return true, nil
}

func putHandle(storage []byte, h varlen.Handle) error {
	if len(storage) < handleSize {
		return shortSlot(KindText, len(storage), handleSize)
	}

	binary.LittleEndian.PutUint64(storage, uint64(h))

	return nil
}

// ToRow writes v into a column slot. Out-of-line objects are copied into
// a new buffer from pool, or the scratch pool when pool is nil; the row
// owns that buffer afterwards.
func ToRow(v Value, storage []byte, col Column, pool varlen.Pool) error {
	if done, err := writeScalar(v, storage); done || err != nil {
		return err
	}

	if col.Inlined {
		return InlineCopy(v, storage, col.MaxLength, col.InBytes)
	}

	o, k, _ := asObject(v)

	return storeOutOfLine(k, o.Bytes(), o.IsNull(), storage, col, pool)
}

func storeOutOfLine(k Kind, data []byte, null bool, storage []byte, col Column, pool varlen.Pool) error {
	if len(storage) < handleSize {
		return shortSlot(k, len(storage), handleSize)
	}

	if null {
		return putHandle(storage, 0)
	}

	if err := checkObjectSize(k, data, col.MaxLength, col.InBytes); err != nil {
		return err
	}

	copied, err := varlen.CreateFrom(data, pool)
	if err != nil {
		return err
	}

	h, err := copied.Register()
	if err != nil {
		return err
	}

	return putHandle(storage, h)
}

// ToRowShared writes v into a column slot without copying owned
// out-of-line payloads: the slot receives the value's own handle. A
// borrowed payload is first copied into the scratch pool.
func ToRowShared(v Value, storage []byte, col Column) error {
	if done, err := writeScalar(v, storage); done || err != nil {
		return err
	}

	if col.Inlined {
		return InlineCopy(v, storage, col.MaxLength, col.InBytes)
	}

	o, k, _ := asObject(v)
	if o.IsNull() {
		return putHandle(storage, 0)
	}

	if err := checkObjectSize(k, o.Bytes(), col.MaxLength, col.InBytes); err != nil {
		return err
	}

	if o.IsBorrowed() {
		owned, err := ownedObject(o.Bytes(), nil)
		if err != nil {
			return err
		}
		o = owned
	}

	h, err := o.register()
	if err != nil {
		return err
	}

	return putHandle(storage, h)
}

// ReleaseRow frees the out-of-line buffer referenced by an object slot.
// Inline slots and scalar kinds hold nothing to free.
func ReleaseRow(storage []byte, k Kind, inlined bool) error {
	if !k.IsObject() || inlined {
		return nil
	}

	if len(storage) < handleSize {
		return shortSlot(k, len(storage), handleSize)
	}

	return varlen.DestroyHandles(varlen.Handle(binary.LittleEndian.Uint64(storage)))
}
