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

	"github.com/sqlcore/nvalue/config"
	"github.com/sqlcore/nvalue/varlen"
)

// payload is the storage behind a non-null text or binary value.
type payload interface {
	// prefixed returns the length prefix followed by the data.
	prefixed() []byte
	data() []byte
	borrowed() bool
	handle() varlen.Handle
	release() error
}

// borrowedPayload views bytes owned by row storage. It is only valid
// until the row is changed or reclaimed.
type borrowedPayload struct {
	raw   []byte
	width int
}

func (p borrowedPayload) prefixed() []byte      { return p.raw }
func (p borrowedPayload) data() []byte          { return p.raw[p.width:] }
func (p borrowedPayload) borrowed() bool        { return true }
func (p borrowedPayload) handle() varlen.Handle { return 0 }
func (p borrowedPayload) release() error {
	return fmt.Errorf("%w: cannot release a value borrowed from row storage", ErrInvalidOperation)
}

// ownedPayload holds a pool buffer.
type ownedPayload struct {
	v *varlen.Varlen
}

func (p ownedPayload) prefixed() []byte      { return p.v.Bytes() }
func (p ownedPayload) data() []byte          { return p.v.Data() }
func (p ownedPayload) borrowed() bool        { return false }
func (p ownedPayload) handle() varlen.Handle { return p.v.Handle() }
func (p ownedPayload) release() error        { return p.v.Destroy() }

// rowPayload views an out-of-line buffer referenced by a row slot. The
// row owns the buffer and frees it with ReleaseRow.
type rowPayload struct {
	v *varlen.Varlen
}

func (p rowPayload) prefixed() []byte      { return p.v.Bytes() }
func (p rowPayload) data() []byte          { return p.v.Data() }
func (p rowPayload) borrowed() bool        { return true }
func (p rowPayload) handle() varlen.Handle { return p.v.Handle() }
func (p rowPayload) release() error {
	return fmt.Errorf("%w: cannot release a value that belongs to a row slot", ErrInvalidOperation)
}

// object is the shared part of Text and Binary. A nil payload is null.
type object struct {
	p payload
}

func (o object) IsNull() bool { return o.p == nil }

// Bytes returns the payload. The slice aliases the value's storage.
func (o object) Bytes() []byte {
	if o.p == nil {
		return nil
	}

	return o.p.data()
}

// Len is the payload length in bytes.
func (o object) Len() int { return len(o.Bytes()) }

// IsBorrowed reports whether the payload lives in row storage the value
// does not own.
func (o object) IsBorrowed() bool { return o.p != nil && o.p.borrowed() }

// Handle returns the varlen handle of an owned payload, or zero.
func (o object) Handle() varlen.Handle {
	if o.p == nil {
		return 0
	}

	return o.p.handle()
}

func (o object) prefixed() []byte {
	if o.p == nil {
		return nil
	}

	return o.p.prefixed()
}

// Release hands an owned payload back to its pool. Releasing a null is a
// no-op; releasing a borrowed value fails.
func (o object) Release() error {
	if o.p == nil {
		return nil
	}

	return o.p.release()
}

// Text is a VARCHAR value holding UTF-8 bytes.
type Text struct{ object }

func (Text) Kind() Kind { return KindText }
func (Text) isValue()   {}
func (v Text) String() string {
	if v.IsNull() {
		return nullString
	}

	return string(v.Bytes())
}

// Binary is a VARBINARY value.
type Binary struct{ object }

func (Binary) Kind() Kind { return KindBinary }
func (Binary) isValue()   {}
func (v Binary) String() string {
	if v.IsNull() {
		return nullString
	}

	return fmt.Sprintf("%X", v.Bytes())
}

func ownedObject(data []byte, pool varlen.Pool) (object, error) {
	v, err := varlen.CreateFrom(data, pool)
	if err != nil {
		return object{}, err
	}

	return object{p: ownedPayload{v: v}}, nil
}

// NewText copies s into a buffer from pool, or from the scratch pool
// when pool is nil.
func NewText(s string, pool varlen.Pool) (Text, error) {
	o, err := ownedObject([]byte(s), pool)

	return Text{o}, err
}

// NewBinary copies b into a buffer from pool, or from the scratch pool
// when pool is nil.
func NewBinary(b []byte, pool varlen.Pool) (Binary, error) {
	o, err := ownedObject(b, pool)

	return Binary{o}, err
}

// TempText copies s into the scratch pool. It panics only when s is
// longer than varlen.MaxLength.
func TempText(s string) Text {
	t, err := NewText(s, nil)
	if err != nil {
		panic(err)
	}

	return t
}

// TempBinary copies b into the scratch pool. It panics only when b is
// longer than varlen.MaxLength.
func TempBinary(b []byte) Binary {
	v, err := NewBinary(b, nil)
	if err != nil {
		panic(err)
	}

	return v
}

// borrowObject views a length prefixed payload at the start of raw.
func borrowObject(raw []byte) (object, error) {
	length, width, null, err := varlen.ReadPrefix(raw)
	if err != nil {
		return object{}, errors.Join(ErrMalformed, err)
	}

	if null {
		return object{}, nil
	}

	if width+length > len(raw) {
		return object{}, fmt.Errorf("%w: inline object of %d bytes overruns a %d byte slot",
			ErrMalformed, length, len(raw))
	}

	return object{p: borrowedPayload{raw: raw[:width+length], width: width}}, nil
}

func objectFromHandle(h varlen.Handle) (object, error) {
	if h == 0 {
		return object{}, nil
	}

	v, err := varlen.Resolve(h)
	if err != nil {
		return object{}, errors.Join(ErrMalformed, err)
	}

	return object{p: rowPayload{v: v}}, nil
}

// register enters an owned payload in the handle table so a row slot
// can share it.
func (o object) register() (varlen.Handle, error) {
	owned, ok := o.p.(ownedPayload)
	if !ok {
		return 0, fmt.Errorf("%w: only an owned payload can be shared with a row", ErrInvalidOperation)
	}

	return owned.v.Register()
}

func asObject(v Value) (object, Kind, bool) {
	switch v := v.(type) {
	case Text:
		return v.object, KindText, true
	case Binary:
		return v.object, KindBinary, true
	}

	return object{}, KindOf(v), false
}

// samePayload reports whether a and b are objects over the same bytes.
func samePayload(a, b Value) bool {
	oa, _, okA := asObject(a)
	ob, _, okB := asObject(b)
	if !okA || !okB || oa.IsNull() || ob.IsNull() {
		return false
	}

	return &oa.prefixed()[0] == &ob.prefixed()[0]
}

func withObject(k Kind, o object) Value {
	if k == KindBinary {
		return Binary{o}
	}

	return Text{o}
}

// DetachFromAlias replaces a borrowed payload with an owned copy taken
// from pool, or from the scratch pool when pool is nil. It must be
// called before the row the value was read from changes. Other values
// are returned unchanged.
func DetachFromAlias(v Value, pool varlen.Pool) (Value, error) {
	switch v := v.(type) {
	case Array:
		return v.mapItems(func(item Value) (Value, error) { return DetachFromAlias(item, pool) })
	}

	o, k, ok := asObject(v)
	if !ok || !o.IsBorrowed() {
		return v, nil
	}

	owned, err := ownedObject(o.Bytes(), pool)
	if err != nil {
		return nil, err
	}

	return withObject(k, owned), nil
}

// CopyDetached returns a value that does not depend on any row buffer,
// copying borrowed payloads into the scratch pool.
func CopyDetached(v Value) (Value, error) { return DetachFromAlias(v, nil) }

// Clone deep copies any text or binary payload, borrowed or owned, into
// the scratch pool. The caller still owns v.
func Clone(v Value) (Value, error) {
	switch v := v.(type) {
	case Array:
		return v.mapItems(Clone)
	}

	o, k, ok := asObject(v)
	if !ok || o.IsNull() {
		return v, nil
	}

	owned, err := ownedObject(o.Bytes(), nil)
	if err != nil {
		return nil, err
	}

	return withObject(k, owned), nil
}

// Release frees the owned storage of v. Arrays release every item.
// Scalars and nulls need no release.
func Release(v Value) error {
	switch v := v.(type) {
	case Text:
		return v.Release()
	case Binary:
		return v.Release()
	case Array:
		return v.Release()
	}

	return nil
}

// capacity is the largest payload in bytes a column slot must hold.
func (c Column) capacity(k Kind) int {
	if k == KindBinary || c.InBytes {
		return c.MaxLength
	}

	return c.MaxLength * 4
}

// InlineCopy validates v against the column limit and writes its prefix
// and payload into slot, zeroing the rest of the slot.
func InlineCopy(v Value, slot []byte, maxLength int, inBytes bool) error {
	o, k, ok := asObject(v)
	if !ok {
		return fmt.Errorf("%w: cannot inline %s", ErrTypeMismatch, k)
	}

	return inlineBytes(k, o.Bytes(), o.IsNull(), slot, Column{Inlined: true, MaxLength: maxLength, InBytes: inBytes})
}

func inlineBytes(k Kind, data []byte, null bool, slot []byte, col Column) error {
	size := col.inlineSize(k)
	if len(slot) < size {
		return fmt.Errorf("%w: inline slot of %d bytes, column needs %d",
			ErrInvalidOperation, len(slot), size)
	}

	if null {
		clear(slot[:size])
		varlen.PutNullPrefix(slot)

		return nil
	}

	if err := checkObjectSize(k, data, col.MaxLength, col.InBytes); err != nil {
		return err
	}

	clear(slot[:size])
	n, err := varlen.PutPrefix(slot, len(data))
	if err != nil {
		return err
	}
	copy(slot[n:], data)

	return nil
}

// checkObjectSize enforces a column's declared length. Text columns
// declared in characters count UTF-8 code points.
func checkObjectSize(k Kind, data []byte, maxLength int, inBytes bool) error {
	if maxLength == 0 {
		return fmt.Errorf("%w: zero maxLength for object type %s", ErrObjectSize, k)
	}

	length := len(data)
	switch {
	case k == KindBinary:
		if length > maxLength {
			return fmt.Errorf("%w: The size %d of the value exceeds the size of the VARBINARY(%d) column.",
				ErrObjectSize, length, maxLength)
		}
	case inBytes:
		if length > maxLength {
			return fmt.Errorf("%w: The size %d of the value '%s' exceeds the size of the VARCHAR(%d BYTES) column.",
				ErrObjectSize, length, previewBytes(data), maxLength)
		}
	default:
		if !varlen.FitsChars(data, maxLength) {
			return fmt.Errorf("%w: The size %d of the value '%s' exceeds the size of the VARCHAR(%d) column.",
				ErrObjectSize, varlen.CharLength(data), previewChars(data), maxLength)
		}
	}

	return nil
}

func previewBytes(data []byte) string {
	limit := config.EnvConfig.MessagePreview
	if len(data) > limit {
		return string(data[:limit]) + "..."
	}

	return string(data)
}

func previewChars(data []byte) string {
	limit := config.EnvConfig.MessagePreview
	if varlen.CharLength(data) > limit {
		return string(varlen.CharPrefix(data, limit)) + "..."
	}

	return string(data)
}

// CharLength returns the number of code points of a text value, or null
// for a null input.
func CharLength(v Value) (Value, error) {
	t, err := As[Text](v)
	if err != nil {
		return nil, err
	}

	if t.IsNull() {
		return NullInteger, nil
	}

	return Integer(varlen.CharLength(t.Bytes())), nil
}

// OctetLength returns the byte length of a text or binary value.
func OctetLength(v Value) (Value, error) {
	o, k, ok := asObject(v)
	if !ok {
		return nil, fmt.Errorf("%w: OCTET_LENGTH of %s", ErrTypeMismatch, k)
	}

	if o.IsNull() {
		return NullInteger, nil
	}

	return Integer(o.Len()), nil
}
