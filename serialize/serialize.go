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

// Package serialize provides the big-endian byte streams used by the
// wire, parameter and export formats.
package serialize

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

var (
	ErrTruncated  = errors.New("serialized input truncated")
	ErrBufferFull = errors.New("export buffer full")
)

// Input reads big-endian values from a byte slice. Reads past the end
// fail with ErrTruncated and leave the position unchanged.
type Input struct {
	buf []byte
	pos int
}

func NewInput(buf []byte) *Input { return &Input{buf: buf} }

func (in *Input) Remaining() int { return len(in.buf) - in.pos }

func (in *Input) Position() int { return in.pos }

func (in *Input) take(n int) ([]byte, error) {
	if n < 0 || n > in.Remaining() {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, have %d",
			ErrTruncated, n, in.pos, in.Remaining())
	}

	out := in.buf[in.pos : in.pos+n]
	in.pos += n

	return out, nil
}

func (in *Input) ReadByte() (byte, error) {
	b, err := in.take(1)
	if err != nil {
		return 0, err
	}

	return b[0], nil
}

func (in *Input) ReadInt8() (int8, error) {
	b, err := in.ReadByte()

	return int8(b), err
}

func (in *Input) ReadInt16() (int16, error) {
	b, err := in.take(2)
	if err != nil {
		return 0, err
	}

	return int16(binary.BigEndian.Uint16(b)), nil
}

func (in *Input) ReadInt32() (int32, error) {
	b, err := in.take(4)
	if err != nil {
		return 0, err
	}

	return int32(binary.BigEndian.Uint32(b)), nil
}

func (in *Input) ReadInt64() (int64, error) {
	b, err := in.take(8)
	if err != nil {
		return 0, err
	}

	return int64(binary.BigEndian.Uint64(b)), nil
}

func (in *Input) ReadUint64() (uint64, error) {
	b, err := in.take(8)
	if err != nil {
		return 0, err
	}

	return binary.BigEndian.Uint64(b), nil
}

func (in *Input) ReadFloat64() (float64, error) {
	u, err := in.ReadUint64()

	return math.Float64frombits(u), err
}

// ReadBytes returns a view of the next n bytes. The view aliases the
// input buffer.
func (in *Input) ReadBytes(n int) ([]byte, error) { return in.take(n) }

// Output accumulates big-endian values in a growable buffer.
type Output struct {
	buf []byte
}

func NewOutput(capacity int) *Output { return &Output{buf: make([]byte, 0, capacity)} }

func (o *Output) Bytes() []byte { return o.buf }

func (o *Output) Len() int { return len(o.buf) }

func (o *Output) Reset() { o.buf = o.buf[:0] }

func (o *Output) WriteByte(b byte) error {
	o.buf = append(o.buf, b)

	return nil
}

func (o *Output) WriteInt8(v int8) { o.buf = append(o.buf, byte(v)) }

func (o *Output) WriteInt16(v int16) { o.buf = binary.BigEndian.AppendUint16(o.buf, uint16(v)) }

func (o *Output) WriteInt32(v int32) { o.buf = binary.BigEndian.AppendUint32(o.buf, uint32(v)) }

func (o *Output) WriteInt64(v int64) { o.buf = binary.BigEndian.AppendUint64(o.buf, uint64(v)) }

func (o *Output) WriteUint64(v uint64) { o.buf = binary.BigEndian.AppendUint64(o.buf, v) }

func (o *Output) WriteFloat64(v float64) { o.WriteUint64(math.Float64bits(v)) }

func (o *Output) Write(p []byte) (int, error) {
	o.buf = append(o.buf, p...)

	return len(p), nil
}

// ExportOutput writes big-endian values into a fixed buffer. The first
// write that does not fit sets a sticky ErrBufferFull and later writes
// are dropped.
type ExportOutput struct {
	buf []byte
	pos int
	err error
}

func NewExportOutput(buf []byte) *ExportOutput { return &ExportOutput{buf: buf} }

func (o *ExportOutput) Err() error { return o.err }

func (o *ExportOutput) Position() int { return o.pos }

// Bytes returns the written prefix of the buffer.
func (o *ExportOutput) Bytes() []byte { return o.buf[:o.pos] }

func (o *ExportOutput) reserve(n int) []byte {
	if o.err != nil {
		return nil
	}

	if n > len(o.buf)-o.pos {
		o.err = fmt.Errorf("%w: need %d bytes at offset %d, capacity %d",
			ErrBufferFull, n, o.pos, len(o.buf))

		return nil
	}

	out := o.buf[o.pos : o.pos+n]
	o.pos += n

	return out
}

func (o *ExportOutput) WriteInt8(v int8) {
	if b := o.reserve(1); b != nil {
		b[0] = byte(v)
	}
}

func (o *ExportOutput) WriteInt16(v int16) {
	if b := o.reserve(2); b != nil {
		binary.BigEndian.PutUint16(b, uint16(v))
	}
}

func (o *ExportOutput) WriteInt32(v int32) {
	if b := o.reserve(4); b != nil {
		binary.BigEndian.PutUint32(b, uint32(v))
	}
}

func (o *ExportOutput) WriteInt64(v int64) { o.WriteUint64(uint64(v)) }

func (o *ExportOutput) WriteUint64(v uint64) {
	if b := o.reserve(8); b != nil {
		binary.BigEndian.PutUint64(b, v)
	}
}

func (o *ExportOutput) WriteFloat64(v float64) { o.WriteUint64(math.Float64bits(v)) }

// WriteBinaryString writes a four byte length followed by data.
func (o *ExportOutput) WriteBinaryString(data []byte) {
	if b := o.reserve(4 + len(data)); b != nil {
		binary.BigEndian.PutUint32(b, uint32(len(data)))
		copy(b[4:], data)
	}
}
