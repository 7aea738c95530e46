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

	"github.com/sqlcore/nvalue/serialize"
)

// SerializeExport writes a non-null value in the export layout. Decimals
// carry their scale and byte width ahead of the two words so a reader
// can check them.
func SerializeExport(v Value, out *serialize.ExportOutput) error {
	if v.IsNull() {
		return fmt.Errorf("%w: null %s in export", ErrInvalidOperation, v.Kind())
	}

	switch v := v.(type) {
	case TinyInt:
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
		out.WriteInt8(DecimalScale)
		out.WriteInt8(decimalWidth)
		out.WriteInt64(v.num.HighBits())
		out.WriteUint64(v.num.LowBits())
	case Text:
		out.WriteBinaryString(v.Bytes())
	case Binary:
		out.WriteBinaryString(v.Bytes())
	default:
		return fmt.Errorf("%w: cannot export %s", ErrTypeMismatch, v.Kind())
	}

	return out.Err()
}
