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

import "fmt"

// Kind identifies the SQL type a Value holds. The numeric codes are the
// one byte tags used on the wire.
type Kind uint8

const (
	KindInvalid   Kind = 0
	KindNull      Kind = 1
	KindTinyInt   Kind = 3
	KindSmallInt  Kind = 4
	KindInteger   Kind = 5
	KindBigInt    Kind = 6
	KindDouble    Kind = 8
	KindText      Kind = 9
	KindTimestamp Kind = 11
	KindDecimal   Kind = 22
	KindBoolean   Kind = 23
	KindAddress   Kind = 24
	KindBinary    Kind = 25
	KindArray     Kind = 26

	kindCount = 27
)

var kindNames = [kindCount]string{
	KindInvalid:   "INVALID",
	KindNull:      "NULL",
	KindTinyInt:   "TINYINT",
	KindSmallInt:  "SMALLINT",
	KindInteger:   "INTEGER",
	KindBigInt:    "BIGINT",
	KindDouble:    "DOUBLE",
	KindText:      "VARCHAR",
	KindTimestamp: "TIMESTAMP",
	KindDecimal:   "DECIMAL",
	KindBoolean:   "BOOLEAN",
	KindAddress:   "ADDRESS",
	KindBinary:    "VARBINARY",
	KindArray:     "ARRAY",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}

	return fmt.Sprintf("UNKNOWN(%d)", uint8(k))
}

// Defined reports whether k is one of the declared kinds.
func (k Kind) Defined() bool {
	return int(k) < len(kindNames) && kindNames[k] != ""
}

// IsInteger reports whether k belongs to the integer family, which
// includes timestamp.
func (k Kind) IsInteger() bool {
	switch k {
	case KindTinyInt, KindSmallInt, KindInteger, KindBigInt, KindTimestamp:
		return true
	}

	return false
}

func (k Kind) IsNumeric() bool {
	return k.IsInteger() || k == KindDouble || k == KindDecimal
}

// IsObject reports whether values of k carry a variable length payload.
func (k Kind) IsObject() bool { return k == KindText || k == KindBinary }

// KindFromCode decodes a wire tag.
func KindFromCode(code byte) (Kind, error) {
	k := Kind(code)
	if !k.Defined() {
		return KindInvalid, fmt.Errorf("%w: unknown kind tag %d", ErrMalformed, code)
	}

	return k, nil
}
