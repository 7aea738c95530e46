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

type promotionTable [kindCount]Kind

// Rows are indexed by the kind of the right operand. Unlisted entries
// are KindInvalid. The tables are never written after initialization.
var (
	intPromotion = promotionTable{
		KindNull:      KindNull,
		KindTinyInt:   KindBigInt,
		KindSmallInt:  KindBigInt,
		KindInteger:   KindBigInt,
		KindBigInt:    KindBigInt,
		KindTimestamp: KindBigInt,
		KindDouble:    KindDouble,
		KindDecimal:   KindDecimal,
	}

	decimalPromotion = promotionTable{
		KindNull:      KindNull,
		KindTinyInt:   KindDecimal,
		KindSmallInt:  KindDecimal,
		KindInteger:   KindDecimal,
		KindBigInt:    KindDecimal,
		KindTimestamp: KindDecimal,
		KindDouble:    KindDouble,
		KindDecimal:   KindDecimal,
	}

	doublePromotion = promotionTable{
		KindNull:      KindNull,
		KindTinyInt:   KindDouble,
		KindSmallInt:  KindDouble,
		KindInteger:   KindDouble,
		KindBigInt:    KindDouble,
		KindTimestamp: KindDouble,
		KindDouble:    KindDouble,
		KindDecimal:   KindDouble,
	}

	nullPromotion = promotionTable{
		KindNull:      KindNull,
		KindTinyInt:   KindNull,
		KindSmallInt:  KindNull,
		KindInteger:   KindNull,
		KindBigInt:    KindNull,
		KindTimestamp: KindNull,
		KindDouble:    KindNull,
		KindDecimal:   KindNull,
	}
)

func (t *promotionTable) lookup(k Kind) Kind {
	if int(k) >= len(t) {
		return KindInvalid
	}

	return t[k]
}

// Promote resolves the operand kind of a binary numeric operation.
// Integers widen to BIGINT, anything with a DECIMAL becomes DECIMAL and
// anything with a DOUBLE becomes DOUBLE. An untyped null operand yields
// KindNull. Pairs with no common numeric kind yield KindInvalid.
func Promote(a, b Kind) Kind {
	switch {
	case a.IsInteger():
		return intPromotion.lookup(b)
	case a == KindDecimal:
		return decimalPromotion.lookup(b)
	case a == KindDouble:
		return doublePromotion.lookup(b)
	case a == KindNull:
		return nullPromotion.lookup(b)
	}

	return KindInvalid
}
