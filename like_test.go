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

	"github.com/sqlcore/nvalue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLike(t *testing.T) {
	tests := []struct {
		value, pattern string
		want           bool
	}{
		{"abc", "abc", true},
		{"abcd", "abc", false},
		{"abc", "abcd", false},
		{"abc", "a%", true},
		{"abc", "%c", true},
		{"abc", "%b%", true},
		{"abc", "%d%", false},
		{"abc", "a_c", true},
		{"ab", "a_c", false},
		{"abc", "___", true},
		{"abc", "____", false},
		{"aXbXc", "%X_", true},
		{"ab", "a%_", true},
		{"a", "a%_", false},
		{"a", "a%%", true},
		{"", "%", true},
		{"", "%%", true},
		{"", "_", false},
		{"", "", true},
		{"abc", "", false},
		{"héllo", "h_llo", true},
		{"héllo", "h__llo", false},
		{"日本語", "%本%", true},
		{"日本語", "_本_", true},
		{"100%", "100%", true},
		{"ABC", "abc", false},
	}

	for _, tt := range tests {
		t.Run(tt.value+" LIKE "+tt.pattern, func(t *testing.T) {
			got, err := nvalue.Like(nvalue.TempText(tt.value), nvalue.TempText(tt.pattern))
			require.NoError(t, err)
			assert.Equal(t, nvalue.BoolOf(tt.want), got)
		})
	}
}

func TestLikeNullsAndTypes(t *testing.T) {
	got, err := nvalue.Like(nvalue.Text{}, nvalue.TempText("%"))
	require.NoError(t, err)
	assert.Equal(t, nvalue.NullBoolean, got)

	got, err = nvalue.Like(nvalue.TempText("a"), nvalue.Text{})
	require.NoError(t, err)
	assert.Equal(t, nvalue.NullBoolean, got)

	_, err = nvalue.Like(nvalue.Integer(1), nvalue.TempText("1"))
	assert.ErrorIs(t, err, nvalue.ErrTypeMismatch)

	_, err = nvalue.Like(nvalue.TempText("a"), nvalue.TempBinary([]byte("a")))
	assert.ErrorIs(t, err, nvalue.ErrTypeMismatch)
}
