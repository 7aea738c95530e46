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

// Not negates b; the negation of null is null.
func Not(b Boolean) Boolean {
	switch b {
	case True:
		return False
	case False:
		return True
	}

	return NullBoolean
}

// And is the three-valued conjunction: false wins over null.
func And(a, b Boolean) Boolean {
	switch {
	case a.IsFalse() || b.IsFalse():
		return False
	case a.IsNull() || b.IsNull():
		return NullBoolean
	}

	return True
}

// Or is the three-valued disjunction: true wins over null.
func Or(a, b Boolean) Boolean {
	switch {
	case a.IsTrue() || b.IsTrue():
		return True
	case a.IsNull() || b.IsNull():
		return NullBoolean
	}

	return False
}
