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
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	timestampLayout = "2006-01-02 15:04:05.000000"
	dateTimeLayout  = "2006-01-02 15:04:05"
	dateLayout      = "2006-01-02"
)

func formatTimestamp(micros int64) string {
	return time.UnixMicro(micros).UTC().Format(timestampLayout)
}

// parseTimestamp accepts a date, a date and time, or a date and time
// with a fraction of up to microsecond precision, all in UTC.
func parseTimestamp(s string) (int64, error) {
	trimmed := strings.TrimSpace(s)
	for _, layout := range []string{dateTimeLayout, dateLayout} {
		// The date-time layout also accepts a trailing fraction.
		t, err := time.Parse(layout, trimmed)
		if err == nil {
			return t.UnixMicro(), nil
		}
	}

	return 0, fmt.Errorf("%w: %q is not a timestamp", ErrMalformed, trimmed)
}

// formatSQLFloat renders f in the SQL approximate numeric form: one
// leading digit, at most six fraction digits with trailing zeros dropped
// past the first and an unpadded exponent, as in 1.0E0 or -1.234568E-5.
func formatSQLFloat(f float64) string {
	switch {
	case f == 0:
		return "0E0"
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}

	s := strconv.FormatFloat(f, 'E', 6, 64)
	mantissa, exp, _ := strings.Cut(s, "E")

	mantissa = strings.TrimRight(mantissa, "0")
	if strings.HasSuffix(mantissa, ".") {
		mantissa += "0"
	}

	e, err := strconv.Atoi(exp)
	if err != nil {
		return s
	}

	return mantissa + "E" + strconv.Itoa(e)
}
