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
)

var (
	ErrTypeMismatch     = errors.New("type mismatch")
	ErrOutOfRange       = errors.New("value out of range")
	ErrObjectSize       = errors.New("object exceeds column size")
	ErrMalformed        = errors.New("malformed data")
	ErrInvalidOperation = errors.New("invalid operation")

	ErrDivideByZero = fmt.Errorf("%w: division by zero", ErrInvalidOperation)
	ErrNonFinite    = fmt.Errorf("%w: non-finite floating point result", ErrInvalidOperation)
)

// Direction tells which end of a range a value fell off.
type Direction int8

const (
	DirectionNone Direction = iota
	Overflow
	Underflow
)

func (d Direction) String() string {
	switch d {
	case Overflow:
		return "overflow"
	case Underflow:
		return "underflow"
	}

	return "none"
}

// RangeError is returned for arithmetic and cast results that do not fit
// the target kind. It matches ErrOutOfRange with errors.Is.
type RangeError struct {
	Target    Kind
	Direction Direction
	Msg       string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s (%s): %s", ErrOutOfRange, e.Direction, e.Msg)
}

func (e *RangeError) Unwrap() error { return ErrOutOfRange }

func outOfRange(target Kind, dir Direction, format string, args ...any) error {
	return &RangeError{Target: target, Direction: dir, Msg: fmt.Sprintf(format, args...)}
}

// directionOf picks overflow for non-negative signs.
func directionOf(sign int) Direction {
	if sign < 0 {
		return Underflow
	}

	return Overflow
}

// RangeDirection extracts the direction of an out of range error, or
// DirectionNone for any other error.
func RangeDirection(err error) Direction {
	var re *RangeError
	if errors.As(err, &re) {
		return re.Direction
	}

	return DirectionNone
}

func castError(from Value, to Kind) error {
	return fmt.Errorf("%w: cannot cast %s to %s", ErrTypeMismatch, from.Kind(), to)
}
