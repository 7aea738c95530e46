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

// FunctionID names a callable scalar function.
type FunctionID uint8

const (
	FuncAdd FunctionID = iota
	FuncSubtract
	FuncMultiply
	FuncDivide
	FuncMin
	FuncMax
	FuncNot
	FuncAnd
	FuncOr
	FuncLike
	FuncIncrement
	FuncDecrement
	FuncInList
	FuncCharLength
	FuncOctetLength
	FuncAbs
	FuncNegate

	functionCount
)

type function struct {
	name  string
	arity int
	call  func(args []Value) (Value, error)
}

func binaryFunc(fn func(a, b Value) (Value, error)) func([]Value) (Value, error) {
	return func(args []Value) (Value, error) { return fn(args[0], args[1]) }
}

func unaryFunc(fn func(Value) (Value, error)) func([]Value) (Value, error) {
	return func(args []Value) (Value, error) { return fn(args[0]) }
}

func booleans(args []Value) ([]Boolean, error) {
	out := make([]Boolean, len(args))
	for i, a := range args {
		b, err := As[Boolean](a)
		if err != nil {
			return nil, err
		}
		out[i] = b
	}

	return out, nil
}

var functions = [functionCount]function{
	FuncAdd:         {name: "add", arity: 2, call: binaryFunc(Add)},
	FuncSubtract:    {name: "subtract", arity: 2, call: binaryFunc(Subtract)},
	FuncMultiply:    {name: "multiply", arity: 2, call: binaryFunc(Multiply)},
	FuncDivide:      {name: "divide", arity: 2, call: binaryFunc(Divide)},
	FuncMin:         {name: "min", arity: 2, call: binaryFunc(Min)},
	FuncMax:         {name: "max", arity: 2, call: binaryFunc(Max)},
	FuncIncrement:   {name: "increment", arity: 1, call: unaryFunc(Increment)},
	FuncDecrement:   {name: "decrement", arity: 1, call: unaryFunc(Decrement)},
	FuncCharLength:  {name: "char_length", arity: 1, call: unaryFunc(CharLength)},
	FuncOctetLength: {name: "octet_length", arity: 1, call: unaryFunc(OctetLength)},
	FuncAbs:         {name: "abs", arity: 1, call: unaryFunc(Abs)},
	FuncNegate:      {name: "negate", arity: 1, call: unaryFunc(Negate)},
	FuncNot: {name: "not", arity: 1, call: func(args []Value) (Value, error) {
		b, err := booleans(args)
		if err != nil {
			return nil, err
		}

		return Not(b[0]), nil
	}},
	FuncAnd: {name: "and", arity: 2, call: func(args []Value) (Value, error) {
		b, err := booleans(args)
		if err != nil {
			return nil, err
		}

		return And(b[0], b[1]), nil
	}},
	FuncOr: {name: "or", arity: 2, call: func(args []Value) (Value, error) {
		b, err := booleans(args)
		if err != nil {
			return nil, err
		}

		return Or(b[0], b[1]), nil
	}},
	FuncLike: {name: "like", arity: 2, call: func(args []Value) (Value, error) {
		return Like(args[0], args[1])
	}},
	FuncInList: {name: "in_list", arity: 2, call: func(args []Value) (Value, error) {
		list, err := As[Array](args[1])
		if err != nil {
			return nil, err
		}

		found, err := InList(args[0], list)
		if err != nil {
			return nil, err
		}

		return BoolOf(found), nil
	}},
}

func (id FunctionID) String() string {
	if id < functionCount {
		return functions[id].name
	}

	return fmt.Sprintf("FunctionID(%d)", uint8(id))
}

// Call invokes the function id with args.
func Call(id FunctionID, args ...Value) (Value, error) {
	if id >= functionCount {
		return nil, fmt.Errorf("%w: unknown function %s", ErrInvalidOperation, id)
	}

	fn := functions[id]
	if len(args) != fn.arity {
		return nil, fmt.Errorf("%w: %s takes %d arguments, got %d",
			ErrInvalidOperation, fn.name, fn.arity, len(args))
	}

	return fn.call(args)
}
