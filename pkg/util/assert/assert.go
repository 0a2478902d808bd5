// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package assert

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

// Equal errors if actual is not equal to expected.  Integers of differing
// types are compared by value.
func Equal(t *testing.T, expected, actual any, msg ...any) {
	t.Helper()
	//
	if reflect.DeepEqual(expected, actual) || intEqual(expected, actual) {
		return
	}

	t.Errorf("expected: %v, actual: %v", expected, actual)
	report(t, msg)
	t.FailNow()
}

// True errors if condition is false.
func True(t *testing.T, condition bool, msg ...any) {
	t.Helper()
	//
	if condition {
		return
	}

	t.Errorf("condition is false")
	report(t, msg)
	t.FailNow()
}

// False errors if condition is true.
func False(t *testing.T, condition bool, msg ...any) {
	t.Helper()
	//
	if !condition {
		return
	}

	t.Errorf("condition is true")
	report(t, msg)
	t.FailNow()
}

// NoError errors if err is not nil.
func NoError(t *testing.T, err error, msg ...any) {
	t.Helper()
	//
	if err == nil {
		return
	}

	t.Errorf("unexpected error: %v", err)
	report(t, msg)
	t.FailNow()
}

// ErrorIs errors unless err matches target according to errors.Is.
func ErrorIs(t *testing.T, err error, target error, msg ...any) {
	t.Helper()
	//
	if errors.Is(err, target) {
		return
	}

	t.Errorf("expected error: %v, actual: %v", target, err)
	report(t, msg)
	t.FailNow()
}

func report(t *testing.T, msg []any) {
	if len(msg) != 0 {
		t.Errorf(msg[0].(string), msg[1:]...)
	}
}

// intEqual returns whether expected and actual are both integers and whether they are equal
// if that is the case.
func intEqual(expected, actual any) bool {
	a, aInt64 := asInt64(expected)
	b, bInt64 := asInt64(actual)

	if aInt64 != bInt64 {
		return false
	}

	if aInt64 {
		return a == b
	}

	x, aUint64 := expected.(uint64)
	y, bUint64 := actual.(uint64)

	if !aUint64 || !bUint64 {
		return false
	}

	return x == y
}

// asInt64 tries to convert x to an int64 and specifies if the conversion was successful or
// if x only can be expressed as a uint64
func asInt64(x any) (int64, bool) {
	if y, ok := x.(uint64); ok && y > math.MaxInt64 {
		return 0, false
	}

	if y, ok := x.(uint); ok && uint64(y) > math.MaxInt64 {
		return 0, false
	}

	v := reflect.ValueOf(x)
	//
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(v.Uint()), true
	}

	return 0, false
}
