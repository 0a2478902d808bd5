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
package lex

import (
	"cmp"
	"unicode"
)

// Scanner is a function which accepts some number of items from the start of a
// given sequence.  A return of zero indicates no match.
type Scanner[T any] func(items []T) uint

// And succeeds only if all of the given scanners succeed from the same
// position, returning the longest of their matches.
func And[T any](scanners ...Scanner[T]) Scanner[T] {
	return func(items []T) uint {
		n := uint(0)
		//
		for _, scanner := range scanners {
			m := scanner(items)
			if m == 0 {
				return 0
			}
			//
			n = max(n, m)
		}
		//
		return n
	}
}

// Or succeeds with the first of the given scanners which succeeds.
func Or[T any](scanners ...Scanner[T]) Scanner[T] {
	return func(items []T) uint {
		for _, scanner := range scanners {
			if n := scanner(items); n > 0 {
				return n
			}
		}
		//
		return 0
	}
}

// Unit accepts a given sequence of items in order.
func Unit[T comparable](chars ...T) Scanner[T] {
	return func(items []T) uint {
		if len(items) < len(chars) {
			return 0
		}
		//
		for i := range chars {
			if items[i] != chars[i] {
				return 0
			}
		}
		//
		return uint(len(chars))
	}
}

// Word accepts whatever a given scanner accepts, provided the match is not
// immediately followed by a letter, digit or underscore.
func Word(scanner Scanner[rune]) Scanner[rune] {
	return func(items []rune) uint {
		n := scanner(items)
		//
		if n == 0 || (n < uint(len(items)) && isWordChar(items[n])) {
			return 0
		}
		//
		return n
	}
}

// Within accepts any single item within a given (inclusive) range.
func Within[T cmp.Ordered](lowest T, highest T) Scanner[T] {
	return func(items []T) uint {
		if len(items) != 0 && lowest <= items[0] && items[0] <= highest {
			return 1
		}
		//
		return 0
	}
}

// Many matches zero or more repetitions of a given scanner.
func Many[T any](acceptor Scanner[T]) Scanner[T] {
	return func(items []T) uint {
		index := uint(0)
		//
		for index < uint(len(items)) {
			n := acceptor(items[index:])
			if n == 0 {
				break
			}
			//
			index += n
		}
		//
		return index
	}
}

// Until matches everything up to (but not including) a given item, or the end
// of the input.
func Until[T comparable](item T) Scanner[T] {
	return func(items []T) uint {
		index := uint(0)
		//
		for index < uint(len(items)) && items[index] != item {
			index++
		}
		//
		return index
	}
}

// Eof matches the end of the input stream.
func Eof[T any]() Scanner[T] {
	return func(items []T) uint {
		if len(items) == 0 {
			return 1
		}
		//
		return 0
	}
}

// Sequence matches all of the given scanners one after the other, where each
// must match at least one item.
func Sequence[T any](scanners ...Scanner[T]) Scanner[T] {
	return func(items []T) uint {
		n := uint(0)
		//
		for _, scanner := range scanners {
			if n == uint(len(items)) {
				return 0
			}
			//
			m := scanner(items[n:])
			if m == 0 {
				return 0
			}
			//
			n += m
		}
		//
		return n
	}
}

func isWordChar(c rune) bool {
	return c == '_' || unicode.IsLetter(c) || unicode.IsDigit(c)
}
