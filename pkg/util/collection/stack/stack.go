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
package stack

// Stack represents a growable LIFO stack backed by a slice.  Accesses beyond
// the current depth never index out of bounds; instead, they report failure
// through an additional boolean result.
type Stack[T any] struct {
	items []T
}

// NewStack returns an empty stack
func NewStack[T any]() *Stack[T] {
	return &Stack[T]{}
}

// IsEmpty checks whether or not there are still items on the stack
func (p *Stack[T]) IsEmpty() bool {
	return p.Len() == 0
}

// Len returns the number of items on the stack.
func (p *Stack[T]) Len() uint {
	return uint(len(p.items))
}

// Has checks whether the stack holds at least n items.
func (p *Stack[T]) Has(n uint) bool {
	return p.Len() >= n
}

// Peek at nth item from top of stack, where 0 identifies the top.  If there is
// no such item, then false is returned.
func (p *Stack[T]) Peek(offset uint) (T, bool) {
	var (
		empty T
		n     = len(p.items) - int(offset) - 1
	)
	//
	if offset >= p.Len() || n < 0 {
		return empty, false
	}
	//
	return p.items[n], true
}

// Push a new item onto the stack
func (p *Stack[T]) Push(item T) {
	p.items = append(p.items, item)
}

// Pop the top item off the stack.  If the stack is empty, then it is left
// unchanged and false is returned.
func (p *Stack[T]) Pop() (T, bool) {
	var (
		empty T
		n     = len(p.items)
	)
	//
	if n == 0 {
		return empty, false
	}
	// Get last item
	item := p.items[n-1]
	// Remove last item
	p.items = p.items[:n-1]
	// Done
	return item, true
}

// PopN pops the top n items off the stack, returning them in the order they
// were originally pushed (i.e. deepest first).  If fewer than n items are
// available, then the stack is left unchanged and false is returned.
func (p *Stack[T]) PopN(n uint) ([]T, bool) {
	if !p.Has(n) {
		return nil, false
	}
	//
	var (
		m     = len(p.items) - int(n)
		items = make([]T, n)
	)
	//
	copy(items, p.items[m:])
	p.items = p.items[:m]
	//
	return items, true
}

// Items returns a copy of the stack contents, ordered from bottom to top.
func (p *Stack[T]) Items() []T {
	items := make([]T, len(p.items))
	copy(items, p.items)
	//
	return items
}
