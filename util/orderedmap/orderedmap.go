// Copyright (c) 2026 The PDD Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package orderedmap implements a generic map that iterates in insertion
// order. It backs the SSA context's def table (ctx.defs): phi relaxation and
// the optimizer driver must iterate that table in insertion order and may
// delete entries mid-pass, which a plain Go map cannot do safely.
package orderedmap

// Pair is a key-value pair stored in the ordered map.
type Pair[K comparable, V any] struct {
	Key   K
	Value V
}

// OrderedMap is a map that iterates in insertion order. It is an internal
// helper and lacks some of the features of a full map.
type OrderedMap[K comparable, V any] struct {
	pairs []*Pair[K, V]
	inner map[K]*Pair[K, V]
}

// New creates a new, empty OrderedMap.
func New[K comparable, V any]() *OrderedMap[K, V] {
	return &OrderedMap[K, V]{inner: make(map[K]*Pair[K, V])}
}

// Load returns the value stored for key, and whether it was found.
func (m *OrderedMap[K, V]) Load(key K) (V, bool) {
	if p := m.inner[key]; p != nil {
		return p.Value, true
	}
	var v V
	return v, false
}

// Value returns the value stored for key, or the zero value if absent.
func (m *OrderedMap[K, V]) Value(key K) V {
	v, _ := m.Load(key)
	return v
}

// Store stores value for key, overwriting any previous value for key but
// preserving its original insertion position.
func (m *OrderedMap[K, V]) Store(key K, value V) {
	if p := m.inner[key]; p != nil {
		p.Value = value
		return
	}
	p := &Pair[K, V]{Key: key, Value: value}
	m.pairs = append(m.pairs, p)
	m.inner[key] = p
}

// Delete removes key from the map, if present.
func (m *OrderedMap[K, V]) Delete(key K) {
	p, ok := m.inner[key]
	if !ok {
		return
	}
	delete(m.inner, key)
	for i, q := range m.pairs {
		if q == p {
			m.pairs = append(m.pairs[:i], m.pairs[i+1:]...)
			break
		}
	}
}

// Len returns the number of entries currently stored.
func (m *OrderedMap[K, V]) Len() int {
	return len(m.pairs)
}

// Keys returns a snapshot of the keys currently stored, in insertion order.
// Because it is a snapshot, it is safe to range over while mutating the map
// -- the pattern relaxation and the optimizer driver require, since both may
// delete entries from the map they are iterating.
func (m *OrderedMap[K, V]) Keys() []K {
	keys := make([]K, len(m.pairs))
	for i, p := range m.pairs {
		keys[i] = p.Key
	}
	return keys
}

// Pairs returns a snapshot of the key-value pairs currently stored, in
// insertion order.
func (m *OrderedMap[K, V]) Pairs() []Pair[K, V] {
	out := make([]Pair[K, V], len(m.pairs))
	for i, p := range m.pairs {
		out[i] = *p
	}
	return out
}
