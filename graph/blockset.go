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

package graph

import "github.com/bits-and-blooms/bitset"

// Universe assigns a stable bit index to each block ID in a graph, so that
// sets of blocks (such as cflow's natural-loop bodies) can
// be represented as bitsets instead of map[ID]bool, following the
// bitset-per-block dataflow idiom.
type Universe struct {
	index map[ID]uint
	ids   []ID
}

// NewUniverse assigns indices to ids in the given order. The order matters
// only for determinism of Set.Items.
func NewUniverse(ids []ID) *Universe {
	u := &Universe{index: make(map[ID]uint, len(ids)), ids: append([]ID(nil), ids...)}
	for i, id := range ids {
		u.index[id] = uint(i)
	}
	return u
}

// Set is a bitset of block IDs drawn from a Universe.
type Set struct {
	u    *Universe
	bits *bitset.BitSet
}

// NewSet returns an empty set over u.
func (u *Universe) NewSet() *Set {
	return &Set{u: u, bits: bitset.New(uint(len(u.ids)))}
}

// Add adds id to the set. It is a no-op if id is not part of the universe.
func (s *Set) Add(id ID) {
	if i, ok := s.u.index[id]; ok {
		s.bits.Set(i)
	}
}

// Remove removes id from the set.
func (s *Set) Remove(id ID) {
	if i, ok := s.u.index[id]; ok {
		s.bits.Clear(i)
	}
}

// Has reports whether id is a member of the set.
func (s *Set) Has(id ID) bool {
	i, ok := s.u.index[id]
	return ok && s.bits.Test(i)
}

// Clone returns an independent copy of s.
func (s *Set) Clone() *Set {
	return &Set{u: s.u, bits: s.bits.Clone()}
}

// Union sets s to the union of s and other, returning whether s changed.
func (s *Set) Union(other *Set) (changed bool) {
	before := s.bits.Clone()
	s.bits.InPlaceUnion(other.bits)
	return !before.Equal(s.bits)
}

// Intersect sets s to the intersection of s and other, returning whether s
// changed.
func (s *Set) Intersect(other *Set) (changed bool) {
	before := s.bits.Clone()
	s.bits.InPlaceIntersection(other.bits)
	return !before.Equal(s.bits)
}

// Difference sets s to s minus other, returning whether s changed.
func (s *Set) Difference(other *Set) (changed bool) {
	before := s.bits.Clone()
	s.bits.InPlaceDifference(other.bits)
	return !before.Equal(s.bits)
}

// Equal reports whether s and other contain the same elements.
func (s *Set) Equal(other *Set) bool {
	return s.bits.Equal(other.bits)
}

// Len returns the number of elements in the set.
func (s *Set) Len() uint {
	return s.bits.Count()
}

// Items returns the set's members in universe order.
func (s *Set) Items() []ID {
	out := make([]ID, 0, s.bits.Count())
	for i, ok := s.bits.NextSet(0); ok; i, ok = s.bits.NextSet(i + 1) {
		if int(i) < len(s.u.ids) {
			out = append(out, s.u.ids[i])
		}
	}
	return out
}
