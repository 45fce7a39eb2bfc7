// Copyright 2025 Google Inc. All Rights Reserved.
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

package vnode

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// activeList is the in-use vnode collection, ordered by last access
// (Invariant 6: head/oldest = least recently used). It is backed by
// hashicorp/golang-lru/v2, used here purely for its ordered-by-recency
// doubly-linked-list bookkeeping rather than for size-based eviction: the
// pool decides when and how many vnodes to evict (component A), so the
// cache's own capacity is set high enough that it never auto-evicts on Add.
type activeList struct {
	cache *lru.Cache[uint64, *Vnode]
}

// effectivelyUnbounded is large enough that no real vnode pool will ever
// hit it; reclamation is always driven explicitly by Pool.reclaimLRU.
const effectivelyUnbounded = 1 << 30

func newActiveList(hint int) *activeList {
	// hint bounds the whole pool (free + virtual + active), so it is always
	// a safe, usually generous, upper bound on the active list alone; size
	// the cache unbounded regardless and let Pool.reclaimLRU drive eviction.
	_ = hint
	c, err := lru.New[uint64, *Vnode](effectivelyUnbounded)
	if err != nil {
		// Only returns an error for size <= 0, which cannot happen here.
		panic(err)
	}
	return &activeList{cache: c}
}

// add enrolls v at the most-recently-used end.
func (a *activeList) add(v *Vnode) {
	a.cache.Add(v.id, v)
}

// touch moves v to the most-recently-used end. No-op if v is not present.
func (a *activeList) touch(v *Vnode) {
	a.cache.Get(v.id)
}

// remove evicts the entry for id, if present.
func (a *activeList) remove(id uint64) {
	a.cache.Remove(id)
}

// peek returns the vnode for id without affecting recency order.
func (a *activeList) peek(id uint64) (*Vnode, bool) {
	return a.cache.Peek(id)
}

// snapshot returns vnodes ordered from least to most recently used.
func (a *activeList) snapshot() []*Vnode {
	keys := a.cache.Keys()
	out := make([]*Vnode, 0, len(keys))
	for _, k := range keys {
		if v, ok := a.cache.Peek(k); ok {
			out = append(out, v)
		}
	}
	return out
}

func (a *activeList) len() int {
	return a.cache.Len()
}
