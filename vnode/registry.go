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

import "container/list"

// registry holds the three disjoint collections a Vnode may belong to
// (Invariant 1): a free list of recycled slots, a virtual list of synthetic
// (device) vnodes, and an LRU-ordered active list of in-use vnodes.
//
// The original C source reuses a single intrusive link field
// (act_free_entry) for all three, since a vnode is only ever in one at a
// time. This port keeps that same one-of-three discipline but represents it
// with two container/list.Lists (free, virtual — neither needs eviction
// order) and one hashicorp/golang-lru/v2 cache (active — which does), per
// the alternative reclamation policy the Design Notes explicitly invite.
type registry struct {
	free    *list.List
	virtual *list.List
	active  *activeList
}

func newRegistry(maxSize int) *registry {
	return &registry{
		free:    list.New(),
		virtual: list.New(),
		active:  newActiveList(maxSize),
	}
}

// enrollFree pushes v onto the head of the free list (Invariant 1/2).
func (r *registry) enrollFree(v *Vnode) {
	v.state = stateFree
	v.elem = r.free.PushFront(v)
}

// enrollVirtual adds v to the synthetic/device list.
func (r *registry) enrollVirtual(v *Vnode) {
	v.state = stateVirtual
	v.elem = r.virtual.PushFront(v)
}

// enrollActiveTail adds v to the tail (most-recently-used end) of the
// active list.
func (r *registry) enrollActiveTail(v *Vnode) {
	v.state = stateActive
	v.elem = nil
	r.active.add(v)
}

// takeFreeHead removes and returns the head of the free list, or nil.
func (r *registry) takeFreeHead() *Vnode {
	e := r.free.Front()
	if e == nil {
		return nil
	}
	v := e.Value.(*Vnode)
	r.free.Remove(e)
	v.state = stateDetached
	v.elem = nil
	return v
}

// detach removes v from whichever of the three collections it currently
// occupies.
func (r *registry) detach(v *Vnode) {
	switch v.state {
	case stateFree:
		if v.elem != nil {
			r.free.Remove(v.elem)
		}
	case stateVirtual:
		if v.elem != nil {
			r.virtual.Remove(v.elem)
		}
	case stateActive:
		r.active.remove(v.id)
	}
	v.state = stateDetached
	v.elem = nil
}

// refresh moves v to the tail (most-recently-used end) of the active list.
// No-op unless v is currently active.
func (r *registry) refresh(v *Vnode) {
	if v.state != stateActive {
		return
	}
	r.active.touch(v)
}

// freeSnapshot returns the free list in head-to-tail order.
func (r *registry) freeSnapshot() []*Vnode {
	return listSnapshot(r.free)
}

// virtualSnapshot returns the virtual list in head-to-tail order.
func (r *registry) virtualSnapshot() []*Vnode {
	return listSnapshot(r.virtual)
}

// activeSnapshot returns the active list ordered head (least recently used)
// to tail (most recently used), per Invariant 6.
func (r *registry) activeSnapshot() []*Vnode {
	return r.active.snapshot()
}

func listSnapshot(l *list.List) []*Vnode {
	out := make([]*Vnode, 0, l.Len())
	for e := l.Front(); e != nil; e = e.Next() {
		out = append(out, e.Value.(*Vnode))
	}
	return out
}
