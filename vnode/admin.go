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

import "unsafe"

var vnodeSize = uintptr(unsafe.Sizeof(Vnode{}))

// Hold pins v for the duration of a caller-managed critical section,
// mirroring the walker's own use_count++ discipline (§5 Pinning) but
// exposed so upper-layer code (file descriptors, directory handles) can use
// the same protocol.
func (vfs *Vfs) Hold(v *Vnode) {
	vfs.mu.Lock()
	defer vfs.mu.Unlock()
	if v != nil {
		v.UseCount++
	}
}

// Drop releases one hold acquired via Hold.
func (vfs *Vfs) Drop(v *Vnode) {
	vfs.mu.Lock()
	defer vfs.mu.Unlock()
	if v != nil && v.UseCount > 0 {
		v.UseCount--
	}
}

// Getattr reports v's mode/uid/gid via its bound ops table.
func (vfs *Vfs) Getattr(v *Vnode) (Attr, error) {
	vfs.mu.Lock()
	defer vfs.mu.Unlock()
	if v == nil {
		return Attr{}, ErrInvalid
	}
	if v.Ops == nil || v.Ops.Getattr == nil {
		return Attr{}, ErrNoSys
	}
	return v.Ops.Getattr(v)
}

// Chattr applies a masked attribute change to v via its bound ops table.
func (vfs *Vfs) Chattr(v *Vnode, attr *IAttr) error {
	vfs.mu.Lock()
	defer vfs.mu.Unlock()
	if v == nil {
		return ErrInvalid
	}
	if v.Ops == nil || v.Ops.Chattr == nil {
		return ErrNoSys
	}
	return v.Ops.Chattr(v, attr)
}

// reclaimable reports whether v is a candidate for memory_dump/clear_cache:
// on the active list (not virtual, not free), and not pinned by a use count
// or a mount flag.
func reclaimable(v *Vnode) bool {
	return v.state == stateActive && !v.Pinned()
}

// MemoryDump counts the unpinned, non-mount vnodes currently on the active
// list and reports that count times the size of one vnode, an estimate of
// memory that clear_cache could recover right now (original_source:
// VnodeMemoryDump's "Vnode number = %d" / "Vnode memory size = %d(B)"
// PRINTK pair, lines 672-673, now a single structured log record instead
// of two printf calls).
func (vfs *Vfs) MemoryDump() (count int, bytes uintptr) {
	vfs.mu.Lock()
	defer vfs.mu.Unlock()
	for _, v := range vfs.reg.activeSnapshot() {
		if reclaimable(v) {
			count++
		}
	}
	bytes = uintptr(count) * vnodeSize
	vfs.log.Info("vnode memory dump", "time", vfs.clock.Now(), "count", count, "bytes", bytes)
	return count, bytes
}

// ClearCache frees every unpinned, non-mount vnode on the active list and
// returns how many were freed (§4.G clear_cache).
func (vfs *Vfs) ClearCache() int {
	vfs.mu.Lock()
	defer vfs.mu.Unlock()

	var victims []*Vnode
	for _, v := range vfs.reg.activeSnapshot() {
		if reclaimable(v) {
			victims = append(victims, v)
		}
	}

	freed := 0
	for _, v := range victims {
		if err := vfs.freeLocked(v); err == nil {
			freed++
		}
	}
	return freed
}
