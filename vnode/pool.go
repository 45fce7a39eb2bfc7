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

// allocLocked implements component A's allocation path: reuse a free slot,
// else mint a new one while under MaxVnodeSize, else reclaim from the
// active list's LRU end. Caller must hold v.mu.
//
// A nil ops means the caller wants a synthetic vnode: it is enrolled in the
// virtual collection and bound to the package's own devfs table, exactly as
// the original's VnodeAlloc(NULL, ...) does for the root vnode, the "/dev"
// bootstrap, and device-child creation. A non-nil ops is a real vnode
// handed to a filesystem driver's own table and enrolled in the active,
// LRU-tracked collection (original_source: VnodeAlloc).
func (v *Vfs) allocLocked(ops *Ops) (*Vnode, error) {
	vn := v.reg.takeFreeHead()
	if vn == nil {
		if v.totalSize < v.cfg.MaxVnodeSize {
			v.nextID++
			vn = &Vnode{id: v.nextID}
			v.totalSize++
		} else if reclaimed := v.reclaimLRU(); reclaimed != nil {
			vn = reclaimed
		} else {
			v.log.Error("vnode alloc failed, vnode size hit max but can't reclaim anymore", "total_size", v.totalSize, "max_vnode_size", v.cfg.MaxVnodeSize)
			return nil, ErrNoMemory
		}
	}

	vn.UseCount = 0
	vn.Flags = 0
	vn.Kind = KindUnknown
	vn.Mode = 0
	vn.UID = 0
	vn.GID = 0
	vn.Parent = nil
	vn.Data = nil
	vn.FilePath = ""
	vn.OriginMount = nil
	vn.NewMount = nil

	if ops == nil {
		vn.Ops = v.devOps
		v.reg.enrollVirtual(vn)
	} else {
		vn.Ops = ops
		v.reg.enrollActiveTail(vn)
	}
	return vn, nil
}

// Alloc is the locking entry point for allocLocked, for callers outside the
// package that are not already inside a dispatch the walker made (§5
// Suspension points covers the one case that is).
func (v *Vfs) Alloc(ops *Ops) (*Vnode, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.allocLocked(ops)
}

// AllocForDispatch is the allocation entry point a filesystem driver's own
// Ops.Lookup or Ops.Create implementation must use instead of Alloc: the
// walker calls into those with the pool's mutex already held (§5), so
// Alloc's own locking would deadlock. It is safe to call ONLY from within
// such a callback.
func (v *Vfs) AllocForDispatch(ops *Ops) (*Vnode, error) {
	return v.allocLocked(ops)
}

// freeLocked returns vn to the free list, refusing a pinned vnode
// (Invariant 3: UseCount>0 or a mount flag set) with ErrBusy. Caller must
// hold v.mu.
func (v *Vfs) freeLocked(vn *Vnode) error {
	if vn == nil {
		return ErrInvalid
	}
	if vn.Pinned() {
		return ErrBusy
	}
	if vn.Ops != nil && vn.Ops.Reclaim != nil {
		if err := vn.Ops.Reclaim(vn); err != nil {
			return err
		}
	}
	v.pathCache.EvictVnode(vn)
	v.reg.detach(vn)
	vn.Ops = nil
	vn.Data = nil
	vn.Parent = nil
	vn.FilePath = ""
	v.reg.enrollFree(vn)
	return nil
}

// Free releases vn back to the pool (original_source: VnodeFree).
func (v *Vfs) Free(vn *Vnode) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.freeLocked(vn)
}

// reclaimLRU walks the entire active list from its least-recently-used end,
// skipping any pinned or mount-flagged vnode without spending any of its
// budget, and reclaims every eligible vnode it finds until LRUBatch
// reclaims have happened: the first reclaimed slot is returned for
// immediate reuse by the caller, and any further ones are pushed onto the
// free list rather than discarded, so a single low-memory moment pays the
// scan cost once instead of once per allocation (original_source:
// VnodeReclaimLru's LOS_DL_LIST_FOR_EACH_ENTRY_SAFE walk, which only stops
// early once releaseCount >= VNODE_LRU_COUNT, never on scan depth).
func (v *Vfs) reclaimLRU() *Vnode {
	candidates := v.reg.activeSnapshot()

	var reclaimed *Vnode
	count := 0
	for _, vn := range candidates {
		if count >= v.cfg.LRUBatch {
			break
		}
		if vn.Pinned() {
			continue
		}
		if vn.Ops != nil && vn.Ops.Reclaim != nil {
			if err := vn.Ops.Reclaim(vn); err != nil {
				continue
			}
		}
		v.pathCache.EvictVnode(vn)
		v.reg.detach(vn)
		vn.Ops = nil
		vn.Data = nil
		vn.Parent = nil
		vn.FilePath = ""
		count++

		if reclaimed == nil {
			reclaimed = vn
			continue
		}
		v.reg.enrollFree(vn)
	}
	return reclaimed
}

// FreeAll releases every vnode whose OriginMount is m, used when tearing
// down a mount (original_source: VnodeFreeAll). A vnode carrying
// FlagMountNew — the root of the mount itself — is excluded, matching the
// original's `!(vnode->flag & VNODE_FLAG_MOUNT_NEW)` guard (line 217): the
// mount's own root is torn down by the unmount path, not by FreeAll. The
// first busy vnode encountered aborts the whole operation, leaving the
// mount's vnodes in whatever state they were reclaimed to up to that point
// — matching the original's short-circuiting loop.
func (v *Vfs) FreeAll(m *Mount) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if m == nil {
		return ErrInvalid
	}

	var victims []*Vnode
	for _, vn := range v.reg.activeSnapshot() {
		if vn.OriginMount == m && vn.Flags&FlagMountNew == 0 {
			victims = append(victims, vn)
		}
	}
	for _, vn := range v.reg.virtualSnapshot() {
		if vn.OriginMount == m && vn.Flags&FlagMountNew == 0 {
			victims = append(victims, vn)
		}
	}

	for _, vn := range victims {
		if err := v.freeLocked(vn); err != nil {
			return err
		}
	}
	return nil
}

// InUse reports whether any vnode belonging to mount m (as its origin or as
// the vnode it covers) is still pinned, the gate ChangeRoot and unmount
// callers must check before tearing down a mount.
func (v *Vfs) InUse(m *Mount) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if m == nil {
		return false
	}

	for _, vn := range v.reg.activeSnapshot() {
		if (vn.OriginMount == m || vn.NewMount == m) && vn.Pinned() {
			return true
		}
	}
	for _, vn := range v.reg.virtualSnapshot() {
		if (vn.OriginMount == m || vn.NewMount == m) && vn.Pinned() {
			return true
		}
	}
	return false
}
