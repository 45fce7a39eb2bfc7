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

import "github.com/google/uuid"

// GetRoot returns the vnode cache's current root (original_source:
// VnodeGetRoot).
func (vfs *Vfs) GetRoot() *Vnode {
	vfs.mu.Lock()
	defer vfs.mu.Unlock()
	return vfs.root
}

// ChangeRoot installs newRoot as the root vnode, then rewires the "proc" and
// "dev" entries memoized under the old root so that lookups under those two
// names keep resolving to the mounts they already cover, rather than
// falling through to whatever (if anything) newRoot's filesystem has at
// those names. Order matters and is preserved from the original: proc
// before dev (original_source: ChangeRoot/ChangeRootInternal).
func (vfs *Vfs) ChangeRoot(newRoot *Vnode) error {
	vfs.mu.Lock()
	defer vfs.mu.Unlock()

	if newRoot == nil {
		return ErrInvalid
	}

	oldRoot := vfs.root
	vfs.root = newRoot
	vfs.log.Info("change_root", "time", vfs.clock.Now(), "old_root", oldRoot.ID(), "new_root", newRoot.ID())

	vfs.rewireMountedChild(oldRoot, "proc")
	vfs.rewireMountedChild(oldRoot, "dev")
	return nil
}

// rewireMountedChild relocates the mount covering oldRoot's child named
// name onto whatever vnode name resolves to under the new root, so a child
// mount survives a root switch. A missing cache entry is silently a no-op:
// there was nothing to carry over. Otherwise the old root's cache entry is
// dropped first; if the new root's filesystem doesn't have name, the mount
// keeps its old VnodeBeCovered and no error is reported (original_source:
// ChangeRootInternal treats both cases as unexceptional).
func (vfs *Vfs) rewireMountedChild(oldRoot *Vnode, name string) {
	if oldRoot == nil {
		return
	}
	covered, ok := vfs.pathCache.Lookup(oldRoot, name)
	if !ok || covered == nil || covered.NewMount == nil {
		return
	}
	vfs.pathCache.EvictChild(oldRoot, name)

	mnt := covered.NewMount
	target, err := vfs.lookupAtLocked(name, 0, vfs.root)
	if err != nil {
		return
	}

	mnt.VnodeBeCovered = target
	target.NewMount = mnt
	target.Flags |= FlagMountOrigin
}

// DevInit bootstraps the synthetic "/dev" directory as a self-covering
// mount point: the one vnode in the cache whose children always come from
// the path cache rather than a filesystem driver (original_source:
// VnodeDevInit).
func (vfs *Vfs) DevInit() (*Mount, error) {
	vfs.mu.Lock()
	defer vfs.mu.Unlock()

	devNode, err := vfs.lookupAtLocked("/dev", LookupCreate|LookupDummy, nil)
	if err != nil {
		vfs.log.Error("dev_init failed", "time", vfs.clock.Now(), "error", err)
		return nil, err
	}
	devNode.Mode = uint32(vfs.cfg.DevMode) | ModeDir
	devNode.Kind = KindDirectory

	// "/dev" is a self-covering mount: devNode is simultaneously the root of
	// the mounted filesystem (vnode_covered) and the point in the parent
	// filesystem it covers (vnode_be_covered). Invariant 7 requires
	// vnode_covered to carry FlagMountNew and vnode_be_covered to carry
	// FlagMountOrigin with its NewMount pointing back at m; since both
	// roles are the same vnode here, it carries both flags.
	mnt := &Mount{ID: uuid.New(), VnodeCovered: devNode, VnodeBeCovered: devNode}
	devNode.NewMount = mnt
	devNode.Flags |= FlagMountOrigin | FlagMountNew
	devNode.OriginMount = mnt

	vfs.log.Info("dev_init complete", "time", vfs.clock.Now(), "mount", mnt.ID, "dev_vnode", devNode.ID())
	return mnt, nil
}
