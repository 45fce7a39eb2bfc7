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
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestVfs(t *testing.T) *Vfs {
	t.Helper()
	vfs, err := New(Config{
		MaxVnodeSize: 64,
		LRUBatch:     4,
		Logger:       noopLogger(),
	})
	require.NoError(t, err)
	return vfs
}

func TestNew_RootIsPinnedDirectory(t *testing.T) {
	vfs := newTestVfs(t)

	root, err := vfs.Lookup("/", 0)
	require.NoError(t, err)
	assert.True(t, root.IsDir())
	assert.Equal(t, uint32(RootMode), root.Mode)
	assert.Equal(t, "/", root.FilePath)

	attr, err := vfs.Getattr(root)
	require.NoError(t, err)
	assert.Equal(t, uint32(0o40777), attr.Mode)
}

func TestDevInit_BootstrapsDevDirectory(t *testing.T) {
	vfs := newTestVfs(t)

	mnt, err := vfs.DevInit()
	require.NoError(t, err)
	require.NotNil(t, mnt)

	dev, err := vfs.Lookup("/dev", 0)
	require.NoError(t, err)
	assert.True(t, dev.IsDir())
	assert.Equal(t, uint32(vfs.cfg.DevMode)|ModeDir, dev.Mode)
	assert.True(t, dev.Flags&FlagMountOrigin != 0)

	// A second lookup must hit the path cache and return the exact same
	// vnode, not mint a new one.
	again, err := vfs.Lookup("/dev", 0)
	require.NoError(t, err)
	assert.Equal(t, dev.ID(), again.ID())
}

func TestLookup_MissingEntryWithoutCreateFails(t *testing.T) {
	vfs := newTestVfs(t)
	_, err := vfs.Lookup("/nope", 0)
	assert.ErrorIs(t, err, ErrNoEntry)
}

func TestLookup_CreateDummyMintsChild(t *testing.T) {
	vfs := newTestVfs(t)
	v, err := vfs.Lookup("/scratch", LookupCreate|LookupDummy)
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, v.Parent, vfs.root)
}

func TestLookup_DescendingThroughNonDirectoryFails(t *testing.T) {
	vfs := newTestVfs(t)
	_, err := vfs.Lookup("/file", LookupCreate|LookupDummy)
	require.NoError(t, err)

	_, err = vfs.Lookup("/file/child", LookupCreate|LookupDummy)
	assert.ErrorIs(t, err, ErrNotDir)
}

func TestDeviceOps_CreateProducesCharVnodeInheritingFromParent(t *testing.T) {
	vfs := newTestVfs(t)
	dev, err := vfs.DevInit()
	require.NoError(t, err)
	parent := dev.VnodeCovered
	parent.UID, parent.GID = 7, 9

	child, err := parent.Ops.Create(parent, "null", 0o666)
	require.NoError(t, err)
	assert.Equal(t, KindChar, child.Kind)
	assert.Same(t, parent.Ops, child.Ops)
	assert.Equal(t, parent.UID, child.UID)
	assert.Equal(t, parent.GID, child.GID)
	assert.Equal(t, uint32(0o666), child.Mode)
}

func TestChattr_PreservesTypeBitsAndAppliesMaskedFields(t *testing.T) {
	vfs := newTestVfs(t)
	root, err := vfs.Lookup("/", 0)
	require.NoError(t, err)

	err = vfs.Chattr(root, &IAttr{
		Valid: ChgUID | ChgGID,
		UID:   42,
		GID:   7,
	})
	require.NoError(t, err)

	attr, err := vfs.Getattr(root)
	require.NoError(t, err)
	assert.Equal(t, uint32(42), attr.UID)
	assert.Equal(t, uint32(7), attr.GID)
	// S_IFMT bits of mode are untouched since ChgMode was not set.
	assert.Equal(t, uint32(RootMode)&ModeTypeMask, attr.Mode&ModeTypeMask)

	err = vfs.Chattr(root, &IAttr{Valid: ChgMode, Mode: 0o644})
	require.NoError(t, err)
	attr, err = vfs.Getattr(root)
	require.NoError(t, err)
	assert.Equal(t, uint32(0o644)|(uint32(RootMode)&ModeTypeMask), attr.Mode)
}

func TestFree_RefusesPinnedVnode(t *testing.T) {
	vfs := newTestVfs(t)
	v, err := vfs.Lookup("/scratch", LookupCreate|LookupDummy)
	require.NoError(t, err)

	vfs.Hold(v)
	err = vfs.Free(v)
	assert.ErrorIs(t, err, ErrBusy)

	vfs.Drop(v)
	err = vfs.Free(v)
	assert.NoError(t, err)
}

func TestReclaimLRU_EvictsOldestUnpinnedFirst(t *testing.T) {
	vfs := newTestVfs(t)
	vfs.devOps.Create = nil // Alloc never calls Create; its non-nil ops argument puts each vnode below on the active list

	var minted []*Vnode
	for i := 0; i < vfs.cfg.MaxVnodeSize-1; i++ {
		v, err := vfs.Alloc(vfs.devOps)
		require.NoError(t, err)
		minted = append(minted, v)
	}

	// Pin everything except the very first (oldest) vnode.
	for _, v := range minted[1:] {
		v.UseCount++
	}

	extra, err := vfs.Alloc(vfs.devOps)
	require.NoError(t, err)
	assert.Equal(t, minted[0].ID(), extra.ID())
}

// reclaimLRU must scan the whole active list looking for reclaimable
// vnodes, not just the first LRUBatch entries: pinning every vnode in that
// leading window must not make allocation spuriously fail so long as an
// unpinned vnode exists further down the list.
func TestReclaimLRU_ScansPastPinnedLeadingWindow(t *testing.T) {
	vfs := newTestVfs(t)
	vfs.devOps.Create = nil

	var minted []*Vnode
	for i := 0; i < vfs.cfg.MaxVnodeSize-1; i++ {
		v, err := vfs.Alloc(vfs.devOps)
		require.NoError(t, err)
		minted = append(minted, v)
	}
	require.Greater(t, len(minted), vfs.cfg.LRUBatch)

	// Pin every vnode in the first LRUBatch slots of the active list, plus
	// everything after it except the first vnode past that prefix
	// (minted[LRUBatch], the oldest one left unpinned).
	for _, v := range minted[:vfs.cfg.LRUBatch] {
		v.UseCount++
	}
	for _, v := range minted[vfs.cfg.LRUBatch+1:] {
		v.UseCount++
	}

	extra, err := vfs.Alloc(vfs.devOps)
	require.NoError(t, err)
	assert.Equal(t, minted[vfs.cfg.LRUBatch].ID(), extra.ID())
}

func TestLookup_DummyWithoutCreateFailsNoEntry(t *testing.T) {
	vfs := newTestVfs(t)
	_, err := vfs.DevInit()
	require.NoError(t, err)

	_, err = vfs.Lookup("/dev/missing", LookupDummy)
	assert.ErrorIs(t, err, ErrNoEntry)
}

func TestDevInit_SetsMountNewOnDevRootAndFreeAllExcludesIt(t *testing.T) {
	vfs := newTestVfs(t)
	mnt, err := vfs.DevInit()
	require.NoError(t, err)

	dev, err := vfs.Lookup("/dev", 0)
	require.NoError(t, err)
	assert.True(t, dev.Flags&FlagMountNew != 0)
	assert.True(t, dev.Flags&FlagMountOrigin != 0)
	assert.Same(t, dev, mnt.VnodeBeCovered)
	assert.False(t, mnt.ID == uuid.Nil)

	require.NoError(t, vfs.FreeAll(mnt))

	still, err := vfs.Lookup("/dev", 0)
	require.NoError(t, err)
	assert.Equal(t, dev.ID(), still.ID())
}

func TestReaddir_HonorsPositionAndReadCount(t *testing.T) {
	vfs := newTestVfs(t)
	_, err := vfs.DevInit()
	require.NoError(t, err)

	for _, name := range []string{"a", "b", "c"} {
		_, err := vfs.Lookup("/dev/"+name, LookupCreate|LookupDummy)
		require.NoError(t, err)
	}

	dev, err := vfs.Lookup("/dev", 0)
	require.NoError(t, err)

	stream := &DirStream{ReadCount: 2}
	n, err := vfs.Readdir(dev, stream)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"a", "b"}, names(stream.Entries))
	// Off is the entry's own pre-advance index, not the resume position.
	assert.Equal(t, 0, stream.Entries[0].Off)
	assert.Equal(t, 1, stream.Entries[1].Off)

	n, err = vfs.Readdir(dev, stream)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []string{"c"}, names(stream.Entries))
	assert.Equal(t, 2, stream.Entries[0].Off)

	n, err = vfs.Readdir(dev, stream)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestMemoryDumpAndClearCache(t *testing.T) {
	vfs := newTestVfs(t)
	vfs.devOps.Create = nil

	v1, err := vfs.Alloc(vfs.devOps)
	require.NoError(t, err)
	v2, err := vfs.Alloc(vfs.devOps)
	require.NoError(t, err)
	v2.UseCount++ // pinned: not reclaimable

	count, bytes := vfs.MemoryDump()
	assert.Equal(t, 1, count)
	assert.Equal(t, vnodeSize, bytes)

	freed := vfs.ClearCache()
	assert.Equal(t, 1, freed)

	// v1's slot is back on the free list; v2 is still around, pinned.
	assert.Equal(t, uintptr(0), mustDump(t, vfs))
	_ = v1
}

func mustDump(t *testing.T, vfs *Vfs) uintptr {
	t.Helper()
	_, bytes := vfs.MemoryDump()
	return bytes
}

func names(entries []Dirent) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}
