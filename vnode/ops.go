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

import "fmt"

// DirStream is the cursor-bearing request/response object Ops.Readdir fills.
// See dirstream.go for the component that drives it.
type DirStream struct {
	// Position is the entry index to resume from; zero on the first call.
	Position int

	// ReadCount caps how many entries a single Readdir call may fill.
	ReadCount int

	// Entries receives up to ReadCount filled records.
	Entries []Dirent
}

// Dirent is one directory entry, the vnode-cache's view of a child name.
type Dirent struct {
	Name string
	Off  int
}

// Ops is the capability set bound to a vnode: a record of function values,
// not an interface, because the walker gates LRU refresh on the pointer
// identity of the table (IsDefaultOps: ops == the Vfs's devOps) rather than
// on its dynamic type.
// Any entry may be nil; absence has the meaning documented per-field below.
type Ops struct {
	// Lookup resolves a single path segment inside a directory. Returns
	// ErrNoEntry when absent.
	Lookup func(parent *Vnode, name string) (*Vnode, error)

	// Create creates a new child of parent with the given name and mode.
	Create func(parent *Vnode, name string, mode uint32) (*Vnode, error)

	// Reclaim releases filesystem-private state before the core reuses the
	// slot. May be nil.
	Reclaim func(v *Vnode) error

	// Readdir enumerates children into stream, honoring stream.Position and
	// stream.ReadCount, and returns the number of entries filled.
	Readdir func(v *Vnode, stream *DirStream) (int, error)

	// Getattr fills mode/uid/gid; other fields are zero by default.
	Getattr func(v *Vnode) (Attr, error)

	// Chattr applies a masked subset of {mode, uid, gid}.
	Chattr func(v *Vnode, attr *IAttr) error

	// Opendir / Closedir may be nil for read-only in-memory directories.
	Opendir  func(v *Vnode) error
	Closedir func(v *Vnode) error
}

// defaultLookup always fails: device nodes must come from the path cache,
// never from filesystem dispatch.
func defaultLookup(parent *Vnode, name string) (*Vnode, error) {
	return nil, fmt.Errorf("%s: %w", name, ErrNoEntry)
}

// defaultCreateFor returns the devfs Create, which allocates a character
// vnode attached to parent's ops,
// inheriting uid/gid/origin_mount from parent, per the bootstrap device
// path (original_source/fs/vfs/vnode.c: VnodeCreate).
func defaultCreateFor(vfs *Vfs) func(parent *Vnode, name string, mode uint32) (*Vnode, error) {
	return func(parent *Vnode, name string, mode uint32) (*Vnode, error) {
		child, err := vfs.allocLocked(nil)
		if err != nil {
			return nil, err
		}

		child.Kind = KindChar
		child.Ops = parent.Ops
		child.Data = nil
		child.Parent = parent
		child.OriginMount = parent.OriginMount
		child.UID = parent.UID
		child.GID = parent.GID
		child.Mode = mode
		child.FilePath = name

		return child, nil
	}
}

func defaultGetattr(v *Vnode) (Attr, error) {
	return Attr{Mode: v.Mode, UID: v.UID, GID: v.GID}, nil
}

// defaultChattr merges a masked attribute change, preserving the S_IFMT
// bits already stored whenever Mode is part of the change (original_source:
// VnodeChattr).
func defaultChattr(v *Vnode, attr *IAttr) error {
	if v == nil || attr == nil {
		return ErrInvalid
	}
	if attr.Valid&ChgMode != 0 {
		v.Mode = (attr.Mode &^ ModeTypeMask) | (v.Mode & ModeTypeMask)
	}
	if attr.Valid&ChgUID != 0 {
		v.UID = attr.UID
	}
	if attr.Valid&ChgGID != 0 {
		v.GID = attr.GID
	}
	return nil
}

func defaultOpendir(v *Vnode) error  { return nil }
func defaultClosedir(v *Vnode) error { return nil }

// IsDefaultOps reports whether ops is this package's built-in synthetic
// (device) table, using pointer identity as the walker's LRU-refresh gate
// requires (§4.C step 6).
func (v *Vfs) IsDefaultOps(ops *Ops) bool {
	return ops == v.devOps
}
