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

// Package vnode implements an in-memory vnode cache and path-resolution
// engine: a bounded object pool with LRU reclamation, a path-walking state
// machine that dispatches per-directory lookups through a polymorphic
// operations table, and a mount-crossing protocol, all serialized by a
// single mutex as required for a cache shared by multiple kernel tasks.
package vnode

import (
	"container/list"
	"os"

	"github.com/google/uuid"
)

// Kind is the type of filesystem object a Vnode represents.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindRegular
	KindDirectory
	KindChar
	KindBlock
	KindFifo
	KindSymlink
	KindSocket
)

func (k Kind) String() string {
	switch k {
	case KindRegular:
		return "regular"
	case KindDirectory:
		return "directory"
	case KindChar:
		return "char"
	case KindBlock:
		return "block"
	case KindFifo:
		return "fifo"
	case KindSymlink:
		return "symlink"
	case KindSocket:
		return "socket"
	default:
		return "unknown"
	}
}

// Flags is a bit set of per-vnode flags.
type Flags uint32

const (
	// FlagMountOrigin marks a vnode that is covered by a child mount: it is
	// the vnode_be_covered side of some Mount.
	FlagMountOrigin Flags = 1 << iota

	// FlagMountNew marks a vnode that is the root of a child mount: it is
	// the vnode_covered side of some Mount.
	FlagMountNew
)

// ModeTypeMask isolates the POSIX file-type bits (S_IFMT) within Mode.
const ModeTypeMask = 0o170000

// Compile-time constants that are part of the component's ABI.
const (
	// LRUBatch bounds the number of vnodes freed in one reclaim invocation.
	LRUBatch = 10

	// DevVnodeMode is the permission bits used for synthetic device vnodes.
	DevVnodeMode os.FileMode = 0o755

	// ModeDir is the POSIX type bit for directories (S_IFDIR).
	ModeDir = 0o040000

	// RootMode is the mode the root vnode carries for its entire lifetime:
	// rwxrwxrwx plus the directory type bit.
	RootMode = 0o777 | ModeDir
)

// Attr is the POSIX permission triple plus type bits reported by Getattr.
type Attr struct {
	Mode uint32
	UID  uint32
	GID  uint32
}

// Change mask bits recognized by Chattr.
const (
	ChgMode uint32 = 1 << iota
	ChgUID
	ChgGID
)

// IAttr is a masked attribute change request consumed by Chattr.
type IAttr struct {
	Valid uint32
	Mode  uint32
	UID   uint32
	GID   uint32
}

// Mapping is the embedded page-cache control block. Its contents are opaque
// to this component; the page-cache subsystem owns the lock pair and all
// mutation. It exists here only so that a Vnode has somewhere to carry it.
type Mapping struct {
	Host interface{}
}

// state tags which of the three disjoint collections (Invariant 1) a Vnode
// currently belongs to.
type state uint8

const (
	stateDetached state = iota
	stateFree
	stateVirtual
	stateActive
)

// Vnode is the central in-memory object: a filesystem entity independent of
// its backing filesystem. A Vnode is never mutated except while the owning
// Vfs's mutex is held.
type Vnode struct {
	id uint64

	Kind  Kind
	Mode  uint32
	UID   uint32
	GID   uint32
	Flags Flags

	// UseCount is non-zero while the vnode is pinned: ineligible for
	// reclamation or free.
	UseCount int

	// Ops is never nil for a vnode outside the free list (Invariant 4).
	Ops *Ops

	// FilePath is the lazily-populated, owned absolute path of this vnode.
	FilePath string

	// Parent is a weak back-reference used only for navigation and readdir.
	Parent *Vnode

	// OriginMount is the mount record that produced this vnode.
	OriginMount *Mount

	// NewMount is, for a covered vnode, the mount that covers it.
	NewMount *Mount

	// Data is an opaque per-filesystem pointer; ownership is delegated to
	// the filesystem driver via Ops.Reclaim.
	Data interface{}

	// Mapping is the embedded page-cache control block, opaque to this
	// component.
	Mapping Mapping

	state state
	elem  *list.Element // backing element in the free/virtual list, if enrolled there
}

// ID returns the internal slab identity assigned at Alloc time. It is used
// as the active-list cache key and for logging; it is not part of any
// on-disk or wire format.
func (v *Vnode) ID() uint64 { return v.id }

// IsDir reports whether the vnode represents a directory.
func (v *Vnode) IsDir() bool { return v.Kind == KindDirectory }

// Pinned reports whether the vnode is ineligible for reclamation: it has a
// positive use count, or it participates in a mount (Invariant 3).
func (v *Vnode) Pinned() bool {
	return v.UseCount > 0 || v.Flags&(FlagMountOrigin|FlagMountNew) != 0
}

// Mount is the opaque mount-table record this component consumes. Creation,
// bind and unbind of the backing mount table are out of scope (§6); this
// struct is the shape the core reads and writes.
type Mount struct {
	ID uuid.UUID

	// VnodeCovered is the root of the mounted child filesystem.
	VnodeCovered *Vnode

	// VnodeBeCovered is the vnode in the parent filesystem that the mount
	// covers.
	VnodeBeCovered *Vnode
}

// Op is a permission right consulted by the Checker collaborator.
type Op uint8

const (
	OpRead Op = iota
	OpWrite
	OpExec
)
