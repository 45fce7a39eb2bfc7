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

// readdirViaPathCache returns the devfs Ops.Readdir implementation: since
// synthetic vnodes have no filesystem driver of their own, their directory
// contents are exactly whatever the path cache has memoized as children
// (original_source: VnodeReaddir falls back to dentry_cache for virtual
// directories).
func readdirViaPathCache(vfs *Vfs) func(v *Vnode, stream *DirStream) (int, error) {
	return func(v *Vnode, stream *DirStream) (int, error) {
		names := vfs.pathCache.Children(v)
		return fillStream(stream, names)
	}
}

// fillStream copies names[stream.Position:] into stream.Entries, up to
// stream.ReadCount entries, and returns the count filled. Each entry's Off
// mirrors the original's d_off: that entry's own index in names. Position
// then advances past the last entry filled, so repeated Readdir calls
// advance monotonically even as the underlying name set is appended to
// (original_source: VnodeReaddir's fd_position/d_off pair).
func fillStream(stream *DirStream, names []string) (int, error) {
	if stream == nil {
		return 0, ErrInvalid
	}
	if stream.Position < 0 || stream.Position > len(names) {
		return 0, fmt.Errorf("readdir: position %d out of range: %w", stream.Position, ErrInvalid)
	}

	want := stream.ReadCount
	if want <= 0 {
		return 0, nil
	}

	remaining := names[stream.Position:]
	n := want
	if n > len(remaining) {
		n = len(remaining)
	}

	stream.Entries = stream.Entries[:0]
	for i := 0; i < n; i++ {
		off := stream.Position + i
		stream.Entries = append(stream.Entries, Dirent{Name: remaining[i], Off: off})
	}
	stream.Position += n
	return n, nil
}

// Readdir drives v's Ops.Readdir (component F). It is the vnode-cache-level
// entry point a file descriptor layer calls on each getdents-equivalent
// request; v must be a directory and must already be looked up and pinned.
func (vfs *Vfs) Readdir(v *Vnode, stream *DirStream) (int, error) {
	if v == nil || stream == nil {
		return 0, ErrInvalid
	}
	if !v.IsDir() {
		return 0, ErrNotDir
	}
	if v.Ops == nil || v.Ops.Readdir == nil {
		return 0, ErrNoSys
	}
	return v.Ops.Readdir(v, stream)
}
