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
	"errors"
	"fmt"
)

// LookupFlags modify how Lookup/LookupAt resolve a path.
type LookupFlags uint32

const (
	// LookupCreate asks the walker to materialize a missing component
	// rather than failing with ErrNoEntry. Only meaningful combined with
	// LookupDummy (original_source: the /dev bootstrap call passes
	// V_CREATE|V_DUMMY together; V_CREATE alone has no effect on its own).
	LookupCreate LookupFlags = 1 << iota

	// LookupDummy routes the missing-component case to a synthetic
	// (parentless-ops) vnode instead of filesystem dispatch, the path
	// devfs bootstrapping takes (original_source: ProcessVirtualVnode).
	LookupDummy
)

// Lookup resolves path from the root (component C, §4.C).
func (vfs *Vfs) Lookup(path string, flags LookupFlags) (*Vnode, error) {
	return vfs.LookupAt(path, flags, nil)
}

// LookupAt resolves path starting from start, or from the root if start is
// nil (original_source: VnodeLookupAt).
func (vfs *Vfs) LookupAt(path string, flags LookupFlags, start *Vnode) (*Vnode, error) {
	vfs.mu.Lock()
	defer vfs.mu.Unlock()
	return vfs.lookupAtLocked(path, flags, start)
}

func (vfs *Vfs) lookupAtLocked(path string, flags LookupFlags, start *Vnode) (*Vnode, error) {
	cur := start
	normalized := path
	if cur == nil {
		norm, err := vfs.normalizer.Normalize("/", path)
		if err != nil {
			return nil, err
		}
		normalized = norm
		cur = vfs.root
	}

	if normalized == "/" {
		return vfs.root, nil
	}

	rest := normalized
	for {
		name, tail, ok := nextName(rest)
		if !ok {
			// Trailing separator consumed the whole remainder: cur is the
			// answer (original_source: Step's "there is '/' at the end").
			memoize(cur, normalized)
			return cur, nil
		}

		next, err := vfs.stepLocked(cur, name, flags)
		rest = tail

		if !hasMoreName(rest) {
			if err != nil {
				// A missing final component still reports the parent it
				// was looked up in, alongside the error.
				if errors.Is(err, ErrNoEntry) {
					return cur, err
				}
				return nil, err
			}
			memoize(next, normalized)
			return next, nil
		}
		if err != nil {
			return nil, err
		}

		if !vfs.perm.Can(next, OpExec) {
			return nil, ErrDenied
		}

		memoize(next, normalized[:len(normalized)-len(rest)])
		cur = next
	}
}

// stepLocked resolves one path component under cur, consulting the path
// cache first and only falling back to synthetic allocation or filesystem
// dispatch on a miss (original_source: Step).
func (vfs *Vfs) stepLocked(cur *Vnode, name string, flags LookupFlags) (*Vnode, error) {
	if !cur.IsDir() {
		return nil, ErrNotDir
	}

	if cached, ok := vfs.pathCache.Lookup(cur, name); ok {
		return vfs.finishStep(cached), nil
	}

	cur.UseCount++
	var next *Vnode
	var err error
	switch {
	case flags&LookupDummy != 0 && flags&LookupCreate != 0:
		next, err = vfs.allocLocked(nil)
		if err == nil {
			next.Parent = cur
		}
	case flags&LookupDummy != 0:
		err = fmt.Errorf("%s: %w", name, ErrNoEntry)
	case cur.Ops != nil && cur.Ops.Lookup != nil:
		next, err = cur.Ops.Lookup(cur, name)
	default:
		err = ErrNoSys
	}
	cur.UseCount--

	if err != nil {
		return nil, err
	}

	vfs.pathCache.Alloc(cur, next, name)
	return vfs.finishStep(next), nil
}

// finishStep applies the mount-crossing substitution and LRU refresh every
// successfully-resolved vnode goes through, whether it came from the path
// cache or from a fresh dispatch (original_source: Step's STEP_FINISH
// label, reached from both paths via goto).
func (vfs *Vfs) finishStep(v *Vnode) *Vnode {
	v = convertIfMounted(v)
	vfs.refreshLRU(v)
	return v
}

// convertIfMounted substitutes the mounted filesystem's root for a vnode
// that a child mount covers (original_source: ConvertVnodeIfMounted).
func convertIfMounted(v *Vnode) *Vnode {
	if v == nil || v.Flags&FlagMountOrigin == 0 || v.NewMount == nil {
		return v
	}
	return v.NewMount.VnodeCovered
}

// refreshLRU moves v to the most-recently-used end of the active list,
// unless it is a synthetic vnode (devfs ops, gated on pointer identity) or
// not a plain file/directory (original_source: RefreshLRU).
func (vfs *Vfs) refreshLRU(v *Vnode) {
	if v == nil {
		return
	}
	if v.Kind != KindRegular && v.Kind != KindDirectory {
		return
	}
	if v.Ops == nil || vfs.IsDefaultOps(v.Ops) {
		return
	}
	vfs.reg.refresh(v)
}

// memoize lazily records the absolute path a vnode was first resolved at.
// Once set, a vnode's FilePath never changes (original_source: VnodeLookupAt
// only assigns currentVnode->filePath when it was previously NULL).
func memoize(v *Vnode, path string) {
	if v != nil && v.FilePath == "" {
		v.FilePath = path
	}
}

// nextName splits the next path component off s, skipping any leading run
// of separators, mirroring the original's pointer-walking tokenizer
// (original_source: NextName). ok is false once nothing but separators (or
// nothing at all) remains.
func nextName(s string) (name, rest string, ok bool) {
	i := 0
	for i < len(s) && s[i] == '/' {
		i++
	}
	if i == len(s) {
		return "", "", false
	}
	start := i
	for i < len(s) && s[i] != '/' {
		i++
	}
	return s[start:i], s[i:], true
}

// hasMoreName reports whether s still contains a path component beyond
// separators.
func hasMoreName(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] != '/' {
			return true
		}
	}
	return false
}
