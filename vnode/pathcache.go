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

// PathCache is the external (parent, name) → child memo this component
// consults on every path-walk step before falling back to filesystem
// dispatch (§6). Its implementation — hashing, eviction, persistence — is
// out of scope for this module; only this contract is.
type PathCache interface {
	// Lookup returns the cached child of parent named name, if any.
	Lookup(parent *Vnode, name string) (*Vnode, bool)

	// Alloc records that child is the resolution of name under parent.
	Alloc(parent, child *Vnode, name string)

	// EvictChild removes the single (parent, name) entry, if present, and
	// reports whether anything was removed. Used by ChangeRoot's rewiring
	// (§4.E), which must locate and discard one specific entry by name.
	EvictChild(parent *Vnode, name string) bool

	// EvictVnode flushes every entry that references v, whether as parent
	// or as child. Called by Pool.Free (§4.A) before a vnode's slot is
	// reused or released.
	EvictVnode(v *Vnode)

	// Children returns the names cached under parent in the cache's own
	// enumeration order, stable across calls until the next Alloc/Evict.
	// The directory stream (component F) walks this list.
	Children(parent *Vnode) []string
}

// MemPathCache is a reference, in-memory implementation of PathCache. It is
// not the production path-name cache described in §6 — that is explicitly
// out of scope and owned elsewhere in the wider VFS — but the walker and
// pool need a concrete collaborator to be exercised and tested end to end,
// the same way the teacher pairs its gcs.Bucket interface with fake and
// real implementations.
type MemPathCache struct {
	entries map[*Vnode]map[string]*Vnode
	order   map[*Vnode][]string
}

// NewMemPathCache returns an empty MemPathCache.
func NewMemPathCache() *MemPathCache {
	return &MemPathCache{
		entries: make(map[*Vnode]map[string]*Vnode),
		order:   make(map[*Vnode][]string),
	}
}

func (c *MemPathCache) Lookup(parent *Vnode, name string) (*Vnode, bool) {
	children, ok := c.entries[parent]
	if !ok {
		return nil, false
	}
	child, ok := children[name]
	return child, ok
}

func (c *MemPathCache) Alloc(parent, child *Vnode, name string) {
	children, ok := c.entries[parent]
	if !ok {
		children = make(map[string]*Vnode)
		c.entries[parent] = children
	}
	if _, exists := children[name]; !exists {
		c.order[parent] = append(c.order[parent], name)
	}
	children[name] = child
}

func (c *MemPathCache) EvictChild(parent *Vnode, name string) bool {
	children, ok := c.entries[parent]
	if !ok {
		return false
	}
	if _, ok := children[name]; !ok {
		return false
	}
	delete(children, name)
	c.removeOrder(parent, name)
	if len(children) == 0 {
		delete(c.entries, parent)
		delete(c.order, parent)
	}
	return true
}

func (c *MemPathCache) EvictVnode(v *Vnode) {
	// v as parent: drop its whole child map.
	delete(c.entries, v)
	delete(c.order, v)

	// v as child: scan every parent's children. This visits every entry in
	// the cache, so its cost grows with the total cache size.
	for parent, children := range c.entries {
		for name, child := range children {
			if child == v {
				delete(children, name)
				c.removeOrder(parent, name)
			}
		}
		if len(children) == 0 {
			delete(c.entries, parent)
			delete(c.order, parent)
		}
	}
}

func (c *MemPathCache) Children(parent *Vnode) []string {
	names := c.order[parent]
	out := make([]string, len(names))
	copy(out, names)
	return out
}

func (c *MemPathCache) removeOrder(parent *Vnode, name string) {
	names := c.order[parent]
	for i, n := range names {
		if n == name {
			c.order[parent] = append(names[:i], names[i+1:]...)
			return
		}
	}
}
