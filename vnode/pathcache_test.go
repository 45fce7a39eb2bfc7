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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemPathCache_AllocAndLookup(t *testing.T) {
	c := NewMemPathCache()
	parent := &Vnode{id: 1}
	child := &Vnode{id: 2}

	_, ok := c.Lookup(parent, "a")
	assert.False(t, ok)

	c.Alloc(parent, child, "a")
	got, ok := c.Lookup(parent, "a")
	assert.True(t, ok)
	assert.Same(t, child, got)
}

func TestMemPathCache_ChildrenOrderIsInsertionOrder(t *testing.T) {
	c := NewMemPathCache()
	parent := &Vnode{id: 1}

	for i, name := range []string{"c", "a", "b"} {
		c.Alloc(parent, &Vnode{id: uint64(i + 2)}, name)
	}
	assert.Equal(t, []string{"c", "a", "b"}, c.Children(parent))

	// Re-Alloc of an existing name must not duplicate its position.
	c.Alloc(parent, &Vnode{id: 99}, "a")
	assert.Equal(t, []string{"c", "a", "b"}, c.Children(parent))
}

func TestMemPathCache_EvictChild(t *testing.T) {
	c := NewMemPathCache()
	parent := &Vnode{id: 1}
	child := &Vnode{id: 2}
	c.Alloc(parent, child, "a")

	assert.True(t, c.EvictChild(parent, "a"))
	assert.False(t, c.EvictChild(parent, "a"))

	_, ok := c.Lookup(parent, "a")
	assert.False(t, ok)
	assert.Empty(t, c.Children(parent))
}

func TestMemPathCache_EvictVnode(t *testing.T) {
	c := NewMemPathCache()
	grandparent := &Vnode{id: 1}
	parent := &Vnode{id: 2}
	child := &Vnode{id: 3}

	c.Alloc(grandparent, parent, "mid")
	c.Alloc(parent, child, "leaf")

	c.EvictVnode(parent)

	// parent is gone both as a parent (its own children dropped) and as a
	// child referenced from grandparent.
	assert.Empty(t, c.Children(parent))
	_, ok := c.Lookup(grandparent, "mid")
	assert.False(t, ok)
}
