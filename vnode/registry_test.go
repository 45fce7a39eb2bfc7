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

func TestRegistry_EnrollAndDetachAreDisjoint(t *testing.T) {
	r := newRegistry(16)
	v := &Vnode{id: 1}

	r.enrollFree(v)
	assert.Equal(t, stateFree, v.state)
	assert.Len(t, r.freeSnapshot(), 1)

	r.detach(v)
	assert.Equal(t, stateDetached, v.state)
	assert.Empty(t, r.freeSnapshot())

	r.enrollVirtual(v)
	assert.Equal(t, stateVirtual, v.state)
	assert.Len(t, r.virtualSnapshot(), 1)

	r.detach(v)
	r.enrollActiveTail(v)
	assert.Equal(t, stateActive, v.state)
	assert.Len(t, r.activeSnapshot(), 1)
}

func TestRegistry_TakeFreeHeadIsLIFO(t *testing.T) {
	r := newRegistry(16)
	v1 := &Vnode{id: 1}
	v2 := &Vnode{id: 2}
	r.enrollFree(v1)
	r.enrollFree(v2)

	assert.Same(t, v2, r.takeFreeHead())
	assert.Same(t, v1, r.takeFreeHead())
	assert.Nil(t, r.takeFreeHead())
}

func TestRegistry_RefreshOnlyAffectsActiveVnodes(t *testing.T) {
	r := newRegistry(16)
	v := &Vnode{id: 1}
	r.enrollFree(v)

	// No-op: v is not active.
	r.refresh(v)
	assert.Equal(t, stateFree, v.state)

	r.detach(v)
	r.enrollActiveTail(v)
	v2 := &Vnode{id: 2}
	r.enrollActiveTail(v2)

	r.refresh(v)
	assert.Equal(t, []*Vnode{v2, v}, r.activeSnapshot())
}
