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

// Checker is the external permission check the walker consults before
// descending past an intermediate directory (§4.C, §6). Out of scope: the
// real check reads a POSIX credential set this module never sees.
type Checker interface {
	Can(v *Vnode, op Op) bool
}

// AllowAll is a reference Checker that permits everything. It stands in for
// the production permission check in tests and in the demo CLI, the same
// way the walker needs a concrete PathCache and Normalizer to run at all.
type AllowAll struct{}

func (AllowAll) Can(v *Vnode, op Op) bool { return true }
