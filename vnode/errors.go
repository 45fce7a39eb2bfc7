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

import "errors"

// Error taxonomy for the vnode cache and path walker. Every fallible
// operation returns one of these (wrapped with context via fmt.Errorf and
// %w) rather than unwinding; callers match with errors.Is.
var (
	// ErrNoMemory means no pool slot was available and reclamation failed.
	ErrNoMemory = errors.New("vnode: no memory")

	// ErrBusy means Free was attempted on a vnode with a positive use count.
	ErrBusy = errors.New("vnode: busy")

	// ErrNoEntry means a path component is absent and CREATE was not requested.
	ErrNoEntry = errors.New("vnode: no such entry")

	// ErrNotDir means an intermediate path component is not a directory.
	ErrNotDir = errors.New("vnode: not a directory")

	// ErrNameTooLong means a string copy would exceed a fixed buffer.
	ErrNameTooLong = errors.New("vnode: name too long")

	// ErrDenied means a permission check failed on an intermediate directory.
	ErrDenied = errors.New("vnode: permission denied")

	// ErrNoSys means a filesystem vnode lacks a Lookup implementation.
	ErrNoSys = errors.New("vnode: operation not implemented")

	// ErrInvalid means a null/invalid argument was supplied where none is
	// allowed.
	ErrInvalid = errors.New("vnode: invalid argument")
)
