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
	"fmt"
	"strings"
)

// Normalizer canonicalizes a path (collapsing "." / ".." and duplicate
// separators into an owned absolute path). Out of scope per §6; this is the
// contract the walker's preprocessing step consumes.
type Normalizer interface {
	Normalize(cwd, input string) (string, error)
}

// DefaultNormalizer is a reference implementation good enough to exercise
// and test the walker; the production normalizer (normalize_path) lives
// elsewhere in the wider VFS.
type DefaultNormalizer struct{}

// Normalize resolves input against cwd (used only when input is relative),
// collapsing "." and ".." components and duplicate separators, and always
// returns an absolute path.
func (DefaultNormalizer) Normalize(cwd, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("%w: empty path", ErrInvalid)
	}

	base := input
	if !strings.HasPrefix(input, "/") {
		if cwd == "" {
			cwd = "/"
		}
		base = cwd + "/" + input
	}

	segments := strings.Split(base, "/")
	var stack []string
	for _, seg := range segments {
		switch seg {
		case "", ".":
			// skip
		case "..":
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		default:
			stack = append(stack, seg)
		}
	}

	if len(stack) == 0 {
		return "/", nil
	}
	return "/" + strings.Join(stack, "/"), nil
}
