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

// Package clock provides an injectable notion of "now", grounded on the
// teacher's own clock package: a small interface plus a real and a
// simulated implementation, so that time-sensitive logging (admin dump
// timestamps, mount-change audit records) is deterministic under test.
package clock

import "time"

// Clock is the injectable source of the current time.
type Clock interface {
	Now() time.Time
}
