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

package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSimulatedClock_AdvanceTime(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewSimulatedClock(start)
	assert.Equal(t, start, c.Now())

	c.AdvanceTime(time.Hour)
	assert.Equal(t, start.Add(time.Hour), c.Now())
}

func TestSimulatedClock_SetTime(t *testing.T) {
	c := NewSimulatedClock(time.Time{})
	target := time.Date(2030, 5, 5, 5, 5, 5, 0, time.UTC)
	c.SetTime(target)
	assert.Equal(t, target, c.Now())
}

func TestRealClock_ReportsNonZeroTime(t *testing.T) {
	var c Clock = RealClock{}
	assert.False(t, c.Now().IsZero())
}
