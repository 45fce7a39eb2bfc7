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
	"sync"
	"time"
)

// SimulatedClock is a clock that only advances when AdvanceTime or SetTime
// is called. The zero value is initialized to the zero time.
type SimulatedClock struct {
	mu sync.RWMutex
	t  time.Time // GUARDED_BY(mu)
}

// NewSimulatedClock returns a SimulatedClock starting at startTime.
func NewSimulatedClock(startTime time.Time) *SimulatedClock {
	return &SimulatedClock{t: startTime}
}

// Now returns the clock's current simulated time.
func (c *SimulatedClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.t
}

// AdvanceTime moves the simulated clock forward by d.
func (c *SimulatedClock) AdvanceTime(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// SetTime pins the simulated clock to t.
func (c *SimulatedClock) SetTime(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}
