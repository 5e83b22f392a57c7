/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package sequence

import (
	"fmt"
)

const (
	// RingSize is the number of distinct rolling index values
	RingSize = 1 << 16
	// halfRing is the largest forward distance across the wrap that is still a rollover
	halfRing = RingSize / 2
)

// ErrSequenceAnomaly is returned for a backward jump of the rolling index
// that can not be explained by a rollover
type ErrSequenceAnomaly struct {
	Previous int64
	Rolling  uint16
}

func (e ErrSequenceAnomaly) Error() string {
	return fmt.Sprintf("Sequence anomaly: rolling index %d after absolute index %d", e.Rolling, e.Previous)
}

// Tracker turns the 16 bit rolling index of one stream into a monotonic absolute index.
// It is owned by a single stream worker and is not safe for concurrent use.
type Tracker struct {
	seeded   bool
	previous int64
	overflow int64
	// offset re-anchors the absolute index after an anomaly
	offset int64
}

func NewTracker() *Tracker {
	return &Tracker{}
}

// Next registers rolling index r and returns its absolute index and the number of
// frames missing between the previous index and this one.
// An anomaly does not stop tracking: missing is 0 and the index continues after the previous one.
func (t *Tracker) Next(r uint16) (absolute int64, missing int64, err error) {
	if !t.seeded {
		t.seeded = true
		t.previous = t.absolute(r) - 1
	}
	candidate := t.absolute(r)
	if candidate < t.previous {
		lastRolling := (t.previous - t.offset) % RingSize
		if RingSize-lastRolling+int64(r) < halfRing {
			t.overflow++
			candidate = t.absolute(r)
		} else {
			err = ErrSequenceAnomaly{Previous: t.previous, Rolling: r}
			t.offset += t.previous + 1 - candidate
			candidate = t.previous + 1
			t.previous = candidate
			return candidate, 0, err
		}
	}
	missing = candidate - t.previous - 1
	if missing < 0 {
		missing = 0
	}
	t.previous = candidate
	return candidate, missing, nil
}

func (t *Tracker) absolute(r uint16) int64 {
	return t.overflow*RingSize + int64(r) + t.offset
}

// Previous returns the last absolute index and false when nothing was tracked yet
func (t *Tracker) Previous() (int64, bool) {
	return t.previous, t.seeded
}

// Overflow is the number of rollovers observed so far
func (t *Tracker) Overflow() int64 {
	return t.overflow
}

// Reset forgets all state, the next index seeds the tracker again
func (t *Tracker) Reset() {
	*t = Tracker{}
}
