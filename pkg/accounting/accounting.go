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

package accounting

import (
	"sync"
)

// Unset marks an index that was not observed yet
const Unset int64 = -1

// ErrorCounters are the loss and zero sample counters of the EEG stream.
// They only grow between resets.
type ErrorCounters struct {
	StartingIndex   int64 `json:"startingIndex" yaml:"startingIndex"`
	CurrentIndex    int64 `json:"currentIndex" yaml:"currentIndex"`
	MissingFrame    int64 `json:"missingFrame" yaml:"missingFrame"`
	ZeroTimeCount   int64 `json:"zeroTimeCount" yaml:"zeroTimeCount"`
	ZeroSampleCount int64 `json:"zeroSampleCount" yaml:"zeroSampleCount"`
}

// MissingPercent is the share of missing frames over the observed index span
func (c ErrorCounters) MissingPercent() float64 {
	if c.StartingIndex == Unset || c.CurrentIndex == Unset {
		return 0
	}
	span := c.CurrentIndex - c.StartingIndex + 1
	if span <= 0 {
		return 0
	}
	return float64(c.MissingFrame) * 100 / float64(span)
}

// Faults counts the data path errors that were recovered
type Faults struct {
	Unknown   int64 `json:"unknown" yaml:"unknown"`
	Rejected  int64 `json:"rejected" yaml:"rejected"`
	Anomalies int64 `json:"anomalies" yaml:"anomalies"`
	Dropped   int64 `json:"dropped" yaml:"dropped"`
}

// Accounting is written by the EEG worker and read by anyone
type Accounting struct {
	mu       sync.Mutex
	counters ErrorCounters
	faults   Faults
}

func New() *Accounting {
	a := &Accounting{}
	a.ResetData()
	return a
}

// Frame registers the absolute index of a received frame and the frames missing before it
func (a *Accounting) Frame(index, missing int64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.counters.StartingIndex == Unset {
		a.counters.StartingIndex = index
	}
	if index > a.counters.CurrentIndex {
		a.counters.CurrentIndex = index
	}
	a.counters.MissingFrame += missing
}

// CountZeroSample counts the all zero channels of every timepoint of a raw EEG payload
func (a *Accounting) CountZeroSample(payload []byte, channelCount int) {
	a.CountZeroSampleStride(payload, channelCount, channelCount*2)
}

// CountZeroSampleStride is CountZeroSample for timepoints of stride bytes,
// the bytes after the channel samples are ignored
func (a *Accounting) CountZeroSampleStride(payload []byte, channelCount, stride int) {
	if channelCount <= 0 || stride < channelCount*2 {
		return
	}
	var samples, times int64
	for off := 0; off+stride <= len(payload); off += stride {
		zeros := 0
		for ch := 0; ch < channelCount; ch++ {
			if payload[off+ch*2] == 0 && payload[off+ch*2+1] == 0 {
				zeros++
			}
		}
		samples += int64(zeros)
		if zeros == channelCount {
			times++
		}
	}
	a.mu.Lock()
	a.counters.ZeroSampleCount += samples
	a.counters.ZeroTimeCount += times
	a.mu.Unlock()
}

func (a *Accounting) Unknown() {
	a.mu.Lock()
	a.faults.Unknown++
	a.mu.Unlock()
}

func (a *Accounting) Rejected() {
	a.mu.Lock()
	a.faults.Rejected++
	a.mu.Unlock()
}

func (a *Accounting) Anomaly() {
	a.mu.Lock()
	a.faults.Anomalies++
	a.mu.Unlock()
}

func (a *Accounting) Dropped() {
	a.mu.Lock()
	a.faults.Dropped++
	a.mu.Unlock()
}

// Counters returns a snapshot of the counters
func (a *Accounting) Counters() ErrorCounters {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.counters
}

// Faults returns a snapshot of the fault counters
func (a *Accounting) Faults() Faults {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.faults
}

func (a *Accounting) MissingPercent() float64 {
	return a.Counters().MissingPercent()
}

// ResetData is the only way counters go back to zero
func (a *Accounting) ResetData() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.counters = ErrorCounters{StartingIndex: Unset, CurrentIndex: Unset}
	a.faults = Faults{}
}
