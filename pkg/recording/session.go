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

package recording

import (
	"math"
	"time"

	"jinr.ru/greenlab/go-headset/pkg/accounting"
	"jinr.ru/greenlab/go-headset/pkg/device"
	"jinr.ru/greenlab/go-headset/pkg/frame"
)

type Options struct {
	Target    string `json:"target"`
	Format    string `json:"format"`
	Comment   string `json:"comment,omitempty"`
	RecordIms bool   `json:"ims,omitempty"`
}

// Header is the device and session description stored with every recording
type Header struct {
	ID         string         `json:"id"`
	Device     device.Profile `json:"device"`
	DeviceInfo device.Info    `json:"deviceInfo"`
	Start      time.Time      `json:"start"`
	Stop       time.Time      `json:"stop"`
	Comment    string         `json:"comment,omitempty"`
	Target     string         `json:"target"`
	Format     string         `json:"format"`
}

// Recording is the frozen content of a finished session, channel major
type Recording struct {
	Header    Header                   `json:"header"`
	Channels  [][]float64              `json:"channels"`
	Status    []float64                `json:"status,omitempty"`
	Gaps      []bool                   `json:"gaps,omitempty"`
	Positions []frame.Position         `json:"positions,omitempty"`
	Counters  accounting.ErrorCounters `json:"counters"`
	Faults    accounting.Faults        `json:"faults"`
}

// Samples is the number of samples per channel
func (r *Recording) Samples() int {
	if len(r.Channels) == 0 {
		return 0
	}
	return len(r.Channels[0])
}

// Session accumulates packets between start and stop
type Session struct {
	header    Header
	recordIms bool
	channels  [][]float64
	status    []float64
	gaps      []bool
	hasStatus bool
	positions []frame.Position
}

func newSession(header Header, recordIms bool) *Session {
	return &Session{
		header:    header,
		recordIms: recordIms,
		channels:  make([][]float64, header.Device.ChannelCount),
	}
}

func (s *Session) samples() int {
	if len(s.channels) == 0 {
		return 0
	}
	return len(s.channels[0])
}

// addSignal keeps the status vector aligned with the samples. Samples
// recorded while the trigger was off carry a NaN status.
func (s *Session) addSignal(channels [][]float64, status []float64, gaps []bool) {
	before := s.samples()
	for ch := range s.channels {
		if ch < len(channels) {
			s.channels[ch] = append(s.channels[ch], channels[ch]...)
		}
	}
	s.gaps = append(s.gaps, gaps...)
	if len(status) > 0 && !s.hasStatus {
		s.hasStatus = true
		s.status = nan(s.status, before)
	}
	if !s.hasStatus {
		return
	}
	added := s.samples() - before
	if len(status) > added {
		status = status[:added]
	}
	s.status = append(s.status, status...)
	s.status = nan(s.status, added-len(status))
}

func nan(v []float64, n int) []float64 {
	for i := 0; i < n; i++ {
		v = append(v, math.NaN())
	}
	return v
}

func (s *Session) addPositions(positions []frame.Position) {
	if s.recordIms {
		s.positions = append(s.positions, positions...)
	}
}

func (s *Session) freeze(stop time.Time, counters accounting.ErrorCounters, faults accounting.Faults) *Recording {
	s.header.Stop = stop
	r := &Recording{
		Header:    s.header,
		Channels:  s.channels,
		Gaps:      s.gaps,
		Positions: s.positions,
		Counters:  counters,
		Faults:    faults,
	}
	if s.hasStatus {
		r.Status = s.status
	}
	return r
}
