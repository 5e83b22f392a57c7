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

package acquisition

import (
	"encoding/hex"
	"time"

	"jinr.ru/greenlab/go-headset/pkg/accounting"
	"jinr.ru/greenlab/go-headset/pkg/assembler"
	"jinr.ru/greenlab/go-headset/pkg/device"
	"jinr.ru/greenlab/go-headset/pkg/frame"
	"jinr.ru/greenlab/go-headset/pkg/gapfill"
	"jinr.ru/greenlab/go-headset/pkg/log"
	"jinr.ru/greenlab/go-headset/pkg/quality"
	"jinr.ru/greenlab/go-headset/pkg/sequence"
)

// recorder receives the windows while a recording is active
type recorder interface {
	AddSignal(channels [][]float64, status []float64, gaps []bool)
	AddPositions(positions []frame.Position)
}

// eegStream is owned by the EEG worker
type eegStream struct {
	profile    device.Profile
	trigger    bool
	chunk      int
	tracker    *sequence.Tracker
	raw        *gapfill.RawBuffer
	windows    *assembler.Assembler[frame.EegSample]
	accounting *accounting.Accounting
	quality    quality.Engine
	recorder   recorder
	listener   Listener
}

func newEegStream(p *Pipeline) *eegStream {
	chunk := p.opts.EegBufferTimepoints
	if chunk <= 0 {
		chunk = p.profile.EegSamplesPerFrame
	}
	return &eegStream{
		profile:    p.profile,
		trigger:    p.opts.TriggerEnabled,
		chunk:      chunk,
		tracker:    sequence.NewTracker(),
		raw:        gapfill.NewRawBuffer(p.profile.BytesPerTimepoint(p.opts.TriggerEnabled), chunk),
		windows:    assembler.New[frame.EegSample](p.profile.SampleRate),
		accounting: p.accounting,
		quality:    p.quality,
		recorder:   p.recorder,
		listener:   p.listener,
	}
}

func (s *eegStream) process(ts time.Time, payload []byte) {
	bpt := s.profile.BytesPerTimepoint(s.trigger)
	rolling, records, err := frame.SplitEeg(payload, bpt)
	if err != nil {
		s.accounting.Rejected()
		log.Warning("Dropping EEG frame: %s", err)
		if log.Enabled(log.DebugLevel) {
			log.Debug("EEG frame: %s", hex.EncodeToString(payload))
		}
		s.listener.OnError(err)
		return
	}
	index, missing, err := s.tracker.Next(rolling)
	if err != nil {
		s.accounting.Anomaly()
		log.Warning("EEG stream: %s", err)
		s.listener.OnError(err)
	}
	if missing > 0 {
		log.Debug("EEG stream: %d frames missing before %d", missing, index)
	}
	s.accounting.Frame(index, missing)
	s.accounting.CountZeroSampleStride(records, s.profile.ChannelCount, bpt)

	for _, chunk := range s.raw.Push(index, missing, s.profile.EegSamplesPerFrame, records) {
		samples := frame.DecodeEegTimepoints(chunk.Data, chunk.Meta, s.profile.ChannelCount, s.trigger, s.profile.VoltageScale)
		for _, w := range s.windows.Append(samples...) {
			s.emit(ts, w)
		}
	}
}

func (s *eegStream) emit(ts time.Time, w []frame.EegSample) {
	p := SignalPacket{
		Channels:     make([][]float64, s.profile.ChannelCount),
		Gaps:         make([]bool, len(w)),
		ChannelCount: s.profile.ChannelCount,
		SampleRate:   s.profile.SampleRate,
		StartIndex:   w[0].Index,
		Timestamp:    ts,
	}
	for ch := range p.Channels {
		p.Channels[ch] = make([]float64, len(w))
	}
	if w[0].HasStatus {
		p.Status = make([]float64, len(w))
	}
	for i, sample := range w {
		for ch := range p.Channels {
			p.Channels[ch][i] = sample.Values[ch]
		}
		if p.Status != nil {
			p.Status[i] = sample.Status
		}
		p.Gaps[i] = sample.Gap
	}
	if s.quality != nil {
		p.Quality = s.quality.Score(p.Channels, p.SampleRate)
	}
	s.listener.OnEegPacket(p)
	if s.recorder != nil {
		s.recorder.AddSignal(p.Channels, p.Status, p.Gaps)
	}
}

func (s *eegStream) setTrigger(enabled bool) {
	if s.trigger == enabled {
		return
	}
	s.trigger = enabled
	s.raw.SetBytesPerTimepoint(s.profile.BytesPerTimepoint(enabled))
	s.windows.Clear()
}

func (s *eegStream) clear() {
	s.raw.Clear()
	s.windows.Clear()
}

func (s *eegStream) reset() {
	s.tracker.Reset()
	s.clear()
}

// imsStream is owned by the IMS worker
type imsStream struct {
	profile    device.Profile
	tracker    *sequence.Tracker
	windows    *assembler.Assembler[frame.Position]
	accounting *accounting.Accounting
	recorder   recorder
	listener   Listener
}

func newImsStream(p *Pipeline) *imsStream {
	return &imsStream{
		profile:    p.profile,
		tracker:    sequence.NewTracker(),
		windows:    assembler.New[frame.Position](p.profile.ImsSampleRate),
		accounting: p.accounting,
		recorder:   p.recorder,
		listener:   p.listener,
	}
}

func (s *imsStream) process(ts time.Time, payload []byte) {
	rolling, positions, err := frame.DecodeImsFrame(payload)
	if err != nil {
		s.accounting.Rejected()
		log.Warning("Dropping IMS frame: %s", err)
		s.listener.OnError(err)
		return
	}
	index, missing, err := s.tracker.Next(rolling)
	if err != nil {
		s.accounting.Anomaly()
		log.Warning("IMS stream: %s", err)
		s.listener.OnError(err)
	}
	filled := gapfill.Positions(index, missing, s.profile.ImsSamplesPerFrame, positions)
	for _, w := range s.windows.Append(filled...) {
		s.listener.OnImsPacket(PositionPacket{
			Positions:  w,
			StartIndex: w[0].Index,
			Timestamp:  ts,
		})
		if s.recorder != nil {
			s.recorder.AddPositions(w)
		}
	}
}

func (s *imsStream) clear() {
	s.windows.Clear()
}

func (s *imsStream) reset() {
	s.tracker.Reset()
	s.clear()
}

type ppgStream struct {
	profile    device.Profile
	accounting *accounting.Accounting
	listener   Listener
}

func (s *ppgStream) process(data []byte) {
	f, err := frame.DecodePpgFrame(data, s.profile)
	if err != nil {
		s.accounting.Rejected()
		log.Warning("Dropping PPG frame: %s", err)
		s.listener.OnError(err)
		return
	}
	s.listener.OnPpgFrame(f)
}
