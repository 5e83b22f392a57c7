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
	"time"

	"jinr.ru/greenlab/go-headset/pkg/frame"
	"jinr.ru/greenlab/go-headset/pkg/protocol"
)

// SignalPacket is a window of exactly SampleRate EEG samples per channel.
// Packets are never modified after they are emitted.
type SignalPacket struct {
	Channels     [][]float64 `json:"channels"`
	Status       []float64   `json:"status,omitempty"`
	Gaps         []bool      `json:"gaps"`
	Quality      []float64   `json:"quality,omitempty"`
	ChannelCount int         `json:"channelCount"`
	SampleRate   int         `json:"sampleRate"`
	StartIndex   int64       `json:"startIndex"`
	Timestamp    time.Time   `json:"timestamp"`
}

// PositionPacket is a window of IMS samples
type PositionPacket struct {
	Positions  []frame.Position `json:"positions"`
	StartIndex int64            `json:"startIndex"`
	Timestamp  time.Time        `json:"timestamp"`
}

// Listener receives the output of a pipeline.
// Packet callbacks run on the stream workers, status and error callbacks may run on any worker.
type Listener interface {
	OnEegPacket(p SignalPacket)
	OnImsPacket(p PositionPacket)
	OnPpgFrame(f frame.PpgFrame)
	OnStatus(ev protocol.Event)
	OnError(err error)
}

// ListenerFuncs is a Listener built out of optional functions
type ListenerFuncs struct {
	EegPacket func(p SignalPacket)
	ImsPacket func(p PositionPacket)
	PpgFrame  func(f frame.PpgFrame)
	Status    func(ev protocol.Event)
	Error     func(err error)
}

func (l ListenerFuncs) OnEegPacket(p SignalPacket) {
	if l.EegPacket != nil {
		l.EegPacket(p)
	}
}

func (l ListenerFuncs) OnImsPacket(p PositionPacket) {
	if l.ImsPacket != nil {
		l.ImsPacket(p)
	}
}

func (l ListenerFuncs) OnPpgFrame(f frame.PpgFrame) {
	if l.PpgFrame != nil {
		l.PpgFrame(f)
	}
}

func (l ListenerFuncs) OnStatus(ev protocol.Event) {
	if l.Status != nil {
		l.Status(ev)
	}
}

func (l ListenerFuncs) OnError(err error) {
	if l.Error != nil {
		l.Error(err)
	}
}

// Listeners fans every callback out to all of its members in order
type Listeners []Listener

func (ls Listeners) OnEegPacket(p SignalPacket) {
	for _, l := range ls {
		l.OnEegPacket(p)
	}
}

func (ls Listeners) OnImsPacket(p PositionPacket) {
	for _, l := range ls {
		l.OnImsPacket(p)
	}
}

func (ls Listeners) OnPpgFrame(f frame.PpgFrame) {
	for _, l := range ls {
		l.OnPpgFrame(f)
	}
}

func (ls Listeners) OnStatus(ev protocol.Event) {
	for _, l := range ls {
		l.OnStatus(ev)
	}
}

func (ls Listeners) OnError(err error) {
	for _, l := range ls {
		l.OnError(err)
	}
}
