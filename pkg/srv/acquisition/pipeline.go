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
	"sync"
	"time"

	"jinr.ru/greenlab/go-headset/pkg/accounting"
	"jinr.ru/greenlab/go-headset/pkg/device"
	"jinr.ru/greenlab/go-headset/pkg/log"
	"jinr.ru/greenlab/go-headset/pkg/protocol"
	"jinr.ru/greenlab/go-headset/pkg/quality"
	"jinr.ru/greenlab/go-headset/pkg/recording"
)

const (
	DefaultQueueSize = 256
	// controlQueueSize bounds the status and error events waiting for the listener
	controlQueueSize = 64
)

// Options tune a pipeline
type Options struct {
	// QueueSize is the number of frames a stream worker may hold
	QueueSize int
	// EegBufferTimepoints is the size of the raw EEG chunks, 0 means one frame
	EegBufferTimepoints int
	TriggerEnabled      bool
	Quality             quality.Engine
	Recorder            *recording.Manager
}

// Pipeline turns the mailbox frames of one headset into packets.
// Every stream has its own worker so frames of a stream are processed strictly in arrival order.
type Pipeline struct {
	profile    device.Profile
	codec      *protocol.Codec
	opts       Options
	listener   Listener
	accounting *accounting.Accounting
	quality    quality.Engine
	manager    *recording.Manager
	recorder   recorder

	mu      sync.RWMutex
	running bool
	control *worker
	eeg     *worker
	ims     *worker
	ppg     *worker
	eegs    *eegStream
	imss    *imsStream
	ppgs    *ppgStream
}

func NewPipeline(profile device.Profile, listener Listener, opts Options) *Pipeline {
	if opts.QueueSize <= 0 {
		opts.QueueSize = DefaultQueueSize
	}
	if listener == nil {
		listener = ListenerFuncs{}
	}
	p := &Pipeline{
		profile:    profile,
		codec:      protocol.NewCodec(profile),
		opts:       opts,
		listener:   listener,
		accounting: accounting.New(),
		quality:    opts.Quality,
		manager:    opts.Recorder,
	}
	if opts.Recorder != nil {
		p.recorder = opts.Recorder
	}
	return p
}

func (p *Pipeline) Profile() device.Profile {
	return p.profile
}

func (p *Pipeline) Codec() *protocol.Codec {
	return p.codec
}

// Start creates fresh workers, trackers and buffers. Starting a running pipeline does nothing.
func (p *Pipeline) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return
	}
	log.Debug("Starting %s pipeline", p.profile.Kind)
	p.control = newWorker("control", controlQueueSize)
	p.eeg = newWorker("eeg", p.opts.QueueSize)
	p.eegs = newEegStream(p)
	if p.profile.HasIms() {
		p.ims = newWorker("ims", p.opts.QueueSize)
		p.imss = newImsStream(p)
	}
	if p.profile.HasPpg() {
		p.ppg = newWorker("ppg", p.opts.QueueSize)
		p.ppgs = &ppgStream{profile: p.profile, accounting: p.accounting, listener: p.listener}
	}
	p.running = true
}

// Terminate stops the workers and discards the frames they did not process yet.
// It is idempotent.
func (p *Pipeline) Terminate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.running {
		return
	}
	for _, w := range p.workers() {
		w.stop()
	}
	p.control, p.eeg, p.ims, p.ppg = nil, nil, nil, nil
	p.eegs, p.imss, p.ppgs = nil, nil, nil
	p.running = false
	log.Debug("Terminated %s pipeline", p.profile.Kind)
}

func (p *Pipeline) workers() []*worker {
	var ws []*worker
	for _, w := range []*worker{p.control, p.eeg, p.ims, p.ppg} {
		if w != nil {
			ws = append(ws, w)
		}
	}
	return ws
}

// Running reports whether the pipeline accepts frames
func (p *Pipeline) Running() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.running
}

// Deliver is called by the transport for every notification. It never blocks:
// stream frames that do not fit into the worker queue are dropped and counted.
func (p *Pipeline) Deliver(ts time.Time, data []byte) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if !p.running {
		return
	}
	ev := p.codec.Decode(data)
	switch e := ev.(type) {
	case protocol.EegFrame:
		eegs := p.eegs
		p.enqueue(p.eeg, func() { eegs.process(ts, e.Payload) })
	case protocol.ImsFrame:
		if p.ims == nil {
			return
		}
		imss := p.imss
		p.enqueue(p.ims, func() { imss.process(ts, e.Payload) })
	case protocol.PpgFrame:
		if p.ppg == nil {
			return
		}
		ppgs := p.ppgs
		p.enqueue(p.ppg, func() { ppgs.process(e.Payload) })
	case protocol.TriggerConfig:
		eegs := p.eegs
		enabled := e.Size > 0
		p.enqueue(p.eeg, func() { eegs.setTrigger(enabled) })
		p.notify(ev)
	case protocol.Unknown:
		p.accounting.Unknown()
		if e.Err != nil {
			log.Warning("Unknown frame with opcode 0x%02x: %s", e.Opcode, e.Err)
			listener := p.listener
			p.enqueue(p.control, func() { listener.OnError(e.Err) })
		} else {
			log.Debug("Unknown frame with opcode 0x%02x", e.Opcode)
		}
	default:
		p.notify(ev)
	}
}

func (p *Pipeline) notify(ev protocol.Event) {
	listener := p.listener
	p.enqueue(p.control, func() { listener.OnStatus(ev) })
}

func (p *Pipeline) enqueue(w *worker, j job) {
	if !w.offer(j) {
		p.accounting.Dropped()
		log.Debug("Worker %s queue is full, dropping frame", w.name)
	}
}

// barrier runs j on the worker after every frame queued before it.
// When the pipeline is not running j runs on the caller goroutine.
// It must not be called from a listener callback.
func (p *Pipeline) barrier(pick func() *worker, j job) {
	p.mu.RLock()
	w := pick()
	p.mu.RUnlock()
	if w == nil || !w.call(j) {
		p.mu.Lock()
		defer p.mu.Unlock()
		j()
	}
}

// StartRecording opens a recording session
func (p *Pipeline) StartRecording(opts recording.Options, info device.Info) (recording.Header, error) {
	if p.manager == nil {
		return recording.Header{}, recording.ErrRecording{What: "recording is not configured"}
	}
	return p.manager.Start(opts, info)
}

// StopRecording is linearized with the EEG and IMS frames already queued
// so the recording holds every window built out of them
func (p *Pipeline) StopRecording() (recording.Header, error) {
	if p.manager == nil {
		return recording.Header{}, recording.ErrRecording{What: "recording is not configured"}
	}
	var header recording.Header
	var err error
	p.barrier(func() *worker { return p.ims }, func() {})
	p.barrier(func() *worker { return p.eeg }, func() {
		header, err = p.manager.Stop(p.accounting.Counters(), p.accounting.Faults())
	})
	return header, err
}

// Recording reports whether a recording is active
func (p *Pipeline) Recording() bool {
	return p.manager != nil && p.manager.Active()
}

// ClearBuffer drops the samples waiting for a window on every stream
func (p *Pipeline) ClearBuffer() {
	p.barrier(func() *worker { return p.eeg }, func() {
		if p.eegs != nil {
			p.eegs.clear()
		}
	})
	p.barrier(func() *worker { return p.ims }, func() {
		if p.imss != nil {
			p.imss.clear()
		}
	})
}

// Reconnect forgets the sequence state of every stream, the next frames seed the trackers again
func (p *Pipeline) Reconnect() {
	p.barrier(func() *worker { return p.eeg }, func() {
		if p.eegs != nil {
			p.eegs.reset()
		}
	})
	p.barrier(func() *worker { return p.ims }, func() {
		if p.imss != nil {
			p.imss.reset()
		}
	})
}

// SetTriggerEnabled switches the EEG record layout after the frames already queued
func (p *Pipeline) SetTriggerEnabled(enabled bool) {
	p.barrier(func() *worker { return p.eeg }, func() {
		if p.eegs != nil {
			p.eegs.setTrigger(enabled)
		}
	})
	p.mu.Lock()
	p.opts.TriggerEnabled = enabled
	p.mu.Unlock()
}

func (p *Pipeline) ResetCounters() {
	p.accounting.ResetData()
}

func (p *Pipeline) Counters() accounting.ErrorCounters {
	return p.accounting.Counters()
}

func (p *Pipeline) Faults() accounting.Faults {
	return p.accounting.Faults()
}

func (p *Pipeline) MissingPercent() float64 {
	return p.accounting.MissingPercent()
}
