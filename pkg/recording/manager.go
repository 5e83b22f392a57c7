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
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"jinr.ru/greenlab/go-headset/pkg/accounting"
	"jinr.ru/greenlab/go-headset/pkg/device"
	"jinr.ru/greenlab/go-headset/pkg/frame"
	"jinr.ru/greenlab/go-headset/pkg/log"
)

// Exporter writes a finished recording to its target
type Exporter interface {
	Export(r *Recording) error
}

// ExporterFactory returns the exporter of a format
type ExporterFactory func(format string) (Exporter, error)

// Result reports the outcome of an export
type Result struct {
	Header  Header
	Samples int
	Err     error
}

type finalizeJob struct {
	recording *Recording
	exporter  Exporter
}

// Manager owns at most one active session and exports finished sessions
// on its own goroutine. Finished sessions queue without bound, so Stop
// never waits for an export.
type Manager struct {
	mu        sync.Mutex
	profile   device.Profile
	exporters ExporterFactory
	done      func(Result)
	session   *Session
	exporter  Exporter
	pending   []finalizeJob
	ready     *sync.Cond
	closed    bool
	wg        sync.WaitGroup
}

// NewManager starts the finalizer. done is called on the finalizer goroutine after every export.
func NewManager(profile device.Profile, exporters ExporterFactory, done func(Result)) *Manager {
	m := &Manager{
		profile:   profile,
		exporters: exporters,
		done:      done,
	}
	m.ready = sync.NewCond(&m.mu)
	m.wg.Add(1)
	go m.finalize()
	return m
}

// Start opens a new session
func (m *Manager) Start(opts Options, info device.Info) (Header, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return Header{}, ErrRecording{What: "recording manager is closed"}
	}
	if m.session != nil {
		return Header{}, ErrRecording{What: fmt.Sprintf("recording %s is already active", m.session.header.ID)}
	}
	if opts.Target == "" {
		return Header{}, ErrRecording{What: "no output target"}
	}
	exporter, err := m.exporters(opts.Format)
	if err != nil {
		return Header{}, ErrRecording{What: err.Error()}
	}
	header := Header{
		ID:         uuid.New().String(),
		Device:     m.profile,
		DeviceInfo: info,
		Start:      time.Now(),
		Comment:    opts.Comment,
		Target:     opts.Target,
		Format:     opts.Format,
	}
	m.session = newSession(header, opts.RecordIms)
	m.exporter = exporter
	log.Info("Recording %s started, target %s", header.ID, header.Target)
	return header, nil
}

// Active reports whether a session is open
func (m *Manager) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session != nil
}

// AddSignal appends an EEG window, ignored when no session is open
func (m *Manager) AddSignal(channels [][]float64, status []float64, gaps []bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session != nil {
		m.session.addSignal(channels, status, gaps)
	}
}

// AddPositions appends an IMS window, ignored when no session is open
func (m *Manager) AddPositions(positions []frame.Position) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session != nil {
		m.session.addPositions(positions)
	}
}

// Stop freezes the session and queues it for export.
// The export outcome is reported to the done callback, which must not call the manager.
func (m *Manager) Stop(counters accounting.ErrorCounters, faults accounting.Faults) (Header, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return Header{}, ErrRecording{What: "no active recording"}
	}
	r := m.session.freeze(time.Now(), counters, faults)
	m.pending = append(m.pending, finalizeJob{recording: r, exporter: m.exporter})
	m.ready.Signal()
	m.session = nil
	m.exporter = nil
	log.Info("Recording %s stopped, %d samples per channel", r.Header.ID, r.Samples())
	return r.Header, nil
}

func (m *Manager) finalize() {
	defer m.wg.Done()
	for {
		job, ok := m.next()
		if !ok {
			return
		}
		result := Result{Header: job.recording.Header, Samples: job.recording.Samples()}
		if err := job.exporter.Export(job.recording); err != nil {
			log.Error("Error while exporting recording %s: %s", result.Header.ID, err)
			result.Err = ErrRecording{What: err.Error()}
		} else {
			log.Info("Recording %s exported to %s", result.Header.ID, result.Header.Target)
		}
		if m.done != nil {
			m.done(result)
		}
	}
}

// next blocks until a job is pending. It returns false once the manager is
// closed and the queue is drained.
func (m *Manager) next() (finalizeJob, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for len(m.pending) == 0 && !m.closed {
		m.ready.Wait()
	}
	if len(m.pending) == 0 {
		return finalizeJob{}, false
	}
	job := m.pending[0]
	m.pending[0] = finalizeJob{}
	m.pending = m.pending[1:]
	return job, true
}

// Close waits for pending exports. An active session is discarded.
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	if m.session != nil {
		log.Warning("Discarding active recording %s", m.session.header.ID)
		m.session = nil
	}
	m.ready.Broadcast()
	m.mu.Unlock()
	m.wg.Wait()
}
