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
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/gopacket"

	"jinr.ru/greenlab/go-headset/pkg/accounting"
	"jinr.ru/greenlab/go-headset/pkg/config"
	"jinr.ru/greenlab/go-headset/pkg/device"
	"jinr.ru/greenlab/go-headset/pkg/export"
	"jinr.ru/greenlab/go-headset/pkg/layers"
	"jinr.ru/greenlab/go-headset/pkg/log"
	"jinr.ru/greenlab/go-headset/pkg/protocol"
	"jinr.ru/greenlab/go-headset/pkg/quality"
	"jinr.ru/greenlab/go-headset/pkg/recording"
	"jinr.ru/greenlab/go-headset/pkg/state"
	"jinr.ru/greenlab/go-headset/pkg/transport"
)

const (
	ReconnectInterval = time.Second
	ReconnectMax      = 30 * time.Second
)

// ErrNotConnected is returned when a command is sent while no transport is open
var ErrNotConnected = errors.New("headset is not connected")

// Opener opens the transport to the headset
type Opener func(ctx context.Context) (transport.Transport, error)

// OpenerFromConfig opens a serial or TCP bridge depending on the transport config
func OpenerFromConfig(cfg *config.Config) (Opener, error) {
	tc := cfg.TransportConfig
	switch tc.Kind {
	case config.TransportSerial:
		return func(ctx context.Context) (transport.Transport, error) {
			return transport.OpenSerial(tc.Port, tc.BaudRate, transport.WithMaxFrame(tc.MaxFrame))
		}, nil
	case config.TransportTCP:
		return func(ctx context.Context) (transport.Transport, error) {
			return transport.DialTCP(ctx, tc.Address, transport.WithMaxFrame(tc.MaxFrame))
		}, nil
	}
	return nil, fmt.Errorf("unknown transport kind %q", tc.Kind)
}

// Status is a snapshot of the acquisition state served by the API
type Status struct {
	Connected      bool                     `json:"connected"`
	Running        bool                     `json:"running"`
	Recording      bool                     `json:"recording"`
	MissingPercent float64                  `json:"missingPercent"`
	Counters       accounting.ErrorCounters `json:"counters"`
	Faults         accounting.Faults        `json:"faults"`
	Device         device.Info              `json:"device"`
	Profile        device.Profile           `json:"profile"`
}

// Server reads the transport, runs the pipeline and serves the HTTP API for one headset
type Server struct {
	context.Context
	*config.Config
	profile  device.Profile
	pipeline *Pipeline
	recorder *recording.Manager
	state    *state.State
	open     Opener
	api      *ApiServer
	cancel   context.CancelFunc

	mu        sync.Mutex
	transport transport.Transport
	info      device.Info
}

// NewServer builds the pipeline for the configured headset. listener may be nil.
func NewServer(ctx context.Context, cfg *config.Config, open Opener, listener Listener) (*Server, error) {
	kind, err := device.ParseKind(cfg.DeviceConfig.Kind)
	if err != nil {
		return nil, err
	}
	profile, err := device.ProfileFor(kind)
	if err != nil {
		return nil, err
	}
	log.Info("Initializing acquisition server for %s", profile)

	st, err := state.NewState(ctx, cfg)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(ctx)

	s := &Server{
		Context: ctx,
		Config:  cfg,
		cancel:  cancel,
		profile: profile,
		state:   st,
		open:    open,
		info:    device.Info{Kind: kind, Name: cfg.DeviceConfig.Name},
	}
	if stored, err := st.GetDeviceInfo(cfg.DeviceConfig.Name); err == nil {
		stored.Kind = kind
		s.info = stored
	}

	s.recorder = recording.NewManager(profile, export.New, s.recordingDone)
	listeners := Listeners{ListenerFuncs{Status: s.onStatus}}
	if listener != nil {
		listeners = append(listeners, listener)
	}
	s.pipeline = NewPipeline(profile, listeners, Options{
		QueueSize:           cfg.StreamConfig.QueueSize,
		EegBufferTimepoints: cfg.StreamConfig.EegBufferTimepoints,
		TriggerEnabled:      cfg.StreamConfig.TriggerEnabled,
		Quality:             quality.NewBasic(),
		Recorder:            s.recorder,
	})

	api, err := NewApiServer(ctx, cfg, s)
	if err != nil {
		cancel()
		s.recorder.Close()
		st.Close()
		return nil, err
	}
	s.api = api
	return s, nil
}

func (s *Server) Pipeline() *Pipeline {
	return s.pipeline
}

// Run serves the API and keeps the transport connected until the context is done
// or the API server fails
func (s *Server) Run() error {
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.acquire()
	}()

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.api.Run()
	}()

	var err error
	select {
	case <-s.Context.Done():
	case err = <-errChan:
	}
	s.cancel()
	wg.Wait()
	s.close()
	return err
}

func (s *Server) close() {
	s.pipeline.Terminate()
	s.disconnect()
	s.recorder.Close()
	s.state.Close()
}

// acquire connects to the headset and reconnects with a growing backoff when the link drops
func (s *Server) acquire() {
	attempt := 0
	for {
		if s.Context.Err() != nil {
			return
		}
		t, err := s.open(s.Context)
		if err != nil {
			attempt++
			log.Warning("Error while connecting to %s: %s", s.profile.Kind, err)
			s.sleepBackoff(attempt)
			continue
		}
		attempt = 0
		s.serve(t)
		if s.Context.Err() != nil {
			return
		}
		log.Warning("Lost connection to %s, reconnecting", s.profile.Kind)
		s.sleepBackoff(1)
	}
}

func (s *Server) sleepBackoff(attempt int) {
	wait := min(ReconnectInterval*time.Duration(attempt), ReconnectMax)
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-s.Context.Done():
	case <-timer.C:
	}
}

// serve reads mailbox frames from t until it fails
func (s *Server) serve(t transport.Transport) {
	s.mu.Lock()
	s.transport = t
	s.mu.Unlock()
	defer s.disconnect()

	s.pipeline.Start()
	s.pipeline.Reconnect()
	if err := s.handshake(); err != nil {
		log.Error("Error while starting acquisition: %s", err)
		return
	}

	// unblock the reader when the context is done
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-s.Context.Done():
			t.Close()
		case <-stop:
		}
	}()

	source := gopacket.NewPacketSource(t, layers.MailboxLayerType)
	source.DecodeOptions = gopacket.DecodeOptions{Lazy: true, NoCopy: true}
	for {
		packet, err := source.NextPacket()
		if err != nil {
			log.Debug("Transport read ended: %s", err)
			return
		}
		data := packet.Data()
		if log.Enabled(log.DebugLevel) {
			log.Debug("Received frame: %s", hex.EncodeToString(data))
		}
		s.pipeline.Deliver(packet.Metadata().Timestamp, data)
	}
}

func (s *Server) disconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.transport != nil {
		s.transport.Close()
		s.transport = nil
	}
}

// handshake queries the device and starts every stream the headset has
func (s *Server) handshake() error {
	cmds := []protocol.Command{
		protocol.GetDeviceName{},
		protocol.GetFirmwareVersion{},
		protocol.GetHardwareVersion{},
		protocol.GetSerialNumber{},
		protocol.GetBattery{},
		protocol.SetTriggerStatus{Enabled: s.Config.StreamConfig.TriggerEnabled},
		protocol.StartEeg{},
	}
	if s.profile.HasIms() {
		cmds = append(cmds, protocol.StartIms{})
	}
	if s.profile.HasPpg() {
		cmds = append(cmds, protocol.StartPpg{})
	}
	for _, cmd := range cmds {
		if err := s.Send(cmd); err != nil {
			return err
		}
	}
	return nil
}

// Send encodes a command and writes it to the transport
func (s *Server) Send(cmd protocol.Command) error {
	data, err := s.pipeline.Codec().Encode(cmd)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.transport == nil {
		return ErrNotConnected
	}
	log.Debug("Sending command %T: %s", cmd, hex.EncodeToString(data))
	return s.transport.Send(data)
}

// Connected reports whether a transport is open
func (s *Server) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transport != nil
}

// DeviceInfo returns what the headset reported so far
func (s *Server) DeviceInfo() device.Info {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.info
}

func (s *Server) onStatus(ev protocol.Event) {
	update := func(info *device.Info) {
		switch e := ev.(type) {
		case protocol.BatteryLevel:
			info.Battery = e.Percent
		case protocol.DeviceName:
			info.Name = e.Value
		case protocol.FirmwareVersion:
			info.FirmwareVersion = e.Value
		case protocol.HardwareVersion:
			info.HardwareVersion = e.Value
		case protocol.SerialNumber:
			info.SerialNumber = e.Value
		case protocol.MtuAck:
			info.Mtu = e.Size
		case protocol.TriggerConfig:
			info.TriggerSize = e.Size
		}
	}
	s.mu.Lock()
	update(&s.info)
	s.mu.Unlock()
	log.Debug("Device status: %s %+v", ev.Kind(), ev)
	if err := s.state.UpdateDeviceInfo(s.Config.DeviceConfig.Name, func(info *device.Info) {
		info.Kind = s.profile.Kind
		update(info)
	}); err != nil {
		log.Error("Error while storing device info: %s", err)
	}
}

// StartRecording resolves relative targets against the recording directory
func (s *Server) StartRecording(opts recording.Options) (recording.Header, error) {
	if opts.Format == "" {
		opts.Format = s.Config.RecordingConfig.Format
	}
	if opts.Target != "" && !filepath.IsAbs(opts.Target) {
		opts.Target = filepath.Join(s.Config.RecordingConfig.Dir, opts.Target)
	}
	return s.pipeline.StartRecording(opts, s.DeviceInfo())
}

func (s *Server) StopRecording() (recording.Header, error) {
	return s.pipeline.StopRecording()
}

func (s *Server) recordingDone(r recording.Result) {
	if err := s.state.AddRecording(state.EntryFromResult(r)); err != nil {
		log.Error("Error while storing recording %s: %s", r.Header.ID, err)
	}
}

// Status returns a snapshot for the API
func (s *Server) Status() Status {
	counters := s.pipeline.Counters()
	return Status{
		Connected:      s.Connected(),
		Running:        s.pipeline.Running(),
		Recording:      s.pipeline.Recording(),
		MissingPercent: counters.MissingPercent(),
		Counters:       counters,
		Faults:         s.pipeline.Faults(),
		Device:         s.DeviceInfo(),
		Profile:        s.profile,
	}
}

func (s *Server) ClearBuffer() {
	s.pipeline.ClearBuffer()
}

func (s *Server) ResetCounters() {
	s.pipeline.ResetCounters()
}

// Recordings lists the finished recordings, oldest first
func (s *Server) Recordings() ([]state.RecordingEntry, error) {
	return s.state.GetRecordings()
}
