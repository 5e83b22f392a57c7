package acquisition

import (
	"bytes"
	"encoding/binary"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jinr.ru/greenlab/go-headset/pkg/device"
	"jinr.ru/greenlab/go-headset/pkg/frame"
	"jinr.ru/greenlab/go-headset/pkg/layers"
	"jinr.ru/greenlab/go-headset/pkg/protocol"
	"jinr.ru/greenlab/go-headset/pkg/recording"
)

type collector struct {
	mu     sync.Mutex
	eeg    []SignalPacket
	ims    []PositionPacket
	ppg    []frame.PpgFrame
	events []protocol.Event
	errs   []error
}

func (c *collector) listener() ListenerFuncs {
	return ListenerFuncs{
		EegPacket: func(p SignalPacket) { c.mu.Lock(); c.eeg = append(c.eeg, p); c.mu.Unlock() },
		ImsPacket: func(p PositionPacket) { c.mu.Lock(); c.ims = append(c.ims, p); c.mu.Unlock() },
		PpgFrame:  func(f frame.PpgFrame) { c.mu.Lock(); c.ppg = append(c.ppg, f); c.mu.Unlock() },
		Status:    func(ev protocol.Event) { c.mu.Lock(); c.events = append(c.events, ev); c.mu.Unlock() },
		Error:     func(err error) { c.mu.Lock(); c.errs = append(c.errs, err); c.mu.Unlock() },
	}
}

func (c *collector) packets() []SignalPacket {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]SignalPacket(nil), c.eeg...)
}

func newTestPipeline(t *testing.T, kind device.Kind, opts Options) (*Pipeline, *collector) {
	profile, err := device.ProfileFor(kind)
	require.NoError(t, err)
	c := &collector{}
	p := NewPipeline(profile, c.listener(), opts)
	p.Start()
	t.Cleanup(p.Terminate)
	return p, c
}

// drain waits until every worker processed the frames delivered so far
func drain(p *Pipeline) {
	for _, pick := range []func() *worker{
		func() *worker { return p.eeg },
		func() *worker { return p.ims },
		func() *worker { return p.ppg },
		func() *worker { return p.control },
	} {
		p.barrier(pick, func() {})
	}
}

// eegRecords builds timepoints where channel ch holds value+ch
func eegRecords(timepoints, channels, value int, status bool) []byte {
	var b []byte
	for i := 0; i < timepoints; i++ {
		for ch := 0; ch < channels; ch++ {
			b = binary.BigEndian.AppendUint16(b, uint16(int16(value+ch)))
		}
		if status {
			b = append(b, 1)
		}
	}
	return b
}

func legacyEegFrame(t *testing.T, index uint16, value int, status bool) []byte {
	data, err := layers.SerializeStream(uint8(device.LegacyEegFrame), index, eegRecords(4, 2, value, status))
	require.NoError(t, err)
	return data
}

func TestPipelineEmitsFullWindows(t *testing.T) {
	p, c := newTestPipeline(t, device.KindMelomind, Options{})
	now := time.Now()
	// 63 frames of 4 timepoints: one window of 250 and 2 pending
	for i := 0; i < 63; i++ {
		p.Deliver(now, legacyEegFrame(t, uint16(i), 10, false))
	}
	drain(p)

	packets := c.packets()
	require.Len(t, packets, 1)
	packet := packets[0]
	assert.Equal(t, 2, packet.ChannelCount)
	assert.Equal(t, 250, packet.SampleRate)
	assert.Equal(t, int64(0), packet.StartIndex)
	require.Len(t, packet.Channels, 2)
	for ch, values := range packet.Channels {
		require.Len(t, values, 250)
		assert.InDelta(t, float64(10+ch)*p.Profile().VoltageScale, values[0], 1e-9)
	}
	assert.NotContains(t, packet.Gaps, true)
	require.Len(t, packet.Quality, 2)

	counters := p.Counters()
	assert.Equal(t, int64(0), counters.StartingIndex)
	assert.Equal(t, int64(62), counters.CurrentIndex)
	assert.Equal(t, int64(0), counters.MissingFrame)
}

func TestPipelineFillsGaps(t *testing.T) {
	p, c := newTestPipeline(t, device.KindMelomind, Options{})
	now := time.Now()
	for i := 0; i < 10; i++ {
		p.Deliver(now, legacyEegFrame(t, uint16(i), 1, false))
	}
	// frames 10 to 19 are lost: 40 sentinel timepoints
	for i := 20; i < 63; i++ {
		p.Deliver(now, legacyEegFrame(t, uint16(i), 1, false))
	}
	drain(p)

	packets := c.packets()
	require.Len(t, packets, 1)
	gaps := 0
	for i, gap := range packets[0].Gaps {
		if gap {
			gaps++
			assert.True(t, math.IsNaN(packets[0].Channels[0][i]))
		}
	}
	assert.Equal(t, 40, gaps)
	assert.True(t, packets[0].Gaps[40])
	assert.False(t, packets[0].Gaps[39])
	assert.Equal(t, int64(10), p.Counters().MissingFrame)
	assert.InDelta(t, 10.0/63.0*100, p.MissingPercent(), 1e-9)
}

func TestPipelineRolloverIsNotAGap(t *testing.T) {
	p, _ := newTestPipeline(t, device.KindMelomind, Options{})
	now := time.Now()
	for _, index := range []uint16{65534, 65535, 0, 1} {
		p.Deliver(now, legacyEegFrame(t, index, 1, false))
	}
	drain(p)

	counters := p.Counters()
	assert.Equal(t, int64(65534), counters.StartingIndex)
	assert.Equal(t, int64(65537), counters.CurrentIndex)
	assert.Equal(t, int64(0), counters.MissingFrame)
	assert.Equal(t, int64(0), p.Faults().Anomalies)
}

func TestPipelineAnomaly(t *testing.T) {
	p, c := newTestPipeline(t, device.KindMelomind, Options{})
	now := time.Now()
	for _, index := range []uint16{100, 101, 50} {
		p.Deliver(now, legacyEegFrame(t, index, 1, false))
	}
	drain(p)

	assert.Equal(t, int64(1), p.Faults().Anomalies)
	assert.Equal(t, int64(102), p.Counters().CurrentIndex)
	c.mu.Lock()
	defer c.mu.Unlock()
	require.Len(t, c.errs, 1)
}

func TestPipelineDropsWhenQueueIsFull(t *testing.T) {
	p, _ := newTestPipeline(t, device.KindMelomind, Options{QueueSize: 1})
	started := make(chan struct{})
	block := make(chan struct{})
	require.True(t, p.eeg.offer(func() {
		close(started)
		<-block
	}))
	<-started

	now := time.Now()
	for i := 0; i < 3; i++ {
		p.Deliver(now, legacyEegFrame(t, uint16(i), 1, false))
	}
	assert.Equal(t, int64(2), p.Faults().Dropped)
	close(block)
	drain(p)
	assert.Equal(t, int64(0), p.Counters().CurrentIndex)
}

func TestPipelineTriggerConfig(t *testing.T) {
	p, c := newTestPipeline(t, device.KindMelomind, Options{})
	now := time.Now()
	trigger, err := layers.SerializeMailbox(uint8(device.LegacyTriggerConfig), []byte{1})
	require.NoError(t, err)
	p.Deliver(now, trigger)
	for i := 0; i < 63; i++ {
		p.Deliver(now, legacyEegFrame(t, uint16(i), 3, true))
	}
	drain(p)

	packets := c.packets()
	require.Len(t, packets, 1)
	require.Len(t, packets[0].Status, 250)
	assert.Equal(t, 1.0, packets[0].Status[0])
	assert.InDelta(t, 3*p.Profile().VoltageScale, packets[0].Channels[0][0], 1e-9)
	assert.Equal(t, int64(0), p.Faults().Rejected)

	c.mu.Lock()
	defer c.mu.Unlock()
	require.Len(t, c.events, 1)
	assert.Equal(t, protocol.TriggerConfig{Size: 1}, c.events[0])
}

func TestPipelineRejectsMalformedFrames(t *testing.T) {
	p, c := newTestPipeline(t, device.KindMelomind, Options{})
	now := time.Now()
	// 3 record bytes are not a whole timepoint
	data, err := layers.SerializeStream(uint8(device.LegacyEegFrame), 0, []byte{1, 2, 3})
	require.NoError(t, err)
	p.Deliver(now, data)
	p.Deliver(now, []byte{0x7E, 1, 2})
	p.Deliver(now, nil)
	drain(p)

	faults := p.Faults()
	assert.Equal(t, int64(1), faults.Rejected)
	assert.Equal(t, int64(2), faults.Unknown)
	c.mu.Lock()
	defer c.mu.Unlock()
	assert.Len(t, c.errs, 2)
}

func TestPipelineStatusEvents(t *testing.T) {
	p, c := newTestPipeline(t, device.KindMelomind, Options{})
	battery, err := layers.SerializeMailbox(uint8(device.LegacyBattery), []byte{3})
	require.NoError(t, err)
	name, err := layers.SerializeMailbox(uint8(device.LegacyDeviceName), []byte("melo_1\x00"))
	require.NoError(t, err)
	p.Deliver(time.Now(), battery)
	p.Deliver(time.Now(), name)
	drain(p)

	c.mu.Lock()
	defer c.mu.Unlock()
	assert.Equal(t, []protocol.Event{
		protocol.BatteryLevel{Percent: 50},
		protocol.DeviceName{Value: "melo_1"},
	}, c.events)
}

func TestPipelineIms(t *testing.T) {
	p, c := newTestPipeline(t, device.KindMelomindQ, Options{})
	now := time.Now()
	record := []byte{0x01, 0x00, 0xFF, 0xFF, 0x00, 0x00}
	var records []byte
	for i := 0; i < 4; i++ {
		records = append(records, record...)
	}
	// 25 frames of 4 positions with frame 5 lost: 100 positions
	for i := 0; i < 26; i++ {
		if i == 5 {
			continue
		}
		data, err := layers.SerializeStream(uint8(device.Indus5ImsFrame), uint16(i), records)
		require.NoError(t, err)
		p.Deliver(now, data)
	}
	drain(p)

	c.mu.Lock()
	defer c.mu.Unlock()
	require.Len(t, c.ims, 1)
	positions := c.ims[0].Positions
	require.Len(t, positions, 100)
	assert.InDelta(t, frame.ImsFactor, positions[0].X, 1e-9)
	assert.InDelta(t, -frame.ImsFactor, positions[0].Y, 1e-9)
	assert.True(t, positions[20].Gap)
	assert.True(t, math.IsNaN(positions[20].X))
	assert.False(t, positions[24].Gap)
}

func TestPipelineTerminateIsIdempotent(t *testing.T) {
	p, c := newTestPipeline(t, device.KindMelomind, Options{})
	p.Terminate()
	p.Terminate()
	assert.False(t, p.Running())

	p.Deliver(time.Now(), legacyEegFrame(t, 0, 1, false))
	p.ClearBuffer()
	assert.Empty(t, c.packets())
	assert.Equal(t, int64(-1), p.Counters().StartingIndex)

	p.Start()
	assert.True(t, p.Running())
}

func TestPipelineClearBuffer(t *testing.T) {
	p, c := newTestPipeline(t, device.KindMelomind, Options{})
	now := time.Now()
	for i := 0; i < 60; i++ {
		p.Deliver(now, legacyEegFrame(t, uint16(i), 1, false))
	}
	p.ClearBuffer()
	p.ClearBuffer()
	for i := 60; i < 63; i++ {
		p.Deliver(now, legacyEegFrame(t, uint16(i), 1, false))
	}
	drain(p)
	assert.Empty(t, c.packets())
}

type memoryExporter struct {
	recordings chan *recording.Recording
}

func (e memoryExporter) Export(r *recording.Recording) error {
	e.recordings <- r
	return nil
}

func TestPipelineStopRecordingKeepsQueuedFrames(t *testing.T) {
	profile, err := device.ProfileFor(device.KindMelomind)
	require.NoError(t, err)
	exporter := memoryExporter{recordings: make(chan *recording.Recording, 1)}
	manager := recording.NewManager(profile, func(string) (recording.Exporter, error) {
		return exporter, nil
	}, func(recording.Result) {})
	defer manager.Close()

	p := NewPipeline(profile, nil, Options{Recorder: manager})
	p.Start()
	defer p.Terminate()

	_, err = p.StartRecording(recording.Options{Target: "memory", Format: "json"}, device.Info{Kind: profile.Kind})
	require.NoError(t, err)
	assert.True(t, p.Recording())
	now := time.Now()
	for i := 0; i < 126; i++ {
		p.Deliver(now, legacyEegFrame(t, uint16(i), 1, false))
	}
	header, err := p.StopRecording()
	require.NoError(t, err)
	assert.Equal(t, "memory", header.Target)
	assert.False(t, p.Recording())

	select {
	case r := <-exporter.recordings:
		assert.Equal(t, 500, r.Samples())
		assert.Equal(t, int64(125), r.Counters.CurrentIndex)
	case <-time.After(5 * time.Second):
		t.Fatal("recording was not exported")
	}

	_, err = p.StopRecording()
	assert.Error(t, err)
}

func TestPipelineStopRecordingKeepsQueuedIms(t *testing.T) {
	profile, err := device.ProfileFor(device.KindMelomindQ)
	require.NoError(t, err)
	exporter := memoryExporter{recordings: make(chan *recording.Recording, 1)}
	manager := recording.NewManager(profile, func(string) (recording.Exporter, error) {
		return exporter, nil
	}, func(recording.Result) {})
	defer manager.Close()

	p := NewPipeline(profile, nil, Options{Recorder: manager})
	p.Start()
	defer p.Terminate()

	_, err = p.StartRecording(recording.Options{Target: "memory", Format: "json", RecordIms: true}, device.Info{})
	require.NoError(t, err)
	records := bytes.Repeat([]byte{0x01, 0x00, 0xFF, 0xFF, 0x00, 0x00}, 4)
	now := time.Now()
	for i := 0; i < 25; i++ {
		data, err := layers.SerializeStream(uint8(device.Indus5ImsFrame), uint16(i), records)
		require.NoError(t, err)
		p.Deliver(now, data)
	}
	_, err = p.StopRecording()
	require.NoError(t, err)

	select {
	case r := <-exporter.recordings:
		assert.Len(t, r.Positions, 100)
	case <-time.After(5 * time.Second):
		t.Fatal("recording was not exported")
	}
}

func TestPipelineWithoutRecorder(t *testing.T) {
	p, _ := newTestPipeline(t, device.KindMelomind, Options{})
	_, err := p.StartRecording(recording.Options{Target: "x"}, device.Info{})
	assert.Error(t, err)
	assert.False(t, p.Recording())
}
