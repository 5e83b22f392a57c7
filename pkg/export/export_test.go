package export

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jinr.ru/greenlab/go-headset/pkg/accounting"
	"jinr.ru/greenlab/go-headset/pkg/device"
	"jinr.ru/greenlab/go-headset/pkg/frame"
	"jinr.ru/greenlab/go-headset/pkg/recording"
)

func testRecording(t *testing.T, target string) *recording.Recording {
	t.Helper()
	profile, err := device.ProfileFor(device.KindMelomindQ)
	require.NoError(t, err)
	start := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	return &recording.Recording{
		Header: recording.Header{
			ID:         "a1b2",
			Device:     profile,
			DeviceInfo: device.Info{Kind: profile.Kind, SerialNumber: "SN1"},
			Start:      start,
			Stop:       start.Add(2 * time.Second),
			Target:     target,
		},
		Channels: [][]float64{
			{1.5, math.NaN(), 3},
			{-1, math.NaN(), 0},
		},
		Gaps:      []bool{false, true, false},
		Positions: []frame.Position{{X: 15.6, Y: -31.2, Z: 982.8, Index: 4}},
		Counters:  accounting.ErrorCounters{StartingIndex: 0, CurrentIndex: 99, MissingFrame: 5},
		Faults:    accounting.Faults{Dropped: 1},
	}
}

func TestNew(t *testing.T) {
	for _, f := range Formats() {
		e, err := New(f)
		require.NoError(t, err)
		assert.NotNil(t, e)
	}
	_, err := New("JSON")
	assert.NoError(t, err)
	_, err = New("wav")
	assert.Error(t, err)
}

func TestJSONExport(t *testing.T) {
	target := filepath.Join(t.TempDir(), "sub", "rec.json")
	r := testRecording(t, target)
	require.NoError(t, JSONExporter{}.Export(r))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	var doc struct {
		Header struct {
			ID string `json:"id"`
		} `json:"header"`
		Channels [][]*float64 `json:"channels"`
		Gaps     []bool       `json:"gaps"`
		Missing  float64      `json:"missingPercent"`
		Counters accounting.ErrorCounters
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "a1b2", doc.Header.ID)
	require.Len(t, doc.Channels, 2)
	assert.Nil(t, doc.Channels[0][1])
	assert.Equal(t, 1.5, *doc.Channels[0][0])
	assert.Equal(t, []bool{false, true, false}, doc.Gaps)
	assert.Equal(t, 5.0, doc.Missing)
	assert.Equal(t, int64(99), doc.Counters.CurrentIndex)
}

func TestCBORRoundTrip(t *testing.T) {
	target := filepath.Join(t.TempDir(), "rec.cbor")
	r := testRecording(t, target)
	require.NoError(t, CBORExporter{}.Export(r))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	got, err := ReadCBOR(data)
	require.NoError(t, err)

	opts := []cmp.Option{
		cmpopts.EquateNaNs(),
		cmpopts.IgnoreFields(device.Profile{}, "Opcodes"),
	}
	if diff := cmp.Diff(r, got, opts...); diff != "" {
		t.Errorf("CBOR round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestEDFExport(t *testing.T) {
	target := filepath.Join(t.TempDir(), "rec.edf")
	r := testRecording(t, target)
	require.NoError(t, EDFExporter{}.Export(r))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	rate := r.Header.Device.SampleRate
	// one partial second padded to a full record
	require.Len(t, data, 256+2*256+2*rate*2)
	assert.Equal(t, "1", strings.TrimSpace(string(data[236:244])))
	assert.Equal(t, "a1b2", strings.TrimSpace(string(data[88:168])))
	assert.Equal(t, "EEG 2", strings.TrimSpace(string(data[272:288])))
}
