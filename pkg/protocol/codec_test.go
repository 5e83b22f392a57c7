package protocol

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jinr.ru/greenlab/go-headset/pkg/device"
)

func codecFor(t *testing.T, kind device.Kind) *Codec {
	t.Helper()
	profile, err := device.ProfileFor(kind)
	require.NoError(t, err)
	return NewCodec(profile)
}

func TestDecodeEvents(t *testing.T) {
	codec := codecFor(t, device.KindHyperion)
	tests := []struct {
		name  string
		frame []byte
		want  Event
	}{
		{"mtu", []byte{0x29, 47}, MtuAck{Size: 47}},
		{"battery", []byte{0x20, 9}, BatteryLevel{Percent: 62.5}},
		{"battery low", []byte{0x20, 2}, BatteryLevel{Percent: 0}},
		{"name", []byte{0x26, 'h', 'y', 'p', 0, 0}, DeviceName{Value: "hyp"}},
		{"firmware", []byte{0x21, '1', '.', '2'}, FirmwareVersion{Value: "1.2"}},
		{"hardware", []byte{0x22, 'B'}, HardwareVersion{Value: "B"}},
		{"serial", []byte{0x23, '0', '4'}, SerialNumber{Value: "04"}},
		{"trigger", []byte{0x2B, 3}, TriggerConfig{Size: 3}},
		{"eeg", []byte{0x40, 0, 1, 0xAA}, EegFrame{Payload: []byte{0, 1, 0xAA}}},
		{"eeg status", []byte{0x24, 1}, EegStatus{Enabled: true}},
		{"ims", []byte{0x50, 0, 3}, ImsFrame{Payload: []byte{0, 3}}},
		{"ims status", []byte{0x51, 0}, ImsStatus{Enabled: false}},
		{"ppg", []byte{0x60, 0, 1}, PpgFrame{Payload: []byte{0x60, 0, 1}}},
		{"ppg status", []byte{0x61, 2}, PpgStatus{Enabled: true}},
		{"unknown opcode", []byte{0x99, 1}, Unknown{Opcode: 0x99, Payload: []byte{1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := codec.Decode(tt.frame)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Decode() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeLegacyBattery(t *testing.T) {
	codec := codecFor(t, device.KindMelomind)
	assert.Equal(t, BatteryLevel{Percent: 50}, codec.Decode([]byte{0x0B, 3}))

	ev := codec.Decode([]byte{0x0B, 0xFF})
	u, ok := ev.(Unknown)
	require.True(t, ok)
	assert.IsType(t, ErrProtocol{}, u.Err)
	assert.Equal(t, uint8(0x0B), u.Opcode)
}

func TestDecodeMalformed(t *testing.T) {
	codec := codecFor(t, device.KindQPlus)
	for _, frame := range [][]byte{nil, {}, {0x29}, {0x20}, {0x24}, {0x2B}} {
		ev := codec.Decode(frame)
		u, ok := ev.(Unknown)
		require.True(t, ok, "%v", frame)
		assert.Error(t, u.Err)
	}
	// no PPG on this headset
	u, ok := codec.Decode([]byte{0x60, 0, 1}).(Unknown)
	require.True(t, ok)
	assert.NoError(t, u.Err)
}

func TestDecodeNeverPanics(t *testing.T) {
	codecs := []*Codec{
		codecFor(t, device.KindMelomind),
		codecFor(t, device.KindHyperion),
	}
	rnd := rand.New(rand.NewSource(42))
	for i := 0; i < 5000; i++ {
		frame := make([]byte, rnd.Intn(40))
		rnd.Read(frame)
		for _, codec := range codecs {
			assert.NotPanics(t, func() {
				assert.NotNil(t, codec.Decode(frame))
			})
		}
	}
}

func TestEncode(t *testing.T) {
	codec := codecFor(t, device.KindQPlus)

	data, err := codec.Encode(ChangeMtu{Size: 47})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x29, 47}, data)

	data, err = codec.Encode(StartEeg{})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x24, 1}, data)

	data, err = codec.Encode(StopIms{})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x51, 0}, data)

	data, err = codec.Encode(GetBattery{})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x20}, data)

	data, err = codec.Encode(SetTriggerStatus{Enabled: true})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x2B, 1}, data)

	_, err = codec.Encode(StartPpg{})
	assert.IsType(t, ErrProtocol{}, err)
}

func TestEncodeLegacy(t *testing.T) {
	codec := codecFor(t, device.KindMelomind)
	data, err := codec.Encode(ChangeMtu{Size: 100})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x10, 100}, data)

	_, err = codec.Encode(StartIms{})
	assert.Error(t, err)
}

func TestParseCommand(t *testing.T) {
	cmd, err := ParseCommand("mtu", "47")
	require.NoError(t, err)
	assert.Equal(t, ChangeMtu{Size: 47}, cmd)

	_, err = ParseCommand("mtu", "300")
	assert.Error(t, err)

	cmd, err = ParseCommand("trigger-on", "")
	require.NoError(t, err)
	assert.Equal(t, SetTriggerStatus{Enabled: true}, cmd)

	_, err = ParseCommand("reboot", "")
	assert.IsType(t, ErrProtocol{}, err)

	assert.Contains(t, CommandNames(), "mtu")
	assert.Contains(t, CommandNames(), "battery")
}
