package frame

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jinr.ru/greenlab/go-headset/pkg/device"
)

func TestDecodeImsFrame(t *testing.T) {
	index, positions, err := DecodeImsFrame([]byte{0x00, 0x03, 0xFE, 0xFF, 0x01, 0x00, 0x3F, 0x00})
	require.NoError(t, err)
	assert.Equal(t, uint16(3), index)
	require.Len(t, positions, 1)
	assert.InDelta(t, -31.2, positions[0].X, 1e-9)
	assert.InDelta(t, 15.6, positions[0].Y, 1e-9)
	assert.InDelta(t, 982.8, positions[0].Z, 1e-9)
	assert.False(t, positions[0].Gap)
}

func TestDecodeImsFrameRejectsShape(t *testing.T) {
	_, _, err := DecodeImsFrame([]byte{0x00, 0x03, 0xFE, 0xFF, 0x01})
	assert.IsType(t, ErrFrameValidation{}, err)

	_, _, err = DecodeImsFrame([]byte{0x00})
	assert.IsType(t, ErrFrameValidation{}, err)

	index, positions, err := DecodeImsFrame([]byte{0x01, 0x00})
	require.NoError(t, err)
	assert.Equal(t, uint16(256), index)
	assert.Empty(t, positions)
}

func TestDecodeLedSample(t *testing.T) {
	assert.Equal(t, uint32(66051), DecodeLedSample([]byte{0x01, 0x02, 0x03}))
	assert.Equal(t, uint32(0xFFFFFF), DecodeLedSample([]byte{0xFF, 0xFF, 0xFF}))
}

func TestDecodePpgFrame(t *testing.T) {
	profile, err := device.ProfileFor(device.KindHyperion)
	require.NoError(t, err)

	data := []byte{0x60, 0x00, 0x07}
	for i := 0; i < profile.PpgLedCount*profile.PpgSamplesPerFrame; i++ {
		data = append(data, 0x00, 0x00, byte(i))
	}
	f, err := DecodePpgFrame(data, profile)
	require.NoError(t, err)
	assert.Equal(t, uint16(7), f.Index)
	assert.Equal(t, []uint32{0, 1, 2, 3}, f.Leds[0])
	assert.Equal(t, []uint32{4, 5, 6, 7}, f.Leds[1])

	_, err = DecodePpgFrame(data[:len(data)-1], profile)
	assert.IsType(t, ErrFrameValidation{}, err)

	data[0] = 0x61
	_, err = DecodePpgFrame(data, profile)
	assert.IsType(t, ErrFrameValidation{}, err)

	qplus, err := device.ProfileFor(device.KindQPlus)
	require.NoError(t, err)
	_, err = DecodePpgFrame(data, qplus)
	assert.Error(t, err)
}

func TestDecodeEegFrame(t *testing.T) {
	profile, err := device.ProfileFor(device.KindMelomindQ)
	require.NoError(t, err)

	payload := []byte{0x00, 0x05,
		0x00, 0x01, 0xFF, 0xFF,
		0x00, 0x00, 0x7F, 0xFF,
	}
	index, samples, err := DecodeEegFrame(payload, profile, false)
	require.NoError(t, err)
	assert.Equal(t, uint16(5), index)
	require.Len(t, samples, 2)
	assert.InDelta(t, profile.VoltageScale, samples[0].Values[0], 1e-12)
	assert.InDelta(t, -profile.VoltageScale, samples[0].Values[1], 1e-12)
	assert.InDelta(t, 0.0, samples[1].Values[0], 1e-12)
	assert.InDelta(t, 32767*profile.VoltageScale, samples[1].Values[1], 1e-9)
	assert.False(t, samples[0].HasStatus)
	assert.Equal(t, int64(5), samples[1].Index)

	_, _, err = DecodeEegFrame(payload[:5], profile, false)
	assert.IsType(t, ErrFrameValidation{}, err)
}

func TestDecodeEegTrigger(t *testing.T) {
	profile, err := device.ProfileFor(device.KindMelomindQ)
	require.NoError(t, err)

	payload := []byte{0x00, 0x01, 0x00, 0x02, 0x00, 0x03, 0x09}
	_, samples, err := DecodeEegFrame(payload, profile, true)
	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.True(t, samples[0].HasStatus)
	assert.Equal(t, 9.0, samples[0].Status)

	// the same payload is not a whole number of timepoints without the status byte
	_, _, err = DecodeEegFrame(payload, profile, false)
	assert.Error(t, err)
}

func TestDecodeEegGapTimepoints(t *testing.T) {
	records := []byte{0xFF, 0xFF, 0xFF, 0xFF, 0x00, 0x00, 0x00, 0x00}
	meta := []TimepointMeta{{Index: 1, Gap: true}, {Index: 2}}
	samples := DecodeEegTimepoints(records, meta, 2, false, 1)
	require.Len(t, samples, 2)
	assert.True(t, samples[0].Gap)
	assert.True(t, math.IsNaN(samples[0].Values[0]))
	assert.True(t, math.IsNaN(samples[0].Values[1]))
	assert.False(t, samples[1].Gap)
	assert.Equal(t, []float64{0, 0}, samples[1].Values)
	assert.Equal(t, int64(2), samples[1].Index)
}
