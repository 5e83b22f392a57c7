package device

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatteryCurves(t *testing.T) {
	percent, ok := BatteryCurveLegacy.Percent(3)
	require.True(t, ok)
	assert.Equal(t, 50.0, percent)

	_, ok = BatteryCurveLegacy.Percent(0xFF)
	assert.False(t, ok)

	percent, ok = BatteryCurveIndus5.Percent(9)
	require.True(t, ok)
	assert.Equal(t, 62.5, percent)

	percent, ok = BatteryCurveIndus5.Percent(2)
	require.True(t, ok)
	assert.Equal(t, 0.0, percent)

	percent, ok = BatteryCurveIndus5.Percent(12)
	require.True(t, ok)
	assert.Equal(t, 100.0, percent)

	percent, ok = BatteryCurveIndus5.Percent(0xFE)
	require.True(t, ok)
	assert.Equal(t, 100.0, percent)
}

func TestParseKind(t *testing.T) {
	kind, err := ParseKind(" QPlus ")
	require.NoError(t, err)
	assert.Equal(t, KindQPlus, kind)

	_, err = ParseKind("toaster")
	require.Error(t, err)
	assert.IsType(t, ErrConfiguration{}, err)
}

func TestProfileFor(t *testing.T) {
	_, err := ProfileFor(Kind("toaster"))
	assert.IsType(t, ErrConfiguration{}, err)

	for _, name := range Kinds() {
		p, err := ProfileFor(Kind(name))
		require.NoError(t, err, name)
		assert.Greater(t, p.ChannelCount, 0)
		assert.Greater(t, p.SampleRate, 0)
		assert.Greater(t, p.EegSamplesPerFrame, 0)
		require.NotNil(t, p.Opcodes)

		op, ok := p.Opcodes.Opcode(EventEegFrame)
		require.True(t, ok, name)
		assert.Equal(t, EventEegFrame, p.Opcodes.Event(op))

		_, ok = p.Opcodes.Opcode(EventImsFrame)
		assert.Equal(t, p.HasIms(), ok, name)
		_, ok = p.Opcodes.Command(CommandPpgAcquisition)
		assert.Equal(t, p.HasPpg(), ok, name)
	}
}

func TestProfileSizes(t *testing.T) {
	p, err := ProfileFor(KindHyperion)
	require.NoError(t, err)
	assert.Equal(t, 16, p.BytesPerTimepoint(false))
	assert.Equal(t, 17, p.BytesPerTimepoint(true))
	assert.Equal(t, 1+2+2*4*3, p.PpgFrameLength())
}

func TestUnknownOpcode(t *testing.T) {
	p, err := ProfileFor(KindMelomind)
	require.NoError(t, err)
	assert.Equal(t, EventUnknown, p.Opcodes.Event(Indus5EegFrame))
	assert.Equal(t, "Unknown", EventUnknown.String())
}
