package layers

import (
	"testing"

	"github.com/google/gopacket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMailboxDecode(t *testing.T) {
	packet := gopacket.NewPacket([]byte{0x29, 0xF0}, MailboxLayerType, gopacket.Default)
	layer := packet.Layer(MailboxLayerType)
	require.NotNil(t, layer)
	mailbox := layer.(*MailboxLayer)
	assert.Equal(t, uint8(0x29), mailbox.Opcode)
	assert.Equal(t, []byte{0xF0}, mailbox.LayerPayload())
}

func TestMailboxDecodeEmpty(t *testing.T) {
	packet := gopacket.NewPacket([]byte{}, MailboxLayerType, gopacket.Default)
	assert.Nil(t, packet.Layer(MailboxLayerType))
	assert.NotNil(t, packet.ErrorLayer())
}

func TestSerializeMailbox(t *testing.T) {
	data, err := SerializeMailbox(0x29, []byte{47})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x29, 47}, data)

	data, err = SerializeMailbox(0x20, nil)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x20}, data)
}

func TestStreamLayer(t *testing.T) {
	data, err := SerializeStream(0x50, 0x0103, []byte{1, 2, 3, 4, 5, 6})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x50, 0x01, 0x03, 1, 2, 3, 4, 5, 6}, data)

	stream := &StreamLayer{}
	require.NoError(t, stream.DecodeFromBytes(data[1:], gopacket.NilDecodeFeedback))
	assert.Equal(t, uint16(0x0103), stream.Index)
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6}, stream.LayerPayload())

	assert.Error(t, stream.DecodeFromBytes([]byte{0x01}, gopacket.NilDecodeFeedback))
}
