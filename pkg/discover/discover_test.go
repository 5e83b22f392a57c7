package discover

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jinr.ru/greenlab/go-headset/pkg/device"
	"jinr.ru/greenlab/go-headset/pkg/layers"
	"jinr.ru/greenlab/go-headset/pkg/transport"
)

func TestIdentify(t *testing.T) {
	profile, err := device.ProfileFor(device.KindQPlus)
	require.NoError(t, err)
	pipe := transport.NewPipe(4)
	defer pipe.Close()

	go func() {
		query := <-pipe.Sent()
		if len(query) != 1 || query[0] != uint8(device.Indus5DeviceName) {
			return
		}
		battery, _ := layers.SerializeMailbox(uint8(device.Indus5Battery), []byte{8})
		name, _ := layers.SerializeMailbox(uint8(device.Indus5DeviceName), []byte("qp_0042\x00\x00"))
		pipe.Inject(battery)
		pipe.Inject(name)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	name, err := Identify(ctx, pipe, profile)
	require.NoError(t, err)
	assert.Equal(t, "qp_0042", name)
}

func TestIdentifyTimeout(t *testing.T) {
	profile, err := device.ProfileFor(device.KindMelomind)
	require.NoError(t, err)
	pipe := transport.NewPipe(4)
	defer pipe.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = Identify(ctx, pipe, profile)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPortString(t *testing.T) {
	p := &Port{Name: "/dev/ttyACM0", USB: true, VID: "2341", DeviceName: "melo_1"}
	assert.Equal(t, "deviceName: melo_1\nname: /dev/ttyACM0\nusb: true\nvid: \"2341\"\n", p.String())
	assert.Contains(t, ErrNoAnswer{Port: "/dev/ttyACM0", Timeout: time.Second}.Error(), "/dev/ttyACM0")
}
