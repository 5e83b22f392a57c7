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

package protocol

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/gopacket"

	"jinr.ru/greenlab/go-headset/pkg/device"
	"jinr.ru/greenlab/go-headset/pkg/layers"
	"jinr.ru/greenlab/go-headset/pkg/log"
)

// Codec maps mailbox frames to events and commands to mailbox frames
// using the opcode table of a device profile
type Codec struct {
	Profile device.Profile
}

func NewCodec(profile device.Profile) *Codec {
	return &Codec{Profile: profile}
}

// Decode never fails. Anything it can not map, including a panic while
// mapping, comes back as Unknown.
func (c *Codec) Decode(data []byte) (ev Event) {
	defer func() {
		if r := recover(); r != nil {
			ev = unknown(data, ErrProtocol{What: fmt.Sprintf("panic while decoding: %v", r)})
		}
	}()

	mailbox := &layers.MailboxLayer{}
	if err := mailbox.DecodeFromBytes(data, gopacket.NilDecodeFeedback); err != nil {
		return Unknown{Err: ErrProtocol{What: err.Error()}}
	}
	payload := mailbox.LayerPayload()

	kind := c.Profile.Opcodes.Event(device.Opcode(mailbox.Opcode))
	switch kind {
	case device.EventMtuAck:
		if len(payload) < 1 {
			return unknown(data, ErrProtocol{What: "empty MTU acknowledgement"})
		}
		return MtuAck{Size: int(payload[0])}
	case device.EventBatteryLevel:
		if len(payload) < 1 {
			return unknown(data, ErrProtocol{What: "empty battery level"})
		}
		percent, ok := c.Profile.Battery.Percent(payload[0])
		if !ok {
			return unknown(data, ErrProtocol{What: fmt.Sprintf("battery byte 0x%02x is out of the %s curve",
				payload[0], c.Profile.Battery)})
		}
		return BatteryLevel{Percent: percent}
	case device.EventDeviceName:
		return DeviceName{Value: text(payload)}
	case device.EventFirmwareVersion:
		return FirmwareVersion{Value: text(payload)}
	case device.EventHardwareVersion:
		return HardwareVersion{Value: text(payload)}
	case device.EventSerialNumber:
		return SerialNumber{Value: text(payload)}
	case device.EventTriggerConfig:
		if len(payload) < 1 {
			return unknown(data, ErrProtocol{What: "empty trigger configuration"})
		}
		return TriggerConfig{Size: int(payload[0])}
	case device.EventEegFrame:
		return EegFrame{Payload: clone(payload)}
	case device.EventImsFrame:
		return ImsFrame{Payload: clone(payload)}
	case device.EventPpgFrame:
		return PpgFrame{Payload: clone(data)}
	case device.EventEegStatus, device.EventImsStatus, device.EventPpgStatus:
		if len(payload) < 1 {
			return unknown(data, ErrProtocol{What: fmt.Sprintf("empty %s", kind)})
		}
		enabled := payload[0] != 0
		switch kind {
		case device.EventEegStatus:
			return EegStatus{Enabled: enabled}
		case device.EventImsStatus:
			return ImsStatus{Enabled: enabled}
		default:
			return PpgStatus{Enabled: enabled}
		}
	}
	log.Debug("Unknown opcode 0x%02x for %s: %s", mailbox.Opcode, c.Profile.Kind, hex.EncodeToString(payload))
	return unknown(data, nil)
}

// Encode serializes a command as the opcode followed by the command parameters
func (c *Codec) Encode(cmd Command) ([]byte, error) {
	op, ok := c.Profile.Opcodes.Command(cmd.Kind())
	if !ok {
		return nil, ErrProtocol{What: fmt.Sprintf("command %T is not supported by %s", cmd, c.Profile.Kind)}
	}
	data, err := layers.SerializeMailbox(uint8(op), cmd.params())
	if err != nil {
		return nil, ErrProtocol{What: err.Error()}
	}
	return data, nil
}

func unknown(data []byte, err error) Unknown {
	u := Unknown{Err: err}
	if len(data) > 0 {
		u.Opcode = data[0]
		u.Payload = clone(data[1:])
	}
	return u
}

func text(payload []byte) string {
	return strings.TrimRight(string(payload), "\x00")
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
