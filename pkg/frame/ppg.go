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

package frame

import (
	"encoding/binary"
	"fmt"

	"jinr.ru/greenlab/go-headset/pkg/device"
)

// LedSampleSize is the size of one big endian LED sample
const LedSampleSize = 3

// PpgFrame holds the LED samples of one frame, LED major
type PpgFrame struct {
	Index uint16
	Leds  [][]uint32
}

// DecodeLedSample decodes a 3 byte big endian LED sample
func DecodeLedSample(b []byte) uint32 {
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
}

// DecodePpgFrame decodes a whole PPG mailbox frame.
// The frame must start with the PPG opcode of the profile and have the exact profile length.
func DecodePpgFrame(data []byte, profile device.Profile) (PpgFrame, error) {
	op, ok := profile.Opcodes.Opcode(device.EventPpgFrame)
	if !ok {
		return PpgFrame{}, ErrFrameValidation{What: fmt.Sprintf("%s has no PPG stream", profile.Kind)}
	}
	if len(data) != profile.PpgFrameLength() {
		return PpgFrame{}, ErrFrameValidation{What: fmt.Sprintf("PPG frame of %d bytes, expected %d",
			len(data), profile.PpgFrameLength())}
	}
	if data[0] != uint8(op) {
		return PpgFrame{}, ErrFrameValidation{What: fmt.Sprintf("PPG frame starts with 0x%02x", data[0])}
	}
	f := PpgFrame{
		Index: binary.BigEndian.Uint16(data[1:3]),
		Leds:  make([][]uint32, profile.PpgLedCount),
	}
	offset := 3
	for led := range f.Leds {
		f.Leds[led] = make([]uint32, profile.PpgSamplesPerFrame)
		for i := range f.Leds[led] {
			f.Leds[led][i] = DecodeLedSample(data[offset : offset+LedSampleSize])
			offset += LedSampleSize
		}
	}
	return f, nil
}
