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

	"github.com/google/gopacket"

	"jinr.ru/greenlab/go-headset/pkg/layers"
)

const (
	// ImsFactor converts an accelerometer axis value into milli-g
	ImsFactor = 15.6
	// ImsRecordSize is the size of one x, y, z record
	ImsRecordSize = 6
)

// Position is one accelerometer sample
type Position struct {
	X, Y, Z float64
	Gap     bool
	Index   int64
}

// DecodeImsFrame decodes an IMS frame payload: the rolling index followed by x, y, z records.
// Every axis is a little endian int16. For the values the sensor sends the
// high byte is 0x00 or 0xFF, so it only carries the sign of the low byte.
func DecodeImsFrame(payload []byte) (uint16, []Position, error) {
	stream := &layers.StreamLayer{}
	if err := stream.DecodeFromBytes(payload, gopacket.NilDecodeFeedback); err != nil {
		return 0, nil, ErrFrameValidation{What: err.Error()}
	}
	records := stream.LayerPayload()
	if len(records)%ImsRecordSize != 0 {
		return 0, nil, ErrFrameValidation{What: fmt.Sprintf("IMS payload of %d bytes is not 2 + N*%d",
			len(payload), ImsRecordSize)}
	}
	positions := make([]Position, 0, len(records)/ImsRecordSize)
	for i := 0; i < len(records); i += ImsRecordSize {
		positions = append(positions, Position{
			X: axis(records[i : i+2]),
			Y: axis(records[i+2 : i+4]),
			Z: axis(records[i+4 : i+6]),
		})
	}
	return stream.Index, positions, nil
}

func axis(b []byte) float64 {
	return float64(int16(binary.LittleEndian.Uint16(b))) * ImsFactor
}
