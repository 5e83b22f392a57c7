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
	"math"

	"github.com/google/gopacket"

	"jinr.ru/greenlab/go-headset/pkg/device"
	"jinr.ru/greenlab/go-headset/pkg/layers"
)

// EegSample is one EEG timepoint in microvolts
type EegSample struct {
	Values    []float64
	Status    float64
	HasStatus bool
	Gap       bool
	// Index is the absolute index of the frame the timepoint came from
	Index int64
}

// TimepointMeta describes one timepoint of a raw EEG chunk
type TimepointMeta struct {
	Index int64
	Gap   bool
}

// SplitEeg validates an EEG frame payload and splits it into the rolling index and the timepoint records
func SplitEeg(payload []byte, bytesPerTimepoint int) (uint16, []byte, error) {
	stream := &layers.StreamLayer{}
	if err := stream.DecodeFromBytes(payload, gopacket.NilDecodeFeedback); err != nil {
		return 0, nil, ErrFrameValidation{What: err.Error()}
	}
	records := stream.LayerPayload()
	if bytesPerTimepoint <= 0 || len(records)%bytesPerTimepoint != 0 {
		return 0, nil, ErrFrameValidation{What: fmt.Sprintf("EEG records of %d bytes are not a multiple of %d",
			len(records), bytesPerTimepoint)}
	}
	return stream.Index, records, nil
}

// DecodeEegTimepoints converts raw timepoint records into samples.
// Each record is channelCount big endian int16 values optionally followed by one status byte.
// Timepoints marked as gaps decode to NaN.
func DecodeEegTimepoints(records []byte, meta []TimepointMeta, channelCount int, trigger bool, scale float64) []EegSample {
	size := channelCount * 2
	if trigger {
		size++
	}
	count := len(records) / size
	samples := make([]EegSample, 0, count)
	for i := 0; i < count; i++ {
		record := records[i*size : (i+1)*size]
		s := EegSample{
			Values:    make([]float64, channelCount),
			HasStatus: trigger,
		}
		if i < len(meta) {
			s.Index = meta[i].Index
			s.Gap = meta[i].Gap
		}
		if s.Gap {
			for ch := range s.Values {
				s.Values[ch] = math.NaN()
			}
			if trigger {
				s.Status = math.NaN()
			}
			samples = append(samples, s)
			continue
		}
		for ch := 0; ch < channelCount; ch++ {
			raw := int16(binary.BigEndian.Uint16(record[ch*2 : ch*2+2]))
			s.Values[ch] = float64(raw) * scale
		}
		if trigger {
			s.Status = float64(record[size-1])
		}
		samples = append(samples, s)
	}
	return samples
}

// DecodeEegFrame decodes a complete EEG frame payload without gap information
func DecodeEegFrame(payload []byte, profile device.Profile, trigger bool) (uint16, []EegSample, error) {
	index, records, err := SplitEeg(payload, profile.BytesPerTimepoint(trigger))
	if err != nil {
		return 0, nil, err
	}
	meta := make([]TimepointMeta, len(records)/profile.BytesPerTimepoint(trigger))
	for i := range meta {
		meta[i].Index = int64(index)
	}
	return index, DecodeEegTimepoints(records, meta, profile.ChannelCount, trigger, profile.VoltageScale), nil
}
