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

package gapfill

import (
	"jinr.ru/greenlab/go-headset/pkg/frame"
	"jinr.ru/greenlab/go-headset/pkg/log"
)

const (
	// Sentinel fills the bytes of missing EEG timepoints
	Sentinel = 0xFF
	// MaxGapTimepoints bounds the number of timepoints synthesized for a single gap.
	// Only the timepoints closest to the received frame are kept.
	MaxGapTimepoints = 1 << 16
)

// span returns the number of timepoints to synthesize for missing frames
// and how many of the oldest ones are skipped
func span(missing int64, perFrame int) (gap, skip int64) {
	gap = missing * int64(perFrame)
	if gap > MaxGapTimepoints {
		log.Warning("Gap of %d timepoints exceeds %d, only the latest %d are filled",
			gap, MaxGapTimepoints, MaxGapTimepoints)
		return MaxGapTimepoints, gap - MaxGapTimepoints
	}
	return gap, 0
}

// Chunk is a run of raw EEG timepoint records with one meta entry per timepoint
type Chunk struct {
	Data []byte
	Meta []frame.TimepointMeta
}

// RawBuffer accumulates raw EEG records and fills the gaps with sentinel timepoints
// before the records are decoded. Chunks of a fixed size are flushed as soon as
// enough timepoints are buffered.
type RawBuffer struct {
	bytesPerTimepoint int
	chunkTimepoints   int
	data              []byte
	meta              []frame.TimepointMeta
}

func NewRawBuffer(bytesPerTimepoint, chunkTimepoints int) *RawBuffer {
	if chunkTimepoints <= 0 {
		chunkTimepoints = 1
	}
	return &RawBuffer{
		bytesPerTimepoint: bytesPerTimepoint,
		chunkTimepoints:   chunkTimepoints,
	}
}

// Push adds the records of frame index preceded by missing*timepointsPerFrame sentinel
// timepoints and returns every full chunk
func (b *RawBuffer) Push(index, missing int64, timepointsPerFrame int, records []byte) []Chunk {
	gap, skip := span(missing, timepointsPerFrame)
	for i := int64(0); i < gap; i++ {
		for j := 0; j < b.bytesPerTimepoint; j++ {
			b.data = append(b.data, Sentinel)
		}
		frameIndex := index - missing + (skip+i)/int64(timepointsPerFrame)
		b.meta = append(b.meta, frame.TimepointMeta{Index: frameIndex, Gap: true})
	}
	b.data = append(b.data, records...)
	for i := 0; i < len(records)/b.bytesPerTimepoint; i++ {
		b.meta = append(b.meta, frame.TimepointMeta{Index: index})
	}
	return b.flush()
}

func (b *RawBuffer) flush() []Chunk {
	var chunks []Chunk
	size := b.chunkTimepoints * b.bytesPerTimepoint
	for len(b.meta) >= b.chunkTimepoints {
		c := Chunk{
			Data: make([]byte, size),
			Meta: make([]frame.TimepointMeta, b.chunkTimepoints),
		}
		copy(c.Data, b.data[:size])
		copy(c.Meta, b.meta[:b.chunkTimepoints])
		b.data = b.data[size:]
		b.meta = b.meta[b.chunkTimepoints:]
		chunks = append(chunks, c)
	}
	return chunks
}

// Len is the number of buffered timepoints
func (b *RawBuffer) Len() int {
	return len(b.meta)
}

// Clear drops everything buffered
func (b *RawBuffer) Clear() {
	b.data = nil
	b.meta = nil
}

// SetBytesPerTimepoint changes the record size, buffered data is dropped
func (b *RawBuffer) SetBytesPerTimepoint(n int) {
	b.bytesPerTimepoint = n
	b.Clear()
}
