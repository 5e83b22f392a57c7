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

package layers

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

const (
	// MailboxLayerNum identifies the layer
	MailboxLayerNum = 2100
	// StreamLayerNum identifies the indexed stream frame layer
	StreamLayerNum = 2101
	// StreamIndexSize is the size of the rolling index in front of every stream frame
	StreamIndexSize = 2
)

// MailboxLayer is a single mailbox frame: one opcode byte followed by the payload
type MailboxLayer struct {
	layers.BaseLayer
	Opcode uint8
}

var MailboxLayerType = gopacket.RegisterLayerType(MailboxLayerNum,
	gopacket.LayerTypeMetadata{Name: "MailboxLayerType", Decoder: gopacket.DecodeFunc(decodeMailboxLayer)})

func (m *MailboxLayer) LayerType() gopacket.LayerType {
	return MailboxLayerType
}

// SerializeTo prepends the opcode to whatever is already in the buffer
func (m *MailboxLayer) SerializeTo(b gopacket.SerializeBuffer, opts gopacket.SerializeOptions) error {
	bytes, err := b.PrependBytes(1)
	if err != nil {
		return err
	}
	bytes[0] = m.Opcode
	return nil
}

// DecodeFromBytes attempts to decode the byte slice as a mailbox frame
func (m *MailboxLayer) DecodeFromBytes(data []byte, df gopacket.DecodeFeedback) error {
	if len(data) < 1 {
		df.SetTruncated()
		return errors.New("empty mailbox frame")
	}
	m.BaseLayer = layers.BaseLayer{
		Contents: data[0:1],
		Payload:  data[1:],
	}
	m.Opcode = data[0]
	return nil
}

func (m *MailboxLayer) NextLayerType() gopacket.LayerType {
	return gopacket.LayerTypePayload
}

func (m *MailboxLayer) CanDecode() gopacket.LayerClass {
	return MailboxLayerType
}

func decodeMailboxLayer(data []byte, p gopacket.PacketBuilder) error {
	m := &MailboxLayer{}
	if err := m.DecodeFromBytes(data, p); err != nil {
		return err
	}
	p.AddLayer(m)
	return p.NextDecoder(m.NextLayerType())
}

// StreamLayer is the body of an EEG or IMS frame: a big endian rolling index
// followed by sample records
type StreamLayer struct {
	layers.BaseLayer
	Index uint16
}

var StreamLayerType = gopacket.RegisterLayerType(StreamLayerNum,
	gopacket.LayerTypeMetadata{Name: "StreamLayerType", Decoder: gopacket.DecodeFunc(decodeStreamLayer)})

func (s *StreamLayer) LayerType() gopacket.LayerType {
	return StreamLayerType
}

func (s *StreamLayer) SerializeTo(b gopacket.SerializeBuffer, opts gopacket.SerializeOptions) error {
	bytes, err := b.PrependBytes(StreamIndexSize)
	if err != nil {
		return err
	}
	binary.BigEndian.PutUint16(bytes, s.Index)
	return nil
}

// DecodeFromBytes attempts to decode the byte slice as an indexed stream frame
func (s *StreamLayer) DecodeFromBytes(data []byte, df gopacket.DecodeFeedback) error {
	if len(data) < StreamIndexSize {
		df.SetTruncated()
		return fmt.Errorf("stream frame too short: %d bytes", len(data))
	}
	s.BaseLayer = layers.BaseLayer{
		Contents: data[0:StreamIndexSize],
		Payload:  data[StreamIndexSize:],
	}
	s.Index = binary.BigEndian.Uint16(data[0:StreamIndexSize])
	return nil
}

func (s *StreamLayer) NextLayerType() gopacket.LayerType {
	return gopacket.LayerTypePayload
}

func (s *StreamLayer) CanDecode() gopacket.LayerClass {
	return StreamLayerType
}

func decodeStreamLayer(data []byte, p gopacket.PacketBuilder) error {
	s := &StreamLayer{}
	if err := s.DecodeFromBytes(data, p); err != nil {
		return err
	}
	p.AddLayer(s)
	return p.NextDecoder(s.NextLayerType())
}

// SerializeMailbox builds a mailbox frame out of an opcode and parameter bytes
func SerializeMailbox(opcode uint8, params []byte) ([]byte, error) {
	buf := gopacket.NewSerializeBuffer()
	err := gopacket.SerializeLayers(buf, gopacket.SerializeOptions{},
		&MailboxLayer{Opcode: opcode},
		gopacket.Payload(params),
	)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SerializeStream builds a mailbox stream frame with the given rolling index
func SerializeStream(opcode uint8, index uint16, records []byte) ([]byte, error) {
	buf := gopacket.NewSerializeBuffer()
	err := gopacket.SerializeLayers(buf, gopacket.SerializeOptions{},
		&MailboxLayer{Opcode: opcode},
		&StreamLayer{Index: index},
		gopacket.Payload(records),
	)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
