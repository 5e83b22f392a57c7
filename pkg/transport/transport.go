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

package transport

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/google/gopacket"
	"go.bug.st/serial"

	"jinr.ru/greenlab/go-headset/pkg/log"
)

// Transport delivers the notifications of a headset as packets and sends mailbox commands to it.
// ReadPacketData blocks until a notification arrives and returns io.EOF once the transport is closed.
type Transport interface {
	gopacket.PacketDataSource
	Send(data []byte) error
	Close() error
}

// ErrClosed is returned by Send on a closed transport
var ErrClosed = errors.New("transport is closed")

const (
	DefaultMaxFrame    = 1024
	DefaultDialTimeout = 5 * time.Second
)

// Stream carries COBS encoded, zero delimited mailbox frames over a byte stream
type Stream struct {
	name     string
	conn     io.ReadWriteCloser
	reader   *bufio.Reader
	maxFrame int
	mu       sync.Mutex
	closed   bool
}

type Option func(*Stream)

// WithMaxFrame limits the size of a decoded frame
func WithMaxFrame(n int) Option {
	return func(s *Stream) {
		if n > 0 {
			s.maxFrame = n
		}
	}
}

// NewStream wraps an open connection
func NewStream(name string, conn io.ReadWriteCloser, opts ...Option) *Stream {
	s := &Stream{
		name:     name,
		conn:     conn,
		maxFrame: DefaultMaxFrame,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.reader = bufio.NewReaderSize(conn, 2*s.maxFrame+2)
	return s
}

// OpenSerial opens a serial bridge to the headset
func OpenSerial(port string, baudRate int, opts ...Option) (*Stream, error) {
	mode := &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	p, err := serial.Open(port, mode)
	if err != nil {
		return nil, fmt.Errorf("error while opening serial port %s: %w", port, err)
	}
	log.Info("Opened serial port %s at %d baud", port, baudRate)
	return NewStream(port, p, opts...), nil
}

// DialTCP connects to a TCP bridge to the headset
func DialTCP(ctx context.Context, address string, opts ...Option) (*Stream, error) {
	dialer := net.Dialer{Timeout: DefaultDialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, fmt.Errorf("error while connecting to %s: %w", address, err)
	}
	log.Info("Connected to %s", address)
	return NewStream(address, conn, opts...), nil
}

// ReadPacketData reads the next frame. Frames that fail COBS decoding or exceed
// the maximum size are skipped. Bytes that do not fit the read buffer are
// dropped up to the next delimiter.
func (s *Stream) ReadPacketData() ([]byte, gopacket.CaptureInfo, error) {
	discarding := false
	for {
		raw, err := s.reader.ReadSlice(Delimiter)
		if err == bufio.ErrBufferFull {
			if !discarding {
				log.Debug("Skipping bytes from %s: no delimiter within %d bytes", s.name, s.reader.Size())
			}
			discarding = true
			continue
		}
		if err != nil {
			if s.isClosed() {
				return nil, gopacket.CaptureInfo{}, io.EOF
			}
			return nil, gopacket.CaptureInfo{}, err
		}
		if discarding {
			discarding = false
			continue
		}
		raw = raw[:len(raw)-1]
		if len(raw) == 0 {
			continue
		}
		data, err := CobsDecode(raw)
		if err != nil {
			log.Debug("Skipping frame from %s: %s", s.name, err)
			continue
		}
		if len(data) > s.maxFrame {
			log.Debug("Skipping frame from %s: %d bytes exceeds %d", s.name, len(data), s.maxFrame)
			continue
		}
		ci := gopacket.CaptureInfo{
			Timestamp:     time.Now(),
			CaptureLength: len(data),
			Length:        len(data),
			AncillaryData: []interface{}{s.name},
		}
		return data, ci, nil
	}
}

// Send writes one encoded frame
func (s *Stream) Send(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	frame := append(CobsEncode(data), Delimiter)
	_, err := s.conn.Write(frame)
	return err
}

func (s *Stream) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close is idempotent
func (s *Stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.conn.Close()
}
