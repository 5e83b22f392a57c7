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
	"io"
	"sync"
	"time"

	"github.com/google/gopacket"
)

// Pipe is an in-memory transport. The device side injects notifications
// and reads the commands sent by the host.
type Pipe struct {
	in   chan []byte
	out  chan []byte
	done chan struct{}
	once sync.Once
}

func NewPipe(size int) *Pipe {
	return &Pipe{
		in:   make(chan []byte, size),
		out:  make(chan []byte, size),
		done: make(chan struct{}),
	}
}

// Inject queues a notification, it returns false when the pipe is closed
func (p *Pipe) Inject(data []byte) bool {
	select {
	case <-p.done:
		return false
	default:
	}
	select {
	case p.in <- append([]byte(nil), data...):
		return true
	case <-p.done:
		return false
	}
}

// Sent returns the commands written by the host
func (p *Pipe) Sent() <-chan []byte {
	return p.out
}

func (p *Pipe) ReadPacketData() ([]byte, gopacket.CaptureInfo, error) {
	select {
	case data := <-p.in:
		return data, gopacket.CaptureInfo{Timestamp: time.Now(), CaptureLength: len(data), Length: len(data)}, nil
	case <-p.done:
		return nil, gopacket.CaptureInfo{}, io.EOF
	}
}

func (p *Pipe) Send(data []byte) error {
	select {
	case <-p.done:
		return ErrClosed
	default:
	}
	select {
	case p.out <- append([]byte(nil), data...):
		return nil
	case <-p.done:
		return ErrClosed
	}
}

func (p *Pipe) Close() error {
	p.once.Do(func() { close(p.done) })
	return nil
}
