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

package discover

import (
	"context"
	"errors"
	"time"

	"go.bug.st/serial/enumerator"
	"sigs.k8s.io/yaml"

	"jinr.ru/greenlab/go-headset/pkg/device"
	"jinr.ru/greenlab/go-headset/pkg/log"
	"jinr.ru/greenlab/go-headset/pkg/protocol"
	"jinr.ru/greenlab/go-headset/pkg/transport"
)

const (
	DefaultProbeTimeout = 2 * time.Second
)

// Port is a serial port that may carry a headset bridge
type Port struct {
	Name         string `json:"name"`
	USB          bool   `json:"usb,omitempty"`
	VID          string `json:"vid,omitempty"`
	PID          string `json:"pid,omitempty"`
	SerialNumber string `json:"serialNumber,omitempty"`
	Product      string `json:"product,omitempty"`
	// DeviceName is set when the port answered the device name query
	DeviceName string `json:"deviceName,omitempty"`
}

func (p *Port) String() string {
	result, err := yaml.Marshal(p)
	if err != nil {
		log.Error("Error while marshalling port: %s", err)
		return ""
	}
	return string(result)
}

// Ports lists the serial ports of the host
func Ports() ([]*Port, error) {
	details, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, err
	}
	ports := make([]*Port, 0, len(details))
	for _, d := range details {
		ports = append(ports, &Port{
			Name:         d.Name,
			USB:          d.IsUSB,
			VID:          d.VID,
			PID:          d.PID,
			SerialNumber: d.SerialNumber,
			Product:      d.Product,
		})
	}
	return ports, nil
}

// Identify sends the device name query over t and waits for the answer.
// Frames other than the device name are ignored. t is not closed.
func Identify(ctx context.Context, t transport.Transport, profile device.Profile) (string, error) {
	codec := protocol.NewCodec(profile)
	data, err := codec.Encode(protocol.GetDeviceName{})
	if err != nil {
		return "", err
	}

	answer := make(chan string, 1)
	failed := make(chan error, 1)
	go func() {
		for {
			frame, _, err := t.ReadPacketData()
			if err != nil {
				failed <- err
				return
			}
			if ev, ok := codec.Decode(frame).(protocol.DeviceName); ok {
				answer <- ev.Value
				return
			}
		}
	}()

	if err := t.Send(data); err != nil {
		return "", err
	}
	select {
	case name := <-answer:
		return name, nil
	case err := <-failed:
		return "", err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Probe opens every port and asks it for the device name. Ports that do not answer keep an empty DeviceName.
func Probe(ports []*Port, baudRate int, profile device.Profile, timeout time.Duration) {
	for _, p := range ports {
		t, err := transport.OpenSerial(p.Name, baudRate)
		if err != nil {
			log.Debug("Error while opening %s: %s", p.Name, err)
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		name, err := Identify(ctx, t, profile)
		cancel()
		// closing unblocks the reader of Identify
		t.Close()
		if errors.Is(err, context.DeadlineExceeded) {
			err = ErrNoAnswer{Port: p.Name, Timeout: timeout}
		}
		if err != nil {
			log.Debug("%s", err)
			continue
		}
		log.Info("Found headset %s on %s", name, p.Name)
		p.DeviceName = name
	}
}
