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
	"jinr.ru/greenlab/go-headset/pkg/device"
)

// Event is a decoded mailbox frame. The set of variants is closed.
type Event interface {
	Kind() device.EventKind
	event()
}

type MtuAck struct {
	Size int
}

type BatteryLevel struct {
	Percent float64
}

type DeviceName struct {
	Value string
}

type FirmwareVersion struct {
	Value string
}

type HardwareVersion struct {
	Value string
}

type SerialNumber struct {
	Value string
}

type TriggerConfig struct {
	Size int
}

// EegFrame carries the rolling index and the timepoint records
type EegFrame struct {
	Payload []byte
}

type EegStatus struct {
	Enabled bool
}

// ImsFrame carries the rolling index and the position records
type ImsFrame struct {
	Payload []byte
}

type ImsStatus struct {
	Enabled bool
}

// PpgFrame carries the whole mailbox frame, opcode included
type PpgFrame struct {
	Payload []byte
}

type PpgStatus struct {
	Enabled bool
}

// Unknown is produced for every frame the codec could not map.
// Err is nil only for an opcode the profile does not know.
type Unknown struct {
	Opcode  uint8
	Payload []byte
	Err     error
}

func (MtuAck) Kind() device.EventKind          { return device.EventMtuAck }
func (BatteryLevel) Kind() device.EventKind    { return device.EventBatteryLevel }
func (DeviceName) Kind() device.EventKind      { return device.EventDeviceName }
func (FirmwareVersion) Kind() device.EventKind { return device.EventFirmwareVersion }
func (HardwareVersion) Kind() device.EventKind { return device.EventHardwareVersion }
func (SerialNumber) Kind() device.EventKind    { return device.EventSerialNumber }
func (TriggerConfig) Kind() device.EventKind   { return device.EventTriggerConfig }
func (EegFrame) Kind() device.EventKind        { return device.EventEegFrame }
func (EegStatus) Kind() device.EventKind       { return device.EventEegStatus }
func (ImsFrame) Kind() device.EventKind        { return device.EventImsFrame }
func (ImsStatus) Kind() device.EventKind       { return device.EventImsStatus }
func (PpgFrame) Kind() device.EventKind        { return device.EventPpgFrame }
func (PpgStatus) Kind() device.EventKind       { return device.EventPpgStatus }
func (Unknown) Kind() device.EventKind         { return device.EventUnknown }

func (MtuAck) event()          {}
func (BatteryLevel) event()    {}
func (DeviceName) event()      {}
func (FirmwareVersion) event() {}
func (HardwareVersion) event() {}
func (SerialNumber) event()    {}
func (TriggerConfig) event()   {}
func (EegFrame) event()        {}
func (EegStatus) event()       {}
func (ImsFrame) event()        {}
func (ImsStatus) event()       {}
func (PpgFrame) event()        {}
func (PpgStatus) event()       {}
func (Unknown) event()         {}
