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
	"fmt"
	"sort"
	"strconv"

	"jinr.ru/greenlab/go-headset/pkg/device"
)

// Command is an outgoing mailbox command. The set of variants is closed.
type Command interface {
	Kind() device.CommandKind
	params() []byte
}

type ChangeMtu struct {
	Size uint8
}

type StartEeg struct{}
type StopEeg struct{}
type StartIms struct{}
type StopIms struct{}
type StartPpg struct{}
type StopPpg struct{}
type GetBattery struct{}
type GetDeviceName struct{}
type GetFirmwareVersion struct{}
type GetHardwareVersion struct{}
type GetSerialNumber struct{}

type SetTriggerStatus struct {
	Enabled bool
}

func (ChangeMtu) Kind() device.CommandKind          { return device.CommandChangeMtu }
func (StartEeg) Kind() device.CommandKind           { return device.CommandEegAcquisition }
func (StopEeg) Kind() device.CommandKind            { return device.CommandEegAcquisition }
func (StartIms) Kind() device.CommandKind           { return device.CommandImsAcquisition }
func (StopIms) Kind() device.CommandKind            { return device.CommandImsAcquisition }
func (StartPpg) Kind() device.CommandKind           { return device.CommandPpgAcquisition }
func (StopPpg) Kind() device.CommandKind            { return device.CommandPpgAcquisition }
func (GetBattery) Kind() device.CommandKind         { return device.CommandGetBattery }
func (GetDeviceName) Kind() device.CommandKind      { return device.CommandGetDeviceName }
func (GetFirmwareVersion) Kind() device.CommandKind { return device.CommandGetFirmwareVersion }
func (GetHardwareVersion) Kind() device.CommandKind { return device.CommandGetHardwareVersion }
func (GetSerialNumber) Kind() device.CommandKind    { return device.CommandGetSerialNumber }
func (SetTriggerStatus) Kind() device.CommandKind   { return device.CommandSetTriggerStatus }

func (c ChangeMtu) params() []byte        { return []byte{c.Size} }
func (StartEeg) params() []byte           { return []byte{1} }
func (StopEeg) params() []byte            { return []byte{0} }
func (StartIms) params() []byte           { return []byte{1} }
func (StopIms) params() []byte            { return []byte{0} }
func (StartPpg) params() []byte           { return []byte{1} }
func (StopPpg) params() []byte            { return []byte{0} }
func (GetBattery) params() []byte         { return nil }
func (GetDeviceName) params() []byte      { return nil }
func (GetFirmwareVersion) params() []byte { return nil }
func (GetHardwareVersion) params() []byte { return nil }
func (GetSerialNumber) params() []byte    { return nil }
func (c SetTriggerStatus) params() []byte { return []byte{boolByte(c.Enabled)} }

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

var namedCommands = map[string]Command{
	"start-eeg":   StartEeg{},
	"stop-eeg":    StopEeg{},
	"start-ims":   StartIms{},
	"stop-ims":    StopIms{},
	"start-ppg":   StartPpg{},
	"stop-ppg":    StopPpg{},
	"battery":     GetBattery{},
	"name":        GetDeviceName{},
	"firmware":    GetFirmwareVersion{},
	"hardware":    GetHardwareVersion{},
	"serial":      GetSerialNumber{},
	"trigger-on":  SetTriggerStatus{Enabled: true},
	"trigger-off": SetTriggerStatus{Enabled: false},
}

// CommandNames returns the names accepted by ParseCommand
func CommandNames() []string {
	names := []string{"mtu"}
	for name := range namedCommands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseCommand builds a command from its name. Only mtu takes an argument.
func ParseCommand(name, arg string) (Command, error) {
	if name == "mtu" {
		size, err := strconv.ParseUint(arg, 10, 8)
		if err != nil {
			return nil, ErrProtocol{What: fmt.Sprintf("invalid mtu size %q", arg)}
		}
		return ChangeMtu{Size: uint8(size)}, nil
	}
	cmd, ok := namedCommands[name]
	if !ok {
		return nil, ErrProtocol{What: fmt.Sprintf("unknown command %q", name)}
	}
	return cmd, nil
}
