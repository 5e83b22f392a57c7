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

package device

// Opcode is the leading byte of every mailbox frame
type Opcode uint8

// EventKind identifies what an incoming mailbox frame carries
type EventKind int

const (
	EventUnknown EventKind = iota
	EventMtuAck
	EventBatteryLevel
	EventDeviceName
	EventFirmwareVersion
	EventHardwareVersion
	EventSerialNumber
	EventTriggerConfig
	EventEegFrame
	EventEegStatus
	EventImsFrame
	EventImsStatus
	EventPpgFrame
	EventPpgStatus
)

var eventKindNames = map[EventKind]string{
	EventUnknown:         "Unknown",
	EventMtuAck:          "MtuAck",
	EventBatteryLevel:    "BatteryLevel",
	EventDeviceName:      "DeviceName",
	EventFirmwareVersion: "FirmwareVersion",
	EventHardwareVersion: "HardwareVersion",
	EventSerialNumber:    "SerialNumber",
	EventTriggerConfig:   "TriggerConfig",
	EventEegFrame:        "EegFrame",
	EventEegStatus:       "EegStatus",
	EventImsFrame:        "ImsFrame",
	EventImsStatus:       "ImsStatus",
	EventPpgFrame:        "PpgFrame",
	EventPpgStatus:       "PpgStatus",
}

func (k EventKind) String() string {
	return eventKindNames[k]
}

// CommandKind identifies an outgoing mailbox command
type CommandKind int

const (
	CommandChangeMtu CommandKind = iota
	CommandEegAcquisition
	CommandImsAcquisition
	CommandPpgAcquisition
	CommandGetBattery
	CommandGetDeviceName
	CommandGetFirmwareVersion
	CommandGetHardwareVersion
	CommandGetSerialNumber
	CommandSetTriggerStatus
)

// OpcodeTable maps opcodes to event kinds and command kinds to opcodes.
// Tables are built once in this package and never modified.
type OpcodeTable struct {
	events   map[Opcode]EventKind
	commands map[CommandKind]Opcode
}

// Event returns the event kind for an opcode, EventUnknown if the opcode is not in the table
func (t *OpcodeTable) Event(op Opcode) EventKind {
	kind, ok := t.events[op]
	if !ok {
		return EventUnknown
	}
	return kind
}

// Command returns the opcode for a command kind
func (t *OpcodeTable) Command(kind CommandKind) (Opcode, bool) {
	op, ok := t.commands[kind]
	return op, ok
}

// Opcode returns the opcode that carries the given event kind
func (t *OpcodeTable) Opcode(kind EventKind) (Opcode, bool) {
	for op, k := range t.events {
		if k == kind {
			return op, true
		}
	}
	return 0, false
}

// Legacy (pre-Indus5) mailbox opcodes
const (
	LegacyEegFrame        Opcode = 0x02
	LegacyEegStatus       Opcode = 0x03
	LegacyTriggerConfig   Opcode = 0x0A
	LegacyBattery         Opcode = 0x0B
	LegacyDeviceName      Opcode = 0x0C
	LegacyFirmwareVersion Opcode = 0x0D
	LegacyHardwareVersion Opcode = 0x0E
	LegacySerialNumber    Opcode = 0x0F
	LegacyMtu             Opcode = 0x10
)

// Indus5 mailbox opcodes
const (
	Indus5Battery         Opcode = 0x20
	Indus5FirmwareVersion Opcode = 0x21
	Indus5HardwareVersion Opcode = 0x22
	Indus5SerialNumber    Opcode = 0x23
	Indus5EegStatus       Opcode = 0x24
	Indus5DeviceName      Opcode = 0x26
	Indus5Mtu             Opcode = 0x29
	Indus5TriggerConfig   Opcode = 0x2B
	Indus5EegFrame        Opcode = 0x40
	Indus5ImsFrame        Opcode = 0x50
	Indus5ImsStatus       Opcode = 0x51
	Indus5PpgFrame        Opcode = 0x60
	Indus5PpgStatus       Opcode = 0x61
)

var legacyOpcodes = &OpcodeTable{
	events: map[Opcode]EventKind{
		LegacyEegFrame:        EventEegFrame,
		LegacyEegStatus:       EventEegStatus,
		LegacyTriggerConfig:   EventTriggerConfig,
		LegacyBattery:         EventBatteryLevel,
		LegacyDeviceName:      EventDeviceName,
		LegacyFirmwareVersion: EventFirmwareVersion,
		LegacyHardwareVersion: EventHardwareVersion,
		LegacySerialNumber:    EventSerialNumber,
		LegacyMtu:             EventMtuAck,
	},
	commands: map[CommandKind]Opcode{
		CommandChangeMtu:          LegacyMtu,
		CommandEegAcquisition:     LegacyEegStatus,
		CommandGetBattery:         LegacyBattery,
		CommandGetDeviceName:      LegacyDeviceName,
		CommandGetFirmwareVersion: LegacyFirmwareVersion,
		CommandGetHardwareVersion: LegacyHardwareVersion,
		CommandGetSerialNumber:    LegacySerialNumber,
		CommandSetTriggerStatus:   LegacyTriggerConfig,
	},
}

func indus5Opcodes(ims, ppg bool) *OpcodeTable {
	t := &OpcodeTable{
		events: map[Opcode]EventKind{
			Indus5Battery:         EventBatteryLevel,
			Indus5FirmwareVersion: EventFirmwareVersion,
			Indus5HardwareVersion: EventHardwareVersion,
			Indus5SerialNumber:    EventSerialNumber,
			Indus5EegStatus:       EventEegStatus,
			Indus5DeviceName:      EventDeviceName,
			Indus5Mtu:             EventMtuAck,
			Indus5TriggerConfig:   EventTriggerConfig,
			Indus5EegFrame:        EventEegFrame,
		},
		commands: map[CommandKind]Opcode{
			CommandChangeMtu:          Indus5Mtu,
			CommandEegAcquisition:     Indus5EegStatus,
			CommandGetBattery:         Indus5Battery,
			CommandGetDeviceName:      Indus5DeviceName,
			CommandGetFirmwareVersion: Indus5FirmwareVersion,
			CommandGetHardwareVersion: Indus5HardwareVersion,
			CommandGetSerialNumber:    Indus5SerialNumber,
			CommandSetTriggerStatus:   Indus5TriggerConfig,
		},
	}
	if ims {
		t.events[Indus5ImsFrame] = EventImsFrame
		t.events[Indus5ImsStatus] = EventImsStatus
		t.commands[CommandImsAcquisition] = Indus5ImsStatus
	}
	if ppg {
		t.events[Indus5PpgFrame] = EventPpgFrame
		t.events[Indus5PpgStatus] = EventPpgStatus
		t.commands[CommandPpgAcquisition] = Indus5PpgStatus
	}
	return t
}
