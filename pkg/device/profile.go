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

import (
	"fmt"
	"sort"
	"strings"
)

type Kind string

const (
	KindMelomind  Kind = "melomind"
	KindMelomindQ Kind = "melomind-q"
	KindQPlus     Kind = "qplus"
	KindHyperion  Kind = "hyperion"
)

// Profile is the static description of a headset model.
// A profile is selected once when the pipeline is built and is shared read-only afterwards.
type Profile struct {
	Kind               Kind         `json:"kind"`
	ChannelCount       int          `json:"channelCount"`
	SampleRate         int          `json:"sampleRate"`
	EegSamplesPerFrame int          `json:"eegSamplesPerFrame"`
	VoltageScale       float64      `json:"voltageScale"` // microvolts per LSB
	ImsAxisCount       int          `json:"imsAxisCount"`
	ImsSampleRate      int          `json:"imsSampleRate"`
	ImsSamplesPerFrame int          `json:"imsSamplesPerFrame"`
	PpgLedCount        int          `json:"ppgLedCount"`
	PpgSamplesPerFrame int          `json:"ppgSamplesPerFrame"`
	Battery            BatteryCurve `json:"batteryCurve"`
	Opcodes            *OpcodeTable `json:"-"`
}

// HasIms reports whether the headset streams inertial data
func (p Profile) HasIms() bool {
	return p.ImsAxisCount > 0
}

// HasPpg reports whether the headset streams LED (PPG) data
func (p Profile) HasPpg() bool {
	return p.PpgLedCount > 0
}

// BytesPerTimepoint is the size of one EEG timepoint record
func (p Profile) BytesPerTimepoint(trigger bool) int {
	n := p.ChannelCount * 2
	if trigger {
		n++
	}
	return n
}

// PpgFrameLength is the exact length of a PPG frame including its opcode and index bytes
func (p Profile) PpgFrameLength() int {
	return 1 + 2 + p.PpgLedCount*p.PpgSamplesPerFrame*3
}

func (p Profile) String() string {
	return fmt.Sprintf("%s: %d channels @ %d Hz", p.Kind, p.ChannelCount, p.SampleRate)
}

var profiles = map[Kind]Profile{
	KindMelomind: {
		Kind:               KindMelomind,
		ChannelCount:       2,
		SampleRate:         250,
		EegSamplesPerFrame: 4,
		VoltageScale:       0.536 / 24,
		Battery:            BatteryCurveLegacy,
		Opcodes:            legacyOpcodes,
	},
	KindMelomindQ: {
		Kind:               KindMelomindQ,
		ChannelCount:       2,
		SampleRate:         250,
		EegSamplesPerFrame: 4,
		VoltageScale:       0.286,
		ImsAxisCount:       3,
		ImsSampleRate:      100,
		ImsSamplesPerFrame: 4,
		Battery:            BatteryCurveIndus5,
		Opcodes:            indus5Opcodes(true, false),
	},
	KindQPlus: {
		Kind:               KindQPlus,
		ChannelCount:       4,
		SampleRate:         250,
		EegSamplesPerFrame: 4,
		VoltageScale:       0.286,
		ImsAxisCount:       3,
		ImsSampleRate:      100,
		ImsSamplesPerFrame: 4,
		Battery:            BatteryCurveIndus5,
		Opcodes:            indus5Opcodes(true, false),
	},
	KindHyperion: {
		Kind:               KindHyperion,
		ChannelCount:       8,
		SampleRate:         250,
		EegSamplesPerFrame: 2,
		VoltageScale:       0.286,
		ImsAxisCount:       3,
		ImsSampleRate:      100,
		ImsSamplesPerFrame: 4,
		PpgLedCount:        2,
		PpgSamplesPerFrame: 4,
		Battery:            BatteryCurveIndus5,
		Opcodes:            indus5Opcodes(true, true),
	},
}

// Kinds returns the names of all supported headset kinds
func Kinds() []string {
	var kinds []string
	for k := range profiles {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)
	return kinds
}

// ProfileFor returns the profile of a supported headset kind
func ProfileFor(kind Kind) (Profile, error) {
	p, ok := profiles[kind]
	if !ok {
		return Profile{}, ErrConfiguration{What: fmt.Sprintf("unsupported device kind %q, must be one of: %s",
			kind, strings.Join(Kinds(), ", "))}
	}
	return p, nil
}

// ParseKind parses a device kind name, case insensitive
func ParseKind(name string) (Kind, error) {
	kind := Kind(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := profiles[kind]; !ok {
		return "", ErrConfiguration{What: fmt.Sprintf("unsupported device kind %q", name)}
	}
	return kind, nil
}
