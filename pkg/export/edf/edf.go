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

package edf

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"time"
)

const (
	// MaxRecordBytes is the largest data record the format recommends
	MaxRecordBytes = 61440

	DigitalMin = math.MinInt16
	DigitalMax = math.MaxInt16
)

// Header is the fixed part of an EDF file
type Header struct {
	PatientID      string
	RecordingID    string
	Start          time.Time
	RecordDuration time.Duration
	Signals        []Signal
}

// Signal describes one signal of every data record
type Signal struct {
	Label            string
	Transducer       string
	Dimension        string
	PhysicalMin      float64
	PhysicalMax      float64
	Prefiltering     string
	SamplesPerRecord int
}

// Writer writes data records and rewrites the header with the record count on Close
type Writer struct {
	w       io.WriteSeeker
	hdr     Header
	records int
}

func Create(w io.WriteSeeker, hdr Header) (*Writer, error) {
	if len(hdr.Signals) == 0 {
		return nil, fmt.Errorf("EDF file must have at least one signal")
	}
	total := 0
	for _, s := range hdr.Signals {
		total += s.SamplesPerRecord
	}
	if total*2 > MaxRecordBytes {
		return nil, fmt.Errorf("data record of %d bytes exceeds %d bytes", total*2, MaxRecordBytes)
	}
	ew := &Writer{w: w, hdr: hdr}
	if err := ew.writeHeader(-1); err != nil {
		return nil, fmt.Errorf("error writing EDF header: %w", err)
	}
	return ew, nil
}

// WriteRecord writes one data record, one slice of samples per signal.
// NaN samples are written as the digital minimum.
func (ew *Writer) WriteRecord(signals [][]float64) error {
	if len(signals) != len(ew.hdr.Signals) {
		return fmt.Errorf("expected %d signals, got %d", len(ew.hdr.Signals), len(signals))
	}
	buf := bufio.NewWriter(ew.w)
	for i, s := range ew.hdr.Signals {
		if len(signals[i]) != s.SamplesPerRecord {
			return fmt.Errorf("signal %s: expected %d samples, got %d", s.Label, s.SamplesPerRecord, len(signals[i]))
		}
		for _, v := range signals[i] {
			if err := binary.Write(buf, binary.LittleEndian, Digital(v, s.PhysicalMin, s.PhysicalMax)); err != nil {
				return err
			}
		}
	}
	if err := buf.Flush(); err != nil {
		return err
	}
	ew.records++
	return nil
}

// Records is the number of data records written so far
func (ew *Writer) Records() int {
	return ew.records
}

func (ew *Writer) Close() error {
	if err := ew.writeHeader(ew.records); err != nil {
		return fmt.Errorf("error writing EDF header: %w", err)
	}
	return nil
}

// Digital maps a physical value onto the int16 range of the signal
func Digital(v, pmin, pmax float64) int16 {
	if math.IsNaN(v) || pmax == pmin {
		return DigitalMin
	}
	d := (v-pmin)*float64(DigitalMax-DigitalMin)/(pmax-pmin) + DigitalMin
	d = math.Round(d)
	if d < DigitalMin {
		return DigitalMin
	}
	if d > DigitalMax {
		return DigitalMax
	}
	return int16(d)
}

// Physical is the inverse of Digital
func Physical(d int16, pmin, pmax float64) float64 {
	return (float64(d)-DigitalMin)*(pmax-pmin)/float64(DigitalMax-DigitalMin) + pmin
}

func (ew *Writer) writeHeader(records int) error {
	if _, err := ew.w.Seek(0, io.SeekStart); err != nil {
		return err
	}
	buf := bufio.NewWriter(ew.w)
	n := len(ew.hdr.Signals)

	fields := []string{
		field("0", 8),
		field(ew.hdr.PatientID, 80),
		field(ew.hdr.RecordingID, 80),
		field(ew.hdr.Start.Format("02.01.06"), 8),
		field(ew.hdr.Start.Format("15.04.05"), 8),
		field(fmt.Sprint(256+n*256), 8),
		field("", 44),
		field(fmt.Sprint(records), 8),
		field(fmt.Sprint(int(math.Ceil(ew.hdr.RecordDuration.Seconds()))), 8),
		field(fmt.Sprint(n), 4),
	}
	perSignal := []struct {
		width int
		value func(s Signal) string
	}{
		{16, func(s Signal) string { return s.Label }},
		{80, func(s Signal) string { return s.Transducer }},
		{8, func(s Signal) string { return s.Dimension }},
		{8, func(s Signal) string { return physicalField(s.PhysicalMin) }},
		{8, func(s Signal) string { return physicalField(s.PhysicalMax) }},
		{8, func(s Signal) string { return fmt.Sprint(DigitalMin) }},
		{8, func(s Signal) string { return fmt.Sprint(DigitalMax) }},
		{80, func(s Signal) string { return s.Prefiltering }},
		{8, func(s Signal) string { return fmt.Sprint(s.SamplesPerRecord) }},
		{32, func(s Signal) string { return "" }},
	}
	for _, p := range perSignal {
		for _, s := range ew.hdr.Signals {
			fields = append(fields, field(p.value(s), p.width))
		}
	}
	for _, f := range fields {
		if _, err := buf.WriteString(f); err != nil {
			return err
		}
	}
	return buf.Flush()
}

// field left aligns s in a space padded ASCII field of the given width
func field(s string, width int) string {
	if len(s) > width {
		s = s[:width]
	}
	return fmt.Sprintf("%-*s", width, s)
}

func physicalField(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	if len(s) > 8 {
		s = fmt.Sprintf("%.0f", v)
	}
	return s
}
