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

package state

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.etcd.io/bbolt"
	"sigs.k8s.io/yaml"

	"jinr.ru/greenlab/go-headset/pkg/config"
	"jinr.ru/greenlab/go-headset/pkg/device"
	"jinr.ru/greenlab/go-headset/pkg/log"
	"jinr.ru/greenlab/go-headset/pkg/recording"
)

const (
	DeviceBucketPrefix = "device_"
	RecordingsBucket   = "recordings"
	DeviceInfoKey      = "info"
)

// RecordingEntry is the catalog record of a finished recording
type RecordingEntry struct {
	ID      string      `json:"id"`
	Device  device.Kind `json:"device"`
	Target  string      `json:"target"`
	Format  string      `json:"format"`
	Comment string      `json:"comment,omitempty"`
	Start   time.Time   `json:"start"`
	Stop    time.Time   `json:"stop"`
	Samples int         `json:"samples"`
	Error   string      `json:"error,omitempty"`
}

// EntryFromResult builds a catalog record out of an export result
func EntryFromResult(r recording.Result) RecordingEntry {
	e := RecordingEntry{
		ID:      r.Header.ID,
		Device:  r.Header.Device.Kind,
		Target:  r.Header.Target,
		Format:  r.Header.Format,
		Comment: r.Header.Comment,
		Start:   r.Header.Start,
		Stop:    r.Header.Stop,
		Samples: r.Samples,
	}
	if r.Err != nil {
		e.Error = r.Err.Error()
	}
	return e
}

type State struct {
	context.Context
	DB *bbolt.DB
}

// NewState opens the state database and creates the buckets of the configured device
func NewState(ctx context.Context, cfg *config.Config) (*State, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return nil, err
	}
	db, err := bbolt.Open(cfg.DBPath, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("error while opening state database %s: %w", cfg.DBPath, err)
	}
	if err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(BucketName(cfg.DeviceConfig.Name))); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists([]byte(RecordingsBucket))
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}
	return &State{
		Context: ctx,
		DB:      db,
	}, nil
}

func BucketName(deviceName string) string {
	return fmt.Sprintf("%s%s", DeviceBucketPrefix, deviceName)
}

func (s *State) Close() {
	s.DB.Close()
}

// SetDeviceInfo stores the device info, creating the device bucket if needed
func (s *State) SetDeviceInfo(name string, info device.Info) error {
	log.Debug("Setting device info: device: %s", name)
	return s.DB.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(BucketName(name)))
		if err != nil {
			return err
		}
		infoBytes, err := yaml.Marshal(info)
		if err != nil {
			return err
		}
		return b.Put([]byte(DeviceInfoKey), infoBytes)
	})
}

// UpdateDeviceInfo applies update to the stored device info in a single transaction
func (s *State) UpdateDeviceInfo(name string, update func(info *device.Info)) error {
	return s.DB.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(BucketName(name)))
		if err != nil {
			return err
		}
		info := device.Info{}
		if infoBytes := b.Get([]byte(DeviceInfoKey)); infoBytes != nil {
			if err := yaml.Unmarshal(infoBytes, &info); err != nil {
				return err
			}
		}
		update(&info)
		infoBytes, err := yaml.Marshal(info)
		if err != nil {
			return err
		}
		return b.Put([]byte(DeviceInfoKey), infoBytes)
	})
}

func (s *State) GetDeviceInfo(name string) (device.Info, error) {
	log.Debug("Getting device info: device: %s", name)
	info := device.Info{}
	err := s.DB.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(BucketName(name)))
		if b == nil {
			return fmt.Errorf("bucket not found: %s", BucketName(name))
		}
		infoBytes := b.Get([]byte(DeviceInfoKey))
		if infoBytes == nil {
			return errors.New("device info not found")
		}
		return yaml.Unmarshal(infoBytes, &info)
	})
	return info, err
}

// AddRecording stores a catalog record keyed by the recording id
func (s *State) AddRecording(entry RecordingEntry) error {
	log.Debug("Adding recording: %s", entry.ID)
	return s.DB.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(RecordingsBucket))
		if b == nil {
			return fmt.Errorf("bucket not found: %s", RecordingsBucket)
		}
		entryBytes, err := yaml.Marshal(entry)
		if err != nil {
			return err
		}
		return b.Put([]byte(entry.ID), entryBytes)
	})
}

// GetRecordings returns the catalog ordered by start time
func (s *State) GetRecordings() ([]RecordingEntry, error) {
	var entries []RecordingEntry
	err := s.DB.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(RecordingsBucket))
		if b == nil {
			return fmt.Errorf("bucket not found: %s", RecordingsBucket)
		}
		return b.ForEach(func(k, v []byte) error {
			var e RecordingEntry
			if err := yaml.Unmarshal(v, &e); err != nil {
				return fmt.Errorf("recording %s: %w", k, err)
			}
			entries = append(entries, e)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Start.Before(entries[j].Start)
	})
	return entries, nil
}
