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

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"
)

type DeviceConfig struct {
	Kind string `yaml:"kind"`
	Name string `yaml:"name"`
}

type TransportConfig struct {
	Kind     string `yaml:"kind"`
	Port     string `yaml:"port,omitempty"`
	BaudRate int    `yaml:"baud_rate,omitempty"`
	Address  string `yaml:"address,omitempty"`
	MaxFrame int    `yaml:"max_frame,omitempty"`
}

type ApiConfig struct {
	Address string `yaml:"address"`
	Port    int    `yaml:"port"`
}

type StreamConfig struct {
	QueueSize           int  `yaml:"queue_size"`
	EegBufferTimepoints int  `yaml:"eeg_buffer_timepoints"`
	TriggerEnabled      bool `yaml:"trigger_enabled"`
}

type RecordingConfig struct {
	Dir    string `yaml:"dir"`
	Format string `yaml:"format"`
}

type Config struct {
	LogLevel         string `yaml:"log_level"`
	DBPath           string `yaml:"db_path"`
	*DeviceConfig    `yaml:"device"`
	*TransportConfig `yaml:"transport"`
	*ApiConfig       `yaml:"api"`
	*StreamConfig    `yaml:"stream"`
	*RecordingConfig `yaml:"recording"`
	filepath         string
}

func (c *Config) Path() string {
	return c.filepath
}

func (c *Config) SetPath(path string) {
	c.filepath = path
}

// ApiURL returns the base url of the acquisition HTTP API
func (c *Config) ApiURL() string {
	return fmt.Sprintf("http://%s:%d/api", c.ApiConfig.Address, c.ApiConfig.Port)
}

func (c *Config) Validate() error {
	if c.DeviceConfig == nil || c.DeviceConfig.Kind == "" {
		return ErrInvalidConfig{What: "device kind is empty"}
	}
	if c.TransportConfig == nil {
		return ErrInvalidConfig{What: "transport section is missing"}
	}
	switch c.TransportConfig.Kind {
	case TransportSerial:
		if c.TransportConfig.Port == "" {
			return ErrInvalidConfig{What: "serial port is empty"}
		}
	case TransportTCP:
		if c.TransportConfig.Address == "" {
			return ErrInvalidConfig{What: "tcp address is empty"}
		}
	default:
		return ErrInvalidConfig{What: fmt.Sprintf("unknown transport kind %q", c.TransportConfig.Kind)}
	}
	if c.StreamConfig != nil && c.StreamConfig.QueueSize <= 0 {
		return ErrInvalidConfig{What: "stream queue size must be positive"}
	}
	return nil
}

func (c *Config) Persist(overwrite bool) error {
	if _, err := os.Stat(c.filepath); err == nil && !overwrite {
		return ErrConfigFileExists{Path: c.filepath}
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	dir := filepath.Dir(c.filepath)
	err = os.MkdirAll(dir, 0755)
	if err != nil {
		return err
	}

	return os.WriteFile(c.filepath, data, 0644)
}

func (c *Config) LoadConfig() error {
	data, err := os.ReadFile(c.filepath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, c)
}

// Load reads the config file if it exists. A missing file leaves the defaults in place.
func (c *Config) Load() error {
	err := c.LoadConfig()
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func (c *Config) String() string {
	data, err := yaml.Marshal(c)
	if err != nil {
		return ""
	}
	return string(data)
}

func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	return filepath.Join(home, ConfigDir, ConfigFile)
}

func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	return filepath.Join(home, ConfigDir, DBFile)
}

func NewDefaultConfig() *Config {
	return &Config{
		LogLevel: DefaultLogLevel,
		DBPath:   DefaultDBPath(),
		DeviceConfig: &DeviceConfig{
			Kind: DefaultDeviceKind,
			Name: DefaultDeviceName,
		},
		TransportConfig: &TransportConfig{
			Kind:     DefaultTransportKind,
			Port:     DefaultSerialPort,
			BaudRate: DefaultSerialBaudRate,
			Address:  DefaultTransportAddress,
			MaxFrame: DefaultTransportMaxFrame,
		},
		ApiConfig: &ApiConfig{
			Address: DefaultApiAddress,
			Port:    DefaultApiPort,
		},
		StreamConfig: &StreamConfig{
			QueueSize:           DefaultStreamQueueSize,
			EegBufferTimepoints: DefaultEegBufferTimepoints,
			TriggerEnabled:      DefaultTriggerEnabled,
		},
		RecordingConfig: &RecordingConfig{
			Dir:    DefaultRecordingDir,
			Format: DefaultRecordingFormat,
		},
		filepath: DefaultConfigPath(),
	}
}
