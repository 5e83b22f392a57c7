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

package command

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/imroc/req"

	"jinr.ru/greenlab/go-headset/pkg/config"
	"jinr.ru/greenlab/go-headset/pkg/device"
	"jinr.ru/greenlab/go-headset/pkg/recording"
	"jinr.ru/greenlab/go-headset/pkg/srv/acquisition"
	"jinr.ru/greenlab/go-headset/pkg/state"
)

// ApiClient talks to a running acquisition server
type ApiClient struct {
	*config.Config
	ApiPrefix string
}

func NewApiClient(cfg *config.Config) *ApiClient {
	return &ApiClient{
		Config:    cfg,
		ApiPrefix: cfg.ApiURL(),
	}
}

func check(r *req.Resp) error {
	if r.Response().StatusCode != http.StatusOK {
		msg := strings.TrimSpace(r.String())
		if msg == "" {
			return fmt.Errorf("%s", r.Response().Status)
		}
		return fmt.Errorf("%s: %s", r.Response().Status, msg)
	}
	return nil
}

// StartRecording sends request to start a recording session
func (c *ApiClient) StartRecording(opts recording.Options) (recording.Header, error) {
	header := recording.Header{}
	r, err := req.Post(fmt.Sprintf("%s/recording/start", c.ApiPrefix), req.BodyJSON(opts))
	if err != nil {
		return header, err
	}
	if err := check(r); err != nil {
		return header, err
	}
	err = r.ToJSON(&header)
	return header, err
}

// StopRecording sends request to stop the recording session
func (c *ApiClient) StopRecording() (recording.Header, error) {
	header := recording.Header{}
	r, err := req.Post(fmt.Sprintf("%s/recording/stop", c.ApiPrefix))
	if err != nil {
		return header, err
	}
	if err := check(r); err != nil {
		return header, err
	}
	err = r.ToJSON(&header)
	return header, err
}

func (c *ApiClient) Status() (acquisition.Status, error) {
	status := acquisition.Status{}
	r, err := req.Get(fmt.Sprintf("%s/status", c.ApiPrefix))
	if err != nil {
		return status, err
	}
	if err := check(r); err != nil {
		return status, err
	}
	err = r.ToJSON(&status)
	return status, err
}

func (c *ApiClient) Device() (device.Info, error) {
	info := device.Info{}
	r, err := req.Get(fmt.Sprintf("%s/device", c.ApiPrefix))
	if err != nil {
		return info, err
	}
	if err := check(r); err != nil {
		return info, err
	}
	err = r.ToJSON(&info)
	return info, err
}

func (c *ApiClient) Recordings() ([]state.RecordingEntry, error) {
	r, err := req.Get(fmt.Sprintf("%s/recordings", c.ApiPrefix))
	if err != nil {
		return nil, err
	}
	if err := check(r); err != nil {
		return nil, err
	}
	var entries []state.RecordingEntry
	err = r.ToJSON(&entries)
	return entries, err
}

// ClearBuffer drops the samples the server did not pack into a window yet
func (c *ApiClient) ClearBuffer() error {
	r, err := req.Post(fmt.Sprintf("%s/buffer/clear", c.ApiPrefix))
	if err != nil {
		return err
	}
	return check(r)
}

func (c *ApiClient) ResetCounters() error {
	r, err := req.Post(fmt.Sprintf("%s/counters/reset", c.ApiPrefix))
	if err != nil {
		return err
	}
	return check(r)
}

// Send asks the server to send a mailbox command to the headset
func (c *ApiClient) Send(name, arg string) error {
	u := fmt.Sprintf("%s/command/%s", c.ApiPrefix, url.PathEscape(name))
	if arg != "" {
		u = fmt.Sprintf("%s?arg=%s", u, url.QueryEscape(arg))
	}
	r, err := req.Post(u)
	if err != nil {
		return err
	}
	return check(r)
}
