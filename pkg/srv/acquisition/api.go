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

// go-headset API
//
// # RESTful APIs to interact with the go-headset acquisition server
//
// Schemes: http
// Host: localhost:8010
// Version: 1.0.0
//
//	Consumes:
//	- application/json
//
//	Produces:
//	- application/json
//
// swagger:meta
package acquisition

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-openapi/loads"
	"github.com/go-openapi/runtime/middleware"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"jinr.ru/greenlab/go-headset/pkg/config"
	"jinr.ru/greenlab/go-headset/pkg/device"
	"jinr.ru/greenlab/go-headset/pkg/log"
	"jinr.ru/greenlab/go-headset/pkg/protocol"
	"jinr.ru/greenlab/go-headset/pkg/recording"
	"jinr.ru/greenlab/go-headset/pkg/state"
)

//go:embed swagger.json
var swaggerSpec []byte

// Control is what the API needs from the acquisition server
type Control interface {
	StartRecording(opts recording.Options) (recording.Header, error)
	StopRecording() (recording.Header, error)
	Status() Status
	ClearBuffer()
	ResetCounters()
	DeviceInfo() device.Info
	Recordings() ([]state.RecordingEntry, error)
	Send(cmd protocol.Command) error
}

var _ Control = &Server{}

type ApiServer struct {
	context.Context
	*config.Config
	*mux.Router
	ctrl Control
}

func NewApiServer(ctx context.Context, cfg *config.Config, ctrl Control) (*ApiServer, error) {
	log.Info("Initializing API server with address: %s port: %d", cfg.ApiConfig.Address, cfg.ApiConfig.Port)

	// fail early on a broken embedded document
	if _, err := loads.Analyzed(json.RawMessage(swaggerSpec), ""); err != nil {
		return nil, fmt.Errorf("invalid API document: %w", err)
	}
	s := &ApiServer{
		Context: ctx,
		Config:  cfg,
		ctrl:    ctrl,
	}
	s.configureRouter()
	return s, nil
}

// Handler is the router wrapped into the logging and recovery middleware
func (s *ApiServer) Handler() http.Handler {
	h := handlers.RecoveryHandler(handlers.RecoveryLogger(log.Std()))(s.Router)
	return handlers.LoggingHandler(log.Writer(), h)
}

// Run serves until the context is done
func (s *ApiServer) Run() error {
	log.Info("Starting API server: address: %s port: %d", s.Config.ApiConfig.Address, s.Config.ApiConfig.Port)
	httpServer := &http.Server{
		Handler: s.Handler(),
		Addr:    fmt.Sprintf("%s:%d", s.Config.ApiConfig.Address, s.Config.ApiConfig.Port),
	}
	go func() {
		<-s.Context.Done()
		httpServer.Close()
	}()
	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *ApiServer) configureRouter() {
	s.Router = mux.NewRouter()
	subRouter := s.Router.PathPrefix("/api").Subrouter()
	// swagger:operation POST /recording/start recording startRecording
	// ---
	// summary: start a recording session
	subRouter.HandleFunc("/recording/start", s.handleStartRecording()).Methods("POST")
	// swagger:operation POST /recording/stop recording stopRecording
	// ---
	// summary: stop the recording session and export it
	subRouter.HandleFunc("/recording/stop", s.handleStopRecording()).Methods("POST")
	subRouter.HandleFunc("/recordings", s.handleRecordings()).Methods("GET")
	subRouter.HandleFunc("/status", s.handleStatus()).Methods("GET")
	subRouter.HandleFunc("/device", s.handleDevice()).Methods("GET")
	subRouter.HandleFunc("/buffer/clear", s.handleClearBuffer()).Methods("POST")
	subRouter.HandleFunc("/counters/reset", s.handleResetCounters()).Methods("POST")
	// swagger:operation POST /command/{name} command sendCommand
	// ---
	// summary: send a mailbox command to the headset
	subRouter.HandleFunc("/command/{name}", s.handleCommand()).Methods("POST")

	s.Router.HandleFunc("/swagger.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(swaggerSpec)
	}).Methods("GET")
	s.Router.Handle("/docs", middleware.Redoc(middleware.RedocOpts{
		BasePath: "/",
		Path:     "docs",
		SpecURL:  "/swagger.json",
		Title:    "go-headset API",
	}, http.NotFoundHandler())).Methods("GET")
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Error while encoding response: %s", err)
	}
}

func (s *ApiServer) handleStartRecording() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts := recording.Options{}
		if err := json.NewDecoder(r.Body).Decode(&opts); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Debug("Handling start recording request: target: %s format: %s", opts.Target, opts.Format)
		header, err := s.ctrl.StartRecording(opts)
		if err != nil {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		writeJSON(w, header)
	}
}

func (s *ApiServer) handleStopRecording() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header, err := s.ctrl.StopRecording()
		if err != nil {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		writeJSON(w, header)
	}
}

func (s *ApiServer) handleRecordings() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := s.ctrl.Recordings()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if entries == nil {
			entries = []state.RecordingEntry{}
		}
		writeJSON(w, entries)
	}
}

func (s *ApiServer) handleStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, s.ctrl.Status())
	}
}

func (s *ApiServer) handleDevice() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, s.ctrl.DeviceInfo())
	}
}

func (s *ApiServer) handleClearBuffer() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.ctrl.ClearBuffer()
	}
}

func (s *ApiServer) handleResetCounters() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.ctrl.ResetCounters()
	}
}

func (s *ApiServer) handleCommand() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		cmd, err := protocol.ParseCommand(vars["name"], r.URL.Query().Get("arg"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Debug("Handling command request: %s", vars["name"])
		err = s.ctrl.Send(cmd)
		if errors.Is(err, ErrNotConnected) {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
	}
}
