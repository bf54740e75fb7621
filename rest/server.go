// Copyright 2025 The Lifeboat Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use file except in compliance with the License.
// You may obtain a copy of the license at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package rest implements the fallback responder: the HTTP surface that
// takes over the service port once the supervisor has entered fallback
// mode.  It answers health checks, accepts a restart trigger, and renders
// a diagnostic page for everything else.
package rest

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lifeboat-io/lifeboat"
	"github.com/lifeboat-io/lifeboat/monitor"
)

// Handler answers on the supervised port in fallback mode, adding
// http.Handler functionality around the supervisor's state and captures.
type Handler struct {
	state     *lifeboat.State
	preflight *lifeboat.LogBuffer
	service   *lifeboat.LogBuffer
	links     lifeboat.Links
	grace     time.Duration
	logger    *log.Logger
	r         *mux.Router

	// exit is os.Exit unless a test substitutes it.  exitOnce keeps
	// repeated POST /restart calls from stacking exit timers; every
	// call still gets its 200.
	exit     func(int)
	exitOnce sync.Once
}

// NewHandler returns a Handler serving the given supervisor's state and
// log captures.
func NewHandler(s *lifeboat.Supervisor, logger *log.Logger) *Handler {
	m := s.Manifest()
	h := &Handler{
		state:     s.State(),
		preflight: s.PreflightLog(),
		service:   s.ServiceLog(),
		links:     m.Links,
		grace:     m.GraceDelay(),
		logger:    logger,
		exit:      os.Exit,
	}
	r := mux.NewRouter()
	r.HandleFunc("/healthz", h.healthz).Methods("GET")
	r.HandleFunc("/restart", h.restart).Methods("POST")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	r.PathPrefix("/").HandlerFunc(h.diagnostic)
	// A wrong method on a known path still gets the diagnostic page;
	// every request on this port answers 200 with something useful.
	r.MethodNotAllowedHandler = http.HandlerFunc(h.diagnostic)
	h.r = r
	return h
}

func (h *Handler) internalError(w http.ResponseWriter, e error) {
	http.Error(w, e.Error(), http.StatusInternalServerError)
}

func (h *Handler) writeJson(w http.ResponseWriter, v interface{}) {
	if b, e := json.Marshal(v); e != nil {
		h.internalError(w, e)
	} else {
		w.Header().Set("Content-Type", mimeJson)
		w.Write(b)
	}
}

func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	info := h.state.Info()
	h.writeJson(w, HealthInfo{
		Status:       string(info.Mode),
		FailureStage: string(info.FailureStage),
	})
}

// restart acknowledges, flushes, and then exits nonzero after the grace
// delay.  The exit is the entire recovery mechanism: it asks the outer
// orchestrator to replace this process, nothing more.
func (h *Handler) restart(w http.ResponseWriter, r *http.Request) {
	monitor.RestartRequests.Inc()
	h.writeJson(w, RestartAck{
		Ok:      true,
		Message: "restart requested; supervisor exiting",
	})
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
	h.exitOnce.Do(func() {
		h.logger.Printf("Restart requested; exiting in %v", h.grace)
		time.AfterFunc(h.grace, func() {
			h.exit(1)
		})
	})
}

func (h *Handler) diagnostic(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", mimeHtml)
	if e := renderPage(w, h.state.Info(), h.preflight, h.service, h.links); e != nil {
		h.logger.Printf("Failed rendering diagnostic page: %v", e)
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	h.r.ServeHTTP(w, req)
}
