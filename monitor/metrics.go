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

// Package monitor holds the supervisor's Prometheus metrics.  The fallback
// responder exposes them on /metrics; in a healthy boot they are never
// scraped, which is the desired outcome.
package monitor

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// PhaseFailures counts phase failures, partitioned by stage.
	PhaseFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "lifeboat_phase_failures_total",
		Help: "Total phase failures, by stage",
	}, []string{"stage"})

	// RestartRequests counts POST /restart calls received before exit.
	RestartRequests = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "lifeboat_restart_requests_total",
		Help: "Total restart requests received",
	})
)

var registerOnce sync.Once

// Register installs the metrics into the default registry.  It is safe to
// call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(PhaseFailures)
		prometheus.MustRegister(RestartRequests)
	})
}
