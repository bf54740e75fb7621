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

package lifeboat

import (
	"log"

	"github.com/lifeboat-io/lifeboat/monitor"
)

// Supervisor sequences the two startup phases.  Preflight runs first; only
// if it exits zero does the main service start.  Any failure, and any exit
// of the main service including a clean one, ends in fallback mode: the
// managed port must always answer, so for a service that is meant to run
// forever a successful exit is still an outage.
//
// Transitions are monotonic.  Fallback is entered at most once and nothing
// leaves it short of a process restart, which is the orchestrator's move.
type Supervisor struct {
	manifest     Manifest
	state        *State
	preflightLog *LogBuffer
	serviceLog   *LogBuffer
	logger       *log.Logger
}

// New returns a Supervisor for the given manifest, with fresh state and
// log buffers sized per the manifest.
func New(manifest Manifest, logger *log.Logger) *Supervisor {
	return &Supervisor{
		manifest:     manifest,
		state:        NewState(),
		preflightLog: NewLogBuffer(manifest.LogMaxBytes),
		serviceLog:   NewLogBuffer(manifest.LogMaxBytes),
		logger:       logger,
	}
}

// Manifest returns the manifest the supervisor was built from.
func (s *Supervisor) Manifest() Manifest {
	return s.manifest
}

// State returns the shared state handle.
func (s *Supervisor) State() *State {
	return s.state
}

// PreflightLog returns the preflight phase's capture buffer.
func (s *Supervisor) PreflightLog() *LogBuffer {
	return s.preflightLog
}

// ServiceLog returns the main service phase's capture buffer.
func (s *Supervisor) ServiceLog() *LogBuffer {
	return s.serviceLog
}

// Run executes the startup sequence and returns once fallback mode has
// been entered.  On return the state always satisfies mode == fallback
// with a recorded failure stage; the caller's next move is to hand the
// service port to the fallback responder.
//
// A panic anywhere in the orchestration is absorbed here and recorded as a
// failure at the last active stage, so a supervisor bug degrades into a
// diagnosable fallback instead of a silent death.
func (s *Supervisor) Run() {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Printf("Supervisor fault: %v", r)
			stage := s.state.CurrentStage()
			if stage == "" {
				stage = StageSupervisor
			}
			s.state.Fail(stage, nil, "")
			monitor.PhaseFailures.WithLabelValues(string(stage)).Inc()
		}
	}()

	s.state.BeginStage(StagePreflight)
	preflight := NewPhase(StagePreflight, s.state, s.preflightLog, s.logger)
	if !preflight.Run(s.manifest.Preflight) {
		return
	}

	s.state.BeginStage(StageMainService)
	service := NewPhase(StageMainService, s.state, s.serviceLog, s.logger)
	if service.Run(s.manifest.Service) {
		// The service exited cleanly.  That still leaves the port
		// dead, so surface it as a failure with exit code 0 rather
		// than letting the process evaporate.
		s.logger.Printf("Main service exited cleanly; entering fallback")
		s.state.Fail(StageMainService, exitCode(0), "")
		monitor.PhaseFailures.WithLabelValues(string(StageMainService)).Inc()
	}
}
