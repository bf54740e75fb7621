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
	"sync"
)

// Mode is the supervisor's externally visible operating mode.
type Mode string

const (
	ModeStarting Mode = "starting"
	ModeRunning  Mode = "running"
	ModeFallback Mode = "fallback"
)

// Stage identifies a phase of the startup sequence.  StageSupervisor is
// only ever reported as a failure stage, when the orchestration itself
// faulted before either phase could be blamed.
type Stage string

const (
	StagePreflight   Stage = "preflight"
	StageMainService Stage = "mainService"
	StageSupervisor  Stage = "supervisor"
)

// State is the single shared record of what the supervisor is doing and,
// after fallback entry, what went wrong.  It is created once at startup and
// handed to the phase runners and the fallback responder; transitions are
// monotonic, so once fallback is entered nothing moves the state again.
type State struct {
	mode         Mode
	stage        Stage
	failureStage Stage
	exitCode     *int
	signal       string
	mx           sync.Mutex
}

// StateInfo is a point-in-time copy of the supervisor state, safe to hold
// without locking.  ExitCode is nil for signal deaths and for orchestration
// faults; Signal is empty for code based exits.
type StateInfo struct {
	Mode         Mode
	Stage        Stage
	FailureStage Stage
	ExitCode     *int
	Signal       string
}

// NewState returns a State in starting mode at the preflight stage.
func NewState() *State {
	return &State{mode: ModeStarting, stage: StagePreflight}
}

func (s *State) lock() {
	s.mx.Lock()
}

func (s *State) unlock() {
	s.mx.Unlock()
}

// BeginStage records that the given stage is now active.  Entering the
// main service stage moves the mode to running.  Once fallback has been
// entered this is a no-op.
func (s *State) BeginStage(st Stage) {
	s.lock()
	if s.mode != ModeFallback {
		s.stage = st
		if st == StageMainService {
			s.mode = ModeRunning
		}
	}
	s.unlock()
}

// Fail moves the state to fallback mode, recording the failing stage and
// the failure triple.  Exactly one of exitCode and signal is normally set;
// both absent marks an orchestration fault.  The first failure wins and
// later calls are ignored, keeping transitions monotonic.
func (s *State) Fail(st Stage, exitCode *int, signal string) {
	s.lock()
	if s.mode != ModeFallback {
		s.mode = ModeFallback
		s.failureStage = st
		s.exitCode = exitCode
		s.signal = signal
	}
	s.unlock()
}

// Failed reports whether fallback mode has been entered.
func (s *State) Failed() bool {
	s.lock()
	defer s.unlock()
	return s.mode == ModeFallback
}

// CurrentStage returns the most recently recorded stage.
func (s *State) CurrentStage() Stage {
	s.lock()
	defer s.unlock()
	return s.stage
}

// Info returns a snapshot of the state.
func (s *State) Info() StateInfo {
	s.lock()
	defer s.unlock()
	info := StateInfo{
		Mode:         s.mode,
		Stage:        s.stage,
		FailureStage: s.failureStage,
		Signal:       s.signal,
	}
	if s.exitCode != nil {
		code := *s.exitCode
		info.ExitCode = &code
	}
	return info
}
