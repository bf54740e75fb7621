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
	"io"
	"log"
	"os"
	"os/exec"
	"strings"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/lifeboat-io/lifeboat/monitor"
)

// Phase runs one subprocess lifecycle: spawn, stream output, wait, and
// record the outcome.  The child gets no stdin; its stdout and stderr are
// teed to this process's own streams (so the container log sees them live)
// and to the phase's LogBuffer (so the fallback page can render the tail).
//
// A phase runs exactly once.  There are no retries, no timeouts, and no
// mid-phase cancellation; a hung child is the orchestrator's liveness
// probe's problem, not ours.
type Phase struct {
	stage  Stage
	state  *State
	buf    *LogBuffer
	logger *log.Logger

	// stdout and stderr default to the process's own streams; tests
	// substitute quieter sinks.
	stdout io.Writer
	stderr io.Writer
}

// NewPhase returns a Phase feeding the given buffer and recording outcomes
// against the given state at the given stage.
func NewPhase(stage Stage, state *State, buf *LogBuffer, logger *log.Logger) *Phase {
	return &Phase{
		stage:  stage,
		state:  state,
		buf:    buf,
		logger: logger,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
}

// Run spawns the command and blocks until it exits, returning true only
// for a clean zero exit.  Failures are recorded against the state before
// returning: a spawn error as exit code 1, a nonzero exit with its exact
// code, a signal death with the signal's name and no code.
func (p *Phase) Run(spec CommandSpec) bool {
	if len(spec.Command) == 0 {
		p.fail(exitCode(1), "", ErrNoCommand.Error())
		return false
	}

	cmd := exec.Command(spec.Command[0], spec.Command[1:]...)
	cmd.Stdin = nil
	cmd.Stdout = io.MultiWriter(p.stdout, p.buf)
	cmd.Stderr = io.MultiWriter(p.stderr, p.buf)
	if len(spec.Env) > 0 {
		cmd.Env = append(os.Environ(), spec.Env...)
	}

	p.logger.Printf("Starting %s: %s", p.stage, strings.Join(spec.Command, " "))

	if e := cmd.Start(); e != nil {
		// Missing executable, permission denied, and friends all
		// collapse to a code-1 failure; the spawn error text still
		// lands in the capture for the operator.
		p.buf.Write([]byte(e.Error() + "\n"))
		p.fail(exitCode(1), "", e.Error())
		return false
	}

	e := cmd.Wait()
	if e == nil {
		p.logger.Printf("Finished %s: exit status 0", p.stage)
		return true
	}

	if ee, ok := e.(*exec.ExitError); ok {
		if ws, ok := ee.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			p.fail(nil, unix.SignalName(ws.Signal()), e.Error())
			return false
		}
		p.fail(exitCode(ee.ExitCode()), "", e.Error())
		return false
	}

	// Wait itself failed (I/O trouble on the pipes, say); there is no
	// status to preserve, so report it like a spawn failure.
	p.buf.Write([]byte(e.Error() + "\n"))
	p.fail(exitCode(1), "", e.Error())
	return false
}

func (p *Phase) fail(code *int, signal, reason string) {
	p.logger.Printf("Failed %s: %s", p.stage, reason)
	p.state.Fail(p.stage, code, signal)
	monitor.PhaseFailures.WithLabelValues(string(p.stage)).Inc()
}

func exitCode(c int) *int {
	return &c
}
