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

const (
	// DefaultLogBytes is the capture capacity used when a manifest does
	// not specify one.
	DefaultLogBytes = 64 * 1024

	noOutput = "no output captured"
)

// LogBuffer is a bounded capture of subprocess output.  Appends beyond the
// capacity discard the oldest bytes, so the buffer always holds the tail of
// the stream.  It implements io.Writer so it can be attached directly to an
// exec.Cmd, and it is never cleared; the captured tail survives for the
// life of the process so the fallback page can render it.
type LogBuffer struct {
	maxBytes int
	buf      []byte
	mx       sync.Mutex
}

// NewLogBuffer returns a LogBuffer retaining at most maxBytes of output.
// A non-positive capacity selects DefaultLogBytes.
func NewLogBuffer(maxBytes int) *LogBuffer {
	if maxBytes <= 0 {
		maxBytes = DefaultLogBytes
	}
	return &LogBuffer{maxBytes: maxBytes}
}

func (l *LogBuffer) lock() {
	l.mx.Lock()
}

func (l *LogBuffer) unlock() {
	l.mx.Unlock()
}

// Write implements the Writer interface consumed by exec.Cmd.  It never
// fails; if the total exceeds the capacity only the trailing maxBytes are
// retained.
func (l *LogBuffer) Write(b []byte) (int, error) {
	l.lock()
	l.buf = append(l.buf, b...)
	if len(l.buf) > l.maxBytes {
		// NB: copy handles the overlap; this also sheds the grown
		// backing array's head so the buffer does not creep past
		// capacity between writes.
		n := copy(l.buf, l.buf[len(l.buf)-l.maxBytes:])
		l.buf = l.buf[:n]
	}
	l.unlock()
	return len(b), nil
}

// Snapshot returns the captured output, or a fixed placeholder if nothing
// was ever written.
func (l *LogBuffer) Snapshot() string {
	l.lock()
	defer l.unlock()
	if len(l.buf) == 0 {
		return noOutput
	}
	return string(l.buf)
}

// Len returns the number of bytes currently retained.
func (l *LogBuffer) Len() int {
	l.lock()
	defer l.unlock()
	return len(l.buf)
}

// MaxBytes returns the retention capacity.
func (l *LogBuffer) MaxBytes() int {
	return l.maxBytes
}
