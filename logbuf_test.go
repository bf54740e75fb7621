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
	"strings"
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLogBufferEmpty(t *testing.T) {
	Convey("An empty buffer snapshots to the placeholder", t, func() {
		l := NewLogBuffer(16)
		So(l.Snapshot(), ShouldEqual, "no output captured")
		So(l.Len(), ShouldEqual, 0)
	})
}

func TestLogBufferAppend(t *testing.T) {
	Convey("Appends below capacity are kept verbatim", t, func() {
		l := NewLogBuffer(16)
		n, e := l.Write([]byte("hello "))
		So(e, ShouldBeNil)
		So(n, ShouldEqual, 6)
		l.Write([]byte("world"))
		So(l.Snapshot(), ShouldEqual, "hello world")
	})
}

func TestLogBufferTailRetention(t *testing.T) {
	Convey("Overflow discards the oldest bytes", t, func() {
		l := NewLogBuffer(16)
		l.Write([]byte(strings.Repeat("a", 10)))
		l.Write([]byte(strings.Repeat("b", 10)))
		So(l.Len(), ShouldEqual, 16)
		So(l.Snapshot(), ShouldEqual, strings.Repeat("a", 6)+strings.Repeat("b", 10))

		Convey("and a single oversized chunk keeps only its tail", func() {
			l.Write([]byte("0123456789abcdefghij"))
			So(l.Len(), ShouldEqual, 16)
			So(l.Snapshot(), ShouldEqual, "456789abcdefghij")
		})
	})

	Convey("The bound holds across many appends", t, func() {
		l := NewLogBuffer(64)
		for i := 0; i < 1000; i++ {
			l.Write([]byte("another line of output\n"))
			So(l.Len(), ShouldBeLessThanOrEqualTo, 64)
		}
	})
}

func TestLogBufferDefaults(t *testing.T) {
	Convey("A non-positive capacity selects the default", t, func() {
		l := NewLogBuffer(0)
		So(l.MaxBytes(), ShouldEqual, DefaultLogBytes)
		l = NewLogBuffer(-5)
		So(l.MaxBytes(), ShouldEqual, DefaultLogBytes)
	})
}

func TestLogBufferConcurrent(t *testing.T) {
	Convey("Concurrent writers and readers do not lose the bound", t, func() {
		l := NewLogBuffer(128)
		var wg sync.WaitGroup
		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 200; j++ {
					l.Write([]byte("chunk of subprocess output\n"))
				}
			}()
		}
		done := make(chan bool)
		go func() {
			for {
				select {
				case <-done:
					return
				default:
					_ = l.Snapshot()
				}
			}
		}()
		wg.Wait()
		close(done)
		So(l.Len(), ShouldBeLessThanOrEqualTo, 128)
	})
}
