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

package monitor

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestRegister(t *testing.T) {
	Convey("Register is idempotent", t, func() {
		So(Register, ShouldNotPanic)
		So(Register, ShouldNotPanic)

		Convey("and the counters accept increments", func() {
			So(func() {
				PhaseFailures.WithLabelValues("preflight").Inc()
				RestartRequests.Inc()
			}, ShouldNotPanic)
		})
	})
}
