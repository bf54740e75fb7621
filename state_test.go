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
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestStateInitial(t *testing.T) {
	Convey("A new state is starting at preflight with no failure", t, func() {
		s := NewState()
		info := s.Info()
		So(info.Mode, ShouldEqual, ModeStarting)
		So(info.Stage, ShouldEqual, StagePreflight)
		So(info.FailureStage, ShouldEqual, Stage(""))
		So(info.ExitCode, ShouldBeNil)
		So(info.Signal, ShouldEqual, "")
		So(s.Failed(), ShouldBeFalse)
	})
}

func TestStateStages(t *testing.T) {
	Convey("Entering the main service stage moves mode to running", t, func() {
		s := NewState()
		s.BeginStage(StageMainService)
		info := s.Info()
		So(info.Mode, ShouldEqual, ModeRunning)
		So(info.Stage, ShouldEqual, StageMainService)
		So(info.FailureStage, ShouldEqual, Stage(""))
	})
}

func TestStateFail(t *testing.T) {
	Convey("Failing records the stage and the failure triple", t, func() {
		s := NewState()
		code := 3
		s.Fail(StagePreflight, &code, "")
		info := s.Info()
		So(info.Mode, ShouldEqual, ModeFallback)
		So(info.FailureStage, ShouldEqual, StagePreflight)
		So(*info.ExitCode, ShouldEqual, 3)
		So(info.Signal, ShouldEqual, "")
		So(s.Failed(), ShouldBeTrue)

		Convey("the first failure wins", func() {
			other := 5
			s.Fail(StageMainService, &other, "")
			info = s.Info()
			So(info.FailureStage, ShouldEqual, StagePreflight)
			So(*info.ExitCode, ShouldEqual, 3)
		})

		Convey("and later stage transitions are ignored", func() {
			s.BeginStage(StageMainService)
			info = s.Info()
			So(info.Mode, ShouldEqual, ModeFallback)
			So(info.Stage, ShouldEqual, StagePreflight)
		})
	})

	Convey("A signal failure carries a name and no code", t, func() {
		s := NewState()
		s.BeginStage(StageMainService)
		s.Fail(StageMainService, nil, "SIGKILL")
		info := s.Info()
		So(info.ExitCode, ShouldBeNil)
		So(info.Signal, ShouldEqual, "SIGKILL")
		So(info.FailureStage, ShouldEqual, StageMainService)
	})

	Convey("Info copies the exit code rather than sharing it", t, func() {
		s := NewState()
		code := 7
		s.Fail(StagePreflight, &code, "")
		info := s.Info()
		code = 99
		So(*info.ExitCode, ShouldEqual, 7)
	})
}
