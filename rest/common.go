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

package rest

const (
	mimeJson = "application/json; charset=UTF-8"
	mimeHtml = "text/html; charset=UTF-8"
)

// HealthInfo is the GET /healthz body.  FailureStage is empty until
// fallback mode is entered, and names the failed stage afterwards.
type HealthInfo struct {
	Status       string `json:"status"`
	FailureStage string `json:"failureStage,omitempty"`
}

// RestartAck is the POST /restart body.  By the time the caller reads it
// the process is already on its way out.
type RestartAck struct {
	Ok      bool   `json:"ok"`
	Message string `json:"message"`
}
