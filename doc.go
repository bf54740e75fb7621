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

// Package lifeboat provides a startup supervisor for a single long running
// network service.  It runs a preflight validation command, then the main
// service command, capturing the output of both.  If either fails, or if
// the main service ever exits, the supervisor takes over the configured
// service port and answers with a diagnostic page instead, so that the
// surrounding orchestrator never sees a dead endpoint and an operator can
// inspect logs and request a restart without shell access to the container.
//
// The supervisor performs no in-process recovery.  Each phase is attempted
// exactly once; escaping fallback mode requires the outer orchestrator to
// restart the whole process, which POST /restart deliberately provokes by
// exiting nonzero.
package lifeboat
