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

// lifeboatd is the supervisor daemon.  It runs the preflight command, then
// the main service command, and if either fails (or the service ever
// exits) it takes over the service port with a diagnostic responder.  It
// is intended to be PID 1 of a managed container, so it never exits of its
// own accord except when POST /restart asks the orchestrator for a fresh
// process.
package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/lifeboat-io/lifeboat"
	"github.com/lifeboat-io/lifeboat/monitor"
	"github.com/lifeboat-io/lifeboat/rest"
)

var (
	flagPort     string
	flagBind     string
	flagManifest string
)

var rootCmd = &cobra.Command{
	Use:   "lifeboatd",
	Short: "Startup supervisor that keeps the service port answering",
	Run: func(cmd *cobra.Command, args []string) {
		run()
	},
}

func init() {
	rootCmd.Flags().StringVar(&flagPort, "port", "", "service port (fallback: $"+lifeboat.EnvPort+", then 8080)")
	rootCmd.Flags().StringVar(&flagBind, "bind", "", "bind address (fallback: $"+lifeboat.EnvBind+", then 0.0.0.0)")
	rootCmd.Flags().StringVar(&flagManifest, "manifest", "lifeboat.yaml", "supervisor manifest path")
}

func run() {
	logger := log.New(os.Stderr, "lifeboatd: ", log.LstdFlags)
	monitor.Register()

	// Bad flag values and a bad or missing manifest both degrade to
	// defaults.  The supervisor's one job is to come up on some port;
	// refusing to start over configuration would defeat it.
	cfg := lifeboat.ResolveConfig(flagPort, flagBind, os.Getenv)
	manifest, e := lifeboat.LoadManifest(flagManifest)
	if e != nil {
		logger.Printf("Manifest %s unusable, using defaults: %v", flagManifest, e)
	}

	logger.Printf("Supervising on %s", cfg.Address())

	s := lifeboat.New(manifest, logger)
	s.Run()

	info := s.State().Info()
	logger.Printf("Entering fallback: stage=%s exit=%s signal=%s",
		info.FailureStage, formatCode(info.ExitCode), formatSignal(info.Signal))

	h := rest.NewHandler(s, logger)
	if e := http.ListenAndServe(cfg.Address(), h); e != nil {
		// No fallback beneath the fallback.  Stay alive anyway and
		// let the orchestrator's liveness probe draw its own
		// conclusion about the dead port.
		logger.Printf("Fallback listener failed: %v", e)
	}
	select {}
}

func formatCode(c *int) string {
	if c == nil {
		return "none"
	}
	return fmt.Sprintf("%d", *c)
}

func formatSignal(s string) string {
	if s == "" {
		return "none"
	}
	return s
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
