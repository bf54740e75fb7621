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
	"errors"
	"net"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultPort = 8080
	DefaultBind = "0.0.0.0"

	// EnvPort and EnvBind override the defaults; a valid --port or
	// --bind flag beats both.
	EnvPort = "LIFEBOAT_PORT"
	EnvBind = "LIFEBOAT_BIND"

	// DefaultGraceDelay is how long POST /restart waits after answering
	// before the process exits, so the response can flush to the socket.
	DefaultGraceDelay = 500 * time.Millisecond
)

var (
	ErrBadPort     = errors.New("Port not in range 0-65535")
	ErrNoCommand   = errors.New("No command configured")
	ErrBadManifest = errors.New("Malformed manifest")
)

// CommandSpec names one external command to run, as a plain argument
// vector, plus any extra environment to hand it.
type CommandSpec struct {
	Command []string `yaml:"command"`
	Env     []string `yaml:"env"`
}

// Links are the fixed relative paths of the auxiliary operator tools the
// fallback page points at.  They are rendered as plain anchors and never
// probed; the sibling processes behind them are not this supervisor's
// problem.
type Links struct {
	Files    string `yaml:"files"`
	Terminal string `yaml:"terminal"`
}

// Manifest describes what to supervise.  Every field is optional; a
// missing manifest file yields a fully defaulted one, so the supervisor
// can run from nothing but its baked-in conventions.
type Manifest struct {
	Preflight    CommandSpec `yaml:"preflight"`
	Service      CommandSpec `yaml:"service"`
	LogMaxBytes  int         `yaml:"log_max_bytes"`
	GraceDelayMS int         `yaml:"grace_delay_ms"`
	Links        Links       `yaml:"links"`
}

// GraceDelay returns the restart grace delay as a duration.
func (m *Manifest) GraceDelay() time.Duration {
	return time.Duration(m.GraceDelayMS) * time.Millisecond
}

func (m *Manifest) setDefaults() {
	if len(m.Preflight.Command) == 0 {
		m.Preflight.Command = []string{"./preflight.sh"}
	}
	if len(m.Service.Command) == 0 {
		m.Service.Command = []string{"./start.sh"}
	}
	if m.LogMaxBytes <= 0 {
		m.LogMaxBytes = DefaultLogBytes
	}
	if m.GraceDelayMS <= 0 {
		m.GraceDelayMS = int(DefaultGraceDelay / time.Millisecond)
	}
	if m.Links.Files == "" {
		m.Links.Files = "/files/"
	}
	if m.Links.Terminal == "" {
		m.Links.Terminal = "/terminal/"
	}
}

// LoadManifest reads a YAML manifest from path.  A missing file is not an
// error; it simply yields the defaults.  A file that exists but does not
// parse is reported, with defaults returned so the caller can still limp
// into fallback rather than dying silently.
func LoadManifest(path string) (Manifest, error) {
	var m Manifest
	data, e := os.ReadFile(path)
	switch {
	case e == nil:
		if e = yaml.Unmarshal(data, &m); e != nil {
			m = Manifest{}
			m.setDefaults()
			return m, errors.Join(ErrBadManifest, e)
		}
	case os.IsNotExist(e):
		// fall through to defaults
	default:
		m.setDefaults()
		return m, e
	}
	m.setDefaults()
	return m, nil
}

// Config is the resolved listen address for the supervised port, shared by
// the main service (by convention) and the fallback responder (by binding).
type Config struct {
	Bind string
	Port int
}

// Address returns the host:port string to bind.
func (c *Config) Address() string {
	return net.JoinHostPort(c.Bind, strconv.Itoa(c.Port))
}

// ParsePort validates a port token.  The whole 16 bit range is accepted.
func ParsePort(s string) (int, error) {
	p, e := strconv.Atoi(s)
	if e != nil {
		return 0, e
	}
	if p < 0 || p > 65535 {
		return 0, ErrBadPort
	}
	return p, nil
}

// ResolveConfig resolves the bind address and port with the precedence
// flag > environment > default.  Invalid or absent values at one level
// fall through to the next rather than failing; the supervisor's job is to
// come up on *some* port, not to argue about arguments.
func ResolveConfig(portFlag, bindFlag string, getenv func(string) string) Config {
	cfg := Config{Bind: DefaultBind, Port: DefaultPort}

	if p, e := ParsePort(portFlag); portFlag != "" && e == nil {
		cfg.Port = p
	} else if env := getenv(EnvPort); env != "" {
		if p, e := ParsePort(env); e == nil {
			cfg.Port = p
		}
	}

	if bindFlag != "" {
		cfg.Bind = bindFlag
	} else if env := getenv(EnvBind); env != "" {
		cfg.Bind = env
	}
	return cfg
}
