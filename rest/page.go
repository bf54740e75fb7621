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

import (
	"html/template"
	"io"
	"strconv"

	"github.com/lifeboat-io/lifeboat"
)

// The page is deliberately self-contained: no external assets, since the
// whole point of fallback mode is that nothing else can be assumed to
// work.  Log content and failure text go through html/template's
// contextual escaping, because subprocess output is not trusted markup.
var pageTmpl = template.Must(template.New("diagnostic").Parse(`<!DOCTYPE html>
<html>
<head>
<title>Service unavailable &#8212; supervisor fallback</title>
<style>
body { font-family: sans-serif; margin: 2em; background: #f4f4f4; }
h1 { color: #a00; }
table { border-collapse: collapse; }
td, th { border: 1px solid #999; padding: 0.3em 0.8em; text-align: left; }
pre { background: #222; color: #ddd; padding: 1em; overflow-x: auto; }
a.tool { margin-right: 1.5em; }
button { padding: 0.5em 1.2em; }
</style>
</head>
<body>
<h1>Service failed to start</h1>
<p>The supervisor is in fallback mode. The managed service is not running;
this page is standing in on its port.</p>
<table>
<tr><th>Failed stage</th><td>{{.Stage}}</td></tr>
<tr><th>Exit code</th><td>{{.ExitCode}}</td></tr>
<tr><th>Signal</th><td>{{.Signal}}</td></tr>
</table>
<p>
<a class="tool" href="{{.FilesLink}}">File browser</a>
<a class="tool" href="{{.TerminalLink}}">Terminal</a>
<button onclick="doRestart()">Restart service</button>
<span id="restart-status"></span>
</p>
<h2>Preflight output</h2>
<pre>{{.PreflightLog}}</pre>
<h2>Service output</h2>
<pre>{{.ServiceLog}}</pre>
<script>
function doRestart() {
	document.getElementById("restart-status").textContent = "restarting...";
	fetch("/restart", {method: "POST"}).then(function() {
		document.getElementById("restart-status").textContent =
			"restart requested; reload this page shortly";
	}).catch(function() {
		document.getElementById("restart-status").textContent =
			"restart request failed";
	});
}
</script>
</body>
</html>
`))

type pageData struct {
	Stage        string
	ExitCode     string
	Signal       string
	PreflightLog string
	ServiceLog   string
	FilesLink    string
	TerminalLink string
}

// renderPage assembles the diagnostic page from the supervisor state and
// the two phase captures.
func renderPage(w io.Writer, info lifeboat.StateInfo, preflight, service *lifeboat.LogBuffer, links lifeboat.Links) error {
	d := pageData{
		Stage:        string(info.FailureStage),
		ExitCode:     "none",
		Signal:       "none",
		PreflightLog: preflight.Snapshot(),
		ServiceLog:   service.Snapshot(),
		FilesLink:    links.Files,
		TerminalLink: links.Terminal,
	}
	if d.Stage == "" {
		d.Stage = "none"
	}
	if info.ExitCode != nil {
		d.ExitCode = strconv.Itoa(*info.ExitCode)
	}
	if info.Signal != "" {
		d.Signal = info.Signal
	}
	return pageTmpl.Execute(w, d)
}
