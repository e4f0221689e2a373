// Copyright The Tracecov Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package covz exposes the live coverage state of a running feed over
// HTTP. It observes a coverage engine and keeps its own cloned copy of
// every snapshot, so serving requests never touches the single-threaded
// engine.
package covz

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"sync"

	"github.com/gorilla/mux"

	"tracecov.dev/pkg/coverage"
	"tracecov.dev/pkg/log"
	"tracecov.dev/pkg/report"
)

var scope = log.RegisterScope("covz", "Coverage introspection endpoints", 0)

// Topic caches coverage snapshots and serves them over HTTP. Register it
// as an observer on the engine, then attach its routes to a router.
type Topic struct {
	mu    sync.RWMutex
	files map[string]*coverage.FileSnapshot
}

// NewTopic returns an empty topic.
func NewTopic() *Topic {
	return &Topic{
		files: make(map[string]*coverage.FileSnapshot),
	}
}

// OnNewScript implements coverage.Observer.
func (t *Topic) OnNewScript(filename string, snap *coverage.FileSnapshot) {
	t.mu.Lock()
	t.files[filename] = snap.Clone()
	t.mu.Unlock()
}

// OnScriptUpdate implements coverage.Observer.
func (t *Topic) OnScriptUpdate(filename string, snap *coverage.FileSnapshot) {
	t.mu.Lock()
	t.files[filename] = snap.Clone()
	t.mu.Unlock()
}

// OnLineUpdate implements coverage.Observer. The line argument is 1-based
// for lines newly added to a file and a 0-based array index for changed
// lines; an existing cached entry at the index form disambiguates the two.
func (t *Topic) OnLineUpdate(filename string, line int, data *coverage.LineSnapshot) {
	t.mu.Lock()
	defer t.mu.Unlock()

	fs, ok := t.files[filename]
	if !ok {
		return
	}

	idx := line
	if idx >= len(fs.Lines) || fs.Lines[idx] == nil {
		idx = line - 1
	}
	if idx < 0 {
		return
	}
	for idx >= len(fs.Lines) {
		fs.Lines = append(fs.Lines, nil)
	}
	fs.Lines[idx] = data.Clone()
}

// snapshots returns the cached snapshots ordered by filename.
func (t *Topic) snapshots() []*coverage.FileSnapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()

	names := make([]string, 0, len(t.files))
	for name := range t.files {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]*coverage.FileSnapshot, 0, len(names))
	for _, name := range names {
		out = append(out, t.files[name].Clone())
	}
	return out
}

// Register attaches the topic's routes to a router:
//
//	GET /coveragez               per-file tallies
//	GET /coveragez/profile       cover-profile download
//	GET /coveragez/files/{file}  full snapshot of one file
func (t *Topic) Register(router *mux.Router) {
	_ = router.StrictSlash(true).
		NewRoute().
		Methods("GET").
		Path("/coveragez").
		HandlerFunc(t.handleIndex)

	_ = router.StrictSlash(true).
		NewRoute().
		Methods("GET").
		Path("/coveragez/profile").
		HandlerFunc(t.handleProfile)

	_ = router.StrictSlash(true).
		NewRoute().
		Methods("GET").
		PathPrefix("/coveragez/files/").
		HandlerFunc(t.handleFile)
}

type indexEntry struct {
	Filename  string `json:"filename"`
	Covered   int    `json:"covered"`
	Partial   int    `json:"partial"`
	Uncovered int    `json:"uncovered"`
	Dead      int    `json:"dead"`
}

func (t *Topic) handleIndex(w http.ResponseWriter, _ *http.Request) {
	snaps := t.snapshots()

	entries := make([]indexEntry, 0, len(snaps))
	for _, fs := range snaps {
		entries = append(entries, indexEntry{
			Filename:  fs.Filename,
			Covered:   fs.Covered,
			Partial:   fs.Partial,
			Uncovered: fs.Uncovered,
			Dead:      fs.Dead,
		})
	}

	renderJSON(w, entries)
}

func (t *Topic) handleProfile(w http.ResponseWriter, _ *http.Request) {
	b := []byte(report.ProfileText(t.snapshots()))
	w.Header().Set("Content-Type", "application/text; charset=utf-8")
	w.Header().Add("Content-Disposition", `attachment; filename="cover.profile"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(b)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

func (t *Topic) handleFile(w http.ResponseWriter, req *http.Request) {
	name := req.URL.Path[len("/coveragez/files/"):]

	t.mu.RLock()
	fs, ok := t.files[name]
	if ok {
		fs = fs.Clone()
	}
	t.mu.RUnlock()

	if !ok {
		http.Error(w, "unknown file: "+name, http.StatusNotFound)
		return
	}

	renderJSON(w, fs)
}

func renderJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		scope.Errorf("unable to render response: %v", err)
	}
}
