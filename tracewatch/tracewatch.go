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

// Package tracewatch re-parses a trace file every time the producing
// interpreter rewrites it, feeding each dump through a coverage engine
// from a single goroutine. This is the re-parse loop for following a live
// process over its lifetime.
package tracewatch

import (
	"bufio"
	"bytes"
	"crypto/md5"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"tracecov.dev/pkg/coverage"
	"tracecov.dev/pkg/log"
)

var scope = log.RegisterScope("tracewatch", "Trace file watching and re-parsing", 0)

// Feeder watches one trace file and pushes each new dump into an engine.
//
// The parent directory is watched rather than the file itself: trace
// producers typically replace the file wholesale, and a direct watch would
// be lost on the first rename. A content hash filters out events that did
// not actually change the file.
type Feeder struct {
	path    string
	engine  *coverage.Engine
	watcher *fsnotify.Watcher

	// md5 sum to indicate if the file has been updated.
	lastSum []byte

	terminateCh chan bool
	doneCh      chan bool
}

// New returns a feeder for the given trace file. The file need not exist
// yet; the first dump the producer writes will be picked up.
func New(path string, engine *coverage.Engine) (*Feeder, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	return &Feeder{
		path:        path,
		engine:      engine,
		watcher:     watcher,
		terminateCh: make(chan bool),
		doneCh:      make(chan bool),
	}, nil
}

// Run parses the file once if it already exists, then blocks feeding every
// subsequent change into the engine until Close is called.
func (f *Feeder) Run() {
	defer close(f.doneCh)

	f.feed()

	for {
		select {
		case event := <-f.watcher.Events:
			if filepath.Clean(event.Name) != filepath.Clean(f.path) {
				continue
			}
			f.feed()

		case err := <-f.watcher.Errors:
			scope.Warnf("watch error on %s: %v", f.path, err)

		case <-f.terminateCh:
			return
		}
	}
}

// Close stops the feeder and releases the underlying watcher. It must not
// be called twice.
func (f *Feeder) Close() {
	f.terminateCh <- true
	<-f.doneCh
	_ = f.watcher.Close()
}

func (f *Feeder) feed() {
	sum := getMd5Sum(f.path)
	if sum == nil || bytes.Equal(sum, f.lastSum) {
		return
	}
	f.lastSum = sum

	data, err := ioutil.ReadFile(f.path)
	if err != nil {
		scope.Warnf("unable to read %s: %v", f.path, err)
		return
	}

	scope.Infof("parsing %s (%d bytes)", f.path, len(data))
	if err := f.engine.ParseData(string(data)); err != nil {
		scope.Warnf("parse of %s reported: %v", f.path, err)
	}
}

// gets the MD5 of the given file, or nil if there's a problem
func getMd5Sum(file string) []byte {
	fd, err := os.Open(file)
	if err != nil {
		return nil
	}
	defer fd.Close()
	r := bufio.NewReader(fd)

	h := md5.New()
	_, _ = io.Copy(h, r)
	return h.Sum(nil)
}
