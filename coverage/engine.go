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

package coverage

import (
	"errors"
	"sort"

	"github.com/google/uuid"

	"tracecov.dev/pkg/log"
	"tracecov.dev/pkg/trace"
)

var scope = log.RegisterScope("coverage", "Coverage aggregation, diffing, and notification", 0)

// ErrReentrantParse is returned when ParseData is invoked from within an
// observer callback of an in-progress ParseData.
var ErrReentrantParse = errors.New("coverage: ParseData called re-entrantly from an observer")

// Engine turns successive trace dumps into per-file coverage snapshots,
// diffs each parse against the state accumulated from earlier parses, and
// notifies registered observers of what changed.
//
// An Engine is not safe for concurrent use; callers re-parsing a live
// process's dumps must serialize ParseData invocations themselves.
type Engine struct {
	remap   trace.Remap
	discard []string

	files     map[string]*FileSnapshot
	observers []Observer

	parsing bool
}

// Option adjusts Engine construction.
type Option func(*Engine)

// WithRemap installs a coordinate translation hook, called for every
// record header and instruction line. It must be pure and deterministic.
func WithRemap(r trace.Remap) Option {
	return func(e *Engine) { e.remap = r }
}

// WithDiscardHeaders overrides the set of record headers dropped as
// interpreter bootstrap or anonymous eval placeholders. The default is
// trace.DefaultDiscardHeaders.
func WithDiscardHeaders(headers []string) Option {
	return func(e *Engine) { e.discard = headers }
}

// New returns an empty engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		files: make(map[string]*FileSnapshot),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// AddObserver appends an observer to the dispatch list. Adding the same
// observer twice dispatches to it twice.
func (e *Engine) AddObserver(o Observer) {
	e.observers = append(e.observers, o)
}

// RemoveObserver removes the first registration of an observer, matched by
// identity.
func (e *Engine) RemoveObserver(o Observer) {
	for i, reg := range e.observers {
		if reg == o {
			e.observers = append(e.observers[:i], e.observers[i+1:]...)
			return
		}
	}
}

// Snapshots returns clones of the accumulated per-file snapshots, ordered
// by filename.
func (e *Engine) Snapshots() []*FileSnapshot {
	names := make([]string, 0, len(e.files))
	for name := range e.files {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]*FileSnapshot, 0, len(names))
	for _, name := range names {
		out = append(out, e.files[name].Clone())
	}
	return out
}

// Snapshot returns a clone of one file's accumulated snapshot, or nil if
// the filename has never been observed.
func (e *Engine) Snapshot(filename string) *FileSnapshot {
	fs, ok := e.files[filename]
	if !ok {
		return nil
	}
	return fs.Clone()
}

// ParseData parses one full trace dump, reconciles it against the stored
// per-file state, and dispatches change notifications. The call is atomic
// from the caller's view: parse, state mutation, and all notifications
// complete before it returns.
//
// Scripts whose records violate their structural contracts are skipped and
// reported through the returned error; everything parseable is still
// processed.
func (e *Engine) ParseData(text string) error {
	if e.parsing {
		return ErrReentrantParse
	}
	e.parsing = true
	defer func() { e.parsing = false }()

	sid := uuid.New().String()
	scope.Debugf("parse %s: %d bytes of trace", sid, len(text))

	scripts, stats, perr := trace.Parse(text, e.remap, e.discard)

	parsesTotal.Increment()
	scriptsTotal.Record(float64(len(scripts)))
	mergedTotal.Record(float64(stats.Merged))
	discardedTotal.Record(float64(stats.Discarded))

	for _, name := range e.reconcile(e.buildFiles(scripts)) {
		scope.Debugf("parse %s: updated %s", sid, name)
	}

	return perr
}

// buildFiles groups the parse's scripts into per-file line aggregates.
func (e *Engine) buildFiles(scripts []*trace.Script) map[string]*File {
	files := make(map[string]*File)

	for _, s := range scripts {
		f, ok := files[s.Filename]
		if !ok {
			f = NewFile(s.Filename)
			files[s.Filename] = f
		}

		for _, in := range s.Instructions {
			f.Line(in.Line).add(in)
		}

		if n := len(s.Instructions); n > 0 {
			f.Line(s.Instructions[0].Line).StartFunc = true
			f.Line(s.Instructions[n-1].Line).EndFunc = true
		}
	}

	return files
}

// reconcile diffs each freshly-built file against the stored snapshot,
// mutates the stored state in place, and emits events. It returns the
// filenames that produced at least one event, in processing order.
func (e *Engine) reconcile(files map[string]*File) []string {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	var changed []string
	for _, name := range names {
		snap := snapshotFile(files[name])

		old, ok := e.files[name]
		if !ok {
			e.files[name] = snap
			e.emitNewScript(name, snap)
			changed = append(changed, name)
			continue
		}

		if e.reconcileFile(name, old, snap) {
			changed = append(changed, name)
		}
	}
	return changed
}

func (e *Engine) reconcileFile(name string, old, snap *FileSnapshot) bool {
	emitted := false

	for idx, ln := range snap.Lines {
		if ln == nil {
			continue
		}

		if idx >= len(old.Lines) || old.Lines[idx] == nil {
			for idx >= len(old.Lines) {
				old.Lines = append(old.Lines, nil)
			}
			old.Lines[idx] = ln
			e.emitLineUpdate(name, idx+1, ln)
			emitted = true
			continue
		}

		if !old.Lines[idx].equal(ln) {
			old.Lines[idx] = ln
			e.emitLineUpdate(name, idx, ln)
			emitted = true
		}
	}

	// Totals always come from the accumulated snapshot, not from this
	// parse's file: a script can be reclaimed and vanish from later dumps
	// while its lines remain authoritative here.
	covered, partial, uncovered, dead := tally(old.Lines)
	if covered != old.Covered || partial != old.Partial ||
		uncovered != old.Uncovered || dead != old.Dead {
		old.Covered, old.Partial, old.Uncovered, old.Dead = covered, partial, uncovered, dead
		e.emitScriptUpdate(name, old)
		emitted = true
	}

	return emitted
}

func (e *Engine) emitNewScript(filename string, snap *FileSnapshot) {
	for _, o := range e.observers {
		eventsTotal.Increment()
		o.OnNewScript(filename, snap)
	}
}

func (e *Engine) emitScriptUpdate(filename string, snap *FileSnapshot) {
	for _, o := range e.observers {
		eventsTotal.Increment()
		o.OnScriptUpdate(filename, snap)
	}
}

func (e *Engine) emitLineUpdate(filename string, line int, data *LineSnapshot) {
	for _, o := range e.observers {
		eventsTotal.Increment()
		o.OnLineUpdate(filename, line, data)
	}
}
