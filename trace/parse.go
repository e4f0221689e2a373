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

package trace

import (
	"github.com/hashicorp/go-multierror"

	"tracecov.dev/pkg/log"
)

var scope = log.RegisterScope("trace", "Trace tokenizing and script building", 0)

// Stats counts what one parse pass saw.
type Stats struct {
	// Records is the number of record blocks handed to the builder.
	Records int

	// Discarded is the number of bootstrap/eval placeholder records dropped.
	Discarded int

	// Merged is the number of records folded into an already-seen script.
	Merged int

	// Dropped is the number of records abandoned because their control flow
	// referenced addresses outside the record.
	Dropped int
}

// Session accumulates the scripts of one trace dump, deduplicating repeated
// dumps of the same function body by structural signature and merging their
// execution counts.
type Session struct {
	remap   Remap
	discard []string

	scripts []*Script
	bySig   map[uint64]*Script

	stats Stats
}

// NewSession returns an empty parse session. A nil discard list selects
// DefaultDiscardHeaders.
func NewSession(remap Remap, discard []string) *Session {
	if discard == nil {
		discard = DefaultDiscardHeaders
	}
	return &Session{
		remap:   remap,
		discard: discard,
		bySig:   make(map[uint64]*Script),
	}
}

// Feed parses one record block into the session. Duplicate scripts merge
// into their first-seen instance; reachability analysis runs only for
// newly-seen scripts since a structural duplicate has identical flow.
func (ss *Session) Feed(block []string) error {
	if discarded(block, ss.discard) {
		ss.stats.Discarded++
		scope.Debugf("discarding placeholder record %q", block[0])
		return nil
	}
	ss.stats.Records++

	s := BuildScript(block, ss.remap)

	key := s.SignatureKey()
	if seen, ok := ss.bySig[key]; ok {
		ss.stats.Merged++
		scope.Debugf("merging repeated dump of %s", s.Name)
		return seen.mergeCounts(s)
	}

	if err := s.Analyze(); err != nil {
		ss.stats.Dropped++
		return err
	}

	ss.bySig[key] = s
	ss.scripts = append(ss.scripts, s)
	return nil
}

// Scripts returns the deduplicated scripts in first-seen order.
func (ss *Session) Scripts() []*Script {
	return ss.scripts
}

// Stats returns the session's counters.
func (ss *Session) Stats() Stats {
	return ss.stats
}

// Parse tokenizes a full trace dump and builds its deduplicated scripts.
// Records that fail their programmer contracts (unresolvable branch
// targets, mismatched merges) are skipped; their errors accumulate into the
// returned error while healthy scripts are still returned.
func Parse(text string, remap Remap, discard []string) ([]*Script, Stats, error) {
	ss := NewSession(remap, discard)

	var errs *multierror.Error
	Tokenize(text, func(block []string) {
		if err := ss.Feed(block); err != nil {
			scope.Warnf("skipping record: %v", err)
			errs = multierror.Append(errs, err)
		}
	})

	return ss.Scripts(), ss.Stats(), errs.ErrorOrNil()
}
