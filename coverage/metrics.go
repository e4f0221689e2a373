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
	"tracecov.dev/pkg/monitoring"
)

var (
	parsesTotal = monitoring.NewSum(
		"tracecov_parses_total",
		"Number of trace dumps parsed.")

	scriptsTotal = monitoring.NewSum(
		"tracecov_scripts_total",
		"Number of distinct scripts built from trace records.")

	mergedTotal = monitoring.NewSum(
		"tracecov_scripts_merged_total",
		"Number of repeated script dumps merged into an existing script.")

	discardedTotal = monitoring.NewSum(
		"tracecov_records_discarded_total",
		"Number of placeholder trace records discarded.")

	eventsTotal = monitoring.NewSum(
		"tracecov_events_total",
		"Number of observer notifications dispatched.")
)

func init() {
	monitoring.MustRegister(parsesTotal, scriptsTotal, mergedTotal, discardedTotal, eventsTotal)
}
