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

// Package monitoring provides a thin facade over OpenCensus measures and
// views. Callers create metrics once at package init and record to them
// without touching OpenCensus directly; any registered OpenCensus exporter
// picks the data up.
package monitoring

import (
	"context"

	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"

	"tracecov.dev/pkg/log"
)

// A Metric collects numerical observations.
type Metric interface {
	// Increment records a value of 1 for the current measure.
	Increment()

	// Record makes an observation of the provided value.
	Record(value float64)

	// Name returns the name value of a Metric.
	Name() string

	// Register configures the Metric for export. It must be called before
	// values are collected.
	Register() error
}

type float64Metric struct {
	measure *stats.Float64Measure
	view    *view.View
}

// NewSum creates a new Metric with an aggregation type of Sum. The
// reported value accumulates everything ever recorded.
func NewSum(name, description string) Metric {
	return newMetric(name, description, view.Sum())
}

// NewGauge creates a new Metric with an aggregation type of LastValue.
// Only the most recent observation is exported.
func NewGauge(name, description string) Metric {
	return newMetric(name, description, view.LastValue())
}

func newMetric(name, description string, aggregation *view.Aggregation) Metric {
	measure := stats.Float64(name, description, stats.UnitDimensionless)
	return &float64Metric{
		measure: measure,
		view: &view.View{
			Name:        name,
			Description: description,
			Measure:     measure,
			Aggregation: aggregation,
		},
	}
}

func (f *float64Metric) Increment() {
	f.Record(1)
}

func (f *float64Metric) Record(value float64) {
	stats.Record(context.Background(), f.measure.M(value))
}

func (f *float64Metric) Name() string {
	return f.measure.Name()
}

func (f *float64Metric) Register() error {
	return view.Register(f.view)
}

// MustRegister registers the given metrics, logging fatally on failure.
// Intended for use in package initialization.
func MustRegister(metrics ...Metric) {
	for _, m := range metrics {
		if err := m.Register(); err != nil {
			log.Fatalf("unable to register metric %q: %v", m.Name(), err)
		}
	}
}
