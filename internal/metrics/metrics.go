// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "schoolmatch"

// Applicant outcomes.
const (
	OutcomeAssigned   = "assigned"
	OutcomeUnassigned = "unassigned"
	OutcomeExcluded   = "excluded"
)

// Registry holds the schoolmatch metrics, apart from the default registry.
var Registry = prometheus.NewRegistry()

var (
	runsCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Count of allocation runs.",
		},
	)
	abortedRunsCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "aborted_runs_total",
			Help:      "Count of allocation runs aborted before allocating.",
		},
	)
	applicantsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "applicants_total",
			Help:      "Count of applicants by outcome.",
		},
		[]string{"outcome"},
	)
	seatsGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "seats_total",
			Help:      "Vacancies offered in the last run.",
		},
	)
	seatsRemainingGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "seats_remaining",
			Help:      "Vacancies left after the last run.",
		},
	)
)

var registerMetrics sync.Once

// Register all metrics.
func Register() {
	registerMetrics.Do(func() {
		Registry.MustRegister(runsCounter)
		Registry.MustRegister(abortedRunsCounter)
		Registry.MustRegister(applicantsCounter)
		Registry.MustRegister(seatsGauge)
		Registry.MustRegister(seatsRemainingGauge)
	})
}

// RecordRun records a completed run.
func RecordRun(assigned, unassigned, excluded, seats, remaining int) {
	runsCounter.Inc()
	applicantsCounter.WithLabelValues(OutcomeAssigned).Add(float64(assigned))
	applicantsCounter.WithLabelValues(OutcomeUnassigned).Add(float64(unassigned))
	applicantsCounter.WithLabelValues(OutcomeExcluded).Add(float64(excluded))
	seatsGauge.Set(float64(seats))
	seatsRemainingGauge.Set(float64(remaining))
}

// RecordAbortedRun records a run that stopped before allocating.
func RecordAbortedRun() {
	abortedRunsCounter.Inc()
}

// WriteTextfile writes the registry in the text exposition format, for the
// node exporter textfile collector.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, Registry)
}
