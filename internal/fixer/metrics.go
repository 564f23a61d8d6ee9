// Copyright (c) 2026 Sidero Labs, Inc.
//
// Use of this software is governed by the Business Source License
// included in the LICENSE file.

package fixer

import prom "github.com/prometheus/client_golang/prometheus"

const (
	labelAction = "action"
	labelStatus = "status"

	statusSuccess = "success"
	statusError   = "error"
)

type metrics struct {
	files            *prom.CounterVec
	runs             *prom.CounterVec
	lastRunDuration  prom.Gauge
	lastRunTimestamp prom.Gauge
}

func newMetrics() *metrics {
	return &metrics{
		files: prom.NewCounterVec(prom.CounterOpts{
			Name: "peerfix_files_total",
			Help: "The total number of processed peer files by outcome.",
		}, []string{labelAction}),
		runs: prom.NewCounterVec(prom.CounterOpts{
			Name: "peerfix_runs_total",
			Help: "The total number of runs over the peer directory.",
		}, []string{labelStatus}),
		lastRunDuration: prom.NewGauge(prom.GaugeOpts{
			Name: "peerfix_last_run_duration_seconds",
			Help: "The duration of the last successful run in seconds.",
		}),
		lastRunTimestamp: prom.NewGauge(prom.GaugeOpts{
			Name: "peerfix_last_run_timestamp_seconds",
			Help: "The start time of the last successful run as a unix timestamp.",
		}),
	}
}

// Describe implements prometheus.Collector interface.
func (fixer *Fixer) Describe(descs chan<- *prom.Desc) {
	fixer.metrics.files.Describe(descs)
	fixer.metrics.runs.Describe(descs)
	fixer.metrics.lastRunDuration.Describe(descs)
	fixer.metrics.lastRunTimestamp.Describe(descs)
}

// Collect implements prometheus.Collector interface.
func (fixer *Fixer) Collect(metrics chan<- prom.Metric) {
	fixer.metrics.files.Collect(metrics)
	fixer.metrics.runs.Collect(metrics)
	fixer.metrics.lastRunDuration.Collect(metrics)
	fixer.metrics.lastRunTimestamp.Collect(metrics)
}
