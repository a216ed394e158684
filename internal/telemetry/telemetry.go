// Copyright 2025 Esteban Alvarez. All Rights Reserved.
//
// Created: October 2025
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

// Package telemetry exposes parse-time counters as Prometheus metrics.
// Every counter is registered against a caller-supplied Registerer rather
// than the global default, so library use never forces a process-wide
// /metrics endpoint on a caller that doesn't want one.
package telemetry

import "github.com/prometheus/client_golang/prometheus"

// ParseCounters tracks per-run parse statistics: events of a recognized
// kind consumed, malformed lines skipped, unknown event kinds skipped, and
// distinct stages seen.
type ParseCounters struct {
	EventsTotal          prometheus.Counter
	MalformedLinesTotal  prometheus.Counter
	UnknownEventKindTotal prometheus.Counter
	StagesObservedTotal  prometheus.Counter
}

// NewParseCounters constructs and registers a ParseCounters against reg. reg
// must not be nil; callers that don't want metrics exported should pass a
// private prometheus.NewRegistry() rather than the package default.
func NewParseCounters(reg prometheus.Registerer) *ParseCounters {
	c := &ParseCounters{
		EventsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sparkmap_events_total",
			Help: "Total event-log lines decoded into an event of a recognized kind.",
		}),
		MalformedLinesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sparkmap_malformed_lines_total",
			Help: "Total event-log lines skipped for failing to decode as JSON.",
		}),
		UnknownEventKindTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sparkmap_unknown_event_kind_total",
			Help: "Total event-log lines skipped for carrying an unrecognized Event discriminator.",
		}),
		StagesObservedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sparkmap_stages_observed_total",
			Help: "Total distinct stage ids observed across all parses against this registry.",
		}),
	}

	reg.MustRegister(
		c.EventsTotal,
		c.MalformedLinesTotal,
		c.UnknownEventKindTotal,
		c.StagesObservedTotal,
	)
	return c
}
