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

// Package sparkmap turns a completed event log into a bottleneck report:
// parse, aggregate, detect, and assemble the result envelope.
package sparkmap

import (
	"context"
	"math/rand"

	"github.com/gabevayner/spark-map/eventlog"
	"github.com/gabevayner/spark-map/internal/aggregate"
	"github.com/gabevayner/spark-map/internal/detect"
	"github.com/gabevayner/spark-map/internal/explain"
	"github.com/gabevayner/spark-map/internal/obslog"
	"github.com/gabevayner/spark-map/internal/report"
	"github.com/gabevayner/spark-map/internal/telemetry"
)

// Options configures a single analysis run. The zero value is usable:
// default thresholds, an RNG seeded with 1, a discard logger, no counters,
// and no explainer.
type Options struct {
	Thresholds       detect.ThresholdConfig
	RNG              *rand.Rand
	ReservoirCap     int
	Logger           obslog.Logger
	Counters         *telemetry.ParseCounters
	Explainer        explain.Explainer
	AnalysisTimestamp string
}

// Analyze parses the event log at path, runs every registered detector, and
// returns the resulting report. It never returns an error for content
// problems in the log (those are silent per the event reader's contract)
// — only for the log file itself being unreadable, or for ctx being
// cancelled during the scan.
func Analyze(ctx context.Context, path string, opts Options) (*report.Report, error) {
	if opts.Logger == nil {
		opts.Logger = obslog.Discard{}
	}
	if opts.RNG == nil {
		opts.RNG = rand.New(rand.NewSource(1))
	}
	if opts.Thresholds == (detect.ThresholdConfig{}) {
		opts.Thresholds = detect.DefaultThresholds()
	}
	if opts.Explainer == nil {
		opts.Explainer = explain.NewRegistry().Build("none")
	}

	reader, err := eventlog.Open(path)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	table := aggregate.NewTable(opts.RNG, opts.ReservoirCap)
	for reader.Next() {
		ev := reader.Event()
		table.Observe(ev)
		if opts.Counters != nil {
			opts.Counters.EventsTotal.Inc()
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
	}
	if err := reader.Err(); err != nil {
		return nil, err
	}

	stats := reader.Stats()
	if opts.Counters != nil {
		opts.Counters.MalformedLinesTotal.Add(float64(stats.MalformedLines))
		opts.Counters.UnknownEventKindTotal.Add(float64(stats.UnknownKind))
	}
	opts.Logger.WithFields(map[string]any{
		"malformed_lines": stats.MalformedLines,
		"unknown_kind":    stats.UnknownKind,
	}).Debug("event log scan complete")

	metrics := table.Freeze()
	if opts.Counters != nil {
		opts.Counters.StagesObservedTotal.Add(float64(metrics.NumStages))
	}

	findingsColl := detect.Run(metrics, opts.Thresholds)

	r := report.New(path, opts.AnalysisTimestamp, metrics, findingsColl)

	addExplanations(ctx, r, opts.Explainer)

	return r, nil
}

// addExplanations runs the configured explainer over every finding and,
// when there is at least one finding, over the overall report. It skips
// silently when the explainer is the no-op adapter (its calls always return
// an empty string anyway).
func addExplanations(ctx context.Context, r *report.Report, explainer explain.Explainer) {
	if explainer.Name() == "none" {
		return
	}

	all := r.Findings.All()
	for i, f := range all {
		summary := explain.FindingSummary{
			ID:             f.ID,
			Detector:       f.Detector,
			Title:          f.Title,
			Severity:       string(f.Severity),
			StageIDs:       f.StageIDs,
			Description:    f.Description,
			MitigationHint: f.MitigationHint,
		}
		for _, tag := range f.MitigationTags {
			summary.MitigationTags = append(summary.MitigationTags, string(tag))
		}
		all[i].Explanation = explainer.ExplainFinding(ctx, summary)
	}

	if len(all) == 0 {
		return
	}

	analysisSummary := explain.AnalysisSummary{
		AppID:      r.Metrics.AppID,
		AppName:    r.Metrics.AppName,
		DurationMs: r.Metrics.TotalDurationMs,
	}
	r.LLMSummary = explainer.Summarize(ctx, analysisSummary)
	r.LLMProvider = explainer.Name()
}
