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

// Package report holds the core-owned result envelope: metrics, findings,
// and the summary counts every rendering surface (text, JSON, or an
// external HTML/Markdown renderer) is built from.
package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gabevayner/spark-map/internal/aggregate"
	"github.com/gabevayner/spark-map/internal/findings"
)

// Report is the data contract between the core and every rendering surface.
// Constructing one never fails; it is a plain aggregation of values already
// computed by parsing and detection.
type Report struct {
	SourcePath        string                       `json:"source_path"`
	AnalysisTimestamp string                       `json:"analysis_timestamp"`
	Metrics           aggregate.ApplicationMetrics `json:"metrics"`
	Findings          *findings.Collection         `json:"-"`

	LLMSummary  string `json:"llm_summary,omitempty"`
	LLMProvider string `json:"llm_provider,omitempty"`
}

// New builds a Report from a completed parse and detection pass.
func New(sourcePath, analysisTimestamp string, metrics aggregate.ApplicationMetrics, findings *findings.Collection) *Report {
	return &Report{
		SourcePath:        sourcePath,
		AnalysisTimestamp: analysisTimestamp,
		Metrics:           metrics,
		Findings:          findings,
	}
}

// summaryCounts is the JSON-visible digest of Findings; Report.Findings
// itself is not embedded directly in the envelope because its insertion-
// ordered internals are not the canonical display order (SortedBySeverity
// is).
type summaryCounts struct {
	AppID        string `json:"app_id"`
	AppName      string `json:"app_name"`
	DurationMs   int64  `json:"duration_ms"`
	NumStages    int64  `json:"num_stages"`
	NumTasks     int64  `json:"num_tasks"`
	NumFindings  int    `json:"num_findings"`
	NumCritical  int    `json:"num_critical"`
	NumWarnings  int    `json:"num_warnings"`
}

type envelope struct {
	SourcePath        string                       `json:"source_path"`
	AnalysisTimestamp string                       `json:"analysis_timestamp"`
	Summary           summaryCounts                `json:"summary"`
	Findings          []findings.Finding           `json:"findings"`
	Metrics           aggregate.ApplicationMetrics `json:"metrics"`
	LLMSummary        string                       `json:"llm_summary,omitempty"`
	LLMProvider       string                       `json:"llm_provider,omitempty"`
}

// JSON encodes the full report envelope: metadata, summary counts, findings
// in canonical severity order, and the raw metrics.
func (r *Report) JSON() ([]byte, error) {
	e := envelope{
		SourcePath:        r.SourcePath,
		AnalysisTimestamp: r.AnalysisTimestamp,
		Summary: summaryCounts{
			AppID:       r.Metrics.AppID,
			AppName:     r.Metrics.AppName,
			DurationMs:  r.Metrics.TotalDurationMs,
			NumStages:   r.Metrics.NumStages,
			NumTasks:    r.Metrics.NumTasks,
			NumFindings: r.Findings.Len(),
			NumCritical: len(r.Findings.BySeverity(findings.SeverityCritical)),
			NumWarnings: len(r.Findings.BySeverity(findings.SeverityWarning)),
		},
		Findings:    r.Findings.SortedBySeverity(),
		Metrics:     r.Metrics,
		LLMSummary:  r.LLMSummary,
		LLMProvider: r.LLMProvider,
	}
	return json.MarshalIndent(e, "", "  ")
}

// Summary renders the same plain-text digest as the application it's a
// port of: app identity, duration, stage/task counts, and the top five
// findings by severity.
func (r *Report) Summary() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Spark Map Analysis: %s\n", r.SourcePath)
	b.WriteString(strings.Repeat("=", 50) + "\n\n")

	appLabel := r.Metrics.AppName
	if appLabel == "" {
		appLabel = r.Metrics.AppID
	}
	fmt.Fprintf(&b, "Application: %s\n", appLabel)
	fmt.Fprintf(&b, "Duration: %.1fs\n", float64(r.Metrics.TotalDurationMs)/1000)
	fmt.Fprintf(&b, "Stages: %d (%d failed)\n", r.Metrics.NumStages, r.Metrics.NumFailedStages)
	fmt.Fprintf(&b, "Tasks: %d (%d failed)\n\n", r.Metrics.NumTasks, r.Metrics.NumFailedTasks)

	critical := r.Findings.BySeverity(findings.SeverityCritical)
	warnings := r.Findings.BySeverity(findings.SeverityWarning)
	info := r.Findings.BySeverity(findings.SeverityInfo)

	fmt.Fprintf(&b, "Findings: %d total\n", r.Findings.Len())
	fmt.Fprintf(&b, "  Critical: %d\n", len(critical))
	fmt.Fprintf(&b, "  Warnings: %d\n", len(warnings))
	fmt.Fprintf(&b, "  Info: %d\n\n", len(info))

	if r.Findings.Len() > 0 {
		b.WriteString("Top Issues:\n")
		b.WriteString(strings.Repeat("-", 30) + "\n")

		sorted := r.Findings.SortedBySeverity()
		if len(sorted) > 5 {
			sorted = sorted[:5]
		}
		for _, f := range sorted {
			fmt.Fprintf(&b, "  [%s] %s\n", f.Severity, f.Title)
			if len(f.StageIDs) > 0 {
				fmt.Fprintf(&b, "    Stages: %v\n", f.StageIDs)
			}
			desc := f.Description
			if len(desc) > 100 {
				desc = desc[:100]
			}
			fmt.Fprintf(&b, "    %s...\n\n", desc)
		}
	}

	if r.LLMSummary != "" {
		b.WriteString("\nAI Summary:\n")
		b.WriteString(strings.Repeat("-", 30) + "\n")
		b.WriteString(r.LLMSummary + "\n")
	}

	return b.String()
}

// FindingsForExplain returns the report's findings sorted by severity, as
// findings.Finding values (not the explain.FindingSummary values an
// explain.Explainer takes).
func (r *Report) FindingsForExplain() []findings.Finding {
	return r.Findings.SortedBySeverity()
}
