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

// Package findings holds the detected-bottleneck value type shared by every
// detector and the final report.
package findings

import "sort"

// Severity ranks how serious a finding is. The zero value "" is not one of
// the defined severities; nothing rejects it, and SortedBySeverity ranks it
// alongside critical.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// severityRank orders severities for sorting, critical first.
var severityRank = map[Severity]int{
	SeverityCritical: 0,
	SeverityWarning:  1,
	SeverityInfo:     2,
}

// MitigationTag is one of a closed vocabulary of suggested remediations, so
// downstream tooling (dashboards, the optional LLM explainer) can group
// findings by remedy without parsing free text.
type MitigationTag string

const (
	MitigationRepartition         MitigationTag = "repartition"
	MitigationCoalesce            MitigationTag = "coalesce"
	MitigationBroadcastJoin       MitigationTag = "broadcast-join"
	MitigationIncreaseMemory      MitigationTag = "increase-memory"
	MitigationIncreaseParallelism MitigationTag = "increase-parallelism"
	MitigationReduceParallelism   MitigationTag = "reduce-parallelism"
	MitigationEnableAQE           MitigationTag = "enable-aqe"
	MitigationCacheData           MitigationTag = "cache-data"
	MitigationFilterEarly         MitigationTag = "filter-early"
	MitigationSalting             MitigationTag = "salting"
	MitigationOptimizeShuffle     MitigationTag = "optimize-shuffle"
	MitigationCheckDataSource     MitigationTag = "check-data-source"
	MitigationReduceCollect       MitigationTag = "reduce-collect"
)

// Finding is a single detected performance issue with supporting evidence.
type Finding struct {
	ID       string   `json:"id"`
	Detector string   `json:"detector"`
	Title    string   `json:"title"`
	Severity Severity `json:"severity"`
	StageIDs []int64  `json:"stage_ids"`

	Description string         `json:"description"`
	Metrics     map[string]any `json:"metrics,omitempty"`

	MitigationTags []MitigationTag `json:"mitigation_tags,omitempty"`
	MitigationHint string          `json:"mitigation_hint,omitempty"`

	// Explanation is filled in by an internal/explain.Explainer after
	// detection; empty when no explainer ran or the explainer declined.
	Explanation string `json:"explanation,omitempty"`
}

// HasStage reports whether id is among the stages this finding affects.
func (f Finding) HasStage(id int64) bool {
	for _, s := range f.StageIDs {
		if s == id {
			return true
		}
	}
	return false
}

// Collection accumulates findings across every detector run and answers the
// grouping queries the report and the CLI summary need.
type Collection struct {
	items []Finding
}

// NewCollection returns an empty Collection ready to Add to.
func NewCollection() *Collection {
	return &Collection{}
}

// Add appends a finding.
func (c *Collection) Add(f Finding) {
	c.items = append(c.items, f)
}

// All returns every finding in detection order.
func (c *Collection) All() []Finding {
	return c.items
}

// Len reports the number of findings collected.
func (c *Collection) Len() int {
	return len(c.items)
}

// BySeverity returns findings at exactly the given severity.
func (c *Collection) BySeverity(s Severity) []Finding {
	var out []Finding
	for _, f := range c.items {
		if f.Severity == s {
			out = append(out, f)
		}
	}
	return out
}

// ByDetector returns findings produced by the named detector.
func (c *Collection) ByDetector(name string) []Finding {
	var out []Finding
	for _, f := range c.items {
		if f.Detector == name {
			out = append(out, f)
		}
	}
	return out
}

// ByStage returns findings that name stageID among their affected stages.
func (c *Collection) ByStage(stageID int64) []Finding {
	var out []Finding
	for _, f := range c.items {
		if f.HasStage(stageID) {
			out = append(out, f)
		}
	}
	return out
}

// SortedBySeverity returns a copy of the findings ordered critical, warning,
// then info, preserving detection order within each severity.
func (c *Collection) SortedBySeverity() []Finding {
	out := make([]Finding, len(c.items))
	copy(out, c.items)

	sort.SliceStable(out, func(i, j int) bool {
		return severityRank[out[i].Severity] < severityRank[out[j].Severity]
	})
	return out
}
