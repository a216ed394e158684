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

// Package explain defines the narrow plug-in surface an optional natural-
// language explainer implements. Explainers never detect problems and never
// see raw log bytes — only the structured summaries built here.
package explain

import "context"

// FindingSummary is the structured view of one finding an Explainer may
// turn into prose. It carries no raw metrics, only what a human reading
// the finding already sees.
type FindingSummary struct {
	ID             string
	Detector       string
	Title          string
	Severity       string
	StageIDs       []int64
	Description    string
	MitigationTags []string
	MitigationHint string
}

// AnalysisSummary is the structured view of a whole report an Explainer may
// condense into an overall narrative.
type AnalysisSummary struct {
	AppID      string
	AppName    string
	DurationMs int64
	NumStages  int64
	Findings   []FindingSummary
}

// Explainer turns structured summaries into human-readable prose. Failures
// are contained: an Explainer never returns an error, only a best-effort
// string (callers should treat an empty string as "no explanation").
type Explainer interface {
	Name() string
	ExplainFinding(ctx context.Context, summary FindingSummary) string
	Summarize(ctx context.Context, summary AnalysisSummary) string
}

// noneExplainer is the always-available, no-op adapter: it never produces
// text. Selecting it is how a caller opts out of explanation entirely.
type noneExplainer struct{}

func (noneExplainer) Name() string { return "none" }

func (noneExplainer) ExplainFinding(context.Context, FindingSummary) string { return "" }

func (noneExplainer) Summarize(context.Context, AnalysisSummary) string { return "" }

// Registry maps an adapter name to its constructor. Unknown or empty names
// resolve to the no-op adapter rather than failing construction.
type Registry struct {
	constructors map[string]func() Explainer
}

// NewRegistry returns a Registry pre-populated with the "none" adapter.
func NewRegistry() *Registry {
	r := &Registry{constructors: make(map[string]func() Explainer)}
	r.Register("none", func() Explainer { return noneExplainer{} })
	return r
}

// Register adds or replaces the constructor for name.
func (r *Registry) Register(name string, ctor func() Explainer) {
	r.constructors[name] = ctor
}

// Build returns the Explainer registered under name, or the "none" adapter
// if name is empty or unrecognized.
func (r *Registry) Build(name string) Explainer {
	if ctor, ok := r.constructors[name]; ok {
		return ctor()
	}
	return noneExplainer{}
}
