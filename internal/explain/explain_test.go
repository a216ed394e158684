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

package explain

import (
	"context"
	"testing"
)

func TestRegistryDefaultsToNone(t *testing.T) {
	r := NewRegistry()
	e := r.Build("anything-unregistered")
	if e.Name() != "none" {
		t.Fatalf("unregistered name should fall back to the none adapter, got %s", e.Name())
	}
	if got := e.ExplainFinding(context.Background(), FindingSummary{}); got != "" {
		t.Fatalf("none adapter should never produce text, got %q", got)
	}
	if got := e.Summarize(context.Background(), AnalysisSummary{}); got != "" {
		t.Fatalf("none adapter should never produce text, got %q", got)
	}
}

type stubExplainer struct{}

func (stubExplainer) Name() string { return "stub" }
func (stubExplainer) ExplainFinding(context.Context, FindingSummary) string {
	return "explained"
}
func (stubExplainer) Summarize(context.Context, AnalysisSummary) string {
	return "summarized"
}

func TestRegistryBuildsRegisteredAdapter(t *testing.T) {
	r := NewRegistry()
	r.Register("stub", func() Explainer { return stubExplainer{} })

	e := r.Build("stub")
	if e.Name() != "stub" {
		t.Fatalf("Build(\"stub\") = %s", e.Name())
	}
	if got := e.ExplainFinding(context.Background(), FindingSummary{}); got != "explained" {
		t.Fatalf("ExplainFinding = %q", got)
	}
}
