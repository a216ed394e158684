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

package detect

import (
	"fmt"

	"github.com/gabevayner/spark-map/internal/aggregate"
	"github.com/gabevayner/spark-map/internal/findings"
)

// skewDetector flags stages where the slowest task dwarfs the typical one,
// the signature of uneven partitioning or hot keys.
type skewDetector struct{}

func (skewDetector) Name() string { return "skew" }

func (skewDetector) Detect(m aggregate.ApplicationMetrics, t ThresholdConfig) []findings.Finding {
	var out []findings.Finding

	for _, stage := range m.Stages {
		if stage.NumTasks < 10 || stage.TaskDurationMedianMs == 0 {
			continue
		}

		ratio := float64(stage.TaskDurationMaxMs) / float64(stage.TaskDurationMedianMs)
		if ratio < t.SkewRatio {
			continue
		}

		severity := findings.SeverityWarning
		if ratio > t.SkewRatio*2 {
			severity = findings.SeverityCritical
		}

		out = append(out, findings.Finding{
			ID:       fmt.Sprintf("skew-stage-%d", stage.StageID),
			Detector: "skew",
			Title:    fmt.Sprintf("Data skew detected in stage %d", stage.StageID),
			Severity: severity,
			StageIDs: []int64{stage.StageID},
			Description: fmt.Sprintf(
				"Stage %d (%s) has significant task duration skew. Max task took %dms while median was %dms "+
					"(ratio: %.1fx). This typically indicates data skew where some partitions have much more data than others.",
				stage.StageID, stage.StageName, stage.TaskDurationMaxMs, stage.TaskDurationMedianMs, ratio),
			Metrics: map[string]any{
				"max_task_duration_ms":    stage.TaskDurationMaxMs,
				"median_task_duration_ms": stage.TaskDurationMedianMs,
				"p90_task_duration_ms":    stage.TaskDurationP90Ms,
				"p99_task_duration_ms":    stage.TaskDurationP99Ms,
				"skew_ratio":              round2(ratio),
				"num_tasks":               stage.NumTasks,
			},
			MitigationTags: []findings.MitigationTag{
				findings.MitigationSalting,
				findings.MitigationRepartition,
				findings.MitigationBroadcastJoin,
			},
			MitigationHint: "Consider salting skewed keys, repartitioning data, or using broadcast joins for small tables.",
		})
	}

	return out
}
