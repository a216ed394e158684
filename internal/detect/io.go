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

// ioDetector flags stages whose per-task data volume is large enough that
// reading it, rather than computing on it, likely dominates the stage.
type ioDetector struct{}

func (ioDetector) Name() string { return "io" }

func (ioDetector) Detect(m aggregate.ApplicationMetrics, t ThresholdConfig) []findings.Finding {
	var out []findings.Finding

	for _, stage := range m.Stages {
		if stage.DurationMs == 0 {
			continue
		}

		if stage.ShuffleReadBytes > 0 {
			shufflePerTaskMB := perTaskMB(stage.ShuffleReadBytes, stage.NumTasks)
			if shufflePerTaskMB > 100 && stage.TaskDurationMedianMs > 10000 {
				out = append(out, findings.Finding{
					ID:       fmt.Sprintf("io-shuffle-stage-%d", stage.StageID),
					Detector: "io",
					Title:    fmt.Sprintf("Shuffle-bound stage %d", stage.StageID),
					Severity: findings.SeverityWarning,
					StageIDs: []int64{stage.StageID},
					Description: fmt.Sprintf(
						"Stage %d (%s) reads %.1f MB shuffle data per task on average. "+
							"High shuffle read volume can cause network I/O bottlenecks.",
						stage.StageID, stage.StageName, shufflePerTaskMB),
					Metrics: map[string]any{
						"shuffle_read_bytes":      stage.ShuffleReadBytes,
						"shuffle_per_task_mb":     round2(shufflePerTaskMB),
						"num_tasks":               stage.NumTasks,
						"median_task_duration_ms": stage.TaskDurationMedianMs,
					},
					MitigationTags: []findings.MitigationTag{
						findings.MitigationBroadcastJoin,
						findings.MitigationOptimizeShuffle,
						findings.MitigationEnableAQE,
					},
					MitigationHint: "Consider broadcasting smaller tables to avoid shuffle, or using more partitions to reduce per-task shuffle size.",
				})
			}
		}

		if stage.InputBytes > 0 {
			inputPerTaskMB := perTaskMB(stage.InputBytes, stage.NumTasks)
			if inputPerTaskMB > 500 && stage.TaskDurationMedianMs > 30000 {
				out = append(out, findings.Finding{
					ID:       fmt.Sprintf("io-input-stage-%d", stage.StageID),
					Detector: "io",
					Title:    fmt.Sprintf("Input I/O bottleneck in stage %d", stage.StageID),
					Severity: findings.SeverityInfo,
					StageIDs: []int64{stage.StageID},
					Description: fmt.Sprintf(
						"Stage %d (%s) reads %.1f MB input data per task. "+
							"Large input per task may indicate I/O-bound processing.",
						stage.StageID, stage.StageName, inputPerTaskMB),
					Metrics: map[string]any{
						"input_bytes":        stage.InputBytes,
						"input_per_task_mb":  round2(inputPerTaskMB),
						"num_tasks":          stage.NumTasks,
					},
					MitigationTags: []findings.MitigationTag{
						findings.MitigationRepartition,
						findings.MitigationCheckDataSource,
						findings.MitigationFilterEarly,
					},
					MitigationHint: "Consider repartitioning input data, using predicate pushdown, or filtering earlier in the pipeline.",
				})
			}
		}
	}

	return out
}

func perTaskMB(totalBytes, numTasks int64) float64 {
	if numTasks == 0 {
		return 0
	}
	return float64(totalBytes) / float64(numTasks) / mib
}
