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

// partitionDetector flags stages with too many partitions (scheduling
// overhead dominates actual work) or, more tentatively, too few.
type partitionDetector struct{}

func (partitionDetector) Name() string { return "partition" }

func (partitionDetector) Detect(m aggregate.ApplicationMetrics, t ThresholdConfig) []findings.Finding {
	var out []findings.Finding

	for _, stage := range m.Stages {
		if stage.NumTasks >= t.MinTasksForInefficiency && stage.TaskDurationMedianMs <= t.MaxTaskRuntimeMsForInefficiency {
			overhead := stage.NumTasks * stage.TaskDurationMedianMs
			target := stage.NumTasks / 10
			if target < 1 {
				target = 1
			}

			out = append(out, findings.Finding{
				ID:       fmt.Sprintf("partition-inefficiency-stage-%d", stage.StageID),
				Detector: "partition",
				Title:    fmt.Sprintf("Too many partitions in stage %d", stage.StageID),
				Severity: findings.SeverityWarning,
				StageIDs: []int64{stage.StageID},
				Description: fmt.Sprintf(
					"Stage %d (%s) has %d tasks with median runtime of only %dms. "+
						"Tasks this short spend more time in scheduling overhead than actual work. "+
						"Consider using coalesce() to reduce partition count.",
					stage.StageID, stage.StageName, stage.NumTasks, stage.TaskDurationMedianMs),
				Metrics: map[string]any{
					"num_tasks":               stage.NumTasks,
					"median_task_duration_ms": stage.TaskDurationMedianMs,
					"min_task_duration_ms":    stage.TaskDurationMinMs,
					"overhead_indicator":      overhead,
				},
				MitigationTags: []findings.MitigationTag{
					findings.MitigationCoalesce,
					findings.MitigationReduceParallelism,
				},
				MitigationHint: fmt.Sprintf(
					"Use .coalesce(%d) to reduce partitions, or set spark.sql.shuffle.partitions to a lower value.", target),
			})
		}

		if stage.NumTasks < 10 && stage.TaskDurationMedianMs > 60000 {
			target := m.NumExecutors * 2

			out = append(out, findings.Finding{
				ID:       fmt.Sprintf("under-partitioned-stage-%d", stage.StageID),
				Detector: "partition",
				Title:    fmt.Sprintf("Potentially under-partitioned stage %d", stage.StageID),
				Severity: findings.SeverityInfo,
				StageIDs: []int64{stage.StageID},
				Description: fmt.Sprintf(
					"Stage %d (%s) has only %d tasks with median runtime of %.1fs. "+
						"If you have more executors available, increasing partitions could improve parallelism.",
					stage.StageID, stage.StageName, stage.NumTasks, float64(stage.TaskDurationMedianMs)/1000),
				Metrics: map[string]any{
					"num_tasks":               stage.NumTasks,
					"median_task_duration_ms": stage.TaskDurationMedianMs,
					"num_executors":           m.NumExecutors,
				},
				MitigationTags: []findings.MitigationTag{
					findings.MitigationRepartition,
					findings.MitigationIncreaseParallelism,
				},
				MitigationHint: fmt.Sprintf("Consider using .repartition(%d) to increase parallelism.", target),
			})
		}
	}

	return out
}
