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
	"sort"

	"github.com/gabevayner/spark-map/internal/aggregate"
	"github.com/gabevayner/spark-map/internal/findings"
)

// driverDetector flags stages where the driver, rather than the cluster,
// is the limiting factor: scheduling overhead or oversized results likely
// headed for a collect().
type driverDetector struct{}

func (driverDetector) Name() string { return "driver" }

func (driverDetector) Detect(m aggregate.ApplicationMetrics, t ThresholdConfig) []findings.Finding {
	var out []findings.Finding

	for _, stage := range m.Stages {
		if stage.NumTasks == 0 || stage.TaskDurationMaxMs == 0 || stage.DurationMs == 0 {
			continue
		}

		ratio := float64(stage.DurationMs) / float64(stage.TaskDurationMaxMs)
		if ratio > 5 && stage.DurationMs > t.MaxSchedulingDelayMs {
			out = append(out, findings.Finding{
				ID:       fmt.Sprintf("driver-scheduling-stage-%d", stage.StageID),
				Detector: "driver",
				Title:    fmt.Sprintf("Scheduling delay in stage %d", stage.StageID),
				Severity: findings.SeverityWarning,
				StageIDs: []int64{stage.StageID},
				Description: fmt.Sprintf(
					"Stage %d (%s) took %dms but the longest task was only %dms (ratio: %.1fx). "+
						"This suggests tasks weren't running in parallel, possibly due to insufficient "+
						"executors or driver scheduling delays.",
					stage.StageID, stage.StageName, stage.DurationMs, stage.TaskDurationMaxMs, ratio),
				Metrics: map[string]any{
					"stage_duration_ms":         stage.DurationMs,
					"max_task_duration_ms":      stage.TaskDurationMaxMs,
					"scheduling_overhead_ratio": round2(ratio),
					"num_tasks":                 stage.NumTasks,
					"num_executors":             m.NumExecutors,
				},
				MitigationTags: []findings.MitigationTag{
					findings.MitigationIncreaseParallelism,
					findings.MitigationCoalesce,
				},
				MitigationHint: "Consider adding more executors to increase parallelism, or reducing task count if executors are bottlenecked.",
			})
		}
	}

	if len(m.Stages) > 0 {
		ordered := make([]aggregate.StageMetrics, len(m.Stages))
		copy(ordered, m.Stages)
		sort.Slice(ordered, func(i, j int) bool { return ordered[i].StageID < ordered[j].StageID })

		start := 0
		if len(ordered) > 3 {
			start = len(ordered) - 3
		}

		for _, stage := range ordered[start:] {
			outputMB := float64(stage.OutputBytes) / mib
			if outputMB <= float64(t.MaxResultSizeMB) {
				continue
			}

			out = append(out, findings.Finding{
				ID:       fmt.Sprintf("driver-large-result-stage-%d", stage.StageID),
				Detector: "driver",
				Title:    fmt.Sprintf("Large result in stage %d", stage.StageID),
				Severity: findings.SeverityWarning,
				StageIDs: []int64{stage.StageID},
				Description: fmt.Sprintf(
					"Stage %d (%s) outputs %.1f MB. If this data is being collected to the driver, "+
						"it may cause memory pressure or OOM errors. Consider writing results to storage instead of collecting.",
					stage.StageID, stage.StageName, outputMB),
				Metrics: map[string]any{
					"output_bytes": stage.OutputBytes,
					"output_mb":    round2(outputMB),
				},
				MitigationTags: []findings.MitigationTag{
					findings.MitigationReduceCollect,
				},
				MitigationHint: "Avoid collect() on large datasets. Use .write() to save results to storage, or use .take(n) to limit collected rows.",
			})
		}
	}

	return out
}
