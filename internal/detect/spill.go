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

// spillDetector flags memory pressure surfaced as disk spill, per stage and
// application-wide.
type spillDetector struct{}

func (spillDetector) Name() string { return "spill" }

func (spillDetector) Detect(m aggregate.ApplicationMetrics, t ThresholdConfig) []findings.Finding {
	var out []findings.Finding
	minSpillMB := float64(t.MinSpillMB)

	for _, stage := range m.Stages {
		diskSpillMB := float64(stage.DiskBytesSpilled) / mib
		if diskSpillMB < minSpillMB {
			continue
		}

		severity := findings.SeverityInfo
		switch {
		case diskSpillMB > minSpillMB*10:
			severity = findings.SeverityCritical
		case diskSpillMB > minSpillMB*3:
			severity = findings.SeverityWarning
		}

		out = append(out, findings.Finding{
			ID:       fmt.Sprintf("spill-stage-%d", stage.StageID),
			Detector: "spill",
			Title:    fmt.Sprintf("Disk spill in stage %d", stage.StageID),
			Severity: severity,
			StageIDs: []int64{stage.StageID},
			Description: fmt.Sprintf(
				"Stage %d (%s) spilled %.1f MB to disk. Memory spill was %.1f MB. "+
					"This indicates memory pressure and can significantly slow down execution.",
				stage.StageID, stage.StageName, diskSpillMB, float64(stage.MemoryBytesSpilled)/mib),
			Metrics: map[string]any{
				"disk_bytes_spilled":   stage.DiskBytesSpilled,
				"memory_bytes_spilled": stage.MemoryBytesSpilled,
				"disk_spill_mb":        round2(diskSpillMB),
			},
			MitigationTags: []findings.MitigationTag{
				findings.MitigationIncreaseMemory,
				findings.MitigationRepartition,
				findings.MitigationReduceParallelism,
			},
			MitigationHint: "Consider increasing executor memory (spark.executor.memory), reducing partition count, or increasing spark.memory.fraction.",
		})
	}

	totalSpillMB := float64(m.TotalDiskBytesSpilled) / mib
	if totalSpillMB >= minSpillMB*5 {
		var stagesWithSpill []int64
		for _, stage := range m.Stages {
			if stage.DiskBytesSpilled > 0 {
				stagesWithSpill = append(stagesWithSpill, stage.StageID)
			}
		}

		out = append(out, findings.Finding{
			ID:       "spill-total",
			Detector: "spill",
			Title:    "High total disk spill across application",
			Severity: findings.SeverityWarning,
			StageIDs: stagesWithSpill,
			Description: fmt.Sprintf(
				"Application spilled %.1f MB to disk in total across all stages. "+
					"This represents significant memory pressure that's impacting performance.",
				totalSpillMB),
			Metrics: map[string]any{
				"total_disk_spill_mb": round2(totalSpillMB),
				"stages_with_spill":   len(stagesWithSpill),
			},
			MitigationTags: []findings.MitigationTag{
				findings.MitigationIncreaseMemory,
				findings.MitigationEnableAQE,
			},
			MitigationHint: "Consider increasing cluster memory or enabling Adaptive Query Execution (AQE) to dynamically optimize execution.",
		})
	}

	return out
}
