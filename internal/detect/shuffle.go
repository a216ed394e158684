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

// shuffleDetector flags stages (and the application as a whole) where
// shuffle volume is disproportionate to input size, the signature of an
// exploding join or an inefficient aggregation.
type shuffleDetector struct{}

func (shuffleDetector) Name() string { return "shuffle" }

func (shuffleDetector) Detect(m aggregate.ApplicationMetrics, t ThresholdConfig) []findings.Finding {
	var out []findings.Finding

	for _, stage := range m.Stages {
		if stage.InputBytes == 0 || stage.ShuffleWriteBytes == 0 {
			continue
		}

		ratio := float64(stage.ShuffleWriteBytes) / float64(stage.InputBytes)
		if ratio < t.ShuffleExplosionRatio {
			continue
		}

		severity := findings.SeverityWarning
		if ratio > t.ShuffleExplosionRatio*2 {
			severity = findings.SeverityCritical
		}

		out = append(out, findings.Finding{
			ID:       fmt.Sprintf("shuffle-explosion-stage-%d", stage.StageID),
			Detector: "shuffle",
			Title:    fmt.Sprintf("Shuffle explosion in stage %d", stage.StageID),
			Severity: severity,
			StageIDs: []int64{stage.StageID},
			Description: fmt.Sprintf(
				"Stage %d (%s) wrote %s to shuffle while reading only %s input (ratio: %.1fx). "+
					"This often indicates an exploding join or inefficient aggregation.",
				stage.StageID, stage.StageName, formatBytes(stage.ShuffleWriteBytes), formatBytes(stage.InputBytes), ratio),
			Metrics: map[string]any{
				"input_bytes":         stage.InputBytes,
				"shuffle_write_bytes": stage.ShuffleWriteBytes,
				"explosion_ratio":     round2(ratio),
			},
			MitigationTags: []findings.MitigationTag{
				findings.MitigationBroadcastJoin,
				findings.MitigationFilterEarly,
				findings.MitigationOptimizeShuffle,
			},
			MitigationHint: "Consider using broadcast joins for small tables, filtering data earlier in the pipeline, or reviewing join conditions.",
		})
	}

	if m.TotalInputBytes > 0 {
		totalShuffle := m.TotalShuffleReadBytes + m.TotalShuffleWriteBytes
		totalRatio := float64(totalShuffle) / float64(m.TotalInputBytes)

		if totalRatio >= t.ShuffleExplosionRatio*2 {
			out = append(out, findings.Finding{
				ID:       "shuffle-explosion-global",
				Detector: "shuffle",
				Title:    "High overall shuffle volume",
				Severity: findings.SeverityWarning,
				StageIDs: nil,
				Description: fmt.Sprintf(
					"Application shuffled %s total while input was %s (ratio: %.1fx). "+
						"This may indicate multiple expensive shuffles.",
					formatBytes(totalShuffle), formatBytes(m.TotalInputBytes), totalRatio),
				Metrics: map[string]any{
					"total_input_bytes":   m.TotalInputBytes,
					"total_shuffle_bytes": totalShuffle,
					"shuffle_ratio":       round2(totalRatio),
				},
				MitigationTags: []findings.MitigationTag{
					findings.MitigationCacheData,
					findings.MitigationOptimizeShuffle,
					findings.MitigationEnableAQE,
				},
				MitigationHint: "Consider caching intermediate results, enabling AQE, or restructuring the query to reduce shuffles.",
			})
		}
	}

	return out
}

// formatBytes renders a byte count as a human-readable size, e.g. "12.3 MB".
func formatBytes(n int64) string {
	v := float64(n)
	for _, unit := range []string{"B", "KB", "MB", "GB", "TB"} {
		if v < 1024 {
			return fmt.Sprintf("%.1f %s", v, unit)
		}
		v /= 1024
	}
	return fmt.Sprintf("%.1f PB", v)
}
