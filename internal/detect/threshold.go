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

// Package detect runs the fixed set of bottleneck detectors over an
// aggregate.ApplicationMetrics snapshot and a ThresholdConfig.
package detect

import (
	"fmt"
	"math"
)

// ThresholdConfig carries every numeric parameter the detectors read. It is
// a plain value type, copied into every Detect call rather than shared by
// pointer, so no detector can observe another's mutation.
type ThresholdConfig struct {
	SkewRatio                       float64 `json:"skew_ratio"`
	ShuffleExplosionRatio           float64 `json:"shuffle_explosion_ratio"`
	MinSpillMB                      int64   `json:"min_spill_mb"`
	MinTasksForInefficiency         int64   `json:"min_tasks_for_inefficiency"`
	MaxTaskRuntimeMsForInefficiency int64   `json:"max_task_runtime_ms_for_inefficiency"`
	IODominantRatio                 float64 `json:"io_dominant_ratio"`
	MaxResultSizeMB                 int64   `json:"max_result_size_mb"`
	MaxSchedulingDelayMs            int64   `json:"max_scheduling_delay_ms"`
}

// DefaultThresholds returns the recognized-options defaults from the
// threshold table.
func DefaultThresholds() ThresholdConfig {
	return ThresholdConfig{
		SkewRatio:                       10.0,
		ShuffleExplosionRatio:           5.0,
		MinSpillMB:                      100,
		MinTasksForInefficiency:         200,
		MaxTaskRuntimeMsForInefficiency: 100,
		IODominantRatio:                 0.7,
		MaxResultSizeMB:                 50,
		MaxSchedulingDelayMs:            1000,
	}
}

// Validate enforces the recognized-options constraints: ratios strictly
// greater than 1.0, non-negative byte/ms thresholds, and io_dominant_ratio
// in [0,1]. NaN/Inf values are rejected as invalid numeric configuration.
func (t ThresholdConfig) Validate() error {
	if math.IsNaN(t.SkewRatio) || math.IsInf(t.SkewRatio, 0) || t.SkewRatio <= 1.0 {
		return fmt.Errorf("detect: skew_ratio must be > 1.0, got %v", t.SkewRatio)
	}
	if math.IsNaN(t.ShuffleExplosionRatio) || math.IsInf(t.ShuffleExplosionRatio, 0) || t.ShuffleExplosionRatio <= 1.0 {
		return fmt.Errorf("detect: shuffle_explosion_ratio must be > 1.0, got %v", t.ShuffleExplosionRatio)
	}
	if t.MinSpillMB < 0 {
		return fmt.Errorf("detect: min_spill_mb must be >= 0, got %d", t.MinSpillMB)
	}
	if t.MinTasksForInefficiency < 1 {
		return fmt.Errorf("detect: min_tasks_for_inefficiency must be >= 1, got %d", t.MinTasksForInefficiency)
	}
	if t.MaxTaskRuntimeMsForInefficiency < 0 {
		return fmt.Errorf("detect: max_task_runtime_ms_for_inefficiency must be >= 0, got %d", t.MaxTaskRuntimeMsForInefficiency)
	}
	if math.IsNaN(t.IODominantRatio) || t.IODominantRatio < 0 || t.IODominantRatio > 1 {
		return fmt.Errorf("detect: io_dominant_ratio must be in [0,1], got %v", t.IODominantRatio)
	}
	if t.MaxResultSizeMB < 0 {
		return fmt.Errorf("detect: max_result_size_mb must be >= 0, got %d", t.MaxResultSizeMB)
	}
	if t.MaxSchedulingDelayMs < 0 {
		return fmt.Errorf("detect: max_scheduling_delay_ms must be >= 0, got %d", t.MaxSchedulingDelayMs)
	}
	return nil
}
