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

// Package aggregate consumes a stream of eventlog.Event values and produces
// an immutable ApplicationMetrics snapshot in O(number-of-stages) memory.
package aggregate

// StageMetrics is the frozen, immutable view of one stage's activity.
// Consumers never see the mutable stageEntry that built it.
type StageMetrics struct {
	StageID   int64  `json:"stage_id"`
	StageName string `json:"stage_name"`
	// NumTasks is the observed TaskEnd count, the basis for every ratio a
	// detector computes against it. ExpectedNumTasks is the "Number of
	// Tasks" declared by StageSubmitted/StageCompleted and can differ from
	// NumTasks if the log's tail is truncated mid-stage.
	NumTasks         int64 `json:"num_tasks"`
	ExpectedNumTasks int64 `json:"expected_num_tasks"`

	SubmissionTimeMs *int64 `json:"submission_time_ms,omitempty"`
	CompletionTimeMs *int64 `json:"completion_time_ms,omitempty"`
	DurationMs       int64  `json:"duration_ms"`

	TaskDurationMinMs    int64 `json:"task_duration_min_ms"`
	TaskDurationMaxMs    int64 `json:"task_duration_max_ms"`
	TaskDurationMedianMs int64 `json:"task_duration_median_ms"`
	TaskDurationP75Ms    int64 `json:"task_duration_p75_ms"`
	TaskDurationP90Ms    int64 `json:"task_duration_p90_ms"`
	TaskDurationP99Ms    int64 `json:"task_duration_p99_ms"`

	InputBytes        int64 `json:"input_bytes"`
	InputRecords      int64 `json:"input_records"`
	OutputBytes       int64 `json:"output_bytes"`
	OutputRecords     int64 `json:"output_records"`
	ShuffleReadBytes  int64 `json:"shuffle_read_bytes"`
	ShuffleWriteBytes int64 `json:"shuffle_write_bytes"`

	MemoryBytesSpilled int64 `json:"memory_bytes_spilled"`
	DiskBytesSpilled   int64 `json:"disk_bytes_spilled"`

	NumFailedTasks int64 `json:"num_failed_tasks"`
}

// ApplicationMetrics is the top-level, immutable result of parsing one
// event log. It owns its Stages slice outright: callers may read it freely
// but the aggregator never mutates it after Freeze.
type ApplicationMetrics struct {
	AppID   string `json:"app_id"`
	AppName string `json:"app_name"`

	StartTimeMs     *int64 `json:"start_time_ms,omitempty"`
	EndTimeMs       *int64 `json:"end_time_ms,omitempty"`
	TotalDurationMs int64  `json:"total_duration_ms"`

	NumStages          int64          `json:"num_stages"`
	NumCompletedStages int64          `json:"num_completed_stages"`
	NumFailedStages    int64          `json:"num_failed_stages"`
	Stages             []StageMetrics `json:"stages"`

	NumTasks          int64 `json:"num_tasks"`
	NumCompletedTasks int64 `json:"num_completed_tasks"`
	NumFailedTasks    int64 `json:"num_failed_tasks"`

	NumExecutors int64    `json:"num_executors"`
	ExecutorIDs  []string `json:"executor_ids"`

	TotalInputBytes        int64 `json:"total_input_bytes"`
	TotalOutputBytes       int64 `json:"total_output_bytes"`
	TotalShuffleReadBytes  int64 `json:"total_shuffle_read_bytes"`
	TotalShuffleWriteBytes int64 `json:"total_shuffle_write_bytes"`
	TotalDiskBytesSpilled  int64 `json:"total_disk_bytes_spilled"`
}

// StageByID returns the stage with the given id and true, or the zero value
// and false if no such stage was observed.
func (m ApplicationMetrics) StageByID(id int64) (StageMetrics, bool) {
	for _, s := range m.Stages {
		if s.StageID == id {
			return s, true
		}
	}
	return StageMetrics{}, false
}
