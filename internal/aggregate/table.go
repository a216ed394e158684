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

package aggregate

import (
	"math/rand"
	"sort"

	"github.com/gabevayner/spark-map/eventlog"
)

// stageEntry is the mutable, lifecycle-bound running state for a single
// stage id. It is created on first sight of a stage and frozen into a
// StageMetrics once parsing ends; nothing outside this package ever sees
// a stageEntry directly.
type stageEntry struct {
	stageID             int64
	stageName           string
	expectedTaskCount   int64
	declaredFailedTasks int64

	submissionTimeMs *int64
	completionTimeMs *int64

	taskCount     int64
	failedTasks   int64
	durationMinMs int64
	durationMaxMs int64
	durationSumMs int64
	haveDuration  bool

	reservoir *Reservoir

	inputBytes    int64
	inputRecords  int64
	outputBytes   int64
	outputRecords int64
	shuffleRead   int64
	shuffleWrite  int64
	memorySpilled int64
	diskSpilled   int64
}

func newStageEntry(id int64, rng *rand.Rand, reservoirCap int) *stageEntry {
	return &stageEntry{
		stageID:   id,
		reservoir: NewReservoir(reservoirCap, rng),
	}
}

func (e *stageEntry) observeTask(t eventlog.TaskEnd) {
	e.taskCount++
	if t.TaskInfo.Failed {
		e.failedTasks++
	}

	d := t.TaskInfo.FinishTime - t.TaskInfo.LaunchTime
	if d < 0 {
		d = 0
	}
	if !e.haveDuration || d < e.durationMinMs {
		e.durationMinMs = d
	}
	if d > e.durationMaxMs {
		e.durationMaxMs = d
	}
	e.durationSumMs += d
	e.haveDuration = true
	e.reservoir.Observe(d)

	m := t.TaskMetrics
	e.inputBytes += m.InputMetrics.BytesRead
	e.inputRecords += m.InputMetrics.RecordsRead
	e.outputBytes += m.OutputMetrics.BytesWritten
	e.outputRecords += m.OutputMetrics.RecordsWritten
	e.shuffleRead += m.ShuffleReadMetrics.RemoteBytesRead + m.ShuffleReadMetrics.LocalBytesRead
	e.shuffleWrite += m.ShuffleWriteMetrics.ShuffleBytesWritten
	e.memorySpilled += m.MemoryBytesSpilled
	e.diskSpilled += m.DiskBytesSpilled
}

// freeze snapshots the entry. Min/max come from the running stats, which
// are exact for any task population; the reservoir only supplies the
// percentile estimates.
func (e *stageEntry) freeze() StageMetrics {
	stats := e.reservoir.Snapshot()

	durationMs := int64(0)
	if e.submissionTimeMs != nil && e.completionTimeMs != nil {
		durationMs = *e.completionTimeMs - *e.submissionTimeMs
		if durationMs < 0 {
			durationMs = 0
		}
	}

	return StageMetrics{
		StageID:          e.stageID,
		StageName:        e.stageName,
		NumTasks:         e.taskCount,
		ExpectedNumTasks: e.expectedTaskCount,

		SubmissionTimeMs: e.submissionTimeMs,
		CompletionTimeMs: e.completionTimeMs,
		DurationMs:       durationMs,

		TaskDurationMinMs:    e.durationMinMs,
		TaskDurationMaxMs:    e.durationMaxMs,
		TaskDurationMedianMs: stats.Median,
		TaskDurationP75Ms:    stats.P75,
		TaskDurationP90Ms:    stats.P90,
		TaskDurationP99Ms:    stats.P99,

		InputBytes:         e.inputBytes,
		InputRecords:       e.inputRecords,
		OutputBytes:        e.outputBytes,
		OutputRecords:      e.outputRecords,
		ShuffleReadBytes:   e.shuffleRead,
		ShuffleWriteBytes:  e.shuffleWrite,
		MemoryBytesSpilled: e.memorySpilled,
		DiskBytesSpilled:   e.diskSpilled,

		NumFailedTasks: e.failedTasks,
	}
}

// Table drives one stageEntry per observed stage id and the application-
// wide identity/totals, consuming events in file order. It is the single
// point of mutable state during a parse; everything it produces is frozen
// into an ApplicationMetrics by Freeze.
type Table struct {
	rng          *rand.Rand
	reservoirCap int

	stages   map[int64]*stageEntry
	stageSeq []int64

	appID   string
	appName string

	startTimeMs *int64
	endTimeMs   *int64

	executors   map[string]struct{}
	executorSeq []string
}

// NewTable returns an empty Table. rng drives every stage's reservoir
// sampling; callers wanting deterministic output must supply a seeded
// *rand.Rand. reservoirCap <= 0 defaults to DefaultReservoirCapacity.
func NewTable(rng *rand.Rand, reservoirCap int) *Table {
	return &Table{
		rng:          rng,
		reservoirCap: reservoirCap,
		stages:       make(map[int64]*stageEntry),
		executors:    make(map[string]struct{}),
	}
}

// Observe folds one decoded event into the table's running state.
func (t *Table) Observe(ev eventlog.Event) {
	switch ev.Kind {
	case eventlog.KindApplicationStart:
		t.appID = ev.ApplicationStart.AppID
		t.appName = ev.ApplicationStart.AppName
		ts := ev.ApplicationStart.Timestamp
		t.startTimeMs = &ts
	case eventlog.KindApplicationEnd:
		ts := ev.ApplicationEnd.Timestamp
		t.endTimeMs = &ts
	case eventlog.KindStageSubmitted:
		info := ev.StageSubmitted.StageInfo
		entry := t.entry(info.StageID)
		entry.stageName = info.StageName
		entry.expectedTaskCount = info.NumberOfTasks
		ts := ev.StageSubmitted.Timestamp
		entry.submissionTimeMs = &ts
	case eventlog.KindStageCompleted:
		info := ev.StageCompleted.StageInfo
		entry, ok := t.stages[info.StageID]
		if !ok {
			return
		}
		entry.stageName = info.StageName
		entry.expectedTaskCount = info.NumberOfTasks
		ts := ev.StageCompleted.Timestamp
		entry.completionTimeMs = &ts
		entry.declaredFailedTasks = info.NumberOfFailedTasks
	case eventlog.KindTaskEnd:
		t.addExecutor(ev.TaskEnd.TaskInfo.ExecutorID)
		entry, ok := t.stages[ev.TaskEnd.StageID]
		if !ok {
			return
		}
		entry.observeTask(*ev.TaskEnd)
	case eventlog.KindExecutorAdded:
		t.addExecutor(ev.ExecutorAdded.ExecutorID)
	}
}

// addExecutor records an executor id the first time it is seen, from either
// an ExecutorAdded event or a TaskEnd's Task Info. Empty ids are ignored.
func (t *Table) addExecutor(id string) {
	if id == "" {
		return
	}
	if _, seen := t.executors[id]; !seen {
		t.executors[id] = struct{}{}
		t.executorSeq = append(t.executorSeq, id)
	}
}

func (t *Table) entry(stageID int64) *stageEntry {
	if e, ok := t.stages[stageID]; ok {
		return e
	}
	e := newStageEntry(stageID, t.rng, t.reservoirCap)
	t.stages[stageID] = e
	t.stageSeq = append(t.stageSeq, stageID)
	return e
}

// Freeze produces the immutable ApplicationMetrics for everything observed
// so far. It may be called at most meaningfully once, at end of parse; the
// Table itself is not reused afterward.
func (t *Table) Freeze() ApplicationMetrics {
	ids := make([]int64, len(t.stageSeq))
	copy(ids, t.stageSeq)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	stages := make([]StageMetrics, 0, len(ids))
	var failedTasks, totalTasks, failedStages int64
	var totalInput, totalOutput, totalShuffleRead, totalShuffleWrite, totalDiskSpill int64
	for _, id := range ids {
		entry := t.stages[id]
		if entry.declaredFailedTasks > 0 {
			failedStages++
		}
		sm := entry.freeze()
		stages = append(stages, sm)
		failedTasks += sm.NumFailedTasks
		totalTasks += sm.NumTasks
		totalInput += sm.InputBytes
		totalOutput += sm.OutputBytes
		totalShuffleRead += sm.ShuffleReadBytes
		totalShuffleWrite += sm.ShuffleWriteBytes
		totalDiskSpill += sm.DiskBytesSpilled
	}

	executorIDs := make([]string, len(t.executorSeq))
	copy(executorIDs, t.executorSeq)

	var totalDuration int64
	if t.startTimeMs != nil && t.endTimeMs != nil {
		totalDuration = *t.endTimeMs - *t.startTimeMs
		if totalDuration < 0 {
			totalDuration = 0
		}
	}

	return ApplicationMetrics{
		AppID:   t.appID,
		AppName: t.appName,

		StartTimeMs:     t.startTimeMs,
		EndTimeMs:       t.endTimeMs,
		TotalDurationMs: totalDuration,

		NumStages:          int64(len(stages)),
		NumCompletedStages: int64(len(stages)) - failedStages,
		NumFailedStages:    failedStages,
		Stages:             stages,

		NumTasks:          totalTasks,
		NumCompletedTasks: totalTasks - failedTasks,
		NumFailedTasks:    failedTasks,

		NumExecutors: int64(len(executorIDs)),
		ExecutorIDs:  executorIDs,

		TotalInputBytes:        totalInput,
		TotalOutputBytes:       totalOutput,
		TotalShuffleReadBytes:  totalShuffleRead,
		TotalShuffleWriteBytes: totalShuffleWrite,
		TotalDiskBytesSpilled:  totalDiskSpill,
	}
}
