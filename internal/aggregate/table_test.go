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
	"testing"

	"github.com/gabevayner/spark-map/eventlog"
)

func taskEnd(stageID, launch, finish int64, failed bool) eventlog.Event {
	return eventlog.Event{
		Kind: eventlog.KindTaskEnd,
		TaskEnd: &eventlog.TaskEnd{
			StageID: stageID,
			TaskInfo: eventlog.TaskInfo{
				LaunchTime: launch,
				FinishTime: finish,
				Failed:     failed,
			},
		},
	}
}

func TestTableDropsTaskEndForUnknownStage(t *testing.T) {
	tbl := NewTable(rand.New(rand.NewSource(1)), 1000)
	tbl.Observe(taskEnd(99, 0, 100, false))

	m := tbl.Freeze()
	if m.NumStages != 0 || m.NumTasks != 0 {
		t.Fatalf("expected no stages/tasks observed, got %+v", m)
	}
}

func TestTableStageCompletedForUnknownStageCreatesNone(t *testing.T) {
	tbl := NewTable(rand.New(rand.NewSource(1)), 1000)
	tbl.Observe(eventlog.Event{
		Kind: eventlog.KindStageCompleted,
		StageCompleted: &eventlog.StageCompleted{
			StageInfo: eventlog.StageInfo{StageID: 5},
			Timestamp: 1000,
		},
	})

	m := tbl.Freeze()
	if m.NumStages != 0 {
		t.Fatalf("expected no stage created, got %+v", m.Stages)
	}
}

func TestTableClampsNegativeDuration(t *testing.T) {
	tbl := NewTable(rand.New(rand.NewSource(1)), 1000)
	tbl.Observe(eventlog.Event{
		Kind: eventlog.KindStageSubmitted,
		StageSubmitted: &eventlog.StageSubmitted{
			StageInfo: eventlog.StageInfo{StageID: 0, NumberOfTasks: 1},
			Timestamp: 1000,
		},
	})
	// Finish before Launch: clock skew between driver and executor.
	tbl.Observe(taskEnd(0, 500, 100, false))

	m := tbl.Freeze()
	stage, ok := m.StageByID(0)
	if !ok {
		t.Fatalf("expected stage 0 to exist")
	}
	if stage.TaskDurationMinMs != 0 || stage.TaskDurationMaxMs != 0 {
		t.Fatalf("expected clamped duration of 0, got min=%d max=%d", stage.TaskDurationMinMs, stage.TaskDurationMaxMs)
	}
}

func TestTableFailedTaskStillContributesToSums(t *testing.T) {
	tbl := NewTable(rand.New(rand.NewSource(1)), 1000)
	tbl.Observe(eventlog.Event{
		Kind: eventlog.KindStageSubmitted,
		StageSubmitted: &eventlog.StageSubmitted{
			StageInfo: eventlog.StageInfo{StageID: 0, NumberOfTasks: 1},
			Timestamp: 0,
		},
	})
	ev := taskEnd(0, 0, 100, true)
	ev.TaskEnd.TaskMetrics.InputMetrics.BytesRead = 1000
	tbl.Observe(ev)

	m := tbl.Freeze()
	stage, _ := m.StageByID(0)
	if stage.NumFailedTasks != 1 {
		t.Fatalf("NumFailedTasks = %d, want 1", stage.NumFailedTasks)
	}
	if stage.InputBytes != 1000 {
		t.Fatalf("InputBytes = %d, want 1000 (failed tasks still contribute bytes)", stage.InputBytes)
	}
}

// The frozen stage list is strictly ascending by stage id regardless of
// the order stages first appear in the log.
func TestStageListAscending(t *testing.T) {
	tbl := NewTable(rand.New(rand.NewSource(1)), 1000)
	for _, id := range []int64{5, 1, 3} {
		tbl.Observe(eventlog.Event{
			Kind: eventlog.KindStageSubmitted,
			StageSubmitted: &eventlog.StageSubmitted{
				StageInfo: eventlog.StageInfo{StageID: id},
				Timestamp: 0,
			},
		})
	}
	m := tbl.Freeze()
	if len(m.Stages) != 3 {
		t.Fatalf("expected 3 stages, got %d", len(m.Stages))
	}
	for i := 1; i < len(m.Stages); i++ {
		if m.Stages[i-1].StageID >= m.Stages[i].StageID {
			t.Fatalf("stages not strictly ascending: %v", m.Stages)
		}
	}
}

func TestSumOfStageTasksEqualsApplicationTotal(t *testing.T) {
	tbl := NewTable(rand.New(rand.NewSource(1)), 1000)
	for _, id := range []int64{0, 1} {
		tbl.Observe(eventlog.Event{
			Kind: eventlog.KindStageSubmitted,
			StageSubmitted: &eventlog.StageSubmitted{
				StageInfo: eventlog.StageInfo{StageID: id},
				Timestamp: 0,
			},
		})
		for i := 0; i < 5; i++ {
			tbl.Observe(taskEnd(id, 0, 10, false))
		}
	}

	m := tbl.Freeze()
	if m.NumTasks != 10 {
		t.Fatalf("NumTasks = %d, want 10 observed task-end events", m.NumTasks)
	}
}

func TestApplicationDurationZeroWhenEndpointsMissing(t *testing.T) {
	tbl := NewTable(rand.New(rand.NewSource(1)), 1000)
	tbl.Observe(eventlog.Event{
		Kind:             eventlog.KindApplicationStart,
		ApplicationStart: &eventlog.ApplicationStart{AppID: "a", Timestamp: 1000},
	})
	// no ApplicationEnd
	m := tbl.Freeze()
	if m.TotalDurationMs != 0 {
		t.Fatalf("TotalDurationMs = %d, want 0 when end is missing", m.TotalDurationMs)
	}
}

func TestExecutorsDeduplicatedAndOrderPreserved(t *testing.T) {
	tbl := NewTable(rand.New(rand.NewSource(1)), 1000)
	for _, id := range []string{"e1", "e2", "e1", "e3"} {
		tbl.Observe(eventlog.Event{
			Kind:          eventlog.KindExecutorAdded,
			ExecutorAdded: &eventlog.ExecutorAdded{ExecutorID: id},
		})
	}
	m := tbl.Freeze()
	want := []string{"e1", "e2", "e3"}
	if m.NumExecutors != 3 {
		t.Fatalf("NumExecutors = %d, want 3", m.NumExecutors)
	}
	for i, id := range want {
		if m.ExecutorIDs[i] != id {
			t.Fatalf("ExecutorIDs[%d] = %s, want %s", i, m.ExecutorIDs[i], id)
		}
	}
}

// TestExecutorsObservedFromTaskEnds: a log with no ExecutorAdded events
// still yields the executor set, from each task's Task Info.
func TestExecutorsObservedFromTaskEnds(t *testing.T) {
	tbl := NewTable(rand.New(rand.NewSource(1)), 1000)
	tbl.Observe(eventlog.Event{
		Kind: eventlog.KindStageSubmitted,
		StageSubmitted: &eventlog.StageSubmitted{
			StageInfo: eventlog.StageInfo{StageID: 0, NumberOfTasks: 2},
		},
	})
	for _, exec := range []string{"e2", "e1", "e2"} {
		ev := taskEnd(0, 0, 10, false)
		ev.TaskEnd.TaskInfo.ExecutorID = exec
		tbl.Observe(ev)
	}

	m := tbl.Freeze()
	if m.NumExecutors != 2 {
		t.Fatalf("NumExecutors = %d, want 2", m.NumExecutors)
	}
	if m.ExecutorIDs[0] != "e2" || m.ExecutorIDs[1] != "e1" {
		t.Fatalf("ExecutorIDs = %v, want [e2 e1]", m.ExecutorIDs)
	}
}

// TestStageMinMaxExactBeyondReservoirCapacity: min/max come from the
// running stats, so they stay exact even once the reservoir starts
// evicting samples.
func TestStageMinMaxExactBeyondReservoirCapacity(t *testing.T) {
	tbl := NewTable(rand.New(rand.NewSource(1)), 10)
	tbl.Observe(eventlog.Event{
		Kind: eventlog.KindStageSubmitted,
		StageSubmitted: &eventlog.StageSubmitted{
			StageInfo: eventlog.StageInfo{StageID: 0, NumberOfTasks: 500},
		},
	})
	for i := int64(0); i < 500; i++ {
		tbl.Observe(taskEnd(0, 0, 100+i, false))
	}
	// One extreme outlier that the 10-slot reservoir will almost
	// certainly not retain.
	tbl.Observe(taskEnd(0, 0, 1_000_000, false))

	m := tbl.Freeze()
	stage, _ := m.StageByID(0)
	if stage.TaskDurationMinMs != 100 {
		t.Fatalf("min = %d, want 100", stage.TaskDurationMinMs)
	}
	if stage.TaskDurationMaxMs != 1_000_000 {
		t.Fatalf("max = %d, want 1000000", stage.TaskDurationMaxMs)
	}
}

func TestStageCountsSplitCompletedVsFailed(t *testing.T) {
	tbl := NewTable(rand.New(rand.NewSource(1)), 1000)
	for _, id := range []int64{0, 1, 2} {
		tbl.Observe(eventlog.Event{
			Kind: eventlog.KindStageSubmitted,
			StageSubmitted: &eventlog.StageSubmitted{
				StageInfo: eventlog.StageInfo{StageID: id, NumberOfTasks: 1},
			},
		})
	}
	tbl.Observe(eventlog.Event{
		Kind: eventlog.KindStageCompleted,
		StageCompleted: &eventlog.StageCompleted{
			StageInfo: eventlog.StageInfo{StageID: 1, NumberOfFailedTasks: 2},
			Timestamp: 100,
		},
	})

	m := tbl.Freeze()
	if m.NumStages != 3 || m.NumFailedStages != 1 || m.NumCompletedStages != 2 {
		t.Fatalf("stage counts = total %d / completed %d / failed %d, want 3/2/1",
			m.NumStages, m.NumCompletedStages, m.NumFailedStages)
	}
}
