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

// Package eventlog decodes a Spark-style newline-delimited JSON event log
// into a lazy sequence of typed lifecycle events.
package eventlog

// Kind discriminates the six event shapes this package understands. Every
// other "Event" value observed in the log is ignored.
type Kind int

const (
	KindUnknown Kind = iota
	KindApplicationStart
	KindApplicationEnd
	KindStageSubmitted
	KindStageCompleted
	KindTaskEnd
	KindExecutorAdded
)

func (k Kind) String() string {
	switch k {
	case KindApplicationStart:
		return "SparkListenerApplicationStart"
	case KindApplicationEnd:
		return "SparkListenerApplicationEnd"
	case KindStageSubmitted:
		return "SparkListenerStageSubmitted"
	case KindStageCompleted:
		return "SparkListenerStageCompleted"
	case KindTaskEnd:
		return "SparkListenerTaskEnd"
	case KindExecutorAdded:
		return "SparkListenerExecutorAdded"
	default:
		return "unknown"
	}
}

// discriminator is decoded first on every line to pick the full shape to
// decode next; unknown values short-circuit without touching the rest of
// the line.
type discriminator struct {
	Event string `json:"Event"`
}

// StageInfo is the "Stage Info" sub-object shared by StageSubmitted and
// StageCompleted.
type StageInfo struct {
	StageID             int64  `json:"Stage ID"`
	StageName           string `json:"Stage Name"`
	NumberOfTasks       int64  `json:"Number of Tasks"`
	NumberOfFailedTasks int64  `json:"Number of Failed Tasks"`
}

// TaskInfo is the "Task Info" sub-object of a TaskEnd event.
type TaskInfo struct {
	TaskID     int64  `json:"Task ID"`
	ExecutorID string `json:"Executor ID"`
	Host       string `json:"Host"`
	LaunchTime int64  `json:"Launch Time"`
	FinishTime int64  `json:"Finish Time"`
	Failed     bool   `json:"Failed"`
}

// InputMetrics is the "Input Metrics" sub-object of Task Metrics.
type InputMetrics struct {
	BytesRead   int64 `json:"Bytes Read"`
	RecordsRead int64 `json:"Records Read"`
}

// OutputMetrics is the "Output Metrics" sub-object of Task Metrics.
type OutputMetrics struct {
	BytesWritten   int64 `json:"Bytes Written"`
	RecordsWritten int64 `json:"Records Written"`
}

// ShuffleReadMetrics is the "Shuffle Read Metrics" sub-object of Task Metrics.
type ShuffleReadMetrics struct {
	RemoteBytesRead  int64 `json:"Remote Bytes Read"`
	LocalBytesRead   int64 `json:"Local Bytes Read"`
	TotalRecordsRead int64 `json:"Total Records Read"`
	FetchWaitTime    int64 `json:"Fetch Wait Time"`
}

// ShuffleWriteMetrics is the "Shuffle Write Metrics" sub-object of Task
// Metrics. ShuffleWriteTime is reported in nanoseconds in the log, unlike
// every other duration field.
type ShuffleWriteMetrics struct {
	ShuffleBytesWritten   int64 `json:"Shuffle Bytes Written"`
	ShuffleRecordsWritten int64 `json:"Shuffle Records Written"`
	ShuffleWriteTime      int64 `json:"Shuffle Write Time"`
}

// TaskMetrics is the "Task Metrics" sub-object of a TaskEnd event.
type TaskMetrics struct {
	InputMetrics        InputMetrics        `json:"Input Metrics"`
	OutputMetrics       OutputMetrics       `json:"Output Metrics"`
	ShuffleReadMetrics  ShuffleReadMetrics  `json:"Shuffle Read Metrics"`
	ShuffleWriteMetrics ShuffleWriteMetrics `json:"Shuffle Write Metrics"`
	MemoryBytesSpilled  int64               `json:"Memory Bytes Spilled"`
	DiskBytesSpilled    int64               `json:"Disk Bytes Spilled"`
}

// ApplicationStart is a SparkListenerApplicationStart event.
type ApplicationStart struct {
	AppID     string `json:"App ID"`
	AppName   string `json:"App Name"`
	Timestamp int64  `json:"Timestamp"`
}

// ApplicationEnd is a SparkListenerApplicationEnd event.
type ApplicationEnd struct {
	Timestamp int64 `json:"Timestamp"`
}

// StageSubmitted is a SparkListenerStageSubmitted event.
type StageSubmitted struct {
	StageInfo StageInfo `json:"Stage Info"`
	Timestamp int64     `json:"Timestamp"`
}

// StageCompleted is a SparkListenerStageCompleted event.
type StageCompleted struct {
	StageInfo StageInfo `json:"Stage Info"`
	Timestamp int64     `json:"Timestamp"`
}

// TaskEnd is a SparkListenerTaskEnd event.
type TaskEnd struct {
	StageID     int64       `json:"Stage ID"`
	TaskInfo    TaskInfo    `json:"Task Info"`
	TaskMetrics TaskMetrics `json:"Task Metrics"`
}

// ExecutorAdded is a SparkListenerExecutorAdded event.
type ExecutorAdded struct {
	ExecutorID string `json:"Executor ID"`
}

// Event is one decoded log line. Exactly one of the pointer fields matching
// Kind is populated; the rest are nil.
type Event struct {
	Kind Kind

	ApplicationStart *ApplicationStart
	ApplicationEnd   *ApplicationEnd
	StageSubmitted   *StageSubmitted
	StageCompleted   *StageCompleted
	TaskEnd          *TaskEnd
	ExecutorAdded    *ExecutorAdded
}
