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

package eventlog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTempLog(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "events.json")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write temp log: %v", err)
	}
	return path
}

func TestReaderDecodesEachKnownKind(t *testing.T) {
	lines := []string{
		`{"Event":"SparkListenerApplicationStart","App ID":"app-1","App Name":"demo","Timestamp":1000}`,
		`{"Event":"SparkListenerStageSubmitted","Stage Info":{"Stage ID":0,"Stage Name":"map","Number of Tasks":2},"Timestamp":1001}`,
		`{"Event":"SparkListenerTaskEnd","Stage ID":0,"Task Info":{"Task ID":1,"Executor ID":"e1","Host":"h1","Launch Time":1001,"Finish Time":1401,"Failed":false},"Task Metrics":{"Input Metrics":{"Bytes Read":10,"Records Read":1},"Output Metrics":{},"Shuffle Read Metrics":{},"Shuffle Write Metrics":{},"Memory Bytes Spilled":0,"Disk Bytes Spilled":0}}`,
		`{"Event":"SparkListenerExecutorAdded","Executor ID":"e1"}`,
		`{"Event":"SparkListenerStageCompleted","Stage Info":{"Stage ID":0,"Stage Name":"map","Number of Tasks":2,"Number of Failed Tasks":0},"Timestamp":1500}`,
		`{"Event":"SparkListenerApplicationEnd","Timestamp":2000}`,
	}
	path := writeTempLog(t, strings.Join(lines, "\n")+"\n")

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	var kinds []Kind
	for r.Next() {
		kinds = append(kinds, r.Event().Kind)
	}
	if err := r.Err(); err != nil {
		t.Fatalf("unexpected Err: %v", err)
	}

	want := []Kind{
		KindApplicationStart, KindStageSubmitted, KindTaskEnd,
		KindExecutorAdded, KindStageCompleted, KindApplicationEnd,
	}
	if len(kinds) != len(want) {
		t.Fatalf("got %d events, want %d: %v", len(kinds), len(want), kinds)
	}
	for i, k := range want {
		if kinds[i] != k {
			t.Fatalf("event %d: got kind %v, want %v", i, kinds[i], k)
		}
	}

	if got := r.Stats(); got.LinesRead != 6 || got.MalformedLines != 0 || got.UnknownKind != 0 {
		t.Fatalf("unexpected stats: %+v", got)
	}
}

func TestReaderSkipsMalformedAndUnknownLines(t *testing.T) {
	lines := []string{
		`{"Event":"SparkListenerApplicationStart","App ID":"app-1","App Name":"demo","Timestamp":1000}`,
		``,
		`not json at all`,
		`{"Event":"SomeFutureEvent","foo":"bar"}`,
		`{"Event":"SparkListenerApplicationEnd","Timestamp":2000}`,
	}
	path := writeTempLog(t, strings.Join(lines, "\n")+"\n")

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	var count int
	for r.Next() {
		count++
	}
	if err := r.Err(); err != nil {
		t.Fatalf("unexpected Err: %v", err)
	}
	if count != 2 {
		t.Fatalf("got %d events, want 2", count)
	}

	stats := r.Stats()
	if stats.MalformedLines != 1 {
		t.Fatalf("MalformedLines = %d, want 1", stats.MalformedLines)
	}
	if stats.UnknownKind != 1 {
		t.Fatalf("UnknownKind = %d, want 1", stats.UnknownKind)
	}
}

func TestOpenMissingFileReturnsIOError(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.json"))
	if err == nil {
		t.Fatalf("expected an error for a missing file")
	}
	var ioErr *IOError
	if !asIOError(err, &ioErr) {
		t.Fatalf("expected *IOError, got %T: %v", err, err)
	}
}

func asIOError(err error, target **IOError) bool {
	ioErr, ok := err.(*IOError)
	if ok {
		*target = ioErr
	}
	return ok
}

func TestReaderHandlesOversizedLine(t *testing.T) {
	huge := strings.Repeat("x", 200*1024)
	line := `{"Event":"SparkListenerApplicationStart","App ID":"` + huge + `","App Name":"demo","Timestamp":1000}`
	path := writeTempLog(t, line+"\n")

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	if !r.Next() {
		t.Fatalf("expected one event, got none (err=%v)", r.Err())
	}
	if r.Event().ApplicationStart.AppID != huge {
		t.Fatalf("oversized line was truncated or corrupted")
	}
}
