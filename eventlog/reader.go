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
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// IOError wraps a fatal I/O failure encountered opening or reading the
// event log (file not found, permission denied, read error). It is the
// only error Reader ever returns from Next/Err; content errors are never
// surfaced, per the parser's error-handling contract.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string { return fmt.Sprintf("eventlog: %s: %v", e.Path, e.Err) }
func (e *IOError) Unwrap() error { return e.Err }

// Stats counts non-fatal anomalies observed while scanning a log, so
// callers can surface "N lines skipped" without the parser ever erroring
// on them. It is safe for callers to read after Close.
type Stats struct {
	LinesRead      int64
	MalformedLines int64
	UnknownKind    int64
}

// Reader is a lazy, finite iterator over the event log at Path, modeled on
// bufio.Scanner/sql.Rows: call Next in a loop, inspect Event after each
// true return, then check Err once Next returns false.
//
// Memory use is O(1) beyond the currently decoded Event: lines are read on
// demand with a growable buffer (not loaded into memory up front), and no
// line is retained past the following call to Next.
type Reader struct {
	path  string
	file  *os.File
	br    *bufio.Reader
	event Event
	err   error
	stats Stats
}

// Open opens path for streaming iteration. It returns an *IOError if the
// file cannot be opened.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}
	return &Reader{path: path, file: f, br: bufio.NewReaderSize(f, 64*1024)}, nil
}

// Next advances to the next decodable event, skipping blank lines and
// lines that fail to parse as JSON or carry an unrecognized "Event" kind.
// It returns false at end of file or on a fatal read error (distinguished
// via Err).
func (r *Reader) Next() bool {
	for {
		line, readErr := r.readLine()
		if line == "" && readErr != nil {
			if readErr != io.EOF {
				r.err = &IOError{Path: r.path, Err: readErr}
			}
			return false
		}

		line = strings.TrimSpace(line)
		if line != "" {
			r.stats.LinesRead++
			if ev, ok := decodeLine(line); ok {
				r.event = ev
				if ev.Kind == KindUnknown {
					r.stats.UnknownKind++
				} else {
					return true
				}
			} else {
				r.stats.MalformedLines++
			}
		}

		if readErr == io.EOF {
			return false
		}
	}
}

// readLine returns one line (without its trailing newline) using a
// growable buffer, so a single oversized JSON line cannot blow a fixed
// token cap the way bufio.Scanner's default 64KiB limit would.
func (r *Reader) readLine() (string, error) {
	var sb strings.Builder
	for {
		chunk, err := r.br.ReadString('\n')
		sb.WriteString(chunk)
		if err != nil {
			return strings.TrimSuffix(sb.String(), "\n"), err
		}
		if strings.HasSuffix(chunk, "\n") {
			return strings.TrimSuffix(sb.String(), "\n"), nil
		}
	}
}

// Event returns the event decoded by the most recent call to Next that
// returned true.
func (r *Reader) Event() Event { return r.event }

// Err returns the first fatal I/O error encountered, if any. Content
// errors (malformed JSON, unknown event kinds) are never reported here —
// see Stats.
func (r *Reader) Err() error { return r.err }

// Stats returns the running counts of skipped lines observed so far.
func (r *Reader) Stats() Stats { return r.stats }

// Close releases the underlying file handle. It is guaranteed safe to call
// on every exit path, including after a fatal error.
func (r *Reader) Close() error { return r.file.Close() }

func decodeLine(line string) (Event, bool) {
	var disc discriminator
	if err := jsonAPI.UnmarshalFromString(line, &disc); err != nil {
		return Event{}, false
	}

	switch disc.Event {
	case KindApplicationStart.String():
		var v ApplicationStart
		if jsonAPI.UnmarshalFromString(line, &v) != nil {
			return Event{}, false
		}
		return Event{Kind: KindApplicationStart, ApplicationStart: &v}, true
	case KindApplicationEnd.String():
		var v ApplicationEnd
		if jsonAPI.UnmarshalFromString(line, &v) != nil {
			return Event{}, false
		}
		return Event{Kind: KindApplicationEnd, ApplicationEnd: &v}, true
	case KindStageSubmitted.String():
		var v StageSubmitted
		if jsonAPI.UnmarshalFromString(line, &v) != nil {
			return Event{}, false
		}
		return Event{Kind: KindStageSubmitted, StageSubmitted: &v}, true
	case KindStageCompleted.String():
		var v StageCompleted
		if jsonAPI.UnmarshalFromString(line, &v) != nil {
			return Event{}, false
		}
		return Event{Kind: KindStageCompleted, StageCompleted: &v}, true
	case KindTaskEnd.String():
		var v TaskEnd
		if jsonAPI.UnmarshalFromString(line, &v) != nil {
			return Event{}, false
		}
		return Event{Kind: KindTaskEnd, TaskEnd: &v}, true
	case KindExecutorAdded.String():
		var v ExecutorAdded
		if jsonAPI.UnmarshalFromString(line, &v) != nil {
			return Event{}, false
		}
		return Event{Kind: KindExecutorAdded, ExecutorAdded: &v}, true
	default:
		return Event{Kind: KindUnknown}, true
	}
}
