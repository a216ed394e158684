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
	"github.com/gabevayner/spark-map/internal/aggregate"
	"github.com/gabevayner/spark-map/internal/findings"
)

const mib = 1024 * 1024

// Detector is a single bottleneck rule: a pure, stateless function of the
// metrics it's given. Detectors never mutate metrics and never depend on
// each other, so the registry's order only matters for finding order, not
// correctness.
type Detector interface {
	Name() string
	Detect(m aggregate.ApplicationMetrics, t ThresholdConfig) []findings.Finding
}

// Registry returns the fixed six detectors in the order their ids are
// expected to appear: skew, shuffle, spill, partition, io, driver.
func Registry() []Detector {
	return []Detector{
		skewDetector{},
		shuffleDetector{},
		spillDetector{},
		partitionDetector{},
		ioDetector{},
		driverDetector{},
	}
}

// Run executes every detector in Registry() order and returns one
// insertion-ordered Collection.
func Run(m aggregate.ApplicationMetrics, t ThresholdConfig) *findings.Collection {
	c := findings.NewCollection()
	for _, d := range Registry() {
		for _, f := range d.Detect(m, t) {
			c.Add(f)
		}
	}
	return c
}

func round2(f float64) float64 {
	return float64(int64(f*100+0.5)) / 100
}
