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

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/gabevayner/spark-map/internal/detect"
)

// loadThresholds reads a JSON object overriding any subset of
// detect.DefaultThresholds' fields. Fields omitted from the file keep
// their default value.
func loadThresholds(path string) (detect.ThresholdConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return detect.ThresholdConfig{}, fmt.Errorf("read thresholds file: %w", err)
	}

	cfg := detect.DefaultThresholds()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return detect.ThresholdConfig{}, fmt.Errorf("parse thresholds file: %w", err)
	}
	return cfg, nil
}
