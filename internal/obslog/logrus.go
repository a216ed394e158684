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

package obslog

import "github.com/sirupsen/logrus"

// Logrus adapts logrus.FieldLogger to Logger.
type Logrus struct{ logrus.FieldLogger }

var _ Logger = Logrus{}

// NewLogrus wraps a configured *logrus.Logger as a Logger. Passing nil
// builds a new logger with logrus's text formatter and Info level.
func NewLogrus(l *logrus.Logger) Logrus {
	if l == nil {
		l = logrus.New()
	}
	return Logrus{FieldLogger: l}
}

func (x Logrus) WithField(key string, value any) Logger {
	return Logrus{FieldLogger: x.FieldLogger.WithField(key, value)}
}

func (x Logrus) WithFields(fields map[string]any) Logger {
	return Logrus{FieldLogger: x.FieldLogger.WithFields(fields)}
}

func (x Logrus) WithError(err error) Logger {
	return Logrus{FieldLogger: x.FieldLogger.WithError(err)}
}
