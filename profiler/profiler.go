// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package profiler

import (
	"log/slog"
	"time"
)

// ProfilerGroup times a phase of work. Start opens a nested phase.
type ProfilerGroup interface {
	Start(label string) ProfilerGroup
	End()
}

// Nop is a ProfilerGroup that records nothing.
var Nop ProfilerGroup = nop{}

type nop struct{}

func (nop) Start(string) ProfilerGroup { return nop{} }
func (nop) End()                       {}

// Logging is a ProfilerGroup that logs the duration of each phase at debug
// level.
type Logging struct {
	Logger *slog.Logger
	label  string
	start  time.Time
}

func (l *Logging) Start(label string) ProfilerGroup {
	if l.label != "" {
		label = l.label + "/" + label
	}
	return &Logging{Logger: l.Logger, label: label, start: time.Now()}
}

func (l *Logging) End() {
	if l.Logger == nil || l.start.IsZero() {
		return
	}
	l.Logger.Debug("profiler", "phase", l.label, "duration", time.Since(l.start))
}
