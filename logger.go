// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package piet

import (
	"log/slog"

	"honnef.co/go/piet/internal/logger"
)

// SetLogger configures the logger used by piet and all its sub-packages.
// By default, piet produces no log output. Pass nil to restore the silent
// default. SetLogger is safe for concurrent use.
//
// Log levels used by piet:
//   - [slog.LevelDebug]: scene layouts, recordings and glyph encoding
//   - [slog.LevelInfo]: creation of GPU buffers
//   - [slog.LevelWarn]: non-fatal engine issues
func SetLogger(l *slog.Logger) {
	logger.Set(l)
}

// Logger returns the current logger.
func Logger() *slog.Logger {
	return logger.Logger()
}
