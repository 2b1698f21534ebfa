// Package dblog wires a stdlib log.Logger to a rotating file writer, the
// ambient logging concern spec.md's core is silent on but a real daemon
// (cmd/server, internal/httpapi) needs. Grounded on the pack's
// inclusion of gopkg.in/natefinch/lumberjack.v2 as a go.mod dependency;
// the wiring follows lumberjack's own documented usage (a
// lumberjack.Logger as the io.Writer target of a stdlib log.Logger).
package dblog

import (
	"io"
	"log"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// New returns a logger writing timestamped lines to path, rotated once
// it exceeds maxMB, with up to 5 rotated backups kept compressed. If
// path is empty, logs go to stderr only (used by tests and one-shot CLI
// invocations that should not leave log files behind).
func New(path string, maxMB int) *log.Logger {
	if path == "" {
		return log.New(os.Stderr, "briarql: ", log.LstdFlags|log.Lmicroseconds)
	}
	rotator := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxMB,
		MaxBackups: 5,
		MaxAge:     28,
		Compress:   true,
	}
	writer := io.MultiWriter(os.Stderr, rotator)
	return log.New(writer, "briarql: ", log.LstdFlags|log.Lmicroseconds)
}
