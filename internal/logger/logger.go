// Package logger wires the application log to a rotating file. The TUI owns
// stdout, so nothing may be written there.
package logger

import (
	"io"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

var logger = log.New(io.Discard)

// Init points the logger at <dir>/habitquest.log with rotation. Level is
// Warn unless debug is set.
func Init(dir string, debug bool) {
	writer := &lumberjack.Logger{
		Filename:   filepath.Join(dir, "habitquest.log"),
		MaxSize:    5, // megabytes
		MaxBackups: 2,
		MaxAge:     28, // days
	}

	level := log.WarnLevel
	if debug {
		level = log.DebugLevel
	}

	logger = log.NewWithOptions(writer, log.Options{
		ReportTimestamp: true,
		Level:           level,
	})
}

func Debug(msg string, kv ...any) { logger.Debug(msg, kv...) }
func Info(msg string, kv ...any)  { logger.Info(msg, kv...) }
func Warn(msg string, kv ...any)  { logger.Warn(msg, kv...) }
func Error(msg string, kv ...any) { logger.Error(msg, kv...) }
