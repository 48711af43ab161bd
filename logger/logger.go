// Package logger provides leveled logging on top of the standard log package.
package logger

import (
	"log"
	"strings"
	"sync/atomic"
)

// Level is a log severity
type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var level atomic.Int32

func init() {
	level.Store(int32(LevelInfo))
}

// ParseLevel maps a level name to a Level. Unknown names map to LevelInfo
// and ok is false.
func ParseLevel(name string) (l Level, ok bool) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "DEBUG":
		return LevelDebug, true
	case "INFO", "":
		return LevelInfo, true
	case "WARN", "WARNING":
		return LevelWarn, true
	case "ERROR":
		return LevelError, true
	default:
		return LevelInfo, false
	}
}

// SetLevel sets the minimum level from its name
func SetLevel(name string) {
	l, ok := ParseLevel(name)
	if !ok {
		log.Printf("[WARN] unknown log level %q, using INFO", name)
	}
	level.Store(int32(l))
}

// Enabled reports whether messages at l are written
func Enabled(l Level) bool {
	return Level(level.Load()) <= l
}

func Debugf(format string, v ...interface{}) {
	if Enabled(LevelDebug) {
		log.Printf("[DEBUG] "+format, v...)
	}
}

func Infof(format string, v ...interface{}) {
	if Enabled(LevelInfo) {
		log.Printf("[INFO] "+format, v...)
	}
}

func Warnf(format string, v ...interface{}) {
	if Enabled(LevelWarn) {
		log.Printf("[WARN] "+format, v...)
	}
}

func Errorf(format string, v ...interface{}) {
	if Enabled(LevelError) {
		log.Printf("[ERROR] "+format, v...)
	}
}

// Fatalf logs and exits the process
func Fatalf(format string, v ...interface{}) {
	log.Fatalf("[FATAL] "+format, v...)
}
