// Package debug appends diagnostics from interactive sessions to a
// log file next to the binary. Enabled by setting LEGEND_DEBUG.
package debug

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"
)

const logName = "legend-debug.log"

var (
	initOnce sync.Once
	enabled  bool
	fh       *os.File
)

func start() {
	if os.Getenv("LEGEND_DEBUG") == "" {
		return
	}
	var err error
	fh, err = os.OpenFile(logName, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		log.Printf("error opening %s: %v", logName, err)
		return
	}
	enabled = true
}

// Log writes msg with a timestamp and the caller's file:line.
func Log(msg string) {
	initOnce.Do(start)
	if !enabled {
		return
	}
	timeStr := time.Now().Format("2006-01-02 15:04:05.000")
	if _, fullPath, line, ok := runtime.Caller(1); ok {
		LogRaw(fmt.Sprintf("%s %s:%d %s", timeStr, filepath.Base(fullPath), line, msg))
		return
	}
	LogRaw(timeStr + " " + msg)
}

func LogRaw(msg string) {
	if fh == nil {
		return
	}
	fh.WriteString(msg + "\n")
}

func Close() {
	if fh == nil {
		return
	}
	fh.Sync()
	fh.Close()
}
