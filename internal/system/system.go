// Package system holds process-level helpers.
package system

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/ivlev/autocam/internal/log"
)

// RecordingExtensions are the file types the recording loader understands
var RecordingExtensions = []string{".json", ".db", ".sqlite", ".sqlite3"}

// InitResourceLimits raises the open file limit so frame directories with
// many images can be scanned
func InitResourceLimits() {
	var rLimit syscall.Rlimit
	if err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
		log.Warn("failed to read open file limit", "error", err)
		return
	}

	rLimit.Cur = 2048
	if rLimit.Cur > rLimit.Max {
		rLimit.Cur = rLimit.Max
	}

	if err := syscall.Setrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
		log.Warn("failed to raise open file limit", "error", err)
		return
	}
	log.Debug("open file limit raised", "limit", rLimit.Cur)
}

// FindLatest returns the most recently modified file in dir whose extension
// is one of exts
func FindLatest(dir string, exts ...string) (string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var latestFile string
	var latestTime time.Time

	for _, f := range files {
		if f.IsDir() || !hasExt(f.Name(), exts) {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(latestTime) {
			latestTime = info.ModTime()
			latestFile = filepath.Join(dir, f.Name())
		}
	}

	if latestFile == "" {
		return "", fmt.Errorf("no %s files in %s", strings.Join(exts, "/"), dir)
	}

	return latestFile, nil
}

// FindLatestRecording returns the newest recording file in dir
func FindLatestRecording(dir string) (string, error) {
	return FindLatest(dir, RecordingExtensions...)
}

func hasExt(name string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}
