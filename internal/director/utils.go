package director

import (
	"fmt"
	"path/filepath"
	"time"
)

// DefaultOutputDir is where camera tracks are written when no path is given
var DefaultOutputDir = filepath.Join("output", "tracks")

// DefaultOutputPath creates a timestamped track filename in dir
func DefaultOutputPath(dir string, now time.Time) string {
	timestamp := now.Format("2006-01-02_15-04-05")
	return filepath.Join(dir, fmt.Sprintf("track_%s.yaml", timestamp))
}
