package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"strings"

	"github.com/ivlev/autocam/internal/config"
	"github.com/ivlev/autocam/internal/engine"
	"github.com/ivlev/autocam/internal/log"
	"github.com/ivlev/autocam/internal/source"
	"github.com/ivlev/autocam/internal/system"
)

// Set at build time with -ldflags "-X main.version=..."
var version = "dev"

const recordingsDir = "input/recordings"

func main() {
	inputPtr := flag.String("input", "", "Recording file, .json or SQLite (default: newest in "+recordingsDir+"/)")
	framesPtr := flag.String("frames", "", "Directory of captured screen frames for visual analysis")
	framesFPSPtr := flag.Float64("frames-fps", 10, "Rate the captured frames were taken at")
	settingsPtr := flag.String("settings", "", "YAML settings overlay")
	outputPtr := flag.String("output", "", "Track file (default: timestamped file in output/tracks/)")
	tickRatePtr := flag.Float64("tick-rate", 0, "Camera sample rate in Hz (0 keeps the settings value)")
	intensityPtr := flag.Float64("intensity", -1, "Zoom intensity, 0 disables zoom (negative keeps the settings value)")
	segmentsPtr := flag.Bool("segments", false, "Include display segments in the track")
	variantsPtr := flag.String("variants", "", "Comma separated zoom intensities rendered as extra preview tracks")
	workersPtr := flag.Int("workers", runtime.NumCPU(), "Parallel preview generations")
	statsPtr := flag.Bool("stats", false, "Print a performance report")
	logLevelPtr := flag.String("log-level", "info", "debug, info, warn or error")
	dumpPtr := flag.String("dump-settings", "", "Write the effective settings to this YAML file")

	flag.Parse()

	log.Init(*logLevelPtr)
	system.InitResourceLimits()

	for _, d := range []string{recordingsDir, "output/tracks"} {
		if err := os.MkdirAll(d, 0755); err != nil {
			log.Warn("failed to create directory", "dir", d, "error", err)
		}
	}

	variants, err := parseVariants(*variantsPtr)
	if err != nil {
		log.Error("invalid -variants", "error", err)
		os.Exit(1)
	}

	inputPath := *inputPtr
	if inputPath == "" {
		latest, err := system.FindLatestRecording(recordingsDir)
		if err != nil {
			log.Error("no recording found, put one in "+recordingsDir, "error", err)
			os.Exit(1)
		}
		inputPath = latest
		fmt.Printf("[*] Selected recording: %s\n", inputPath)
	}

	settings := config.DefaultSettings()
	if *settingsPtr != "" {
		settings, err = config.LoadSettings(*settingsPtr)
		if err != nil {
			log.Error("failed to load settings", "error", err)
			os.Exit(1)
		}
	}

	var frames source.FrameSource
	if *framesPtr != "" {
		src, err := source.NewImageSource(*framesPtr, *framesFPSPtr)
		if err != nil {
			log.Error("failed to open frames", "error", err)
			os.Exit(1)
		}
		defer src.Close()
		frames = src
	}

	cfg := &config.Config{
		InputPath:    inputPath,
		FramesDir:    *framesPtr,
		FramesFPS:    *framesFPSPtr,
		SettingsPath: *settingsPtr,
		OutputPath:   *outputPtr,
		TickRate:     *tickRatePtr,
		Intensity:    *intensityPtr,
		Segments:     *segmentsPtr,
		Variants:     variants,
		Workers:      *workersPtr,
		ShowStats:    *statsPtr,
		LogLevel:     *logLevelPtr,
		DumpSettings: *dumpPtr,
		BuildVersion: version,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	project := engine.NewProject(cfg, settings, frames)
	if err := project.Run(ctx); err != nil {
		log.Error("run failed", "error", err)
		stop()
		os.Exit(1)
	}

	fmt.Println("[+++] Done")
}

func parseVariants(s string) ([]float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var out []float64
	for _, part := range strings.Split(s, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("bad intensity %q: %w", part, err)
		}
		out = append(out, v)
	}
	return out, nil
}
