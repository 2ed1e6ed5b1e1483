// Package engine runs one command line invocation from recording file to
// written track documents.
package engine

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ivlev/autocam/internal/analyzer"
	"github.com/ivlev/autocam/internal/config"
	"github.com/ivlev/autocam/internal/director"
	"github.com/ivlev/autocam/internal/log"
	"github.com/ivlev/autocam/internal/recording"
	"github.com/ivlev/autocam/internal/source"
	"github.com/ivlev/autocam/internal/system"
)

type Project struct {
	Config   *config.Config
	Settings config.Settings
	Frames   source.FrameSource // nil when no frames were captured
	Out      io.Writer

	now func() time.Time
}

func NewProject(cfg *config.Config, settings config.Settings, frames source.FrameSource) *Project {
	return &Project{
		Config:   cfg,
		Settings: cfg.Apply(settings),
		Frames:   frames,
		Out:      os.Stdout,
		now:      time.Now,
	}
}

func (p *Project) Run(ctx context.Context) error {
	startTime := time.Now()
	cfg := p.Config

	rec, uiStates, err := recording.Load(cfg.InputPath)
	if err != nil {
		return fmt.Errorf("failed to load recording: %w", err)
	}
	fmt.Fprintf(p.Out, "[*] Recording: %s | %.2fs | %d positions, %d clicks, %d keys\n",
		cfg.InputPath, rec.Duration, len(rec.Positions), len(rec.Clicks), len(rec.Keys))

	in := director.Input{Recording: rec, UIStates: uiStates}

	var analyzeTime time.Duration
	if p.Frames != nil {
		analyzeStart := time.Now()
		in.Frames, err = analyzer.NewDiffAnalyzer(p.Settings.Analyzer).Analyze(ctx, p.Frames)
		if err != nil {
			return fmt.Errorf("failed to analyze frames: %w", err)
		}
		analyzeTime = time.Since(analyzeStart)
		fmt.Fprintf(p.Out, "[*] Analyzed %d frames\n", len(in.Frames))
	}

	logger := log.With("input", filepath.Base(cfg.InputPath))
	d := director.New(p.Settings, logger)
	res := d.Generate(in)

	outputPath := cfg.OutputPath
	if outputPath == "" {
		outputPath = director.DefaultOutputPath(director.DefaultOutputDir, p.now())
	}
	if err := p.write(res, p.Settings, outputPath); err != nil {
		return err
	}
	fmt.Fprintf(p.Out, "[>] Track: %d samples, %d waypoints, %d segments -> %s\n",
		len(res.Trajectory), len(res.Waypoints), len(res.Segments), outputPath)

	if len(cfg.Variants) > 0 {
		variants := cfg.VariantSettings(p.Settings)
		results, err := d.GenerateVariants(ctx, in, variants, cfg.Workers)
		if err != nil {
			return fmt.Errorf("failed to generate previews: %w", err)
		}
		for i, vr := range results {
			path := VariantPath(outputPath, cfg.Variants[i])
			if err := p.write(vr, variants[i], path); err != nil {
				return err
			}
			fmt.Fprintf(p.Out, "[>] Preview x%.2f -> %s\n", cfg.Variants[i], path)
		}
	}

	if cfg.DumpSettings != "" {
		if err := config.WriteSettings(p.Settings, cfg.DumpSettings); err != nil {
			return fmt.Errorf("failed to write settings: %w", err)
		}
		fmt.Fprintf(p.Out, "[*] Settings written to %s\n", cfg.DumpSettings)
	}

	if cfg.ShowStats {
		p.report(res, analyzeTime, time.Since(startTime))
	}

	return nil
}

func (p *Project) write(res director.Result, settings config.Settings, path string) error {
	doc := director.NewDocument(res, settings)
	if !p.Config.Segments {
		doc.Segments = nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := director.WriteDocument(doc, path); err != nil {
		return fmt.Errorf("failed to write track: %w", err)
	}
	return nil
}

// VariantPath derives the preview filename for a zoom intensity from the
// main output path
func VariantPath(outputPath string, intensity float64) string {
	ext := filepath.Ext(outputPath)
	base := strings.TrimSuffix(outputPath, ext)
	if ext == "" {
		ext = ".yaml"
	}
	return fmt.Sprintf("%s_x%.2f%s", base, intensity, ext)
}

func (p *Project) report(res director.Result, analyzeTime, totalTime time.Duration) {
	var b strings.Builder
	b.WriteString("--- [PERFORMANCE REPORT] ---\n")
	fmt.Fprintf(&b, "Build: %s\n", p.Config.BuildVersion)
	fmt.Fprintf(&b, "Total Time: %.3fs\n", totalTime.Seconds())
	if p.Frames != nil {
		fmt.Fprintf(&b, "Frame analysis: %.3fs\n", analyzeTime.Seconds())
	}
	for _, st := range res.Timings {
		fmt.Fprintf(&b, "Stage %-10s %.3fms\n", st.Stage+":", float64(st.Elapsed.Microseconds())/1000)
	}
	stats, err := system.ReadStats()
	if err != nil {
		log.Warn("failed to read process stats", "error", err)
	} else {
		fmt.Fprintf(&b, "Process: %s\n", stats)
	}
	b.WriteString("----------------------------\n")
	fmt.Fprint(p.Out, b.String())

	entry := fmt.Sprintf("[%s] Build: %s | Input: %s | Samples: %d | Total: %.3fs | Analyze: %.3fs\n",
		p.now().Format("2006-01-02 15:04:05"),
		p.Config.BuildVersion,
		filepath.Base(p.Config.InputPath),
		len(res.Trajectory),
		totalTime.Seconds(),
		analyzeTime.Seconds(),
	)

	f, err := os.OpenFile("benchmark.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.Warn("failed to write benchmark.log", "error", err)
		return
	}
	defer f.Close()
	if _, err := f.WriteString(entry); err != nil {
		log.Warn("failed to write benchmark.log", "error", err)
	}
}
