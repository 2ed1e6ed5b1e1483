package analyzer

import (
	"context"
	"fmt"
	"image"
	"math"
	"sync"

	"golang.org/x/image/draw"

	"github.com/ivlev/autocam/internal/events"
	"github.com/ivlev/autocam/internal/source"
	"github.com/ivlev/autocam/internal/system"
)

// DiffAnalyzer derives frame samples by comparing consecutive frames
type DiffAnalyzer struct {
	Config Config
}

func NewDiffAnalyzer(cfg Config) *DiffAnalyzer {
	return &DiffAnalyzer{Config: cfg.Sanitize()}
}

// Analyze returns one sample per frame of src, in frame order. The first
// frame has nothing to compare against and reports no change.
func (a *DiffAnalyzer) Analyze(ctx context.Context, src source.FrameSource) ([]FrameSample, error) {
	count := src.FrameCount()
	if count == 0 {
		return nil, source.ErrNoFrames
	}

	grays := make([]*image.Gray, count)
	defer func() {
		for _, g := range grays {
			system.PutGray(g)
		}
	}()

	// jobs -> prepare pool -> grays, then pairs -> compare pool -> samples
	if err := a.run(ctx, count, func(i int) error {
		img, err := src.Frame(i)
		if err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
		grays[i] = a.downsample(img)
		return nil
	}); err != nil {
		return nil, err
	}

	samples := make([]FrameSample, count)
	samples[0] = FrameSample{Time: src.FrameTime(0), Similarity: 1}

	if err := a.run(ctx, count-1, func(j int) error {
		i := j + 1
		samples[i] = a.Compare(grays[i-1], grays[i])
		samples[i].Time = src.FrameTime(i)
		return nil
	}); err != nil {
		return nil, err
	}

	return samples, nil
}

// run feeds indices 0..n-1 to a bounded worker pool and returns the first
// error
func (a *DiffAnalyzer) run(ctx context.Context, n int, work func(i int) error) error {
	if n <= 0 {
		return nil
	}

	jobs := make(chan int, n)
	var wg sync.WaitGroup
	var once sync.Once
	var firstErr error

	workers := max(min(a.Config.Workers, n), 1)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if err := ctx.Err(); err != nil {
					once.Do(func() { firstErr = err })
					continue
				}
				if err := work(i); err != nil {
					once.Do(func() { firstErr = err })
				}
			}
		}()
	}

	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return firstErr
}

// downsample converts img to a pooled grayscale buffer of the analysis width
func (a *DiffAnalyzer) downsample(img image.Image) *image.Gray {
	b := img.Bounds()
	w := min(a.Config.Width, b.Dx())
	h := 1
	if b.Dx() > 0 {
		h = max(int(math.Round(float64(b.Dy())*float64(w)/float64(b.Dx()))), 1)
	}
	w = max(w, 1)

	rect := image.Rect(0, 0, w, h)
	dst := system.GetGray(rect)
	if w == b.Dx() && h == b.Dy() {
		draw.Draw(dst, rect, img, b.Min, draw.Src)
	} else {
		draw.ApproxBiLinear.Scale(dst, rect, img, b, draw.Src, nil)
	}
	return dst
}

// Compare measures the change from prev to cur. Frames of different size
// count as a full change.
func (a *DiffAnalyzer) Compare(prev, cur *image.Gray) FrameSample {
	if prev.Rect != cur.Rect {
		return FrameSample{ChangeAmount: 1}
	}
	cfg := a.Config
	w, h := float64(cur.Rect.Dx()), float64(cur.Rect.Dy())

	mask, changed, meanDiff := diffMask(prev, cur, cfg.PixelThreshold)
	sample := FrameSample{
		ChangeAmount: changed,
		Similarity:   1 - meanDiff,
	}

	if changed > 0 {
		prevEdges := sobelEdges(prev, cfg.EdgeThreshold)
		curEdges := sobelEdges(cur, cfg.EdgeThreshold)
		px, py, okPrev := edgeCentroid(prevEdges)
		cx, cy, okCur := edgeCentroid(curEdges)
		system.PutGray(prevEdges)
		system.PutGray(curEdges)

		if okPrev && okCur {
			sample.MotionVector = MotionVector{DX: (cx - px) / w, DY: (cy - py) / h}
		}
	}

	mv := sample.MotionVector
	sample.IsScrolling = changed >= cfg.ScrollMinChange &&
		math.Abs(mv.DY) >= cfg.ScrollMinShift &&
		math.Abs(mv.DY) > 2*math.Abs(mv.DX)

	mask = dilate(mask, cfg.DilateKernel, cfg.DilateIterations)
	if r, ok := largestRegion(findRegions(mask), cfg.MinRegionArea); ok {
		x, y := r.Centroid()
		sample.Saliency = &events.NormalizedPoint{X: x / w, Y: y / h}
	}
	system.PutGray(mask)

	return sample
}

func largestRegion(regions []region, minArea int) (region, bool) {
	best := -1
	for i, r := range regions {
		if r.Area >= minArea && (best < 0 || r.Area > regions[best].Area) {
			best = i
		}
	}
	if best < 0 {
		return region{}, false
	}
	return regions[best], true
}
