package analyzer

import (
	"math"
	"sort"

	"github.com/ivlev/autocam/internal/events"
)

// MotionVector is the dominant content shift between two frames, in
// normalized units
type MotionVector struct {
	DX float64 `yaml:"dx"`
	DY float64 `yaml:"dy"`
}

// FrameSample is the visual analysis of the recording at one instant
type FrameSample struct {
	Time         float64                 `yaml:"time"`
	ChangeAmount float64                 `yaml:"change_amount"` // 0 = identical, 1 = fully changed
	MotionVector MotionVector            `yaml:"motion_vector"`
	IsScrolling  bool                    `yaml:"is_scrolling"`
	Similarity   float64                 `yaml:"similarity"`
	Saliency     *events.NormalizedPoint `yaml:"saliency,omitempty"`
}

// Lookup returns the time-sorted sample nearest to t within window, or nil
func Lookup(samples []FrameSample, t, window float64) *FrameSample {
	if len(samples) == 0 {
		return nil
	}
	i := sort.Search(len(samples), func(i int) bool { return samples[i].Time >= t })

	best := -1
	bestDist := math.Inf(1)
	for _, j := range []int{i - 1, i} {
		if j < 0 || j >= len(samples) {
			continue
		}
		if d := math.Abs(samples[j].Time - t); d < bestDist {
			best, bestDist = j, d
		}
	}
	if best < 0 || bestDist > window {
		return nil
	}
	return &samples[best]
}
