// Package sampler reduces a dense pointer-motion stream to a bounded set of
// samples. Motion close to user actions is kept at a fine rate, motion far
// from any action at a coarse one.
package sampler

import (
	"math"
	"sort"

	"github.com/ivlev/autocam/internal/events"
)

// Zone is the sampling tier a timestamp falls into
type Zone int

const (
	ZoneBase Zone = iota
	ZoneBoundary
	ZoneBurst
)

func (z Zone) String() string {
	switch z {
	case ZoneBurst:
		return "burst"
	case ZoneBoundary:
		return "boundary"
	default:
		return "base"
	}
}

// Budget split between zones when the rate budget is exceeded
const (
	burstShare    = 0.5
	boundaryShare = 0.3
)

// Diagnostics describes what the sampler did
type Diagnostics struct {
	SourceCount   int     `yaml:"source_count"`
	SampleCount   int     `yaml:"sample_count"`
	BurstCount    int     `yaml:"burst_count"`
	BoundaryCount int     `yaml:"boundary_count"`
	BaseCount     int     `yaml:"base_count"`
	AnchorCount   int     `yaml:"anchor_count"`
	MissedAnchors int     `yaml:"missed_anchors"`
	Budget        int     `yaml:"budget"`
	BudgetApplied bool    `yaml:"budget_applied"`
	AchievedRate  float64 `yaml:"achieved_rate"`
}

// Result is the reduced stream plus diagnostics
type Result struct {
	Samples     []events.MousePosition
	Diagnostics Diagnostics
}

// Sample reduces positions using the three-tier policy in cfg. Anchors are
// action timestamps in any order. Positions are expected in time order; an
// unsorted input is sorted on a copy first.
func Sample(positions []events.MousePosition, anchors []float64, duration float64, cfg Config) Result {
	cfg = cfg.Sanitize()

	src := positions
	if !sort.SliceIsSorted(src, func(i, j int) bool { return src[i].Time < src[j].Time }) {
		src = make([]events.MousePosition, len(positions))
		copy(src, positions)
		sort.SliceStable(src, func(i, j int) bool { return src[i].Time < src[j].Time })
	}

	sortedAnchors := uniqueSorted(anchors)
	diag := Diagnostics{
		SourceCount: len(src),
		AnchorCount: len(sortedAnchors),
	}

	// Zones span the whole stream, but the budget is ceil(duration * rate)
	// of the declared duration. The stream extent stands in only when no
	// duration was given.
	extent := duration
	if len(src) > 0 && src[len(src)-1].Time > extent {
		extent = src[len(src)-1].Time
	}
	if duration <= 0 {
		duration = extent
	}
	diag.Budget = budgetFor(duration, cfg.MaxAverageRate)

	if len(src) == 0 {
		diag.MissedAnchors = len(sortedAnchors)
		return Result{Diagnostics: diag}
	}

	times := make([]float64, len(src))
	for i, p := range src {
		times[i] = p.Time
	}

	markers := boundaryMarkers(times, sortedAnchors, extent, cfg)
	zones := make([]Zone, len(src))
	for i, t := range times {
		zones[i] = classify(t, sortedAnchors, markers, cfg)
	}

	reserved := anchorNearest(times, sortedAnchors, cfg.AnchorTolerance)
	accepted := firstPass(times, zones, reserved, cfg)

	selected := accepted
	if len(accepted) > diag.Budget {
		selected = applyBudget(accepted, zones, reserved, diag.Budget)
		diag.BudgetApplied = true
	}

	out := make([]events.MousePosition, len(selected))
	outTimes := make([]float64, len(selected))
	for i, idx := range selected {
		out[i] = src[idx]
		outTimes[i] = times[idx]
		switch zones[idx] {
		case ZoneBurst:
			diag.BurstCount++
		case ZoneBoundary:
			diag.BoundaryCount++
		default:
			diag.BaseCount++
		}
	}

	diag.SampleCount = len(out)
	diag.MissedAnchors = countMissed(outTimes, sortedAnchors, cfg.AnchorTolerance)
	if duration > 0 {
		diag.AchievedRate = float64(len(out)) / duration
	}

	return Result{Samples: out, Diagnostics: diag}
}

// budgetFor returns ceil(duration * rate), tolerant of float noise
func budgetFor(duration, rate float64) int {
	if duration <= 0 {
		return 0
	}
	return int(math.Ceil(duration*rate - 1e-9))
}

// firstPass accepts a sample when the time since the last accepted sample
// meets the interval of its zone. Reserved samples are always accepted.
func firstPass(times []float64, zones []Zone, reserved map[int]bool, cfg Config) []int {
	accepted := make([]int, 0, len(times))
	last := math.Inf(-1)
	for i, t := range times {
		if reserved[i] || len(accepted) == 0 || t-last >= cfg.interval(zones[i])-1e-9 {
			accepted = append(accepted, i)
			last = t
		}
	}
	return accepted
}

// applyBudget re-selects at most budget indices from accepted. Anchor-nearest
// samples go first, then each zone gets its share by index stride and any
// unused budget is topped up burst first.
func applyBudget(accepted []int, zones []Zone, reserved map[int]bool, budget int) []int {
	if budget <= 0 {
		return nil
	}

	var keep []int
	byZone := map[Zone][]int{}
	for _, idx := range accepted {
		if reserved[idx] {
			keep = append(keep, idx)
			continue
		}
		byZone[zones[idx]] = append(byZone[zones[idx]], idx)
	}

	if len(keep) >= budget {
		return strideSelect(keep, budget)
	}

	remaining := budget - len(keep)
	quotas := map[Zone]int{
		ZoneBurst:    int(float64(remaining) * burstShare),
		ZoneBoundary: int(float64(remaining) * boundaryShare),
	}
	quotas[ZoneBase] = remaining - quotas[ZoneBurst] - quotas[ZoneBoundary]

	priority := []Zone{ZoneBurst, ZoneBoundary, ZoneBase}
	chosen := map[int]bool{}
	for _, z := range priority {
		for _, idx := range strideSelect(byZone[z], quotas[z]) {
			chosen[idx] = true
		}
	}

	leftover := remaining - len(chosen)
	for _, z := range priority {
		if leftover <= 0 {
			break
		}
		var unused []int
		for _, idx := range byZone[z] {
			if !chosen[idx] {
				unused = append(unused, idx)
			}
		}
		extra := strideSelect(unused, leftover)
		for _, idx := range extra {
			chosen[idx] = true
		}
		leftover -= len(extra)
	}

	for _, idx := range keep {
		chosen[idx] = true
	}

	out := make([]int, 0, len(chosen))
	for idx := range chosen {
		out = append(out, idx)
	}
	sort.Ints(out)
	return out
}

// strideSelect picks k evenly spaced elements, first and last included
func strideSelect(list []int, k int) []int {
	n := len(list)
	if k <= 0 || n == 0 {
		return nil
	}
	if k >= n {
		return append([]int(nil), list...)
	}
	if k == 1 {
		return []int{list[(n-1)/2]}
	}

	out := make([]int, k)
	step := float64(n-1) / float64(k-1)
	for i := 0; i < k; i++ {
		out[i] = list[int(math.Round(float64(i)*step))]
	}
	return out
}

// anchorNearest maps each anchor to its time-nearest sample when that sample
// lies within tolerance
func anchorNearest(times, anchors []float64, tolerance float64) map[int]bool {
	reserved := make(map[int]bool, len(anchors))
	for _, a := range anchors {
		idx := nearestIndex(times, a)
		if idx >= 0 && math.Abs(times[idx]-a) <= tolerance {
			reserved[idx] = true
		}
	}
	return reserved
}

func countMissed(times, anchors []float64, tolerance float64) int {
	missed := 0
	for _, a := range anchors {
		idx := nearestIndex(times, a)
		if idx < 0 || math.Abs(times[idx]-a) > tolerance {
			missed++
		}
	}
	return missed
}

// nearestIndex returns the index of the value in sorted closest to t, or -1
func nearestIndex(sorted []float64, t float64) int {
	if len(sorted) == 0 {
		return -1
	}
	i := sort.SearchFloat64s(sorted, t)
	if i == 0 {
		return 0
	}
	if i == len(sorted) {
		return len(sorted) - 1
	}
	if t-sorted[i-1] <= sorted[i]-t {
		return i - 1
	}
	return i
}

// nearestDistance returns the distance from t to the closest value in sorted
func nearestDistance(sorted []float64, t float64) float64 {
	idx := nearestIndex(sorted, t)
	if idx < 0 {
		return math.Inf(1)
	}
	return math.Abs(sorted[idx] - t)
}

func classify(t float64, anchors, markers []float64, cfg Config) Zone {
	d := nearestDistance(anchors, t)
	if d <= cfg.BurstWindow {
		return ZoneBurst
	}
	if d <= cfg.BoundaryWindow || nearestDistance(markers, t) <= cfg.BoundaryWindow {
		return ZoneBoundary
	}
	return ZoneBase
}

// boundaryMarkers returns the edges of large gaps: pointer motion resuming
// after a pause, and the recording edges when no action happens near them
func boundaryMarkers(times, anchors []float64, duration float64, cfg Config) []float64 {
	var markers []float64
	for i := 1; i < len(times); i++ {
		if times[i]-times[i-1] >= cfg.GapThreshold {
			markers = append(markers, times[i-1], times[i])
		}
	}

	if len(anchors) == 0 {
		markers = append(markers, 0, duration)
	} else {
		if anchors[0] >= cfg.GapThreshold {
			markers = append(markers, 0)
		}
		if duration-anchors[len(anchors)-1] >= cfg.GapThreshold {
			markers = append(markers, duration)
		}
		for i := 1; i < len(anchors); i++ {
			if anchors[i]-anchors[i-1] >= cfg.GapThreshold {
				markers = append(markers, anchors[i-1], anchors[i])
			}
		}
	}
	return uniqueSorted(markers)
}

func uniqueSorted(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	sort.Float64s(out)
	j := 0
	for i := range out {
		if i == 0 || out[i] != out[j-1] {
			out[j] = out[i]
			j++
		}
	}
	return out[:j]
}
