package sampler

import (
	"math"
	"testing"

	"github.com/ivlev/autocam/internal/events"
)

// densePositions returns a pointer stream at the given rate over duration
func densePositions(duration, rate float64) []events.MousePosition {
	n := int(duration * rate)
	out := make([]events.MousePosition, n)
	for i := 0; i < n; i++ {
		t := float64(i) / rate
		out[i] = events.MousePosition{
			Time:     t,
			Position: events.NormalizedPoint{X: 0.5 + 0.4*math.Sin(t), Y: 0.5},
		}
	}
	return out
}

func TestSampleZoneRates(t *testing.T) {
	positions := densePositions(10, 120)
	anchors := []float64{5.0}

	cfg := DefaultConfig()
	cfg.MaxAverageRate = 1000 // budget out of the way

	res := Sample(positions, anchors, 10, cfg)
	d := res.Diagnostics

	if d.SourceCount != 1200 {
		t.Fatalf("expected 1200 source samples, got %d", d.SourceCount)
	}
	if d.BudgetApplied {
		t.Error("budget should not be applied")
	}
	if d.BurstCount == 0 || d.BoundaryCount == 0 || d.BaseCount == 0 {
		t.Errorf("expected all zones populated, got %+v", d)
	}

	// 0.7s of burst at 60Hz vs ~7.3s of base at 8Hz
	burstRate := float64(d.BurstCount) / (2 * cfg.BurstWindow)
	if burstRate < 50 {
		t.Errorf("burst zone too sparse: %.1f samples/s", burstRate)
	}
	if d.MissedAnchors != 0 {
		t.Errorf("expected no missed anchors, got %d", d.MissedAnchors)
	}

	for i := 1; i < len(res.Samples); i++ {
		if res.Samples[i].Time < res.Samples[i-1].Time {
			t.Fatalf("output not time-sorted at %d", i)
		}
	}
}

func TestSampleBudgetEnforcement(t *testing.T) {
	positions := densePositions(20, 120)
	var anchors []float64
	for a := 0.5; a < 20; a += 0.7 {
		anchors = append(anchors, a)
	}

	tests := []struct {
		name string
		rate float64
	}{
		{"tight", 5},
		{"moderate", 12},
		{"very tight", 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.MaxAverageRate = tt.rate

			unrestricted := DefaultConfig()
			unrestricted.MaxAverageRate = 10000
			full := Sample(positions, anchors, 20, unrestricted)

			res := Sample(positions, anchors, 20, cfg)
			budget := int(math.Ceil(20 * tt.rate))

			if full.Diagnostics.SampleCount <= budget {
				t.Fatalf("test setup: unrestricted count %d not above budget %d", full.Diagnostics.SampleCount, budget)
			}
			if len(res.Samples) > budget {
				t.Errorf("sample count %d exceeds budget %d", len(res.Samples), budget)
			}
			if !res.Diagnostics.BudgetApplied {
				t.Error("expected budgetApplied")
			}
			if res.Diagnostics.Budget != budget {
				t.Errorf("budget diagnostic %d, want %d", res.Diagnostics.Budget, budget)
			}
			for i := 1; i < len(res.Samples); i++ {
				if res.Samples[i].Time < res.Samples[i-1].Time {
					t.Fatalf("output not time-sorted at %d", i)
				}
			}
		})
	}
}

func TestSampleBudgetUsesDeclaredDuration(t *testing.T) {
	// pointer data runs ten seconds past the declared end
	positions := densePositions(20, 120)
	cfg := DefaultConfig()
	cfg.MaxAverageRate = 5

	res := Sample(positions, []float64{2, 15}, 10, cfg)
	if res.Diagnostics.Budget != 50 {
		t.Errorf("budget %d, want ceil(10 * 5) = 50", res.Diagnostics.Budget)
	}
	if len(res.Samples) > 50 || !res.Diagnostics.BudgetApplied {
		t.Errorf("got %d samples (applied=%v), want at most 50", len(res.Samples), res.Diagnostics.BudgetApplied)
	}

	// without a declared duration the stream extent sets the budget
	res = Sample(positions, nil, 0, cfg)
	want := budgetFor(positions[len(positions)-1].Time, 5)
	if res.Diagnostics.Budget != want || len(res.Samples) == 0 || len(res.Samples) > want {
		t.Errorf("budget %d with %d samples, want %d", res.Diagnostics.Budget, len(res.Samples), want)
	}
}

func TestSampleKeepsAnchorsUnderBudget(t *testing.T) {
	positions := densePositions(10, 120)
	anchors := []float64{1.0, 4.0, 7.5}

	cfg := DefaultConfig()
	cfg.MaxAverageRate = 3

	res := Sample(positions, anchors, 10, cfg)
	if res.Diagnostics.MissedAnchors != 0 {
		t.Errorf("expected anchors kept, missed %d", res.Diagnostics.MissedAnchors)
	}

	for _, a := range anchors {
		found := false
		for _, s := range res.Samples {
			if math.Abs(s.Time-a) <= cfg.AnchorTolerance {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("no sample near anchor %.2f", a)
		}
	}
}

func TestSampleMissedAnchorWithoutSource(t *testing.T) {
	positions := []events.MousePosition{
		{Time: 0}, {Time: 0.1}, {Time: 0.2},
	}
	res := Sample(positions, []float64{5.0}, 6, DefaultConfig())
	if res.Diagnostics.MissedAnchors != 1 {
		t.Errorf("expected 1 missed anchor, got %d", res.Diagnostics.MissedAnchors)
	}
}

func TestSampleEmpty(t *testing.T) {
	res := Sample(nil, nil, 0, DefaultConfig())
	if len(res.Samples) != 0 {
		t.Errorf("expected no samples, got %d", len(res.Samples))
	}
	if res.Diagnostics.BudgetApplied {
		t.Error("budget should not apply to empty input")
	}
}

func TestSampleUnsortedInput(t *testing.T) {
	positions := []events.MousePosition{
		{Time: 2}, {Time: 0}, {Time: 1},
	}
	res := Sample(positions, nil, 3, DefaultConfig())
	for i := 1; i < len(res.Samples); i++ {
		if res.Samples[i].Time < res.Samples[i-1].Time {
			t.Fatalf("output not time-sorted: %+v", res.Samples)
		}
	}
	if positions[0].Time != 2 {
		t.Error("input slice was mutated")
	}
}

func TestSanitize(t *testing.T) {
	cfg := Config{MaxAverageRate: -5, BaseInterval: math.NaN(), GapThreshold: 0}.Sanitize()
	if cfg.MaxAverageRate != 0.1 {
		t.Errorf("rate not clamped: %f", cfg.MaxAverageRate)
	}
	if math.IsNaN(cfg.BaseInterval) {
		t.Error("NaN interval survived sanitize")
	}
	if cfg.GapThreshold < 0.1 {
		t.Errorf("gap threshold not clamped: %f", cfg.GapThreshold)
	}
}

func TestStrideSelect(t *testing.T) {
	list := []int{10, 11, 12, 13, 14, 15, 16, 17, 18, 19}

	got := strideSelect(list, 4)
	want := []int{10, 13, 16, 19}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got %v, want %v", got, want)
			break
		}
	}

	if n := len(strideSelect(list, 20)); n != len(list) {
		t.Errorf("k above length should return all, got %d", n)
	}
	if strideSelect(list, 0) != nil {
		t.Error("k=0 should return nil")
	}
}
