package scoring

import (
	"math"
	"testing"

	"github.com/Manojmanu696/ai-code-intelligence-platform/internal/model"
)

func metricsWith(low, medium, high, loc int) model.MetricsReport {
	return model.MetricsReport{
		Totals: model.Totals{
			BySeverity: map[string]int{"low": low, "medium": medium, "high": high},
			LOC:        loc,
		},
	}
}

func TestZeroIssueBaseline(t *testing.T) {
	s := Compute(metricsWith(0, 0, 0, 0))
	if s.FinalScore != 100.0 {
		t.Errorf("final_score = %v, want 100.0", s.FinalScore)
	}
	if s.Penalty != 0.0 {
		t.Errorf("penalty = %v, want 0.0", s.Penalty)
	}
}

func TestScoreBounds(t *testing.T) {
	cases := []struct {
		name string
		m    model.MetricsReport
	}{
		{"no totals", model.MetricsReport{}},
		{"huge counts", metricsWith(1_000_000, 1_000_000, 1_000_000, 10)},
		{"negative counts", metricsWith(-5, -2, -9, 100)},
		{"negative loc", metricsWith(3, 1, 0, -50)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := Compute(tc.m)
			if s.FinalScore < 0.0 || s.FinalScore > 100.0 {
				t.Errorf("final_score = %v out of [0,100]", s.FinalScore)
			}
			if s.Penalty < 0.0 {
				t.Errorf("penalty = %v, want >= 0", s.Penalty)
			}
		})
	}
}

func TestNegativeCountsTreatedAsZero(t *testing.T) {
	s := Compute(metricsWith(-5, -2, -9, 100))
	if s.FinalScore != 100.0 {
		t.Errorf("final_score = %v, want 100.0", s.FinalScore)
	}
	if s.Breakdown != (model.SeverityCounts{}) {
		t.Errorf("breakdown = %+v, want zeros", s.Breakdown)
	}
}

func TestLOCFallback(t *testing.T) {
	s := Compute(metricsWith(10, 0, 0, 0))
	if s.LOC != FallbackLOC {
		t.Errorf("loc = %d, want fallback %d", s.LOC, FallbackLOC)
	}
}

func TestMonotonicity(t *testing.T) {
	base := Compute(metricsWith(5, 3, 1, 2000)).FinalScore
	cases := []struct {
		name string
		m    model.MetricsReport
	}{
		{"more low", metricsWith(6, 3, 1, 2000)},
		{"more medium", metricsWith(5, 4, 1, 2000)},
		{"more high", metricsWith(5, 3, 2, 2000)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Compute(tc.m).FinalScore; got > base {
				t.Errorf("score rose from %v to %v when adding an issue", base, got)
			}
		})
	}
}

func TestSeverityWeightOrdering(t *testing.T) {
	low := Compute(metricsWith(1, 0, 0, 1000))
	medium := Compute(metricsWith(0, 1, 0, 1000))
	high := Compute(metricsWith(0, 0, 1, 1000))
	if !(high.Penalty > medium.Penalty && medium.Penalty > low.Penalty) {
		t.Errorf("penalties not ordered by severity: low=%v medium=%v high=%v",
			low.Penalty, medium.Penalty, high.Penalty)
	}
}

func TestDiminishingReturns(t *testing.T) {
	// doubling density must not double the penalty
	once := Compute(metricsWith(100, 0, 0, 1000)).Penalty
	twice := Compute(metricsWith(200, 0, 0, 1000)).Penalty
	if twice >= 2*once {
		t.Errorf("penalty not log-damped: %v -> %v", once, twice)
	}
}

func TestPenaltyBreakdownAndDensity(t *testing.T) {
	s := Compute(metricsWith(10, 2, 1, 1000))
	if s.DensityPerKLOC.Low != 10.0 || s.DensityPerKLOC.Medium != 2.0 || s.DensityPerKLOC.High != 1.0 {
		t.Errorf("density = %+v", s.DensityPerKLOC)
	}
	wantHigh := round2(WeightHigh * math.Log1p(1.0))
	if s.PenaltyBreakdown.High != wantHigh {
		t.Errorf("penalty_breakdown.high = %v, want %v", s.PenaltyBreakdown.High, wantHigh)
	}
	if s.Method != "density_log_v1" {
		t.Errorf("method = %q", s.Method)
	}
	if s.Weights != (model.SeverityWeights{Low: 6.0, Medium: 14.0, High: 45.0}) {
		t.Errorf("weights = %+v", s.Weights)
	}
}

func TestRoundedToTwoDecimals(t *testing.T) {
	s := Compute(metricsWith(7, 3, 1, 937))
	for name, v := range map[string]float64{
		"final_score": s.FinalScore,
		"penalty":     s.Penalty,
		"p_low":       s.PenaltyBreakdown.Low,
		"d_low":       s.DensityPerKLOC.Low,
	} {
		if math.Abs(v*100-math.Round(v*100)) > 1e-9 {
			t.Errorf("%s = %v not rounded to 2 decimals", name, v)
		}
	}
}
